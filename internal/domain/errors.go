// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/gRPC/etc by adapters.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrValidation indicates the submitted quote request is incomplete.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration indicates the service is missing required settings.
	ErrConfiguration = errors.New("configuration incomplete")

	// ErrDelivery indicates the email provider did not accept the notification.
	ErrDelivery = errors.New("delivery failed")

	// ErrMethodNotAllowed indicates the request used an unsupported method.
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// ValidationError lists the required fields that were missing or blank.
type ValidationError struct {
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	return "validation failed: missing " + strings.Join(e.Fields, ", ")
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error naming the missing fields.
func NewValidationError(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// ConfigurationError lists the configuration keys that are absent.
// Only key names are recorded, never their values.
type ConfigurationError struct {
	Missing []string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "configuration incomplete: missing " + strings.Join(e.Missing, ", ")
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// NewConfigurationError creates a configuration error naming the missing keys.
func NewConfigurationError(missing ...string) error {
	return &ConfigurationError{Missing: missing}
}

// DeliveryError carries the provider's failure detail.
// Detail is for operators; it must never be written to an HTTP response.
type DeliveryError struct {
	Provider   string
	StatusCode int
	Detail     string
	Err        error
}

// Error implements the error interface.
func (e *DeliveryError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s delivery failed", e.Provider)

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}

	switch {
	case e.Detail != "":
		b.WriteString(": " + e.Detail)
	case e.Err != nil:
		b.WriteString(": " + e.Err.Error())
	}

	return b.String()
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *DeliveryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDelivery}
	}

	return []error{ErrDelivery, e.Err}
}

// NewDeliveryError wraps a provider failure.
func NewDeliveryError(provider string, err error) error {
	return &DeliveryError{Provider: provider, Err: err}
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConfiguration checks if an error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsDelivery checks if an error is a delivery error.
func IsDelivery(err error) bool {
	return errors.Is(err, ErrDelivery)
}

// IsMethodNotAllowed checks if an error is a method-not-allowed error.
func IsMethodNotAllowed(err error) bool {
	return errors.Is(err, ErrMethodNotAllowed)
}
