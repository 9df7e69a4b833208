// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
package ports

import (
	"context"

	"github.com/everflowlogistics/quote-relay/internal/domain"
)

// EmailSender delivers a composed notification through an email provider.
//
// Implementations make exactly one delivery attempt per call. A rejected or
// failed attempt is reported as a *domain.DeliveryError so callers can log
// the provider detail without exposing it.
type EmailSender interface {
	// Send hands the notification to the provider and returns its receipt.
	Send(ctx context.Context, n *domain.Notification) (*domain.Receipt, error)
}
