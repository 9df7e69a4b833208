package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/everflowlogistics/quote-relay/internal/platform/logging"
)

// Relay pattern: Check → Validate → Prepare → Perform
//
// Each step runs only when the previous one succeeded, and a failure is
// wrapped in an ExecutionError naming the step. Nothing is persisted between
// steps, so a failed operation leaves no state behind and the caller decides
// whether to resubmit.
//
//   1. CHECK    - preconditions owned by the service (configuration)
//   2. VALIDATE - the caller's input
//   3. PREPARE  - derive the outbound payload from the input
//   4. PERFORM  - exactly one call to the external collaborator

// ExecutionStep represents a step in the relay pattern.
type ExecutionStep string

const (
	StepCheck    ExecutionStep = "check"
	StepValidate ExecutionStep = "validate"
	StepPrepare  ExecutionStep = "prepare"
	StepPerform  ExecutionStep = "perform"
)

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func newExecutionError(step ExecutionStep, message string, cause error) error {
	return &ExecutionError{Step: step, Message: message, Cause: cause}
}

// Executor runs operations using the relay pattern.
// It provides logging and error handling at each step.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates a new executor with the given logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation defines the functions for each step of the relay pattern.
// Nil steps are skipped; a nil Prepare passes the zero P to Perform.
type Operation[I, P, O any] struct {
	// Name identifies this operation for logging.
	Name string

	// Check verifies preconditions that do not depend on the input.
	Check func(ctx context.Context) error

	// Validate checks the input. Failures are the caller's fault.
	Validate func(ctx context.Context, input I) error

	// Prepare builds the payload handed to Perform.
	Prepare func(ctx context.Context, input I) (P, error)

	// Perform hands the payload to the external collaborator.
	Perform func(ctx context.Context, prepared P) (O, error)
}

// Execute runs an operation through the relay pattern.
func Execute[I, P, O any](ctx context.Context, exec *Executor, op Operation[I, P, O], input I) (O, error) {
	var zero O

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	if op.Check != nil {
		err := op.Check(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "precondition failed", slog.Any("error", err))

			return zero, newExecutionError(StepCheck, "precondition not met", err)
		}
	}

	if op.Validate != nil {
		err := op.Validate(ctx, input)
		if err != nil {
			logger.WarnContext(ctx, "validation failed", slog.Any("error", err))

			return zero, newExecutionError(StepValidate, "input validation failed", err)
		}
	}

	var prepared P

	if op.Prepare != nil {
		var err error

		prepared, err = op.Prepare(ctx, input)
		if err != nil {
			logger.ErrorContext(ctx, "prepare failed", slog.Any("error", err))

			return zero, newExecutionError(StepPrepare, "payload preparation failed", err)
		}
	}

	logger.DebugContext(ctx, "performing operation")

	result, err := op.Perform(ctx, prepared)
	if err != nil {
		logger.ErrorContext(ctx, "perform failed",
			slog.Any("error", err),
			slog.Duration("duration", time.Since(start)),
		)

		return zero, newExecutionError(StepPerform, "operation failed", err)
	}

	logger.InfoContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
