// Package app contains application services that orchestrate use cases.
// This is the application layer: it coordinates domain types and the email
// provider through ports, and knows nothing about HTTP.
package app

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/everflowlogistics/quote-relay/internal/domain"
	"github.com/everflowlogistics/quote-relay/internal/platform/metrics"
	"github.com/everflowlogistics/quote-relay/internal/platform/telemetry"
	"github.com/everflowlogistics/quote-relay/internal/ports"
)

// QuoteRequestService relays freight-quote submissions to the sales inbox.
// It depends on the EmailSender port, not a concrete provider.
type QuoteRequestService struct {
	sender   ports.EmailSender
	mail     MailSettings
	executor *Executor
	metrics  *metrics.Recorder
	tracer   trace.Tracer
}

// QuoteRequestServiceConfig contains the dependencies of the service.
type QuoteRequestServiceConfig struct {
	Sender  ports.EmailSender
	Mail    MailSettings
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// NewQuoteRequestService creates the service. It panics when no sender is given.
func NewQuoteRequestService(cfg QuoteRequestServiceConfig) *QuoteRequestService {
	if cfg.Sender == nil {
		panic("app: QuoteRequestService requires an EmailSender")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteRequestService{
		sender:   cfg.Sender,
		mail:     cfg.Mail,
		executor: NewExecutor(logger.With(slog.String("component", "app.QuoteRequestService"))),
		metrics:  cfg.Metrics,
		tracer:   telemetry.Tracer(),
	}
}

// Submit checks configuration, validates req, composes the notification and
// hands it to the email provider exactly once.
//
// Errors wrap domain.ErrConfiguration, domain.ErrValidation or
// domain.ErrDelivery. Provider detail stays inside the error for logging.
func (s *QuoteRequestService) Submit(ctx context.Context, req *domain.QuoteRequest) (*domain.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "QuoteRequestService.Submit")
	defer span.End()

	if req == nil {
		req = &domain.QuoteRequest{}
	}

	receipt, err := Execute(ctx, s.executor, Operation[*domain.QuoteRequest, *domain.Notification, *domain.Receipt]{
		Name:     "submit_quote_request",
		Check:    s.checkMailConfigured,
		Validate: func(_ context.Context, r *domain.QuoteRequest) error { return ValidateQuoteRequest(r) },
		Prepare: func(_ context.Context, r *domain.QuoteRequest) (*domain.Notification, error) {
			return ComposeNotification(r, s.mail)
		},
		Perform: s.dispatch,
	}, req)

	s.metrics.IncQuoteRequest(outcome(err))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome(err))

		return nil, err
	}

	if receipt != nil {
		span.SetAttributes(attribute.String("email.message_id", receipt.MessageID))
	}

	return receipt, nil
}

// Name implements ports.HealthChecker.
func (s *QuoteRequestService) Name() string {
	return "mail-configuration"
}

// Check implements ports.HealthChecker. The service is not ready while any
// mail setting is missing, since every submission would fail.
func (s *QuoteRequestService) Check(ctx context.Context) error {
	return s.checkMailConfigured(ctx)
}

func (s *QuoteRequestService) checkMailConfigured(context.Context) error {
	if len(s.mail.Missing) > 0 {
		return domain.NewConfigurationError(s.mail.Missing...)
	}

	return nil
}

func (s *QuoteRequestService) dispatch(ctx context.Context, n *domain.Notification) (*domain.Receipt, error) {
	start := time.Now()

	receipt, err := s.sender.Send(ctx, n)
	if err != nil {
		s.metrics.ObserveEmailSend(metrics.StatusFailed, time.Since(start))

		return nil, err
	}

	s.metrics.ObserveEmailSend(metrics.StatusSuccess, time.Since(start))

	return receipt, nil
}

// outcome classifies a Submit result for metrics and span status.
func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSent
	case domain.IsConfiguration(err):
		return metrics.OutcomeMisconfigured
	case domain.IsValidation(err):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeDeliveryFailed
	}
}
