// Package clients provides instrumented HTTP clients for downstream services.
package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/everflowlogistics/quote-relay/internal/adapters/http/middleware"
	"github.com/everflowlogistics/quote-relay/internal/platform/config"
	"github.com/everflowlogistics/quote-relay/internal/platform/logging"
)

const (
	// instrumentationName is used for OpenTelemetry tracer and meter.
	instrumentationName = "github.com/everflowlogistics/quote-relay/internal/adapters/clients"

	// httpStatusCategoryDivisor divides status code to get category (2xx, 4xx, 5xx).
	httpStatusCategoryDivisor = 100

	// defaultTimeout is the default request timeout if not configured.
	defaultTimeout = 20 * time.Second
)

// Config configures an HTTP client instance.
type Config struct {
	// ServiceName identifies the downstream service for logging and tracing.
	ServiceName string

	// Timeout bounds a single request including reading the response body.
	Timeout time.Duration

	// Transport configures the connection pool.
	Transport config.TransportConfig

	// Logger is an optional logger. If nil, the context logger is used.
	Logger *slog.Logger
}

// New creates an *http.Client whose transport traces, measures and logs each
// request and propagates request and correlation IDs.
//
// The client makes exactly one attempt per request. Callers that need the
// response status of a request made on their behalf by an SDK can use
// CaptureStatus.
func New(cfg *Config) (*http.Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of HTTP client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.Transport.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Transport.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Transport.IdleConnTimeout,
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &instrumentedTransport{
			base:            base,
			serviceName:     cfg.ServiceName,
			logger:          cfg.Logger,
			tracer:          otel.Tracer(instrumentationName),
			requestDuration: requestDuration,
			requestTotal:    requestTotal,
		},
	}, nil
}

// instrumentedTransport wraps a RoundTripper with tracing, metrics and logging.
type instrumentedTransport struct {
	base        http.RoundTripper
	serviceName string
	logger      *slog.Logger
	tracer      trace.Tracer

	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// RoundTrip implements http.RoundTripper.
func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	logger := t.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	logger = logger.With(
		slog.String("downstream", t.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	ctx, span := t.tracer.Start(ctx, fmt.Sprintf("HTTP %s %s", req.Method, t.serviceName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.Redacted()),
			attribute.String("peer.service", t.serviceName),
		),
	)
	defer span.End()

	// RoundTrippers must not modify the caller's request.
	out := req.Clone(ctx)
	injectHeaders(ctx, out)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(out.Header))

	resp, err := t.base.RoundTrip(out)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.recordMetrics(ctx, req.Method, 0, duration, "error")
		logger.WarnContext(ctx, "request failed",
			slog.Duration("duration", duration),
			slog.Any("error", err),
		)

		return nil, err
	}

	recordStatus(ctx, resp.StatusCode)

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	statusCategory := fmt.Sprintf("%dxx", resp.StatusCode/httpStatusCategoryDivisor)
	t.recordMetrics(ctx, req.Method, resp.StatusCode, duration, statusCategory)

	logger.DebugContext(ctx, "request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", duration),
	)

	return resp, nil
}

// injectHeaders propagates request and correlation IDs downstream.
func injectHeaders(ctx context.Context, req *http.Request) {
	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}
}

// recordMetrics records request metrics.
func (t *instrumentedTransport) recordMetrics(ctx context.Context, method string, statusCode int, duration time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", t.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	t.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	t.requestTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
