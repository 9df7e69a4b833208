// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes recorded on quote_requests_total.
const (
	OutcomeSent             = "sent"
	OutcomeInvalid          = "invalid"
	OutcomeMisconfigured    = "misconfigured"
	OutcomeDeliveryFailed   = "delivery_failed"
	OutcomeMethodNotAllowed = "method_not_allowed"
)

// Send statuses recorded on email_send_duration_seconds.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Recorder holds the quote relay instruments.
type Recorder struct {
	registry prometheus.Gatherer

	QuoteRequests     *prometheus.CounterVec
	EmailSendDuration *prometheus.HistogramVec
}

// New registers the instruments on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return NewWithRegistry(reg)
}

// NewWithRegistry registers the instruments on reg.
func NewWithRegistry(reg *prometheus.Registry) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		QuoteRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quote_requests_total",
				Help: "Total number of quote form submissions by outcome",
			},
			[]string{"outcome"},
		),
		EmailSendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "email_send_duration_seconds",
				Help:    "Email provider call duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"status"},
		),
	}
}

// IncQuoteRequest counts a submission with the given outcome.
func (r *Recorder) IncQuoteRequest(outcome string) {
	if r == nil {
		return
	}

	r.QuoteRequests.WithLabelValues(outcome).Inc()
}

// ObserveEmailSend records the duration of one provider call.
func (r *Recorder) ObserveEmailSend(status string, d time.Duration) {
	if r == nil {
		return
	}

	r.EmailSendDuration.WithLabelValues(status).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
