//go:build integration

package integration

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/everflowlogistics/quote-relay/internal/adapters/clients"
	"github.com/everflowlogistics/quote-relay/internal/adapters/email/resend"
	httpadapter "github.com/everflowlogistics/quote-relay/internal/adapters/http"
	"github.com/everflowlogistics/quote-relay/internal/adapters/http/handlers"
	"github.com/everflowlogistics/quote-relay/internal/app"
	"github.com/everflowlogistics/quote-relay/internal/domain"
	"github.com/everflowlogistics/quote-relay/internal/platform/config"
	"github.com/everflowlogistics/quote-relay/internal/platform/metrics"
	"github.com/everflowlogistics/quote-relay/internal/ports"
)

const allowedOrigin = "https://everflowlogistics.ca"

// providerCall is one request received by the fake email provider.
type providerCall struct {
	Header http.Header
	Body   map[string]any
}

// fakeProvider stands in for the Resend API.
type fakeProvider struct {
	server *httptest.Server

	mu     sync.Mutex
	calls  []providerCall
	status int
	body   string
	delay  time.Duration
}

func newFakeProvider() *fakeProvider {
	p := &fakeProvider{
		status: http.StatusOK,
		body:   `{"id":"4ef9a417-02e9-4d39-ad75-9611e0fcc33c"}`,
	}

	p.server = httptest.NewServer(http.HandlerFunc(p.serve))

	return p
}

func (p *fakeProvider) serve(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	p.mu.Lock()
	p.calls = append(p.calls, providerCall{Header: r.Header.Clone(), Body: body})
	status, respBody, delay := p.status, p.body, p.delay
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, respBody)
}

func (p *fakeProvider) respondWith(status int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = status
	p.body = body
}

func (p *fakeProvider) slowDown(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.delay = d
}

func (p *fakeProvider) received() []providerCall {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]providerCall(nil), p.calls...)
}

func (p *fakeProvider) close() {
	p.server.Close()
}

// relayOptions tweaks the configuration of a relay under test.
type relayOptions struct {
	mail           config.MailConfig
	clientTimeout  time.Duration
	requestTimeout time.Duration
}

// relay is the service wired the way cmd/service wires it, served over a
// real listener and talking to a fake provider.
type relay struct {
	provider *fakeProvider
	server   *httptest.Server
	metrics  *metrics.Recorder
}

func defaultMailConfig() config.MailConfig {
	return config.MailConfig{
		APIKey:      "re_integration_key",
		ToAddress:   "quotes@everflow.example",
		FromAddress: "web@everflow.example",
		FromName:    config.DefaultSenderName,
	}
}

func startRelay(opts relayOptions) (*relay, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	provider := newFakeProvider()

	mail := opts.mail
	mail.BaseURL = provider.server.URL

	httpClient, err := clients.New(&clients.Config{
		ServiceName: resend.ProviderName,
		Timeout:     opts.clientTimeout,
		Transport: config.TransportConfig{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     time.Minute,
		},
		Logger: logger,
	})
	if err != nil {
		provider.close()
		return nil, err
	}

	sender, err := resend.New(resend.Config{
		APIKey:     mail.APIKey,
		BaseURL:    mail.BaseURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		provider.close()
		return nil, err
	}

	rec := metrics.NewWithRegistry(prometheus.NewRegistry())

	svc := app.NewQuoteRequestService(app.QuoteRequestServiceConfig{
		Sender: sender,
		Mail: app.MailSettings{
			To:      mail.ToAddress,
			From:    domain.Sender{Name: mail.FromName, Address: mail.FromAddress},
			Missing: mail.Missing(),
		},
		Logger:  logger,
		Metrics: rec,
	})

	registry := ports.NewHealthRegistry()
	_ = registry.Register(sender)
	_ = registry.Register(svc)

	serverCfg := &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           0,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		RequestTimeout: opts.requestTimeout,
		MaxRequestSize: 1 << 20,
	}

	srv := httpadapter.New(serverCfg, logger)

	httpadapter.SetupRouter(srv.Engine(), httpadapter.RouterConfig{
		Logger:              logger,
		AppConfig:           &config.AppConfig{Name: "quote-relay", Version: "integration", Environment: "test"},
		AllowedOrigin:       allowedOrigin,
		HealthHandler:       handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "none", "now"), rec.Handler()),
		QuoteRequestHandler: handlers.NewQuoteRequestHandler(svc, rec),
		Timeout:             serverCfg.RequestTimeout,
	})

	return &relay{
		provider: provider,
		server:   httptest.NewServer(srv.Engine()),
		metrics:  rec,
	}, nil
}

func mustStartRelay(t *testing.T, opts relayOptions) *relay {
	t.Helper()

	r, err := startRelay(opts)
	if err != nil {
		t.Fatalf("starting relay: %v", err)
	}

	t.Cleanup(r.close)

	return r
}

func (r *relay) close() {
	r.server.Close()
	r.provider.close()
}

func acmeForm() map[string]string {
	return map[string]string{
		"companyName": "Acme Co",
		"contactName": "Jane Roe",
		"email":       "jane@acme.com",
		"phone":       "555-1234",
		"serviceType": "FTL",
		"origin":      "Toronto",
		"destination": "Montreal",
		"details":     "2 pallets",
	}
}
