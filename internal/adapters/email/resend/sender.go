// Package resend implements ports.EmailSender on the Resend API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/everflowlogistics/quote-relay/internal/adapters/clients"
	"github.com/everflowlogistics/quote-relay/internal/domain"
)

// ProviderName identifies Resend in delivery errors and health checks.
const ProviderName = "resend"

// ErrAPIKeyMissing is reported by Check when no API key is configured.
var ErrAPIKeyMissing = errors.New("resend api key is not configured")

// Config holds Resend email provider configuration.
type Config struct {
	APIKey string

	// BaseURL overrides the API endpoint. Empty means the SDK default.
	BaseURL string

	// HTTPClient carries timeouts and instrumentation. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// Sender implements ports.EmailSender and ports.HealthChecker using the Resend API.
type Sender struct {
	client *resend.Client
	apiKey string
}

// New creates a new Resend sender. An empty API key is accepted so the
// service can start; Send then fails at the provider and Check reports it.
func New(cfg Config) (*Sender, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	client := resend.NewCustomClient(httpClient, cfg.APIKey)

	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing resend base url: %w", err)
		}

		// Request paths are resolved relative to the base.
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}

		client.BaseURL = base
	}

	return &Sender{client: client, apiKey: cfg.APIKey}, nil
}

// Send implements ports.EmailSender. It makes exactly one API call.
func (s *Sender) Send(ctx context.Context, n *domain.Notification) (*domain.Receipt, error) {
	ctx, status := clients.CaptureStatus(ctx)

	req := &resend.SendEmailRequest{
		From:    n.From.String(),
		To:      []string{n.To},
		Subject: n.Subject,
		Html:    n.HTML,
		Text:    n.Text,
		ReplyTo: n.ReplyTo,
	}

	resp, err := s.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return nil, &domain.DeliveryError{
			Provider:   ProviderName,
			StatusCode: status.Code,
			Detail:     err.Error(),
			Err:        err,
		}
	}

	return &domain.Receipt{MessageID: resp.Id}, nil
}

// Name implements ports.HealthChecker.
func (s *Sender) Name() string {
	return "email-provider"
}

// Check implements ports.HealthChecker. It does not call the API: Resend
// keys may be restricted to sending, so the only local signal is the key.
func (s *Sender) Check(context.Context) error {
	if strings.TrimSpace(s.apiKey) == "" {
		return ErrAPIKeyMissing
	}

	return nil
}
