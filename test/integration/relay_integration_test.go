//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everflowlogistics/quote-relay/internal/platform/config"
	"github.com/everflowlogistics/quote-relay/internal/platform/metrics"
)

func postForm(t *testing.T, r *relay, form map[string]string, headers map[string]string) (int, string) {
	t.Helper()

	body, err := json.Marshal(form)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost,
		r.server.URL+"/api/send-email", bytes.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := r.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(respBody)
}

func TestRelay_DeliversToProvider(t *testing.T) {
	r := mustStartRelay(t, relayOptions{mail: defaultMailConfig()})

	status, body := postForm(t, r, acmeForm(), map[string]string{
		"X-Request-ID":     "req-integration-1",
		"X-Correlation-ID": "corr-integration-1",
	})

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Email sent successfully!"}`, body)

	calls := r.provider.received()
	require.Len(t, calls, 1)

	call := calls[0]
	assert.Equal(t, "Bearer re_integration_key", call.Header.Get("Authorization"))
	assert.Equal(t, "req-integration-1", call.Header.Get("X-Request-ID"))
	assert.Equal(t, "corr-integration-1", call.Header.Get("X-Correlation-ID"))

	assert.Equal(t, config.DefaultSenderName+" <web@everflow.example>", call.Body["from"])
	assert.Equal(t, []any{"quotes@everflow.example"}, call.Body["to"])
	assert.Equal(t, "jane@acme.com", call.Body["reply_to"])
	assert.Equal(t, "New Freight Quote Request from Acme Co", call.Body["subject"])
	assert.Contains(t, call.Body["text"], "Company Name: Acme Co")
	assert.Contains(t, call.Body["html"], `<a href="mailto:jane@acme.com">jane@acme.com</a>`)

	assert.InDelta(t, 1, testutil.ToFloat64(r.metrics.QuoteRequests.WithLabelValues(metrics.OutcomeSent)), 0)
}

func TestRelay_ProviderRejection(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unverified domain", http.StatusForbidden, `{"statusCode":403,"name":"validation_error","message":"The everflow.example domain is not verified."}`},
		{"rate limited", http.StatusTooManyRequests, `{"statusCode":429,"name":"rate_limit_exceeded","message":"Too many requests."}`},
		{"provider outage", http.StatusInternalServerError, `{"statusCode":500,"name":"internal_server_error","message":"Unexpected error."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustStartRelay(t, relayOptions{mail: defaultMailConfig()})
			r.provider.respondWith(tt.status, tt.body)

			status, body := postForm(t, r, acmeForm(), nil)

			assert.Equal(t, http.StatusInternalServerError, status)
			assert.JSONEq(t, `{"message":"Error sending email."}`, body)
			assert.Len(t, r.provider.received(), 1, "provider must be called exactly once")
		})
	}
}

func TestRelay_MissingConfigurationNeverCallsProvider(t *testing.T) {
	mail := defaultMailConfig()
	mail.APIKey = ""

	r := mustStartRelay(t, relayOptions{mail: mail})

	status, body := postForm(t, r, acmeForm(), nil)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"message":"Server configuration error."}`, body)
	assert.Empty(t, r.provider.received())

	resp, err := r.server.Client().Get(r.server.URL + "/-/ready")
	require.NoError(t, err)
	defer resp.Body.Close()

	ready, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(ready), "email-provider")
	assert.Contains(t, string(ready), "mail.api_key")
	assert.NotContains(t, string(ready), "re_")
}

func TestRelay_SlowProviderTimesOut(t *testing.T) {
	r := mustStartRelay(t, relayOptions{
		mail:          defaultMailConfig(),
		clientTimeout: 100 * time.Millisecond,
	})
	r.provider.slowDown(2 * time.Second)

	start := time.Now()
	status, body := postForm(t, r, acmeForm(), nil)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"message":"Error sending email."}`, body)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, r.provider.received(), 1)
}

func TestRelay_ConcurrentSubmissions(t *testing.T) {
	r := mustStartRelay(t, relayOptions{mail: defaultMailConfig()})

	const submissions = 25

	var wg sync.WaitGroup

	statuses := make([]int, submissions)

	for i := range submissions {
		wg.Go(func() {
			form := acmeForm()
			form["companyName"] = strings.Repeat("A", i+1)

			body, err := json.Marshal(form)
			if err != nil {
				return
			}

			resp, err := r.server.Client().Post(r.server.URL+"/api/send-email", "application/json", bytes.NewReader(body))
			if err != nil {
				return
			}
			defer resp.Body.Close()

			statuses[i] = resp.StatusCode
		})
	}

	wg.Wait()

	for i, s := range statuses {
		assert.Equal(t, http.StatusOK, s, "submission %d", i)
	}

	calls := r.provider.received()
	require.Len(t, calls, submissions)

	subjects := make(map[any]struct{}, submissions)
	for _, c := range calls {
		subjects[c.Body["subject"]] = struct{}{}
	}

	assert.Len(t, subjects, submissions, "each submission produces its own email")
}
