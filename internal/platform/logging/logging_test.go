package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Context tests

func TestFromContext_NilContext(t *testing.T) {
	logger := FromContext(nil) //nolint:staticcheck // Testing nil guard intentionally
	assert.Equal(t, defaultLogger, logger)
}

func TestFromContext_NoLogger(t *testing.T) {
	assert.Equal(t, defaultLogger, FromContext(context.Background()))
}

func TestFromContext_WithLogger(t *testing.T) {
	customLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithContext(context.Background(), customLogger)

	assert.Equal(t, customLogger, FromContext(ctx))
}

func TestFromContextOr(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Equal(t, fallback, FromContextOr(context.Background(), fallback))

	custom := slog.New(slog.NewJSONHandler(io.Discard, nil))
	ctx := WithContext(context.Background(), custom)
	assert.Equal(t, custom, FromContextOr(ctx, fallback))
}

func TestContextIDs(t *testing.T) {
	tests := []struct {
		name   string
		enrich func(context.Context, string) context.Context
		key    string
		value  string
	}{
		{"request id", WithRequestID, "request_id", "req-123"},
		{"correlation id", WithCorrelationID, "correlation_id", "corr-789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			ctx := WithContext(context.Background(), logger)
			ctx = tt.enrich(ctx, tt.value)

			FromContext(ctx).InfoContext(ctx, "test message")

			var logEntry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
			assert.Equal(t, tt.value, logEntry[tt.key])
		})
	}
}

func TestWithAttrs_Accumulates(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithAttrs(ctx, slog.String("company", "Acme Co"))

	FromContext(ctx).Info("submitted")

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "req-1", logEntry["request_id"])
	assert.Equal(t, "Acme Co", logEntry["company"])
}

func TestSetDefault(t *testing.T) {
	originalDefault := defaultLogger
	t.Cleanup(func() { SetDefault(originalDefault) })

	customLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	SetDefault(customLogger)

	assert.Equal(t, customLogger, FromContext(context.Background()))
}

// Logger tests

func TestNewWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{
		Level:   "info",
		Format:  "json",
		Service: "quote-relay",
		Version: "1.0.0",
	}

	logger := NewWithWriter(cfg, &buf)
	logger.Info("test message", slog.String("key", "value"))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "test message", logEntry["msg"])
	assert.Equal(t, "quote-relay", logEntry["service_name"])
	assert.Equal(t, "1.0.0", logEntry["service_version"])
}

func TestNewWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "debug", Format: "text", Service: "quote-relay"}, &buf)

	logger.Debug("debug message")

	assert.Contains(t, buf.String(), "debug message")
	assert.Contains(t, buf.String(), "quote-relay")
}

func TestNewWithWriter_PrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "info", Format: "pretty", Service: "quote-relay"}, &buf)

	logger.Info("pretty message", slog.String("api_key", "re_supersecret123"))

	output := buf.String()
	assert.Contains(t, output, "pretty message")
	assert.NotContains(t, output, "re_supersecret123")
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "warn", Format: "json"}, &buf)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "trace", Format: "json"}, &buf)

	logger.Log(context.Background(), LevelTrace, "trace message")

	assert.Contains(t, buf.String(), "trace message")
}

func TestNewWithWriter_WithFileConfig(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	var buf bytes.Buffer
	cfg := &Config{
		Level:   "info",
		Format:  "json",
		Service: "quote-relay",
		Version: "1.0.0",
		File: FileConfig{
			Enabled:    true,
			Path:       logFile,
			MaxSizeMB:  1,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}

	logger := NewWithWriter(cfg, &buf)
	logger.Info("test message to file")

	assert.Contains(t, buf.String(), "test message to file")

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "test message to file")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    slog.Level
		expected log.Level
	}{
		{"trace maps to debug", LevelTrace, log.DebugLevel},
		{"debug level", slog.LevelDebug, log.DebugLevel},
		{"info level", slog.LevelInfo, log.InfoLevel},
		{"warn level", slog.LevelWarn, log.WarnLevel},
		{"error level", slog.LevelError, log.ErrorLevel},
		{"very high level maps to error", slog.Level(12), log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slogToCharmLevel(tt.input))
		})
	}
}

// MultiHandler tests

func TestMultiHandler_Handle(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	multi := NewMultiHandler(
		slog.NewJSONHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	logger := slog.New(multi)

	logger.Info("test message")
	assert.Contains(t, buf1.String(), "test message")
	assert.Contains(t, buf2.String(), "test message")

	buf1.Reset()
	buf2.Reset()

	logger.Debug("debug message")
	assert.Contains(t, buf1.String(), "debug message")
	assert.Empty(t, buf2.String())
}

func TestMultiHandler_Enabled(t *testing.T) {
	multi := NewMultiHandler(
		slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	assert.False(t, multi.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, multi.Enabled(context.Background(), slog.LevelError))
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer

	multi := NewMultiHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))
	logger := slog.New(multi.WithAttrs([]slog.Attr{slog.String("attr1", "value1")}).WithGroup("mygroup"))

	logger.Info("test message", slog.String("key", "value"))

	for _, out := range []string{buf1.String(), buf2.String()} {
		assert.Contains(t, out, "value1")
		assert.Contains(t, out, "mygroup")
	}
}

// Redact tests

func TestNewReplaceAttr(t *testing.T) {
	tests := []struct {
		name         string
		fieldName    string
		fieldValue   string
		shouldRedact bool
	}{
		{"redact api_key", "api_key", "re_123456789abc", true},
		{"redact token", "token", "my-secret-token", true},
		{"redact authorization", "authorization", "Bearer token123", true},
		{"redact submitter email", "email", "jane@acme.com", true},
		{"redact reply_to", "reply_to", "jane@acme.com", true},
		{"redact phone", "phone", "555-1234", true},
		{"redact resend key by value", "value", "re_abcdefgh12345", true},
		{"keep company", "company", "Acme Co", false},
		{"keep message", "msg", "this is a message", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{ReplaceAttr: NewReplaceAttr()})
			slog.New(handler).Info("test", slog.String(tt.fieldName, tt.fieldValue))

			output := buf.String()
			if tt.shouldRedact {
				assert.NotContains(t, output, tt.fieldValue)
				assert.Contains(t, output, tt.fieldName)
				assert.True(t,
					strings.Contains(output, "REDACTED") || strings.Contains(output, "***"),
					"output should contain redaction marker",
				)
			} else {
				assert.Contains(t, output, tt.fieldValue)
			}
		})
	}
}

func TestRedactHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(newRedactHandler(inner, NewReplaceAttr()).WithAttrs([]slog.Attr{
		slog.String("phone", "555-1234"),
	}))

	logger.Info("hello", slog.String("company", "Acme Co"))

	assert.NotContains(t, buf.String(), "555-1234")
	assert.Contains(t, buf.String(), "Acme Co")
}
