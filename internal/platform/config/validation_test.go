package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "quote-relay",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  25 * time.Second,
			MaxRequestSize:  DefaultMaxRequestSize,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigin: DefaultAllowedOrigin,
		},
		Mail: MailConfig{
			APIKey:      "re_key",
			ToAddress:   "quotes@example.com",
			FromAddress: "website@example.com",
			FromName:    DefaultSenderName,
		},
		Client: ClientConfig{
			Timeout: 20 * time.Second,
			Transport: TransportConfig{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_AppConfig(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Name = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.name")
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("invalid environment", func(t *testing.T) {
		cfg := validConfig()
		cfg.App.Environment = "invalid"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.environment")
		assert.Contains(t, err.Error(), "must be one of")
	})
}

func TestConfig_Validate_ServerConfig(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"minimum valid port", 1, false},
		{"typical port", 8080, false},
		{"maximum valid port", 65535, false},
		{"zero port", 0, true},
		{"port too high", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "server.port")
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("request timeout minimum", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.RequestTimeout = 500 * time.Millisecond

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.requesttimeout")
	})
}

func TestConfig_Validate_LogConfig(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Log.Level = level

			assert.NoError(t, cfg.Validate())
		})
	}

	t.Run("invalid format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.Format = "xml"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.format")
	})

	t.Run("file path required when enabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.File.Enabled = true
		cfg.Log.File.Path = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log.file.path")
		assert.Contains(t, err.Error(), "is required when")
	})
}

func TestConfig_Validate_CORSConfig(t *testing.T) {
	cfg := validConfig()
	cfg.CORS.AllowedOrigin = "not a url"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cors.allowedorigin")
	assert.Contains(t, err.Error(), "must be a valid URL")
}

func TestConfig_Validate_MailConfig(t *testing.T) {
	t.Run("secrets may be absent at startup", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mail.APIKey = ""
		cfg.Mail.ToAddress = ""
		cfg.Mail.FromAddress = ""

		assert.NoError(t, cfg.Validate())
	})

	t.Run("malformed recipient", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mail.ToAddress = "quotes-at-example"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.toaddress")
		assert.Contains(t, err.Error(), "must be a valid email address")
	})

	t.Run("sender name required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mail.FromName = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mail.fromname")
	})
}

func TestConfig_Validate_TelemetryConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Telemetry.Enabled = true

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry.endpoint")
	assert.Contains(t, err.Error(), "telemetry.servicename")
}

func TestFormatFieldPath(t *testing.T) {
	assert.Equal(t, "server.port", formatFieldPath("Config.Server.Port"))
	assert.Equal(t, "mail.toaddress", formatFieldPath("Config.Mail.ToAddress"))
	assert.Equal(t, "name", formatFieldPath("Name"))
}
