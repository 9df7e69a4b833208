// Package main is the entry point for the quote relay service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everflowlogistics/quote-relay/internal/adapters/clients"
	"github.com/everflowlogistics/quote-relay/internal/adapters/email/resend"
	"github.com/everflowlogistics/quote-relay/internal/adapters/http"
	"github.com/everflowlogistics/quote-relay/internal/adapters/http/handlers"
	"github.com/everflowlogistics/quote-relay/internal/app"
	"github.com/everflowlogistics/quote-relay/internal/domain"
	"github.com/everflowlogistics/quote-relay/internal/platform/config"
	"github.com/everflowlogistics/quote-relay/internal/platform/logging"
	"github.com/everflowlogistics/quote-relay/internal/platform/metrics"
	"github.com/everflowlogistics/quote-relay/internal/platform/telemetry"
	"github.com/everflowlogistics/quote-relay/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// Mail secrets are checked per request; start anyway so preflight and
	// health traffic are served.
	missing := cfg.Mail.Missing()
	if len(missing) > 0 {
		logger.Warn("mail configuration incomplete, submissions will be refused",
			slog.Any("missing", missing),
		)
	}

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Prometheus instruments
	recorder := metrics.New()

	// 6. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 7. Create HTTP client for the email provider
	httpClient, err := clients.New(&clients.Config{
		ServiceName: resend.ProviderName,
		Timeout:     cfg.Client.Timeout,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	// 8. Create the email provider adapter
	sender, err := resend.New(resend.Config{
		APIKey:     cfg.Mail.APIKey,
		BaseURL:    cfg.Mail.BaseURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		return fmt.Errorf("creating email sender: %w", err)
	}

	if err := healthRegistry.Register(sender); err != nil {
		return fmt.Errorf("registering email sender health check: %w", err)
	}

	// 9. Create quote request service (application layer)
	quoteService := app.NewQuoteRequestService(app.QuoteRequestServiceConfig{
		Sender: sender,
		Mail: app.MailSettings{
			To:      cfg.Mail.ToAddress,
			From:    domain.Sender{Name: cfg.Mail.FromName, Address: cfg.Mail.FromAddress},
			Missing: missing,
		},
		Logger:  logger,
		Metrics: recorder,
	})

	if err := healthRegistry.Register(quoteService); err != nil {
		return fmt.Errorf("registering mail configuration health check: %w", err)
	}

	// 10. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, recorder.Handler())
	quoteHandler := handlers.NewQuoteRequestHandler(quoteService, recorder)

	// 11. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 12. Setup router with all middleware and routes
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(logger, cfg, healthHandler, quoteHandler))

	// 13. Start server (non-blocking)
	serverErr := server.Start()

	// 14. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-serverErr:
		if !ok {
			return nil
		}

		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// In-flight submissions finish their provider call before exit.
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
