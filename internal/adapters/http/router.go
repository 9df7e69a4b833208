package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/everflowlogistics/quote-relay/internal/adapters/http/handlers"
	"github.com/everflowlogistics/quote-relay/internal/adapters/http/middleware"
	"github.com/everflowlogistics/quote-relay/internal/platform/config"
	"github.com/everflowlogistics/quote-relay/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds a quote submission, including the provider call.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// AllowedOrigin is written to Access-Control-Allow-Origin on the quote routes.
	AllowedOrigin string

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteRequestHandler handles contact form submissions.
	QuoteRequestHandler *handlers.QuoteRequestHandler

	// Timeout is the quote route request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Context logger - seed the request context with cfg.Logger
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - handle distributed tracing correlation
//  5. OpenTelemetry - tracing and metrics
//  6. Logging - request logging (skips health endpoints)
//
// The quote routes add CORS and then Timeout. Methods outside gin's Any set
// reach the quote handler through NoRoute with CORS applied.
//
// Route groups:
//   - /-/ (internal): health endpoints
//   - /api/ (public): the contact form endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.QuoteRequestHandler != nil {
		setupQuoteRoutes(engine, cfg)
	}
}

// setupQuoteRoutes registers the contact form endpoints.
func setupQuoteRoutes(engine *gin.Engine, cfg RouterConfig) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}

	quotes := engine.Group("")
	quotes.Use(
		middleware.CORS(cfg.AllowedOrigin),
		middleware.Timeout(timeout),
	)

	cfg.QuoteRequestHandler.RegisterRoutes(quotes)

	engine.NoRoute(cfg.QuoteRequestHandler.NoRoute(middleware.CORS(cfg.AllowedOrigin)))
}

// NewDefaultRouterConfig creates a RouterConfig from the loaded configuration.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	quoteHandler *handlers.QuoteRequestHandler,
) RouterConfig {
	return RouterConfig{
		Logger:              logger,
		AppConfig:           &cfg.App,
		AllowedOrigin:       cfg.CORS.AllowedOrigin,
		HealthHandler:       healthHandler,
		QuoteRequestHandler: quoteHandler,
		Timeout:             cfg.Server.RequestTimeout,
	}
}
