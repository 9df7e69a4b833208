package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/everflowlogistics/quote-relay/internal/adapters/http/dto"
	"github.com/everflowlogistics/quote-relay/internal/app"
	"github.com/everflowlogistics/quote-relay/internal/domain"
	"github.com/everflowlogistics/quote-relay/internal/platform/logging"
	"github.com/everflowlogistics/quote-relay/internal/platform/metrics"
)

// Quote request routes. The first is the path the contact form posts to.
const (
	RouteSendEmail     = "/api/send-email"
	RouteQuoteRequests = "/api/v1/quote-requests"
)

// QuoteRequestHandler relays contact form submissions.
type QuoteRequestHandler struct {
	service *app.QuoteRequestService
	metrics *metrics.Recorder
}

// NewQuoteRequestHandler creates a new quote request handler.
func NewQuoteRequestHandler(service *app.QuoteRequestService, rec *metrics.Recorder) *QuoteRequestHandler {
	return &QuoteRequestHandler{
		service: service,
		metrics: rec,
	}
}

// Handle serves every method on the quote routes. OPTIONS never gets here:
// the CORS middleware answers preflight requests.
//
// @Summary Submit a freight quote request
// @Description Emails the submitted form to the sales inbox
// @Tags quote-requests
// @Accept json
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 405 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/send-email [post]
func (h *QuoteRequestHandler) Handle(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.metrics.IncQuoteRequest(metrics.OutcomeMethodNotAllowed)
		dto.HandleError(c, domain.ErrMethodNotAllowed)

		return
	}

	// An unreadable or oversized body carries no fields; validation reports them missing.
	var req domain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logging.FromContext(c.Request.Context()).Debug("request body not decoded",
			slog.String("error", err.Error()),
		)

		req = domain.QuoteRequest{}
	}

	if _, err := h.service.Submit(c.Request.Context(), &req); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(dto.MessageSent))
}

// RegisterRoutes registers the quote routes for every method, so a wrong
// method still receives the CORS headers and a 405 from Handle.
func (h *QuoteRequestHandler) RegisterRoutes(rg gin.IRoutes) {
	rg.Any(RouteSendEmail, h.Handle)
	rg.Any(RouteQuoteRequests, h.Handle)
}

// NoRoute returns a fallback for the engine's NoRoute chain. Any only covers
// the standard methods, so a request such as PROPFIND on a quote path lands
// here and is answered by Handle after the given middleware. Other paths are
// left to gin's 404.
func (h *QuoteRequestHandler) NoRoute(chain ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case RouteSendEmail, RouteQuoteRequests:
		default:
			return
		}

		for _, fn := range chain {
			fn(c)

			if c.IsAborted() {
				return
			}
		}

		h.Handle(c)
	}
}
