package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/everflowlogistics/quote-relay/internal/adapters/http/dto"
	"github.com/everflowlogistics/quote-relay/internal/platform/logging"
)

// Timeout returns middleware that puts a deadline on the request context.
// The handler runs on the request goroutine; outbound calls observe the
// deadline through their context. A handler that returns past the deadline
// without writing gets 503 with the send-failure message.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}

		logging.FromContext(ctx).Warn("request timeout",
			slog.String("path", c.Request.URL.Path),
			slog.String("method", c.Request.Method),
			slog.Duration("timeout", timeout),
		)

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewMessageResponse(dto.MessageSendFailed))
		}
	}
}
