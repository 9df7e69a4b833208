package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS headers written on every quote route response.
const (
	corsAllowMethods = "POST, OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// CORS returns middleware that writes the cross-origin headers for the
// contact form. The headers are set before the handler runs, so they are
// present on every outcome, including 405 and provider failures.
// Preflight OPTIONS requests end here with 200 and an empty body.
func CORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowedOrigin)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
