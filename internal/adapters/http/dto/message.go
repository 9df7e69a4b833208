// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/everflowlogistics/quote-relay/internal/domain"
)

// Response messages. The contact form displays these verbatim.
const (
	MessageSent             = "Email sent successfully!"
	MessageMissingFields    = "Missing required form fields."
	MessageConfiguration    = "Server configuration error."
	MessageSendFailed       = "Error sending email."
	MessageMethodNotAllowed = "Method Not Allowed"
	MessageInternal         = "Internal Server Error"
)

// MessageResponse is the envelope for every response on the quote route.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewMessageResponse creates a response carrying msg.
func NewMessageResponse(msg string) *MessageResponse {
	return &MessageResponse{Message: msg}
}

// MapDomainError maps a domain error to an HTTP status code and response.
// Error detail never reaches the response body; anything unclassified is
// reported as a send failure.
func MapDomainError(err error) (int, *MessageResponse) {
	switch {
	case err == nil:
		return http.StatusOK, NewMessageResponse(MessageSent)
	case domain.IsMethodNotAllowed(err):
		return http.StatusMethodNotAllowed, NewMessageResponse(MessageMethodNotAllowed)
	case domain.IsConfiguration(err):
		return http.StatusInternalServerError, NewMessageResponse(MessageConfiguration)
	case domain.IsValidation(err):
		return http.StatusBadRequest, NewMessageResponse(MessageMissingFields)
	default:
		return http.StatusInternalServerError, NewMessageResponse(MessageSendFailed)
	}
}

// HandleError writes the response for err.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)

	if status == http.StatusMethodNotAllowed {
		c.Header("Allow", http.MethodPost)
	}

	c.JSON(status, resp)
}
