package apiresponses

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the standardized error envelope. The success flag mirrors the
// shape the existing front-end clients expect on every response.
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// RespondBadRequest sends a 400 for malformed or invalid client input.
func RespondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, APIError{
		Error: message,
		Code:  "BAD_REQUEST",
	})
}

// RespondServiceUnavailable sends a 503 when the mail subsystem has no
// usable transport.
func RespondServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "service unavailable"
	}
	c.JSON(http.StatusServiceUnavailable, APIError{
		Error: message,
		Code:  "SERVICE_UNAVAILABLE",
	})
}

// RespondBadGateway sends a 502 when the upstream relay rejected or failed
// to accept a message.
func RespondBadGateway(c *gin.Context, message string) {
	if message == "" {
		message = "upstream relay failure"
	}
	c.JSON(http.StatusBadGateway, APIError{
		Error: message,
		Code:  "BAD_GATEWAY",
	})
}

// RespondInternalError sends a 500 with a sanitized message.
func RespondInternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal error"
	}
	c.JSON(http.StatusInternalServerError, APIError{
		Error: message,
		Code:  "INTERNAL_ERROR",
	})
}

// RespondOK sends a 200 with the given payload.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
