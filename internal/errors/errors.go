// Package errors writes the JSON error envelope shared by every endpoint.
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnknownField       = "UNKNOWN_FIELD"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the body of every failed response. Success is always false.
type APIError struct {
	Success bool        `json:"success"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// abort writes the envelope and stops the handler chain. An empty message
// falls back to fallback.
func abort(c *gin.Context, status int, code, message, fallback string, details interface{}) {
	if message == "" {
		message = fallback
	}
	c.AbortWithStatusJSON(status, APIError{Code: code, Message: message, Details: details})
}

func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, ErrCodeUnauthorized, message, "Authentication required", nil)
}

// InvalidCredentials answers a failed login.
func InvalidCredentials(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, message, "Invalid username or password", nil)
}

func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, ErrCodeForbidden, message, "Access denied", nil)
}

func NotFound(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, ErrCodeNotFound, message, "Resource not found", nil)
}

func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, ErrCodeInvalidInput, message, "Invalid request", nil)
}

// BadRequestWithDetails carries the binding error next to the message.
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	abort(c, http.StatusBadRequest, ErrCodeInvalidInput, message, "Invalid request", details)
}

// UnknownField names a body key the endpoint does not accept.
func UnknownField(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, ErrCodeUnknownField, message, "Unknown field", nil)
}

func Conflict(c *gin.Context, message string) {
	abort(c, http.StatusConflict, ErrCodeConflict, message, "Resource conflict", nil)
}

func InternalError(c *gin.Context, message string) {
	abort(c, http.StatusInternalServerError, ErrCodeInternalError, message, "Internal server error", nil)
}

func ServiceUnavailable(c *gin.Context, message string) {
	abort(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message, "Service temporarily unavailable", nil)
}
