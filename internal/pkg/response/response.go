// internal/pkg/response/response.go
package response

import (
	"errors"
	"net/http"

	xerrors "leadflow-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}

	c.JSON(code, resp)
}

// FromError maps the service error taxonomy onto HTTP status codes.
// Validation errors are the caller's fault, conflicts are retryable by the
// caller, everything unrecognized is a 500 with the message hidden.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, xerrors.ErrValidation):
		Error(c, http.StatusBadRequest, "validation failed", err)
	case errors.Is(err, xerrors.ErrNotFound):
		Error(c, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, xerrors.ErrConflict):
		Error(c, http.StatusConflict, "conflict, try again", err)
	case errors.Is(err, xerrors.ErrForbidden):
		Error(c, http.StatusForbidden, "insufficient permissions", err)
	case errors.Is(err, xerrors.ErrUnauthorized):
		Error(c, http.StatusUnauthorized, "unauthorized", err)
	default:
		Error(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}
