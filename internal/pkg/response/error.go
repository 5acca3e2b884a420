package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
// Server-side failures are attached to the context so the request logger
// records the underlying cause.
func Error(c *gin.Context, err error) {
	status := apperror.StatusCode(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	msg, ok := apperror.UserMessage(err)
	if !ok {
		msg = "internal server error"
	}
	c.JSON(status, ErrorResponse{Error: msg})
}
