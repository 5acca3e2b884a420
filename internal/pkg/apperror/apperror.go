package apperror

import (
	"errors"
	"net/http"
)

// AppError is a sentinel error carrying the HTTP status and the message
// shown to API clients. Causes are attached by wrapping, for example
// fmt.Errorf("%w: %w", ErrSomething, cause).
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
}

func (e *AppError) Error() string {
	return e.Message
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// StatusCode returns the status of the first AppError in err's chain, or
// 500 when there is none.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// UserMessage returns the client-safe message of the first AppError in
// err's chain. ok is false when err carries no AppError.
func UserMessage(err error) (msg string, ok bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message, true
	}
	return "", false
}
