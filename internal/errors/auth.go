package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// AuthError represents TMDB rejecting the configured API token.
type AuthError struct {
	Message    string
	StatusCode int
	APIMessage string // status_message from the TMDB error body, if any
}

func (e *AuthError) Error() string {
	if e.APIMessage != "" {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Message, e.StatusCode, e.APIMessage)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// NewAuthError creates an AuthError for a 401 or 403 response
func NewAuthError(statusCode int, apiMessage string) *AuthError {
	var message string
	switch statusCode {
	case http.StatusUnauthorized:
		message = "Invalid TMDB API token"
	case http.StatusForbidden:
		message = "Access forbidden - check the TMDB token permissions"
	default:
		message = "TMDB authentication error"
	}

	return &AuthError{
		Message:    message,
		StatusCode: statusCode,
		APIMessage: apiMessage,
	}
}

// IsAuthError checks if error is an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stdErrors.As(err, &authErr)
}
