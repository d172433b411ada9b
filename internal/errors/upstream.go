package errors

import (
	stdErrors "errors"
	"fmt"
)

// UpstreamFetchError represents a network or HTTP failure talking to TMDB.
// StatusCode is zero when no response was received.
type UpstreamFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream fetch %s failed (HTTP %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream fetch %s failed: %v", e.URL, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error {
	return e.Err
}

// NewUpstreamFetchError creates an UpstreamFetchError for the given request URL.
func NewUpstreamFetchError(url string, statusCode int, err error) *UpstreamFetchError {
	return &UpstreamFetchError{URL: url, StatusCode: statusCode, Err: err}
}

// IsUpstreamFetchError reports whether err is an UpstreamFetchError (even when wrapped).
func IsUpstreamFetchError(err error) bool {
	var fetchErr *UpstreamFetchError
	return stdErrors.As(err, &fetchErr)
}

// MalformedResponseError represents an upstream payload that is not valid JSON
// or lacks a field the accessor requires.
type MalformedResponseError struct {
	URL   string
	Field string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed upstream response from %s: missing %q", e.URL, e.Field)
	}
	return fmt.Sprintf("malformed upstream response from %s: %v", e.URL, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// NewMissingFieldError creates a MalformedResponseError for an absent envelope field.
func NewMissingFieldError(url, field string) *MalformedResponseError {
	return &MalformedResponseError{URL: url, Field: field}
}

// NewMalformedResponseError creates a MalformedResponseError wrapping a decode failure.
func NewMalformedResponseError(url string, err error) *MalformedResponseError {
	return &MalformedResponseError{URL: url, Err: err}
}

// IsMalformedResponseError reports whether err is a MalformedResponseError (even when wrapped).
func IsMalformedResponseError(err error) bool {
	var malformedErr *MalformedResponseError
	return stdErrors.As(err, &malformedErr)
}
