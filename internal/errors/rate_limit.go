package errors

import (
	stdErrors "errors"
	"fmt"
	"time"
)

// RateLimitError is returned when TMDB answers 429. RetryAfter is zero when
// the response carried no usable Retry-After header.
type RateLimitError struct {
	URL        string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by upstream, retry after %s", e.RetryAfter)
	}
	return "rate limited by upstream"
}

// NewRateLimitError creates a new RateLimitError for the given request URL
func NewRateLimitError(url string, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{URL: url, RetryAfter: retryAfter}
}

// IsRateLimitError reports whether err is a RateLimitError (even when wrapped).
func IsRateLimitError(err error) bool {
	var rateErr *RateLimitError
	return stdErrors.As(err, &rateErr)
}
