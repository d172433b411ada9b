package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// TMDB allows roughly 40 requests every 10 seconds per client.
const (
	TMDBRequests = 40
	TMDBWindow   = 10 * time.Second
)

// Limiter wraps rate.Limiter with a name for logging/debugging.
// A nil *Limiter never blocks.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a new rate limiter with the given requests per second.
// The burst size equals the rate, allowing short bursts up to the rate limit.
func New(name string, requestsPerSecond int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		name:    name,
	}
}

// NewWindow allows n requests per window, all of which may burst at once.
func NewWindow(name string, n int, window time.Duration) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(window/time.Duration(n)), n),
		name:    name,
	}
}

// NewTMDB returns the limiter used for the TMDB API.
func NewTMDB() *Limiter {
	return NewWindow("tmdb", TMDBRequests, TMDBWindow)
}

// Wait blocks until the rate limiter allows a request to proceed.
// Returns an error if the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed without blocking.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}

// Name returns the name of this rate limiter.
func (l *Limiter) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}
