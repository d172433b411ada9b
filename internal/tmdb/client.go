// Package tmdb provides a cached client for TheMovieDB API v3.
package tmdb

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lepinkainen/tmdbstash/internal/cache"
	"github.com/lepinkainen/tmdbstash/internal/ratelimit"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	defaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a TMDB API client. Every GET goes through the configured
// cache.Store keyed by its full URL.
type Client struct {
	token       string
	baseURL     string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
	store       cache.Store
	ttl         time.Duration
}

// NewClient creates a new TMDB API client authenticating with a v4 read
// access token sent as a bearer token.
func NewClient(token string, opts ...Option) *Client {
	client := &Client{
		token:       token,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: ratelimit.NewTMDB(),
		ttl:         cache.DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the TMDB API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// WithStore sets the response cache. Without one every call hits the network.
func WithStore(store cache.Store) Option {
	return func(client *Client) {
		client.store = store
	}
}

// WithTTL sets how long successful responses stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(client *Client) {
		if ttl > 0 {
			client.ttl = ttl
		}
	}
}

// BaseURL returns the API root the client requests.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(format string, args ...any) string {
	return c.baseURL + fmt.Sprintf(format, args...)
}
