package tmdb

import (
	"net/http"
	"testing"
	"time"

	"github.com/lepinkainen/tmdbstash/internal/cache"
	"github.com/lepinkainen/tmdbstash/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

type stubDoer struct{}

func (stubDoer) Do(*http.Request) (*http.Response, error) { return nil, nil }

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("token")

	assert.Equal(t, "token", client.token)
	assert.Equal(t, defaultBaseURL, client.BaseURL())
	assert.Equal(t, cache.DefaultCacheTTL, client.ttl)
	assert.Nil(t, client.store)
	assert.Equal(t, "tmdb", client.rateLimiter.Name())
}

func TestClientOptions(t *testing.T) {
	store := cache.NewMemoryStore()
	limiter := ratelimit.New("custom", 1)
	doer := stubDoer{}

	client := NewClient("token",
		WithBaseURL("http://example.test/3/"),
		WithHTTPClient(doer),
		WithRateLimiter(limiter),
		WithStore(store),
		WithTTL(time.Hour),
	)

	assert.Equal(t, "http://example.test/3", client.BaseURL())
	assert.Equal(t, doer, client.httpClient)
	assert.Same(t, limiter, client.rateLimiter)
	assert.Same(t, store, client.store)
	assert.Equal(t, time.Hour, client.ttl)
	assert.Equal(t, "http://example.test/3/tv/42/videos", client.endpoint("/tv/%d/videos", 42))
}

func TestClientOptionsIgnoreZeroValues(t *testing.T) {
	client := NewClient("token", WithBaseURL(""), WithHTTPClient(nil), WithRateLimiter(nil), WithTTL(0))

	assert.Equal(t, defaultBaseURL, client.BaseURL())
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, cache.DefaultCacheTTL, client.ttl)
}
