package tmdb

import (
	"context"
	"encoding/json"

	"github.com/lepinkainen/tmdbstash/internal/cache"
)

// Fetch returns the JSON body for endpoint. A live cache entry is returned
// without touching the network; otherwise exactly one request is made and a
// successful body is stored for the client's TTL. Failures are never cached.
func (c *Client) Fetch(ctx context.Context, endpoint string) (json.RawMessage, error) {
	data, _, err := cache.GetOrFetch(ctx, c.store, endpoint, c.ttl, func() (json.RawMessage, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
