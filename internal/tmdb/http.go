package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/tmdbstash/internal/errors"
	"github.com/lepinkainen/tmdbstash/internal/metrics"
)

// maxBodySize bounds how much of an upstream response is read.
const maxBodySize = 8 << 20

// get performs a single authenticated GET. There is no retry: a failure is
// returned to the caller immediately.
func (c *Client) get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.NewUpstreamFetchError(endpoint, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewUpstreamFetchError(endpoint, 0, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(0, time.Since(start))
		return nil, errors.NewUpstreamFetchError(endpoint, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordUpstreamRequest(resp.StatusCode, time.Since(start))
	slog.Debug("TMDB request", "url", endpoint, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.NewUpstreamFetchError(endpoint, resp.StatusCode, statusError(endpoint, resp, body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.NewUpstreamFetchError(endpoint, resp.StatusCode, fmt.Errorf("failed to read body: %w", err))
	}
	if !json.Valid(body) {
		return nil, errors.NewMalformedResponseError(endpoint, fmt.Errorf("response is not valid JSON"))
	}

	return body, nil
}

// statusError explains a non-2xx response.
func statusError(endpoint string, resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		slog.Warn("TMDB rate limit hit", "url", endpoint, "retry_after", retryAfter)
		return errors.NewRateLimitError(endpoint, retryAfter)
	case http.StatusUnauthorized, http.StatusForbidden:
		var apiErr struct {
			StatusMessage string `json:"status_message"`
		}
		_ = json.Unmarshal(body, &apiErr)
		return errors.NewAuthError(resp.StatusCode, apiErr.StatusMessage)
	default:
		return fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body)))
	}
}

func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
