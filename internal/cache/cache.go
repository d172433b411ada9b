package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lepinkainen/tmdbstash/internal/metrics"
)

const (
	// DefaultCacheTTL is the time-to-live for cached upstream responses (24 hours)
	DefaultCacheTTL = 24 * time.Hour

	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// FetchFunc represents a function that fetches data from an external source
type FetchFunc[T any] func() (T, error)

// Store is a key → (value, expiry) store. Get never returns an entry whose
// expiry has passed; Set overwrites any previous entry for the key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every entry. Used by the cache CLI and by tests.
	Clear(ctx context.Context) error
	Backend() string
	Close() error
}

// Pruner is implemented by stores that keep expired rows around until deleted.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Options selects and configures a Store backend.
type Options struct {
	Backend  string
	DBFile   string
	RedisURL string
}

type settings struct {
	now    func() time.Time
	prefix string
}

// Option configures a Store.
type Option func(*settings)

// WithClock overrides the wall clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithKeyPrefix namespaces keys in shared backends (Redis).
func WithKeyPrefix(prefix string) Option {
	return func(s *settings) {
		s.prefix = prefix
	}
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, prefix: "tmdb:"}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Open creates the Store selected by opts.Backend.
func Open(opts Options, storeOpts ...Option) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
		dbPath := opts.DBFile
		if dbPath == "" {
			dbPath = "./cache.db"
		}
		return NewCacheDB(dbPath, storeOpts...)
	case BackendMemory:
		return NewMemoryStore(storeOpts...), nil
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis cache backend requires a redis URL")
		}
		return OpenRedis(opts.RedisURL, storeOpts...)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// GetOrFetch retrieves data from the store or fetches it using the provided function.
// T is the type of data being cached; it is stored as JSON under cacheKey for ttl.
// The bool result reports whether the value came from the store.
// Fetch errors are returned wrapped and nothing is stored.
func GetOrFetch[T any](ctx context.Context, store Store, cacheKey string, ttl time.Duration, fetchFunc FetchFunc[T]) (T, bool, error) {
	return GetOrFetchWithPolicy(ctx, store, cacheKey, ttl, fetchFunc, nil)
}

// GetOrFetchWithPolicy is GetOrFetch with optional control over whether a
// fetched value should be stored. If shouldCache is nil, all fetched values
// are stored.
func GetOrFetchWithPolicy[T any](ctx context.Context, store Store, cacheKey string, ttl time.Duration, fetchFunc FetchFunc[T], shouldCache func(T) bool) (T, bool, error) {
	var zero T

	if store == nil {
		data, err := fetchFunc()
		if err != nil {
			return zero, false, fmt.Errorf("failed to fetch data: %w", err)
		}
		return data, false, nil
	}

	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	// Check cache first
	cached, found, err := store.Get(ctx, cacheKey)
	switch {
	case err != nil:
		metrics.RecordCacheLookup(store.Backend(), "error")
		slog.Warn("Cache read failed, fetching directly", "backend", store.Backend(), "key", cacheKey, "error", err)
	case found:
		var result T
		if err := json.Unmarshal(cached, &result); err == nil {
			metrics.RecordCacheLookup(store.Backend(), "hit")
			slog.Debug("Cache hit", "backend", store.Backend(), "key", cacheKey)
			return result, true, nil
		}
		metrics.RecordCacheLookup(store.Backend(), "error")
		slog.Warn("Failed to unmarshal cached data, will refetch", "backend", store.Backend(), "key", cacheKey, "error", err)
	default:
		metrics.RecordCacheLookup(store.Backend(), "miss")
	}

	slog.Debug("Cache miss, fetching data", "backend", store.Backend(), "key", cacheKey)
	data, err := fetchFunc()
	if err != nil {
		return zero, false, fmt.Errorf("failed to fetch data: %w", err)
	}

	if shouldCache != nil && !shouldCache(data) {
		slog.Debug("Skipping cache store per policy", "key", cacheKey)
		return data, false, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "key", cacheKey, "error", err)
		return data, false, nil
	}
	if err := store.Set(ctx, cacheKey, jsonData, ttl); err != nil {
		// Caching failure shouldn't fail the request
		slog.Warn("Failed to cache data", "backend", store.Backend(), "key", cacheKey, "error", err)
	} else {
		slog.Debug("Data cached successfully", "backend", store.Backend(), "key", cacheKey, "ttl", ttl)
	}

	return data, false, nil
}
