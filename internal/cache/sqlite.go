package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// CacheDB is a Store backed by an SQLite database file.
type CacheDB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
	now  func() time.Time
}

// NewCacheDB opens the database at dbPath and creates the cache table.
func NewCacheDB(dbPath string, opts ...Option) (*CacheDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to cache database: %w", err), closeErr)
	}

	if _, err := db.Exec(TMDBCacheSchema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create cache table: %w", err), closeErr)
	}

	s := newSettings(opts)
	return &CacheDB{
		db:   db,
		path: dbPath,
		now:  s.now,
	}, nil
}

// Backend implements Store.
func (c *CacheDB) Backend() string {
	return BackendSQLite
}

// Path returns the database file path.
func (c *CacheDB) Path() string {
	return c.path
}

// Close closes the database connection
func (c *CacheDB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get retrieves a live cached value.
// Returns the cached data, whether a live entry was found, and any error
func (c *CacheDB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	query := fmt.Sprintf(`
		SELECT data, expires_at
		FROM %s
		WHERE cache_key = ?
	`, tmdbCacheTable)

	var data string
	var expiresAt int64
	err := c.db.QueryRowContext(ctx, query, key).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query cache: %w", err)
	}

	if !c.now().Before(time.UnixMilli(expiresAt)) {
		slog.Debug("Cache expired", "key", key, "expired_at", time.UnixMilli(expiresAt))
		return nil, false, nil
	}

	return []byte(data), true, nil
}

// Set stores a value, replacing any previous entry and its expiry.
func (c *CacheDB) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (cache_key, data, expires_at)
		VALUES (?, ?, ?)
	`, tmdbCacheTable)

	expiresAt := c.now().Add(ttl).UnixMilli()
	if _, err := c.db.ExecContext(ctx, query, key, string(value), expiresAt); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Prune removes expired cache entries and returns the number deleted.
func (c *CacheDB) Prune(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE expires_at <= ?
	`, tmdbCacheTable)

	result, err := c.db.ExecContext(ctx, query, c.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired cache: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		slog.Info("Cleared expired cache entries", "table", tmdbCacheTable, "count", rows)
	}

	return rows, nil
}

// Clear removes all cache entries
func (c *CacheDB) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", tmdbCacheTable))
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	rows, _ := result.RowsAffected()
	slog.Info("Cache cleared", "table", tmdbCacheTable, "rows_deleted", rows)
	return nil
}
