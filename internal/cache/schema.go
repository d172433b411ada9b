package cache

// TMDBCacheSchema defines the table holding raw TMDB responses keyed by
// request URL. expires_at is a Unix timestamp in milliseconds.
const TMDBCacheSchema = `
CREATE TABLE IF NOT EXISTS tmdb_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tmdb_expires_at ON tmdb_cache(expires_at);
`

const tmdbCacheTable = "tmdb_cache"
