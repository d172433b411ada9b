package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lepinkainen/tmdbstash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestData struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// storeFactories builds each locally testable backend around the same clock.
func storeFactories(t *testing.T, clock *testutil.Clock) map[string]Store {
	t.Helper()

	env := testutil.NewTestEnv(t)
	sqliteStore, err := NewCacheDB(filepath.Join(env.RootDir(), "test_cache.db"), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		BackendSQLite: sqliteStore,
		BackendMemory: NewMemoryStore(WithClock(clock.Now)),
	}
}

func TestStoreGetSetExpiry(t *testing.T) {
	clock := testutil.NewClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for name, store := range storeFactories(t, clock) {
		t.Run(name, func(t *testing.T) {
			_, found, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Set(ctx, "key", []byte(`{"id":1}`), time.Hour))

			data, found, err := store.Get(ctx, "key")
			require.NoError(t, err)
			require.True(t, found)
			assert.JSONEq(t, `{"id":1}`, string(data))

			clock.Advance(59 * time.Minute)
			_, found, err = store.Get(ctx, "key")
			require.NoError(t, err)
			assert.True(t, found, "entry should still be live before expiry")

			clock.Advance(time.Minute)
			_, found, err = store.Get(ctx, "key")
			require.NoError(t, err)
			assert.False(t, found, "entry must not be returned once now >= expiresAt")
		})
	}
}

func TestStoreSetOverwritesValueAndExpiry(t *testing.T) {
	clock := testutil.NewClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for name, store := range storeFactories(t, clock) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "key", []byte(`"old"`), time.Hour))
			clock.Advance(30 * time.Minute)
			require.NoError(t, store.Set(ctx, "key", []byte(`"new"`), time.Hour))

			clock.Advance(45 * time.Minute)
			data, found, err := store.Get(ctx, "key")
			require.NoError(t, err)
			require.True(t, found, "refreshed entry should carry the new expiry")
			assert.Equal(t, `"new"`, string(data))
		})
	}
}

func TestStoreClear(t *testing.T) {
	clock := testutil.NewClock(time.Now())
	ctx := context.Background()

	for name, store := range storeFactories(t, clock) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "a", []byte(`1`), time.Hour))
			require.NoError(t, store.Set(ctx, "b", []byte(`2`), time.Hour))

			require.NoError(t, store.Clear(ctx))

			for _, key := range []string{"a", "b"} {
				_, found, err := store.Get(ctx, key)
				require.NoError(t, err)
				assert.False(t, found, "key %s should be gone after Clear", key)
			}
		})
	}
}

func TestStorePrune(t *testing.T) {
	clock := testutil.NewClock(time.Now())
	ctx := context.Background()

	for name, store := range storeFactories(t, clock) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "short", []byte(`1`), time.Minute))
			require.NoError(t, store.Set(ctx, "long", []byte(`2`), time.Hour))
			clock.Advance(2 * time.Minute)

			pruner, ok := store.(Pruner)
			require.True(t, ok)
			removed, err := pruner.Prune(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), removed)

			_, found, err := store.Get(ctx, "long")
			require.NoError(t, err)
			assert.True(t, found)
		})
	}
}

func TestGetOrFetch_FetchesOnceWithinTTL(t *testing.T) {
	clock := testutil.NewClock(time.Now())
	store := NewMemoryStore(WithClock(clock.Now))
	ctx := context.Background()

	calls := 0
	fetch := func() (*TestData, error) {
		calls++
		return &TestData{ID: 42, Name: "Show 42"}, nil
	}

	first, fromCache, err := GetOrFetch(ctx, store, "https://api.test/tv/42", DefaultCacheTTL, fetch)
	require.NoError(t, err)
	assert.False(t, fromCache)

	clock.Advance(23 * time.Hour)
	second, fromCache, err := GetOrFetch(ctx, store, "https://api.test/tv/42", DefaultCacheTTL, fetch)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	clock.Advance(time.Hour)
	_, fromCache, err = GetOrFetch(ctx, store, "https://api.test/tv/42", DefaultCacheTTL, fetch)
	require.NoError(t, err)
	assert.False(t, fromCache, "expired entry must be refetched")
	assert.Equal(t, 2, calls)
}

func TestGetOrFetch_ErrorsAreNotCached(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	boom := errors.New("network down")

	calls := 0
	failing := func() (*TestData, error) {
		calls++
		return nil, boom
	}

	_, _, err := GetOrFetch(ctx, store, "key", time.Hour, failing)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Len())

	_, _, err = GetOrFetch(ctx, store, "key", time.Hour, failing)
	require.Error(t, err)
	assert.Equal(t, 2, calls, "a failed fetch must be retried on the next call")
}

func TestGetOrFetchWithPolicy_SkipsStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	fetch := func() ([]int, error) { return nil, nil }
	_, _, err := GetOrFetchWithPolicy(ctx, store, "empty", time.Hour, fetch, func(v []int) bool {
		return len(v) > 0
	})
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestGetOrFetch_NilStoreFetchesDirectly(t *testing.T) {
	calls := 0
	data, fromCache, err := GetOrFetch(context.Background(), nil, "key", time.Hour, func() (string, error) {
		calls++
		return "value", nil
	})
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "value", data)
	assert.Equal(t, 1, calls)
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("disk on fire")
}

func TestGetOrFetch_StoreFailuresDegradeToFetch(t *testing.T) {
	store := brokenStore{NewMemoryStore()}

	data, fromCache, err := GetOrFetch(context.Background(), store, "key", time.Hour, func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 7, data)
}

func TestOpen(t *testing.T) {
	env := testutil.NewTestEnv(t)

	store, err := Open(Options{Backend: "sqlite", DBFile: env.Path("open.db")})
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, store.Backend())
	require.NoError(t, store.Close())

	store, err = Open(Options{Backend: "MEMORY"})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, store.Backend())

	_, err = Open(Options{Backend: "redis"})
	require.Error(t, err)

	_, err = Open(Options{Backend: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cache backend")
}
