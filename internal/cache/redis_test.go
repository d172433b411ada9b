package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRedis_InvalidURL(t *testing.T) {
	_, err := OpenRedis("not-a-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis URL")
}

func TestRedisStore_UnreachableServerReportsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisStore(client, WithKeyPrefix("test:"))
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()

	_, found, err := store.Get(ctx, "key")
	require.Error(t, err, "a connection failure is an error, not a miss")
	assert.False(t, found)

	err = store.Set(ctx, "key", []byte("1"), time.Hour)
	require.Error(t, err)
	assert.Equal(t, BackendRedis, store.Backend())
	assert.Equal(t, "test:", store.prefix)
}
