package testutil

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEnv_Path(t *testing.T) {
	env := NewTestEnv(t)

	path := env.Path("subdir", "file.txt")
	assert.True(t, filepath.IsAbs(path))
	assert.Contains(t, path, "subdir")
	assert.Contains(t, path, "file.txt")
}

func TestTestEnv_WriteFile(t *testing.T) {
	env := NewTestEnv(t)

	path := env.WriteFileString("nested/test.txt", "test content")

	read, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "test content", string(read))
	assert.True(t, env.FileExists("nested/test.txt"))
	assert.False(t, env.FileExists("missing.txt"))
}

func TestResetConfig(t *testing.T) {
	t.Setenv("TMDB_API_TOKEN", "leaked")
	viper.Set("tmdb.token", "leaked")

	t.Run("cleared", func(t *testing.T) {
		ResetConfig(t)
		_, ok := os.LookupEnv("TMDB_API_TOKEN")
		assert.False(t, ok)
		assert.False(t, viper.IsSet("tmdb.token"))
	})

	assert.Equal(t, "leaked", os.Getenv("TMDB_API_TOKEN"))
}

func TestClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	assert.Equal(t, start, clock.Now())
	clock.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), clock.Now())
}

func get(t *testing.T, fake *FakeTMDB, path, token string) (int, string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, fake.URL()+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := fake.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestFakeTMDB(t *testing.T) {
	fake := NewFakeTMDB(t)
	fake.AddShow(ShowFixture{
		ID:     42,
		Name:   "The Answer",
		Videos: []VideoFixture{{ID: "v1", Key: "abc", Name: "Trailer"}},
		Cast:   []CastFixture{{ID: 1000, Name: "Jane Doe"}},
	})

	status, _ := get(t, fake, "/tv/42", "wrong")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := get(t, fake, "/tv/42/videos", FakeTMDBToken)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"key":"abc"`)

	status, _ = get(t, fake, "/tv/7", FakeTMDBToken)
	assert.Equal(t, http.StatusNotFound, status)

	fake.FailShow(42, http.StatusInternalServerError)
	status, _ = get(t, fake, "/tv/42/credits", FakeTMDBToken)
	assert.Equal(t, http.StatusInternalServerError, status)

	assert.Equal(t, 2, fake.Requests("/tv/42"))
	assert.Equal(t, 4, fake.TotalRequests())
}
