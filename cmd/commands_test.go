package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lepinkainen/tmdbstash/internal/cache"
	"github.com/lepinkainen/tmdbstash/internal/server"
	"github.com/lepinkainen/tmdbstash/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUpstream points the configuration at a fake TMDB serving two shows.
func setupUpstream(t *testing.T) (*testutil.TestEnv, *testutil.FakeTMDB) {
	t.Helper()
	resetCmdState(t)

	fake := testutil.NewFakeTMDB(t)
	fake.AddShow(testutil.ShowFixture{
		ID:           42,
		Name:         "The Answer",
		FirstAirDate: "2020-01-02",
		Seasons:      3,
		Videos:       []testutil.VideoFixture{{ID: "v1", Key: "a"}, {ID: "v2", Key: "b"}},
		Cast:         []testutil.CastFixture{{ID: 1000, Name: "Jane Doe"}},
	})
	fake.AddShow(testutil.ShowFixture{ID: 7, Name: "Seven", Seasons: 1})

	env := testutil.NewTestEnv(t)
	t.Setenv("TMDB_API_TOKEN", testutil.FakeTMDBToken)
	t.Setenv("TMDB_BASE_URL", fake.URL())
	t.Setenv("ALLOWED_TMDB_IDS", "42,7")
	testutil.SetupTestCache(t, env)
	t.Setenv("USERDATA_DBFILE", env.Path("userdata.db"))

	return env, fake
}

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := output
	output = &buf
	t.Cleanup(func() { output = orig })
	return &buf
}

func TestShowsCmd_PrintsAllowList(t *testing.T) {
	_, fake := setupUpstream(t)
	buf := captureOutput(t)

	require.NoError(t, (&ShowsCmd{}).Run())
	assert.Equal(t, "42\tThe Answer\t2020-01-02\t3 seasons\n7\tSeven\t-\t1 seasons\n", buf.String())

	buf.Reset()
	require.NoError(t, (&ShowsCmd{IDs: []int{7, 99}}).Run())
	assert.Equal(t, "7\tSeven\t-\t1 seasons\n", buf.String())
	assert.Zero(t, fake.Requests("/tv/99"))
}

func TestShowsCmd_ConfigurationErrors(t *testing.T) {
	setupUpstream(t)
	t.Setenv("TMDB_API_TOKEN", "")

	err := (&ShowsCmd{}).Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TMDB_API_TOKEN")
}

func TestCacheClear_EmptiesSQLiteCache(t *testing.T) {
	setupUpstream(t)
	captureOutput(t)

	require.NoError(t, (&ShowsCmd{}).Run())

	store, err := cache.Open(cache.OptionsFromViper())
	require.NoError(t, err)
	_, found, err := store.Get(context.Background(), viper.GetString("tmdb.base_url")+"/tv/42")
	require.NoError(t, err)
	assert.True(t, found, "shows should have filled the cache")
	require.NoError(t, store.Close())

	require.NoError(t, (&cache.ClearCacheCmd{}).Run())
	require.NoError(t, (&cache.PruneCacheCmd{}).Run())

	store, err = cache.Open(cache.OptionsFromViper())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, found, err = store.Get(context.Background(), viper.GetString("tmdb.base_url")+"/tv/42")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestServeCmd_WiresGraphQL(t *testing.T) {
	setupUpstream(t)

	var (
		status       int
		cacheControl string
		body         bytes.Buffer
	)
	orig := runServer
	runServer = func(_ context.Context, s *server.Server) error {
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()

		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Post(srv.URL+"/graphql", "application/json",
			strings.NewReader(`{"query":"{ findScenes { count scenes { id performers { id } } } }"}`))
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		status = resp.StatusCode
		cacheControl = resp.Header.Get("Cache-Control")
		_, err = body.ReadFrom(resp.Body)
		return err
	}
	t.Cleanup(func() { runServer = orig })

	require.NoError(t, (&ServeCmd{Addr: "127.0.0.1:0"}).Run())
	assert.Equal(t, "127.0.0.1:0", viper.GetString("server.addr"))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, server.CacheControl, cacheControl)
	assert.JSONEq(t, `{"data":{"findScenes":{"count":2,"scenes":[
		{"id":"scene-42-v1","performers":[{"id":"1000"}]},
		{"id":"scene-42-v2","performers":[{"id":"1000"}]}
	]}}}`, body.String())
}
