package cmd

import (
	"log/slog"
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/tmdbstash/internal/config"
	"github.com/lepinkainen/tmdbstash/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCmdState(t *testing.T) {
	t.Helper()
	testutil.ResetConfig(t)
	require.NoError(t, config.SetDefaults())
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"tmdbstash"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tmdbstash"),
		kong.Description("Serve TMDB shows through a Stash-compatible GraphQL API."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestServeCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "--debug", "serve", "--addr", "127.0.0.1:9999")

	assert.Equal(t, "serve", ctx.Command())
	assert.True(t, cli.Debug)
	assert.Equal(t, "127.0.0.1:9999", cli.Serve.Addr)
}

func TestShowsCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "shows", "1399", "42")
	assert.Equal(t, "shows <ids>", ctx.Command())
	assert.Equal(t, []int{1399, 42}, cli.Shows.IDs)

	cli, _ = parseCLI(t, "shows")
	assert.Empty(t, cli.Shows.IDs)
}

func TestCacheCommandParsing(t *testing.T) {
	resetCmdState(t)

	_, ctx := parseCLI(t, "cache", "clear")
	assert.Equal(t, "cache clear", ctx.Command())

	_, ctx = parseCLI(t, "cache", "prune")
	assert.Equal(t, "cache prune", ctx.Command())
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	updateGlobalConfig(&CLI{})
	assert.Equal(t, config.DefaultCacheDBFile, viper.GetString("cache.dbfile"))
	assert.Equal(t, config.DefaultUserDataFile, viper.GetString("userdata.dbfile"))

	updateGlobalConfig(&CLI{
		CacheBackend: "memory",
		CacheDBFile:  "/tmp/cache.db",
		UserDataFile: "/tmp/userdata.db",
	})
	assert.Equal(t, "memory", viper.GetString("cache.backend"))
	assert.Equal(t, "/tmp/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "/tmp/userdata.db", viper.GetString("userdata.dbfile"))
}

func TestInitConfig_MissingFileIsNotAnError(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.Chdir()

	require.NoError(t, initConfig())
	assert.Equal(t, config.DefaultServerAddr, viper.GetString("server.addr"))
}

func TestInitConfig_ReadsConfigFile(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("config.yaml", `tmdb:
  token: from-file
  allowed_ids: [1399, 42]
server:
  addr: ":9090"
`)
	env.Chdir()

	require.NoError(t, initConfig())
	assert.Equal(t, "from-file", viper.GetString("tmdb.token"))
	assert.Equal(t, ":9090", viper.GetString("server.addr"))

	t.Setenv("TMDB_API_TOKEN", "from-env")
	assert.Equal(t, "from-env", viper.GetString("tmdb.token"), "environment overrides the file")
}

func TestInitConfig_BrokenFile(t *testing.T) {
	testutil.ResetConfig(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("config.yaml", "tmdb: [\n")
	env.Chdir()

	require.Error(t, initConfig())
}

func TestInitLogging(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	for _, level := range []slog.Level{slog.LevelInfo, slog.LevelDebug} {
		require.NotPanics(t, func() { initLogging(level) })
	}
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
