package testutil

import (
	"testing"

	"github.com/spf13/viper"
)

// configEnvVars lists every environment variable the application binds.
var configEnvVars = []string{
	"TMDB_API_TOKEN",
	"ALLOWED_TMDB_IDS",
	"TMDB_SHOWS_FILE",
	"TMDB_BASE_URL",
	"CACHE_BACKEND",
	"CACHE_DBFILE",
	"KV_URL",
	"USERDATA_DBFILE",
}

// ResetConfig resets viper and clears the bound environment variables.
// Viper is reset again when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	env := &TestEnv{t: t}
	for _, key := range configEnvVars {
		env.UnsetEnv(key)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset, so an unset key cannot be restored.
	})
}

// SetupTestCache points the cache configuration at a database inside env.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	dbPath := env.Path("test-cache.db")
	SetViperValue(t, "cache.backend", "sqlite")
	SetViperValue(t, "cache.dbfile", dbPath)
	return dbPath
}
