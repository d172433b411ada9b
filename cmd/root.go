package cmd

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/lepinkainen/tmdbstash/internal/cache"
	"github.com/lepinkainen/tmdbstash/internal/config"
	"github.com/spf13/viper"
)

// CLI represents the complete command structure for the tmdbstash application
type CLI struct {
	// Global flags
	Debug bool `help:"Enable debug logging"`

	// Storage flags, overriding config.yaml and environment values when set
	CacheBackend string `help:"Cache backend (sqlite, memory or redis)"`
	CacheDBFile  string `help:"Path to cache SQLite database file"`
	UserDataFile string `help:"Path to user data SQLite database file"`

	Serve ServeCmd `cmd:"" help:"Serve the Stash-compatible GraphQL API"`
	Shows ShowsCmd `cmd:"" help:"Print details of allow-listed shows"`
	Cache CacheCmd `cmd:"" help:"Manage the TMDB response cache"`
}

// CacheCmd groups the cache maintenance subcommands
type CacheCmd struct {
	Clear cache.ClearCacheCmd `cmd:"" help:"Delete every cached response"`
	Prune cache.PruneCacheCmd `cmd:"" help:"Delete expired cached responses"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)

	if err := initConfig(); err != nil {
		slog.Error("Fatal error config file", "error", err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tmdbstash"),
		kong.Description("Serve TMDB shows through a Stash-compatible GraphQL API."),
		kong.UsageOnError(),
	)

	if cli.Debug {
		initLogging(slog.LevelDebug)
	}

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() error {
	if err := config.SetDefaults(); err != nil {
		return err
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults and environment")
			return nil
		}
		return err
	}

	slog.Debug("Loaded config file", "path", viper.ConfigFileUsed())
	return nil
}

func updateGlobalConfig(cli *CLI) {
	if cli.CacheBackend != "" {
		viper.Set("cache.backend", cli.CacheBackend)
	}
	if cli.CacheDBFile != "" {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if cli.UserDataFile != "" {
		viper.Set("userdata.dbfile", cli.UserDataFile)
	}
}

func initLogging(level slog.Level) {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
