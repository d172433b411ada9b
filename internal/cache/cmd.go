package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"
)

// OptionsFromViper reads the cache.* settings.
func OptionsFromViper() Options {
	return Options{
		Backend:  viper.GetString("cache.backend"),
		DBFile:   viper.GetString("cache.dbfile"),
		RedisURL: viper.GetString("cache.redis_url"),
	}
}

// ClearCacheCmd represents the cache clear subcommand
type ClearCacheCmd struct{}

func (c *ClearCacheCmd) Run() error {
	opts := OptionsFromViper()
	slog.Info("Clearing cache", "backend", opts.Backend, "database", opts.DBFile)

	store, err := Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// PruneCacheCmd represents the cache prune subcommand
type PruneCacheCmd struct{}

func (p *PruneCacheCmd) Run() error {
	opts := OptionsFromViper()

	store, err := Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() { _ = store.Close() }()

	pruner, ok := store.(Pruner)
	if !ok {
		slog.Info("Cache backend expires entries itself, nothing to prune", "backend", store.Backend())
		return nil
	}

	removed, err := pruner.Prune(context.Background())
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	slog.Info("Cache pruned", "backend", store.Backend(), "rows_deleted", removed)
	return nil
}
