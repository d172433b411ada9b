package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/tmdbstash/internal/cache"
	"github.com/lepinkainen/tmdbstash/internal/catalog"
	"github.com/lepinkainen/tmdbstash/internal/config"
	"github.com/lepinkainen/tmdbstash/internal/tmdb"
)

// app holds the long-lived components shared by the commands.
type app struct {
	settings *config.Settings
	store    cache.Store
	catalog  *catalog.Aggregator
}

func newApp(settings *config.Settings) (*app, error) {
	store, err := cache.Open(settings.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	client := tmdb.NewClient(settings.TMDBToken,
		tmdb.WithBaseURL(settings.BaseURL),
		tmdb.WithStore(store),
		tmdb.WithTTL(settings.CacheTTL),
	)

	slog.Info("Catalog configured",
		"shows", len(settings.AllowedIDs),
		"cache_backend", store.Backend(),
		"cache_ttl", settings.CacheTTL,
	)

	return &app{
		settings: settings,
		store:    store,
		catalog:  catalog.New(client, settings.AllowedIDs),
	}, nil
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close cache: %w", err)
	}
	return nil
}
