package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lepinkainen/tmdbstash/internal/config"
	"github.com/lepinkainen/tmdbstash/internal/graph"
	"github.com/lepinkainen/tmdbstash/internal/server"
	"github.com/lepinkainen/tmdbstash/internal/userdata"
	"github.com/spf13/viper"
)

var runServer = func(ctx context.Context, s *server.Server) error {
	return s.Run(ctx)
}

// ServeCmd represents the serve command
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to server.addr, :8080)"`
}

func (s *ServeCmd) Run() error {
	if s.Addr != "" {
		viper.Set("server.addr", s.Addr)
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}

	a, err := newApp(settings)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	store, err := userdata.NewSQLiteStore(settings.UserDataFile)
	if err != nil {
		return fmt.Errorf("failed to open user data: %w", err)
	}
	defer func() { _ = store.Close() }()

	schema, err := graph.NewSchema(graph.NewResolver(a.catalog, store))
	if err != nil {
		return fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}

	srv := server.New(server.Config{
		Addr:        settings.ServerAddr,
		CORSOrigins: settings.CORSOrigins,
		RateLimit:   settings.RateLimit,
	}, schema.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, srv)
}
