package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lepinkainen/tmdbstash/internal/config"
)

var output io.Writer = os.Stdout

// ShowsCmd represents the shows command
type ShowsCmd struct {
	IDs []int `arg:"" optional:"" help:"Show ids to print (defaults to the whole allow-list)"`
}

func (s *ShowsCmd) Run() error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	a, err := newApp(settings)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	requested := s.IDs
	if len(requested) == 0 {
		requested = settings.AllowedIDs
	}

	for _, show := range a.catalog.Shows(context.Background(), requested) {
		date := show.AirDate()
		if date == "" {
			date = "-"
		}
		if _, err := fmt.Fprintf(output, "%d\t%s\t%s\t%d seasons\n", show.ID, show.DisplayName(), date, show.NumberOfSeasons); err != nil {
			return err
		}
	}
	return nil
}
