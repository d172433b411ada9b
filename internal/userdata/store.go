// Package userdata persists the user-editable overlay (ratings, favorites,
// play counters) on top of the read-only TMDB catalog.
package userdata

import (
	"context"
	"fmt"
)

// SceneData is the stored overlay for one scene.
type SceneData struct {
	Rating100 *int
	Organized bool
	OCounter  int
}

// PerformerData is the stored overlay for one performer.
type PerformerData struct {
	Favorite  bool
	Rating100 *int
}

// SceneUpdate is a partial scene update; nil fields keep their stored value.
type SceneUpdate struct {
	Rating100 *int
	Organized *bool
	OCounter  *int
}

// PerformerUpdate is a partial performer update; nil fields keep their stored value.
type PerformerUpdate struct {
	Favorite  *bool
	Rating100 *int
}

// Store reads and writes the overlay.
type Store interface {
	Scene(ctx context.Context, id string) (SceneData, error)
	UpdateScene(ctx context.Context, id string, update SceneUpdate) (SceneData, error)
	Performer(ctx context.Context, id string) (PerformerData, error)
	UpdatePerformer(ctx context.Context, id string, update PerformerUpdate) (PerformerData, error)
	FavoritePerformers(ctx context.Context) (map[string]bool, error)
	Path() string
	Close() error
}

func validateRating(rating *int) error {
	if rating != nil && (*rating < 0 || *rating > 100) {
		return fmt.Errorf("rating100 must be between 0 and 100, got %d", *rating)
	}
	return nil
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
