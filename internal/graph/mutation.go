package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/tmdbstash/internal/userdata"
)

type sceneUpdateArgs struct {
	Input sceneUpdateInput
}

// SceneUpdate stores user data for a scene of an allow-listed show.
func (r *Resolver) SceneUpdate(ctx context.Context, args sceneUpdateArgs) (*sceneResolver, error) {
	id := string(args.Input.ID)
	scene, ok := r.catalog.Scene(ctx, id)
	if !ok {
		return nil, fmt.Errorf("scene %s not found", id)
	}

	_, err := r.userData.UpdateScene(ctx, id, userdata.SceneUpdate{
		Rating100: intFrom32(args.Input.Rating100),
		Organized: args.Input.Organized,
		OCounter:  intFrom32(args.Input.OCounter),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update scene %s: %w", id, err)
	}

	slog.Info("Updated scene", "scene_id", id)
	return r.newScene(*scene), nil
}

type performerUpdateArgs struct {
	Input performerUpdateInput
}

// PerformerUpdate stores user data for a performer of an allow-listed show.
func (r *Resolver) PerformerUpdate(ctx context.Context, args performerUpdateArgs) (*performerResolver, error) {
	id := string(args.Input.ID)
	performer, ok := r.catalog.Performer(ctx, id)
	if !ok {
		return nil, fmt.Errorf("performer %s not found", id)
	}

	_, err := r.userData.UpdatePerformer(ctx, id, userdata.PerformerUpdate{
		Favorite:  args.Input.Favorite,
		Rating100: intFrom32(args.Input.Rating100),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update performer %s: %w", id, err)
	}

	slog.Info("Updated performer", "performer_id", id)
	return r.newPerformer(*performer), nil
}
