// Package graph serves the aggregated catalog through a Stash-compatible
// GraphQL schema.
package graph

import (
	"context"
	_ "embed"
	"net/http"
	"sync"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/lepinkainen/tmdbstash/internal/stash"
	"github.com/lepinkainen/tmdbstash/internal/userdata"
)

//go:embed schema.graphql
var schemaSDL string

// appSchemaVersion is reported by systemStatus.
const appSchemaVersion = 1

// Catalog is the read side the resolvers need.
type Catalog interface {
	Scenes(ctx context.Context) []stash.Scene
	ShowScenes(ctx context.Context, showID int) []stash.Scene
	Scene(ctx context.Context, id string) (*stash.Scene, bool)
	Performers(ctx context.Context) []stash.Performer
	Performer(ctx context.Context, id string) (*stash.Performer, bool)
	Studios(ctx context.Context) []stash.Studio
	Studio(ctx context.Context, id string) (*stash.Studio, bool)
	Tags(ctx context.Context) []stash.Tag
	Tag(ctx context.Context, id string) (*stash.Tag, bool)
	Groups(ctx context.Context) []stash.Group
	Group(ctx context.Context, showID int) (*stash.Group, bool)
	PerformerGalleries(ctx context.Context, personID int) []stash.Gallery
	GroupGalleries(ctx context.Context, showID int) []stash.Gallery
}

// Resolver is the root resolver.
type Resolver struct {
	catalog  Catalog
	userData userdata.Store
}

// NewResolver creates the root resolver.
func NewResolver(catalog Catalog, userData userdata.Store) *Resolver {
	return &Resolver{catalog: catalog, userData: userData}
}

// Schema is an executable schema bound to a resolver.
type Schema struct {
	schema *graphql.Schema
}

// NewSchema parses the embedded schema against the resolver.
func NewSchema(r *Resolver) (*Schema, error) {
	schema, err := graphql.ParseSchema(schemaSDL, r, graphql.MaxParallelism(8))
	if err != nil {
		return nil, err
	}
	return &Schema{schema: schema}, nil
}

// Exec runs one operation with its own request state.
func (s *Schema) Exec(ctx context.Context, query, operationName string, variables map[string]any) *graphql.Response {
	return s.schema.Exec(withRequestState(ctx), query, operationName, variables)
}

// Handler serves GraphQL over HTTP POST.
func (s *Schema) Handler() http.Handler {
	h := &relay.Handler{Schema: s.schema}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(withRequestState(r.Context())))
	})
}

type stateKey struct{}

// requestState memoizes the aggregated scene set for one request so that
// findScenes, scene_count and performer_count share a single aggregation.
type requestState struct {
	once   sync.Once
	scenes []stash.Scene
	index  *sceneIndex
}

func withRequestState(ctx context.Context) context.Context {
	return context.WithValue(ctx, stateKey{}, &requestState{})
}

func (r *Resolver) requestScenes(ctx context.Context) ([]stash.Scene, *sceneIndex) {
	state, ok := ctx.Value(stateKey{}).(*requestState)
	if !ok {
		scenes := r.catalog.Scenes(ctx)
		return scenes, buildSceneIndex(scenes)
	}
	state.once.Do(func() {
		state.scenes = r.catalog.Scenes(ctx)
		state.index = buildSceneIndex(state.scenes)
	})
	return state.scenes, state.index
}

func (r *Resolver) sceneIndex(ctx context.Context) *sceneIndex {
	_, idx := r.requestScenes(ctx)
	return idx
}

// sceneIndex counts scenes per related entity.
type sceneIndex struct {
	byPerformer   map[string]int
	byStudio      map[string]int
	byTag         map[string]int
	byGroup       map[string]int
	tagPerformers map[string]map[string]struct{}
}

func buildSceneIndex(scenes []stash.Scene) *sceneIndex {
	idx := &sceneIndex{
		byPerformer:   make(map[string]int),
		byStudio:      make(map[string]int),
		byTag:         make(map[string]int),
		byGroup:       make(map[string]int),
		tagPerformers: make(map[string]map[string]struct{}),
	}
	for _, scene := range scenes {
		for _, p := range scene.Performers {
			idx.byPerformer[p.ID]++
		}
		if scene.Studio != nil {
			idx.byStudio[scene.Studio.ID]++
		}
		for _, g := range scene.Groups {
			idx.byGroup[g.ID]++
		}
		for _, t := range scene.Tags {
			idx.byTag[t.ID]++
			performers, ok := idx.tagPerformers[t.ID]
			if !ok {
				performers = make(map[string]struct{})
				idx.tagPerformers[t.ID] = performers
			}
			for _, p := range scene.Performers {
				performers[p.ID] = struct{}{}
			}
		}
	}
	return idx
}
