package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/lepinkainen/tmdbstash/internal/query"
	"github.com/lepinkainen/tmdbstash/internal/stash"
)

type systemStatusResolver struct {
	path string
}

func (s *systemStatusResolver) DatabaseSchema() *int32 {
	n := int32(appSchemaVersion)
	return &n
}

func (s *systemStatusResolver) DatabasePath() *string {
	if s.path == "" {
		return nil
	}
	return &s.path
}

func (s *systemStatusResolver) AppSchema() int32 { return appSchemaVersion }
func (s *systemStatusResolver) Status() string   { return "OK" }

func (r *Resolver) SystemStatus() *systemStatusResolver {
	return &systemStatusResolver{path: r.userData.Path()}
}

type idArgs struct {
	ID graphql.ID
}

func (r *Resolver) FindScene(ctx context.Context, args idArgs) *sceneResolver {
	scene, ok := r.catalog.Scene(ctx, string(args.ID))
	if !ok {
		return nil
	}
	return r.newScene(*scene)
}

type findScenesArgs struct {
	Filter      *findFilterInput
	SceneFilter *sceneFilterInput
	IDs         *[]graphql.ID
}

type findScenesResolver struct {
	result query.Result[stash.Scene]
	root   *Resolver
}

func (f *findScenesResolver) Count() int32 { return int32(f.result.Count) }

func (f *findScenesResolver) Scenes() []*sceneResolver {
	out := make([]*sceneResolver, 0, len(f.result.Items))
	for _, s := range f.result.Items {
		out = append(out, f.root.newScene(s))
	}
	return out
}

func (r *Resolver) FindScenes(ctx context.Context, args findScenesArgs) (*findScenesResolver, error) {
	scenes, _ := r.requestScenes(ctx)
	result, err := query.Scenes(scenes, optionalIDs(args.IDs), args.Filter.toQuery(), args.SceneFilter.toQuery())
	if err != nil {
		return nil, err
	}
	return &findScenesResolver{result: result, root: r}, nil
}

func (r *Resolver) FindPerformer(ctx context.Context, args idArgs) *performerResolver {
	performer, ok := r.catalog.Performer(ctx, string(args.ID))
	if !ok {
		return nil
	}
	return r.newPerformer(*performer)
}

type findPerformersArgs struct {
	Filter          *findFilterInput
	PerformerFilter *performerFilterInput
	IDs             *[]graphql.ID
}

type findPerformersResolver struct {
	result query.Result[stash.Performer]
	root   *Resolver
}

func (f *findPerformersResolver) Count() int32 { return int32(f.result.Count) }

func (f *findPerformersResolver) Performers() []*performerResolver {
	out := make([]*performerResolver, 0, len(f.result.Items))
	for _, p := range f.result.Items {
		out = append(out, f.root.newPerformer(p))
	}
	return out
}

func (r *Resolver) FindPerformers(ctx context.Context, args findPerformersArgs) (*findPerformersResolver, error) {
	filter := args.PerformerFilter.toQuery()

	var favorites map[string]bool
	if filter != nil && filter.Favorite != nil {
		var err error
		if favorites, err = r.userData.FavoritePerformers(ctx); err != nil {
			return nil, err
		}
	}

	result, err := query.Performers(r.catalog.Performers(ctx), optionalIDs(args.IDs), args.Filter.toQuery(), filter, favorites)
	if err != nil {
		return nil, err
	}
	return &findPerformersResolver{result: result, root: r}, nil
}

func (r *Resolver) FindStudio(ctx context.Context, args idArgs) *studioResolver {
	studio, ok := r.catalog.Studio(ctx, string(args.ID))
	if !ok {
		return nil
	}
	return r.newStudio(*studio)
}

type findStudiosArgs struct {
	Filter       *findFilterInput
	StudioFilter *nameFilterInput
	IDs          *[]graphql.ID
}

type findStudiosResolver struct {
	result query.Result[stash.Studio]
	root   *Resolver
}

func (f *findStudiosResolver) Count() int32 { return int32(f.result.Count) }

func (f *findStudiosResolver) Studios() []*studioResolver {
	out := make([]*studioResolver, 0, len(f.result.Items))
	for _, s := range f.result.Items {
		out = append(out, f.root.newStudio(s))
	}
	return out
}

func (r *Resolver) FindStudios(ctx context.Context, args findStudiosArgs) (*findStudiosResolver, error) {
	result, err := query.Studios(r.catalog.Studios(ctx), optionalIDs(args.IDs), args.Filter.toQuery(), args.StudioFilter.studioFilter())
	if err != nil {
		return nil, err
	}
	return &findStudiosResolver{result: result, root: r}, nil
}

func (r *Resolver) FindTag(ctx context.Context, args idArgs) *tagResolver {
	tag, ok := r.catalog.Tag(ctx, string(args.ID))
	if !ok {
		return nil
	}
	return &tagResolver{root: r, tag: *tag}
}

type findTagsArgs struct {
	Filter    *findFilterInput
	TagFilter *nameFilterInput
	IDs       *[]graphql.ID
}

type findTagsResolver struct {
	result query.Result[stash.Tag]
	root   *Resolver
}

func (f *findTagsResolver) Count() int32 { return int32(f.result.Count) }

func (f *findTagsResolver) Tags() []*tagResolver {
	return f.root.newTags(f.result.Items)
}

func (r *Resolver) FindTags(ctx context.Context, args findTagsArgs) (*findTagsResolver, error) {
	result, err := query.Tags(r.catalog.Tags(ctx), optionalIDs(args.IDs), args.Filter.toQuery(), args.TagFilter.tagFilter())
	if err != nil {
		return nil, err
	}
	return &findTagsResolver{result: result, root: r}, nil
}

func (r *Resolver) FindGroup(ctx context.Context, args idArgs) *groupResolver {
	showID, ok := stash.ParseNumericID(string(args.ID))
	if !ok {
		return nil
	}
	group, ok := r.catalog.Group(ctx, showID)
	if !ok {
		return nil
	}
	return r.newGroup(*group)
}

type findGroupsArgs struct {
	Filter *findFilterInput
	IDs    *[]graphql.ID
}

type findGroupsResolver struct {
	result query.Result[stash.Group]
	root   *Resolver
}

func (f *findGroupsResolver) Count() int32 { return int32(f.result.Count) }

func (f *findGroupsResolver) Groups() []*groupResolver {
	out := make([]*groupResolver, 0, len(f.result.Items))
	for _, g := range f.result.Items {
		out = append(out, f.root.newGroup(g))
	}
	return out
}

func (r *Resolver) FindGroups(ctx context.Context, args findGroupsArgs) *findGroupsResolver {
	result := query.Groups(r.catalog.Groups(ctx), optionalIDs(args.IDs), args.Filter.toQuery())
	return &findGroupsResolver{result: result, root: r}
}
