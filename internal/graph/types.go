package graph

import (
	"context"
	"sync"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/lepinkainen/tmdbstash/internal/stash"
	"github.com/lepinkainen/tmdbstash/internal/userdata"
)

type sceneResolver struct {
	root  *Resolver
	scene stash.Scene

	once    sync.Once
	overlay userdata.SceneData
	err     error
}

func (r *Resolver) newScene(scene stash.Scene) *sceneResolver {
	return &sceneResolver{root: r, scene: scene}
}

func (s *sceneResolver) userData(ctx context.Context) (userdata.SceneData, error) {
	s.once.Do(func() {
		s.overlay, s.err = s.root.userData.Scene(ctx, s.scene.ID)
	})
	return s.overlay, s.err
}

func (s *sceneResolver) ID() graphql.ID   { return graphql.ID(s.scene.ID) }
func (s *sceneResolver) Title() *string   { return &s.scene.Title }
func (s *sceneResolver) Details() *string { return s.scene.Details }
func (s *sceneResolver) Date() *string    { return s.scene.Date }
func (s *sceneResolver) URLs() []string   { return nonNil(s.scene.URLs) }

func (s *sceneResolver) Rating100(ctx context.Context) (*int32, error) {
	data, err := s.userData(ctx)
	if err != nil {
		return nil, err
	}
	return int32From(data.Rating100), nil
}

func (s *sceneResolver) Organized(ctx context.Context) (bool, error) {
	data, err := s.userData(ctx)
	if err != nil {
		return false, err
	}
	return data.Organized, nil
}

func (s *sceneResolver) OCounter(ctx context.Context) (*int32, error) {
	data, err := s.userData(ctx)
	if err != nil {
		return nil, err
	}
	n := int32(data.OCounter)
	return &n, nil
}

func (s *sceneResolver) Paths() *scenePathsResolver {
	return &scenePathsResolver{paths: s.scene.Paths}
}

func (s *sceneResolver) Studio() *studioResolver {
	if s.scene.Studio == nil {
		return nil
	}
	return s.root.newStudio(*s.scene.Studio)
}

func (s *sceneResolver) Performers() []*performerResolver {
	out := make([]*performerResolver, 0, len(s.scene.Performers))
	for _, p := range s.scene.Performers {
		out = append(out, s.root.newPerformer(p))
	}
	return out
}

func (s *sceneResolver) Tags() []*tagResolver {
	return s.root.newTags(s.scene.Tags)
}

func (s *sceneResolver) Groups() []*sceneGroupResolver {
	out := make([]*sceneGroupResolver, 0, len(s.scene.Groups))
	for _, g := range s.scene.Groups {
		out = append(out, &sceneGroupResolver{group: s.root.newGroup(g)})
	}
	return out
}

type scenePathsResolver struct {
	paths stash.ScenePaths
}

func (p *scenePathsResolver) Screenshot() *string { return p.paths.Screenshot }
func (p *scenePathsResolver) Stream() *string     { return p.paths.Stream }

type sceneGroupResolver struct {
	group *groupResolver
}

func (g *sceneGroupResolver) Group() *groupResolver { return g.group }
func (g *sceneGroupResolver) SceneIndex() *int32    { return nil }

type performerResolver struct {
	root      *Resolver
	performer stash.Performer

	once    sync.Once
	overlay userdata.PerformerData
	err     error
}

func (r *Resolver) newPerformer(p stash.Performer) *performerResolver {
	return &performerResolver{root: r, performer: p}
}

func (p *performerResolver) userData(ctx context.Context) (userdata.PerformerData, error) {
	p.once.Do(func() {
		p.overlay, p.err = p.root.userData.Performer(ctx, p.performer.ID)
	})
	return p.overlay, p.err
}

func (p *performerResolver) ID() graphql.ID          { return graphql.ID(p.performer.ID) }
func (p *performerResolver) Name() string            { return p.performer.Name }
func (p *performerResolver) Disambiguation() *string { return p.performer.Disambiguation }
func (p *performerResolver) Gender() *string         { return p.performer.Gender }
func (p *performerResolver) URLs() []string          { return nonNil(p.performer.URLs) }
func (p *performerResolver) ImagePath() *string      { return p.performer.ImagePath }

func (p *performerResolver) Favorite(ctx context.Context) (bool, error) {
	data, err := p.userData(ctx)
	if err != nil {
		return false, err
	}
	return data.Favorite, nil
}

func (p *performerResolver) Rating100(ctx context.Context) (*int32, error) {
	data, err := p.userData(ctx)
	if err != nil {
		return nil, err
	}
	return int32From(data.Rating100), nil
}

func (p *performerResolver) SceneCount(ctx context.Context) int32 {
	return int32(p.root.sceneIndex(ctx).byPerformer[p.performer.ID])
}

func (p *performerResolver) Galleries(ctx context.Context) []*galleryResolver {
	personID, ok := stash.ParseNumericID(p.performer.ID)
	if !ok {
		return []*galleryResolver{}
	}
	return newGalleries(p.root.catalog.PerformerGalleries(ctx, personID))
}

type studioResolver struct {
	root   *Resolver
	studio stash.Studio
}

func (r *Resolver) newStudio(s stash.Studio) *studioResolver {
	return &studioResolver{root: r, studio: s}
}

func (s *studioResolver) ID() graphql.ID     { return graphql.ID(s.studio.ID) }
func (s *studioResolver) Name() string       { return s.studio.Name }
func (s *studioResolver) ImagePath() *string { return s.studio.ImagePath }

func (s *studioResolver) SceneCount(ctx context.Context) int32 {
	return int32(s.root.sceneIndex(ctx).byStudio[s.studio.ID])
}

type tagResolver struct {
	root *Resolver
	tag  stash.Tag
}

func (r *Resolver) newTags(tags []stash.Tag) []*tagResolver {
	out := make([]*tagResolver, 0, len(tags))
	for _, t := range tags {
		out = append(out, &tagResolver{root: r, tag: t})
	}
	return out
}

func (t *tagResolver) ID() graphql.ID { return graphql.ID(t.tag.ID) }
func (t *tagResolver) Name() string   { return t.tag.Name }

func (t *tagResolver) SceneCount(ctx context.Context) int32 {
	return int32(t.root.sceneIndex(ctx).byTag[t.tag.ID])
}

func (t *tagResolver) PerformerCount(ctx context.Context) int32 {
	return int32(len(t.root.sceneIndex(ctx).tagPerformers[t.tag.ID]))
}

type groupResolver struct {
	root  *Resolver
	group stash.Group
}

func (r *Resolver) newGroup(g stash.Group) *groupResolver {
	return &groupResolver{root: r, group: g}
}

func (g *groupResolver) ID() graphql.ID          { return graphql.ID(g.group.ID) }
func (g *groupResolver) Name() string            { return g.group.Name }
func (g *groupResolver) Date() *string           { return g.group.Date }
func (g *groupResolver) Synopsis() *string       { return g.group.Synopsis }
func (g *groupResolver) FrontImagePath() *string { return g.group.FrontImagePath }
func (g *groupResolver) URLs() []string          { return nonNil(g.group.URLs) }
func (g *groupResolver) Tags() []*tagResolver    { return g.root.newTags(g.group.Tags) }

func (g *groupResolver) Studio() *studioResolver {
	if g.group.Studio == nil {
		return nil
	}
	return g.root.newStudio(*g.group.Studio)
}

func (g *groupResolver) SceneCount(ctx context.Context) int32 {
	return int32(g.root.sceneIndex(ctx).byGroup[g.group.ID])
}

func (g *groupResolver) Scenes(ctx context.Context) []*sceneResolver {
	showID, ok := stash.ParseNumericID(g.group.ID)
	if !ok {
		return []*sceneResolver{}
	}
	scenes := g.root.catalog.ShowScenes(ctx, showID)
	out := make([]*sceneResolver, 0, len(scenes))
	for _, scene := range scenes {
		out = append(out, g.root.newScene(scene))
	}
	return out
}

func (g *groupResolver) Galleries(ctx context.Context) []*galleryResolver {
	showID, ok := stash.ParseNumericID(g.group.ID)
	if !ok {
		return []*galleryResolver{}
	}
	return newGalleries(g.root.catalog.GroupGalleries(ctx, showID))
}

type galleryResolver struct {
	gallery stash.Gallery
}

func newGalleries(galleries []stash.Gallery) []*galleryResolver {
	out := make([]*galleryResolver, 0, len(galleries))
	for _, g := range galleries {
		out = append(out, &galleryResolver{gallery: g})
	}
	return out
}

func (g *galleryResolver) ID() graphql.ID    { return graphql.ID(g.gallery.ID) }
func (g *galleryResolver) Title() *string    { return g.gallery.Title }
func (g *galleryResolver) ImageCount() int32 { return int32(len(g.gallery.Files)) }

func (g *galleryResolver) Images() []*galleryImageResolver {
	out := make([]*galleryImageResolver, 0, len(g.gallery.Files))
	for _, f := range g.gallery.Files {
		out = append(out, &galleryImageResolver{file: f})
	}
	return out
}

type galleryImageResolver struct {
	file stash.ImageFile
}

func (i *galleryImageResolver) Path() string  { return i.file.Path }
func (i *galleryImageResolver) Width() int32  { return int32(i.file.Width) }
func (i *galleryImageResolver) Height() int32 { return int32(i.file.Height) }

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
