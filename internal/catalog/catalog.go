// Package catalog aggregates TMDB data across the allow-listed shows into
// Stash entity collections.
package catalog

import (
	"context"
	"log/slog"
	"slices"

	"github.com/lepinkainen/tmdbstash/internal/errors"
	"github.com/lepinkainen/tmdbstash/internal/metrics"
	"github.com/lepinkainen/tmdbstash/internal/stash"
	"github.com/lepinkainen/tmdbstash/internal/tmdb"
	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/pool"
)

// Entity kinds, used for logging and metrics labels.
const (
	KindShows      = "shows"
	KindScenes     = "scenes"
	KindPerformers = "performers"
	KindStudios    = "studios"
	KindTags       = "tags"
	KindGroups     = "groups"
	KindGalleries  = "galleries"
)

const defaultConcurrency = 8

// Upstream is the set of TMDB accessors the aggregator needs.
// *tmdb.Client implements it.
type Upstream interface {
	ShowDetails(ctx context.Context, showID int) (*tmdb.ShowDetails, error)
	ShowVideos(ctx context.Context, showID int) ([]tmdb.Video, error)
	ShowCredits(ctx context.Context, showID int) ([]tmdb.CastMember, error)
	PersonImages(ctx context.Context, personID int) ([]tmdb.Image, error)
	SeasonImages(ctx context.Context, showID, season int) ([]tmdb.Image, error)
}

// Aggregator fans upstream calls out over the allow-list. It never requests
// a show outside the allow-list, and a failing show only removes its own
// contribution from the result.
type Aggregator struct {
	upstream    Upstream
	allowed     []int
	allowedSet  map[int]struct{}
	concurrency int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithConcurrency bounds how many shows are fetched at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// New creates an Aggregator over the given allow-list. The list order is the
// order in which per-show results are concatenated.
func New(upstream Upstream, allowed []int, opts ...Option) *Aggregator {
	a := &Aggregator{
		upstream:    upstream,
		allowedSet:  make(map[int]struct{}, len(allowed)),
		concurrency: defaultConcurrency,
	}
	for _, id := range allowed {
		if _, ok := a.allowedSet[id]; ok {
			continue
		}
		a.allowedSet[id] = struct{}{}
		a.allowed = append(a.allowed, id)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AllowedIDs returns a copy of the allow-list.
func (a *Aggregator) AllowedIDs() []int {
	return slices.Clone(a.allowed)
}

// IsAllowed reports whether showID is in the allow-list.
func (a *Aggregator) IsAllowed(showID int) bool {
	_, ok := a.allowedSet[showID]
	return ok
}

// collect runs fetch for every id concurrently and concatenates the results
// in id order. Failing ids are logged and contribute nothing.
func collect[R any](ctx context.Context, a *Aggregator, kind string, ids []int, fetch func(ctx context.Context, id int) ([]R, error)) []R {
	mapper := iter.Mapper[int, []R]{MaxGoroutines: a.concurrency}
	perID := mapper.Map(ids, func(id *int) []R {
		items, err := fetch(ctx, *id)
		if err != nil {
			// A rejected token fails every id.
			if errors.IsAuthError(err) {
				slog.Error("TMDB rejected the API token", "kind", kind, "id", *id, "error", err)
			} else {
				slog.Warn("Skipping failed upstream id", "kind", kind, "id", *id, "error", err)
			}
			metrics.RecordAggregateFailure(kind)
			return nil
		}
		return items
	})

	out := make([]R, 0)
	for _, items := range perID {
		out = append(out, items...)
	}
	return out
}

// dedupe keeps the first item for each key, preserving order.
func dedupe[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Shows fetches details for the requested ids that are also allow-listed,
// in requested order.
func (a *Aggregator) Shows(ctx context.Context, requested []int) []tmdb.ShowDetails {
	var ids []int
	seen := make(map[int]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup || !a.IsAllowed(id) {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return collect(ctx, a, KindShows, ids, func(ctx context.Context, id int) ([]tmdb.ShowDetails, error) {
		details, err := a.upstream.ShowDetails(ctx, id)
		if err != nil {
			return nil, err
		}
		return []tmdb.ShowDetails{*details}, nil
	})
}

// showScenes fetches videos, credits and details for one show concurrently.
// Any of the three failing fails the show.
func (a *Aggregator) showScenes(ctx context.Context, showID int) ([]stash.Scene, error) {
	var (
		videos  []tmdb.Video
		cast    []tmdb.CastMember
		details *tmdb.ShowDetails
	)

	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		videos, err = a.upstream.ShowVideos(ctx, showID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		cast, err = a.upstream.ShowCredits(ctx, showID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		details, err = a.upstream.ShowDetails(ctx, showID)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return stash.BuildScenes(showID, videos, cast, *details), nil
}

// Scenes returns every video of every allow-listed show as a scene.
func (a *Aggregator) Scenes(ctx context.Context) []stash.Scene {
	return collect(ctx, a, KindScenes, a.allowed, a.showScenes)
}

// ShowScenes returns the scenes of one show. Shows outside the allow-list
// yield nothing and cause no upstream request.
func (a *Aggregator) ShowScenes(ctx context.Context, showID int) []stash.Scene {
	if !a.IsAllowed(showID) {
		return nil
	}
	return collect(ctx, a, KindScenes, []int{showID}, a.showScenes)
}

// Scene looks a scene up by id.
func (a *Aggregator) Scene(ctx context.Context, id string) (*stash.Scene, bool) {
	showID, _, ok := stash.ParseSceneID(id)
	if !ok {
		return nil, false
	}
	for _, scene := range a.ShowScenes(ctx, showID) {
		if scene.ID == id {
			return &scene, true
		}
	}
	return nil, false
}

// Performers returns the cast of every allow-listed show, each person once.
func (a *Aggregator) Performers(ctx context.Context) []stash.Performer {
	all := collect(ctx, a, KindPerformers, a.allowed, func(ctx context.Context, id int) ([]stash.Performer, error) {
		cast, err := a.upstream.ShowCredits(ctx, id)
		if err != nil {
			return nil, err
		}
		return stash.PerformersFromCast(cast), nil
	})
	return dedupe(all, func(p stash.Performer) string { return p.ID })
}

// Performer looks a performer up by id.
func (a *Aggregator) Performer(ctx context.Context, id string) (*stash.Performer, bool) {
	return find(a.Performers(ctx), func(p stash.Performer) bool { return p.ID == id })
}

// Studios returns the networks of every allow-listed show. Networks shared
// between shows appear once per show.
func (a *Aggregator) Studios(ctx context.Context) []stash.Studio {
	return collect(ctx, a, KindStudios, a.allowed, func(ctx context.Context, id int) ([]stash.Studio, error) {
		details, err := a.upstream.ShowDetails(ctx, id)
		if err != nil {
			return nil, err
		}
		return stash.StudiosFromShow(*details), nil
	})
}

// Studio looks a studio up by id.
func (a *Aggregator) Studio(ctx context.Context, id string) (*stash.Studio, bool) {
	return find(a.Studios(ctx), func(s stash.Studio) bool { return s.ID == id })
}

// Tags returns the genres of every allow-listed show, each genre once.
func (a *Aggregator) Tags(ctx context.Context) []stash.Tag {
	all := collect(ctx, a, KindTags, a.allowed, func(ctx context.Context, id int) ([]stash.Tag, error) {
		details, err := a.upstream.ShowDetails(ctx, id)
		if err != nil {
			return nil, err
		}
		return stash.TagsFromShow(*details), nil
	})
	return dedupe(all, func(t stash.Tag) string { return t.ID })
}

// Tag looks a tag up by id.
func (a *Aggregator) Tag(ctx context.Context, id string) (*stash.Tag, bool) {
	return find(a.Tags(ctx), func(t stash.Tag) bool { return t.ID == id })
}

// Groups returns one group per allow-listed show.
func (a *Aggregator) Groups(ctx context.Context) []stash.Group {
	return collect(ctx, a, KindGroups, a.allowed, a.showGroup)
}

// Group returns one allow-listed show as a group.
func (a *Aggregator) Group(ctx context.Context, showID int) (*stash.Group, bool) {
	if !a.IsAllowed(showID) {
		return nil, false
	}
	groups := collect(ctx, a, KindGroups, []int{showID}, a.showGroup)
	if len(groups) == 0 {
		return nil, false
	}
	return &groups[0], true
}

func (a *Aggregator) showGroup(ctx context.Context, id int) ([]stash.Group, error) {
	details, err := a.upstream.ShowDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return []stash.Group{stash.GroupFromShow(*details)}, nil
}

// PerformerGalleries returns the profile image gallery of a person, or
// nothing when the person has no images or the lookup fails.
func (a *Aggregator) PerformerGalleries(ctx context.Context, personID int) []stash.Gallery {
	images, err := a.upstream.PersonImages(ctx, personID)
	if err != nil {
		slog.Warn("Skipping performer gallery", "person_id", personID, "error", err)
		metrics.RecordAggregateFailure(KindGalleries)
		return nil
	}
	if len(images) == 0 {
		return nil
	}
	return []stash.Gallery{stash.PerformerGallery(personID, images)}
}

// GroupGalleries returns one poster gallery per season of an allow-listed
// show. Seasons without posters or with failing lookups are left out.
func (a *Aggregator) GroupGalleries(ctx context.Context, showID int) []stash.Gallery {
	if !a.IsAllowed(showID) {
		return nil
	}

	details, err := a.upstream.ShowDetails(ctx, showID)
	if err != nil {
		slog.Warn("Skipping group galleries", "show_id", showID, "error", err)
		metrics.RecordAggregateFailure(KindGalleries)
		return nil
	}

	seasons := make([]int, 0, details.NumberOfSeasons)
	for n := 1; n <= details.NumberOfSeasons; n++ {
		seasons = append(seasons, n)
	}

	return collect(ctx, a, KindGalleries, seasons, func(ctx context.Context, season int) ([]stash.Gallery, error) {
		posters, err := a.upstream.SeasonImages(ctx, showID, season)
		if err != nil {
			return nil, err
		}
		if len(posters) == 0 {
			return nil, nil
		}
		return []stash.Gallery{stash.SeasonGallery(showID, season, posters)}, nil
	})
}

func find[T any](items []T, match func(T) bool) (*T, bool) {
	for i := range items {
		if match(items[i]) {
			return &items[i], true
		}
	}
	return nil, false
}
