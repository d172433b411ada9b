package query

import (
	"github.com/lepinkainen/tmdbstash/internal/stash"
)

// SceneFilter is the supported subset of Stash's SceneFilterType.
type SceneFilter struct {
	Title      *StringCriterion
	Performers *MultiCriterion
	Tags       *MultiCriterion
	Studios    *MultiCriterion
	Groups     *MultiCriterion
}

// PerformerFilter is the supported subset of Stash's PerformerFilterType.
type PerformerFilter struct {
	Name     *StringCriterion
	Favorite *bool
}

// StudioFilter is the supported subset of Stash's StudioFilterType.
type StudioFilter struct {
	Name *StringCriterion
}

// TagFilter is the supported subset of Stash's TagFilterType.
type TagFilter struct {
	Name *StringCriterion
}

func stringPredicate[T any](c *StringCriterion, field string, get func(T) string) ([]func(T) bool, error) {
	match, err := c.compile(field)
	if err != nil || match == nil {
		return nil, err
	}
	return []func(T) bool{func(item T) bool { return match(get(item)) }}, nil
}

func multiPredicate[T any](c *MultiCriterion, field string, related func(T) []string) ([]func(T) bool, error) {
	match, err := c.compile(field)
	if err != nil || match == nil {
		return nil, err
	}
	return []func(T) bool{func(item T) bool { return match(related(item)) }}, nil
}

func performerIDs(s stash.Scene) []string {
	ids := make([]string, 0, len(s.Performers))
	for _, p := range s.Performers {
		ids = append(ids, p.ID)
	}
	return ids
}

func tagIDs(tags []stash.Tag) []string {
	ids := make([]string, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func studioIDs(studio *stash.Studio) []string {
	if studio == nil {
		return nil
	}
	return []string{studio.ID}
}

func groupIDs(s stash.Scene) []string {
	ids := make([]string, 0, len(s.Groups))
	for _, g := range s.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

// Scenes queries scenes. Free text matches the title and performer names.
func Scenes(scenes []stash.Scene, ids []string, filter *FindFilter, sceneFilter *SceneFilter) (Result[stash.Scene], error) {
	p := plan[stash.Scene]{
		id: func(s stash.Scene) string { return s.ID },
		text: func(s stash.Scene) []string {
			fields := make([]string, 0, len(s.Performers)+1)
			fields = append(fields, s.Title)
			for _, perf := range s.Performers {
				fields = append(fields, perf.Name)
			}
			return fields
		},
		sorts: map[string]func(a, b stash.Scene) int{
			"title": func(a, b stash.Scene) int { return compareFold(a.Title, b.Title) },
			"date":  func(a, b stash.Scene) int { return compareOptional(a.Date, b.Date) },
		},
		perPage: DefaultScenesPerPage,
	}

	if sceneFilter != nil {
		title, err := stringPredicate(sceneFilter.Title, "title", func(s stash.Scene) string { return s.Title })
		if err != nil {
			return Result[stash.Scene]{}, err
		}
		performers, err := multiPredicate(sceneFilter.Performers, "performers", performerIDs)
		if err != nil {
			return Result[stash.Scene]{}, err
		}
		tags, err := multiPredicate(sceneFilter.Tags, "tags", func(s stash.Scene) []string { return tagIDs(s.Tags) })
		if err != nil {
			return Result[stash.Scene]{}, err
		}
		studios, err := multiPredicate(sceneFilter.Studios, "studios", func(s stash.Scene) []string { return studioIDs(s.Studio) })
		if err != nil {
			return Result[stash.Scene]{}, err
		}
		groups, err := multiPredicate(sceneFilter.Groups, "groups", groupIDs)
		if err != nil {
			return Result[stash.Scene]{}, err
		}
		p.predicates = concat(title, performers, tags, studios, groups)
	}

	return run(scenes, ids, filter, p), nil
}

// Performers queries performers. favorites holds the ids marked favorite.
func Performers(performers []stash.Performer, ids []string, filter *FindFilter, performerFilter *PerformerFilter, favorites map[string]bool) (Result[stash.Performer], error) {
	p := plan[stash.Performer]{
		id:   func(perf stash.Performer) string { return perf.ID },
		text: func(perf stash.Performer) []string { return []string{perf.Name} },
		sorts: map[string]func(a, b stash.Performer) int{
			"name": func(a, b stash.Performer) int { return compareFold(a.Name, b.Name) },
		},
		perPage: DefaultPerPage,
	}

	if performerFilter != nil {
		name, err := stringPredicate(performerFilter.Name, "name", func(perf stash.Performer) string { return perf.Name })
		if err != nil {
			return Result[stash.Performer]{}, err
		}
		p.predicates = name
		if performerFilter.Favorite != nil {
			want := *performerFilter.Favorite
			p.predicates = append(p.predicates, func(perf stash.Performer) bool { return favorites[perf.ID] == want })
		}
	}

	return run(performers, ids, filter, p), nil
}

// Studios queries studios.
func Studios(studios []stash.Studio, ids []string, filter *FindFilter, studioFilter *StudioFilter) (Result[stash.Studio], error) {
	p := plan[stash.Studio]{
		id:   func(s stash.Studio) string { return s.ID },
		text: func(s stash.Studio) []string { return []string{s.Name} },
		sorts: map[string]func(a, b stash.Studio) int{
			"name": func(a, b stash.Studio) int { return compareFold(a.Name, b.Name) },
		},
		perPage: DefaultPerPage,
	}

	if studioFilter != nil {
		name, err := stringPredicate(studioFilter.Name, "name", func(s stash.Studio) string { return s.Name })
		if err != nil {
			return Result[stash.Studio]{}, err
		}
		p.predicates = name
	}

	return run(studios, ids, filter, p), nil
}

// Tags queries tags.
func Tags(tags []stash.Tag, ids []string, filter *FindFilter, tagFilter *TagFilter) (Result[stash.Tag], error) {
	p := plan[stash.Tag]{
		id:   func(t stash.Tag) string { return t.ID },
		text: func(t stash.Tag) []string { return []string{t.Name} },
		sorts: map[string]func(a, b stash.Tag) int{
			"name": func(a, b stash.Tag) int { return compareFold(a.Name, b.Name) },
		},
		perPage: DefaultPerPage,
	}

	if tagFilter != nil {
		name, err := stringPredicate(tagFilter.Name, "name", func(t stash.Tag) string { return t.Name })
		if err != nil {
			return Result[stash.Tag]{}, err
		}
		p.predicates = name
	}

	return run(tags, ids, filter, p), nil
}

// Groups queries groups.
func Groups(groups []stash.Group, ids []string, filter *FindFilter) Result[stash.Group] {
	p := plan[stash.Group]{
		id:   func(g stash.Group) string { return g.ID },
		text: func(g stash.Group) []string { return []string{g.Name} },
		sorts: map[string]func(a, b stash.Group) int{
			"name": func(a, b stash.Group) int { return compareFold(a.Name, b.Name) },
			"date": func(a, b stash.Group) int { return compareOptional(a.Date, b.Date) },
		},
		perPage: DefaultPerPage,
	}

	return run(groups, ids, filter, p)
}

func concat[T any](parts ...[]func(T) bool) []func(T) bool {
	var out []func(T) bool
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}
