package graph

import (
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/lepinkainen/tmdbstash/internal/query"
)

type findFilterInput struct {
	Q         *string
	Page      *int32
	PerPage   *int32
	Sort      *string
	Direction *string
}

type stringCriterionInput struct {
	Value    string
	Modifier string
}

type multiCriterionInput struct {
	Value    *[]graphql.ID
	Modifier string
}

type sceneFilterInput struct {
	Title      *stringCriterionInput
	Performers *multiCriterionInput
	Tags       *multiCriterionInput
	Studios    *multiCriterionInput
	Groups     *multiCriterionInput
}

type performerFilterInput struct {
	Name            *stringCriterionInput
	FilterFavorites *bool
}

type nameFilterInput struct {
	Name *stringCriterionInput
}

type sceneUpdateInput struct {
	ID        graphql.ID
	Rating100 *int32
	Organized *bool
	OCounter  *int32
}

type performerUpdateInput struct {
	ID        graphql.ID
	Favorite  *bool
	Rating100 *int32
}

func (f *findFilterInput) toQuery() *query.FindFilter {
	if f == nil {
		return nil
	}
	out := &query.FindFilter{}
	if f.Q != nil {
		out.Q = *f.Q
	}
	if f.Page != nil {
		out.Page = int(*f.Page)
	}
	out.PerPage = intFrom32(f.PerPage)
	if f.Sort != nil {
		out.Sort = *f.Sort
	}
	if f.Direction != nil {
		out.Direction = query.Direction(*f.Direction)
	}
	return out
}

func (c *stringCriterionInput) toQuery() *query.StringCriterion {
	if c == nil {
		return nil
	}
	return &query.StringCriterion{Value: c.Value, Modifier: query.Modifier(c.Modifier)}
}

func (c *multiCriterionInput) toQuery() *query.MultiCriterion {
	if c == nil {
		return nil
	}
	var values []string
	if c.Value != nil {
		values = idStrings(*c.Value)
	}
	return &query.MultiCriterion{Value: values, Modifier: query.Modifier(c.Modifier)}
}

func (f *sceneFilterInput) toQuery() *query.SceneFilter {
	if f == nil {
		return nil
	}
	return &query.SceneFilter{
		Title:      f.Title.toQuery(),
		Performers: f.Performers.toQuery(),
		Tags:       f.Tags.toQuery(),
		Studios:    f.Studios.toQuery(),
		Groups:     f.Groups.toQuery(),
	}
}

func (f *performerFilterInput) toQuery() *query.PerformerFilter {
	if f == nil {
		return nil
	}
	return &query.PerformerFilter{Name: f.Name.toQuery(), Favorite: f.FilterFavorites}
}

func (f *nameFilterInput) studioFilter() *query.StudioFilter {
	if f == nil {
		return nil
	}
	return &query.StudioFilter{Name: f.Name.toQuery()}
}

func (f *nameFilterInput) tagFilter() *query.TagFilter {
	if f == nil {
		return nil
	}
	return &query.TagFilter{Name: f.Name.toQuery()}
}

func idStrings(ids []graphql.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

func optionalIDs(ids *[]graphql.ID) []string {
	if ids == nil {
		return nil
	}
	return idStrings(*ids)
}

func intFrom32(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func int32From(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}
