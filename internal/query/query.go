// Package query applies Stash find semantics (id restriction, free text
// search, criteria, sorting and pagination) to aggregated entity lists.
package query

import (
	"slices"
	"strings"
)

const (
	// DefaultPerPage is the page size for every kind except scenes.
	DefaultPerPage = 20
	// DefaultScenesPerPage is the page size for scenes.
	DefaultScenesPerPage = 40
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// FindFilter carries the generic find arguments.
type FindFilter struct {
	Q    string
	Page int
	// PerPage nil means the kind's default; a negative value returns every item.
	PerPage   *int
	Sort      string
	Direction Direction
}

// Result is the {count, items} envelope. Count is the size of the filtered
// set before pagination.
type Result[T any] struct {
	Count int
	Items []T
}

// plan describes how one entity kind is filtered and sorted.
type plan[T any] struct {
	id         func(T) string
	text       func(T) []string
	predicates []func(T) bool
	sorts      map[string]func(a, b T) int
	perPage    int
}

// run filters items by ids, then free text, then predicates, counts the
// survivors, sorts them and cuts out the requested page. items is not modified.
func run[T any](items []T, ids []string, filter *FindFilter, p plan[T]) Result[T] {
	f := FindFilter{}
	if filter != nil {
		f = *filter
	}

	var idSet map[string]struct{}
	if len(ids) > 0 {
		idSet = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			idSet[id] = struct{}{}
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Q))

	matched := make([]T, 0, len(items))
	for _, item := range items {
		if idSet != nil {
			if _, ok := idSet[p.id(item)]; !ok {
				continue
			}
		}
		if q != "" && !containsText(p.text(item), q) {
			continue
		}
		if !matchesAll(p.predicates, item) {
			continue
		}
		matched = append(matched, item)
	}

	count := len(matched)

	if cmp, ok := p.sorts[strings.ToLower(f.Sort)]; ok {
		if strings.EqualFold(string(f.Direction), string(Desc)) {
			asc := cmp
			cmp = func(a, b T) int { return asc(b, a) }
		}
		slices.SortStableFunc(matched, cmp)
	}

	perPage := p.perPage
	if f.PerPage != nil && *f.PerPage != 0 {
		perPage = *f.PerPage
	}

	return Result[T]{Count: count, Items: paginate(matched, f.Page, perPage)}
}

func containsText(fields []string, q string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func matchesAll[T any](predicates []func(T) bool, item T) bool {
	for _, pred := range predicates {
		if !pred(item) {
			return false
		}
	}
	return true
}

// paginate returns items[(page-1)*perPage : page*perPage]. Pages past the end
// are empty; a negative perPage returns everything.
func paginate[T any](items []T, page, perPage int) []T {
	if perPage < 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareOptional orders missing values last.
func compareOptional(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return strings.Compare(*a, *b)
	}
}
