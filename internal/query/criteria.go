package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Modifier is a Stash CriterionModifier.
type Modifier string

const (
	Equals          Modifier = "EQUALS"
	NotEquals       Modifier = "NOT_EQUALS"
	Includes        Modifier = "INCLUDES"
	IncludesAll     Modifier = "INCLUDES_ALL"
	Excludes        Modifier = "EXCLUDES"
	MatchesRegex    Modifier = "MATCHES_REGEX"
	NotMatchesRegex Modifier = "NOT_MATCHES_REGEX"
	IsNull          Modifier = "IS_NULL"
	NotNull         Modifier = "NOT_NULL"
)

// StringCriterion matches a single text field.
type StringCriterion struct {
	Value    string
	Modifier Modifier
}

// MultiCriterion matches the ids of a related entity set.
type MultiCriterion struct {
	Value    []string
	Modifier Modifier
}

// InvalidCriterionError reports a criterion that cannot be evaluated.
type InvalidCriterionError struct {
	Field  string
	Reason string
}

func (e *InvalidCriterionError) Error() string {
	return fmt.Sprintf("invalid %s criterion: %s", e.Field, e.Reason)
}

// compile turns c into a predicate. A nil criterion yields a nil predicate.
func (c *StringCriterion) compile(field string) (func(string) bool, error) {
	if c == nil {
		return nil, nil
	}
	value := strings.ToLower(c.Value)

	switch c.Modifier {
	case "", Includes:
		return func(s string) bool { return strings.Contains(strings.ToLower(s), value) }, nil
	case Excludes:
		return func(s string) bool { return !strings.Contains(strings.ToLower(s), value) }, nil
	case Equals:
		return func(s string) bool { return strings.EqualFold(s, c.Value) }, nil
	case NotEquals:
		return func(s string) bool { return !strings.EqualFold(s, c.Value) }, nil
	case MatchesRegex, NotMatchesRegex:
		re, err := regexp.Compile("(?i)" + c.Value)
		if err != nil {
			return nil, &InvalidCriterionError{Field: field, Reason: err.Error()}
		}
		want := c.Modifier == MatchesRegex
		return func(s string) bool { return re.MatchString(s) == want }, nil
	case IsNull:
		return func(s string) bool { return s == "" }, nil
	case NotNull:
		return func(s string) bool { return s != "" }, nil
	default:
		return nil, &InvalidCriterionError{Field: field, Reason: fmt.Sprintf("unsupported modifier %s", c.Modifier)}
	}
}

// compile turns c into a predicate over related ids. A nil criterion, or one
// with no values and a value based modifier, yields a nil predicate.
func (c *MultiCriterion) compile(field string) (func([]string) bool, error) {
	if c == nil {
		return nil, nil
	}

	switch c.Modifier {
	case IsNull:
		return func(related []string) bool { return len(related) == 0 }, nil
	case NotNull:
		return func(related []string) bool { return len(related) > 0 }, nil
	case "", Includes, IncludesAll, Excludes, NotEquals, Equals:
	default:
		return nil, &InvalidCriterionError{Field: field, Reason: fmt.Sprintf("unsupported modifier %s", c.Modifier)}
	}

	if len(c.Value) == 0 {
		return nil, nil
	}
	values := make(map[string]struct{}, len(c.Value))
	for _, v := range c.Value {
		values[v] = struct{}{}
	}

	switch c.Modifier {
	case IncludesAll:
		return func(related []string) bool {
			return countIn(related, values) == len(values)
		}, nil
	case Excludes, NotEquals:
		return func(related []string) bool { return countIn(related, values) == 0 }, nil
	case Equals:
		return func(related []string) bool {
			return countIn(related, values) == len(values) && distinct(related) == len(values)
		}, nil
	default:
		return func(related []string) bool { return countIn(related, values) > 0 }, nil
	}
}

// countIn counts the distinct members of related that are in values.
func countIn(related []string, values map[string]struct{}) int {
	seen := make(map[string]struct{}, len(related))
	for _, r := range related {
		if _, ok := values[r]; ok {
			seen[r] = struct{}{}
		}
	}
	return len(seen)
}

func distinct(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}
