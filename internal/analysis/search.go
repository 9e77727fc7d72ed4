package analysis

import (
	"strings"

	"golang.org/x/text/cases"
)

// Keyed is an aggregate with a primary identifier.
type Keyed interface {
	Key() string
}

// Search keeps the items whose primary identifier contains term, ignoring
// case. Nested breakdowns are never searched. An empty term returns list.
func Search[T Keyed](list []T, term string) []T {
	if term == "" {
		return list
	}
	fold := cases.Fold()
	needle := fold.String(term)
	out := make([]T, 0, len(list))
	for _, item := range list {
		if strings.Contains(fold.String(item.Key()), needle) {
			out = append(out, item)
		}
	}
	return out
}
