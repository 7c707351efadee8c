package document

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/awkspace/runfile/pkg/domain"
)

// FindTargets resolves a glob-style match expression against the document
// and its include tree. `*` matches within a path segment, `**` crosses
// segment boundaries.
//
// Resolution order: matches among the document's own targets win and
// short-circuit, unless the expression contains `**`, which always forces
// a full-tree search. An expression with a `/` whose prefix names a child
// alias descends into only that child with the remainder; otherwise every
// child is searched with the remainder (or the whole expression when no
// `/` is present) and the results are unioned.
func FindTargets(doc *domain.Document, expr string) []*domain.Target {
	var matches []*domain.Target
	for _, target := range doc.Targets() {
		if target.Name == "" {
			continue
		}
		if ok, err := doublestar.Match(expr, target.Name); err == nil && ok {
			matches = append(matches, target)
		}
	}
	if len(matches) > 0 && !strings.Contains(expr, "**") {
		return matches
	}

	if i := strings.Index(expr, "/"); i >= 0 {
		alias, rest := expr[:i], expr[i+1:]
		if strings.Contains(alias, "**") {
			// `**` spans zero or more segments, so the whole expression
			// applies again one level down.
			for _, child := range doc.Children() {
				matches = append(matches, FindTargets(child, expr)...)
			}
			return matches
		}
		if child := doc.Child(alias); child != nil {
			return append(matches, FindTargets(child, rest)...)
		}
		for _, child := range doc.Children() {
			matches = append(matches, FindTargets(child, rest)...)
		}
		return matches
	}

	for _, child := range doc.Children() {
		matches = append(matches, FindTargets(child, expr)...)
	}
	return matches
}
