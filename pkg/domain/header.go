package domain

import (
	"fmt"
	"strings"
)

// Include is one step of an include lineage: the alias a child document is
// declared under, and the source address it was fetched from.
type Include struct {
	Alias  string `json:"alias" yaml:"alias"`
	Source string `json:"source" yaml:"source"`
}

// Header is the top-level `# Title` token of a document. The Lineage
// records how the document was reached from the root: empty for the root
// itself, one entry per include hop otherwise.
type Header struct {
	Title       string
	Description string
	Lineage     []Include
}

// Markdown renders the canonical header form, including the lineage
// blockquote for included documents.
func (h *Header) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s", h.Title)
	if len(h.Lineage) > 0 {
		links := make([]string, len(h.Lineage))
		for i, inc := range h.Lineage {
			links[i] = fmt.Sprintf("[%s](%s)", inc.Alias, inc.Source)
		}
		fmt.Fprintf(&b, "\n\n> Included from %s", strings.Join(links, " » "))
	}
	if h.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", h.Description)
	}
	return b.String()
}

// Equal reports whether two headers describe the same logical document.
// Lineage is deliberately excluded: the same document included under two
// different paths still compares equal.
func (h *Header) Equal(other *Header) bool {
	if other == nil {
		return false
	}
	return h.Title == other.Title && h.Description == other.Description
}

// PrependLineage inserts an include step at the front of the lineage.
// Used when attaching a freshly fetched child under a new parent chain.
func (h *Header) PrependLineage(inc Include) {
	h.Lineage = append([]Include{inc}, h.Lineage...)
}
