package domain

import (
	"regexp"
	"strings"
)

var trailingNewlines = regexp.MustCompile(`\n*$`)

// Document is one literate build file: an address, a header, the ordered
// token stream it was lexed into, its targets keyed by leaf name, and its
// included child documents in declaration order.
type Document struct {
	// Address is the local path or remote URI the document was fetched from.
	Address string

	// Header is assigned exactly once while the tree is built.
	Header *Header

	// Tokens is the ordered token sequence, raw text spans included.
	Tokens []Token

	targets     map[string]*Target
	childOrder  []string
	children    map[string]*Document
	targetOrder []string
}

// NewDocument creates an empty document for the given address.
func NewDocument(address string) *Document {
	return &Document{
		Address:  address,
		targets:  make(map[string]*Target),
		children: make(map[string]*Document),
	}
}

// SetTarget registers a parsed target under its leaf name. The implicit
// document-level target is keyed by the empty string.
func (d *Document) SetTarget(t *Target) error {
	if _, exists := d.targets[t.Name]; exists {
		return Formatf("duplicate target name: %s", t.Name)
	}
	t.Doc = d
	d.targets[t.Name] = t
	d.targetOrder = append(d.targetOrder, t.Name)
	return nil
}

// ResetTargets clears the parsed targets, keeping the token stream. Used
// when a document is re-parsed.
func (d *Document) ResetTargets() {
	d.targets = make(map[string]*Target)
	d.targetOrder = nil
}

// Target returns the target with the given leaf name, or nil. The empty
// string addresses the implicit document-level target.
func (d *Document) Target(name string) *Target {
	return d.targets[name]
}

// Setup returns the implicit document-level target.
func (d *Document) Setup() *Target {
	return d.targets[""]
}

// Targets returns the document's targets in declaration order, the
// implicit target included.
func (d *Document) Targets() []*Target {
	out := make([]*Target, 0, len(d.targetOrder))
	for _, name := range d.targetOrder {
		out = append(out, d.targets[name])
	}
	return out
}

// AddChild attaches (or replaces) a child document under an alias,
// preserving first-declaration order.
func (d *Document) AddChild(alias string, child *Document) {
	if _, exists := d.children[alias]; !exists {
		d.childOrder = append(d.childOrder, alias)
	}
	d.children[alias] = child
}

// RemoveChild detaches the child declared under alias.
func (d *Document) RemoveChild(alias string) {
	if _, exists := d.children[alias]; !exists {
		return
	}
	delete(d.children, alias)
	for i, a := range d.childOrder {
		if a == alias {
			d.childOrder = append(d.childOrder[:i], d.childOrder[i+1:]...)
			break
		}
	}
}

// RemoveChildren detaches every child document.
func (d *Document) RemoveChildren() {
	d.children = make(map[string]*Document)
	d.childOrder = nil
}

// Child returns the child declared under alias, or nil.
func (d *Document) Child(alias string) *Document {
	return d.children[alias]
}

// ChildAliases returns the child aliases in declaration order.
func (d *Document) ChildAliases() []string {
	return append([]string(nil), d.childOrder...)
}

// Children returns the child documents in declaration order.
func (d *Document) Children() []*Document {
	out := make([]*Document, 0, len(d.childOrder))
	for _, alias := range d.childOrder {
		out = append(out, d.children[alias])
	}
	return out
}

// Markdown serializes the document and its included children back into the
// canonical on-disk form: tokens in order, each document separated by a
// blank line, a single trailing newline at the end.
func (d *Document) Markdown() string {
	var b strings.Builder
	b.WriteString(d.markdownSelf())
	s := trailingNewlines.ReplaceAllString(b.String(), "\n")
	return s
}

func (d *Document) markdownSelf() string {
	var b strings.Builder
	for _, tok := range d.Tokens {
		b.WriteString(tok.Markdown())
	}
	s := trailingNewlines.ReplaceAllString(b.String(), "\n\n")
	for _, child := range d.Children() {
		s += child.markdownSelf()
	}
	return s
}
