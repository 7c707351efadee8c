package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Target names start and end with an alphanumeric character and may carry
// underscores and colons in between. No spaces, no hyphens.
var targetNamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9_:]*[A-Za-z0-9])?$`)

// Target is a unit of executable code blocks plus configuration. A target
// with an empty Name is the implicit document-level target holding the
// pre-target setup blocks of its document.
type Target struct {
	// Name is the leaf name from the `## Name` line, empty for the
	// implicit target.
	Name string

	// UniqueName is the globally disambiguated display name, assigned by
	// the namer after the whole tree is built.
	UniqueName string

	Description string

	// Blocks are the executable steps, in declaration order. Config and
	// build-spec blocks are not included here.
	Blocks []*CodeBlock

	// Config is the decoded configuration block, nil when absent.
	Config *TargetConfig

	// BuildSpec is the body of the container build specification block,
	// empty when absent.
	BuildSpec string

	// Doc points back to the owning document.
	Doc *Document
}

// NewTarget validates the leaf name and constructs a target. An empty name
// denotes the implicit document-level target and is always valid.
func NewTarget(name, description string) (*Target, error) {
	if name != "" && !targetNamePattern.MatchString(name) {
		return nil, Formatf(
			"target name %q can only contain alphanumeric characters, underscores and colons",
			name)
	}
	return &Target{Name: name, Description: description}, nil
}

// Markdown renders the canonical `## Name` section heading.
func (t *Target) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s", t.Name)
	if t.Description != "" {
		fmt.Fprintf(&b, "\n\n%s", t.Description)
	}
	return b.String()
}

// BodyHash is the content hash of the target's executable blocks,
// concatenated in order. A changed body invalidates the cached result.
func (t *Target) BodyHash() string {
	h := sha1.New()
	for _, block := range t.Blocks {
		h.Write([]byte(block.Body))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CacheKey derives the stable cache identity of the target from its
// document's address, the lineage source addresses and the leaf name. The
// disambiguated display name is deliberately not part of the key, so a
// target's cache survives renames caused by sibling collisions.
func (t *Target) CacheKey() string {
	h := sha1.New()
	h.Write([]byte(t.Doc.Address))
	for _, inc := range t.Doc.Header.Lineage {
		h.Write([]byte(inc.Source))
	}
	if t.Name != "" {
		h.Write([]byte(t.Name))
	}
	return hex.EncodeToString(h.Sum(nil))[:7]
}

// Requires returns the configured dependency expressions, nil-safe.
func (t *Target) Requires() []string {
	if t.Config == nil {
		return nil
	}
	return t.Config.Requires
}

// Invalidates returns the configured invalidation expressions, nil-safe.
func (t *Target) Invalidates() []string {
	if t.Config == nil {
		return nil
	}
	return t.Config.Invalidates
}

// Expiry returns the configured expiry string, nil-safe.
func (t *Target) Expiry() string {
	if t.Config == nil {
		return ""
	}
	return t.Config.Expiry
}
