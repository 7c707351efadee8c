package domain

import "fmt"

// Language tags with structural meaning. Blocks carrying any other tag are
// ordinary executable steps.
const (
	// LangConfig marks a block as the owning target's configuration,
	// parsed as a key/value document.
	LangConfig = "yaml"
	// LangBuildSpec marks a block as a container build specification.
	LangBuildSpec = "dockerfile"
)

// CodeBlock is a fenced block: a language tag and a body.
type CodeBlock struct {
	Language string
	Body     string
}

// Markdown renders the canonical fenced form.
func (c *CodeBlock) Markdown() string {
	return fmt.Sprintf("```%s\n%s\n```", c.Language, c.Body)
}

// IsConfig reports whether the block holds target configuration.
func (c *CodeBlock) IsConfig() bool {
	return c.Language == LangConfig
}

// IsBuildSpec reports whether the block holds a container build spec.
func (c *CodeBlock) IsBuildSpec() bool {
	return c.Language == LangBuildSpec
}
