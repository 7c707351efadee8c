package document_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awkspace/runfile/internal/document"
	"github.com/awkspace/runfile/pkg/domain"
)

func matchTree(t *testing.T) *domain.Document {
	t.Helper()
	builder := newBuilder(map[string]string{
		"Runfile.md": "# Project\n\n" +
			"```yaml\nincludes:\n  - tools: tools.md\n  - deploy: deploy.md\n```\n\n" +
			"## build\n\n```sh\nroot build\n```\n\n" +
			"## test:unit\n\n```sh\nunit\n```\n\n" +
			"## test:all\n\n```sh\nall\n```\n",
		"tools.md": "# Tools\n\n" +
			"```yaml\nincludes:\n  - lint: lint.md\n```\n\n" +
			"## build\n\n```sh\ntools build\n```\n",
		"lint.md":   "# Lint\n\n## build\n\n```sh\nlint build\n```\n",
		"deploy.md": "# Deploy\n\n## release\n\n```sh\nship\n```\n",
	})
	doc, err := builder.Load(context.Background(), "Runfile.md")
	require.NoError(t, err)
	return doc
}

func names(targets []*domain.Target) []string {
	out := make([]string, len(targets))
	for i, target := range targets {
		out[i] = target.UniqueName
	}
	return out
}

func TestFindTargets(t *testing.T) {
	doc := matchTree(t)

	t.Run("Exact", func(t *testing.T) {
		assert.Equal(t, []string{"build"}, names(document.FindTargets(doc, "build")))
	})

	t.Run("Local Wins", func(t *testing.T) {
		// The root's own build short-circuits; included builds are not
		// pulled in without a qualified or recursive expression.
		matches := document.FindTargets(doc, "build")
		require.Len(t, matches, 1)
		assert.Equal(t, "root build", matches[0].Blocks[0].Body)
	})

	t.Run("Wildcard Within Segment", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"test:unit", "test:all"},
			names(document.FindTargets(doc, "test:*")))
	})

	t.Run("Child Alias Descent", func(t *testing.T) {
		matches := document.FindTargets(doc, "tools/build")
		require.Len(t, matches, 1)
		assert.Equal(t, "tools/build", matches[0].UniqueName)
	})

	t.Run("Nested Alias Descent", func(t *testing.T) {
		matches := document.FindTargets(doc, "tools/lint/build")
		require.Len(t, matches, 1)
		assert.Equal(t, "lint/build", matches[0].UniqueName)
	})

	t.Run("Unknown Prefix Searches All Children", func(t *testing.T) {
		matches := document.FindTargets(doc, "anything/release")
		require.Len(t, matches, 1)
		assert.Equal(t, "release", matches[0].UniqueName)
	})

	t.Run("Recursive", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"build", "tools/build", "lint/build"},
			names(document.FindTargets(doc, "**/build")))
	})

	t.Run("No Match", func(t *testing.T) {
		assert.Empty(t, document.FindTargets(doc, "nope"))
	})
}
