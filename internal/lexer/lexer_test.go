package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awkspace/runfile/internal/lexer"
	"github.com/awkspace/runfile/pkg/domain"
)

func TestTokenize_Document(t *testing.T) {
	text := "# Project\n\nSome intro.\n\n## build\n\nCompiles everything.\n\n```sh\nmake all\n```\n"
	tokens, err := lexer.Tokenize(text)
	require.NoError(t, err)

	header := findHeader(tokens)
	require.NotNil(t, header)
	assert.Equal(t, "Project", header.Title)
	assert.Equal(t, "Some intro.", header.Description)
	assert.Empty(t, header.Lineage)

	target := findTarget(tokens, "build")
	require.NotNil(t, target)
	assert.Equal(t, "Compiles everything.", target.Description)

	blocks := findCodeBlocks(tokens)
	require.Len(t, blocks, 1)
	assert.Equal(t, "sh", blocks[0].Language)
	assert.Equal(t, "make all", blocks[0].Body)
}

func TestTokenize_CodeBlockPrecedence(t *testing.T) {
	// Lines inside a fenced block must never be lexed as headers or
	// targets, whatever they look like.
	text := "```sh\n# not a header\n## not a target\necho ok\n```\n"
	tokens, err := lexer.Tokenize(text)
	require.NoError(t, err)

	assert.Nil(t, findHeader(tokens))
	blocks := findCodeBlocks(tokens)
	require.Len(t, blocks, 1)
	assert.Equal(t, "# not a header\n## not a target\necho ok", blocks[0].Body)

	for _, tok := range tokens {
		_, isTarget := tok.(*domain.Target)
		assert.False(t, isTarget)
	}
}

func TestTokenize_HeaderLineage(t *testing.T) {
	text := "# Tools\n\n> Included from [tools](https://example.com/tools.md) » [lint](lint.md)\n\nHelper targets.\n"
	tokens, err := lexer.Tokenize(text)
	require.NoError(t, err)

	header := findHeader(tokens)
	require.NotNil(t, header)
	assert.Equal(t, "Tools", header.Title)
	assert.Equal(t, "Helper targets.", header.Description)
	assert.Equal(t, []domain.Include{
		{Alias: "tools", Source: "https://example.com/tools.md"},
		{Alias: "lint", Source: "lint.md"},
	}, header.Lineage)
}

func TestTokenize_InvalidTargetName(t *testing.T) {
	_, err := lexer.Tokenize("# Doc\n\n## bad-name\n")
	var formatErr *domain.FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestTokenize_MultipleCodeBlocks(t *testing.T) {
	text := "## build\n\n```yaml\nrequires:\n  - deps\n```\n\n```sh\nmake\n```\n"
	tokens, err := lexer.Tokenize(text)
	require.NoError(t, err)

	blocks := findCodeBlocks(tokens)
	require.Len(t, blocks, 2)
	assert.True(t, blocks[0].IsConfig())
	assert.Equal(t, "requires:\n  - deps", blocks[0].Body)
	assert.Equal(t, "sh", blocks[1].Language)
}

func TestTokenize_RoundTrip(t *testing.T) {
	text := "# Project\n\nIntro text.\n\n## build\n\n```sh\nmake all\n```\n\n## test\n\n```sh\nmake test\n```\n"
	tokens, err := lexer.Tokenize(text)
	require.NoError(t, err)

	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Markdown())
	}
	assert.Equal(t, text, b.String())
}

func findHeader(tokens []domain.Token) *domain.Header {
	for _, tok := range tokens {
		if h, ok := tok.(*domain.Header); ok {
			return h
		}
	}
	return nil
}

func findTarget(tokens []domain.Token, name string) *domain.Target {
	for _, tok := range tokens {
		if target, ok := tok.(*domain.Target); ok && target.Name == name {
			return target
		}
	}
	return nil
}

func findCodeBlocks(tokens []domain.Token) []*domain.CodeBlock {
	var out []*domain.CodeBlock
	for _, tok := range tokens {
		if block, ok := tok.(*domain.CodeBlock); ok {
			out = append(out, block)
		}
	}
	return out
}
