package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awkspace/runfile/pkg/domain"
)

func TestDecodeConfig(t *testing.T) {
	cfg, err := domain.DecodeConfig(map[string]any{
		"requires":    []any{"deps", "tools/**"},
		"invalidates": []any{"image"},
		"expiry":      "1d12h",
		"includes": []any{
			map[string]any{"tools": "tools.md"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"deps", "tools/**"}, cfg.Requires)
	assert.Equal(t, []string{"image"}, cfg.Invalidates)
	assert.Equal(t, "1d12h", cfg.Expiry)
	assert.Equal(t, []map[string]string{{"tools": "tools.md"}}, cfg.Includes)
}

func TestDecodeConfig_Invalid(t *testing.T) {
	_, err := domain.DecodeConfig(map[string]any{
		"requires": map[string]any{"not": "a list"},
	})
	var formatErr *domain.FormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestIncludeList(t *testing.T) {
	t.Run("Ordered", func(t *testing.T) {
		cfg := &domain.TargetConfig{Includes: []map[string]string{
			{"tools": "tools.md"},
			{"deploy": "https://example.com/deploy.md"},
		}}
		includes, err := cfg.IncludeList()
		require.NoError(t, err)
		assert.Equal(t, []domain.Include{
			{Alias: "tools", Source: "tools.md"},
			{Alias: "deploy", Source: "https://example.com/deploy.md"},
		}, includes)
	})

	t.Run("Nil Config", func(t *testing.T) {
		var cfg *domain.TargetConfig
		includes, err := cfg.IncludeList()
		require.NoError(t, err)
		assert.Nil(t, includes)
	})

	t.Run("Multiple Keys", func(t *testing.T) {
		cfg := &domain.TargetConfig{Includes: []map[string]string{
			{"tools": "tools.md", "deploy": "deploy.md"},
		}}
		_, err := cfg.IncludeList()
		var formatErr *domain.FormatError
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("Duplicate Alias", func(t *testing.T) {
		cfg := &domain.TargetConfig{Includes: []map[string]string{
			{"tools": "tools.md"},
			{"tools": "other.md"},
		}}
		_, err := cfg.IncludeList()
		var formatErr *domain.FormatError
		assert.ErrorAs(t, err, &formatErr)
	})
}
