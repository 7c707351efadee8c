package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// TargetConfig is the decoded form of a target's configuration block.
type TargetConfig struct {
	// Includes is an ordered list of single-entry alias->source maps.
	// Only meaningful on a document's implicit top-level target.
	Includes []map[string]string `mapstructure:"includes"`

	// Requires lists match expressions this target depends on.
	Requires []string `mapstructure:"requires"`

	// Invalidates lists match expressions whose targets' cache entries are
	// deleted after this target succeeds.
	Invalidates []string `mapstructure:"invalidates"`

	// Expiry is a duration string such as "1h30m". Empty means the cached
	// result is compared against a zero window, i.e. always elapsed.
	Expiry string `mapstructure:"expiry"`
}

// DecodeConfig converts the raw key/value map parsed from a config block
// into a typed TargetConfig.
func DecodeConfig(raw map[string]any) (*TargetConfig, error) {
	var cfg TargetConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &FormatError{Reason: fmt.Sprintf("invalid target configuration: %v", err)}
	}
	return &cfg, nil
}

// IncludeList validates and flattens the configured includes into ordered
// alias/source pairs. Each list entry must hold exactly one key, and an
// alias may not repeat across entries.
func (c *TargetConfig) IncludeList() ([]Include, error) {
	if c == nil {
		return nil, nil
	}
	seen := make(map[string]bool, len(c.Includes))
	includes := make([]Include, 0, len(c.Includes))
	for _, entry := range c.Includes {
		if len(entry) != 1 {
			return nil, &FormatError{Reason: "includes must contain one key"}
		}
		for alias, source := range entry {
			if seen[alias] {
				return nil, &FormatError{Reason: fmt.Sprintf("duplicate include alias: %q", alias)}
			}
			seen[alias] = true
			includes = append(includes, Include{Alias: alias, Source: source})
		}
	}
	return includes, nil
}
