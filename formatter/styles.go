// Copyright © 2025 The MON authors

package formatter

import (
	"fmt"
	"strings"
)

// Styles lists the names of the built-in style presets.
var Styles = []string{"google", "mozilla", "airbnb", "linux", "rust", "prettier", "default"}

// StyleConfig returns a fresh configuration for the named preset.  Names
// are matched case-insensitively.
func StyleConfig(name string) (*Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(name) {
	case "google":
		cfg.IndentSize = 2
		cfg.ObjectStyle = StyleCompact
		cfg.ArrayStyle = StyleCompact
	case "mozilla":
		cfg.IndentSize = 2
		cfg.ObjectStyle = StyleExpanded
		cfg.ArrayStyle = StyleExpanded
		cfg.TrailingCommas = TrailingAlways
	case "airbnb", "prettier":
		cfg.IndentSize = 2
	case "linux":
		cfg.IndentStyle = IndentTabs
		cfg.ObjectStyle = StyleCompact
		cfg.ArrayStyle = StyleCompact
		cfg.TrailingCommas = TrailingNever
		cfg.MaxLineWidth = 100
	case "rust":
		cfg.MaxLineWidth = 100
	case "default":
	default:
		return nil, fmt.Errorf("Unknown style: %s. Available styles: %s", name, strings.Join(Styles, ", "))
	}
	return cfg, nil
}
