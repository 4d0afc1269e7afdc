// Copyright © 2025 The MON authors

package cmd

import (
	"github.com/mon-lang/mon/formatter"
	"github.com/mon-lang/mon/lint"
)

// Option configures the command tree built by NewRootCommand.
type Option func(*cmdConfig)

type cmdConfig struct {
	lintBase   *lint.Config
	formatBase *formatter.Config
}

// WithLintConfig replaces the built-in lint defaults.  Global settings,
// project files and flags are still applied on top of it.
func WithLintConfig(cfg lint.Config) Option {
	return func(c *cmdConfig) {
		cfg = cfg.Clone()
		c.lintBase = &cfg
	}
}

// WithFormatConfig replaces the built-in formatter defaults.  Global
// settings, project files and flags are still applied on top of it.
func WithFormatConfig(cfg *formatter.Config) Option {
	return func(c *cmdConfig) {
		base := *cfg
		c.formatBase = &base
	}
}
