// Copyright © 2025 The MON authors

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/mon-lang/mon/formatter"
	"github.com/mon-lang/mon/lint"
	"github.com/mon-lang/mon/parser"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
)

// Project files written in MON, looked up in the working directory.
const (
	lintProjectFile   = ".moncfg.mon"
	formatProjectFile = ".monconfig.mon"
)

// setup configures logging and loads the global configuration.  It runs
// before every command.
func (g *globals) setup() error {
	if g.verbose != 0 || g.logFile != "" {
		commonlog.Initialize(g.verbose, g.logFile)
	}
	v, err := newViper(g.cfgFile)
	if err != nil {
		return usageError(err)
	}
	g.v = v
	return nil
}

// newViper reads the global configuration file, if any, and binds every
// lint and format key to a MON_ environment variable.
func newViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("MON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range lint.Keys() {
		_ = v.BindEnv("lint." + k)
	}
	for _, k := range formatter.Keys() {
		_ = v.BindEnv("format." + k)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".mon")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		log.Debug("no global config file found")
		return v, nil
	}
	log.Infof("using config file %s", v.ConfigFileUsed())
	return v, nil
}

// section returns the settings below key.  Values taken from the
// environment arrive as strings and are converted to the scalar they
// spell.
func (g *globals) section(key string) map[string]interface{} {
	if g.v == nil {
		return nil
	}
	raw, _ := g.v.AllSettings()[key].(map[string]interface{})
	for k, val := range raw {
		if s, ok := val.(string); ok {
			raw[k] = envValue(k, s)
		}
	}
	return raw
}

func envValue(key, s string) interface{} {
	if key == "rules" || key == "disabled_rules" {
		var rules []string
		for _, r := range strings.Split(s, ",") {
			if r = strings.TrimSpace(r); r != "" {
				rules = append(rules, r)
			}
		}
		return rules
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// projectSettings parses the MON project file at path, or the default file
// in the working directory when path is empty, and returns its root object.
// A missing default file yields nil settings.
func projectSettings(path, fallback string) (map[string]interface{}, error) {
	explicit := path != ""
	if !explicit {
		path = fallback
	}
	src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	doc, err := parser.Parse(string(src), path)
	if err != nil {
		return nil, err
	}
	raw, ok := doc.Root.Interface().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: root value must be an object", path)
	}
	log.Infof("using project file %s", path)
	return raw, nil
}

// lintConfig layers the lint defaults, the global "lint" settings, the
// project file and the rule filters given on the command line.
func (g *globals) lintConfig(projectFile string, only, disabled []string) (lint.Config, error) {
	cfg := lint.DefaultConfig()
	if g.lintBase != nil {
		cfg = g.lintBase.Clone()
	}
	if raw := g.section("lint"); len(raw) > 0 {
		if err := lint.DecodeConfig(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("global config: %w", err)
		}
	}
	raw, err := projectSettings(projectFile, lintProjectFile)
	if err != nil {
		return cfg, err
	}
	if raw != nil {
		if err := lint.DecodeConfig(raw, &cfg); err != nil {
			return cfg, err
		}
	}
	if len(only) > 0 {
		cfg = cfg.WithOnlyRules(only...)
	}
	if len(disabled) > 0 {
		cfg = cfg.WithoutRules(disabled...)
	}
	return cfg, cfg.Validate()
}

type settingsLayer struct {
	name string
	raw  map[string]interface{}
}

// formatOverrides are formatter settings given on the command line.
type formatOverrides struct {
	style      string
	indentSize int
	useTabs    bool
}

// formatConfig layers the formatter defaults, the global "format"
// settings, the project file and the command line.  A style given on the
// command line is the base the file settings apply to, and "style" keys
// in the files are then ignored.
func (g *globals) formatConfig(projectFile string, o formatOverrides) (*formatter.Config, error) {
	cfg := formatter.DefaultConfig()
	if g.formatBase != nil {
		base := *g.formatBase
		cfg = &base
	}
	if o.style != "" {
		preset, err := formatter.StyleConfig(o.style)
		if err != nil {
			return nil, err
		}
		cfg = preset
	}

	raw, err := projectSettings(projectFile, formatProjectFile)
	if err != nil {
		return nil, err
	}
	layers := []settingsLayer{
		{name: "global config", raw: g.section("format")},
		{name: "project config", raw: raw},
	}
	for _, l := range layers {
		if len(l.raw) == 0 {
			continue
		}
		if o.style != "" {
			delete(l.raw, "style")
		}
		if err := formatter.DecodeConfig(l.raw, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", l.name, err)
		}
	}

	if o.indentSize > 0 {
		cfg.IndentSize = o.indentSize
	}
	if o.useTabs {
		cfg.IndentStyle = formatter.IndentTabs
	}
	return cfg, cfg.Validate()
}
