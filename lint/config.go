// Copyright © 2025 The MON authors

package lint

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/mon-lang/mon/ast"
)

// Config holds the thresholds and switches used by the built-in analyzers.
// The mapstructure tags are the keys accepted in viper configuration files
// and in .moncfg.mon project files.
type Config struct {
	MaxNestingDepth       int  `mapstructure:"max_nesting_depth" json:"max_nesting_depth"`
	MaxObjectMembers      int  `mapstructure:"max_object_members" json:"max_object_members"`
	MaxArrayItems         int  `mapstructure:"max_array_items" json:"max_array_items"`
	MaxImportChainDepth   int  `mapstructure:"max_import_chain_depth" json:"max_import_chain_depth"`
	MaxSpreadsPerObject   int  `mapstructure:"max_spreads_per_object" json:"max_spreads_per_object"`
	WarnUnusedAnchors     bool `mapstructure:"warn_unused_anchors" json:"warn_unused_anchors"`
	WarnMagicNumbers      bool `mapstructure:"warn_magic_numbers" json:"warn_magic_numbers"`
	SuggestTypeValidation bool `mapstructure:"suggest_type_validation" json:"suggest_type_validation"`
	WarnUnusedImports     bool `mapstructure:"warn_unused_imports" json:"warn_unused_imports"`

	// Rules, when non-empty, restricts reporting to the listed codes or
	// code names.
	Rules []string `mapstructure:"rules" json:"rules,omitempty"`
	// DisabledRules lists codes or code names which are never reported.
	DisabledRules []string `mapstructure:"disabled_rules" json:"disabled_rules,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxNestingDepth:     4,
		MaxObjectMembers:    20,
		MaxArrayItems:       100,
		MaxImportChainDepth: 2,
		MaxSpreadsPerObject: 3,
		WarnUnusedAnchors:   true,
		WarnUnusedImports:   true,
	}
}

// Validate checks the configuration before any analysis runs.
func (c Config) Validate() error {
	limits := []struct {
		key string
		val int
	}{
		{"max_nesting_depth", c.MaxNestingDepth},
		{"max_object_members", c.MaxObjectMembers},
		{"max_array_items", c.MaxArrayItems},
		{"max_import_chain_depth", c.MaxImportChainDepth},
		{"max_spreads_per_object", c.MaxSpreadsPerObject},
	}
	for _, l := range limits {
		if l.val < 0 {
			return fmt.Errorf("lint config: %s must not be negative, got %d", l.key, l.val)
		}
	}
	for _, list := range [][]string{c.Rules, c.DisabledRules} {
		for _, r := range list {
			if _, ok := LookupCode(r); !ok {
				return fmt.Errorf("lint config: unknown rule %q", r)
			}
		}
	}
	return nil
}

// Enabled reports whether diagnostics with the given code are reported
// under the rule filters of c.
func (c Config) Enabled(code Code) bool {
	if len(c.Rules) > 0 && !containsCode(c.Rules, code) {
		return false
	}
	return !containsCode(c.DisabledRules, code)
}

func containsCode(rules []string, code Code) bool {
	for _, r := range rules {
		if c, ok := LookupCode(r); ok && c == code {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.Rules = append([]string(nil), c.Rules...)
	c.DisabledRules = append([]string(nil), c.DisabledRules...)
	return c
}

// WithOnlyRules returns a copy of c reporting only the given rules.
func (c Config) WithOnlyRules(rules ...string) Config {
	c = c.Clone()
	c.Rules = append(c.Rules, rules...)
	return c
}

// WithoutRules returns a copy of c which never reports the given rules.
func (c Config) WithoutRules(rules ...string) Config {
	c = c.Clone()
	c.DisabledRules = append(c.DisabledRules, rules...)
	return c
}

// ConfigFromDocument reads a lint configuration from a MON document whose
// root object holds configuration keys.  Keys which are not set keep their
// default values and unknown keys are an error.
func ConfigFromDocument(doc *ast.Document) (Config, error) {
	cfg := DefaultConfig()
	if doc == nil || doc.Root == nil || doc.Root.Kind != ast.Object {
		return cfg, fmt.Errorf("lint config: root value must be an object")
	}
	if err := DecodeConfig(doc.Root.Interface(), &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// DecodeConfig decodes raw configuration values (as produced by viper or
// ast.Value.Interface) into cfg.  Fields missing from raw are left alone.
func DecodeConfig(raw interface{}, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  integralHook,
		ErrorUnused: true,
		Result:      cfg,
		TagName:     "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("lint config: %w", err)
	}
	return nil
}

func integralHook(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	f, ok := data.(float64)
	if !ok || to.Kind() != reflect.Int {
		return data, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("expected an integer, got %v", f)
	}
	return int(f), nil
}

// Keys returns the configuration keys understood by Config, sorted.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, t.Field(i).Tag.Get("mapstructure"))
	}
	sort.Strings(keys)
	return keys
}
