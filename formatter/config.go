// Copyright © 2025 The MON authors

package formatter

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/mon-lang/mon/ast"
)

// IndentStyle selects the characters used for one level of indentation.
type IndentStyle string

const (
	IndentSpaces IndentStyle = "spaces"
	IndentTabs   IndentStyle = "tabs"
)

// ContainerStyle decides when objects and arrays are split over several
// lines.
type ContainerStyle string

const (
	// StyleExpanded always puts each member on its own line.
	StyleExpanded ContainerStyle = "expanded"
	// StyleCompact keeps containers on one line unless they do not fit.
	StyleCompact ContainerStyle = "compact"
	// StyleAuto expands containers holding more entries than the
	// configured threshold or holding other containers.
	StyleAuto ContainerStyle = "auto"
)

// TrailingCommas controls the comma after the last entry of a container.
type TrailingCommas string

const (
	TrailingAlways    TrailingCommas = "always"
	TrailingNever     TrailingCommas = "never"
	TrailingMultiline TrailingCommas = "multiline"
)

// QuoteStyle is accepted for compatibility.  Strings are always written
// with double quotes.
type QuoteStyle string

const (
	QuoteDouble QuoteStyle = "double"
	QuoteSingle QuoteStyle = "single"
)

// CommentPlacement controls where comments attached to a member end up.
type CommentPlacement string

const (
	// CommentPreserve keeps comments on their own line or at the end of
	// the line, as in the source.
	CommentPreserve CommentPlacement = "preserve"
	// CommentEndOfLine moves comments preceding a member to the end of the
	// member's line.
	CommentEndOfLine CommentPlacement = "end_of_line"
	// CommentOwnLine moves end of line comments onto their own line above
	// the member.
	CommentOwnLine CommentPlacement = "own_line"
)

// SortStyle orders the members of objects.
type SortStyle string

const (
	SortNone   SortStyle = "none"
	SortAlpha  SortStyle = "alpha"
	SortLength SortStyle = "length"
)

// Config holds formatting configuration.  The mapstructure tags are the
// keys accepted in viper configuration files and .monconfig.mon project
// files.
type Config struct {
	IndentStyle  IndentStyle `mapstructure:"indent_style" json:"indent_style"`
	IndentSize   int         `mapstructure:"indent_size" json:"indent_size"`
	MaxLineWidth int         `mapstructure:"max_line_width" json:"max_line_width"`

	ObjectStyle           ContainerStyle `mapstructure:"object_style" json:"object_style"`
	ObjectExpandThreshold int            `mapstructure:"object_expand_threshold" json:"object_expand_threshold"`
	SpaceBeforeColon      bool           `mapstructure:"space_before_colon" json:"space_before_colon"`
	SpaceAfterColon       bool           `mapstructure:"space_after_colon" json:"space_after_colon"`

	ArrayStyle           ContainerStyle `mapstructure:"array_style" json:"array_style"`
	ArrayExpandThreshold int            `mapstructure:"array_expand_threshold" json:"array_expand_threshold"`
	SpaceInBrackets      bool           `mapstructure:"space_in_brackets" json:"space_in_brackets"`

	TrailingCommas   TrailingCommas   `mapstructure:"trailing_commas" json:"trailing_commas"`
	QuoteStyle       QuoteStyle       `mapstructure:"quote_style" json:"quote_style"`
	CommentPlacement CommentPlacement `mapstructure:"comment_placement" json:"comment_placement"`

	SingleLineEmptyObjects bool `mapstructure:"single_line_empty_objects" json:"single_line_empty_objects"`
	SingleLineEmptyArrays  bool `mapstructure:"single_line_empty_arrays" json:"single_line_empty_arrays"`
	FinalNewline           bool `mapstructure:"final_newline" json:"final_newline"`

	AlignTrailingComments  bool      `mapstructure:"align_trailing_comments" json:"align_trailing_comments"`
	CommentAlignmentColumn int       `mapstructure:"comment_alignment_column" json:"comment_alignment_column"`
	SortKeys               SortStyle `mapstructure:"sort_keys" json:"sort_keys"`
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		IndentStyle:            IndentSpaces,
		IndentSize:             4,
		MaxLineWidth:           80,
		ObjectStyle:            StyleAuto,
		ObjectExpandThreshold:  3,
		SpaceAfterColon:        true,
		ArrayStyle:             StyleAuto,
		ArrayExpandThreshold:   5,
		TrailingCommas:         TrailingMultiline,
		QuoteStyle:             QuoteDouble,
		CommentPlacement:       CommentPreserve,
		SingleLineEmptyObjects: true,
		SingleLineEmptyArrays:  true,
		FinalNewline:           true,
		SortKeys:               SortNone,
	}
}

// Validate reports the first invalid setting in c.
func (c *Config) Validate() error {
	enums := []struct {
		key   string
		val   string
		valid []string
	}{
		{"indent_style", string(c.IndentStyle), []string{"spaces", "tabs"}},
		{"object_style", string(c.ObjectStyle), []string{"expanded", "compact", "auto"}},
		{"array_style", string(c.ArrayStyle), []string{"expanded", "compact", "auto"}},
		{"trailing_commas", string(c.TrailingCommas), []string{"always", "never", "multiline"}},
		{"quote_style", string(c.QuoteStyle), []string{"double", "single"}},
		{"comment_placement", string(c.CommentPlacement), []string{"preserve", "end_of_line", "own_line"}},
		{"sort_keys", string(c.SortKeys), []string{"none", "alpha", "length"}},
	}
	for _, e := range enums {
		if !containsString(e.valid, e.val) {
			return fmt.Errorf("format config: invalid %s %q (expected one of %s)",
				e.key, e.val, strings.Join(e.valid, ", "))
		}
	}
	limits := []struct {
		key string
		val int
	}{
		{"indent_size", c.IndentSize},
		{"max_line_width", c.MaxLineWidth},
		{"object_expand_threshold", c.ObjectExpandThreshold},
		{"array_expand_threshold", c.ArrayExpandThreshold},
		{"comment_alignment_column", c.CommentAlignmentColumn},
	}
	for _, l := range limits {
		if l.val < 0 {
			return fmt.Errorf("format config: %s must not be negative, got %d", l.key, l.val)
		}
	}
	if c.IndentStyle == IndentSpaces && c.IndentSize == 0 {
		return fmt.Errorf("format config: indent_size must be positive when indenting with spaces")
	}
	if c.MaxLineWidth == 0 {
		return fmt.Errorf("format config: max_line_width must be positive")
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// IndentString returns the text of one indentation level.
func (c *Config) IndentString() string {
	if c.IndentStyle == IndentTabs {
		return "\t"
	}
	return strings.Repeat(" ", c.IndentSize)
}

// tabWidth is the width a tab is counted as when measuring lines.
func (c *Config) tabWidth() int {
	if c.IndentSize > 0 {
		return c.IndentSize
	}
	return 4
}

// ConfigFromDocument reads a format configuration from a MON document whose
// root object holds configuration keys.  A "style" key selects the preset
// the remaining keys are applied to.  Unknown keys are an error.
func ConfigFromDocument(doc *ast.Document) (*Config, error) {
	cfg := DefaultConfig()
	if doc == nil || doc.Root == nil || doc.Root.Kind != ast.Object {
		return cfg, fmt.Errorf("format config: root value must be an object")
	}
	raw, _ := doc.Root.Interface().(map[string]interface{})
	if err := DecodeConfig(raw, cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// DecodeConfig decodes raw configuration values (as produced by viper or
// ast.Value.Interface) into cfg.  When raw names a style, cfg is first reset
// to that preset.  Fields missing from raw are left alone.
func DecodeConfig(raw map[string]interface{}, cfg *Config) error {
	if len(raw) == 0 {
		return nil
	}
	rest := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		rest[k] = v
	}
	if style, ok := rest["style"]; ok {
		delete(rest, "style")
		name, ok := style.(string)
		if !ok {
			return fmt.Errorf("format config: style must be a string")
		}
		preset, err := StyleConfig(name)
		if err != nil {
			return fmt.Errorf("format config: %w", err)
		}
		*cfg = *preset
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  integralHook,
		ErrorUnused: true,
		Result:      cfg,
		TagName:     "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(rest); err != nil {
		return fmt.Errorf("format config: %w", err)
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

// Keys returns the configuration keys understood by DecodeConfig, sorted.
func Keys() []string {
	keys := []string{"style"}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		keys = append(keys, t.Field(i).Tag.Get("mapstructure"))
	}
	sort.Strings(keys)
	return keys
}
