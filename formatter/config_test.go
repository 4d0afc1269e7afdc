// Copyright © 2025 The MON authors

package formatter

import (
	"testing"

	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configFrom(t *testing.T, src string) (*Config, error) {
	t.Helper()
	doc, err := parser.Parse(src, ".monconfig.mon")
	require.NoError(t, err)
	return ConfigFromDocument(doc)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, IndentSpaces, cfg.IndentStyle)
	assert.Equal(t, 4, cfg.IndentSize)
	assert.Equal(t, 80, cfg.MaxLineWidth)
	assert.Equal(t, StyleAuto, cfg.ObjectStyle)
	assert.Equal(t, 3, cfg.ObjectExpandThreshold)
	assert.Equal(t, 5, cfg.ArrayExpandThreshold)
	assert.Equal(t, TrailingMultiline, cfg.TrailingCommas)
	assert.Equal(t, CommentPreserve, cfg.CommentPlacement)
	assert.True(t, cfg.SingleLineEmptyObjects)
	assert.True(t, cfg.FinalNewline)
	assert.False(t, cfg.AlignTrailingComments)
	assert.Equal(t, SortNone, cfg.SortKeys)
	assert.Equal(t, "    ", cfg.IndentString())
}

func TestConfigFromDocument(t *testing.T) {
	cfg, err := configFrom(t, `{ indent_size: 2, object_style: "expanded", sort_keys: "alpha", final_newline: false }`)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.IndentSize)
	assert.Equal(t, StyleExpanded, cfg.ObjectStyle)
	assert.Equal(t, SortAlpha, cfg.SortKeys)
	assert.False(t, cfg.FinalNewline)
	assert.Equal(t, 80, cfg.MaxLineWidth, "unset keys keep defaults")
}

func TestConfigFromDocumentStyle(t *testing.T) {
	cfg, err := configFrom(t, `{ style: "linux", max_line_width: 120 }`)
	require.NoError(t, err)
	assert.Equal(t, IndentTabs, cfg.IndentStyle)
	assert.Equal(t, TrailingNever, cfg.TrailingCommas)
	assert.Equal(t, 120, cfg.MaxLineWidth)
}

func TestConfigFromDocumentErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", `{ indent: 2 }`, "indent"},
		{"fractional", `{ indent_size: 2.5 }`, "expected an integer"},
		{"bad enum", `{ trailing_commas: "sometimes" }`, `invalid trailing_commas "sometimes"`},
		{"negative", `{ array_expand_threshold: -1 }`, "array_expand_threshold must not be negative"},
		{"unknown style", `{ style: "gnu" }`, "Unknown style: gnu"},
		{"style type", `{ style: 1 }`, "style must be a string"},
		{"wrong type", `{ final_newline: "yes" }`, "final_newline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := configFrom(t, tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ConfigFromDocument(&ast.Document{Root: &ast.Value{Kind: ast.Array}})
	assert.EqualError(t, err, "format config: root value must be an object")
}

func TestDecodeConfigViperValues(t *testing.T) {
	cfg := DefaultConfig()
	err := DecodeConfig(map[string]interface{}{
		"indent_size":       8,
		"array_style":       "compact",
		"space_in_brackets": true,
	}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.IndentSize)
	assert.Equal(t, StyleCompact, cfg.ArrayStyle)
	assert.True(t, cfg.SpaceInBrackets)

	require.NoError(t, DecodeConfig(nil, cfg))
	assert.Equal(t, 8, cfg.IndentSize)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Len(t, keys, 20)
	assert.Contains(t, keys, "style")
	assert.Contains(t, keys, "comment_alignment_column")
	assert.IsIncreasing(t, keys)
}
