// Copyright © 2025 The MON authors

package formatter

import (
	"strings"
	"testing"

	"github.com/mon-lang/mon/ast"
	"github.com/stretchr/testify/assert"
)

func memberKeys(members []*ast.Member) []string {
	var keys []string
	for _, m := range members {
		switch m.Kind {
		case ast.TypeDefMember:
			keys = append(keys, "#"+m.TypeDef.Name)
		case ast.SpreadMember:
			keys = append(keys, "..."+m.Spread)
		default:
			keys = append(keys, m.Key)
		}
	}
	return keys
}

func TestSortMembers(t *testing.T) {
	pair := func(key, anchor string) *ast.Member {
		return &ast.Member{Kind: ast.PairMember, Key: key, Value: &ast.Value{Kind: ast.Null, Anchor: anchor}}
	}
	members := []*ast.Member{
		pair("zeta", ""),
		{Kind: ast.SpreadMember, Spread: "base"},
		pair("b", "b"),
		pair("alpha", "other"),
		{Kind: ast.TypeDefMember, TypeDef: &ast.TypeDefinition{Name: "Z", Enum: &ast.EnumDef{}}},
		pair("a", "a"),
		pair("mid", ""),
		{Kind: ast.TypeDefMember, TypeDef: &ast.TypeDefinition{Name: "A", Enum: &ast.EnumDef{}}},
	}

	assert.Equal(t, []string{"zeta", "...base", "b", "alpha", "#Z", "a", "mid", "#A"},
		memberKeys(SortMembers(members, SortNone)))
	assert.Equal(t, []string{"#Z", "#A", "a", "b", "alpha", "mid", "zeta", "...base"},
		memberKeys(SortMembers(members, SortAlpha)))
	assert.Equal(t, []string{"#Z", "#A", "b", "a", "mid", "zeta", "alpha", "...base"},
		memberKeys(SortMembers(members, SortLength)))
	// The input is not modified.
	assert.Equal(t, "zeta", members[0].Key)
}

func TestCalculateCommentAlignment(t *testing.T) {
	lines := []CommentLine{
		{Content: "short: 1", Comment: "// Comment"},
		{Content: "much_longer_key: 2", Comment: "// Another"},
		{Content: "a_line_without_any_comment_at_all: 3"},
	}
	assert.Equal(t, 24, CalculateCommentAlignment(lines))

	assert.Equal(t, 12, CalculateCommentAlignment([]CommentLine{{Content: "12345678", Comment: "//"}}))
	assert.Equal(t, 80, CalculateCommentAlignment([]CommentLine{{Content: strings.Repeat("x", 100), Comment: "//"}}))
}

func TestAlignCommentAt(t *testing.T) {
	aligned := AlignCommentAt("key: value", "// Comment", 40)
	assert.Len(t, aligned, 40+len("// Comment"))
	assert.Equal(t, 40, strings.Index(aligned, "//"))

	assert.Equal(t, "too_long_content  // c", AlignCommentAt("too_long_content", "// c", 8))
	assert.Equal(t, "exact  // c", AlignCommentAt("exact", "// c", 5))
}
