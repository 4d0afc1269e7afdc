// Copyright © 2025 The MON authors

package formatter

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mon-lang/mon/ast"
)

// SortMembers returns members reordered for presentation.  Type
// definitions come first, then pairs whose anchor matches their key, then
// the remaining pairs, then everything else.  Both groups of pairs are
// sorted by key according to style; the other groups keep their order.
// With SortNone the members are returned unchanged.
func SortMembers(members []*ast.Member, style SortStyle) []*ast.Member {
	if style == SortNone || style == "" {
		return members
	}
	var typedefs, anchored, regular, other []*ast.Member
	for _, m := range members {
		switch {
		case m.Kind == ast.TypeDefMember:
			typedefs = append(typedefs, m)
		case m.Kind == ast.PairMember && m.Value != nil && m.Value.Anchor != "" && m.Value.Anchor == m.Key:
			anchored = append(anchored, m)
		case m.Kind == ast.PairMember:
			regular = append(regular, m)
		default:
			other = append(other, m)
		}
	}
	less := func(list []*ast.Member) func(i, j int) bool {
		if style == SortLength {
			return func(i, j int) bool { return len(list[i].Key) < len(list[j].Key) }
		}
		return func(i, j int) bool { return list[i].Key < list[j].Key }
	}
	sort.SliceStable(anchored, less(anchored))
	sort.SliceStable(regular, less(regular))

	sorted := make([]*ast.Member, 0, len(members))
	sorted = append(sorted, typedefs...)
	sorted = append(sorted, anchored...)
	sorted = append(sorted, regular...)
	return append(sorted, other...)
}

// CommentLine is a rendered line and the end of line comment following it,
// if any.
type CommentLine struct {
	Content string
	Comment string
}

// CalculateCommentAlignment returns the column at which the comments of
// lines should start: the width of the longest line carrying a comment,
// rounded up to a multiple of 4, plus 4.  The result is capped at 80.
func CalculateCommentAlignment(lines []CommentLine) int {
	longest := 0
	for _, l := range lines {
		if l.Comment == "" {
			continue
		}
		if n := utf8.RuneCountInString(l.Content); n > longest {
			longest = n
		}
	}
	col := (longest+3)/4*4 + 4
	if col > 80 {
		col = 80
	}
	return col
}

// AlignCommentAt pads content with spaces so that comment starts at column.
// When content already reaches the column the comment follows after two
// spaces.
func AlignCommentAt(content, comment string, column int) string {
	n := utf8.RuneCountInString(content)
	if n >= column {
		return content + "  " + comment
	}
	return content + strings.Repeat(" ", column-n) + comment
}
