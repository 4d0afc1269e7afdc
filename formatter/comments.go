// Copyright © 2025 The MON authors

package formatter

import (
	"sort"
	"strings"

	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/parser"
	"github.com/mon-lang/mon/position"
)

// commentSet holds the comments of a document in source order.
type commentSet struct {
	source   string
	comments []parser.Comment
	index    *position.Index
}

func newCommentSet(source string) *commentSet {
	return &commentSet{
		source:   source,
		comments: parser.ExtractComments(source),
		index:    position.NewIndex(source),
	}
}

// between returns the comments starting in [lo, hi).
func (cs *commentSet) between(lo, hi int) []parser.Comment {
	if lo >= hi {
		return nil
	}
	i := sort.Search(len(cs.comments), func(i int) bool { return cs.comments[i].Start >= lo })
	j := i
	for j < len(cs.comments) && cs.comments[j].Start < hi {
		j++
	}
	return cs.comments[i:j]
}

// any reports whether a comment starts inside span.
func (cs *commentSet) any(span ast.Span) bool {
	return len(cs.between(span.Start, span.End)) > 0
}

func (cs *commentSet) line(off int) int {
	if off < 0 {
		off = 0
	}
	return int(cs.index.At(off).Line)
}

// blankBetween reports whether the source holds an empty line between the
// offsets lo and hi.
func (cs *commentSet) blankBetween(lo, hi int) bool {
	if lo < 0 || hi > len(cs.source) || lo >= hi {
		return false
	}
	return strings.Count(cs.source[lo:hi], "\n") >= 2
}

// element is one entry of a block: an object member, array item, struct
// field, enum variant, import statement or the document root.
type element struct {
	span ast.Span
	// inner is the span of a nested container whose comments are written
	// by the container itself.
	inner *ast.Span
	write func(depth int)

	leading  []string
	trailing string
	// blankBefore is set when an empty line separates the element (or its
	// leading comments) from the previous element.
	blankBefore bool
	// blankAfterComments is set when an empty line separates the leading
	// comments from the element.
	blankAfterComments bool
}

// block holds the comments of a container which do not belong to any of its
// elements.
type block struct {
	open    string
	closing []string
}

func (b *block) empty() bool {
	return b.open == "" && len(b.closing) == 0
}

// attach distributes the comments inside span over elems, which must be in
// source order.  A comment at the end of the line on which an element ends
// trails that element.  A comment at the end of the opening line of the
// container is the block's open comment and comments after the last element
// close the block.  Every other comment leads the element which follows it.
func (cs *commentSet) attach(span ast.Span, elems []*element) *block {
	b := &block{}
	prevEnd := span.Start
	var prev *element
	for _, e := range elems {
		var leading []parser.Comment
		for _, c := range cs.between(prevEnd, e.span.Start) {
			switch {
			case prev == nil && c.Trailing && cs.line(c.Start) == cs.line(span.Start) && b.open == "":
				b.open = c.Text
			case prev != nil && c.Trailing && prev.trailing == "" && cs.line(c.Start) == cs.line(prev.span.End-1):
				prev.trailing = c.Text
			default:
				leading = append(leading, c)
			}
		}
		if prev != nil {
			gapEnd := e.span.Start
			if len(leading) > 0 {
				gapEnd = leading[0].Start
			}
			e.blankBefore = cs.blankBetween(prev.span.End, gapEnd)
		}
		if len(leading) > 0 {
			e.blankAfterComments = cs.blankBetween(leading[len(leading)-1].End, e.span.Start)
		}
		for _, c := range leading {
			e.leading = append(e.leading, c.Text)
		}
		e.leading = append(e.leading, cs.own(e)...)
		prevEnd = e.span.End
		prev = e
	}
	for _, c := range cs.between(prevEnd, span.End) {
		if prev != nil && c.Trailing && prev.trailing == "" && cs.line(c.Start) == cs.line(prev.span.End-1) {
			prev.trailing = c.Text
			continue
		}
		if prev == nil && c.Trailing && b.open == "" && cs.line(c.Start) == cs.line(span.Start) {
			b.open = c.Text
			continue
		}
		b.closing = append(b.closing, c.Text)
	}
	return b
}

// own returns the comments inside the element itself which are not inside
// its nested container.
func (cs *commentSet) own(e *element) []string {
	var texts []string
	for _, c := range cs.between(e.span.Start, e.span.End) {
		if e.inner != nil && c.Start >= e.inner.Start && c.Start < e.inner.End {
			continue
		}
		texts = append(texts, c.Text)
	}
	return texts
}

// place moves comments according to the placement policy.
func place(policy CommentPlacement, elems []*element, b *block) {
	switch policy {
	case CommentOwnLine:
		if b.open != "" {
			if len(elems) > 0 {
				elems[0].leading = append([]string{b.open}, elems[0].leading...)
			} else {
				b.closing = append([]string{b.open}, b.closing...)
			}
			b.open = ""
		}
		for _, e := range elems {
			if e.trailing != "" {
				e.leading = append(e.leading, e.trailing)
				e.trailing = ""
			}
		}
	case CommentEndOfLine:
		for _, e := range elems {
			if len(e.leading) == 0 {
				continue
			}
			texts := e.leading
			if e.trailing != "" {
				texts = append(texts, e.trailing)
			}
			e.trailing = strings.Join(texts, " ")
			e.leading = nil
			e.blankAfterComments = false
		}
	}
}
