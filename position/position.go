// Copyright © 2025 The MON authors

// Package position converts byte offsets in MON source text to editor
// positions.  Lines and characters are zero-based and characters count UTF-16
// code units, as the language server protocol does.
package position

import (
	"fmt"
	"sort"
)

// Position is a zero-based line and UTF-16 character offset.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Character+1)
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Character < q.Character)
}

// Range is a span of positions.  Start is inclusive and End is exclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos lies within r.
func (r Range) Contains(pos Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// At returns the position of byte offset off in source.  The source is
// scanned from the start; offsets past the end of source clamp to the
// position after the last character.
func At(source string, off int) Position {
	var pos Position
	for idx, c := range source {
		if idx >= off {
			break
		}
		if c == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character += utf16Len(c)
		}
	}
	return pos
}

// RangeAt returns the range covering the byte offsets [start, end).
func RangeAt(source string, start, end int) Range {
	return Range{Start: At(source, start), End: At(source, end)}
}

func utf16Len(c rune) uint32 {
	if c >= 0x10000 {
		return 2
	}
	return 1
}

// Index converts offsets for one source text without rescanning it from the
// start for each lookup.  An Index must not be reused after the text
// changes.
type Index struct {
	source string
	lines  []int // byte offset of the first byte of each line
}

// NewIndex builds an Index for source.
func NewIndex(source string) *Index {
	lines := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Index{source: source, lines: lines}
}

// At returns the same result as the package level At.
func (x *Index) At(off int) Position {
	if off > len(x.source) {
		off = len(x.source)
	}
	if off < 0 {
		off = 0
	}
	// The line holding off is the last line starting at or before it.  A
	// newline at off-1 has been passed, so off starts the next line.
	line := sort.Search(len(x.lines), func(i int) bool { return x.lines[i] > off }) - 1
	start := x.lines[line]
	var char uint32
	for i, c := range x.source[start:] {
		if start+i >= off {
			break
		}
		char += utf16Len(c)
	}
	return Position{Line: uint32(line), Character: char}
}

// Range returns the range covering the byte offsets [start, end).
func (x *Index) Range(start, end int) Range {
	return Range{Start: x.At(start), End: x.At(end)}
}

// Offset converts pos back to a byte offset.  Positions past the end of a
// line clamp to the end of that line and positions past the last line clamp
// to the end of the source.
func (x *Index) Offset(pos Position) int {
	line := int(pos.Line)
	if line >= len(x.lines) {
		return len(x.source)
	}
	start := x.lines[line]
	end := len(x.source)
	if line+1 < len(x.lines) {
		end = x.lines[line+1] - 1
	}
	var char uint32
	for i, c := range x.source[start:end] {
		if char >= pos.Character {
			return start + i
		}
		char += utf16Len(c)
	}
	return end
}
