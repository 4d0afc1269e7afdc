// Copyright © 2025 The MON authors

package parser

import "strings"

// Comment is a // line comment found in MON source text.
type Comment struct {
	// Text is the comment including the leading "//", without the trailing
	// newline or trailing whitespace.
	Text string
	// Line is the zero-based line number holding the comment.
	Line int
	// Start and End are the byte offsets of Text in the source.
	Start int
	End   int
	// Trailing is set when code precedes the comment on its line.
	Trailing bool
}

// ExtractComments returns the comments of source in order.  For each line
// the first "//" outside a quoted string starts a comment which runs to the
// end of the line.  Strings may be quoted with either ' or " and honor
// backslash escapes.
func ExtractComments(source string) []Comment {
	var comments []Comment
	lineStart := 0
	for line := 0; lineStart <= len(source); line++ {
		lineEnd := strings.IndexByte(source[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(source)
		} else {
			lineEnd += lineStart
		}
		if c, ok := lineComment(source[lineStart:lineEnd]); ok {
			c.Line = line
			c.Start += lineStart
			c.End += lineStart
			comments = append(comments, c)
		}
		lineStart = lineEnd + 1
	}
	return comments
}

func lineComment(line string) (Comment, bool) {
	var quote byte
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				text := strings.TrimRight(line[i:], " \t\r")
				return Comment{
					Text:     text,
					Start:    i,
					End:      i + len(text),
					Trailing: strings.TrimSpace(line[:i]) != "",
				}, true
			}
		}
	}
	return Comment{}, false
}
