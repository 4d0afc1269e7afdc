// Copyright © 2025 The MON authors

// Package formatter rewrites MON documents in a canonical layout.
//
// The source is parsed into an ast.Document and printed again from the
// tree.  Comments are not part of the tree: they are extracted from the
// source text and attached by byte offset to the member, item, field or
// import they precede or trail, so reordering and re-indenting keep every
// comment next to the code it describes.  Formatting is idempotent for a
// fixed configuration.
package formatter

import (
	"strings"

	"github.com/mon-lang/mon/parser"
)

// Format formats MON source code.  If cfg is nil, DefaultConfig() is used.
// On a parse failure the *parser.ParseError is returned and no output is
// produced.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats MON source code, using filename for error messages.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	text := string(source)
	doc, err := parser.Parse(text, filename)
	if err != nil {
		return nil, err
	}

	pr := newPrinter(cfg, newCommentSet(text))
	pr.writeDocument(doc)
	result := pr.buf.String()
	if cfg.AlignTrailingComments {
		result = alignComments(result, cfg)
	}

	result = strings.TrimRight(result, "\n")
	if cfg.FinalNewline {
		result += "\n"
	}
	return []byte(result), nil
}

// alignComments lines up the end of line comments of consecutive lines.
// Each run of lines carrying a trailing comment is aligned at the
// configured column, or at the column computed by
// CalculateCommentAlignment when none is configured.
func alignComments(text string, cfg *Config) string {
	lines := strings.Split(text, "\n")
	trailing := make(map[int]parser.Comment)
	lineStart := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		lineStart[i] = off
		off += len(l) + 1
	}
	for _, c := range parser.ExtractComments(text) {
		if c.Trailing {
			trailing[c.Line] = c
		}
	}
	for i := 0; i < len(lines); {
		if _, ok := trailing[i]; !ok {
			i++
			continue
		}
		j := i
		var run []CommentLine
		for ; j < len(lines); j++ {
			c, ok := trailing[j]
			if !ok {
				break
			}
			content := strings.TrimRight(lines[j][:c.Start-lineStart[j]], " \t")
			run = append(run, CommentLine{Content: content, Comment: c.Text})
		}
		col := cfg.CommentAlignmentColumn
		if col == 0 {
			col = CalculateCommentAlignment(run)
		}
		for k, l := range run {
			lines[i+k] = AlignCommentAt(l.Content, l.Comment, col)
		}
		i = j
	}
	return strings.Join(lines, "\n")
}
