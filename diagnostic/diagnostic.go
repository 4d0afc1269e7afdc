// Copyright © 2025 The MON authors

// Package diagnostic renders parse errors and lint findings as annotated
// source snippets for terminal output.  It does not depend on the lint or
// parser packages; the CLI converts their types into Diagnostic values.
package diagnostic

import "strings"

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight in the diagnostic.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column, in bytes
	EndCol int    // 1-based inclusive end column (0 = auto-detect from source)
	Label  string // text shown under the underline

	// Source is the file content.  When empty the file is read through
	// the renderer's SourceReader.
	Source string
}

// Diagnostic represents a single error, warning, or note with optional
// source annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Code     string // shown as error[CODE] when set
	Message  string
	Spans    []Span
	Notes    []string // "= note:" lines
	Help     []string // "= help:" lines
}

// SpanAt returns a span covering the bytes [start, end) of source.  A span
// that continues past the end of its first line is cut at the line end.
func SpanAt(file, source string, start, end int, label string) Span {
	if start < 0 {
		start = 0
	}
	if start > len(source) {
		start = len(source)
	}
	if end < start {
		end = start
	}
	lineStart := strings.LastIndexByte(source[:start], '\n') + 1
	lineEnd := len(source)
	if i := strings.IndexByte(source[start:], '\n'); i >= 0 {
		lineEnd = start + i
	}
	if end > lineEnd {
		end = lineEnd
	}
	span := Span{
		File:   file,
		Line:   strings.Count(source[:start], "\n") + 1,
		Col:    start - lineStart + 1,
		Label:  label,
		Source: source,
	}
	if end > start {
		span.EndCol = end - lineStart
	}
	return span
}
