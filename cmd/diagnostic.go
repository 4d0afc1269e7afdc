// Copyright © 2025 The MON authors

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/mon-lang/mon/diagnostic"
	"github.com/mon-lang/mon/lint"
	"github.com/mon-lang/mon/parser"
	"github.com/mon-lang/mon/position"
)

func (g *globals) newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: diagnostic.ParseColorMode(g.color)}
}

// parseErrorToDiagnostic converts a parse failure of source to a
// Diagnostic for display.
func parseErrorToDiagnostic(file, source string, err error) diagnostic.Diagnostic {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		return diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Message:  err.Error(),
		}
	}
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  perr.Message,
		Spans:    []diagnostic.Span{diagnostic.SpanAt(file, source, perr.Span.Start, perr.Span.End, perr.Label)},
	}
	if perr.Help != "" {
		d.Help = append(d.Help, perr.Help)
	}
	return d
}

// lintDiagToDiagnostic converts a lint.Diagnostic found in source to a
// diagnostic.Diagnostic.
func lintDiagToDiagnostic(file, source string, index *position.Index, ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: renderSeverity(ld.Severity),
		Code:     ld.Code.String(),
		Message:  ld.Message,
	}
	if ld.Range != nil {
		start, end := index.Offset(ld.Range.Start), index.Offset(ld.Range.End)
		d.Spans = append(d.Spans, diagnostic.SpanAt(file, source, start, end, ld.Code.Title()))
	}
	for _, ri := range ld.RelatedInformation {
		d.Notes = append(d.Notes, fmt.Sprintf("%s at %s:%d", ri.Message, ri.Location.URI, ri.Location.Range.Start.Line+1))
	}
	d.Help = append(d.Help, "to suppress: add \"// nolint:"+ld.Code.String()+"\" as a comment on this line")
	return d
}

func renderSeverity(s lint.Severity) diagnostic.Severity {
	switch s {
	case lint.SeverityError:
		return diagnostic.SeverityError
	case lint.SeverityWarning:
		return diagnostic.SeverityWarning
	default:
		return diagnostic.SeverityInfo
	}
}

// renderParseError renders a parse failure with annotated source to w.
func (g *globals) renderParseError(w io.Writer, file, source string, err error) {
	_ = g.newRenderer().Render(w, parseErrorToDiagnostic(file, source, err))
}

// renderLintDiagnostics renders the diagnostics of one file with annotated
// source to w.
func (g *globals) renderLintDiagnostics(w io.Writer, file, source string, diags []lint.Diagnostic) {
	index := position.NewIndex(source)
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(file, source, index, ld))
	}
	_ = g.newRenderer().RenderAll(w, ds)
}
