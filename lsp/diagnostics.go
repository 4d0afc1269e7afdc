// Copyright © 2025 The MON authors

package lsp

import (
	"errors"
	"time"

	"github.com/mon-lang/mon/lint"
	"github.com/mon-lang/mon/parser"
	"github.com/mon-lang/mon/position"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	debounceDelay = 300 * time.Millisecond

	diagnosticSource = "mon"
)

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("analysis of %s panicked: %v", doc.URI, r)
			}
		}()
		if d := s.docs.Get(doc.URI); d != nil {
			s.analyzeAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)

	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}
	s.analyzeAndPublish(doc)
	content, _, _ := doc.snapshot()
	s.updateIndexedFile(uriToPath(doc.URI), content)
	return nil
}

func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// analyzeAndPublish analyzes a document and publishes its diagnostics to
// the client.
func (s *Server) analyzeAndPublish(doc *Document) {
	s.ensureAnalysis(doc)
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: documentDiagnostics(doc),
	})
}

// documentDiagnostics returns the protocol diagnostics of an analyzed
// document: the parse error, or the lint findings.
func documentDiagnostics(doc *Document) []protocol.Diagnostic {
	content, res, err := doc.snapshot()
	diags := []protocol.Diagnostic{}
	if err != nil {
		return append(diags, errorDiagnostic(err, content))
	}
	uri := doc.URI
	for _, d := range res.Diagnostics {
		diags = append(diags, convertLintDiagnostic(d, uri))
	}
	return diags
}

// errorDiagnostic reports a failed analysis.  Parse errors are located at
// their span and carry the help text.
func errorDiagnostic(err error, content string) protocol.Diagnostic {
	d := protocol.Diagnostic{
		Severity: severity(protocol.DiagnosticSeverityError),
		Source:   strPtr(diagnosticSource),
		Message:  err.Error(),
	}
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		d.Range = toProtocolRange(position.RangeAt(content, perr.Span.Start, perr.Span.End))
		d.Message = perr.Message
		if perr.Label != "" {
			d.Message += ": " + perr.Label
		}
		if perr.Help != "" {
			d.Message += "\n\nhelp: " + perr.Help
		}
	}
	return d
}

// convertLintDiagnostic converts a lint.Diagnostic to an LSP Diagnostic.
// Findings about the whole document are shown on the first line.
func convertLintDiagnostic(d lint.Diagnostic, uri string) protocol.Diagnostic {
	var r protocol.Range
	if d.Range != nil {
		r = toProtocolRange(*d.Range)
	}
	sev := mapLintSeverity(d.Severity)
	pd := protocol.Diagnostic{
		Range:    r,
		Severity: &sev,
		Source:   strPtr(diagnosticSource),
		Code:     &protocol.IntegerOrString{Value: d.Code.String()},
		Message:  d.Message,
	}
	for _, tag := range d.Tags {
		switch tag {
		case lint.TagUnnecessary:
			pd.Tags = append(pd.Tags, protocol.DiagnosticTagUnnecessary)
		case lint.TagDeprecated:
			pd.Tags = append(pd.Tags, protocol.DiagnosticTagDeprecated)
		}
	}
	for _, rel := range d.RelatedInformation {
		relURI := rel.Location.URI
		if relURI == "" {
			relURI = uri
		}
		pd.RelatedInformation = append(pd.RelatedInformation, protocol.DiagnosticRelatedInformation{
			Location: protocol.Location{URI: relURI, Range: toProtocolRange(rel.Location.Range)},
			Message:  rel.Message,
		})
	}
	return pd
}

// mapLintSeverity converts a lint.Severity to a protocol.DiagnosticSeverity.
func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case lint.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}

func severity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func strPtr(s string) *string {
	return &s
}
