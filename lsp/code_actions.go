// Copyright © 2025 The MON authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/mon-lang/mon/analysis"
	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/lint"
	"github.com/mon-lang/mon/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCodeAction handles the textDocument/codeAction request.
// It returns quick-fix actions for the lint diagnostics in the request
// context.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}

	// If the client only wants specific kinds, check we support them.
	if len(params.Context.Only) > 0 && !slicesContains(params.Context.Only, protocol.CodeActionKindQuickFix) {
		return nil, nil
	}

	s.ensureAnalysis(doc)
	content, res, _ := doc.snapshot()
	uri := params.TextDocument.URI

	var actions []protocol.CodeAction
	for _, diag := range params.Context.Diagnostics {
		if diag.Source == nil || *diag.Source != diagnosticSource || diag.Code == nil {
			continue
		}
		code, ok := lint.LookupCode(fmt.Sprint(diag.Code.Value))
		if !ok {
			continue
		}
		if res != nil {
			switch code {
			case lint.UnusedImport:
				if a, ok := removeImportAction(uri, diag, res); ok {
					actions = append(actions, a)
				}
			case lint.UnusedAnchor:
				if a, ok := removeAnchorAction(uri, diag, res); ok {
					actions = append(actions, a)
				}
			}
		}
		actions = append(actions, suppressLintAction(uri, diag, code, content))
	}

	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

func quickFix(title, uri string, diag protocol.Diagnostic, preferred bool, edits ...protocol.TextEdit) protocol.CodeAction {
	kind := protocol.CodeActionKindQuickFix
	return protocol.CodeAction{
		Title:       title,
		Kind:        &kind,
		Diagnostics: []protocol.Diagnostic{diag},
		IsPreferred: boolPtr(preferred),
		Edit: &protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits},
		},
	}
}

// suppressLintAction adds the code to a nolint comment on the diagnostic's
// line.  An existing nolint list is extended and any other comment keeps
// its text after the directive.
func suppressLintAction(uri string, diag protocol.Diagnostic, code lint.Code, content string) protocol.CodeAction {
	title := "Suppress with // nolint:" + code.String()
	line := int(diag.Range.Start.Line)
	lines := strings.Split(content, "\n")
	if line >= len(lines) {
		return quickFix(title, uri, diag, false)
	}
	text := lines[line]

	var comment *parser.Comment
	if cs := parser.ExtractComments(text); len(cs) > 0 {
		comment = &cs[0]
	}

	var edit protocol.TextEdit
	switch {
	case comment == nil:
		end := protocol.Position{Line: uint32(line), Character: utf16Len(text)}
		edit = protocol.TextEdit{
			Range:   protocol.Range{Start: end, End: end},
			NewText: " // nolint:" + code.String(),
		}
	case strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(comment.Text, "//")), "nolint:"):
		body := strings.TrimSpace(strings.TrimPrefix(comment.Text, "//"))
		listEnd := comment.Start + strings.Index(comment.Text, "nolint:") + len("nolint:")
		if i := strings.IndexAny(body[len("nolint:"):], " \t"); i >= 0 {
			listEnd += i
		} else {
			listEnd = comment.End
		}
		at := protocol.Position{Line: uint32(line), Character: utf16Len(text[:listEnd])}
		edit = protocol.TextEdit{
			Range:   protocol.Range{Start: at, End: at},
			NewText: "," + code.String(),
		}
	default:
		start := protocol.Position{Line: uint32(line), Character: utf16Len(text[:comment.Start])}
		rest := strings.TrimSpace(strings.TrimPrefix(comment.Text, "//"))
		end := protocol.Position{Line: uint32(line), Character: utf16Len(text[:comment.End])}
		edit = protocol.TextEdit{
			Range:   protocol.Range{Start: start, End: end},
			NewText: strings.TrimRight("// nolint:"+code.String()+" "+rest, " "),
		}
	}
	return quickFix(title, uri, diag, false, edit)
}

// removeImportAction deletes an unused import.  The whole statement is
// removed when nothing else in it is used; otherwise only the unused name.
func removeImportAction(uri string, diag protocol.Diagnostic, res *analysis.Result) (protocol.CodeAction, bool) {
	start := res.Index.Offset(fromProtocolPosition(diag.Range.Start))
	end := res.Index.Offset(fromProtocolPosition(diag.Range.End))
	for _, imp := range res.Document.Imports {
		if start < imp.Span.Start || end > imp.Span.End {
			continue
		}
		if imp.IsNamespace() || len(imp.Names) == 1 {
			s, e := lineExtent(res.Source, imp.Span)
			return quickFix("Remove unused import", uri, diag, true, protocol.TextEdit{
				Range: toProtocolRange(res.Index.Range(s, e)),
			}), true
		}
		for i, n := range imp.Names {
			if n.Span.Start != start {
				continue
			}
			s, e := listItemExtent(imp.Names, i)
			return quickFix("Remove unused import '"+n.Name+"'", uri, diag, true, protocol.TextEdit{
				Range: toProtocolRange(res.Index.Range(s, e)),
			}), true
		}
	}
	return protocol.CodeAction{}, false
}

// removeAnchorAction deletes an unused anchor.  For "&key: value" only the
// '&' goes; for "key: &name value" the "&name" and the whitespace after it.
func removeAnchorAction(uri string, diag protocol.Diagnostic, res *analysis.Result) (protocol.CodeAction, bool) {
	start := res.Index.Offset(fromProtocolPosition(diag.Range.Start))
	if start == 0 || res.Source[start-1] != '&' {
		return protocol.CodeAction{}, false
	}
	nameEnd := res.Index.Offset(fromProtocolPosition(diag.Range.End))
	name := res.Source[start:nameEnd]

	end := nameEnd
	for end < len(res.Source) && (res.Source[end] == ' ' || res.Source[end] == '\t') {
		end++
	}
	if end < len(res.Source) && res.Source[end] == ':' {
		end = start
	}
	return quickFix("Remove unused anchor '&"+name+"'", uri, diag, true, protocol.TextEdit{
		Range: toProtocolRange(res.Index.Range(start-1, end)),
	}), true
}

// lineExtent widens span to whole lines when nothing else shares them,
// including the line break.
func lineExtent(src string, span ast.Span) (int, int) {
	s, e := span.Start, span.End
	ls := strings.LastIndexByte(src[:s], '\n') + 1
	if strings.TrimSpace(src[ls:s]) != "" {
		return s, e
	}
	le := len(src)
	if i := strings.IndexByte(src[e:], '\n'); i >= 0 {
		le = e + i + 1
	}
	if rest := strings.TrimSpace(src[e:le]); rest != "" && rest != "," {
		return s, e
	}
	return ls, le
}

// listItemExtent returns the range of names[i] with the separating comma
// and spaces on one side.
func listItemExtent(names []*ast.ImportName, i int) (int, int) {
	s, e := names[i].Span.Start, names[i].Span.End
	if i+1 < len(names) {
		return s, names[i+1].Span.Start
	}
	return names[i-1].Span.End, e
}

func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		n++
		if r >= 0x10000 {
			n++
		}
	}
	return n
}

func slicesContains(kinds []protocol.CodeActionKind, want protocol.CodeActionKind) bool {
	for _, k := range kinds {
		if k == want {
			return true
		}
	}
	return false
}
