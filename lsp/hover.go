// Copyright © 2025 The MON authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/mon-lang/mon/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	res := doc.result()
	if res == nil {
		return nil, nil
	}

	sym, ref := symbolAtPosition(res, fromProtocolPosition(params.Position))
	var content string
	switch {
	case sym != nil:
		content = buildHoverContent(sym, len(res.Symbols.FindReferences(sym.Name, sym.Kind)))
	case ref != nil:
		content = buildUnresolvedHover(res, ref)
	}
	if content == "" {
		return nil, nil
	}

	h := &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}
	if ref != nil {
		r := toProtocolRange(ref.Range)
		h.Range = &r
	}
	return h, nil
}

// buildHoverContent builds Markdown hover text for a symbol.
func buildHoverContent(sym *analysis.Symbol, refs int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`", sym.Kind, sym.Name)
	if sym.Detail != "" {
		fmt.Fprintf(&sb, "\n\n```mon\n%s\n```", sym.Detail)
	}
	if sym.Documentation != "" {
		fmt.Fprintf(&sb, "\n\n%s", sym.Documentation)
	}
	switch refs {
	case 0:
		if sym.Kind == analysis.SymAnchor || sym.Kind == analysis.SymType {
			sb.WriteString("\n\n*Not referenced*")
		}
	case 1:
		sb.WriteString("\n\n*1 reference*")
	default:
		fmt.Fprintf(&sb, "\n\n*%d references*", refs)
	}
	return sb.String()
}

// buildUnresolvedHover describes a reference with no local definition.
func buildUnresolvedHover(res *analysis.Result, ref *analysis.SymbolReference) string {
	if imp, _ := importBinding(res.Document, ref.Name); imp != nil {
		return fmt.Sprintf("**%s** `%s`\n\n*Imported from %s*", ref.Kind, ref.Name, imp.Path)
	}
	if ref.Kind == analysis.SymType && isBuiltinType(ref.Name) {
		return fmt.Sprintf("**builtin type** `%s`", ref.Name)
	}
	return fmt.Sprintf("**%s** `%s`\n\n*Undefined*", ref.Kind, ref.Name)
}
