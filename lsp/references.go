// Copyright © 2025 The MON authors

package lsp

import (
	"github.com/mon-lang/mon/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentReferences handles the textDocument/references request.
// References are resolved within the document; a name used but never
// defined still reports its uses.  Reference locations cover the name
// without its '*' or '...*' prefix.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
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
	var key analysis.SymbolKey
	switch {
	case sym != nil:
		key = sym.Key()
	case ref != nil:
		key = analysis.SymbolKey{Name: ref.Name, Kind: ref.Kind}
	default:
		return nil, nil
	}

	uri := params.TextDocument.URI
	var locs []protocol.Location
	if sym != nil && params.Context.IncludeDeclaration {
		locs = append(locs, protocol.Location{URI: uri, Range: toProtocolRange(sym.Range)})
	}
	for _, r := range res.Symbols.FindReferences(key.Name, key.Kind) {
		locs = append(locs, protocol.Location{URI: uri, Range: toProtocolRange(nameRange(res, r.Range, key.Name))})
	}
	return locs, nil
}
