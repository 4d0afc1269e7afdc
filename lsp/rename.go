// Copyright © 2025 The MON authors

package lsp

import (
	"errors"
	"fmt"

	"github.com/mon-lang/mon/analysis"
	"github.com/mon-lang/mon/position"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// renameTarget returns the renameable symbol under pos and the range of
// its name at pos.  Only anchors and types defined in the document can be
// renamed.
func renameTarget(res *analysis.Result, pos position.Position) (*analysis.Symbol, position.Range, error) {
	sym, ref := symbolAtPosition(res, pos)
	if sym == nil {
		if ref != nil {
			return nil, position.Range{}, fmt.Errorf("cannot rename %s: %s is not defined in this file", ref.Kind, ref.Name)
		}
		return nil, position.Range{}, errors.New("no symbol at position")
	}
	if sym.Kind != analysis.SymAnchor && sym.Kind != analysis.SymType {
		return nil, position.Range{}, fmt.Errorf("cannot rename %s: %s", sym.Kind, sym.Name)
	}
	if ref != nil {
		return sym, nameRange(res, ref.Range, sym.Name), nil
	}
	return sym, sym.Range, nil
}

// textDocumentPrepareRename validates that the symbol under the cursor
// is renameable and returns its range.
func (s *Server) textDocumentPrepareRename(_ *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	res := doc.result()
	if res == nil {
		return nil, nil
	}

	// prepareRename answers null, not an error, when nothing can be renamed.
	sym, r, err := renameTarget(res, fromProtocolPosition(params.Position))
	if err != nil {
		return nil, nil
	}
	return &protocol.RangeWithPlaceholder{
		Range:       toProtocolRange(r),
		Placeholder: sym.Name,
	}, nil
}

// textDocumentRename handles the textDocument/rename request.
func (s *Server) textDocumentRename(_ *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, errors.New("document not found")
	}
	s.ensureAnalysis(doc)
	res := doc.result()
	if res == nil {
		return nil, errors.New("document has errors")
	}

	sym, _, err := renameTarget(res, fromProtocolPosition(params.Position))
	if err != nil {
		return nil, err
	}
	if !isIdentifier(params.NewName) {
		return nil, fmt.Errorf("invalid name: %q", params.NewName)
	}
	if existing, ok := res.Symbols.FindSymbol(params.NewName, sym.Kind); ok && existing != sym {
		return nil, fmt.Errorf("%s %s is already defined", sym.Kind, params.NewName)
	}

	edits := []protocol.TextEdit{{
		Range:   toProtocolRange(sym.Range),
		NewText: params.NewName,
	}}
	for _, ref := range res.Symbols.FindReferences(sym.Name, sym.Kind) {
		edits = append(edits, protocol.TextEdit{
			Range:   toProtocolRange(nameRange(res, ref.Range, sym.Name)),
			NewText: params.NewName,
		})
	}
	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{params.TextDocument.URI: edits},
	}, nil
}
