// Copyright © 2025 The MON authors

package lsp

import (
	"strconv"

	"github.com/mon-lang/mon/analysis"
	"github.com/mon-lang/mon/ast"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol handles the textDocument/documentSymbol
// request.  The outline follows the document: imports, then the keys of the
// root object with nested objects and arrays as children.  Type definitions
// list their fields or variants.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	res := doc.result()
	if res == nil {
		return nil, nil
	}

	o := outliner{res: res}
	symbols := []protocol.DocumentSymbol{}
	for _, imp := range res.Document.Imports {
		r := o.rng(imp.Span)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           imp.Path,
			Detail:         strPtr("import"),
			Kind:           protocol.SymbolKindModule,
			Range:          r,
			SelectionRange: r,
		})
	}
	if root := res.Document.Root; root != nil && root.Kind == ast.Object {
		symbols = append(symbols, o.members(root)...)
	}
	return symbols, nil
}

type outliner struct {
	res *analysis.Result
}

func (o outliner) rng(span ast.Span) protocol.Range {
	return toProtocolRange(o.res.Index.Range(span.Start, span.End))
}

func (o outliner) members(obj *ast.Value) []protocol.DocumentSymbol {
	var syms []protocol.DocumentSymbol
	for _, m := range obj.Members {
		switch m.Kind {
		case ast.PairMember:
			sym := o.value(m.Key, m.Value, m.Span)
			sym.SelectionRange = o.rng(m.KeySpan)
			syms = append(syms, sym)
		case ast.TypeDefMember:
			syms = append(syms, o.typeDef(m))
		}
	}
	return syms
}

func (o outliner) value(name string, v *ast.Value, span ast.Span) protocol.DocumentSymbol {
	r := o.rng(span)
	sym := protocol.DocumentSymbol{
		Name:           name,
		Kind:           valueSymbolKind(v),
		Range:          r,
		SelectionRange: r,
	}
	detail := v.Preview()
	if v.Anchor != "" {
		detail = "&" + v.Anchor + " " + detail
	}
	sym.Detail = strPtr(detail)
	switch v.Kind {
	case ast.Object:
		sym.Children = o.members(v)
	case ast.Array:
		for i, item := range v.Items {
			if item.IsContainer() {
				sym.Children = append(sym.Children, o.value("["+strconv.Itoa(i)+"]", item, item.Span))
			}
		}
	}
	return sym
}

func (o outliner) typeDef(m *ast.Member) protocol.DocumentSymbol {
	td := m.TypeDef
	sym := protocol.DocumentSymbol{
		Name:           td.Name,
		Kind:           protocol.SymbolKindEnum,
		Range:          o.rng(m.Span),
		SelectionRange: o.rng(m.KeySpan),
	}
	if td.IsStruct() {
		sym.Kind = protocol.SymbolKindStruct
		sym.Detail = strPtr("#struct")
		for _, f := range td.Struct.Fields {
			r := o.rng(f.Span)
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           f.Name,
				Detail:         strPtr(f.Type.String()),
				Kind:           protocol.SymbolKindField,
				Range:          r,
				SelectionRange: o.rng(ast.Span{Start: f.Span.Start, End: f.Span.Start + len(f.Name)}),
			})
		}
		return sym
	}
	sym.Detail = strPtr("#enum")
	for _, v := range td.Enum.Variants {
		r := o.rng(v.Span)
		sym.Children = append(sym.Children, protocol.DocumentSymbol{
			Name:           v.Name,
			Kind:           protocol.SymbolKindEnumMember,
			Range:          r,
			SelectionRange: r,
		})
	}
	return sym
}

func valueSymbolKind(v *ast.Value) protocol.SymbolKind {
	switch v.Kind {
	case ast.Object:
		return protocol.SymbolKindObject
	case ast.Array, ast.ArraySpread:
		return protocol.SymbolKindArray
	case ast.String:
		return protocol.SymbolKindString
	case ast.Number:
		return protocol.SymbolKindNumber
	case ast.Boolean:
		return protocol.SymbolKindBoolean
	case ast.Null:
		return protocol.SymbolKindNull
	case ast.EnumValue:
		return protocol.SymbolKindEnumMember
	default:
		return protocol.SymbolKindVariable
	}
}
