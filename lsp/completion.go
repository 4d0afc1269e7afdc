// Copyright © 2025 The MON authors

package lsp

import (
	"sort"
	"strings"

	"github.com/mon-lang/mon/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// builtinTypes are the type names accepted in annotations without a
// definition.
var builtinTypes = []string{"String", "Number", "Boolean", "Null", "Object", "Array", "Any"}

func isBuiltinType(name string) bool {
	for _, t := range builtinTypes {
		if t == name {
			return true
		}
	}
	return false
}

// textDocumentCompletion handles the textDocument/completion request.
//
// The text before the cursor selects the candidates:
//
//	*na     anchors, imported names and namespaces
//	$St     enum types
//	$St.A   variants of the enum
//	:: T    types, including the builtin ones
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	content, _, _ := doc.snapshot()
	res := doc.lastGoodResult()
	if res == nil {
		return nil, nil
	}

	word, before := wordBefore(content, params.Position)
	trimmed := strings.TrimRight(before, " \t")

	var items []protocol.CompletionItem
	switch {
	case strings.HasSuffix(before, "*"):
		items = anchorCompletions(res, word)
	case strings.HasSuffix(before, "$"):
		if enum, prefix, ok := strings.Cut(word, "."); ok {
			items = variantCompletions(res, enum, prefix)
		} else {
			items = typeCompletions(res, word, true)
		}
	case strings.HasSuffix(trimmed, "::"):
		items = typeCompletions(res, word, false)
	default:
		return nil, nil
	}
	if len(items) == 0 {
		return nil, nil
	}
	return protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

func anchorCompletions(res *analysis.Result, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	seen := make(map[string]bool)
	add := func(label string, kind protocol.CompletionItemKind, detail string) {
		if seen[label] || !strings.HasPrefix(label, prefix) {
			return
		}
		seen[label] = true
		k := kind
		items = append(items, protocol.CompletionItem{
			Label:  label,
			Kind:   &k,
			Detail: strPtr(detail),
		})
	}
	for _, sym := range res.Symbols.SymbolsByKind(analysis.SymAnchor) {
		add(sym.Name, mapCompletionItemKind(sym.Kind), sym.Detail)
	}
	for _, imp := range res.Document.Imports {
		if imp.IsNamespace() {
			add(imp.Namespace, protocol.CompletionItemKindModule, "import * from "+imp.Path)
			continue
		}
		for _, n := range imp.Names {
			if n.IsAnchor {
				add(n.Name, protocol.CompletionItemKindReference, "imported from "+imp.Path)
			}
		}
	}
	sortItems(items)
	return items
}

func typeCompletions(res *analysis.Result, prefix string, enumsOnly bool) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, sym := range res.Symbols.SymbolsByKind(analysis.SymType) {
		if !strings.HasPrefix(sym.Name, prefix) {
			continue
		}
		if enumsOnly && !strings.HasPrefix(sym.Detail, "#enum") {
			continue
		}
		kind := protocol.CompletionItemKindStruct
		if strings.HasPrefix(sym.Detail, "#enum") {
			kind = protocol.CompletionItemKindEnum
		}
		items = append(items, protocol.CompletionItem{
			Label:  sym.Name,
			Kind:   &kind,
			Detail: strPtr(sym.Detail),
		})
	}
	for _, imp := range res.Document.Imports {
		for _, n := range imp.Names {
			if n.IsAnchor || !strings.HasPrefix(n.Name, prefix) {
				continue
			}
			kind := protocol.CompletionItemKindClass
			items = append(items, protocol.CompletionItem{
				Label:  n.Name,
				Kind:   &kind,
				Detail: strPtr("imported from " + imp.Path),
			})
		}
	}
	if !enumsOnly {
		for _, name := range builtinTypes {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			kind := protocol.CompletionItemKindKeyword
			items = append(items, protocol.CompletionItem{
				Label:  name,
				Kind:   &kind,
				Detail: strPtr("builtin type"),
			})
		}
	}
	sortItems(items)
	return items
}

func variantCompletions(res *analysis.Result, enum, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	for _, sym := range res.Symbols.SymbolsByKind(analysis.SymEnumVariant) {
		variant, ok := strings.CutPrefix(sym.Name, enum+".")
		if !ok || !strings.HasPrefix(variant, prefix) {
			continue
		}
		kind := protocol.CompletionItemKindEnumMember
		items = append(items, protocol.CompletionItem{
			Label:  variant,
			Kind:   &kind,
			Detail: strPtr(sym.Detail),
		})
	}
	return items
}

func sortItems(items []protocol.CompletionItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
}
