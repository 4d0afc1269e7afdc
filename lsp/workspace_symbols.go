// Copyright © 2025 The MON authors

package lsp

import (
	"path/filepath"
	"strings"

	"github.com/mon-lang/mon/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// workspaceSymbol handles the workspace/symbol request.
// It returns the anchors and types across the workspace that match the
// query string. An empty query returns all symbols.  Open documents take
// precedence over the indexed content of the same file.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	var results []protocol.SymbolInformation

	open := make(map[string]bool)
	for _, doc := range s.docs.All() {
		s.ensureAnalysis(doc)
		res := doc.result()
		if res == nil {
			continue
		}
		open[uriToPath(doc.URI)] = true
		for _, sym := range res.Symbols.Symbols() {
			if sym.Kind != analysis.SymAnchor && sym.Kind != analysis.SymType {
				continue
			}
			if !matchesQuery(sym.Name, query) {
				continue
			}
			results = append(results, protocol.SymbolInformation{
				Name:          sym.Name,
				Kind:          mapSymbolKind(sym.Kind),
				Location:      protocol.Location{URI: doc.URI, Range: toProtocolRange(sym.Range)},
				ContainerName: strPtr(filepath.Base(uriToPath(doc.URI))),
			})
		}
	}

	for _, sym := range s.indexedSymbols() {
		if open[sym.File] || !matchesQuery(sym.Name, query) {
			continue
		}
		results = append(results, externalSymbolToInfo(sym))
	}
	return results, nil
}

// externalSymbolToInfo converts an analysis.ExternalSymbol to a
// protocol.SymbolInformation.
func externalSymbolToInfo(sym analysis.ExternalSymbol) protocol.SymbolInformation {
	return protocol.SymbolInformation{
		Name:          sym.Name,
		Kind:          mapSymbolKind(sym.Kind),
		Location:      protocol.Location{URI: pathToURI(sym.File), Range: toProtocolRange(sym.Range)},
		ContainerName: strPtr(filepath.Base(sym.File)),
	}
}

// matchesQuery performs case-insensitive substring matching. An empty query
// matches everything (per LSP spec: empty string requests all symbols).
func matchesQuery(name, lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), lowerQuery)
}
