// Copyright © 2025 The MON authors

package lsp

import (
	"os"
	"strings"

	"github.com/mon-lang/mon/analysis"
	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/bundle"
	"github.com/mon-lang/mon/position"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDefinition handles the textDocument/definition request.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	s.ensureAnalysis(doc)
	res := doc.result()
	if res == nil {
		return nil, nil
	}
	uri := params.TextDocument.URI
	pos := fromProtocolPosition(params.Position)

	sym, ref := symbolAtPosition(res, pos)
	if ref != nil {
		if sym != nil && sym.Kind != analysis.SymImport {
			return protocol.Location{URI: uri, Range: toProtocolRange(sym.Range)}, nil
		}
		// Names brought in by imports are defined in the imported file.
		if loc := s.importedDefinition(uri, res, ref.Name, ref.Kind); loc != nil {
			return *loc, nil
		}
		return nil, nil
	}
	if sym == nil {
		return nil, nil
	}
	if sym.Kind == analysis.SymImport {
		return s.importStatementDefinition(uri, res, pos, sym.Name), nil
	}
	return protocol.Location{URI: uri, Range: toProtocolRange(sym.Range)}, nil
}

// importBinding finds the import that brings name into scope.  It returns
// the statement and the name as declared in the imported file.
func importBinding(doc *ast.Document, name string) (*ast.ImportStatement, string) {
	for _, imp := range doc.Imports {
		if imp.IsNamespace() {
			if rest, ok := strings.CutPrefix(name, imp.Namespace+"."); ok {
				return imp, rest
			}
			continue
		}
		for _, n := range imp.Names {
			if n.Name == name {
				return imp, n.Name
			}
		}
	}
	return nil, ""
}

// importedDefinition locates the definition of an imported anchor or type.
func (s *Server) importedDefinition(uri string, res *analysis.Result, name string, kind analysis.SymbolKind) *protocol.Location {
	imp, remote := importBinding(res.Document, name)
	if imp == nil {
		return nil
	}
	path := bundle.Resolve(uriToPath(uri), imp.Path)
	source, ok := s.readSource(path)
	if !ok {
		return nil
	}
	for _, ext := range analysis.ScanFile(source, path) {
		if ext.Name == remote && ext.Kind == kind {
			return &protocol.Location{URI: pathToURI(path), Range: toProtocolRange(ext.Range)}
		}
	}
	return nil
}

// importStatementDefinition resolves a position inside an import
// statement.  A cursor on an imported name goes to that name's definition;
// anywhere else goes to the start of the imported file.
func (s *Server) importStatementDefinition(uri string, res *analysis.Result, pos position.Position, importPath string) any {
	for _, imp := range res.Document.Imports {
		if imp.Path != importPath {
			continue
		}
		for _, n := range imp.Names {
			if !res.Index.Range(n.Span.Start, n.Span.End).Contains(pos) {
				continue
			}
			kind := analysis.SymType
			if n.IsAnchor {
				kind = analysis.SymAnchor
			}
			if loc := s.importedDefinition(uri, res, n.Name, kind); loc != nil {
				return *loc
			}
			return nil
		}
	}
	path := bundle.Resolve(uriToPath(uri), importPath)
	if _, ok := s.readSource(path); !ok {
		return nil
	}
	return protocol.Location{URI: pathToURI(path)}
}

// readSource returns the content of path, preferring an open document over
// the file on disk.
func (s *Server) readSource(path string) (string, bool) {
	if doc := s.docs.Get(pathToURI(path)); doc != nil {
		content, _, _ := doc.snapshot()
		return content, true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debugf("read %s: %v", path, err)
		return "", false
	}
	return string(data), true
}
