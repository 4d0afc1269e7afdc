// Copyright © 2025 The MON authors

package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func writeWorkspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func workspaceSymbols(t *testing.T, s *Server, query string) []protocol.SymbolInformation {
	t.Helper()
	result, err := s.workspaceSymbol(mockContext(), &protocol.WorkspaceSymbolParams{Query: query})
	require.NoError(t, err)
	return result
}

func symbolNames(syms []protocol.SymbolInformation) []string {
	var names []string
	for _, sym := range syms {
		names = append(names, sym.Name)
	}
	return names
}

func TestWorkspaceSymbol(t *testing.T) {
	dir := writeWorkspace(t, map[string]string{
		"config.mon":          `{ &defaults: { retries: 3 }, Service: #struct { name(String) } }`,
		"handlers.mon":        `{ &handler: { path: "/" } }`,
		"broken.mon":          `{ &lost: `,
		".hidden/secret.mon":  `{ &secret: 1 }`,
		"node_modules/x.mon":  `{ &vendored: 1 }`,
		"nested/deep/abc.mon": `{ &deep: 1 }`,
	})
	s := New(WithRoot(dir))

	t.Run("empty query returns all symbols", func(t *testing.T) {
		assert.Equal(t, []string{"defaults", "Service", "handler", "deep"}, symbolNames(workspaceSymbols(t, s, "")))
	})

	t.Run("query is case-insensitive", func(t *testing.T) {
		syms := workspaceSymbols(t, s, "SERV")
		require.Len(t, syms, 1)
		sym := syms[0]
		assert.Equal(t, "Service", sym.Name)
		assert.Equal(t, protocol.SymbolKindStruct, sym.Kind)
		assert.Equal(t, pathToURI(filepath.Join(dir, "config.mon")), sym.Location.URI)
		assert.Equal(t, rng(0, 29, 0, 36), sym.Location.Range)
		assert.Equal(t, "config.mon", *sym.ContainerName)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, workspaceSymbols(t, s, "zzz"))
	})

	t.Run("saved file is reindexed", func(t *testing.T) {
		path := filepath.Join(dir, "config.mon")
		s.updateIndexedFile(path, `{ &fresh: 1 }`)
		assert.Equal(t, []string{"fresh"}, symbolNames(workspaceSymbols(t, s, "fresh")))
		assert.Empty(t, workspaceSymbols(t, s, "defaults"))

		// A file which no longer parses keeps its last symbols.
		s.updateIndexedFile(path, `{ &fresh: `)
		assert.Equal(t, []string{"fresh"}, symbolNames(workspaceSymbols(t, s, "fresh")))
	})
}

func TestWorkspaceSymbolOpenDocuments(t *testing.T) {
	dir := writeWorkspace(t, map[string]string{
		"a.mon": `{ &alpha: { v: 1 } }`,
		"b.mon": `{ &beta: { v: 1 } }`,
	})
	s := New(WithRoot(dir))
	openDoc(s, pathToURI(filepath.Join(dir, "b.mon")), `{ &beta2: { v: 1 }, x: *beta2 }`)

	syms := workspaceSymbols(t, s, "")
	assert.Equal(t, []string{"beta2", "alpha"}, symbolNames(syms))
	assert.Equal(t, pathToURI(filepath.Join(dir, "b.mon")), syms[0].Location.URI)
	assert.Equal(t, protocol.SymbolKindVariable, syms[0].Kind)
}

func TestWorkspaceSymbolWithoutRoot(t *testing.T) {
	s := New()
	openDoc(s, testURI, testSource)
	assert.Equal(t, []string{"base", "Status", "User"}, symbolNames(workspaceSymbols(t, s, "")))
}

func TestDidSaveUpdatesIndex(t *testing.T) {
	dir := writeWorkspace(t, map[string]string{"a.mon": `{ &alpha: 1 }`})
	s := New(WithRoot(dir))
	uri := pathToURI(filepath.Join(dir, "a.mon"))
	assert.Equal(t, []string{"alpha"}, symbolNames(workspaceSymbols(t, s, "")))

	var n notifications
	ctx := n.context()
	didOpen(t, s, ctx, uri, `{ &omega: 1 }`)
	require.NoError(t, s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.NoError(t, s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))

	assert.Equal(t, []string{"omega"}, symbolNames(workspaceSymbols(t, s, "")))
}
