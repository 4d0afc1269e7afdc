// Copyright © 2025 The MON authors

package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// publishedDiagnostics opens src and returns the diagnostics published
// for it.
func publishedDiagnostics(t *testing.T, s *Server, uri, src string) []protocol.Diagnostic {
	t.Helper()
	var n notifications
	didOpen(t, s, n.context(), uri, src)
	p := n.last()
	require.NotNil(t, p)
	return p.Diagnostics
}

func codeActions(t *testing.T, s *Server, uri string, diags ...protocol.Diagnostic) []protocol.CodeAction {
	t.Helper()
	result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Context:      protocol.CodeActionContext{Diagnostics: diags},
	})
	require.NoError(t, err)
	if result == nil {
		return nil
	}
	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok, "got %T", result)
	return actions
}

func findAction(t *testing.T, actions []protocol.CodeAction, title string) protocol.CodeAction {
	t.Helper()
	for _, a := range actions {
		if a.Title == title {
			return a
		}
	}
	var titles []string
	for _, a := range actions {
		titles = append(titles, a.Title)
	}
	require.Failf(t, "action not found", "%q not in %q", title, titles)
	return protocol.CodeAction{}
}

func singleEdit(t *testing.T, a protocol.CodeAction, uri string) protocol.TextEdit {
	t.Helper()
	require.NotNil(t, a.Edit)
	edits := a.Edit.Changes[uri]
	require.Len(t, edits, 1)
	return edits[0]
}

func TestCodeActionSuppressLint(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode string
		wantEdit protocol.TextEdit
	}{
		{
			name:     "new comment",
			src:      `{ a: 1, a: 2 }`,
			wantCode: "LINT2002",
			wantEdit: protocol.TextEdit{Range: rng(0, 14, 0, 14), NewText: " // nolint:LINT2002"},
		},
		{
			name:     "extend nolint list",
			src:      `{ a: 1, a: 2 } // nolint:LINT2004`,
			wantCode: "LINT2002",
			wantEdit: protocol.TextEdit{Range: rng(0, 33, 0, 33), NewText: ",LINT2002"},
		},
		{
			name:     "keep comment text",
			src:      `{ a: 1, a: 2 } // keep me`,
			wantCode: "LINT2002",
			wantEdit: protocol.TextEdit{Range: rng(0, 15, 0, 25), NewText: "// nolint:LINT2002 keep me"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			uri := "file:///test/suppress.mon"
			diags := publishedDiagnostics(t, s, uri, tt.src)
			require.Len(t, diags, 1)
			assert.Equal(t, tt.wantCode, diags[0].Code.Value)

			actions := codeActions(t, s, uri, diags...)
			a := findAction(t, actions, "Suppress with // nolint:"+tt.wantCode)
			assert.Equal(t, protocol.CodeActionKindQuickFix, *a.Kind)
			assert.Equal(t, diags, a.Diagnostics)
			assert.Equal(t, tt.wantEdit, singleEdit(t, a, uri))
		})
	}
}

func TestCodeActionRemoveUnusedAnchor(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want protocol.Range
	}{
		{"key anchor keeps the key", `{ &unused: { v: 1 }, x: 1 }`, rng(0, 2, 0, 3)},
		{"value anchor", `{ x: &unused { v: 1 }, y: 1 }`, rng(0, 5, 0, 13)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			uri := "file:///test/anchor.mon"
			diags := publishedDiagnostics(t, s, uri, tt.src)
			require.Len(t, diags, 1)

			a := findAction(t, codeActions(t, s, uri, diags...), "Remove unused anchor '&unused'")
			assert.True(t, *a.IsPreferred)
			e := singleEdit(t, a, uri)
			assert.Equal(t, tt.want, e.Range)
			assert.Empty(t, e.NewText)
		})
	}
}

func TestCodeActionRemoveUnusedImport(t *testing.T) {
	s := New()
	uri := "file:///test/imports.mon"
	src := `import { &a, &b } from "./lib.mon"
import * as ns from "./ns.mon"
import { &c } from "./c.mon"
{ x: *a }`
	diags := publishedDiagnostics(t, s, uri, src)
	require.Len(t, diags, 3)

	b := findAction(t, codeActions(t, s, uri, diags[0]), "Remove unused import 'b'")
	assert.Equal(t, rng(0, 11, 0, 15), singleEdit(t, b, uri).Range)

	ns := findAction(t, codeActions(t, s, uri, diags[1]), "Remove unused import")
	assert.Equal(t, rng(1, 0, 2, 0), singleEdit(t, ns, uri).Range)

	c := findAction(t, codeActions(t, s, uri, diags[2]), "Remove unused import")
	assert.Equal(t, rng(2, 0, 3, 0), singleEdit(t, c, uri).Range)
}

func TestCodeActionFiltering(t *testing.T) {
	s := New()
	uri := "file:///test/filter.mon"
	diags := publishedDiagnostics(t, s, uri, `{ a: 1, a: 2 }`)
	require.Len(t, diags, 1)

	t.Run("unsupported kind", func(t *testing.T) {
		result, err := s.textDocumentCodeAction(mockContext(), &protocol.CodeActionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Context: protocol.CodeActionContext{
				Diagnostics: diags,
				Only:        []protocol.CodeActionKind{protocol.CodeActionKindRefactor},
			},
		})
		require.NoError(t, err)
		assert.Nil(t, result)
	})
	t.Run("foreign source", func(t *testing.T) {
		other := diags[0]
		other.Source = strPtr("other-tool")
		assert.Nil(t, codeActions(t, s, uri, other))
	})
	t.Run("unknown code", func(t *testing.T) {
		other := diags[0]
		other.Code = &protocol.IntegerOrString{Value: "LINT9999"}
		assert.Nil(t, codeActions(t, s, uri, other))
	})
	t.Run("unknown document", func(t *testing.T) {
		assert.Nil(t, codeActions(t, s, "file:///test/none.mon", diags...))
	})
}
