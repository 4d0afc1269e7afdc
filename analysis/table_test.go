// Copyright © 2025 The MON authors

package analysis

import (
	"testing"

	"github.com/mon-lang/mon/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(l1, c1, l2, c2 uint32) position.Range {
	return position.Range{
		Start: position.Position{Line: l1, Character: c1},
		End:   position.Position{Line: l2, Character: c2},
	}
}

func TestSymbolTable_ReplaceKeepsOrder(t *testing.T) {
	st := NewSymbolTable()
	st.AddSymbol(&Symbol{Name: "a", Kind: SymAnchor, Detail: "first"})
	st.AddSymbol(&Symbol{Name: "b", Kind: SymAnchor})
	st.AddSymbol(&Symbol{Name: "a", Kind: SymType})
	st.AddSymbol(&Symbol{Name: "a", Kind: SymAnchor, Detail: "second"})

	require.Equal(t, 3, st.SymbolCount())
	syms := st.Symbols()
	assert.Equal(t, "a", syms[0].Name)
	assert.Equal(t, "second", syms[0].Detail)
	assert.Equal(t, SymType, syms[2].Kind)

	sym, ok := st.FindSymbol("a", SymAnchor)
	require.True(t, ok)
	assert.Equal(t, "second", sym.Detail)
	_, ok = st.FindSymbol("b", SymType)
	assert.False(t, ok)

	anchors := st.SymbolsByKind(SymAnchor)
	require.Len(t, anchors, 2)
	assert.Equal(t, "b", anchors[1].Name)
}

func TestSymbolTable_Unused(t *testing.T) {
	st := NewSymbolTable()
	st.AddSymbol(&Symbol{Name: "used", Kind: SymAnchor})
	st.AddSymbol(&Symbol{Name: "unused", Kind: SymAnchor})
	st.AddSymbol(&Symbol{Name: "used", Kind: SymType})
	st.AddReference(SymbolReference{Name: "used", Kind: SymAnchor, RefKind: RefAlias})
	st.AddReference(SymbolReference{Name: "used", Kind: SymAnchor, RefKind: RefSpread})
	st.AddReference(SymbolReference{Name: "missing", Kind: SymAnchor, RefKind: RefAlias})

	assert.False(t, st.IsUnused("used", SymAnchor))
	assert.True(t, st.IsUnused("unused", SymAnchor))
	assert.True(t, st.IsUnused("used", SymType), "references are per kind")
	assert.False(t, st.IsUnused("missing", SymAnchor), "undefined symbols are not unused")

	unused := st.FindUnusedSymbols(SymAnchor)
	require.Len(t, unused, 1)
	assert.Equal(t, "unused", unused[0].Name)

	refs := st.FindReferences("used", SymAnchor)
	require.Len(t, refs, 2)
	assert.Equal(t, RefAlias, refs[0].RefKind)
	assert.Equal(t, RefSpread, refs[1].RefKind)
	assert.Equal(t, 3, st.ReferenceCount())
	assert.Len(t, st.References(), 3)
}

func TestSymbolTable_At(t *testing.T) {
	st := NewSymbolTable()
	st.AddSymbol(&Symbol{Name: "outer", Kind: SymType, Range: rng(1, 0, 5, 0)})
	st.AddSymbol(&Symbol{Name: "outer.inner", Kind: SymField, Range: rng(2, 4, 2, 9)})
	st.AddReference(SymbolReference{Name: "x", Kind: SymAnchor, Range: rng(7, 2, 7, 4)})

	sym, ok := st.SymbolAt(position.Position{Line: 2, Character: 5})
	require.True(t, ok)
	assert.Equal(t, "outer.inner", sym.Name)
	sym, ok = st.SymbolAt(position.Position{Line: 3, Character: 0})
	require.True(t, ok)
	assert.Equal(t, "outer", sym.Name)
	_, ok = st.SymbolAt(position.Position{Line: 6, Character: 0})
	assert.False(t, ok)

	ref, ok := st.ReferenceAt(position.Position{Line: 7, Character: 3})
	require.True(t, ok)
	assert.Equal(t, "x", ref.Name)
	_, ok = st.ReferenceAt(position.Position{Line: 7, Character: 4})
	assert.False(t, ok)
}

func TestSymbolTable_Counts(t *testing.T) {
	st := NewSymbolTable()
	assert.Equal(t, 0, st.SymbolCount())
	st.AddSymbol(&Symbol{Name: "a", Kind: SymAnchor})
	st.AddSymbol(&Symbol{Name: "a", Kind: SymAnchor})
	st.AddReference(SymbolReference{Name: "a", Kind: SymAnchor})
	st.AddReference(SymbolReference{Name: "b", Kind: SymAnchor})
	assert.Equal(t, 1, st.SymbolCount())
	assert.Equal(t, 2, st.ReferenceCount())
}

func TestKindStrings(t *testing.T) {
	assert.Equal(t, "enum-variant", SymEnumVariant.String())
	assert.Equal(t, "type-annotation", RefTypeAnnotation.String())
	assert.Equal(t, "a/anchor", SymbolKey{Name: "a", Kind: SymAnchor}.String())
}
