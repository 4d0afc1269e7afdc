// Copyright © 2025 The MON authors

package analysis

import "github.com/mon-lang/mon/position"

// SymbolTable maps symbol definitions, keyed by name and kind, to their
// references.  Definitions keep the order they were first added in and
// references keep discovery order.  A SymbolTable is not safe for concurrent
// mutation.
type SymbolTable struct {
	symbols map[SymbolKey]*Symbol
	order   []SymbolKey
	refs    map[SymbolKey][]SymbolReference
	all     []SymbolReference
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: make(map[SymbolKey]*Symbol),
		refs:    make(map[SymbolKey][]SymbolReference),
	}
}

// AddSymbol defines sym.  A previous definition with the same name and kind
// is replaced; the table does not report redefinitions.
func (t *SymbolTable) AddSymbol(sym *Symbol) {
	key := sym.Key()
	if _, ok := t.symbols[key]; !ok {
		t.order = append(t.order, key)
	}
	t.symbols[key] = sym
}

// AddReference records a use.  The referenced symbol need not be defined.
func (t *SymbolTable) AddReference(ref SymbolReference) {
	key := SymbolKey{Name: ref.Name, Kind: ref.Kind}
	t.refs[key] = append(t.refs[key], ref)
	t.all = append(t.all, ref)
}

// FindSymbol returns the definition of name with the given kind.
func (t *SymbolTable) FindSymbol(name string, kind SymbolKind) (*Symbol, bool) {
	sym, ok := t.symbols[SymbolKey{Name: name, Kind: kind}]
	return sym, ok
}

// FindReferences returns the uses of name with the given kind.
func (t *SymbolTable) FindReferences(name string, kind SymbolKind) []SymbolReference {
	return t.refs[SymbolKey{Name: name, Kind: kind}]
}

// Symbols returns every definition in the order first added.
func (t *SymbolTable) Symbols() []*Symbol {
	syms := make([]*Symbol, 0, len(t.order))
	for _, key := range t.order {
		syms = append(syms, t.symbols[key])
	}
	return syms
}

// References returns every reference in discovery order.
func (t *SymbolTable) References() []SymbolReference {
	return t.all
}

// SymbolsByKind returns the definitions of the given kind.
func (t *SymbolTable) SymbolsByKind(kind SymbolKind) []*Symbol {
	var syms []*Symbol
	for _, key := range t.order {
		if key.Kind == kind {
			syms = append(syms, t.symbols[key])
		}
	}
	return syms
}

// IsUnused reports whether name is defined with the given kind and has no
// references.
func (t *SymbolTable) IsUnused(name string, kind SymbolKind) bool {
	key := SymbolKey{Name: name, Kind: kind}
	if _, ok := t.symbols[key]; !ok {
		return false
	}
	return len(t.refs[key]) == 0
}

// FindUnusedSymbols returns the definitions of the given kind which have
// no references.
func (t *SymbolTable) FindUnusedSymbols(kind SymbolKind) []*Symbol {
	var unused []*Symbol
	for _, sym := range t.SymbolsByKind(kind) {
		if t.IsUnused(sym.Name, sym.Kind) {
			unused = append(unused, sym)
		}
	}
	return unused
}

// SymbolAt returns the innermost definition whose range contains pos.
func (t *SymbolTable) SymbolAt(pos position.Position) (*Symbol, bool) {
	var best *Symbol
	for _, key := range t.order {
		sym := t.symbols[key]
		if !sym.Range.Contains(pos) {
			continue
		}
		if best == nil || best.Range.Start.Before(sym.Range.Start) {
			best = sym
		}
	}
	return best, best != nil
}

// ReferenceAt returns the reference whose range contains pos.
func (t *SymbolTable) ReferenceAt(pos position.Position) (SymbolReference, bool) {
	for _, ref := range t.all {
		if ref.Range.Contains(pos) {
			return ref, true
		}
	}
	return SymbolReference{}, false
}

// SymbolCount returns the number of definitions.
func (t *SymbolTable) SymbolCount() int {
	return len(t.symbols)
}

// ReferenceCount returns the number of references.
func (t *SymbolTable) ReferenceCount() int {
	return len(t.all)
}
