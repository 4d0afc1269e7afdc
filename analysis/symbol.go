// Copyright © 2025 The MON authors

package analysis

import (
	"fmt"

	"github.com/mon-lang/mon/position"
)

// SymbolKind classifies a symbol definition.
type SymbolKind int

const (
	SymAnchor      SymbolKind = iota // &name on a value
	SymType                          // #struct or #enum definition
	SymImport                        // import statement, named by its path
	SymField                         // struct field
	SymEnumVariant                   // enum variant
)

func (k SymbolKind) String() string {
	switch k {
	case SymAnchor:
		return "anchor"
	case SymType:
		return "type"
	case SymImport:
		return "import"
	case SymField:
		return "field"
	case SymEnumVariant:
		return "enum-variant"
	default:
		return "unknown"
	}
}

// ReferenceKind classifies how a symbol is used.
type ReferenceKind int

const (
	RefAlias          ReferenceKind = iota // *name
	RefSpread                              // ...*name in an object or array
	RefTypeAnnotation                      // :: Type, field types and $Enum.Variant
	RefImport                              // a name brought in by an import
)

func (k ReferenceKind) String() string {
	switch k {
	case RefAlias:
		return "alias"
	case RefSpread:
		return "spread"
	case RefTypeAnnotation:
		return "type-annotation"
	case RefImport:
		return "import"
	default:
		return "unknown"
	}
}

// Symbol is a named definition in a document.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Range position.Range
	// Detail is a one line description, e.g. a preview of an anchored value.
	Detail string
	// Documentation is longer free form text.
	Documentation string
}

// Key returns the identity of the symbol in a SymbolTable.
func (s *Symbol) Key() SymbolKey {
	return SymbolKey{Name: s.Name, Kind: s.Kind}
}

// SymbolReference records one use of a symbol.
type SymbolReference struct {
	Name    string
	Kind    SymbolKind
	Range   position.Range
	RefKind ReferenceKind
}

// SymbolKey identifies a symbol by name and kind.
type SymbolKey struct {
	Name string
	Kind SymbolKind
}

// String returns a lookup key for use in maps.
func (k SymbolKey) String() string {
	return fmt.Sprintf("%s/%s", k.Name, k.Kind)
}
