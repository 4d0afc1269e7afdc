// Copyright © 2025 The MON authors

package analysis

import (
	"strings"

	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/position"
)

// BuildSymbolTable collects the definitions and uses of names in doc.
//
// Imports are defined under their path.  Anchors, type definitions, struct
// fields and enum variants become symbols; fields and variants are
// qualified by their type ("User.name", "Status.Active").  Aliases and
// spreads reference anchors, type names in annotations, field types and
// enum values reference types, and references through an import also
// reference that import.
func BuildSymbolTable(doc *ast.Document, index *position.Index) *SymbolTable {
	t := NewSymbolTable()
	b := &builder{table: t, index: index, imported: make(map[string]string)}
	for _, imp := range doc.Imports {
		b.addImport(imp)
	}
	if doc.Root == nil {
		return t
	}
	for _, v := range ast.Anchors(doc.Root) {
		span := v.AnchorSpan
		if span.Len() == 0 {
			span = v.Span
		}
		t.AddSymbol(&Symbol{
			Name:   v.Anchor,
			Kind:   SymAnchor,
			Range:  b.rng(span),
			Detail: v.Preview(),
		})
	}
	ast.WalkObjects(doc.Root, func(obj *ast.Value, _ int) {
		for _, m := range obj.Members {
			if m.Kind == ast.TypeDefMember {
				b.addTypeDef(m)
			}
		}
	})
	for _, ref := range ast.References(doc.Root) {
		kind := RefAlias
		if ref.Spread {
			kind = RefSpread
		}
		r := b.rng(ref.Span)
		t.AddReference(SymbolReference{Name: ref.Name, Kind: SymAnchor, Range: r, RefKind: kind})
		b.addImportUse(ref.Name, r)
	}
	for _, use := range ast.TypeUses(doc.Root) {
		b.addTypeUse(use)
	}
	return t
}

type builder struct {
	table *SymbolTable
	index *position.Index
	// imported maps names brought in by imports (and namespaces) to the
	// import path.
	imported map[string]string
}

func (b *builder) rng(span ast.Span) position.Range {
	return b.index.Range(span.Start, span.End)
}

func (b *builder) addImport(imp *ast.ImportStatement) {
	b.table.AddSymbol(&Symbol{
		Name:   imp.Path,
		Kind:   SymImport,
		Range:  b.rng(imp.Span),
		Detail: "import from " + imp.Path,
	})
	if imp.IsNamespace() {
		b.imported[imp.Namespace] = imp.Path
		return
	}
	for _, name := range imp.Names {
		b.imported[name.Name] = imp.Path
	}
}

// addImportUse records a use of an import when name was imported by name
// or through a namespace prefix.
func (b *builder) addImportUse(name string, r position.Range) {
	if len(b.imported) == 0 {
		return
	}
	path, ok := b.imported[name]
	if !ok {
		if i := strings.IndexByte(name, '.'); i > 0 {
			path, ok = b.imported[name[:i]]
		}
	}
	if ok {
		b.table.AddReference(SymbolReference{Name: path, Kind: SymImport, Range: r, RefKind: RefImport})
	}
}

func (b *builder) addTypeDef(m *ast.Member) {
	td := m.TypeDef
	names := []string{}
	if td.IsStruct() {
		for _, f := range td.Struct.Fields {
			names = append(names, f.Name)
		}
	} else {
		for _, v := range td.Enum.Variants {
			names = append(names, v.Name)
		}
	}
	detail := "#enum { " + strings.Join(names, ", ") + " }"
	if td.IsStruct() {
		detail = "#struct { " + strings.Join(names, ", ") + " }"
	}
	b.table.AddSymbol(&Symbol{
		Name:   td.Name,
		Kind:   SymType,
		Range:  b.rng(m.KeySpan),
		Detail: detail,
	})

	if !td.IsStruct() {
		for _, v := range td.Enum.Variants {
			b.table.AddSymbol(&Symbol{
				Name:   td.Name + "." + v.Name,
				Kind:   SymEnumVariant,
				Range:  b.rng(v.Span),
				Detail: "$" + td.Name + "." + v.Name,
			})
		}
		return
	}
	for _, f := range td.Struct.Fields {
		detail := f.Name + "(" + f.Type.String() + ")"
		if f.Default != nil {
			detail += " = " + f.Default.Preview()
		}
		b.table.AddSymbol(&Symbol{
			Name:   td.Name + "." + f.Name,
			Kind:   SymField,
			Range:  b.rng(ast.Span{Start: f.Span.Start, End: f.Span.Start + len(f.Name)}),
			Detail: detail,
		})
	}
}

func (b *builder) addTypeUse(use ast.TypeUse) {
	if use.Variant == "" {
		r := b.rng(use.Span)
		b.table.AddReference(SymbolReference{Name: use.Name, Kind: SymType, Range: r, RefKind: RefTypeAnnotation})
		b.addImportUse(use.Name, r)
		return
	}
	// $Enum.Variant: the enum name follows the '$' and the variant ends
	// the value.
	enumSpan := ast.Span{Start: use.Span.Start + 1, End: use.Span.Start + 1 + len(use.Name)}
	variantSpan := ast.Span{Start: use.Span.End - len(use.Variant), End: use.Span.End}
	r := b.rng(enumSpan)
	b.table.AddReference(SymbolReference{Name: use.Name, Kind: SymType, Range: r, RefKind: RefTypeAnnotation})
	b.table.AddReference(SymbolReference{
		Name:    use.Name + "." + use.Variant,
		Kind:    SymEnumVariant,
		Range:   b.rng(variantSpan),
		RefKind: RefTypeAnnotation,
	})
	b.addImportUse(use.Name, r)
}
