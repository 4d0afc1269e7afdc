// Copyright © 2025 The MON authors

package ast

// Walk calls fn for every value in the tree rooted at root, depth-first and
// in source order.  Children are the values of pair members and the items of
// arrays; struct field defaults are not visited.  parent is nil for the root
// and depth is 0 at the root.
func Walk(root *Value, fn func(node *Value, parent *Value, depth int)) {
	walkNode(root, nil, 0, fn)
}

func walkNode(node *Value, parent *Value, depth int, fn func(*Value, *Value, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	switch node.Kind {
	case Object:
		for _, m := range node.Members {
			if m.Kind == PairMember {
				walkNode(m.Value, node, depth+1, fn)
			}
		}
	case Array:
		for _, item := range node.Items {
			walkNode(item, node, depth+1, fn)
		}
	}
}

// WalkObjects calls fn for every object value in the tree.
func WalkObjects(root *Value, fn func(obj *Value, depth int)) {
	Walk(root, func(node *Value, _ *Value, depth int) {
		if node.Kind == Object {
			fn(node, depth)
		}
	})
}

// Reference is a by-name use of an anchor found in the value tree.
type Reference struct {
	Name string
	// Spread is set for ...*name in objects and arrays.
	Spread bool
	Span   Span
}

// References returns every Alias, ArraySpread and Spread member in the tree,
// including those in struct field defaults, in source order.
func References(root *Value) []Reference {
	var refs []Reference
	walkWithDefaults(root, func(node *Value) {
		switch node.Kind {
		case Alias:
			refs = append(refs, Reference{Name: node.Str, Span: node.Span})
		case ArraySpread:
			refs = append(refs, Reference{Name: node.Str, Spread: true, Span: node.Span})
		case Object:
			for _, m := range node.Members {
				if m.Kind == SpreadMember {
					refs = append(refs, Reference{Name: m.Spread, Spread: true, Span: m.Span})
				}
			}
		}
	})
	return refs
}

// walkWithDefaults calls fn for every value in the tree and for every value
// inside the struct field defaults declared in its objects.
func walkWithDefaults(root *Value, fn func(node *Value)) {
	var visit func(node *Value, _ *Value, _ int)
	visit = func(node *Value, _ *Value, _ int) {
		fn(node)
		if node.Kind != Object {
			return
		}
		for _, m := range node.Members {
			if m.Kind != TypeDefMember || !m.TypeDef.IsStruct() {
				continue
			}
			for _, f := range m.TypeDef.Struct.Fields {
				if f.Default != nil {
					walkNode(f.Default, nil, 0, visit)
				}
			}
		}
	}
	Walk(root, visit)
}

// Anchors returns the values declaring an anchor, in pre-order.
func Anchors(root *Value) []*Value {
	var anchors []*Value
	Walk(root, func(node *Value, _ *Value, _ int) {
		if node.Anchor != "" {
			anchors = append(anchors, node)
		}
	})
	return anchors
}

// TypeDefinitions returns every type definition declared in objects of the
// tree, in source order.
func TypeDefinitions(root *Value) []*TypeDefinition {
	var defs []*TypeDefinition
	WalkObjects(root, func(obj *Value, _ int) {
		for _, m := range obj.Members {
			if m.Kind == TypeDefMember {
				defs = append(defs, m.TypeDef)
			}
		}
	})
	return defs
}

// TypeUse is a use of a type name: a simple type in a "::" validation or a
// struct field type, or the enum of an enum value ($Enum.Variant).
type TypeUse struct {
	Name string
	// Variant is set for enum values.
	Variant string
	Span    Span
}

// TypeUses returns every type name used in the tree, including those in
// struct field types and defaults.
func TypeUses(root *Value) []TypeUse {
	var uses []TypeUse
	var visit func(node *Value, _ *Value, _ int)
	visit = func(node *Value, _ *Value, _ int) {
		switch node.Kind {
		case EnumValue:
			// The span of $Enum.Variant without any anchor prefix.
			start := node.Span.End - len(node.Enum) - len(node.Variant) - 2
			if start < node.Span.Start {
				start = node.Span.Start
			}
			uses = append(uses, TypeUse{Name: node.Enum, Variant: node.Variant, Span: Span{Start: start, End: node.Span.End}})
		case Object:
			for _, m := range node.Members {
				switch m.Kind {
				case PairMember:
					uses = appendSpecUses(uses, m.Validation)
				case TypeDefMember:
					if !m.TypeDef.IsStruct() {
						continue
					}
					for _, f := range m.TypeDef.Struct.Fields {
						uses = appendSpecUses(uses, f.Type)
						if f.Default != nil {
							walkNode(f.Default, nil, 0, visit)
						}
					}
				}
			}
		}
	}
	Walk(root, visit)
	return uses
}

func appendSpecUses(uses []TypeUse, spec *TypeSpec) []TypeUse {
	if spec == nil {
		return uses
	}
	switch spec.Kind {
	case SimpleType:
		return append(uses, TypeUse{Name: spec.Name, Span: spec.Span})
	case CollectionType:
		for _, e := range spec.Elems {
			uses = appendSpecUses(uses, e)
		}
	case SpreadType:
		uses = appendSpecUses(uses, spec.Inner)
	}
	return uses
}
