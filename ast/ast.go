// Copyright © 2025 The MON authors

// Package ast defines the syntax tree produced by the MON parser.  The tree
// is immutable once parsed: analysis and formatting passes read it but never
// modify it.
package ast

import (
	"math"
	"strconv"
	"strings"
)

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether byte offset off lies inside the span.
func (s Span) Contains(off int) bool {
	return s.Start <= off && off < s.End
}

// Document is a parsed MON file: its imports followed by one root value.
type Document struct {
	File    string
	Imports []*ImportStatement
	Root    *Value
}

// ImportStatement is either a namespace import (import * as ns from "p") or
// a named import (import { A, &b } from "p").
type ImportStatement struct {
	Path      string
	Namespace string
	Names     []*ImportName
	Span      Span
}

// IsNamespace reports whether the import binds a namespace.
func (imp *ImportStatement) IsNamespace() bool {
	return imp.Namespace != ""
}

// ImportName is one binding of a named import.  IsAnchor is set for names
// written with a leading '&'.
type ImportName struct {
	Name     string
	IsAnchor bool
	Span     Span
}

// ValueKind identifies the variant held by a Value.
type ValueKind uint

const (
	Null ValueKind = iota
	Boolean
	Number
	String
	Array
	Object
	Alias
	EnumValue
	ArraySpread
)

func (k ValueKind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	case Alias:
		return "alias"
	case EnumValue:
		return "enum"
	case ArraySpread:
		return "array-spread"
	}
	return "invalid"
}

// Value is a node in the MON value tree.  Only the fields relevant to Kind
// are populated:
//
//	Boolean      Bool
//	Number       Number
//	String       Str
//	Array        Items
//	Object       Members
//	Alias        Str (the referenced anchor name, possibly dotted)
//	ArraySpread  Str (the referenced anchor name, possibly dotted)
//	EnumValue    Enum, Variant
//
// Anchor is non-empty when the value was declared with &name, and AnchorSpan
// then covers the name (without the '&').
type Value struct {
	Anchor     string
	AnchorSpan Span
	Kind       ValueKind
	Bool       bool
	Number     float64
	Str        string
	Enum       string
	Variant    string
	Items      []*Value
	Members    []*Member
	Span       Span
}

// IsContainer reports whether v is an Object or an Array.
func (v *Value) IsContainer() bool {
	return v.Kind == Object || v.Kind == Array
}

// IsReference reports whether v refers to an anchor by name.
func (v *Value) IsReference() bool {
	return v.Kind == Alias || v.Kind == ArraySpread
}

// DataMembers returns the number of object members which are not type
// definitions.
func (v *Value) DataMembers() int {
	n := 0
	for _, m := range v.Members {
		if m.Kind != TypeDefMember {
			n++
		}
	}
	return n
}

// Preview returns a short single-line rendering of v suitable for hover and
// symbol details.
func (v *Value) Preview() string {
	switch v.Kind {
	case Object:
		return "{ ... }"
	case Array:
		return "[ ... ]"
	case String:
		return strconv.Quote(v.Str)
	case Number:
		return FormatNumber(v.Number)
	case Boolean:
		return strconv.FormatBool(v.Bool)
	case Null:
		return "null"
	case Alias:
		return "*" + v.Str
	case ArraySpread:
		return "...*" + v.Str
	case EnumValue:
		return "$" + v.Enum + "." + v.Variant
	}
	return ""
}

// MemberKind identifies the variant held by a Member.
type MemberKind uint

const (
	PairMember MemberKind = iota
	SpreadMember
	ImportMember
	TypeDefMember
)

// Member is one entry of an object.
//
//	PairMember     Key, Value and optionally Validation (key :: Type = value)
//	SpreadMember   Spread (the anchor name after ...*)
//	ImportMember   Import
//	TypeDefMember  TypeDef
//
// KeySpan covers the key text of a pair (quotes included) or the name of a
// type definition.
type Member struct {
	Kind       MemberKind
	Key        string
	KeySpan    Span
	Value      *Value
	Validation *TypeSpec
	Spread     string
	Import     *ImportStatement
	TypeDef    *TypeDefinition
	Span       Span
}

// TypeDefinition declares a struct or an enum.  Exactly one of Struct and
// Enum is non-nil.
type TypeDefinition struct {
	Name   string
	Struct *StructDef
	Enum   *EnumDef
	Span   Span
}

// IsStruct reports whether the definition declares a struct.
func (td *TypeDefinition) IsStruct() bool {
	return td.Struct != nil
}

type StructDef struct {
	Fields []*StructField
}

// StructField is a struct field declaration: name(Type) = default.
type StructField struct {
	Name    string
	Type    *TypeSpec
	Default *Value
	Span    Span
}

type EnumDef struct {
	Variants []*EnumVariant
}

type EnumVariant struct {
	Name string
	Span Span
}

// TypeSpecKind identifies the variant held by a TypeSpec.
type TypeSpecKind uint

const (
	SimpleType TypeSpecKind = iota
	CollectionType
	SpreadType
)

// TypeSpec is a type expression.  Simple types carry Name, collections carry
// Elems, and spread types ("T...") carry Inner.
type TypeSpec struct {
	Kind  TypeSpecKind
	Name  string
	Elems []*TypeSpec
	Inner *TypeSpec
	Span  Span
}

func (ts *TypeSpec) String() string {
	if ts == nil {
		return ""
	}
	switch ts.Kind {
	case CollectionType:
		parts := make([]string, len(ts.Elems))
		for i, e := range ts.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case SpreadType:
		return ts.Inner.String() + "..."
	default:
		return ts.Name
	}
}

// FormatNumber renders n in canonical MON form.  Integral values within
// +/-1e15 render without a fractional part; everything else uses the
// shortest representation that round-trips.
func FormatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
