// Copyright © 2025 The MON authors

package ast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func num(n float64) *Value { return &Value{Kind: Number, Number: n} }

func pair(key string, v *Value) *Member {
	return &Member{Kind: PairMember, Key: key, Value: v}
}

func obj(members ...*Member) *Value { return &Value{Kind: Object, Members: members} }

func arr(items ...*Value) *Value { return &Value{Kind: Array, Items: items} }

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3.0, "3"},
		{3.5, "3.5"},
		{-0.0, "0"},
		{-42, "-42"},
		{1e15, "1000000000000000"},
		{1e20, "100000000000000000000"},
		{0.1, "0.1"},
		{math.Inf(1), "+Inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "FormatNumber(%v)", tt.in)
	}
}

func TestTypeSpecString(t *testing.T) {
	spec := &TypeSpec{Kind: CollectionType, Elems: []*TypeSpec{
		{Kind: SimpleType, Name: "String"},
		{Kind: SpreadType, Inner: &TypeSpec{Kind: SimpleType, Name: "Number"}},
	}}
	assert.Equal(t, "[String, Number...]", spec.String())
	assert.Equal(t, "", (*TypeSpec)(nil).String())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "{ ... }", obj().Preview())
	assert.Equal(t, "[ ... ]", arr().Preview())
	assert.Equal(t, `"hi"`, (&Value{Kind: String, Str: "hi"}).Preview())
	assert.Equal(t, "42", num(42).Preview())
	assert.Equal(t, "true", (&Value{Kind: Boolean, Bool: true}).Preview())
	assert.Equal(t, "null", (&Value{Kind: Null}).Preview())
	assert.Equal(t, "$Color.Red", (&Value{Kind: EnumValue, Enum: "Color", Variant: "Red"}).Preview())
}

func TestDataMembers(t *testing.T) {
	v := obj(
		&Member{Kind: TypeDefMember, TypeDef: &TypeDefinition{Name: "T", Enum: &EnumDef{}}},
		pair("a", num(1)),
		&Member{Kind: SpreadMember, Spread: "base"},
	)
	assert.Equal(t, 2, v.DataMembers())
}

func TestWalkDepth(t *testing.T) {
	root := obj(
		pair("a", arr(num(1), obj(pair("b", num(2))))),
		pair("c", num(3)),
	)
	var depths []int
	var kinds []ValueKind
	Walk(root, func(node, _ *Value, depth int) {
		depths = append(depths, depth)
		kinds = append(kinds, node.Kind)
	})
	assert.Equal(t, []int{0, 1, 2, 2, 3, 1}, depths)
	assert.Equal(t, []ValueKind{Object, Array, Number, Object, Number, Number}, kinds)
}

func TestWalkSkipsStructDefaults(t *testing.T) {
	td := &TypeDefinition{Name: "User", Struct: &StructDef{Fields: []*StructField{
		{Name: "age", Type: &TypeSpec{Name: "Number"}, Default: num(7)},
	}}}
	root := obj(&Member{Kind: TypeDefMember, TypeDef: td})
	count := 0
	Walk(root, func(*Value, *Value, int) { count++ })
	assert.Equal(t, 1, count)
	assert.Equal(t, []*TypeDefinition{td}, TypeDefinitions(root))
}

func TestReferencesAndAnchors(t *testing.T) {
	base := obj(pair("x", num(1)))
	base.Anchor = "base"
	list := arr(num(1))
	list.Anchor = "list"
	root := obj(
		pair("base", base),
		pair("list", list),
		&Member{Kind: SpreadMember, Spread: "base", Span: Span{10, 18}},
		pair("copy", &Value{Kind: Alias, Str: "ns.item", Span: Span{20, 28}}),
		pair("more", arr(&Value{Kind: ArraySpread, Str: "list", Span: Span{30, 38}})),
	)
	refs := References(root)
	assert.Equal(t, []Reference{
		{Name: "base", Spread: true, Span: Span{10, 18}},
		{Name: "ns.item", Span: Span{20, 28}},
		{Name: "list", Spread: true, Span: Span{30, 38}},
	}, refs)
	assert.Equal(t, []*Value{base, list}, Anchors(root))
}

func TestSpan(t *testing.T) {
	s := Span{Start: 2, End: 5}
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(2))
	assert.True(t, s.Contains(4))
	assert.False(t, s.Contains(5))
}

func TestInterface(t *testing.T) {
	v := &Value{Kind: Object, Members: []*Member{
		{Kind: PairMember, Key: "n", Value: &Value{Kind: Number, Number: 2}},
		{Kind: PairMember, Key: "l", Value: &Value{Kind: Array, Items: []*Value{
			{Kind: Boolean, Bool: true},
			{Kind: Null},
			{Kind: Alias, Str: "x"},
		}}},
		{Kind: SpreadMember, Spread: "base"},
	}}
	assert.Equal(t, map[string]interface{}{
		"n": 2.0,
		"l": []interface{}{true, nil, "*x"},
	}, v.Interface())
}

func TestReferencesInStructDefaults(t *testing.T) {
	td := &TypeDefinition{Name: "Conf", Struct: &StructDef{Fields: []*StructField{
		{Name: "base", Type: &TypeSpec{Name: "Object"}, Default: &Value{Kind: Alias, Str: "base", Span: Span{1, 6}}},
		{Name: "list", Type: &TypeSpec{Name: "Array"}, Default: arr(&Value{Kind: ArraySpread, Str: "items", Span: Span{8, 16}})},
		{Name: "n", Type: &TypeSpec{Name: "Number"}, Default: num(1)},
	}}}
	root := obj(&Member{Kind: TypeDefMember, TypeDef: td}, pair("x", &Value{Kind: Alias, Str: "other", Span: Span{20, 26}}))
	assert.Equal(t, []Reference{
		{Name: "base", Span: Span{1, 6}},
		{Name: "items", Spread: true, Span: Span{8, 16}},
		{Name: "other", Span: Span{20, 26}},
	}, References(root))
}

func TestTypeUses(t *testing.T) {
	user := &TypeDefinition{Name: "User", Struct: &StructDef{Fields: []*StructField{
		{Name: "tags", Type: &TypeSpec{Kind: CollectionType, Elems: []*TypeSpec{
			{Kind: SpreadType, Inner: &TypeSpec{Kind: SimpleType, Name: "String", Span: Span{1, 2}}},
		}}},
		{Name: "status", Type: &TypeSpec{Kind: SimpleType, Name: "Status", Span: Span{3, 4}},
			Default: &Value{Kind: EnumValue, Enum: "Status", Variant: "On", Span: Span{5, 6}}},
	}}}
	alice := pair("alice", obj())
	alice.Validation = &TypeSpec{Kind: SimpleType, Name: "User", Span: Span{7, 8}}
	root := obj(
		&Member{Kind: TypeDefMember, TypeDef: user},
		alice,
		pair("s", &Value{Kind: EnumValue, Enum: "Mode", Variant: "A", Span: Span{9, 10}}),
	)
	assert.Equal(t, []TypeUse{
		{Name: "String", Span: Span{1, 2}},
		{Name: "Status", Span: Span{3, 4}},
		{Name: "Status", Variant: "On", Span: Span{5, 6}},
		{Name: "User", Span: Span{7, 8}},
		{Name: "Mode", Variant: "A", Span: Span{9, 10}},
	}, TypeUses(root))
}
