// Copyright © 2025 The MON authors

package formatter

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mon-lang/mon/ast"
)

type printer struct {
	buf      bytes.Buffer
	cfg      *Config
	comments *commentSet
	indent   string
	col      int  // current column (0-indexed)
	atBOL    bool // at beginning of line (nothing written on current line)

	// suffix is the width of what follows the element being written on
	// its last line, the separating comma.
	suffix int
}

func newPrinter(cfg *Config, comments *commentSet) *printer {
	return &printer{
		cfg:      cfg,
		comments: comments,
		indent:   cfg.IndentString(),
		atBOL:    true,
	}
}

// writeDocument writes the imports of doc followed by its root value.
// Comments before the first import, between imports and after the root are
// kept at the top level.
func (p *printer) writeDocument(doc *ast.Document) {
	var elems []*element
	for _, imp := range doc.Imports {
		imp := imp
		elems = append(elems, &element{
			span:  imp.Span,
			write: func(int) { p.writeString(formatImport(imp)) },
		})
	}
	root := &element{
		span:  doc.Root.Span,
		write: func(depth int) { p.writeValue(doc.Root, depth, true) },
	}
	if doc.Root.IsContainer() {
		root.inner = &doc.Root.Span
	}
	elems = append(elems, root)
	b := p.comments.attach(ast.Span{Start: 0, End: len(p.comments.source)}, elems)

	for i, e := range elems {
		switch {
		case e == root && i > 0:
			// Imports are separated from the root value by one empty line.
			p.newline()
		case e.blankBefore:
			p.newline()
		}
		p.writeLeading(e, 0)
		p.suffix = 0
		e.write(0)
		p.writeTrailing(e.trailing)
		p.newline()
	}
	for _, c := range b.closing {
		p.writeString(c)
		p.newline()
	}
}

// formatImport renders an import statement on one line.
func formatImport(imp *ast.ImportStatement) string {
	if imp.IsNamespace() {
		return "import * as " + imp.Namespace + " from " + quote(imp.Path)
	}
	names := make([]string, len(imp.Names))
	for i, n := range imp.Names {
		names[i] = n.Name
		if n.IsAnchor {
			names[i] = "&" + n.Name
		}
	}
	return "import { " + strings.Join(names, ", ") + " } from " + quote(imp.Path)
}

// writeLeading writes the comments preceding an element, each on its own
// line at the given depth.
func (p *printer) writeLeading(e *element, depth int) {
	for _, c := range e.leading {
		p.writeIndent(depth)
		p.writeString(c)
		p.newline()
	}
	if len(e.leading) > 0 && e.blankAfterComments {
		p.newline()
	}
	p.writeIndent(depth)
}

// writeTrailing writes a comment at the end of the current line.
func (p *printer) writeTrailing(comment string) {
	if comment == "" {
		return
	}
	p.writeString(" ")
	p.writeString(comment)
}

// writeValue dispatches on the kind of v.  The anchor of v is written as a
// prefix when withAnchor is set.
func (p *printer) writeValue(v *ast.Value, depth int, withAnchor bool) {
	if withAnchor && v.Anchor != "" {
		p.writeString("&" + v.Anchor + " ")
	}
	switch v.Kind {
	case ast.Object, ast.Array:
		p.writeContainer(v, depth)
	default:
		p.writeString(scalar(v))
	}
}

// scalar renders a value which is not a container.
func scalar(v *ast.Value) string {
	switch v.Kind {
	case ast.Null:
		return "null"
	case ast.Boolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case ast.Number:
		return ast.FormatNumber(v.Number)
	case ast.String:
		return quote(v.Str)
	case ast.Alias:
		return "*" + v.Str
	case ast.ArraySpread:
		return "...*" + v.Str
	case ast.EnumValue:
		return "$" + v.Enum + "." + v.Variant
	}
	return ""
}

// writeContainer writes an object or array, on one line when the style
// allows it and the line fits, otherwise one element per line.
func (p *printer) writeContainer(v *ast.Value, depth int) {
	lb, rb := "{", "}"
	singleEmpty := p.cfg.SingleLineEmptyObjects
	if v.Kind == ast.Array {
		lb, rb = "[", "]"
		singleEmpty = p.cfg.SingleLineEmptyArrays
	}
	suffix := p.suffix
	p.suffix = 0
	elems, b := p.elements(v)
	if len(elems) == 0 && b.empty() {
		p.writeString(lb)
		if !singleEmpty {
			p.newline()
			p.writeIndent(depth)
		}
		p.writeString(rb)
		return
	}
	if !p.mustExpand(v) && !p.shouldExpand(v) {
		if s, ok := p.flat(v); ok && p.col+p.width(s)+suffix <= p.cfg.MaxLineWidth {
			p.writeString(s)
			return
		}
	}
	p.writeBlock(lb, rb, elems, b, depth)
}

// writeBlock writes elems one per line between the brackets lb and rb.
func (p *printer) writeBlock(lb, rb string, elems []*element, b *block, depth int) {
	p.writeString(lb)
	p.writeTrailing(b.open)
	p.newline()
	for i, e := range elems {
		if i > 0 && e.blankBefore {
			p.newline()
		}
		p.writeLeading(e, depth+1)
		comma := i < len(elems)-1 || p.trailingComma(true)
		p.suffix = 0
		if comma {
			p.suffix = 1
		}
		e.write(depth + 1)
		if comma {
			p.writeString(",")
		}
		p.writeTrailing(e.trailing)
		p.newline()
	}
	for _, c := range b.closing {
		p.writeIndent(depth + 1)
		p.writeString(c)
		p.newline()
	}
	p.writeIndent(depth)
	p.writeString(rb)
}

// elements returns the entries of a container in presentation order with
// their comments attached.
func (p *printer) elements(v *ast.Value) ([]*element, *block) {
	var elems []*element
	if v.Kind == ast.Array {
		for _, item := range v.Items {
			item := item
			e := &element{
				span:  item.Span,
				write: func(depth int) { p.writeValue(item, depth, true) },
			}
			if item.IsContainer() {
				e.inner = &item.Span
			}
			elems = append(elems, e)
		}
		b := p.comments.attach(v.Span, elems)
		place(p.cfg.CommentPlacement, elems, b)
		return elems, b
	}

	byMember := make(map[*ast.Member]*element, len(v.Members))
	for _, m := range v.Members {
		e := p.memberElement(m)
		if e == nil {
			continue
		}
		byMember[m] = e
		elems = append(elems, e)
	}
	b := p.comments.attach(v.Span, elems)
	place(p.cfg.CommentPlacement, elems, b)
	if p.cfg.SortKeys == SortNone || p.cfg.SortKeys == "" {
		return elems, b
	}
	sorted := make([]*element, 0, len(elems))
	for _, m := range SortMembers(v.Members, p.cfg.SortKeys) {
		if e, ok := byMember[m]; ok {
			e.blankBefore = false
			sorted = append(sorted, e)
		}
	}
	return sorted, b
}

func (p *printer) memberElement(m *ast.Member) *element {
	e := &element{span: m.Span}
	switch m.Kind {
	case ast.PairMember:
		if m.Value.IsContainer() {
			e.inner = &m.Value.Span
		}
		e.write = func(depth int) { p.writePair(m, depth) }
	case ast.SpreadMember:
		e.write = func(int) { p.writeString("...*" + m.Spread) }
	case ast.TypeDefMember:
		e.inner = &m.TypeDef.Span
		e.write = func(depth int) { p.writeTypeDef(m.TypeDef, depth) }
	default:
		return nil
	}
	return e
}

// writePair writes key: value.  A value anchored with its own key is
// written in the &key: value form.
func (p *printer) writePair(m *ast.Member, depth int) {
	p.writeString(p.pairKey(m))
	p.writeValue(m.Value, depth, !anchoredByKey(m))
}

func anchoredByKey(m *ast.Member) bool {
	return m.Value != nil && m.Value.Anchor != "" && m.Value.Anchor == m.Key
}

// pairKey renders the key of a pair with its separator.
func (p *printer) pairKey(m *ast.Member) string {
	key := formatKey(m.Key)
	if anchoredByKey(m) {
		key = "&" + key
	}
	if m.Validation != nil {
		return key + " :: " + m.Validation.String() + " = "
	}
	if p.cfg.SpaceBeforeColon {
		key += " "
	}
	key += ":"
	if p.cfg.SpaceAfterColon {
		key += " "
	}
	return key
}

// writeTypeDef writes a struct or enum definition.  Definitions are always
// written one field or variant per line.
func (p *printer) writeTypeDef(td *ast.TypeDefinition, depth int) {
	var elems []*element
	if td.IsStruct() {
		p.writeString(td.Name + p.colon() + "#struct ")
		for _, f := range td.Struct.Fields {
			f := f
			e := &element{span: f.Span, write: func(depth int) { p.writeField(f, depth) }}
			if f.Default != nil && f.Default.IsContainer() {
				e.inner = &f.Default.Span
			}
			elems = append(elems, e)
		}
	} else {
		p.writeString(td.Name + p.colon() + "#enum ")
		for _, v := range td.Enum.Variants {
			name := v.Name
			elems = append(elems, &element{span: v.Span, write: func(int) { p.writeString(name) }})
		}
	}
	b := p.comments.attach(td.Span, elems)
	place(p.cfg.CommentPlacement, elems, b)
	if len(elems) == 0 && b.empty() {
		p.writeString("{}")
		return
	}
	p.writeBlock("{", "}", elems, b, depth)
}

func (p *printer) writeField(f *ast.StructField, depth int) {
	p.writeString(f.Name + "(" + f.Type.String() + ")")
	if f.Default != nil {
		p.writeString(" = ")
		p.writeValue(f.Default, depth, true)
	}
}

func (p *printer) colon() string {
	s := ":"
	if p.cfg.SpaceBeforeColon {
		s = " :"
	}
	if p.cfg.SpaceAfterColon {
		s += " "
	}
	return s
}

// mustExpand reports whether v cannot be written on one line: it holds
// comments or type definitions.
func (p *printer) mustExpand(v *ast.Value) bool {
	if p.comments.any(v.Span) {
		return true
	}
	for _, m := range v.Members {
		if m.Kind == ast.TypeDefMember {
			return true
		}
	}
	return false
}

// shouldExpand applies the configured container style to v.
func (p *printer) shouldExpand(v *ast.Value) bool {
	style, threshold, count := p.cfg.ObjectStyle, p.cfg.ObjectExpandThreshold, len(v.Members)
	if v.Kind == ast.Array {
		style, threshold, count = p.cfg.ArrayStyle, p.cfg.ArrayExpandThreshold, len(v.Items)
	}
	switch style {
	case StyleExpanded:
		return true
	case StyleCompact:
		return false
	}
	if count > threshold {
		return true
	}
	for _, item := range v.Items {
		if item.IsContainer() {
			return true
		}
	}
	for _, m := range v.Members {
		if m.Kind == ast.PairMember && m.Value.IsContainer() {
			return true
		}
	}
	return false
}

// flat renders v on a single line.  It reports false when v holds
// something which must be written over several lines.
func (p *printer) flat(v *ast.Value) (string, bool) {
	var parts []string
	switch v.Kind {
	case ast.Array:
		if len(v.Items) == 0 {
			return "[]", p.cfg.SingleLineEmptyArrays
		}
		for _, item := range v.Items {
			s, ok := p.flatValue(item, true)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		space := ""
		if p.cfg.SpaceInBrackets {
			space = " "
		}
		return "[" + space + p.joinFlat(parts) + space + "]", true
	case ast.Object:
		if len(v.Members) == 0 {
			return "{}", p.cfg.SingleLineEmptyObjects
		}
		for _, m := range SortMembers(v.Members, p.cfg.SortKeys) {
			switch m.Kind {
			case ast.PairMember:
				s, ok := p.flatValue(m.Value, !anchoredByKey(m))
				if !ok {
					return "", false
				}
				parts = append(parts, p.pairKey(m)+s)
			case ast.SpreadMember:
				parts = append(parts, "...*"+m.Spread)
			case ast.TypeDefMember:
				return "", false
			}
		}
		return "{ " + p.joinFlat(parts) + " }", true
	}
	return scalar(v), true
}

func (p *printer) flatValue(v *ast.Value, withAnchor bool) (string, bool) {
	s, ok := p.flat(v)
	if withAnchor && v.Anchor != "" {
		s = "&" + v.Anchor + " " + s
	}
	return s, ok
}

func (p *printer) joinFlat(parts []string) string {
	s := strings.Join(parts, ", ")
	if p.trailingComma(false) {
		s += ","
	}
	return s
}

// trailingComma reports whether the last element of a container gets a
// comma.
func (p *printer) trailingComma(multiline bool) bool {
	switch p.cfg.TrailingCommas {
	case TrailingAlways:
		return true
	case TrailingNever:
		return false
	}
	return multiline
}

// writeIndent writes the indentation for depth at the beginning of a line.
func (p *printer) writeIndent(depth int) {
	if !p.atBOL {
		return
	}
	for i := 0; i < depth; i++ {
		p.writeString(p.indent)
	}
}

// writeString writes a string, updating column tracking.
func (p *printer) writeString(s string) {
	if s == "" {
		return
	}
	p.atBOL = false
	p.buf.WriteString(s)
	p.col += p.width(s)
}

// newline writes a newline and marks beginning of line.
func (p *printer) newline() {
	p.buf.WriteByte('\n')
	p.col = 0
	p.atBOL = true
}

// width returns the number of columns s occupies.  Runes count as one
// column and tabs as one indentation level.
func (p *printer) width(s string) int {
	return width(s, p.cfg.tabWidth())
}

func width(s string, tab int) int {
	n := 0
	for _, r := range s {
		if r == '\t' {
			n += tab
			continue
		}
		n++
	}
	return n
}

// formatKey quotes key when it cannot be written as an identifier.
func formatKey(key string) string {
	if needsQuotes(key) {
		return quote(key)
	}
	return key
}

func needsQuotes(key string) bool {
	if key == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(key)
	if first != '_' && !unicode.IsLetter(first) {
		return true
	}
	for _, r := range key {
		if r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// quote renders s as a double quoted MON string.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte("0123456789abcdef"[r>>4])
				b.WriteByte("0123456789abcdef"[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
