// Copyright © 2025 The MON authors

// Package parser implements a recursive descent parser for MON documents.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/parser/token"
)

// Parse parses source as a MON document.  On failure the returned error is a
// *ParseError.
func Parse(source string, file string) (*ast.Document, error) {
	return New(file, source).ParseDocument()
}

// Parser is a MON parser.  A Parser parses a single document.
type Parser struct {
	file   string
	source string
	src    *TokenSource
}

// New initializes and returns a Parser reading source.
func New(file string, source string) *Parser {
	return &Parser{
		file:   file,
		source: source,
		src:    NewTokenSource(token.NewScanner(file, source)),
	}
}

// ParseDocument parses the import statements and the root value of the
// document.
func (p *Parser) ParseDocument() (*ast.Document, error) {
	doc := &ast.Document{File: p.file}
	for p.peekKeyword("import") {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		doc.Imports = append(doc.Imports, imp)
	}
	if p.PeekType() == token.EOF {
		return nil, p.errorAt(p.src.Peek(), "expected a value", "expected '{' here",
			"MON files should typically start with an object '{'. Wrap your content in curly braces.")
	}
	root, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	doc.Root = root
	if p.PeekType() != token.EOF {
		if err := p.lexError(); err != nil {
			return nil, err
		}
		return nil, p.errorAt(p.src.Peek(), "unexpected content after the root value",
			"unexpected "+p.src.Peek().Type.String(),
			"A MON document contains a single root value, usually an object.")
	}
	return doc, nil
}

// PeekType returns the type of the next token.
func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) peekKeyword(word string) bool {
	tok := p.src.Peek()
	return tok.Type == token.IDENT && tok.Text == word
}

func (p *Parser) parseImport() (*ast.ImportStatement, error) {
	p.src.Scan()
	imp := &ast.ImportStatement{}
	start := p.src.Token.Pos()
	switch p.PeekType() {
	case token.STAR:
		p.src.Scan()
		if !p.peekKeyword("as") {
			return nil, p.expected("'as'")
		}
		p.src.Scan()
		ns, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		imp.Namespace = ns.Text
	case token.BRACE_L:
		p.src.Scan()
		for p.PeekType() != token.BRACE_R {
			name := &ast.ImportName{}
			nameStart := p.src.Peek().Pos()
			if p.src.AcceptType(token.AMPERSAND) {
				name.IsAnchor = true
			}
			id, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			name.Name = id.Text
			name.Span = ast.Span{Start: nameStart, End: id.End}
			imp.Names = append(imp.Names, name)
			if !p.src.AcceptType(token.COMMA) {
				break
			}
		}
		if _, err := p.expect(token.BRACE_R); err != nil {
			return nil, err
		}
	default:
		return nil, p.expected("'*' or '{' after import")
	}
	if !p.peekKeyword("from") {
		return nil, p.expected("'from'")
	}
	p.src.Scan()
	path, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	imp.Path, err = p.unquote(path)
	if err != nil {
		return nil, err
	}
	imp.Span = ast.Span{Start: start, End: path.End}
	return imp, nil
}

func (p *Parser) parseValue() (*ast.Value, error) {
	start := p.src.Peek().Pos()
	var anchor *token.Token
	if p.src.AcceptType(token.AMPERSAND) {
		var err error
		anchor, err = p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
	}
	v, err := p.parseBareValue()
	if err != nil {
		return nil, err
	}
	if anchor != nil {
		v.Anchor = anchor.Text
		v.AnchorSpan = ast.Span{Start: anchor.Pos(), End: anchor.End}
		v.Span.Start = start
	}
	return v, nil
}

func (p *Parser) parseBareValue() (*ast.Value, error) {
	tok := p.src.Peek()
	switch tok.Type {
	case token.BRACE_L:
		return p.parseObject()
	case token.BRACKET_L:
		return p.parseArray()
	case token.STRING:
		p.src.Scan()
		s, err := p.unquote(tok)
		if err != nil {
			return nil, err
		}
		return &ast.Value{Kind: ast.String, Str: s, Span: tokenSpan(tok)}, nil
	case token.NUMBER:
		p.src.Scan()
		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorAt(tok, fmt.Sprintf("invalid number %q", tok.Text), "invalid number",
				"Numbers are written as decimal integers or floats, optionally with an exponent.")
		}
		return &ast.Value{Kind: ast.Number, Number: n, Span: tokenSpan(tok)}, nil
	case token.IDENT:
		switch tok.Text {
		case "true", "false":
			p.src.Scan()
			return &ast.Value{Kind: ast.Boolean, Bool: tok.Text == "true", Span: tokenSpan(tok)}, nil
		case "null":
			p.src.Scan()
			return &ast.Value{Kind: ast.Null, Span: tokenSpan(tok)}, nil
		}
		return nil, p.errorAt(tok, fmt.Sprintf("unexpected identifier %q", tok.Text), "expected a value",
			"Strings must be quoted. Use *name to reference an anchor.")
	case token.STAR:
		p.src.Scan()
		name, span, err := p.parseName()
		if err != nil {
			return nil, err
		}
		return &ast.Value{Kind: ast.Alias, Str: name, Span: ast.Span{Start: tok.Pos(), End: span.End}}, nil
	case token.DOLLAR:
		p.src.Scan()
		enum, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.DOT); err != nil {
			return nil, err
		}
		variant, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.Value{
			Kind:    ast.EnumValue,
			Enum:    enum.Text,
			Variant: variant.Text,
			Span:    ast.Span{Start: tok.Pos(), End: variant.End},
		}, nil
	}
	return nil, p.unexpected("expected a value")
}

// parseName parses a possibly dotted anchor name.
func (p *Parser) parseName() (string, ast.Span, error) {
	first, err := p.expect(token.IDENT)
	if err != nil {
		return "", ast.Span{}, err
	}
	parts := []string{first.Text}
	end := first.End
	for p.src.AcceptType(token.DOT) {
		next, err := p.expect(token.IDENT)
		if err != nil {
			return "", ast.Span{}, err
		}
		parts = append(parts, next.Text)
		end = next.End
	}
	return strings.Join(parts, "."), ast.Span{Start: first.Pos(), End: end}, nil
}

func (p *Parser) parseObject() (*ast.Value, error) {
	open := p.src.Peek()
	p.src.Scan()
	obj := &ast.Value{Kind: ast.Object}
	for p.PeekType() != token.BRACE_R {
		if p.PeekType() == token.EOF {
			return nil, p.unexpectedEOF()
		}
		m, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, m)
		if p.src.AcceptType(token.COMMA) {
			continue
		}
		switch p.PeekType() {
		case token.BRACE_R:
		case token.BRACKET_R, token.EOF:
			return nil, p.expectedType(token.BRACE_R)
		default:
			return nil, p.expectedType(token.COMMA)
		}
	}
	p.src.Scan()
	obj.Span = ast.Span{Start: open.Pos(), End: p.src.Token.End}
	return obj, nil
}

func (p *Parser) parseMember() (*ast.Member, error) {
	start := p.src.Peek()
	if p.src.AcceptType(token.ELLIPSIS) {
		if _, err := p.expect(token.STAR); err != nil {
			return nil, err
		}
		name, span, err := p.parseName()
		if err != nil {
			return nil, err
		}
		return &ast.Member{Kind: ast.SpreadMember, Spread: name, Span: ast.Span{Start: start.Pos(), End: span.End}}, nil
	}

	m := &ast.Member{Kind: ast.PairMember}
	anchored := p.src.AcceptType(token.AMPERSAND)
	keyTok := p.src.Peek()
	switch keyTok.Type {
	case token.IDENT:
		p.src.Scan()
		m.Key = keyTok.Text
	case token.STRING:
		p.src.Scan()
		key, err := p.unquote(keyTok)
		if err != nil {
			return nil, err
		}
		m.Key = key
	default:
		return nil, p.unexpected("expected a key")
	}
	m.KeySpan = tokenSpan(keyTok)

	switch {
	case p.src.AcceptType(token.COLON):
		if !anchored && keyTok.Type == token.IDENT {
			switch p.PeekType() {
			case token.HASH_STRUCT, token.HASH_ENUM:
				td, err := p.parseTypeDef(keyTok)
				if err != nil {
					return nil, err
				}
				m.Kind = ast.TypeDefMember
				m.TypeDef = td
				m.Span = ast.Span{Start: start.Pos(), End: td.Span.End}
				return m, nil
			}
		}
	case p.src.AcceptType(token.DOUBLE_COLON):
		spec, err := p.parseTypeSpec()
		if err != nil {
			return nil, err
		}
		m.Validation = spec
		if !p.src.AcceptType(token.EQUALS, token.COLON) {
			return nil, p.expectedType(token.EQUALS)
		}
	default:
		return nil, p.expectedType(token.COLON)
	}

	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if anchored {
		if v.Anchor != "" {
			return nil, p.errorAt(keyTok, fmt.Sprintf("value of %q already has anchor %q", m.Key, v.Anchor),
				"anchor declared twice", "Use either &key: value or key: &anchor value, not both.")
		}
		v.Anchor = m.Key
		v.AnchorSpan = m.KeySpan
	}
	m.Value = v
	m.Span = ast.Span{Start: start.Pos(), End: v.Span.End}
	return m, nil
}

func (p *Parser) parseTypeDef(name *token.Token) (*ast.TypeDefinition, error) {
	td := &ast.TypeDefinition{Name: name.Text}
	kw := p.src.Peek()
	p.src.Scan()
	if _, err := p.expect(token.BRACE_L); err != nil {
		return nil, err
	}
	if kw.Type == token.HASH_STRUCT {
		td.Struct = &ast.StructDef{}
		for p.PeekType() != token.BRACE_R {
			f, err := p.parseField()
			if err != nil {
				return nil, err
			}
			td.Struct.Fields = append(td.Struct.Fields, f)
			if !p.src.AcceptType(token.COMMA) {
				break
			}
		}
	} else {
		td.Enum = &ast.EnumDef{}
		for p.PeekType() != token.BRACE_R {
			id, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			td.Enum.Variants = append(td.Enum.Variants, &ast.EnumVariant{Name: id.Text, Span: tokenSpan(id)})
			if !p.src.AcceptType(token.COMMA) {
				break
			}
		}
	}
	end, err := p.expect(token.BRACE_R)
	if err != nil {
		return nil, err
	}
	td.Span = ast.Span{Start: name.Pos(), End: end.End}
	return td, nil
}

func (p *Parser) parseField() (*ast.StructField, error) {
	id, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PAREN_L); err != nil {
		return nil, err
	}
	spec, err := p.parseTypeSpec()
	if err != nil {
		return nil, err
	}
	closing, err := p.expect(token.PAREN_R)
	if err != nil {
		return nil, err
	}
	f := &ast.StructField{Name: id.Text, Type: spec, Span: ast.Span{Start: id.Pos(), End: closing.End}}
	if p.src.AcceptType(token.EQUALS) {
		def, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		f.Default = def
		f.Span.End = def.Span.End
	}
	return f, nil
}

func (p *Parser) parseTypeSpec() (*ast.TypeSpec, error) {
	var spec *ast.TypeSpec
	tok := p.src.Peek()
	switch tok.Type {
	case token.IDENT:
		p.src.Scan()
		spec = &ast.TypeSpec{Kind: ast.SimpleType, Name: tok.Text, Span: tokenSpan(tok)}
	case token.BRACKET_L:
		p.src.Scan()
		spec = &ast.TypeSpec{Kind: ast.CollectionType}
		for p.PeekType() != token.BRACKET_R {
			elem, err := p.parseTypeSpec()
			if err != nil {
				return nil, err
			}
			spec.Elems = append(spec.Elems, elem)
			if !p.src.AcceptType(token.COMMA) {
				break
			}
		}
		end, err := p.expect(token.BRACKET_R)
		if err != nil {
			return nil, err
		}
		spec.Span = ast.Span{Start: tok.Pos(), End: end.End}
	default:
		return nil, p.unexpected("expected a type")
	}
	if p.src.AcceptType(token.ELLIPSIS) {
		spec = &ast.TypeSpec{
			Kind:  ast.SpreadType,
			Inner: spec,
			Span:  ast.Span{Start: spec.Span.Start, End: p.src.Token.End},
		}
	}
	return spec, nil
}

func (p *Parser) parseArray() (*ast.Value, error) {
	open := p.src.Peek()
	p.src.Scan()
	arr := &ast.Value{Kind: ast.Array}
	for p.PeekType() != token.BRACKET_R {
		if p.PeekType() == token.EOF {
			return nil, p.unexpectedEOF()
		}
		var item *ast.Value
		if spread := p.src.Peek(); p.src.AcceptType(token.ELLIPSIS) {
			if _, err := p.expect(token.STAR); err != nil {
				return nil, err
			}
			name, span, err := p.parseName()
			if err != nil {
				return nil, err
			}
			item = &ast.Value{Kind: ast.ArraySpread, Str: name, Span: ast.Span{Start: spread.Pos(), End: span.End}}
		} else {
			var err error
			item, err = p.parseValue()
			if err != nil {
				return nil, err
			}
		}
		arr.Items = append(arr.Items, item)
		if p.src.AcceptType(token.COMMA) {
			continue
		}
		switch p.PeekType() {
		case token.BRACKET_R:
		case token.BRACE_R, token.EOF:
			return nil, p.expectedType(token.BRACKET_R)
		default:
			return nil, p.expectedType(token.COMMA)
		}
	}
	p.src.Scan()
	arr.Span = ast.Span{Start: open.Pos(), End: p.src.Token.End}
	return arr, nil
}

// expect scans the next token if it has type typ and reports an error
// otherwise.
func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	if p.PeekType() != typ {
		return nil, p.expectedType(typ)
	}
	p.src.Scan()
	return p.src.Token, nil
}

func (p *Parser) expectedType(typ token.Type) error {
	if err := p.lexError(); err != nil {
		return err
	}
	if p.PeekType() == token.EOF {
		return p.unexpectedEOF()
	}
	e := expectationFor(typ)
	return p.errorAt(p.src.Peek(), e.message, e.label, e.help)
}

func (p *Parser) expected(what string) error {
	if err := p.lexError(); err != nil {
		return err
	}
	if p.PeekType() == token.EOF {
		return p.unexpectedEOF()
	}
	return p.errorAt(p.src.Peek(), "unexpected token, expected "+what, "expected "+what+" here",
		"Check the syntax at this location. Expected: "+what)
}

func (p *Parser) unexpected(label string) error {
	if err := p.lexError(); err != nil {
		return err
	}
	if p.PeekType() == token.EOF {
		return p.unexpectedEOF()
	}
	tok := p.src.Peek()
	return p.errorAt(tok, fmt.Sprintf("unexpected %s %q", tok.Type, tok.Text), label,
		"Check the syntax at this location.")
}

func (p *Parser) unexpectedEOF() error {
	return p.errorAt(p.src.Peek(), "unexpected end of file", eofLabel, eofHelp)
}

// lexError returns a ParseError if the next token is a lexical error.
func (p *Parser) lexError() error {
	tok := p.src.Peek()
	switch tok.Type {
	case token.ERROR, token.INVALID:
		return p.errorAt(tok, tok.Text, "invalid token", "Check the syntax at this location.")
	}
	return nil
}

func (p *Parser) errorAt(tok *token.Token, msg, label, help string) *ParseError {
	err := &ParseError{
		File:    p.file,
		Message: msg,
		Label:   label,
		Help:    help,
	}
	if tok == nil || tok.Source == nil {
		err.Span = fallbackSpan(p.source)
		return err
	}
	err.Source = tok.Source
	err.Span = tokenSpan(tok)
	if err.Span.End <= err.Span.Start && err.Span.Start < len(p.source) {
		_, n := utf8.DecodeRuneInString(p.source[err.Span.Start:])
		err.Span.End = err.Span.Start + n
	}
	return err
}

func tokenSpan(tok *token.Token) ast.Span {
	return ast.Span{Start: tok.Pos(), End: tok.End}
}

// unquote decodes a single or double quoted string token.
func (p *Parser) unquote(tok *token.Token) (string, error) {
	text := tok.Text
	if len(text) < 2 {
		return "", p.errorAt(tok, "invalid string literal", "invalid string", "Strings must be quoted.")
	}
	body := text[1 : len(text)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			break
		}
		switch body[i] {
		case '"', '\'', '\\', '/':
			b.WriteByte(body[i])
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'u':
			if i+5 > len(body) {
				return "", p.badEscape(tok, body[i-1:])
			}
			r, err := strconv.ParseUint(body[i+1:i+5], 16, 32)
			if err != nil {
				return "", p.badEscape(tok, body[i-1:i+5])
			}
			b.WriteRune(rune(r))
			i += 4
		default:
			return "", p.badEscape(tok, body[i-1:i+1])
		}
	}
	return b.String(), nil
}

func (p *Parser) badEscape(tok *token.Token, seq string) error {
	return p.errorAt(tok, fmt.Sprintf("invalid escape sequence %q", seq), "invalid escape",
		`Supported escapes are \" \' \\ \/ \b \f \n \r \t and \uXXXX.`)
}
