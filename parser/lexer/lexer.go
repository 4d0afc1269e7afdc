// Copyright © 2025 The MON authors

package lexer

import (
	"fmt"
	"unicode"

	"github.com/mon-lang/mon/parser/token"
)

type LexFn func(*Lexer) []*token.Token

type Lexer struct {
	scanner *token.Scanner
	lex     LexFn
	// KeepComments causes COMMENT tokens to be emitted instead of skipped.
	KeepComments bool
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{
		scanner: s,
		lex:     (*Lexer).readToken,
	}
}

// ReadToken returns the next tokens from the stream.  Once the input is
// exhausted ReadToken returns an EOF token on every call.
func (lex *Lexer) ReadToken() []*token.Token {
	return lex.lex(lex)
}

// All lexes the entire input, returning every token up to and including EOF
// or the first ERROR/INVALID token.
func (lex *Lexer) All() []*token.Token {
	var toks []*token.Token
	for {
		next := lex.ReadToken()
		toks = append(toks, next...)
		last := next[len(next)-1]
		switch last.Type {
		case token.EOF, token.ERROR, token.INVALID:
			return toks
		}
	}
}

func (lex *Lexer) readToken() []*token.Token {
	for {
		lex.skipWhitespace()
		if lex.scanner.EOF() {
			return lex.emit(token.EOF, "")
		}
		if err := lex.scanner.Err(); err != nil {
			return lex.emitError(err)
		}
		if lex.peekRune() == '/' && lex.scanner.PeekN(1) == '/' {
			lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
			if lex.KeepComments {
				return lex.emitText(token.COMMENT)
			}
			lex.scanner.Ignore()
			continue
		}
		break
	}
	c := lex.peekRune()
	switch {
	case c == '"' || c == '\'':
		return lex.readString(c)
	case isDigit(c) || (c == '-' && isDigit(lex.scanner.PeekN(1))):
		return lex.readNumber()
	case isIdentStart(c):
		lex.scanner.AcceptSeq(isIdent)
		return lex.emitText(token.IDENT)
	}
	switch c {
	case '{':
		return lex.charToken(token.BRACE_L)
	case '}':
		return lex.charToken(token.BRACE_R)
	case '[':
		return lex.charToken(token.BRACKET_L)
	case ']':
		return lex.charToken(token.BRACKET_R)
	case '(':
		return lex.charToken(token.PAREN_L)
	case ')':
		return lex.charToken(token.PAREN_R)
	case ',':
		return lex.charToken(token.COMMA)
	case '&':
		return lex.charToken(token.AMPERSAND)
	case '*':
		return lex.charToken(token.STAR)
	case '$':
		return lex.charToken(token.DOLLAR)
	case '=':
		return lex.charToken(token.EQUALS)
	case ':':
		if lex.scanner.AcceptString("::") {
			return lex.emitText(token.DOUBLE_COLON)
		}
		return lex.charToken(token.COLON)
	case '.':
		if lex.scanner.AcceptString("...") {
			return lex.emitText(token.ELLIPSIS)
		}
		return lex.charToken(token.DOT)
	case '#':
		if lex.scanner.AcceptString("#struct") && !isIdent(lex.peekRune()) {
			return lex.emitText(token.HASH_STRUCT)
		}
		if lex.scanner.AcceptString("#enum") && !isIdent(lex.peekRune()) {
			return lex.emitText(token.HASH_ENUM)
		}
		lex.scanner.AcceptRune('#')
		lex.scanner.AcceptSeq(isIdent)
		return lex.errorf("unknown keyword %q: expected #struct or #enum", lex.scanner.Text())
	}
	_ = lex.scanner.ScanRune()
	return lex.emit(token.INVALID, fmt.Sprintf("unexpected character %q", c))
}

func (lex *Lexer) readString(quote rune) []*token.Token {
	lex.scanner.AcceptRune(quote)
	for {
		c, ok := lex.scanner.Peek()
		if !ok {
			return lex.errorf("unterminated string literal")
		}
		switch c {
		case quote:
			lex.scanner.AcceptRune(quote)
			return lex.emitText(token.STRING)
		case '\n':
			return lex.errorf("unterminated string literal")
		case '\\':
			_ = lex.scanner.ScanRune()
			// The escaped character is validated by the parser.
			if !lex.scanner.Accept(func(rune) bool { return true }) {
				return lex.errorf("unterminated string literal")
			}
		default:
			_ = lex.scanner.ScanRune()
		}
	}
}

func (lex *Lexer) readNumber() []*token.Token {
	lex.scanner.AcceptRune('-')
	lex.scanner.AcceptSeqDigit()
	if lex.peekRune() == '.' && isDigit(lex.scanner.PeekN(1)) {
		lex.scanner.AcceptRune('.')
		lex.scanner.AcceptSeqDigit()
	}
	if lex.scanner.AcceptAny("eE") {
		lex.scanner.AcceptAny("+-")
		if lex.scanner.AcceptSeqDigit() == 0 {
			return lex.errorf("invalid number literal %q", lex.scanner.Text())
		}
	}
	if isIdentStart(lex.peekRune()) {
		lex.scanner.AcceptSeq(isIdent)
		return lex.errorf("invalid number literal %q", lex.scanner.Text())
	}
	return lex.emitText(token.NUMBER)
}

func (lex *Lexer) emit(typ token.Type, text string) []*token.Token {
	tok := []*token.Token{{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
		End:    lex.scanner.Loc().Pos,
	}}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) []*token.Token {
	return []*token.Token{lex.scanner.EmitToken(typ)}
}

func (lex *Lexer) emitError(err error) []*token.Token {
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) []*token.Token {
	return lex.emitError(fmt.Errorf(format, v...))
}

func (lex *Lexer) charToken(typ token.Type) []*token.Token {
	_ = lex.scanner.ScanRune()
	return lex.emitText(typ)
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdent(c rune) bool {
	return c == '_' || c == '-' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
