// Copyright © 2025 The MON authors

package token

import "fmt"

// Token is a lexical token.  Source locates the first byte of Text and End is
// the byte offset just past it.
type Token struct {
	Type   Type
	Text   string
	Source *Location
	End    int
}

// Pos returns the byte offset of the first byte of the token.
func (tok *Token) Pos() int {
	if tok == nil || tok.Source == nil {
		return -1
	}
	return tok.Source.Pos
}

type Type uint

// Type constants used for the MON lexer/parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	COMMENT

	// Atoms
	IDENT
	STRING
	NUMBER

	// Keywords introduced by '#'
	HASH_STRUCT
	HASH_ENUM

	// Operators
	AMPERSAND
	STAR
	DOLLAR
	DOT
	ELLIPSIS
	COLON
	DOUBLE_COLON
	EQUALS
	COMMA

	// Delimiters
	BRACE_L
	BRACE_R
	BRACKET_L
	BRACKET_R
	PAREN_L
	PAREN_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:      "invalid",
		ERROR:        "error",
		EOF:          "EOF",
		COMMENT:      "//",
		IDENT:        "identifier",
		STRING:       "string",
		NUMBER:       "number",
		HASH_STRUCT:  "#struct",
		HASH_ENUM:    "#enum",
		AMPERSAND:    "&",
		STAR:         "*",
		DOLLAR:       "$",
		DOT:          ".",
		ELLIPSIS:     "...",
		COLON:        ":",
		DOUBLE_COLON: "::",
		EQUALS:       "=",
		COMMA:        ",",
		BRACE_L:      "{",
		BRACE_R:      "}",
		BRACKET_L:    "[",
		BRACKET_R:    "]",
		PAREN_L:      "(",
		PAREN_R:      ")",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Location identifies a position in a source stream.
type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int    // byte offset
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number in bytes (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

// LocationError is an error attributed to a source location.
type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
