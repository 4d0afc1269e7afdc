// Copyright © 2025 The MON authors

package parser

import (
	"errors"

	"github.com/mon-lang/mon/ast"
	"github.com/mon-lang/mon/parser/token"
)

// ParseError is a syntax error with enough context to render an annotated
// source snippet: the offending byte span, a short label for the span and a
// help message.
type ParseError struct {
	File    string
	Span    ast.Span
	Message string
	Label   string
	Help    string
	Source  *token.Location
}

func (err *ParseError) Error() string {
	return err.Unwrap().Error()
}

// Unwrap returns the error as a *token.LocationError.
func (err *ParseError) Unwrap() error {
	loc := err.Source
	if loc == nil {
		loc = &token.Location{File: err.File, Pos: err.Span.Start}
	}
	return &token.LocationError{Err: errors.New(err.Message), Source: loc}
}

// fallbackSpan is used when no token position is available.
func fallbackSpan(source string) ast.Span {
	end := len(source)
	if end > 100 {
		end = 100
	}
	return ast.Span{Start: 0, End: end}
}

// expectation describes the message, label and help attached to a missing
// token.
type expectation struct {
	message string
	label   string
	help    string
}

var expectations = map[token.Type]expectation{
	token.BRACE_R: {
		message: "unexpected token, expected '}'",
		label:   "expected '}' here - did you forget to close an object?",
		help:    "Make sure all objects are properly closed with '}'. Check for missing commas between key-value pairs.",
	},
	token.BRACKET_R: {
		message: "unexpected token, expected ']'",
		label:   "expected ']' here - did you forget to close an array?",
		help:    "Make sure all arrays are properly closed with ']'. Check for missing commas between array elements.",
	},
	token.COMMA: {
		message: "unexpected token, expected ','",
		label:   "expected ',' here",
		help:    "MON requires commas between object fields and array elements. Add a comma after the previous item.",
	},
	token.COLON: {
		message: "unexpected token, expected ':'",
		label:   "expected ':' after key",
		help:    "Object keys must be followed by a colon ':' before the value.",
	},
}

func expectationFor(typ token.Type) expectation {
	if e, ok := expectations[typ]; ok {
		return e
	}
	return expectation{
		message: "unexpected token, expected " + typ.String(),
		label:   "expected " + typ.String() + " here",
		help:    "Check the syntax at this location. Expected: " + typ.String(),
	}
}

const (
	eofLabel = "unexpected end of file - missing closing bracket?"
	eofHelp  = "The file ended unexpectedly. Make sure all objects {...} and arrays [...] are properly closed."
)
