// Copyright © 2025 The MON authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner(t *testing.T) {
	s := NewScanner("test", "abc def")
	assert.Equal(t, 3, s.AcceptSeq(func(c rune) bool { return c != ' ' }))
	tok := s.EmitToken(IDENT)
	assert.Equal(t, "abc", tok.Text)
	assert.Equal(t, 0, tok.Source.Pos)
	assert.Equal(t, 3, tok.End)

	assert.Equal(t, 1, s.AcceptSeqSpace())
	s.Ignore()
	s.AcceptSeq(func(c rune) bool { return true })
	tok = s.EmitToken(IDENT)
	assert.Equal(t, "def", tok.Text)
	assert.Equal(t, 4, tok.Source.Pos)
	assert.Equal(t, "test:1:5", tok.Source.String())
	assert.True(t, s.EOF())
	assert.False(t, s.Accept(func(rune) bool { return true }))
}

func TestScannerLoc(t *testing.T) {
	s := NewScanner("test", "12\n345\nx")
	var tokens []*Token
	for !s.EOF() {
		if s.AcceptSpace() {
			s.Ignore()
			continue
		}
		s.AcceptSeq(func(c rune) bool { return c != '\n' })
		tokens = append(tokens, s.EmitToken(NUMBER))
	}
	require.Len(t, tokens, 3)
	assert.Equal(t, "test:1:1", tokens[0].Source.String())
	assert.Equal(t, "test:2:1", tokens[1].Source.String())
	assert.Equal(t, 3, tokens[1].Source.Pos)
	assert.Equal(t, "test:3:1", tokens[2].Source.String())
	assert.Equal(t, 7, tokens[2].Source.Pos)
}

func TestScannerMultibyte(t *testing.T) {
	s := NewScanner("", "é:")
	require.True(t, s.Accept(func(c rune) bool { return c == 'é' }))
	assert.Equal(t, 'é', s.Rune())
	tok := s.EmitToken(IDENT)
	assert.Equal(t, 2, tok.End)
	assert.Equal(t, 3, s.LocStart().Col)
}

func TestScannerAcceptString(t *testing.T) {
	s := NewScanner("", "...*a")
	assert.False(t, s.AcceptString("...."))
	assert.Equal(t, "", s.Text())
	assert.True(t, s.AcceptString("..."))
	assert.Equal(t, "...", s.Text())
	assert.Equal(t, 'a', s.PeekN(1))
	assert.Equal(t, rune(0), s.PeekN(5))
}

func TestScannerInvalidUTF8(t *testing.T) {
	s := NewScanner("", "\xff")
	_, ok := s.Peek()
	assert.False(t, ok)
	assert.Error(t, s.Err())
	assert.Error(t, s.ScanRune())
}
