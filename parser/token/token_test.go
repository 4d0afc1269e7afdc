// Copyright © 2025 The MON authors

package token

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", Type(numTokenTypes+1).String())
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "a.mon", (&Location{File: "a.mon", Pos: -1}).String())
	assert.Equal(t, "a.mon[4]", (&Location{File: "a.mon", Pos: 4}).String())
	assert.Equal(t, "a.mon:2", (&Location{File: "a.mon", Pos: 4, Line: 2}).String())
	assert.Equal(t, "a.mon:2:3", (&Location{File: "a.mon", Pos: 4, Line: 2, Col: 3}).String())
}

func TestLocationError(t *testing.T) {
	base := errors.New("boom")
	err := &LocationError{Err: base, Source: &Location{File: "x", Line: 1, Col: 2}}
	assert.Equal(t, "x:1:2: boom", err.Error())
	assert.ErrorIs(t, err, base)
}
