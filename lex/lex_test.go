package lex_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuhongbo/parsec/lex"
	"github.com/fuhongbo/parsec/term"
)

func TestDefineCompilesAnchored(t *testing.T) {
	t.Parallel()
	s := lex.NewSyntax()
	number := s.Define("Number", `\d+`)

	re := number.Pattern()
	require.NotNil(t, re)
	loc := re.FindStringIndex("123abc")
	require.NotNil(t, loc)
	assert.Equal(t, []int{0, 3}, loc)
	assert.Nil(t, re.FindStringIndex("abc123"))
}

func TestDefineMatcherKinds(t *testing.T) {
	t.Parallel()
	s := lex.NewSyntax()
	a := s.Define("A", `\w+`)
	b := s.Define("B", regexp.MustCompile(`\s+`))
	c := s.Define("C", term.Pattern(`\d+`))
	d := s.Define("D", term.AnyChar("+-"))
	e := s.Define("E", term.Right(term.Start, term.Pattern(`x`)))

	for _, tt := range []*lex.TokenType{a, b, c, d} {
		assert.NotNil(t, tt.Pattern(), tt.Name())
		assert.Nil(t, tt.Matcher(), tt.Name())
	}
	assert.Nil(t, e.Pattern())
	assert.NotNil(t, e.Matcher())
}

func TestRulesKeepOrder(t *testing.T) {
	t.Parallel()
	s := lex.NewSyntax()
	s.Define("A", `a`)
	s.Skip("B", `b`)
	s.Define("C", `c`)

	rules := s.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, "A", rules[0].Name())
	assert.Equal(t, "B", rules[1].Name())
	assert.Equal(t, "C", rules[2].Name())
	assert.False(t, rules[0].Skipped())
	assert.True(t, rules[1].Skipped())
}

func TestChars(t *testing.T) {
	t.Parallel()
	re := regexp.MustCompile(`^` + lex.Chars(`+*-/[]^\`))
	for _, c := range []string{"+", "*", "-", "/", "[", "]", "^", `\`} {
		assert.True(t, re.MatchString(c), c)
	}
	assert.False(t, re.MatchString("a"))
}

func TestTokenString(t *testing.T) {
	t.Parallel()
	s := lex.NewSyntax()
	number := s.Define("Number", `\d+`)
	tok := lex.Token{Type: number, Content: "42", Pos: 7}
	assert.Equal(t, `Number("42")`, tok.String())
	assert.True(t, tok.Is(number))
	assert.Equal(t, "Number", number.String())
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()
	err := &lex.Error{Pos: 5}
	assert.Contains(t, err.Error(), "offset 5")
}
