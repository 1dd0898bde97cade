// Package lex declares token syntaxes: ordered tables of tagged rules that
// the parse package's tokenizer runs against character input.  Each rule
// produces a distinct token kind, so a grammar can match tokens by tag
// (the *TokenType itself is a parser term) or by content (a plain string
// term).
package lex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fuhongbo/parsec/term"
)

// A TokenType names one kind of token a Syntax can produce.  Used as a
// parser term, it matches any token of its kind on a token source, or its
// own rule on a text source.
type TokenType struct {
	name    string
	re      *regexp.Regexp // pattern rules, anchored
	matcher term.Term      // combinator rules
	skip    bool
}

// Name returns the declared tag name.
func (tt *TokenType) Name() string { return tt.name }

func (tt *TokenType) String() string { return tt.name }

// Pattern returns the compiled anchored pattern, or nil for rules declared
// from a combinator term.
func (tt *TokenType) Pattern() *regexp.Regexp { return tt.re }

// Matcher returns the combinator term for rules declared from one, or nil.
func (tt *TokenType) Matcher() term.Term { return tt.matcher }

// Skipped reports whether matches are dropped from the token stream.
func (tt *TokenType) Skipped() bool { return tt.skip }

// Token is one lexed token: its kind, the matched substring, and the byte
// offset it was matched at.
type Token struct {
	Type    *TokenType
	Content string
	Pos     int
}

// Is reports whether the token has the given kind.
func (t Token) Is(tt *TokenType) bool { return t.Type == tt }

func (t Token) String() string { return fmt.Sprintf("%s(%q)", t.Type.name, t.Content) }

// Syntax is an ordered table of token rules.  The tokenizer tries rules in
// declaration order at each position and the first match wins.
type Syntax struct {
	rules []*TokenType
}

// NewSyntax returns an empty rule table.
func NewSyntax() *Syntax { return &Syntax{} }

// Define adds a token rule.  The matcher may be a regular expression
// source string, a *regexp.Regexp, a *term.PatternNode, a
// *term.CharSetNode, or any other parser term; terms are evaluated by the
// parse driver against the text being lexed, which lets a rule consult
// context (Backtrack, Start, other token types).
func (s *Syntax) Define(name string, matcher interface{}) *TokenType {
	return s.add(name, matcher, false)
}

// Skip adds a rule whose matches are consumed but dropped from the token
// stream.
func (s *Syntax) Skip(name string, matcher interface{}) *TokenType {
	return s.add(name, matcher, true)
}

func (s *Syntax) add(name string, matcher interface{}, skip bool) *TokenType {
	tt := &TokenType{name: name, skip: skip}
	switch m := matcher.(type) {
	case string:
		tt.re = regexp.MustCompile(`^(?:` + m + `)`)
	case *regexp.Regexp:
		tt.re = regexp.MustCompile(`^(?:` + m.String() + `)`)
	case *term.PatternNode:
		tt.re = m.Re
	case *term.CharSetNode:
		tt.re = regexp.MustCompile(`^` + charClass(m.Chars))
	default:
		tt.matcher = m
	}
	s.rules = append(s.rules, tt)
	return tt
}

// Rules returns the rule table in declaration order.
func (s *Syntax) Rules() []*TokenType { return s.rules }

// Chars returns a pattern source matching one character from the set.
func Chars(chars string) string { return charClass(chars) }

func charClass(chars string) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range chars {
		switch r {
		case '\\', '[', ']', '^', '-':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte(']')
	return b.String()
}

// Error reports input no rule can match.
type Error struct {
	Pos int
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex: no rule matches input at offset %d", e.Pos)
}
