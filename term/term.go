// Package term defines the grammar algebra: every combinator is an
// immutable value, and composing combinators builds a term graph that the
// parse package evaluates against a character or token source.
//
// Plain Go values participate directly as terms.  A string matches itself
// as text (or as token content on a token source), nil succeeds with no
// value and consumes nothing, a *regexp.Regexp matches anchored at the
// current position, and any other value matches one equal element of a
// value source.
package term

import (
	"regexp"
	"sync"
)

// A Term describes a grammar.  Composite terms are pointers to the node
// types in this package; a plain string, nil, *regexp.Regexp, or any other
// literal value is also a valid Term.
type Term interface{}

type (
	// ReturnNode succeeds without consuming input, yielding Val.
	ReturnNode struct{ Val interface{} }

	// LiteralNode matches one element of a token or value source whose
	// content (or value) equals Val.
	LiteralNode struct{ Val interface{} }

	// PatternNode matches an anchored regular expression on a text source
	// and yields the matched substring.
	PatternNode struct{ Re *regexp.Regexp }

	// CharSetNode matches a single character contained in Chars.
	CharSetNode struct{ Chars string }

	// WhereNode consumes one element if Pred accepts it.
	WhereNode struct{ Pred func(interface{}) bool }

	// AnyNode consumes exactly one element.
	AnyNode struct{}

	// StartNode succeeds only at position zero, consuming nothing.
	StartNode struct{}

	// EndNode succeeds only at end of source, consuming nothing.
	EndNode struct{}

	// BacktrackNode succeeds yielding the previous position, letting a
	// grammar re-examine the element it just passed.
	BacktrackNode struct{}

	// FailNode never matches.  It is the identity of Or.
	FailNode struct{}
)

var (
	// Any consumes exactly one element of the source.
	Any = &AnyNode{}
	// Start matches only at the beginning of the source.
	Start = &StartNode{}
	// End matches only at the end of the source.
	End = &EndNode{}
	// Backtrack rewinds one position so the previous element can be
	// examined again, e.g. "was the last token a newline?".
	Backtrack = &BacktrackNode{}
	// Fail matches nothing.
	Fail = &FailNode{}
)

// Return succeeds without consuming, yielding v.
func Return(v interface{}) *ReturnNode { return &ReturnNode{Val: v} }

// Literal matches one element equal to v.  Unlike a plain string term,
// Literal(nil) really does require a nil element; a bare nil term is
// Return(nil).
func Literal(v interface{}) *LiteralNode { return &LiteralNode{Val: v} }

// Pattern compiles expr and matches it anchored at the current position,
// yielding the matched substring.
func Pattern(expr string) *PatternNode {
	return &PatternNode{Re: regexp.MustCompile(`^(?:` + expr + `)`)}
}

// Regex wraps an existing regular expression as an anchored pattern term.
func Regex(re *regexp.Regexp) *PatternNode {
	return &PatternNode{Re: regexp.MustCompile(`^(?:` + re.String() + `)`)}
}

// AnyChar matches one character from the set.
func AnyChar(chars string) *CharSetNode { return &CharSetNode{Chars: chars} }

// Where consumes one element if pred accepts it.
func Where(pred func(interface{}) bool) *WhereNode { return &WhereNode{Pred: pred} }

// RefNode is a forward reference: on first use it invokes its thunk to
// obtain a concrete term and thereafter forwards to it, so recursive
// grammars can be declared without cyclic construction order.
type RefNode struct {
	once sync.Once
	fn   func() Term
	term Term
}

// ForwardRef defers resolution of a term until it is first used.
func ForwardRef(fn func() Term) *RefNode { return &RefNode{fn: fn} }

// Resolve returns the concrete term, invoking the thunk on first call.
func (r *RefNode) Resolve() Term {
	r.once.Do(func() { r.term = r.fn() })
	return r.term
}
