/*
Package parse executes grammar terms against a character, token, or value
source.

The driver is a packrat interpreter.  Every composite (term, position)
pair is evaluated at most once per parse, and evaluation runs on an
explicit work stack of suspended combinators, so grammars nested hundreds
of levels deep cannot exhaust the host call stack.

Usage

	Int := term.Transform(term.Pattern(`\d+`), toInt)
	Add := term.ReduceLeft(Int, "+", Int)

	ans, err := parse.Parse(Add, "1+2+3")

Parse requires the whole source to be consumed; ParsePrefix consumes a
prefix and reports the stop position.  Tokenize runs a lex.Syntax to
completion, and TokenizeAndParse chains the two phases.
*/
package parse

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	u "github.com/araddon/gou"

	"github.com/fuhongbo/parsec/lex"
	"github.com/fuhongbo/parsec/term"
)

var _ = u.EMPTY

// Result is a prefix-parse answer: the parsed value and the position the
// parse stopped at.
type Result struct {
	Value interface{}
	Pos   int
}

// Error is the single parse failure kind.  Pos is the furthest offset at
// which a matcher failed, attached as a diagnostic.
type Error struct {
	Pos int
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse: no match (furthest failure at offset %d)", e.Pos)
}

// Parse evaluates the term against the whole source and returns its value.
// It fails if the source is not fully consumed.
func Parse(t term.Term, source interface{}) (interface{}, error) {
	ans, err := ParsePrefix(term.Left(t, term.End), source)
	if err != nil {
		return nil, err
	}
	return ans.Value, nil
}

// ParsePrefix evaluates the term against a prefix of the source and
// returns the value together with the stop position.
func ParsePrefix(t term.Term, source interface{}) (*Result, error) {
	p, err := newParser(source)
	if err != nil {
		return nil, err
	}
	ans := p.apply(t, 0)
	if !ans.ok {
		//u.Debugf("parse failed, furthest=%d", p.furthest)
		return nil, &Error{Pos: p.furthest}
	}
	return &Result{Value: ans.val, Pos: ans.pos}, nil
}

type sourceKind int

const (
	textSource sourceKind = iota
	tokenSource
	valueSource
)

// parser owns the state of one parse invocation: the source, the memo
// table, the work stack, and the reducer delegates compiled for
// associative structs.
type parser struct {
	kind   sourceKind
	text   string
	toks   []lex.Token
	vals   []interface{}
	length int

	memo      map[memoKey]result
	stack     []frame
	delegates map[*term.StructNode]*term.ReduceNode
	furthest  int
}

type memoKey struct {
	t   term.Term
	pos int
}

// result is a definitive parse answer for one (term, position) pair.  The
// zero value is failure.
type result struct {
	val interface{}
	pos int
	ok  bool
}

func success(v interface{}, pos int) result { return result{val: v, pos: pos, ok: true} }

type frame struct {
	key  memoKey
	susp suspension
}

func newParser(source interface{}) (*parser, error) {
	p := &parser{memo: make(map[memoKey]result)}
	switch src := source.(type) {
	case string:
		p.kind, p.text, p.length = textSource, src, len(src)
	case []lex.Token:
		p.kind, p.toks, p.length = tokenSource, src, len(src)
	case []interface{}:
		p.kind, p.vals, p.length = valueSource, src, len(src)
	default:
		rv := reflect.ValueOf(source)
		if !rv.IsValid() || rv.Kind() != reflect.Slice {
			return nil, fmt.Errorf("parse: unsupported source type %T", source)
		}
		vals := make([]interface{}, rv.Len())
		for i := range vals {
			vals[i] = rv.Index(i).Interface()
		}
		p.kind, p.vals, p.length = valueSource, vals, len(vals)
	}
	return p, nil
}

// apply fully evaluates one term at one position, driving the work stack
// until the answer for that pair is known.  Suspensions never call back
// into apply; the loop here is the only recursion-free engine.
func (p *parser) apply(t term.Term, pos int) result {
	base := len(p.stack)
	ans, _ := p.start(t, pos)
	for len(p.stack) > base {
		top := p.stack[len(p.stack)-1]
		st := top.susp.resume(p, ans)
		if !st.done {
			ans, _ = p.start(st.t, st.pos)
			continue
		}
		p.stack = p.stack[:len(p.stack)-1]
		p.memo[top.key] = st.out
		ans = st.out
	}
	return ans
}

// start begins one (term, position) evaluation.  Memoized pairs and
// primitive matchers resolve immediately; composite terms push a
// suspension.  A tentative failure is seeded into the memo for every
// pending pair, which is what terminates left-recursive reentry: the
// inner occurrence reads the seed and fails, and the iterative reducer
// carries on from there.
func (p *parser) start(t term.Term, pos int) (result, bool) {
	t = p.resolve(t)
	if !p.composite(t) {
		r := p.prim(t, pos)
		if !r.ok && pos > p.furthest {
			p.furthest = pos
		}
		return r, false
	}
	key := memoKey{t: t, pos: pos}
	if r, hit := p.memo[key]; hit {
		return r, false
	}
	p.memo[key] = result{}
	p.stack = append(p.stack, frame{key: key, susp: p.suspend(t, pos)})
	return result{}, true
}

// resolve unwraps forward references until a concrete term is reached, so
// the concrete term is what participates in memoization.
func (p *parser) resolve(t term.Term) term.Term {
	for {
		ref, ok := t.(*term.RefNode)
		if !ok {
			return t
		}
		t = ref.Resolve()
	}
}

// composite reports whether the term needs a suspension.  Everything else
// is a primitive matcher resolved in one step.
func (p *parser) composite(t term.Term) bool {
	switch n := t.(type) {
	case *term.SeqNode, *term.OptNode, *term.ExpectNode, *term.LeftNode,
		*term.RightNode, *term.OrNode, *term.AndNode, *term.TransformNode,
		*term.BindNode, *term.RequireNode, *term.ListNode, *term.AltNode,
		*term.ReduceNode, *term.StructNode:
		return true
	case *lex.TokenType:
		// a combinator-defined token rule is driven against the text
		return p.kind == textSource && n.Matcher() != nil
	}
	return false
}

// prim matches a primitive term at pos.
func (p *parser) prim(t term.Term, pos int) result {
	switch n := t.(type) {
	case nil:
		return success(nil, pos)
	case string:
		return p.matchText(n, pos)
	case *regexp.Regexp:
		return p.matchPattern(n, pos)
	case *term.PatternNode:
		return p.matchPattern(n.Re, pos)
	case *term.CharSetNode:
		if p.kind == textSource && pos < p.length &&
			strings.ContainsRune(n.Chars, rune(p.text[pos])) {
			return success(p.text[pos:pos+1], pos+1)
		}
		return result{}
	case *term.ReturnNode:
		return success(n.Val, pos)
	case *term.LiteralNode:
		return p.matchLiteral(n.Val, pos)
	case *lex.TokenType:
		return p.matchTokenType(n, pos)
	case *term.AnyNode:
		if pos < p.length {
			return success(p.elem(pos), pos+1)
		}
		return result{}
	case *term.WhereNode:
		if pos < p.length && n.Pred(p.elem(pos)) {
			return success(p.elem(pos), pos+1)
		}
		return result{}
	case *term.StartNode:
		if pos == 0 {
			return success(nil, pos)
		}
		return result{}
	case *term.EndNode:
		if pos == p.length {
			return success(nil, pos)
		}
		return result{}
	case *term.BacktrackNode:
		if pos > 0 {
			return success(nil, pos-1)
		}
		return result{}
	case *term.FailNode:
		return result{}
	default:
		// any other plain value is a literal
		return p.matchLiteral(t, pos)
	}
}

func (p *parser) matchText(s string, pos int) result {
	switch p.kind {
	case textSource:
		if strings.HasPrefix(p.text[pos:], s) {
			return success(s, pos+len(s))
		}
	case tokenSource:
		if pos < p.length && p.toks[pos].Content == s {
			return success(s, pos+1)
		}
	default:
		if pos < p.length {
			if v, ok := p.vals[pos].(string); ok && v == s {
				return success(s, pos+1)
			}
		}
	}
	return result{}
}

// matchPattern matches a regular expression anchored at pos on a text
// source, yielding the matched substring.  Patterns never match token or
// value sources.
func (p *parser) matchPattern(re *regexp.Regexp, pos int) result {
	if p.kind != textSource {
		return result{}
	}
	loc := re.FindStringIndex(p.text[pos:])
	if loc == nil || loc[0] != 0 {
		return result{}
	}
	return success(p.text[pos:pos+loc[1]], pos+loc[1])
}

func (p *parser) matchLiteral(v interface{}, pos int) result {
	if pos >= p.length {
		return result{}
	}
	switch p.kind {
	case tokenSource:
		if s, ok := v.(string); ok && p.toks[pos].Content == s {
			return success(v, pos+1)
		}
	case valueSource:
		if reflect.DeepEqual(p.vals[pos], v) {
			return success(v, pos+1)
		}
	}
	return result{}
}

// matchTokenType matches a token tag.  On a token source tags compare by
// identity and yield the token itself; on a text source a pattern rule
// matches directly and wraps the span as a token of its kind.
func (p *parser) matchTokenType(tt *lex.TokenType, pos int) result {
	switch p.kind {
	case tokenSource:
		if pos < p.length && p.toks[pos].Type == tt {
			return success(p.toks[pos], pos+1)
		}
	case textSource:
		if re := tt.Pattern(); re != nil {
			if r := p.matchPattern(re, pos); r.ok {
				tok := lex.Token{Type: tt, Content: r.val.(string), Pos: pos}
				return success(tok, r.pos)
			}
		}
	}
	return result{}
}

// elem returns the source element at pos: a one-character string on text
// sources, the token or raw value otherwise.
func (p *parser) elem(pos int) interface{} {
	switch p.kind {
	case textSource:
		return p.text[pos : pos+1]
	case tokenSource:
		return p.toks[pos]
	default:
		return p.vals[pos]
	}
}

// delegate returns the reducer compiled for an associative struct,
// building it on first use.  Delegates live for one parse invocation.
func (p *parser) delegate(n *term.StructNode) *term.ReduceNode {
	if p.delegates == nil {
		p.delegates = make(map[*term.StructNode]*term.ReduceNode)
	}
	if d, ok := p.delegates[n]; ok {
		return d
	}
	d := n.ReduceTerm()
	p.delegates[n] = d
	return d
}
