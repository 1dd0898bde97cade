package parse

import (
	"fmt"

	u "github.com/araddon/gou"

	"github.com/fuhongbo/parsec/lex"
	"github.com/fuhongbo/parsec/term"
)

// A suspension is the runtime state machine for one composite term at one
// position.  The driver advances it by feeding it the result of its last
// sub-request; it answers with either another sub-request or its final
// result.  Suspensions never recurse into the driver.
type suspension interface {
	resume(p *parser, in result) step
}

// step is one suspension answer: a sub-request when done is false, the
// final result otherwise.
type step struct {
	t    term.Term
	pos  int
	done bool
	out  result
}

func ask(t term.Term, pos int) step { return step{t: t, pos: pos} }

func emit(v interface{}, pos int) step { return step{done: true, out: success(v, pos)} }

func reject() step { return step{done: true} }

func pass(in result) step { return step{done: true, out: in} }

var (
	_ suspension = (*seqSusp)(nil)
	_ suspension = (*pairSusp)(nil)
	_ suspension = (*orSusp)(nil)
	_ suspension = (*optSusp)(nil)
	_ suspension = (*expectSusp)(nil)
	_ suspension = (*transformSusp)(nil)
	_ suspension = (*bindSusp)(nil)
	_ suspension = (*requireSusp)(nil)
	_ suspension = (*listSusp)(nil)
	_ suspension = (*altSusp)(nil)
	_ suspension = (*reduceSusp)(nil)
	_ suspension = (*structSusp)(nil)
	_ suspension = (*tokenRuleSusp)(nil)
)

// suspend builds the state machine for a composite term.
func (p *parser) suspend(t term.Term, pos int) suspension {
	switch n := t.(type) {
	case *term.SeqNode:
		return &seqSusp{node: n, pos: pos}
	case *term.OptNode:
		return &optSusp{node: n, pos: pos}
	case *term.ExpectNode:
		return &expectSusp{node: n, pos: pos}
	case *term.LeftNode:
		return &pairSusp{a: n.A, b: n.B, pos: pos, mode: keepLeft}
	case *term.RightNode:
		return &pairSusp{a: n.A, b: n.B, pos: pos, mode: keepRight}
	case *term.AndNode:
		return &pairSusp{a: n.A, b: n.B, pos: pos, mode: lookahead}
	case *term.OrNode:
		return &orSusp{node: n, pos: pos}
	case *term.TransformNode:
		return &transformSusp{node: n, pos: pos}
	case *term.BindNode:
		return &bindSusp{node: n, pos: pos}
	case *term.RequireNode:
		return &requireSusp{node: n, pos: pos}
	case *term.ListNode:
		return &listSusp{node: n, pos: pos}
	case *term.AltNode:
		return &altSusp{node: n, pos: pos}
	case *term.ReduceNode:
		return &reduceSusp{node: n, pos: pos}
	case *term.StructNode:
		if n.Assoc != term.NonAssoc {
			return &reduceSusp{node: p.delegate(n), pos: pos}
		}
		return &structSusp{node: n, pos: pos}
	case *lex.TokenType:
		return &tokenRuleSusp{tt: n, pos: pos}
	}
	u.Warnf("cannot evaluate term %T", t)
	panic(fmt.Sprintf("parse: cannot evaluate term %T", t))
}

// seqSusp parses each item of a sequence in order, collecting the values.
type seqSusp struct {
	node    *term.SeqNode
	pos     int
	idx     int
	vals    []interface{}
	started bool
}

func (s *seqSusp) resume(p *parser, in result) step {
	if s.started {
		if !in.ok {
			return reject()
		}
		s.vals = append(s.vals, in.val)
		s.pos = in.pos
		s.idx++
	} else {
		s.started = true
		s.vals = make([]interface{}, 0, len(s.node.Items))
	}
	if s.idx >= len(s.node.Items) {
		return emit(s.vals, s.pos)
	}
	return ask(s.node.Items[s.idx], s.pos)
}

type pairMode int

const (
	keepLeft pairMode = iota
	keepRight
	lookahead
)

// pairSusp drives the two-term combinators: Left and Right sequence a
// then b from a's end, lookahead (And) runs b from the shared start and
// keeps a's consumption.
type pairSusp struct {
	a, b  term.Term
	pos   int
	mode  pairMode
	state int
	va    interface{}
	pa    int
}

func (s *pairSusp) resume(p *parser, in result) step {
	switch s.state {
	case 0:
		s.state = 1
		return ask(s.a, s.pos)
	case 1:
		if !in.ok {
			return reject()
		}
		s.va, s.pa = in.val, in.pos
		s.state = 2
		if s.mode == lookahead {
			return ask(s.b, s.pos)
		}
		return ask(s.b, s.pa)
	default:
		if !in.ok {
			return reject()
		}
		switch s.mode {
		case keepLeft:
			return emit(s.va, in.pos)
		case keepRight:
			return emit(in.val, in.pos)
		default:
			return emit(s.va, s.pa)
		}
	}
}

// orSusp is ordered choice: the second branch runs only if the first
// fails, from the same position.
type orSusp struct {
	node  *term.OrNode
	pos   int
	state int
}

func (s *orSusp) resume(p *parser, in result) step {
	switch s.state {
	case 0:
		s.state = 1
		return ask(s.node.A, s.pos)
	case 1:
		if in.ok {
			return pass(in)
		}
		s.state = 2
		return ask(s.node.B, s.pos)
	default:
		return pass(in)
	}
}

type optSusp struct {
	node    *term.OptNode
	pos     int
	started bool
}

func (s *optSusp) resume(p *parser, in result) step {
	if !s.started {
		s.started = true
		return ask(s.node.Term, s.pos)
	}
	if in.ok {
		return pass(in)
	}
	return emit(nil, s.pos)
}

type expectSusp struct {
	node    *term.ExpectNode
	pos     int
	started bool
}

func (s *expectSusp) resume(p *parser, in result) step {
	if !s.started {
		s.started = true
		return ask(s.node.Term, s.pos)
	}
	if !in.ok {
		return reject()
	}
	return emit(in.val, s.pos)
}

type transformSusp struct {
	node    *term.TransformNode
	pos     int
	started bool
}

func (s *transformSusp) resume(p *parser, in result) step {
	if !s.started {
		s.started = true
		return ask(s.node.Term, s.pos)
	}
	if !in.ok {
		return reject()
	}
	return emit(s.node.Fn(in.val), in.pos)
}

type bindSusp struct {
	node  *term.BindNode
	pos   int
	state int
}

func (s *bindSusp) resume(p *parser, in result) step {
	switch s.state {
	case 0:
		s.state = 1
		return ask(s.node.Term, s.pos)
	case 1:
		if !in.ok {
			return reject()
		}
		s.state = 2
		return ask(s.node.Fn(in.val), in.pos)
	default:
		return pass(in)
	}
}

type requireSusp struct {
	node    *term.RequireNode
	pos     int
	started bool
}

func (s *requireSusp) resume(p *parser, in result) step {
	if !s.started {
		s.started = true
		return ask(s.node.Term, s.pos)
	}
	if !in.ok || !s.node.Pred(in.val) {
		return reject()
	}
	return pass(in)
}

// listSusp is greedy repetition.  An iteration that succeeds without
// consuming terminates the loop and its value is discarded, so
// epsilon-producing terms cannot spin.
type listSusp struct {
	node    *term.ListNode
	pos     int
	vals    []interface{}
	started bool
}

func (s *listSusp) resume(p *parser, in result) step {
	if !s.started {
		s.started = true
		s.vals = []interface{}{}
		return ask(s.node.Term, s.pos)
	}
	if !in.ok || in.pos <= s.pos {
		if len(s.vals) < s.node.Min {
			return reject()
		}
		return emit(s.vals, s.pos)
	}
	s.vals = append(s.vals, in.val)
	s.pos = in.pos
	return ask(s.node.Term, s.pos)
}

// altSusp parses item (sep item)*, keeping only the item values.  A
// trailing separator is not consumed: the (sep, item) continuation fails
// or succeeds as a unit.
type altSusp struct {
	node  *term.AltNode
	pos   int
	vals  []interface{}
	state int
}

func (s *altSusp) resume(p *parser, in result) step {
	switch s.state {
	case 0:
		s.state = 1
		s.vals = []interface{}{}
		return ask(s.node.Item, s.pos)
	case 1:
		if !in.ok {
			return emit(s.vals, s.pos)
		}
		s.vals = append(s.vals, in.val)
		s.pos = in.pos
		s.state = 2
		return ask(s.node.Pair, s.pos)
	default:
		if !in.ok || in.pos <= s.pos {
			return emit(s.vals, s.pos)
		}
		pair := in.val.([]interface{})
		s.vals = append(s.vals, pair[1])
		s.pos = in.pos
		return ask(s.node.Pair, s.pos)
	}
}

// reduceSusp drives both infix reducers.  The left fold is iterative from
// the first atom, which is why left-recursive chains of any length cost
// constant stack.  The right fold collects (first, operator) prefixes and
// folds them over the final atom.  Both repetitions stop on any iteration
// that fails to advance the position.
type reduceSusp struct {
	node  *term.ReduceNode
	pos   int
	state int
	acc   interface{}
	lefts []interface{}
	ops   []interface{}
}

const (
	rStart = iota
	rFirst // waiting on First (left fold)
	rTail  // waiting on Tail (left fold loop)
	rPair  // waiting on Pair (right fold loop)
	rLast  // waiting on Last (right fold)
)

func (s *reduceSusp) resume(p *parser, in result) step {
	switch s.state {
	case rStart:
		if s.node.RightFold {
			s.state = rPair
			return ask(s.node.Pair, s.pos)
		}
		s.state = rFirst
		return ask(s.node.First, s.pos)

	case rFirst:
		if !in.ok {
			return reject()
		}
		s.acc, s.pos = in.val, in.pos
		s.state = rTail
		return ask(s.node.Tail, s.pos)

	case rTail:
		if !in.ok || in.pos <= s.pos {
			return emit(s.acc, s.pos)
		}
		vals := in.val.([]interface{})
		nmid := len(s.node.Mid)
		s.acc = s.node.Combine(s.acc, opValue(vals[:nmid]), vals[nmid])
		s.pos = in.pos
		return ask(s.node.Tail, s.pos)

	case rPair:
		if !in.ok || in.pos <= s.pos {
			s.state = rLast
			return ask(s.node.Last, s.pos)
		}
		vals := in.val.([]interface{})
		s.lefts = append(s.lefts, vals[0])
		s.ops = append(s.ops, opValue(vals[1:]))
		s.pos = in.pos
		return ask(s.node.Pair, s.pos)

	default: // rLast
		if !in.ok {
			return reject()
		}
		out, pos := in.val, in.pos
		for i := len(s.lefts) - 1; i >= 0; i-- {
			out = s.node.Combine(s.lefts[i], s.ops[i], out)
		}
		return emit(out, pos)
	}
}

func opValue(vals []interface{}) interface{} {
	if len(vals) == 1 {
		return vals[0]
	}
	out := make([]interface{}, len(vals))
	copy(out, vals)
	return out
}

// structSusp parses the fields of a struct descriptor in declared order
// and materializes the instance.
type structSusp struct {
	node    *term.StructNode
	pos     int
	idx     int
	vals    []interface{}
	started bool
}

func (s *structSusp) resume(p *parser, in result) step {
	if s.started {
		if !in.ok {
			return reject()
		}
		s.vals = append(s.vals, in.val)
		s.pos = in.pos
		s.idx++
	} else {
		s.started = true
		s.vals = make([]interface{}, 0, len(s.node.Fields))
	}
	if s.idx >= len(s.node.Fields) {
		return emit(s.node.New(s.vals...), s.pos)
	}
	return ask(s.node.Fields[s.idx].Term, s.pos)
}

// tokenRuleSusp evaluates a combinator-defined token rule against a text
// source, wrapping the matched span as a token of that kind.
type tokenRuleSusp struct {
	tt      *lex.TokenType
	pos     int
	started bool
}

func (s *tokenRuleSusp) resume(p *parser, in result) step {
	if !s.started {
		s.started = true
		return ask(s.tt.Matcher(), s.pos)
	}
	if !in.ok || in.pos < s.pos {
		return reject()
	}
	tok := lex.Token{Type: s.tt, Content: p.text[s.pos:in.pos], Pos: s.pos}
	return emit(tok, in.pos)
}
