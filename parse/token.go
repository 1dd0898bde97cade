package parse

import (
	u "github.com/araddon/gou"

	"github.com/fuhongbo/parsec/lex"
	"github.com/fuhongbo/parsec/term"
)

// Tokenize runs the syntax's rules against the text, producing the token
// stream.  Rules are tried in declaration order at each position and the
// first match wins; Skip rules consume input without emitting.  The rules
// share one driver, so combinator rules are memoized across positions
// like any other term.
func Tokenize(s *lex.Syntax, text string) ([]lex.Token, error) {
	p, err := newParser(text)
	if err != nil {
		return nil, err
	}
	toks := []lex.Token{}
	pos := 0
	for pos < len(text) {
		r := p.matchRule(s, pos)
		if !r.ok {
			//u.Debugf("no token rule at offset %d", pos)
			return nil, &lex.Error{Pos: pos}
		}
		tok := r.val.(lex.Token)
		if !tok.Type.Skipped() {
			toks = append(toks, tok)
		}
		pos = r.pos
	}
	return toks, nil
}

func (p *parser) matchRule(s *lex.Syntax, pos int) result {
	for _, tt := range s.Rules() {
		r := p.apply(tt, pos)
		// a zero-width match cannot produce a token
		if r.ok && r.pos > pos {
			return r
		}
	}
	return result{}
}

// TokenizeAndParse lexes the text to completion, then parses the token
// stream with the given term.
func TokenizeAndParse(s *lex.Syntax, t term.Term, text string) (interface{}, error) {
	toks, err := Tokenize(s, text)
	if err != nil {
		u.Debugf("tokenize failed: %v", err)
		return nil, err
	}
	return Parse(t, toks)
}
