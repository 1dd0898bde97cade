// Package builtins provides ready-made terms for the value shapes that
// show up in nearly every grammar: numbers, identifiers, quoted strings,
// timestamps, uuids, and glob-matched content.
package builtins

import (
	"strconv"

	"github.com/araddon/dateparse"
	"github.com/mb0/glob"
	"github.com/pborman/uuid"

	"github.com/fuhongbo/parsec/lex"
	"github.com/fuhongbo/parsec/term"
)

var (
	// Int matches a run of digits and yields an int.
	Int = term.Transform(term.Pattern(`\d+`), func(v interface{}) interface{} {
		n, _ := strconv.Atoi(v.(string))
		return n
	})

	// Float matches a decimal number and yields a float64.
	Float = term.Transform(term.Pattern(`\d+\.\d+(?:[eE][+-]?\d+)?`),
		func(v interface{}) interface{} {
			f, _ := strconv.ParseFloat(v.(string), 64)
			return f
		})

	// Name matches an identifier-like word.
	Name = term.Pattern(`\w+`)

	// Whitespace matches a run of blank characters.
	Whitespace = term.Pattern(`\s+`)

	// QuotedString matches a double-quoted string with escapes and yields
	// the unquoted text.
	QuotedString = term.Bind(term.Pattern(`"(?:[^"\\]|\\.)*"`),
		func(v interface{}) term.Term {
			s, err := strconv.Unquote(v.(string))
			if err != nil {
				return term.Fail
			}
			return term.Return(s)
		})

	// DateTime matches a timestamp-shaped region and yields a time.Time.
	// Regions that look like a date but do not parse fail the term.
	DateTime = term.Bind(term.Pattern(datePattern), func(v interface{}) term.Term {
		ts, err := dateparse.ParseAny(v.(string))
		if err != nil {
			return term.Fail
		}
		return term.Return(ts)
	})

	// UUID matches the canonical hex-and-dash form and yields a uuid.UUID.
	UUID = term.Bind(
		term.Pattern(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`),
		func(v interface{}) term.Term {
			id := uuid.Parse(v.(string))
			if id == nil {
				return term.Fail
			}
			return term.Return(id)
		})
)

// digits, separators, optional time and zone; dateparse decides validity
const datePattern = `\d{1,4}[-/]\d{1,2}[-/]\d{1,4}(?:[T ]\d{1,2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:?\d{2})?)?`

// Glob matches one element whose content matches the glob pattern: the
// content of a lexed token, or a plain string element of a value source.
func Glob(pattern string) term.Term {
	return term.Where(func(v interface{}) bool {
		var s string
		switch e := v.(type) {
		case lex.Token:
			s = e.Content
		case string:
			s = e
		default:
			return false
		}
		ok, err := glob.Match(pattern, s)
		return err == nil && ok
	})
}
