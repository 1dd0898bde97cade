package parse_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuhongbo/parsec/lex"
	"github.com/fuhongbo/parsec/parse"
	"github.com/fuhongbo/parsec/term"
)

func contents(toks []lex.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Content
	}
	return out
}

func TestTokenizeWordsAndSpaces(t *testing.T) {
	t.Parallel()
	T := lex.NewSyntax()
	T.Define("Word", `\w+`)
	T.Define("Space", `\s+`)

	toks, err := parse.Tokenize(T, "A B C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", " ", "B", " ", "C"}, contents(toks))
}

func TestTokenizeWithRegexMatchers(t *testing.T) {
	t.Parallel()
	T := lex.NewSyntax()
	T.Define("Word", term.Pattern(`\w+`))
	T.Define("Space", regexp.MustCompile(`\s+`))

	toks, err := parse.Tokenize(T, "A B C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", " ", "B", " ", "C"}, contents(toks))
}

func TestTokenizeSkip(t *testing.T) {
	t.Parallel()
	T := lex.NewSyntax()
	number := T.Define("Number", `\d+`)
	T.Skip("Space", `\s+`)

	toks, err := parse.Tokenize(T, "1 2 3")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, []string{"1", "2", "3"}, contents(toks))
	for i, tok := range toks {
		assert.True(t, tok.Is(number))
		assert.Equal(t, string(rune('1'+i)), tok.Content)
	}
}

func TestTokenizeCharSet(t *testing.T) {
	t.Parallel()
	T := lex.NewSyntax()
	T.Define("Symbol", term.AnyChar("(.*[;,])?"))

	sample := "[]().*;;"
	toks, err := parse.Tokenize(T, sample)
	require.NoError(t, err)
	assert.Equal(t, []string{"[", "]", "(", ")", ".", "*", ";", ";"}, contents(toks))
}

func TestTokenizeFailure(t *testing.T) {
	t.Parallel()
	T := lex.NewSyntax()
	T.Define("Number", `\d+`)

	_, err := parse.Tokenize(T, "12ab")
	require.Error(t, err)
	lexErr, ok := err.(*lex.Error)
	require.True(t, ok)
	assert.Equal(t, 2, lexErr.Pos)
}

func TestTokenizeIndentation(t *testing.T) {
	t.Parallel()
	// Backtrack looks at the previous character: if it was a newline, or
	// if there is nothing to look back at, this is the start of a line.
	T := lex.NewSyntax()
	word := T.Define("Word", `\w+`)
	newline := T.Define("Newline", `[\n\r]`)
	startline := term.Or(term.Right(term.Backtrack, newline), term.Start)
	indent := T.Define("Indent", term.Right(startline, term.Pattern(`[ \t]+`)))

	toks, err := parse.Tokenize(T, "  foo\n    bar\n   baz\nqux")
	require.NoError(t, err)

	assert.True(t, toks[0].Is(indent))
	assert.True(t, toks[1].Is(word))
	assert.True(t, toks[2].Is(newline))
	assert.True(t, toks[3].Is(indent))
	assert.True(t, toks[6].Is(indent))
	assert.Equal(t, []string{
		"  ", "foo", "\n",
		"    ", "bar", "\n",
		"   ", "baz", "\n",
		"qux",
	}, contents(toks))
}

func TestTokenizeSentence(t *testing.T) {
	t.Parallel()
	T := lex.NewSyntax()
	T.Skip("Space", `\s+`)
	T.Define("Word", `[a-zA-Z_][a-zA-Z_0-9]*`)
	T.Skip("Symbol", term.AnyChar(",.;"))

	toks, err := parse.Tokenize(T, "This is a test, everybody.")
	require.NoError(t, err)
	assert.Equal(t, []string{"This", "is", "a", "test", "everybody"}, contents(toks))
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	T := lex.NewSyntax()
	number := T.Define("Number", `\d+`)
	T.Define("Operator", term.AnyChar("+-"))
	T.Skip("Space", `\s+`)

	sum := term.ReduceLeft(number, term.Or("+", "-"), number)
	ans, err := parse.TokenizeAndParse(T, sum, "1 + 2 - 3")
	require.NoError(t, err)

	outer := ans.([]interface{})
	assert.Equal(t, "-", outer[1])
	assert.Equal(t, "3", outer[2].(lex.Token).Content)

	inner := outer[0].([]interface{})
	assert.Equal(t, "+", inner[1])
	assert.Equal(t, "1", inner[0].(lex.Token).Content)
	assert.Equal(t, "2", inner[2].(lex.Token).Content)
}

func TestTokenizeAndParseCalc(t *testing.T) {
	t.Parallel()
	T := lex.NewSyntax()
	T.Skip("Space", `\s+`)
	number := T.Define("Number", `\d+`)
	T.Define("Operator", term.AnyChar("+*-/"))

	operand := term.Term(number)
	product := term.LeftAssoc("Product",
		term.F("left", operand),
		term.F("operator", term.Or("/", "*")),
		term.F("right", operand),
	)
	sum := term.LeftAssoc("Sum",
		term.F("left", term.Or(product, operand)),
		term.F("operator", term.Or("+", "-")),
		term.F("right", term.Or(product, operand)),
	)

	ans, err := parse.TokenizeAndParse(T, sum, "1 + 2 * 3 - 4")
	require.NoError(t, err)
	inst, ok := ans.(*term.Instance)
	require.True(t, ok)
	assert.True(t, inst.Is(sum))

	right := inst.Get("right").(lex.Token)
	assert.Equal(t, "4", right.Content)

	left := inst.Get("left").(*term.Instance)
	assert.True(t, left.Is(sum))
	mul := left.Get("right").(*term.Instance)
	assert.True(t, mul.Is(product))
	assert.Equal(t, "2", mul.Get("left").(lex.Token).Content)
	assert.Equal(t, "3", mul.Get("right").(lex.Token).Content)
}
