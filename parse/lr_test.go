package parse

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ictioglot/grammar"
	"github.com/dekarrin/ictioglot/lex"
	"github.com/dekarrin/ictioglot/parseerr"
)

func idAction(_ any, full []any) (any, error) {
	tok := full[0].(lex.Token)
	return strconv.Atoi(tok.Lexeme())
}

func plusAction(_ any, full []any) (any, error) {
	return full[0].(int) + full[2].(int), nil
}

func starAction(_ any, full []any) (any, error) {
	return full[0].(int) * full[2].(int), nil
}

func tok(class, lexeme string) lex.Token {
	return lex.NewToken(lex.MakeDefaultClass(class), lexeme, 1, 1, lexeme, 0, len(lexeme), "test")
}

// sliceStream feeds a fixed list of tokens, then a nil token to signal EOF.
type sliceStream struct {
	toks []lex.Token
	pos  int
}

func (s *sliceStream) Next() (lex.Token, error) {
	if s.pos >= len(s.toks) {
		return nil, nil
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

func newArithParser(t *testing.T, ctx *ParserContext) *Parser {
	t.Helper()
	g := buildArithGrammar(t)
	table, warnings, err := GenerateSLRTable(*g)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return New(table, *g, ctx)
}

func Test_Parser_ArithPrecedence(t *testing.T) {
	cases := []struct {
		name   string
		tokens []lex.Token
		want   int
	}{
		{
			name: "plus then star binds tighter",
			tokens: []lex.Token{
				tok("id", "2"), tok("plus", "+"), tok("id", "3"), tok("star", "*"), tok("id", "4"),
			},
			want: 2 + 3*4,
		},
		{
			name: "star then plus binds tighter",
			tokens: []lex.Token{
				tok("id", "2"), tok("star", "*"), tok("id", "3"), tok("plus", "+"), tok("id", "4"),
			},
			want: 2*3 + 4,
		},
		{
			name: "left associative chain of plus",
			tokens: []lex.Token{
				tok("id", "1"), tok("plus", "+"), tok("id", "2"), tok("plus", "+"), tok("id", "3"),
			},
			want: 1 + 2 + 3,
		},
		{
			name: "left associative chain of star",
			tokens: []lex.Token{
				tok("id", "2"), tok("star", "*"), tok("id", "3"), tok("star", "*"), tok("id", "4"),
			},
			want: 2 * 3 * 4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newArithParser(t, nil)
			stream := &sliceStream{toks: tc.tokens}
			result, err := p.Parse(stream)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result)
		})
	}
}

func Test_Parser_Reset_allowsReuseOfCompiledTable(t *testing.T) {
	p := newArithParser(t, nil)

	first, err := p.Parse(&sliceStream{toks: []lex.Token{tok("id", "1"), tok("plus", "+"), tok("id", "1")}})
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	p.Reset()

	second, err := p.Parse(&sliceStream{toks: []lex.Token{tok("id", "5"), tok("star", "*"), tok("id", "5")}})
	require.NoError(t, err)
	assert.Equal(t, 25, second)
}

func Test_Parser_UnknownToken(t *testing.T) {
	p := newArithParser(t, nil)
	err := p.Feed(tok("bogus", "?"))
	require.Error(t, err)
	kind, ok := parseerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, parseerr.KindUnknownToken, kind)
}

func Test_Parser_SyntaxError(t *testing.T) {
	p := newArithParser(t, nil)
	// "id plus plus" - a second operator can never follow an operator.
	err := p.Feed(tok("id", "1"))
	require.NoError(t, err)
	err = p.Feed(tok("plus", "+"))
	require.NoError(t, err)
	err = p.Feed(tok("plus", "+"))
	require.Error(t, err)
	kind, ok := parseerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, parseerr.KindSyntaxError, kind)
}

// buildOptionalGrammar builds RULE -> a b? c, where reduction returns the
// full-arity operand slice verbatim so the test can inspect the spliced nil.
func buildOptionalGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New()
	for _, term := range []string{"a", "b", "c"} {
		g.AddTerm(term, termClass(term))
	}
	action := func(_ any, full []any) (any, error) { return full, nil }
	require.NoError(t, g.AddProductionRule("RULE", []string{"a", "b", "c"}, []bool{false, true, false}, 0, grammar.NonAssoc, nil, action))
	g.AddStart("RULE")
	return g
}

func Test_Parser_OptionalSymbol_present(t *testing.T) {
	g := buildOptionalGrammar(t)
	table, warnings, err := GenerateSLRTable(*g)
	require.NoError(t, err)
	require.Empty(t, warnings)

	p := New(table, *g, nil)
	result, err := p.Parse(&sliceStream{toks: []lex.Token{tok("a", "a"), tok("b", "b"), tok("c", "c")}})
	require.NoError(t, err)

	full := result.([]any)
	require.Len(t, full, 3)
	assert.NotNil(t, full[1])
	assert.Equal(t, "b", full[1].(lex.Token).Lexeme())
}

func Test_Parser_OptionalSymbol_omitted(t *testing.T) {
	g := buildOptionalGrammar(t)
	table, warnings, err := GenerateSLRTable(*g)
	require.NoError(t, err)
	require.Empty(t, warnings)

	p := New(table, *g, nil)
	result, err := p.Parse(&sliceStream{toks: []lex.Token{tok("a", "a"), tok("c", "c")}})
	require.NoError(t, err)

	full := result.([]any)
	require.Len(t, full, 3)
	assert.Nil(t, full[1])
	assert.Equal(t, "a", full[0].(lex.Token).Lexeme())
	assert.Equal(t, "c", full[2].(lex.Token).Lexeme())
}

// buildDanglingElseGrammar builds the classic S -> if id S | if id S else S |
// id, attaching a Decision to the short alternative so a caller's context can
// override the default shift-favors-nearest-else behavior at runtime.
func buildDanglingElseGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g := grammar.New()
	for _, term := range []string{"if", "else", "id"} {
		g.AddTerm(term, termClass(term))
	}

	shortAction := func(_ any, full []any) (any, error) {
		return "if(" + full[2].(string) + ")", nil
	}
	fullAction := func(_ any, full []any) (any, error) {
		return "if(" + full[2].(string) + ")else(" + full[4].(string) + ")", nil
	}
	idAction := func(_ any, full []any) (any, error) {
		return full[0].(lex.Token).Lexeme(), nil
	}
	decideReduceNow := func(ctx any, _ []any, lookahead string) bool {
		if lookahead != "else" {
			return true
		}
		forceReduce, _ := ctx.(bool)
		return forceReduce
	}

	require.NoError(t, g.AddProductionRule("S", []string{"if", "id", "S"}, nil, 0, grammar.NonAssoc, decideReduceNow, shortAction))
	require.NoError(t, g.AddProductionRule("S", []string{"if", "id", "S", "else", "S"}, nil, 0, grammar.NonAssoc, nil, fullAction))
	require.NoError(t, g.AddProductionRule("S", []string{"id"}, nil, 0, grammar.NonAssoc, nil, idAction))
	g.AddStart("S")
	return g
}

func Test_Parser_Decision_elseBindsToNearestIf(t *testing.T) {
	g := buildDanglingElseGrammar(t)
	table, _, err := GenerateSLRTable(*g)
	require.NoError(t, err)

	ctx := NewParserContext(false) // never force an early reduce: shift wins, else binds to the nearest if
	p := New(table, *g, ctx)

	toks := []lex.Token{
		tok("if", "if"), tok("id", "a"),
		tok("if", "if"), tok("id", "b"), tok("id", "c"), tok("else", "else"), tok("id", "d"),
	}
	result, err := p.Parse(&sliceStream{toks: toks})
	require.NoError(t, err)
	assert.Equal(t, "if(if(c)else(d))", result)
}

func Test_Parser_Decision_forcedReduceLeavesElseUnconsumed(t *testing.T) {
	g := buildDanglingElseGrammar(t)
	table, _, err := GenerateSLRTable(*g)
	require.NoError(t, err)

	ctx := NewParserContext(true) // force the reduce as soon as it's legal, even with "else" waiting
	p := New(table, *g, ctx)

	toks := []lex.Token{
		tok("if", "if"), tok("id", "a"),
		tok("if", "if"), tok("id", "b"), tok("id", "c"), tok("else", "else"), tok("id", "d"),
	}
	var err2 error
	for _, to := range toks {
		if err2 = p.Feed(to); err2 != nil {
			break
		}
	}
	require.Error(t, err2)
	kind, ok := parseerr.KindOf(err2)
	require.True(t, ok)
	assert.Equal(t, parseerr.KindSyntaxError, kind)
}
