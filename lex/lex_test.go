package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ictioglot/lexerr"
)

func feedAll(t *testing.T, l *Lexer, s string) ([]Token, error) {
	t.Helper()
	var out []Token
	for _, r := range s {
		toks, err := l.Feed(r, []byte(string(r)))
		if err != nil {
			return out, err
		}
		out = append(out, toks...)
	}
	toks, err := l.End()
	out = append(out, toks...)
	return out, err
}

func classOf(name string) TokenClass {
	return MakeDefaultClass(name)
}

func keep(class TokenClass) Action {
	return func(lexeme string, line, linePos int, fullLine string, offset, length int, filename string) (Token, error) {
		return NewToken(class, lexeme, line, linePos, fullLine, offset, length, filename), nil
	}
}

// Test_E3_keywordBeatsIdentifierAtSameLength mirrors spec scenario E3:
// keyword "if" at major band 2, identifier at band 3, whitespace skipped at
// band 4. Input "if ifx" should lex as IF, ID("ifx").
func Test_E3_keywordBeatsIdentifierAtSameLength(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ifClass := classOf("IF")
	idClass := classOf("ID")

	l := New("e3.txt")

	ifRule, err := NewRule("kw-if", "if", ifClass, 2, 0, keep(ifClass))
	require.NoError(err)
	l.AddRule(ifRule)

	idRule, err := NewRule("identifier", "[A-Za-z_][A-Za-z0-9_]*", idClass, 3, 0, keep(idClass))
	require.NoError(err)
	l.AddRule(idRule)

	wsRule, err := NewRule("whitespace", "[ \t\r\n]+", nil, 4, 0, Skip)
	require.NoError(err)
	l.AddRule(wsRule)

	toks, err := feedAll(t, l, "if ifx")
	require.NoError(err)
	require.Len(toks, 2)
	assert.Equal("IF", toks[0].Class().Human())
	assert.Equal("if", toks[0].Lexeme())
	assert.Equal("ID", toks[1].Class().Human())
	assert.Equal("ifx", toks[1].Lexeme())
}

// Test_E4_blockCommentHighestBandWins mirrors spec scenario E4: adds a
// block-comment rule at major band 1 (highest priority) atop E3's rules.
// Input "if /* x */ y" should lex as IF, ID("y"), with the comment
// consumed silently.
func Test_E4_blockCommentHighestBandWins(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ifClass := classOf("IF")
	idClass := classOf("ID")

	l := New("e4.txt")

	commentRule, err := NewRule("block-comment", `/\*(!\*/)\*/`, nil, 1, 0, Skip)
	require.NoError(err)
	l.AddRule(commentRule)

	ifRule, err := NewRule("kw-if", "if", ifClass, 2, 0, keep(ifClass))
	require.NoError(err)
	l.AddRule(ifRule)

	idRule, err := NewRule("identifier", "[A-Za-z_][A-Za-z0-9_]*", idClass, 3, 0, keep(idClass))
	require.NoError(err)
	l.AddRule(idRule)

	wsRule, err := NewRule("whitespace", "[ \t\r\n]+", nil, 4, 0, Skip)
	require.NoError(err)
	l.AddRule(wsRule)

	toks, err := feedAll(t, l, "if /* x */ y")
	require.NoError(err)
	require.Len(toks, 2)
	assert.Equal("IF", toks[0].Class().Human())
	assert.Equal("ID", toks[1].Class().Human())
	assert.Equal("y", toks[1].Lexeme())
}

func Test_Lexer_longestMatchWins(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := New("longest.txt")

	eq, err := NewRule("eq", "=", classOf("EQ"), 0, 0, keep(classOf("EQ")))
	require.NoError(err)
	l.AddRule(eq)

	eqeq, err := NewRule("eqeq", "==", classOf("EQEQ"), 0, 1, keep(classOf("EQEQ")))
	require.NoError(err)
	l.AddRule(eqeq)

	toks, err := feedAll(t, l, "==")
	require.NoError(err)
	require.Len(toks, 1)
	assert.Equal("EQEQ", toks[0].Class().Human())
	assert.Equal("==", toks[0].Lexeme())
}

func Test_Lexer_conflictError(t *testing.T) {
	require := require.New(t)

	l := New("conflict.txt")

	a, err := NewRule("rule-a", "ab", classOf("A"), 0, 0, keep(classOf("A")))
	require.NoError(err)
	l.AddRule(a)

	b, err := NewRule("rule-b", "a[b]", classOf("B"), 0, 0, keep(classOf("B")))
	require.NoError(err)
	l.AddRule(b)

	_, err = feedAll(t, l, "ab")
	require.Error(err)
	kind, ok := lexerr.KindOf(err)
	require.True(ok)
	require.Equal(lexerr.KindConflict, kind)
}

func Test_Lexer_noMatchError(t *testing.T) {
	require := require.New(t)

	l := New("nomatch.txt")
	a, err := NewRule("rule-a", "a+", classOf("A"), 0, 0, keep(classOf("A")))
	require.NoError(err)
	l.AddRule(a)

	_, err = feedAll(t, l, "b")
	require.Error(err)
	kind, ok := lexerr.KindOf(err)
	require.True(ok)
	require.Equal(lexerr.KindNoMatch, kind)
}

func Test_Lexer_unexpectedEOF(t *testing.T) {
	require := require.New(t)

	l := New("eof.txt")
	// a block comment rule that never sees its closing */
	cr, err := NewRule("comment", `/\*(!\*/)\*/`, nil, 0, 0, Skip)
	require.NoError(err)
	l.AddRule(cr)

	_, err = feedAll(t, l, "/* unterminated")
	require.Error(err)
	kind, ok := lexerr.KindOf(err)
	require.True(ok)
	require.Equal(lexerr.KindUnexpectedEOF, kind)
}

func Test_Lexer_preAcceptGuard(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	numClass := classOf("NUM")
	opClass := classOf("OP")

	l := New("guard.txt")

	// signed-number rule only fires when the previous token was nil or an
	// operator, never directly after another number (so "1-2" lexes as
	// NUM(1) OP(-) NUM(2), not NUM(1) NUM(-2)).
	signed, err := NewRule("signed-number", `[+-]?[0-9]+`, numClass, 0, 0, keep(numClass))
	require.NoError(err)
	signed.Guard = func(last Token) bool {
		if last == nil {
			return true
		}
		return last.Class().Equal(opClass)
	}
	l.AddRule(signed)

	op, err := NewRule("op", `[+-]`, opClass, 1, 0, keep(opClass))
	require.NoError(err)
	l.AddRule(op)

	toks, err := feedAll(t, l, "1-2")
	require.NoError(err)
	require.Len(toks, 3)
	assert.Equal("NUM", toks[0].Class().Human())
	assert.Equal("1", toks[0].Lexeme())
	assert.Equal("OP", toks[1].Class().Human())
	assert.Equal("-", toks[1].Lexeme())
	assert.Equal("NUM", toks[2].Class().Human())
	assert.Equal("2", toks[2].Lexeme())
}

func Test_Lexer_positionTracking(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := New("pos.txt")
	idRule, err := NewRule("identifier", "[A-Za-z_][A-Za-z0-9_]*", classOf("ID"), 0, 0, keep(classOf("ID")))
	require.NoError(err)
	l.AddRule(idRule)
	wsRule, err := NewRule("whitespace", "[ \t\r\n]+", nil, 1, 0, Skip)
	require.NoError(err)
	l.AddRule(wsRule)

	toks, err := feedAll(t, l, "ab\ncd")
	require.NoError(err)
	require.Len(toks, 2)

	assert.Equal(1, toks[0].Line())
	assert.Equal(1, toks[0].LinePos())
	assert.Equal(0, toks[0].ByteOffset())

	assert.Equal(2, toks[1].Line())
	assert.Equal(1, toks[1].LinePos())
	assert.Equal(3, toks[1].ByteOffset())
}
