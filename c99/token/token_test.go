package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classIDs(t *testing.T, src string, isTypedef TypedefLookup) []string {
	t.Helper()
	l, err := NewLexer("test.c", isTypedef)
	require.NoError(t, err)
	toks, err := LexAll(l, src)
	require.NoError(t, err)
	ids := make([]string, len(toks))
	for i, tok := range toks {
		ids[i] = tok.Class().ID()
	}
	return ids
}

func Test_Lexer_KeywordsAndPunctuators(t *testing.T) {
	ids := classIDs(t, "int x = 1 + 2;", nil)
	assert.Equal(t, []string{"int", Identifier, Assign, ConstantInteger, Plus, ConstantInteger, Semicolon}, ids)
}

func Test_Lexer_IdentifierVsTypedefName(t *testing.T) {
	isTypedef := func(name string) bool { return name == "MyType" }

	plain := classIDs(t, "MyType x;", nil)
	assert.Equal(t, Identifier, plain[0])

	typed := classIDs(t, "MyType x;", isTypedef)
	assert.Equal(t, TypedefName, typed[0])
}

func Test_Lexer_CompoundOperatorsMaximalMunch(t *testing.T) {
	ids := classIDs(t, "a <<= b; c < d;", nil)
	assert.Contains(t, ids, "leftshiftassign")
	assert.Equal(t, LessThan, ids[5])
}

func Test_Lexer_SkipsWhitespaceAndLineComments(t *testing.T) {
	ids := classIDs(t, "int x; // a trailing comment\nint y;", nil)
	assert.Equal(t, []string{"int", Identifier, Semicolon, "int", Identifier, Semicolon}, ids)
}
