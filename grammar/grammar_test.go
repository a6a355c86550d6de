package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildABC builds the "first and follow sets explained" example grammar
// (a standard compilers-course worked example): S -> K L p | g Q K,
// K -> b L Q T | ε, L -> Q a K | Q K | q a, Q -> d s | ε, T -> g S f | m.
func buildABC(t *testing.T) *Grammar {
	t.Helper()
	g := New()
	for _, term := range []string{"p", "g", "b", "a", "q", "s", "d", "f", "m"} {
		g.AddTerm(term, simpleTerm(term))
	}

	require.NoError(t, g.AddRule("S", Production{"K", "L", "p"}))
	require.NoError(t, g.AddRule("S", Production{"g", "Q", "K"}))

	require.NoError(t, g.AddRule("K", Production{"b", "L", "Q", "T"}))
	require.NoError(t, g.AddRule("K", nil))

	require.NoError(t, g.AddRule("L", Production{"Q", "a", "K"}))
	require.NoError(t, g.AddRule("L", Production{"Q", "K"}))
	require.NoError(t, g.AddRule("L", Production{"q", "a"}))

	require.NoError(t, g.AddRule("Q", Production{"d", "s"}))
	require.NoError(t, g.AddRule("Q", nil))

	require.NoError(t, g.AddRule("T", Production{"g", "S", "f"}))
	require.NoError(t, g.AddRule("T", Production{"m"}))

	g.AddStart("S")
	return g
}

type simpleTerm string

func (s simpleTerm) ID() string { return string(s) }

func Test_Grammar_FIRST(t *testing.T) {
	cases := []struct {
		sym    string
		expect []string
	}{
		{"T", []string{"g", "m"}},
		{"Q", []string{"d", ""}},
		{"K", []string{"b", ""}},
		{"L", []string{"d", "", "q", "a", "b"}},
		{"S", []string{"b", "d", "q", "a", "p", "g"}},
	}

	g := buildABC(t)
	for _, tc := range cases {
		t.Run(tc.sym, func(t *testing.T) {
			assert := assert.New(t)
			actual := g.FIRST(tc.sym)
			assert.Len(actual, len(tc.expect))
			for _, e := range tc.expect {
				assert.Truef(actual.Has(e), "FIRST(%s) missing %q: got %s", tc.sym, e, actual.StringOrdered())
			}
		})
	}
}

func Test_Grammar_FOLLOW_includesEndOfInputOnStart(t *testing.T) {
	assert := assert.New(t)
	g := buildABC(t)
	follow := g.FOLLOW("S")
	assert.True(follow.Has(EndOfInput))
}

func Test_Grammar_Validate(t *testing.T) {
	t.Run("empty grammar errors", func(t *testing.T) {
		g := New()
		assert.Error(t, g.Validate())
	})

	t.Run("no terminals errors", func(t *testing.T) {
		g := New()
		require.NoError(t, g.AddRule("S", Production{"S"}))
		assert.Error(t, g.Validate())
	})

	t.Run("well formed grammar passes", func(t *testing.T) {
		g := New()
		g.AddTerm("num", simpleTerm("num"))
		require.NoError(t, g.AddRule("S", Production{"num"}))
		g.AddStart("S")
		assert.NoError(t, g.Validate())
	})
}

func Test_Grammar_AddProductionRule_optionalSymbolExpansion(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := New()
	g.AddTerm("a", simpleTerm("a"))
	g.AddTerm("b", simpleTerm("b"))
	g.AddTerm("c", simpleTerm("c"))

	err := g.AddProductionRule("RULE", []string{"a", "b", "c"}, []bool{false, true, false}, 0, NonAssoc, nil, nil)
	require.NoError(err)

	rule := g.Rule("RULE")
	require.Len(rule.Productions, 2)
	assert.Equal(Production{"a", "b", "c"}, rule.Productions[0])
	assert.Equal(Production{"a", "c"}, rule.Productions[1])

	prs := g.Rules()
	require.Len(prs, 2)
	assert.Equal([]int{1}, prs[1].Omitted)
	assert.Equal(Production{"a", "b", "c"}, prs[1].FullRhs)
}

func Test_Grammar_LR0Items_includesEpsilonItem(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := New()
	g.AddTerm("a", simpleTerm("a"))
	require.NoError(t, g.AddRule("A", Production{"a"}))
	require.NoError(t, g.AddRule("A", nil))
	g.AddStart("A")

	var epsilonItems int
	for _, it := range g.LR0Items() {
		if it.NonTerminal == "A" && len(it.Left) == 0 && len(it.Right) == 0 {
			epsilonItems++
		}
	}
	assert.Equal(1, epsilonItems)
}

func Test_Grammar_Augmented(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := New()
	g.AddTerm("a", simpleTerm("a"))
	require.NoError(t, g.AddRule("A", Production{"a"}))
	g.AddStart("A")

	ag := g.Augmented()
	assert.Equal(AugmentedStartSymbol, ag.StartSymbol())
	rule := ag.Rule(AugmentedStartSymbol)
	require.Len(rule.Productions, 1)
	assert.Equal(Production{"A"}, rule.Productions[0])

	// original grammar is untouched
	assert.Len(g.Rule(AugmentedStartSymbol).Productions, 0)
}
