package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Compile_acceptReject is a table-driven port of the reference regex
// engine's own DFA acceptance suite: for every pattern, every listed
// "accepts" input must match and every listed "rejects" input must not.
func Test_Compile_acceptReject(t *testing.T) {
	testCases := []struct {
		pattern string
		accepts []string
		rejects []string
	}{
		{"aa*", []string{"aa", "a", "aaa"}, []string{"", "b", "aab"}},
		{"a*", []string{"", "a", "aa"}, []string{"aabaa", "b"}},
		{"ab", []string{"ab"}, []string{"ba", "b", "a", ""}},
		{"aa", []string{"aa"}, []string{"ab", "bb", "aaa", "a", ""}},
		{"a", []string{"a"}, []string{"aa", ""}},
		{"a|b|c|d|e", []string{"a", "b", "c", "d", "e"}, []string{"", "ab", "ba", "de", "ed", "ee", "dd"}},
		{"(a)", []string{"a"}, []string{"", "aa"}},
		{"(a|bd)", []string{"bd", "a"}, []string{"b", "d", "ab", "ad"}},
		{"(a())", []string{"a"}, []string{"", "aa"}},
		{"([a-bc])", []string{"a", "b", "c"}, []string{"", "aa", "bb", "cc", "ab"}},
		{"a?", []string{"a", ""}, []string{"aa"}},
		{"a+", []string{"aaa", "a", "aa", "aaaaa"}, []string{"", "aabaa"}},
		{"a{,}", []string{"a", ""}, []string{"ab"}},
		{"a{2,4}", []string{"aa", "aaa", "aaaa"}, []string{"a", "aaaaa", ""}},
		{"(!1234)", []string{"431", ""}, []string{"1234"}},
		{"a(!d)f", []string{"acf"}, []string{"adf"}},
		{`/\*(!\*/)\*/`, []string{"/* asdf */"}, []string{"", "/* asdf */ "}},
		{"(a(a(a(a(a)))))", []string{"aaaaa"}, []string{"a"}},
		{"[^0-9]+", []string{"abc"}, []string{"a1234"}},
	}

	for _, tc := range testCases {
		t.Run(tc.pattern, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m, err := Compile(tc.pattern)
			require.NoError(err, "pattern %q should compile", tc.pattern)

			for _, in := range tc.accepts {
				m.Reset()
				assert.True(m.Test([]rune(in)), "pattern %q should accept %q", tc.pattern, in)
			}
			for _, in := range tc.rejects {
				m.Reset()
				assert.False(m.Test([]rune(in)), "pattern %q should reject %q", tc.pattern, in)
			}
		})
	}
}

func Test_Compile_repetitionBounds(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m, err := Compile("a{2,3}")
	require.NoError(err)

	assert.False(m.Test([]rune("a")))
	assert.True(m.Test([]rune("aa")))
	assert.True(m.Test([]rune("aaa")))
	assert.False(m.Test([]rune("aaaa")))
}

func Test_Compile_characterClass(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m, err := Compile("[a-z]+")
	require.NoError(err)

	assert.True(m.Test([]rune("hello")))
	assert.False(m.Test([]rune("Hello")))
}

func Test_Compile_wildcard(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m, err := Compile("a.c")
	require.NoError(err)

	assert.True(m.Test([]rune("abc")))
	assert.True(m.Test([]rune("axc")))
	assert.False(m.Test([]rune("ac")))
}

func Test_Compile_escapes(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	m, err := Compile(`a\*b`)
	require.NoError(err)

	assert.True(m.Test([]rune("a*b")))
	assert.False(m.Test([]rune("aab")))
}

func Test_Compile_errors(t *testing.T) {
	assert := assert.New(t)

	cases := []string{
		"(abc",
		"abc)",
		"[abc",
		"[]",
		"a{3,1}",
		"[z-a]",
		`\q`,
	}

	for _, pattern := range cases {
		_, err := Compile(pattern)
		assert.Error(err, "pattern %q should have been rejected", pattern)
	}
}

func Test_NFAMatch_equivalentToCompile(t *testing.T) {
	// DFA/NFA equivalence: for every pattern p and input s,
	// nfa_match(p).test(s) == dfa_match(p).test(s).
	assert := assert.New(t)
	require := require.New(t)

	patterns := []string{
		"abc",
		"(a|b)*c",
		"ab?c+",
		"a{2,3}",
		"[a-z]+",
		"[^0-9]+",
		"a.c",
		`/\*(!\*/)\*/`,
		"(!1234)",
	}

	inputs := []string{
		"abc", "ac", "bc", "aababbc", "hello", "Hello", "a1234",
		"/* asdf */", "/* asdf */ ", "1234", "431", "",
	}

	for _, p := range patterns {
		dfaMatcher, err := Compile(p)
		require.NoError(err)
		nfaMatcher, err := NFAMatch(p)
		require.NoError(err)

		for _, in := range inputs {
			d := dfaMatcher.Test([]rune(in))
			n := nfaMatcher.Test([]rune(in))
			assert.Equal(d, n, "pattern %q input %q", p, in)
		}
	}
}
