package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildABStarFrag builds the fragment for "ab*": a single 'a' followed by
// zero or more 'b's, used as a small fixture across several tests.
func buildABStarFrag(alloc *Allocator) *NodeNFA {
	a := CharRangeFragment(alloc, CharRange{Lo: 'a', Hi: 'a'})
	b := CharRangeFragment(alloc, CharRange{Lo: 'b', Hi: 'b'})
	bStar := StarFragment(alloc, b)
	return ConcatFragment(alloc, []*NodeNFA{a, bStar})
}

func Test_Determinize_matchesExpected(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	frag := buildABStarFrag(alloc)
	nfa := Flatten(frag)
	dfa := Determinize(nfa, MinChar, MaxChar)

	cases := []struct {
		in    string
		match bool
	}{
		{"a", true},
		{"ab", true},
		{"abbbb", true},
		{"", false},
		{"b", false},
		{"ac", false},
		{"abc", false},
	}

	for _, tc := range cases {
		m := dfa.NewMatcher()
		assert.Equal(tc.match, m.Test([]rune(tc.in)), "input %q", tc.in)
	}
}

func Test_Determinize_everyStateCoversAlphabet(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	frag := buildABStarFrag(alloc)
	dfa := Determinize(Flatten(frag), MinChar, MaxChar)

	for i, entries := range dfa.Transitions {
		assert.NotEmpty(entries, "state %d has no transitions", i)
		assert.Equal(MinChar, entries[0].Range.Lo, "state %d doesn't start at MinChar", i)
		assert.Equal(MaxChar, entries[len(entries)-1].Range.Hi, "state %d doesn't end at MaxChar", i)
		for j := 1; j < len(entries); j++ {
			assert.Equal(entries[j-1].Range.Hi+1, entries[j].Range.Lo, "gap between entries in state %d", i)
		}
	}
}

func Test_Optimize_preservesLanguage(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	frag := buildABStarFrag(alloc)
	dfa := Determinize(Flatten(frag), MinChar, MaxChar)
	opt := dfa.Optimize()

	cases := []string{"a", "ab", "abbbb", "", "b", "ac", "abc"}
	for _, in := range cases {
		before := dfa.NewMatcher().Test([]rune(in))
		after := opt.NewMatcher().Test([]rune(in))
		assert.Equal(before, after, "input %q", in)
	}
}

func Test_Optimize_idempotent(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	frag := buildABStarFrag(alloc)
	dfa := Determinize(Flatten(frag), MinChar, MaxChar)
	once := dfa.Optimize()
	twice := once.Optimize()

	assert.True(once.Equal(twice))
}

func Test_Complement(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	aFrag := CharRangeFragment(alloc, CharRange{Lo: 'a', Hi: 'a'})
	dfa := Determinize(Flatten(aFrag), 'a', 'c')
	comp := dfa.Complement()

	assert.True(dfa.NewMatcher().Test([]rune("a")))
	assert.False(comp.NewMatcher().Test([]rune("a")))
}

func Test_ToNodeNFA_roundTrip(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	frag := buildABStarFrag(alloc)
	dfa := Determinize(Flatten(frag), MinChar, MaxChar).Optimize()

	back := dfa.ToNodeNFA(alloc)
	reflattened := Flatten(back)

	cases := []struct {
		in    string
		match bool
	}{
		{"a", true},
		{"ab", true},
		{"abbbb", true},
		{"", false},
		{"b", false},
	}
	for _, tc := range cases {
		m := reflattened.NewMatcher()
		assert.Equal(tc.match, m.Test([]rune(tc.in)), "input %q", tc.in)
	}
}
