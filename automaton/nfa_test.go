package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Flatten_unionOfChars(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	a := CharRangeFragment(alloc, CharRange{Lo: 'a', Hi: 'a'})
	b := CharRangeFragment(alloc, CharRange{Lo: 'b', Hi: 'b'})
	frag := UnionFragment(alloc, []*NodeNFA{a, b})

	nfa := Flatten(frag)

	m := nfa.NewMatcher()
	assert.True(m.Test([]rune("a")))

	m2 := nfa.NewMatcher()
	assert.True(m2.Test([]rune("b")))

	m3 := nfa.NewMatcher()
	assert.False(m3.Test([]rune("c")))
}

func Test_Flatten_startIsFinalForNullableFragment(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	a := CharRangeFragment(alloc, CharRange{Lo: 'a', Hi: 'a'})
	star := StarFragment(alloc, a)

	nfa := Flatten(star)
	assert.True(nfa.Finals[nfa.Start])

	m := nfa.NewMatcher()
	assert.True(m.Test(nil))
}

func Test_NFAMatcher_diesOnUnexpectedChar(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	a := CharRangeFragment(alloc, CharRange{Lo: 'a', Hi: 'a'})
	nfa := Flatten(a)

	m := nfa.NewMatcher()
	m.Feed('a')
	assert.True(m.Match())
	m.Feed('b')
	assert.True(m.Dead())
}

func Test_AddTransition_mergesOverlappingRanges(t *testing.T) {
	assert := assert.New(t)

	n := newNodeNFA(0, 1)
	n.AddTransition(0, CharRange{Lo: 'a', Hi: 'm'}, 1)
	n.AddTransition(0, CharRange{Lo: 'g', Hi: 'z'}, 2)

	entries := n.Transitions[0]
	var total int
	for _, e := range entries {
		total += int(e.Range.Hi-e.Range.Lo) + 1
	}
	assert.Equal(int('z'-'a')+1, total)

	// the overlap unit [g,m] must target both states.
	for _, e := range entries {
		if e.Range.Lo <= 'g' && e.Range.Hi >= 'm' {
			assert.True(e.Targets[1])
			assert.True(e.Targets[2])
		}
	}
}

func Test_RangeUnits_partitionsAlphabet(t *testing.T) {
	assert := assert.New(t)

	alloc := &Allocator{}
	ab := CharRangeFragment(alloc, CharRange{Lo: 'a', Hi: 'm'})
	cd := CharRangeFragment(alloc, CharRange{Lo: 'g', Hi: 'z'})
	frag := UnionFragment(alloc, []*NodeNFA{ab, cd})
	nfa := Flatten(frag)

	units := nfa.RangeUnits(nfa.EpsilonClosure(nfa.Start))
	assert.Equal([]CharRange{{'a', 'f'}, {'g', 'm'}, {'n', 'z'}}, units)
}
