package regex

import "github.com/dekarrin/ictioglot/automaton"

// Matcher is the streaming matcher protocol shared by DFA- and NFA-backed
// implementations (§4.8): reset to start state, feed one character at a
// time, query whether the current state accepts, whether the matcher has
// entered a state from which no input can ever make it accept again, and a
// one-shot convenience that runs a whole sequence from a fresh state.
type Matcher interface {
	Reset()
	Feed(c rune)
	Match() bool
	Dead() bool
	Test(s []rune) bool
}

// Compile parses pattern and builds a DFA-backed Matcher. DFA construction
// is the more expensive up-front cost but gives O(log K) per character
// matching with no backtracking, the intended mode for a long-lived,
// repeatedly-used pattern (e.g. a lexer rule kept alive for the whole
// parse).
func Compile(pattern string) (Matcher, error) {
	tree, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}

	alloc := &automaton.Allocator{}
	frag := lower(tree, alloc, automaton.MinChar, automaton.MaxChar)
	nfa := automaton.Flatten(frag)
	dfa := automaton.Determinize(nfa, automaton.MinChar, automaton.MaxChar).Optimize()

	return dfa.NewMatcher(), nil
}

// NFAMatch parses pattern and builds an NFA-backed Matcher: cheaper to
// construct than Compile since it skips subset construction, at the cost of
// tracking a live state set per character instead of a single state.
// Appropriate for one-off or rarely-reused patterns.
func NFAMatch(pattern string) (Matcher, error) {
	tree, err := parsePattern(pattern)
	if err != nil {
		return nil, err
	}

	alloc := &automaton.Allocator{}
	frag := lower(tree, alloc, automaton.MinChar, automaton.MaxChar)
	nfa := automaton.Flatten(frag)

	return nfa.NewMatcher(), nil
}
