// Package automaton implements the regex-to-automata pipeline described in
// the toolkit's core: a fragment-based NFA builder (NodeNFA) used during
// Thompson construction, a flattened epsilon-free-closure NFA representation
// (RegexNFA), and a range-exhaustive DFA (RegexDFA) produced from it by
// subset construction. Unlike tunaq's internal/ictiobus/automaton package
// (which is generic over a string-labeled alphabet and used only to build LR
// viable-prefix automata for the parser), this package's alphabet is
// character ranges over runes, matching how regular expressions are
// actually matched a character at a time.
//
// The parser's LR(0) viable-prefix automaton is a different, string-labeled
// kind of automaton; it lives in this package as a separate, item-keyed
// implementation (see lr0.go) and is internal machinery for SLR table
// generation rather than part of the public regex surface.
package automaton

// StateID identifies a state within a fragment or flattened automaton.
type StateID int

// Epsilon is the sentinel range used for epsilon transitions. No valid
// character range uses it; it is recognized by Lo > Hi (an empty, invalid
// range that can never be a real character range).
var Epsilon = CharRange{Lo: 1, Hi: 0}

// CharRange is a closed interval [Lo, Hi] over Unicode code points.
type CharRange struct {
	Lo, Hi rune
}

// IsEpsilon reports whether r is the epsilon sentinel.
func (r CharRange) IsEpsilon() bool {
	return r.Lo > r.Hi
}

// MinChar and MaxChar bound the default alphabet: every valid Unicode code
// point. Complement groups and wildcard (.) are evaluated against this span
// unless a matcher is explicitly built with a narrower alphabet.
const (
	MinChar rune = 0
	MaxChar rune = 0x10FFFF
)

// Allocator hands out monotonically increasing state IDs, shared across an
// entire regex's Thompson construction so that fragments never collide.
type Allocator struct {
	next StateID
}

// New returns a fresh StateID.
func (a *Allocator) New() StateID {
	id := a.next
	a.next++
	return id
}
