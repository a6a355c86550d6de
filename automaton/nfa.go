package automaton

import (
	"sort"

	"github.com/dekarrin/ictioglot/rangeset"
)

// RegexNFA is the flattened representation of a NodeNFA after state
// renumbering: states are indexed 0..N-1, transitions are addressed by
// index, and epsilon-closures are precomputed for every state (§3).
type RegexNFA struct {
	// Transitions[s] holds the non-epsilon entries for state s, sorted and
	// disjoint.
	Transitions [][]Entry
	Start       StateID
	Finals      map[StateID]bool

	closure map[StateID]map[StateID]bool
}

// Flatten renumbers a NodeNFA fragment into a RegexNFA, precomputing every
// state's epsilon-closure. The fragment's single Accept state becomes the
// sole member of Finals; the start state is additionally marked final if its
// own closure reaches it (per spec: "The start state is added to finals if
// its ε-closure contains any final").
func Flatten(frag *NodeNFA) *RegexNFA {
	// discover every state referenced, so that isolated/reachable-only-by-
	// epsilon states are preserved.
	seen := map[StateID]bool{frag.Start: true, frag.Accept: true}
	for from, entries := range frag.Transitions {
		seen[from] = true
		for _, e := range entries {
			for to := range e.Targets {
				seen[to] = true
			}
		}
	}

	ordered := make([]StateID, 0, len(seen))
	for s := range seen {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	remap := make(map[StateID]StateID, len(ordered))
	for i, s := range ordered {
		remap[s] = StateID(i)
	}

	nfa := &RegexNFA{
		Transitions: make([][]Entry, len(ordered)),
		Start:       remap[frag.Start],
		Finals:      map[StateID]bool{remap[frag.Accept]: true},
	}

	// epsilon adjacency used locally to compute closures before storing the
	// real (non-epsilon) transitions.
	epsAdj := make(map[StateID][]StateID, len(ordered))

	for from, entries := range frag.Transitions {
		newFrom := remap[from]
		var real []Entry
		for _, e := range entries {
			if e.Range.IsEpsilon() {
				for to := range e.Targets {
					epsAdj[newFrom] = append(epsAdj[newFrom], remap[to])
				}
				continue
			}
			targets := copyTargets(e.Targets)
			remapped := make(map[StateID]bool, len(targets))
			for to := range targets {
				remapped[remap[to]] = true
			}
			real = append(real, Entry{Range: e.Range, Targets: remapped})
		}
		nfa.Transitions[newFrom] = sortEntries(real)
	}

	nfa.closure = map[StateID]map[StateID]bool{}
	for _, s := range ordered {
		ns := remap[s]
		nfa.closure[ns] = computeClosure(ns, epsAdj)
	}

	if nfa.closure[nfa.Start][remap[frag.Accept]] {
		nfa.Finals[nfa.Start] = true
	}

	return nfa
}

func computeClosure(start StateID, adj map[StateID][]StateID) map[StateID]bool {
	closure := map[StateID]bool{start: true}
	stack := []StateID{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adj[cur] {
			if !closure[next] {
				closure[next] = true
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// EpsilonClosure returns the set of states reachable from s via zero or more
// epsilon transitions (s itself is always included).
func (nfa *RegexNFA) EpsilonClosure(s StateID) map[StateID]bool {
	return nfa.closure[s]
}

// EpsilonClosureOfSet unions the epsilon-closures of every state in set.
func (nfa *RegexNFA) EpsilonClosureOfSet(set map[StateID]bool) map[StateID]bool {
	out := map[StateID]bool{}
	for s := range set {
		for c := range nfa.closure[s] {
			out[c] = true
		}
	}
	return out
}

// Step returns the set of states reached from any state in `from` upon
// consuming character c: union targets of the entry covering c, then union
// of their epsilon-closures (spec §4.4's NFA streaming matcher step).
func (nfa *RegexNFA) Step(from map[StateID]bool, c rune) map[StateID]bool {
	moved := map[StateID]bool{}
	for s := range from {
		if e, ok := findEntry(nfa.Transitions[s], c); ok {
			for t := range e.Targets {
				moved[t] = true
			}
		}
	}
	return nfa.EpsilonClosureOfSet(moved)
}

// findEntry binary-searches a sorted, disjoint entry list for the entry
// whose range covers c.
func findEntry(entries []Entry, c rune) (Entry, bool) {
	lo, hi := 0, len(entries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		e := entries[mid]
		switch {
		case c < e.Range.Lo:
			hi = mid - 1
		case c > e.Range.Hi:
			lo = mid + 1
		default:
			return e, true
		}
	}
	return Entry{}, false
}

// RangeUnits returns the partition of Σ induced by every outgoing range
// reachable via epsilon from s: the union of range-units of every state in
// s's epsilon-closure. Used by subset construction (§4.4).
func (nfa *RegexNFA) RangeUnits(set map[StateID]bool) []CharRange {
	var all []rangeset.Range
	for s := range set {
		for _, e := range nfa.Transitions[s] {
			all = append(all, rangeset.Range{Lo: e.Range.Lo, Hi: e.Range.Hi})
		}
	}
	units := rangeset.SplitToUnits(all)
	out := make([]CharRange, len(units))
	for i, u := range units {
		out[i] = CharRange{Lo: u.Lo, Hi: u.Hi}
	}
	return out
}

// HasFinal reports whether any state in set is a final state.
func (nfa *RegexNFA) HasFinal(set map[StateID]bool) bool {
	for s := range set {
		if nfa.Finals[s] {
			return true
		}
	}
	return false
}

// NFAMatcher is a streaming matcher backed directly by a RegexNFA (cheaper
// to build than a DFA, more expensive to step).
type NFAMatcher struct {
	nfa  *RegexNFA
	live map[StateID]bool
}

// NewMatcher returns a fresh NFA-backed streaming Matcher.
func (nfa *RegexNFA) NewMatcher() *NFAMatcher {
	m := &NFAMatcher{nfa: nfa}
	m.Reset()
	return m
}

func (m *NFAMatcher) Reset() {
	m.live = m.nfa.EpsilonClosure(m.nfa.Start)
}

func (m *NFAMatcher) Feed(c rune) {
	if len(m.live) == 0 {
		return
	}
	m.live = m.nfa.Step(m.live, c)
}

func (m *NFAMatcher) Match() bool {
	return m.nfa.HasFinal(m.live)
}

func (m *NFAMatcher) Dead() bool {
	return len(m.live) == 0
}

// Test feeds every rune of s from a fresh state and reports whether the
// result is a match; a convenience wrapper per the Matcher protocol (§6).
func (m *NFAMatcher) Test(s []rune) bool {
	m.Reset()
	for _, c := range s {
		if m.Dead() {
			return false
		}
		m.Feed(c)
	}
	return m.Match()
}
