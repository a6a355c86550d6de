package automaton

import (
	"sort"
	"strconv"
	"strings"
)

// DFAEntry is one outgoing transition of a RegexDFA state: a character range
// and the single state it leads to. A state's entry list exhaustively
// covers Σ with no gaps, per the RegexDFA invariants (§3).
type DFAEntry struct {
	Range CharRange
	Next  StateID
}

// RegexDFA is a deterministic automaton over character ranges, built by
// subset construction from a RegexNFA (§4.4, algorithm 3.20 analogue over
// ranges instead of single symbols).
type RegexDFA struct {
	Transitions [][]DFAEntry
	Start       StateID
	DeadStates  map[StateID]bool
	Finals      map[StateID]bool

	alphabetLo, alphabetHi rune
}

// Determinize builds a RegexDFA equivalent to nfa using range-split subset
// construction, with Σ = [lo, hi]. Gaps in a state's range coverage are
// filled with an edge to a dedicated dead state so that every state's
// transitions exactly cover Σ.
func Determinize(nfa *RegexNFA, lo, hi rune) *RegexDFA {
	dfa := &RegexDFA{alphabetLo: lo, alphabetHi: hi}

	startSet := nfa.EpsilonClosure(nfa.Start)
	key := setKey(startSet)

	setByKey := map[string]map[StateID]bool{key: startSet}
	idByKey := map[string]StateID{key: 0}
	order := []string{key}

	dfa.Start = 0

	for i := 0; i < len(order); i++ {
		curKey := order[i]
		curSet := setByKey[curKey]
		curID := idByKey[curKey]

		units := nfa.RangeUnits(curSet)
		var entries []DFAEntry
		covered := rune(-1)
		_ = covered

		for _, u := range units {
			target := nfa.Step(curSet, u.Lo)
			if len(target) == 0 {
				continue
			}
			tKey := setKey(target)
			tID, ok := idByKey[tKey]
			if !ok {
				tID = StateID(len(order))
				idByKey[tKey] = tID
				setByKey[tKey] = target
				order = append(order, tKey)
			}
			entries = append(entries, DFAEntry{Range: u, Next: tID})
		}

		entries = fillGaps(entries, lo, hi, -1)
		dfa.Transitions = append(dfa.Transitions, entries)
		_ = curID
	}

	// add the dead state (id = len(order)) and repoint every unresolved gap
	// (Next == -1) to it.
	deadID := StateID(len(order))
	dfa.Transitions = append(dfa.Transitions, []DFAEntry{{Range: CharRange{Lo: lo, Hi: hi}, Next: deadID}})
	for i := range dfa.Transitions {
		for j := range dfa.Transitions[i] {
			if dfa.Transitions[i][j].Next == -1 {
				dfa.Transitions[i][j].Next = deadID
			}
		}
	}

	dfa.DeadStates = map[StateID]bool{deadID: true}
	dfa.Finals = map[StateID]bool{}
	for i, key := range order {
		if nfa.HasFinal(setByKey[key]) {
			dfa.Finals[StateID(i)] = true
		}
	}

	return dfa
}

func setKey(set map[StateID]bool) string {
	ids := make([]int, 0, len(set))
	for s := range set {
		ids = append(ids, int(s))
	}
	sort.Ints(ids)
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

// fillGaps takes a sorted, disjoint set of entries covering parts of [lo,hi]
// and inserts placeholder entries (Next == missing) for every uncovered
// sub-range, so the result exhaustively covers [lo,hi].
func fillGaps(entries []DFAEntry, lo, hi rune, missing StateID) []DFAEntry {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Range.Lo < entries[j].Range.Lo })

	var out []DFAEntry
	cur := lo
	for _, e := range entries {
		if e.Range.Lo > cur {
			out = append(out, DFAEntry{Range: CharRange{Lo: cur, Hi: e.Range.Lo - 1}, Next: missing})
		}
		out = append(out, e)
		cur = e.Range.Hi + 1
	}
	if cur <= hi {
		out = append(out, DFAEntry{Range: CharRange{Lo: cur, Hi: hi}, Next: missing})
	}
	return out
}

// StateTransition returns the state reached from `state` on character c.
func (d *RegexDFA) StateTransition(state StateID, c rune) StateID {
	entries := d.Transitions[state]
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
			return e.Next
		}
	}
	// alphabet coverage invariant guarantees this is unreachable for c in
	// [alphabetLo, alphabetHi].
	for deadState := range d.DeadStates {
		return deadState
	}
	return state
}

// Complement returns a new DFA accepting Σ* \ L(d): every non-final state
// becomes final and vice versa. d must already be complete (every state's
// transitions cover Σ, which Determinize guarantees).
func (d *RegexDFA) Complement() *RegexDFA {
	out := &RegexDFA{
		Transitions: d.Transitions,
		Start:       d.Start,
		DeadStates:  map[StateID]bool{},
		Finals:      map[StateID]bool{},
		alphabetLo:  d.alphabetLo,
		alphabetHi:  d.alphabetHi,
	}

	for i := range d.Transitions {
		s := StateID(i)
		if !d.Finals[s] {
			out.Finals[s] = true
		}
	}

	return out
}

// Optimize trims every state that cannot reach a final state, collapsing
// them to a single dead state numbered 0, and coalesces consecutive
// transitions that all lead to the dead state (§4.4 DFA optimization).
func (d *RegexDFA) Optimize() *RegexDFA {
	n := len(d.Transitions)

	reverse := make(map[StateID][]StateID, n)
	for i := range d.Transitions {
		for _, e := range d.Transitions[i] {
			reverse[e.Next] = append(reverse[e.Next], StateID(i))
		}
	}

	seen := map[StateID]bool{}
	var queue []StateID
	for f := range d.Finals {
		seen[f] = true
		queue = append(queue, f)
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, t := range reverse[s] {
			if !seen[t] {
				seen[t] = true
				queue = append(queue, t)
			}
		}
	}

	rewrite := make(map[StateID]StateID, n)
	nextID := StateID(1)
	for i := 0; i < n; i++ {
		s := StateID(i)
		if seen[s] {
			rewrite[s] = nextID
			nextID++
		} else {
			rewrite[s] = 0
		}
	}

	newTransitions := make([][]DFAEntry, nextID)
	for i := 0; i < n; i++ {
		s := StateID(i)
		if !seen[s] {
			continue
		}
		dst := rewrite[s]
		var coalesced []DFAEntry
		for _, e := range d.Transitions[i] {
			mapped := rewrite[e.Next]
			if len(coalesced) > 0 {
				last := &coalesced[len(coalesced)-1]
				if last.Next == mapped && mapped == 0 && last.Range.Hi+1 == e.Range.Lo {
					last.Range.Hi = e.Range.Hi
					continue
				}
			}
			coalesced = append(coalesced, DFAEntry{Range: e.Range, Next: mapped})
		}
		newTransitions[dst] = coalesced
	}
	// the dead state absorbs the entire alphabet.
	newTransitions[0] = []DFAEntry{{Range: CharRange{Lo: d.alphabetLo, Hi: d.alphabetHi}, Next: 0}}

	out := &RegexDFA{
		Transitions: newTransitions,
		Start:       rewrite[d.Start],
		DeadStates:  map[StateID]bool{0: true},
		Finals:      map[StateID]bool{},
		alphabetLo:  d.alphabetLo,
		alphabetHi:  d.alphabetHi,
	}
	for f := range d.Finals {
		if seen[f] {
			out.Finals[rewrite[f]] = true
		}
	}

	return out
}

// ToNodeNFA round-trips d back into fragment form: every final state gains
// an epsilon edge to a new single accept state, edges into dead states are
// dropped. Used only so complement groups can re-embed in a larger
// in-progress NFA fragment (§4.3, Group(c, complement=true)).
func (d *RegexDFA) ToNodeNFA(alloc *Allocator) *NodeNFA {
	remap := make(map[StateID]StateID, len(d.Transitions))
	for i := range d.Transitions {
		remap[StateID(i)] = alloc.New()
	}
	accept := alloc.New()

	n := newNodeNFA(remap[d.Start], accept)
	for i, entries := range d.Transitions {
		s := StateID(i)
		if d.DeadStates[s] {
			continue
		}
		for _, e := range entries {
			if d.DeadStates[e.Next] {
				continue
			}
			n.AddTransition(remap[s], e.Range, remap[e.Next])
		}
		if d.Finals[s] {
			n.AddTransition(remap[s], Epsilon, accept)
		}
	}

	return n
}

// DFAMatcher is a streaming matcher backed by a RegexDFA: O(log K) per
// character, K being the number of transition ranges on the current state.
type DFAMatcher struct {
	dfa   *RegexDFA
	state StateID
}

func (d *RegexDFA) NewMatcher() *DFAMatcher {
	m := &DFAMatcher{dfa: d}
	m.Reset()
	return m
}

func (m *DFAMatcher) Reset() {
	m.state = m.dfa.Start
}

func (m *DFAMatcher) Feed(c rune) {
	m.state = m.dfa.StateTransition(m.state, c)
}

func (m *DFAMatcher) Match() bool {
	return m.dfa.Finals[m.state]
}

func (m *DFAMatcher) Dead() bool {
	return m.dfa.DeadStates[m.state]
}

func (m *DFAMatcher) Test(s []rune) bool {
	m.Reset()
	for _, c := range s {
		if m.Dead() {
			return false
		}
		m.Feed(c)
	}
	return m.Match()
}

// Equal reports whether two DFAs are structurally identical (same state
// count, same start, same transitions and finals) — used to verify
// optimization idempotence (§8 invariant 3).
func (d *RegexDFA) Equal(o *RegexDFA) bool {
	if d.Start != o.Start || len(d.Transitions) != len(o.Transitions) {
		return false
	}
	if len(d.Finals) != len(o.Finals) || len(d.DeadStates) != len(o.DeadStates) {
		return false
	}
	for f := range d.Finals {
		if !o.Finals[f] {
			return false
		}
	}
	for s := range d.DeadStates {
		if !o.DeadStates[s] {
			return false
		}
	}
	for i := range d.Transitions {
		if len(d.Transitions[i]) != len(o.Transitions[i]) {
			return false
		}
		for j := range d.Transitions[i] {
			if d.Transitions[i][j] != o.Transitions[i][j] {
				return false
			}
		}
	}
	return true
}
