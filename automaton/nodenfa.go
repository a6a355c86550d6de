package automaton

import "sort"

// Entry is one outgoing transition set from a NodeNFA state: a character
// range (or the Epsilon sentinel) and the set of target states it reaches.
// Entries for a given state are kept sorted by Lo and mutually disjoint;
// overlapping ranges merge their target sets on insertion.
type Entry struct {
	Range   CharRange
	Targets map[StateID]bool
}

// NodeNFA is a Thompson-construction fragment: a transition table plus a
// single designated start and accept state (the Thompson invariant). It
// supports merging transitions during construction; see ConcatFragment,
// UnionFragment, StarFragment, and CharRangeFragment below.
type NodeNFA struct {
	Transitions map[StateID][]Entry
	Start       StateID
	Accept      StateID
}

func newNodeNFA(start, accept StateID) *NodeNFA {
	return &NodeNFA{
		Transitions: map[StateID][]Entry{},
		Start:       start,
		Accept:      accept,
	}
}

// AddTransition adds a transition from `from` to `to` on the given range (or
// Epsilon), merging with any existing overlapping entry and unioning target
// sets, keeping the per-state entry list sorted and disjoint as spec'd.
func (n *NodeNFA) AddTransition(from StateID, r CharRange, to StateID) {
	entries := n.Transitions[from]

	if r.IsEpsilon() {
		for i := range entries {
			if entries[i].Range.IsEpsilon() {
				entries[i].Targets[to] = true
				n.Transitions[from] = entries
				return
			}
		}
		entries = append(entries, Entry{Range: r, Targets: map[StateID]bool{to: true}})
		n.Transitions[from] = sortEntries(entries)
		return
	}

	entries = append(entries, Entry{Range: r, Targets: map[StateID]bool{to: true}})
	n.Transitions[from] = mergeEntries(entries)
}

func sortEntries(entries []Entry) []Entry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Range.IsEpsilon() != entries[j].Range.IsEpsilon() {
			return entries[i].Range.IsEpsilon()
		}
		return entries[i].Range.Lo < entries[j].Range.Lo
	})
	return entries
}

// mergeEntries takes a possibly-unsorted, possibly-overlapping list of
// entries and returns the equivalent disjoint, sorted list, splitting
// boundaries on overlap and unioning target sets per overlapping unit, as
// described in the NodeNFA builder (§4.3) merge operation. Epsilon entries
// are handled separately and simply unioned, since they aren't part of Σ.
func mergeEntries(entries []Entry) []Entry {
	var eps *Entry
	var real []Entry

	for i := range entries {
		if entries[i].Range.IsEpsilon() {
			if eps == nil {
				cp := entries[i]
				cp.Targets = copyTargets(cp.Targets)
				eps = &cp
			} else {
				for t := range entries[i].Targets {
					eps.Targets[t] = true
				}
			}
			continue
		}
		real = append(real, entries[i])
	}

	result := splitDisjoint(real)

	if eps != nil {
		result = append(result, *eps)
	}

	return sortEntries(result)
}

func copyTargets(t map[StateID]bool) map[StateID]bool {
	cp := make(map[StateID]bool, len(t))
	for k, v := range t {
		cp[k] = v
	}
	return cp
}

// splitDisjoint takes real (non-epsilon) entries and produces the coarsest
// disjoint partition whose units are each labeled with the union of targets
// of every input entry covering that unit.
func splitDisjoint(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}

	boundarySet := map[rune]bool{}
	for _, e := range entries {
		boundarySet[e.Range.Lo] = true
		boundarySet[e.Range.Hi+1] = true
	}
	bounds := make([]rune, 0, len(boundarySet))
	for b := range boundarySet {
		bounds = append(bounds, b)
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i] < bounds[j] })

	var out []Entry
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]-1
		if lo > hi {
			continue
		}
		targets := map[StateID]bool{}
		for _, e := range entries {
			if e.Range.Lo <= lo && hi <= e.Range.Hi {
				for t := range e.Targets {
					targets[t] = true
				}
			}
		}
		if len(targets) == 0 {
			continue
		}
		out = append(out, Entry{Range: CharRange{Lo: lo, Hi: hi}, Targets: targets})
	}

	return out
}

// Merge folds the transitions of other into n, leaving other's states
// addressable from n. Callers are responsible for ensuring the two
// fragments were allocated from the same Allocator so state IDs don't
// collide.
func (n *NodeNFA) Merge(other *NodeNFA) {
	for from, entries := range other.Transitions {
		for _, e := range entries {
			for to := range e.Targets {
				n.AddTransition(from, e.Range, to)
			}
		}
	}
}

// --- fragment constructors, one per §4.3 lowering rule ---

// EmptyFragment lowers the Empty AST node: an epsilon edge from starts to
// finals.
func EmptyFragment(alloc *Allocator) *NodeNFA {
	start, accept := alloc.New(), alloc.New()
	n := newNodeNFA(start, accept)
	n.AddTransition(start, Epsilon, accept)
	return n
}

// CharRangeFragment lowers a CharRange AST node: a single labeled edge.
func CharRangeFragment(alloc *Allocator, r CharRange) *NodeNFA {
	start, accept := alloc.New(), alloc.New()
	n := newNodeNFA(start, accept)
	n.AddTransition(start, r, accept)
	return n
}

// ConcatFragment lowers Concat(c1...ck): chain each child's accept to the
// next child's start via epsilon.
func ConcatFragment(alloc *Allocator, children []*NodeNFA) *NodeNFA {
	if len(children) == 0 {
		return EmptyFragment(alloc)
	}

	result := children[0]
	for _, child := range children[1:] {
		result.Merge(child)
		result.AddTransition(result.Accept, Epsilon, child.Start)
		result.Accept = child.Accept
	}
	return result
}

// UnionFragment lowers Union(c1...ck): a new start/accept pair with epsilon
// edges fanning in/out of every child.
func UnionFragment(alloc *Allocator, children []*NodeNFA) *NodeNFA {
	start, accept := alloc.New(), alloc.New()
	n := newNodeNFA(start, accept)

	for _, child := range children {
		n.Merge(child)
		n.AddTransition(start, Epsilon, child.Start)
		n.AddTransition(child.Accept, Epsilon, accept)
	}

	return n
}

// StarFragment lowers Star(c): c from starts to finals, plus epsilon
// starts->finals (skip) and finals->starts (repeat).
func StarFragment(alloc *Allocator, child *NodeNFA) *NodeNFA {
	start, accept := alloc.New(), alloc.New()
	n := newNodeNFA(start, accept)

	n.Merge(child)
	n.AddTransition(start, Epsilon, child.Start)
	n.AddTransition(child.Accept, Epsilon, accept)
	n.AddTransition(start, Epsilon, accept)
	n.AddTransition(child.Accept, Epsilon, child.Start)

	return n
}

// RelocateInto renumbers every state of n (which is assumed self-contained,
// e.g. produced by a DFA-to-NodeNFA round trip) onto fresh IDs from alloc and
// stitches it into the given starts/finals, so it can be merged into a
// larger fragment under construction. This is how complement groups
// re-embed their complemented-and-optimized automaton.
func (n *NodeNFA) RelocateInto(alloc *Allocator, starts, finals StateID) *NodeNFA {
	remap := map[StateID]StateID{}
	remap[n.Start] = starts

	get := func(old StateID) StateID {
		if nu, ok := remap[old]; ok {
			return nu
		}
		nu := alloc.New()
		remap[old] = nu
		return nu
	}

	out := newNodeNFA(starts, finals)
	for from, entries := range n.Transitions {
		newFrom := get(from)
		for _, e := range entries {
			for to := range e.Targets {
				newTo := get(to)
				if to == n.acceptForRelocate() {
					newTo = finals
				}
				out.AddTransition(newFrom, e.Range, newTo)
			}
		}
	}
	return out
}

// acceptForRelocate exists solely so RelocateInto can identify which of the
// (possibly several, post-DFA-roundtrip) accept states maps to the caller's
// single `finals` slot; the DFA->NodeNFA round trip always funnels every
// final state through one synthetic accept via epsilon, so n.Accept is
// always that single state.
func (n *NodeNFA) acceptForRelocate() StateID {
	return n.Accept
}
