// Package regex implements the extended-syntax regular-expression engine:
// a single-pass parser (desugaring inline as it builds) producing a small AST, and
// lowering of that AST to automata via the automaton package. Two public
// entry points are offered: Compile (DFA-backed, amortizes construction
// cost across many matches) and NFAMatch (NFA-backed, cheaper to build,
// more expensive per character).
package regex

import "github.com/dekarrin/ictioglot/automaton"

// node is the sum type for the regex AST (§4.2): Empty, CharRange, Group,
// Concat, Union, Star. Concrete variants implement isNode as an unexported
// marker, following the "tagged variant instead of dynamic downcast"
// guidance - one type switch over the concrete variants replaces runtime
// type assertions scattered around. The compiler does not check that switch
// for exhaustiveness; lowering panics on a variant it does not handle.
type node interface {
	isNode()
}

// emptyNode matches the empty string.
type emptyNode struct{}

func (emptyNode) isNode() {}

// charRangeNode matches a single code point in [Lo, Hi].
type charRangeNode struct {
	Lo, Hi rune
}

func (charRangeNode) isNode() {}

// concatNode matches its children in sequence.
type concatNode struct {
	Children []node
}

func (concatNode) isNode() {}

// unionNode matches any one of its children.
type unionNode struct {
	Children []node
}

func (unionNode) isNode() {}

// starNode matches zero or more repetitions of Child.
type starNode struct {
	Child node
}

func (starNode) isNode() {}

// groupNode wraps Child; if Complement is set, the group matches
// Σ* \ L(Child) instead of L(Child), realized via the DFA round-trip
// described in §4.2/§4.3.
type groupNode struct {
	Child      node
	Complement bool
}

func (groupNode) isNode() {}

// lower converts an AST node to an NFA fragment per the §4.3 lowering
// rules, using alloc to mint fresh state IDs. Complement groups are
// resolved eagerly: the child is lowered, flattened, determinized over
// [lo,hi], complemented, optimized, and round-tripped back to fragment
// form before being relocated into the surrounding fragment's ID space.
func lower(n node, alloc *automaton.Allocator, lo, hi rune) *automaton.NodeNFA {
	switch v := n.(type) {
	case emptyNode:
		return automaton.EmptyFragment(alloc)
	case charRangeNode:
		return automaton.CharRangeFragment(alloc, automaton.CharRange{Lo: v.Lo, Hi: v.Hi})
	case concatNode:
		children := make([]*automaton.NodeNFA, len(v.Children))
		for i, c := range v.Children {
			children[i] = lower(c, alloc, lo, hi)
		}
		return automaton.ConcatFragment(alloc, children)
	case unionNode:
		children := make([]*automaton.NodeNFA, len(v.Children))
		for i, c := range v.Children {
			children[i] = lower(c, alloc, lo, hi)
		}
		return automaton.UnionFragment(alloc, children)
	case starNode:
		return automaton.StarFragment(alloc, lower(v.Child, alloc, lo, hi))
	case groupNode:
		if !v.Complement {
			return lower(v.Child, alloc, lo, hi)
		}
		return lowerComplement(v.Child, alloc, lo, hi)
	default:
		panic("regex: unhandled node type in lower")
	}
}

// lowerComplement implements (!X): build X in an isolated allocator space,
// flatten, determinize over [lo,hi], complement the finals, optimize away
// unreachable/dead states, then round-trip to fragment form and relocate
// into the caller's allocator. Never attempts a direct NFA complement,
// since that requires determinization anyway (spec's own guidance).
func lowerComplement(child node, alloc *automaton.Allocator, lo, hi rune) *automaton.NodeNFA {
	childAlloc := &automaton.Allocator{}
	frag := lower(child, childAlloc, lo, hi)
	nfa := automaton.Flatten(frag)
	dfa := automaton.Determinize(nfa, lo, hi)
	comp := dfa.Complement().Optimize()

	back := comp.ToNodeNFA(childAlloc)

	starts, finals := alloc.New(), alloc.New()
	return back.RelocateInto(alloc, starts, finals)
}
