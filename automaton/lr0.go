package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/ictioglot/grammar"
	"github.com/dekarrin/ictioglot/internal/util"
)

// LR0Automaton is the non-deterministic viable-prefix automaton built
// directly from a grammar's dotted items: one state per item, a
// symbol-labeled transition advancing the dot over a matched symbol, and an
// epsilon transition into every production of a non-terminal immediately
// after the dot. It exists only to be fed into ToDFA; nothing steps it
// directly.
type LR0Automaton struct {
	items   []grammar.LR0Item
	indexOf map[string]int
	trans   []map[string][]int
	eps     []map[int]bool
	starts  []int
}

// NewLR0ViablePrefixNFA builds the item automaton for g's viable prefixes.
// g is augmented first (see grammar.Grammar.Augmented) so there is always at
// least one accepting item to seed the start state's closure from, even
// when the caller declared several start symbols.
func NewLR0ViablePrefixNFA(g grammar.Grammar) *LR0Automaton {
	g = g.Augmented()
	items := g.LR0Items()

	a := &LR0Automaton{
		items:   items,
		indexOf: make(map[string]int, len(items)),
		trans:   make([]map[string][]int, len(items)),
		eps:     make([]map[int]bool, len(items)),
	}
	for i, it := range items {
		a.indexOf[it.String()] = i
		a.trans[i] = map[string][]int{}
		a.eps[i] = map[int]bool{}
	}

	for i, it := range items {
		if it.NonTerminal == g.StartSymbol() && len(it.Left) == 0 {
			a.starts = append(a.starts, i)
		}
		if len(it.Right) == 0 {
			continue
		}
		x := it.Right[0]
		advanced := grammar.LR0Item{
			NonTerminal: it.NonTerminal,
			Left:        append(append([]string(nil), it.Left...), x),
			Right:       append([]string(nil), it.Right[1:]...),
		}
		if j, ok := a.indexOf[advanced.String()]; ok {
			a.trans[i][x] = append(a.trans[i][x], j)
		}

		if strings.ToUpper(x) != x {
			continue // terminal: no epsilon expansion
		}
		for _, prod := range g.Rule(x).Productions {
			target := grammar.LR0Item{NonTerminal: x}
			if !prod.IsEpsilon() {
				target.Right = append([]string(nil), prod...)
			}
			if j, ok := a.indexOf[target.String()]; ok {
				a.eps[i][j] = true
			}
		}
	}

	return a
}

// closure returns the set of item indices reachable from indices via zero or
// more epsilon transitions.
func (a *LR0Automaton) closure(indices []int) map[int]bool {
	closure := make(map[int]bool, len(indices))
	stack := append([]int(nil), indices...)
	for _, i := range indices {
		closure[i] = true
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for next := range a.eps[cur] {
			if !closure[next] {
				closure[next] = true
				stack = append(stack, next)
			}
		}
	}
	return closure
}

func (a *LR0Automaton) itemSetValue(set map[int]bool) util.SVSet[grammar.LR0Item] {
	v := util.NewSVSet[grammar.LR0Item]()
	for idx := range set {
		it := a.items[idx]
		v.Set(it.String(), it)
	}
	return v
}

func (a *LR0Automaton) setKey(set map[int]bool) string {
	idxs := make([]int, 0, len(set))
	for i := range set {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	parts := make([]string, len(idxs))
	for i, idx := range idxs {
		parts[i] = a.items[idx].String()
	}
	return strings.Join(parts, " || ")
}

// ItemDFA is the canonical collection of LR(0) item sets, reached via
// subset construction over an LR0Automaton: each state is one canonical
// collection, named "I0", "I1", ... in BFS discovery order from the start
// state, which is always "I0".
type ItemDFA struct {
	order  []string
	values map[string]util.SVSet[grammar.LR0Item]
	trans  map[string]map[string]string
	start  string
}

// ToDFA runs subset construction over the item NFA, merging item sets that
// are reachable by the same sequence of grammar symbols into single
// canonical-collection states.
func (a *LR0Automaton) ToDFA() *ItemDFA {
	d := &ItemDFA{
		values: map[string]util.SVSet[grammar.LR0Item]{},
		trans:  map[string]map[string]string{},
	}

	nameOf := map[string]string{}
	setOf := map[string]map[int]bool{}

	startClosure := a.closure(a.starts)
	d.start = "I0"
	nameOf[a.setKey(startClosure)] = d.start
	setOf[d.start] = startClosure
	d.values[d.start] = a.itemSetValue(startClosure)
	d.order = append(d.order, d.start)

	queue := []string{d.start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		set := setOf[cur]

		symSeen := map[string]bool{}
		for idx := range set {
			it := a.items[idx]
			if len(it.Right) > 0 {
				symSeen[it.Right[0]] = true
			}
		}
		syms := make([]string, 0, len(symSeen))
		for s := range symSeen {
			syms = append(syms, s)
		}
		sort.Strings(syms)

		for _, sym := range syms {
			var moved []int
			for idx := range set {
				moved = append(moved, a.trans[idx][sym]...)
			}
			if len(moved) == 0 {
				continue
			}
			closure := a.closure(moved)
			key := a.setKey(closure)
			name, exists := nameOf[key]
			if !exists {
				name = fmt.Sprintf("I%d", len(d.order))
				nameOf[key] = name
				setOf[name] = closure
				d.values[name] = a.itemSetValue(closure)
				d.order = append(d.order, name)
				queue = append(queue, name)
			}
			if d.trans[cur] == nil {
				d.trans[cur] = map[string]string{}
			}
			d.trans[cur][sym] = name
		}
	}

	return d
}

// States returns every state name, in BFS discovery order (so index 0 is
// always the start state).
func (d *ItemDFA) States() []string {
	return append([]string(nil), d.order...)
}

// Initial returns the start state's name.
func (d *ItemDFA) Initial() string {
	return d.start
}

// Next returns the state reached from state on symbol, if any.
func (d *ItemDFA) Next(state, symbol string) (string, bool) {
	m, ok := d.trans[state]
	if !ok {
		return "", false
	}
	s, ok := m[symbol]
	return s, ok
}

// GetValue returns the canonical item set a state represents.
func (d *ItemDFA) GetValue(state string) util.SVSet[grammar.LR0Item] {
	return d.values[state]
}

func (d *ItemDFA) String() string {
	var b strings.Builder
	for _, s := range d.order {
		fmt.Fprintf(&b, "%s:\n", s)
		items := d.values[s].Elements()
		sort.Strings(items)
		for _, key := range items {
			fmt.Fprintf(&b, "  %s\n", d.values[s].Get(key))
		}
		syms := make([]string, 0, len(d.trans[s]))
		for sym := range d.trans[s] {
			syms = append(syms, sym)
		}
		sort.Strings(syms)
		for _, sym := range syms {
			fmt.Fprintf(&b, "  --%s--> %s\n", sym, d.trans[s][sym])
		}
	}
	return b.String()
}
