package parse

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/ictioglot/automaton"
	"github.com/dekarrin/ictioglot/grammar"
	"github.com/dekarrin/ictioglot/parseerr"
)

// ParseTable is the compiled, immutable action/goto table a Parser drives
// against. Safe to share across parse sessions (§5): nothing in a generated
// table is ever mutated after GenerateSLRTable returns.
type ParseTable interface {
	Initial() string
	Action(state, terminal string) (LRAction, bool)
	Goto(state, symbol string) (string, bool)
	// ExpectedTerminals lists, sorted, every terminal (or grammar.EndOfInput)
	// that has some action at state — used to build "expected X or Y"
	// syntax-error messages.
	ExpectedTerminals(state string) []string
	String() string
}

type slrTable struct {
	dfa     *automaton.ItemDFA
	actions map[string]map[string]LRAction
	gotos   map[string]map[string]string
}

func (t *slrTable) Initial() string { return t.dfa.Initial() }

func (t *slrTable) Action(state, terminal string) (LRAction, bool) {
	m, ok := t.actions[state]
	if !ok {
		return LRAction{}, false
	}
	a, ok := m[terminal]
	return a, ok
}

func (t *slrTable) Goto(state, symbol string) (string, bool) {
	m, ok := t.gotos[state]
	if !ok {
		return "", false
	}
	s, ok := m[symbol]
	return s, ok
}

func (t *slrTable) ExpectedTerminals(state string) []string {
	m := t.actions[state]
	out := make([]string, 0, len(m))
	for term, a := range m {
		if a.Type == LRError {
			continue
		}
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// String renders the table as a state/action/goto grid, one row per state,
// a column per terminal ("A:term") and non-terminal ("G:nt") — the same
// shape the teacher's own slrTable.String() used rosed's InsertTableOpts
// for, adapted to this table's state/action/goto field names.
func (t *slrTable) String() string {
	states := append([]string(nil), t.dfa.States()...)
	sort.Strings(states)
	for i := range states {
		if states[i] == t.dfa.Initial() {
			states[0], states[i] = states[i], states[0]
			break
		}
	}
	stateRefs := make(map[string]string, len(states))
	for i, s := range states {
		stateRefs[s] = fmt.Sprintf("%d", i)
	}

	termSet := map[string]bool{}
	ntSet := map[string]bool{}
	for _, m := range t.actions {
		for term := range m {
			termSet[term] = true
		}
	}
	for _, m := range t.gotos {
		for nt := range m {
			ntSet[nt] = true
		}
	}
	terms := make([]string, 0, len(termSet))
	for term := range termSet {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	nts := make([]string, 0, len(ntSet))
	for nt := range ntSet {
		nts = append(nts, nt)
	}
	sort.Strings(nts)

	headers := []string{"S", "|"}
	for _, term := range terms {
		headers = append(headers, fmt.Sprintf("A:%s", term))
	}
	headers = append(headers, "|")
	for _, nt := range nts {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data := [][]string{headers}

	for _, s := range states {
		row := []string{stateRefs[s], "|"}
		for _, term := range terms {
			cell := ""
			if a, ok := t.actions[s][term]; ok {
				switch a.Type {
				case LRAccept:
					cell = "acc"
				case LRReduce:
					cell = fmt.Sprintf("r%s", a.Rule)
				case LRShift:
					cell = fmt.Sprintf("s%s", stateRefs[a.State])
				case LRDecide:
					cell = fmt.Sprintf("d%s", a.Rule)
				}
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range nts {
			cell := ""
			if dest, ok := t.gotos[s][nt]; ok {
				cell = stateRefs[dest]
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// GenerateSLRTable builds a simple-LR(1) action/goto table for g: the
// canonical LR(0) item automaton (automaton.NewLR0ViablePrefixNFA/ToDFA),
// reduce actions placed across each completed item's non-terminal's FOLLOW
// set rather than a full canonical-LR1 lookahead. Shift/reduce and
// reduce/reduce conflicts are resolved per §4.8: a rule-level Decision
// predicate defers to runtime, otherwise higher Priority wins, ties broken
// by Assoc (shift/reduce) or declaration order (reduce/reduce). Any
// conflict resolved by a default rather than an explicit priority,
// associativity, or decision produces a warning string but never an error;
// callers that want hard failure on such warnings should check len(warnings)
// themselves.
func GenerateSLRTable(g grammar.Grammar) (ParseTable, []string, error) {
	if err := g.Validate(); err != nil {
		return nil, nil, parseerr.GrammarError(err.Error())
	}
	if len(g.StartSymbols()) == 0 {
		return nil, nil, parseerr.GrammarError("no start symbol declared")
	}

	dfa := automaton.NewLR0ViablePrefixNFA(g).ToDFA()
	nonTerms := g.NonTerminals()

	actions := map[string]map[string]LRAction{}
	gotos := map[string]map[string]string{}
	var warnings []string

	for _, state := range dfa.States() {
		items := dfa.GetValue(state)
		actions[state] = map[string]LRAction{}
		gotos[state] = map[string]string{}

		for _, key := range items.Elements() {
			item := items.Get(key)

			if len(item.Right) > 0 {
				x := item.Right[0]
				if !g.IsTerminal(x) {
					continue // non-terminal transitions become GOTO, below
				}
				target, ok := dfa.Next(state, x)
				if !ok {
					continue
				}
				resolveInto(actions[state], x, LRAction{Type: LRShift, State: target, Rule: ruleOfItem(g, item)}, state, &warnings)
				continue
			}

			// Dot at end: reduce, or accept if this is the augmented item.
			if item.NonTerminal == grammar.AugmentedStartSymbol {
				resolveInto(actions[state], grammar.EndOfInput, LRAction{Type: LRAccept}, state, &warnings)
				continue
			}

			rule := ruleOfItem(g, item)
			if rule == nil {
				return nil, nil, parseerr.GrammarError(fmt.Sprintf("internal error: no rule found for completed item %s", item))
			}
			for _, a := range g.FOLLOW(item.NonTerminal).Elements() {
				resolveInto(actions[state], a, LRAction{Type: LRReduce, Rule: rule}, state, &warnings)
			}
		}

		for _, nt := range nonTerms {
			if target, ok := dfa.Next(state, nt); ok {
				gotos[state][nt] = target
			}
		}
	}

	return &slrTable{dfa: dfa, actions: actions, gotos: gotos}, warnings, nil
}

// ruleOfItem recovers the production rule an LR0 item belongs to by
// reassembling its full right-hand side (Left followed by Right) and looking
// it up in g. Used both for completed items (reduce) and for items mid-shift
// (so a shift action can carry its own rule's priority/associativity for
// conflict resolution, same as the reducing side).
func ruleOfItem(g grammar.Grammar, item grammar.LR0Item) *grammar.ProductionRule {
	full := make(grammar.Production, 0, len(item.Left)+len(item.Right))
	full = append(full, item.Left...)
	full = append(full, item.Right...)
	if len(full) == 0 {
		full = grammar.Production{""}
	}
	return g.FindProductionRule(item.NonTerminal, full)
}

func resolveInto(table map[string]LRAction, symbol string, incoming LRAction, state string, warnings *[]string) {
	existing, ok := table[symbol]
	if !ok {
		table[symbol] = incoming
		return
	}
	if existing.Type == LRReduce && incoming.Type == LRReduce && existing.Rule == incoming.Rule {
		return
	}
	// several items of one state can shift the same terminal; they all lead
	// to the same successor state, so there is nothing to resolve.
	if existing.Type == LRShift && incoming.Type == LRShift && existing.State == incoming.State {
		return
	}

	resolved, warn := resolveConflict(existing, incoming)
	table[symbol] = resolved
	if warn != "" {
		*warnings = append(*warnings, fmt.Sprintf("state %s, symbol %q: %s", state, symbol, warn))
	}
}

func resolveConflict(a, b LRAction) (LRAction, string) {
	if a.Type == LRAccept {
		return a, ""
	}
	if b.Type == LRAccept {
		return b, ""
	}
	if a.Type == LRShift && b.Type == LRReduce {
		return resolveShiftReduce(a, b)
	}
	if a.Type == LRReduce && b.Type == LRShift {
		return resolveShiftReduce(b, a)
	}
	if a.Type == LRReduce && b.Type == LRReduce {
		return resolveReduceReduce(a, b)
	}
	return a, "unexpected duplicate action in the same cell; keeping the first one generated"
}

// resolveShiftReduce picks between a shift and a competing reduce. Both
// sides carry the rule whose production they belong to (the shift's is the
// rule mid-production at the dot about to advance, e.g. "E -> E . * E"), so
// per §4.8 the comparison is a genuine priority comparison between the two
// rules — this is what lets a higher-priority operator like * bind tighter
// than + even though both reduce through the same non-terminal. A rule with
// a Decision predicate always defers to it, checked on the reducing rule
// first since that's where C's typedef/identifier ambiguity naturally
// attaches. At equal priority, the reducing rule's associativity breaks the
// tie (left favors reduce, right favors shift); NonAssoc at equal priority
// has no declared preference, so the generator defaults to shift (the
// classic LR convention) and warns.
func resolveShiftReduce(shift, reduce LRAction) (LRAction, string) {
	rule := reduce.Rule
	if rule.Decision != nil {
		shiftCopy := shift
		return LRAction{Type: LRDecide, Rule: rule, Decision: rule.Decision, Alt: &shiftCopy}, ""
	}
	if shift.Rule != nil && shift.Rule.Decision != nil {
		reduceCopy := reduce
		return LRAction{Type: LRDecide, Rule: shift.Rule, Decision: shift.Rule.Decision, Alt: &reduceCopy}, ""
	}

	shiftPriority := 0
	if shift.Rule != nil {
		shiftPriority = shift.Rule.Priority
	}

	switch {
	case rule.Priority > shiftPriority:
		return reduce, ""
	case rule.Priority < shiftPriority:
		return shift, ""
	default:
		switch rule.Assoc {
		case grammar.Left:
			return reduce, ""
		case grammar.Right:
			return shift, ""
		default:
			return shift, fmt.Sprintf("shift/reduce conflict on rule %q has no priority, associativity, or decision predicate; defaulting to shift", rule)
		}
	}
}

// resolveReduceReduce picks between two competing reduce rules: higher
// priority wins; at equal priority, the earlier-declared rule wins (and the
// generator warns, since an equal-priority reduce/reduce conflict usually
// indicates an ambiguous grammar rather than an intended choice).
func resolveReduceReduce(a, b LRAction) (LRAction, string) {
	ra, rb := a.Rule, b.Rule
	if ra.Priority != rb.Priority {
		if ra.Priority > rb.Priority {
			return a, ""
		}
		return b, ""
	}
	winner, loser := a, b
	if rb.DeclOrder() < ra.DeclOrder() {
		winner, loser = b, a
	}
	return winner, fmt.Sprintf("reduce/reduce conflict between %q and %q at equal priority; keeping the earlier-declared rule %q", winner.Rule, loser.Rule, winner.Rule)
}
