package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/ictioglot/internal/util"
)

// EndOfInput is the lookahead symbol FOLLOW sets carry for every symbol that
// can legally sit at the end of the token stream.
const EndOfInput = "$"

// AugmentedStartSymbol names the synthetic non-terminal Augmented adds above
// every declared start symbol, so canonical-LR construction always has a
// single accepting item to look for regardless of how many start symbols
// the grammar itself declares.
const AugmentedStartSymbol = "$ACCEPT"

// Production is a rule's right-hand side, symbol by symbol. A lone empty
// string element (Production{""}) denotes an epsilon production; it is
// never mixed with real symbols.
type Production []string

// IsEpsilon reports whether p is the epsilon production.
func (p Production) IsEpsilon() bool {
	return len(p) == 1 && p[0] == ""
}

func (p Production) String() string {
	if p.IsEpsilon() {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Associativity picks the fallback for a shift/reduce conflict once
// priority is tied.
type Associativity int

const (
	NonAssoc Associativity = iota
	Left
	Right
)

func (a Associativity) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "nonassoc"
	}
}

// Decision is a semantic tiebreaker consulted when a conflict is marked
// decidable at runtime rather than at table-generation time (the C typedef
// vs. identifier case being the motivating example). ctx is the driver's
// ParserContext, rhs is the synthesized-but-not-yet-committed reduction
// operands, and lookahead is the offending terminal. True commits the
// reduction; false prefers the competing action (normally a shift).
type Decision func(ctx any, rhs []any, lookahead string) bool

// ReduceFunc builds the value a reduction leaves on the parse stack from its
// already-reduced operands.
type ReduceFunc func(ctx any, rhs []any) (any, error)

// ProductionRule is one registered alternative for a non-terminal. Rhs is
// what table construction and the LR item sets actually see; when the rule
// was declared with an optional symbol, Rhs is one of the two expansions and
// FullRhs/Omitted record how to recover the original arity for the shared
// callback (see Grammar.AddRule).
type ProductionRule struct {
	NonTerminal string
	Rhs         Production
	FullRhs     Production
	Omitted     []int

	Priority int
	Assoc    Associativity
	Decision Decision
	Action   ReduceFunc

	declOrder int
}

func (pr *ProductionRule) String() string {
	return fmt.Sprintf("%s -> %s", pr.NonTerminal, pr.Rhs)
}

// DeclOrder returns the rule's position in overall AddRule/AddProductionRule
// call order, used to break reduce/reduce conflicts left tied after
// priority (earlier declaration wins).
func (pr *ProductionRule) DeclOrder() int {
	return pr.declOrder
}

// Rule groups every alternative production declared for one non-terminal,
// matching the shape call sites expect from g.Rule(X).Productions.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// Grammar is a context-free grammar built by sequential AddRule calls and
// then handed, by value, to table-generation and automaton code. Query
// methods (FIRST, FOLLOW, Terminals, LR0Items, ...) are side-effect-free and
// safe to call on a value received by another package; only the
// registration methods mutate and so take a pointer receiver.
type Grammar struct {
	startSymbols []string
	order        []string
	rules        map[string][]*ProductionRule
	terminals    map[string]TermClass
	termHuman    map[string]string
	ruleSeq      int
}

// New returns an empty grammar ready for AddRule/AddStart calls.
func New() *Grammar {
	return &Grammar{
		rules:     map[string][]*ProductionRule{},
		termHuman: map[string]string{},
	}
}

// TermClass is the minimal contract a terminal's token class must satisfy to
// be registered with AddTerm: an identifier usable as the terminal's grammar
// symbol. lex.TokenClass satisfies this without grammar needing to import
// lex.
type TermClass interface {
	ID() string
}

// AddTerm registers a terminal symbol's token class, so Terminals/Validate
// know about it even if, by coincidence, no production's RHS yet mentions
// it, and so Term can report a human name for it.
func (g *Grammar) AddTerm(id string, class TermClass) {
	if g.terminals == nil {
		g.terminals = map[string]TermClass{}
	}
	g.terminals[id] = class
}

// Validate reports a GrammarError-class problem with the grammar as
// registered so far: no rules, no terminals, or a RHS referencing a
// non-terminal that was never the LHS of any AddRule/AddProductionRule call.
func (g Grammar) Validate() error {
	if len(g.rules) == 0 {
		return fmt.Errorf("grammar: no rules defined")
	}
	if len(g.Terminals()) == 0 {
		return fmt.Errorf("grammar: no terminals defined")
	}
	for _, nt := range g.order {
		for _, pr := range g.rules[nt] {
			for _, sym := range pr.FullRhs {
				if sym == "" || g.IsTerminal(sym) {
					continue
				}
				if _, ok := g.rules[sym]; !ok {
					return fmt.Errorf("grammar: rule %s references undefined non-terminal %s", nt, sym)
				}
			}
		}
	}
	return nil
}

// AddStart declares nt as an accepting non-terminal: end-of-input succeeds
// if a completed nt sits alone on the stack. Any number of start symbols may
// be declared.
func (g *Grammar) AddStart(nt string) {
	for _, s := range g.startSymbols {
		if s == nt {
			return
		}
	}
	g.startSymbols = append(g.startSymbols, nt)
}

// StartSymbols returns the declared accepting non-terminals, in declaration
// order.
func (g Grammar) StartSymbols() []string {
	return append([]string(nil), g.startSymbols...)
}

// SetTermHuman attaches a human-readable name to a terminal symbol, used in
// syntax-error messages ("expected a closing brace" rather than "expected
// RBRACE").
func (g *Grammar) SetTermHuman(id, human string) {
	g.termHuman[id] = human
}

// Term returns the human-readable name for a terminal, falling back to the
// raw symbol if none was registered.
func (g Grammar) Term(id string) string {
	if h, ok := g.termHuman[id]; ok {
		return h
	}
	return id
}

// IsTerminal reports whether sym is a terminal symbol by the grammar's
// naming convention: non-terminals are written in all-uppercase, terminals
// in lowercase. The epsilon marker is neither.
func (g Grammar) IsTerminal(sym string) bool {
	if sym == "" {
		return false
	}
	return sym == strings.ToLower(sym)
}

// AddRule registers a bare production alternative for nonTerminal with no
// priority, associativity, decision predicate, or action — equivalent to
// AddProductionRule(nonTerminal, rhs, nil, 0, NonAssoc, nil, nil). Useful for
// structural-only grammars (FIRST/FOLLOW experimentation, grammar-shape
// tests) where the LR-driver metadata is irrelevant.
func (g *Grammar) AddRule(nonTerminal string, rhs Production) error {
	return g.AddProductionRule(nonTerminal, rhs, nil, 0, NonAssoc, nil, nil)
}

// AddProductionRule registers one production alternative for nonTerminal.
// optional, if non-nil, must have the same length as rhs; at most one
// element may be true, marking that RHS symbol as optional. An optional
// symbol is rewritten into two productions sharing callback, priority,
// associativity, and decision: one with the symbol present, one without.
// The without-symbol production's FullRhs/Omitted let the driver splice a
// nil placeholder back into the callback's operand slice at that position,
// so Action always sees an operand list shaped like the full declaration.
//
// rhs == nil or len(rhs) == 0 declares an epsilon production.
func (g *Grammar) AddProductionRule(nonTerminal string, rhs []string, optional []bool, priority int, assoc Associativity, decision Decision, action ReduceFunc) error {
	if nonTerminal == "" {
		return fmt.Errorf("grammar: non-terminal name must not be empty")
	}
	if nonTerminal != strings.ToUpper(nonTerminal) {
		return fmt.Errorf("grammar: non-terminal %q must be written in all-uppercase", nonTerminal)
	}
	if optional != nil && len(optional) != len(rhs) {
		return fmt.Errorf("grammar: optional mask length %d does not match RHS length %d for %q", len(optional), len(rhs), nonTerminal)
	}

	var full Production
	if len(rhs) == 0 {
		full = Production{""}
	} else {
		full = append(Production(nil), rhs...)
	}

	optIdx := -1
	for i, o := range optional {
		if !o {
			continue
		}
		if optIdx != -1 {
			return fmt.Errorf("grammar: rule %q declares more than one optional RHS symbol; rewrite as two rules instead", nonTerminal)
		}
		optIdx = i
	}

	if _, exists := g.rules[nonTerminal]; !exists {
		g.order = append(g.order, nonTerminal)
	}

	pr := &ProductionRule{
		NonTerminal: nonTerminal,
		Rhs:         full,
		FullRhs:     full,
		Priority:    priority,
		Assoc:       assoc,
		Decision:    decision,
		Action:      action,
		declOrder:   g.ruleSeq,
	}
	g.ruleSeq++
	g.rules[nonTerminal] = append(g.rules[nonTerminal], pr)

	if optIdx >= 0 {
		reduced := make(Production, 0, len(full)-1)
		reduced = append(reduced, full[:optIdx]...)
		reduced = append(reduced, full[optIdx+1:]...)
		if len(reduced) == 0 {
			reduced = Production{""}
		}
		pr2 := &ProductionRule{
			NonTerminal: nonTerminal,
			Rhs:         reduced,
			FullRhs:     full,
			Omitted:     []int{optIdx},
			Priority:    priority,
			Assoc:       assoc,
			Decision:    decision,
			Action:      action,
			declOrder:   g.ruleSeq,
		}
		g.ruleSeq++
		g.rules[nonTerminal] = append(g.rules[nonTerminal], pr2)
	}

	return nil
}

// Rule returns the productions declared for non-terminal nt, or a Rule with
// a nil Productions slice if nt was never the LHS of an AddRule call.
func (g Grammar) Rule(nt string) Rule {
	prs := g.rules[nt]
	prods := make([]Production, len(prs))
	for i, pr := range prs {
		prods[i] = pr.Rhs
	}
	return Rule{NonTerminal: nt, Productions: prods}
}

// FindProductionRule returns the registered rule for nonTerminal whose
// (possibly optional-rewritten) Rhs matches rhs exactly, or nil if none
// does. Used to map a completed LR item back to the rule metadata
// (priority, associativity, decision, action) that produced it.
func (g Grammar) FindProductionRule(nonTerminal string, rhs Production) *ProductionRule {
	for _, pr := range g.rules[nonTerminal] {
		if len(pr.Rhs) != len(rhs) {
			continue
		}
		match := true
		for i := range rhs {
			if pr.Rhs[i] != rhs[i] {
				match = false
				break
			}
		}
		if match {
			return pr
		}
	}
	return nil
}

// Rules returns every registered production rule, across every non-terminal,
// in the order AddRule built them (an optional-symbol rule's two expansions
// are adjacent, full variant first).
func (g Grammar) Rules() []*ProductionRule {
	var out []*ProductionRule
	for _, nt := range g.order {
		out = append(out, g.rules[nt]...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].declOrder < out[j].declOrder })
	return out
}

// NonTerminals returns every declared non-terminal, sorted.
func (g Grammar) NonTerminals() []string {
	out := append([]string(nil), g.order...)
	sort.Strings(out)
	return out
}

// Terminals returns every symbol appearing in some production's RHS that is
// not itself a declared non-terminal, sorted.
func (g Grammar) Terminals() []string {
	seen := util.NewStringSet()
	for id := range g.terminals {
		seen.Add(id)
	}
	for _, prs := range g.rules {
		for _, pr := range prs {
			for _, sym := range pr.FullRhs {
				if sym == "" || !g.IsTerminal(sym) {
					continue
				}
				seen.Add(sym)
			}
		}
	}
	out := seen.Elements()
	sort.Strings(out)
	return out
}

// Augmented returns a copy of g with a synthetic AugmentedStartSymbol
// production added for every declared start symbol
// (AugmentedStartSymbol -> s), as canonical-LR construction requires a
// single unambiguous accepting item.
func (g Grammar) Augmented() Grammar {
	ag := g
	ag.rules = make(map[string][]*ProductionRule, len(g.rules)+1)
	for k, v := range g.rules {
		ag.rules[k] = v
	}
	ag.order = append([]string(nil), g.order...)

	prods := make([]*ProductionRule, len(g.startSymbols))
	for i, s := range g.startSymbols {
		prods[i] = &ProductionRule{
			NonTerminal: AugmentedStartSymbol,
			Rhs:         Production{s},
			FullRhs:     Production{s},
			declOrder:   -1,
		}
	}
	ag.rules[AugmentedStartSymbol] = prods
	ag.order = append([]string{AugmentedStartSymbol}, ag.order...)
	return ag
}

// StartSymbol returns the name of the augmented grammar's single accepting
// non-terminal. Only meaningful on a grammar returned by Augmented.
func (g Grammar) StartSymbol() string {
	return AugmentedStartSymbol
}

// LR0Items enumerates every dotted item (every dot position of every
// production of every non-terminal). An epsilon production contributes
// exactly one item, already at its final dot position.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item
	for _, nt := range g.order {
		for _, pr := range g.rules[nt] {
			rhs := pr.Rhs
			if rhs.IsEpsilon() {
				items = append(items, LR0Item{NonTerminal: nt})
				continue
			}
			for dot := 0; dot <= len(rhs); dot++ {
				items = append(items, LR0Item{
					NonTerminal: nt,
					Left:        append([]string(nil), rhs[:dot]...),
					Right:       append([]string(nil), rhs[dot:]...),
				})
			}
		}
	}
	return items
}

// FIRST computes FIRST(sym): the set of terminals (plus "" for epsilon, if
// sym is nullable) that can begin some string derived from sym. For a
// terminal this is just {sym}.
func (g Grammar) FIRST(sym string) util.StringSet {
	if g.IsTerminal(sym) {
		return util.StringSetOf([]string{sym})
	}
	sets := g.firstSetsAll()
	if s, ok := sets[sym]; ok {
		return util.StringSetOf(s.Elements())
	}
	return util.NewStringSet()
}

// firstOfString computes FIRST of a symbol sequence (used for both FIRST's
// own fixed point and FOLLOW's "what comes after this non-terminal in the
// production" step): the union of FIRST of each leading symbol up to and
// including the first non-nullable one, plus "" if every symbol is
// nullable.
func (g Grammar) firstOfString(syms []string, first map[string]util.StringSet) (util.StringSet, bool) {
	out := util.NewStringSet()
	for _, sym := range syms {
		if sym == "" {
			continue
		}
		var symFirst util.StringSet
		if g.IsTerminal(sym) {
			symFirst = util.StringSetOf([]string{sym})
		} else {
			symFirst = first[sym]
		}
		nullable := false
		for _, f := range symFirst.Elements() {
			if f == "" {
				nullable = true
				continue
			}
			out.Add(f)
		}
		if !nullable {
			return out, false
		}
	}
	return out, true
}

func (g Grammar) firstSetsAll() map[string]util.StringSet {
	sets := map[string]util.StringSet{}
	for _, nt := range g.order {
		sets[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.order {
			for _, pr := range g.rules[nt] {
				if pr.Rhs.IsEpsilon() {
					if !sets[nt].Has("") {
						sets[nt].Add("")
						changed = true
					}
					continue
				}
				add, nullable := g.firstOfString(pr.Rhs, sets)
				for _, f := range add.Elements() {
					if !sets[nt].Has(f) {
						sets[nt].Add(f)
						changed = true
					}
				}
				if nullable && !sets[nt].Has("") {
					sets[nt].Add("")
					changed = true
				}
			}
		}
	}
	return sets
}

// FOLLOW computes FOLLOW(nt): the set of terminals that can immediately
// follow nt in some valid derivation, including EndOfInput if nt may be the
// last symbol derived from a start symbol.
func (g Grammar) FOLLOW(nt string) util.StringSet {
	sets := g.followSetsAll()
	if s, ok := sets[nt]; ok {
		return util.StringSetOf(s.Elements())
	}
	return util.NewStringSet()
}

func (g Grammar) followSetsAll() map[string]util.StringSet {
	first := g.firstSetsAll()

	sets := map[string]util.StringSet{}
	for _, nt := range g.order {
		sets[nt] = util.NewStringSet()
	}
	for _, s := range g.startSymbols {
		if _, ok := sets[s]; ok {
			sets[s].Add(EndOfInput)
		}
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.order {
			for _, pr := range g.rules[nt] {
				rhs := pr.Rhs
				if rhs.IsEpsilon() {
					continue
				}
				for i, sym := range rhs {
					if sym == "" || g.IsTerminal(sym) {
						continue
					}
					rest := rhs[i+1:]
					add, nullable := g.firstOfString(rest, first)
					for _, f := range add.Elements() {
						if !sets[sym].Has(f) {
							sets[sym].Add(f)
							changed = true
						}
					}
					if nullable {
						for _, f := range sets[nt].Elements() {
							if !sets[sym].Has(f) {
								sets[sym].Add(f)
								changed = true
							}
						}
					}
				}
			}
		}
	}
	return sets
}
