package parse

import (
	"fmt"

	"github.com/dekarrin/ictioglot/grammar"
)

// LRActionType distinguishes what an action table cell tells the driver to
// do with the current lookahead.
type LRActionType int

const (
	// LRError means no action exists for this (state, symbol) pair: the
	// lookahead is a syntax error at this point in the parse.
	LRError LRActionType = iota

	// LRShift pushes the lookahead token and moves to State.
	LRShift

	// LRReduce pops len(Rule.Rhs) symbols, invokes Rule.Action, and pushes
	// the result under Rule.NonTerminal.
	LRReduce

	// LRAccept means the augmented start production is complete: parsing
	// succeeds.
	LRAccept

	// LRDecide means table generation found a shift/reduce conflict where
	// the reducing rule carries a semantic Decision predicate; the driver
	// must synthesize the reduction's operand slice (without committing it)
	// and call Decision(ctx, rhs, lookahead) to choose between this action
	// (the reduce, if Decision returns true) and Alt (if false).
	LRDecide
)

func (t LRActionType) String() string {
	switch t {
	case LRShift:
		return "shift"
	case LRReduce:
		return "reduce"
	case LRAccept:
		return "accept"
	case LRDecide:
		return "decide"
	default:
		return "error"
	}
}

// LRAction is one cell of the action table.
type LRAction struct {
	Type LRActionType

	// State is the shift destination; only meaningful when Type == LRShift.
	State string

	// Rule is the production to reduce by; meaningful when Type == LRReduce
	// or LRDecide.
	Rule *grammar.ProductionRule

	// Alt and Decision are set only when Type == LRDecide: Alt is the
	// action to take if Decision returns false (almost always a shift),
	// Decision is Rule.Decision copied up for convenience.
	Alt      *LRAction
	Decision grammar.Decision
}

func (a LRAction) String() string {
	switch a.Type {
	case LRShift:
		return fmt.Sprintf("shift -> %s", a.State)
	case LRReduce:
		return fmt.Sprintf("reduce %s", a.Rule)
	case LRAccept:
		return "accept"
	case LRDecide:
		return fmt.Sprintf("decide(%s vs %s)", a.Rule, a.Alt)
	default:
		return "error"
	}
}

func (a LRAction) Equal(o LRAction) bool {
	if a.Type != o.Type || a.State != o.State {
		return false
	}
	if (a.Rule == nil) != (o.Rule == nil) {
		return false
	}
	if a.Rule != nil && a.Rule != o.Rule {
		return false
	}
	return true
}
