// Package parse implements the augmented shift-reduce parser driver (§4.8):
// a table-driven LR engine generalized over three things the classic
// algorithm doesn't have on its own — per-rule priority/associativity for
// automatic conflict resolution, a semantic Decision predicate for
// conflicts that can only be resolved by looking at parser state at
// runtime (C's typedef/identifier ambiguity being the motivating case),
// and optional RHS symbols rewritten into paired rules at registration
// time. Grammar registration itself lives in the grammar package
// (grammar.Grammar.AddProductionRule / AddStart); GenerateSLRTable plays
// the role of generate_table().
package parse

import (
	"fmt"
	"io"

	"github.com/dekarrin/ictioglot/grammar"
	"github.com/dekarrin/ictioglot/internal/util"
	"github.com/dekarrin/ictioglot/lex"
	"github.com/dekarrin/ictioglot/parseerr"
)

// ParserContext is attached to every callback invocation for the lifetime
// of one parse. UserData is whatever the caller wants threaded into
// ReduceFunc/Decision calls — for a language front-end, typically a scope
// stack and a diagnostic reporter, since reductions may need to update
// scope (e.g. a typedef declaration registering its new type name)
// immediately, mid-parse, rather than after the fact.
type ParserContext struct {
	UserData any
	debug    io.Writer
}

// NewParserContext returns a context carrying user as UserData.
func NewParserContext(user any) *ParserContext {
	return &ParserContext{UserData: user}
}

// SetDebugStream directs the driver's shift/reduce trace to w. Passing nil
// (the default) disables tracing.
func (c *ParserContext) SetDebugStream(w io.Writer) {
	c.debug = w
}

func (c *ParserContext) trace(format string, args ...any) {
	if c == nil || c.debug == nil {
		return
	}
	fmt.Fprintf(c.debug, format+"\n", args...)
}

// TokenStream supplies tokens one at a time for Parser.Parse; Next returns a
// nil token (with a nil error) once input is exhausted.
type TokenStream interface {
	Next() (lex.Token, error)
}

// Parser drives a generated ParseTable against an incoming token sequence.
// A Parser is single-session state (§5): the compiled ParseTable may be
// shared across concurrently running Parsers, but a Parser instance and its
// ParserContext must not be.
type Parser struct {
	g     grammar.Grammar
	table ParseTable
	ctx   *ParserContext

	stateStack util.Stack[string]
	symStack   util.Stack[string]
	valStack   util.Stack[any]

	lastTok lex.Token
	done    bool
	result  any
}

// New returns a Parser ready to Feed tokens, driving table (as produced by
// GenerateSLRTable(g)) and invoking callbacks with ctx.
func New(table ParseTable, g grammar.Grammar, ctx *ParserContext) *Parser {
	if ctx == nil {
		ctx = NewParserContext(nil)
	}
	p := &Parser{g: g, table: table, ctx: ctx}
	p.Reset()
	return p
}

// Reset clears all per-parse state and reuses the compiled table, per §5's
// "reset() zeros per-session state and reuses the compiled tables."
func (p *Parser) Reset() {
	p.stateStack = util.Stack[string]{}
	p.symStack = util.Stack[string]{}
	p.valStack = util.Stack[any]{}
	p.stateStack.Push(p.table.Initial())
	p.lastTok = nil
	p.done = false
	p.result = nil
}

// Feed consumes one token, performing every reduce the action table calls
// for before the token is finally shifted. It returns a *parseerr error
// (UnknownToken or SyntaxError) on failure; neither is recoverable by the
// driver itself (§4.8).
func (p *Parser) Feed(tok lex.Token) error {
	if p.done {
		return parseerr.GrammarError("parser already reached an accepting state")
	}
	term := tok.Class().ID()
	if !p.knownTerminal(term) {
		return parseerr.UnknownToken(term, tok.Line(), tok.LinePos())
	}
	p.lastTok = tok
	return p.driveOn(term, tok)
}

// End signals that no further tokens are coming, performing every reduce
// the table calls for on the end-of-input lookahead and returning the
// synthesized value of whichever start symbol completed. Calling End after
// a prior successful End returns the same result again.
func (p *Parser) End() (any, error) {
	if p.done {
		return p.result, nil
	}
	for {
		state := p.stateStack.Peek()
		action, ok := p.table.Action(state, grammar.EndOfInput)
		if !ok {
			return nil, p.syntaxError(state, grammar.EndOfInput)
		}
		action = p.resolveRuntime(action, grammar.EndOfInput)

		switch action.Type {
		case LRReduce:
			if err := p.reduce(action.Rule); err != nil {
				return nil, err
			}
		case LRAccept:
			p.done = true
			p.result = p.valStack.Peek()
			return p.result, nil
		default:
			return nil, p.syntaxError(state, grammar.EndOfInput)
		}
	}
}

// Parse feeds every token stream produces, in order, then calls End.
func (p *Parser) Parse(stream TokenStream) (any, error) {
	for {
		tok, err := stream.Next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			break
		}
		if err := p.Feed(tok); err != nil {
			return nil, err
		}
	}
	return p.End()
}

func (p *Parser) knownTerminal(term string) bool {
	for _, t := range p.g.Terminals() {
		if t == term {
			return true
		}
	}
	return false
}

// driveOn performs reduces until either term is shifted (one token
// consumed, ready for the next Feed) or the table rejects term outright.
func (p *Parser) driveOn(term string, tok lex.Token) error {
	for {
		state := p.stateStack.Peek()
		action, ok := p.table.Action(state, term)
		if !ok {
			return p.syntaxError(state, term)
		}
		action = p.resolveRuntime(action, term)

		switch action.Type {
		case LRShift:
			p.stateStack.Push(action.State)
			p.symStack.Push(term)
			p.valStack.Push(any(tok))
			p.ctx.trace("shift %s -> state %s", term, action.State)
			return nil
		case LRReduce:
			if err := p.reduce(action.Rule); err != nil {
				return err
			}
		default:
			return p.syntaxError(state, term)
		}
	}
}

// resolveRuntime turns an LRDecide cell into a concrete action by
// synthesizing (without committing) the reduction's operand slice and
// calling its Decision predicate, per §4.8's semantic-decision mechanism.
func (p *Parser) resolveRuntime(action LRAction, lookahead string) LRAction {
	if action.Type != LRDecide {
		return action
	}
	n := len(action.Rule.Rhs)
	if action.Rule.Rhs.IsEpsilon() {
		n = 0
	}
	rhs := p.peekN(n)
	if action.Decision(p.ctx.UserData, rhs, lookahead) {
		return LRAction{Type: LRReduce, Rule: action.Rule}
	}
	return *action.Alt
}

// peekN returns a copy of the top n values of the operand stack, bottom to
// top, without popping them.
func (p *Parser) peekN(n int) []any {
	all := p.valStack.Of
	start := len(all) - n
	if start < 0 {
		start = 0
	}
	out := make([]any, len(all)-start)
	copy(out, all[start:])
	return out
}

// reduce pops |Rhs| stack entries, reconstitutes the full-arity operand
// slice (splicing a nil placeholder back in for any symbol optional-rewrite
// omitted), invokes the rule's Action, and pushes the result under
// rule.NonTerminal via the goto table.
func (p *Parser) reduce(rule *grammar.ProductionRule) error {
	n := len(rule.Rhs)
	if rule.Rhs.IsEpsilon() {
		n = 0
	}

	rhsVals := make([]any, n)
	for i := n - 1; i >= 0; i-- {
		p.stateStack.Pop()
		p.symStack.Pop()
		rhsVals[i] = p.valStack.Pop()
	}

	full := rhsVals
	if len(rule.Omitted) > 0 {
		full = make([]any, len(rule.FullRhs))
		omitIdx, valIdx := 0, 0
		for i := range full {
			if omitIdx < len(rule.Omitted) && rule.Omitted[omitIdx] == i {
				full[i] = nil
				omitIdx++
				continue
			}
			full[i] = rhsVals[valIdx]
			valIdx++
		}
	}

	var value any
	if rule.Action != nil {
		var err error
		value, err = rule.Action(p.ctx.UserData, full)
		if err != nil {
			return err
		}
	}

	state := p.stateStack.Peek()
	next, ok := p.table.Goto(state, rule.NonTerminal)
	if !ok {
		return parseerr.GrammarError(fmt.Sprintf("no GOTO entry for state %s on %s", state, rule.NonTerminal))
	}
	p.stateStack.Push(next)
	p.symStack.Push(rule.NonTerminal)
	p.valStack.Push(value)

	p.ctx.trace("reduce %s -> goto %s", rule, next)
	return nil
}

func (p *Parser) syntaxError(state, term string) error {
	var human string
	var line, col int
	if term == grammar.EndOfInput || p.lastTok == nil {
		human = "end of input"
		if p.lastTok != nil {
			line, col = p.lastTok.Line(), p.lastTok.LinePos()
		}
	} else {
		human = fmt.Sprintf("%q", p.lastTok.Lexeme())
		line, col = p.lastTok.Line(), p.lastTok.LinePos()
	}

	var expected []string
	for _, id := range p.table.ExpectedTerminals(state) {
		if id == grammar.EndOfInput {
			expected = append(expected, "end of input")
			continue
		}
		expected = append(expected, p.g.Term(id))
	}

	return parseerr.SyntaxError(human, expected, line, col)
}
