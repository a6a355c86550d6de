package lex

import "github.com/dekarrin/ictioglot/regex"

// Action builds a Token from a rule's matched lexeme and position. Returning
// a nil Token with a nil error consumes the lexeme without emitting
// anything — the idiom for whitespace and comment rules.
type Action func(lexeme string, line, linePos int, fullLine string, offset, length int, filename string) (Token, error)

// PreAccept is consulted once per reset, before a rule is allowed to
// participate in matching the next token. It receives the most recently
// emitted non-skip token (nil if this is the first token, or all prior
// tokens were skipped). Returning false suppresses the rule for this token
// only — e.g. a signed-number pattern that should only fire where a prior
// token makes a leading sign unambiguous.
type PreAccept func(last Token) bool

// Rule is one declared lexer rule: a pattern compiled to a long-lived
// Matcher, the TokenClass it produces, its place in the major/minor
// priority lattice (§4.6), and the callback that turns a matched lexeme
// into a Token.
type Rule struct {
	// Name identifies the rule in conflict diagnostics.
	Name string

	// Class is the TokenClass this rule's Action normally builds. Not
	// required to be used by Act (Act may return any class), but NewRule
	// records it for introspection.
	Class TokenClass

	// Major is the rule's priority band: lower numbers dominate. Once any
	// rule in a band has matched, rules in any band with a strictly larger
	// Major are never consulted again for the current token.
	Major int

	// Minor breaks ties between same-length matches within a Major band:
	// lower numbers win.
	Minor int

	// Act produces the Token (or skip) for a matched lexeme.
	Act Action

	// Guard, if non-nil, is this rule's pre-acceptance predicate.
	Guard PreAccept

	pattern string
	matcher regex.Matcher

	declOrder int
	matchLen  int
	feedLen   int
	dead      bool
	suppress  bool
}

// NewRule compiles pattern and returns a Rule ready to be added to a Lexer
// with AddRule.
func NewRule(name, pattern string, class TokenClass, major, minor int, act Action) (*Rule, error) {
	m, err := regex.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Rule{
		Name:    name,
		Class:   class,
		Major:   major,
		Minor:   minor,
		Act:     act,
		pattern: pattern,
		matcher: m,
	}, nil
}

// WithGuard attaches a pre-acceptance predicate and returns the same Rule,
// for chaining off NewRule.
func (r *Rule) WithGuard(g PreAccept) *Rule {
	r.Guard = g
	return r
}

func (r *Rule) reset() {
	r.matcher.Reset()
	r.matchLen = 0
	r.feedLen = 0
	r.dead = false
}

// Skip is a convenience Action for rules whose matches (whitespace,
// comments) should be consumed but never produce a token.
func Skip(string, int, int, string, int, int, string) (Token, error) {
	return nil, nil
}
