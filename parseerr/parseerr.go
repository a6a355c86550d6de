// Package parseerr defines the error kinds raised by the parse package: an
// incoming token with no table entry, a token rejected at a state with no
// viable action, or a problem discovered while generating the action/goto
// tables. Follows tunaq's internal/tqerrors idiom, same as rxerr/utf8err/
// lexerr.
package parseerr

import (
	"fmt"
	"strings"
)

// Kind distinguishes why the parser driver or table generator failed.
type Kind int

const (
	// KindUnknownToken means the incoming token's class has no column in
	// the action table at all — the grammar never mentions this terminal.
	KindUnknownToken Kind = iota

	// KindSyntaxError means the token was rejected: the current state has
	// no action (shift, reduce, or accept) for it.
	KindSyntaxError

	// KindGrammarError means table generation itself found a problem: an
	// unresolvable conflict, an undefined non-terminal, or no declared
	// start symbol.
	KindGrammarError
)

func (k Kind) String() string {
	switch k {
	case KindUnknownToken:
		return "unknown token"
	case KindSyntaxError:
		return "syntax error"
	case KindGrammarError:
		return "grammar error"
	default:
		return "unknown"
	}
}

type parseError struct {
	msg  string
	kind Kind
	line int
	col  int
}

func (e *parseError) Error() string { return e.msg }

// Kind returns the classification of the error.
func (e *parseError) Kind() Kind { return e.kind }

// Line returns the 1-indexed source line the error occurred on, or 0 if the
// error is not tied to a specific input position (e.g. a GrammarError).
func (e *parseError) Line() int { return e.line }

// Col returns the 1-indexed column the error occurred at, or 0 likewise.
func (e *parseError) Col() int { return e.col }

// UnknownToken reports that class has no column in the action table.
func UnknownToken(class string, line, col int) error {
	return &parseError{
		kind: KindUnknownToken,
		line: line,
		col:  col,
		msg:  fmt.Sprintf("%d:%d: unknown token class %q: not part of this grammar", line, col, class),
	}
}

// SyntaxError reports that a token was rejected at a state with no viable
// action. expected lists the human-readable names of terminals that would
// have been accepted instead (may be empty).
func SyntaxError(gotHuman string, expected []string, line, col int) error {
	msg := fmt.Sprintf("%d:%d: syntax error: unexpected %s", line, col, gotHuman)
	if len(expected) > 0 {
		msg += fmt.Sprintf("; expected %s", strings.Join(expected, " or "))
	}
	return &parseError{kind: KindSyntaxError, line: line, col: col, msg: msg}
}

// GrammarError reports a table-generation-time problem: an unresolvable
// conflict, a reference to an undeclared symbol, or similar.
func GrammarError(reason string) error {
	return &parseError{kind: KindGrammarError, msg: "grammar error: " + reason}
}

// KindOf returns the Kind of err if it is a parse error from this package.
func KindOf(err error) (k Kind, ok bool) {
	pe, isPE := err.(*parseError)
	if !isPE {
		return 0, false
	}
	return pe.kind, true
}
