// Package lexerr defines the error kinds raised by the lex package's
// streaming driver: no rule can extend the current match, two rules tie at
// every tiebreaker level, or end-of-input is reached with an unresolved
// cache. Follows tunaq's internal/tqerrors idiom, same as rxerr/utf8err.
package lexerr

import "fmt"

// Kind distinguishes why the lexer driver failed.
type Kind int

const (
	// KindNoMatch means no rule at any priority band can accept or extend
	// the current input; the character sequence seen so far is not a
	// prefix of any declared pattern.
	KindNoMatch Kind = iota

	// KindConflict means two distinct rules in the same major/minor band
	// tied for the longest match with no declared tiebreak between them.
	KindConflict

	// KindUnexpectedEOF means input ended with characters still cached and
	// no rule ever reached a match state over them.
	KindUnexpectedEOF
)

func (k Kind) String() string {
	switch k {
	case KindNoMatch:
		return "no matching rule"
	case KindConflict:
		return "conflicting rule"
	case KindUnexpectedEOF:
		return "unexpected end of input"
	default:
		return "unknown"
	}
}

type lexError struct {
	msg  string
	kind Kind
	line int
	col  int
}

func (e *lexError) Error() string {
	return e.msg
}

// Kind returns the classification of the error.
func (e *lexError) Kind() Kind {
	return e.kind
}

// Line returns the 1-indexed source line the error occurred on.
func (e *lexError) Line() int {
	return e.line
}

// Col returns the 1-indexed column the error occurred at.
func (e *lexError) Col() int {
	return e.col
}

// NoMatch reports that no rule can accept the character r at the given
// position.
func NoMatch(r rune, line, col int) error {
	return &lexError{
		kind: KindNoMatch,
		line: line,
		col:  col,
		msg:  fmt.Sprintf("%d:%d: no rule matches input starting with %q", line, col, r),
	}
}

// Conflict reports that two rules, named by ruleA and ruleB, tied for the
// longest match within the same minor-priority group.
func Conflict(ruleA, ruleB string, matchLen, line, col int) error {
	return &lexError{
		kind: KindConflict,
		line: line,
		col:  col,
		msg: fmt.Sprintf(
			"%d:%d: conflict rule: %q and %q both match %d character(s) at the same priority",
			line, col, ruleA, ruleB, matchLen,
		),
	}
}

// UnexpectedEOF reports that input ended with pending characters that no
// rule ever matched.
func UnexpectedEOF(line, col int) error {
	return &lexError{
		kind: KindUnexpectedEOF,
		line: line,
		col:  col,
		msg:  fmt.Sprintf("%d:%d: unexpected end of input, unprocessed characters remain", line, col),
	}
}

// KindOf returns the Kind of err if it is a lexer error from this package.
func KindOf(err error) (k Kind, ok bool) {
	le, isLE := err.(*lexError)
	if !isLE {
		return 0, false
	}
	return le.kind, true
}
