// Package rxerr defines the error kind raised when a regex pattern is
// malformed: unbalanced groups, a bad escape, a malformed character class,
// or an inverted range. Follows tunaq's internal/tqerrors idiom: an
// unexported struct implementing error plus Unwrap, with exported
// constructors.
package rxerr

import "fmt"

// Kind distinguishes the different ways a pattern can be rejected, so
// callers can switch on the reason without string-matching Error().
type Kind int

const (
	// KindUnbalancedGroup is raised when a '(' has no matching ')', or vice
	// versa.
	KindUnbalancedGroup Kind = iota
	// KindBadEscape is raised for an escape sequence that isn't recognized.
	KindBadEscape
	// KindBadCharClass is raised for a malformed '[...]' character class.
	KindBadCharClass
	// KindRangeInversion is raised when a character class range has its
	// high bound below its low bound (e.g. "[z-a]").
	KindRangeInversion
	// KindBadRepetition is raised for a malformed '{m,n}' bound.
	KindBadRepetition
)

func (k Kind) String() string {
	switch k {
	case KindUnbalancedGroup:
		return "unbalanced group"
	case KindBadEscape:
		return "bad escape"
	case KindBadCharClass:
		return "bad character class"
	case KindRangeInversion:
		return "range inversion"
	case KindBadRepetition:
		return "bad repetition bound"
	default:
		return "unknown"
	}
}

// syntaxError is the concrete error type returned for every rejected
// pattern. The pattern is rejected whole; Pos gives the rune offset within
// the original pattern string where the problem was detected.
type syntaxError struct {
	msg     string
	kind    Kind
	pattern string
	pos     int
	wrap    error
}

func (e *syntaxError) Error() string {
	return e.msg
}

// Unwrap gives the error that this syntax error wraps, if it wraps one.
func (e *syntaxError) Unwrap() error {
	return e.wrap
}

// Kind returns the classification of the syntax error.
func (e *syntaxError) Kind() Kind {
	return e.kind
}

// Pattern returns the full pattern string that was rejected.
func (e *syntaxError) Pattern() string {
	return e.pattern
}

// Pos returns the rune offset into Pattern() where the error was detected.
func (e *syntaxError) Pos() int {
	return e.pos
}

// Syntax returns a new syntax error of the given kind, describing the
// problem found at pos (a rune offset) in pattern.
func Syntax(kind Kind, pattern string, pos int, msg string) error {
	if msg == "" {
		msg = fmt.Sprintf("%s in pattern %q at position %d", kind, pattern, pos)
	}
	return &syntaxError{msg: msg, kind: kind, pattern: pattern, pos: pos}
}

// Syntaxf is Syntax but with an automatically generated Error() built from
// a format string.
func Syntaxf(kind Kind, pattern string, pos int, format string, a ...interface{}) error {
	return Syntax(kind, pattern, pos, fmt.Sprintf(format, a...))
}

// WrapSyntax is Syntax but additionally wraps an underlying cause, fetchable
// via errors.Unwrap.
func WrapSyntax(cause error, kind Kind, pattern string, pos int, msg string) error {
	e := Syntax(kind, pattern, pos, msg).(*syntaxError)
	e.wrap = cause
	return e
}

// KindOf returns the Kind of err if it is a syntax error from this package,
// and ok=false otherwise. It does not look through wrapping errors.
func KindOf(err error) (k Kind, ok bool) {
	se, isSE := err.(*syntaxError)
	if !isSE {
		return 0, false
	}
	return se.kind, true
}
