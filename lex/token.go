package lex

import (
	"fmt"
	"strings"
)

// TokenClass identifies a family of lexemes a Lexer can produce, mirroring
// tunaq's types.TokenClass.
type TokenClass interface {
	// ID uniquely identifies the token class among all terminals of a
	// grammar.
	ID() string

	// Human returns a human-readable name for the class, for diagnostics.
	Human() string

	// Equal returns whether the TokenClass equals another.
	Equal(o any) bool
}

type simpleTokenClass string

func (class simpleTokenClass) ID() string {
	return strings.ToLower(string(class))
}

func (class simpleTokenClass) Human() string {
	return string(class)
}

func (class simpleTokenClass) Equal(o any) bool {
	other, ok := o.(TokenClass)
	if !ok {
		return false
	}
	return other.ID() == class.ID()
}

const (
	// TokenUndefined is the zero TokenClass, used before any real class is
	// assigned.
	TokenUndefined = simpleTokenClass("undefined_token")

	// TokenEndOfText is the end-of-input class; its ID "$" matches
	// grammar.EndOfInput. The Lexer itself never emits a token of this class.
	TokenEndOfText = simpleTokenClass("$")
)

// MakeDefaultClass returns a TokenClass whose ID is the lower-cased form of s
// and whose Human name is s unmodified.
func MakeDefaultClass(s string) TokenClass {
	return simpleTokenClass(s)
}

// Token is a lexeme read from the source together with the class it was
// recognized as and the source-position information needed for diagnostics.
type Token interface {
	// Class returns the TokenClass of the Token.
	Class() TokenClass

	// Lexeme returns the exact source text the token was read from.
	Lexeme() string

	// Line returns the 1-indexed line number the token starts on.
	Line() int

	// LinePos returns the 1-indexed column the token starts at.
	LinePos() int

	// FullLine returns the complete text of the source line the token
	// starts on.
	FullLine() string

	// ByteOffset returns the byte offset of the first byte of the token in
	// the source stream.
	ByteOffset() int

	// Length returns the number of bytes the token's lexeme occupies in the
	// source stream.
	Length() int

	// Filename returns the name of the source the token was read from.
	Filename() string

	// String is the string representation, for diagnostics.
	String() string
}

type lexerToken struct {
	class    TokenClass
	lexeme   string
	line     int
	linePos  int
	fullLine string
	offset   int
	length   int
	filename string
}

func (t lexerToken) Class() TokenClass { return t.class }
func (t lexerToken) Lexeme() string    { return t.lexeme }
func (t lexerToken) Line() int         { return t.line }
func (t lexerToken) LinePos() int      { return t.linePos }
func (t lexerToken) FullLine() string  { return t.fullLine }
func (t lexerToken) ByteOffset() int   { return t.offset }
func (t lexerToken) Length() int       { return t.length }
func (t lexerToken) Filename() string  { return t.filename }

func (t lexerToken) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %q", t.filename, t.line, t.linePos, t.class.Human(), t.lexeme)
}

// NewToken constructs a Token with the given class, lexeme, and position
// data. Rule factories use this to build their return value.
func NewToken(class TokenClass, lexeme string, line, linePos int, fullLine string, offset, length int, filename string) Token {
	return lexerToken{
		class:    class,
		lexeme:   lexeme,
		line:     line,
		linePos:  linePos,
		fullLine: fullLine,
		offset:   offset,
		length:   length,
		filename: filename,
	}
}
