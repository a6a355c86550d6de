// Package scalc implements the SimpleCalculator demo language: a small
// expression-and-statement language (arithmetic, assignment, if/while/for,
// user functions) driving the core lex/grammar/parse packages end to end.
// Grounded on original_source/example/SimpleCalculator.
package scalc

import (
	"github.com/dekarrin/ictioglot/lex"
)

// Terminal IDs, one per original_source/example/SimpleCalculator/include/
// scalc/token.h TENTRY and its two named token types (TokenID, TokenNUMBER).
const (
	TermPlus       = "plus"
	TermMinus      = "minus"
	TermMultiply   = "multiply"
	TermDivision   = "division"
	TermRemainder  = "remainder"
	TermCaret      = "caret"
	TermPlusPlus   = "plusplus"
	TermMinusMinus = "minusminus"

	TermEqual        = "equal"
	TermNotEqual     = "notequal"
	TermGreaterThan  = "greaterthan"
	TermLessThan     = "lessthan"
	TermGreaterEqual = "greaterequal"
	TermLessEqual    = "lessequal"

	TermAssignment = "assignment"

	TermLParen = "lparen"
	TermRParen = "rparen"
	TermLBrace = "lbrace"
	TermRBrace = "rbrace"

	TermIf       = "if"
	TermElse     = "else"
	TermFor      = "for"
	TermWhile    = "while"
	TermFunction = "function"
	TermReturn   = "return"

	TermComma     = "comma"
	TermSemicolon = "semicolon"

	TermID     = "id"
	TermNumber = "number"
)

var keywordClasses = map[string]lex.TokenClass{
	"if":       lex.MakeDefaultClass(TermIf),
	"else":     lex.MakeDefaultClass(TermElse),
	"for":      lex.MakeDefaultClass(TermFor),
	"while":    lex.MakeDefaultClass(TermWhile),
	"function": lex.MakeDefaultClass(TermFunction),
	"return":   lex.MakeDefaultClass(TermReturn),
}

// symbolRules pairs each fixed-lexeme operator/punctuator with its class,
// longest lexeme first so the lexer's priority bands never let "+" shadow
// "++" (both are valid major-0 matches of the same length class only once
// the shorter one stops growing, but declaring longest-first keeps the
// minor-group ordering obviously correct to a reader).
var symbolRules = []struct {
	name    string
	pattern string
	class   string
}{
	{"plusplus", `\+\+`, TermPlusPlus},
	{"minusminus", `--`, TermMinusMinus},
	{"greaterequal", `>=`, TermGreaterEqual},
	{"lessequal", `<=`, TermLessEqual},
	{"equal", `==`, TermEqual},
	{"notequal", `!=`, TermNotEqual},
	{"plus", `\+`, TermPlus},
	{"minus", `-`, TermMinus},
	{"multiply", `\*`, TermMultiply},
	{"division", `/`, TermDivision},
	{"remainder", `%`, TermRemainder},
	{"caret", `\^`, TermCaret},
	{"greaterthan", `>`, TermGreaterThan},
	{"lessthan", `<`, TermLessThan},
	{"assignment", `=`, TermAssignment},
	{"lparen", `\(`, TermLParen},
	{"rparen", `\)`, TermRParen},
	{"lbrace", `\{`, TermLBrace},
	{"rbrace", `\}`, TermRBrace},
	{"comma", `,`, TermComma},
	{"semicolon", `;`, TermSemicolon},
}

// NewLexer builds a Lexer recognizing the full scalc terminal set. Keywords
// are layered on top of a generic identifier rule via a KeywordTable lookup
// in the identifier rule's own Action, rather than as competing rules, so
// declaration order never has to arbitrate "if" the keyword against "if" the
// identifier.
func NewLexer(filename string) (*lex.Lexer, error) {
	l := lex.New(filename)
	keywords := lex.NewKeywordTable(keywordClasses)

	idClass := lex.MakeDefaultClass(TermID)
	idRule, err := lex.NewRule("identifier", `[A-Za-z_][A-Za-z0-9_]*`, idClass, 0, 0,
		func(lexeme string, line, linePos int, fullLine string, offset, length int, filename string) (lex.Token, error) {
			class := idClass
			if kwClass, ok := keywords.Lookup(lexeme); ok {
				class = kwClass
			}
			return lex.NewToken(class, lexeme, line, linePos, fullLine, offset, length, filename), nil
		})
	if err != nil {
		return nil, err
	}
	l.AddRule(idRule)

	numClass := lex.MakeDefaultClass(TermNumber)
	numRule, err := lex.NewRule("number", `[0-9]+(\.[0-9]+)?`, numClass, 0, 1,
		func(lexeme string, line, linePos int, fullLine string, offset, length int, filename string) (lex.Token, error) {
			return lex.NewToken(numClass, lexeme, line, linePos, fullLine, offset, length, filename), nil
		})
	if err != nil {
		return nil, err
	}
	l.AddRule(numRule)

	wsRule, err := lex.NewRule("whitespace", `[ \t\r\n]+`, nil, 0, 0, lex.Skip)
	if err != nil {
		return nil, err
	}
	l.AddRule(wsRule)

	for i, sr := range symbolRules {
		class := lex.MakeDefaultClass(sr.class)
		rule, err := lex.NewRule(sr.name, sr.pattern, class, 0, 2+i,
			func(lexeme string, line, linePos int, fullLine string, offset, length int, filename string) (lex.Token, error) {
				return lex.NewToken(class, lexeme, line, linePos, fullLine, offset, length, filename), nil
			})
		if err != nil {
			return nil, err
		}
		l.AddRule(rule)
	}

	return l, nil
}

// LexAll drives l over the whole of src and returns every token produced.
func LexAll(l *lex.Lexer, src string) ([]lex.Token, error) {
	var toks []lex.Token
	for _, r := range src {
		got, err := l.Feed(r, []byte(string(r)))
		if err != nil {
			return nil, err
		}
		toks = append(toks, got...)
	}
	got, err := l.End()
	if err != nil {
		return nil, err
	}
	toks = append(toks, got...)
	return toks, nil
}
