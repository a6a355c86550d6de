// Package token defines the C99 terminal set: keywords, punctuators, and
// the three literal-carrying classes (identifier, integer constant,
// floating constant), plus the Lexer that recognizes them. Grounded on
// original_source/cparser/include/c_token.h's C_KEYWORD_LIST and
// C_PUNCTUATOR_LIST (a representative subset — see DESIGN.md for the
// scope this package intentionally does not cover).
package token

import (
	"github.com/dekarrin/ictioglot/lex"
)

// Keywords recognized by this subset. original_source declares the full
// C99 reserved-word list; digraphs, _Complex/_Imaginary, restrict, and
// register are omitted here as out of scope (see DESIGN.md).
var Keywords = []string{
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"inline", "int", "long", "return", "short", "signed", "sizeof",
	"static", "struct", "switch", "typedef", "union", "unsigned", "void",
	"volatile", "while", "_Bool",
}

// Punctuator terminal IDs, matching original_source's C_PUNCTUATOR_LIST
// names (lower-cased, per this repo's terminal-naming convention).
const (
	LBracket  = "lbracket"
	RBracket  = "rbracket"
	LParen    = "lparen"
	RParen    = "rparen"
	LBrace    = "lbrace"
	RBrace    = "rbrace"
	Dot       = "dot"
	PtrAccess = "ptraccess"

	PlusPlus   = "plusplus"
	MinusMinus = "minusminus"
	Ref        = "ref"
	Multiply   = "multiply"
	Plus       = "plus"
	Minus      = "minus"
	BitNot     = "bitnot"
	LogicNot   = "logicnot"
	Division   = "division"
	Remainder  = "remainder"

	LeftShift     = "leftshift"
	RightShift    = "rightshift"
	LessThan      = "lessthan"
	GreaterThan   = "greaterthan"
	LessEqual     = "lessequal"
	GreaterEqual  = "greaterequal"
	Equal         = "equal"
	NotEqual      = "notequal"
	BitXor        = "bitxor"
	BitOr         = "bitor"
	LogicAnd      = "logicand"
	LogicOr       = "logicor"
	Question      = "question"
	Colon         = "colon"
	Semicolon     = "semicolon"
	Assign        = "assign"
	MultiplyAssig = "multiplyassign"
	DivisionAssig = "divisionassign"
	PlusAssign    = "plusassign"
	MinusAssign   = "minusassign"
	Comma         = "comma"

	Identifier       = "id"
	TypedefName      = "typedef_name"
	ConstantInteger  = "int_const"
	ConstantFloating = "float_const"
)

// symbolRules maps fixed punctuator lexemes to their terminal ID, longest
// match first within each starting character so maximal munch (handled
// already by the regex automaton) never needs a priority tie-break here.
var symbolRules = []struct{ name, pattern, class string }{
	{"leftshiftassign", `<<=`, "leftshiftassign"},
	{"rightshiftassign", `>>=`, "rightshiftassign"},
	{"leftshift", `<<`, LeftShift},
	{"rightshift", `>>`, RightShift},
	{"lessequal", `<=`, LessEqual},
	{"greaterequal", `>=`, GreaterEqual},
	{"equal", `==`, Equal},
	{"notequal", `!=`, NotEqual},
	{"logicand", `&&`, LogicAnd},
	{"logicor", `\|\|`, LogicOr},
	{"plusplus", `\+\+`, PlusPlus},
	{"minusminus", `--`, MinusMinus},
	{"plusassign", `\+=`, PlusAssign},
	{"minusassign", `-=`, MinusAssign},
	{"multiplyassign", `\*=`, MultiplyAssig},
	{"divisionassign", `/=`, DivisionAssig},
	{"ptraccess", `->`, PtrAccess},
	{"lbracket", `\[`, LBracket},
	{"rbracket", `\]`, RBracket},
	{"lparen", `\(`, LParen},
	{"rparen", `\)`, RParen},
	{"lbrace", `\{`, LBrace},
	{"rbrace", `\}`, RBrace},
	{"dot", `\.`, Dot},
	{"ref", `&`, Ref},
	{"multiply", `\*`, Multiply},
	{"plus", `\+`, Plus},
	{"minus", `-`, Minus},
	{"bitnot", `~`, BitNot},
	{"logicnot", `!`, LogicNot},
	{"division", `/`, Division},
	{"remainder", `%`, Remainder},
	{"lessthan", `<`, LessThan},
	{"greaterthan", `>`, GreaterThan},
	{"bitxor", `\^`, BitXor},
	{"bitor", `\|`, BitOr},
	{"question", `\?`, Question},
	{"colon", `:`, Colon},
	{"semicolon", `;`, Semicolon},
	{"assign", `=`, Assign},
	{"comma", `,`, Comma},
}

// TypedefLookup reports whether name has been declared a typedef name, so
// the identifier rule's Action can reclassify it to TypedefName at lex
// time, so c99/grammar needs no runtime Decision to tell typedef names from
// ordinary identifiers (see c99/grammar).
type TypedefLookup func(name string) bool

// NewLexer builds a Lexer recognizing this package's terminal set.
// isTypedef is consulted by the identifier rule to decide whether a given
// identifier lexeme is currently a typedef name.
func NewLexer(filename string, isTypedef TypedefLookup) (*lex.Lexer, error) {
	l := lex.New(filename)
	keywordClasses := map[string]lex.TokenClass{}
	for _, kw := range Keywords {
		keywordClasses[kw] = lex.MakeDefaultClass(kw)
	}
	keywords := lex.NewKeywordTable(keywordClasses)

	idClass := lex.MakeDefaultClass(Identifier)
	typedefClass := lex.MakeDefaultClass(TypedefName)
	idRule, err := lex.NewRule("identifier", `[A-Za-z_][A-Za-z0-9_]*`, idClass, 0, 0,
		func(lexeme string, line, linePos int, fullLine string, offset, length int, filename string) (lex.Token, error) {
			class := idClass
			if kwClass, ok := keywords.Lookup(lexeme); ok {
				class = kwClass
			} else if isTypedef != nil && isTypedef(lexeme) {
				class = typedefClass
			}
			return lex.NewToken(class, lexeme, line, linePos, fullLine, offset, length, filename), nil
		})
	if err != nil {
		return nil, err
	}
	l.AddRule(idRule)

	floatClass := lex.MakeDefaultClass(ConstantFloating)
	floatRule, err := lex.NewRule("float-constant", `[0-9]+\.[0-9]+([eE][+-]?[0-9]+)?[fFlL]?`, floatClass, 0, 1,
		func(lexeme string, line, linePos int, fullLine string, offset, length int, filename string) (lex.Token, error) {
			return lex.NewToken(floatClass, lexeme, line, linePos, fullLine, offset, length, filename), nil
		})
	if err != nil {
		return nil, err
	}
	l.AddRule(floatRule)

	intClass := lex.MakeDefaultClass(ConstantInteger)
	intRule, err := lex.NewRule("int-constant", `(0[xX][0-9a-fA-F]+|[0-9]+)[uUlL]*`, intClass, 0, 2,
		func(lexeme string, line, linePos int, fullLine string, offset, length int, filename string) (lex.Token, error) {
			return lex.NewToken(intClass, lexeme, line, linePos, fullLine, offset, length, filename), nil
		})
	if err != nil {
		return nil, err
	}
	l.AddRule(intRule)

	wsRule, err := lex.NewRule("whitespace", `[ \t\r\n]+`, nil, 0, 0, lex.Skip)
	if err != nil {
		return nil, err
	}
	l.AddRule(wsRule)

	lineCommentRule, err := lex.NewRule("line-comment", `//[^\n]*`, nil, 0, 0, lex.Skip)
	if err != nil {
		return nil, err
	}
	l.AddRule(lineCommentRule)

	for i, sr := range symbolRules {
		class := lex.MakeDefaultClass(sr.class)
		rule, err := lex.NewRule(sr.name, sr.pattern, class, 0, 3+i,
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
