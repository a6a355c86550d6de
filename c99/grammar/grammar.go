// Package grammar builds the SLR(1) grammar and reduce actions for the
// C99 subset this module implements, producing a c99/ast.Arena-backed
// parse tree. Grounded on original_source/cparser's yacc/bison grammar
// (reflected in c_ast.h's node shapes) and on parse.GenerateSLRTable /
// parse.Parser as the table-driven engine already exercised by
// scalc/grammar.go, whose structure this package follows directly.
//
// Scope: this is a representative C99 subset, not the full ISO grammar.
// Struct/union *declarations* are supported (ast.StructDecl, wired
// through c99/types for layout), but union/struct/enum *specifiers*
// nested inline inside a declaration, designated initializers, and
// goto/switch/label statements are out of scope — see DESIGN.md.
//
// The canonical C ambiguity needing runtime lookahead information is
// "is this identifier a typedef name or an ordinary identifier" (the
// classic cast-vs-multiply parse: "(T)*x"). This package resolves it the
// way a hand-lexer-hacked C grammar does: c99/token's identifier rule
// reclassifies a lexeme to TypedefName at *lex* time via a callback
// (TypedefLookup), so the grammar itself never needs to guess — it simply
// has two distinct terminals for "id" and "typedef name" and the
// ambiguity is gone by the time tokens reach the parser. The grammar
// still demonstrates parse.LRDecide/Decision directly via the classic
// dangling-else conflict on IFSTMT, the same mechanism scalc's grammar
// uses for the same conflict — see ifShortDecision below.
package grammar

import (
	"github.com/dekarrin/ictioglot/c99/ast"
	"github.com/dekarrin/ictioglot/c99/token"
	"github.com/dekarrin/ictioglot/grammar"
	"github.com/dekarrin/ictioglot/lex"
)

const (
	precAssign = iota + 1
	precConditional
	precLogicalOr
	precLogicalAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precCast
	precUnary
	precPostfix
)

// Builder accumulates parsed nodes into a single Arena across a parse, the
// way c99/ast.Arena is meant to be shared for a whole translation unit.
type Builder struct {
	Arena *ast.Arena
}

// NewBuilder returns a Builder over a fresh Arena.
func NewBuilder() *Builder {
	return &Builder{Arena: ast.NewArena()}
}

func ident(v any) string {
	return v.(lex.Token).Lexeme()
}

func idOf(v any) ast.NodeID {
	return v.(ast.NodeID)
}

// idsOf type-asserts a reduce value known to be a []ast.NodeID, defaulting
// to nil for an omitted optional symbol.
func idsOf(v any) []ast.NodeID {
	if v == nil {
		return nil
	}
	return v.([]ast.NodeID)
}

// ifShortDecision resolves the dangling-else conflict by always deferring
// to the shift (else binds to the nearest enclosing if) — the same
// resolution and the same parse.LRDecide mechanism scalc/grammar.go's
// ifShortDecision demonstrates, reused here for C's identical ambiguity.
func ifShortDecision(_ any, _ []any, lookahead string) bool {
	return lookahead != "else"
}

// NewGrammar builds the C99-subset grammar, emitting nodes into b.Arena.
func NewGrammar(b *Builder) (*grammar.Grammar, error) {
	g := grammar.New()

	terms := []string{
		token.Identifier, token.TypedefName, token.ConstantInteger, token.ConstantFloating,
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket, token.RBracket,
		token.Semicolon, token.Comma, token.Assign, token.Question, token.Colon,
		token.Plus, token.Minus, token.Multiply, token.Division, token.Remainder,
		token.Ref, token.BitNot, token.LogicNot,
		token.Equal, token.NotEqual, token.LessThan, token.GreaterThan, token.LessEqual, token.GreaterEqual,
		token.LogicAnd, token.LogicOr, token.PlusPlus, token.MinusMinus, token.Dot, token.PtrAccess,
		"if", "else", "while", "for", "return", "break", "continue",
		"int", "char", "float", "double", "void", "struct", "union", "typedef", "const", "volatile", "sizeof",
	}
	for _, term := range terms {
		g.AddTerm(term, termClass(term))
	}

	add := func(nt string, rhs []string, priority int, assoc grammar.Associativity, decision grammar.Decision, action grammar.ReduceFunc) error {
		return g.AddProductionRule(nt, rhs, nil, priority, assoc, decision, action)
	}
	identity := func(_ any, rhs []any) (any, error) { return rhs[0], nil }

	if err := b.buildTranslationUnit(g, add, identity); err != nil {
		return nil, err
	}
	if err := b.buildDeclarations(g, add, identity); err != nil {
		return nil, err
	}
	if err := b.buildStatements(g, add, identity); err != nil {
		return nil, err
	}
	if err := b.buildExpressions(g, add, identity); err != nil {
		return nil, err
	}

	g.AddStart("TRANSLATION_UNIT")
	return g, nil
}

type addFunc = func(nt string, rhs []string, priority int, assoc grammar.Associativity, decision grammar.Decision, action grammar.ReduceFunc) error

func (b *Builder) buildTranslationUnit(g *grammar.Grammar, add addFunc, identity grammar.ReduceFunc) error {
	if err := add("TRANSLATION_UNIT", []string{"EXTERNAL_DECLS"}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return b.Arena.Add(ast.TranslationUnit{Decls: idsOf(rhs[0])}), nil
	}); err != nil {
		return err
	}
	if err := add("EXTERNAL_DECLS", []string{"EXTERNAL_DECLS", "EXTERNAL_DECL"}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return append(idsOf(rhs[0]), idOf(rhs[1])), nil
	}); err != nil {
		return err
	}
	if err := add("EXTERNAL_DECLS", nil, 0, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
		return []ast.NodeID{}, nil
	}); err != nil {
		return err
	}
	if err := add("EXTERNAL_DECL", []string{"FUNCDEF"}, 0, grammar.NonAssoc, nil, identity); err != nil {
		return err
	}
	if err := add("EXTERNAL_DECL", []string{"DECL"}, 0, grammar.NonAssoc, nil, identity); err != nil {
		return err
	}
	if err := add("EXTERNAL_DECL", []string{"STRUCTDECL"}, 0, grammar.NonAssoc, nil, identity); err != nil {
		return err
	}

	// FUNCDEF -> TYPE id lparen PARAMS rparen BLOCK
	return add("FUNCDEF", []string{"TYPE", token.Identifier, token.LParen, "PARAMS", token.RParen, "BLOCK"}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			decl := b.Arena.Add(ast.FuncDecl{Name: ident(rhs[1]), RetType: idOf(rhs[0]), Params: rhs[3].([]ast.Param)})
			return b.Arena.Add(ast.FuncDef{Decl: decl, Body: idOf(rhs[5])}), nil
		})
}

func (b *Builder) buildDeclarations(g *grammar.Grammar, add addFunc, identity grammar.ReduceFunc) error {
	// PARAMS -> PARAMS comma TYPE id | TYPE id | void | ε
	if err := add("PARAMS", []string{"PARAMS", token.Comma, "TYPE", token.Identifier}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return append(rhs[0].([]ast.Param), ast.Param{Name: ident(rhs[3]), Type: idOf(rhs[2])}), nil
		}); err != nil {
		return err
	}
	if err := add("PARAMS", []string{"TYPE", token.Identifier}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return []ast.Param{{Name: ident(rhs[1]), Type: idOf(rhs[0])}}, nil
		}); err != nil {
		return err
	}
	// a lone "void" parameter list means zero parameters, same as an empty one.
	// Priority 1 makes it win the reduce/reduce conflict with TYPE -> void on
	// rparen.
	if err := add("PARAMS", []string{"void"}, 1, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
		return []ast.Param{}, nil
	}); err != nil {
		return err
	}
	if err := add("PARAMS", nil, 0, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
		return []ast.Param{}, nil
	}); err != nil {
		return err
	}

	// DECL -> TYPE DECLARATORS semicolon
	if err := add("DECL", []string{"TYPE", "DECLARATORS", token.Semicolon}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			baseType := idOf(rhs[0])
			decls := rhs[1].([]ast.Declarator)
			for i := range decls {
				decls[i].Type = b.resolveDeclaratorType(decls[i].Type, baseType)
			}
			return b.Arena.Add(ast.VarDecl{Declarators: decls}), nil
		}); err != nil {
		return err
	}
	if err := add("DECLARATORS", []string{"DECLARATORS", token.Comma, "DECLARATOR"}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return append(rhs[0].([]ast.Declarator), rhs[2].(ast.Declarator)), nil
		}); err != nil {
		return err
	}
	if err := add("DECLARATORS", []string{"DECLARATOR"}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return []ast.Declarator{rhs[0].(ast.Declarator)}, nil
	}); err != nil {
		return err
	}

	// STRUCTDECL -> struct id lbrace FIELDS rbrace semicolon
	//             | union id lbrace FIELDS rbrace semicolon
	if err := add("STRUCTDECL", []string{"struct", token.Identifier, token.LBrace, "FIELDS", token.RBrace, token.Semicolon}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.StructDecl{Tag: ident(rhs[1]), Fields: rhs[3].([]ast.StructField)}), nil
		}); err != nil {
		return err
	}
	if err := add("STRUCTDECL", []string{"union", token.Identifier, token.LBrace, "FIELDS", token.RBrace, token.Semicolon}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.StructDecl{Tag: ident(rhs[1]), IsUnion: true, Fields: rhs[3].([]ast.StructField)}), nil
		}); err != nil {
		return err
	}
	// FIELDS -> FIELDS TYPE id semicolon | TYPE id semicolon
	if err := add("FIELDS", []string{"FIELDS", "TYPE", token.Identifier, token.Semicolon}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return append(rhs[0].([]ast.StructField), ast.StructField{Name: ident(rhs[2]), Type: idOf(rhs[1])}), nil
		}); err != nil {
		return err
	}
	if err := add("FIELDS", []string{"TYPE", token.Identifier, token.Semicolon}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return []ast.StructField{{Name: ident(rhs[1]), Type: idOf(rhs[0])}}, nil
		}); err != nil {
		return err
	}

	// DECLARATOR -> id | multiply DECLARATOR | id assign EXPR | id lbracket int_const rbracket
	if err := add("DECLARATOR", []string{token.Identifier}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return ast.Declarator{Name: ident(rhs[0])}, nil
	}); err != nil {
		return err
	}
	if err := add("DECLARATOR", []string{token.Multiply, "DECLARATOR"}, precUnary, grammar.Right, nil,
		func(_ any, rhs []any) (any, error) {
			inner := rhs[1].(ast.Declarator)
			inner.Type = b.Arena.Add(ast.TypeName{Kind: ast.KindPointer, Elem: inner.Type})
			return inner, nil
		}); err != nil {
		return err
	}
	if err := add("DECLARATOR", []string{token.Identifier, token.Assign, "EXPR"}, precAssign, grammar.Right, nil,
		func(_ any, rhs []any) (any, error) {
			return ast.Declarator{Name: ident(rhs[0]), Init: idOf(rhs[2])}, nil
		}); err != nil {
		return err
	}
	return add("DECLARATOR", []string{token.Identifier, token.LBracket, token.ConstantInteger, token.RBracket}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			n := parseUintLiteral(ident(rhs[2]))
			arr := b.Arena.Add(ast.TypeName{Kind: ast.KindArray, ArrayLen: int(n)})
			return ast.Declarator{Name: ident(rhs[0]), Type: arr}, nil
		})
}

// resolveDeclaratorType fills in the still-unresolved base-type slot left
// by a pointer or array DECLARATOR (Elem/ArrayLen's element is zero until
// the base TYPE the declarator attaches to is known), walking down
// through however many levels of "pointer to ... " or "array of ... "
// the declarator built up before the identifier was reached.
func (b *Builder) resolveDeclaratorType(declType, base ast.NodeID) ast.NodeID {
	if declType == 0 {
		return base
	}
	t, ok := b.Arena.Get(declType).(ast.TypeName)
	if !ok || (t.Kind != ast.KindPointer && t.Kind != ast.KindArray) {
		return declType
	}
	t.Elem = b.resolveDeclaratorType(t.Elem, base)
	return b.Arena.Add(t)
}

// buildStatements adds the block and statement rules. The TYPE rules are
// not added here: buildExpressions below adds them, for locality with the
// terminals they reuse (int/char/float/... keyword terminals).
func (b *Builder) buildStatements(g *grammar.Grammar, add addFunc, identity grammar.ReduceFunc) error {
	if err := add("BLOCK", []string{token.LBrace, "STATS", token.RBrace}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return b.Arena.Add(ast.CompoundStmt{Items: idsOf(rhs[1])}), nil
	}); err != nil {
		return err
	}
	if err := add("STATS", []string{"STATS", "BLOCKITEM"}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return append(idsOf(rhs[0]), idOf(rhs[1])), nil
	}); err != nil {
		return err
	}
	if err := add("STATS", nil, 0, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
		return []ast.NodeID{}, nil
	}); err != nil {
		return err
	}
	if err := add("BLOCKITEM", []string{"STAT"}, 0, grammar.NonAssoc, nil, identity); err != nil {
		return err
	}
	if err := add("BLOCKITEM", []string{"DECL"}, 0, grammar.NonAssoc, nil, identity); err != nil {
		return err
	}

	if err := add("STAT", []string{"EXPR", token.Semicolon}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return b.Arena.Add(ast.ExprStmt{Expr: idOf(rhs[0])}), nil
	}); err != nil {
		return err
	}
	if err := add("STAT", []string{token.Semicolon}, 0, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
		return b.Arena.Add(ast.ExprStmt{}), nil
	}); err != nil {
		return err
	}
	if err := add("STAT", []string{"BLOCK"}, 0, grammar.NonAssoc, nil, identity); err != nil {
		return err
	}

	if err := add("STAT", []string{"if", token.LParen, "EXPR", token.RParen, "STAT"}, 0, grammar.NonAssoc, ifShortDecision,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.IfStmt{Cond: idOf(rhs[2]), Then: idOf(rhs[4])}), nil
		}); err != nil {
		return err
	}
	if err := add("STAT", []string{"if", token.LParen, "EXPR", token.RParen, "STAT", "else", "STAT"}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.IfStmt{Cond: idOf(rhs[2]), Then: idOf(rhs[4]), Else: idOf(rhs[6])}), nil
		}); err != nil {
		return err
	}

	if err := add("STAT", []string{"while", token.LParen, "EXPR", token.RParen, "STAT"}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.WhileStmt{Cond: idOf(rhs[2]), Body: idOf(rhs[4])}), nil
		}); err != nil {
		return err
	}

	if err := add("STAT", []string{"for", token.LParen, "OPTEXPR", token.Semicolon, "OPTEXPR", token.Semicolon, "OPTEXPR", token.RParen, "STAT"}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			var init, cond, post ast.NodeID
			if rhs[2] != nil {
				init = b.Arena.Add(ast.ExprStmt{Expr: idOf(rhs[2])})
			}
			if rhs[4] != nil {
				cond = idOf(rhs[4])
			}
			if rhs[6] != nil {
				post = idOf(rhs[6])
			}
			return b.Arena.Add(ast.ForStmt{Init: init, Cond: cond, Post: post, Body: idOf(rhs[8])}), nil
		}); err != nil {
		return err
	}
	if err := add("OPTEXPR", []string{"EXPR"}, 0, grammar.NonAssoc, nil, identity); err != nil {
		return err
	}
	if err := add("OPTEXPR", nil, 0, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
		return nil, nil
	}); err != nil {
		return err
	}

	if err := add("STAT", []string{"return", "EXPR", token.Semicolon}, 0, grammar.NonAssoc, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.ReturnStmt{Expr: idOf(rhs[1])}), nil
		}); err != nil {
		return err
	}
	if err := add("STAT", []string{"return", token.Semicolon}, 0, grammar.NonAssoc, nil,
		func(_ any, _ []any) (any, error) {
			return b.Arena.Add(ast.ReturnStmt{}), nil
		}); err != nil {
		return err
	}
	if err := add("STAT", []string{"break", token.Semicolon}, 0, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
		return b.Arena.Add(ast.BreakStmt{}), nil
	}); err != nil {
		return err
	}
	return add("STAT", []string{"continue", token.Semicolon}, 0, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
		return b.Arena.Add(ast.ContinueStmt{}), nil
	})
}

func (b *Builder) buildExpressions(g *grammar.Grammar, add addFunc, identity grammar.ReduceFunc) error {
	// TYPE -> int | char | float | double | void | typedef_name | const TYPE | volatile TYPE
	baseType := func(kw string, kind ast.TypeKind, isDouble bool) error {
		return add("TYPE", []string{kw}, 0, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
			return b.Arena.Add(ast.TypeName{Kind: kind, IsDouble: isDouble}), nil
		})
	}
	if err := baseType("int", ast.KindInt, false); err != nil {
		return err
	}
	if err := baseType("char", ast.KindChar, false); err != nil {
		return err
	}
	if err := baseType("float", ast.KindFloat, false); err != nil {
		return err
	}
	if err := baseType("double", ast.KindFloat, true); err != nil {
		return err
	}
	if err := baseType("void", ast.KindVoid, false); err != nil {
		return err
	}
	if err := add("TYPE", []string{token.TypedefName}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return b.Arena.Add(ast.TypeName{Kind: ast.KindTypedefName, Name: ident(rhs[0])}), nil
	}); err != nil {
		return err
	}
	if err := add("TYPE", []string{"const", "TYPE"}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		t := b.Arena.Get(idOf(rhs[1])).(ast.TypeName)
		t.Quals |= ast.QualConst
		return b.Arena.Add(t), nil
	}); err != nil {
		return err
	}
	if err := add("TYPE", []string{"volatile", "TYPE"}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		t := b.Arena.Get(idOf(rhs[1])).(ast.TypeName)
		t.Quals |= ast.QualVolatile
		return b.Arena.Add(t), nil
	}); err != nil {
		return err
	}

	binOp := func(term, op string, priority int, assoc grammar.Associativity) error {
		return add("EXPR", []string{"EXPR", term, "EXPR"}, priority, assoc, nil, func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.BinaryExpr{Op: op, Left: idOf(rhs[0]), Right: idOf(rhs[2])}), nil
		})
	}

	if err := add("EXPR", []string{"EXPR", token.Assign, "EXPR"}, precAssign, grammar.Right, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.BinaryExpr{Op: "=", Left: idOf(rhs[0]), Right: idOf(rhs[2])}), nil
		}); err != nil {
		return err
	}
	if err := add("EXPR", []string{"EXPR", token.Question, "EXPR", token.Colon, "EXPR"}, precConditional, grammar.Right, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.ConditionalExpr{Cond: idOf(rhs[0]), Then: idOf(rhs[2]), Else: idOf(rhs[4])}), nil
		}); err != nil {
		return err
	}
	if err := binOp(token.LogicOr, "||", precLogicalOr, grammar.Left); err != nil {
		return err
	}
	if err := binOp(token.LogicAnd, "&&", precLogicalAnd, grammar.Left); err != nil {
		return err
	}
	for _, pair := range []struct{ term, op string }{
		{token.Equal, "=="}, {token.NotEqual, "!="},
	} {
		if err := binOp(pair.term, pair.op, precEquality, grammar.Left); err != nil {
			return err
		}
	}
	for _, pair := range []struct{ term, op string }{
		{token.LessThan, "<"}, {token.GreaterThan, ">"}, {token.LessEqual, "<="}, {token.GreaterEqual, ">="},
	} {
		if err := binOp(pair.term, pair.op, precRelational, grammar.Left); err != nil {
			return err
		}
	}
	if err := binOp(token.Plus, "+", precAdditive, grammar.Left); err != nil {
		return err
	}
	if err := binOp(token.Minus, "-", precAdditive, grammar.Left); err != nil {
		return err
	}
	if err := binOp(token.Multiply, "*", precMultiplicative, grammar.Left); err != nil {
		return err
	}
	if err := binOp(token.Division, "/", precMultiplicative, grammar.Left); err != nil {
		return err
	}
	if err := binOp(token.Remainder, "%", precMultiplicative, grammar.Left); err != nil {
		return err
	}

	unary := func(term string, op ast.UnaryOp) error {
		return add("EXPR", []string{term, "EXPR"}, precUnary, grammar.Right, nil, func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.UnaryExpr{Op: op, Expr: idOf(rhs[1])}), nil
		})
	}
	if err := unary(token.Minus, ast.OpUnarySub); err != nil {
		return err
	}
	if err := unary(token.Plus, ast.OpUnaryAdd); err != nil {
		return err
	}
	if err := unary(token.BitNot, ast.OpBitNot); err != nil {
		return err
	}
	if err := unary(token.LogicNot, ast.OpLogNot); err != nil {
		return err
	}
	if err := unary(token.Ref, ast.OpAddrOf); err != nil {
		return err
	}
	if err := unary(token.Multiply, ast.OpDeref); err != nil {
		return err
	}
	if err := unary(token.PlusPlus, ast.OpPreInc); err != nil {
		return err
	}
	if err := unary(token.MinusMinus, ast.OpPreDec); err != nil {
		return err
	}
	if err := add("EXPR", []string{"sizeof", token.LParen, "TYPE", token.RParen}, precUnary, grammar.Right, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.UnaryExpr{Op: ast.OpSizeof, Expr: idOf(rhs[2])}), nil
		}); err != nil {
		return err
	}
	if err := add("EXPR", []string{token.LParen, "TYPE", token.RParen, "EXPR"}, precCast, grammar.Right, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.CastExpr{Type: idOf(rhs[1]), Expr: idOf(rhs[3])}), nil
		}); err != nil {
		return err
	}

	postfix := func(term string, op ast.UnaryOp) error {
		return add("EXPR", []string{"EXPR", term}, precPostfix, grammar.Left, nil, func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.UnaryExpr{Op: op, Expr: idOf(rhs[0])}), nil
		})
	}
	if err := postfix(token.PlusPlus, ast.OpPostInc); err != nil {
		return err
	}
	if err := postfix(token.MinusMinus, ast.OpPostDec); err != nil {
		return err
	}
	if err := add("EXPR", []string{"EXPR", token.LBracket, "EXPR", token.RBracket}, precPostfix, grammar.Left, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.IndexExpr{Array: idOf(rhs[0]), Index: idOf(rhs[2])}), nil
		}); err != nil {
		return err
	}
	if err := add("EXPR", []string{"EXPR", token.Dot, token.Identifier}, precPostfix, grammar.Left, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.MemberExpr{Obj: idOf(rhs[0]), Member: ident(rhs[2])}), nil
		}); err != nil {
		return err
	}
	if err := add("EXPR", []string{"EXPR", token.PtrAccess, token.Identifier}, precPostfix, grammar.Left, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.MemberExpr{Obj: idOf(rhs[0]), Member: ident(rhs[2]), ViaArrow: true}), nil
		}); err != nil {
		return err
	}
	if err := add("EXPR", []string{"EXPR", token.LParen, "ARGS", token.RParen}, precPostfix, grammar.Left, nil,
		func(_ any, rhs []any) (any, error) {
			return b.Arena.Add(ast.CallExpr{Func: idOf(rhs[0]), Args: idsOf(rhs[2])}), nil
		}); err != nil {
		return err
	}
	if err := add("ARGS", []string{"ARGS", token.Comma, "EXPR"}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return append(idsOf(rhs[0]), idOf(rhs[2])), nil
	}); err != nil {
		return err
	}
	if err := add("ARGS", []string{"EXPR"}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return []ast.NodeID{idOf(rhs[0])}, nil
	}); err != nil {
		return err
	}
	if err := add("ARGS", nil, 0, grammar.NonAssoc, nil, func(_ any, _ []any) (any, error) {
		return []ast.NodeID{}, nil
	}); err != nil {
		return err
	}

	if err := add("EXPR", []string{token.LParen, "EXPR", token.RParen}, 0, grammar.NonAssoc, nil, identity); err != nil {
		return err
	}
	if err := add("EXPR", []string{token.Identifier}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return b.Arena.Add(ast.Ident{Name: ident(rhs[0])}), nil
	}); err != nil {
		return err
	}
	if err := add("EXPR", []string{token.ConstantInteger}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return b.Arena.Add(ast.IntLit{Value: parseUintLiteral(ident(rhs[0]))}), nil
	}); err != nil {
		return err
	}
	return add("EXPR", []string{token.ConstantFloating}, 0, grammar.NonAssoc, nil, func(_ any, rhs []any) (any, error) {
		return b.Arena.Add(ast.FloatLit{Value: parseFloatLiteral(ident(rhs[0]))}), nil
	})
}

func parseUintLiteral(lexeme string) uint64 {
	var v uint64
	hex := len(lexeme) > 1 && lexeme[0] == '0' && (lexeme[1] == 'x' || lexeme[1] == 'X')
	i := 0
	if hex {
		i = 2
	}
	for ; i < len(lexeme); i++ {
		c := lexeme[i]
		switch {
		case c >= '0' && c <= '9':
			if hex {
				v = v*16 + uint64(c-'0')
			} else {
				v = v*10 + uint64(c-'0')
			}
		case hex && c >= 'a' && c <= 'f':
			v = v*16 + uint64(c-'a'+10)
		case hex && c >= 'A' && c <= 'F':
			v = v*16 + uint64(c-'A'+10)
		default:
			return v // trailing u/l/U/L suffix characters stop the scan
		}
	}
	return v
}

func parseFloatLiteral(lexeme string) float64 {
	var intPart, fracPart float64
	var fracDiv float64 = 1
	seenDot := false
	for _, c := range lexeme {
		switch {
		case c == '.':
			seenDot = true
		case c >= '0' && c <= '9':
			if seenDot {
				fracDiv *= 10
				fracPart = fracPart*10 + float64(c-'0')
			} else {
				intPart = intPart*10 + float64(c-'0')
			}
		default:
			return intPart + fracPart/fracDiv
		}
	}
	return intPart + fracPart/fracDiv
}

func termClass(term string) lex.TokenClass {
	return lex.MakeDefaultClass(term)
}
