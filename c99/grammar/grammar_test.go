package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ictioglot/c99/ast"
	"github.com/dekarrin/ictioglot/c99/token"
	"github.com/dekarrin/ictioglot/parse"
)

func parseSource(t *testing.T, src string) (*Builder, ast.TranslationUnit) {
	t.Helper()

	l, err := token.NewLexer("test.c", nil)
	require.NoError(t, err)
	toks, err := token.LexAll(l, src)
	require.NoError(t, err)

	b := NewBuilder()
	g, err := NewGrammar(b)
	require.NoError(t, err)
	table, warnings, err := parse.GenerateSLRTable(*g)
	require.NoError(t, err)
	assert.Empty(t, warnings, "c99 grammar should resolve every conflict with an explicit priority/assoc/decision")

	driver := parse.New(table, *g, parse.NewParserContext(nil))
	for _, tok := range toks {
		require.NoError(t, driver.Feed(tok))
	}
	result, err := driver.End()
	require.NoError(t, err)

	unit := b.Arena.Get(result.(ast.NodeID)).(ast.TranslationUnit)
	return b, unit
}

func Test_Parser_FunctionDefinitionWithArithmetic(t *testing.T) {
	b, unit := parseSource(t, "int add(int a, int b) { return a + b; }")

	require.Len(t, unit.Decls, 1)
	fd := b.Arena.Get(unit.Decls[0]).(ast.FuncDef)
	decl := b.Arena.Get(fd.Decl).(ast.FuncDecl)
	assert.Equal(t, "add", decl.Name)
	require.Len(t, decl.Params, 2)
	assert.Equal(t, "a", decl.Params[0].Name)

	body := b.Arena.Get(fd.Body).(ast.CompoundStmt)
	require.Len(t, body.Items, 1)
	ret := b.Arena.Get(body.Items[0]).(ast.ReturnStmt)
	bin := b.Arena.Get(ret.Expr).(ast.BinaryExpr)
	assert.Equal(t, "+", bin.Op)
}

func Test_Parser_PrecedenceMultiplyBindsTighterThanAdd(t *testing.T) {
	b, unit := parseSource(t, "int f(void) { return 2 + 3 * 4; }")

	fd := b.Arena.Get(unit.Decls[0]).(ast.FuncDef)
	body := b.Arena.Get(fd.Body).(ast.CompoundStmt)
	ret := b.Arena.Get(body.Items[0]).(ast.ReturnStmt)
	top := b.Arena.Get(ret.Expr).(ast.BinaryExpr)
	assert.Equal(t, "+", top.Op)
	right := b.Arena.Get(top.Right).(ast.BinaryExpr)
	assert.Equal(t, "*", right.Op)
}

func Test_Parser_DanglingElseBindsToNearestIf(t *testing.T) {
	b, unit := parseSource(t, "int f(void) { if (1) if (2) 3; else 4; }")

	fd := b.Arena.Get(unit.Decls[0]).(ast.FuncDef)
	body := b.Arena.Get(fd.Body).(ast.CompoundStmt)
	outer := b.Arena.Get(body.Items[0]).(ast.IfStmt)
	assert.Equal(t, ast.NodeID(0), outer.Else, "the else must attach to the inner if, not this one")
	inner := b.Arena.Get(outer.Then).(ast.IfStmt)
	assert.NotEqual(t, ast.NodeID(0), inner.Else)
}

func Test_Parser_PointerDeclaratorResolvesElementType(t *testing.T) {
	b, unit := parseSource(t, "int f(void) { int *p; }")

	fd := b.Arena.Get(unit.Decls[0]).(ast.FuncDef)
	body := b.Arena.Get(fd.Body).(ast.CompoundStmt)
	decl := b.Arena.Get(body.Items[0]).(ast.VarDecl)
	require.Len(t, decl.Declarators, 1)
	ptrType := b.Arena.Get(decl.Declarators[0].Type).(ast.TypeName)
	assert.Equal(t, ast.KindPointer, ptrType.Kind)
	elemType := b.Arena.Get(ptrType.Elem).(ast.TypeName)
	assert.Equal(t, ast.KindInt, elemType.Kind)
}

func Test_Parser_StructDeclarationProducesFields(t *testing.T) {
	b, unit := parseSource(t, "struct Point { int x; int y; };")

	require.Len(t, unit.Decls, 1)
	decl := b.Arena.Get(unit.Decls[0]).(ast.StructDecl)
	assert.Equal(t, "Point", decl.Tag)
	assert.False(t, decl.IsUnion)
	require.Len(t, decl.Fields, 2)
	assert.Equal(t, "x", decl.Fields[0].Name)
	assert.Equal(t, "y", decl.Fields[1].Name)
}

func Test_Parser_UnionDeclarationSetsIsUnion(t *testing.T) {
	b, unit := parseSource(t, "union Value { int i; float f; };")

	decl := b.Arena.Get(unit.Decls[0]).(ast.StructDecl)
	assert.True(t, decl.IsUnion)
	require.Len(t, decl.Fields, 2)
}
