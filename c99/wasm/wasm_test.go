package wasm

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ictioglot/c99/ast"
)

func Test_Emitter_SimpleAddFunction(t *testing.T) {
	arena := ast.NewArena()
	intType := arena.Add(ast.TypeName{Kind: ast.KindInt})
	a := arena.Add(ast.Ident{Name: "a"})
	b := arena.Add(ast.Ident{Name: "b"})
	sum := arena.Add(ast.BinaryExpr{Op: "+", Left: a, Right: b})
	ret := arena.Add(ast.ReturnStmt{Expr: sum})
	body := arena.Add(ast.CompoundStmt{Items: []ast.NodeID{ret}})
	decl := arena.Add(ast.FuncDecl{
		Name:    "add",
		RetType: intType,
		Params:  []ast.Param{{Name: "a", Type: intType}, {Name: "b", Type: intType}},
	})
	fd := arena.Add(ast.FuncDef{Decl: decl, Body: body})
	unit := ast.TranslationUnit{Decls: []ast.NodeID{fd}}

	emitter := NewEmitter(arena, nil)
	mod, err := emitter.EmitTranslationUnit(unit)
	require.NoError(t, err)

	require.Len(t, mod.Functions, 1)
	fn := mod.Functions[0]
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, ValType(I32), fn.ReturnType)

	text := funcText(fn)
	assert.True(t, strings.Contains(text, "local.get $a"))
	assert.True(t, strings.Contains(text, "local.get $b"))
	assert.True(t, strings.Contains(text, "i32.add"))
	assert.True(t, strings.Contains(text, "return"))
}

func funcText(f Func) string {
	var sb strings.Builder
	f.write(&sb)
	return sb.String()
}

func Test_Module_String_includesBuildID(t *testing.T) {
	id := uuid.New()
	mod := Module{BuildID: id}
	text := mod.String()
	assert.True(t, strings.Contains(text, id.String()))
	assert.True(t, strings.HasPrefix(text, ";; build-id:"))
}
