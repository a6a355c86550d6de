package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ictioglot/c99/ast"
)

func Test_ComputeStructLayout_padsForAlignment(t *testing.T) {
	arena := ast.NewArena()
	charType := arena.Add(ast.TypeName{Kind: ast.KindChar})
	intType := arena.Add(ast.TypeName{Kind: ast.KindInt})

	decl := ast.StructDecl{
		Fields: []ast.StructField{
			{Name: "a", Type: charType},
			{Name: "b", Type: intType},
			{Name: "c", Type: charType},
		},
	}

	layout := ComputeStructLayout(arena, decl)

	assert.Equal(t, 0, layout.Fields[0].Offset)
	assert.Equal(t, 4, layout.Fields[1].Offset) // padded up to int's alignment
	assert.Equal(t, 8, layout.Fields[2].Offset)
	assert.Equal(t, 4, layout.Alignment)
	assert.Equal(t, 12, layout.Size) // padded up to a multiple of 4
}

func Test_ComputeStructLayout_union_sharesOffsetZero(t *testing.T) {
	arena := ast.NewArena()
	charType := arena.Add(ast.TypeName{Kind: ast.KindChar})
	intType := arena.Add(ast.TypeName{Kind: ast.KindInt})

	decl := ast.StructDecl{
		IsUnion: true,
		Fields: []ast.StructField{
			{Name: "a", Type: charType},
			{Name: "b", Type: intType},
		},
	}

	layout := ComputeStructLayout(arena, decl)

	for _, f := range layout.Fields {
		assert.Equal(t, 0, f.Offset)
	}
	assert.Equal(t, 4, layout.Size)
}

func Test_UsualArithmeticConversion_higherRankWins(t *testing.T) {
	arena := ast.NewArena()
	intType := arena.Add(ast.TypeName{Kind: ast.KindInt})
	doubleType := arena.Add(ast.TypeName{Kind: ast.KindFloat, IsDouble: true})

	result := UsualArithmeticConversion(arena, intType, doubleType)
	assert.Equal(t, doubleType, result)
}

func Test_UsualArithmeticConversion_unsignedWinsTieOnRank(t *testing.T) {
	arena := ast.NewArena()
	signedInt := arena.Add(ast.TypeName{Kind: ast.KindInt})
	unsignedInt := arena.Add(ast.TypeName{Kind: ast.KindInt, Unsigned: true})

	result := UsualArithmeticConversion(arena, signedInt, unsignedInt)
	assert.Equal(t, unsignedInt, result)
}

func Test_Checker_CheckExpr_undefinedVariableReportsDiagnostic(t *testing.T) {
	arena := ast.NewArena()
	id := arena.Add(ast.Ident{Name: "x"})
	c := NewChecker(arena)

	typ := c.CheckExpr(id)

	assert.Len(t, c.Diagnostics(), 1)
	resolved := arena.Get(typ).(ast.TypeName)
	assert.Equal(t, ast.KindInt, resolved.Kind)
}

func Test_Checker_CheckExpr_declaredVariableResolves(t *testing.T) {
	arena := ast.NewArena()
	floatType := arena.Add(ast.TypeName{Kind: ast.KindFloat, IsDouble: true})
	id := arena.Add(ast.Ident{Name: "x"})
	c := NewChecker(arena)
	c.Declare("x", floatType)

	typ := c.CheckExpr(id)

	assert.Empty(t, c.Diagnostics())
	assert.Equal(t, floatType, typ)
}

func Test_ResolveMember_found(t *testing.T) {
	arena := ast.NewArena()
	intType := arena.Add(ast.TypeName{Kind: ast.KindInt})
	layout := ComputeStructLayout(arena, ast.StructDecl{Fields: []ast.StructField{{Name: "x", Type: intType}}})

	field, ok := ResolveMember(layout, "x")
	assert.True(t, ok)
	assert.Equal(t, 0, field.Offset)

	_, ok = ResolveMember(layout, "missing")
	assert.False(t, ok)
}
