// Package wasm emits WebAssembly text format (.wat) modules from a
// c99/ast translation unit. Grounded on
// original_source/cparser/lib/wasm_codegen.cpp's WasmInstruction/
// WasmFunction/WasmModule toString() emitters, adapted from its
// ostringstream-based tree-of-strings approach to a single
// strings.Builder pass plus a small Instr/Func/Module value-type model.
package wasm

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dekarrin/ictioglot/c99/ast"
	"github.com/dekarrin/ictioglot/c99/types"
)

// ValType mirrors WasmType's four numeric value types; i64 is the type of
// long and long long values (integer literals are always emitted as
// i32.const).
type ValType string

const (
	I32 ValType = "i32"
	I64 ValType = "i64"
	F32 ValType = "f32"
	F64 ValType = "f64"
)

// Instr is one instruction with its textual operands, mirroring
// WasmInstruction.
type Instr struct {
	Opcode   string
	Operands []string
}

func (i Instr) String() string {
	if len(i.Operands) == 0 {
		return i.Opcode
	}
	return i.Opcode + " " + strings.Join(i.Operands, " ")
}

// Local is one local variable slot in a function body.
type Local struct {
	Name string
	Type ValType
}

// Func mirrors WasmFunction: a named function with typed params, locals,
// and a flat instruction list (structured control flow is expressed via
// WebAssembly's own block/loop/if instructions, emitted inline).
type Func struct {
	Name       string
	Params     []Local
	ReturnType ValType // empty means void
	Locals     []Local
	Instrs     []Instr
	Export     bool
}

func (f Func) write(sb *strings.Builder) {
	fmt.Fprintf(sb, "  (func $%s", f.Name)
	for _, p := range f.Params {
		fmt.Fprintf(sb, " (param $%s %s)", p.Name, p.Type)
	}
	if f.ReturnType != "" {
		fmt.Fprintf(sb, " (result %s)", f.ReturnType)
	}
	sb.WriteByte('\n')
	for _, l := range f.Locals {
		fmt.Fprintf(sb, "    (local $%s %s)\n", l.Name, l.Type)
	}
	for _, instr := range f.Instrs {
		sb.WriteString("    ")
		sb.WriteString(instr.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("  )\n")
	if f.Export {
		fmt.Fprintf(sb, "  (export \"%s\" (func $%s))\n", f.Name, f.Name)
	}
}

// Module mirrors WasmModule: a sequence of functions sharing one global
// module scope. BuildID distinguishes one compilation's output from
// another's when two modules are otherwise textually similar (e.g. two
// dcc runs over the same file a minute apart).
type Module struct {
	Functions []Func
	BuildID   uuid.UUID
}

// String renders the module as a complete .wat text module, stamping a
// fresh build identifier as a leading comment if one was not already
// set.
func (m Module) String() string {
	id := m.BuildID
	if id == uuid.Nil {
		id = uuid.New()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, ";; build-id: %s\n", id)
	sb.WriteString("(module\n")
	for _, f := range m.Functions {
		f.write(&sb)
	}
	sb.WriteString(")\n")
	return sb.String()
}

// Emitter lowers a c99/ast translation unit into a Module, consulting a
// types.Checker for expression types so arithmetic lowers to the correct
// i32/f64 instruction family.
type Emitter struct {
	arena   *ast.Arena
	checker *types.Checker
	locals  map[string]Local
	labelN  int
}

// NewEmitter returns an Emitter over arena, using checker for expression
// type resolution.
func NewEmitter(arena *ast.Arena, checker *types.Checker) *Emitter {
	return &Emitter{arena: arena, checker: checker, locals: map[string]Local{}}
}

func valTypeOf(arena *ast.Arena, typ ast.NodeID) ValType {
	t, ok := arena.Get(typ).(ast.TypeName)
	if !ok {
		return I32
	}
	switch t.Kind {
	case ast.KindFloat:
		if t.IsDouble {
			return F64
		}
		return F32
	case ast.KindPointer:
		return I32
	default:
		if t.IntSize == ast.IntLong || t.IntSize == ast.IntLongLong {
			return I64
		}
		return I32
	}
}

// EmitTranslationUnit lowers every FuncDef in unit into the returned
// Module. Bare declarations (function prototypes, top-level variable
// declarations) produce no wasm code of their own.
func (e *Emitter) EmitTranslationUnit(unit ast.TranslationUnit) (Module, error) {
	var mod Module
	for _, declID := range unit.Decls {
		fd, ok := e.arena.Get(declID).(ast.FuncDef)
		if !ok {
			continue
		}
		fn, err := e.emitFunc(fd)
		if err != nil {
			return Module{}, err
		}
		mod.Functions = append(mod.Functions, fn)
	}
	return mod, nil
}

func (e *Emitter) emitFunc(fd ast.FuncDef) (Func, error) {
	decl := e.arena.Get(fd.Decl).(ast.FuncDecl)
	fn := Func{Name: decl.Name, Export: true}
	e.locals = map[string]Local{}
	for _, p := range decl.Params {
		local := Local{Name: p.Name, Type: valTypeOf(e.arena, p.Type)}
		fn.Params = append(fn.Params, local)
		e.locals[p.Name] = local
	}
	fn.ReturnType = valTypeOf(e.arena, decl.RetType)
	if decl.RetType != 0 {
		if t, ok := e.arena.Get(decl.RetType).(ast.TypeName); ok && t.Kind == ast.KindVoid {
			fn.ReturnType = ""
		}
	}

	body := e.arena.Get(fd.Body).(ast.CompoundStmt)
	var instrs []Instr
	for _, item := range body.Items {
		got, err := e.emitStmt(item)
		if err != nil {
			return Func{}, err
		}
		instrs = append(instrs, got...)
	}
	fn.Instrs = instrs

	for name, local := range e.locals {
		isParam := false
		for _, p := range fn.Params {
			if p.Name == name {
				isParam = true
				break
			}
		}
		if !isParam {
			fn.Locals = append(fn.Locals, local)
		}
	}
	return fn, nil
}

func (e *Emitter) localType(name string) ValType {
	if l, ok := e.locals[name]; ok {
		return l.Type
	}
	return I32
}

// identType resolves the wasm value type of a bare identifier reference.
// Function params and locals are known directly; anything else falls back
// to whatever the checker resolves for it. No names are declared to the
// checker, so such a name resolves to int (and the checker records a
// diagnostic), which lowers to i32.
func (e *Emitter) identType(name string, id ast.NodeID) ValType {
	if l, ok := e.locals[name]; ok {
		return l.Type
	}
	if e.checker != nil {
		return valTypeOf(e.arena, e.checker.CheckExpr(id))
	}
	return I32
}

func (e *Emitter) emitStmt(id ast.NodeID) ([]Instr, error) {
	switch n := e.arena.Get(id).(type) {
	case ast.ExprStmt:
		if n.Expr == 0 {
			return nil, nil
		}
		instrs, _, err := e.emitExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return append(instrs, Instr{Opcode: "drop"}), nil
	case ast.CompoundStmt:
		var out []Instr
		for _, item := range n.Items {
			got, err := e.emitStmt(item)
			if err != nil {
				return nil, err
			}
			out = append(out, got...)
		}
		return out, nil
	case ast.ReturnStmt:
		if n.Expr == 0 {
			return []Instr{{Opcode: "return"}}, nil
		}
		instrs, _, err := e.emitExpr(n.Expr)
		if err != nil {
			return nil, err
		}
		return append(instrs, Instr{Opcode: "return"}), nil
	case ast.IfStmt:
		condInstrs, _, err := e.emitExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		thenInstrs, err := e.emitStmt(n.Then)
		if err != nil {
			return nil, err
		}
		out := append(condInstrs, Instr{Opcode: "if"})
		out = append(out, thenInstrs...)
		if n.Else != 0 {
			elseInstrs, err := e.emitStmt(n.Else)
			if err != nil {
				return nil, err
			}
			out = append(out, Instr{Opcode: "else"})
			out = append(out, elseInstrs...)
		}
		out = append(out, Instr{Opcode: "end"})
		return out, nil
	case ast.WhileStmt:
		label := e.newLabel("while")
		condInstrs, _, err := e.emitExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		bodyInstrs, err := e.emitStmt(n.Body)
		if err != nil {
			return nil, err
		}
		var out []Instr
		out = append(out, Instr{Opcode: "block", Operands: []string{"$" + label + "_end"}})
		out = append(out, Instr{Opcode: "loop", Operands: []string{"$" + label + "_top"}})
		out = append(out, condInstrs...)
		out = append(out, Instr{Opcode: "i32.eqz"})
		out = append(out, Instr{Opcode: "br_if", Operands: []string{"$" + label + "_end"}})
		out = append(out, bodyInstrs...)
		out = append(out, Instr{Opcode: "br", Operands: []string{"$" + label + "_top"}})
		out = append(out, Instr{Opcode: "end"})
		out = append(out, Instr{Opcode: "end"})
		return out, nil
	case ast.ForStmt:
		var out []Instr
		if n.Init != 0 {
			initInstrs, err := e.emitStmt(n.Init)
			if err != nil {
				return nil, err
			}
			out = append(out, initInstrs...)
		}
		label := e.newLabel("for")
		out = append(out, Instr{Opcode: "block", Operands: []string{"$" + label + "_end"}})
		out = append(out, Instr{Opcode: "loop", Operands: []string{"$" + label + "_top"}})
		if n.Cond != 0 {
			condInstrs, _, err := e.emitExpr(n.Cond)
			if err != nil {
				return nil, err
			}
			out = append(out, condInstrs...)
			out = append(out, Instr{Opcode: "i32.eqz"}, Instr{Opcode: "br_if", Operands: []string{"$" + label + "_end"}})
		}
		bodyInstrs, err := e.emitStmt(n.Body)
		if err != nil {
			return nil, err
		}
		out = append(out, bodyInstrs...)
		if n.Post != 0 {
			postInstrs, _, err := e.emitExpr(n.Post)
			if err != nil {
				return nil, err
			}
			out = append(out, postInstrs...)
			out = append(out, Instr{Opcode: "drop"})
		}
		out = append(out, Instr{Opcode: "br", Operands: []string{"$" + label + "_top"}})
		out = append(out, Instr{Opcode: "end"}, Instr{Opcode: "end"})
		return out, nil
	case ast.BreakStmt, ast.ContinueStmt:
		// Structured break/continue need the enclosing loop's label in
		// scope; this subset's statement nodes don't thread one through,
		// so break/continue are intentionally unsupported (see
		// DESIGN.md) rather than silently emitting wrong control flow.
		return nil, fmt.Errorf("wasm: break/continue are not supported by this emitter")
	case ast.VarDecl:
		var out []Instr
		for _, d := range n.Declarators {
			e.locals[d.Name] = Local{Name: d.Name, Type: valTypeOf(e.arena, d.Type)}
			if d.Init != 0 {
				instrs, _, err := e.emitExpr(d.Init)
				if err != nil {
					return nil, err
				}
				out = append(out, instrs...)
				out = append(out, Instr{Opcode: "local.set", Operands: []string{"$" + d.Name}})
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("wasm: unsupported statement node %T", n)
	}
}

func (e *Emitter) newLabel(prefix string) string {
	e.labelN++
	return fmt.Sprintf("%s%d", prefix, e.labelN)
}

// emitExpr lowers the expression at id, returning its instructions and
// its wasm value type (for callers that need to pick an arithmetic
// instruction family, e.g. assignment's RHS).
func (e *Emitter) emitExpr(id ast.NodeID) ([]Instr, ValType, error) {
	switch n := e.arena.Get(id).(type) {
	case ast.IntLit:
		return []Instr{{Opcode: "i32.const", Operands: []string{fmt.Sprint(n.Value)}}}, I32, nil
	case ast.FloatLit:
		return []Instr{{Opcode: "f64.const", Operands: []string{fmt.Sprintf("%g", n.Value)}}}, F64, nil
	case ast.Ident:
		return []Instr{{Opcode: "local.get", Operands: []string{"$" + n.Name}}}, e.identType(n.Name, id), nil
	case ast.UnaryExpr:
		return e.emitUnary(n)
	case ast.BinaryExpr:
		return e.emitBinary(n)
	case ast.CallExpr:
		callee, ok := e.arena.Get(n.Func).(ast.Ident)
		if !ok {
			return nil, "", fmt.Errorf("wasm: indirect calls are not supported")
		}
		var out []Instr
		for _, arg := range n.Args {
			instrs, _, err := e.emitExpr(arg)
			if err != nil {
				return nil, "", err
			}
			out = append(out, instrs...)
		}
		out = append(out, Instr{Opcode: "call", Operands: []string{"$" + callee.Name}})
		return out, I32, nil
	default:
		return nil, "", fmt.Errorf("wasm: unsupported expression node %T", n)
	}
}

func (e *Emitter) emitUnary(n ast.UnaryExpr) ([]Instr, ValType, error) {
	switch n.Op {
	case ast.OpUnarySub:
		instrs, vt, err := e.emitExpr(n.Expr)
		if err != nil {
			return nil, "", err
		}
		zero := Instr{Opcode: string(vt) + ".const", Operands: []string{"0"}}
		return append([]Instr{zero}, append(instrs, Instr{Opcode: string(vt) + ".sub"})...), vt, nil
	case ast.OpUnaryAdd:
		return e.emitExpr(n.Expr)
	case ast.OpLogNot:
		instrs, _, err := e.emitExpr(n.Expr)
		if err != nil {
			return nil, "", err
		}
		return append(instrs, Instr{Opcode: "i32.eqz"}), I32, nil
	case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec:
		ident, ok := e.arena.Get(n.Expr).(ast.Ident)
		if !ok {
			return nil, "", fmt.Errorf("wasm: ++/-- operand must be a variable")
		}
		vt := e.localType(ident.Name)
		delta := "1"
		op := string(vt) + ".add"
		if n.Op == ast.OpPreDec || n.Op == ast.OpPostDec {
			op = string(vt) + ".sub"
		}
		get := Instr{Opcode: "local.get", Operands: []string{"$" + ident.Name}}
		set := Instr{Opcode: "local.set", Operands: []string{"$" + ident.Name}}
		update := []Instr{get, {Opcode: string(vt) + ".const", Operands: []string{delta}}, {Opcode: op}, set}
		if n.Op == ast.OpPreInc || n.Op == ast.OpPreDec {
			return append(update, get), vt, nil
		}
		// postfix: value before the update is the result, so a leading
		// local.get leaves the old value on the stack beneath the update.
		return append([]Instr{get}, update...), vt, nil
	default:
		return nil, "", fmt.Errorf("wasm: unsupported unary operator %q", n.Op)
	}
}

func (e *Emitter) emitBinary(n ast.BinaryExpr) ([]Instr, ValType, error) {
	if n.Op == "=" {
		ident, ok := e.arena.Get(n.Left).(ast.Ident)
		if !ok {
			return nil, "", fmt.Errorf("wasm: assignment target must be a variable")
		}
		rhs, vt, err := e.emitExpr(n.Right)
		if err != nil {
			return nil, "", err
		}
		out := append(rhs, Instr{Opcode: "local.tee", Operands: []string{"$" + ident.Name}})
		return out, vt, nil
	}

	left, vt, err := e.emitExpr(n.Left)
	if err != nil {
		return nil, "", err
	}
	right, _, err := e.emitExpr(n.Right)
	if err != nil {
		return nil, "", err
	}
	opcode, resultType, err := binOpcode(n.Op, vt)
	if err != nil {
		return nil, "", err
	}
	out := append(left, right...)
	out = append(out, Instr{Opcode: opcode})
	return out, resultType, nil
}

func binOpcode(op string, vt ValType) (string, ValType, error) {
	isFloat := vt == F32 || vt == F64
	switch op {
	case "+":
		return string(vt) + ".add", vt, nil
	case "-":
		return string(vt) + ".sub", vt, nil
	case "*":
		return string(vt) + ".mul", vt, nil
	case "/":
		if isFloat {
			return string(vt) + ".div", vt, nil
		}
		return string(vt) + ".div_s", vt, nil
	case "%":
		if isFloat {
			return "", "", fmt.Errorf("wasm: %% is not defined for floating types")
		}
		return string(vt) + ".rem_s", vt, nil
	case "==":
		return string(vt) + ".eq", I32, nil
	case "!=":
		return string(vt) + ".ne", I32, nil
	case "<":
		if isFloat {
			return string(vt) + ".lt", I32, nil
		}
		return string(vt) + ".lt_s", I32, nil
	case ">":
		if isFloat {
			return string(vt) + ".gt", I32, nil
		}
		return string(vt) + ".gt_s", I32, nil
	case "<=":
		if isFloat {
			return string(vt) + ".le", I32, nil
		}
		return string(vt) + ".le_s", I32, nil
	case ">=":
		if isFloat {
			return string(vt) + ".ge", I32, nil
		}
		return string(vt) + ".ge_s", I32, nil
	case "&&":
		return "i32.and", I32, nil
	case "||":
		return "i32.or", I32, nil
	default:
		return "", "", fmt.Errorf("wasm: unsupported binary operator %q", op)
	}
}
