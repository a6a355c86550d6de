// Package ast defines the C99 abstract syntax tree produced by c99/grammar.
//
// Nodes are held in a flat Arena and referenced by stable NodeID indices
// rather than pointers or shared_ptr, so a tree can be serialized,
// diffed, or walked without cycles of interior pointers — grounded on
// original_source/cparser/include/c_ast.h's ASTNode hierarchy, adapted
// from its shared_ptr-of-subclass design to Go's tagged-variant-over-an-
// arena idiom already used by regex/ast.go and scalc/ast.go.
//
// This is a representative subset of the original's AST: struct/union
// declarations are modeled (StructDecl), but struct/union/enum specifiers
// nested inline in a declaration, designated initializers, and goto/label/switch
// statements are intentionally out of scope (see DESIGN.md) in favor of
// full depth on the expression grammar, the declarations that exercise
// c99/types' struct layout and arithmetic conversions, and the control
// statements wasm code generation needs.
package ast

// NodeID indexes into an Arena. The zero value NodeID is never valid;
// arenas always hand back a NodeID starting at 1 so a zero value can
// double as "no node" in optional fields (e.g. IfStmt.Else).
type NodeID int

// Node is the tagged-variant marker implemented by every concrete node
// type stored in an Arena.
type Node interface {
	isNode()
}

// Arena owns every Node in a translation unit. NodeIDs are stable for
// the lifetime of the Arena: nodes are appended, never moved or reused.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// Add stores n and returns its NodeID.
func (a *Arena) Add(n Node) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes))
}

// Get returns the node stored at id. It panics if id is zero or out of
// range, mirroring slice-index-out-of-range semantics: a bad NodeID is a
// programming error, not a recoverable condition.
func (a *Arena) Get(id NodeID) Node {
	return a.nodes[id-1]
}

// Len returns the number of nodes currently in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// ---- Expressions ----

type Ident struct {
	Name string
}

type IntLit struct {
	Value      uint64
	IsUnsigned bool
}

type FloatLit struct {
	Value float64
}

type StringLit struct {
	Value string
}

// UnaryOp mirrors ASTNodeExprUnaryOp's UnaryOperatorType enum.
type UnaryOp string

const (
	OpPostInc  UnaryOp = "post++"
	OpPostDec  UnaryOp = "post--"
	OpPreInc   UnaryOp = "++pre"
	OpPreDec   UnaryOp = "--pre"
	OpAddrOf   UnaryOp = "&"
	OpDeref    UnaryOp = "*"
	OpUnaryAdd UnaryOp = "u+"
	OpUnarySub UnaryOp = "u-"
	OpBitNot   UnaryOp = "~"
	OpLogNot   UnaryOp = "!"
	OpSizeof   UnaryOp = "sizeof"
)

type UnaryExpr struct {
	Op   UnaryOp
	Expr NodeID
}

type BinaryExpr struct {
	Op    string // "+","-","*","/","%","<<",">>","<",">","<=",">=","==","!=","&","^","|","&&","||","="
	Left  NodeID
	Right NodeID
}

type ConditionalExpr struct {
	Cond, Then, Else NodeID
}

type CastExpr struct {
	Type NodeID // *TypeName
	Expr NodeID
}

type CallExpr struct {
	Func NodeID
	Args []NodeID
}

type IndexExpr struct {
	Array, Index NodeID
}

type MemberExpr struct {
	Obj      NodeID
	Member   string
	ViaArrow bool
}

func (Ident) isNode()            {}
func (IntLit) isNode()           {}
func (FloatLit) isNode()         {}
func (StringLit) isNode()        {}
func (UnaryExpr) isNode()        {}
func (BinaryExpr) isNode()       {}
func (ConditionalExpr) isNode()  {}
func (CastExpr) isNode()         {}
func (CallExpr) isNode()         {}
func (IndexExpr) isNode()        {}
func (MemberExpr) isNode()       {}

// ---- Types ----

// TypeKind distinguishes the handful of type forms this subset supports.
// Grounded on ASTNodeVariableTypePlain/Pointer/Array plus
// ASTNodeTypeSpecifierInt/Float/Void/Typedef/Struct.
type TypeKind int

const (
	KindVoid TypeKind = iota
	KindChar
	KindInt
	KindFloat
	KindStruct
	KindTypedefName
	KindPointer
	KindArray
)

// Qualifiers mirrors original_source's Qualifiable mixin as a bitmask.
type Qualifiers uint8

const (
	QualNone     Qualifiers = 0
	QualConst    Qualifiers = 1 << 0
	QualVolatile Qualifiers = 1 << 1
)

// IntFlags records the int-family size specifier (plain, short, long, long
// long); signedness is carried separately in TypeName.Unsigned.
type IntFlags uint8

const (
	IntPlain IntFlags = iota
	IntShort
	IntLong
	IntLongLong
)

type TypeName struct {
	Kind     TypeKind
	Quals    Qualifiers
	Unsigned bool
	IntSize  IntFlags
	IsDouble bool // KindFloat: float vs double
	// StructName / TypedefName name the referent for KindStruct /
	// KindTypedefName respectively.
	Name string
	// Pointer/Array: Elem is the pointee/element type.
	Elem NodeID
	// Array length; -1 means an incomplete array type ("[]").
	ArrayLen int
}

func (TypeName) isNode() {}

// StructField is one member of a StructDecl, in declaration order (order
// matters for layout — see c99/types).
type StructField struct {
	Name string
	Type NodeID
}

// StructDecl declares (and optionally defines) a struct or union tag.
// Fields is nil for a forward declaration.
type StructDecl struct {
	Tag      string
	IsUnion  bool
	Fields   []StructField
}

func (StructDecl) isNode() {}

// ---- Declarations ----

type Declarator struct {
	Name string
	Type NodeID
	// Init is zero if there is no initializer.
	Init NodeID
}

type VarDecl struct {
	Quals       Qualifiers
	IsTypedef   bool
	IsExtern    bool
	IsStatic    bool
	Declarators []Declarator
}

func (VarDecl) isNode() {}

type Param struct {
	Name string
	Type NodeID
}

type FuncDecl struct {
	Name    string
	RetType NodeID
	Params  []Param
	Variadic bool
}

func (FuncDecl) isNode() {}

type FuncDef struct {
	Decl NodeID // *FuncDecl
	Body NodeID // *CompoundStmt
}

func (FuncDef) isNode() {}

// ---- Statements ----

type ExprStmt struct {
	Expr NodeID // zero for a bare ";"
}

type CompoundStmt struct {
	Items []NodeID // ExprStmt/VarDecl/other statement nodes
}

type IfStmt struct {
	Cond NodeID
	Then NodeID
	Else NodeID // zero if absent
}

type WhileStmt struct {
	Cond NodeID
	Body NodeID
}

type DoWhileStmt struct {
	Body NodeID
	Cond NodeID
}

type ForStmt struct {
	Init NodeID // ExprStmt or VarDecl, zero if absent
	Cond NodeID // zero if absent
	Post NodeID // zero if absent
	Body NodeID
}

type ReturnStmt struct {
	Expr NodeID // zero for bare "return;"
}

type BreakStmt struct{}
type ContinueStmt struct{}

func (ExprStmt) isNode()     {}
func (CompoundStmt) isNode() {}
func (IfStmt) isNode()       {}
func (WhileStmt) isNode()    {}
func (DoWhileStmt) isNode()  {}
func (ForStmt) isNode()      {}
func (ReturnStmt) isNode()   {}
func (BreakStmt) isNode()    {}
func (ContinueStmt) isNode() {}

// TranslationUnit is the root node: a sequence of top-level declarations
// and function definitions, mirroring ASTNodeTranslationUnit.
type TranslationUnit struct {
	Decls []NodeID
}

func (TranslationUnit) isNode() {}
