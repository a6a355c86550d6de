package scalc

// node is the tagged-variant sum type for the scalc AST (same pattern as
// regex.node): expressions, statements, and top-level unit items. Grounded
// on original_source/example/SimpleCalculator/include/scalc/ast.h's class
// hierarchy (ASTNodeExpr/ASTNodeStat/...), replacing shared_ptr dynamic
// dispatch with a Go interface plus concrete structs switched over
// exhaustively at evaluation time.
type node interface {
	isNode()
}

// NumberExpr is a literal numeric constant.
type NumberExpr struct {
	Value float64
}

func (NumberExpr) isNode() {}

// IdentExpr reads a variable's current value.
type IdentExpr struct {
	Name string
}

func (IdentExpr) isNode() {}

// UnaryExpr is prefix or postfix ++/--, mirroring original_source's
// UnaryOperatorExpr (PRE_INC/PRE_DEC/POS_INC/POS_DEC).
type UnaryExpr struct {
	Op      string // "++" or "--"
	Operand *IdentExpr
	Postfix bool
}

func (UnaryExpr) isNode() {}

// BinaryExpr is any of the original's BinaryOperatorType operators,
// including ASSIGNMENT (right-associative, Left must be an *IdentExpr).
type BinaryExpr struct {
	Op    string
	Left  node
	Right node
}

func (BinaryExpr) isNode() {}

// CallExpr invokes a user-declared function by name.
type CallExpr struct {
	Callee string
	Args   []node
}

func (CallExpr) isNode() {}

// ExprStat is an expression evaluated for its side effect (assignment,
// ++/--, or a call), its value discarded unless it is the unit's last
// statement.
type ExprStat struct {
	Expr node
}

func (ExprStat) isNode() {}

// BlockStat is a brace-delimited sequence of statements.
type BlockStat struct {
	Stats []node
}

func (BlockStat) isNode() {}

// IfStat is "if (Cond) Then" or "if (Cond) Then else Else" (Else nil for
// the former). Dangling-else is resolved by ifShortDecision in grammar.go.
type IfStat struct {
	Cond node
	Then node
	Else node // nil if absent
}

func (IfStat) isNode() {}

// ForStat is a C-style "for (Init; Cond; Post) Body"; any of Init/Cond/Post
// may be nil.
type ForStat struct {
	Init node
	Cond node
	Post node
	Body node
}

func (ForStat) isNode() {}

// WhileStat is "while (Cond) Body".
type WhileStat struct {
	Cond node
	Body node
}

func (WhileStat) isNode() {}

// ReturnStat exits the enclosing function with Expr's value.
type ReturnStat struct {
	Expr node
}

func (ReturnStat) isNode() {}

// FuncDef declares and defines a function in one statement.
type FuncDef struct {
	Name   string
	Params []string
	Body   *BlockStat
}

func (FuncDef) isNode() {}

// FuncDecl forward-declares a function (no body).
type FuncDecl struct {
	Name   string
	Params []string
}

func (FuncDecl) isNode() {}

// CalcUnit is the top-level parse result: a sequence of function
// definitions, forward declarations, and top-level statements.
type CalcUnit struct {
	Items []node
}

func (CalcUnit) isNode() {}
