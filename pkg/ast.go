package kaleido

// Expr is the closed set of expression nodes. The marker method keeps the
// variants in this package so lowering can switch over them exhaustively.
type Expr interface {
	exprNode()
}

// NumberLit is a numeric literal like "1.0".
type NumberLit struct {
	Value float64
}

// VariableRef names a function parameter, like "a".
type VariableRef struct {
	Name string
}

// BinaryExpr applies a single-character operator to two operands.
type BinaryExpr struct {
	Op  string
	LHS Expr
	RHS Expr
}

// CallExpr calls a function by its mangled name.
type CallExpr struct {
	Callee string
	Args   []Expr
}

func (*NumberLit) exprNode()   {}
func (*VariableRef) exprNode() {}
func (*BinaryExpr) exprNode()  {}
func (*CallExpr) exprNode()    {}

// Prototype captures a function's mangled name and its parameter names, and
// thereby its arity. The parser does not reject duplicate parameter names.
type Prototype struct {
	Name   string
	Params []string
}

// FuncDef pairs a prototype with the single expression forming its body.
type FuncDef struct {
	Proto *Prototype
	Body  Expr
}
