package yolol

import "github.com/roach88/yololtest/internal/value"

// Script is a parsed Yolol program: one statement list per source line.
type Script struct {
	Lines []Line
}

// Line is a single source line. Number is 1-based.
type Line struct {
	Number int
	Stmts  []Stmt
}

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// Stmt is a statement node.
type Stmt interface {
	stmtNode()
	Position() Pos
}

// Expr is an expression node.
type Expr interface {
	exprNode()
	Position() Pos
}

// Var names a variable. External variables start with ':'.
type Var struct {
	Pos
	Name string
}

// External reports whether v names an external variable.
func (v Var) External() bool {
	return len(v.Name) > 0 && v.Name[0] == ':'
}

// Assign is "x = e" or a compound form such as "x += e"; Op is the bare
// operator ("=", "+", "-", ...).
type Assign struct {
	Pos
	Target Var
	Op     string
	Value  Expr
}

// IncDec is "x++", "x--", "++x" or "--x".
type IncDec struct {
	Pos
	Target Var
	Op     string // "++" or "--"
	Prefix bool
}

// Goto jumps to the line computed by Line.
type Goto struct {
	Pos
	Line Expr
}

// If runs Then when Cond is non-zero, Else otherwise.
type If struct {
	Pos
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Pos
	Value value.Number
}

// StringLit is a string literal.
type StringLit struct {
	Pos
	Value string
}

// VarRef reads a variable.
type VarRef struct {
	Var
}

// Unary is a prefix operator ("-", "not", "abs", "sqrt", ...) or the
// postfix factorial "!".
type Unary struct {
	Pos
	Op string
	X  Expr
}

// Binary is an infix operator.
type Binary struct {
	Pos
	Op          string
	Left, Right Expr
}

func (p Pos) Position() Pos { return p }

func (*Assign) stmtNode() {}
func (*IncDec) stmtNode() {}
func (*Goto) stmtNode()   {}
func (*If) stmtNode()     {}

func (*NumberLit) exprNode() {}
func (*StringLit) exprNode() {}
func (*VarRef) exprNode()    {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
