// Package ast defines the abstract syntax tree quest's parser produces,
// following the teacher's Node/Expression split (pkg/ast.Node with a
// TokenLiteral method, Expression nodes carrying an expressionNode marker)
// but shaped around spec.md §4.8's grammar: primaries, prefix/infix
// operators at a fixed precedence, and three distinct block-literal forms
// instead of smog's class/method declarations.
package ast

import "github.com/quest-lang/quest/internal/value"

// Node is the common interface of every AST node.
type Node interface {
	TokenLiteral() string
	Pos() (line, col int)
}

// Expr is an expression node: everything in quest is an expression,
// including block literals (spec.md §4.8: "blocks are first-class values").
type Expr interface {
	Node
	exprNode()
}

type pos struct {
	Line, Col int
}

func (p pos) Pos() (int, int) { return p.Line, p.Col }

// NumberLit is an integer or float literal.
type NumberLit struct {
	pos
	IsFloat  bool
	IntVal   int64
	FloatVal float64
	Raw      string
}

func (n *NumberLit) TokenLiteral() string { return n.Raw }
func (n *NumberLit) exprNode()            {}

// TextLit is a quoted string, `$name` literal, or other source of Text
// content.
type TextLit struct {
	pos
	Value string
}

func (n *TextLit) TokenLiteral() string { return n.Value }
func (n *TextLit) exprNode()            {}

// RegexLit is a `/pattern/flags` literal.
type RegexLit struct {
	pos
	Body  string
	Flags string
}

func (n *RegexLit) TokenLiteral() string { return "/" + n.Body + "/" + n.Flags }
func (n *RegexLit) exprNode()            {}

// Variable is a bare identifier, resolved through the current binding's
// attribute chain at evaluation time (spec.md §4.9).
type Variable struct {
	pos
	Name string
}

func (n *Variable) TokenLiteral() string { return n.Name }
func (n *Variable) exprNode()            {}

// StackPosLit is a `:depth` literal, used as the target of a non-local
// `return`.
type StackPosLit struct {
	pos
	Depth int64
}

func (n *StackPosLit) TokenLiteral() string { return "stackpos" }
func (n *StackPosLit) exprNode()            {}

// PrefixExpr is a prefix operator application: `op expr` → `expr.call_attr(op_name, [])`.
type PrefixExpr struct {
	pos
	Op string
	X  Expr
}

func (n *PrefixExpr) TokenLiteral() string { return n.Op }
func (n *PrefixExpr) exprNode()            {}

// InfixExpr is a binary operator application at the precedence table of
// spec.md §4.8, evaluated as `left.call_attr(op_name, [right])` except for
// the special cases §4.9 calls out (`.`, `=`, `op=`).
type InfixExpr struct {
	pos
	Op    string
	Left  Expr
	Right Expr
}

func (n *InfixExpr) TokenLiteral() string { return n.Op }
func (n *InfixExpr) exprNode()            {}

// DotAssignExpr is the rewritten form of `a.b = c` (spec.md §4.8's
// "Dot-assignment rewrite"): a ternary call `a.call_attr(".=", [b, c])`.
type DotAssignExpr struct {
	pos
	Recv Expr
	Name Expr
	RHS  Expr
}

func (n *DotAssignExpr) TokenLiteral() string { return ".=" }
func (n *DotAssignExpr) exprNode()            {}

// CallExpr is `fn block` (an implicit or explicit `()` call): evaluated as
// `fn.call_attr("()", args_of(block))`.
type CallExpr struct {
	pos
	Fn  Expr
	Arg *BlockLit
}

func (n *CallExpr) TokenLiteral() string { return "()" }
func (n *CallExpr) exprNode()            {}

// IndexExpr is `recv[block]`, evaluated as `recv.call_attr("[]", args_of(block))`.
type IndexExpr struct {
	pos
	Recv Expr
	Arg  *BlockLit
}

func (n *IndexExpr) TokenLiteral() string { return "[]" }
func (n *IndexExpr) exprNode()            {}

// Line is one semicolon-delimited line inside a block body: a
// comma-separated list of expressions (spec.md §4.8's `line` production).
// A single-expression line carries exactly one Exprs element.
type Line struct {
	Exprs []Expr
}

// BlockLit is a `()`/`[]`/`{}` block literal (spec.md §4.8/§4.9). Kind is
// the opening bracket byte: '(', '[', or '{'.
type BlockLit struct {
	pos
	Kind  byte
	Lines []Line
}

func (n *BlockLit) TokenLiteral() string { return string(n.Kind) }
func (n *BlockLit) exprNode()            {}

// Params satisfies value.BlockExpr. Quest binds call arguments
// positionally (`_0`, `_1`, ... and `__args__`) rather than through a
// declared parameter list, so blocks never carry named parameters.
func (n *BlockLit) Params() []string { return nil }

// ParenKind satisfies value.BlockExpr.
func (n *BlockLit) ParenKind() byte { return n.Kind }

var _ value.BlockExpr = (*BlockLit)(nil)
