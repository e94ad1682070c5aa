package ast

import (
	"fmt"

	"github.com/cinder-lang/cinder/internal/position"
)

// Identifier references a variable, parameter, or function by name.
type Identifier struct {
	Span position.Span
	Name string
}

func (e *Identifier) GetSpan() position.Span { return e.Span }
func (e *Identifier) String() string         { return e.Name }
func (e *Identifier) expressionNode()        {}

// IntegerLit is an integer literal; Literal keeps the source spelling.
type IntegerLit struct {
	Span    position.Span
	Value   int64
	Literal string
}

func (e *IntegerLit) GetSpan() position.Span { return e.Span }
func (e *IntegerLit) String() string         { return e.Literal }
func (e *IntegerLit) expressionNode()        {}

// FloatLit is a floating-point literal; Literal keeps the source spelling.
type FloatLit struct {
	Span    position.Span
	Value   float64
	Literal string
}

func (e *FloatLit) GetSpan() position.Span { return e.Span }
func (e *FloatLit) String() string         { return e.Literal }
func (e *FloatLit) expressionNode()        {}

// StringLit is a string literal with escapes already decoded.
type StringLit struct {
	Span  position.Span
	Value string
}

func (e *StringLit) GetSpan() position.Span { return e.Span }
func (e *StringLit) String() string         { return fmt.Sprintf("%q", e.Value) }
func (e *StringLit) expressionNode()        {}

// CharLit is a character literal.
type CharLit struct {
	Span  position.Span
	Value rune
}

func (e *CharLit) GetSpan() position.Span { return e.Span }
func (e *CharLit) String() string         { return fmt.Sprintf("%q", e.Value) }
func (e *CharLit) expressionNode()        {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Span  position.Span
	Value bool
}

func (e *BoolLit) GetSpan() position.Span { return e.Span }
func (e *BoolLit) String() string         { return fmt.Sprintf("%t", e.Value) }
func (e *BoolLit) expressionNode()        {}

// BinaryExpr is an infix operation; Op keeps the surface spelling.
type BinaryExpr struct {
	Span  position.Span
	Op    string
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) GetSpan() position.Span { return e.Span }
func (e *BinaryExpr) String() string         { return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right) }
func (e *BinaryExpr) expressionNode()        {}

// UnaryExpr is a prefix operation (including prefix-only `++`/`--`).
type UnaryExpr struct {
	Span    position.Span
	Op      string
	Operand Expression
}

func (e *UnaryExpr) GetSpan() position.Span { return e.Span }
func (e *UnaryExpr) String() string         { return fmt.Sprintf("(%s%s)", e.Op, e.Operand) }
func (e *UnaryExpr) expressionNode()        {}

// AssignExpr is plain or compound assignment; Op is "=", "+=", etc.
type AssignExpr struct {
	Span   position.Span
	Op     string
	Target Expression
	Value  Expression
}

func (e *AssignExpr) GetSpan() position.Span { return e.Span }
func (e *AssignExpr) String() string         { return fmt.Sprintf("(%s %s %s)", e.Target, e.Op, e.Value) }
func (e *AssignExpr) expressionNode()        {}

// TernaryExpr is `cond ? then : else`.
type TernaryExpr struct {
	Span position.Span
	Cond Expression
	Then Expression
	Else Expression
}

func (e *TernaryExpr) GetSpan() position.Span { return e.Span }
func (e *TernaryExpr) String() string         { return fmt.Sprintf("(%s ? %s : %s)", e.Cond, e.Then, e.Else) }
func (e *TernaryExpr) expressionNode()        {}

// CommaExpr sequences side-effecting sub-expressions and yields the last
// value; always two or more elements.
type CommaExpr struct {
	Span  position.Span
	Exprs []Expression
}

func (e *CommaExpr) GetSpan() position.Span { return e.Span }
func (e *CommaExpr) String() string         { return "(" + joinStrings(e.Exprs, ", ") + ")" }
func (e *CommaExpr) expressionNode()        {}

// CallExpr is an ordinary call, `callee(args...)`.
type CallExpr struct {
	Span   position.Span
	Callee Expression
	Args   []Expression
}

func (e *CallExpr) GetSpan() position.Span { return e.Span }
func (e *CallExpr) String() string         { return fmt.Sprintf("%s(%s)", e.Callee, joinStrings(e.Args, ", ")) }
func (e *CallExpr) expressionNode()        {}

// StaticCallExpr is a type-scoped static call, `@Type.method(args...)`.
type StaticCallExpr struct {
	Span     position.Span
	TypeName string
	Method   string
	Args     []Expression
}

func (e *StaticCallExpr) GetSpan() position.Span { return e.Span }
func (e *StaticCallExpr) String() string {
	return fmt.Sprintf("@%s.%s(%s)", e.TypeName, e.Method, joinStrings(e.Args, ", "))
}
func (e *StaticCallExpr) expressionNode() {}

// MacroCallExpr is a double-delimited macro invocation, `__name__(args...)`.
// Name holds the delimited spelling; codegen strips the delimiters.
type MacroCallExpr struct {
	Span position.Span
	Name string
	Args []Expression
}

func (e *MacroCallExpr) GetSpan() position.Span { return e.Span }
func (e *MacroCallExpr) String() string         { return fmt.Sprintf("%s(%s)", e.Name, joinStrings(e.Args, ", ")) }
func (e *MacroCallExpr) expressionNode()        {}

// IndexExpr is `base[index]`.
type IndexExpr struct {
	Span  position.Span
	Base  Expression
	Index Expression
}

func (e *IndexExpr) GetSpan() position.Span { return e.Span }
func (e *IndexExpr) String() string         { return fmt.Sprintf("%s[%s]", e.Base, e.Index) }
func (e *IndexExpr) expressionNode()        {}

// MemberExpr is `base.member`.
type MemberExpr struct {
	Span   position.Span
	Base   Expression
	Member string
}

func (e *MemberExpr) GetSpan() position.Span { return e.Span }
func (e *MemberExpr) String() string         { return fmt.Sprintf("%s.%s", e.Base, e.Member) }
func (e *MemberExpr) expressionNode()        {}

// CastExpr is the C-style cast form `(Type)operand`.
type CastExpr struct {
	Span    position.Span
	Target  Type
	Operand Expression
}

func (e *CastExpr) GetSpan() position.Span { return e.Span }
func (e *CastExpr) String() string         { return fmt.Sprintf("((%s)%s)", e.Target, e.Operand) }
func (e *CastExpr) expressionNode()        {}

// ParenExpr is a parenthesized single expression (no trailing comma).
type ParenExpr struct {
	Span  position.Span
	Inner Expression
}

func (e *ParenExpr) GetSpan() position.Span { return e.Span }
func (e *ParenExpr) String() string         { return fmt.Sprintf("(%s)", e.Inner) }
func (e *ParenExpr) expressionNode()        {}

// TupleExpr is a comma-separated tuple literal, `(a, b, ...)`.
type TupleExpr struct {
	Span     position.Span
	Elements []Expression
}

func (e *TupleExpr) GetSpan() position.Span { return e.Span }
func (e *TupleExpr) String() string         { return "(" + joinStrings(e.Elements, ", ") + ")" }
func (e *TupleExpr) expressionNode()        {}

// ErrorPropExpr is the error-propagation postfix operator, `operand?`.
type ErrorPropExpr struct {
	Span    position.Span
	Operand Expression
}

func (e *ErrorPropExpr) GetSpan() position.Span { return e.Span }
func (e *ErrorPropExpr) String() string         { return e.Operand.String() + "?" }
func (e *ErrorPropExpr) expressionNode()        {}
