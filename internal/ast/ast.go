// Package ast defines the Cinder abstract syntax tree shared by the
// parser, the semantic analyzer, and the code generator. The tree is
// constructed once by the parser, annotated (never restructured) by the
// analyzer, and consumed read-only by the generator.
package ast

import (
	"fmt"
	"strings"

	"github.com/cinder-lang/cinder/internal/position"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// GetSpan returns the source span for this node.
	GetSpan() position.Span
	// String returns a short human-readable representation of the node.
	String() string
}

// Item represents a top-level declaration.
type Item interface {
	Node
	itemNode()
}

// Statement represents all statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression represents all expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// Type represents all type expression nodes. Types are structural value
// objects; two types are the same exactly when they are structurally equal.
type Type interface {
	Node
	typeNode()
}

// Visibility of a top-level item. The surface default is public; the
// `static` storage-class keyword restricts an item to its unit.
type Visibility int

const (
	Public Visibility = iota
	Restricted
)

func (v Visibility) String() string {
	if v == Restricted {
		return "restricted"
	}
	return "public"
}

// CaptureMode describes how a nested function's body uses a captured
// outer-scope variable.
type CaptureMode int

const (
	CaptureReadOnly CaptureMode = iota
	CaptureMutable
	CaptureMove
)

func (m CaptureMode) String() string {
	switch m {
	case CaptureReadOnly:
		return "read-only"
	case CaptureMutable:
		return "mutable"
	case CaptureMove:
		return "move"
	default:
		return "unknown"
	}
}

// CaptureInfo maps captured outer-scope variable names to their capture
// mode. Order preserves first-reference order inside the nested body so
// downstream emission is deterministic. Built once per nested function by
// the semantic analyzer, consumed by codegen, discarded with the AST.
type CaptureInfo struct {
	Modes map[string]CaptureMode
	Order []string
}

// NewCaptureInfo returns an empty capture table.
func NewCaptureInfo() *CaptureInfo {
	return &CaptureInfo{Modes: make(map[string]CaptureMode)}
}

// Record adds or upgrades a capture. Upgrades never downgrade: a variable
// already classified Move stays Move, Mutable is only replaced by Move.
func (c *CaptureInfo) Record(name string, mode CaptureMode) {
	prev, seen := c.Modes[name]
	if !seen {
		c.Modes[name] = mode
		c.Order = append(c.Order, name)
		return
	}
	if mode > prev {
		c.Modes[name] = mode
	}
}

// ====== Program ======

// Unit is the root of one compilation unit's AST.
type Unit struct {
	Span  position.Span
	Name  string // unit identifier, usually the source filename
	Items []Item
}

func (u *Unit) GetSpan() position.Span { return u.Span }
func (u *Unit) String() string         { return fmt.Sprintf("unit %s", u.Name) }

// ====== Items ======

// Parameter represents a single function parameter.
type Parameter struct {
	Span position.Span
	Name string
	Type Type
}

func (p *Parameter) GetSpan() position.Span { return p.Span }
func (p *Parameter) String() string         { return fmt.Sprintf("%s %s", p.Type, p.Name) }

// FuncDecl represents a function declaration, top-level or nested.
// Nested functions are single-level only and become host closures; the
// analyzer fills Captures for them.
type FuncDecl struct {
	Span       position.Span
	Name       string
	Params     []*Parameter
	ReturnType Type
	Body       *BlockStmt
	Visibility Visibility
	IsNested   bool

	// Captures is attached by the semantic analyzer for nested functions
	// and is nil for top-level ones.
	Captures *CaptureInfo
}

func (f *FuncDecl) GetSpan() position.Span { return f.Span }
func (f *FuncDecl) String() string         { return fmt.Sprintf("func %s", f.Name) }
func (f *FuncDecl) itemNode()              {}
func (f *FuncDecl) statementNode()         {}

// StructField is a single field of a struct declaration.
type StructField struct {
	Span position.Span
	Name string
	Type Type
}

func (f *StructField) GetSpan() position.Span { return f.Span }
func (f *StructField) String() string         { return fmt.Sprintf("%s %s", f.Type, f.Name) }

// StructDecl represents a struct declaration.
type StructDecl struct {
	Span       position.Span
	Name       string
	Fields     []*StructField
	Visibility Visibility
}

func (s *StructDecl) GetSpan() position.Span { return s.Span }
func (s *StructDecl) String() string         { return fmt.Sprintf("struct %s", s.Name) }
func (s *StructDecl) itemNode()              {}

// EnumVariant is a single variant of an enum declaration; Payload is nil
// for unit variants.
type EnumVariant struct {
	Span    position.Span
	Name    string
	Payload []Type
}

func (v *EnumVariant) GetSpan() position.Span { return v.Span }
func (v *EnumVariant) String() string         { return v.Name }

// EnumDecl represents an enum declaration.
type EnumDecl struct {
	Span       position.Span
	Name       string
	Variants   []*EnumVariant
	Visibility Visibility
}

func (e *EnumDecl) GetSpan() position.Span { return e.Span }
func (e *EnumDecl) String() string         { return fmt.Sprintf("enum %s", e.Name) }
func (e *EnumDecl) itemNode()              {}

// TypedefDecl represents a type alias declaration.
type TypedefDecl struct {
	Span       position.Span
	Name       string
	Target     Type
	Visibility Visibility
}

func (t *TypedefDecl) GetSpan() position.Span { return t.Span }
func (t *TypedefDecl) String() string         { return fmt.Sprintf("typedef %s", t.Name) }
func (t *TypedefDecl) itemNode()              {}

// ImplBlock represents an implementation block. TargetName may be a
// typedef alias; blocks resolving to the same concrete type are merged
// during emission.
type ImplBlock struct {
	Span       position.Span
	TargetName string
	Methods    []*FuncDecl
	Visibility Visibility
}

func (i *ImplBlock) GetSpan() position.Span { return i.Span }
func (i *ImplBlock) String() string         { return fmt.Sprintf("impl %s", i.TargetName) }
func (i *ImplBlock) itemNode()              {}

// ExternBlock carries a raw passthrough body sliced verbatim from the
// source between the braces.
type ExternBlock struct {
	Span position.Span
	Raw  string
}

func (e *ExternBlock) GetSpan() position.Span { return e.Span }
func (e *ExternBlock) String() string         { return "extern block" }
func (e *ExternBlock) itemNode()              {}

// ====== Statements ======

// BlockStmt is a braced statement sequence.
type BlockStmt struct {
	Span  position.Span
	Stmts []Statement
}

func (b *BlockStmt) GetSpan() position.Span { return b.Span }
func (b *BlockStmt) String() string         { return "block" }
func (b *BlockStmt) statementNode()         {}

// VarDecl represents a variable binding. All four surface forms
// (`Type x = e;`, `let Type x = e;`, `let x = e;`, `let mut x = e;`)
// normalize to this node; TypeSpec is AutoType when inferred.
type VarDecl struct {
	Span     position.Span
	Name     string
	TypeSpec Type
	Init     Expression
	Mutable  bool
}

func (v *VarDecl) GetSpan() position.Span { return v.Span }
func (v *VarDecl) String() string         { return fmt.Sprintf("let %s", v.Name) }
func (v *VarDecl) statementNode()         {}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	Span position.Span
	Expr Expression
}

func (e *ExprStmt) GetSpan() position.Span { return e.Span }
func (e *ExprStmt) String() string         { return "expr stmt" }
func (e *ExprStmt) statementNode()         {}

// ReturnStmt returns from the enclosing function; Value may be nil.
type ReturnStmt struct {
	Span  position.Span
	Value Expression
}

func (r *ReturnStmt) GetSpan() position.Span { return r.Span }
func (r *ReturnStmt) String() string         { return "return" }
func (r *ReturnStmt) statementNode()         {}

// IfStmt with optional Else (either *BlockStmt or another *IfStmt).
type IfStmt struct {
	Span position.Span
	Cond Expression
	Then *BlockStmt
	Else Statement
}

func (i *IfStmt) GetSpan() position.Span { return i.Span }
func (i *IfStmt) String() string         { return "if" }
func (i *IfStmt) statementNode()         {}

// WhileStmt loops while Cond holds.
type WhileStmt struct {
	Span position.Span
	Cond Expression
	Body *BlockStmt
}

func (w *WhileStmt) GetSpan() position.Span { return w.Span }
func (w *WhileStmt) String() string         { return "while" }
func (w *WhileStmt) statementNode()         {}

// ForStmt is the C-style three-clause loop; any clause may be nil.
type ForStmt struct {
	Span position.Span
	Init Statement
	Cond Expression
	Step Expression
	Body *BlockStmt
}

func (f *ForStmt) GetSpan() position.Span { return f.Span }
func (f *ForStmt) String() string         { return "for" }
func (f *ForStmt) statementNode()         {}

// BreakStmt exits the innermost loop.
type BreakStmt struct {
	Span position.Span
}

func (b *BreakStmt) GetSpan() position.Span { return b.Span }
func (b *BreakStmt) String() string         { return "break" }
func (b *BreakStmt) statementNode()         {}

// ContinueStmt restarts the innermost loop.
type ContinueStmt struct {
	Span position.Span
}

func (c *ContinueStmt) GetSpan() position.Span { return c.Span }
func (c *ContinueStmt) String() string         { return "continue" }
func (c *ContinueStmt) statementNode()         {}

// joinStrings renders a slice of Stringers for diagnostics.
func joinStrings[T fmt.Stringer](items []T, sep string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, sep)
}
