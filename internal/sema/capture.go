package sema

import (
	"github.com/cinder-lang/cinder/internal/ast"
)

// Capture classification. For every outer-scope variable referenced in a
// nested function body:
//
//   - Mutable when the nested body assigns to it (including prefix
//     increment/decrement);
//   - Move when the nested body passes it by value into a call while its
//     type is an owned (non-copyable) one, and the enclosing function
//     never reads it after the nested declaration;
//   - ReadOnly otherwise.
//
// When a variable is both reassigned and consumed inside the body,
// consumption wins: the closure gives up the value, so it must own it.
// A reference to a variable declared lexically after the nested function
// is a CaptureViolation, never a silent ReadOnly capture.

// usage flags observed for one free variable inside a nested body.
type usage struct {
	assigned bool
	moved    bool
}

func (a *Analyzer) classifyCaptures(fn *ast.FuncDecl, enclosing *scope, fctx *funcContext, following []ast.Statement) *ast.CaptureInfo {
	free := &freeVars{
		bound: make(map[string]bool),
		uses:  make(map[string]*usage),
	}
	for _, p := range fn.Params {
		free.bound[p.Name] = true
	}
	free.walkBlock(fn.Body)

	info := ast.NewCaptureInfo()
	for _, name := range free.order {
		use := free.uses[name]

		v, inScope := enclosing.lookup(name)
		if !inScope {
			if _, declaredLater := fctx.localOrder[name]; declaredLater {
				a.errorf(fn.Span, CaptureViolation,
					"nested function %q captures %q before its declaration", fn.Name, name)
			}
			// Otherwise the name is a top-level symbol or host-provided;
			// not a capture either way.
			continue
		}

		mode := ast.CaptureReadOnly
		if use.assigned {
			mode = ast.CaptureMutable
		}
		if use.moved && a.isOwnedType(v.typ) && !readsName(following, name) {
			mode = ast.CaptureMove
		}
		info.Record(name, mode)
	}
	return info
}

// isOwnedType reports whether a resolved type transfers ownership when
// passed by value: strings, declared struct/enum names, generics, and
// tuples. Scalars, pointers, and references copy.
func (a *Analyzer) isOwnedType(t ast.Type) bool {
	switch x := a.resolved(t).(type) {
	case *ast.PrimitiveType:
		return x.Kind == ast.PrimString
	case *ast.NamedType, *ast.GenericType, *ast.TupleType:
		return true
	default:
		return false
	}
}

// readsName reports whether any statement in stmts references name.
// Used to decide "never read afterward outside the nested function".
func readsName(stmts []ast.Statement, name string) bool {
	found := false
	scan := &freeVars{
		bound: map[string]bool{},
		uses:  map[string]*usage{},
		onRef: func(ref string) {
			if ref == name {
				found = true
			}
		},
	}
	for _, stmt := range stmts {
		scan.walkStmt(stmt)
	}
	return found
}

// freeVars collects references to names not bound inside the walked
// region, preserving first-reference order.
type freeVars struct {
	bound map[string]bool
	uses  map[string]*usage
	order []string
	onRef func(name string) // optional tap for every free reference
}

func (f *freeVars) use(name string) *usage {
	if f.bound[name] {
		return nil
	}
	if f.onRef != nil {
		f.onRef(name)
	}
	u, seen := f.uses[name]
	if !seen {
		u = &usage{}
		f.uses[name] = u
		f.order = append(f.order, name)
	}
	return u
}

func (f *freeVars) walkBlock(block *ast.BlockStmt) {
	for _, stmt := range block.Stmts {
		f.walkStmt(stmt)
	}
}

func (f *freeVars) walkStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		f.walkExpr(s.Init)
		f.bound[s.Name] = true
	case *ast.FuncDecl:
		// Deeper nesting is rejected elsewhere; still scan the body so
		// capture reporting stays complete.
		f.bound[s.Name] = true
		f.walkBlock(s.Body)
	case *ast.ExprStmt:
		f.walkExpr(s.Expr)
	case *ast.ReturnStmt:
		if s.Value != nil {
			f.walkExpr(s.Value)
		}
	case *ast.IfStmt:
		f.walkExpr(s.Cond)
		f.walkBlock(s.Then)
		if s.Else != nil {
			f.walkStmt(s.Else)
		}
	case *ast.WhileStmt:
		f.walkExpr(s.Cond)
		f.walkBlock(s.Body)
	case *ast.ForStmt:
		if s.Init != nil {
			f.walkStmt(s.Init)
		}
		if s.Cond != nil {
			f.walkExpr(s.Cond)
		}
		if s.Step != nil {
			f.walkExpr(s.Step)
		}
		f.walkBlock(s.Body)
	case *ast.BlockStmt:
		f.walkBlock(s)
	}
}

func (f *freeVars) walkExpr(e ast.Expression) {
	switch x := e.(type) {
	case *ast.Identifier:
		f.use(x.Name) // plain read
	case *ast.BinaryExpr:
		f.walkExpr(x.Left)
		f.walkExpr(x.Right)
	case *ast.UnaryExpr:
		if x.Op == "++" || x.Op == "--" {
			if id, ok := x.Operand.(*ast.Identifier); ok {
				if u := f.use(id.Name); u != nil {
					u.assigned = true
				}
				return
			}
		}
		f.walkExpr(x.Operand)
	case *ast.AssignExpr:
		if id, ok := x.Target.(*ast.Identifier); ok {
			if u := f.use(id.Name); u != nil {
				u.assigned = true
			}
		} else {
			f.walkExpr(x.Target)
		}
		f.walkExpr(x.Value)
	case *ast.TernaryExpr:
		f.walkExpr(x.Cond)
		f.walkExpr(x.Then)
		f.walkExpr(x.Else)
	case *ast.CommaExpr:
		for _, sub := range x.Exprs {
			f.walkExpr(sub)
		}
	case *ast.CallExpr:
		f.walkExpr(x.Callee)
		f.walkArgs(x.Args)
	case *ast.StaticCallExpr:
		f.walkArgs(x.Args)
	case *ast.MacroCallExpr:
		f.walkArgs(x.Args)
	case *ast.CastExpr:
		f.walkExpr(x.Operand)
	case *ast.ParenExpr:
		f.walkExpr(x.Inner)
	case *ast.TupleExpr:
		for _, el := range x.Elements {
			f.walkExpr(el)
		}
	case *ast.IndexExpr:
		f.walkExpr(x.Base)
		f.walkExpr(x.Index)
	case *ast.MemberExpr:
		f.walkExpr(x.Base)
	case *ast.ErrorPropExpr:
		f.walkExpr(x.Operand)
	}
}

// walkArgs marks bare identifier arguments as by-value move candidates;
// everything else is an ordinary read.
func (f *freeVars) walkArgs(args []ast.Expression) {
	for _, arg := range args {
		if id, ok := arg.(*ast.Identifier); ok {
			if u := f.use(id.Name); u != nil {
				u.moved = true
			}
			continue
		}
		f.walkExpr(arg)
	}
}
