package sema

import (
	"github.com/cinder-lang/cinder/internal/ast"
)

// analyzeExpr walks an expression, reporting mismatches at assignment and
// call sites, and returns the expression's type where it can be known
// without inference. nil means unknown; unknown operands are exempt from
// compatibility checks (numeric literals are deliberately polymorphic so
// `long x = 5;` stays legal).
func (a *Analyzer) analyzeExpr(e ast.Expression, sc *scope) ast.Type {
	switch x := e.(type) {
	case *ast.Identifier:
		if v, ok := sc.lookup(x.Name); ok {
			return v.typ
		}
		if sym, ok := a.env.LookupSymbol(x.Name); ok {
			return sym.Type
		}
		return nil

	case *ast.IntegerLit, *ast.FloatLit:
		return nil

	case *ast.StringLit:
		return &ast.PrimitiveType{Span: x.GetSpan(), Kind: ast.PrimString}

	case *ast.CharLit:
		return &ast.PrimitiveType{Span: x.Span, Kind: ast.PrimChar}

	case *ast.BoolLit:
		return &ast.PrimitiveType{Span: x.Span, Kind: ast.PrimBool}

	case *ast.BinaryExpr:
		left := a.analyzeExpr(x.Left, sc)
		right := a.analyzeExpr(x.Right, sc)
		if left != nil && right != nil && !a.env.IsCompatible(left, right) {
			a.errorf(x.Span, TypeMismatch,
				"operands of %q have incompatible types %s and %s", x.Op, left, right)
		}
		switch x.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return &ast.PrimitiveType{Span: x.Span, Kind: ast.PrimBool}
		}
		if left != nil {
			return left
		}
		return right

	case *ast.UnaryExpr:
		operand := a.analyzeExpr(x.Operand, sc)
		switch x.Op {
		case "!":
			return &ast.PrimitiveType{Span: x.Span, Kind: ast.PrimBool}
		case "&":
			if operand == nil {
				return nil
			}
			return &ast.ReferenceType{Span: x.Span, Inner: operand}
		case "*":
			switch inner := a.resolved(operand).(type) {
			case *ast.PointerType:
				return inner.Inner
			case *ast.ReferenceType:
				return inner.Inner
			}
			return nil
		default: // -, ~, ++, --
			return operand
		}

	case *ast.AssignExpr:
		target := a.analyzeExpr(x.Target, sc)
		value := a.analyzeExpr(x.Value, sc)
		if target != nil && value != nil && !a.env.IsCompatible(target, value) {
			a.errorf(x.Span, TypeMismatch,
				"cannot assign a value of type %s to a target of type %s", value, target)
		}
		return target

	case *ast.TernaryExpr:
		a.checkCondition(x.Cond, sc)
		then := a.analyzeExpr(x.Then, sc)
		els := a.analyzeExpr(x.Else, sc)
		if then != nil && els != nil && !a.env.IsCompatible(then, els) {
			a.errorf(x.Span, TypeMismatch,
				"ternary branches have incompatible types %s and %s", then, els)
		}
		if then != nil {
			return then
		}
		return els

	case *ast.CommaExpr:
		var last ast.Type
		for _, sub := range x.Exprs {
			last = a.analyzeExpr(sub, sc)
		}
		return last

	case *ast.CallExpr:
		return a.analyzeCall(x, sc)

	case *ast.StaticCallExpr:
		// The target must be a declared type; emission spells it through
		// the alias chain, so an unknown name cannot be resolved.
		if !a.env.HasTypeName(x.TypeName) {
			a.errorf(x.Span, UndefinedType,
				"static call target %q is not a declared type", x.TypeName)
		}
		for _, arg := range x.Args {
			a.analyzeExpr(arg, sc)
		}
		return nil

	case *ast.MacroCallExpr:
		for _, arg := range x.Args {
			a.analyzeExpr(arg, sc)
		}
		return nil

	case *ast.CastExpr:
		a.validateType(x.Target)
		a.analyzeExpr(x.Operand, sc)
		return x.Target

	case *ast.ParenExpr:
		return a.analyzeExpr(x.Inner, sc)

	case *ast.TupleExpr:
		elements := make([]ast.Type, len(x.Elements))
		for i, el := range x.Elements {
			t := a.analyzeExpr(el, sc)
			if t == nil {
				t = &ast.AutoType{Span: el.GetSpan()}
			}
			elements[i] = t
		}
		return &ast.TupleType{Span: x.Span, Elements: elements}

	case *ast.IndexExpr:
		base := a.analyzeExpr(x.Base, sc)
		a.analyzeExpr(x.Index, sc)
		switch inner := a.resolved(base).(type) {
		case *ast.ArrayType:
			return inner.Inner
		case *ast.SliceType:
			return inner.Inner
		}
		return nil

	case *ast.MemberExpr:
		base := a.analyzeExpr(x.Base, sc)
		named, ok := a.resolved(base).(*ast.NamedType)
		if !ok {
			return nil
		}
		def, ok := a.env.StructDef(named.Name)
		if !ok {
			return nil
		}
		for _, f := range def.Fields {
			if f.Name == x.Member {
				return f.Type
			}
		}
		return nil

	case *ast.ErrorPropExpr:
		operand := a.analyzeExpr(x.Operand, sc)
		if fallible, ok := a.resolved(operand).(*ast.FallibleType); ok {
			return fallible.Inner
		}
		return nil

	default:
		return nil
	}
}

// analyzeCall checks argument count and per-argument compatibility when
// the callee's function type is known.
func (a *Analyzer) analyzeCall(call *ast.CallExpr, sc *scope) ast.Type {
	calleeType := a.analyzeExpr(call.Callee, sc)

	argTypes := make([]ast.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = a.analyzeExpr(arg, sc)
	}

	fn, ok := a.resolved(calleeType).(*ast.FunctionType)
	if !ok {
		return nil
	}
	if len(call.Args) != len(fn.Params) {
		a.errorf(call.Span, TypeMismatch,
			"call has %d arguments, function takes %d", len(call.Args), len(fn.Params))
		return fn.Return
	}
	for i, paramType := range fn.Params {
		if argTypes[i] != nil && !a.env.IsCompatible(paramType, argTypes[i]) {
			a.errorf(call.Args[i].GetSpan(), TypeMismatch,
				"argument %d has type %s, parameter expects %s", i+1, argTypes[i], paramType)
		}
	}
	return fn.Return
}

// resolved resolves t when known; nil stays nil.
func (a *Analyzer) resolved(t ast.Type) ast.Type {
	if t == nil {
		return nil
	}
	return a.env.ResolveType(t)
}
