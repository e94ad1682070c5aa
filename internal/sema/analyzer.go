package sema

import (
	"github.com/cinder-lang/cinder/internal/ast"
	"github.com/cinder-lang/cinder/internal/position"
)

// Analyzer runs semantic analysis over one compilation unit. It owns the
// unit's TypeEnvironment and accumulates SemanticErrors rather than
// stopping at the first one; a non-empty error set disqualifies the unit
// from code generation.
type Analyzer struct {
	env    *TypeEnvironment
	errors []*SemanticError
}

// NewAnalyzer creates an analyzer with a fresh, empty environment.
func NewAnalyzer() *Analyzer {
	return &Analyzer{env: NewTypeEnvironment()}
}

// Analyze validates the unit and returns the populated environment plus
// all accumulated errors. The environment is write-phase during the
// forward collection pass and strictly read-only afterwards.
func (a *Analyzer) Analyze(unit *ast.Unit) (*TypeEnvironment, []*SemanticError) {
	a.collectItems(unit)
	a.validateSignatures(unit)
	a.analyzeBodies(unit)
	return a.env, a.errors
}

// collectItems is the single forward pass that populates the alias and
// symbol tables from top-level Typedef/Struct/Enum/Function items.
func (a *Analyzer) collectItems(unit *ast.Unit) {
	for _, item := range unit.Items {
		switch it := item.(type) {
		case *ast.TypedefDecl:
			cyclic, duplicate := a.env.RegisterAlias(it.Name, it.Target)
			if cyclic {
				a.errorf(it.Span, CircularTypeAlias,
					"type alias %q resolves back to itself", it.Name)
			}
			if duplicate {
				a.errorf(it.Span, TypeMismatch, "redefinition of type %q", it.Name)
			}
		case *ast.StructDecl:
			if !a.env.RegisterConcrete(it.Name) {
				a.errorf(it.Span, TypeMismatch, "redefinition of type %q", it.Name)
				continue
			}
			a.env.structs[it.Name] = it
		case *ast.EnumDecl:
			if !a.env.RegisterConcrete(it.Name) {
				a.errorf(it.Span, TypeMismatch, "redefinition of type %q", it.Name)
				continue
			}
			a.env.enums[it.Name] = it
		case *ast.FuncDecl:
			sym := &Symbol{
				Name:       it.Name,
				Type:       funcType(it),
				Visibility: it.Visibility,
			}
			if !a.env.DefineSymbol(sym) {
				a.errorf(it.Span, TypeMismatch, "redefinition of %q", it.Name)
			}
		}
	}
}

func funcType(fn *ast.FuncDecl) *ast.FunctionType {
	params := make([]ast.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Type
	}
	return &ast.FunctionType{Span: fn.Span, Params: params, Return: fn.ReturnType}
}

// validateSignatures checks every type reference in item signatures
// against the now-complete environment.
func (a *Analyzer) validateSignatures(unit *ast.Unit) {
	for _, item := range unit.Items {
		switch it := item.(type) {
		case *ast.TypedefDecl:
			a.validateType(it.Target)
		case *ast.StructDecl:
			for _, f := range it.Fields {
				a.validateType(f.Type)
			}
		case *ast.EnumDecl:
			for _, v := range it.Variants {
				for _, t := range v.Payload {
					a.validateType(t)
				}
			}
		case *ast.FuncDecl:
			a.validateType(it.ReturnType)
			for _, p := range it.Params {
				a.validateType(p.Type)
			}
		case *ast.ImplBlock:
			if !a.env.HasTypeName(it.TargetName) {
				a.errorf(it.Span, UndefinedType,
					"impl target %q is not a declared type", it.TargetName)
			}
			for _, m := range it.Methods {
				a.validateType(m.ReturnType)
				for _, p := range m.Params {
					a.validateType(p.Type)
				}
			}
		}
	}
}

// validateType walks a type expression and reports every named reference
// that is in neither the alias table nor the symbol table. Generic base
// names are host-side and pass through unvalidated; their arguments are
// still checked.
func (a *Analyzer) validateType(t ast.Type) {
	switch x := t.(type) {
	case *ast.NamedType:
		if !a.env.HasTypeName(x.Name) {
			a.errorf(x.Span, UndefinedType, "type %q is not defined", x.Name)
		}
	case *ast.PointerType:
		a.validateType(x.Inner)
	case *ast.ReferenceType:
		a.validateType(x.Inner)
	case *ast.ArrayType:
		a.validateType(x.Inner)
	case *ast.SliceType:
		a.validateType(x.Inner)
	case *ast.TupleType:
		for _, el := range x.Elements {
			a.validateType(el)
		}
	case *ast.GenericType:
		for _, arg := range x.Args {
			a.validateType(arg)
		}
	case *ast.FunctionType:
		for _, pt := range x.Params {
			a.validateType(pt)
		}
		a.validateType(x.Return)
	case *ast.FallibleType:
		a.validateType(x.Inner)
	}
}

// analyzeBodies type-checks function bodies, including impl methods.
func (a *Analyzer) analyzeBodies(unit *ast.Unit) {
	for _, item := range unit.Items {
		switch it := item.(type) {
		case *ast.FuncDecl:
			a.analyzeFunction(it, 0)
		case *ast.ImplBlock:
			for _, m := range it.Methods {
				a.analyzeFunction(m, 0)
			}
		}
	}
}

// ====== scopes ======

type variable struct {
	name     string
	typ      ast.Type // nil when unknown
	mutable  bool
	declSpan position.Span
}

type scope struct {
	parent *scope
	vars   map[string]*variable
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]*variable)}
}

func (s *scope) bind(v *variable) { s.vars[v.name] = v }

func (s *scope) lookup(name string) (*variable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// funcContext carries per-function analysis state.
type funcContext struct {
	returnType ast.Type
	// localOrder maps every local name declared anywhere in the function
	// to its lexical declaration order, for forward-capture detection.
	localOrder map[string]int
	depth      int // nesting depth: 0 for top-level functions
}

func (a *Analyzer) analyzeFunction(fn *ast.FuncDecl, depth int) {
	fctx := &funcContext{
		returnType: fn.ReturnType,
		localOrder: make(map[string]int),
		depth:      depth,
	}
	order := 0
	collectLocalOrder(fn.Body, &order, fctx.localOrder)

	sc := newScope(nil)
	for _, p := range fn.Params {
		sc.bind(&variable{name: p.Name, typ: p.Type, declSpan: p.Span})
	}
	a.analyzeBlock(fn.Body, sc, fctx, nil)
}

// collectLocalOrder records the declaration order of every local binding
// in the function, including ones in nested blocks. A nested function
// capturing a name with a later order than its own is a forward
// reference.
func collectLocalOrder(block *ast.BlockStmt, order *int, out map[string]int) {
	for _, stmt := range block.Stmts {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			if _, seen := out[s.Name]; !seen {
				out[s.Name] = *order
			}
			*order++
		case *ast.FuncDecl:
			if _, seen := out[s.Name]; !seen {
				out[s.Name] = *order
			}
			*order++
		case *ast.BlockStmt:
			collectLocalOrder(s, order, out)
		case *ast.IfStmt:
			collectLocalOrder(s.Then, order, out)
			if inner, ok := s.Else.(*ast.BlockStmt); ok {
				collectLocalOrder(inner, order, out)
			} else if inner, ok := s.Else.(*ast.IfStmt); ok {
				collectLocalOrder(&ast.BlockStmt{Stmts: []ast.Statement{inner}}, order, out)
			}
		case *ast.WhileStmt:
			collectLocalOrder(s.Body, order, out)
		case *ast.ForStmt:
			if init, ok := s.Init.(*ast.VarDecl); ok {
				if _, seen := out[init.Name]; !seen {
					out[init.Name] = *order
				}
				*order++
			}
			collectLocalOrder(s.Body, order, out)
		}
	}
}

// analyzeBlock walks a block. following carries every statement of the
// enclosing function that comes lexically after the block itself, so a
// statement's full "afterward" view is the block remainder plus it; the
// capture classifier needs that view to decide Move suppression across
// block boundaries.
func (a *Analyzer) analyzeBlock(block *ast.BlockStmt, parent *scope, fctx *funcContext, following []ast.Statement) {
	sc := newScope(parent)
	for i, stmt := range block.Stmts {
		rest := block.Stmts[i+1:]
		if len(following) > 0 {
			rest = append(append([]ast.Statement{}, rest...), following...)
		}
		a.analyzeStmt(stmt, sc, fctx, rest)
	}
}

func (a *Analyzer) analyzeStmt(stmt ast.Statement, sc *scope, fctx *funcContext, following []ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		initType := a.analyzeExpr(s.Init, sc)
		declType := s.TypeSpec
		if _, isAuto := declType.(*ast.AutoType); isAuto {
			declType = initType
		} else {
			a.validateType(s.TypeSpec)
			if initType != nil && !a.env.IsCompatible(s.TypeSpec, initType) {
				a.errorf(s.Span, TypeMismatch,
					"cannot initialize %s with a value of type %s",
					s.TypeSpec, initType)
			}
		}
		sc.bind(&variable{name: s.Name, typ: declType, mutable: s.Mutable, declSpan: s.Span})

	case *ast.FuncDecl:
		a.analyzeNestedFunc(s, sc, fctx, following)

	case *ast.ExprStmt:
		a.analyzeExpr(s.Expr, sc)

	case *ast.ReturnStmt:
		a.checkReturn(s, sc, fctx)

	case *ast.IfStmt:
		a.checkCondition(s.Cond, sc)
		a.analyzeBlock(s.Then, sc, fctx, following)
		if s.Else != nil {
			a.analyzeStmt(s.Else, sc, fctx, following)
		}

	case *ast.WhileStmt:
		a.checkCondition(s.Cond, sc)
		a.analyzeBlock(s.Body, sc, fctx, following)

	case *ast.ForStmt:
		loopScope := newScope(sc)
		if s.Init != nil {
			a.analyzeStmt(s.Init, loopScope, fctx, nil)
		}
		if s.Cond != nil {
			a.checkCondition(s.Cond, loopScope)
		}
		if s.Step != nil {
			a.analyzeExpr(s.Step, loopScope)
		}
		a.analyzeBlock(s.Body, loopScope, fctx, following)

	case *ast.BlockStmt:
		a.analyzeBlock(s, sc, fctx, following)
	}
}

// analyzeNestedFunc enforces the nesting rules and classifies captures.
func (a *Analyzer) analyzeNestedFunc(fn *ast.FuncDecl, sc *scope, fctx *funcContext, following []ast.Statement) {
	if fctx.depth >= 1 {
		a.errorf(fn.Span, CaptureViolation,
			"nested function %q may not itself contain a nested function", fn.Name)
		return
	}
	if fn.Visibility == ast.Restricted {
		a.errorf(fn.Span, VisibilityError,
			"nested function %q may not be declared with reduced visibility", fn.Name)
	}
	a.validateType(fn.ReturnType)
	for _, p := range fn.Params {
		a.validateType(p.Type)
	}

	fn.Captures = a.classifyCaptures(fn, sc, fctx, following)

	// Make the nested function callable below its declaration.
	sc.bind(&variable{name: fn.Name, typ: funcType(fn), declSpan: fn.Span})

	a.analyzeFunctionNested(fn, sc, fctx)
}

// analyzeFunctionNested analyzes a nested function's body with the
// enclosing scope visible, so captured reads type-check.
func (a *Analyzer) analyzeFunctionNested(fn *ast.FuncDecl, outer *scope, fctx *funcContext) {
	inner := &funcContext{
		returnType: fn.ReturnType,
		localOrder: make(map[string]int),
		depth:      fctx.depth + 1,
	}
	order := 0
	collectLocalOrder(fn.Body, &order, inner.localOrder)

	sc := newScope(outer)
	for _, p := range fn.Params {
		sc.bind(&variable{name: p.Name, typ: p.Type, declSpan: p.Span})
	}
	a.analyzeBlock(fn.Body, sc, inner, nil)
}

func (a *Analyzer) checkCondition(cond ast.Expression, sc *scope) {
	condType := a.analyzeExpr(cond, sc)
	if condType == nil {
		return
	}
	boolType := &ast.PrimitiveType{Kind: ast.PrimBool}
	if !a.env.IsCompatible(condType, boolType) {
		a.errorf(cond.GetSpan(), TypeMismatch,
			"condition has type %s, expected bool", condType)
	}
}

func (a *Analyzer) checkReturn(s *ast.ReturnStmt, sc *scope, fctx *funcContext) {
	declared := a.env.ResolveType(fctx.returnType)

	if s.Value == nil {
		if prim, ok := declared.(*ast.PrimitiveType); !ok || prim.Kind != ast.PrimVoid {
			a.errorf(s.Span, TypeMismatch, "missing return value for %s", fctx.returnType)
		}
		return
	}

	valueType := a.analyzeExpr(s.Value, sc)
	if valueType == nil {
		return
	}

	// A fallible return type accepts both the wrapped value and a
	// fallible of the same inner type.
	if fallible, ok := declared.(*ast.FallibleType); ok {
		if a.env.IsCompatible(fallible.Inner, valueType) || a.env.IsCompatible(declared, valueType) {
			return
		}
		a.errorf(s.Span, TypeMismatch,
			"cannot return %s from a function returning %s", valueType, fctx.returnType)
		return
	}

	if !a.env.IsCompatible(declared, valueType) {
		a.errorf(s.Span, TypeMismatch,
			"cannot return %s from a function returning %s", valueType, fctx.returnType)
	}
}
