package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cinder-lang/cinder/internal/ast"
	"github.com/cinder-lang/cinder/internal/sema"
)

// InternalError indicates a gap between what semantic analysis accepted
// and what the syntax-mapping table can express. It is fatal and never a
// user-facing diagnostic.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal codegen error: " + e.Message
}

// Generator walks a validated AST and emits host source text. The
// environment is queried read-only; all writes happened during analysis.
type Generator struct {
	env    *sema.TypeEnvironment
	out    strings.Builder
	indent int
	loopID int // label counter for stepped for-loop lowering
}

// Generate emits host text for a fully analyzed unit. Output is
// deterministic: identical input yields byte-identical text.
func Generate(unit *ast.Unit, env *sema.TypeEnvironment) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			text = ""
			err = ie
		}
	}()

	g := &Generator{env: env}
	g.emitUnit(unit)
	return g.out.String(), nil
}

func (g *Generator) internalf(format string, args ...any) {
	panic(&InternalError{Message: fmt.Sprintf(format, args...)})
}

// ====== low-level emission ======

func (g *Generator) write(s string) { g.out.WriteString(s) }

func (g *Generator) line(s string) {
	for i := 0; i < g.indent; i++ {
		g.out.WriteString("    ")
	}
	g.out.WriteString(s)
	g.out.WriteByte('\n')
}

func (g *Generator) linef(format string, args ...any) {
	g.line(fmt.Sprintf(format, args...))
}

// ====== items ======

// emitUnit emits all items. Impl blocks targeting the same concrete type
// are merged into one host block at the first occurrence, preserving
// member order within each contributing block.
func (g *Generator) emitUnit(unit *ast.Unit) {
	merged := g.mergeImplBlocks(unit)

	first := true
	for _, item := range unit.Items {
		if impl, isImpl := item.(*ast.ImplBlock); isImpl {
			block, isFirst := merged[impl]
			if !isFirst {
				continue
			}
			if !first {
				g.write("\n")
			}
			first = false
			g.emitMergedImpl(block)
			continue
		}
		if !first {
			g.write("\n")
		}
		first = false
		g.emitItem(item)
	}
}

// mergedImpl is one host impl block assembled from every source block
// that resolves to the same concrete target.
type mergedImpl struct {
	target  string
	methods []*ast.FuncDecl
}

// mergeImplBlocks groups the unit's impl blocks by resolved host target.
// The map is keyed by source block; only the first block of each group
// maps to a non-nil merge result.
func (g *Generator) mergeImplBlocks(unit *ast.Unit) map[*ast.ImplBlock]*mergedImpl {
	byTarget := make(map[string]*mergedImpl)
	result := make(map[*ast.ImplBlock]*mergedImpl)

	for _, item := range unit.Items {
		impl, ok := item.(*ast.ImplBlock)
		if !ok {
			continue
		}
		target := g.implTarget(impl.TargetName)
		block, seen := byTarget[target]
		if !seen {
			block = &mergedImpl{target: target}
			byTarget[target] = block
			result[impl] = block
		}
		block.methods = append(block.methods, impl.Methods...)
	}
	return result
}

func (g *Generator) emitMergedImpl(block *mergedImpl) {
	g.linef("impl %s {", block.target)
	g.indent++
	for i, m := range block.methods {
		if i > 0 {
			g.write("\n")
		}
		g.emitFunc(m)
	}
	g.indent--
	g.line("}")
}

func (g *Generator) emitItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FuncDecl:
		g.emitFunc(it)
	case *ast.StructDecl:
		g.emitStruct(it)
	case *ast.EnumDecl:
		g.emitEnum(it)
	case *ast.TypedefDecl:
		g.linef("%stype %s = %s;", hostVisibility(it.Visibility), it.Name, g.hostType(it.Target))
	case *ast.ExternBlock:
		g.line(`extern "C" {` + it.Raw + "}")
	default:
		g.internalf("no emission rule for item %T", item)
	}
}

func (g *Generator) emitStruct(s *ast.StructDecl) {
	g.linef("%sstruct %s {", hostVisibility(s.Visibility), s.Name)
	g.indent++
	for _, f := range s.Fields {
		g.linef("%s%s: %s,", hostVisibility(s.Visibility), f.Name, g.hostType(f.Type))
	}
	g.indent--
	g.line("}")
}

func (g *Generator) emitEnum(e *ast.EnumDecl) {
	g.linef("%senum %s {", hostVisibility(e.Visibility), e.Name)
	g.indent++
	for _, v := range e.Variants {
		if len(v.Payload) == 0 {
			g.linef("%s,", v.Name)
			continue
		}
		parts := make([]string, len(v.Payload))
		for i, t := range v.Payload {
			parts[i] = g.hostType(t)
		}
		g.linef("%s(%s),", v.Name, strings.Join(parts, ", "))
	}
	g.indent--
	g.line("}")
}

func (g *Generator) emitFunc(fn *ast.FuncDecl) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name + ": " + g.hostType(p.Type)
	}

	signature := fmt.Sprintf("%sfn %s(%s)", hostVisibility(fn.Visibility), fn.Name, strings.Join(params, ", "))
	if !isVoid(g.env.ResolveType(fn.ReturnType)) {
		signature += " -> " + g.hostType(fn.ReturnType)
	}
	g.line(signature + " {")
	g.indent++
	g.emitStmts(fn.Body.Stmts)
	g.indent--
	g.line("}")
}

func isVoid(t ast.Type) bool {
	prim, ok := t.(*ast.PrimitiveType)
	return ok && prim.Kind == ast.PrimVoid
}

// ====== statements ======

func (g *Generator) emitStmts(stmts []ast.Statement) {
	for _, stmt := range stmts {
		g.emitStmt(stmt)
	}
}

func (g *Generator) emitStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		g.emitVarDecl(s)
	case *ast.FuncDecl:
		g.emitClosure(s)
	case *ast.ExprStmt:
		g.linef("%s;", g.expr(s.Expr))
	case *ast.ReturnStmt:
		if s.Value == nil {
			g.line("return;")
		} else {
			g.linef("return %s;", g.expr(s.Value))
		}
	case *ast.IfStmt:
		g.emitIf(s)
	case *ast.WhileStmt:
		g.linef("while %s {", g.expr(s.Cond))
		g.indent++
		g.emitStmts(s.Body.Stmts)
		g.indent--
		g.line("}")
	case *ast.ForStmt:
		g.emitFor(s)
	case *ast.BreakStmt:
		g.line("break;")
	case *ast.ContinueStmt:
		g.line("continue;")
	case *ast.BlockStmt:
		g.line("{")
		g.indent++
		g.emitStmts(s.Stmts)
		g.indent--
		g.line("}")
	default:
		g.internalf("no emission rule for statement %T", stmt)
	}
}

func (g *Generator) emitVarDecl(s *ast.VarDecl) {
	binding := "let "
	if s.Mutable {
		binding = "let mut "
	}
	if _, inferred := s.TypeSpec.(*ast.AutoType); inferred {
		g.linef("%s%s = %s;", binding, s.Name, g.expr(s.Init))
		return
	}
	g.linef("%s%s: %s = %s;", binding, s.Name, g.hostType(s.TypeSpec), g.expr(s.Init))
}

// emitIf flattens an else-if chain so each link renders as
// `} else if cond {` rather than a nested block.
func (g *Generator) emitIf(s *ast.IfStmt) {
	g.emitIfWith(s, g.emitStmts)
}

func (g *Generator) emitIfWith(s *ast.IfStmt, emit func([]ast.Statement)) {
	g.linef("if %s {", g.expr(s.Cond))
	g.indent++
	emit(s.Then.Stmts)
	g.indent--

	rest := s.Else
	for rest != nil {
		switch els := rest.(type) {
		case *ast.IfStmt:
			g.linef("} else if %s {", g.expr(els.Cond))
			g.indent++
			emit(els.Then.Stmts)
			g.indent--
			rest = els.Else
		case *ast.BlockStmt:
			g.line("} else {")
			g.indent++
			emit(els.Stmts)
			g.indent--
			rest = nil
		default:
			g.internalf("no emission rule for else branch %T", rest)
		}
	}
	g.line("}")
}

// emitFor lowers the C-style loop into an introducer block plus while.
// A body without loop-level continues puts the step last in the while
// body; one with them wraps the body in a labeled block so a continue
// breaks to the step instead of skipping it.
func (g *Generator) emitFor(s *ast.ForStmt) {
	g.line("{")
	g.indent++
	if s.Init != nil {
		g.emitStmt(s.Init)
	}
	cond := "true"
	if s.Cond != nil {
		cond = g.expr(s.Cond)
	}
	if s.Step != nil && hasLoopLevelContinue(s.Body.Stmts) {
		g.emitSteppedFor(cond, s)
	} else {
		g.linef("while %s {", cond)
		g.indent++
		g.emitStmts(s.Body.Stmts)
		if s.Step != nil {
			g.linef("%s;", g.expr(s.Step))
		}
		g.indent--
		g.line("}")
	}
	g.indent--
	g.line("}")
}

// emitSteppedFor emits the labeled form:
//
//	'l0: while cond {
//	    's0: { ...body, continue -> break 's0, break -> break 'l0... }
//	    step;
//	}
//
// The loop label is required because the host rejects an unlabeled break
// whose nearest breakable scope is a labeled block.
func (g *Generator) emitSteppedFor(cond string, s *ast.ForStmt) {
	n := g.loopID
	g.loopID++
	loop := fmt.Sprintf("'l%d", n)
	body := fmt.Sprintf("'s%d", n)

	g.linef("%s: while %s {", loop, cond)
	g.indent++
	g.linef("%s: {", body)
	g.indent++
	g.emitLoopStmts(s.Body.Stmts, loop, body)
	g.indent--
	g.line("}")
	g.linef("%s;", g.expr(s.Step))
	g.indent--
	g.line("}")
}

// emitLoopStmts emits body statements of a stepped for loop, rewriting
// the loop-level break and continue to their labeled forms. Nested loops
// re-bind break/continue, so emission inside them falls back to the
// ordinary path.
func (g *Generator) emitLoopStmts(stmts []ast.Statement, breakLabel, continueLabel string) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.BreakStmt:
			g.linef("break %s;", breakLabel)
		case *ast.ContinueStmt:
			g.linef("break %s;", continueLabel)
		case *ast.IfStmt:
			g.emitIfWith(s, func(inner []ast.Statement) {
				g.emitLoopStmts(inner, breakLabel, continueLabel)
			})
		case *ast.BlockStmt:
			g.line("{")
			g.indent++
			g.emitLoopStmts(s.Stmts, breakLabel, continueLabel)
			g.indent--
			g.line("}")
		default:
			g.emitStmt(stmt)
		}
	}
}

// hasLoopLevelContinue reports whether any statement would continue the
// loop owning stmts. The scan follows if/else arms and bare blocks but
// stops at nested loops and nested functions, whose continues bind
// elsewhere.
func hasLoopLevelContinue(stmts []ast.Statement) bool {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ContinueStmt:
			return true
		case *ast.IfStmt:
			if hasLoopLevelContinue(s.Then.Stmts) {
				return true
			}
			if s.Else != nil && hasLoopLevelContinue([]ast.Statement{s.Else}) {
				return true
			}
		case *ast.BlockStmt:
			if hasLoopLevelContinue(s.Stmts) {
				return true
			}
		}
	}
	return false
}

// emitClosure turns a nested function into a host closure binding. The
// capture classification selects among the host's three closure traits:
// any Move capture forces a consuming (`move`) closure, any Mutable
// capture makes the binding itself mutable so the closure can be called
// as FnMut, and pure ReadOnly captures need neither. Captured variables
// are referenced by name, unchanged.
func (g *Generator) emitClosure(fn *ast.FuncDecl) {
	if fn.Captures == nil {
		g.internalf("nested function %q reached codegen without capture classification", fn.Name)
	}

	binding := "let "
	prefix := ""
	for _, name := range fn.Captures.Order {
		switch fn.Captures.Modes[name] {
		case ast.CaptureMutable:
			binding = "let mut "
		case ast.CaptureMove:
			prefix = "move "
		}
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Name + ": " + g.hostType(p.Type)
	}
	header := fmt.Sprintf("%s%s = %s|%s|", binding, fn.Name, prefix, strings.Join(params, ", "))
	if !isVoid(g.env.ResolveType(fn.ReturnType)) {
		header += " -> " + g.hostType(fn.ReturnType)
	}
	g.line(header + " {")
	g.indent++
	g.emitStmts(fn.Body.Stmts)
	g.indent--
	g.line("};")
}

// ====== expressions ======

func (g *Generator) expr(e ast.Expression) string {
	switch x := e.(type) {
	case *ast.Identifier:
		return x.Name
	case *ast.IntegerLit:
		return x.Literal
	case *ast.FloatLit:
		return x.Literal
	case *ast.StringLit:
		return strconv.Quote(x.Value)
	case *ast.CharLit:
		return strconv.QuoteRune(x.Value)
	case *ast.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", g.expr(x.Left), x.Op, g.expr(x.Right))
	case *ast.UnaryExpr:
		return g.unary(x)
	case *ast.AssignExpr:
		return fmt.Sprintf("%s %s %s", g.expr(x.Target), x.Op, g.expr(x.Value))
	case *ast.TernaryExpr:
		return fmt.Sprintf("if %s { %s } else { %s }", g.expr(x.Cond), g.expr(x.Then), g.expr(x.Else))
	case *ast.CommaExpr:
		parts := make([]string, len(x.Exprs))
		for i, sub := range x.Exprs {
			parts[i] = g.expr(sub)
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	case *ast.CallExpr:
		return fmt.Sprintf("%s(%s)", g.expr(x.Callee), g.args(x.Args))
	case *ast.StaticCallExpr:
		return fmt.Sprintf("%s::%s(%s)", g.implTarget(x.TypeName), x.Method, g.args(x.Args))
	case *ast.MacroCallExpr:
		return fmt.Sprintf("%s(%s)", hostMacroName(x.Name), g.args(x.Args))
	case *ast.CastExpr:
		return fmt.Sprintf("(%s as %s)", g.expr(x.Operand), g.hostType(x.Target))
	case *ast.ParenExpr:
		return "(" + g.expr(x.Inner) + ")"
	case *ast.TupleExpr:
		return "(" + g.args(x.Elements) + ")"
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", g.expr(x.Base), g.expr(x.Index))
	case *ast.MemberExpr:
		return g.expr(x.Base) + "." + x.Member
	case *ast.ErrorPropExpr:
		return g.expr(x.Operand) + "?"
	default:
		g.internalf("no emission rule for expression %T", e)
		return ""
	}
}

// unary maps prefix operators; the host spells bitwise-not `!`, and the
// prefix-only increment and decrement lower to compound assignment blocks
// that yield the updated value.
func (g *Generator) unary(x *ast.UnaryExpr) string {
	operand := g.expr(x.Operand)
	switch x.Op {
	case "!", "-", "&", "*":
		return x.Op + operand
	case "~":
		return "!" + operand
	case "++":
		return fmt.Sprintf("{ %s += 1; %s }", operand, operand)
	case "--":
		return fmt.Sprintf("{ %s -= 1; %s }", operand, operand)
	default:
		g.internalf("no emission rule for unary operator %q", x.Op)
		return ""
	}
}

func (g *Generator) args(exprs []ast.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = g.expr(e)
	}
	return strings.Join(parts, ", ")
}
