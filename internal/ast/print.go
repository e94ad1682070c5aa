package ast

import (
	"fmt"
	"strings"
)

// Format renders a unit back to Cinder surface syntax. The output is not
// the original text: compound sub-expressions come out fully
// parenthesized and cast operands always get their own parentheses, so
// re-parsing the result never re-opens an ambiguity the original parse
// already decided. Re-parsing a formatted unit yields a tree equivalent
// under Equivalent.
func Format(unit *Unit) string {
	var pr printer
	for i, item := range unit.Items {
		if i > 0 {
			pr.sb.WriteByte('\n')
		}
		pr.item(item)
	}
	return pr.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (pr *printer) line(s string) {
	pr.sb.WriteString(strings.Repeat("    ", pr.indent))
	pr.sb.WriteString(s)
	pr.sb.WriteByte('\n')
}

func visPrefix(v Visibility) string {
	if v == Restricted {
		return "static "
	}
	return ""
}

func (pr *printer) item(item Item) {
	switch it := item.(type) {
	case *TypedefDecl:
		pr.line(fmt.Sprintf("%stypedef %s %s;", visPrefix(it.Visibility), typeString(it.Target), it.Name))
	case *StructDecl:
		pr.line(fmt.Sprintf("%sstruct %s {", visPrefix(it.Visibility), it.Name))
		pr.indent++
		for _, f := range it.Fields {
			pr.line(fmt.Sprintf("%s %s;", typeString(f.Type), f.Name))
		}
		pr.indent--
		pr.line("}")
	case *EnumDecl:
		pr.line(fmt.Sprintf("%senum %s {", visPrefix(it.Visibility), it.Name))
		pr.indent++
		for _, v := range it.Variants {
			if len(v.Payload) == 0 {
				pr.line(v.Name + ",")
				continue
			}
			payload := make([]string, len(v.Payload))
			for i, t := range v.Payload {
				payload[i] = typeString(t)
			}
			pr.line(fmt.Sprintf("%s(%s),", v.Name, strings.Join(payload, ", ")))
		}
		pr.indent--
		pr.line("}")
	case *ImplBlock:
		pr.line(fmt.Sprintf("%simpl %s {", visPrefix(it.Visibility), it.TargetName))
		pr.indent++
		for _, m := range it.Methods {
			pr.funcDecl(m)
		}
		pr.indent--
		pr.line("}")
	case *ExternBlock:
		// The raw body is re-emitted verbatim so it slices back out
		// identically on a re-parse.
		pr.line("extern {" + it.Raw + "}")
	case *FuncDecl:
		pr.funcDecl(it)
	}
}

func (pr *printer) funcDecl(fn *FuncDecl) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %s", typeString(p.Type), p.Name)
	}
	pr.line(fmt.Sprintf("%s%s %s(%s) {",
		visPrefix(fn.Visibility), typeString(fn.ReturnType), fn.Name, strings.Join(params, ", ")))
	pr.indent++
	for _, s := range fn.Body.Stmts {
		pr.stmt(s)
	}
	pr.indent--
	pr.line("}")
}

func (pr *printer) stmt(stmt Statement) {
	switch s := stmt.(type) {
	case *VarDecl:
		pr.line(varDeclString(s))
	case *ExprStmt:
		pr.line(exprString(s.Expr) + ";")
	case *ReturnStmt:
		if s.Value == nil {
			pr.line("return;")
		} else {
			pr.line("return " + exprString(s.Value) + ";")
		}
	case *IfStmt:
		pr.ifStmt(s)
	case *WhileStmt:
		pr.line("while (" + exprString(s.Cond) + ") {")
		pr.block(s.Body)
		pr.line("}")
	case *ForStmt:
		pr.line("for (" + forClauses(s) + ") {")
		pr.block(s.Body)
		pr.line("}")
	case *BreakStmt:
		pr.line("break;")
	case *ContinueStmt:
		pr.line("continue;")
	case *BlockStmt:
		pr.line("{")
		pr.block(s)
		pr.line("}")
	case *FuncDecl:
		pr.funcDecl(s)
	}
}

func (pr *printer) block(b *BlockStmt) {
	pr.indent++
	for _, s := range b.Stmts {
		pr.stmt(s)
	}
	pr.indent--
}

// ifStmt prints an else-if ladder flat, one arm per header line.
func (pr *printer) ifStmt(s *IfStmt) {
	pr.line("if (" + exprString(s.Cond) + ") {")
	pr.block(s.Then)
	for {
		switch els := s.Else.(type) {
		case nil:
			pr.line("}")
			return
		case *IfStmt:
			pr.line("} else if (" + exprString(els.Cond) + ") {")
			pr.block(els.Then)
			s = els
		case *BlockStmt:
			pr.line("} else {")
			pr.block(els)
			pr.line("}")
			return
		}
	}
}

func varDeclString(s *VarDecl) string {
	init := exprString(s.Init)
	if _, auto := s.TypeSpec.(*AutoType); auto {
		if s.Mutable {
			return fmt.Sprintf("let mut %s = %s;", s.Name, init)
		}
		return fmt.Sprintf("let %s = %s;", s.Name, init)
	}
	if s.Mutable {
		return fmt.Sprintf("let mut %s %s = %s;", typeString(s.TypeSpec), s.Name, init)
	}
	return fmt.Sprintf("%s %s = %s;", typeString(s.TypeSpec), s.Name, init)
}

func forClauses(s *ForStmt) string {
	var sb strings.Builder
	switch init := s.Init.(type) {
	case nil:
		sb.WriteString(";")
	case *VarDecl:
		sb.WriteString(varDeclString(init))
	case *ExprStmt:
		sb.WriteString(exprString(init.Expr) + ";")
	}
	if s.Cond != nil {
		sb.WriteString(" " + exprString(s.Cond))
	}
	sb.WriteString(";")
	if s.Step != nil {
		sb.WriteString(" " + exprString(s.Step))
	}
	return sb.String()
}

// exprString renders an expression. Binary, unary, assignment, and
// ternary forms are wrapped in parentheses; everything the grammar
// already delimits (calls, indexing, members, literals) is not.
func exprString(expr Expression) string {
	switch e := expr.(type) {
	case *Identifier:
		return e.Name
	case *IntegerLit:
		return e.Literal
	case *FloatLit:
		return e.Literal
	case *StringLit:
		return quoteString(e.Value)
	case *CharLit:
		return quoteChar(e.Value)
	case *BoolLit:
		return fmt.Sprintf("%t", e.Value)
	case *BinaryExpr:
		return "(" + exprString(e.Left) + " " + e.Op + " " + exprString(e.Right) + ")"
	case *UnaryExpr:
		return "(" + e.Op + exprString(e.Operand) + ")"
	case *AssignExpr:
		return "(" + exprString(e.Target) + " " + e.Op + " " + exprString(e.Value) + ")"
	case *TernaryExpr:
		return "(" + exprString(e.Cond) + " ? " + exprString(e.Then) + " : " + exprString(e.Else) + ")"
	case *CommaExpr:
		parts := make([]string, len(e.Exprs))
		for i, sub := range e.Exprs {
			parts[i] = exprString(sub)
		}
		return strings.Join(parts, ", ")
	case *CallExpr:
		return exprString(e.Callee) + "(" + argList(e.Args) + ")"
	case *StaticCallExpr:
		return "@" + e.TypeName + "." + e.Method + "(" + argList(e.Args) + ")"
	case *MacroCallExpr:
		return e.Name + "(" + argList(e.Args) + ")"
	case *IndexExpr:
		return exprString(e.Base) + "[" + exprString(e.Index) + "]"
	case *MemberExpr:
		return exprString(e.Base) + "." + e.Member
	case *CastExpr:
		// The parenthesized operand commits the cast form on re-parse
		// even when the target is a bare user-defined name.
		return "(" + typeString(e.Target) + ")(" + exprString(e.Operand) + ")"
	case *ParenExpr:
		return "(" + exprString(e.Inner) + ")"
	case *TupleExpr:
		parts := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			parts[i] = exprString(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ErrorPropExpr:
		return exprString(e.Operand) + "?"
	default:
		return expr.String()
	}
}

func argList(args []Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = exprString(a)
	}
	return strings.Join(parts, ", ")
}

// typeString renders a type in re-parseable surface form. Prefix forms
// (pointers, references, function types) under a postfix marker need
// parentheses: `*int[]` always parses as a pointer to a slice, so a
// slice of pointers must print as `(*int)[]`.
func typeString(t Type) string {
	switch x := t.(type) {
	case *ArrayType:
		return fmt.Sprintf("%s[%d]", postfixInner(x.Inner), x.Size)
	case *SliceType:
		return postfixInner(x.Inner) + "[]"
	case *FallibleType:
		return postfixInner(x.Inner) + "?"
	case *PointerType:
		if x.Mutable {
			return "*mut " + typeString(x.Inner)
		}
		return "*" + typeString(x.Inner)
	case *ReferenceType:
		if x.Mutable {
			return "&mut " + typeString(x.Inner)
		}
		return "&" + typeString(x.Inner)
	case *TupleType:
		parts := make([]string, len(x.Elements))
		for i, el := range x.Elements {
			parts[i] = typeString(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *GenericType:
		parts := make([]string, len(x.Args))
		for i, a := range x.Args {
			parts[i] = typeString(a)
		}
		return x.Base + "<" + strings.Join(parts, ", ") + ">"
	case *FunctionType:
		parts := make([]string, len(x.Params))
		for i, p := range x.Params {
			parts[i] = typeString(p)
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + typeString(x.Return)
	default:
		return t.String()
	}
}

func postfixInner(t Type) string {
	switch t.(type) {
	case *PointerType, *ReferenceType, *FunctionType:
		return "(" + typeString(t) + ")"
	}
	return typeString(t)
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case 0:
			sb.WriteString(`\0`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func quoteChar(r rune) string {
	switch r {
	case '\n':
		return `'\n'`
	case '\t':
		return `'\t'`
	case '\r':
		return `'\r'`
	case '\\':
		return `'\\'`
	case '\'':
		return `'\''`
	case 0:
		return `'\0'`
	}
	return "'" + string(r) + "'"
}
