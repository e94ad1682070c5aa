package ast

// Equivalent reports whether two units describe the same program,
// ignoring spans and redundant parenthesization. It is the comparison
// behind the format-then-reparse round trip: Format inserts grouping
// parentheses freely, so ParenExpr nodes are transparent on both sides.
func Equivalent(a, b *Unit) bool {
	if len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if !itemsEquivalent(a.Items[i], b.Items[i]) {
			return false
		}
	}
	return true
}

func itemsEquivalent(a, b Item) bool {
	switch x := a.(type) {
	case *TypedefDecl:
		y, ok := b.(*TypedefDecl)
		return ok && x.Name == y.Name && x.Visibility == y.Visibility &&
			TypesEqual(x.Target, y.Target)
	case *StructDecl:
		y, ok := b.(*StructDecl)
		if !ok || x.Name != y.Name || x.Visibility != y.Visibility ||
			len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name ||
				!TypesEqual(x.Fields[i].Type, y.Fields[i].Type) {
				return false
			}
		}
		return true
	case *EnumDecl:
		y, ok := b.(*EnumDecl)
		if !ok || x.Name != y.Name || x.Visibility != y.Visibility ||
			len(x.Variants) != len(y.Variants) {
			return false
		}
		for i := range x.Variants {
			xv, yv := x.Variants[i], y.Variants[i]
			if xv.Name != yv.Name || len(xv.Payload) != len(yv.Payload) {
				return false
			}
			for j := range xv.Payload {
				if !TypesEqual(xv.Payload[j], yv.Payload[j]) {
					return false
				}
			}
		}
		return true
	case *ImplBlock:
		y, ok := b.(*ImplBlock)
		if !ok || x.TargetName != y.TargetName || x.Visibility != y.Visibility ||
			len(x.Methods) != len(y.Methods) {
			return false
		}
		for i := range x.Methods {
			if !funcsEquivalent(x.Methods[i], y.Methods[i]) {
				return false
			}
		}
		return true
	case *ExternBlock:
		y, ok := b.(*ExternBlock)
		return ok && x.Raw == y.Raw
	case *FuncDecl:
		y, ok := b.(*FuncDecl)
		return ok && funcsEquivalent(x, y)
	default:
		return false
	}
}

func funcsEquivalent(a, b *FuncDecl) bool {
	if a.Name != b.Name || a.Visibility != b.Visibility || a.IsNested != b.IsNested ||
		len(a.Params) != len(b.Params) || !TypesEqual(a.ReturnType, b.ReturnType) {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Name != b.Params[i].Name ||
			!TypesEqual(a.Params[i].Type, b.Params[i].Type) {
			return false
		}
	}
	return blocksEquivalent(a.Body, b.Body)
}

func blocksEquivalent(a, b *BlockStmt) bool {
	if len(a.Stmts) != len(b.Stmts) {
		return false
	}
	for i := range a.Stmts {
		if !stmtsEquivalent(a.Stmts[i], b.Stmts[i]) {
			return false
		}
	}
	return true
}

func stmtsEquivalent(a, b Statement) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *VarDecl:
		y, ok := b.(*VarDecl)
		return ok && x.Name == y.Name && x.Mutable == y.Mutable &&
			TypesEqual(x.TypeSpec, y.TypeSpec) && exprsEquivalent(x.Init, y.Init)
	case *ExprStmt:
		y, ok := b.(*ExprStmt)
		return ok && exprsEquivalent(x.Expr, y.Expr)
	case *ReturnStmt:
		y, ok := b.(*ReturnStmt)
		return ok && exprsEquivalent(x.Value, y.Value)
	case *IfStmt:
		y, ok := b.(*IfStmt)
		return ok && exprsEquivalent(x.Cond, y.Cond) &&
			blocksEquivalent(x.Then, y.Then) && stmtsEquivalent(x.Else, y.Else)
	case *WhileStmt:
		y, ok := b.(*WhileStmt)
		return ok && exprsEquivalent(x.Cond, y.Cond) && blocksEquivalent(x.Body, y.Body)
	case *ForStmt:
		y, ok := b.(*ForStmt)
		return ok && stmtsEquivalent(x.Init, y.Init) &&
			exprsEquivalent(x.Cond, y.Cond) && exprsEquivalent(x.Step, y.Step) &&
			blocksEquivalent(x.Body, y.Body)
	case *BreakStmt:
		_, ok := b.(*BreakStmt)
		return ok
	case *ContinueStmt:
		_, ok := b.(*ContinueStmt)
		return ok
	case *BlockStmt:
		y, ok := b.(*BlockStmt)
		return ok && blocksEquivalent(x, y)
	case *FuncDecl:
		y, ok := b.(*FuncDecl)
		return ok && funcsEquivalent(x, y)
	default:
		return false
	}
}

// unparen strips grouping parentheses.
func unparen(e Expression) Expression {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.Inner
	}
}

func exprsEquivalent(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	a, b = unparen(a), unparen(b)

	switch x := a.(type) {
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Name == y.Name
	case *IntegerLit:
		y, ok := b.(*IntegerLit)
		return ok && x.Value == y.Value
	case *FloatLit:
		y, ok := b.(*FloatLit)
		return ok && x.Value == y.Value
	case *StringLit:
		y, ok := b.(*StringLit)
		return ok && x.Value == y.Value
	case *CharLit:
		y, ok := b.(*CharLit)
		return ok && x.Value == y.Value
	case *BoolLit:
		y, ok := b.(*BoolLit)
		return ok && x.Value == y.Value
	case *BinaryExpr:
		y, ok := b.(*BinaryExpr)
		return ok && x.Op == y.Op &&
			exprsEquivalent(x.Left, y.Left) && exprsEquivalent(x.Right, y.Right)
	case *UnaryExpr:
		y, ok := b.(*UnaryExpr)
		return ok && x.Op == y.Op && exprsEquivalent(x.Operand, y.Operand)
	case *AssignExpr:
		y, ok := b.(*AssignExpr)
		return ok && x.Op == y.Op &&
			exprsEquivalent(x.Target, y.Target) && exprsEquivalent(x.Value, y.Value)
	case *TernaryExpr:
		y, ok := b.(*TernaryExpr)
		return ok && exprsEquivalent(x.Cond, y.Cond) &&
			exprsEquivalent(x.Then, y.Then) && exprsEquivalent(x.Else, y.Else)
	case *CommaExpr:
		y, ok := b.(*CommaExpr)
		return ok && exprListsEquivalent(x.Exprs, y.Exprs)
	case *CallExpr:
		y, ok := b.(*CallExpr)
		return ok && exprsEquivalent(x.Callee, y.Callee) &&
			exprListsEquivalent(x.Args, y.Args)
	case *StaticCallExpr:
		y, ok := b.(*StaticCallExpr)
		return ok && x.TypeName == y.TypeName && x.Method == y.Method &&
			exprListsEquivalent(x.Args, y.Args)
	case *MacroCallExpr:
		y, ok := b.(*MacroCallExpr)
		return ok && x.Name == y.Name && exprListsEquivalent(x.Args, y.Args)
	case *IndexExpr:
		y, ok := b.(*IndexExpr)
		return ok && exprsEquivalent(x.Base, y.Base) && exprsEquivalent(x.Index, y.Index)
	case *MemberExpr:
		y, ok := b.(*MemberExpr)
		return ok && x.Member == y.Member && exprsEquivalent(x.Base, y.Base)
	case *CastExpr:
		y, ok := b.(*CastExpr)
		return ok && TypesEqual(x.Target, y.Target) && exprsEquivalent(x.Operand, y.Operand)
	case *TupleExpr:
		y, ok := b.(*TupleExpr)
		return ok && exprListsEquivalent(x.Elements, y.Elements)
	case *ErrorPropExpr:
		y, ok := b.(*ErrorPropExpr)
		return ok && exprsEquivalent(x.Operand, y.Operand)
	default:
		return false
	}
}

func exprListsEquivalent(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !exprsEquivalent(a[i], b[i]) {
			return false
		}
	}
	return true
}
