package parser

import (
	"github.com/cinder-lang/cinder/internal/ast"
	"github.com/cinder-lang/cinder/internal/lexer"
	"github.com/cinder-lang/cinder/internal/position"
)

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(lexer.TokenLBrace, "to open block").Span

	var stmts []ast.Statement
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		stmts = append(stmts, p.parseStatement())
	}
	end := p.expect(lexer.TokenRBrace, "to close block").Span

	return &ast.BlockStmt{
		Span:  position.NewSpan(start.Start, end.End),
		Stmts: stmts,
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.current().Type {
	case lexer.TokenLet:
		return p.parseLetDecl()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenBreak:
		tok := p.advance()
		end := p.expect(lexer.TokenSemicolon, "after break").Span
		return &ast.BreakStmt{Span: position.NewSpan(tok.Span.Start, end.End)}
	case lexer.TokenContinue:
		tok := p.advance()
		end := p.expect(lexer.TokenSemicolon, "after continue").Span
		return &ast.ContinueStmt{Span: position.NewSpan(tok.Span.Start, end.End)}
	case lexer.TokenLBrace:
		return p.parseBlock()
	case lexer.TokenStatic:
		// A `static` nested function parses fine; reduced visibility on a
		// nested function is a semantic error, not a parse error.
		p.advance()
		return p.parseFuncDecl(ast.Restricted, true)
	}

	if stmt := p.tryDeclOrNestedFunc(); stmt != nil {
		return stmt
	}
	return p.parseExprStatement()
}

// tryDeclOrNestedFunc resolves the C-style implicit-declaration ambiguity
// at statement start. If the current token could begin a type, a
// speculative type parse runs, followed by a bounded two-token check:
// `Type Ident '='` commits to an implicit immutable binding and
// `Type Ident '('` commits to a nested function declaration. Anything
// else restores the cursor and returns nil so the statement is parsed as
// an expression (so `(int)x;` stays a cast and `x = 42;` an assignment).
func (p *Parser) tryDeclOrNestedFunc() ast.Statement {
	if !p.mayStartType(p.current()) {
		return nil
	}

	cp := p.save()
	declType, ok := p.tryParseType()
	if !ok {
		return nil
	}
	if !p.at(lexer.TokenIdentifier) {
		p.restore(cp)
		return nil
	}

	switch p.peek(1).Type {
	case lexer.TokenAssign:
		name := p.advance()
		p.expect(lexer.TokenAssign, "in declaration")
		init := p.parseAssign()
		end := p.expect(lexer.TokenSemicolon, "after declaration").Span
		return &ast.VarDecl{
			Span:     position.NewSpan(declType.GetSpan().Start, end.End),
			Name:     name.Literal,
			TypeSpec: declType,
			Init:     init,
			Mutable:  false,
		}
	case lexer.TokenLParen:
		// Nested function; re-parse from the start of the return type.
		p.restore(cp)
		return p.parseFuncDecl(ast.Public, true)
	default:
		p.restore(cp)
		return nil
	}
}

// parseLetDecl parses the keyword binding forms:
// `let Type name = expr;`, `let name = expr;`, `let mut [Type] name = expr;`.
func (p *Parser) parseLetDecl() ast.Statement {
	start := p.expect(lexer.TokenLet, "at binding").Span
	mutable := p.accept(lexer.TokenMut)

	// Optional explicit type: commit only if an identifier follows,
	// otherwise the name itself was misread as a type.
	var typeSpec ast.Type
	if p.mayStartType(p.current()) {
		cp := p.save()
		if t, ok := p.tryParseType(); ok && p.at(lexer.TokenIdentifier) {
			typeSpec = t
		} else {
			p.restore(cp)
		}
	}

	name := p.expect(lexer.TokenIdentifier, "as binding name")
	if typeSpec == nil {
		typeSpec = &ast.AutoType{Span: name.Span}
	}
	p.expect(lexer.TokenAssign, "in binding")
	init := p.parseAssign()
	end := p.expect(lexer.TokenSemicolon, "after binding").Span

	return &ast.VarDecl{
		Span:     position.NewSpan(start.Start, end.End),
		Name:     name.Literal,
		TypeSpec: typeSpec,
		Init:     init,
		Mutable:  mutable,
	}
}

func (p *Parser) parseIf() ast.Statement {
	start := p.expect(lexer.TokenIf, "at if statement").Span
	p.expect(lexer.TokenLParen, "to open if condition")
	cond := p.parseExpression()
	p.expect(lexer.TokenRParen, "to close if condition")
	then := p.parseBlock()

	stmt := &ast.IfStmt{
		Span: position.NewSpan(start.Start, then.Span.End),
		Cond: cond,
		Then: then,
	}
	if p.accept(lexer.TokenElse) {
		if p.at(lexer.TokenIf) {
			stmt.Else = p.parseIf()
		} else {
			stmt.Else = p.parseBlock()
		}
		stmt.Span = position.NewSpan(start.Start, stmt.Else.GetSpan().End)
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	start := p.expect(lexer.TokenWhile, "at while statement").Span
	p.expect(lexer.TokenLParen, "to open while condition")
	cond := p.parseExpression()
	p.expect(lexer.TokenRParen, "to close while condition")
	body := p.parseBlock()

	return &ast.WhileStmt{
		Span: position.NewSpan(start.Start, body.Span.End),
		Cond: cond,
		Body: body,
	}
}

func (p *Parser) parseFor() ast.Statement {
	start := p.expect(lexer.TokenFor, "at for statement").Span
	p.expect(lexer.TokenLParen, "to open for clauses")

	var init ast.Statement
	if !p.accept(lexer.TokenSemicolon) {
		if p.at(lexer.TokenLet) {
			init = p.parseLetDecl() // consumes the ';'
		} else if init = p.tryDeclOrNestedFunc(); init == nil {
			expr := p.parseExpression()
			end := p.expect(lexer.TokenSemicolon, "after for initializer").Span
			init = &ast.ExprStmt{
				Span: position.NewSpan(expr.GetSpan().Start, end.End),
				Expr: expr,
			}
		}
	}

	var cond ast.Expression
	if !p.at(lexer.TokenSemicolon) {
		cond = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "after for condition")

	var step ast.Expression
	if !p.at(lexer.TokenRParen) {
		step = p.parseExpression()
	}
	p.expect(lexer.TokenRParen, "to close for clauses")
	body := p.parseBlock()

	return &ast.ForStmt{
		Span: position.NewSpan(start.Start, body.Span.End),
		Init: init,
		Cond: cond,
		Step: step,
		Body: body,
	}
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.expect(lexer.TokenReturn, "at return statement").Span

	var value ast.Expression
	if !p.at(lexer.TokenSemicolon) {
		value = p.parseExpression()
	}
	end := p.expect(lexer.TokenSemicolon, "after return").Span

	return &ast.ReturnStmt{
		Span:  position.NewSpan(start.Start, end.End),
		Value: value,
	}
}

func (p *Parser) parseExprStatement() ast.Statement {
	expr := p.parseExpression()
	end := p.expect(lexer.TokenSemicolon, "after expression").Span
	return &ast.ExprStmt{
		Span: position.NewSpan(expr.GetSpan().Start, end.End),
		Expr: expr,
	}
}
