package parser

import (
	"strconv"

	"github.com/cinder-lang/cinder/internal/ast"
	"github.com/cinder-lang/cinder/internal/lexer"
	"github.com/cinder-lang/cinder/internal/position"
)

// Binary operator precedence, lowest binds loosest. The comma operator,
// assignment, and the ternary sit below this table; unary and postfix
// forms sit above it.
var binaryPrecedence = map[lexer.TokenType]int{
	lexer.TokenOr:     1,
	lexer.TokenAnd:    2,
	lexer.TokenBitOr:  3,
	lexer.TokenBitXor: 4,
	lexer.TokenBitAnd: 5,
	lexer.TokenEq:     6,
	lexer.TokenNe:     6,
	lexer.TokenLt:     7,
	lexer.TokenLe:     7,
	lexer.TokenGt:     7,
	lexer.TokenGe:     7,
	lexer.TokenShl:    8,
	lexer.TokenShr:    8,
	lexer.TokenPlus:   9,
	lexer.TokenMinus:  9,
	lexer.TokenMul:    10,
	lexer.TokenDiv:    10,
	lexer.TokenMod:    10,
}

var assignOps = map[lexer.TokenType]bool{
	lexer.TokenAssign:      true,
	lexer.TokenPlusAssign:  true,
	lexer.TokenMinusAssign: true,
	lexer.TokenMulAssign:   true,
	lexer.TokenDivAssign:   true,
	lexer.TokenModAssign:   true,
}

// parseExpression parses a full expression including the comma operator,
// which sequences sub-expressions and yields the last value.
func (p *Parser) parseExpression() ast.Expression {
	first := p.parseAssign()
	if !p.at(lexer.TokenComma) {
		return first
	}

	exprs := []ast.Expression{first}
	for p.accept(lexer.TokenComma) {
		exprs = append(exprs, p.parseAssign())
	}
	return &ast.CommaExpr{
		Span:  position.NewSpan(first.GetSpan().Start, exprs[len(exprs)-1].GetSpan().End),
		Exprs: exprs,
	}
}

// parseAssign parses an assignment expression (right-associative).
func (p *Parser) parseAssign() ast.Expression {
	left := p.parseTernary()
	if !assignOps[p.current().Type] {
		return left
	}
	op := p.advance()
	value := p.parseAssign()
	return &ast.AssignExpr{
		Span:   position.NewSpan(left.GetSpan().Start, value.GetSpan().End),
		Op:     op.Literal,
		Target: left,
		Value:  value,
	}
}

// parseTernary parses `cond ? then : else`. A `?` that reaches this level
// is always ternary; postfix error propagation was already claimed during
// postfix parsing when the following token could not begin an expression.
func (p *Parser) parseTernary() ast.Expression {
	cond := p.parseBinary(1)
	if !p.at(lexer.TokenQuestion) {
		return cond
	}
	p.advance()
	then := p.parseAssign()
	p.expect(lexer.TokenColon, "in ternary expression")
	els := p.parseAssign()
	return &ast.TernaryExpr{
		Span: position.NewSpan(cond.GetSpan().Start, els.GetSpan().End),
		Cond: cond,
		Then: then,
		Else: els,
	}
}

// parseBinary climbs operator precedence from minPrec upward. All binary
// operators are left-associative.
func (p *Parser) parseBinary(minPrec int) ast.Expression {
	left := p.parseUnary()
	for {
		prec, isBinary := binaryPrecedence[p.current().Type]
		if !isBinary || prec < minPrec {
			return left
		}
		op := p.advance()
		right := p.parseBinary(prec + 1)
		left = &ast.BinaryExpr{
			Span:  position.NewSpan(left.GetSpan().Start, right.GetSpan().End),
			Op:    op.Literal,
			Left:  left,
			Right: right,
		}
	}
}

// parseUnary parses prefix operators. Increment and decrement exist only
// in prefix form.
func (p *Parser) parseUnary() ast.Expression {
	switch p.current().Type {
	case lexer.TokenNot, lexer.TokenMinus, lexer.TokenBitNot,
		lexer.TokenInc, lexer.TokenDec, lexer.TokenBitAnd, lexer.TokenMul:
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			Span:    position.NewSpan(op.Span.Start, operand.GetSpan().End),
			Op:      op.Literal,
			Operand: operand,
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

// canBeginExpression reports whether tok can start an expression. It
// drives the ternary vs. error-propagation split and the commit decision
// after a speculative cast parse.
func canBeginExpression(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenInteger, lexer.TokenFloat,
		lexer.TokenString, lexer.TokenChar, lexer.TokenTrue, lexer.TokenFalse,
		lexer.TokenLParen, lexer.TokenNot, lexer.TokenBitNot, lexer.TokenMinus,
		lexer.TokenInc, lexer.TokenDec, lexer.TokenBitAnd, lexer.TokenMul,
		lexer.TokenAt:
		return true
	}
	return false
}

// unambiguousOperand reports whether tok starts an expression without
// also being a binary operator. After a cast whose target was a bare
// user-defined name, only these commit the cast form; `(x) - y` must stay
// a subtraction while `(int) - y` is a cast of a negation.
func unambiguousOperand(tok lexer.Token) bool {
	switch tok.Type {
	case lexer.TokenMinus, lexer.TokenBitAnd, lexer.TokenMul:
		return false
	}
	return canBeginExpression(tok)
}

func (p *Parser) parsePostfix(e ast.Expression) ast.Expression {
	for {
		switch p.current().Type {
		case lexer.TokenLParen:
			p.advance()
			args := p.parseCallArgs()
			end := p.expect(lexer.TokenRParen, "to close call arguments").Span
			e = &ast.CallExpr{
				Span:   position.NewSpan(e.GetSpan().Start, end.End),
				Callee: e,
				Args:   args,
			}
		case lexer.TokenLBracket:
			p.advance()
			index := p.parseExpression()
			end := p.expect(lexer.TokenRBracket, "to close index").Span
			e = &ast.IndexExpr{
				Span:  position.NewSpan(e.GetSpan().Start, end.End),
				Base:  e,
				Index: index,
			}
		case lexer.TokenDot:
			p.advance()
			member := p.expect(lexer.TokenIdentifier, "as member name")
			e = &ast.MemberExpr{
				Span:   position.NewSpan(e.GetSpan().Start, member.Span.End),
				Base:   e,
				Member: member.Literal,
			}
		case lexer.TokenQuestion:
			// Error propagation only when what follows cannot begin an
			// expression; otherwise the `?` belongs to a ternary.
			if canBeginExpression(p.peek(1)) {
				return e
			}
			end := p.advance().Span
			e = &ast.ErrorPropExpr{
				Span:    position.NewSpan(e.GetSpan().Start, end.End),
				Operand: e,
			}
		default:
			return e
		}
	}
}

func (p *Parser) parseCallArgs() []ast.Expression {
	var args []ast.Expression
	for !p.at(lexer.TokenRParen) {
		args = append(args, p.parseAssign())
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()

	switch tok.Type {
	case lexer.TokenLParen:
		return p.parseParenForm()
	case lexer.TokenIdentifier:
		p.advance()
		if lexer.IsMacroName(tok.Literal) && p.at(lexer.TokenLParen) {
			p.advance()
			args := p.parseCallArgs()
			end := p.expect(lexer.TokenRParen, "to close macro arguments").Span
			return &ast.MacroCallExpr{
				Span: position.NewSpan(tok.Span.Start, end.End),
				Name: tok.Literal,
				Args: args,
			}
		}
		return &ast.Identifier{Span: tok.Span, Name: tok.Literal}
	case lexer.TokenAt:
		return p.parseStaticCall()
	case lexer.TokenInteger:
		p.advance()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.fail("a representable integer literal", tok)
		}
		return &ast.IntegerLit{Span: tok.Span, Value: value, Literal: tok.Literal}
	case lexer.TokenFloat:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.fail("a representable float literal", tok)
		}
		return &ast.FloatLit{Span: tok.Span, Value: value, Literal: tok.Literal}
	case lexer.TokenString:
		p.advance()
		return &ast.StringLit{Span: tok.Span, Value: tok.Literal}
	case lexer.TokenChar:
		p.advance()
		var value rune
		for _, r := range tok.Literal {
			value = r
			break
		}
		return &ast.CharLit{Span: tok.Span, Value: value}
	case lexer.TokenTrue, lexer.TokenFalse:
		p.advance()
		return &ast.BoolLit{Span: tok.Span, Value: tok.Type == lexer.TokenTrue}
	}

	p.fail("an expression", tok)
	return nil // unreachable
}

// parseParenForm resolves the cast / parenthesized expression / tuple
// literal ambiguity with ordered choice. The cast form is tried first: a
// speculative type parse from a cursor snapshot, a closing parenthesis,
// and a following token that can begin a unary operand commit the cast;
// anything else restores the snapshot and falls back to a parenthesized
// expression (one element) or a tuple literal (two or more).
func (p *Parser) parseParenForm() ast.Expression {
	cp := p.save()
	open := p.expect(lexer.TokenLParen, "at parenthesized form").Span

	if target, ok := p.tryParseType(); ok && p.at(lexer.TokenRParen) {
		p.advance()
		if p.castOperandFollows(target) {
			operand := p.parseUnary()
			return &ast.CastExpr{
				Span:    position.NewSpan(open.Start, operand.GetSpan().End),
				Target:  target,
				Operand: operand,
			}
		}
	}
	p.restore(cp)

	p.expect(lexer.TokenLParen, "at parenthesized form")
	first := p.parseAssign()

	if p.at(lexer.TokenComma) {
		elements := []ast.Expression{first}
		for p.accept(lexer.TokenComma) {
			elements = append(elements, p.parseAssign())
		}
		end := p.expect(lexer.TokenRParen, "to close tuple literal").Span
		return &ast.TupleExpr{
			Span:     position.NewSpan(open.Start, end.End),
			Elements: elements,
		}
	}

	end := p.expect(lexer.TokenRParen, "to close parenthesized expression").Span
	return &ast.ParenExpr{
		Span:  position.NewSpan(open.Start, end.End),
		Inner: first,
	}
}

// castOperandFollows decides whether the token after a speculative
// `(Type)` commits the cast. A bare user-defined name could equally be a
// parenthesized variable, so it only commits on operands that cannot
// start a binary continuation; structural and primitive types commit on
// any expression start.
func (p *Parser) castOperandFollows(target ast.Type) bool {
	if _, bareName := target.(*ast.NamedType); bareName {
		return unambiguousOperand(p.current())
	}
	return canBeginExpression(p.current())
}

// parseStaticCall parses `@Type.method(args...)`.
func (p *Parser) parseStaticCall() ast.Expression {
	start := p.expect(lexer.TokenAt, "at static call").Span
	typeName := p.expect(lexer.TokenIdentifier, "as static call type")
	p.expect(lexer.TokenDot, "in static call")
	method := p.expect(lexer.TokenIdentifier, "as static call method")
	p.expect(lexer.TokenLParen, "to open static call arguments")
	args := p.parseCallArgs()
	end := p.expect(lexer.TokenRParen, "to close static call arguments").Span

	return &ast.StaticCallExpr{
		Span:     position.NewSpan(start.Start, end.End),
		TypeName: typeName.Literal,
		Method:   method.Literal,
		Args:     args,
	}
}
