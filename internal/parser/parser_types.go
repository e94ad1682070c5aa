package parser

import (
	"strconv"

	"github.com/cinder-lang/cinder/internal/ast"
	"github.com/cinder-lang/cinder/internal/lexer"
	"github.com/cinder-lang/cinder/internal/position"
)

var primitiveKinds = map[lexer.TokenType]ast.PrimitiveKind{
	lexer.TokenKwInt:    ast.PrimInt,
	lexer.TokenKwUint:   ast.PrimUint,
	lexer.TokenKwLong:   ast.PrimLong,
	lexer.TokenKwUlong:  ast.PrimUlong,
	lexer.TokenKwShort:  ast.PrimShort,
	lexer.TokenKwByte:   ast.PrimByte,
	lexer.TokenKwFloat:  ast.PrimFloat,
	lexer.TokenKwDouble: ast.PrimDouble,
	lexer.TokenKwBool:   ast.PrimBool,
	lexer.TokenKwChar:   ast.PrimChar,
	lexer.TokenKwString: ast.PrimString,
	lexer.TokenKwVoid:   ast.PrimVoid,
}

// mayStartType reports whether a token can begin a type expression. Used
// only to decide whether a speculative type parse is worth attempting;
// identifiers always qualify since any name may be a typedef alias.
func (p *Parser) mayStartType(tok lexer.Token) bool {
	if lexer.IsPrimitiveKeyword(tok.Type) {
		return true
	}
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenAuto, lexer.TokenFn,
		lexer.TokenMul, lexer.TokenBitAnd, lexer.TokenLParen:
		return true
	}
	return false
}

// tryParseType attempts a speculative type parse. On failure the cursor
// is restored to where it was and ok is false; the surrounding parse
// continues with a non-type interpretation.
func (p *Parser) tryParseType() (t ast.Type, ok bool) {
	cp := p.save()
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(*ParseError); !isParseErr {
				panic(r)
			}
			p.restore(cp)
			t, ok = nil, false
		}
	}()
	return p.parseType(), true
}

// parseType parses a type expression: prefix pointer/reference forms, a
// core type, then postfix array/slice/fallible markers.
func (p *Parser) parseType() ast.Type {
	start := p.current().Span

	switch p.current().Type {
	case lexer.TokenMul:
		p.advance()
		mutable := p.accept(lexer.TokenMut)
		inner := p.parseType()
		return &ast.PointerType{
			Span:    position.NewSpan(start.Start, inner.GetSpan().End),
			Inner:   inner,
			Mutable: mutable,
		}
	case lexer.TokenBitAnd:
		p.advance()
		mutable := p.accept(lexer.TokenMut)
		inner := p.parseType()
		return &ast.ReferenceType{
			Span:    position.NewSpan(start.Start, inner.GetSpan().End),
			Inner:   inner,
			Mutable: mutable,
		}
	case lexer.TokenFn:
		return p.parseFunctionType()
	}

	core := p.parseCoreType()
	return p.parseTypePostfix(core)
}

func (p *Parser) parseFunctionType() ast.Type {
	start := p.expect(lexer.TokenFn, "at function type").Span
	p.expect(lexer.TokenLParen, "to open function type parameters")

	var params []ast.Type
	for !p.at(lexer.TokenRParen) {
		params = append(params, p.parseType())
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	end := p.expect(lexer.TokenRParen, "to close function type parameters").Span

	var ret ast.Type = &ast.PrimitiveType{Span: end, Kind: ast.PrimVoid}
	if p.accept(lexer.TokenArrow) {
		ret = p.parseType()
		end = ret.GetSpan()
	}
	fn := &ast.FunctionType{
		Span:   position.NewSpan(start.Start, end.End),
		Params: params,
		Return: ret,
	}
	return p.parseTypePostfix(fn)
}

func (p *Parser) parseCoreType() ast.Type {
	tok := p.current()

	if kind, isPrim := primitiveKinds[tok.Type]; isPrim {
		p.advance()
		return &ast.PrimitiveType{Span: tok.Span, Kind: kind}
	}

	switch tok.Type {
	case lexer.TokenAuto:
		p.advance()
		return &ast.AutoType{Span: tok.Span}
	case lexer.TokenIdentifier:
		p.advance()
		if p.at(lexer.TokenLt) {
			return p.parseGenericArgs(tok)
		}
		return &ast.NamedType{Span: tok.Span, Name: tok.Literal}
	case lexer.TokenLParen:
		return p.parseTupleType()
	}

	p.fail("a type", tok)
	return nil // unreachable
}

// parseGenericArgs parses `Base<Arg, ...>` after Base has been consumed.
func (p *Parser) parseGenericArgs(base lexer.Token) ast.Type {
	p.expect(lexer.TokenLt, "to open type arguments")

	var args []ast.Type
	for {
		args = append(args, p.parseType())
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	end := p.expectTypeArgClose()

	return &ast.GenericType{
		Span: position.NewSpan(base.Span.Start, end.End),
		Base: base.Literal,
		Args: args,
	}
}

// expectTypeArgClose consumes a `>`, splitting a `>>` token in place when
// closing nested generic argument lists (`Vec<Vec<int>>`).
func (p *Parser) expectTypeArgClose() position.Span {
	switch p.current().Type {
	case lexer.TokenGt:
		return p.advance().Span
	case lexer.TokenShr:
		tok := p.current()
		half := tok.Span
		half.End.Column = half.Start.Column + 1
		half.End.Offset = half.Start.Offset + 1
		rest := tok.Span
		rest.Start = half.End
		p.tokens[p.cursor] = lexer.Token{Type: lexer.TokenGt, Literal: ">", Span: rest}
		return half
	}
	p.fail("> to close type arguments", p.current())
	return position.Span{} // unreachable
}

// parseTupleType parses `(T1, T2, ...)`; a single parenthesized type is
// just that type.
func (p *Parser) parseTupleType() ast.Type {
	start := p.expect(lexer.TokenLParen, "to open tuple type").Span

	var elements []ast.Type
	for !p.at(lexer.TokenRParen) {
		elements = append(elements, p.parseType())
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	end := p.expect(lexer.TokenRParen, "to close tuple type").Span

	switch len(elements) {
	case 0:
		p.fail("a type inside parentheses", p.current())
		return nil
	case 1:
		return elements[0]
	default:
		return &ast.TupleType{
			Span:     position.NewSpan(start.Start, end.End),
			Elements: elements,
		}
	}
}

// parseTypePostfix applies `[N]`, `[]`, and `?` markers.
func (p *Parser) parseTypePostfix(t ast.Type) ast.Type {
	for {
		switch p.current().Type {
		case lexer.TokenLBracket:
			p.advance()
			if p.accept(lexer.TokenRBracket) {
				t = &ast.SliceType{
					Span:  position.NewSpan(t.GetSpan().Start, p.tokens[p.cursor-1].Span.End),
					Inner: t,
				}
				continue
			}
			sizeTok := p.expect(lexer.TokenInteger, "as array size")
			size, err := strconv.ParseInt(sizeTok.Literal, 10, 64)
			if err != nil || size < 0 {
				p.fail("a non-negative array size", sizeTok)
			}
			end := p.expect(lexer.TokenRBracket, "to close array size").Span
			t = &ast.ArrayType{
				Span:  position.NewSpan(t.GetSpan().Start, end.End),
				Inner: t,
				Size:  size,
			}
		case lexer.TokenQuestion:
			end := p.advance().Span
			t = &ast.FallibleType{
				Span:  position.NewSpan(t.GetSpan().Start, end.End),
				Inner: t,
			}
		default:
			return t
		}
	}
}
