// Package parser implements the Cinder recursive descent parser.
//
// The parser owns the three local ambiguities of the surface syntax and
// resolves them with bounded lookahead and checkpointed backtracking:
// cast vs. parenthesized expression vs. tuple literal, C-style implicit
// declarations vs. expression statements, and the ternary operator vs.
// the error-propagation postfix. It never consults the type environment;
// any identifier is a possible type name until proven otherwise.
package parser

import (
	"fmt"

	"github.com/cinder-lang/cinder/internal/ast"
	"github.com/cinder-lang/cinder/internal/lexer"
	"github.com/cinder-lang/cinder/internal/position"
)

// ParseError reports a malformed token sequence. Parsing is fail-fast per
// compilation unit: the first error aborts the unit.
type ParseError struct {
	Span     position.Span
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: expected %s, found %s", e.Span, e.Expected, e.Found)
}

// Parser turns a token stream into an AST.
type Parser struct {
	tokens   []lexer.Token
	cursor   int
	source   string // original text, for extern passthrough slices
	unitName string
}

// checkpoint is a restorable cursor snapshot used for speculative parses.
type checkpoint int

// New creates a parser over the given lexer's token stream. The stream is
// drained eagerly so speculative parses can save and restore the cursor
// without re-lexing.
func New(l *lexer.Lexer, unitName string) *Parser {
	p := &Parser{source: l.Source(), unitName: unitName}
	for {
		tok := l.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
	return p
}

// ParseUnit parses one compilation unit. On a malformed sequence it
// returns the first ParseError and no AST.
func (p *Parser) ParseUnit() (unit *ast.Unit, err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			unit = nil
			err = pe
		}
	}()

	unit = &ast.Unit{Name: p.unitName}
	start := p.current().Span
	for !p.at(lexer.TokenEOF) {
		unit.Items = append(unit.Items, p.parseItem())
	}
	unit.Span = position.NewSpan(start.Start, p.current().Span.End)
	return unit, nil
}

// ====== cursor primitives ======

func (p *Parser) current() lexer.Token { return p.tokens[p.cursor] }

func (p *Parser) peek(n int) lexer.Token {
	idx := p.cursor + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[idx]
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.current().Type == tt }

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if tok.Type != lexer.TokenEOF {
		p.cursor++
	}
	return tok
}

func (p *Parser) accept(tt lexer.TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt lexer.TokenType, context string) lexer.Token {
	if p.at(tt) {
		return p.advance()
	}
	p.fail(fmt.Sprintf("%s %s", tt, context), p.current())
	return lexer.Token{} // unreachable
}

// save returns a restorable snapshot of the token cursor.
func (p *Parser) save() checkpoint { return checkpoint(p.cursor) }

// restore rewinds the cursor to a previously saved snapshot.
func (p *Parser) restore(c checkpoint) { p.cursor = int(c) }

// fail aborts the unit with a ParseError at the given token.
func (p *Parser) fail(expected string, found lexer.Token) {
	desc := found.Type.String()
	if found.Type == lexer.TokenIdentifier {
		desc = fmt.Sprintf("identifier %q", found.Literal)
	}
	panic(&ParseError{Span: found.Span, Expected: expected, Found: desc})
}

// ====== items ======

func (p *Parser) parseItem() ast.Item {
	vis := ast.Public
	if p.accept(lexer.TokenStatic) {
		vis = ast.Restricted
	}

	switch p.current().Type {
	case lexer.TokenTypedef:
		return p.parseTypedef(vis)
	case lexer.TokenStruct:
		return p.parseStruct(vis)
	case lexer.TokenEnum:
		return p.parseEnum(vis)
	case lexer.TokenImpl:
		return p.parseImpl(vis)
	case lexer.TokenExtern:
		if vis == ast.Restricted {
			p.fail("a non-static item after `static`", p.current())
		}
		return p.parseExtern()
	default:
		return p.parseFuncDecl(vis, false)
	}
}

// parseTypedef parses `typedef <type> <Name> ;`.
func (p *Parser) parseTypedef(vis ast.Visibility) *ast.TypedefDecl {
	start := p.expect(lexer.TokenTypedef, "at typedef declaration").Span
	target := p.parseType()
	name := p.expect(lexer.TokenIdentifier, "as typedef name")
	end := p.expect(lexer.TokenSemicolon, "after typedef").Span
	return &ast.TypedefDecl{
		Span:       position.NewSpan(start.Start, end.End),
		Name:       name.Literal,
		Target:     target,
		Visibility: vis,
	}
}

// parseStruct parses `struct Name { Type field ; ... }`.
func (p *Parser) parseStruct(vis ast.Visibility) *ast.StructDecl {
	start := p.expect(lexer.TokenStruct, "at struct declaration").Span
	name := p.expect(lexer.TokenIdentifier, "as struct name")
	p.expect(lexer.TokenLBrace, "to open struct body")

	var fields []*ast.StructField
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		fieldType := p.parseType()
		fieldName := p.expect(lexer.TokenIdentifier, "as field name")
		semi := p.expect(lexer.TokenSemicolon, "after struct field").Span
		fields = append(fields, &ast.StructField{
			Span: position.NewSpan(fieldType.GetSpan().Start, semi.End),
			Name: fieldName.Literal,
			Type: fieldType,
		})
	}
	end := p.expect(lexer.TokenRBrace, "to close struct body").Span

	return &ast.StructDecl{
		Span:       position.NewSpan(start.Start, end.End),
		Name:       name.Literal,
		Fields:     fields,
		Visibility: vis,
	}
}

// parseEnum parses `enum Name { Variant [ ( Type , ... ) ] , ... }`.
func (p *Parser) parseEnum(vis ast.Visibility) *ast.EnumDecl {
	start := p.expect(lexer.TokenEnum, "at enum declaration").Span
	name := p.expect(lexer.TokenIdentifier, "as enum name")
	p.expect(lexer.TokenLBrace, "to open enum body")

	var variants []*ast.EnumVariant
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		vname := p.expect(lexer.TokenIdentifier, "as enum variant name")
		variant := &ast.EnumVariant{Span: vname.Span, Name: vname.Literal}
		if p.accept(lexer.TokenLParen) {
			for !p.at(lexer.TokenRParen) {
				variant.Payload = append(variant.Payload, p.parseType())
				if !p.accept(lexer.TokenComma) {
					break
				}
			}
			end := p.expect(lexer.TokenRParen, "to close variant payload").Span
			variant.Span = position.NewSpan(vname.Span.Start, end.End)
		}
		variants = append(variants, variant)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	end := p.expect(lexer.TokenRBrace, "to close enum body").Span

	return &ast.EnumDecl{
		Span:       position.NewSpan(start.Start, end.End),
		Name:       name.Literal,
		Variants:   variants,
		Visibility: vis,
	}
}

// parseImpl parses `impl TargetName { <function>... }`. The target may be
// a typedef alias; resolution happens downstream.
func (p *Parser) parseImpl(vis ast.Visibility) *ast.ImplBlock {
	start := p.expect(lexer.TokenImpl, "at impl block").Span
	target := p.expect(lexer.TokenIdentifier, "as impl target")
	p.expect(lexer.TokenLBrace, "to open impl body")

	var methods []*ast.FuncDecl
	for !p.at(lexer.TokenRBrace) && !p.at(lexer.TokenEOF) {
		mvis := ast.Public
		if p.accept(lexer.TokenStatic) {
			mvis = ast.Restricted
		}
		methods = append(methods, p.parseFuncDecl(mvis, false))
	}
	end := p.expect(lexer.TokenRBrace, "to close impl body").Span

	return &ast.ImplBlock{
		Span:       position.NewSpan(start.Start, end.End),
		TargetName: target.Literal,
		Methods:    methods,
		Visibility: vis,
	}
}

// parseExtern parses `extern { ... }` and slices the body verbatim out of
// the source text for passthrough emission.
func (p *Parser) parseExtern() *ast.ExternBlock {
	start := p.expect(lexer.TokenExtern, "at extern block").Span
	open := p.expect(lexer.TokenLBrace, "to open extern block").Span

	// Skip tokens until the matching close brace; the body is opaque.
	depth := 1
	for depth > 0 {
		if p.at(lexer.TokenEOF) {
			p.fail("} to close extern block", p.current())
		}
		switch p.advance().Type {
		case lexer.TokenLBrace:
			depth++
		case lexer.TokenRBrace:
			depth--
		}
	}
	closeSpan := p.tokens[p.cursor-1].Span

	return &ast.ExternBlock{
		Span: position.NewSpan(start.Start, closeSpan.End),
		Raw:  p.source[open.End.Offset:closeSpan.Start.Offset],
	}
}

// parseFuncDecl parses a C-style function declaration:
// `ReturnType name ( Type param , ... ) { body }`.
func (p *Parser) parseFuncDecl(vis ast.Visibility, nested bool) *ast.FuncDecl {
	retType := p.parseType()
	name := p.expect(lexer.TokenIdentifier, "as function name")
	p.expect(lexer.TokenLParen, "to open parameter list")

	var params []*ast.Parameter
	for !p.at(lexer.TokenRParen) {
		paramType := p.parseType()
		paramName := p.expect(lexer.TokenIdentifier, "as parameter name")
		params = append(params, &ast.Parameter{
			Span: position.NewSpan(paramType.GetSpan().Start, paramName.Span.End),
			Name: paramName.Literal,
			Type: paramType,
		})
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	p.expect(lexer.TokenRParen, "to close parameter list")
	body := p.parseBlock()

	return &ast.FuncDecl{
		Span:       position.NewSpan(retType.GetSpan().Start, body.Span.End),
		Name:       name.Literal,
		Params:     params,
		ReturnType: retType,
		Body:       body,
		Visibility: vis,
		IsNested:   nested,
	}
}
