// Package lexer implements the Cinder lexical analyzer. It produces an
// ordered token stream with span tracking; the parser assumes no lexical
// errors survive past this stage.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cinder-lang/cinder/internal/position"
)

// TokenType represents the type of a token.
type TokenType int

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types for the Cinder surface syntax.
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier
	TokenInteger
	TokenFloat
	TokenString
	TokenChar

	// Keywords
	TokenLet
	TokenMut
	TokenStatic
	TokenTypedef
	TokenStruct
	TokenEnum
	TokenImpl
	TokenExtern
	TokenFn
	TokenReturn
	TokenIf
	TokenElse
	TokenWhile
	TokenFor
	TokenBreak
	TokenContinue
	TokenTrue
	TokenFalse
	TokenAuto

	// Primitive type keywords
	TokenKwInt
	TokenKwUint
	TokenKwLong
	TokenKwUlong
	TokenKwShort
	TokenKwByte
	TokenKwFloat
	TokenKwDouble
	TokenKwBool
	TokenKwChar
	TokenKwString
	TokenKwVoid

	// Operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenMod
	TokenAssign
	TokenPlusAssign
	TokenMinusAssign
	TokenMulAssign
	TokenDivAssign
	TokenModAssign
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenInc
	TokenDec
	TokenQuestion
	TokenColon
	TokenAt
	TokenArrow

	// Delimiters
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
)

var tokenNames = map[TokenType]string{
	TokenEOF:         "EOF",
	TokenError:       "ERROR",
	TokenIdentifier:  "IDENTIFIER",
	TokenInteger:     "INTEGER",
	TokenFloat:       "FLOAT",
	TokenString:      "STRING",
	TokenChar:        "CHAR",
	TokenLet:         "let",
	TokenMut:         "mut",
	TokenStatic:      "static",
	TokenTypedef:     "typedef",
	TokenStruct:      "struct",
	TokenEnum:        "enum",
	TokenImpl:        "impl",
	TokenExtern:      "extern",
	TokenFn:          "fn",
	TokenReturn:      "return",
	TokenIf:          "if",
	TokenElse:        "else",
	TokenWhile:       "while",
	TokenFor:         "for",
	TokenBreak:       "break",
	TokenContinue:    "continue",
	TokenTrue:        "true",
	TokenFalse:       "false",
	TokenAuto:        "auto",
	TokenKwInt:       "int",
	TokenKwUint:      "uint",
	TokenKwLong:      "long",
	TokenKwUlong:     "ulong",
	TokenKwShort:     "short",
	TokenKwByte:      "byte",
	TokenKwFloat:     "float",
	TokenKwDouble:    "double",
	TokenKwBool:      "bool",
	TokenKwChar:      "char",
	TokenKwString:    "string",
	TokenKwVoid:      "void",
	TokenPlus:        "+",
	TokenMinus:       "-",
	TokenMul:         "*",
	TokenDiv:         "/",
	TokenMod:         "%",
	TokenAssign:      "=",
	TokenPlusAssign:  "+=",
	TokenMinusAssign: "-=",
	TokenMulAssign:   "*=",
	TokenDivAssign:   "/=",
	TokenModAssign:   "%=",
	TokenEq:          "==",
	TokenNe:          "!=",
	TokenLt:          "<",
	TokenLe:          "<=",
	TokenGt:          ">",
	TokenGe:          ">=",
	TokenAnd:         "&&",
	TokenOr:          "||",
	TokenNot:         "!",
	TokenBitAnd:      "&",
	TokenBitOr:       "|",
	TokenBitXor:      "^",
	TokenBitNot:      "~",
	TokenShl:         "<<",
	TokenShr:         ">>",
	TokenInc:         "++",
	TokenDec:         "--",
	TokenQuestion:    "?",
	TokenColon:       ":",
	TokenAt:          "@",
	TokenArrow:       "->",
	TokenLParen:      "(",
	TokenRParen:      ")",
	TokenLBrace:      "{",
	TokenRBrace:      "}",
	TokenLBracket:    "[",
	TokenRBracket:    "]",
	TokenSemicolon:   ";",
	TokenComma:       ",",
	TokenDot:         ".",
}

var keywords = map[string]TokenType{
	"let":      TokenLet,
	"mut":      TokenMut,
	"static":   TokenStatic,
	"typedef":  TokenTypedef,
	"struct":   TokenStruct,
	"enum":     TokenEnum,
	"impl":     TokenImpl,
	"extern":   TokenExtern,
	"fn":       TokenFn,
	"return":   TokenReturn,
	"if":       TokenIf,
	"else":     TokenElse,
	"while":    TokenWhile,
	"for":      TokenFor,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"auto":     TokenAuto,
	"int":      TokenKwInt,
	"uint":     TokenKwUint,
	"long":     TokenKwLong,
	"ulong":    TokenKwUlong,
	"short":    TokenKwShort,
	"byte":     TokenKwByte,
	"float":    TokenKwFloat,
	"double":   TokenKwDouble,
	"bool":     TokenKwBool,
	"char":     TokenKwChar,
	"string":   TokenKwString,
	"void":     TokenKwVoid,
}

// IsPrimitiveKeyword reports whether tt names a primitive type.
func IsPrimitiveKeyword(tt TokenType) bool {
	return tt >= TokenKwInt && tt <= TokenKwVoid
}

// IsMacroName reports whether an identifier follows the double-delimiter
// macro naming convention (`__name__`).
func IsMacroName(literal string) bool {
	return len(literal) > 4 && strings.HasPrefix(literal, "__") && strings.HasSuffix(literal, "__")
}

// Token represents a single lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Span    position.Span
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Span: %s}", t.Type, t.Literal, t.Span)
}

// Lexer scans Cinder source text into tokens.
type Lexer struct {
	input    string
	filename string
	pos      position.Position // position of the rune at the cursor
	ch       rune              // current rune, 0 at EOF
	chSize   int               // byte width of ch
}

// New creates a lexer over the given source text.
func New(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		filename: filename,
		pos:      position.Position{Filename: filename, Line: 1, Column: 1, Offset: 0},
	}
	l.load()
	return l
}

// Source returns the full input text. The parser uses it to slice raw
// extern-block bodies out of the original source.
func (l *Lexer) Source() string { return l.input }

func (l *Lexer) load() {
	if l.pos.Offset >= len(l.input) {
		l.ch = 0
		l.chSize = 0
		return
	}
	l.ch, l.chSize = utf8.DecodeRuneInString(l.input[l.pos.Offset:])
}

func (l *Lexer) advance() {
	if l.ch == 0 {
		return
	}
	l.pos = l.pos.Advance(l.ch, l.chSize)
	l.load()
}

func (l *Lexer) peekRune() rune {
	next := l.pos.Offset + l.chSize
	if next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:])
	return r
}

// NextToken scans and returns the next token, skipping whitespace and
// comments.
func (l *Lexer) NextToken() Token {
	l.skipTrivia()

	start := l.pos

	switch {
	case l.ch == 0:
		return l.emit(TokenEOF, start, "")
	case isIdentStart(l.ch):
		return l.scanIdentifier(start)
	case unicode.IsDigit(l.ch):
		return l.scanNumber(start)
	case l.ch == '"':
		return l.scanString(start)
	case l.ch == '\'':
		return l.scanChar(start)
	}

	return l.scanOperator(start)
}

func (l *Lexer) skipTrivia() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.advance()
		case l.ch == '/' && l.peekRune() == '/':
			for l.ch != 0 && l.ch != '\n' {
				l.advance()
			}
		case l.ch == '/' && l.peekRune() == '*':
			l.advance()
			l.advance()
			for l.ch != 0 && !(l.ch == '*' && l.peekRune() == '/') {
				l.advance()
			}
			if l.ch != 0 {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) emit(tt TokenType, start position.Position, literal string) Token {
	return Token{Type: tt, Literal: literal, Span: position.NewSpan(start, l.pos)}
}

func (l *Lexer) scanIdentifier(start position.Position) Token {
	for isIdentStart(l.ch) || unicode.IsDigit(l.ch) {
		l.advance()
	}
	literal := l.input[start.Offset:l.pos.Offset]
	if tt, ok := keywords[literal]; ok {
		return l.emit(tt, start, literal)
	}
	return l.emit(TokenIdentifier, start, literal)
}

func (l *Lexer) scanNumber(start position.Position) Token {
	isFloat := false
	for unicode.IsDigit(l.ch) {
		l.advance()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekRune()) {
		isFloat = true
		l.advance()
		for unicode.IsDigit(l.ch) {
			l.advance()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save := l.pos
		l.advance()
		if l.ch == '+' || l.ch == '-' {
			l.advance()
		}
		if unicode.IsDigit(l.ch) {
			isFloat = true
			for unicode.IsDigit(l.ch) {
				l.advance()
			}
		} else {
			// Not an exponent after all; back out to the 'e'.
			l.pos = save
			l.load()
		}
	}
	literal := l.input[start.Offset:l.pos.Offset]
	if isFloat {
		return l.emit(TokenFloat, start, literal)
	}
	return l.emit(TokenInteger, start, literal)
}

func (l *Lexer) scanString(start position.Position) Token {
	l.advance() // consume opening quote
	var sb strings.Builder
	for l.ch != 0 && l.ch != '"' {
		if l.ch == '\\' {
			l.advance()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteRune(l.ch)
			}
			l.advance()
			continue
		}
		sb.WriteRune(l.ch)
		l.advance()
	}
	if l.ch != '"' {
		return l.emit(TokenError, start, "unterminated string literal")
	}
	l.advance() // consume closing quote
	return l.emit(TokenString, start, sb.String())
}

func (l *Lexer) scanChar(start position.Position) Token {
	l.advance() // consume opening quote
	var sb strings.Builder
	if l.ch == '\\' {
		l.advance()
		switch l.ch {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		case '\'':
			sb.WriteByte('\'')
		case '0':
			sb.WriteByte(0)
		default:
			sb.WriteRune(l.ch)
		}
		l.advance()
	} else if l.ch != 0 && l.ch != '\'' {
		sb.WriteRune(l.ch)
		l.advance()
	}
	if l.ch != '\'' {
		return l.emit(TokenError, start, "unterminated character literal")
	}
	l.advance()
	return l.emit(TokenChar, start, sb.String())
}

func (l *Lexer) scanOperator(start position.Position) Token {
	type pair struct {
		next rune
		tt   TokenType
	}
	single := func(tt TokenType) Token {
		lit := string(l.ch)
		l.advance()
		return l.emit(tt, start, lit)
	}
	double := func(fallback TokenType, pairs ...pair) Token {
		first := l.ch
		next := l.peekRune()
		for _, p := range pairs {
			if next == p.next {
				l.advance()
				l.advance()
				return l.emit(p.tt, start, string(first)+string(p.next))
			}
		}
		return single(fallback)
	}

	switch l.ch {
	case '+':
		return double(TokenPlus, pair{'+', TokenInc}, pair{'=', TokenPlusAssign})
	case '-':
		return double(TokenMinus, pair{'-', TokenDec}, pair{'=', TokenMinusAssign}, pair{'>', TokenArrow})
	case '*':
		return double(TokenMul, pair{'=', TokenMulAssign})
	case '/':
		return double(TokenDiv, pair{'=', TokenDivAssign})
	case '%':
		return double(TokenMod, pair{'=', TokenModAssign})
	case '=':
		return double(TokenAssign, pair{'=', TokenEq})
	case '!':
		return double(TokenNot, pair{'=', TokenNe})
	case '<':
		return double(TokenLt, pair{'=', TokenLe}, pair{'<', TokenShl})
	case '>':
		return double(TokenGt, pair{'=', TokenGe}, pair{'>', TokenShr})
	case '&':
		return double(TokenBitAnd, pair{'&', TokenAnd})
	case '|':
		return double(TokenBitOr, pair{'|', TokenOr})
	case '^':
		return single(TokenBitXor)
	case '~':
		return single(TokenBitNot)
	case '?':
		return single(TokenQuestion)
	case ':':
		return single(TokenColon)
	case '@':
		return single(TokenAt)
	case '(':
		return single(TokenLParen)
	case ')':
		return single(TokenRParen)
	case '{':
		return single(TokenLBrace)
	case '}':
		return single(TokenRBrace)
	case '[':
		return single(TokenLBracket)
	case ']':
		return single(TokenRBracket)
	case ';':
		return single(TokenSemicolon)
	case ',':
		return single(TokenComma)
	case '.':
		return single(TokenDot)
	}

	lit := string(l.ch)
	l.advance()
	return l.emit(TokenError, start, fmt.Sprintf("unexpected character %q", lit))
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
