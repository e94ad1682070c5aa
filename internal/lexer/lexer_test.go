package lexer

import "testing"

func TestBasicTokens(t *testing.T) {
	input := `int main() {
	__println__("Hello, Cinder!");
	return 0;
}`

	tests := []struct {
		expectedType  TokenType
		expectedValue string
	}{
		{TokenKwInt, "int"},
		{TokenIdentifier, "main"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenIdentifier, "__println__"},
		{TokenLParen, "("},
		{TokenString, "Hello, Cinder!"},
		{TokenRParen, ")"},
		{TokenSemicolon, ";"},
		{TokenReturn, "return"},
		{TokenInteger, "0"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
		{TokenEOF, ""},
	}

	l := New(input, "test.cn")

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedValue {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedValue, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `let mut static typedef struct enum impl extern fn auto`

	tests := []TokenType{
		TokenLet, TokenMut, TokenStatic, TokenTypedef, TokenStruct,
		TokenEnum, TokenImpl, TokenExtern, TokenFn, TokenAuto, TokenEOF,
	}

	l := New(input, "test.cn")

	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, want, tok.Type)
		}
	}
}

func TestPrimitiveKeywords(t *testing.T) {
	input := `int uint long ulong short byte float double bool char string void`

	tests := []TokenType{
		TokenKwInt, TokenKwUint, TokenKwLong, TokenKwUlong, TokenKwShort,
		TokenKwByte, TokenKwFloat, TokenKwDouble, TokenKwBool, TokenKwChar,
		TokenKwString, TokenKwVoid, TokenEOF,
	}

	l := New(input, "test.cn")

	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, want, tok.Type)
		}
		if want != TokenEOF && !IsPrimitiveKeyword(tok.Type) {
			t.Fatalf("tests[%d] - %q not recognized as primitive keyword", i, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % = += -= *= /= %= == != < <= > >= && || ! & | ^ ~ << >> ++ -- ? : @ ->`

	tests := []TokenType{
		TokenPlus, TokenMinus, TokenMul, TokenDiv, TokenMod,
		TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenMulAssign,
		TokenDivAssign, TokenModAssign,
		TokenEq, TokenNe, TokenLt, TokenLe, TokenGt, TokenGe,
		TokenAnd, TokenOr, TokenNot, TokenBitAnd, TokenBitOr, TokenBitXor,
		TokenBitNot, TokenShl, TokenShr, TokenInc, TokenDec,
		TokenQuestion, TokenColon, TokenAt, TokenArrow,
		TokenEOF,
	}

	l := New(input, "test.cn")

	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, want, tok.Type)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input        string
		expectedType TokenType
		expectedLit  string
	}{
		{"42", TokenInteger, "42"},
		{"0", TokenInteger, "0"},
		{"3.14", TokenFloat, "3.14"},
		{"1e9", TokenFloat, "1e9"},
		{"2.5e-3", TokenFloat, "2.5e-3"},
		{"1E+2", TokenFloat, "1E+2"},
	}

	for i, tt := range tests {
		l := New(tt.input, "test.cn")
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] %q - tokentype wrong. expected=%q, got=%q",
				i, tt.input, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLit {
			t.Fatalf("tests[%d] %q - literal wrong. expected=%q, got=%q",
				i, tt.input, tt.expectedLit, tok.Literal)
		}
	}
}

// A trailing `e` that is not an exponent must stay with the next token:
// `1e` is the integer 1 followed by the identifier e.
func TestNumberExponentBackout(t *testing.T) {
	l := New("1e + 2", "test.cn")

	tok := l.NextToken()
	if tok.Type != TokenInteger || tok.Literal != "1" {
		t.Fatalf("expected integer 1, got %s", tok)
	}
	tok = l.NextToken()
	if tok.Type != TokenIdentifier || tok.Literal != "e" {
		t.Fatalf("expected identifier e, got %s", tok)
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"plain"`, "plain"},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"quote\"inside"`, `quote"inside`},
		{`"back\\slash"`, `back\slash`},
	}

	for i, tt := range tests {
		l := New(tt.input, "test.cn")
		tok := l.NextToken()
		if tok.Type != TokenString {
			t.Fatalf("tests[%d] - tokentype wrong. expected=STRING, got=%q", i, tok.Type)
		}
		if tok.Literal != tt.expected {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expected, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"no closing quote`, "test.cn")
	tok := l.NextToken()
	if tok.Type != TokenError {
		t.Fatalf("expected error token, got %q", tok.Type)
	}
}

func TestCharLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`'a'`, "a"},
		{`'\n'`, "\n"},
		{`'\''`, "'"},
	}

	for i, tt := range tests {
		l := New(tt.input, "test.cn")
		tok := l.NextToken()
		if tok.Type != TokenChar {
			t.Fatalf("tests[%d] - tokentype wrong. expected=CHAR, got=%q", i, tok.Type)
		}
		if tok.Literal != tt.expected {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expected, tok.Literal)
		}
	}
}

func TestComments(t *testing.T) {
	input := `x // line comment
	/* block
	   comment */ y`

	l := New(input, "test.cn")

	tok := l.NextToken()
	if tok.Type != TokenIdentifier || tok.Literal != "x" {
		t.Fatalf("expected identifier x, got %s", tok)
	}
	tok = l.NextToken()
	if tok.Type != TokenIdentifier || tok.Literal != "y" {
		t.Fatalf("expected identifier y, got %s", tok)
	}
	tok = l.NextToken()
	if tok.Type != TokenEOF {
		t.Fatalf("expected EOF, got %s", tok)
	}
}

func TestSpanTracking(t *testing.T) {
	input := "let x\nlet y"
	l := New(input, "test.cn")

	// let x
	l.NextToken()
	tok := l.NextToken()
	if tok.Span.Start.Line != 1 || tok.Span.Start.Column != 5 {
		t.Fatalf("x span wrong: %s", tok.Span)
	}

	// let y on line 2
	l.NextToken()
	tok = l.NextToken()
	if tok.Span.Start.Line != 2 || tok.Span.Start.Column != 5 {
		t.Fatalf("y span wrong: %s", tok.Span)
	}
}

func TestIsMacroName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"__println__", true},
		{"__vec__", true},
		{"____", false},
		{"__x", false},
		{"println", false},
		{"_private", false},
	}

	for _, tt := range tests {
		if got := IsMacroName(tt.name); got != tt.want {
			t.Errorf("IsMacroName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
