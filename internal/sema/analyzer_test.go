package sema

import (
	"testing"

	"github.com/cinder-lang/cinder/internal/ast"
	"github.com/cinder-lang/cinder/internal/lexer"
	"github.com/cinder-lang/cinder/internal/parser"
)

func analyze(t *testing.T, source string) (*TypeEnvironment, []*SemanticError) {
	t.Helper()
	p := parser.New(lexer.New(source, "test.cn"), "test.cn")
	unit, err := p.ParseUnit()
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return NewAnalyzer().Analyze(unit)
}

func analyzeUnit(t *testing.T, source string) (*ast.Unit, []*SemanticError) {
	t.Helper()
	p := parser.New(lexer.New(source, "test.cn"), "test.cn")
	unit, err := p.ParseUnit()
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, errs := NewAnalyzer().Analyze(unit)
	return unit, errs
}

func hasError(errs []*SemanticError, kind ErrorKind) bool {
	for _, e := range errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func noErrors(t *testing.T, errs []*SemanticError) {
	t.Helper()
	for _, e := range errs {
		t.Errorf("unexpected error: %v", e)
	}
}

func TestAnalyzeCleanUnit(t *testing.T) {
	_, errs := analyze(t, `
typedef int Id;
struct Point { int x; int y; }
Id double_it(Id v) { return v; }
int use(Point p) { return p.x + p.y; }
`)
	noErrors(t, errs)
}

func TestUndefinedTypeReported(t *testing.T) {
	_, errs := analyze(t, `Missing f(Missing x) { return x; }`)
	if !hasError(errs, UndefinedType) {
		t.Fatalf("expected UndefinedType, got %v", errs)
	}
}

// Errors accumulate; analysis does not stop at the first one.
func TestErrorsAccumulate(t *testing.T) {
	_, errs := analyze(t, `
First f() { return 0; }
Second g() { return 0; }
`)
	count := 0
	for _, e := range errs {
		if e.Kind == UndefinedType {
			count++
		}
	}
	if count < 2 {
		t.Fatalf("expected both undefined types reported, got %v", errs)
	}
}

func TestCircularTypedefRejected(t *testing.T) {
	_, errs := analyze(t, `
typedef B A;
typedef A B;
`)
	if !hasError(errs, CircularTypeAlias) {
		t.Fatalf("expected CircularTypeAlias, got %v", errs)
	}
}

func TestTypedefRedefinition(t *testing.T) {
	env, errs := analyze(t, `
typedef int A;
typedef long A;
`)
	if !hasError(errs, TypeMismatch) {
		t.Fatalf("expected a redefinition error, got %v", errs)
	}
	if !ast.TypesEqual(env.ResolveType(named("A")), prim(ast.PrimInt)) {
		t.Fatal("original alias must survive the rejected redefinition")
	}
}

// `typedef A A;` after a legitimate A is circular, not a mere
// redefinition: the new target chains straight back to the name being
// defined, and the rejected entry never enters the alias table.
func TestSelfRedefinitionIsCircular(t *testing.T) {
	env, errs := analyze(t, `
typedef int A;
typedef A A;
`)
	if !hasError(errs, CircularTypeAlias) {
		t.Fatalf("expected CircularTypeAlias, got %v", errs)
	}
	if !ast.TypesEqual(env.ResolveType(named("A")), prim(ast.PrimInt)) {
		t.Fatal("original alias must survive the rejected redefinition")
	}
}

func TestSelfReferentialTypedefRejected(t *testing.T) {
	_, errs := analyze(t, `typedef Node Node;`)
	if !hasError(errs, CircularTypeAlias) {
		t.Fatalf("expected CircularTypeAlias, got %v", errs)
	}
}

// An alias chain terminating at a struct is legal even when the struct is
// declared after the typedef; collection is a single forward pass over
// the whole unit before any validation.
func TestAliasToConcreteType(t *testing.T) {
	env, errs := analyze(t, `
typedef Point P;
struct Point { int x; }
P f(P p) { return p; }
`)
	noErrors(t, errs)
	if !ast.TypesEqual(env.ResolveType(named("P")), named("Point")) {
		t.Fatal("P must resolve to Point")
	}
}

func TestStaticCallTargetMustExist(t *testing.T) {
	_, errs := analyze(t, `
void f() {
	@Ghost.method();
}
`)
	if !hasError(errs, UndefinedType) {
		t.Fatalf("expected UndefinedType for static call target, got %v", errs)
	}
}

func TestStaticCallTargetResolvesThroughAlias(t *testing.T) {
	_, errs := analyze(t, `
struct Point { int x; }
typedef Point P;
void f() {
	@P.origin();
}
`)
	noErrors(t, errs)
}

func TestImplTargetMustExist(t *testing.T) {
	_, errs := analyze(t, `
impl Ghost {
	int m() { return 1; }
}
`)
	if !hasError(errs, UndefinedType) {
		t.Fatalf("expected UndefinedType for impl target, got %v", errs)
	}
}

func TestConditionMustBeBool(t *testing.T) {
	_, errs := analyze(t, `
void f(string s) {
	if (s) { return; }
}
`)
	if !hasError(errs, TypeMismatch) {
		t.Fatalf("expected TypeMismatch for non-bool condition, got %v", errs)
	}
}

func TestReturnTypeChecked(t *testing.T) {
	_, errs := analyze(t, `
int f(string s) { return s; }
`)
	if !hasError(errs, TypeMismatch) {
		t.Fatalf("expected TypeMismatch for wrong return, got %v", errs)
	}
}

// A fallible return type accepts the bare inner value.
func TestFallibleReturnAcceptsInner(t *testing.T) {
	_, errs := analyze(t, `
string? read(string s) { return s; }
`)
	noErrors(t, errs)
}

// Numeric literals stay polymorphic so every integer width accepts them.
func TestNumericLiteralsPolymorphic(t *testing.T) {
	_, errs := analyze(t, `
void f() {
	int a = 5;
	long b = 5;
	byte c = 5;
	double d = 2.5;
}
`)
	noErrors(t, errs)
}

func TestDeclarationInitTypeChecked(t *testing.T) {
	_, errs := analyze(t, `
void f(string s) {
	int x = s;
}
`)
	if !hasError(errs, TypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", errs)
	}
}

func TestCallArgumentChecking(t *testing.T) {
	_, errs := analyze(t, `
int add(int a, int b) { return a + b; }
void f(string s) {
	add(s, 2);
}
`)
	if !hasError(errs, TypeMismatch) {
		t.Fatalf("expected TypeMismatch for bad argument, got %v", errs)
	}

	_, errs = analyze(t, `
int add(int a, int b) { return a + b; }
void f() {
	add(1);
}
`)
	if !hasError(errs, TypeMismatch) {
		t.Fatalf("expected TypeMismatch for arity, got %v", errs)
	}
}
