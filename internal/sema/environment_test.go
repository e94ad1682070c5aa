package sema

import (
	"fmt"
	"testing"

	"github.com/cinder-lang/cinder/internal/ast"
)

func named(name string) *ast.NamedType { return &ast.NamedType{Name: name} }

func prim(k ast.PrimitiveKind) *ast.PrimitiveType { return &ast.PrimitiveType{Kind: k} }

func TestResolveAliasChain(t *testing.T) {
	env := NewTypeEnvironment()
	if cyclic, dup := env.RegisterAlias("A", prim(ast.PrimInt)); cyclic || dup {
		t.Fatal("registering A failed")
	}
	if cyclic, dup := env.RegisterAlias("B", named("A")); cyclic || dup {
		t.Fatal("registering B failed")
	}
	if cyclic, dup := env.RegisterAlias("C", named("B")); cyclic || dup {
		t.Fatal("registering C failed")
	}

	got := env.ResolveType(named("C"))
	if !ast.TypesEqual(got, prim(ast.PrimInt)) {
		t.Fatalf("C resolved to %s, want int", got)
	}
}

// Resolution must be idempotent: resolving an already-resolved type is a
// no-op.
func TestResolveIdempotent(t *testing.T) {
	env := NewTypeEnvironment()
	env.RegisterAlias("Id", prim(ast.PrimInt))
	env.RegisterConcrete("Point")
	env.RegisterAlias("P", named("Point"))

	inputs := []ast.Type{
		named("Id"),
		named("P"),
		&ast.SliceType{Inner: named("Id")},
		&ast.FallibleType{Inner: named("P")},
		&ast.TupleType{Elements: []ast.Type{named("Id"), prim(ast.PrimBool)}},
		prim(ast.PrimString),
		&ast.AutoType{},
	}

	for i, in := range inputs {
		once := env.ResolveType(in)
		twice := env.ResolveType(once)
		if !ast.TypesEqual(once, twice) {
			t.Errorf("inputs[%d]: resolve not idempotent: %s vs %s", i, once, twice)
		}
	}
}

func TestResolveStructural(t *testing.T) {
	env := NewTypeEnvironment()
	env.RegisterAlias("Id", prim(ast.PrimLong))

	got := env.ResolveType(&ast.PointerType{Inner: &ast.ArrayType{Inner: named("Id"), Size: 4}})
	want := &ast.PointerType{Inner: &ast.ArrayType{Inner: prim(ast.PrimLong), Size: 4}}
	if !ast.TypesEqual(got, want) {
		t.Fatalf("resolved to %s, want %s", got, want)
	}

	got = env.ResolveType(&ast.GenericType{Base: "Vec", Args: []ast.Type{named("Id")}})
	want2 := &ast.GenericType{Base: "Vec", Args: []ast.Type{prim(ast.PrimLong)}}
	if !ast.TypesEqual(got, want2) {
		t.Fatalf("resolved to %s, want %s", got, want2)
	}
}

// An alias chain resolving to a declared concrete name stops there.
func TestResolveStopsAtConcrete(t *testing.T) {
	env := NewTypeEnvironment()
	env.RegisterConcrete("Point")
	env.RegisterAlias("P", named("Point"))
	env.RegisterAlias("Q", named("P"))

	got := env.ResolveType(named("Q"))
	if !ast.TypesEqual(got, named("Point")) {
		t.Fatalf("Q resolved to %s, want Point", got)
	}
}

func TestRegisterAliasRejectsCycles(t *testing.T) {
	env := NewTypeEnvironment()

	// Self-reference.
	if cyclic, _ := env.RegisterAlias("Loop", named("Loop")); !cyclic {
		t.Fatal("self-referential alias not rejected")
	}
	if env.IsAlias("Loop") {
		t.Fatal("rejected alias must not be registered")
	}

	// Two-step cycle: B -> A registered first, then A -> B closes it.
	if cyclic, _ := env.RegisterAlias("B", named("A")); cyclic {
		t.Fatal("forward reference wrongly rejected")
	}
	if cyclic, _ := env.RegisterAlias("A", named("B")); !cyclic {
		t.Fatal("two-step cycle not rejected")
	}

	// Cycle through a compound type.
	if cyclic, _ := env.RegisterAlias("List", &ast.SliceType{Inner: named("List")}); !cyclic {
		t.Fatal("structural cycle not rejected")
	}
}

// The same alias reachable along two independent branches is not a cycle.
func TestDiamondAliasIsNotACycle(t *testing.T) {
	env := NewTypeEnvironment()
	env.RegisterAlias("Id", prim(ast.PrimInt))

	cyclic, _ := env.RegisterAlias("Pair", &ast.TupleType{
		Elements: []ast.Type{named("Id"), named("Id")},
	})
	if cyclic {
		t.Fatal("diamond-shaped alias wrongly rejected as cyclic")
	}
}

func TestRegisterAliasRejectsDuplicates(t *testing.T) {
	env := NewTypeEnvironment()
	env.RegisterAlias("A", prim(ast.PrimInt))

	if _, dup := env.RegisterAlias("A", prim(ast.PrimLong)); !dup {
		t.Fatal("duplicate alias not reported")
	}
	// A redefinition that chains back to itself is reported as a cycle,
	// never as a duplicate.
	if cyc, dup := env.RegisterAlias("A", named("A")); !cyc || dup {
		t.Fatalf("self-redefinition: cyclic=%v duplicate=%v, want cyclic only", cyc, dup)
	}
	// The original entry survives.
	if !ast.TypesEqual(env.ResolveType(named("A")), prim(ast.PrimInt)) {
		t.Fatal("duplicate registration clobbered the original alias")
	}
}

// Deep but acyclic nesting must not overflow; chains are author input.
func TestResolveDeepChain(t *testing.T) {
	env := NewTypeEnvironment()
	env.RegisterAlias("T0", prim(ast.PrimInt))
	for i := 1; i < 10000; i++ {
		env.RegisterAlias(fmt.Sprintf("T%d", i), named(fmt.Sprintf("T%d", i-1)))
	}

	got := env.ResolveType(named("T9999"))
	if !ast.TypesEqual(got, prim(ast.PrimInt)) {
		t.Fatalf("deep chain resolved to %s, want int", got)
	}
}

func TestIsCompatibleSymmetric(t *testing.T) {
	env := NewTypeEnvironment()
	env.RegisterAlias("Id", prim(ast.PrimInt))

	pairs := []struct {
		a, b ast.Type
		want bool
	}{
		{prim(ast.PrimInt), prim(ast.PrimInt), true},
		{prim(ast.PrimInt), prim(ast.PrimLong), false},
		{named("Id"), prim(ast.PrimInt), true},
		{&ast.AutoType{}, prim(ast.PrimBool), true},
		{&ast.PointerType{Inner: prim(ast.PrimInt)}, &ast.PointerType{Inner: prim(ast.PrimInt), Mutable: true}, false},
		{&ast.ReferenceType{Inner: named("Id")}, &ast.ReferenceType{Inner: prim(ast.PrimInt)}, true},
		{&ast.ArrayType{Inner: prim(ast.PrimInt), Size: 3}, &ast.ArrayType{Inner: prim(ast.PrimInt), Size: 4}, false},
		{&ast.SliceType{Inner: prim(ast.PrimByte)}, &ast.SliceType{Inner: prim(ast.PrimByte)}, true},
		{
			&ast.GenericType{Base: "Vec", Args: []ast.Type{named("Id")}},
			&ast.GenericType{Base: "Vec", Args: []ast.Type{prim(ast.PrimInt)}},
			true,
		},
		{
			&ast.GenericType{Base: "Vec", Args: []ast.Type{prim(ast.PrimInt)}},
			&ast.GenericType{Base: "Set", Args: []ast.Type{prim(ast.PrimInt)}},
			false,
		},
		{&ast.FallibleType{Inner: prim(ast.PrimInt)}, &ast.FallibleType{Inner: prim(ast.PrimInt)}, true},
		{&ast.FallibleType{Inner: prim(ast.PrimInt)}, prim(ast.PrimInt), false},
	}

	for i, tt := range pairs {
		if got := env.IsCompatible(tt.a, tt.b); got != tt.want {
			t.Errorf("pairs[%d]: IsCompatible(%s, %s) = %v, want %v", i, tt.a, tt.b, got, tt.want)
		}
		if forward, backward := env.IsCompatible(tt.a, tt.b), env.IsCompatible(tt.b, tt.a); forward != backward {
			t.Errorf("pairs[%d]: compatibility not symmetric for %s and %s", i, tt.a, tt.b)
		}
	}
}

// Compatibility of aliases is judged after resolution, so transitivity
// over alias chains holds.
func TestIsCompatibleThroughChains(t *testing.T) {
	env := NewTypeEnvironment()
	env.RegisterAlias("A", prim(ast.PrimInt))
	env.RegisterAlias("B", named("A"))
	env.RegisterAlias("C", named("B"))

	if !env.IsCompatible(named("C"), named("A")) {
		t.Fatal("C and A must be compatible through the chain")
	}
	if !env.IsCompatible(named("C"), prim(ast.PrimInt)) {
		t.Fatal("C and int must be compatible through the chain")
	}
}

func TestSymbolTable(t *testing.T) {
	env := NewTypeEnvironment()
	sym := &Symbol{Name: "main", Type: &ast.FunctionType{Return: prim(ast.PrimVoid)}}

	if !env.DefineSymbol(sym) {
		t.Fatal("first definition failed")
	}
	if env.DefineSymbol(&Symbol{Name: "main"}) {
		t.Fatal("redefinition not rejected")
	}
	got, ok := env.LookupSymbol("main")
	if !ok || got != sym {
		t.Fatal("lookup did not return the defined symbol")
	}
	if _, ok := env.LookupSymbol("absent"); ok {
		t.Fatal("lookup of an absent name succeeded")
	}
}
