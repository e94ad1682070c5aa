package sema

import (
	"github.com/cinder-lang/cinder/internal/ast"
)

// maxResolveDepth bounds structural resolution. Alias name chains are
// followed iteratively so their length is unbounded; this cap only
// limits nesting through compound types, which is proportional to the
// amount of source text that produced them. Deep chains are
// author-controllable input and must never overflow the call stack.
const maxResolveDepth = 512

// entryKind distinguishes alias table entries.
type entryKind int

const (
	entryAlias entryKind = iota
	entryConcrete
)

type aliasEntry struct {
	kind   entryKind
	target ast.Type // alias target; nil for concrete entries
}

// Symbol is one declared name in a unit's symbol table.
type Symbol struct {
	Name       string
	Type       ast.Type
	Visibility ast.Visibility
	Mutable    bool
}

// TypeEnvironment holds one compilation unit's alias table and symbol
// table. It is constructed fresh per unit, populated during a single
// forward pass over top-level items (write phase), and only queried
// afterwards (query phase). It is never a process-wide singleton.
//
// Invariant: every alias entry's target, fully resolved, terminates at a
// non-alias type or a declared concrete name. Cycles are rejected at
// registration time, so resolution never loops.
type TypeEnvironment struct {
	aliases map[string]aliasEntry
	symbols map[string]*Symbol
	structs map[string]*ast.StructDecl
	enums   map[string]*ast.EnumDecl
}

// NewTypeEnvironment returns an empty environment for one unit.
func NewTypeEnvironment() *TypeEnvironment {
	return &TypeEnvironment{
		aliases: make(map[string]aliasEntry),
		symbols: make(map[string]*Symbol),
		structs: make(map[string]*ast.StructDecl),
		enums:   make(map[string]*ast.EnumDecl),
	}
}

// RegisterAlias adds a typedef to the alias table after proving the new
// entry cannot close a cycle. An alias that would introduce one is never
// registered, so later resolution cannot recurse unboundedly.
func (env *TypeEnvironment) RegisterAlias(name string, target ast.Type) (cyclic, duplicate bool) {
	// Cycle detection runs before the duplicate check: a redefinition whose
	// target chains back to the name being defined is a circularity, not a
	// mere redefinition.
	visited := map[string]bool{name: true}
	if env.HasCircularReference(target, visited) {
		return true, false
	}
	if _, exists := env.aliases[name]; exists {
		return false, true
	}
	env.aliases[name] = aliasEntry{kind: entryAlias, target: target}
	return false, false
}

// RegisterConcrete adds a declared concrete name (struct or enum) to the
// alias table so alias chains can terminate at it.
func (env *TypeEnvironment) RegisterConcrete(name string) bool {
	if _, exists := env.aliases[name]; exists {
		return false
	}
	env.aliases[name] = aliasEntry{kind: entryConcrete}
	return true
}

// DefineSymbol records a declared top-level name.
func (env *TypeEnvironment) DefineSymbol(sym *Symbol) bool {
	if _, exists := env.symbols[sym.Name]; exists {
		return false
	}
	env.symbols[sym.Name] = sym
	return true
}

// LookupSymbol returns the symbol declared under name, if any.
func (env *TypeEnvironment) LookupSymbol(name string) (*Symbol, bool) {
	sym, ok := env.symbols[name]
	return sym, ok
}

// HasTypeName reports whether name is known to the alias table, either
// as an alias or as a declared concrete type.
func (env *TypeEnvironment) HasTypeName(name string) bool {
	_, ok := env.aliases[name]
	return ok
}

// IsAlias reports whether name is registered as an alias.
func (env *TypeEnvironment) IsAlias(name string) bool {
	entry, ok := env.aliases[name]
	return ok && entry.kind == entryAlias
}

// StructDef returns the struct declaration behind a concrete name.
func (env *TypeEnvironment) StructDef(name string) (*ast.StructDecl, bool) {
	s, ok := env.structs[name]
	return s, ok
}

// EnumDef returns the enum declaration behind a concrete name.
func (env *TypeEnvironment) EnumDef(name string) (*ast.EnumDecl, bool) {
	e, ok := env.enums[name]
	return e, ok
}

// ResolveType resolves aliases until a non-alias type remains, recursing
// structurally into compound types. Primitives and Auto pass through
// unchanged. The operation is idempotent:
// ResolveType(ResolveType(t)) == ResolveType(t).
func (env *TypeEnvironment) ResolveType(t ast.Type) ast.Type {
	return env.resolveType(t, 0)
}

func (env *TypeEnvironment) resolveType(t ast.Type, depth int) ast.Type {
	if depth > maxResolveDepth {
		return t
	}

	switch x := t.(type) {
	case *ast.NamedType:
		// Follow the alias name chain iteratively; chains can be long
		// and must not consume call stack.
		name := x.Name
		span := x.Span
		for {
			entry, ok := env.aliases[name]
			if !ok || entry.kind == entryConcrete {
				if name == x.Name {
					return x
				}
				return &ast.NamedType{Span: span, Name: name}
			}
			next, isName := entry.target.(*ast.NamedType)
			if !isName {
				return env.resolveType(entry.target, depth+1)
			}
			name = next.Name
		}
	case *ast.PointerType:
		return &ast.PointerType{Span: x.Span, Inner: env.resolveType(x.Inner, depth+1), Mutable: x.Mutable}
	case *ast.ReferenceType:
		return &ast.ReferenceType{Span: x.Span, Inner: env.resolveType(x.Inner, depth+1), Mutable: x.Mutable}
	case *ast.ArrayType:
		return &ast.ArrayType{Span: x.Span, Inner: env.resolveType(x.Inner, depth+1), Size: x.Size}
	case *ast.SliceType:
		return &ast.SliceType{Span: x.Span, Inner: env.resolveType(x.Inner, depth+1)}
	case *ast.TupleType:
		elements := make([]ast.Type, len(x.Elements))
		for i, el := range x.Elements {
			elements[i] = env.resolveType(el, depth+1)
		}
		return &ast.TupleType{Span: x.Span, Elements: elements}
	case *ast.GenericType:
		args := make([]ast.Type, len(x.Args))
		for i, arg := range x.Args {
			args[i] = env.resolveType(arg, depth+1)
		}
		return &ast.GenericType{Span: x.Span, Base: x.Base, Args: args}
	case *ast.FunctionType:
		params := make([]ast.Type, len(x.Params))
		for i, pt := range x.Params {
			params[i] = env.resolveType(pt, depth+1)
		}
		return &ast.FunctionType{Span: x.Span, Params: params, Return: env.resolveType(x.Return, depth+1)}
	case *ast.FallibleType:
		return &ast.FallibleType{Span: x.Span, Inner: env.resolveType(x.Inner, depth+1)}
	default:
		// Primitive and Auto types resolve to themselves.
		return t
	}
}

// IsCompatible resolves both types and compares them structurally.
// Pointer and reference compatibility requires matching mutability and
// compatible inner types; generics require an equal base and pairwise
// compatible arguments. Auto is compatible with anything (it stands for
// a type still to be inferred). The relation is symmetric.
func (env *TypeEnvironment) IsCompatible(t1, t2 ast.Type) bool {
	return compatible(env.ResolveType(t1), env.ResolveType(t2))
}

func compatible(a, b ast.Type) bool {
	if _, isAuto := a.(*ast.AutoType); isAuto {
		return true
	}
	if _, isAuto := b.(*ast.AutoType); isAuto {
		return true
	}

	switch x := a.(type) {
	case *ast.PrimitiveType:
		y, ok := b.(*ast.PrimitiveType)
		return ok && x.Kind == y.Kind
	case *ast.NamedType:
		y, ok := b.(*ast.NamedType)
		return ok && x.Name == y.Name
	case *ast.PointerType:
		y, ok := b.(*ast.PointerType)
		return ok && x.Mutable == y.Mutable && compatible(x.Inner, y.Inner)
	case *ast.ReferenceType:
		y, ok := b.(*ast.ReferenceType)
		return ok && x.Mutable == y.Mutable && compatible(x.Inner, y.Inner)
	case *ast.ArrayType:
		y, ok := b.(*ast.ArrayType)
		return ok && x.Size == y.Size && compatible(x.Inner, y.Inner)
	case *ast.SliceType:
		y, ok := b.(*ast.SliceType)
		return ok && compatible(x.Inner, y.Inner)
	case *ast.TupleType:
		y, ok := b.(*ast.TupleType)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !compatible(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *ast.GenericType:
		y, ok := b.(*ast.GenericType)
		if !ok || x.Base != y.Base || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !compatible(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *ast.FunctionType:
		y, ok := b.(*ast.FunctionType)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !compatible(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return compatible(x.Return, y.Return)
	case *ast.FallibleType:
		y, ok := b.(*ast.FallibleType)
		return ok && compatible(x.Inner, y.Inner)
	default:
		return false
	}
}

// HasCircularReference walks the alias chain reachable from t using an
// explicit stack. A cycle is a re-encounter of a name already on the
// current chain; visited entries are removed on the way back out, so the
// same alias may appear in independent, non-cyclic branches.
func (env *TypeEnvironment) HasCircularReference(t ast.Type, visited map[string]bool) bool {
	type frame struct {
		t      ast.Type
		unmark string // when set, pop removes the name instead of visiting
	}
	stack := []frame{{t: t}}

	push := func(types ...ast.Type) {
		for _, inner := range types {
			stack = append(stack, frame{t: inner})
		}
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.unmark != "" {
			delete(visited, f.unmark)
			continue
		}

		switch x := f.t.(type) {
		case *ast.NamedType:
			if visited[x.Name] {
				return true
			}
			entry, ok := env.aliases[x.Name]
			if !ok || entry.kind == entryConcrete {
				continue
			}
			visited[x.Name] = true
			stack = append(stack, frame{unmark: x.Name})
			push(entry.target)
		case *ast.PointerType:
			push(x.Inner)
		case *ast.ReferenceType:
			push(x.Inner)
		case *ast.ArrayType:
			push(x.Inner)
		case *ast.SliceType:
			push(x.Inner)
		case *ast.TupleType:
			push(x.Elements...)
		case *ast.GenericType:
			push(x.Args...)
		case *ast.FunctionType:
			push(x.Params...)
			push(x.Return)
		case *ast.FallibleType:
			push(x.Inner)
		}
	}
	return false
}
