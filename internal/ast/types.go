package ast

import (
	"fmt"

	"github.com/cinder-lang/cinder/internal/position"
)

// PrimitiveKind enumerates the fixed primitive type keywords.
type PrimitiveKind int

const (
	PrimInt PrimitiveKind = iota
	PrimUint
	PrimLong
	PrimUlong
	PrimShort
	PrimByte
	PrimFloat
	PrimDouble
	PrimBool
	PrimChar
	PrimString
	PrimVoid
)

var primitiveNames = map[PrimitiveKind]string{
	PrimInt:    "int",
	PrimUint:   "uint",
	PrimLong:   "long",
	PrimUlong:  "ulong",
	PrimShort:  "short",
	PrimByte:   "byte",
	PrimFloat:  "float",
	PrimDouble: "double",
	PrimBool:   "bool",
	PrimChar:   "char",
	PrimString: "string",
	PrimVoid:   "void",
}

func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}
	return fmt.Sprintf("primitive(%d)", int(k))
}

// PrimitiveType is a built-in scalar type.
type PrimitiveType struct {
	Span position.Span
	Kind PrimitiveKind
}

func (t *PrimitiveType) GetSpan() position.Span { return t.Span }
func (t *PrimitiveType) String() string         { return t.Kind.String() }
func (t *PrimitiveType) typeNode()              {}

// NamedType is a user-defined name; it may be a typedef alias or a
// concrete struct/enum name. Which one it is is a semantic question the
// parser never asks.
type NamedType struct {
	Span position.Span
	Name string
}

func (t *NamedType) GetSpan() position.Span { return t.Span }
func (t *NamedType) String() string         { return t.Name }
func (t *NamedType) typeNode()              {}

// PointerType is a raw pointer, `*T` or `*mut T`.
type PointerType struct {
	Span    position.Span
	Inner   Type
	Mutable bool
}

func (t *PointerType) GetSpan() position.Span { return t.Span }
func (t *PointerType) String() string {
	if t.Mutable {
		return "*mut " + t.Inner.String()
	}
	return "*" + t.Inner.String()
}
func (t *PointerType) typeNode() {}

// ReferenceType is a borrowed reference, `&T` or `&mut T`.
type ReferenceType struct {
	Span    position.Span
	Inner   Type
	Mutable bool
}

func (t *ReferenceType) GetSpan() position.Span { return t.Span }
func (t *ReferenceType) String() string {
	if t.Mutable {
		return "&mut " + t.Inner.String()
	}
	return "&" + t.Inner.String()
}
func (t *ReferenceType) typeNode() {}

// ArrayType is a fixed-size array, `T[N]`.
type ArrayType struct {
	Span  position.Span
	Inner Type
	Size  int64
}

func (t *ArrayType) GetSpan() position.Span { return t.Span }
func (t *ArrayType) String() string         { return fmt.Sprintf("%s[%d]", t.Inner, t.Size) }
func (t *ArrayType) typeNode()              {}

// SliceType is an unsized view, `T[]`.
type SliceType struct {
	Span  position.Span
	Inner Type
}

func (t *SliceType) GetSpan() position.Span { return t.Span }
func (t *SliceType) String() string         { return t.Inner.String() + "[]" }
func (t *SliceType) typeNode()              {}

// TupleType is `(T1, T2, ...)`; never a single element.
type TupleType struct {
	Span     position.Span
	Elements []Type
}

func (t *TupleType) GetSpan() position.Span { return t.Span }
func (t *TupleType) String() string         { return "(" + joinStrings(t.Elements, ", ") + ")" }
func (t *TupleType) typeNode()              {}

// GenericType is an instantiated generic, `Base<Args...>`.
type GenericType struct {
	Span position.Span
	Base string
	Args []Type
}

func (t *GenericType) GetSpan() position.Span { return t.Span }
func (t *GenericType) String() string         { return t.Base + "<" + joinStrings(t.Args, ", ") + ">" }
func (t *GenericType) typeNode()              {}

// FunctionType is `fn(P...) -> R`.
type FunctionType struct {
	Span   position.Span
	Params []Type
	Return Type
}

func (t *FunctionType) GetSpan() position.Span { return t.Span }
func (t *FunctionType) String() string {
	return "fn(" + joinStrings(t.Params, ", ") + ") -> " + t.Return.String()
}
func (t *FunctionType) typeNode() {}

// FallibleType wraps a value-or-error result, `T?`.
type FallibleType struct {
	Span  position.Span
	Inner Type
}

func (t *FallibleType) GetSpan() position.Span { return t.Span }
func (t *FallibleType) String() string         { return t.Inner.String() + "?" }
func (t *FallibleType) typeNode()              {}

// AutoType marks an inferred binding type (`let x = e;`).
type AutoType struct {
	Span position.Span
}

func (t *AutoType) GetSpan() position.Span { return t.Span }
func (t *AutoType) String() string         { return "auto" }
func (t *AutoType) typeNode()              {}

// TypesEqual reports structural equality of two type expressions.
// Spans are ignored; only shape and names matter.
func TypesEqual(a, b Type) bool {
	switch x := a.(type) {
	case *PrimitiveType:
		y, ok := b.(*PrimitiveType)
		return ok && x.Kind == y.Kind
	case *NamedType:
		y, ok := b.(*NamedType)
		return ok && x.Name == y.Name
	case *PointerType:
		y, ok := b.(*PointerType)
		return ok && x.Mutable == y.Mutable && TypesEqual(x.Inner, y.Inner)
	case *ReferenceType:
		y, ok := b.(*ReferenceType)
		return ok && x.Mutable == y.Mutable && TypesEqual(x.Inner, y.Inner)
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && x.Size == y.Size && TypesEqual(x.Inner, y.Inner)
	case *SliceType:
		y, ok := b.(*SliceType)
		return ok && TypesEqual(x.Inner, y.Inner)
	case *TupleType:
		y, ok := b.(*TupleType)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !TypesEqual(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *GenericType:
		y, ok := b.(*GenericType)
		if !ok || x.Base != y.Base || len(x.Args) != len(y.Args) {
			return false
		}
		for i := range x.Args {
			if !TypesEqual(x.Args[i], y.Args[i]) {
				return false
			}
		}
		return true
	case *FunctionType:
		y, ok := b.(*FunctionType)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !TypesEqual(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return TypesEqual(x.Return, y.Return)
	case *FallibleType:
		y, ok := b.(*FallibleType)
		return ok && TypesEqual(x.Inner, y.Inner)
	case *AutoType:
		_, ok := b.(*AutoType)
		return ok
	default:
		return false
	}
}
