package ast

import "testing"

func TestTypesEqual(t *testing.T) {
	intType := &PrimitiveType{Kind: PrimInt}
	longType := &PrimitiveType{Kind: PrimLong}

	tests := []struct {
		a, b Type
		want bool
	}{
		{intType, &PrimitiveType{Kind: PrimInt}, true},
		{intType, longType, false},
		{&NamedType{Name: "A"}, &NamedType{Name: "A"}, true},
		{&NamedType{Name: "A"}, &NamedType{Name: "B"}, false},
		{&PointerType{Inner: intType}, &PointerType{Inner: intType}, true},
		{&PointerType{Inner: intType}, &PointerType{Inner: intType, Mutable: true}, false},
		{&ArrayType{Inner: intType, Size: 3}, &ArrayType{Inner: intType, Size: 3}, true},
		{&ArrayType{Inner: intType, Size: 3}, &ArrayType{Inner: intType, Size: 4}, false},
		{&SliceType{Inner: intType}, &ArrayType{Inner: intType, Size: 3}, false},
		{
			&TupleType{Elements: []Type{intType, longType}},
			&TupleType{Elements: []Type{intType, longType}},
			true,
		},
		{
			&GenericType{Base: "Vec", Args: []Type{intType}},
			&GenericType{Base: "Vec", Args: []Type{longType}},
			false,
		},
		{&FallibleType{Inner: intType}, &FallibleType{Inner: intType}, true},
		{&AutoType{}, &AutoType{}, true},
	}

	for i, tt := range tests {
		if got := TypesEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("tests[%d]: TypesEqual(%s, %s) = %v, want %v", i, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCaptureInfoRecordUpgradesOnly(t *testing.T) {
	info := NewCaptureInfo()

	info.Record("x", CaptureReadOnly)
	info.Record("x", CaptureMutable)
	if info.Modes["x"] != CaptureMutable {
		t.Fatal("ReadOnly must upgrade to Mutable")
	}

	info.Record("x", CaptureMove)
	if info.Modes["x"] != CaptureMove {
		t.Fatal("Mutable must upgrade to Move")
	}

	info.Record("x", CaptureReadOnly)
	if info.Modes["x"] != CaptureMove {
		t.Fatal("Move must never downgrade")
	}

	if len(info.Order) != 1 {
		t.Fatalf("order = %v, want one entry", info.Order)
	}
}
