package position

import "testing"

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{Filename: "a.cn", Line: 3, Column: 7, Offset: 20}, "a.cn:3:7"},
		{Position{Filename: "dir/b.cn", Line: 1, Column: 1, Offset: 0}, "b.cn:1:1"},
		{Position{Line: 2, Column: 5, Offset: 9}, "2:5"},
	}

	for i, tt := range tests {
		if got := tt.pos.String(); got != tt.want {
			t.Errorf("tests[%d]: String() = %q, want %q", i, got, tt.want)
		}
	}
}

func TestPositionAdvance(t *testing.T) {
	p := Position{Filename: "a.cn", Line: 1, Column: 1, Offset: 0}

	p = p.Advance('x', 1)
	if p.Line != 1 || p.Column != 2 || p.Offset != 1 {
		t.Fatalf("after rune: %+v", p)
	}

	p = p.Advance('\n', 1)
	if p.Line != 2 || p.Column != 1 || p.Offset != 2 {
		t.Fatalf("after newline: %+v", p)
	}

	// Multi-byte runes advance the offset by their encoded size.
	p = p.Advance('é', 2)
	if p.Column != 2 || p.Offset != 4 {
		t.Fatalf("after multi-byte rune: %+v", p)
	}
}

func TestSpanContains(t *testing.T) {
	span := NewSpan(
		Position{Filename: "a.cn", Line: 1, Column: 1, Offset: 0},
		Position{Filename: "a.cn", Line: 1, Column: 6, Offset: 5},
	)

	inside := Position{Filename: "a.cn", Line: 1, Column: 3, Offset: 2}
	if !span.Contains(inside) {
		t.Fatal("position inside span not contained")
	}

	atEnd := Position{Filename: "a.cn", Line: 1, Column: 6, Offset: 5}
	if span.Contains(atEnd) {
		t.Fatal("end position is exclusive")
	}

	otherFile := Position{Filename: "b.cn", Line: 1, Column: 3, Offset: 2}
	if span.Contains(otherFile) {
		t.Fatal("position in another file contained")
	}
}

func TestSpanUnion(t *testing.T) {
	a := NewSpan(
		Position{Filename: "a.cn", Line: 1, Column: 1, Offset: 0},
		Position{Filename: "a.cn", Line: 1, Column: 4, Offset: 3},
	)
	b := NewSpan(
		Position{Filename: "a.cn", Line: 2, Column: 1, Offset: 10},
		Position{Filename: "a.cn", Line: 2, Column: 5, Offset: 14},
	)

	u := a.Union(b)
	if u.Start.Offset != 0 || u.End.Offset != 14 {
		t.Fatalf("union wrong: %s", u)
	}

	// Union with an invalid span is the valid operand.
	if got := a.Union(Span{}); got != a {
		t.Fatalf("union with invalid span = %s, want %s", got, a)
	}
}
