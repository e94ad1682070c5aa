package parser

import (
	"testing"

	"github.com/cinder-lang/cinder/internal/ast"
	"github.com/cinder-lang/cinder/internal/lexer"
)

// Formatting a parsed unit and parsing the result must reproduce an
// equivalent tree: every ambiguity the first parse decided has to come
// out of the text the same way the second time.
func TestFormatReparseRoundTrip(t *testing.T) {
	tests := []string{
		`typedef int UserId;
typedef UserId Key;
static typedef (*int)[] PtrRows;`,

		`struct Point {
	int x;
	int y;
	Vec<Vec<int>> history;
}`,

		`enum Shape {
	Circle(float),
	Rect(float, float),
	Empty,
}`,

		`impl Point {
	int sum(Point p) { return p.x + p.y; }
	static int zero() { return 0; }
}`,

		`extern { fn libc_abort(); }`,

		`void casts(int x, MyAlias v) {
	int a = (int)(x);
	int b = (int)-x;
	int c = (MyAlias)(v) + 1;
	int d = (v) - 1;
	let pair = (x, a);
	let grouped = (x + a) * 2;
}`,

		`int? fallible(string s) {
	int n = parse(s)?;
	int m = (parse(s)?) - 1;
	return n > 0 ? n : m;
}`,

		`void bindings() {
	int x = 5;
	let y = x;
	let mut z = 0;
	let mut long w = 9;
	z = x, w = z;
}`,

		`void control(int n) {
	for (int i = 0; i < n; ++i) {
		if (i == 0) {
			continue;
		} else if (i == 1) {
			__println__("one: {}", i);
		} else {
			break;
		}
	}
	while (n > 0) {
		n = n - 1;
	}
}`,

		`void nesting(int seed) {
	int bump(int v) {
		return v + seed;
	}
	int r = bump(1);
	let msg = "done:\n\t\"ok\"";
	let mark = '\n';
	@Point.origin();
	xs[0].field = ~r;
}`,
	}

	for i, src := range tests {
		first, err := New(lexer.New(src, "a.cn"), "a.cn").ParseUnit()
		if err != nil {
			t.Fatalf("tests[%d] - initial parse failed: %v", i, err)
		}
		printed := ast.Format(first)
		second, err := New(lexer.New(printed, "a.cn"), "a.cn").ParseUnit()
		if err != nil {
			t.Fatalf("tests[%d] - reparse failed: %v\nformatted:\n%s", i, err, printed)
		}
		if !ast.Equivalent(first, second) {
			t.Errorf("tests[%d] - reparsed tree differs\nformatted:\n%s", i, printed)
		}
		// Formatting the reparsed tree must also be a fixed point.
		if again := ast.Format(second); again != printed {
			t.Errorf("tests[%d] - format not stable\nfirst:\n%s\nsecond:\n%s", i, printed, again)
		}
	}
}
