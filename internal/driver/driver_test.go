package driver

import (
	"strings"
	"testing"
)

func TestTranspileCleanUnit(t *testing.T) {
	source := `
typedef int A;
typedef A B;
int f(B x) { return x; }
`
	result, err := TranspileUnit(source, "unit.cn")
	if err != nil {
		t.Fatalf("unexpected internal error: %v", err)
	}
	if !result.Ok() {
		t.Fatalf("unexpected diagnostics: %v", result.Diagnostics)
	}
	if !strings.Contains(result.Output, "pub fn f(x: i32) -> i32 {") {
		t.Fatalf("alias chain not resolved in output:\n%s", result.Output)
	}
}

// A parse error is fail-fast: exactly one diagnostic and no output.
func TestTranspileParseError(t *testing.T) {
	result, err := TranspileUnit("void f( {", "bad.cn")
	if err != nil {
		t.Fatalf("parse errors are diagnostics, not errors: %v", err)
	}
	if result.Ok() {
		t.Fatal("expected diagnostics")
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("parse errors are fail-fast, got %d diagnostics", len(result.Diagnostics))
	}
	if result.Output != "" {
		t.Fatal("no output may be produced for a failing unit")
	}
}

// Semantic errors accumulate and disqualify the unit from code
// generation.
func TestTranspileSemanticErrors(t *testing.T) {
	source := `
Missing f() { return 0; }
Gone g() { return 0; }
`
	result, err := TranspileUnit(source, "bad.cn")
	if err != nil {
		t.Fatalf("semantic errors are diagnostics, not errors: %v", err)
	}
	if len(result.Diagnostics) < 2 {
		t.Fatalf("expected accumulated diagnostics, got %v", result.Diagnostics)
	}
	if result.Output != "" {
		t.Fatal("no partial output may be produced for a failing unit")
	}
}

func TestDiagnosticCarriesPosition(t *testing.T) {
	result, _ := TranspileUnit("void f() {\n\tbad syntax here\n}", "pos.cn")
	if result.Ok() {
		t.Fatal("expected a diagnostic")
	}
	d := result.Diagnostics[0]
	if d.Span.Start.Line != 2 {
		t.Fatalf("diagnostic line = %d, want 2", d.Span.Start.Line)
	}
	if !strings.Contains(d.Message, "expected") {
		t.Fatalf("parse diagnostic message wrong: %q", d.Message)
	}
}
