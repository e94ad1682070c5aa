package diagnostic

import (
	"strings"
	"testing"

	"github.com/cinder-lang/cinder/internal/position"
)

func at(offset, line int) position.Span {
	return position.Span{
		Start: position.Position{Filename: "t.cn", Line: line, Column: 1, Offset: offset},
		End:   position.Position{Filename: "t.cn", Line: line, Column: 2, Offset: offset + 1},
	}
}

func TestListHasErrors(t *testing.T) {
	var list List
	if list.HasErrors() {
		t.Fatal("empty list reports errors")
	}

	list = append(list, Diagnostic{Span: at(0, 1), Severity: SeverityWarning, Message: "w"})
	if list.HasErrors() {
		t.Fatal("warnings alone must not count as errors")
	}

	list = append(list, Diagnostic{Span: at(5, 2), Severity: SeverityError, Message: "e"})
	if !list.HasErrors() {
		t.Fatal("error not detected")
	}
}

func TestListSortBySpan(t *testing.T) {
	list := List{
		{Span: at(40, 4), Severity: SeverityError, Message: "later"},
		{Span: at(10, 2), Severity: SeverityError, Message: "earlier"},
		{Span: at(10, 2), Severity: SeverityWarning, Message: "same spot, softer"},
	}
	list.Sort()

	if list[0].Message != "earlier" {
		t.Fatalf("sort order wrong: %v", list)
	}
	if list[2].Message != "later" {
		t.Fatalf("sort order wrong: %v", list)
	}
}

func TestPrinterPlainOutput(t *testing.T) {
	var sb strings.Builder
	p := &Printer{Out: &sb}

	p.Print(List{
		{Span: at(0, 3), Severity: SeverityError, Message: "something broke"},
	})

	out := sb.String()
	if !strings.Contains(out, "t.cn:3:1") {
		t.Fatalf("output missing location: %q", out)
	}
	if !strings.Contains(out, "error") || !strings.Contains(out, "something broke") {
		t.Fatalf("output missing severity or message: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("color escapes emitted without Color set: %q", out)
	}
}

func TestPrinterColorOutput(t *testing.T) {
	var sb strings.Builder
	p := &Printer{Out: &sb, Color: true}

	p.Print(List{
		{Span: at(0, 1), Severity: SeverityError, Message: "boom"},
	})

	if !strings.Contains(sb.String(), "\x1b[") {
		t.Fatalf("expected color escapes: %q", sb.String())
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityNote, "note"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}
