// Package diagnostic renders transpiler errors for humans. Every
// user-visible failure carries a source span and a message; rendering is
// deterministic (diagnostics sort by span before printing).
package diagnostic

import (
	"fmt"
	"io"
	"sort"

	"github.com/cinder-lang/cinder/internal/position"
)

// Severity of a diagnostic message.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Diagnostic is a single message anchored to a source span.
type Diagnostic struct {
	Span     position.Span
	Severity Severity
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Severity, d.Message)
}

// List is a collection of diagnostics for one unit.
type List []Diagnostic

// HasErrors reports whether any diagnostic is an error.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by span start, then severity.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Span.Start.Offset != l[j].Span.Start.Offset {
			return l[i].Span.Start.Before(l[j].Span.Start)
		}
		return l[i].Severity < l[j].Severity
	})
}

// Printer writes diagnostics to an output stream, optionally with ANSI
// color when the stream is a terminal.
type Printer struct {
	Out   io.Writer
	Color bool
}

// NewPrinter creates a printer for w, enabling color when w is a
// terminal that supports it.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{Out: w, Color: isTerminal(w)}
}

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiBold   = "\x1b[1m"
	ansiReset  = "\x1b[0m"
)

// Print renders the full sorted list.
func (p *Printer) Print(list List) {
	list.Sort()
	for _, d := range list {
		p.printOne(d)
	}
}

func (p *Printer) printOne(d Diagnostic) {
	if !p.Color {
		fmt.Fprintf(p.Out, "%s: %s: %s\n", d.Span, d.Severity, d.Message)
		return
	}
	color := ansiCyan
	switch d.Severity {
	case SeverityError:
		color = ansiRed
	case SeverityWarning:
		color = ansiYellow
	}
	fmt.Fprintf(p.Out, "%s%s:%s %s%s%s: %s\n",
		ansiBold, d.Span, ansiReset, color, d.Severity, ansiReset, d.Message)
}
