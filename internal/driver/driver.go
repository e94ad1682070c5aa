// Package driver orchestrates the per-unit pipeline: source text in,
// host text or diagnostics out. Each unit gets a fresh parser, analyzer,
// and type environment; nothing is shared between units, so independent
// units can be driven in parallel by a caller.
package driver

import (
	"github.com/cinder-lang/cinder/internal/codegen"
	"github.com/cinder-lang/cinder/internal/diagnostic"
	"github.com/cinder-lang/cinder/internal/lexer"
	"github.com/cinder-lang/cinder/internal/parser"
	"github.com/cinder-lang/cinder/internal/sema"
)

// Result of transpiling one compilation unit. Output is empty whenever
// Diagnostics contains an error; partial output is never produced.
type Result struct {
	UnitName    string
	Output      string
	Diagnostics diagnostic.List
}

// Ok reports whether the unit transpiled cleanly.
func (r *Result) Ok() bool { return !r.Diagnostics.HasErrors() }

// TranspileUnit runs the full pipeline over one unit. The returned error
// is reserved for internal contract violations (a construct semantic
// analysis accepted but codegen cannot express); user mistakes surface
// as diagnostics.
func TranspileUnit(source, unitName string) (*Result, error) {
	result := &Result{UnitName: unitName}

	l := lexer.New(source, unitName)
	p := parser.New(l, unitName)

	unit, err := p.ParseUnit()
	if err != nil {
		// Parsing is fail-fast: one error per unit.
		pe := err.(*parser.ParseError)
		result.Diagnostics = append(result.Diagnostics, diagnostic.Diagnostic{
			Span:     pe.Span,
			Severity: diagnostic.SeverityError,
			Message:  "expected " + pe.Expected + ", found " + pe.Found,
		})
		return result, nil
	}

	env, semErrs := sema.NewAnalyzer().Analyze(unit)
	for _, se := range semErrs {
		result.Diagnostics = append(result.Diagnostics, diagnostic.Diagnostic{
			Span:     se.Span,
			Severity: diagnostic.SeverityError,
			Message:  se.Kind.String() + ": " + se.Message,
		})
	}
	if len(semErrs) > 0 {
		// Any semantic error disqualifies the unit from code generation.
		return result, nil
	}

	output, err := codegen.Generate(unit, env)
	if err != nil {
		return nil, err
	}
	result.Output = output
	return result, nil
}
