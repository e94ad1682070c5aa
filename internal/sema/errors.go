// Package sema implements the Cinder semantic analyzer: the per-unit
// type environment (alias and symbol tables), type resolution and
// compatibility, alias cycle rejection, and closure capture
// classification. Errors are accumulated so one pass surfaces as many
// diagnostics as possible; any error at all disqualifies the unit from
// code generation.
package sema

import (
	"fmt"

	"github.com/cinder-lang/cinder/internal/position"
)

// ErrorKind classifies a semantic error.
type ErrorKind int

const (
	UndefinedType ErrorKind = iota
	TypeMismatch
	CircularTypeAlias
	CaptureViolation
	VisibilityError
)

func (k ErrorKind) String() string {
	switch k {
	case UndefinedType:
		return "undefined type"
	case TypeMismatch:
		return "type mismatch"
	case CircularTypeAlias:
		return "circular type alias"
	case CaptureViolation:
		return "capture violation"
	case VisibilityError:
		return "visibility error"
	default:
		return "semantic error"
	}
}

// SemanticError is one accumulated analysis diagnostic.
type SemanticError struct {
	Span    position.Span
	Kind    ErrorKind
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Kind, e.Message)
}

func (a *Analyzer) errorf(span position.Span, kind ErrorKind, format string, args ...any) {
	a.errors = append(a.errors, &SemanticError{
		Span:    span,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}
