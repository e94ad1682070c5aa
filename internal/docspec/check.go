package docspec

import (
	"fmt"

	"github.com/cinder-lang/cinder/internal/driver"
)

// Failure describes one snippet that did not transpile.
type Failure struct {
	Snippet  Snippet
	Messages []string
}

// Check runs every Cinder snippet in a Markdown document through the
// transpiler and collects the ones that fail. docName is used as the
// unit name in diagnostics.
func Check(markdown []byte, docName string) ([]Failure, error) {
	snippets, err := Extract(markdown)
	if err != nil {
		return nil, err
	}

	var failures []Failure
	for _, sn := range snippets {
		unitName := fmt.Sprintf("%s:%d", docName, sn.Line)
		result, err := driver.TranspileUnit(sn.Source, unitName)
		if err != nil {
			return nil, fmt.Errorf("snippet %q: %w", sn.Name, err)
		}
		if result.Ok() {
			continue
		}
		f := Failure{Snippet: sn}
		for _, d := range result.Diagnostics {
			f.Messages = append(f.Messages, d.Message)
		}
		failures = append(failures, f)
	}
	return failures, nil
}
