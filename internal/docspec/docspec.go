// Package docspec extracts Cinder snippets from Markdown documentation
// so `cinderc doctest` can verify that every documented example still
// transpiles. A snippet is a fenced code block with the `cinder` info
// string; the nearest preceding heading names it.
package docspec

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// fenceLanguage marks extractable code fences.
const fenceLanguage = "cinder"

// Snippet is one documented Cinder example.
type Snippet struct {
	Name   string // nearest preceding heading, or "example N"
	Source string // fence content
	Line   int    // 1-based line of the fence in the document
}

// Extract parses a Markdown document and returns all Cinder snippets in
// document order.
func Extract(markdown []byte) ([]Snippet, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(markdown))

	var snippets []Snippet
	heading := ""

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading = headingText(n, markdown)
		case *ast.FencedCodeBlock:
			if string(n.Language(markdown)) != fenceLanguage {
				return ast.WalkContinue, nil
			}
			name := heading
			if name == "" {
				name = fmt.Sprintf("example %d", len(snippets)+1)
			}
			snippets = append(snippets, Snippet{
				Name:   name,
				Source: fenceContent(n, markdown),
				Line:   lineNumber(n, markdown),
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return snippets, nil
}

func headingText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		segment := block.Lines().At(i)
		buf.Write(segment.Value(source))
	}
	return buf.String()
}

func lineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	line := 1
	for i := 0; i < start && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}
