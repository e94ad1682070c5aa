package docspec

import (
	"testing"

	"github.com/nalgeon/be"
)

const sampleDoc = `# Tour

Intro prose.

## Declarations

` + "```cinder\nint x = 5;\n```" + `

Some go code that must be skipped:

` + "```go\npackage main\n```" + `

## Functions

` + "```cinder\nint add(int a, int b) { return a + b; }\n```" + `
`

func TestExtract(t *testing.T) {
	snippets, err := Extract([]byte(sampleDoc))
	be.Err(t, err, nil)
	be.Equal(t, len(snippets), 2)

	be.Equal(t, snippets[0].Name, "Declarations")
	be.Equal(t, snippets[0].Source, "int x = 5;\n")

	be.Equal(t, snippets[1].Name, "Functions")
	be.Equal(t, snippets[1].Source, "int add(int a, int b) { return a + b; }\n")
}

func TestExtractLineNumbers(t *testing.T) {
	snippets, err := Extract([]byte(sampleDoc))
	be.Err(t, err, nil)

	// The first fence content sits on line 8 of the document.
	be.Equal(t, snippets[0].Line, 8)
	be.True(t, snippets[1].Line > snippets[0].Line)
}

func TestExtractUnnamedSnippet(t *testing.T) {
	doc := "```cinder\nvoid f() { }\n```\n"
	snippets, err := Extract([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(snippets), 1)
	be.Equal(t, snippets[0].Name, "example 1")
}

func TestCheckReportsFailingSnippets(t *testing.T) {
	doc := "## Good\n\n```cinder\nint x() { return 1; }\n```\n\n## Bad\n\n```cinder\nMissing f() { return 0; }\n```\n"

	failures, err := Check([]byte(doc), "doc.md")
	be.Err(t, err, nil)
	be.Equal(t, len(failures), 1)
	be.Equal(t, failures[0].Snippet.Name, "Bad")
	be.True(t, len(failures[0].Messages) > 0)
}

func TestCheckCleanDocument(t *testing.T) {
	doc := "```cinder\nvoid nop() { }\n```\n"
	failures, err := Check([]byte(doc), "doc.md")
	be.Err(t, err, nil)
	be.Equal(t, len(failures), 0)
}
