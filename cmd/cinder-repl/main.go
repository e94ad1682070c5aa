// Package main provides an interactive Cinder-to-Rust REPL. Each line is
// transpiled and the generated Rust is printed; declarations accumulate
// across lines so later input can refer to them.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/cinder-lang/cinder/internal/ast"
	"github.com/cinder-lang/cinder/internal/cli"
	"github.com/cinder-lang/cinder/internal/driver"
	"github.com/cinder-lang/cinder/internal/lexer"
	"github.com/cinder-lang/cinder/internal/parser"
	"github.com/cinder-lang/cinder/internal/sema"
)

const historyFile = ".cinder_repl_history"

func main() {
	showVersion := flag.Bool("version", false, "show version information")
	flag.Parse()

	if *showVersion {
		cli.PrintVersion("cinder-repl", false)
		return
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("cinder-repl v%s (:help for commands)\n", cli.Version)

	session := newSession()
	for {
		input, err := line.Prompt("cinder> ")
		if err != nil {
			// Ctrl-C or Ctrl-D ends the session.
			fmt.Println()
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if session.command(input) {
				break
			}
			continue
		}
		session.eval(input)
	}

	if f, err := os.Create(histPath); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

// session accumulates top-level declarations entered so far.
type session struct {
	items []string
	out   io.Writer
}

func newSession() *session { return &session{out: os.Stdout} }

// command handles a `:` directive. It returns true when the REPL should
// exit.
func (s *session) command(input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":clear":
		s.items = nil
		fmt.Fprintln(s.out, "declarations cleared")
	case ":list":
		for _, it := range s.items {
			fmt.Fprintln(s.out, it)
		}
	case ":type":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "usage: :type <name>")
			break
		}
		s.showType(fields[1])
	case ":help":
		fmt.Fprintln(s.out, ":quit          exit the REPL")
		fmt.Fprintln(s.out, ":clear         forget accumulated declarations")
		fmt.Fprintln(s.out, ":list          show accumulated declarations")
		fmt.Fprintln(s.out, ":type <name>   show the type behind a declared name")
	default:
		fmt.Fprintf(s.out, "unknown command %q (:help for commands)\n", input)
	}
	return false
}

// showType analyzes the accumulated declarations and prints what name
// resolves to: the signature or variable type for a symbol, the resolved
// target for a type name.
func (s *session) showType(name string) {
	prelude := strings.Join(s.items, "\n")
	unit, err := parser.New(lexer.New(prelude, "repl"), "repl").ParseUnit()
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
		return
	}
	env, _ := sema.NewAnalyzer().Analyze(unit)

	if sym, ok := env.LookupSymbol(name); ok {
		fmt.Fprintf(s.out, "%s: %s\n", name, sym.Type)
		return
	}
	if env.HasTypeName(name) {
		resolved := env.ResolveType(&ast.NamedType{Name: name})
		fmt.Fprintf(s.out, "%s = %s\n", name, resolved)
		return
	}
	fmt.Fprintf(s.out, "%s is not declared\n", name)
}

// eval transpiles one line of input. Input is first tried as top-level
// declarations; if that does not parse, it is retried as a statement
// wrapped in a function body.
func (s *session) eval(input string) {
	prelude := strings.Join(s.items, "\n")

	if result := s.try(prelude + "\n" + input); result != nil {
		s.items = append(s.items, input)
		fmt.Print(result.Output)
		return
	}

	stmt := input
	if !strings.HasSuffix(stmt, ";") && !strings.HasSuffix(stmt, "}") {
		stmt += ";"
	}
	wrapped := prelude + "\nvoid cinder_repl() {\n" + stmt + "\n}"

	result, err := driver.TranspileUnit(wrapped, "repl")
	if err != nil {
		fmt.Fprintf(os.Stderr, "internal error: %v\n", err)
		return
	}
	if !result.Ok() {
		for _, d := range result.Diagnostics {
			fmt.Fprintf(os.Stderr, "error: %s\n", d.Message)
		}
		return
	}
	fmt.Print(result.Output)
}

// try transpiles source and returns the result only on clean success.
func (s *session) try(source string) *driver.Result {
	result, err := driver.TranspileUnit(source, "repl")
	if err != nil || !result.Ok() {
		return nil
	}
	return result
}
