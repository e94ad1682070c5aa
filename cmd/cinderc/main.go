// Package main provides the entry point for the Cinder transpiler.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cinder-lang/cinder/internal/cli"
	"github.com/cinder-lang/cinder/internal/diagnostic"
	"github.com/cinder-lang/cinder/internal/docspec"
	"github.com/cinder-lang/cinder/internal/driver"
	"github.com/cinder-lang/cinder/internal/project"
	"github.com/cinder-lang/cinder/internal/watch"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		jsonVersion = flag.Bool("json", false, "print version information as JSON")
		showHelp    = flag.Bool("help", false, "show help information")
		outPath     = flag.String("o", "", "output file (single-file mode only)")
		watchMode   = flag.Bool("watch", false, "retranspile when source files change")
	)

	flag.Parse()

	if *showVersion {
		cli.PrintVersion("cinderc", *jsonVersion)
		return
	}
	if *showHelp {
		showUsage()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("Error: no input specified")
		showUsage()
		os.Exit(1)
	}

	if args[0] == "doctest" {
		if len(args) < 2 {
			cli.ExitWithError("doctest requires a Markdown file")
		}
		if err := runDoctest(args[1]); err != nil {
			cli.ExitWithError("%v", err)
		}
		return
	}

	input := args[0]
	var run func() bool
	var watchPaths []string

	if filepath.Base(input) == project.DefaultManifestName || isDir(input) {
		manifestPath := input
		if isDir(input) {
			manifestPath = filepath.Join(input, project.DefaultManifestName)
		}
		manifest, err := project.Load(manifestPath)
		if err != nil {
			cli.ExitWithError("%v", err)
		}
		if err := manifest.CheckToolVersion(cli.Version); err != nil {
			cli.ExitWithError("%v", err)
		}
		for _, unit := range manifest.Units {
			watchPaths = append(watchPaths, manifest.UnitPath(unit))
		}
		run = func() bool { return transpileProject(manifest) }
	} else {
		if *outPath == "" {
			*outPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".rs"
		}
		watchPaths = []string{input}
		out := *outPath
		run = func() bool { return transpileFile(input, out) }
	}

	ok := run()

	if *watchMode {
		w, err := watch.New(watchPaths)
		if err != nil {
			cli.ExitWithError("watch: %v", err)
		}
		defer w.Close()
		fmt.Fprintln(os.Stderr, "watching for changes...")
		w.Run(func(path string) {
			fmt.Fprintf(os.Stderr, "%s changed, retranspiling\n", path)
			run()
		}, func(err error) {
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		})
		return
	}

	if !ok {
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println("cinderc - the Cinder to Rust transpiler")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    cinderc [OPTIONS] <INPUT.cn>")
	fmt.Println("    cinderc [OPTIONS] <DIR | Cinderfile>")
	fmt.Println("    cinderc doctest <DOC.md>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    --version    Show version information")
	fmt.Println("    --help       Show this help message")
	fmt.Println("    -o <file>    Output file (single-file mode)")
	fmt.Println("    --watch      Retranspile when sources change")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    cinderc hello.cn")
	fmt.Println("    cinderc -o out/hello.rs hello.cn")
	fmt.Println("    cinderc --watch .")
	fmt.Println("    cinderc doctest docs/tour.md")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// transpileFile transpiles one unit to outPath. It reports success;
// diagnostics go to stderr.
func transpileFile(input, outPath string) bool {
	source, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}

	result, err := driver.TranspileUnit(string(source), input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	if !result.Ok() {
		result.Diagnostics.Sort()
		diagnostic.NewPrinter(os.Stderr).Print(result.Diagnostics)
		return false
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return false
		}
	}
	if err := os.WriteFile(outPath, []byte(result.Output), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	return true
}

// transpileProject transpiles every unit in the manifest. Units are
// independent, so a failing unit does not stop the others.
func transpileProject(m *project.Manifest) bool {
	ok := true
	for _, unit := range m.Units {
		if !transpileFile(m.UnitPath(unit), m.OutputPath(unit)) {
			ok = false
		}
	}
	return ok
}

func runDoctest(docPath string) error {
	markdown, err := os.ReadFile(docPath)
	if err != nil {
		return err
	}
	failures, err := docspec.Check(markdown, docPath)
	if err != nil {
		return err
	}
	if len(failures) == 0 {
		fmt.Printf("%s: all snippets transpile\n", docPath)
		return nil
	}
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "%s:%d: snippet %q failed:\n", docPath, f.Snippet.Line, f.Snippet.Name)
		for _, msg := range f.Messages {
			fmt.Fprintf(os.Stderr, "    %s\n", msg)
		}
	}
	return fmt.Errorf("%d snippet(s) failed", len(failures))
}
