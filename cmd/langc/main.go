// Command langc compiles and runs programs written in the Language
// (spec.md). It drives the full pipeline — lex, parse, type-check,
// optimize, then either emit C or execute in-process — behind two
// subcommands, in the style of a small `flag`-based CLI (grounded on
// clarete-langlang's cmd/main.go from the example pack):
//
//	langc build <src.sn> -o <out.c>
//	langc run <src.sn>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/codegen"
	"github.com/langc/langc/optimize"
	"github.com/langc/langc/parser"
	"github.com/langc/langc/reporter"
	"github.com/langc/langc/runtime"
	"github.com/langc/langc/sema"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("langc: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "build":
		os.Exit(runBuild(os.Args[2:]))
	case "run":
		os.Exit(runRun(os.Args[2:]))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: langc build <src> -o <out.c>")
	fmt.Fprintln(os.Stderr, "       langc run <src>")
}

// frontend runs lex -> parse -> sema -> optimize over path, reporting
// every diagnostic through reporter.Reporter to stderr. It returns nil
// if any error was reported, matching spec.md §6's exit-code contract
// (0 on success, non-zero otherwise).
func frontend(path string) *ast.Module {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading %s: %s", path, err)
	}

	mod, perrs := parser.Parse(path, src)
	if len(perrs) > 0 {
		for _, e := range perrs {
			fmt.Fprintln(os.Stderr, e)
		}
		return nil
	}

	failed := false
	rep := reporter.NewReporter(
		func(e reporter.ErrorWithPos) error {
			fmt.Fprintln(os.Stderr, e)
			failed = true
			return nil
		},
		func(e reporter.ErrorWithPos) {
			fmt.Fprintln(os.Stderr, "warning:", e)
		},
	)
	checker := sema.NewChecker(reporter.NewHandler(rep))
	if err := checker.Check(mod); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil
	}
	if failed {
		return nil
	}

	optimize.Optimize(mod)
	return mod
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	out := fs.String("o", "", "output C file path (default: stdout)")
	fs.Parse(args)
	if fs.NArg() < 1 {
		usage()
		return 2
	}
	src := fs.Arg(0)
	fs.Parse(fs.Args()[1:])
	if fs.NArg() != 0 {
		usage()
		return 2
	}

	mod := frontend(src)
	if mod == nil {
		return 1
	}

	text, err := codegen.Generate(mod)
	if err != nil {
		log.Println(err)
		return 1
	}

	if *out == "" {
		fmt.Print(text)
		return 0
	}
	if err := os.WriteFile(*out, []byte(text), 0644); err != nil {
		log.Println(err)
		return 1
	}
	return 0
}

func runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		usage()
		return 2
	}

	mod := frontend(fs.Arg(0))
	if mod == nil {
		return 1
	}

	it := runtime.NewInterp(mod, runtime.NewStdio())
	if _, err := it.Run("main", nil); err != nil {
		log.Println(err)
		return 1
	}
	return 0
}
