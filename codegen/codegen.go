// Package codegen lowers an optimized, type-checked ast.Module into C
// source text targeting the ABI implemented in Go by the `runtime`
// package (spec.md §4.G): per-function arena threading, closures as
// `{fn_ptr, arena_ptr, captured_env_ptr}`, `__copy_`/`__free_` callbacks
// for handle-bearing structs, checked/unchecked arithmetic, string
// interpolation via the `rt_format_*` helpers, interception wrapping at
// call sites, and `__sn__`-mangled identifiers.
//
// This package only ever produces text; it never shells out to a C
// compiler (cmd/langc's `run` subcommand executes the same AST directly
// through the `runtime` package's tree-walking interpreter instead).
package codegen

import (
	"strings"

	"github.com/langc/langc/ast"
)

// Generator holds the in-progress output buffer and the small amount of
// per-module state (the current function's name, for tail-call rewriting)
// codegen needs while walking the AST.
type Generator struct {
	buf strings.Builder

	curFn         *ast.FnDeclStmt
	curFnHasArena bool

	// fnNeedsArena records functionNeedsArena's verdict for every declared
	// function, computed once up front so call sites (expr.go's call) can
	// look up a callee's own arena requirement instead of assuming it
	// matches the caller's.
	fnNeedsArena map[string]bool
}

// Generate lowers mod to a single C translation unit.
func Generate(mod *ast.Module) (string, error) {
	g := &Generator{fnNeedsArena: make(map[string]bool)}
	g.emitPrelude()

	var structs []*ast.StructDeclStmt
	var fns []*ast.FnDeclStmt
	for _, s := range mod.Stmts {
		switch d := s.(type) {
		case *ast.StructDeclStmt:
			structs = append(structs, d)
		case *ast.FnDeclStmt:
			fns = append(fns, d)
		}
	}
	for _, fn := range fns {
		g.fnNeedsArena[fn.Name] = functionNeedsArena(fn)
	}

	lambdas := collectLambdas(fns)

	g.emitStructs(structs)
	g.emitLambdaEnvStructs(lambdas)

	for _, l := range lambdas {
		g.emitLambdaSignature(l)
		g.buf.WriteString(";\n")
	}
	for _, fn := range fns {
		g.emitFnSignature(fn)
		g.buf.WriteString(";\n")
	}

	for _, l := range lambdas {
		g.emitLambdaFn(l)
	}
	for _, fn := range fns {
		g.emitFn(fn)
	}
	return g.buf.String(), nil
}

func (g *Generator) emitPrelude() {
	g.buf.WriteString("/* generated by langc; do not edit by hand */\n")
	g.buf.WriteString("#include <stdint.h>\n#include <stdbool.h>\n#include \"runtime.h\"\n\n")
}
