// Package sema implements the type checker (spec.md §4.E): type inference
// and widening, struct layout, memory-qualifier rules, escape analysis,
// struct-literal default application, and interceptability computation.
//
// It is organized the way protocompile's linker package is: one Checker
// that owns a symbol table and a *reporter.Handler, and a family of focused
// files (layout.go, widen.go, expr.go, stmt.go, fn.go, intercept.go) each
// covering one responsibility, rather than one large visitor. Every check
// that fails reports through the Handler and continues, so a single pass
// surfaces as many independent diagnostics as possible (spec.md §7).
package sema

import (
	"github.com/langc/langc/ast"
	"github.com/langc/langc/reporter"
	"github.com/langc/langc/symtab"
)

// Checker type-checks a parsed module in place, decorating its AST nodes
// with resolved types, scope depths, escape flags, and struct layouts.
type Checker struct {
	handler *reporter.Handler
	syms    *symtab.Table

	structs map[string]*ast.StructType
	fns     map[string]*ast.FnDeclStmt

	// nextLambdaID assigns each lambda literal a unique id as it is checked,
	// in source order, so codegen can mangle each one to a distinct hoisted
	// C function name (codegen.lambdaFnName).
	nextLambdaID int

	errored bool
}

// NewChecker creates a Checker that reports through h.
func NewChecker(h *reporter.Handler) *Checker {
	return &Checker{
		handler: h,
		syms:    symtab.New(),
		structs: make(map[string]*ast.StructType),
		fns:     make(map[string]*ast.FnDeclStmt),
	}
}

// Check type-checks mod. It returns reporter.ErrInvalidSource if any
// diagnostic was reported and the handler's reporter chose to keep going
// (the same "accumulate but don't abort" contract as protocompile's linker).
func (c *Checker) Check(mod *ast.Module) error {
	// Pass 1: register every struct and top-level function signature so
	// forward references (a function calling one declared later, a struct
	// field referencing a struct declared later) resolve.
	for _, stmt := range mod.Stmts {
		switch s := stmt.(type) {
		case *ast.StructDeclStmt:
			c.registerStruct(s)
		}
	}
	c.layoutStructs(mod)
	for _, stmt := range mod.Stmts {
		switch s := stmt.(type) {
		case *ast.FnDeclStmt:
			c.registerFnSignature(s)
		}
	}

	// Pass 2: check bodies.
	for _, stmt := range mod.Stmts {
		c.checkStmt(stmt)
	}

	if c.errored {
		return reporter.ErrInvalidSource
	}
	return nil
}

// errorf reports a diagnostic anchored to node's token and marks the module
// as errored (spec.md §4.E: "every check that fails ... marks the module as
// errored; type checking continues").
func (c *Checker) errorf(node ast.Node, format string, args ...any) {
	c.errored = true
	c.handler.HandleErrorf(node.Token().Pos, format, args...)
}
