package sema

import (
	"github.com/langc/langc/ast"
	"github.com/langc/langc/symtab"
)

// registerFnSignature resolves fn's parameter and result types and records
// it by name so call sites (including forward references) can look up its
// signature before its body is checked.
func (c *Checker) registerFnSignature(fn *ast.FnDeclStmt) {
	if _, exists := c.fns[fn.Name]; exists {
		c.errorf(fn, "function %q already declared", fn.Name)
		return
	}
	for i := range fn.Params {
		fn.Params[i].Type = c.resolveTypeAt(fn, fn.Params[i].Type)
	}
	fn.ResultType = c.resolveTypeAt(fn, fn.ResultType)
	if fn.Receiver != nil {
		fn.Receiver.Type = c.resolveTypeAt(fn, fn.Receiver.Type)
	}
	c.fns[fn.Name] = fn
	c.computeInterceptable(fn)

	// Functions are also ordinary names: a bare reference to fn (e.g. as a
	// spawn argument or assigned to a function-typed variable) resolves
	// through the symbol table like any other identifier.
	fnType := ast.NewFunction(paramTypes(fn.Params), fn.ResultType)
	if err := c.syms.Declare(fn.Name, symtab.SymFunc, fnType, fn); err != nil {
		c.errorf(fn, "%s", err)
	}
}

// checkFnDecl type-checks a function body in its own scope, enforcing
// spec.md §4.E.3's visibility-return-type rule: "Functions declared
// private may return only primitive types; shared and native functions
// may return any type."
func (c *Checker) checkFnDecl(fn *ast.FnDeclStmt) {
	if fn.Modifier == ast.ModPrivate && fn.ResultType != nil &&
		fn.ResultType.Kind != ast.KindVoid && !isPrimitiveReturnable(fn.ResultType) {
		c.errorf(fn, "private function %q may only return a primitive type, got %s", fn.Name, fn.ResultType)
	}

	c.syms.EnterScope()
	defer c.syms.LeaveScope()
	c.syms.PushFunc(fn.Modifier)
	for _, p := range fn.Params {
		_ = c.syms.Declare(p.Name, symtab.SymParam, p.Type, fn)
	}
	for _, s := range fn.Body.Stmts {
		c.checkStmt(s)
	}
}

func isPrimitiveReturnable(t *ast.Type) bool {
	switch t.Kind {
	case ast.KindPointer, ast.KindArray, ast.KindFunction, ast.KindStruct, ast.KindAny, ast.KindOpaque, ast.KindString:
		return false
	default:
		return true
	}
}
