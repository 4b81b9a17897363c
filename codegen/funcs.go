package codegen

import (
	"fmt"

	"github.com/langc/langc/ast"
)

// emitFnSignature writes fn's C declaration line (used both for the
// forward declaration pass and the definition). Every function receives
// an implicit leading `RtArena *arena` parameter except the ones
// functionNeedsArena proves never touch one (spec.md §4.G "skip arena
// creation for primitive-only functions").
func (g *Generator) emitFnSignature(fn *ast.FnDeclStmt) {
	name := Mangle(fn.Name)
	if fn.Receiver != nil {
		name = MangleMethod(fn.Receiver.Type.Struct.Name, fn.Name)
	}
	fmt.Fprintf(&g.buf, "%s %s(", CType(fn.ResultType), name)
	first := true
	if functionNeedsArena(fn) {
		g.buf.WriteString("RtArena *arena")
		first = false
	}
	if fn.Receiver != nil {
		if !first {
			g.buf.WriteString(", ")
		}
		fmt.Fprintf(&g.buf, "%s %s", CType(fn.Receiver.Type), fn.Receiver.Name)
		first = false
	}
	for _, p := range fn.Params {
		if !first {
			g.buf.WriteString(", ")
		}
		fmt.Fprintf(&g.buf, "%s %s", CType(p.Type), sanitizeLabel(p.Name))
		first = false
	}
	if first {
		g.buf.WriteString("void")
	}
	g.buf.WriteString(")")
}

// emitFn writes fn's full definition. A self-recursive call left in tail
// position by optimize's tail-call marking pass (ast.CallExpr.IsTailCall)
// is rewritten into a parameter-reassignment-plus-loop, exactly as
// spec.md §4.F describes the generator using that advisory flag; every
// other call is emitted as an ordinary C call expression.
func (g *Generator) emitFn(fn *ast.FnDeclStmt) {
	prevFn, prevArena := g.curFn, g.curFnHasArena
	g.curFn = fn
	g.curFnHasArena = functionNeedsArena(fn)
	defer func() { g.curFn, g.curFnHasArena = prevFn, prevArena }()

	g.emitFnSignature(fn)
	g.buf.WriteString(" {\n")
	if hasSelfTailCall(fn.Body, fn.Name) {
		fmt.Fprintf(&g.buf, "tail_call_%s:;\n", Mangle(fn.Name))
	}
	g.emitBlockStmts(fn.Body.Stmts, fn)
	g.buf.WriteString("}\n\n")
}

// hasSelfTailCall reports whether fn's body contains at least one call
// marked IsTailCall, which determines whether emitFn needs to emit the
// loop label a rewritten tail call jumps back to.
func hasSelfTailCall(b ast.Block, fnName string) bool {
	for _, s := range b.Stmts {
		if stmtHasTailCall(s) {
			return true
		}
	}
	return false
}

func stmtHasTailCall(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.ReturnStmt:
		return exprHasTailCall(st.Value)
	case *ast.ExprStmt:
		return exprHasTailCall(st.Expr)
	case *ast.IfStmt:
		for _, x := range st.Then.Stmts {
			if stmtHasTailCall(x) {
				return true
			}
		}
		if st.Else != nil {
			for _, x := range st.Else.Stmts {
				if stmtHasTailCall(x) {
					return true
				}
			}
		}
	case *ast.MatchStmt:
		for _, arm := range st.Arms {
			for _, x := range arm.Body.Stmts {
				if stmtHasTailCall(x) {
					return true
				}
			}
		}
	}
	return false
}

func exprHasTailCall(e ast.Expr) bool {
	call, ok := e.(*ast.CallExpr)
	return ok && call.IsTailCall
}

// emitBlockStmts writes each statement of a function body (or a nested
// block that shares the enclosing function's arena and loop label).
func (g *Generator) emitBlockStmts(stmts []ast.Stmt, fn *ast.FnDeclStmt) {
	for _, s := range stmts {
		g.emitStmt(s, fn)
	}
}
