package optimize

import "github.com/langc/langc/ast"

// markTailCalls sets ast.CallExpr.IsTailCall on every self-recursive call
// to fn found in tail position within fn's own body. Per the recorded
// Open Question decision (DESIGN.md), this is advisory only: codegen may
// use it to rewrite a self-recursive tail call into a loop, but nothing
// requires every call site to support the rewrite, so the analysis only
// needs to find the calls it's safe to rewrite, not prove completeness.
//
// Tail position is the last statement of a block, propagated through
// `if`/`else` branches and `match` arms (whichever arm runs, it is the
// last thing fn does); a `private` block's body is not tail position
// since it allocates and releases its own child arena around the call.
func markTailCalls(fn *ast.FnDeclStmt) {
	markTailBlock(fn.Body, fn.Name)
}

func markTailBlock(b ast.Block, fnName string) {
	if len(b.Stmts) == 0 {
		return
	}
	markTailStmt(b.Stmts[len(b.Stmts)-1], fnName)
}

func markTailStmt(s ast.Stmt, fnName string) {
	switch st := s.(type) {
	case *ast.ReturnStmt:
		if st.Value != nil {
			markTailExpr(st.Value, fnName)
		}
	case *ast.ExprStmt:
		markTailExpr(st.Expr, fnName)
	case *ast.IfStmt:
		markTailBlock(st.Then, fnName)
		if st.Else != nil {
			markTailBlock(*st.Else, fnName)
		}
	case *ast.MatchStmt:
		for _, arm := range st.Arms {
			markTailBlock(arm.Body, fnName)
		}
	}
}

func markTailExpr(e ast.Expr, fnName string) {
	call, ok := e.(*ast.CallExpr)
	if !ok {
		return
	}
	if id, ok := call.Callee.(*ast.Ident); ok && id.Name == fnName {
		call.IsTailCall = true
	}
}
