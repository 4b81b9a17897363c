// Package optimize implements spec.md §4.F's AST-rewriting passes: constant
// folding, dead-variable removal, no-op simplification, and tail-call
// marking. It runs after sema.Check has assigned types and before codegen,
// rewriting the same arena-owned AST in place.
//
// Unlike sema, optimize never reports diagnostics: an AST reaching this
// stage is already well-typed (sema.Check returned nil), so every pass here
// assumes valid input and only ever narrows or simplifies it. It follows
// sema's own shape — one entry point dispatching into a family of
// single-purpose files (fold.go, dve.go, tailcall.go) — rather than one
// large visitor.
package optimize

import "github.com/langc/langc/ast"

// Optimize rewrites mod's statements in place.
func Optimize(mod *ast.Module) {
	for _, stmt := range mod.Stmts {
		optimizeTopStmt(stmt)
	}
}

func optimizeTopStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.FnDeclStmt:
		s.Body = optimizeBlock(s.Body)
		markTailCalls(s)
	case *ast.StructDeclStmt:
		for i := range s.Fields {
			if s.Fields[i].Default != nil {
				s.Fields[i].Default = foldExpr(s.Fields[i].Default)
			}
		}
		for i := range s.Static {
			if s.Static[i].Init != nil {
				s.Static[i].Init = foldExpr(s.Static[i].Init)
			}
		}
	}
}

// optimizeBlock runs expression folding over every statement in b, recurses
// into nested blocks, and then removes dead variable declarations from the
// resulting statement list (dve.go). Folding runs first because
// removeDeadVars's side-effect check inspects already-simplified
// initializers (e.g. in `x + 0 * y()`, `0 * y()` folds to `0` and the
// addition then to `x`, so the call is gone before the check runs).
func optimizeBlock(b ast.Block) ast.Block {
	for _, stmt := range b.Stmts {
		optimizeStmt(stmt)
	}
	b.Stmts = removeDeadVars(b.Stmts)
	return b
}

// optimizeStmt folds every expression reachable from stmt and recurses into
// its nested blocks. It never removes stmt itself; that is optimizeBlock's
// job once it has the full sibling list to scan for uses.
func optimizeStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		if s.Init != nil {
			s.Init = foldExpr(s.Init)
		}
	case *ast.AssignStmt:
		s.Target = foldExpr(s.Target)
		s.Value = foldExpr(s.Value)
	case *ast.ExprStmt:
		s.Expr = foldExpr(s.Expr)
	case *ast.IfStmt:
		s.Cond = foldExpr(s.Cond)
		s.Then = optimizeBlock(s.Then)
		if s.Else != nil {
			elseB := optimizeBlock(*s.Else)
			s.Else = &elseB
		}
	case *ast.WhileStmt:
		s.Cond = foldExpr(s.Cond)
		s.Body = optimizeBlock(s.Body)
	case *ast.ForInStmt:
		s.Iterable = foldExpr(s.Iterable)
		s.Body = optimizeBlock(s.Body)
	case *ast.ReturnStmt:
		if s.Value != nil {
			s.Value = foldExpr(s.Value)
		}
	case *ast.MatchStmt:
		s.Subject = foldExpr(s.Subject)
		for i := range s.Arms {
			if s.Arms[i].Pattern != nil {
				s.Arms[i].Pattern = foldExpr(s.Arms[i].Pattern)
			}
			s.Arms[i].Body = optimizeBlock(s.Arms[i].Body)
		}
	case *ast.PrivateBlockStmt:
		s.Body = optimizeBlock(s.Body)
	case *ast.LockStmt:
		s.Handle = foldExpr(s.Handle)
		s.Body = optimizeBlock(s.Body)
	case *ast.SyncStmt:
		for i := range s.Threads {
			s.Threads[i] = foldExpr(s.Threads[i])
		}
		s.Body = optimizeBlock(s.Body)
	}
}
