package optimize

import "github.com/langc/langc/ast"

// removeDeadVars drops `var`/`val` declarations from stmts that are never
// read afterward and whose initializer has no side effect, mirroring
// optimizer_util_dead.c's remove_unused_variables: it first scans the
// entire statement list for every identifier used anywhere in it, then
// filters declarations against that one set (not a narrower
// "used after this point" scan — the original collects uses across the
// whole list before filtering, so a variable used earlier in the same
// block by a forward-referencing lambda still counts as used).
func removeDeadVars(stmts []ast.Stmt) []ast.Stmt {
	used := make(map[string]bool)
	for _, s := range stmts {
		collectUsesStmt(s, used)
	}

	out := stmts[:0:0]
	for _, s := range stmts {
		if vd, ok := s.(*ast.VarDeclStmt); ok {
			if !used[vd.Name] && !(vd.Init != nil && hasSideEffect(vd.Init)) {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// hasSideEffect reports whether evaluating e can observably do more than
// produce a value, per remove_unused_variables' explicit switch over
// EXPR_CALL/EXPR_INCREMENT/EXPR_DECREMENT (this AST has no expression-level
// assignment or thread-spawn/sync forms; those are always statements here,
// so an initializer can never directly contain one — only a call nested
// inside it can).
func hasSideEffect(e ast.Expr) bool {
	found := false
	walkExpr(e, func(x ast.Expr) {
		switch x.(type) {
		case *ast.CallExpr, *ast.IncDecExpr:
			found = true
		}
	})
	return found
}

// collectUsesStmt records every identifier read anywhere within stmt,
// including inside nested blocks and lambda bodies, into used.
func collectUsesStmt(stmt ast.Stmt, used map[string]bool) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		if s.Init != nil {
			collectUsesExpr(s.Init, used)
		}
	case *ast.AssignStmt:
		collectUsesExpr(s.Target, used)
		collectUsesExpr(s.Value, used)
	case *ast.ExprStmt:
		collectUsesExpr(s.Expr, used)
	case *ast.IfStmt:
		collectUsesExpr(s.Cond, used)
		collectUsesBlock(s.Then, used)
		if s.Else != nil {
			collectUsesBlock(*s.Else, used)
		}
	case *ast.WhileStmt:
		collectUsesExpr(s.Cond, used)
		collectUsesBlock(s.Body, used)
	case *ast.ForInStmt:
		collectUsesExpr(s.Iterable, used)
		collectUsesBlock(s.Body, used)
	case *ast.ReturnStmt:
		if s.Value != nil {
			collectUsesExpr(s.Value, used)
		}
	case *ast.MatchStmt:
		collectUsesExpr(s.Subject, used)
		for _, arm := range s.Arms {
			if arm.Pattern != nil {
				collectUsesExpr(arm.Pattern, used)
			}
			collectUsesBlock(arm.Body, used)
		}
	case *ast.PrivateBlockStmt:
		collectUsesBlock(s.Body, used)
	case *ast.LockStmt:
		collectUsesExpr(s.Handle, used)
		collectUsesBlock(s.Body, used)
	case *ast.SyncStmt:
		for _, t := range s.Threads {
			collectUsesExpr(t, used)
		}
		collectUsesBlock(s.Body, used)
	}
}

func collectUsesBlock(b ast.Block, used map[string]bool) {
	for _, s := range b.Stmts {
		collectUsesStmt(s, used)
	}
}

func collectUsesExpr(e ast.Expr, used map[string]bool) {
	walkExpr(e, func(x ast.Expr) {
		if id, ok := x.(*ast.Ident); ok {
			used[id.Name] = true
		}
		if lam, ok := x.(*ast.LambdaExpr); ok {
			for _, s := range lam.Body {
				collectUsesStmt(s, used)
			}
		}
	})
}

// walkExpr calls visit on e and every sub-expression reachable from it.
// LambdaExpr's statement body is not descended into here (callers that
// need it, e.g. collectUsesExpr, handle it themselves) since a lambda
// body's statements aren't expressions.
func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch x := e.(type) {
	case *ast.BinaryExpr:
		walkExpr(x.Left, visit)
		walkExpr(x.Right, visit)
	case *ast.UnaryExpr:
		walkExpr(x.Operand, visit)
	case *ast.IncDecExpr:
		walkExpr(x.Operand, visit)
	case *ast.CallExpr:
		walkExpr(x.Callee, visit)
		for _, a := range x.Args {
			walkExpr(a, visit)
		}
	case *ast.MemberAccessExpr:
		walkExpr(x.Base, visit)
	case *ast.IndexExpr:
		walkExpr(x.Base, visit)
		walkExpr(x.Index, visit)
	case *ast.SliceExpr:
		walkExpr(x.Base, visit)
		walkExpr(x.Start, visit)
		walkExpr(x.End, visit)
		walkExpr(x.Step, visit)
	case *ast.RangeExpr:
		walkExpr(x.Start, visit)
		walkExpr(x.End, visit)
	case *ast.SpreadExpr:
		walkExpr(x.Operand, visit)
	case *ast.AsExpr:
		walkExpr(x.Operand, visit)
	case *ast.IsExpr:
		walkExpr(x.Operand, visit)
	case *ast.InterpStringLit:
		for _, p := range x.Parts {
			walkExpr(p.Expr, visit)
		}
	case *ast.StructLiteralExpr:
		for _, f := range x.Fields {
			walkExpr(f.Value, visit)
		}
	case *ast.TypeofExpr:
		walkExpr(x.Operand, visit)
	}
}
