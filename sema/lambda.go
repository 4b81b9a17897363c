package sema

import "github.com/langc/langc/ast"

// collectCaptures walks a lambda's already-checked body and returns every
// distinct outer-scope variable it references, in first-reference order.
// checkIdent has already stamped DeclScopeDepth/IsGlobal on every Ident in
// body by the time this runs; a reference whose DeclScopeDepth is no deeper
// than baseDepth (the scope the lambda itself was declared in) and that
// isn't global names a value the hoisted closure function must carry
// explicitly, since it won't be in scope once the lambda body becomes its
// own top-level C function (codegen's lambdaFnName).
func collectCaptures(body []ast.Stmt, baseDepth int) []ast.CapturedVar {
	var out []ast.CapturedVar
	seen := make(map[string]bool)
	add := func(id *ast.Ident) {
		if id.IsGlobal || id.DeclScopeDepth > baseDepth || seen[id.Name] {
			return
		}
		seen[id.Name] = true
		out = append(out, ast.CapturedVar{Name: id.Name, Type: id.Type()})
	}
	for _, s := range body {
		walkStmtCaptures(s, add)
	}
	return out
}

func walkStmtCaptures(s ast.Stmt, add func(*ast.Ident)) {
	switch st := s.(type) {
	case *ast.VarDeclStmt:
		walkExprCaptures(st.Init, add)
	case *ast.AssignStmt:
		walkExprCaptures(st.Target, add)
		walkExprCaptures(st.Value, add)
	case *ast.ExprStmt:
		walkExprCaptures(st.Expr, add)
	case *ast.IfStmt:
		walkExprCaptures(st.Cond, add)
		for _, x := range st.Then.Stmts {
			walkStmtCaptures(x, add)
		}
		if st.Else != nil {
			for _, x := range st.Else.Stmts {
				walkStmtCaptures(x, add)
			}
		}
	case *ast.WhileStmt:
		walkExprCaptures(st.Cond, add)
		for _, x := range st.Body.Stmts {
			walkStmtCaptures(x, add)
		}
	case *ast.ForInStmt:
		walkExprCaptures(st.Iterable, add)
		for _, x := range st.Body.Stmts {
			walkStmtCaptures(x, add)
		}
	case *ast.ReturnStmt:
		walkExprCaptures(st.Value, add)
	case *ast.MatchStmt:
		walkExprCaptures(st.Subject, add)
		for _, arm := range st.Arms {
			walkExprCaptures(arm.Pattern, add)
			for _, x := range arm.Body.Stmts {
				walkStmtCaptures(x, add)
			}
		}
	case *ast.PrivateBlockStmt:
		for _, x := range st.Body.Stmts {
			walkStmtCaptures(x, add)
		}
	case *ast.LockStmt:
		walkExprCaptures(st.Handle, add)
		for _, x := range st.Body.Stmts {
			walkStmtCaptures(x, add)
		}
	case *ast.SyncStmt:
		for _, t := range st.Threads {
			walkExprCaptures(t, add)
		}
		for _, x := range st.Body.Stmts {
			walkStmtCaptures(x, add)
		}
	}
}

func walkExprCaptures(e ast.Expr, add func(*ast.Ident)) {
	switch x := e.(type) {
	case nil:
		return
	case *ast.Ident:
		add(x)
	case *ast.BinaryExpr:
		walkExprCaptures(x.Left, add)
		walkExprCaptures(x.Right, add)
	case *ast.UnaryExpr:
		walkExprCaptures(x.Operand, add)
	case *ast.IncDecExpr:
		walkExprCaptures(x.Operand, add)
	case *ast.CallExpr:
		walkExprCaptures(x.Callee, add)
		for _, a := range x.Args {
			walkExprCaptures(a, add)
		}
	case *ast.MemberAccessExpr:
		walkExprCaptures(x.Base, add)
	case *ast.IndexExpr:
		walkExprCaptures(x.Base, add)
		walkExprCaptures(x.Index, add)
	case *ast.SliceExpr:
		walkExprCaptures(x.Base, add)
		walkExprCaptures(x.Start, add)
		walkExprCaptures(x.End, add)
		walkExprCaptures(x.Step, add)
	case *ast.RangeExpr:
		walkExprCaptures(x.Start, add)
		walkExprCaptures(x.End, add)
	case *ast.SpreadExpr:
		walkExprCaptures(x.Operand, add)
	case *ast.AsExpr:
		walkExprCaptures(x.Operand, add)
	case *ast.IsExpr:
		walkExprCaptures(x.Operand, add)
	case *ast.StructLiteralExpr:
		for _, f := range x.Fields {
			walkExprCaptures(f.Value, add)
		}
	case *ast.TypeofExpr:
		walkExprCaptures(x.Operand, add)
	case *ast.InterpStringLit:
		for _, p := range x.Parts {
			walkExprCaptures(p.Expr, add)
		}
	case *ast.LambdaExpr:
		// A nested lambda's own captures were already resolved relative to
		// its own enclosing scope when it was checked; anything it in turn
		// captures from further out still needs to flow through this
		// lambda's environment too.
		for _, c := range x.Captures {
			id := &ast.Ident{Name: c.Name}
			id.SetType(c.Type)
			add(id)
		}
	}
}
