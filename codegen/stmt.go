package codegen

import (
	"fmt"

	"github.com/langc/langc/ast"
)

var assignOpText = map[ast.AssignOp]string{
	ast.AssignSet: "=",
	ast.AssignAdd: "+=",
	ast.AssignSub: "-=",
	ast.AssignMul: "*=",
	ast.AssignDiv: "/=",
	ast.AssignMod: "%=",
}

func (g *Generator) emitStmt(s ast.Stmt, fn *ast.FnDeclStmt) {
	switch st := s.(type) {
	case *ast.VarDeclStmt:
		if st.Init != nil {
			fmt.Fprintf(&g.buf, "%s %s = %s;\n", CType(st.Type), sanitizeLabel(st.Name), g.expr(st.Init))
		} else {
			fmt.Fprintf(&g.buf, "%s %s;\n", CType(st.Type), sanitizeLabel(st.Name))
		}
	case *ast.AssignStmt:
		fmt.Fprintf(&g.buf, "%s %s %s;\n", g.expr(st.Target), assignOpText[st.Op], g.expr(st.Value))
	case *ast.ExprStmt:
		if call, ok := st.Expr.(*ast.CallExpr); ok && call.IsTailCall {
			g.emitTailCall(call, fn)
			return
		}
		fmt.Fprintf(&g.buf, "%s;\n", g.expr(st.Expr))
	case *ast.IfStmt:
		fmt.Fprintf(&g.buf, "if (%s) {\n", g.expr(st.Cond))
		g.emitBlockStmts(st.Then.Stmts, fn)
		g.buf.WriteString("}")
		if st.Else != nil {
			g.buf.WriteString(" else {\n")
			g.emitBlockStmts(st.Else.Stmts, fn)
			g.buf.WriteString("}")
		}
		g.buf.WriteString("\n")
	case *ast.WhileStmt:
		fmt.Fprintf(&g.buf, "while (%s) {\n", g.expr(st.Cond))
		g.emitBlockStmts(st.Body.Stmts, fn)
		g.buf.WriteString("}\n")
	case *ast.ForInStmt:
		g.emitForIn(st, fn)
	case *ast.BreakStmt:
		g.buf.WriteString("break;\n")
	case *ast.ContinueStmt:
		g.buf.WriteString("continue;\n")
	case *ast.ReturnStmt:
		if call, ok := st.Value.(*ast.CallExpr); ok && call.IsTailCall {
			g.emitTailCall(call, fn)
			return
		}
		if st.Value != nil {
			fmt.Fprintf(&g.buf, "return %s;\n", g.expr(st.Value))
		} else {
			g.buf.WriteString("return;\n")
		}
	case *ast.MatchStmt:
		g.emitMatch(st, fn)
	case *ast.PrivateBlockStmt:
		g.buf.WriteString("{\n")
		fmt.Fprintf(&g.buf, "RtArena *__private_arena = rt_arena_create(arena);\n")
		g.emitBlockStmts(st.Body.Stmts, fn)
		g.buf.WriteString("rt_arena_destroy(__private_arena);\n")
		g.buf.WriteString("}\n")
	case *ast.LockStmt:
		fmt.Fprintf(&g.buf, "rt_lock(%s);\n{\n", g.expr(st.Handle))
		g.emitBlockStmts(st.Body.Stmts, fn)
		fmt.Fprintf(&g.buf, "}\nrt_unlock(%s);\n", g.expr(st.Handle))
	case *ast.SyncStmt:
		for _, th := range st.Threads {
			fmt.Fprintf(&g.buf, "rt_thread_sync(arena, %s);\n", g.expr(th))
		}
		g.buf.WriteString("{\n")
		g.emitBlockStmts(st.Body.Stmts, fn)
		g.buf.WriteString("}\n")
	}
}

// emitTailCall rewrites a self-recursive call left in tail position
// (ast.CallExpr.IsTailCall) into a parameter-reassignment followed by a
// jump back to the function's own entry label, per spec.md §4.F/§9: the
// call never actually recurses in the generated code, so arbitrarily deep
// Language-level recursion through a tail call compiles to a C loop.
func (g *Generator) emitTailCall(call *ast.CallExpr, fn *ast.FnDeclStmt) {
	g.buf.WriteString("{\n")
	for i, a := range call.Args {
		if i < len(fn.Params) {
			fmt.Fprintf(&g.buf, "%s __tail_%s = %s;\n", CType(fn.Params[i].Type), sanitizeLabel(fn.Params[i].Name), g.expr(a))
		}
	}
	for i := range call.Args {
		if i < len(fn.Params) {
			fmt.Fprintf(&g.buf, "%s = __tail_%s;\n", sanitizeLabel(fn.Params[i].Name), sanitizeLabel(fn.Params[i].Name))
		}
	}
	fmt.Fprintf(&g.buf, "goto tail_call_%s;\n", Mangle(fn.Name))
	g.buf.WriteString("}\n")
}

// emitForIn lowers `for x in iterable => body`. A range iterable compiles
// to a counted C for-loop and any other iterable to RT_FOREACH.
// ast.ForInStmt.ProvenNonNegative is not read here, so index expressions
// over x keep the checked form (see index).
func (g *Generator) emitForIn(st *ast.ForInStmt, fn *ast.FnDeclStmt) {
	name := sanitizeLabel(st.Var)
	if rng, ok := st.Iterable.(*ast.RangeExpr); ok {
		fmt.Fprintf(&g.buf, "for (int64_t %s = %s; %s < %s; %s++) {\n",
			name, g.expr(rng.Start), name, g.expr(rng.End), name)
		g.emitBlockStmts(st.Body.Stmts, fn)
		g.buf.WriteString("}\n")
		return
	}
	fmt.Fprintf(&g.buf, "RT_FOREACH(%s, %s) {\n", name, g.expr(st.Iterable))
	g.emitBlockStmts(st.Body.Stmts, fn)
	g.buf.WriteString("}\n")
}

func (g *Generator) emitMatch(st *ast.MatchStmt, fn *ast.FnDeclStmt) {
	subj := g.expr(st.Subject)
	fmt.Fprintf(&g.buf, "{\n%s __match_subject = %s;\n", CType(st.Subject.Type()), subj)
	first := true
	for _, arm := range st.Arms {
		if arm.Pattern == nil {
			g.buf.WriteString("else {\n")
		} else if first {
			fmt.Fprintf(&g.buf, "if (__match_subject == (%s)) {\n", g.expr(arm.Pattern))
			first = false
		} else {
			fmt.Fprintf(&g.buf, "else if (__match_subject == (%s)) {\n", g.expr(arm.Pattern))
		}
		g.emitBlockStmts(arm.Body.Stmts, fn)
		g.buf.WriteString("}\n")
	}
	g.buf.WriteString("}\n")
}
