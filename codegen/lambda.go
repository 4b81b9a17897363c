package codegen

import (
	"fmt"

	"github.com/langc/langc/ast"
)

// collectLambdas walks every top-level function's body and returns each
// LambdaExpr reachable from it, including lambdas nested inside another
// lambda's own body, in the order first encountered. This is the hoisting
// step spec.md §4.G's closure emission assumes: a lambda's body becomes a
// standalone C function ahead of any call site that constructs a closure
// value over it.
func collectLambdas(fns []*ast.FnDeclStmt) []*ast.LambdaExpr {
	var out []*ast.LambdaExpr
	seen := make(map[int]bool)
	for _, fn := range fns {
		for _, s := range fn.Body.Stmts {
			walkStmtLambdas(s, &out, seen)
		}
	}
	return out
}

func walkStmtLambdas(s ast.Stmt, out *[]*ast.LambdaExpr, seen map[int]bool) {
	switch st := s.(type) {
	case *ast.VarDeclStmt:
		walkExprLambdas(st.Init, out, seen)
	case *ast.AssignStmt:
		walkExprLambdas(st.Target, out, seen)
		walkExprLambdas(st.Value, out, seen)
	case *ast.ExprStmt:
		walkExprLambdas(st.Expr, out, seen)
	case *ast.IfStmt:
		walkExprLambdas(st.Cond, out, seen)
		for _, x := range st.Then.Stmts {
			walkStmtLambdas(x, out, seen)
		}
		if st.Else != nil {
			for _, x := range st.Else.Stmts {
				walkStmtLambdas(x, out, seen)
			}
		}
	case *ast.WhileStmt:
		walkExprLambdas(st.Cond, out, seen)
		for _, x := range st.Body.Stmts {
			walkStmtLambdas(x, out, seen)
		}
	case *ast.ForInStmt:
		walkExprLambdas(st.Iterable, out, seen)
		for _, x := range st.Body.Stmts {
			walkStmtLambdas(x, out, seen)
		}
	case *ast.ReturnStmt:
		walkExprLambdas(st.Value, out, seen)
	case *ast.MatchStmt:
		walkExprLambdas(st.Subject, out, seen)
		for _, arm := range st.Arms {
			walkExprLambdas(arm.Pattern, out, seen)
			for _, x := range arm.Body.Stmts {
				walkStmtLambdas(x, out, seen)
			}
		}
	case *ast.PrivateBlockStmt:
		for _, x := range st.Body.Stmts {
			walkStmtLambdas(x, out, seen)
		}
	case *ast.LockStmt:
		walkExprLambdas(st.Handle, out, seen)
		for _, x := range st.Body.Stmts {
			walkStmtLambdas(x, out, seen)
		}
	case *ast.SyncStmt:
		for _, t := range st.Threads {
			walkExprLambdas(t, out, seen)
		}
		for _, x := range st.Body.Stmts {
			walkStmtLambdas(x, out, seen)
		}
	}
}

func walkExprLambdas(e ast.Expr, out *[]*ast.LambdaExpr, seen map[int]bool) {
	switch x := e.(type) {
	case nil:
		return
	case *ast.LambdaExpr:
		if seen[x.LambdaID] {
			return
		}
		seen[x.LambdaID] = true
		*out = append(*out, x)
		for _, s := range x.Body {
			walkStmtLambdas(s, out, seen)
		}
	case *ast.BinaryExpr:
		walkExprLambdas(x.Left, out, seen)
		walkExprLambdas(x.Right, out, seen)
	case *ast.UnaryExpr:
		walkExprLambdas(x.Operand, out, seen)
	case *ast.IncDecExpr:
		walkExprLambdas(x.Operand, out, seen)
	case *ast.CallExpr:
		walkExprLambdas(x.Callee, out, seen)
		for _, a := range x.Args {
			walkExprLambdas(a, out, seen)
		}
	case *ast.MemberAccessExpr:
		walkExprLambdas(x.Base, out, seen)
	case *ast.IndexExpr:
		walkExprLambdas(x.Base, out, seen)
		walkExprLambdas(x.Index, out, seen)
	case *ast.SliceExpr:
		walkExprLambdas(x.Base, out, seen)
		walkExprLambdas(x.Start, out, seen)
		walkExprLambdas(x.End, out, seen)
		walkExprLambdas(x.Step, out, seen)
	case *ast.RangeExpr:
		walkExprLambdas(x.Start, out, seen)
		walkExprLambdas(x.End, out, seen)
	case *ast.SpreadExpr:
		walkExprLambdas(x.Operand, out, seen)
	case *ast.AsExpr:
		walkExprLambdas(x.Operand, out, seen)
	case *ast.IsExpr:
		walkExprLambdas(x.Operand, out, seen)
	case *ast.StructLiteralExpr:
		for _, f := range x.Fields {
			walkExprLambdas(f.Value, out, seen)
		}
	case *ast.TypeofExpr:
		walkExprLambdas(x.Operand, out, seen)
	case *ast.InterpStringLit:
		for _, p := range x.Parts {
			walkExprLambdas(p.Expr, out, seen)
		}
	}
}

// lambdaEnvType names the per-lambda struct carrying its captured
// variables, built fresh for each lambda rather than reusing one generic
// RtEnv shape so every capture keeps its own C type.
func lambdaEnvType(id int) string { return fmt.Sprintf("__lambda_env_%d", id) }

func lambdaFnName(id int) string { return fmt.Sprintf("__lambda_%d", id) }

// emitLambdaEnvStructs declares the captured-variable struct for every
// lambda ahead of any function body that might construct or call one.
func (g *Generator) emitLambdaEnvStructs(lambdas []*ast.LambdaExpr) {
	for _, l := range lambdas {
		fmt.Fprintf(&g.buf, "typedef struct {\n")
		for _, c := range l.Captures {
			fmt.Fprintf(&g.buf, "    %s %s;\n", CType(c.Type), sanitizeLabel(c.Name))
		}
		fmt.Fprintf(&g.buf, "} %s;\n", lambdaEnvType(l.LambdaID))
	}
}

func (g *Generator) emitLambdaSignature(l *ast.LambdaExpr) {
	fmt.Fprintf(&g.buf, "%s %s(RtArena *arena, %s __env", CType(l.ResultType), lambdaFnName(l.LambdaID), lambdaEnvType(l.LambdaID))
	for _, p := range l.Params {
		fmt.Fprintf(&g.buf, ", %s %s", CType(p.Type), sanitizeLabel(p.Name))
	}
	g.buf.WriteString(")")
}

// emitLambdaFn writes a hoisted lambda's definition: captured variables are
// unpacked from __env into locals matching the names the body already
// refers to (the same identifiers the enclosing scope bound them under),
// then the body is emitted exactly like an ordinary function's.
func (g *Generator) emitLambdaFn(l *ast.LambdaExpr) {
	synthetic := &ast.FnDeclStmt{Name: lambdaFnName(l.LambdaID), Params: l.Params}

	g.emitLambdaSignature(l)
	g.buf.WriteString(" {\n")
	for _, c := range l.Captures {
		field := sanitizeLabel(c.Name)
		fmt.Fprintf(&g.buf, "    %s %s = __env.%s;\n", CType(c.Type), field, field)
	}
	g.emitBlockStmts(l.Body, synthetic)
	g.buf.WriteString("}\n\n")
}
