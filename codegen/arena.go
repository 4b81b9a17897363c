package codegen

import "github.com/langc/langc/ast"

// exprNeedsArena is expr_needs_arena from code_gen_util_arena.c, ported to
// this AST's node set: a function whose every expression and statement
// returns false here can skip emitting an arena create/destroy pair
// entirely (spec.md §4.G "skip arena creation for primitive-only
// functions").
func exprNeedsArena(e ast.Expr) bool {
	switch x := e.(type) {
	case nil:
		return false
	case *ast.IntLit, *ast.DoubleLit, *ast.BoolLit, *ast.CharLit, *ast.NilLit:
		return false
	case *ast.StringLit, *ast.InterpStringLit:
		// A string value always needs somewhere to live; literals folded
		// directly into a non-allocating context are the rare case and
		// codegen's caller-side analysis (stmtNeedsArena) already forces an
		// arena wherever a string literal is actually stored.
		return true
	case *ast.Ident:
		return x.Name == "arena"
	case *ast.BinaryExpr:
		if x.Left.Type() != nil && x.Left.Type().Kind == ast.KindString {
			return true
		}
		return exprNeedsArena(x.Left) || exprNeedsArena(x.Right)
	case *ast.UnaryExpr:
		return exprNeedsArena(x.Operand)
	case *ast.IncDecExpr:
		return exprNeedsArena(x.Operand)
	case *ast.CallExpr:
		if needsArenaType(x.Type()) {
			return true
		}
		for _, a := range x.Args {
			if exprNeedsArena(a) {
				return true
			}
		}
		if _, isIdent := x.Callee.(*ast.Ident); !isIdent {
			return exprNeedsArena(x.Callee)
		}
		return false
	case *ast.MemberAccessExpr:
		return exprNeedsArena(x.Base)
	case *ast.IndexExpr:
		return exprNeedsArena(x.Base) || exprNeedsArena(x.Index)
	case *ast.SliceExpr, *ast.RangeExpr, *ast.SpreadExpr, *ast.LambdaExpr:
		// Slices, ranges, spreads, and lambdas always allocate (a new array,
		// range struct, or closure environment respectively).
		return true
	case *ast.AsExpr:
		return exprNeedsArena(x.Operand) || needsArenaType(x.Type())
	case *ast.IsExpr:
		return exprNeedsArena(x.Operand)
	case *ast.StructLiteralExpr:
		return true
	case *ast.SizeofExpr:
		return false
	case *ast.TypeofExpr:
		return true
	default:
		return false
	}
}

// stmtNeedsArena is stmt_needs_arena, recursing into every nested block so
// a `private` block or loop body buried arbitrarily deep still forces the
// enclosing function to carry an arena.
func stmtNeedsArena(s ast.Stmt) bool {
	switch x := s.(type) {
	case nil:
		return false
	case *ast.VarDeclStmt:
		return needsArenaType(x.Type) || exprNeedsArena(x.Init)
	case *ast.AssignStmt:
		return exprNeedsArena(x.Target) || exprNeedsArena(x.Value)
	case *ast.ExprStmt:
		return exprNeedsArena(x.Expr)
	case *ast.IfStmt:
		if exprNeedsArena(x.Cond) || blockNeedsArena(x.Then) {
			return true
		}
		return x.Else != nil && blockNeedsArena(*x.Else)
	case *ast.WhileStmt:
		return exprNeedsArena(x.Cond) || blockNeedsArena(x.Body)
	case *ast.ForInStmt:
		return true // the loop variable or the iterable itself is always arena-backed
	case *ast.ReturnStmt:
		return exprNeedsArena(x.Value)
	case *ast.MatchStmt:
		if exprNeedsArena(x.Subject) {
			return true
		}
		for _, arm := range x.Arms {
			if exprNeedsArena(arm.Pattern) || blockNeedsArena(arm.Body) {
				return true
			}
		}
		return false
	case *ast.PrivateBlockStmt, *ast.LockStmt, *ast.SyncStmt:
		// All three introduce their own arena-relevant machinery (a child
		// arena, a handle-typed lock target, a thread-promotion join).
		return true
	default:
		return false
	}
}

func blockNeedsArena(b ast.Block) bool {
	for _, s := range b.Stmts {
		if stmtNeedsArena(s) {
			return true
		}
	}
	return false
}

// functionNeedsArena is function_needs_arena: a function needs its own
// arena if any parameter is arena-backed (so its home arena for
// assignment-target promotion exists) or any statement in its body does.
func functionNeedsArena(fn *ast.FnDeclStmt) bool {
	for _, p := range fn.Params {
		if needsArenaType(p.Type) {
			return true
		}
	}
	if needsArenaType(fn.ResultType) {
		return true
	}
	return blockNeedsArena(fn.Body)
}
