package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/parser"
)

func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, errs := parser.Parse("t.sn", []byte(src))
	require.Empty(t, errs, "source:\n%s", src)
	return mod
}

func TestParseFnDeclWithReturn(t *testing.T) {
	mod := parseOK(t, "fn add(a: int, b: int): int =>\n    return a + b\n")
	require.Len(t, mod.Stmts, 1)
	fn, ok := mod.Stmts[0].(*ast.FnDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, ast.KindInt, fn.Params[0].Type.Kind)
	require.NotNil(t, fn.ResultType)
	assert.Equal(t, ast.KindInt, fn.ResultType.Kind)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)
}

func TestParseVarDeclAndCompoundAssign(t *testing.T) {
	mod := parseOK(t, "fn f() =>\n    var x: int = 1\n    x += 2\n")
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	require.Len(t, fn.Body.Stmts, 2)

	decl, ok := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	require.True(t, ok)
	assert.Equal(t, ast.DeclVar, decl.Kind)
	assert.Equal(t, "x", decl.Name)
	lit, ok := decl.Init.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value)

	assign, ok := fn.Body.Stmts[1].(*ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, ast.AssignAdd, assign.Op)
	target, ok := assign.Target.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "x", target.Name)
}

func TestParseIfElse(t *testing.T) {
	mod := parseOK(t, "fn f(x: int) =>\n    if x > 0 =>\n        return 1\n    else =>\n        return 0\n")
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	require.Len(t, fn.Body.Stmts, 1)
	ifs, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	bin := ifs.Cond.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpGt, bin.Op)
	require.Len(t, ifs.Then.Stmts, 1)
	require.NotNil(t, ifs.Else)
	require.Len(t, ifs.Else.Stmts, 1)
}

func TestParseElseIfChain(t *testing.T) {
	mod := parseOK(t, "fn f(x: int) =>\n    if x > 0 =>\n        return 1\n    else if x < 0 =>\n        return -1\n    else =>\n        return 0\n")
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	ifs := fn.Body.Stmts[0].(*ast.IfStmt)
	require.NotNil(t, ifs.Else)
	require.Len(t, ifs.Else.Stmts, 1)
	_, ok := ifs.Else.Stmts[0].(*ast.IfStmt)
	assert.True(t, ok, "else-if should nest as an IfStmt inside Else")
}

func TestParseWhileLoop(t *testing.T) {
	mod := parseOK(t, "fn f() =>\n    var x: int = 0\n    while x < 10 =>\n        x += 1\n")
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	require.Len(t, fn.Body.Stmts, 2)
	w, ok := fn.Body.Stmts[1].(*ast.WhileStmt)
	require.True(t, ok)
	require.Len(t, w.Body.Stmts, 1)
}

func TestParseForInRange(t *testing.T) {
	mod := parseOK(t, "fn f() =>\n    for i in 0..10 =>\n        print(i)\n")
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	loop, ok := fn.Body.Stmts[0].(*ast.ForInStmt)
	require.True(t, ok)
	assert.Equal(t, "i", loop.Var)
	rng, ok := loop.Iterable.(*ast.RangeExpr)
	require.True(t, ok)
	assert.Equal(t, int64(0), rng.Start.(*ast.IntLit).Value)
	assert.Equal(t, int64(10), rng.End.(*ast.IntLit).Value)
	require.Len(t, loop.Body.Stmts, 1)
	call, ok := loop.Body.Stmts[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
}

func TestParseMatchWithWildcard(t *testing.T) {
	src := "fn f(x: int): int =>\n    match x =>\n        1 => return 10\n        else => return 0\n"
	mod := parseOK(t, src)
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	m, ok := fn.Body.Stmts[0].(*ast.MatchStmt)
	require.True(t, ok)
	require.Len(t, m.Arms, 2)
	assert.NotNil(t, m.Arms[0].Pattern)
	assert.Nil(t, m.Arms[1].Pattern, "wildcard arm (else) has a nil pattern")
}

func TestParseStructDeclWithDefaultAndStatic(t *testing.T) {
	mod := parseOK(t, "struct Point =>\n    x: int\n    y: int = 0\n    static origin: int = 0\n")
	sd, ok := mod.Stmts[0].(*ast.StructDeclStmt)
	require.True(t, ok)
	assert.Equal(t, "Point", sd.Name)
	require.Len(t, sd.Fields, 2)
	assert.Equal(t, "x", sd.Fields[0].Name)
	assert.Nil(t, sd.Fields[0].Default)
	assert.Equal(t, "y", sd.Fields[1].Name)
	require.NotNil(t, sd.Fields[1].Default)
	require.Len(t, sd.Static, 1)
	assert.Equal(t, "origin", sd.Static[0].Name)
}

func TestParseLockAndSyncStmts(t *testing.T) {
	mod := parseOK(t, "fn f(h: int) =>\n    lock (h) =>\n        h += 1\n    sync (h) =>\n        h += 2\n")
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	require.Len(t, fn.Body.Stmts, 2)
	lk, ok := fn.Body.Stmts[0].(*ast.LockStmt)
	require.True(t, ok)
	require.Len(t, lk.Body.Stmts, 1)
	sy, ok := fn.Body.Stmts[1].(*ast.SyncStmt)
	require.True(t, ok)
	require.Len(t, sy.Threads, 1)
	require.Len(t, sy.Body.Stmts, 1)
}

func TestParseStructLiteralAndLambda(t *testing.T) {
	mod := parseOK(t, "fn f() =>\n    var p = Point { x: 1, y: 2 }\n    var cb = fn(n: int): int => n\n")
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	require.Len(t, fn.Body.Stmts, 2)

	decl := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	lit, ok := decl.Init.(*ast.StructLiteralExpr)
	require.True(t, ok)
	assert.Equal(t, "Point", lit.StructName)
	require.Len(t, lit.Fields, 2)
	assert.Equal(t, "x", lit.Fields[0].Name)

	cb := fn.Body.Stmts[1].(*ast.VarDeclStmt)
	lam, ok := cb.Init.(*ast.LambdaExpr)
	require.True(t, ok)
	require.Len(t, lam.Params, 1)
	assert.Equal(t, "n", lam.Params[0].Name)
	require.Len(t, lam.Body, 1)
}

func TestParseInterpolatedStringExpression(t *testing.T) {
	mod := parseOK(t, `fn f(x: int) =>
    var s = $"x={x}"
`)
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	decl := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	lit, ok := decl.Init.(*ast.InterpStringLit)
	require.True(t, ok)
	require.Len(t, lit.Parts, 2)
	assert.Equal(t, "x=", lit.Parts[0].Literal)
	require.NotNil(t, lit.Parts[1].Expr)
	ident, ok := lit.Parts[1].Expr.(*ast.Ident)
	require.True(t, ok)
	assert.Equal(t, "x", ident.Name)
}

func TestParsePrivateBlock(t *testing.T) {
	mod := parseOK(t, "fn f() =>\n    private =>\n        var x: int = 1\n")
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	pb, ok := fn.Body.Stmts[0].(*ast.PrivateBlockStmt)
	require.True(t, ok)
	require.Len(t, pb.Body.Stmts, 1)
}

func TestParseAsValAndIsExpr(t *testing.T) {
	mod := parseOK(t, "fn f() =>\n    var a = x as val\n    var b = x is int\n")
	fn := mod.Stmts[0].(*ast.FnDeclStmt)
	decl := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	asExpr, ok := decl.Init.(*ast.AsExpr)
	require.True(t, ok)
	assert.Equal(t, ast.QualVal, asExpr.Qualifier)

	decl2 := fn.Body.Stmts[1].(*ast.VarDeclStmt)
	isExpr, ok := decl2.Init.(*ast.IsExpr)
	require.True(t, ok)
	assert.Equal(t, ast.KindInt, isExpr.Target.Kind)
}
