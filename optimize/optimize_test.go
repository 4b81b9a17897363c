package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/optimize"
	"github.com/langc/langc/parser"
	"github.com/langc/langc/reporter"
	"github.com/langc/langc/sema"
)

// checked parses and type-checks src, then runs the optimizer over the
// result, the same pipeline order cmd/langc drives (lex → parse → sema →
// optimize → codegen).
func checked(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, perrs := parser.Parse("t.sn", []byte(src))
	require.Empty(t, perrs, "unexpected parse errors for %q", src)

	var errs []error
	rep := reporter.NewReporter(func(e reporter.ErrorWithPos) error {
		errs = append(errs, e)
		return nil
	}, nil)
	c := sema.NewChecker(reporter.NewHandler(rep))
	require.NoError(t, c.Check(mod))
	require.Empty(t, errs)

	optimize.Optimize(mod)
	return mod
}

func fnBody(t *testing.T, mod *ast.Module, name string) ast.Block {
	t.Helper()
	for _, s := range mod.Stmts {
		if fd, ok := s.(*ast.FnDeclStmt); ok && fd.Name == name {
			return fd.Body
		}
	}
	t.Fatalf("no fn decl named %q", name)
	return ast.Block{}
}

func TestFoldsConstantIntArithmetic(t *testing.T) {
	mod := checked(t, "shared fn f(): int =>\n    return 2 + 3 * 4\n")
	body := fnBody(t, mod, "f")
	ret := body.Stmts[0].(*ast.ReturnStmt)
	lit, ok := ret.Value.(*ast.IntLit)
	require.True(t, ok, "expected return value to fold to an int literal, got %T", ret.Value)
	assert.Equal(t, int64(14), lit.Value)
}

func TestDoesNotFoldDivisionByZero(t *testing.T) {
	mod := checked(t, "shared fn f(): int =>\n    return 5 / 0\n")
	body := fnBody(t, mod, "f")
	ret := body.Stmts[0].(*ast.ReturnStmt)
	_, isBinary := ret.Value.(*ast.BinaryExpr)
	assert.True(t, isBinary, "division by a zero constant must not be folded away")
}

func TestFoldsComparisonToBoolLiteral(t *testing.T) {
	mod := checked(t, "shared fn f(): bool =>\n    return 3 < 4\n")
	body := fnBody(t, mod, "f")
	ret := body.Stmts[0].(*ast.ReturnStmt)
	lit, ok := ret.Value.(*ast.BoolLit)
	require.True(t, ok, "expected comparison to fold to a bool literal, got %T", ret.Value)
	assert.True(t, lit.Value)
}

func TestSimplifiesAddZeroNoop(t *testing.T) {
	mod := checked(t, "shared fn f(x: int): int =>\n    return x + 0\n")
	body := fnBody(t, mod, "f")
	ret := body.Stmts[0].(*ast.ReturnStmt)
	id, ok := ret.Value.(*ast.Ident)
	require.True(t, ok, "expected `x + 0` to simplify to the bare identifier, got %T", ret.Value)
	assert.Equal(t, "x", id.Name)
}

func TestSimplifiesMultiplyByZeroToZeroLiteral(t *testing.T) {
	mod := checked(t, "shared fn f(x: int): int =>\n    return x * 0\n")
	body := fnBody(t, mod, "f")
	ret := body.Stmts[0].(*ast.ReturnStmt)
	lit, ok := ret.Value.(*ast.IntLit)
	require.True(t, ok, "expected `x * 0` to simplify to a zero literal, got %T", ret.Value)
	assert.Equal(t, int64(0), lit.Value)
}

func TestRemovesUnusedVariableWithoutSideEffects(t *testing.T) {
	mod := checked(t, "shared fn f(): int =>\n    var unused = 1 + 1\n    return 5\n")
	body := fnBody(t, mod, "f")
	require.Len(t, body.Stmts, 1, "dead `unused` declaration should have been removed")
	_, ok := body.Stmts[0].(*ast.ReturnStmt)
	assert.True(t, ok)
}

func TestKeepsUnusedVariableWithCallInitializer(t *testing.T) {
	mod := checked(t, "shared fn g(): int =>\n    return 1\nshared fn f(): int =>\n    var unused = g()\n    return 5\n")
	body := fnBody(t, mod, "f")
	require.Len(t, body.Stmts, 2, "unused declaration with a side-effecting initializer must survive")
	_, ok := body.Stmts[0].(*ast.VarDeclStmt)
	assert.True(t, ok)
}

func TestKeepsUsedVariable(t *testing.T) {
	mod := checked(t, "shared fn f(): int =>\n    var x = 1\n    return x\n")
	body := fnBody(t, mod, "f")
	require.Len(t, body.Stmts, 2)
}

func TestMarksSelfRecursiveTailCall(t *testing.T) {
	mod := checked(t, "shared fn f(n: int): int =>\n    return f(n - 1)\n")
	body := fnBody(t, mod, "f")
	ret := body.Stmts[0].(*ast.ReturnStmt)
	call, ok := ret.Value.(*ast.CallExpr)
	require.True(t, ok)
	assert.True(t, call.IsTailCall)
}

func TestDoesNotMarkNonTailSelfCall(t *testing.T) {
	mod := checked(t, "shared fn f(n: int): int =>\n    var r = f(n - 1)\n    return r\n")
	body := fnBody(t, mod, "f")
	decl := body.Stmts[0].(*ast.VarDeclStmt)
	call, ok := decl.Init.(*ast.CallExpr)
	require.True(t, ok)
	assert.False(t, call.IsTailCall)
}
