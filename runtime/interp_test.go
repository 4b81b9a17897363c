package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/optimize"
	"github.com/langc/langc/parser"
	"github.com/langc/langc/reporter"
	"github.com/langc/langc/runtime"
	"github.com/langc/langc/sema"
)

// checked runs the same lex -> parse -> sema -> optimize pipeline cmd/langc
// drives, the pipeline runtime.NewInterp expects its module to have already
// been through.
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

func run(t *testing.T, src, fn string) any {
	t.Helper()
	mod := checked(t, src)
	it := runtime.NewInterp(mod, runtime.NewStdio())
	v, err := it.Run(fn, nil)
	require.NoError(t, err)
	return v
}

func TestInterpEvaluatesArithmetic(t *testing.T) {
	v := run(t, "fn f(): int =>\n    return 2 + 3 * 4\n", "f")
	assert.Equal(t, int64(14), v)
}

func TestInterpIfElse(t *testing.T) {
	src := "fn f(): int =>\n    var x: int = 5\n    if x > 3 =>\n        return 1\n    else =>\n        return 0\n"
	assert.Equal(t, int64(1), run(t, src, "f"))
}

func TestInterpWhileLoop(t *testing.T) {
	src := "fn f(): int =>\n    var x: int = 0\n    while x < 10 =>\n        x += 1\n    return x\n"
	assert.Equal(t, int64(10), run(t, src, "f"))
}

func TestInterpForInRangeAccumulates(t *testing.T) {
	src := "fn f(): int =>\n    var total: int = 0\n    for i in 0..5 =>\n        total += i\n    return total\n"
	assert.Equal(t, int64(10), run(t, src, "f"))
}

func TestInterpFunctionCall(t *testing.T) {
	src := "fn add(a: int, b: int): int =>\n    return a + b\n" +
		"fn f(): int =>\n    return add(3, 4)\n"
	assert.Equal(t, int64(7), run(t, src, "f"))
}

func TestInterpStructFieldAccessAndAssignment(t *testing.T) {
	src := "struct Point =>\n    x: int\n    y: int\n" +
		"fn f(): int =>\n    var p = Point { x: 1, y: 2 }\n    p.x = p.x + p.y\n    return p.x\n"
	assert.Equal(t, int64(3), run(t, src, "f"))
}

func TestInterpMatchStmtWildcard(t *testing.T) {
	src := "fn f(x: int): int =>\n    match x =>\n        1 => return 10\n        else => return 0\n" +
		"fn g(): int =>\n    return f(2)\n"
	assert.Equal(t, int64(0), run(t, src, "g"))
}

func TestInterpLambdaCall(t *testing.T) {
	src := "fn f(): int =>\n    var cb = fn(n: int): int => n + 1\n    return cb(41)\n"
	assert.Equal(t, int64(42), run(t, src, "f"))
}

func TestInterpLambdaCapturesOuterVariable(t *testing.T) {
	src := "fn f(): int =>\n    var base: int = 10\n    var cb = fn(n: int): int => n + base\n    return cb(32)\n"
	assert.Equal(t, int64(42), run(t, src, "f"))
}

func TestInterpPrivateBlockPromotesReturnValue(t *testing.T) {
	src := "fn f(): int =>\n    private =>\n        var x: int = 9\n        return x\n"
	assert.Equal(t, int64(9), run(t, src, "f"))
}
