package codegen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/codegen"
	"github.com/langc/langc/optimize"
	"github.com/langc/langc/parser"
	"github.com/langc/langc/reporter"
	"github.com/langc/langc/sema"
)

// checked runs the same lex -> parse -> sema -> optimize pipeline
// cmd/langc drives before handing a module to codegen.Generate.
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

func generate(t *testing.T, src string) string {
	t.Helper()
	mod := checked(t, src)
	text, err := codegen.Generate(mod)
	require.NoError(t, err)
	return text
}

func TestGenerateMangledFunctionSignature(t *testing.T) {
	text := generate(t, "fn add(a: int, b: int): int =>\n    return a + b\n")
	assert.Contains(t, text, "int64_t __sn__add(int64_t a, int64_t b)")
}

func TestGeneratePrimitiveOnlyFunctionSkipsArena(t *testing.T) {
	text := generate(t, "fn add(a: int, b: int): int =>\n    return a + b\n")
	sig := text[strings.Index(text, "int64_t __sn__add("):]
	sig = sig[:strings.IndexByte(sig, ')')]
	assert.NotContains(t, sig, "RtArena", "a primitive-only function must not carry an arena parameter")
}

func TestGenerateStringFunctionThreadsArena(t *testing.T) {
	text := generate(t, "fn f(): str =>\n    var s: str = \"hi\"\n    return s\n")
	assert.Contains(t, text, "RtArena *arena")
}

func TestGenerateSelfTailCallBecomesLoop(t *testing.T) {
	src := "fn loop(n: int): int =>\n" +
		"    if n <= 0 =>\n" +
		"        return 0\n" +
		"    return loop(n - 1)\n"
	text := generate(t, src)
	assert.Contains(t, text, "tail_call___sn__loop:")
	assert.Contains(t, text, "goto tail_call___sn__loop;")
}

func TestGenerateStructEmitsCallbacksForHandleBearingFields(t *testing.T) {
	src := "struct Box =>\n    s: str\n" +
		"fn f(b: Box): str =>\n    return b.s\n"
	text := generate(t, src)
	assert.Contains(t, text, "struct __sn__Box {")
	assert.Contains(t, text, "__copy_Box__")
	assert.Contains(t, text, "__free_Box__")
}

func TestGenerateLambdaIsHoistedAsStandaloneFunction(t *testing.T) {
	src := "fn f(): int =>\n    var cb = fn(n: int): int => n + 1\n    return cb(41)\n"
	text := generate(t, src)
	assert.Contains(t, text, "__lambda_env_", "expected a per-lambda captured-variable struct")
	assert.Contains(t, text, "__lambda_0(RtArena *arena, __lambda_env_0 __env, int64_t n)")
	assert.Contains(t, text, "rt_closure_make(__lambda_0, arena, (__lambda_env_0){")
}

func TestGenerateLambdaCaptureBecomesEnvField(t *testing.T) {
	src := "fn f(): int =>\n    var base: int = 10\n    var cb = fn(n: int): int => n + base\n    return cb(32)\n"
	text := generate(t, src)
	assert.Contains(t, text, "int64_t base;", "expected the captured outer variable as an env struct field")
	assert.Contains(t, text, "rt_closure_make(__lambda_0, arena, (__lambda_env_0){base})")
}
