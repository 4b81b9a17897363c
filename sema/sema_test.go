package sema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/parser"
	"github.com/langc/langc/reporter"
	"github.com/langc/langc/sema"
)

// check parses src, runs the Checker over it, and returns the module plus
// every diagnostic the reporter collected. The reporter always returns nil
// so the Checker keeps going and accumulates every independent diagnostic
// in one pass, the same "don't abort, keep checking" contract described in
// sema.go.
func check(t *testing.T, src string) (*ast.Module, []error) {
	t.Helper()
	mod, perrs := parser.Parse("t.sn", []byte(src))
	require.Empty(t, perrs, "unexpected parse errors for %q", src)

	var errs []error
	rep := reporter.NewReporter(func(e reporter.ErrorWithPos) error {
		errs = append(errs, e)
		return nil
	}, nil)
	c := sema.NewChecker(reporter.NewHandler(rep))
	_ = c.Check(mod)
	return mod, errs
}

func structDecl(t *testing.T, mod *ast.Module, name string) *ast.StructDeclStmt {
	t.Helper()
	for _, s := range mod.Stmts {
		if sd, ok := s.(*ast.StructDeclStmt); ok && sd.Name == name {
			return sd
		}
	}
	t.Fatalf("no struct decl named %q", name)
	return nil
}

func fnDecl(t *testing.T, mod *ast.Module, name string) *ast.FnDeclStmt {
	t.Helper()
	for _, s := range mod.Stmts {
		if fd, ok := s.(*ast.FnDeclStmt); ok && fd.Name == name {
			return fd
		}
	}
	t.Fatalf("no fn decl named %q", name)
	return nil
}

func TestWideningAllowsCompatibleNumericAssign(t *testing.T) {
	_, errs := check(t, "var x: long = 5\n")
	assert.Empty(t, errs)
}

func TestWideningRejectsSignedUnsignedMixAtSameWidth(t *testing.T) {
	_, errs := check(t, "var y: uint = 5\n")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "cannot initialize")
}

func TestWideningAcceptsMatchingUnsignedSuffix(t *testing.T) {
	_, errs := check(t, "var y: uint = 5u\n")
	assert.Empty(t, errs)
}

func TestWideningMixesIntAndFloatTowardFloat(t *testing.T) {
	mod, errs := check(t, "var z = 1 + 2.0\n")
	require.Empty(t, errs)
	v := mod.Stmts[0].(*ast.VarDeclStmt)
	assert.Equal(t, ast.KindDouble, v.Type.Kind)
}

func TestStructLayoutRegularFieldsAreNaturallyAligned(t *testing.T) {
	src := "struct Point =>\n" +
		"    x: int32\n" +
		"    flag: bool\n" +
		"    label: str\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)

	st := structDecl(t, mod, "Point").ResolvedType.Struct
	require.Len(t, st.Fields, 3)
	assert.Equal(t, 0, st.Fields[0].Offset) // x: int32 at 0
	assert.Equal(t, 4, st.Fields[1].Offset) // flag: bool right after, byte-aligned
	// label: str is reference-like, stored as an 8-byte handle, so it is
	// pushed out to the next 8-byte boundary.
	assert.Equal(t, 8, st.Fields[2].Offset)
	assert.Equal(t, 8, st.Alignment)
	assert.Equal(t, 16, st.Size)
}

func TestStructLayoutPackedHasNoPadding(t *testing.T) {
	src := "struct packed Wire =>\n" +
		"    x: int32\n" +
		"    flag: bool\n" +
		"    y: int32\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)

	st := structDecl(t, mod, "Wire").ResolvedType.Struct
	require.Len(t, st.Fields, 3)
	assert.Equal(t, 0, st.Fields[0].Offset)
	assert.Equal(t, 4, st.Fields[1].Offset)
	assert.Equal(t, 5, st.Fields[2].Offset)
	assert.Equal(t, 1, st.Alignment)
	assert.Equal(t, 9, st.Size)
}

func TestStructLayoutNativeByValueNestingOrdersByDependency(t *testing.T) {
	// Inner is laid out before Outer embeds it by value; toposort.Sort in
	// layout.go must visit Inner first even though Outer is declared first.
	src := "struct native Outer =>\n" +
		"    tag: int32\n" +
		"    inner: Inner\n" +
		"struct native Inner =>\n" +
		"    a: int32\n" +
		"    b: int32\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)

	inner := structDecl(t, mod, "Inner").ResolvedType.Struct
	assert.Equal(t, 8, inner.Size)

	outer := structDecl(t, mod, "Outer").ResolvedType.Struct
	require.Len(t, outer.Fields, 2)
	assert.Equal(t, 0, outer.Fields[0].Offset)
	// inner is embedded by value (native struct), so it occupies its own
	// 8 bytes inline rather than an 8-byte handle to a separately-owned
	// allocation; same size here, but it must come after tag, not before.
	assert.Equal(t, 4, outer.Fields[1].Offset)
	assert.Equal(t, 12, outer.Size)
}

func TestAsRefRejectsNonPrimitive(t *testing.T) {
	src := "struct Point =>\n" +
		"    x: int\n" +
		"fn f(p: Point): void =>\n" +
		"    p as ref\n"
	_, errs := check(t, src)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "as ref")
}

func TestAsRefAcceptsPrimitive(t *testing.T) {
	_, errs := check(t, "fn f(x: int): void =>\n    x as ref\n")
	assert.Empty(t, errs)
}

func TestAsValOnArrayIsNoop(t *testing.T) {
	src := "fn f(xs: int[]): void =>\n    xs as val\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "f")
	stmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	asExpr := stmt.Expr.(*ast.AsExpr)
	assert.True(t, asExpr.IsNoop)
}

func TestAsValOnCharPointerConvertsToString(t *testing.T) {
	src := "fn f(s: *char): void =>\n    s as val\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "f")
	stmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	asExpr := stmt.Expr.(*ast.AsExpr)
	assert.True(t, asExpr.IsCstrToStr)
	assert.Equal(t, ast.KindString, asExpr.Type().Kind)
}

func TestEscapeOnReturnMarksEscapesAndHeapAllocForReferenceLike(t *testing.T) {
	src := "fn f(): str =>\n" +
		"    var s: str = \"hi\"\n" +
		"    return s\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "f")
	ret := fn.Body.Stmts[1].(*ast.ReturnStmt)
	id := ret.Value.(*ast.Ident)
	assert.True(t, id.EscapesScope)
	assert.True(t, id.NeedsHeapAlloc)
}

func TestEscapeDoesNotApplyToParameters(t *testing.T) {
	src := "fn f(s: str): str =>\n    return s\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "f")
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	id := ret.Value.(*ast.Ident)
	assert.False(t, id.EscapesScope, "parameters do not escape per spec.md's conservatism invariant")
}

func TestEscapeAssignToOuterScopeVariable(t *testing.T) {
	src := "fn f(): void =>\n" +
		"    var outer: str = \"a\"\n" +
		"    if true =>\n" +
		"        var inner: str = \"b\"\n" +
		"        outer = inner\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "f")
	ifStmt := fn.Body.Stmts[1].(*ast.IfStmt)
	assign := ifStmt.Then.Stmts[1].(*ast.AssignStmt)
	id := assign.Value.(*ast.Ident)
	assert.True(t, id.EscapesScope, "inner is assigned into a shallower scope, so it escapes")
}

func TestEscapeAcrossThreadBoundaryOnSpawnArgument(t *testing.T) {
	src := "fn worker(s: str): void =>\n    return\n" +
		"fn f(): void =>\n" +
		"    var payload: str = \"x\"\n" +
		"    spawn(worker, payload)\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "f")
	exprStmt := fn.Body.Stmts[1].(*ast.ExprStmt)
	call := exprStmt.Expr.(*ast.CallExpr)
	payload := call.Args[1].(*ast.Ident)
	assert.True(t, payload.EscapesScope, "spawn arguments always escape across the thread boundary")
}

func TestStructLiteralFillsOmittedDefaultedField(t *testing.T) {
	src := "struct Point =>\n" +
		"    x: int\n" +
		"    y: int = 0\n" +
		"fn f(): void =>\n" +
		"    var p = Point{x: 1}\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "f")
	v := fn.Body.Stmts[0].(*ast.VarDeclStmt)
	lit := v.Init.(*ast.StructLiteralExpr)
	require.Equal(t, 2, lit.TotalFieldCount)
	assert.Equal(t, []bool{true, true}, lit.FieldsInitialized)
	require.Len(t, lit.Fields, 2)
	assert.Equal(t, "x", lit.Fields[0].Name)
	assert.False(t, lit.Fields[0].IsDefault)
	assert.Equal(t, "y", lit.Fields[1].Name)
	assert.True(t, lit.Fields[1].IsDefault)
}

func TestStructLiteralOmittedRequiredFieldIsError(t *testing.T) {
	src := "struct Point =>\n" +
		"    x: int\n" +
		"    y: int\n" +
		"fn f(): void =>\n" +
		"    var p = Point{x: 1}\n"
	_, errs := check(t, src)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "required")
}

func TestStructLiteralUnknownFieldNameIsError(t *testing.T) {
	src := "struct Point =>\n" +
		"    x: int\n" +
		"fn f(): void =>\n" +
		"    var p = Point{x: 1, z: 2}\n"
	_, errs := check(t, src)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no field")
}

func TestNestedMemberAccessInheritsBaseScopeDepth(t *testing.T) {
	src := "struct Inner =>\n" +
		"    v: int\n" +
		"struct Outer =>\n" +
		"    inner: Inner\n" +
		"fn f(o: Outer): int =>\n" +
		"    return o.inner.v\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "f")
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	outer := ret.Value.(*ast.MemberAccessExpr) // o.inner.v
	inner := outer.Base.(*ast.MemberAccessExpr) // o.inner
	base := inner.Base.(*ast.Ident)             // o
	assert.Equal(t, base.DeclScopeDepth, inner.ScopeDepth)
	assert.Equal(t, base.DeclScopeDepth, outer.ScopeDepth)
}

func TestInterceptableForOrdinaryFunctionWithPrimitiveSignature(t *testing.T) {
	mod, errs := check(t, "fn add(a: int, b: int): int =>\n    return a + b\n")
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "add")
	assert.True(t, fn.Interceptable)
}

func TestNotInterceptableForNativeFunction(t *testing.T) {
	mod, errs := check(t, "native fn add(a: int, b: int): int =>\n    return a + b\n")
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "add")
	assert.False(t, fn.Interceptable)
	assert.Contains(t, fn.InterceptReason, "native")
}

func TestNotInterceptableWhenParamIsStruct(t *testing.T) {
	src := "struct Point =>\n" +
		"    x: int\n" +
		"fn f(p: Point): void =>\n    return\n"
	mod, errs := check(t, src)
	require.Empty(t, errs)
	fn := fnDecl(t, mod, "f")
	assert.False(t, fn.Interceptable)
	assert.Contains(t, fn.InterceptReason, "not boxable")
}

func TestPrivateFunctionMayReturnPrimitive(t *testing.T) {
	_, errs := check(t, "private fn f(): int =>\n    return 1\n")
	assert.Empty(t, errs)
}

func TestPrivateFunctionMayNotReturnArray(t *testing.T) {
	_, errs := check(t, "private fn f(): int[] =>\n    return nil\n")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "primitive")
}

func TestSharedFunctionMayReturnArray(t *testing.T) {
	_, errs := check(t, "fn f(): int[] =>\n    return nil\n")
	assert.Empty(t, errs)
}

func TestUndefinedNameIsError(t *testing.T) {
	_, errs := check(t, "fn f(): void =>\n    return undefinedThing\n")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "undefined name")
}
