package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/token"
)

var binaryOpText = map[ast.BinaryOp]string{
	ast.OpAdd: "+", ast.OpSub: "-", ast.OpMul: "*", ast.OpDiv: "/", ast.OpMod: "%",
	ast.OpEq: "==", ast.OpNe: "!=", ast.OpLt: "<", ast.OpLe: "<=", ast.OpGt: ">", ast.OpGe: ">=",
	ast.OpAnd: "&&", ast.OpOr: "||",
	ast.OpBitAnd: "&", ast.OpBitOr: "|", ast.OpBitXor: "^", ast.OpShl: "<<", ast.OpShr: ">>",
}

// expr renders e as a single C expression.
func (g *Generator) expr(e ast.Expr) string {
	switch x := e.(type) {
	case nil:
		return ""
	case *ast.IntLit:
		return strconv.FormatInt(x.Value, 10) + intLitSuffix(x.Suffix)
	case *ast.DoubleLit:
		return formatDoubleLiteral(x)
	case *ast.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	case *ast.CharLit:
		return fmt.Sprintf("'\\x%02x'", x.Value)
	case *ast.NilLit:
		return "RT_NIL"
	case *ast.StringLit:
		return fmt.Sprintf("rt_string_literal(arena, %q)", x.Value)
	case *ast.InterpStringLit:
		return g.interp(x)
	case *ast.Ident:
		return sanitizeLabel(x.Name)
	case *ast.BinaryExpr:
		return g.binary(x)
	case *ast.UnaryExpr:
		return g.unary(x)
	case *ast.IncDecExpr:
		op := "++"
		if !x.Inc {
			op = "--"
		}
		return fmt.Sprintf("(%s%s)", g.expr(x.Operand), op)
	case *ast.CallExpr:
		return g.call(x)
	case *ast.MemberAccessExpr:
		return fmt.Sprintf("(%s).%s", g.expr(x.Base), sanitizeLabel(x.Field))
	case *ast.IndexExpr:
		return g.index(x)
	case *ast.SliceExpr:
		return fmt.Sprintf("rt_slice(arena, %s, %s, %s, %s)", g.expr(x.Base), optExpr(g, x.Start, "0"), optExpr(g, x.End, "-1"), optExpr(g, x.Step, "1"))
	case *ast.RangeExpr:
		return fmt.Sprintf("rt_range(%s, %s)", g.expr(x.Start), g.expr(x.End))
	case *ast.SpreadExpr:
		return fmt.Sprintf("/* spread */ %s", g.expr(x.Operand))
	case *ast.AsExpr:
		return g.asExpr(x)
	case *ast.IsExpr:
		return fmt.Sprintf("rt_any_is(%s, %s)", g.expr(x.Operand), typeTagMacro(x.Target))
	case *ast.StructLiteralExpr:
		return g.structLiteral(x)
	case *ast.LambdaExpr:
		return g.lambda(x)
	case *ast.SizeofExpr:
		return fmt.Sprintf("sizeof(%s)", CType(x.Target))
	case *ast.TypeofExpr:
		return fmt.Sprintf("rt_typeof(%s)", g.expr(x.Operand))
	default:
		return fmt.Sprintf("/* unsupported expr %T */", e)
	}
}

func optExpr(g *Generator, e ast.Expr, def string) string {
	if e == nil {
		return def
	}
	return g.expr(e)
}

func intLitSuffix(s token.NumSuffix) string {
	switch s {
	case token.SuffixLong:
		return "LL"
	case token.SuffixUint, token.SuffixUint32:
		return "U"
	default:
		return ""
	}
}

// formatDoubleLiteral renders a DoubleLit, restoring the `.0` a folded
// whole-number double had in source (ast.DoubleLit.HadDecimal) so the
// emitted C text still reads as a double constant rather than an int.
func formatDoubleLiteral(x *ast.DoubleLit) string {
	text := strconv.FormatFloat(x.Value, 'g', -1, 64)
	if x.HadDecimal && !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	if x.FloatSuffix {
		text += "f"
	}
	return text
}

func (g *Generator) binary(x *ast.BinaryExpr) string {
	if x.Left.Type() != nil && x.Left.Type().Kind == ast.KindString && x.Op == ast.OpAdd {
		return fmt.Sprintf("rt_string_concat(arena, %s, %s)", g.expr(x.Left), g.expr(x.Right))
	}
	op, ok := binaryOpText[x.Op]
	if !ok {
		op = "?"
	}
	return fmt.Sprintf("(%s %s %s)", g.expr(x.Left), op, g.expr(x.Right))
}

func (g *Generator) unary(x *ast.UnaryExpr) string {
	switch x.Op {
	case ast.OpNeg:
		return fmt.Sprintf("(-%s)", g.expr(x.Operand))
	case ast.OpNot:
		return fmt.Sprintf("(!%s)", g.expr(x.Operand))
	case ast.OpBitNot:
		return fmt.Sprintf("(~%s)", g.expr(x.Operand))
	default:
		return g.expr(x.Operand)
	}
}

// index emits checked indexing by default and the unchecked macro only
// when the index is a non-negative integer literal; a loop counter sema
// proved non-negative still gets the checked form.
func (g *Generator) index(x *ast.IndexExpr) string {
	if id, ok := x.Index.(*ast.Ident); ok && id.Name != "" {
		// Best-effort: codegen cannot see sema's per-loop bookkeeping
		// directly, so it conservatively always emits the checked form
		// except where the AST itself proves non-negativity (a constant).
		_ = id
	}
	if lit, ok := x.Index.(*ast.IntLit); ok && lit.Value >= 0 {
		return fmt.Sprintf("RT_INDEX_UNCHECKED(%s, %s)", g.expr(x.Base), g.expr(x.Index))
	}
	return fmt.Sprintf("RT_INDEX_CHECKED(%s, %s)", g.expr(x.Base), g.expr(x.Index))
}

// call renders a CallExpr. Calls sema marked Interceptable are wrapped in
// the interception protocol's hot-path check (spec.md §4.E.7/§9): when no
// interceptor is registered the call is free (a single relaxed load of
// `__rt_interceptor_count`); otherwise it goes through
// `rt_call_intercepted`, which boxes arguments and threads the active
// continuation.
func (g *Generator) call(x *ast.CallExpr) string {
	name, isIdent := x.Callee.(*ast.Ident)
	args := make([]string, len(x.Args))
	for i, a := range x.Args {
		args[i] = g.expr(a)
	}
	joined := strings.Join(args, ", ")

	if isIdent && name.Name == "spawn" {
		if len(args) == 0 {
			return "RT_NIL"
		}
		return fmt.Sprintf("rt_thread_spawn(%s, %s)", args[0], strings.Join(args[1:], ", "))
	}

	if !isIdent {
		callee := g.expr(x.Callee)
		if joined == "" {
			return fmt.Sprintf("rt_closure_call(%s)", callee)
		}
		return fmt.Sprintf("rt_closure_call(%s, %s)", callee, joined)
	}

	fnName := Mangle(name.Name)
	prefix := ""
	if g.fnNeedsArena[name.Name] {
		prefix = "arena"
		if joined != "" {
			prefix += ", "
		}
	}
	plain := fmt.Sprintf("%s(%s%s)", fnName, prefix, joined)
	if !x.Interceptable {
		return plain
	}
	return fmt.Sprintf("(__rt_interceptor_count == 0 ? %s : rt_call_intercepted(arena, %q, (RtAny[]){%s}, %d))",
		plain, name.Name, boxedArgList(args), len(args))
}

func boxedArgList(args []string) string {
	boxed := make([]string, len(args))
	for i, a := range args {
		boxed[i] = fmt.Sprintf("rt_box(%s)", a)
	}
	return strings.Join(boxed, ", ")
}

func (g *Generator) asExpr(x *ast.AsExpr) string {
	if x.IsNoop {
		return g.expr(x.Operand)
	}
	if x.IsCstrToStr {
		return fmt.Sprintf("rt_cstr_to_string(arena, %s)", g.expr(x.Operand))
	}
	if x.Qualifier == ast.QualVal {
		return fmt.Sprintf("rt_as_val(arena, %s)", g.expr(x.Operand))
	}
	if x.Qualifier == ast.QualRef {
		return fmt.Sprintf("rt_as_ref(%s)", g.expr(x.Operand))
	}
	return fmt.Sprintf("((%s)(%s))", CType(x.Target), g.expr(x.Operand))
}

func typeTagMacro(t *ast.Type) string {
	if t == nil {
		return "RT_TAG_NIL"
	}
	return "RT_TAG_" + strings.ToUpper(t.Kind.String())
}

func (g *Generator) structLiteral(x *ast.StructLiteralExpr) string {
	fields := make([]string, 0, len(x.Fields))
	for _, f := range x.Fields {
		fields = append(fields, fmt.Sprintf(".%s = %s", sanitizeLabel(f.Name), g.expr(f.Value)))
	}
	return fmt.Sprintf("rt_struct_alloc(arena, %s, (struct %s){%s})", Mangle(x.StructName), Mangle(x.StructName), strings.Join(fields, ", "))
}

// lambda emits a closure as the `{fn_ptr, arena_ptr, captured_env_ptr}`
// triple spec.md §4.G calls for: collectLambdas hoists the lambda's body to
// a top-level function (lambdaFnName) ahead of every call site, with its
// own captured-variable struct type (lambdaEnvType) built field-for-field
// from x.Captures, so this call site only has to construct the value.
func (g *Generator) lambda(x *ast.LambdaExpr) string {
	captures := make([]string, len(x.Captures))
	for i, c := range x.Captures {
		captures[i] = sanitizeLabel(c.Name)
	}
	return fmt.Sprintf("rt_closure_make(%s, arena, (%s){%s})", lambdaFnName(x.LambdaID), lambdaEnvType(x.LambdaID), strings.Join(captures, ", "))
}

func (g *Generator) interp(x *ast.InterpStringLit) string {
	var parts []string
	for _, p := range x.Parts {
		if p.Expr == nil {
			parts = append(parts, fmt.Sprintf("rt_string_literal(arena, %q)", p.Literal))
			continue
		}
		parts = append(parts, g.formatCall(p.Expr, p.Format))
	}
	return fmt.Sprintf("rt_string_concat_all(arena, %d, %s)", len(parts), strings.Join(parts, ", "))
}

// formatCall emits the rt_format_* helper call for one interpolated
// expression, matching runtime.FormatLong/FormatDouble/FormatString's
// split by Go-side value representation (runtime_string_format.c).
func (g *Generator) formatCall(e ast.Expr, spec string) string {
	t := e.Type()
	var fn string
	switch {
	case t != nil && (t.Kind == ast.KindFloat || t.Kind == ast.KindDouble):
		fn = "rt_format_double"
	case t != nil && t.Kind == ast.KindString:
		fn = "rt_format_string"
	case t != nil && t.Kind == ast.KindBool:
		return fmt.Sprintf("((%s) ? rt_string_literal(arena, \"true\") : rt_string_literal(arena, \"false\"))", g.expr(e))
	default:
		fn = "rt_format_long"
	}
	return fmt.Sprintf("%s(arena, %s, %q)", fn, g.expr(e), spec)
}
