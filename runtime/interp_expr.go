package runtime

import (
	"fmt"
	"strings"

	"github.com/langc/langc/ast"
)

func (it *Interp) evalExpr(expr ast.Expr, e *env) any {
	switch x := expr.(type) {
	case *ast.IntLit:
		return x.Value
	case *ast.DoubleLit:
		return x.Value
	case *ast.BoolLit:
		return x.Value
	case *ast.CharLit:
		return x.Value
	case *ast.NilLit:
		return nil
	case *ast.StringLit:
		return e.arena.Alloc(x.Value, nil, nil)
	case *ast.InterpStringLit:
		return e.arena.Alloc(it.evalInterp(x, e), nil, nil)
	case *ast.Ident:
		v, ok := e.get(x.Name)
		if !ok {
			if fn, ok2 := it.fns[x.Name]; ok2 {
				return e.arena.Alloc(closureValue{fn: fn}, closureCopyCB, nil)
			}
			panic(fmt.Sprintf("runtime: undefined identifier %q", x.Name))
		}
		return v
	case *ast.BinaryExpr:
		return it.evalBinary(x, e)
	case *ast.UnaryExpr:
		return it.evalUnary(x, e)
	case *ast.IncDecExpr:
		return it.evalIncDec(x, e)
	case *ast.CallExpr:
		return it.call(x, e)
	case *ast.MemberAccessExpr:
		return it.evalMemberAccess(x, e)
	case *ast.IndexExpr:
		return it.evalIndex(x, e)
	case *ast.SliceExpr:
		return it.evalSlice(x, e)
	case *ast.RangeExpr:
		return rangeValue{start: it.evalExpr(x.Start, e).(int64), end: it.evalExpr(x.End, e).(int64)}
	case *ast.SpreadExpr:
		return it.evalExpr(x.Operand, e)
	case *ast.AsExpr:
		return it.evalAs(x, e)
	case *ast.IsExpr:
		return it.evalIs(x, e)
	case *ast.StructLiteralExpr:
		return it.evalStructLiteral(x, e)
	case *ast.LambdaExpr:
		captured := make(map[string]any, len(x.Captures))
		for _, c := range x.Captures {
			if v, ok := e.get(c.Name); ok {
				captured[c.Name] = v
			}
		}
		return e.arena.Alloc(closureValue{lambda: x, captured: captured}, closureCopyCB, nil)
	case *ast.SizeofExpr:
		if x.Target != nil {
			return int64(x.Target.Size())
		}
		return int64(0)
	case *ast.TypeofExpr:
		return e.arena.Alloc(x.Operand.Type().String(), nil, nil)
	default:
		panic(fmt.Sprintf("runtime: unsupported expression %T", expr))
	}
}

func (it *Interp) evalInterp(x *ast.InterpStringLit, e *env) string {
	var b strings.Builder
	for _, part := range x.Parts {
		if part.Expr == nil {
			b.WriteString(part.Literal)
			continue
		}
		v := it.evalExpr(part.Expr, e)
		b.WriteString(it.formatValue(v, part.Expr.Type(), part.Format))
	}
	return b.String()
}

func (it *Interp) formatValue(v any, t *ast.Type, spec string) string {
	var kind ast.Kind
	if t != nil {
		kind = t.Kind
	}
	switch kind {
	case ast.KindFloat, ast.KindDouble:
		return FormatDouble(v.(float64), spec)
	case ast.KindString:
		return FormatString(it.derefString(v), spec)
	case ast.KindBool:
		if v.(bool) {
			return "true"
		}
		return "false"
	case ast.KindChar:
		return string(rune(v.(byte)))
	default:
		if n, ok := asInt64(v); ok {
			return FormatLong(n, spec)
		}
		return fmt.Sprintf("%v", v)
	}
}

func (it *Interp) derefString(v any) string {
	h, ok := v.(Handle)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	raw, err := h.arena.Get(h)
	if err != nil {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case byte:
		return int64(x), true
	default:
		return 0, false
	}
}

func asFloat64(v any) (float64, bool) {
	if f, ok := v.(float64); ok {
		return f, true
	}
	if n, ok := asInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}

func (it *Interp) evalBinary(x *ast.BinaryExpr, e *env) any {
	if x.Op == ast.OpAnd {
		l := it.evalExpr(x.Left, e).(bool)
		if !l {
			return false
		}
		return it.evalExpr(x.Right, e).(bool)
	}
	if x.Op == ast.OpOr {
		l := it.evalExpr(x.Left, e).(bool)
		if l {
			return true
		}
		return it.evalExpr(x.Right, e).(bool)
	}
	lv := it.evalExpr(x.Left, e)
	rv := it.evalExpr(x.Right, e)

	if x.Left.Type() != nil && x.Left.Type().Kind == ast.KindString {
		if x.Op == ast.OpAdd {
			return e.arena.Alloc(it.derefString(lv)+it.derefString(rv), nil, nil)
		}
		return stringCompare(x.Op, it.derefString(lv), it.derefString(rv))
	}

	isFloat := (x.Left.Type() != nil && (x.Left.Type().Kind == ast.KindFloat || x.Left.Type().Kind == ast.KindDouble)) ||
		(x.Right.Type() != nil && (x.Right.Type().Kind == ast.KindFloat || x.Right.Type().Kind == ast.KindDouble))
	if isFloat {
		lf, _ := asFloat64(lv)
		rf, _ := asFloat64(rv)
		return floatBinary(x.Op, lf, rf)
	}
	li, _ := asInt64(lv)
	ri, _ := asInt64(rv)
	return intBinary(x.Op, li, ri)
}

func intBinary(op ast.BinaryOp, l, r int64) any {
	switch op {
	case ast.OpAdd:
		return l + r
	case ast.OpSub:
		return l - r
	case ast.OpMul:
		return l * r
	case ast.OpDiv:
		return l / r
	case ast.OpMod:
		return l % r
	case ast.OpBitAnd:
		return l & r
	case ast.OpBitOr:
		return l | r
	case ast.OpBitXor:
		return l ^ r
	case ast.OpShl:
		return l << uint(r)
	case ast.OpShr:
		return l >> uint(r)
	case ast.OpEq:
		return l == r
	case ast.OpNe:
		return l != r
	case ast.OpLt:
		return l < r
	case ast.OpLe:
		return l <= r
	case ast.OpGt:
		return l > r
	case ast.OpGe:
		return l >= r
	default:
		panic("runtime: unsupported integer operator")
	}
}

func floatBinary(op ast.BinaryOp, l, r float64) any {
	switch op {
	case ast.OpAdd:
		return l + r
	case ast.OpSub:
		return l - r
	case ast.OpMul:
		return l * r
	case ast.OpDiv:
		return l / r
	case ast.OpEq:
		return l == r
	case ast.OpNe:
		return l != r
	case ast.OpLt:
		return l < r
	case ast.OpLe:
		return l <= r
	case ast.OpGt:
		return l > r
	case ast.OpGe:
		return l >= r
	default:
		panic("runtime: unsupported float operator")
	}
}

func stringCompare(op ast.BinaryOp, l, r string) any {
	switch op {
	case ast.OpEq:
		return l == r
	case ast.OpNe:
		return l != r
	case ast.OpLt:
		return l < r
	case ast.OpLe:
		return l <= r
	case ast.OpGt:
		return l > r
	case ast.OpGe:
		return l >= r
	default:
		panic("runtime: unsupported string operator")
	}
}

func (it *Interp) evalUnary(x *ast.UnaryExpr, e *env) any {
	v := it.evalExpr(x.Operand, e)
	switch x.Op {
	case ast.OpNot:
		return !v.(bool)
	case ast.OpNeg:
		if f, ok := v.(float64); ok {
			return -f
		}
		n, _ := asInt64(v)
		return -n
	case ast.OpBitNot:
		n, _ := asInt64(v)
		return ^n
	default:
		panic("runtime: unsupported unary operator")
	}
}

func (it *Interp) evalIncDec(x *ast.IncDecExpr, e *env) any {
	cur := it.evalExpr(x.Operand, e)
	n, _ := asInt64(cur)
	var next int64
	if x.Inc {
		next = n + 1
	} else {
		next = n - 1
	}
	if id, ok := x.Operand.(*ast.Ident); ok {
		e.set(id.Name, next)
	}
	return n // postfix: value before the update
}

func applyCompound(op ast.AssignOp, cur, val any, t *ast.Type) any {
	bop := map[ast.AssignOp]ast.BinaryOp{
		ast.AssignAdd: ast.OpAdd,
		ast.AssignSub: ast.OpSub,
		ast.AssignMul: ast.OpMul,
		ast.AssignDiv: ast.OpDiv,
		ast.AssignMod: ast.OpMod,
	}[op]
	if t != nil && (t.Kind == ast.KindFloat || t.Kind == ast.KindDouble) {
		lf, _ := asFloat64(cur)
		rf, _ := asFloat64(val)
		return floatBinary(bop, lf, rf)
	}
	li, _ := asInt64(cur)
	ri, _ := asInt64(val)
	return intBinary(bop, li, ri)
}

func (it *Interp) evalMemberAccess(x *ast.MemberAccessExpr, e *env) any {
	base := it.evalExpr(x.Base, e)
	h, ok := base.(Handle)
	if !ok {
		panic("runtime: member access on a non-struct value")
	}
	raw, err := h.arena.Get(h)
	if err != nil {
		panic(err)
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		panic("runtime: member access on a non-struct handle")
	}
	return fields[x.Field]
}

func (it *Interp) evalIndex(x *ast.IndexExpr, e *env) any {
	base := it.evalExpr(x.Base, e)
	idx, _ := asInt64(it.evalExpr(x.Index, e))
	h, ok := base.(Handle)
	if !ok {
		panic("runtime: index on a non-array value")
	}
	raw, err := h.arena.Get(h)
	if err != nil {
		panic(err)
	}
	switch v := raw.(type) {
	case []any:
		return v[idx]
	case string:
		return v[idx]
	default:
		panic("runtime: index on an unsupported value")
	}
}

func (it *Interp) evalSlice(x *ast.SliceExpr, e *env) any {
	base := it.evalExpr(x.Base, e)
	h, ok := base.(Handle)
	if !ok {
		panic("runtime: slice on a non-array value")
	}
	raw, err := h.arena.Get(h)
	if err != nil {
		panic(err)
	}
	arr, ok := raw.([]any)
	if !ok {
		panic("runtime: slice on a non-array handle")
	}
	start, end := int64(0), int64(len(arr))
	if x.Start != nil {
		start, _ = asInt64(it.evalExpr(x.Start, e))
	}
	if x.End != nil {
		end, _ = asInt64(it.evalExpr(x.End, e))
	}
	step := int64(1)
	if x.Step != nil {
		step, _ = asInt64(it.evalExpr(x.Step, e))
	}
	var out []any
	for i := start; i < end; i += step {
		out = append(out, arr[i])
	}
	return e.arena.Alloc(out, arrayCopyCB, nil)
}

func arrayCopyCB(dest *Arena, value any) any {
	arr := value.([]any)
	out := make([]any, len(arr))
	for i, v := range arr {
		out[i] = promoteValue(dest, v)
	}
	return out
}

func structCopyCB(dest *Arena, value any) any {
	fields := value.(map[string]any)
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = promoteValue(dest, v)
	}
	return out
}

func (it *Interp) evalAs(x *ast.AsExpr, e *env) any {
	v := it.evalExpr(x.Operand, e)
	if x.IsNoop {
		return v
	}
	if x.Qualifier != ast.QualNone {
		return v
	}
	if x.Target == nil {
		return v
	}
	switch x.Target.Kind {
	case ast.KindFloat, ast.KindDouble:
		f, _ := asFloat64(v)
		return f
	case ast.KindInt, ast.KindLong, ast.KindInt32, ast.KindUint, ast.KindUint32, ast.KindByte:
		if f, ok := v.(float64); ok {
			return int64(f)
		}
		n, _ := asInt64(v)
		return n
	default:
		return v
	}
}

func (it *Interp) evalIs(x *ast.IsExpr, e *env) any {
	v := it.evalExpr(x.Operand, e)
	a, ok := v.(Any)
	if !ok {
		return false
	}
	return a.Tag == tagForKind(x.Target.Kind)
}

func (it *Interp) evalStructLiteral(x *ast.StructLiteralExpr, e *env) any {
	fields := make(map[string]any, len(x.Fields))
	for _, f := range x.Fields {
		fields[f.Name] = it.evalExpr(f.Value, e)
	}
	return e.arena.Alloc(fields, structCopyCB, nil)
}

func valuesEqual(a, b any) bool {
	an, aok := asInt64(a)
	bn, bok := asInt64(b)
	if aok && bok {
		return an == bn
	}
	af, aok := asFloat64(a)
	bf, bok := asFloat64(b)
	if aok && bok {
		return af == bf
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
	}
	return false
}
