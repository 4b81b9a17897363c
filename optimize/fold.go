package optimize

import (
	"github.com/langc/langc/ast"
	"github.com/langc/langc/token"
)

// foldExpr recursively folds e bottom-up: every sub-expression is folded
// first, then e itself is checked for constant-foldability
// (code_gen_util_fold.c's try_fold_constant) and, failing that, for a
// no-op identity shape (optimizer_util_dead.c's simplify_noop_expr). The
// two were separate passes over separate IRs in the original compiler
// (fold ran at C-emission time, no-op simplification during AST
// optimization); here they are one bottom-up rewrite since both operate on
// the same typed AST and a node can only ever match one of them.
func foldExpr(e ast.Expr) ast.Expr {
	switch ex := e.(type) {
	case *ast.BinaryExpr:
		ex.Left = foldExpr(ex.Left)
		ex.Right = foldExpr(ex.Right)
		if folded := tryFoldBinary(ex); folded != nil {
			return folded
		}
		if simplified := trySimplifyBinaryNoop(ex); simplified != nil {
			return simplified
		}
		return ex
	case *ast.UnaryExpr:
		ex.Operand = foldExpr(ex.Operand)
		if folded := tryFoldUnary(ex); folded != nil {
			return folded
		}
		return ex
	case *ast.IncDecExpr:
		ex.Operand = foldExpr(ex.Operand)
		return ex
	case *ast.CallExpr:
		ex.Callee = foldExpr(ex.Callee)
		for i := range ex.Args {
			ex.Args[i] = foldExpr(ex.Args[i])
		}
		return ex
	case *ast.MemberAccessExpr:
		ex.Base = foldExpr(ex.Base)
		return ex
	case *ast.IndexExpr:
		ex.Base = foldExpr(ex.Base)
		ex.Index = foldExpr(ex.Index)
		return ex
	case *ast.SliceExpr:
		ex.Base = foldExpr(ex.Base)
		if ex.Start != nil {
			ex.Start = foldExpr(ex.Start)
		}
		if ex.End != nil {
			ex.End = foldExpr(ex.End)
		}
		if ex.Step != nil {
			ex.Step = foldExpr(ex.Step)
		}
		return ex
	case *ast.RangeExpr:
		ex.Start = foldExpr(ex.Start)
		ex.End = foldExpr(ex.End)
		return ex
	case *ast.SpreadExpr:
		ex.Operand = foldExpr(ex.Operand)
		return ex
	case *ast.AsExpr:
		ex.Operand = foldExpr(ex.Operand)
		return ex
	case *ast.IsExpr:
		ex.Operand = foldExpr(ex.Operand)
		return ex
	case *ast.InterpStringLit:
		for i := range ex.Parts {
			if ex.Parts[i].Expr != nil {
				ex.Parts[i].Expr = foldExpr(ex.Parts[i].Expr)
			}
		}
		return ex
	case *ast.StructLiteralExpr:
		for i := range ex.Fields {
			ex.Fields[i].Value = foldExpr(ex.Fields[i].Value)
		}
		return ex
	case *ast.LambdaExpr:
		block := optimizeBlock(ast.Block{Stmts: ex.Body})
		ex.Body = block.Stmts
		return ex
	case *ast.SizeofExpr:
		return ex
	case *ast.TypeofExpr:
		ex.Operand = foldExpr(ex.Operand)
		return ex
	default:
		return e
	}
}

// tryFoldBinary folds b when both operands are already-folded literals,
// mirroring try_constant_fold_binary: never folds division or modulo by a
// zero constant (left for the runtime to trap), folds comparisons and
// `and`/`or` of two literals to a bool literal, and promotes an int/double
// mix to double.
func tryFoldBinary(b *ast.BinaryExpr) ast.Expr {
	switch b.Op {
	case ast.OpAnd, ast.OpOr:
		lb, lok := asBoolConst(b.Left)
		rb, rok := asBoolConst(b.Right)
		if !lok || !rok {
			return nil
		}
		if b.Op == ast.OpAnd {
			return ast.NewBoolLit(b.Token(), lb && rb)
		}
		return ast.NewBoolLit(b.Token(), lb || rb)
	}

	li, liok := asIntConst(b.Left)
	ri, riok := asIntConst(b.Right)
	ld, ldok := asDoubleConst(b.Left)
	rd, rdok := asDoubleConst(b.Right)

	switch {
	case liok && riok:
		return foldIntBinary(b, li, ri)
	case (liok || ldok) && (riok || rdok):
		if !ldok {
			ld = float64(li)
		}
		if !rdok {
			rd = float64(ri)
		}
		return foldDoubleBinary(b, ld, rd)
	default:
		return nil
	}
}

func foldIntBinary(b *ast.BinaryExpr, l, r int64) ast.Expr {
	switch b.Op {
	case ast.OpAdd:
		return ast.NewIntLit(b.Token(), l+r, intSuffix(b.Left, b.Right))
	case ast.OpSub:
		return ast.NewIntLit(b.Token(), l-r, intSuffix(b.Left, b.Right))
	case ast.OpMul:
		return ast.NewIntLit(b.Token(), l*r, intSuffix(b.Left, b.Right))
	case ast.OpDiv:
		if r == 0 {
			return nil
		}
		return ast.NewIntLit(b.Token(), l/r, intSuffix(b.Left, b.Right))
	case ast.OpMod:
		if r == 0 {
			return nil
		}
		return ast.NewIntLit(b.Token(), l%r, intSuffix(b.Left, b.Right))
	case ast.OpBitAnd:
		return ast.NewIntLit(b.Token(), l&r, intSuffix(b.Left, b.Right))
	case ast.OpBitOr:
		return ast.NewIntLit(b.Token(), l|r, intSuffix(b.Left, b.Right))
	case ast.OpBitXor:
		return ast.NewIntLit(b.Token(), l^r, intSuffix(b.Left, b.Right))
	case ast.OpShl:
		return ast.NewIntLit(b.Token(), l<<uint(r), intSuffix(b.Left, b.Right))
	case ast.OpShr:
		return ast.NewIntLit(b.Token(), l>>uint(r), intSuffix(b.Left, b.Right))
	case ast.OpEq:
		return ast.NewBoolLit(b.Token(), l == r)
	case ast.OpNe:
		return ast.NewBoolLit(b.Token(), l != r)
	case ast.OpLt:
		return ast.NewBoolLit(b.Token(), l < r)
	case ast.OpLe:
		return ast.NewBoolLit(b.Token(), l <= r)
	case ast.OpGt:
		return ast.NewBoolLit(b.Token(), l > r)
	case ast.OpGe:
		return ast.NewBoolLit(b.Token(), l >= r)
	default:
		return nil
	}
}

// foldDoubleBinary folds a double (or mixed int/double) binary expression.
// The resulting literal always has HadDecimal set, per code_gen_util_fold.c
// appending ".0" to a fold result with no decimal point or exponent: the
// Go float formatting this repo's codegen does later only adds the
// decimal point when HadDecimal is true.
func foldDoubleBinary(b *ast.BinaryExpr, l, r float64) ast.Expr {
	switch b.Op {
	case ast.OpAdd:
		return ast.NewDoubleLit(b.Token(), l+r, true)
	case ast.OpSub:
		return ast.NewDoubleLit(b.Token(), l-r, true)
	case ast.OpMul:
		return ast.NewDoubleLit(b.Token(), l*r, true)
	case ast.OpDiv:
		if r == 0 {
			return nil
		}
		return ast.NewDoubleLit(b.Token(), l/r, true)
	case ast.OpEq:
		return ast.NewBoolLit(b.Token(), l == r)
	case ast.OpNe:
		return ast.NewBoolLit(b.Token(), l != r)
	case ast.OpLt:
		return ast.NewBoolLit(b.Token(), l < r)
	case ast.OpLe:
		return ast.NewBoolLit(b.Token(), l <= r)
	case ast.OpGt:
		return ast.NewBoolLit(b.Token(), l > r)
	case ast.OpGe:
		return ast.NewBoolLit(b.Token(), l >= r)
	default:
		return nil
	}
}

func tryFoldUnary(u *ast.UnaryExpr) ast.Expr {
	if i, ok := asIntConst(u.Operand); ok {
		switch u.Op {
		case ast.OpNeg:
			return ast.NewIntLit(u.Token(), -i, intSuffixOf(u.Operand))
		case ast.OpBitNot:
			return ast.NewIntLit(u.Token(), ^i, intSuffixOf(u.Operand))
		}
	}
	if d, ok := asDoubleConst(u.Operand); ok && u.Op == ast.OpNeg {
		return ast.NewDoubleLit(u.Token(), -d, true)
	}
	if b, ok := asBoolConst(u.Operand); ok && u.Op == ast.OpNot {
		return ast.NewBoolLit(u.Token(), !b)
	}
	return nil
}

// trySimplifyBinaryNoop implements optimizer_util_dead.c's expr_is_noop
// shapes for binary operators: `x + 0`, `0 + x`, `x - 0`, `x * 1`,
// `1 * x`, `x * 0` (and the symmetric `0 * x`), `x and true`,
// `true and x`, `x or false`, `false or x`. Only one side needs to be the
// identity constant; the other need not itself be constant.
func trySimplifyBinaryNoop(b *ast.BinaryExpr) ast.Expr {
	li, liok := asIntConst(b.Left)
	ri, riok := asIntConst(b.Right)
	ld, ldok := asDoubleConst(b.Left)
	rd, rdok := asDoubleConst(b.Right)
	isZero := func(ok bool, i int64, dok bool, d float64) bool {
		return (ok && i == 0) || (dok && d == 0)
	}
	isOne := func(ok bool, i int64, dok bool, d float64) bool {
		return (ok && i == 1) || (dok && d == 1)
	}

	switch b.Op {
	case ast.OpAdd:
		if isZero(riok, ri, rdok, rd) {
			return b.Left
		}
		if isZero(liok, li, ldok, ld) {
			return b.Right
		}
	case ast.OpSub:
		if isZero(riok, ri, rdok, rd) {
			return b.Left
		}
	case ast.OpMul:
		if isOne(riok, ri, rdok, rd) {
			return b.Left
		}
		if isOne(liok, li, ldok, ld) {
			return b.Right
		}
		if isZero(riok, ri, rdok, rd) || isZero(liok, li, ldok, ld) {
			return ast.NewIntLit(b.Token(), 0, token.NoSuffix)
		}
	case ast.OpAnd:
		if lb, ok := asBoolConst(b.Left); ok && lb {
			return b.Right
		}
		if rb, ok := asBoolConst(b.Right); ok && rb {
			return b.Left
		}
	case ast.OpOr:
		if lb, ok := asBoolConst(b.Left); ok && !lb {
			return b.Right
		}
		if rb, ok := asBoolConst(b.Right); ok && !rb {
			return b.Left
		}
	}
	return nil
}

func asIntConst(e ast.Expr) (int64, bool) {
	if lit, ok := e.(*ast.IntLit); ok {
		return lit.Value, true
	}
	return 0, false
}

func asDoubleConst(e ast.Expr) (float64, bool) {
	if lit, ok := e.(*ast.DoubleLit); ok {
		return lit.Value, true
	}
	return 0, false
}

func asBoolConst(e ast.Expr) (bool, bool) {
	if lit, ok := e.(*ast.BoolLit); ok {
		return lit.Value, true
	}
	return false, false
}

func intSuffix(l, r ast.Expr) token.NumSuffix {
	if lit, ok := l.(*ast.IntLit); ok && lit.Suffix != 0 {
		return lit.Suffix
	}
	if lit, ok := r.(*ast.IntLit); ok {
		return lit.Suffix
	}
	return token.NoSuffix
}

func intSuffixOf(e ast.Expr) token.NumSuffix {
	if lit, ok := e.(*ast.IntLit); ok {
		return lit.Suffix
	}
	return token.NoSuffix
}
