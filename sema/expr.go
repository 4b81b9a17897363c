package sema

import (
	"github.com/langc/langc/ast"
	"github.com/langc/langc/symtab"
	"github.com/langc/langc/token"
)

// checkExpr type-checks e and every sub-expression, resolving e's type and
// returning it. Every case sets e.SetType so later passes (and repeated
// visits, e.g. via member-access chains) can read a fully resolved Type
// without re-deriving it.
func (c *Checker) checkExpr(e ast.Expr) *ast.Type {
	var t *ast.Type
	switch ex := e.(type) {
	case *ast.IntLit:
		t = intLitType(ex.Suffix)
	case *ast.DoubleLit:
		t = ast.TypeDouble
		if ex.FloatSuffix {
			t = ast.TypeFloat
		}
	case *ast.BoolLit:
		t = ast.TypeBool
	case *ast.CharLit:
		t = ast.TypeChar
	case *ast.NilLit:
		t = ast.TypeNil
	case *ast.StringLit:
		t = ast.TypeString
	case *ast.InterpStringLit:
		for _, part := range ex.Parts {
			if part.Expr != nil {
				c.checkExpr(part.Expr)
			}
		}
		t = ast.TypeString
	case *ast.Ident:
		t = c.checkIdent(ex)
	case *ast.BinaryExpr:
		t = c.checkBinary(ex)
	case *ast.UnaryExpr:
		t = c.checkUnary(ex)
	case *ast.IncDecExpr:
		t = c.checkExpr(ex.Operand)
	case *ast.CallExpr:
		t = c.checkCall(ex)
	case *ast.MemberAccessExpr:
		t = c.checkMemberAccess(ex)
	case *ast.IndexExpr:
		t = c.checkIndex(ex)
	case *ast.SliceExpr:
		t = c.checkSlice(ex)
	case *ast.RangeExpr:
		c.checkExpr(ex.Start)
		c.checkExpr(ex.End)
		t = ast.TypeInt
	case *ast.SpreadExpr:
		t = c.checkExpr(ex.Operand)
	case *ast.AsExpr:
		t = c.checkAs(ex)
	case *ast.IsExpr:
		c.checkExpr(ex.Operand)
		ex.Target = c.resolveTypeAt(ex, ex.Target)
		t = ast.TypeBool
	case *ast.StructLiteralExpr:
		t = c.checkStructLiteral(ex)
	case *ast.LambdaExpr:
		t = c.checkLambda(ex)
	case *ast.SizeofExpr:
		ex.Target = c.resolveTypeAt(ex, ex.Target)
		t = ast.TypeLong
	case *ast.TypeofExpr:
		c.checkExpr(ex.Operand)
		t = ast.TypeString
	default:
		t = ast.TypeUnknown
	}
	e.SetType(t)
	return t
}

func intLitType(suffix token.NumSuffix) *ast.Type {
	switch suffix {
	case token.SuffixLong:
		return ast.TypeLong
	case token.SuffixByte:
		return ast.TypeByte
	case token.SuffixUint:
		return ast.TypeUint
	case token.SuffixUint32:
		return ast.TypeUint32
	case token.SuffixInt32:
		return ast.TypeInt32
	case token.SuffixFloat:
		return ast.TypeFloat
	case token.SuffixDouble:
		return ast.TypeDouble
	default:
		return ast.TypeInt
	}
}

func (c *Checker) checkIdent(id *ast.Ident) *ast.Type {
	sym, ok := c.syms.Lookup(id.Name)
	if !ok {
		c.errorf(id, "undefined name %q", id.Name)
		return ast.TypeUnknown
	}
	id.DeclScopeDepth = sym.Depth
	id.IsParam = sym.Kind == symtab.SymParam
	id.IsGlobal = sym.Depth == 0
	return sym.Type
}

func (c *Checker) checkBinary(b *ast.BinaryExpr) *ast.Type {
	lt := c.checkExpr(b.Left)
	rt := c.checkExpr(b.Right)
	switch b.Op {
	case ast.OpAnd, ast.OpOr:
		return ast.TypeBool
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if lt.IsNumeric() && rt.IsNumeric() {
			if _, ok := widen(lt, rt); !ok {
				c.errorf(b, "cannot compare %s and %s", lt, rt)
			}
		} else if !ast.Equal(lt, rt) {
			c.errorf(b, "cannot compare %s and %s", lt, rt)
		}
		return ast.TypeBool
	case ast.OpAdd:
		if lt.Kind == ast.KindString && rt.Kind == ast.KindString {
			return ast.TypeString
		}
		fallthrough
	default:
		if lt.Kind == ast.KindUnknown || rt.Kind == ast.KindUnknown {
			return ast.TypeUnknown
		}
		result, ok := widen(lt, rt)
		if !ok {
			c.errorf(b, "incompatible operand types %s and %s", lt, rt)
			return ast.TypeUnknown
		}
		return result
	}
}

func (c *Checker) checkUnary(u *ast.UnaryExpr) *ast.Type {
	t := c.checkExpr(u.Operand)
	if u.Op == ast.OpNot {
		return ast.TypeBool
	}
	return t
}

func (c *Checker) checkCall(call *ast.CallExpr) *ast.Type {
	for _, a := range call.Args {
		c.checkExpr(a)
	}
	name, ok := call.Callee.(*ast.Ident)
	if !ok {
		// Indirect call through a function-typed value (a closure or
		// lambda result); its own checkExpr already resolved Callee.
		t := c.checkExpr(call.Callee)
		if t != nil && t.Kind == ast.KindFunction {
			return t.Result
		}
		return ast.TypeUnknown
	}
	if name.Name == "spawn" {
		c.checkEscapeAcrossThread(call.Args)
		return ast.TypeAny
	}
	fn, ok := c.fns[name.Name]
	if !ok {
		if sym, found := c.syms.Lookup(name.Name); found && sym.Type != nil && sym.Type.Kind == ast.KindFunction {
			// A call through a function-typed variable (a closure value).
			if t := c.checkExpr(call.Callee); t != nil && t.Result != nil {
				return t.Result
			}
			return ast.TypeVoid
		}
		c.errorf(call, "undefined function %q", name.Name)
		return ast.TypeUnknown
	}
	name.SetType(ast.NewFunction(paramTypes(fn.Params), fn.ResultType))
	call.Interceptable = fn.Interceptable
	if fn.ResultType == nil {
		return ast.TypeVoid
	}
	return fn.ResultType
}

func paramTypes(params []ast.Param) []*ast.Type {
	out := make([]*ast.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

func (c *Checker) checkMemberAccess(m *ast.MemberAccessExpr) *ast.Type {
	baseType := c.checkExpr(m.Base)
	m.ScopeDepth = baseScopeDepth(m.Base)
	if baseType == nil || baseType.Kind != ast.KindStruct || baseType.Struct == nil {
		c.errorf(m, "member access on non-struct type %s", baseType)
		return ast.TypeUnknown
	}
	for i, f := range baseType.Struct.Fields {
		if f.Name == m.Field {
			m.FieldIndex = i
			return f.Type
		}
	}
	c.errorf(m, "struct %s has no field %q", baseType.Struct.Name, m.Field)
	return ast.TypeUnknown
}

// baseScopeDepth implements nested-member-access propagation (spec.md
// §4.E.6): a chain a.b.c.d inherits the scope depth of the base variable,
// regardless of how many .field hops precede the access being checked.
func baseScopeDepth(e ast.Expr) int {
	switch x := e.(type) {
	case *ast.Ident:
		return x.DeclScopeDepth
	case *ast.MemberAccessExpr:
		return x.ScopeDepth
	default:
		return 0
	}
}

func (c *Checker) checkIndex(ix *ast.IndexExpr) *ast.Type {
	baseType := c.checkExpr(ix.Base)
	c.checkExpr(ix.Index)
	if baseType == nil || baseType.Kind != ast.KindArray {
		c.errorf(ix, "index operator applied to non-array type %s", baseType)
		return ast.TypeUnknown
	}
	return baseType.Elem
}

func (c *Checker) checkSlice(s *ast.SliceExpr) *ast.Type {
	baseType := c.checkExpr(s.Base)
	if s.Start != nil {
		c.checkExpr(s.Start)
	}
	if s.End != nil {
		c.checkExpr(s.End)
	}
	if s.Step != nil {
		c.checkExpr(s.Step)
	}
	if baseType == nil || baseType.Kind != ast.KindArray {
		c.errorf(s, "slice operator applied to non-array type %s", baseType)
		return ast.TypeUnknown
	}
	return baseType
}

func (c *Checker) checkLambda(l *ast.LambdaExpr) *ast.Type {
	l.LambdaID = c.nextLambdaID
	c.nextLambdaID++

	baseDepth := c.syms.Depth()
	c.syms.EnterScope()
	defer c.syms.LeaveScope()
	for _, p := range l.Params {
		p.Type = c.resolveTypeAt(l, p.Type)
		_ = c.syms.Declare(p.Name, symtab.SymParam, p.Type, l)
	}
	l.ResultType = c.resolveTypeAt(l, l.ResultType)
	for _, stmt := range l.Body {
		c.checkStmt(stmt)
	}
	l.Captures = collectCaptures(l.Body, baseDepth)
	return ast.NewFunction(paramTypes(l.Params), l.ResultType)
}
