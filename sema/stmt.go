package sema

import (
	"github.com/langc/langc/ast"
	"github.com/langc/langc/symtab"
)

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ImportStmt:
		// Package management is out of scope; nothing to resolve.
	case *ast.StructDeclStmt:
		// Already registered and laid out in pass 1.
	case *ast.FnDeclStmt:
		c.checkFnDecl(s)
	case *ast.VarDeclStmt:
		c.checkVarDecl(s)
	case *ast.AssignStmt:
		c.checkAssign(s)
	case *ast.ExprStmt:
		c.checkExpr(s.Expr)
	case *ast.IfStmt:
		c.checkExpr(s.Cond)
		c.checkBlock(s.Then)
		if s.Else != nil {
			c.checkBlock(*s.Else)
		}
	case *ast.WhileStmt:
		c.checkExpr(s.Cond)
		c.checkBlock(s.Body)
	case *ast.ForInStmt:
		c.checkForIn(s)
	case *ast.BreakStmt, *ast.ContinueStmt:
		// Not checked; a break/continue outside a loop is not diagnosed.
	case *ast.ReturnStmt:
		c.checkReturn(s)
	case *ast.MatchStmt:
		c.checkMatch(s)
	case *ast.PrivateBlockStmt:
		c.syms.EnterArena()
		c.checkBlock(s.Body)
	case *ast.LockStmt:
		c.checkExpr(s.Handle)
		c.checkBlock(s.Body)
	case *ast.SyncStmt:
		for _, th := range s.Threads {
			c.checkExpr(th)
		}
		c.checkBlock(s.Body)
	}
}

func (c *Checker) checkBlock(b ast.Block) {
	c.syms.EnterScope()
	defer c.syms.LeaveScope()
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
}

func (c *Checker) checkVarDecl(v *ast.VarDeclStmt) {
	var initType *ast.Type
	if v.Init != nil {
		initType = c.checkExpr(v.Init)
	}
	if v.Type != nil {
		v.Type = c.resolveTypeAt(v, v.Type)
	} else {
		v.Type = initType
	}
	if v.Type != nil && initType != nil && v.Type.IsNumeric() && initType.IsNumeric() {
		if _, ok := widen(v.Type, initType); !ok {
			c.errorf(v, "cannot initialize %s variable %q with %s value", v.Type, v.Name, initType)
		}
	}
	kind := symtab.SymVar
	if v.Kind == ast.DeclVal {
		kind = symtab.SymVal
	}
	if err := c.syms.Declare(v.Name, kind, v.Type, v); err != nil {
		c.errorf(v, "%s", err)
		return
	}
	v.DeclScopeDepth = c.syms.Depth()
}

func (c *Checker) checkAssign(a *ast.AssignStmt) {
	c.checkExpr(a.Value)
	targetType := c.checkExpr(a.Target)
	if a.Op != ast.AssignSet && targetType != nil && !targetType.IsNumeric() && targetType.Kind != ast.KindString {
		c.errorf(a, "compound assignment requires a numeric or string target, got %s", targetType)
	}
	depth := baseScopeDepth(a.Target)
	c.checkEscapeAssign(depth, a.Value)
}

func (c *Checker) checkForIn(f *ast.ForInStmt) {
	iterType := c.checkExpr(f.Iterable)
	c.syms.EnterScope()
	defer c.syms.LeaveScope()
	elemType := ast.TypeInt
	if rng, ok := f.Iterable.(*ast.RangeExpr); ok {
		_ = rng
		elemType = ast.TypeInt
		c.syms.MarkNonNegative(f.Var)
		f.ProvenNonNegative = true
	} else if iterType != nil && iterType.Kind == ast.KindArray {
		elemType = iterType.Elem
	}
	_ = c.syms.Declare(f.Var, symtab.SymVar, elemType, f)
	for _, s := range f.Body.Stmts {
		c.checkStmt(s)
	}
}

func (c *Checker) checkReturn(r *ast.ReturnStmt) {
	if r.Value == nil {
		return
	}
	c.checkExpr(r.Value)
	c.checkEscapeReturn(r.Value)
}

func (c *Checker) checkMatch(m *ast.MatchStmt) {
	c.checkExpr(m.Subject)
	for _, arm := range m.Arms {
		if arm.Pattern != nil {
			c.checkExpr(arm.Pattern)
		}
		c.checkBlock(arm.Body)
	}
}
