package sema

import "github.com/langc/langc/ast"

// escapeBase returns the Ident at the root of e's access chain (e itself,
// or the base of a member-access chain), or nil if e does not refer to a
// declared local at all (a literal, a call result, etc. has nothing to mark
// escaping).
func escapeBase(e ast.Expr) *ast.Ident {
	switch x := e.(type) {
	case *ast.Ident:
		return x
	case *ast.MemberAccessExpr:
		return escapeBase(x.Base)
	default:
		return nil
	}
}

// checkEscapeAssign implements the "assigned to an outer-scope variable"
// and "stored into an outer-scope struct field" escape rules: value
// escapes if its base identifier was declared at a deeper scope than
// targetDepth, the scope the assignment target lives at.
func (c *Checker) checkEscapeAssign(targetDepth int, value ast.Expr) {
	id := escapeBase(value)
	if id == nil || id.IsParam || id.IsGlobal {
		return
	}
	if id.DeclScopeDepth > targetDepth {
		c.setEscapes(id, value)
	}
}

// checkEscapeReturn implements "returned from a function": a returned
// local always escapes to the caller's (shallower) scope, per the
// conservatism invariant that only parameters and globals are exempt.
func (c *Checker) checkEscapeReturn(value ast.Expr) {
	id := escapeBase(value)
	if id == nil || id.IsParam || id.IsGlobal {
		return
	}
	c.setEscapes(id, value)
}

// checkEscapeAcrossThread implements "passed across thread boundaries":
// every argument to a spawn call escapes unconditionally, since the
// spawned thread owns an unrelated root arena (spec.md §5: "these arenas
// are not linked as parents").
func (c *Checker) checkEscapeAcrossThread(args []ast.Expr) {
	for _, a := range args {
		if id := escapeBase(a); id != nil && !id.IsParam && !id.IsGlobal {
			c.setEscapes(id, a)
		}
	}
}

// setEscapes marks both the base identifier (so repeated uses remember it
// escaped) and the specific expression node the check was performed on
// (the member-access chain or the identifier itself), matching spec.md's
// "the expression's escapes_scope flag is set" wording.
func (c *Checker) setEscapes(id *ast.Ident, value ast.Expr) {
	id.EscapesScope = true
	needsHeap := false
	if t := id.Type(); t != nil && t.IsReferenceLike() {
		id.NeedsHeapAlloc = true
		needsHeap = true
	}
	switch v := value.(type) {
	case *ast.Ident:
		v.EscapesScope = true
		v.NeedsHeapAlloc = v.NeedsHeapAlloc || needsHeap
	case *ast.MemberAccessExpr:
		v.EscapesScope = true
		v.Escaped = true
		v.NeedsHeapAlloc = v.NeedsHeapAlloc || needsHeap
	}
}
