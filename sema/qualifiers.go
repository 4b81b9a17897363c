package sema

import "github.com/langc/langc/ast"

// checkAs implements the `as`-expression memory-qualifier rules of
// spec.md §4.E.3.
func (c *Checker) checkAs(a *ast.AsExpr) *ast.Type {
	operandType := c.checkExpr(a.Operand)
	switch a.Qualifier {
	case ast.QualRef:
		if operandType != nil && !operandType.IsNumeric() && operandType.Kind != ast.KindBool &&
			operandType.Kind != ast.KindChar {
			c.errorf(a, "'as ref' is only permitted on primitive types, got %s", operandType)
		}
		return operandType
	case ast.QualVal:
		if operandType == nil {
			return ast.TypeUnknown
		}
		if operandType.Kind == ast.KindArray {
			a.IsNoop = true
			return operandType
		}
		if operandType.Kind == ast.KindPointer {
			if operandType.Elem != nil && operandType.Elem.Kind == ast.KindChar {
				a.IsCstrToStr = true
				return ast.TypeString
			}
			return operandType.Elem
		}
		// Otherwise: copy a reference-typed value into the current arena;
		// the value's type is unchanged, only its owning arena moves.
		return operandType
	default:
		a.Target = c.resolveTypeAt(a, a.Target)
		return a.Target
	}
}
