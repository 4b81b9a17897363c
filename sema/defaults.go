package sema

import "github.com/langc/langc/ast"

// checkStructLiteral resolves a struct literal's named type, type-checks
// each user-supplied field value, and applies spec.md §4.E.5's
// default-value rule: a field the literal omits is filled from the
// struct's declared default (cloned as a synthetic FieldInitializer so
// later passes see a fully-specified initializer); omitting a field with
// no default is an error. FieldsInitialized is populated positionally
// against the struct's field order.
func (c *Checker) checkStructLiteral(lit *ast.StructLiteralExpr) *ast.Type {
	st, ok := c.structs[lit.StructName]
	if !ok {
		c.errorf(lit, "unknown struct type %q", lit.StructName)
		return ast.TypeUnknown
	}

	original := lit.Fields
	given := make(map[string]ast.Expr, len(original))
	for _, f := range original {
		if f.Value != nil {
			c.checkExpr(f.Value)
		}
		given[f.Name] = f.Value
	}

	lit.TotalFieldCount = len(st.Fields)
	lit.FieldsInitialized = make([]bool, len(st.Fields))
	complete := make([]ast.FieldInitializer, 0, len(st.Fields))
	for i, f := range st.Fields {
		if value, ok := given[f.Name]; ok {
			complete = append(complete, ast.FieldInitializer{Name: f.Name, Value: value})
			lit.FieldsInitialized[i] = true
			continue
		}
		if f.Default == nil {
			c.errorf(lit, "field %q of struct %s is required and has no default", f.Name, lit.StructName)
			continue
		}
		complete = append(complete, ast.FieldInitializer{Name: f.Name, Value: f.Default, IsDefault: true})
		lit.FieldsInitialized[i] = true
	}
	for _, f := range original {
		found := false
		for _, sf := range st.Fields {
			if sf.Name == f.Name {
				found = true
				break
			}
		}
		if !found {
			c.errorf(lit, "struct %s has no field %q", lit.StructName, f.Name)
		}
	}
	lit.Fields = complete
	return ast.NewStruct(st)
}
