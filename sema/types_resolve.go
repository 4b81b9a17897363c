package sema

import "github.com/langc/langc/ast"

// resolveType replaces the named-struct stub the parser emits for any type
// it cannot itself resolve (parser.go's parseType: "a named struct type;
// layout is resolved later by sema, which has the declaration table this
// parser does not") with the registered StructType, recursing through
// pointer/array/function wrappers. Unknown struct names report a
// diagnostic and resolve to ast.TypeUnknown so checking can continue.
func (c *Checker) resolveType(t *ast.Type) *ast.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case ast.KindStruct:
		if t.Struct != nil && len(t.Struct.Fields) == 0 && t.Struct.Size == 0 {
			if real, ok := c.structs[t.Struct.Name]; ok {
				return ast.NewStruct(real)
			}
		}
		return t
	case ast.KindPointer:
		return ast.NewPointer(c.resolveType(t.Elem))
	case ast.KindArray:
		return ast.NewArray(c.resolveType(t.Elem))
	case ast.KindFunction:
		params := make([]*ast.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.resolveType(p)
		}
		return ast.NewFunction(params, c.resolveType(t.Result))
	default:
		return t
	}
}

// resolveTypeAt is resolveType plus a diagnostic when a named struct type
// does not resolve to anything declared, used at reference sites (variable
// and parameter type annotations) where an unresolved name is a hard error
// rather than a forward reference that a later registration pass will fill
// in (struct field types go through resolveType directly during layout,
// before any use site can observe them).
func (c *Checker) resolveTypeAt(node ast.Node, t *ast.Type) *ast.Type {
	resolved := c.resolveType(t)
	if resolved != nil && resolved.Kind == ast.KindStruct && resolved.Struct != nil &&
		len(resolved.Struct.Fields) == 0 && resolved.Struct.Size == 0 {
		if _, ok := c.structs[resolved.Struct.Name]; !ok {
			c.errorf(node, "unknown type %q", resolved.Struct.Name)
			return ast.TypeUnknown
		}
	}
	return resolved
}
