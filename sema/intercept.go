package sema

import "github.com/langc/langc/ast"

// computeInterceptable implements spec.md §4.E.7: "A method is
// interceptable iff it is not native, its owning struct is not native, and
// no parameter or return type is a pointer or struct (raw, unboxed types
// cannot be boxed into any)." Applied uniformly to free functions too,
// where "owning struct is not native" is vacuously true.
func (c *Checker) computeInterceptable(fn *ast.FnDeclStmt) {
	if fn.Modifier == ast.ModNative {
		fn.Interceptable = false
		fn.InterceptReason = "native function"
		return
	}
	if fn.Receiver != nil && fn.Receiver.Type != nil && fn.Receiver.Type.Kind == ast.KindStruct &&
		fn.Receiver.Type.Struct != nil && fn.Receiver.Type.Struct.Flavor == ast.StructNative {
		fn.Interceptable = false
		fn.InterceptReason = "owning struct is native"
		return
	}
	for _, p := range fn.Params {
		if !boxable(p.Type) {
			fn.Interceptable = false
			fn.InterceptReason = "parameter " + p.Name + " is not boxable"
			return
		}
	}
	if fn.ResultType != nil && !boxable(fn.ResultType) {
		fn.Interceptable = false
		fn.InterceptReason = "result type is not boxable"
		return
	}
	fn.Interceptable = true
}

// boxable reports whether a value of type t may appear in an interceptable
// signature. spec.md §4.E.7 excludes pointers and structs unconditionally
// ("raw, unboxed types cannot be boxed into any") even though Any's more
// general boxing layer (§4.H) does support struct-type-id validation; the
// interception protocol specifically declines struct/pointer signatures.
func boxable(t *ast.Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case ast.KindPointer, ast.KindStruct:
		return false
	default:
		return true
	}
}
