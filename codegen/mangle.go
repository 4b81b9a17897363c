package codegen

import "strings"

// Mangle produces the C identifier a Language-level name compiles to:
// `__sn__<identifier>` (spec.md §4.G), keeping generated names out of the
// way of libc. Every called function name is mangled, `native` ones
// included (see call in expr.go); only a native struct type keeps its
// plain C name (CType in types.go).
func Mangle(name string) string {
	return "__sn__" + name
}

// MangleMethod produces the C identifier for a struct method, qualifying
// it with the struct's own (already-mangled) name so two structs may each
// define a method with the same Language-level name.
func MangleMethod(structName, method string) string {
	return Mangle(structName) + "__" + method
}

// CopyCallbackName is the `__copy_<Name>__` callback codegen emits for a
// handle-bearing struct (code_gen_util_callbacks.c), used by Promote when
// copying a value of this struct type across arenas.
func CopyCallbackName(structName string) string {
	return "__copy_" + structName + "__"
}

// FreeCallbackName is the `__free_<Name>__` callback counterpart.
func FreeCallbackName(structName string) string {
	return "__free_" + structName + "__"
}

// sanitizeLabel turns name into a valid fragment of a C identifier by
// replacing '.' with '_'. Locals, parameters, fields and captured
// variables are emitted through it and otherwise keep their source names.
func sanitizeLabel(name string) string {
	return strings.ReplaceAll(name, ".", "_")
}
