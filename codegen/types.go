package codegen

import "github.com/langc/langc/ast"

// CType renders t as the C type the generated code declares variables,
// parameters, and struct fields with. Reference-like kinds (spec.md §3:
// string, array, function, opaque, handle-bearing struct) compile to the
// runtime's handle type, `RtHandle`, rather than a native pointer — the
// ABI the `runtime` package's Handle/Arena pair models in Go.
func CType(t *ast.Type) string {
	if t == nil {
		return "void"
	}
	switch t.Kind {
	case ast.KindInt:
		return "int64_t"
	case ast.KindLong:
		return "int64_t"
	case ast.KindInt32:
		return "int32_t"
	case ast.KindUint:
		return "uint64_t"
	case ast.KindUint32:
		return "uint32_t"
	case ast.KindFloat:
		return "float"
	case ast.KindDouble:
		return "double"
	case ast.KindBool:
		return "bool"
	case ast.KindByte:
		return "uint8_t"
	case ast.KindChar:
		return "char"
	case ast.KindVoid:
		return "void"
	case ast.KindNil:
		return "void*"
	case ast.KindString, ast.KindArray, ast.KindFunction, ast.KindAny, ast.KindOpaque:
		return "RtHandle"
	case ast.KindPointer:
		return CType(t.Elem) + "*"
	case ast.KindStruct:
		if t.Struct == nil {
			return "void*"
		}
		if t.IsReferenceLike() {
			return "RtHandle"
		}
		if t.Struct.Flavor == ast.StructNative {
			return t.Struct.Name
		}
		return "struct " + Mangle(t.Struct.Name)
	default:
		return "void*"
	}
}

// needsArenaType is type_needs_arena from code_gen_util_arena.c: does a
// value of this type require arena-backed storage to exist at all.
func needsArenaType(t *ast.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case ast.KindString, ast.KindArray, ast.KindFunction, ast.KindOpaque:
		return true
	case ast.KindStruct:
		return t.IsReferenceLike()
	default:
		return false
	}
}
