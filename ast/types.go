// Package ast defines the tagged expression, statement, and type nodes
// produced by the parser and decorated in place by sema and optimize.
//
// Node kinds are modeled as Go interfaces implemented by small concrete
// structs (the idiomatic stand-in for the source's manually tagged unions,
// per the project's design notes); passes that need to handle every kind
// exhaustively do so with a type switch over the interface.
package ast

import "fmt"

// Kind tags the variant of a Type.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindInt32
	KindUint
	KindUint32
	KindLong
	KindFloat
	KindDouble
	KindBool
	KindByte
	KindChar
	KindString
	KindNil
	KindAny
	KindVoid
	KindOpaque
	KindPointer
	KindArray
	KindFunction
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindInt32:
		return "int32"
	case KindUint:
		return "uint"
	case KindUint32:
		return "uint32"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindString:
		return "str"
	case KindNil:
		return "nil"
	case KindAny:
		return "any"
	case KindVoid:
		return "void"
	case KindOpaque:
		return "opaque"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// StructFlavor encodes whether a struct is an ordinary arena-managed struct,
// a native (handwritten-C-backed) struct, or a packed struct — a variant
// instead of the source's separate boolean flags (design note §9).
type StructFlavor int

const (
	StructRegular StructFlavor = iota
	StructNative
	StructPacked
)

// Type is a tagged variant over the Language's type system (spec.md §3).
//
// Only the fields relevant to Kind are populated; the zero value of the
// irrelevant ones is never read by sema or codegen, by convention of the
// constructors below.
type Type struct {
	Kind Kind

	// KindPointer, KindArray.
	Elem *Type

	// KindFunction.
	Params []*Type
	Result *Type

	// KindStruct.
	Struct *StructType
}

// StructField is one field of a struct type.
type StructField struct {
	Name    string
	Type    *Type
	Offset  int // filled by sema/layout.go
	Default Expr
	CAlias  string
}

// Method is a struct method signature, used by sema's interceptability check.
type Method struct {
	Name            string
	Params          []*Type
	Result          *Type
	Native          bool
	Interceptable   bool // computed by sema; advisory for codegen
	InterceptReason string
}

// StructType carries the full description of a struct type: its fields (with
// byte offsets filled in by sema's layout pass), its methods, and its
// computed size/alignment.
type StructType struct {
	Name      string
	Fields    []*StructField
	Methods   []*Method
	Size      int
	Alignment int
	Flavor    StructFlavor
}

func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case KindPointer:
		return "*" + t.Elem.String()
	case KindArray:
		return t.Elem.String() + "[]"
	case KindFunction:
		return fmt.Sprintf("fn(%v) %v", t.Params, t.Result)
	case KindStruct:
		if t.Struct != nil {
			return t.Struct.Name
		}
		return "struct"
	default:
		return t.Kind.String()
	}
}

// IsNumeric reports whether t is one of the Language's numeric primitive
// kinds (used by the widening lattice in sema).
func (t *Type) IsNumeric() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindInt, KindInt32, KindUint, KindUint32, KindLong, KindByte, KindFloat, KindDouble:
		return true
	default:
		return false
	}
}

// IsSigned reports whether a numeric kind is signed.
func (t *Type) IsSigned() bool {
	switch t.Kind {
	case KindInt, KindInt32, KindLong, KindFloat, KindDouble:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is an integral numeric kind.
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case KindInt, KindInt32, KindUint, KindUint32, KindLong, KindByte:
		return true
	default:
		return false
	}
}

// IsReferenceLike reports whether values of this type are represented by an
// 8-byte runtime handle rather than stored inline (spec.md §3 invariants).
func (t *Type) IsReferenceLike() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindString, KindArray, KindFunction, KindAny, KindOpaque:
		return true
	case KindStruct:
		return t.Struct != nil && t.Struct.Flavor != StructNative && structHasHandleField(t.Struct)
	default:
		return false
	}
}

func structHasHandleField(s *StructType) bool {
	// A struct "has handles" (and thus needs promotion callbacks) if any
	// field is itself reference-like or holds a nested struct that does.
	for _, f := range s.Fields {
		if f.Type.IsReferenceLike() {
			return true
		}
	}
	return len(s.Fields) == 0 // conservative default for opaque/empty structs
}

// Size returns the size in bytes of a value of this type on the 64-bit model
// the runtime assumes (spec.md §3 invariants: primitive sizes are 1/4/8).
func (t *Type) Size() int {
	switch t.Kind {
	case KindByte, KindChar, KindBool:
		return 1
	case KindInt32, KindUint32, KindFloat:
		return 4
	case KindInt, KindUint, KindLong, KindDouble:
		return 8
	case KindString, KindArray, KindFunction, KindAny, KindOpaque, KindPointer:
		return 8 // handle-sized reference
	case KindStruct:
		if t.Struct != nil {
			return t.Struct.Size
		}
		return 0
	case KindVoid, KindNil:
		return 0
	default:
		return 0
	}
}

// Align returns the natural alignment of a value of this type, used by
// sema's struct-layout pass.
func (t *Type) Align() int {
	switch t.Kind {
	case KindStruct:
		if t.Struct != nil {
			if t.Struct.Flavor == StructPacked {
				return 1
			}
			return t.Struct.Alignment
		}
		return 1
	default:
		sz := t.Size()
		if sz == 0 {
			return 1
		}
		return sz
	}
}

// Equal reports structural equality between two resolved types.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPointer, KindArray:
		return Equal(a.Elem, b.Elem)
	case KindFunction:
		if len(a.Params) != len(b.Params) || !Equal(a.Result, b.Result) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		return a.Struct != nil && b.Struct != nil && a.Struct.Name == b.Struct.Name
	default:
		return true
	}
}

// Convenience constructors for primitive types, reused across the front end
// so sema never allocates duplicate *Type values for primitives.
var (
	TypeInt    = &Type{Kind: KindInt}
	TypeInt32  = &Type{Kind: KindInt32}
	TypeUint   = &Type{Kind: KindUint}
	TypeUint32 = &Type{Kind: KindUint32}
	TypeLong   = &Type{Kind: KindLong}
	TypeFloat  = &Type{Kind: KindFloat}
	TypeDouble = &Type{Kind: KindDouble}
	TypeBool   = &Type{Kind: KindBool}
	TypeByte   = &Type{Kind: KindByte}
	TypeChar   = &Type{Kind: KindChar}
	TypeString = &Type{Kind: KindString}
	TypeNil    = &Type{Kind: KindNil}
	TypeAny    = &Type{Kind: KindAny}
	TypeVoid   = &Type{Kind: KindVoid}
	TypeOpaque = &Type{Kind: KindOpaque}
	TypeUnknown = &Type{Kind: KindUnknown}
)

// NewPointer constructs a pointer-to-base type.
func NewPointer(base *Type) *Type { return &Type{Kind: KindPointer, Elem: base} }

// NewArray constructs an array-of-element type.
func NewArray(elem *Type) *Type { return &Type{Kind: KindArray, Elem: elem} }

// NewFunction constructs a function type.
func NewFunction(params []*Type, result *Type) *Type {
	return &Type{Kind: KindFunction, Params: params, Result: result}
}

// NewStruct constructs a named struct type (layout left unfilled; sema's
// layout pass populates Offset/Size/Alignment).
func NewStruct(st *StructType) *Type { return &Type{Kind: KindStruct, Struct: st} }
