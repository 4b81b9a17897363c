package runtime

import "fmt"

// TypeTag identifies the dynamic type carried by an Any, independent of the
// compiler's own ast.Kind: this package is the ABI the generated C (or any
// other front end targeting the same runtime) links against, so it keeps
// its own small type vocabulary rather than importing the compiler's.
type TypeTag int

const (
	TagNil TypeTag = iota
	TagInt
	TagLong
	TagInt32
	TagUint
	TagUint32
	TagFloat
	TagDouble
	TagBool
	TagByte
	TagChar
	TagString
	TagArray
	TagStruct
	TagFunction
	TagOpaque
)

// Any is a boxed runtime value of the Language's `any` type (spec.md §4.H):
// a type tag, a primitive payload when the tag is a value type, and a
// Handle when the tag is reference-like. StructName is only meaningful
// when Tag == TagStruct and backs the struct-type-id validation Unbox
// performs — boxing a Person and unboxing it as a Point must fail rather
// than reinterpret the bytes.
type Any struct {
	Tag        TypeTag
	StructName string
	prim       int64
	primF      float64
	primB      bool
	handle     Handle
	hasHandle  bool
}

// BoxInt64 boxes a signed integral value under tag (one of TagInt,
// TagLong, TagInt32, TagByte, TagUint, TagUint32).
func BoxInt64(tag TypeTag, v int64) Any { return Any{Tag: tag, prim: v} }

// BoxFloat64 boxes a floating-point value under tag (TagFloat or TagDouble).
func BoxFloat64(tag TypeTag, v float64) Any { return Any{Tag: tag, primF: v} }

// BoxBool boxes a bool.
func BoxBool(v bool) Any { return Any{Tag: TagBool, primB: v} }

// BoxChar boxes a char (stored as a byte, per spec.md §3 primitive sizes).
func BoxChar(v byte) Any { return Any{Tag: TagChar, prim: int64(v)} }

// BoxHandle boxes a reference-like value (string, array, struct, closure,
// opaque) already resident in an arena. structName is required when
// tag == TagStruct and ignored otherwise.
func BoxHandle(tag TypeTag, h Handle, structName string) Any {
	return Any{Tag: tag, StructName: structName, handle: h, hasHandle: true}
}

// UnboxInt64 returns v's integral payload, or an error if v is not one of
// the integral tags.
func (v Any) UnboxInt64() (int64, error) {
	switch v.Tag {
	case TagInt, TagLong, TagInt32, TagUint, TagUint32, TagByte, TagChar:
		return v.prim, nil
	default:
		return 0, fmt.Errorf("runtime: Any holds %v, not an integer", v.Tag)
	}
}

// UnboxFloat64 returns v's floating-point payload.
func (v Any) UnboxFloat64() (float64, error) {
	if v.Tag != TagFloat && v.Tag != TagDouble {
		return 0, fmt.Errorf("runtime: Any holds %v, not a float", v.Tag)
	}
	return v.primF, nil
}

// UnboxBool returns v's bool payload.
func (v Any) UnboxBool() (bool, error) {
	if v.Tag != TagBool {
		return false, fmt.Errorf("runtime: Any holds %v, not a bool", v.Tag)
	}
	return v.primB, nil
}

// UnboxHandle returns v's handle, validating that v's dynamic tag is
// wantTag and, for TagStruct, that its recorded struct name matches
// wantStruct exactly — the "struct-type-id validation" spec.md §4.H calls
// for so a handle boxed as one struct type can never be unboxed as another.
func (v Any) UnboxHandle(wantTag TypeTag, wantStruct string) (Handle, error) {
	if !v.hasHandle || v.Tag != wantTag {
		return Handle{}, fmt.Errorf("runtime: Any holds %v, not %v", v.Tag, wantTag)
	}
	if wantTag == TagStruct && v.StructName != wantStruct {
		return Handle{}, fmt.Errorf("runtime: Any holds struct %q, not %q", v.StructName, wantStruct)
	}
	return v.handle, nil
}

// deepCopyAny is the `__copy_`-equivalent callback for a boxed any: promote
// the underlying handle (if any) into dest, recursing through whatever
// copy callback that handle's own slot carries (rt_any_deep_copy in the
// original runtime).
func deepCopyAny(dest *Arena, value any) any {
	v, ok := value.(Any)
	if !ok || !v.hasHandle {
		return value
	}
	h, err := Promote(dest, v.handle)
	if err != nil {
		return value
	}
	v.handle = h
	return v
}
