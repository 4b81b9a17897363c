package sema

import "github.com/langc/langc/ast"

// widenRank orders the numeric widening lattice (spec.md §4.E.1):
// byte ⊑ int32 ⊑ int/long, float ⊑ double. Unsigned kinds widen along their
// own rank so that uint/uint32 never silently mix with a signed kind of the
// same width.
func widenRank(k ast.Kind) int {
	switch k {
	case ast.KindByte:
		return 0
	case ast.KindInt32:
		return 1
	case ast.KindInt, ast.KindLong:
		return 2
	case ast.KindUint32:
		return 1
	case ast.KindUint:
		return 2
	case ast.KindFloat:
		return 10
	case ast.KindDouble:
		return 11
	default:
		return -1
	}
}

func isFloatKind(k ast.Kind) bool { return k == ast.KindFloat || k == ast.KindDouble }
func isUnsignedKind(k ast.Kind) bool {
	return k == ast.KindUint || k == ast.KindUint32
}

// widen computes the result of unifying two numeric types under the
// widening lattice, per spec.md §4.E.1: "signed and unsigned of the same
// width are not implicitly interconvertible; mixed signed/unsigned is an
// error." byte is treated as unsigned-compatible with both lattices since
// it has no signed/unsigned counterpart at its width.
func widen(a, b *ast.Type) (*ast.Type, bool) {
	if a == nil || b == nil || !a.IsNumeric() || !b.IsNumeric() {
		return nil, false
	}
	if ast.Equal(a, b) {
		return a, true
	}
	if isFloatKind(a.Kind) != isFloatKind(b.Kind) {
		// int/float mix widens to the float side (mirrors C's usual
		// arithmetic conversions, which this runtime's ABI follows).
		if isFloatKind(a.Kind) {
			return a, true
		}
		return b, true
	}
	if !isFloatKind(a.Kind) {
		aUnsigned := isUnsignedKind(a.Kind)
		bUnsigned := isUnsignedKind(b.Kind)
		if a.Kind != ast.KindByte && b.Kind != ast.KindByte && aUnsigned != bUnsigned {
			return nil, false
		}
	}
	if widenRank(a.Kind) >= widenRank(b.Kind) {
		return a, true
	}
	return b, true
}
