package guest

import (
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/ref"
)

// Descriptor returns the ref type descriptor for a WIT scalar. Strings map
// to CString, chars to their 32-bit scalar value, resource handles to u32,
// and enums and flags to the smallest unsigned integer that holds them.
// Aggregates have no single-value descriptor.
func Descriptor(t wit.Type) (*ref.Type, error) {
	switch t := t.(type) {
	case wit.Bool:
		return ref.Bool, nil
	case wit.U8:
		return ref.Uint8, nil
	case wit.S8:
		return ref.Int8, nil
	case wit.U16:
		return ref.Uint16, nil
	case wit.S16:
		return ref.Int16, nil
	case wit.U32:
		return ref.Uint32, nil
	case wit.S32:
		return ref.Int32, nil
	case wit.U64:
		return ref.Uint64, nil
	case wit.S64:
		return ref.Int64, nil
	case wit.F32:
		return ref.Float, nil
	case wit.F64:
		return ref.Double, nil
	case wit.Char:
		return ref.Uint32, nil
	case wit.String:
		return ref.CString, nil
	case *wit.TypeDef:
		return typeDefDescriptor(t)
	}
	return nil, errors.InvalidTypeSpecifier(t)
}

func typeDefDescriptor(t *wit.TypeDef) (*ref.Type, error) {
	switch kind := t.Kind.(type) {
	case *wit.Own, *wit.Borrow:
		return ref.Uint32, nil
	case *wit.Enum:
		bits := 0
		for n := len(kind.Cases) - 1; n > 0; n >>= 1 {
			bits++
		}
		return unsignedFor(bits, t)
	case *wit.Flags:
		return unsignedFor(len(kind.Flags), t)
	case wit.Type:
		return Descriptor(kind)
	}
	return nil, errors.InvalidTypeSpecifier(t)
}

// unsignedFor picks the narrowest unsigned type holding bits bits.
func unsignedFor(bits int, t *wit.TypeDef) (*ref.Type, error) {
	switch {
	case bits <= 8:
		return ref.Uint8, nil
	case bits <= 16:
		return ref.Uint16, nil
	case bits <= 32:
		return ref.Uint32, nil
	}
	return nil, errors.InvalidTypeSpecifier(t)
}
