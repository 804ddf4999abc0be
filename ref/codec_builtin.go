package ref

import (
	"math"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
)

type voidCodec struct{}

func (voidCodec) Decode(*Region, int) (any, error) { return nil, nil }

func (voidCodec) Encode(*Region, int, any) error { return nil }

// intCodec decodes to the exact-width Go integer type: int8..int64 when
// signed, uint8..uint64 otherwise.
type intCodec struct {
	size   int
	signed bool
}

func (c intCodec) Decode(r *Region, offset int) (any, error) {
	if c.size == 8 {
		if c.signed {
			return r.ReadInt64(offset)
		}
		return r.ReadUint64(offset)
	}
	b, err := r.span(errors.PhaseRead, offset, c.size)
	if err != nil {
		return nil, err
	}
	switch {
	case c.size == 1 && c.signed:
		return int8(b[0]), nil
	case c.size == 1:
		return b[0], nil
	case c.size == 2 && c.signed:
		return int16(abi.Native.Uint16(b)), nil
	case c.size == 2:
		return abi.Native.Uint16(b), nil
	case c.signed:
		return int32(abi.Native.Uint32(b)), nil
	default:
		return abi.Native.Uint32(b), nil
	}
}

func (c intCodec) Encode(r *Region, offset int, v any) error {
	if c.size == 8 {
		if c.signed {
			return r.WriteInt64(offset, v)
		}
		return r.WriteUint64(offset, v)
	}

	bits := c.size * 8
	var u uint64
	if c.signed {
		n, ok := abi.CoerceSigned(v, bits)
		if !ok {
			return valueError(v, intName(c.signed, bits))
		}
		u = uint64(n)
	} else {
		n, ok := abi.CoerceUnsigned(v, bits)
		if !ok {
			return valueError(v, intName(c.signed, bits))
		}
		u = n
	}

	b, err := r.writable(offset, c.size)
	if err != nil {
		return err
	}
	switch c.size {
	case 1:
		b[0] = byte(u)
	case 2:
		abi.Native.PutUint16(b, uint16(u))
	default:
		abi.Native.PutUint32(b, uint32(u))
	}
	return nil
}

func intName(signed bool, bits int) string {
	switch {
	case signed && bits == 8:
		return "int8"
	case signed && bits == 16:
		return "int16"
	case signed:
		return "int32"
	case bits == 8:
		return "uint8"
	case bits == 16:
		return "uint16"
	default:
		return "uint32"
	}
}

type floatCodec struct {
	size int
}

func (c floatCodec) Decode(r *Region, offset int) (any, error) {
	b, err := r.span(errors.PhaseRead, offset, c.size)
	if err != nil {
		return nil, err
	}
	if c.size == 4 {
		return math.Float32frombits(abi.Native.Uint32(b)), nil
	}
	return math.Float64frombits(abi.Native.Uint64(b)), nil
}

func (c floatCodec) Encode(r *Region, offset int, v any) error {
	f, ok := abi.CoerceToFloat64(v)
	if !ok {
		if c.size == 4 {
			return errors.TypeMismatch(errors.PhaseWrite, abi.TypeName(v), "float")
		}
		return errors.TypeMismatch(errors.PhaseWrite, abi.TypeName(v), "double")
	}
	b, err := r.writable(offset, c.size)
	if err != nil {
		return err
	}
	if c.size == 4 {
		abi.Native.PutUint32(b, math.Float32bits(float32(f)))
	} else {
		abi.Native.PutUint64(b, math.Float64bits(f))
	}
	return nil
}

type boolCodec struct{}

func (boolCodec) Decode(r *Region, offset int) (any, error) {
	b, err := r.span(errors.PhaseRead, offset, 1)
	if err != nil {
		return nil, err
	}
	return b[0] != 0, nil
}

// Encode accepts a bool, or a number where non-zero is true.
func (boolCodec) Encode(r *Region, offset int, v any) error {
	var set bool
	switch x := v.(type) {
	case bool:
		set = x
	default:
		f, ok := abi.CoerceToFloat64(v)
		if !ok {
			return errors.TypeMismatch(errors.PhaseWrite, abi.TypeName(v), "bool")
		}
		set = f != 0
	}
	b, err := r.writable(offset, 1)
	if err != nil {
		return err
	}
	b[0] = 0
	if set {
		b[0] = 1
	}
	return nil
}

// pointerCodec reads an untyped pointer as a zero-length region at the
// stored address that keeps its container reachable.
type pointerCodec struct{}

func (pointerCodec) Decode(r *Region, offset int) (any, error) {
	return r.readPointer(offset, 0, false)
}

func (pointerCodec) Encode(r *Region, offset int, v any) error {
	p, err := asPointer(v, PointerType)
	if err != nil {
		return err
	}
	return r.WritePointer(offset, p)
}

// objectCodec stores Go values through handles held for the lifetime of the
// memory they are written into.
type objectCodec struct{}

func (objectCodec) Decode(r *Region, offset int) (any, error) {
	return r.ReadObject(offset)
}

func (objectCodec) Encode(r *Region, offset int, v any) error {
	return r.WriteObject(offset, v, false)
}

// cstringCodec reads and writes a pointer to a NUL-terminated string. An
// empty encoding follows the package default.
type cstringCodec struct {
	encoding string
}

func (c cstringCodec) Decode(r *Region, offset int) (any, error) {
	p, err := r.readPointer(offset, 0, false)
	if err != nil {
		return nil, err
	}
	target := p.(*Region)
	if target.IsNull() {
		return nil, nil
	}
	return target.ReadCStringEncoded(0, c.encoding)
}

// Encode accepts a string, which is copied into fresh memory kept reachable
// by r, a Pointer to existing string bytes, or nil.
func (c cstringCodec) Encode(r *Region, offset int, v any) error {
	switch s := v.(type) {
	case nil:
		return r.WritePointer(offset, nil)
	case Pointer:
		return r.WritePointer(offset, s)
	case string, *string:
		buf, err := AllocCString(s, c.encoding)
		if err != nil {
			return err
		}
		return r.WritePointer(offset, buf)
	default:
		return errors.TypeMismatch(errors.PhaseWrite, abi.TypeName(v), "CString")
	}
}
