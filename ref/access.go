package ref

import (
	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
)

// Get reads the value at offset using the type named by spec, or the
// region's own type when spec is nil.
//
// For pointer types (indirection above 1) Get does not decode: it returns
// the pointer stored at offset as a Pointer typed with the pointee
// descriptor, viewing pointee-size bytes. External pointer types yield an
// External. Base types decode through their codec.
func Get(r *Region, offset int, spec any) (any, error) {
	if r == nil {
		return nil, errors.InvalidArgument(errors.PhaseRead, "nil region")
	}
	t, err := resolveType(spec, r.Type())
	if err != nil {
		return nil, err
	}
	return getAs(r, offset, t)
}

// Set writes v at offset using the type named by spec, or the region's own
// type when spec is nil. Pointer types take a Pointer or nil.
func Set(r *Region, offset int, v any, spec any) error {
	if r == nil {
		return errors.InvalidArgument(errors.PhaseWrite, "nil region")
	}
	t, err := resolveType(spec, r.Type())
	if err != nil {
		return err
	}
	return setAs(r, offset, v, t)
}

// Deref reads the value at offset 0 through the region's own type.
func Deref(r *Region) (any, error) {
	return Get(r, 0, nil)
}

func (r *Region) Get(offset int) (any, error) { return getAs(r, offset, r.Type()) }

func (r *Region) GetAs(offset int, spec any) (any, error) { return Get(r, offset, spec) }

func (r *Region) Set(offset int, v any) error { return setAs(r, offset, v, r.Type()) }

func (r *Region) SetAs(offset int, v any, spec any) error { return Set(r, offset, v, spec) }

// Deref reads the value at offset 0 through the region's own type.
// On a pointer type it yields the pointee; on a base type, the decoded value.
func (r *Region) Deref() (any, error) { return getAs(r, 0, r.Type()) }

func getAs(r *Region, offset int, t *Type) (any, error) {
	if t.indirection > 1 {
		elem, err := DerefType(t)
		if err != nil {
			return nil, err
		}
		p, err := r.readPointer(offset, elem.size, t.external)
		if err != nil {
			return nil, err
		}
		switch p := p.(type) {
		case External:
			return p.WithType(elem), nil
		case *Region:
			p.typ = elem
			return p, nil
		}
	}
	if t.codec == nil {
		return nil, errors.New(errors.PhaseRead, errors.KindInvalidArgument).
			TypeName(t.name).
			Detail("type has no codec").
			Build()
	}
	return t.codec.Decode(r, offset)
}

func setAs(r *Region, offset int, v any, t *Type) error {
	if t.indirection > 1 {
		p, err := asPointer(v, t)
		if err != nil {
			return err
		}
		return r.WritePointer(offset, p)
	}
	if t.codec == nil {
		return errors.New(errors.PhaseWrite, errors.KindInvalidArgument).
			TypeName(t.name).
			Detail("type has no codec").
			Build()
	}
	return t.codec.Encode(r, offset, v)
}

func asPointer(v any, t *Type) (Pointer, error) {
	switch p := v.(type) {
	case nil:
		return nil, nil
	case Pointer:
		return p, nil
	default:
		return nil, errors.TypeMismatch(errors.PhaseWrite, abi.TypeName(v), t.name)
	}
}
