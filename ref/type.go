package ref

import (
	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
)

// Kind classifies a type descriptor.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindPointer
	KindObject
	KindCString
	KindCustom
	KindPointerTo
)

var kindNames = [...]string{
	KindVoid:      "void",
	KindInt:       "int",
	KindUint:      "uint",
	KindFloat:     "float",
	KindBool:      "bool",
	KindPointer:   "pointer",
	KindObject:    "object",
	KindCString:   "cstring",
	KindCustom:    "custom",
	KindPointerTo: "pointer-to",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Codec reads and writes one value of a base type at a byte offset.
type Codec interface {
	Decode(r *Region, offset int) (any, error)
	Encode(r *Region, offset int, v any) error
}

// Type describes one decodable shape of memory.
//
// A base type (indirection 1) reads and writes values through its Codec.
// A derived type, built with RefType, is a pointer to Elem and is read and
// written as a raw address. Types are immutable; Named returns a renamed copy.
type Type struct {
	codec       Codec
	elem        *Type
	name        string
	size        int
	align       int
	indirection int
	kind        Kind
	external    bool
}

// NewType creates a custom base type.
// size may be 0; align must be a power of two.
func NewType(name string, size, align int, codec Codec) (*Type, error) {
	if name == "" {
		return nil, errors.InvalidArgument(errors.PhaseCoerce, "type name must not be empty")
	}
	if size < 0 {
		return nil, errors.InvalidArgument(errors.PhaseCoerce, "type %q: negative size %d", name, size)
	}
	if align < 1 || align&(align-1) != 0 {
		return nil, errors.InvalidArgument(errors.PhaseCoerce, "type %q: alignment %d is not a power of two", name, align)
	}
	if codec == nil {
		return nil, errors.InvalidArgument(errors.PhaseCoerce, "type %q: nil codec", name)
	}
	return &Type{
		name:        name,
		size:        size,
		align:       align,
		indirection: 1,
		kind:        KindCustom,
		codec:       codec,
	}, nil
}

func newBuiltin(name string, kind Kind, codec Codec) *Type {
	l, ok := abi.Lookup(name)
	if !ok {
		panic("ref: no layout for built-in " + name)
	}
	return &Type{
		name:        name,
		size:        l.Size,
		align:       l.Align,
		indirection: 1,
		kind:        kind,
		codec:       codec,
	}
}

func (t *Type) Name() string     { return t.name }
func (t *Type) Size() int        { return t.size }
func (t *Type) Align() int       { return t.align }
func (t *Type) Indirection() int { return t.indirection }
func (t *Type) Kind() Kind       { return t.kind }

// External reports whether pointers read through this type refer to memory
// this package does not manage. Such reads yield External values.
func (t *Type) External() bool { return t.external }

// Elem returns the pointee of a derived type, or nil for base types.
func (t *Type) Elem() *Type { return t.elem }

// Codec returns the value codec of a base type, or nil for derived types.
func (t *Type) Codec() Codec { return t.codec }

func (t *Type) String() string { return t.name }

// Named returns a copy of t carrying name.
func (t *Type) Named(name string) *Type {
	c := *t
	c.name = name
	return &c
}

// RefType returns a pointer to t: pointer-sized, pointer-aligned, one level
// more indirect. A nil t is treated as Void.
func RefType(t *Type) *Type {
	return refType(t, false)
}

// RefTypeExternal is RefType for pointers that refer to unmanaged memory.
func RefTypeExternal(t *Type) *Type {
	return refType(t, true)
}

func refType(t *Type, external bool) *Type {
	if t == nil {
		t = Void
	}
	return &Type{
		name:        t.name + "*",
		size:        abi.PointerSize,
		align:       abi.PointerAlign,
		indirection: t.indirection + 1,
		kind:        KindPointerTo,
		elem:        t,
		external:    external,
	}
}

// DerefType strips one pointer level. It returns the pointee descriptor
// itself, so DerefType(RefType(t)) == t.
func DerefType(t *Type) (*Type, error) {
	if t == nil {
		return nil, errors.InvalidArgument(errors.PhaseDeref, "nil type")
	}
	if t.indirection <= 1 || t.elem == nil {
		return nil, errors.IndirectionUnderflow(errors.PhaseDeref, t.name, t.indirection)
	}
	return t.elem, nil
}
