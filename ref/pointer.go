package ref

import (
	"cmp"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
	"github.com/wippyai/memref/internal/native"
)

// readPointer loads the address stored at offset. Non-external reads return
// a fresh *Region of length bytes at that address which keeps r reachable;
// a NULL address yields a zero-length NULL region.
func (r *Region) readPointer(offset, length int, external bool) (Pointer, error) {
	if length < 0 {
		return nil, errors.InvalidArgument(errors.PhaseRead, "negative length %d", length)
	}
	b, err := r.span(errors.PhaseRead, offset, abi.PointerSize)
	if err != nil {
		return nil, err
	}
	addr := native.LoadAddr(b)
	if external {
		return External{addr: addr}, nil
	}
	if addr == 0 {
		return derive(r, 0, nil, nil, nil), nil
	}
	data, owner := viewOf(addr, length, r.pointee(r.addr+uint64(offset)))
	return derive(r, addr, data, owner, nil), nil
}

// ReadPointer loads the address stored at offset.
//
// With external set the result is an External. Otherwise it is a region of
// length bytes at that address which keeps r reachable; a NULL address
// yields Null. Bytes of a region previously written at offset are viewed
// directly; any other address is viewed as raw process memory.
func (r *Region) ReadPointer(offset, length int, external bool) (Pointer, error) {
	p, err := r.readPointer(offset, length, external)
	if err != nil {
		return nil, err
	}
	if reg, ok := p.(*Region); ok && reg.IsNull() {
		return Null, nil
	}
	return p, nil
}

// WritePointer stores p's address at offset. A *Region becomes reachable
// from r's bytes for as long as they hold it; an External or nil retains
// nothing and releases whatever the slot retained before.
func (r *Region) WritePointer(offset int, p Pointer) error {
	b, err := r.writable(offset, abi.PointerSize)
	if err != nil {
		return err
	}

	var addr uint64
	var target *Region
	switch p := p.(type) {
	case *Region:
		if p != nil {
			addr = p.addr
			if addr != 0 {
				target = p
			}
		}
	case External:
		addr = p.addr
	}

	slot := r.addr + uint64(offset)
	native.StoreAddr(b, addr)
	r.retain(slot, target)

	if target != nil {
		if ce := Logger().Check(zap.DebugLevel, "pointer retained"); ce != nil {
			ce.Write(zap.Uint64("slot", slot), zap.Uint64("target", addr))
		}
	}
	return nil
}

// ContainsNullPointer reports whether the pointer stored at offset is NULL.
func (r *Region) ContainsNullPointer(offset int) (bool, error) {
	b, err := r.span(errors.PhaseRead, offset, abi.PointerSize)
	if err != nil {
		return false, err
	}
	return native.LoadAddr(b) == 0, nil
}

// HexAddress returns the region's address in lowercase hex without a prefix.
func (r *Region) HexAddress() string {
	return strconv.FormatUint(r.addr, 16)
}

// Ref returns a new pointer-sized region holding p's address, typed as a
// pointer to p's type. A region p stays reachable from the result.
// Refs to an External are external pointer types.
func Ref(p Pointer) *Region {
	if isNil(p) {
		p = Null
	}
	data, _ := HeapAllocator{}.Alloc(abi.PointerSize, abi.PointerAlign)

	t := RefType(p.Type())
	if _, ok := p.(External); ok {
		t = RefTypeExternal(p.Type())
	}
	c := newOwned(data, t)
	native.StoreAddr(data, p.Address())
	if reg, ok := p.(*Region); ok && !reg.IsNull() {
		c.retain(c.addr, reg)
	}
	return c
}

// IsNull reports whether p is nil or holds the zero address.
func IsNull(p Pointer) bool {
	return isNil(p) || p.IsNull()
}

// isNil catches both a nil interface and a nil *Region inside one.
func isNil(p Pointer) bool {
	if p == nil {
		return true
	}
	r, ok := p.(*Region)
	return ok && r == nil
}

// Address returns p's address plus offset. With external set, it instead
// returns the address stored at offset inside region p. An External already
// is such a stored address, so for it the flag changes nothing.
func Address(p Pointer, offset int, external bool) (uint64, error) {
	if isNil(p) {
		return 0, errors.InvalidArgument(errors.PhaseRead, "nil pointer")
	}
	if r, ok := p.(*Region); ok {
		if external {
			b, err := r.span(errors.PhaseRead, offset, abi.PointerSize)
			if err != nil {
				return 0, err
			}
			return native.LoadAddr(b), nil
		}
	}
	return p.Address() + uint64(int64(offset)), nil
}

// HexAddress is Address formatted as lowercase hex without a prefix.
func HexAddress(p Pointer, offset int, external bool) (string, error) {
	a, err := Address(p, offset, external)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(a, 16), nil
}

// GetNullPointer returns NullPointer, or with external set, a fresh writable
// pointer-sized region holding NULL and typed as an external pointer.
func GetNullPointer(external bool) *Region {
	if !external {
		return NullPointer
	}
	data, _ := HeapAllocator{}.Alloc(abi.PointerSize, abi.PointerAlign)
	return newOwned(data, ExternalType)
}

// ComparePointer compares a's address plus offA with b's address plus offB,
// returning -1, 0 or +1. A nil pointer compares as address 0.
func ComparePointer(a, b Pointer, offA, offB int) int {
	return cmp.Compare(pointerAddr(a)+uint64(int64(offA)), pointerAddr(b)+uint64(int64(offB)))
}

func pointerAddr(p Pointer) uint64 {
	if IsNull(p) {
		return 0
	}
	return p.Address()
}
