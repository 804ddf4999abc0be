package ref

import (
	"fmt"
	"sort"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
	"github.com/wippyai/memref/internal/native"
)

// Pointer is an address with an optional type descriptor. It is either a
// *Region, which views memory and keeps what it depends on alive, or an
// External, which is a bare address into memory managed elsewhere.
type Pointer interface {
	Address() uint64
	IsNull() bool
	Type() *Type
	isPointer()
}

// Region is a typed view of bytes at a fixed address.
//
// Regions produced from other regions (Ref, Reinterpret, WithType, pointer
// reads) share the address space of their source and keep it reachable.
// Pointers written into a region are kept reachable by the region that owns
// the bytes, so they live as long as the memory that refers to them.
type Region struct {
	typ      *Type
	base     *Region
	slots    map[uint64]*Region
	data     []byte
	parents  []Pointer
	addr     uint64
	readOnly bool
}

var (
	// Null is the zero-address, zero-length region.
	Null = &Region{typ: Void, readOnly: true}

	// NullPointer is a pointer-sized region holding a NULL address.
	NullPointer = newSentinel(make([]byte, abi.PointerSize), RefType(Void))
)

func newSentinel(data []byte, t *Type) *Region {
	return &Region{
		data:     data,
		addr:     native.AddressOf(data),
		typ:      t,
		readOnly: true,
	}
}

// Wrap returns a region viewing buf, typed as the untyped pointer descriptor.
// The region keeps buf reachable; it does not copy it.
func Wrap(buf []byte) *Region {
	return &Region{data: buf, addr: native.AddressOf(buf)}
}

func newOwned(data []byte, t *Type) *Region {
	return &Region{data: data, addr: native.AddressOf(data), typ: t}
}

// derive builds a region at addr that depends on src. data, when it was
// carved out of the bytes of owner, is attributed to owner.
func derive(src *Region, addr uint64, data []byte, owner *Region, t *Type) *Region {
	d := &Region{
		data: data,
		addr: addr,
		typ:  t,
	}
	if owner != nil {
		d.base = owner.owner()
		d.readOnly = owner.readOnly
	}
	if src != nil {
		d.parents = []Pointer{src}
	}
	return d
}

func (*Region) isPointer() {}

// Address returns the address of the first byte, 0 for NULL regions.
func (r *Region) Address() uint64 { return r.addr }

func (r *Region) IsNull() bool { return r.addr == 0 }

func (r *Region) Len() int { return len(r.data) }

// Bytes returns the region's bytes without copying.
func (r *Region) Bytes() []byte { return r.data }

// ReadOnly reports whether writes through this region are rejected.
func (r *Region) ReadOnly() bool { return r.readOnly }

// Type returns the attached descriptor, PointerType when none is attached.
func (r *Region) Type() *Type {
	if r.typ == nil {
		return PointerType
	}
	return r.typ
}

// WithType returns a region over the same bytes carrying t.
// A nil t detaches the type.
func (r *Region) WithType(t *Type) *Region {
	return derive(r, r.addr, r.data, r, t)
}

// Retained returns every pointer this region keeps reachable: the regions
// it was derived from and the regions whose addresses are stored in its bytes.
func (r *Region) Retained() []Pointer {
	out := append([]Pointer(nil), r.parents...)
	o := r.owner()
	if len(o.slots) == 0 {
		return out
	}
	addrs := make([]uint64, 0, len(o.slots))
	for a := range o.slots {
		if a >= r.addr && a < r.addr+uint64(len(r.data)) {
			addrs = append(addrs, a)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	for _, a := range addrs {
		out = append(out, o.slots[a])
	}
	return out
}

func (r *Region) String() string {
	return fmt.Sprintf("<Region@0x%x type=%s len=%d>", r.addr, r.Type().name, len(r.data))
}

// owner returns the region whose lifetime governs r's bytes.
func (r *Region) owner() *Region {
	if r.base != nil {
		return r.base
	}
	return r
}

// span returns size bytes at offset for reading.
func (r *Region) span(phase errors.Phase, offset, size int) ([]byte, error) {
	if r.addr == 0 {
		return nil, errors.NullDereference(phase, "access")
	}
	if !abi.InBounds(offset, size, len(r.data)) {
		return nil, errors.OutOfBounds(phase, offset, size, len(r.data))
	}
	return r.data[offset : offset+size], nil
}

// writable returns size bytes at offset for writing.
func (r *Region) writable(offset, size int) ([]byte, error) {
	if r.readOnly {
		return nil, errors.InvalidArgument(errors.PhaseWrite, "region at 0x%x is read-only", r.addr)
	}
	return r.span(errors.PhaseWrite, offset, size)
}

// full returns the region's bytes extended to the capacity of the backing
// array. Bytes past Len but within capacity are still managed memory.
func (r *Region) full() []byte {
	return r.data[:cap(r.data)]
}

// retain records that the pointer slot at addr refers to p.
func (r *Region) retain(slot uint64, p *Region) {
	o := r.owner()
	if p == nil {
		delete(o.slots, slot)
		return
	}
	if o.slots == nil {
		o.slots = make(map[uint64]*Region)
	}
	o.slots[slot] = p
}

// pointee returns the region recorded for the pointer slot at addr.
func (r *Region) pointee(slot uint64) *Region {
	return r.owner().slots[slot]
}

// viewOf returns n bytes at addr. When addr lies within the managed bytes of
// hint, the view is carved from them and attributed to hint's owner;
// otherwise it is a raw view of process memory.
func viewOf(addr uint64, n int, hint *Region) ([]byte, *Region) {
	if hint != nil && hint.addr != 0 {
		full := hint.full()
		end := hint.addr + uint64(len(full))
		if addr >= hint.addr && addr+uint64(n) <= end {
			off := int(addr - hint.addr)
			return full[off : off+n : len(full)], hint
		}
	}
	return native.View(addr, n), nil
}
