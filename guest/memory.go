package guest

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/native"
	"github.com/wippyai/memref/ref"
)

// PointerSize is the width of a guest pointer in linear memory.
const PointerSize = 4

// Memory adapts a wazero api.Memory to ref regions.
type Memory struct {
	mem api.Memory
}

// Wrap returns nil for a nil memory.
func Wrap(mem api.Memory) *Memory {
	if mem == nil {
		return nil
	}
	return &Memory{mem: mem}
}

// Size returns the current size of the memory in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}

// Region returns a region viewing length bytes at the guest offset.
// Zero-length regions still carry the address of offset, which must then
// lie inside the memory.
func (m *Memory) Region(offset, length uint32) (*ref.Region, error) {
	n := length
	if n == 0 {
		n = 1
	}
	data, ok := m.mem.Read(offset, n)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseGuest, int(offset), int(length), int(m.mem.Size()))
	}
	return ref.Wrap(data[:length]), nil
}

// External returns the host address of a guest offset. Guest offset 0 is
// the guest's NULL and maps to a NULL External.
func (m *Memory) External(ptr uint32) (ref.External, error) {
	if ptr == 0 {
		return ref.ExternalAt(0), nil
	}
	if ptr > m.mem.Size() {
		return ref.External{}, errors.OutOfBounds(errors.PhaseGuest, int(ptr), 0, int(m.mem.Size()))
	}
	return ref.ExternalAt(m.base() + uint64(ptr)), nil
}

// GuestOffset maps p's host address to an offset in this memory. NULL maps
// to 0; addresses outside the memory are an error.
func (m *Memory) GuestOffset(p ref.Pointer) (uint32, error) {
	if ref.IsNull(p) {
		return 0, nil
	}
	base, addr := m.base(), p.Address()
	if addr < base || addr > base+uint64(m.mem.Size()) {
		return 0, errors.New(errors.PhaseGuest, errors.KindOutOfBounds).
			Value(addr).
			Detail("address 0x%x is outside guest memory", addr).
			Build()
	}
	return uint32(addr - base), nil
}

// ReadPointer follows the guest pointer stored at offset and returns a
// region of length bytes at its target. A NULL guest pointer yields ref.Null.
func (m *Memory) ReadPointer(offset, length uint32) (*ref.Region, error) {
	ptr, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseGuest, int(offset), PointerSize, int(m.mem.Size()))
	}
	if ptr == 0 {
		return ref.Null, nil
	}
	return m.Region(ptr, length)
}

// WritePointer stores the guest offset of p at offset. p must point into
// this memory or be NULL.
func (m *Memory) WritePointer(offset uint32, p ref.Pointer) error {
	ptr, err := m.GuestOffset(p)
	if err != nil {
		return err
	}
	if !m.mem.WriteUint32Le(offset, ptr) {
		return errors.OutOfBounds(errors.PhaseGuest, int(offset), PointerSize, int(m.mem.Size()))
	}
	return nil
}

// base returns the current host address of guest offset 0.
func (m *Memory) base() uint64 {
	all, ok := m.mem.Read(0, m.mem.Size())
	if !ok {
		return 0
	}
	return native.AddressOf(all)
}
