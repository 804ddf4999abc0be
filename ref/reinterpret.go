package ref

import (
	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/native"
)

// MaxScanLength bounds ReinterpretUntilZeros.
const MaxScanLength = 0x3fffffff

// Reinterpret returns a region of size bytes at r's address plus offset.
// The result keeps r reachable. It may extend past r's length, in which case
// the bytes beyond r are raw process memory.
func (r *Region) Reinterpret(size, offset int) (*Region, error) {
	if r.addr == 0 {
		return nil, errors.NullDereference(errors.PhaseRead, "reinterpret")
	}
	if size < 0 {
		return nil, errors.InvalidArgument(errors.PhaseRead, "negative size %d", size)
	}
	addr := r.addr + uint64(int64(offset))
	data, owner := viewOf(addr, size, r)
	return derive(r, addr, data, owner, nil), nil
}

// ReinterpretUntilZeros returns a region starting at r's address plus
// offset and ending before the first run of zeroRunLength zero bytes. The
// scan steps in strides of zeroRunLength, so only aligned windows are
// checked, and stops at MaxScanLength.
func (r *Region) ReinterpretUntilZeros(zeroRunLength, offset int) (*Region, error) {
	if r.addr == 0 {
		return nil, errors.NullDereference(errors.PhaseRead, "reinterpretUntilZeros")
	}
	if zeroRunLength < 1 {
		return nil, errors.InvalidArgument(errors.PhaseRead, "zero run length %d must be positive", zeroRunLength)
	}

	size, found := 0, false
	if offset >= 0 && offset <= len(r.full()) {
		size, found = zeroRun(r.full()[offset:], zeroRunLength)
	}
	if !found {
		start := r.addr + uint64(int64(offset)) + uint64(size)
		size += native.ZeroRun(start, zeroRunLength, MaxScanLength-size)
	}
	return r.Reinterpret(size, offset)
}

// zeroRun scans whole windows of b. When no window is zero it returns the
// offset where scanning must continue.
func zeroRun(b []byte, n int) (int, bool) {
	size := 0
	for ; size+n <= len(b) && size < MaxScanLength; size += n {
		zero := true
		for _, c := range b[size : size+n] {
			if c != 0 {
				zero = false
				break
			}
		}
		if zero {
			return size, true
		}
	}
	return size, size >= MaxScanLength
}

// ReadFromPointer follows the pointer stored at the start of r and returns
// size bytes at the pointee's address plus offset.
func (r *Region) ReadFromPointer(offset, size int) (*Region, error) {
	p, err := r.readPointer(0, 0, false)
	if err != nil {
		return nil, err
	}
	target := p.(*Region)
	if target.IsNull() {
		return nil, errors.NullDereference(errors.PhaseRead, "readFromPointer")
	}
	return target.Reinterpret(size, offset)
}
