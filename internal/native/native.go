package native

import (
	"unsafe"

	"github.com/wippyai/memref/internal/abi"
)

// AddressOf returns the address of the first byte backing b, or 0 when b has no backing array.
func AddressOf(b []byte) uint64 {
	if cap(b) == 0 {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
}

//go:nocheckptr
func pointer(addr uint64) unsafe.Pointer {
	return unsafe.Pointer(uintptr(addr))
}

// View returns n bytes of raw memory starting at addr.
// A zero address yields nil.
func View(addr uint64, n int) []byte {
	if addr == 0 || n < 0 {
		return nil
	}
	return unsafe.Slice((*byte)(pointer(addr)), n)
}

// LoadAddr decodes a native pointer-sized word from the start of b.
func LoadAddr(b []byte) uint64 {
	if abi.PointerSize == 8 {
		return abi.Native.Uint64(b)
	}
	return uint64(abi.Native.Uint32(b))
}

// StoreAddr encodes addr as a native pointer-sized word at the start of b.
func StoreAddr(b []byte, addr uint64) {
	if abi.PointerSize == 8 {
		abi.Native.PutUint64(b, addr)
		return
	}
	abi.Native.PutUint32(b, uint32(addr))
}

// Strlen counts bytes from addr up to the first zero byte.
// It has no upper bound; the terminator must exist.
func Strlen(addr uint64) int {
	n := 0
	for *(*byte)(pointer(addr + uint64(n))) != 0 {
		n++
	}
	return n
}

// ZeroRun scans from addr in strides of runLen bytes for the first window of
// runLen zero bytes and returns its offset. The scan gives up at limit.
func ZeroRun(addr uint64, runLen, limit int) int {
	size := 0
	for size < limit {
		window := View(addr+uint64(size), runLen)
		if isZero(window) {
			return size
		}
		size += runLen
	}
	return size
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
