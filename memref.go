package memref

// Allocator hands out zeroed byte regions for typed memory.
// The returned slice must have length size and its first byte must be
// aligned to align, which is always a power of two.
type Allocator interface {
	Alloc(size, align int) ([]byte, error)
}
