// Package guest exposes WebAssembly linear memory through typed regions.
//
// A wazero module's memory is memory this process does not own: the guest
// allocates and frees it, and growing the memory may move it. This package
// bridges it to the ref layer.
//
// # Memory
//
// Wrap adapts api.Memory. Region views guest bytes as a *ref.Region,
// External turns a guest offset into a host address, and GuestOffset maps
// a host address back:
//
//	mem := guest.Wrap(mod.ExportedMemory("memory"))
//	r, err := mem.Region(ptr, 16)
//	v, err := ref.Get(r, 0, ref.Int)
//
// Guest pointers are 32-bit offsets, so pointer slots inside guest memory
// are read and written with ReadPointer and WritePointer rather than the
// host-sized ref operations.
//
// # Allocator
//
// NewAllocator calls the guest's cabi_realloc export and implements
// memref.Allocator, so ref.AllocWith can place values in guest memory:
//
//	alloc := guest.NewAllocator(ctx, mem, mod.ExportedFunction("cabi_realloc"))
//	r, err := ref.AllocWith(alloc, ref.Double, 1.5)
//
// # Validity
//
// Views returned by this package are invalidated when the guest memory
// grows. Re-derive them after any call into the guest that may allocate.
package guest
