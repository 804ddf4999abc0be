// Package memref provides typed access to raw memory for native interop.
//
// A program treats an arbitrary byte region as having an address, a pointer
// indirection depth and a codec that reads and writes values at byte offsets:
// integers, floats, pointers, NUL-terminated strings and opaque handles to
// Go values.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	memref/              Root package with the Allocator interface
//	├── ref/             Type descriptors, regions, pointer operations and codecs
//	├── guest/           Regions over wazero linear memory
//	├── resource/        Handle table backing stored Go values
//	├── errors/          Structured error types for debugging
//	└── internal/        ABI table, address conversions, text encodings
//
// # Quick Start
//
// Allocate typed memory and chase a pointer:
//
//	buf, err := ref.Alloc(ref.Int, 42)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p := ref.Ref(buf)      // int*, holds buf's address, keeps buf alive
//	v, _ := p.Deref()      // a region over buf's bytes, typed int
//	n, _ := v.(*ref.Region).Deref()
//	fmt.Println(n)         // 42
//
// # Retention
//
// Writing a region's address into another region makes the writer keep the
// pointee alive. Reading a pointer back returns a region that keeps its
// container alive. Memory owned by something else is modelled by
// ref.External, which never retains.
//
// # Thread Safety
//
// The type registry and the handle table are safe for concurrent use.
// Regions are NOT thread-safe and should be used by a single goroutine, or
// access must be synchronized.
//
// # Memory Model
//
// Regions allocated by this package live in the Go heap, which does not move
// objects. Addresses read from memory are trusted: reading through an
// address that points to freed or unmapped memory is undefined behavior, as
// it is in C.
package memref
