// Package abi describes the host C ABI as seen by the ref package.
//
// This package contains the size and alignment table for the built-in
// primitive types, the host pointer width and byte order, and the numeric
// coercion helpers used by codecs when lowering Go values into memory.
//
// # Contents
//
//   - layout.go: Size/alignment table for built-in type names
//   - layout_windows.go, layout_other.go: LLP64 vs LP64 differences (long, wchar_t)
//   - endian.go: Host byte order detection
//   - coerce.go: Range-checked coercion of Go numeric values
//   - helpers.go: Alignment and naming utilities
//
// This package is internal to the module.
package abi
