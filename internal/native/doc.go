// Package native holds every conversion between integer addresses and memory.
//
// Nothing outside this package turns a uint64 back into an unsafe.Pointer.
// The functions here trust their caller: an address handed to View, Strlen,
// or ZeroRun must refer to memory that stays mapped and, when it lives
// in the Go heap, stays reachable for the duration of the call and of every
// slice returned from it.
//
// This package is internal to the module.
package native
