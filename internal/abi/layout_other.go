//go:build !windows

package abi

// LP64 / ILP32: long follows the pointer width, wchar_t is a UTF-32 code unit.
const (
	LongSize  = PointerSize
	longAlign = PointerAlign
	WcharSize = 4
)
