//go:build windows

package abi

// LLP64: long stays 32-bit, wchar_t is a UTF-16 code unit.
const (
	LongSize  = 4
	longAlign = 4
	WcharSize = 2
)
