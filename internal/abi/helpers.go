package abi

import "reflect"

// TypeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func TypeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

// AlignTo rounds offset up to a multiple of align.
func AlignTo(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// InBounds reports whether [offset, offset+size) lies inside a region of length n.
func InBounds(offset, size, n int) bool {
	return offset >= 0 && size >= 0 && offset <= n && size <= n-offset
}
