package abi

import "math"

// CoerceToInt64 accepts any Go integer type, and floats holding an exact integer.
func CoerceToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v), true
		}
	case uintptr:
		if uint64(v) <= math.MaxInt64 {
			return int64(v), true
		}
	case float64:
		// 2^63 is exactly representable; anything at or above it overflows.
		if v >= math.MinInt64 && v < math.MaxInt64 && v == math.Trunc(v) {
			return int64(v), true
		}
	case float32:
		f := float64(v)
		if f >= math.MinInt64 && f < math.MaxInt64 && f == math.Trunc(f) {
			return int64(f), true
		}
	}
	return 0, false
}

// CoerceToUint64 accepts any non-negative Go integer, and floats holding an exact integer.
func CoerceToUint64(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case uintptr:
		return uint64(v), true
	case int8:
		if v >= 0 {
			return uint64(v), true
		}
	case int16:
		if v >= 0 {
			return uint64(v), true
		}
	case int32:
		if v >= 0 {
			return uint64(v), true
		}
	case int:
		if v >= 0 {
			return uint64(v), true
		}
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case float64:
		if v >= 0 && v < math.MaxUint64 && v == math.Trunc(v) {
			return uint64(v), true
		}
	case float32:
		f := float64(v)
		if f >= 0 && f < math.MaxUint64 && f == math.Trunc(f) {
			return uint64(f), true
		}
	}
	return 0, false
}

// CoerceSigned coerces value into the range of a two's complement integer of bits width.
func CoerceSigned(value any, bits int) (int64, bool) {
	v, ok := CoerceToInt64(value)
	if !ok {
		return 0, false
	}
	if bits >= 64 {
		return v, true
	}
	lo := int64(-1) << (bits - 1)
	hi := -lo - 1
	if v < lo || v > hi {
		return 0, false
	}
	return v, true
}

// CoerceUnsigned coerces value into the range of an unsigned integer of bits width.
func CoerceUnsigned(value any, bits int) (uint64, bool) {
	v, ok := CoerceToUint64(value)
	if !ok {
		return 0, false
	}
	if bits >= 64 {
		return v, true
	}
	if v > uint64(1)<<bits-1 {
		return 0, false
	}
	return v, true
}

// CoerceToFloat64 accepts any Go numeric type.
func CoerceToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	if i, ok := CoerceToInt64(value); ok {
		return float64(i), true
	}
	if u, ok := CoerceToUint64(value); ok {
		return float64(u), true
	}
	return 0, false
}
