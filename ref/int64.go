package ref

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
)

// 64-bit integers decode to exact int64/uint64 values. Encoders accept any Go
// integer, an integral float, or a string in C literal form: decimal, 0x hex
// or 0-prefixed octal.

func (r *Region) ReadInt64(offset int) (int64, error) { return r.readInt64(offset, abi.Native) }

func (r *Region) ReadInt64BE(offset int) (int64, error) {
	return r.readInt64(offset, binary.BigEndian)
}

func (r *Region) ReadInt64LE(offset int) (int64, error) {
	return r.readInt64(offset, binary.LittleEndian)
}

func (r *Region) ReadUint64(offset int) (uint64, error) { return r.readUint64(offset, abi.Native) }

func (r *Region) ReadUint64BE(offset int) (uint64, error) {
	return r.readUint64(offset, binary.BigEndian)
}

func (r *Region) ReadUint64LE(offset int) (uint64, error) {
	return r.readUint64(offset, binary.LittleEndian)
}

func (r *Region) WriteInt64(offset int, v any) error { return r.writeInt64(offset, v, abi.Native) }

func (r *Region) WriteInt64BE(offset int, v any) error {
	return r.writeInt64(offset, v, binary.BigEndian)
}

func (r *Region) WriteInt64LE(offset int, v any) error {
	return r.writeInt64(offset, v, binary.LittleEndian)
}

func (r *Region) WriteUint64(offset int, v any) error { return r.writeUint64(offset, v, abi.Native) }

func (r *Region) WriteUint64BE(offset int, v any) error {
	return r.writeUint64(offset, v, binary.BigEndian)
}

func (r *Region) WriteUint64LE(offset int, v any) error {
	return r.writeUint64(offset, v, binary.LittleEndian)
}

func (r *Region) readInt64(offset int, order binary.ByteOrder) (int64, error) {
	u, err := r.readUint64(offset, order)
	return int64(u), err
}

func (r *Region) readUint64(offset int, order binary.ByteOrder) (uint64, error) {
	b, err := r.span(errors.PhaseRead, offset, 8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

func (r *Region) writeInt64(offset int, v any, order binary.ByteOrder) error {
	n, err := coerceInt64(v)
	if err != nil {
		return err
	}
	b, err := r.writable(offset, 8)
	if err != nil {
		return err
	}
	order.PutUint64(b, uint64(n))
	return nil
}

func (r *Region) writeUint64(offset int, v any, order binary.ByteOrder) error {
	n, err := coerceUint64(v)
	if err != nil {
		return err
	}
	b, err := r.writable(offset, 8)
	if err != nil {
		return err
	}
	order.PutUint64(b, n)
	return nil
}

func coerceInt64(v any) (int64, error) {
	if s, ok := v.(string); ok {
		n, err := parseInt64(s)
		if err != nil {
			return 0, errors.Wrap(errors.PhaseWrite, errors.KindInvalidArgument, err, "writeInt64")
		}
		return n, nil
	}
	n, ok := abi.CoerceToInt64(v)
	if !ok {
		return 0, valueError(v, "int64")
	}
	return n, nil
}

func coerceUint64(v any) (uint64, error) {
	if s, ok := v.(string); ok {
		n, err := parseUint64(s)
		if err != nil {
			return 0, errors.Wrap(errors.PhaseWrite, errors.KindInvalidArgument, err, "writeUint64")
		}
		return n, nil
	}
	n, ok := abi.CoerceToUint64(v)
	if !ok {
		return 0, valueError(v, "uint64")
	}
	return n, nil
}

// splitIntLiteral reads s the way C's strtoll does with base 0: an optional
// sign, then 0x or 0X for hex, a leading 0 for octal, else decimal. Go-only
// forms such as 0b, 0o and digit separators are not accepted.
func splitIntLiteral(s string) (neg bool, digits string, base int) {
	digits = s
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		neg, digits = digits[0] == '-', digits[1:]
	}
	switch {
	case len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X'):
		return neg, digits[2:], 16
	case len(digits) > 1 && digits[0] == '0':
		return neg, digits[1:], 8
	}
	return neg, digits, 10
}

func parseInt64(s string) (int64, error) {
	neg, digits, base := splitIntLiteral(s)
	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: unwrapNumError(err)}
	}
	switch {
	case neg && u <= 1<<63:
		return -int64(u), nil
	case !neg && u <= math.MaxInt64:
		return int64(u), nil
	}
	return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrRange}
}

func parseUint64(s string) (uint64, error) {
	neg, digits, base := splitIntLiteral(s)
	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, &strconv.NumError{Func: "ParseUint", Num: s, Err: unwrapNumError(err)}
	}
	if neg && u != 0 {
		return 0, &strconv.NumError{Func: "ParseUint", Num: s, Err: strconv.ErrRange}
	}
	return u, nil
}

func unwrapNumError(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

// valueError distinguishes out-of-range numbers from values of the wrong kind.
func valueError(v any, typeName string) error {
	if _, numeric := abi.CoerceToFloat64(v); numeric {
		return errors.Overflow(errors.PhaseWrite, v, typeName)
	}
	return errors.TypeMismatch(errors.PhaseWrite, abi.TypeName(v), typeName)
}
