package ref

import (
	"bytes"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
	"github.com/wippyai/memref/internal/native"
	"github.com/wippyai/memref/internal/textenc"
)

func lookupEncoding(phase errors.Phase, name string) (*textenc.Encoding, error) {
	if name == "" {
		name = DefaultEncoding()
	}
	enc, ok := textenc.Lookup(name)
	if !ok {
		return nil, errors.InvalidArgument(phase, "unknown encoding %q", name)
	}
	return enc, nil
}

// ReadCString decodes the NUL-terminated string at offset with the default
// encoding. The terminator is excluded. For wide encodings such as utf16le
// the terminator is a whole zero code unit on a code unit boundary.
//
// The scan is not bounded by the region: when no zero byte occurs in r's
// backing memory, it continues through raw memory until one is found.
func (r *Region) ReadCString(offset int) (string, error) {
	return r.ReadCStringEncoded(offset, "")
}

// ReadCStringEncoded is ReadCString with an explicit encoding.
func (r *Region) ReadCStringEncoded(offset int, encoding string) (string, error) {
	if r.addr == 0 {
		return "", errors.NullDereference(errors.PhaseRead, "readCString")
	}
	if offset < 0 {
		return "", errors.OutOfBounds(errors.PhaseRead, offset, 1, len(r.data))
	}
	enc, err := lookupEncoding(errors.PhaseRead, encoding)
	if err != nil {
		return "", err
	}

	unit := enc.Unit()
	var raw []byte
	if full := r.full(); offset < len(full) {
		if n, ok := terminator(full[offset:], unit); ok {
			raw = full[offset : offset+n]
		}
	}
	if raw == nil {
		start := r.addr + uint64(offset)
		raw = native.View(start, strlen(start, unit))
	}

	s, err := enc.Decode(raw)
	if err != nil {
		return "", errors.Wrap(errors.PhaseRead, errors.KindInvalidArgument, err, "readCString: decode "+enc.Name())
	}
	return s, nil
}

// WriteCString encodes s followed by a zero terminator at offset. The
// terminator is one code unit wide. Unlike reads, writes are bounds-checked.
func (r *Region) WriteCString(offset int, s string, encoding string) error {
	enc, err := lookupEncoding(errors.PhaseWrite, encoding)
	if err != nil {
		return err
	}
	encoded, err := enc.Encode(s)
	if err != nil {
		return errors.Wrap(errors.PhaseWrite, errors.KindInvalidArgument, err, "writeCString: encode "+enc.Name())
	}
	b, err := r.writable(offset, len(encoded)+enc.Unit())
	if err != nil {
		return err
	}
	clear(b[copy(b, encoded):])
	return nil
}

// AllocCString allocates a NUL-terminated copy of v typed as char.
//
// v may be a string, a *string, or a []byte taken as already encoded. nil,
// a nil *string and NULL pointers yield Null without allocating. The
// encoding also sets the terminator width, for []byte input too.
func AllocCString(v any, encoding string) (*Region, error) {
	var encoded []byte
	enc, err := lookupEncoding(errors.PhaseAlloc, encoding)
	if err != nil {
		return nil, err
	}
	switch s := v.(type) {
	case nil:
		return Null, nil
	case *string:
		if s == nil {
			return Null, nil
		}
		return AllocCString(*s, encoding)
	case Pointer:
		if IsNull(s) {
			return Null, nil
		}
		return nil, errors.TypeMismatch(errors.PhaseAlloc, abi.TypeName(v), "CString")
	case []byte:
		encoded = s
	case string:
		if encoded, err = enc.Encode(s); err != nil {
			return nil, errors.Wrap(errors.PhaseAlloc, errors.KindInvalidArgument, err, "allocCString: encode "+enc.Name())
		}
	default:
		return nil, errors.TypeMismatch(errors.PhaseAlloc, abi.TypeName(v), "CString")
	}

	unit := enc.Unit()
	r, err := allocRegion(nil, len(encoded)+unit, unit, Char)
	if err != nil {
		return nil, err
	}
	clear(r.data[copy(r.data, encoded):])
	return r, nil
}

// terminator finds the first zero code unit in b.
func terminator(b []byte, unit int) (int, bool) {
	if unit == 1 {
		n := bytes.IndexByte(b, 0)
		return n, n >= 0
	}
	return zeroRun(b, unit)
}

// strlen measures a string in raw memory up to its zero code unit.
func strlen(addr uint64, unit int) int {
	if unit == 1 {
		return native.Strlen(addr)
	}
	return native.ZeroRun(addr, unit, MaxScanLength)
}
