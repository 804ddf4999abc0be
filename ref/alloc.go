package ref

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/memref"
	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
	"github.com/wippyai/memref/internal/native"
	"github.com/wippyai/memref/internal/textenc"
)

// HeapAllocator carves aligned, zeroed storage from the Go heap.
// The Go heap does not move objects, so addresses stay valid for as long as
// the returned slice is reachable.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(size, align int) ([]byte, error) {
	if size < 0 {
		return nil, errors.InvalidArgument(errors.PhaseAlloc, "negative size %d", size)
	}
	if align < 1 {
		align = 1
	}
	// Zero-sized requests still get a backing byte so the region has an address.
	n := max(size, 1)
	buf := make([]byte, n+align-1)
	rem := int(native.AddressOf(buf) % uint64(align))
	pad := abi.AlignTo(rem, align) - rem
	return buf[pad : pad+size : pad+n], nil
}

var (
	configMu         sync.RWMutex
	defaultAllocator memref.Allocator = HeapAllocator{}
	defaultEncoding                   = textenc.Default
)

// SetDefaultAllocator sets the allocator used by Alloc and AllocCString.
// A nil allocator restores HeapAllocator.
func SetDefaultAllocator(a memref.Allocator) {
	if a == nil {
		a = HeapAllocator{}
	}
	configMu.Lock()
	defaultAllocator = a
	configMu.Unlock()
}

// DefaultAllocator returns the allocator used by Alloc and AllocCString.
func DefaultAllocator() memref.Allocator {
	configMu.RLock()
	defer configMu.RUnlock()
	return defaultAllocator
}

// SetDefaultEncoding sets the text encoding used by C string operations
// when none is given. An empty name restores UTF-8.
func SetDefaultEncoding(name string) error {
	enc, ok := textenc.Lookup(name)
	if !ok {
		return errors.InvalidArgument(errors.PhaseCoerce, "unknown encoding %q", name)
	}
	configMu.Lock()
	defaultEncoding = enc.Name()
	configMu.Unlock()
	return nil
}

// Encodings lists the names accepted wherever an encoding is selected.
func Encodings() []string {
	return textenc.Names()
}

// DefaultEncoding returns the name of the default C string encoding.
func DefaultEncoding() string {
	configMu.RLock()
	defer configMu.RUnlock()
	return defaultEncoding
}

// Alloc allocates memory for one value of the type named by spec and
// optionally stores value into it.
func Alloc(spec any, value ...any) (*Region, error) {
	return AllocWith(DefaultAllocator(), spec, value...)
}

// AllocWith is Alloc with an explicit allocator.
func AllocWith(a memref.Allocator, spec any, value ...any) (*Region, error) {
	if len(value) > 1 {
		return nil, errors.InvalidArgument(errors.PhaseAlloc, "at most one initial value, got %d", len(value))
	}
	t, err := CoerceType(spec)
	if err != nil {
		return nil, err
	}
	r, err := allocRegion(a, t.size, t.align, t)
	if err != nil {
		return nil, err
	}
	if len(value) == 1 {
		if err := setAs(r, 0, value[0], t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func allocRegion(a memref.Allocator, size, align int, t *Type) (*Region, error) {
	if a == nil {
		a = DefaultAllocator()
	}
	data, err := a.Alloc(size, align)
	if err != nil {
		return nil, errors.AllocationFailed(errors.PhaseAlloc, size, align, err)
	}
	if len(data) != size {
		return nil, errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Detail("allocator returned %d bytes, want %d", len(data), size).
			Build()
	}
	r := newOwned(data, t)
	if r.addr == 0 {
		return nil, errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Detail("allocator returned storage without an address").
			Build()
	}
	if ce := Logger().Check(zap.DebugLevel, "region allocated"); ce != nil {
		ce.Write(
			zap.String("type", r.Type().name),
			zap.Int("size", size),
			zap.Int("align", align),
			zap.Uint64("addr", r.addr))
	}
	return r, nil
}
