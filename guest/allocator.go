package guest

import (
	"context"
	"math"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/ref"
)

// Allocator allocates guest memory through the canonical ABI realloc export,
// cabi_realloc(old_ptr, old_size, align, new_size).
type Allocator struct {
	ctx context.Context
	mem *Memory
	fn  api.Function
}

// NewAllocator returns nil when mem or fn is nil.
func NewAllocator(ctx context.Context, mem *Memory, fn api.Function) *Allocator {
	if mem == nil || fn == nil {
		return nil
	}
	return &Allocator{ctx: ctx, mem: mem, fn: fn}
}

// Alloc returns size bytes of fresh guest memory aligned to align.
func (a *Allocator) Alloc(size, align int) ([]byte, error) {
	if size < 0 || uint64(size) > math.MaxUint32 {
		return nil, errors.InvalidArgument(errors.PhaseGuest, "size %d out of range", size)
	}
	if align < 1 {
		align = 1
	}

	results, err := a.fn.Call(a.ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		Logger().Warn("guest allocation failed",
			zap.Int("size", size),
			zap.Int("align", align),
			zap.Error(err))
		return nil, errors.AllocationFailed(errors.PhaseGuest, size, align, err)
	}
	if len(results) == 0 {
		return nil, errors.New(errors.PhaseGuest, errors.KindAllocation).
			Detail("cabi_realloc returned no result").
			Build()
	}

	ptr := uint32(results[0])
	n := uint32(max(size, 1))
	data, ok := a.mem.mem.Read(ptr, n)
	if !ok {
		Logger().Warn("guest allocation outside memory",
			zap.Uint32("ptr", ptr),
			zap.Int("size", size))
		return nil, errors.OutOfBounds(errors.PhaseGuest, int(ptr), int(n), int(a.mem.Size()))
	}
	return data[:size], nil
}

// Free returns r's bytes to the guest. r must have been allocated by a.
func (a *Allocator) Free(r *ref.Region, align int) error {
	ptr, err := a.mem.GuestOffset(r)
	if err != nil {
		return err
	}
	if ptr == 0 {
		return nil
	}
	if _, err := a.fn.Call(a.ctx, uint64(ptr), uint64(r.Len()), uint64(align), 0); err != nil {
		return errors.Wrap(errors.PhaseGuest, errors.KindAllocation, err, "cabi_realloc free")
	}
	return nil
}
