package ref

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
	"github.com/wippyai/memref/internal/native"
	"github.com/wippyai/memref/resource"
)

// objects holds every Go value stored in memory, keyed by the handle
// written into the pointer-sized slot.
var objects = newObjectTable()

func newObjectTable() *resource.Table {
	t := resource.NewTable()
	t.Subscribe(resource.ObserverFunc(func(e resource.Event) {
		if e.Type != resource.EventReleased {
			return
		}
		if ce := Logger().Check(zap.DebugLevel, "object released"); ce != nil {
			ce.Write(zap.Uint64("handle", uint64(e.Handle)), zap.Bool("persistent", e.Persistent))
		}
	}))
	return t
}

func releaseObject(h resource.Handle) {
	objects.Remove(h)
}

// WriteObject stores a handle to obj in the pointer-sized slot at offset.
//
// A non-persistent hold lasts until the memory holding the slot becomes
// unreachable. A persistent hold lasts until ReleaseObject. A nil obj
// stores NULL. Values implementing resource.Dropper are dropped when their
// hold ends.
func (r *Region) WriteObject(offset int, obj any, persistent bool) error {
	b, err := r.writable(offset, abi.PointerSize)
	if err != nil {
		return err
	}
	if obj == nil {
		native.StoreAddr(b, 0)
		return nil
	}

	h := objects.Insert(obj, persistent)
	if h == 0 {
		return errors.New(errors.PhaseWrite, errors.KindAllocation).
			GoType(abi.TypeName(obj)).
			Detail("object table closed").
			Build()
	}
	native.StoreAddr(b, uint64(h))
	if !persistent {
		runtime.AddCleanup(r.owner(), releaseObject, h)
	}
	return nil
}

// ReadObject returns the value whose handle is stored at offset.
func (r *Region) ReadObject(offset int) (any, error) {
	b, err := r.span(errors.PhaseRead, offset, abi.PointerSize)
	if err != nil {
		return nil, err
	}
	h := resource.Handle(native.LoadAddr(b))
	if h == 0 {
		return nil, errors.NullDereference(errors.PhaseRead, "readObject")
	}
	obj, ok := objects.Get(h)
	if !ok {
		return nil, errors.New(errors.PhaseRead, errors.KindNullDereference).
			Value(uint64(h)).
			Detail("readObject: handle has been released").
			Build()
	}
	return obj, nil
}

// ReleaseObject drops the hold whose handle is stored at offset and clears
// the slot. Releasing an empty or already released slot is not an error.
func (r *Region) ReleaseObject(offset int) error {
	b, err := r.writable(offset, abi.PointerSize)
	if err != nil {
		return err
	}
	if h := resource.Handle(native.LoadAddr(b)); h != 0 {
		objects.Remove(h)
	}
	native.StoreAddr(b, 0)
	return nil
}

// ObjectCount reports how many stored objects are currently held.
func ObjectCount() int {
	return objects.Len()
}
