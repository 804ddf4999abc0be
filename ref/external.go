package ref

import (
	"fmt"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/native"
)

// External is an address into memory this package does not manage, such as
// a buffer owned by native code. It carries no bytes and keeps nothing
// reachable; the owner of the memory decides how long it stays valid.
type External struct {
	typ  *Type
	addr uint64
}

// ExternalAt returns an untyped External for addr.
func ExternalAt(addr uint64) External {
	return External{addr: addr}
}

func (External) isPointer() {}

func (e External) Address() uint64 { return e.addr }

func (e External) IsNull() bool { return e.addr == 0 }

// Type returns the pointee descriptor, Void when none is attached.
func (e External) Type() *Type {
	if e.typ == nil {
		return Void
	}
	return e.typ
}

// WithType returns e carrying t.
func (e External) WithType(t *Type) External {
	e.typ = t
	return e
}

// Add returns e moved by delta bytes.
func (e External) Add(delta int) External {
	e.addr += uint64(int64(delta))
	return e
}

// View returns a region over n bytes at e. The region does not keep the
// memory alive and reads through it are only as safe as the address.
func (e External) View(n int) (*Region, error) {
	if e.addr == 0 {
		return nil, errors.NullDereference(errors.PhaseDeref, "external view")
	}
	if n < 0 {
		return nil, errors.InvalidArgument(errors.PhaseDeref, "negative length %d", n)
	}
	return &Region{data: native.View(e.addr, n), addr: e.addr, typ: e.typ}, nil
}

// Deref reads one value of e's type at e.
func (e External) Deref() (any, error) {
	t := e.Type()
	r, err := e.View(t.size)
	if err != nil {
		return nil, err
	}
	return getAs(r, 0, t)
}

func (e External) String() string {
	return fmt.Sprintf("<External@0x%x type=%s>", e.addr, e.Type().name)
}
