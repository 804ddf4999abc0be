package ref

import (
	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
	"github.com/wippyai/memref/internal/native"
)

// CopyMemory copies size bytes from the address stored in src to the
// address stored in dst. Both arguments are pointer containers: non-nil,
// non-NULL regions of at least pointer size. Arguments are validated before
// any memory is touched; size 0 copies nothing.
//
// Copying raw bytes does not carry retention across: pointers inside the
// copied bytes are not kept reachable by dst's pointee.
func CopyMemory(dst, src *Region, size int) error {
	if err := checkContainer("dst", dst); err != nil {
		return err
	}
	if err := checkContainer("src", src); err != nil {
		return err
	}
	if size < 0 {
		return errors.InvalidArgument(errors.PhaseCopy, "negative size %d", size)
	}
	if size == 0 {
		return nil
	}
	if dst.readOnly {
		return errors.InvalidArgument(errors.PhaseCopy, "dst is read-only")
	}

	dstAddr := native.LoadAddr(dst.data)
	srcAddr := native.LoadAddr(src.data)
	if dstAddr == 0 {
		return errors.NullDereference(errors.PhaseCopy, "copyMemory dst")
	}
	if srcAddr == 0 {
		return errors.NullDereference(errors.PhaseCopy, "copyMemory src")
	}

	to, owner := viewOf(dstAddr, size, dst.pointee(dst.addr))
	if (owner != nil && owner.readOnly) || overlaps(dstAddr, size, NullPointer) {
		return errors.InvalidArgument(errors.PhaseCopy, "dst pointee is read-only")
	}
	from, _ := viewOf(srcAddr, size, src.pointee(src.addr))
	copy(to, from)
	return nil
}

// overlaps reports whether [addr, addr+n) touches r's bytes.
func overlaps(addr uint64, n int, r *Region) bool {
	return addr < r.addr+uint64(len(r.data)) && r.addr < addr+uint64(n)
}

func checkContainer(name string, r *Region) error {
	switch {
	case r == nil:
		return errors.InvalidArgument(errors.PhaseCopy, "%s: nil region", name)
	case r.IsNull():
		return errors.InvalidArgument(errors.PhaseCopy, "%s: NULL region", name)
	case len(r.data) < abi.PointerSize:
		return errors.InvalidArgument(errors.PhaseCopy, "%s: %d bytes cannot hold a pointer", name, len(r.data))
	}
	return nil
}

// AddOffset adds delta to the address stored at the start of container.
// Whatever the slot retained stays retained.
func AddOffset(container *Region, delta int) error {
	if container == nil {
		return errors.InvalidArgument(errors.PhaseWrite, "nil region")
	}
	b, err := container.writable(0, abi.PointerSize)
	if err != nil {
		return err
	}
	native.StoreAddr(b, native.LoadAddr(b)+uint64(int64(delta)))
	return nil
}
