package ref

import (
	"runtime"
	"strconv"
	"testing"
	"time"
	"weak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
)

func newContainer(slots int) *Region {
	return Wrap(make([]byte, slots*abi.PointerSize))
}

func TestWriteReadPointer(t *testing.T) {
	target := Wrap([]byte("abcd"))
	container := newContainer(1)
	require.NoError(t, container.WritePointer(0, target))

	p, err := container.ReadPointer(0, target.Len(), false)
	require.NoError(t, err)
	got := p.(*Region)
	assert.Equal(t, target.Address(), got.Address())
	assert.Equal(t, target.Len(), got.Len())
	assert.Equal(t, []byte("abcd"), got.Bytes())
	require.NotEmpty(t, got.Retained())
	assert.Same(t, container, got.Retained()[0])

	got.Bytes()[0] = 'z'
	assert.Equal(t, []byte("zbcd"), target.Bytes())
}

func TestReadNullPointer(t *testing.T) {
	container := newContainer(1)

	p, err := container.ReadPointer(0, 16, false)
	require.NoError(t, err)
	assert.Same(t, Null, p)
	assert.Equal(t, 0, p.(*Region).Len())

	p, err = container.ReadPointer(0, 0, true)
	require.NoError(t, err)
	assert.Equal(t, ExternalAt(0), p)
}

func TestAdjacentPointers(t *testing.T) {
	a := Wrap([]byte("first"))
	b := Wrap([]byte("second"))
	container := newContainer(2)
	require.NoError(t, container.WritePointer(0, a))
	require.NoError(t, container.WritePointer(abi.PointerSize, b))

	pa, err := container.ReadPointer(0, a.Len(), false)
	require.NoError(t, err)
	pb, err := container.ReadPointer(abi.PointerSize, b.Len(), false)
	require.NoError(t, err)
	assert.Equal(t, a.Address(), pa.Address())
	assert.Equal(t, b.Address(), pb.Address())
	assert.Equal(t, []byte("second"), pb.(*Region).Bytes())

	assert.Len(t, container.Retained(), 2)
}

func TestExternalPointerRoundTrip(t *testing.T) {
	container := newContainer(1)
	require.NoError(t, container.WritePointer(0, ExternalAt(0x1234)))

	p, err := container.ReadPointer(0, 0, true)
	require.NoError(t, err)
	assert.Equal(t, ExternalAt(0x1234), p)
	assert.Empty(t, container.Retained())
}

func TestWritePointerReplacesRetention(t *testing.T) {
	container := newContainer(1)
	require.NoError(t, container.WritePointer(0, Wrap([]byte("x"))))
	assert.Len(t, container.Retained(), 1)

	require.NoError(t, container.WritePointer(0, ExternalAt(0x10)))
	assert.Empty(t, container.Retained())

	require.NoError(t, container.WritePointer(0, Wrap([]byte("y"))))
	require.NoError(t, container.WritePointer(0, nil))
	assert.Empty(t, container.Retained())

	isNull, err := container.ContainsNullPointer(0)
	require.NoError(t, err)
	assert.True(t, isNull)
}

func TestWritePointerErrors(t *testing.T) {
	assert.ErrorIs(t, NullPointer.WritePointer(0, Wrap([]byte("x"))), errors.ErrInvalidArgument)

	short := Wrap(make([]byte, abi.PointerSize-1))
	assert.ErrorIs(t, short.WritePointer(0, nil), errors.ErrOutOfBounds)

	_, err := short.ReadPointer(0, 0, false)
	assert.ErrorIs(t, err, errors.ErrOutOfBounds)

	_, err = newContainer(1).ReadPointer(0, -1, false)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = Null.ReadPointer(0, 0, false)
	assert.ErrorIs(t, err, errors.ErrNullDereference)
}

func TestContainsNullPointer(t *testing.T) {
	container := newContainer(1)
	isNull, err := container.ContainsNullPointer(0)
	require.NoError(t, err)
	assert.True(t, isNull)

	require.NoError(t, container.WritePointer(0, Wrap([]byte("x"))))
	isNull, err = container.ContainsNullPointer(0)
	require.NoError(t, err)
	assert.False(t, isNull)

	_, err = container.ContainsNullPointer(1)
	assert.ErrorIs(t, err, errors.ErrOutOfBounds)
}

func TestComparePointer(t *testing.T) {
	buf := Wrap(make([]byte, 16))
	other := Wrap(make([]byte, 16))

	assert.Equal(t, 0, ComparePointer(buf, buf, 0, 0))
	assert.NotEqual(t, 0, ComparePointer(buf, other, 0, 0))
	assert.Equal(t, -1, ComparePointer(buf, buf, 0, 1))
	assert.Equal(t, 1, ComparePointer(buf, buf, 4, 0))

	view, err := buf.Reinterpret(4, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, ComparePointer(buf, view, 4, 0))

	assert.Equal(t, 0, ComparePointer(nil, Null, 0, 0))
	assert.Equal(t, 0, ComparePointer(ExternalAt(0x20), ExternalAt(0x10), 0, 0x10))
}

func TestAddress(t *testing.T) {
	target := Wrap([]byte("abcd"))
	container := newContainer(1)
	require.NoError(t, container.WritePointer(0, target))

	a, err := Address(target, 0, false)
	require.NoError(t, err)
	assert.Equal(t, target.Address(), a)

	a, err = Address(target, 3, false)
	require.NoError(t, err)
	assert.Equal(t, target.Address()+3, a)

	a, err = Address(container, 0, true)
	require.NoError(t, err)
	assert.Equal(t, target.Address(), a)

	a, err = Address(ExternalAt(0x10), 4, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x14), a)

	_, err = Address(nil, 0, false)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = Address(Wrap([]byte("ab")), 0, true)
	assert.ErrorIs(t, err, errors.ErrOutOfBounds)
}

func TestHexAddress(t *testing.T) {
	h, err := HexAddress(ExternalAt(0xbeef), 0, false)
	require.NoError(t, err)
	assert.Equal(t, "beef", h)

	r := Wrap(make([]byte, 4))
	assert.Equal(t, strconv.FormatUint(r.Address(), 16), r.HexAddress())
	assert.Equal(t, "0", Null.HexAddress())
}

func TestIsNull(t *testing.T) {
	var nilRegion *Region
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(nilRegion))
	assert.True(t, IsNull(Null))
	assert.True(t, IsNull(ExternalAt(0)))
	assert.False(t, IsNull(NullPointer))
	assert.False(t, IsNull(ExternalAt(1)))
}

func TestGetNullPointer(t *testing.T) {
	p := GetNullPointer(false)
	assert.Same(t, NullPointer, p)
	assert.True(t, p.ReadOnly())
	assert.Equal(t, make([]byte, abi.PointerSize), p.Bytes())

	e1 := GetNullPointer(true)
	e2 := GetNullPointer(true)
	assert.NotSame(t, e1, e2)
	assert.False(t, e1.ReadOnly())
	assert.Equal(t, ExternalType, e1.Type())
	assert.Equal(t, abi.PointerSize, e1.Len())

	v, err := e1.Deref()
	require.NoError(t, err)
	assert.Equal(t, ExternalAt(0).WithType(Void), v)

	require.NoError(t, e1.WritePointer(0, ExternalAt(0x42)))
	v, err = e1.Deref()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x42), v.(External).Address())
}

func TestRef(t *testing.T) {
	r, err := Alloc(Int, 7)
	require.NoError(t, err)

	rr := Ref(r)
	assert.Equal(t, 2, rr.Type().Indirection())
	assert.Same(t, Int, rr.Type().Elem())
	require.Len(t, rr.Retained(), 1)
	assert.Same(t, r, rr.Retained()[0])

	p, err := rr.Deref()
	require.NoError(t, err)
	assert.Equal(t, r.Address(), p.(*Region).Address())

	v, err := p.(*Region).Deref()
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)

	rrr := Ref(rr)
	assert.Equal(t, 3, rrr.Type().Indirection())
	p, err = rrr.Deref()
	require.NoError(t, err)
	p, err = p.(*Region).Deref()
	require.NoError(t, err)
	v, err = p.(*Region).Deref()
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)
}

func TestRefNullAndExternal(t *testing.T) {
	n := Ref(nil)
	isNull, err := n.ContainsNullPointer(0)
	require.NoError(t, err)
	assert.True(t, isNull)
	assert.Empty(t, n.Retained())

	e := Ref(ExternalAt(0x1000))
	assert.True(t, e.Type().External())
	a, err := Address(e, 0, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1000), a)
	assert.Empty(t, e.Retained())
}

func TestWritePointerKeepsTargetAlive(t *testing.T) {
	container := newContainer(1)
	w := storeFreshInt(t, container, 99)

	runtime.GC()
	runtime.GC()
	require.NotNil(t, w.Value())
	assert.Equal(t, int32(99), readIntThrough(t, container))

	require.NoError(t, container.WritePointer(0, nil))
	require.Eventually(t, func() bool {
		runtime.GC()
		return w.Value() == nil
	}, 2*time.Second, 10*time.Millisecond)
	runtime.KeepAlive(container)
}

func storeFreshInt(t *testing.T, container *Region, v int) weak.Pointer[Region] {
	t.Helper()
	target, err := Alloc(Int, v)
	require.NoError(t, err)
	require.NoError(t, container.WritePointer(0, target))
	return weak.Make(target)
}

func readIntThrough(t *testing.T, container *Region) any {
	t.Helper()
	p, err := Get(container, 0, "int*")
	require.NoError(t, err)
	v, err := p.(*Region).Deref()
	require.NoError(t, err)
	return v
}
