package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:    PhaseWrite,
				Kind:     KindInvalidArgument,
				Path:     []string{"header", "len"},
				GoType:   "string",
				TypeName: "uint32",
				Detail:   "cannot convert",
			},
			contains: []string{"[write]", "invalid_argument", "header.len", "string", "uint32", "cannot convert"},
		},
		{
			name:     "minimal error",
			err:      &Error{Phase: PhaseRead, Kind: KindOutOfBounds},
			contains: []string{"[read]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseAlloc,
				Kind:   KindAllocation,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[alloc]", "allocation", "memory full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				assert.Contains(t, msg, s)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseGuest, KindAllocation, cause, "cabi_realloc")

	require.ErrorIs(t, err.Unwrap(), cause)
	require.ErrorIs(t, errors.Unwrap(err), cause)
	require.ErrorIs(t, err, cause)
}

func TestError_Is(t *testing.T) {
	err := &Error{Phase: PhaseRead, Kind: KindNullDereference}

	assert.True(t, err.Is(&Error{Phase: PhaseRead, Kind: KindNullDereference}))
	assert.False(t, err.Is(&Error{Phase: PhaseWrite, Kind: KindNullDereference}), "phase set on target must match")
	assert.False(t, err.Is(&Error{Phase: PhaseRead, Kind: KindOutOfBounds}))
	assert.True(t, err.Is(ErrNullDereference), "sentinel matches any phase")
	assert.False(t, err.Is(errors.New("other")))

	var wrapped error = Wrap(PhaseCopy, KindInvalidArgument, nil, "short region")
	assert.ErrorIs(t, wrapped, ErrInvalidArgument)
	assert.NotErrorIs(t, wrapped, ErrOutOfBounds)
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseWrite, KindInvalidArgument).
		Path("record", "id").
		GoType("string").
		TypeName("uint32").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "integer", "string").
		Build()

	assert.Equal(t, PhaseWrite, err.Phase)
	assert.Equal(t, KindInvalidArgument, err.Kind)
	assert.Equal(t, []string{"record", "id"}, err.Path)
	assert.Equal(t, "string", err.GoType)
	assert.Equal(t, "uint32", err.TypeName)
	assert.Equal(t, 42, err.Value)
	assert.ErrorIs(t, err.Cause, cause)
	assert.Equal(t, "expected integer, got string", err.Detail)
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidArgument", func(t *testing.T) {
		err := InvalidArgument(PhaseCopy, "size %d is negative", -1)
		assert.Equal(t, KindInvalidArgument, err.Kind)
		assert.Contains(t, err.Detail, "-1")
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseWrite, "[]int", "int32")
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, "[]int", err.GoType)
		assert.Equal(t, "int32", err.TypeName)
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseWrite, 300, "uint8")
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, 300, err.Value)
		assert.Contains(t, err.Error(), "overflows uint8")
	})

	t.Run("NullDereference", func(t *testing.T) {
		err := NullDereference(PhaseRead, "readCString")
		assert.ErrorIs(t, err, ErrNullDereference)
		assert.Contains(t, err.Detail, "NULL")
	})

	t.Run("IndirectionUnderflow", func(t *testing.T) {
		err := IndirectionUnderflow(PhaseDeref, "int", 1)
		assert.ErrorIs(t, err, ErrIndirectionUnderflow)
		assert.Equal(t, 1, err.Value)
	})

	t.Run("InvalidTypeSpecifier", func(t *testing.T) {
		err := InvalidTypeSpecifier(42)
		assert.ErrorIs(t, err, ErrInvalidTypeSpecifier)
		assert.Equal(t, "int", err.GoType)
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseRead, 10, 4, 8)
		assert.ErrorIs(t, err, ErrOutOfBounds)
		assert.Equal(t, 10, err.Value)
		assert.Contains(t, err.Detail, "length 8")
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseAlloc, 1024, 8, nil)
		assert.ErrorIs(t, err, ErrAllocation)
		assert.Contains(t, err.Detail, "1024")
	})
}
