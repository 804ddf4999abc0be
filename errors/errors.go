package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAlloc  Phase = "alloc"  // region allocation
	PhaseRead   Phase = "read"   // decoding from memory
	PhaseWrite  Phase = "write"  // encoding into memory
	PhaseCoerce Phase = "coerce" // type specifier resolution and registration
	PhaseDeref  Phase = "deref"  // indirection changes
	PhaseCopy   Phase = "copy"   // raw memory copies
	PhaseGuest  Phase = "guest"  // wasm linear memory bridge
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument      Kind = "invalid_argument"
	KindNullDereference      Kind = "null_dereference"
	KindIndirectionUnderflow Kind = "indirection_underflow"
	KindInvalidTypeSpecifier Kind = "invalid_type_specifier"
	KindOutOfBounds          Kind = "out_of_bounds"
	KindAllocation           Kind = "allocation"
)

// Sentinels for errors.Is. They carry no phase, so they match any phase.
var (
	ErrInvalidArgument      = &Error{Kind: KindInvalidArgument}
	ErrNullDereference      = &Error{Kind: KindNullDereference}
	ErrIndirectionUnderflow = &Error{Kind: KindIndirectionUnderflow}
	ErrInvalidTypeSpecifier = &Error{Kind: KindInvalidTypeSpecifier}
	ErrOutOfBounds          = &Error{Kind: KindOutOfBounds}
	ErrAllocation           = &Error{Kind: KindAllocation}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.TypeName != "" {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.TypeName != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", type ")
			b.WriteString(e.TypeName)
		case e.GoType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("type ")
			b.WriteString(e.TypeName)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Kind must match; Phase must match only when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Phase == "" || e.Phase == t.Phase
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// TypeName sets the memory type descriptor name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidArgument creates an invalid argument error
func InvalidArgument(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindInvalidArgument).Detail(detail, args...).Build()
}

// TypeMismatch creates an invalid argument error for a value the codec cannot encode
func TypeMismatch(phase Phase, goType, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidArgument,
		GoType:   goType,
		TypeName: typeName,
		Detail:   "unsupported value",
	}
}

// Overflow creates an invalid argument error for a value outside the target range
func Overflow(phase Phase, value any, typeName string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindInvalidArgument,
		TypeName: typeName,
		Detail:   fmt.Sprintf("value %v overflows %s", value, typeName),
		Value:    value,
	}
}

// NullDereference creates a null dereference error
func NullDereference(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNullDereference,
		Detail: fmt.Sprintf("%s: address is NULL", what),
	}
}

// IndirectionUnderflow creates an error for stripping a level from a base type
func IndirectionUnderflow(phase Phase, typeName string, indirection int) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindIndirectionUnderflow,
		TypeName: typeName,
		Detail:   fmt.Sprintf("cannot dereference type with indirection %d", indirection),
		Value:    indirection,
	}
}

// InvalidTypeSpecifier creates an error for an unresolvable type specifier
func InvalidTypeSpecifier(spec any) *Error {
	return &Error{
		Phase:  PhaseCoerce,
		Kind:   KindInvalidTypeSpecifier,
		GoType: fmt.Sprintf("%T", spec),
		Detail: fmt.Sprintf("could not determine a proper type from %v", spec),
		Value:  spec,
	}
}

// OutOfBounds creates an out of bounds error for an access of size bytes at offset
func OutOfBounds(phase Phase, offset, size, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access of %d bytes at offset %d out of bounds (length %d)", size, offset, length),
		Value:  offset,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
