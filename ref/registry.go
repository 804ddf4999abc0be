package ref

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/memref/errors"
	"github.com/wippyai/memref/internal/abi"
)

// Built-in type descriptors.
var (
	Void        = newBuiltin("void", KindVoid, voidCodec{})
	Int8        = intType("int8", true)
	Uint8       = intType("uint8", false)
	Int16       = intType("int16", true)
	Uint16      = intType("uint16", false)
	Int32       = intType("int32", true)
	Uint32      = intType("uint32", false)
	Int64       = intType("int64", true)
	Uint64      = intType("uint64", false)
	Float       = newBuiltin("float", KindFloat, floatCodec{size: 4})
	Double      = newBuiltin("double", KindFloat, floatCodec{size: 8})
	Bool        = newBuiltin("bool", KindBool, boolCodec{})
	Byte        = intType("byte", false)
	Char        = intType("char", true)
	Uchar       = intType("uchar", false)
	Short       = intType("short", true)
	Ushort      = intType("ushort", false)
	Int         = intType("int", true)
	Uint        = intType("uint", false)
	Long        = intType("long", true)
	Ulong       = intType("ulong", false)
	LongLong    = intType("longlong", true)
	ULongLong   = intType("ulonglong", false)
	PointerType = newBuiltin("pointer", KindPointer, pointerCodec{})
	SizeT       = intType("size_t", false)
	WcharT      = intType("wchar_t", abi.WcharSize == 4)
	Object      = newBuiltin("Object", KindObject, objectCodec{})
	CString     = newBuiltin("CString", KindCString, cstringCodec{})
	Utf8String  = newBuiltin("Utf8String", KindCString, cstringCodec{encoding: "utf8"})
)

// ExternalType is the "external" specifier: a void pointer whose reads yield
// External values. It has indirection 2.
var ExternalType = RefTypeExternal(Void).Named(externalName)

var builtins = indexTypes(
	Void, Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64,
	Float, Double, Bool, Byte, Char, Uchar, Short, Ushort, Int, Uint,
	Long, Ulong, LongLong, ULongLong, PointerType, SizeT, WcharT,
	Object, CString, Utf8String,
)

// externalName is the type specifier for an opaque pointer to unmanaged memory.
const externalName = "external"

var (
	customMu sync.RWMutex
	custom   = map[string]*Type{}
)

func indexTypes(types ...*Type) map[string]*Type {
	m := make(map[string]*Type, len(types))
	for _, t := range types {
		m[t.name] = t
	}
	return m
}

func intType(name string, signed bool) *Type {
	l, _ := abi.Lookup(name)
	kind := KindUint
	if signed {
		kind = KindInt
	}
	return newBuiltin(name, kind, intCodec{size: l.Size, signed: signed})
}

// LookupType returns the built-in or registered type with the given name.
func LookupType(name string) (*Type, bool) {
	if t, ok := builtins[name]; ok {
		return t, true
	}
	customMu.RLock()
	defer customMu.RUnlock()
	t, ok := custom[name]
	return t, ok
}

// Types returns the names of all built-in and registered types, sorted.
func Types() []string {
	customMu.RLock()
	names := make([]string, 0, len(builtins)+len(custom))
	for name := range custom {
		names = append(names, name)
	}
	customMu.RUnlock()
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterType makes t resolvable by name through CoerceType.
// Names are unique and may not contain '*'.
func RegisterType(name string, t *Type) error {
	if t == nil {
		return errors.InvalidArgument(errors.PhaseCoerce, "register %q: nil type", name)
	}
	if name == "" || strings.ContainsAny(name, "* \t") || name == externalName {
		return errors.InvalidArgument(errors.PhaseCoerce, "register %q: invalid type name", name)
	}
	if _, ok := builtins[name]; ok {
		return errors.InvalidArgument(errors.PhaseCoerce, "register %q: name is a built-in type", name)
	}

	customMu.Lock()
	defer customMu.Unlock()
	if _, ok := custom[name]; ok {
		return errors.InvalidArgument(errors.PhaseCoerce, "register %q: already registered", name)
	}
	custom[name] = t

	Logger().Debug("type registered",
		zap.String("name", name),
		zap.Int("size", t.size),
		zap.Int("align", t.align),
		zap.Int("indirection", t.indirection))
	return nil
}

// Sizes returns the byte width of every built-in primitive by name.
func Sizes() map[string]int {
	return abi.Sizes()
}

// Alignments returns the alignment of every built-in primitive by name.
func Alignments() map[string]int {
	return abi.Alignments()
}

// Sizeof returns the size of the type named by spec.
func Sizeof(spec any) (int, error) {
	t, err := CoerceType(spec)
	if err != nil {
		return 0, err
	}
	return t.size, nil
}

// Alignof returns the alignment of the type named by spec.
func Alignof(spec any) (int, error) {
	t, err := CoerceType(spec)
	if err != nil {
		return 0, err
	}
	return t.align, nil
}

// Endianness reports the host byte order, "LE" or "BE".
func Endianness() string {
	return abi.Endianness()
}
