package abi

import "unsafe"

// PointerSize is the width of a native pointer in bytes.
const PointerSize = int(unsafe.Sizeof(uintptr(0)))

// PointerAlign is the alignment of a native pointer.
const PointerAlign = int(unsafe.Alignof(uintptr(0)))

// Layout is the size and alignment of a primitive.
type Layout struct {
	Size  int
	Align int
}

// Alignments follow the Go compiler for the target, which agrees with the
// platform C compiler for every primitive on the supported 64-bit targets.
var table = map[string]Layout{
	"void":       {0, 1},
	"int8":       {1, 1},
	"uint8":      {1, 1},
	"int16":      {2, int(unsafe.Alignof(int16(0)))},
	"uint16":     {2, int(unsafe.Alignof(uint16(0)))},
	"int32":      {4, int(unsafe.Alignof(int32(0)))},
	"uint32":     {4, int(unsafe.Alignof(uint32(0)))},
	"int64":      {8, int(unsafe.Alignof(int64(0)))},
	"uint64":     {8, int(unsafe.Alignof(uint64(0)))},
	"float":      {4, int(unsafe.Alignof(float32(0)))},
	"double":     {8, int(unsafe.Alignof(float64(0)))},
	"bool":       {1, 1},
	"byte":       {1, 1},
	"char":       {1, 1},
	"uchar":      {1, 1},
	"short":      {2, int(unsafe.Alignof(int16(0)))},
	"ushort":     {2, int(unsafe.Alignof(uint16(0)))},
	"int":        {4, int(unsafe.Alignof(int32(0)))},
	"uint":       {4, int(unsafe.Alignof(uint32(0)))},
	"long":       {LongSize, longAlign},
	"ulong":      {LongSize, longAlign},
	"longlong":   {8, int(unsafe.Alignof(int64(0)))},
	"ulonglong":  {8, int(unsafe.Alignof(uint64(0)))},
	"pointer":    {PointerSize, PointerAlign},
	"size_t":     {PointerSize, PointerAlign},
	"wchar_t":    {WcharSize, WcharSize},
	"Object":     {PointerSize, PointerAlign},
	"CString":    {PointerSize, PointerAlign},
	"Utf8String": {PointerSize, PointerAlign},
}

// Lookup returns the layout of a built-in primitive name.
func Lookup(name string) (Layout, bool) {
	l, ok := table[name]
	return l, ok
}

// Sizes returns a fresh copy of the size table.
func Sizes() map[string]int {
	out := make(map[string]int, len(table))
	for name, l := range table {
		out[name] = l.Size
	}
	return out
}

// Alignments returns a fresh copy of the alignment table.
func Alignments() map[string]int {
	out := make(map[string]int, len(table))
	for name, l := range table {
		out[name] = l.Align
	}
	return out
}
