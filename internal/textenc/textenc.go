// Package textenc selects the text encoding used to move C strings in and out of memory.
package textenc

import (
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Default is the encoding used when none is named.
const Default = "utf8"

// Encoding converts between Go strings and raw bytes.
type Encoding struct {
	enc   encoding.Encoding
	name  string
	unit  int
	ascii bool
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

var registry = map[string]*Encoding{
	"utf8":        {name: "utf8", enc: unicode.UTF8},
	"ascii":       {name: "ascii", enc: charmap.ISO8859_1, ascii: true},
	"latin1":      {name: "latin1", enc: charmap.ISO8859_1},
	"binary":      {name: "binary", enc: charmap.ISO8859_1},
	"windows1252": {name: "windows1252", enc: charmap.Windows1252},
	"utf16le":     {name: "utf16le", enc: utf16le, unit: 2},
	"ucs2":        {name: "ucs2", enc: utf16le, unit: 2},
}

// Lookup resolves an encoding name. Matching ignores case and dashes,
// so "UTF-8" and "utf-16le" resolve. An empty name selects Default.
func Lookup(name string) (*Encoding, bool) {
	if name == "" {
		name = Default
	}
	key := strings.ReplaceAll(strings.ToLower(name), "-", "")
	e, ok := registry[key]
	return e, ok
}

// Names lists the canonical encoding names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Encoding) Name() string {
	return e.name
}

// Unit is the width in bytes of one code unit. A string in this encoding is
// terminated by Unit zero bytes starting on a code unit boundary.
func (e *Encoding) Unit() int {
	if e.unit == 0 {
		return 1
	}
	return e.unit
}

// Encode converts s into the encoding's byte form, without a terminator.
// Characters the encoding cannot represent are an error.
func (e *Encoding) Encode(s string) ([]byte, error) {
	if e.ascii {
		out := make([]byte, 0, len(s))
		for _, r := range s {
			out = append(out, byte(r)&0x7f)
		}
		return out, nil
	}
	return e.enc.NewEncoder().Bytes([]byte(s))
}

// Decode converts raw bytes into a Go string.
// Invalid UTF-8 input decodes to U+FFFD replacements.
func (e *Encoding) Decode(b []byte) (string, error) {
	if e.ascii {
		out := make([]byte, len(b))
		for i, c := range b {
			out[i] = c & 0x7f
		}
		return string(out), nil
	}
	out, err := e.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
