package ref

import (
	"strings"

	"github.com/wippyai/memref/errors"
)

// CoerceType resolves a type specifier.
//
// A *Type is returned unchanged. A string is a type name followed by zero or
// more '*', each adding one pointer level: "int", "int*", "char**". The
// literal "external" names an opaque pointer to unmanaged memory, and may be
// followed by '*' as well.
func CoerceType(spec any) (*Type, error) {
	switch s := spec.(type) {
	case *Type:
		if s == nil {
			return nil, errors.InvalidTypeSpecifier(spec)
		}
		return s, nil
	case string:
		return parseType(s)
	default:
		return nil, errors.InvalidTypeSpecifier(spec)
	}
}

func parseType(spec string) (*Type, error) {
	s := strings.TrimSpace(spec)
	base := strings.TrimRight(s, "*")
	stars := len(s) - len(base)
	base = strings.TrimSpace(base)

	var t *Type
	if base == externalName {
		t = ExternalType
	} else {
		var ok bool
		if t, ok = LookupType(base); !ok {
			return nil, errors.InvalidTypeSpecifier(spec)
		}
	}
	for range stars {
		t = RefType(t)
	}
	return t, nil
}

// resolveType resolves spec, defaulting to fallback when spec is nil.
func resolveType(spec any, fallback *Type) (*Type, error) {
	if spec == nil {
		return fallback, nil
	}
	return CoerceType(spec)
}
