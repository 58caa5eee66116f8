package ir

import "strings"

// Accessor names the member of a wrapper that holds the backing value, e.g.
// "Value". It is a non-empty identifier or a dotted path of identifiers.
// Whether the member exists on the declaration is not checked.
type Accessor struct {
	name string
}

// NewAccessor validates name and returns it as an Accessor.
func NewAccessor(name string) (Accessor, error) {
	if name == "" {
		return Accessor{}, &ValidationError{Field: "accessor", Message: "accessor name is empty"}
	}
	for _, part := range strings.Split(name, ".") {
		if !IsIdentifier(part) {
			return Accessor{}, &ValidationError{Field: "accessor", Message: "accessor " + quote(name) + " is not an identifier"}
		}
	}
	return Accessor{name: name}, nil
}

// MustAccessor is like NewAccessor but panics on an invalid name.
func MustAccessor(name string) Accessor {
	a, err := NewAccessor(name)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the accessor name.
func (a Accessor) String() string { return a.name }

// IsZero reports whether a was never assigned.
func (a Accessor) IsZero() bool { return a.name == "" }

// On returns the accessor applied to receiver, e.g. On("other") = "other.Value".
func (a Accessor) On(receiver string) string { return receiver + "." + a.name }

// Leaf returns the last path segment, which is the member declared on the wrapper.
func (a Accessor) Leaf() string {
	if i := strings.LastIndexByte(a.name, '.'); i >= 0 {
		return a.name[i+1:]
	}
	return a.name
}

// IsIdentifier reports whether s is a C# identifier, optionally verbatim ("@class").
func IsIdentifier(s string) bool {
	s = strings.TrimPrefix(s, "@")
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func quote(s string) string { return `"` + s + `"` }
