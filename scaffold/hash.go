// Package scaffold fingerprints the bindings that produced a generated file,
// turns rendered text back into a placeholder scaffold, and reads and writes
// the provenance header that ties the two together.
//
// A fingerprint is a SHA-256 digest over "key:value\n" for every binding in
// insertion order, rendered as 64 lowercase hex characters. Reordering the
// bindings changes the fingerprint.
package scaffold

import (
	"encoding/hex"

	"github.com/minio/sha256-simd"
)

// HashLen is the length of every fingerprint.
const HashLen = 64

// Binding is one ordered key/value pair.
type Binding struct {
	Key   string
	Value string
}

// Hasher accumulates bindings in insertion order.
//
// Empty values are added like any other; callers filter before adding.
// The zero value is ready to use. A Hasher is not safe for concurrent use.
type Hasher struct {
	bindings []Binding
	sum      string
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher { return &Hasher{} }

// Add appends a binding and returns h for chaining.
func (h *Hasher) Add(key, value string) *Hasher {
	h.bindings = append(h.bindings, Binding{Key: key, Value: value})
	h.sum = ""
	return h
}

// Len returns the number of bindings added so far.
func (h *Hasher) Len() int { return len(h.bindings) }

// Bindings returns a copy of the bindings in insertion order.
func (h *Hasher) Bindings() []Binding {
	return append([]Binding(nil), h.bindings...)
}

// Sum returns the fingerprint of the bindings added so far. The digest is
// computed once and cached until the next Add.
func (h *Hasher) Sum() string {
	if h.sum == "" {
		h.sum = Hash(h.bindings...)
	}
	return h.sum
}

// Hash returns the fingerprint of bindings.
func Hash(bindings ...Binding) string {
	d := sha256.New()
	for _, b := range bindings {
		d.Write([]byte(b.Key))
		d.Write([]byte{':'})
		d.Write([]byte(b.Value))
		d.Write([]byte{'\n'})
	}
	return hex.EncodeToString(d.Sum(nil))
}

// IsHash reports whether s has the shape of a fingerprint.
func IsHash(s string) bool {
	if len(s) != HashLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
