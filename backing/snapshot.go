// Package backing classifies the type a wrapper delegates to and derives the
// capability record every synthesis module consults.
//
// The classifier is total and pure: any Snapshot yields a Capabilities value,
// and the same Snapshot always yields the same value.
package backing

import "strings"

// Special identifies a well-known backing type.
type Special int

const (
	SpecialNone Special = iota
	SpecialBoolean
	SpecialChar
	SpecialByte
	SpecialInt16
	SpecialInt32
	SpecialInt64
	SpecialSingle
	SpecialDouble
	SpecialDecimal
	SpecialString
	SpecialGuid
)

var specialNames = [...]string{
	SpecialNone:    "none",
	SpecialBoolean: "boolean",
	SpecialChar:    "char",
	SpecialByte:    "byte",
	SpecialInt16:   "int16",
	SpecialInt32:   "int32",
	SpecialInt64:   "int64",
	SpecialSingle:  "single",
	SpecialDouble:  "double",
	SpecialDecimal: "decimal",
	SpecialString:  "string",
	SpecialGuid:    "guid",
}

// String returns the lower-case name used in manifests.
func (s Special) String() string {
	if s < 0 || int(s) >= len(specialNames) {
		return "unknown"
	}
	return specialNames[s]
}

// ParseSpecial returns the Special named by s (case-insensitive). Unknown names
// yield SpecialNone and false.
func ParseSpecial(s string) (Special, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range specialNames {
		if name == s {
			return Special(i), true
		}
	}
	return SpecialNone, false
}

// Snapshot is the flat, comparable view of a backing type handed over by the
// symbol layer. It is never mutated.
type Snapshot struct {
	// QualifiedName is the fully qualified type name, e.g. "System.Guid".
	QualifiedName string

	// Name is the simple type name, e.g. "Guid".
	Name string

	// IsValueType is true for structs and primitives.
	IsValueType bool

	// IsNullableReference is true for reference types annotated as nullable.
	IsNullableReference bool

	// Special optionally names a well-known type. When SpecialNone, the
	// classifier falls back to matching QualifiedName against known names.
	Special Special
}

// Well-known snapshots for the common backing types.
var (
	Guid    = Snapshot{QualifiedName: "System.Guid", Name: "Guid", IsValueType: true, Special: SpecialGuid}
	String  = Snapshot{QualifiedName: "System.String", Name: "String", Special: SpecialString}
	Int16   = Snapshot{QualifiedName: "System.Int16", Name: "Int16", IsValueType: true, Special: SpecialInt16}
	Int32   = Snapshot{QualifiedName: "System.Int32", Name: "Int32", IsValueType: true, Special: SpecialInt32}
	Int64   = Snapshot{QualifiedName: "System.Int64", Name: "Int64", IsValueType: true, Special: SpecialInt64}
	Byte    = Snapshot{QualifiedName: "System.Byte", Name: "Byte", IsValueType: true, Special: SpecialByte}
	Single  = Snapshot{QualifiedName: "System.Single", Name: "Single", IsValueType: true, Special: SpecialSingle}
	Double  = Snapshot{QualifiedName: "System.Double", Name: "Double", IsValueType: true, Special: SpecialDouble}
	Decimal = Snapshot{QualifiedName: "System.Decimal", Name: "Decimal", IsValueType: true, Special: SpecialDecimal}
	Boolean = Snapshot{QualifiedName: "System.Boolean", Name: "Boolean", IsValueType: true, Special: SpecialBoolean}
	Char    = Snapshot{QualifiedName: "System.Char", Name: "Char", IsValueType: true, Special: SpecialChar}
)

// NullableString returns the snapshot of a nullable-annotated string.
func NullableString() Snapshot {
	s := String
	s.IsNullableReference = true
	return s
}
