package backing

import "strings"

// NumericKind identifies the numeric family of a backing type.
type NumericKind int

const (
	NumericNone NumericKind = iota
	NumericInt16
	NumericInt32
	NumericInt64
	NumericByte
	NumericSingle
	NumericDouble
	NumericDecimal
)

// String returns the string representation of the numeric kind.
func (k NumericKind) String() string {
	switch k {
	case NumericNone:
		return "none"
	case NumericInt16:
		return "int16"
	case NumericInt32:
		return "int32"
	case NumericInt64:
		return "int64"
	case NumericByte:
		return "byte"
	case NumericSingle:
		return "single"
	case NumericDouble:
		return "double"
	case NumericDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// IsIntegral reports whether k is an integer kind.
func (k NumericKind) IsIntegral() bool {
	switch k {
	case NumericInt16, NumericInt32, NumericInt64, NumericByte:
		return true
	}
	return false
}

// Narrow reports whether arithmetic on k promotes to int in C#, so results must
// be cast back to the backing type.
func (k NumericKind) Narrow() bool {
	return k == NumericInt16 || k == NumericByte
}

// Capabilities is the derived classification of a backing type.
type Capabilities struct {
	IsValueType          bool
	IsReferenceType      bool
	RequiresNullHandling bool
	NumericKind          NumericKind
	IsGuidLike           bool
	IsString             bool
	SupportsBitwise      bool
	SupportsShift        bool

	// Keyword is the C# keyword for the type ("int", "string"), empty when none.
	Keyword string

	// TypeText is how emitted code spells the backing type.
	TypeText string

	// QualifiedName, Name and IsNullableReference echo the classified snapshot.
	QualifiedName       string
	Name                string
	IsNullableReference bool

	special Special
}

// Strategy selects how synthesis modules treat null for a backing type.
// It is resolved once per classification and matched exhaustively.
type Strategy int

const (
	// StrategyValue: the backing value is never null; single-expression bodies.
	StrategyValue Strategy = iota
	// StrategyNullableString: string backing; null arms plus StringComparison.
	StrategyNullableString
	// StrategyNullableReference: other reference backing; null arms plus Equals/CompareTo.
	StrategyNullableReference
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyValue:
		return "value"
	case StrategyNullableString:
		return "nullable-string"
	case StrategyNullableReference:
		return "nullable-reference"
	default:
		return "unknown"
	}
}

// Strategy returns the null-handling strategy of c.
func (c Capabilities) Strategy() Strategy {
	switch {
	case !c.RequiresNullHandling:
		return StrategyValue
	case c.IsString:
		return StrategyNullableString
	default:
		return StrategyNullableReference
	}
}

// DeclaredType is the type text of a member holding the backing value:
// TypeText, with a nullable annotation for nullable reference types.
func (c Capabilities) DeclaredType() string {
	if c.IsReferenceType && c.IsNullableReference {
		return c.TypeText + "?"
	}
	return c.TypeText
}

// IsNumeric reports whether the backing type is numeric.
func (c Capabilities) IsNumeric() bool { return c.NumericKind != NumericNone }

// SupportsConvertible reports whether the backing type implements IConvertible.
func (c Capabilities) SupportsConvertible() bool {
	if c.IsNumeric() || c.IsString {
		return true
	}
	return c.special == SpecialBoolean || c.special == SpecialChar
}

// SupportsFormatting reports whether the backing type implements IFormattable
// and its span-based successors.
func (c Capabilities) SupportsFormatting() bool {
	return c.IsNumeric() || c.IsGuidLike
}

// SupportsParsing reports whether the backing type implements IParsable<T>.
func (c Capabilities) SupportsParsing() bool {
	return c.IsNumeric() || c.IsGuidLike || c.IsString
}

// SupportsUtf8 reports whether the backing type implements the UTF-8 span
// interfaces. Guid and string do not.
func (c Capabilities) SupportsUtf8() bool {
	return c.IsNumeric()
}

// IsDisposableCandidate reports whether the backing type could implement
// IDisposable. Primitives, strings and Guid cannot.
func (c Capabilities) IsDisposableCandidate() bool {
	return !c.IsNumeric() && !c.IsString && !c.IsGuidLike && c.special == SpecialNone
}

// Classify derives the capability record of s.
func Classify(s Snapshot) Capabilities {
	special := s.Special
	if special == SpecialNone {
		special = lookupWellKnown(s.QualifiedName)
	}
	if special == SpecialNone {
		special = lookupWellKnown(s.Name)
	}

	isValue := s.IsValueType
	switch special {
	case SpecialString:
		isValue = false
	case SpecialNone:
	default:
		isValue = true
	}

	c := Capabilities{
		IsValueType:     isValue,
		IsReferenceType: !isValue,
		NumericKind:     numericKinds[special],
		IsGuidLike:      special == SpecialGuid,
		IsString:        special == SpecialString,
		Keyword:         keywords[special],
		QualifiedName:   s.QualifiedName,
		Name:            s.Name,
		special:         special,

		IsNullableReference: s.IsNullableReference,
	}
	c.RequiresNullHandling = c.IsReferenceType || s.IsNullableReference
	c.SupportsBitwise = c.NumericKind.IsIntegral()
	c.SupportsShift = c.NumericKind.IsIntegral()

	switch {
	case c.Keyword != "":
		c.TypeText = c.Keyword
	case s.QualifiedName != "":
		c.TypeText = "global::" + strings.TrimPrefix(s.QualifiedName, "global::")
	default:
		c.TypeText = s.Name
	}
	return c
}

var numericKinds = map[Special]NumericKind{
	SpecialByte:    NumericByte,
	SpecialInt16:   NumericInt16,
	SpecialInt32:   NumericInt32,
	SpecialInt64:   NumericInt64,
	SpecialSingle:  NumericSingle,
	SpecialDouble:  NumericDouble,
	SpecialDecimal: NumericDecimal,
}

var keywords = map[Special]string{
	SpecialBoolean: "bool",
	SpecialChar:    "char",
	SpecialByte:    "byte",
	SpecialInt16:   "short",
	SpecialInt32:   "int",
	SpecialInt64:   "long",
	SpecialSingle:  "float",
	SpecialDouble:  "double",
	SpecialDecimal: "decimal",
	SpecialString:  "string",
}

var wellKnown = map[string]Special{
	"System.Boolean": SpecialBoolean,
	"bool":           SpecialBoolean,
	"System.Char":    SpecialChar,
	"char":           SpecialChar,
	"System.Byte":    SpecialByte,
	"byte":           SpecialByte,
	"System.Int16":   SpecialInt16,
	"short":          SpecialInt16,
	"System.Int32":   SpecialInt32,
	"int":            SpecialInt32,
	"System.Int64":   SpecialInt64,
	"long":           SpecialInt64,
	"System.Single":  SpecialSingle,
	"float":          SpecialSingle,
	"System.Double":  SpecialDouble,
	"double":         SpecialDouble,
	"System.Decimal": SpecialDecimal,
	"decimal":        SpecialDecimal,
	"System.String":  SpecialString,
	"string":         SpecialString,
	"System.Guid":    SpecialGuid,
}

func lookupWellKnown(name string) Special {
	name = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(name), "global::"), "?")
	return wellKnown[name]
}

// WellKnown returns the Special named by a C# type name such as "int",
// "System.Guid" or "global::System.String", or SpecialNone.
func WellKnown(name string) Special { return lookupWellKnown(name) }
