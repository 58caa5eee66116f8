package backing

import "strings"

// StringComparison mirrors System.StringComparison.
type StringComparison int

const (
	Ordinal StringComparison = iota
	OrdinalIgnoreCase
	CurrentCulture
	CurrentCultureIgnoreCase
	InvariantCulture
	InvariantCultureIgnoreCase
)

var comparisonNames = [...]string{
	Ordinal:                    "Ordinal",
	OrdinalIgnoreCase:          "OrdinalIgnoreCase",
	CurrentCulture:             "CurrentCulture",
	CurrentCultureIgnoreCase:   "CurrentCultureIgnoreCase",
	InvariantCulture:           "InvariantCulture",
	InvariantCultureIgnoreCase: "InvariantCultureIgnoreCase",
}

// String returns the member name, e.g. "OrdinalIgnoreCase".
func (c StringComparison) String() string {
	if c < 0 || int(c) >= len(comparisonNames) {
		return comparisonNames[Ordinal]
	}
	return comparisonNames[c]
}

// ParseStringComparison parses a member name case-insensitively. The empty
// string yields Ordinal.
func ParseStringComparison(s string) (StringComparison, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ordinal, true
	}
	for i, name := range comparisonNames {
		if strings.EqualFold(name, s) {
			return StringComparison(i), true
		}
	}
	return Ordinal, false
}

// Expr returns the C# expression naming the comparison mode.
func (c StringComparison) Expr() string {
	return "global::System.StringComparison." + c.String()
}

// Comparer returns the C# expression of the matching StringComparer instance.
func (c StringComparison) Comparer() string {
	return "global::System.StringComparer." + c.String()
}

// UsesComparer reports whether hashing must go through a StringComparer to stay
// consistent with equality. Only Ordinal matches string.GetHashCode.
func (c StringComparison) UsesComparer() bool {
	return c != Ordinal
}

// IgnoresCase reports whether the mode is case-insensitive.
func (c StringComparison) IgnoresCase() bool {
	return strings.HasSuffix(c.String(), "IgnoreCase")
}
