package backing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		snap     Snapshot
		value    bool
		nullable bool
		numeric  NumericKind
		guid     bool
		str      bool
		bitwise  bool
		keyword  string
		typeText string
		strategy Strategy
	}{
		{
			name: "guid", snap: Guid,
			value: true, guid: true, typeText: "global::System.Guid", strategy: StrategyValue,
		},
		{
			name: "string", snap: String,
			nullable: true, str: true, keyword: "string", typeText: "string", strategy: StrategyNullableString,
		},
		{
			name: "nullable string", snap: NullableString(),
			nullable: true, str: true, keyword: "string", typeText: "string", strategy: StrategyNullableString,
		},
		{
			name: "int32", snap: Int32,
			value: true, numeric: NumericInt32, bitwise: true, keyword: "int", typeText: "int", strategy: StrategyValue,
		},
		{
			name: "byte", snap: Byte,
			value: true, numeric: NumericByte, bitwise: true, keyword: "byte", typeText: "byte", strategy: StrategyValue,
		},
		{
			name: "double", snap: Double,
			value: true, numeric: NumericDouble, keyword: "double", typeText: "double", strategy: StrategyValue,
		},
		{
			name: "decimal", snap: Decimal,
			value: true, numeric: NumericDecimal, keyword: "decimal", typeText: "decimal", strategy: StrategyValue,
		},
		{
			name:  "well-known name without special",
			snap:  Snapshot{QualifiedName: "System.Int64", Name: "Int64", IsValueType: true},
			value: true, numeric: NumericInt64, bitwise: true, keyword: "long", typeText: "long", strategy: StrategyValue,
		},
		{
			name:  "keyword name without special",
			snap:  Snapshot{Name: "short", IsValueType: true},
			value: true, numeric: NumericInt16, bitwise: true, keyword: "short", typeText: "short", strategy: StrategyValue,
		},
		{
			name:     "custom reference type",
			snap:     Snapshot{QualifiedName: "Acme.Money", Name: "Money"},
			nullable: true, typeText: "global::Acme.Money", strategy: StrategyNullableReference,
		},
		{
			name:     "custom struct",
			snap:     Snapshot{QualifiedName: "global::Acme.Point", Name: "Point", IsValueType: true},
			value:    true,
			typeText: "global::Acme.Point", strategy: StrategyValue,
		},
		{
			name:     "nullable reference annotation on custom class",
			snap:     Snapshot{QualifiedName: "Acme.Money", Name: "Money", IsNullableReference: true},
			nullable: true, typeText: "global::Acme.Money", strategy: StrategyNullableReference,
		},
		{
			name:     "no names at all",
			snap:     Snapshot{},
			nullable: true, strategy: StrategyNullableReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.snap)
			assert.Equal(t, tt.value, c.IsValueType, "IsValueType")
			assert.Equal(t, !tt.value, c.IsReferenceType, "IsReferenceType")
			assert.Equal(t, tt.nullable, c.RequiresNullHandling, "RequiresNullHandling")
			assert.Equal(t, tt.numeric, c.NumericKind, "NumericKind")
			assert.Equal(t, tt.guid, c.IsGuidLike, "IsGuidLike")
			assert.Equal(t, tt.str, c.IsString, "IsString")
			assert.Equal(t, tt.bitwise, c.SupportsBitwise, "SupportsBitwise")
			assert.Equal(t, tt.bitwise, c.SupportsShift, "SupportsShift")
			assert.Equal(t, tt.keyword, c.Keyword, "Keyword")
			assert.Equal(t, tt.typeText, c.TypeText, "TypeText")
			assert.Equal(t, tt.strategy, c.Strategy(), "Strategy")
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	for _, s := range []Snapshot{Guid, String, Int16, Decimal, {Name: "Widget"}} {
		assert.Equal(t, Classify(s), Classify(s))
	}
}

func TestRequiresNullHandlingDefinition(t *testing.T) {
	// requiresNullHandling = isReferenceType || isNullableReference
	for _, s := range []Snapshot{
		Guid, String, NullableString(), Int32,
		{Name: "Thing"},
		{Name: "Thing", IsValueType: true},
		{Name: "Thing", IsValueType: true, IsNullableReference: true},
	} {
		c := Classify(s)
		assert.Equal(t, c.IsReferenceType || s.IsNullableReference, c.RequiresNullHandling, s.Name)
	}
}

func TestCapabilityHelpers(t *testing.T) {
	g := Classify(Guid)
	assert.True(t, g.SupportsFormatting())
	assert.True(t, g.SupportsParsing())
	assert.False(t, g.SupportsConvertible())
	assert.False(t, g.SupportsUtf8())
	assert.False(t, g.IsDisposableCandidate())

	s := Classify(String)
	assert.False(t, s.SupportsFormatting())
	assert.True(t, s.SupportsParsing())
	assert.True(t, s.SupportsConvertible())

	b := Classify(Boolean)
	assert.True(t, b.SupportsConvertible())
	assert.False(t, b.IsNumeric())
	assert.False(t, b.IsDisposableCandidate())

	r := Classify(Snapshot{QualifiedName: "System.IO.Stream", Name: "Stream"})
	assert.True(t, r.IsDisposableCandidate())
	assert.False(t, r.SupportsParsing())
}

func TestNumericKind(t *testing.T) {
	assert.True(t, NumericByte.IsIntegral())
	assert.False(t, NumericSingle.IsIntegral())
	assert.True(t, NumericInt16.Narrow())
	assert.False(t, NumericInt32.Narrow())
	assert.Equal(t, "decimal", NumericDecimal.String())
}

func TestSpecialParse(t *testing.T) {
	s, ok := ParseSpecial("Guid")
	assert.True(t, ok)
	assert.Equal(t, SpecialGuid, s)

	s, ok = ParseSpecial("bogus")
	assert.False(t, ok)
	assert.Equal(t, SpecialNone, s)
	assert.Equal(t, "int32", SpecialInt32.String())
}

func TestStringComparison(t *testing.T) {
	c, ok := ParseStringComparison("ordinalignorecase")
	assert.True(t, ok)
	assert.Equal(t, OrdinalIgnoreCase, c)
	assert.True(t, c.UsesComparer())
	assert.True(t, c.IgnoresCase())
	assert.Equal(t, "global::System.StringComparer.OrdinalIgnoreCase", c.Comparer())

	c, ok = ParseStringComparison("")
	assert.True(t, ok)
	assert.Equal(t, Ordinal, c)
	assert.False(t, c.UsesComparer())
	assert.Equal(t, "global::System.StringComparison.Ordinal", c.Expr())

	assert.True(t, InvariantCulture.UsesComparer())
	assert.False(t, InvariantCulture.IgnoresCase())

	_, ok = ParseStringComparison("Bytewise")
	assert.False(t, ok)
}

func TestDeclaredType(t *testing.T) {
	assert.Equal(t, "global::System.Guid", Classify(Guid).DeclaredType())
	assert.Equal(t, "string", Classify(String).DeclaredType())
	assert.Equal(t, "string?", Classify(NullableString()).DeclaredType())

	s := Snapshot{QualifiedName: "Acme.Blob", Name: "Blob", IsNullableReference: true}
	assert.Equal(t, "global::Acme.Blob?", Classify(s).DeclaredType())
}

func TestWellKnown(t *testing.T) {
	assert.Equal(t, SpecialInt32, WellKnown("int"))
	assert.Equal(t, SpecialGuid, WellKnown("global::System.Guid"))
	assert.Equal(t, SpecialString, WellKnown("string?"))
	assert.Equal(t, SpecialNone, WellKnown("System.IO.Stream"))
}
