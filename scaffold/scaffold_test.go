package scaffold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKnownValues(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", NewHasher().Sum())
	assert.Equal(t, "6408fdc5c36df5df57957e7b230e4b48c55b06ce849303e855d52f1356f2980e",
		NewHasher().Add("a", "1").Add("b", "2").Sum())
}

func TestHashDeterministic(t *testing.T) {
	h := NewHasher().Add("Name", "UserId").Add("Namespace", "Acme")
	first := h.Sum()
	assert.Equal(t, first, h.Sum())
	assert.Equal(t, first, NewHasher().Add("Name", "UserId").Add("Namespace", "Acme").Sum())
	assert.Equal(t, first, Hash(h.Bindings()...))
}

func TestHashOrderSensitive(t *testing.T) {
	ab := NewHasher().Add("a", "1").Add("b", "2").Sum()
	ba := NewHasher().Add("b", "2").Add("a", "1").Sum()
	assert.NotEqual(t, ab, ba)
}

func TestHashAddInvalidatesSum(t *testing.T) {
	h := NewHasher().Add("a", "1")
	before := h.Sum()
	h.Add("b", "2")
	assert.NotEqual(t, before, h.Sum())
	assert.Equal(t, 2, h.Len())
}

func TestHashFormat(t *testing.T) {
	inputs := [][]Binding{
		nil,
		{{"k", ""}},
		{{"Name", "User42"}, {"Id", "42"}},
		{{"unicode", "héllo wörld"}},
	}
	for _, in := range inputs {
		sum := Hash(in...)
		assert.Len(t, sum, HashLen)
		assert.True(t, IsHash(sum), sum)
	}
	assert.False(t, IsHash(strings.Repeat("A", HashLen)))
	assert.False(t, IsHash("abc"))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "{{name}}", Placeholder("Name"))
	assert.Equal(t, "{{id}}", Placeholder("Id"))
	assert.Equal(t, "{{typeName}}", Placeholder("TypeName"))
	assert.Equal(t, "{{backingType}}", Placeholder("backing_type"))
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		bindings []Binding
		want     string
	}{
		{
			name:     "longest value first",
			text:     "User42 has id 42",
			bindings: []Binding{{"Id", "42"}, {"Name", "User42"}},
			want:     "{{name}} has id {{id}}",
		},
		{
			name:     "binding order does not matter across lengths",
			text:     "User42 has id 42",
			bindings: []Binding{{"Name", "User42"}, {"Id", "42"}},
			want:     "{{name}} has id {{id}}",
		},
		{
			name:     "equal length keeps binding order",
			text:     "abc",
			bindings: []Binding{{"First", "ab"}, {"Second", "bc"}},
			want:     "{{first}}c",
		},
		{
			name:     "placeholders are not rescanned",
			text:     "Acme.name",
			bindings: []Binding{{"Namespace", "Acme"}, {"Short", "name"}},
			want:     "{{namespace}}.{{short}}",
		},
		{
			name:     "placeholder text never matches a later value",
			text:     "Widget",
			bindings: []Binding{{"Type", "Widget"}, {"X", "type"}},
			want:     "{{type}}",
		},
		{
			name:     "empty values ignored",
			text:     "same",
			bindings: []Binding{{"Empty", ""}},
			want:     "same",
		},
		{
			name:     "every occurrence",
			text:     "Id Id Id",
			bindings: []Binding{{"Name", "Id"}},
			want:     "{{name}} {{name}} {{name}}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Substitute(tt.text, tt.bindings))
		})
	}

	h := NewHasher().Add("Id", "42").Add("Name", "User42")
	assert.Equal(t, "{{name}} has id {{id}}", h.Scaffold("User42 has id 42"))
}

func TestSubstituteIdentifiers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		bindings []Binding
		keep     []string
		want     string
	}{
		{
			name:     "longer identifiers untouched",
			text:     "ValueTask TryFromValue(Value value)",
			bindings: []Binding{{"Accessor", "Value"}},
			want:     "ValueTask TryFromValue({{accessor}} value)",
		},
		{
			name:     "member access",
			text:     "Value.Equals(other.Value)",
			bindings: []Binding{{"Accessor", "Value"}},
			want:     "{{accessor}}.Equals(other.{{accessor}})",
		},
		{
			name:     "underscore and digits join identifiers",
			text:     "_Value Value2 Value",
			bindings: []Binding{{"Accessor", "Value"}},
			want:     "_Value Value2 {{accessor}}",
		},
		{
			name:     "kept text untouched",
			text:     "Instance => _instance.Value; Value",
			bindings: []Binding{{"Accessor", "Value"}},
			keep:     []string{"_instance.Value"},
			want:     "Instance => _instance.Value; {{accessor}}",
		},
		{
			name:     "qualified values",
			text:     "namespace Acme.Ids; global::System.Guid",
			bindings: []Binding{{"Namespace", "Acme.Ids"}, {"Backing", "Guid"}},
			want:     "namespace {{namespace}}; global::System.{{backing}}",
		},
		{
			name:     "match after rejected occurrence",
			text:     "Ids Id",
			bindings: []Binding{{"Type", "Id"}},
			want:     "Ids {{type}}",
		},
		{
			name:     "non-ASCII letters join identifiers",
			text:     "éId Id",
			bindings: []Binding{{"Type", "Id"}},
			want:     "éId {{type}}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstituteIdentifiers(tt.text, tt.bindings, tt.keep...))
		})
	}
}

func testHeader() Header {
	return Header{
		Package:  "declgen",
		Version:  "1.2.0",
		Hash:     Hash(Binding{"a", "1"}),
		Scaffold: "UserId",
	}
}

func TestHeaderFormat(t *testing.T) {
	h := testHeader()
	want := "// @declgen v1.2.0 hash:" + h.Hash + "\n// scaffold: UserId"
	assert.Equal(t, want, h.Format())

	h.Version = "v1.2.0"
	assert.Equal(t, want, h.Format())
}

func TestHeaderRoundTrip(t *testing.T) {
	h := testHeader()
	got, ok := Parse(h.Format())
	require.True(t, ok)
	assert.Equal(t, h, got)
	assert.True(t, h.Valid())

	text := Prepend(h, "class C {}\n")
	got, rest, ok := Split(text)
	require.True(t, ok)
	assert.Equal(t, h, got)
	assert.Equal(t, "class C {}\n", rest)

	crlf := strings.ReplaceAll(text, "\n", "\r\n")
	got, ok = Parse(crlf)
	require.True(t, ok)
	assert.Equal(t, h, got)
}

func TestPrependReplacesHeader(t *testing.T) {
	old := testHeader()
	text := Prepend(old, "body\n")

	next := old
	next.Hash = Hash(Binding{"a", "2"})
	out := Prepend(next, text)
	assert.Equal(t, next.Format()+"\nbody\n", out)
	assert.Equal(t, 1, strings.Count(out, "// scaffold:"))
}

func TestParseMalformed(t *testing.T) {
	good := testHeader()
	tests := map[string]string{
		"empty":             "",
		"single line":       "// @declgen v1.2.0 hash:abc",
		"missing marker":    "// declgen v1.2.0 hash:abc\n// scaffold: X",
		"missing v":         "// @declgen 1.2.0 hash:abc\n// scaffold: X",
		"missing hash":      "// @declgen v1.2.0 hash:\n// scaffold: X",
		"empty package":     "// @ v1.2.0 hash:abc\n// scaffold: X",
		"empty scaffold":    "// @declgen v1.2.0 hash:abc\n// scaffold: ",
		"wrong second line": "// @declgen v1.2.0 hash:abc\n// template: X",
		"leading blank":     "\n" + good.Format(),
		"trailing garbage":  "// @declgen v1.2.0 hash:abc extra\n// scaffold: X",
		"body only":         "namespace Acme;\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			h, ok := Parse(text)
			assert.False(t, ok)
			assert.Equal(t, Header{}, h)

			_, rest, ok := Split(text)
			assert.False(t, ok)
			assert.Equal(t, text, rest)
		})
	}

	bad := good
	bad.Scaffold = ""
	assert.False(t, bad.Valid())
}

func TestCheckStaleness(t *testing.T) {
	want := testHeader()
	withHeader := func(mod func(*Header)) string {
		h := want
		mod(&h)
		return Prepend(h, "class C {}\n")
	}

	tests := []struct {
		name     string
		existing string
		want     Status
	}{
		{"missing", "", StatusMissing},
		{"foreign without header", "class C {}\n", StatusForeign},
		{"foreign package", withHeader(func(h *Header) { h.Package = "other" }), StatusForeign},
		{"fresh", withHeader(func(*Header) {}), StatusFresh},
		{"fresh from older patch", withHeader(func(h *Header) { h.Version = "1.1.9" }), StatusFresh},
		{"stale", withHeader(func(h *Header) { h.Hash = Hash() }), StatusStale},
		{"stale with unparseable version", withHeader(func(h *Header) { h.Version = "dev"; h.Hash = Hash() }), StatusStale},
		{"generator newer", withHeader(func(h *Header) { h.Version = "1.0.0"; h.Hash = Hash() }), StatusGeneratorNewer},
		{"generator older", withHeader(func(h *Header) { h.Version = "2.0.0" }), StatusGeneratorOlder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CheckStaleness(tt.existing, want)
			assert.Equal(t, tt.want, r.Status, r.Reason)
			assert.Equal(t, tt.want == StatusFresh, r.Status.OK())
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "stale", StatusStale.String())
	assert.Equal(t, "generator-older", StatusGeneratorOlder.String())
	assert.Equal(t, "Status(99)", Status(99).String())
}
