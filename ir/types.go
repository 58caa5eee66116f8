// Package ir defines the declaration tree that synthesis modules build and the
// C# renderer walks.
//
// Every value in the tree is immutable once constructed. Composition methods on
// TypeDeclaration return a new declaration and never touch the receiver, so a
// partially built declaration can be shared by several branches that diverge
// afterwards.
package ir

import "strings"

// TypeKind identifies the category of a type declaration.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindStruct
	KindInterface
	KindRecord
	KindRecordStruct
)

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindStruct:
		return "Struct"
	case KindInterface:
		return "Interface"
	case KindRecord:
		return "Record"
	case KindRecordStruct:
		return "RecordStruct"
	default:
		return "Unknown"
	}
}

// Keyword returns the C# keyword that introduces a declaration of kind k.
func (k TypeKind) Keyword() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindRecord:
		return "record"
	case KindRecordStruct:
		return "record struct"
	default:
		return "class"
	}
}

// IsValueType reports whether declarations of kind k are value types.
func (k TypeKind) IsValueType() bool {
	return k == KindStruct || k == KindRecordStruct
}

// ParseTypeKind parses the manifest spelling of a type kind
// ("class", "struct", "interface", "record", "record struct").
func ParseTypeKind(s string) (TypeKind, bool) {
	switch strings.Join(strings.Fields(strings.ToLower(s)), " ") {
	case "class", "":
		return KindClass, true
	case "struct":
		return KindStruct, true
	case "interface":
		return KindInterface, true
	case "record", "record class":
		return KindRecord, true
	case "record struct", "recordstruct", "record_struct":
		return KindRecordStruct, true
	}
	return KindClass, false
}

// Accessibility is the access modifier of a type or member.
// The zero value emits no modifier.
type Accessibility int

const (
	AccessDefault Accessibility = iota
	Public
	Internal
	Protected
	Private
	ProtectedInternal
	PrivateProtected
)

// Keyword returns the modifier text, or "" for AccessDefault.
func (a Accessibility) Keyword() string {
	switch a {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Protected:
		return "protected"
	case Private:
		return "private"
	case ProtectedInternal:
		return "protected internal"
	case PrivateProtected:
		return "private protected"
	default:
		return ""
	}
}

// String returns the string representation of the accessibility.
func (a Accessibility) String() string {
	if kw := a.Keyword(); kw != "" {
		return kw
	}
	return "default"
}

// ParseAccessibility parses an access modifier keyword; "" is AccessDefault.
func ParseAccessibility(s string) (Accessibility, bool) {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if s == "" || s == "default" {
		return AccessDefault, true
	}
	for a := Public; a <= PrivateProtected; a++ {
		if a.Keyword() == s {
			return a, true
		}
	}
	return AccessDefault, false
}

// Modifier is a set of declaration modifiers. Type declarations use Partial,
// Sealed, Static, Readonly and Abstract; members use the rest as well.
type Modifier uint16

const (
	ModNew Modifier = 1 << iota
	ModStatic
	ModAbstract
	ModVirtual
	ModSealed
	ModOverride
	ModReadonly
	ModAsync
	ModPartial
)

// modifierOrder is the emission order of modifier keywords.
var modifierOrder = []struct {
	mod Modifier
	kw  string
}{
	{ModNew, "new"},
	{ModStatic, "static"},
	{ModAbstract, "abstract"},
	{ModVirtual, "virtual"},
	{ModSealed, "sealed"},
	{ModOverride, "override"},
	{ModReadonly, "readonly"},
	{ModAsync, "async"},
	{ModPartial, "partial"},
}

// Has reports whether every modifier in o is set in m.
func (m Modifier) Has(o Modifier) bool { return m&o == o }

// Keywords returns the modifier keywords of m in emission order.
func (m Modifier) Keywords() []string {
	var out []string
	for _, e := range modifierOrder {
		if m.Has(e.mod) {
			out = append(out, e.kw)
		}
	}
	return out
}

// String returns the space-separated modifier keywords.
func (m Modifier) String() string { return strings.Join(m.Keywords(), " ") }

// ParseModifiers parses modifier keywords into a set.
func ParseModifiers(keywords ...string) (Modifier, bool) {
	var m Modifier
next:
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		for _, e := range modifierOrder {
			if e.kw == kw {
				m |= e.mod
				continue next
			}
		}
		return 0, false
	}
	return m, true
}

// Documentation holds the XML doc comment of a declaration.
type Documentation struct {
	// Summary becomes the <summary> element.
	Summary string

	// Remarks becomes the <remarks> element.
	Remarks string

	// Inherit emits <inheritdoc/> instead of a summary.
	Inherit bool
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Remarks == "" && !d.Inherit
}

// Summary returns documentation with only a summary.
func Summary(text string) Documentation { return Documentation{Summary: text} }

// InheritDoc returns documentation that emits <inheritdoc/>.
func InheritDoc() Documentation { return Documentation{Inherit: true} }

// Parameter is a method, constructor or operator parameter.
type Parameter struct {
	Name string
	Type string

	// Modifier is an optional parameter modifier ("in", "ref", "out", "this", "params", "scoped").
	Modifier string

	// Default is an optional default value expression.
	Default string

	Attributes []string
}

// Param returns a parameter with the given type and name.
func Param(typ, name string) Parameter { return Parameter{Name: name, Type: typ} }

// BodyKind identifies the shape of a member body.
type BodyKind int

const (
	// BodyNone marks a member without a body (abstract, interface, partial).
	BodyNone BodyKind = iota
	// BodyExpr is an expression body: "=> expr;".
	BodyExpr
	// BodyBlock is a statement block.
	BodyBlock
)

// Body is the implementation of a method-like member.
type Body struct {
	kind  BodyKind
	expr  string
	lines []string
}

// Expr returns an expression body. The expression is emitted verbatim after "=>".
func Expr(expr string) Body { return Body{kind: BodyExpr, expr: expr} }

// Block returns a statement block body. Leading tab characters on a line denote
// nesting relative to the block.
func Block(lines ...string) Body {
	return Body{kind: BodyBlock, lines: append([]string(nil), lines...)}
}

// Kind returns the body kind.
func (b Body) Kind() BodyKind { return b.kind }

// IsZero reports whether the body is absent.
func (b Body) IsZero() bool { return b.kind == BodyNone }

// Expression returns the expression of an expression body.
func (b Body) Expression() string { return b.expr }

// Lines returns a copy of the statement lines of a block body.
func (b Body) Lines() []string { return append([]string(nil), b.lines...) }

// String returns the body as it would read on a single line, for debugging and
// assertions.
func (b Body) String() string {
	switch b.kind {
	case BodyExpr:
		return b.expr
	case BodyBlock:
		parts := make([]string, len(b.lines))
		for i, l := range b.lines {
			parts[i] = strings.TrimLeft(l, "\t")
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
