package ir

import "github.com/broady/declgen/directive"

// MemberKind identifies the variant of a member.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberProperty
	MemberMethod
	MemberConstructor
	MemberOperator
	MemberConversion
	MemberEvent
	MemberNestedType
)

// String returns the string representation of the member kind.
func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "Field"
	case MemberProperty:
		return "Property"
	case MemberMethod:
		return "Method"
	case MemberConstructor:
		return "Constructor"
	case MemberOperator:
		return "Operator"
	case MemberConversion:
		return "Conversion"
	case MemberEvent:
		return "Event"
	case MemberNestedType:
		return "NestedType"
	default:
		return "Unknown"
	}
}

// Member is a declaration inside a type. Only types in this package implement it.
type Member interface {
	// Kind returns the member kind for type switching.
	Kind() MemberKind

	// MemberName returns the identifying name of the member. Operators return
	// their symbol, constructors return "".
	MemberName() string

	// Base returns the attributes shared by every member.
	Base() MemberBase

	sealed()
}

// MemberBase holds what every member carries regardless of its kind.
type MemberBase struct {
	Access     Accessibility
	Modifiers  Modifier
	Attributes []string
	Doc        Documentation

	// Guard limits the member to builds where the expression holds.
	// A nil guard means no guard.
	Guard directive.Expr
}

// Base returns b.
func (b MemberBase) Base() MemberBase { return b }

// Field is a field declaration.
type Field struct {
	MemberBase
	Name        string
	Type        string
	Const       bool
	Initializer string
}

func (Field) Kind() MemberKind     { return MemberField }
func (f Field) MemberName() string { return f.Name }
func (Field) sealed()              {}

// Property is a property declaration.
//
// When Getter holds a body, the property is emitted with an explicit getter;
// an expression Getter without Set or Init is emitted in the "=> expr;" form.
// Otherwise Get, Set and Init select auto-accessors.
type Property struct {
	MemberBase
	Name string
	Type string

	// ExplicitInterface names the interface for an explicit implementation.
	ExplicitInterface string

	Get  bool
	Set  bool
	Init bool

	// SetAccess restricts the setter or init accessor.
	SetAccess Accessibility

	Getter      Body
	Initializer string
}

func (Property) Kind() MemberKind     { return MemberProperty }
func (p Property) MemberName() string { return p.Name }
func (Property) sealed()              {}

// Method is a method declaration. A zero Body emits a declaration ending in ";".
type Method struct {
	MemberBase
	Name           string
	ReturnType     string
	TypeParameters []string
	Params         []Parameter
	Constraints    []string

	// ExplicitInterface names the interface for an explicit implementation.
	ExplicitInterface string

	Body Body
}

func (Method) Kind() MemberKind     { return MemberMethod }
func (m Method) MemberName() string { return m.Name }
func (Method) sealed()              {}

// Constructor is an instance or static constructor. Its name is the name of
// the enclosing declaration.
type Constructor struct {
	MemberBase
	Params []Parameter

	// Initializer is an optional "this(...)" or "base(...)" call.
	Initializer string

	Body Body
}

func (Constructor) Kind() MemberKind   { return MemberConstructor }
func (Constructor) MemberName() string { return "" }
func (Constructor) sealed()            {}

// Operator is a user-defined unary or binary operator. The operand count is
// taken from Params.
type Operator struct {
	MemberBase
	Symbol     OperatorSymbol
	ReturnType string
	Params     []Parameter

	// Checked emits "operator checked".
	Checked bool

	Body Body
}

func (Operator) Kind() MemberKind     { return MemberOperator }
func (o Operator) MemberName() string { return string(o.Symbol) }
func (Operator) sealed()              {}

// IsUnary reports whether the operator takes a single operand.
func (o Operator) IsUnary() bool { return len(o.Params) == 1 }

// ConversionOperator is an implicit or explicit conversion operator.
type ConversionOperator struct {
	MemberBase
	Implicit   bool
	TargetType string
	Param      Parameter
	Body       Body
}

func (ConversionOperator) Kind() MemberKind { return MemberConversion }
func (c ConversionOperator) MemberName() string {
	if c.Implicit {
		return "implicit " + c.TargetType
	}
	return "explicit " + c.TargetType
}
func (ConversionOperator) sealed() {}

// Event is a field-like event declaration.
type Event struct {
	MemberBase
	Name string
	Type string
}

func (Event) Kind() MemberKind     { return MemberEvent }
func (e Event) MemberName() string { return e.Name }
func (Event) sealed()              {}

// NestedType places a type declaration inside another one.
type NestedType struct {
	MemberBase
	Decl TypeDeclaration
}

func (NestedType) Kind() MemberKind     { return MemberNestedType }
func (n NestedType) MemberName() string { return n.Decl.Name }
func (NestedType) sealed()              {}

// WithGuard returns a copy of m whose guard is g. The original is unchanged.
func WithGuard(m Member, g directive.Expr) Member {
	switch x := m.(type) {
	case Field:
		x.Guard = g
		return x
	case Property:
		x.Guard = g
		return x
	case Method:
		x.Guard = g
		return x
	case Constructor:
		x.Guard = g
		return x
	case Operator:
		x.Guard = g
		return x
	case ConversionOperator:
		x.Guard = g
		return x
	case Event:
		x.Guard = g
		return x
	case NestedType:
		x.Guard = g
		return x
	default:
		return m
	}
}

// Guarded returns copies of ms that all carry the guard g.
func Guarded(g directive.Expr, ms ...Member) []Member {
	out := make([]Member, len(ms))
	for i, m := range ms {
		out[i] = WithGuard(m, g)
	}
	return out
}

// GuardOf returns the guard of m, or nil.
func GuardOf(m Member) directive.Expr { return m.Base().Guard }
