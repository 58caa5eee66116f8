package ir

import (
	"strings"

	"github.com/broady/declgen/directive"
)

// InterfaceRef is an implemented interface, optionally limited by a guard.
type InterfaceRef struct {
	// Name is the interface as emitted, e.g. "global::System.IEquatable<UserId>".
	Name string

	// Guard limits the interface to builds where the expression holds.
	Guard directive.Expr
}

// TypeDeclaration is a class, struct, interface or record declaration.
//
// The zero value is an unnamed class. Use Declare and the With methods to build
// one; every With method returns a new declaration.
type TypeDeclaration struct {
	Kind           TypeKind
	Name           string
	Namespace      string
	TypeParameters []string
	Access         Accessibility
	Modifiers      Modifier
	Attributes     []string
	Doc            Documentation

	// BaseType is an optional base class emitted before the interfaces.
	BaseType string

	// Interfaces in declaration order. The same interface may appear twice
	// under different guards.
	Interfaces []InterfaceRef

	// Members in insertion order.
	Members []Member

	// Nested types in insertion order, emitted after Members.
	Nested []NestedType
}

// Declare returns an empty declaration of the given kind and name.
func Declare(kind TypeKind, name string) TypeDeclaration {
	return TypeDeclaration{Kind: kind, Name: name}
}

// appendCopy returns a new slice holding s followed by v. s is never written to.
func appendCopy[T any](s []T, v ...T) []T {
	out := make([]T, 0, len(s)+len(v))
	out = append(out, s...)
	return append(out, v...)
}

// WithNamespace returns a copy of d in namespace ns.
func (d TypeDeclaration) WithNamespace(ns string) TypeDeclaration {
	d.Namespace = ns
	return d
}

// WithAccess returns a copy of d with accessibility a.
func (d TypeDeclaration) WithAccess(a Accessibility) TypeDeclaration {
	d.Access = a
	return d
}

// WithModifiers returns a copy of d with mods added to its modifier set.
func (d TypeDeclaration) WithModifiers(mods Modifier) TypeDeclaration {
	d.Modifiers |= mods
	return d
}

// WithTypeParameters returns a copy of d with the given type parameters appended.
func (d TypeDeclaration) WithTypeParameters(params ...string) TypeDeclaration {
	d.TypeParameters = appendCopy(d.TypeParameters, params...)
	return d
}

// WithBase returns a copy of d deriving from base.
func (d TypeDeclaration) WithBase(base string) TypeDeclaration {
	d.BaseType = base
	return d
}

// WithAttribute returns a copy of d with an attribute appended. The attribute is
// emitted verbatim inside brackets.
func (d TypeDeclaration) WithAttribute(attr string) TypeDeclaration {
	d.Attributes = appendCopy(d.Attributes, attr)
	return d
}

// WithDoc returns a copy of d with the given documentation.
func (d TypeDeclaration) WithDoc(doc Documentation) TypeDeclaration {
	d.Doc = doc
	return d
}

// WithInterface returns a copy of d implementing name. A nil guard means the
// interface is unconditional.
func (d TypeDeclaration) WithInterface(name string, guard directive.Expr) TypeDeclaration {
	d.Interfaces = appendCopy(d.Interfaces, InterfaceRef{Name: name, Guard: guard})
	return d
}

// WithMember returns a copy of d with m appended. Guards are kept as attached.
func (d TypeDeclaration) WithMember(m Member) TypeDeclaration {
	d.Members = appendCopy(d.Members, m)
	return d
}

// WithMembers returns a copy of d with ms appended in order.
func (d TypeDeclaration) WithMembers(ms ...Member) TypeDeclaration {
	if len(ms) == 0 {
		return d
	}
	d.Members = appendCopy(d.Members, ms...)
	return d
}

// WithNested returns a copy of d containing nested under the given guard.
func (d TypeDeclaration) WithNested(nested TypeDeclaration, guard directive.Expr) TypeDeclaration {
	n := NestedType{Decl: nested}
	n.Guard = guard
	n.Access = nested.Access
	d.Nested = appendCopy(d.Nested, n)
	return d
}

// Implements reports whether d lists name among its interfaces under any guard.
func (d TypeDeclaration) Implements(name string) bool {
	for _, i := range d.Interfaces {
		if i.Name == name {
			return true
		}
	}
	return false
}

// HasMember reports whether d has a member of kind k named name.
func (d TypeDeclaration) HasMember(k MemberKind, name string) bool {
	for _, m := range d.Members {
		if m.Kind() == k && m.MemberName() == name {
			return true
		}
	}
	return false
}

// FindMembers returns the members named name in insertion order.
func (d TypeDeclaration) FindMembers(name string) []Member {
	var out []Member
	for _, m := range d.Members {
		if m.MemberName() == name {
			out = append(out, m)
		}
	}
	return out
}

// IsValueType reports whether d declares a value type.
func (d TypeDeclaration) IsValueType() bool { return d.Kind.IsValueType() }

// QualifiedName returns Namespace.Name, or Name when there is no namespace.
func (d TypeDeclaration) QualifiedName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// SelfType returns how code inside d refers to d, e.g. "Result<T>".
func (d TypeDeclaration) SelfType() string {
	if len(d.TypeParameters) == 0 {
		return d.Name
	}
	return d.Name + "<" + strings.Join(d.TypeParameters, ", ") + ">"
}
