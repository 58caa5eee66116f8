// Package directive models boolean conditions over preprocessor symbols and
// renders them as C# conditional-compilation guards.
//
// Expressions are immutable trees:
//
//	g := directive.Or(
//	    directive.Condition("NET7_0_OR_GREATER"),
//	    directive.And(directive.Condition("NETSTANDARD2_1"), directive.Not(directive.Condition("LEGACY"))),
//	)
//	directive.Render(g) // NET7_0_OR_GREATER || (NETSTANDARD2_1 && !LEGACY)
//
// Always is the identity for And and the annihilator for Or. An expression that
// simplifies to Always renders as the empty string, which the renderer treats as
// "no guard".
package directive

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of an expression.
type Kind int

const (
	KindAlways Kind = iota
	KindCondition
	KindAnd
	KindOr
	KindNot
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindAlways:
		return "Always"
	case KindCondition:
		return "Condition"
	case KindAnd:
		return "And"
	case KindOr:
		return "Or"
	case KindNot:
		return "Not"
	default:
		return "Unknown"
	}
}

// Expr is a directive expression. Only types in this package implement it.
type Expr interface {
	Kind() Kind
	sealed()
}

type always struct{}

func (always) Kind() Kind { return KindAlways }
func (always) sealed()    {}

type condition struct {
	name string
}

func (condition) Kind() Kind { return KindCondition }
func (condition) sealed()    {}

type binary struct {
	kind        Kind
	left, right Expr
}

func (b binary) Kind() Kind { return b.kind }
func (binary) sealed()      {}

type not struct {
	operand Expr
}

func (not) Kind() Kind { return KindNot }
func (not) sealed()    {}

// Always returns the expression that is true for every build.
func Always() Expr { return always{} }

// Never returns the expression that is false for every build.
func Never() Expr { return not{operand: always{}} }

// Condition wraps a raw preprocessor symbol. The name is used verbatim.
func Condition(name string) Expr { return condition{name: name} }

// And combines expressions with &&, folding extra operands to the left.
func And(a, b Expr, more ...Expr) Expr {
	return fold(KindAnd, a, b, more)
}

// Or combines expressions with ||, folding extra operands to the left.
func Or(a, b Expr, more ...Expr) Expr {
	return fold(KindOr, a, b, more)
}

// Not negates an expression.
func Not(a Expr) Expr { return not{operand: orAlways(a)} }

func fold(kind Kind, a, b Expr, more []Expr) Expr {
	e := Expr(binary{kind: kind, left: orAlways(a), right: orAlways(b)})
	for _, m := range more {
		e = binary{kind: kind, left: e, right: orAlways(m)}
	}
	return e
}

// orAlways maps a nil expression to Always so that a zero guard is never a panic.
func orAlways(e Expr) Expr {
	if e == nil {
		return always{}
	}
	return e
}

// Name returns the symbol of a Condition expression, or "" for other kinds.
func Name(e Expr) string {
	if c, ok := e.(condition); ok {
		return c.name
	}
	return ""
}

// Operands returns the direct children of e in order.
func Operands(e Expr) []Expr {
	switch x := e.(type) {
	case binary:
		return []Expr{x.left, x.right}
	case not:
		return []Expr{x.operand}
	default:
		return nil
	}
}

// Simplify applies the identity and annihilator rules of Always and removes
// double negation. The result is structurally minimal but otherwise keeps the
// operand order.
func Simplify(e Expr) Expr {
	switch x := orAlways(e).(type) {
	case binary:
		l, r := Simplify(x.left), Simplify(x.right)
		_, la := l.(always)
		_, ra := r.(always)
		switch x.kind {
		case KindAnd:
			if la {
				return r
			}
			if ra {
				return l
			}
		case KindOr:
			if la || ra {
				return always{}
			}
		}
		return binary{kind: x.kind, left: l, right: r}
	case not:
		inner := Simplify(x.operand)
		if n, ok := inner.(not); ok {
			return n.operand
		}
		return not{operand: inner}
	default:
		return x
	}
}

// IsAlways reports whether e simplifies to Always. A nil expression counts as Always.
func IsAlways(e Expr) bool {
	_, ok := Simplify(e).(always)
	return ok
}

// Render returns the guard text of e. Always renders as "".
func Render(e Expr) string {
	e = Simplify(e)
	if _, ok := e.(always); ok {
		return ""
	}
	var sb strings.Builder
	write(&sb, e, KindAlways)
	return sb.String()
}

func write(sb *strings.Builder, e Expr, parent Kind) {
	switch x := e.(type) {
	case always:
		sb.WriteString("true")
	case condition:
		sb.WriteString(x.name)
	case not:
		switch x.operand.(type) {
		case always:
			sb.WriteString("false")
		case binary:
			sb.WriteString("!(")
			write(sb, x.operand, KindNot)
			sb.WriteByte(')')
		default:
			sb.WriteByte('!')
			write(sb, x.operand, KindNot)
		}
	case binary:
		op := " && "
		if x.kind == KindOr {
			op = " || "
		}
		// Same-operator chains are associative; mixing operators needs parentheses.
		paren := parent == KindAnd || parent == KindOr
		paren = paren && parent != x.kind
		if paren {
			sb.WriteByte('(')
		}
		write(sb, x.left, x.kind)
		sb.WriteString(op)
		write(sb, x.right, x.kind)
		if paren {
			sb.WriteByte(')')
		}
	}
}

// Equal reports whether a and b render to the same guard text.
func Equal(a, b Expr) bool {
	return Render(a) == Render(b)
}

// Validate reports caller misuse inside an expression: empty or whitespace
// condition names.
func Validate(e Expr) error {
	switch x := orAlways(e).(type) {
	case condition:
		if strings.TrimSpace(x.name) == "" {
			return fmt.Errorf("directive: empty condition name")
		}
		if strings.ContainsAny(x.name, " \t\r\n") {
			return fmt.Errorf("directive: condition name %q contains whitespace", x.name)
		}
	case binary:
		if err := Validate(x.left); err != nil {
			return err
		}
		return Validate(x.right)
	case not:
		return Validate(x.operand)
	}
	return nil
}

// String formats e for debugging.
func String(e Expr) string {
	if IsAlways(e) {
		return "<always>"
	}
	return Render(e)
}
