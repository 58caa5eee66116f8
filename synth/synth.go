// Package synth turns a backing-type classification and an accessor name into
// the members that implement a capability on a wrapper declaration.
//
// Every function has the shape
//
//	func X(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts XOptions) ir.TypeDeclaration
//
// and returns d unchanged when the capability does not apply to the backing
// type. None of them fail: callers may request every capability and rely on the
// inapplicable ones being dropped.
package synth

import (
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/ir"
)

const (
	sys          = "global::System."
	generic      = "global::System.Collections.Generic."
	numerics     = "global::System.Numerics."
	codeAnalysis = "global::System.Diagnostics.CodeAnalysis."

	formatProvider = sys + "IFormatProvider?"
)

// target collects what every module derives from its inputs.
type target struct {
	decl     ir.TypeDeclaration
	self     string // how the wrapper names itself
	other    string // parameter type for "the other instance"; nullable for classes
	isClass  bool
	v        string // accessor
	caps     backing.Capabilities
	strategy backing.Strategy
}

func newTarget(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor) target {
	t := target{
		decl:     d,
		self:     d.SelfType(),
		isClass:  !d.IsValueType(),
		v:        acc.String(),
		caps:     c,
		strategy: c.Strategy(),
	}
	t.other = t.self
	if t.isClass {
		t.other += "?"
	}
	if t.v == "" {
		t.v = "Value"
	}
	return t
}

// on applies the accessor to a receiver expression.
func (t target) on(receiver string) string { return receiver + "." + t.v }

// wrap returns the expression constructing the wrapper from a backing value.
func (t target) wrap(expr string) string { return "new " + t.self + "(" + expr + ")" }

// narrow casts an arithmetic result back to the backing type when C# would
// promote it to int.
func (t target) narrow(expr string) string {
	if t.caps.NumericKind.Narrow() {
		return "(" + t.caps.TypeText + ")(" + expr + ")"
	}
	return expr
}

func public() ir.MemberBase { return ir.MemberBase{Access: ir.Public} }

func publicStatic() ir.MemberBase {
	return ir.MemberBase{Access: ir.Public, Modifiers: ir.ModStatic}
}

func publicOverride() ir.MemberBase {
	return ir.MemberBase{Access: ir.Public, Modifiers: ir.ModOverride}
}

// implementing is the base for members that implement an interface.
func implementing(base ir.MemberBase) ir.MemberBase {
	base.Doc = ir.InheritDoc()
	return base
}

func param(typ, name string) ir.Parameter { return ir.Param(typ, name) }

func attrParam(attr, typ, name string) ir.Parameter {
	return ir.Parameter{Name: name, Type: typ, Attributes: []string{attr}}
}

func outParam(typ, name string) ir.Parameter {
	return ir.Parameter{Name: name, Type: typ, Modifier: "out"}
}

// maybeNullOut is an out parameter that may be null when the method returns false.
func maybeNullOut(typ, name string) ir.Parameter {
	p := outParam(typ, name)
	p.Attributes = []string{codeAnalysis + "MaybeNullWhen(false)"}
	return p
}

func notNullWhenTrue(typ, name string) ir.Parameter {
	return attrParam(codeAnalysis+"NotNullWhen(true)", typ, name)
}

// nullSwitch builds a four-way match over a pair of possibly-null values.
func nullSwitch(left, right, bothNull, leftNull, rightNull, neither string) []string {
	return []string{
		"return (" + left + ", " + right + ") switch",
		"{",
		"\t(null, null) => " + bothNull + ",",
		"\t(null, _) => " + leftNull + ",",
		"\t(_, null) => " + rightNull + ",",
		"\t(_, _) => " + neither + ",",
		"};",
	}
}

// binaryOperator declares "public static R operator op(T left, T right) => body;".
func binaryOperator(sym ir.OperatorSymbol, ret, operand, body string) ir.Operator {
	return ir.Operator{
		MemberBase: publicStatic(),
		Symbol:     sym,
		ReturnType: ret,
		Params:     []ir.Parameter{param(operand, "left"), param(operand, "right")},
		Body:       ir.Expr(body),
	}
}

// unaryOperator declares "public static R operator op(T value) => body;".
func unaryOperator(sym ir.OperatorSymbol, ret, operand, body string) ir.Operator {
	return ir.Operator{
		MemberBase: publicStatic(),
		Symbol:     sym,
		ReturnType: ret,
		Params:     []ir.Parameter{param(operand, "value")},
		Body:       ir.Expr(body),
	}
}
