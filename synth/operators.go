package synth

import (
	"fmt"
	"slices"

	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/directive"
	"github.com/broady/declgen/ir"
)

// OperatorOptions configures Arithmetic, Bitwise and Shift.
type OperatorOptions struct {
	// Operators restricts the operators to declare, by name ("add", "negate",
	// "xor", "unsigned_right_shift", ...). Empty means all of the family.
	Operators []string `schema:"operators"`

	// SkipInterfaces omits the generic-math interfaces.
	SkipInterfaces bool `schema:"skip_interfaces"`
}

func (o OperatorOptions) wants(name string) bool {
	return len(o.Operators) == 0 || slices.Contains(o.Operators, name)
}

// opSpec describes one operator of a family.
type opSpec struct {
	name   string
	symbol ir.OperatorSymbol
	unary  bool

	// iface is the generic-math interface of an arithmetic operator, with
	// %[1]s standing for the wrapper type.
	iface string

	// guard limits the operator itself, not just its interface.
	guard directive.Expr
}

var arithmeticOps = []opSpec{
	{name: "add", symbol: ir.OpPlus, iface: "IAdditionOperators<%[1]s, %[1]s, %[1]s>"},
	{name: "subtract", symbol: ir.OpMinus, iface: "ISubtractionOperators<%[1]s, %[1]s, %[1]s>"},
	{name: "multiply", symbol: ir.OpMultiply, iface: "IMultiplyOperators<%[1]s, %[1]s, %[1]s>"},
	{name: "divide", symbol: ir.OpDivide, iface: "IDivisionOperators<%[1]s, %[1]s, %[1]s>"},
	{name: "modulus", symbol: ir.OpModulus, iface: "IModulusOperators<%[1]s, %[1]s, %[1]s>"},
	{name: "negate", symbol: ir.OpMinus, unary: true, iface: "IUnaryNegationOperators<%[1]s, %[1]s>"},
	{name: "plus", symbol: ir.OpPlus, unary: true, iface: "IUnaryPlusOperators<%[1]s, %[1]s>"},
	{name: "increment", symbol: ir.OpIncrement, unary: true, iface: "IIncrementOperators<%[1]s>"},
	{name: "decrement", symbol: ir.OpDecrement, unary: true, iface: "IDecrementOperators<%[1]s>"},
}

var bitwiseOps = []opSpec{
	{name: "and", symbol: ir.OpBitwiseAnd},
	{name: "or", symbol: ir.OpBitwiseOr},
	{name: "xor", symbol: ir.OpExclusiveOr},
	{name: "complement", symbol: ir.OpOnesComplement, unary: true},
}

var shiftOps = []opSpec{
	{name: "left_shift", symbol: ir.OpLeftShift},
	{name: "right_shift", symbol: ir.OpRightShift},
	{name: "unsigned_right_shift", symbol: ir.OpUnsignedRightShift, guard: directive.Net7OrGreater},
}

// Arithmetic declares + - * / %, unary - and +, ++ and -- over the backing
// value, plus the matching System.Numerics interfaces on .NET 7. Non-numeric
// backing types are left alone. Results of byte and short arithmetic are cast
// back since C# promotes them to int.
func Arithmetic(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts OperatorOptions) ir.TypeDeclaration {
	if !c.IsNumeric() {
		return d
	}
	t := newTarget(d, c, acc)
	for _, op := range arithmeticOps {
		if !opts.wants(op.name) {
			continue
		}
		if !opts.SkipInterfaces {
			d = d.WithInterface(numerics+fmt.Sprintf(op.iface, t.self), directive.Net7OrGreater)
		}
		d = d.WithMember(t.arithmetic(op))
	}
	return d
}

func (t target) arithmetic(op opSpec) ir.Member {
	v := t.on("value")
	switch {
	case op.symbol == ir.OpIncrement:
		return unaryOperator(op.symbol, t.self, t.self, t.wrap(t.narrow(v+" + 1")))
	case op.symbol == ir.OpDecrement:
		return unaryOperator(op.symbol, t.self, t.self, t.wrap(t.narrow(v+" - 1")))
	case op.unary:
		return unaryOperator(op.symbol, t.self, t.self, t.wrap(t.narrow(string(op.symbol)+v)))
	default:
		return binaryOperator(op.symbol, t.self, t.self,
			t.wrap(t.narrow(t.on("left")+" "+string(op.symbol)+" "+t.on("right"))))
	}
}

// Bitwise declares & | ^ and ~ for integral backing types, and
// IBitwiseOperators<T, T, T> on .NET 7 when all four are declared.
func Bitwise(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts OperatorOptions) ir.TypeDeclaration {
	if !c.SupportsBitwise {
		return d
	}
	t := newTarget(d, c, acc)
	all := true
	var ms []ir.Member
	for _, op := range bitwiseOps {
		if !opts.wants(op.name) {
			all = false
			continue
		}
		if op.unary {
			ms = append(ms, unaryOperator(op.symbol, t.self, t.self, t.wrap(t.narrow("~"+t.on("value")))))
			continue
		}
		ms = append(ms, binaryOperator(op.symbol, t.self, t.self,
			t.wrap(t.narrow(t.on("left")+" "+string(op.symbol)+" "+t.on("right")))))
	}
	if all && !opts.SkipInterfaces {
		d = d.WithInterface(numerics+fmt.Sprintf("IBitwiseOperators<%[1]s, %[1]s, %[1]s>", t.self), directive.Net7OrGreater)
	}
	return d.WithMembers(ms...)
}

// Shift declares << and >> for integral backing types, and >>> guarded to
// .NET 7 together with IShiftOperators<T, int, T>.
func Shift(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts OperatorOptions) ir.TypeDeclaration {
	if !c.SupportsShift {
		return d
	}
	t := newTarget(d, c, acc)
	all := true
	var ms []ir.Member
	for _, op := range shiftOps {
		if !opts.wants(op.name) {
			all = false
			continue
		}
		m := ir.Operator{
			MemberBase: publicStatic(),
			Symbol:     op.symbol,
			ReturnType: t.self,
			Params:     []ir.Parameter{param(t.self, "value"), param("int", "shiftAmount")},
			Body:       ir.Expr(t.wrap(t.narrow(t.on("value") + " " + string(op.symbol) + " shiftAmount"))),
		}
		m.Guard = op.guard
		ms = append(ms, m)
	}
	if all && !opts.SkipInterfaces {
		d = d.WithInterface(numerics+fmt.Sprintf("IShiftOperators<%[1]s, int, %[1]s>", t.self), directive.Net7OrGreater)
	}
	return d.WithMembers(ms...)
}
