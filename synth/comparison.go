package synth

import (
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/ir"
)

// ComparisonOptions configures Comparison.
type ComparisonOptions struct {
	Comparison    backing.StringComparison `schema:"comparison"`
	SkipOperators bool                     `schema:"skip_operators"`
}

// Comparison implements IComparable<T> and IComparable and declares the four
// relational operators.
//
// Null sorts first: both null compare 0, a null receiver compares -1 and a null
// argument 1. The operators only ever look at the sign of CompareTo.
func Comparison(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts ComparisonOptions) ir.TypeDeclaration {
	t := newTarget(d, c, acc)

	var compare ir.Body
	switch t.strategy {
	case backing.StrategyValue:
		expr := t.v + ".CompareTo(" + t.on("other") + ")"
		if t.isClass {
			expr = "other is null ? 1 : " + expr
		}
		compare = ir.Expr(expr)
	case backing.StrategyNullableString:
		compare = ir.Block(append(t.classNullGuard("1"),
			nullSwitch(t.v, t.on("other"), "0", "-1", "1",
				"string.Compare("+t.v+", "+t.on("other")+", "+opts.Comparison.Expr()+")")...)...)
	case backing.StrategyNullableReference:
		compare = ir.Block(append(t.classNullGuard("1"),
			nullSwitch(t.v, t.on("other"), "0", "-1", "1",
				generic+"Comparer<"+c.TypeText+">.Default.Compare("+t.v+", "+t.on("other")+")")...)...)
	}

	d = d.WithInterface(sys+"IComparable<"+t.self+">", nil).
		WithInterface(sys+"IComparable", nil)

	ms := []ir.Member{
		ir.Method{
			MemberBase: implementing(public()),
			Name:       "CompareTo",
			ReturnType: "int",
			Params:     []ir.Parameter{param(t.other, "other")},
			Body:       compare,
		},
		ir.Method{
			MemberBase:        implementing(ir.MemberBase{}),
			Name:              "CompareTo",
			ReturnType:        "int",
			ExplicitInterface: sys + "IComparable",
			Params:            []ir.Parameter{param("object?", "obj")},
			Body: ir.Block(
				"if (obj is null)",
				"\treturn 1;",
				"if (obj is "+t.self+" other)",
				"\treturn CompareTo(other);",
				`throw new `+sys+`ArgumentException("Object must be of type `+d.Name+`.", nameof(obj));`,
			),
		},
	}

	if !opts.SkipOperators {
		cmp := "left.CompareTo(right)"
		if t.isClass {
			cmp = generic + "Comparer<" + t.other + ">.Default.Compare(left, right)"
		}
		for _, op := range []ir.OperatorSymbol{ir.OpLessThan, ir.OpGreaterThan, ir.OpLessThanOrEqual, ir.OpGreaterThanOrEqual} {
			ms = append(ms, binaryOperator(op, "bool", t.other, cmp+" "+string(op)+" 0"))
		}
	}
	return d.WithMembers(ms...)
}
