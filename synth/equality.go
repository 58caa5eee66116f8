package synth

import (
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/ir"
)

// WrapperOptions configures Wrapper.
type WrapperOptions struct {
	// SkipToString leaves ToString to the caller.
	SkipToString bool `schema:"skip_to_string"`
}

// Wrapper adds the backing property, a constructor taking the backing value and
// a ToString override. The property is only declared for a simple accessor; a
// dotted accessor refers to a member the caller declares.
func Wrapper(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts WrapperOptions) ir.TypeDeclaration {
	t := newTarget(d, c, acc)
	var ms []ir.Member
	if acc.IsZero() || acc.Leaf() == acc.String() {
		ms = append(ms,
			ir.Property{MemberBase: public(), Name: t.v, Type: c.DeclaredType(), Get: true},
			ir.Constructor{
				MemberBase: public(),
				Params:     []ir.Parameter{param(c.DeclaredType(), "value")},
				Body:       ir.Expr(t.v + " = value"),
			},
		)
	}
	if !opts.SkipToString {
		var body string
		switch t.strategy {
		case backing.StrategyValue:
			body = t.v + ".ToString()"
		case backing.StrategyNullableString:
			body = t.v + " ?? string.Empty"
		case backing.StrategyNullableReference:
			body = t.v + "?.ToString() ?? string.Empty"
		}
		ms = append(ms, ir.Method{MemberBase: publicOverride(), Name: "ToString", ReturnType: "string", Body: ir.Expr(body)})
	}
	return d.WithMembers(ms...)
}

// EqualityOptions configures Equality.
type EqualityOptions struct {
	// Comparison selects how string backing values are compared.
	Comparison backing.StringComparison `schema:"comparison"`

	// SkipOperators omits == and !=.
	SkipOperators bool `schema:"skip_operators"`
}

// Equality implements IEquatable<T>, overrides Equals(object?) and
// GetHashCode, and declares == and !=.
//
// A backing value that cannot be null compares with a single Equals call. One
// that can be null is matched four ways: both null are equal, one null is
// unequal, otherwise the values are compared with the configured string
// comparison or Equals. GetHashCode follows the same split, and routes through
// a StringComparer whenever the comparison is not ordinal so that equal values
// hash alike.
func Equality(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts EqualityOptions) ir.TypeDeclaration {
	t := newTarget(d, c, acc)
	mode := opts.Comparison

	var equals ir.Body
	switch t.strategy {
	case backing.StrategyValue:
		expr := t.v + ".Equals(" + t.on("other") + ")"
		if t.isClass {
			expr = "other is not null && " + expr
		}
		equals = ir.Expr(expr)
	case backing.StrategyNullableString:
		equals = ir.Block(append(t.classNullGuard("false"),
			nullSwitch(t.v, t.on("other"), "true", "false", "false",
				"string.Equals("+t.v+", "+t.on("other")+", "+mode.Expr()+")")...)...)
	case backing.StrategyNullableReference:
		equals = ir.Block(append(t.classNullGuard("false"),
			nullSwitch(t.v, t.on("other"), "true", "false", "false",
				t.v+"!.Equals("+t.on("other")+")")...)...)
	}

	var hash string
	switch t.strategy {
	case backing.StrategyValue:
		hash = t.v + ".GetHashCode()"
	case backing.StrategyNullableString:
		if mode.UsesComparer() {
			hash = t.v + " is null ? 0 : " + mode.Comparer() + ".GetHashCode(" + t.v + ")"
		} else {
			hash = t.v + " is null ? 0 : " + t.v + ".GetHashCode()"
		}
	case backing.StrategyNullableReference:
		hash = t.v + " is null ? 0 : " + t.v + ".GetHashCode()"
	}

	d = d.WithInterface(sys+"IEquatable<"+t.self+">", nil)
	ms := []ir.Member{
		ir.Method{
			MemberBase: implementing(public()),
			Name:       "Equals",
			ReturnType: "bool",
			Params:     []ir.Parameter{param(t.other, "other")},
			Body:       equals,
		},
		ir.Method{
			MemberBase: publicOverride(),
			Name:       "Equals",
			ReturnType: "bool",
			Params:     []ir.Parameter{param("object?", "obj")},
			Body:       ir.Expr("obj is " + t.self + " other && Equals(other)"),
		},
		ir.Method{
			MemberBase: publicOverride(),
			Name:       "GetHashCode",
			ReturnType: "int",
			Body:       ir.Expr(hash),
		},
	}
	if !opts.SkipOperators {
		eq := "left.Equals(right)"
		if t.isClass {
			eq = "left is null ? right is null : left.Equals(right)"
		}
		ms = append(ms,
			binaryOperator(ir.OpEquality, "bool", t.other, eq),
			binaryOperator(ir.OpInequality, "bool", t.other, "!(left == right)"),
		)
	}
	return d.WithMembers(ms...)
}

// classNullGuard returns the statements rejecting a null "other" on class
// wrappers, returning result. Structs need none.
func (t target) classNullGuard(result string) []string {
	if !t.isClass {
		return nil
	}
	return []string{
		"if (other is null)",
		"\treturn " + result + ";",
	}
}
