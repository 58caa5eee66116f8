package synth

import (
	"strings"

	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/ir"
)

// ConversionOptions configures Conversion.
type ConversionOptions struct {
	// Implicit makes the conversion from the wrapper to the backing type implicit.
	Implicit bool `schema:"implicit"`

	// SkipConvertible omits the IConvertible implementation.
	SkipConvertible bool `schema:"skip_convertible"`
}

// convertEntry is one IConvertible entry point.
type convertEntry struct {
	name   string
	result string
}

// convertibleTable lists the IConvertible methods taking only a format
// provider. Adding a conversion target is a new row here.
var convertibleTable = []convertEntry{
	{"ToBoolean", "bool"},
	{"ToByte", "byte"},
	{"ToChar", "char"},
	{"ToDateTime", sys + "DateTime"},
	{"ToDecimal", "decimal"},
	{"ToDouble", "double"},
	{"ToInt16", "short"},
	{"ToInt32", "int"},
	{"ToInt64", "long"},
	{"ToSByte", "sbyte"},
	{"ToSingle", "float"},
	{"ToString", "string"},
	{"ToUInt16", "ushort"},
	{"ToUInt32", "uint"},
	{"ToUInt64", "ulong"},
}

// Conversion declares conversion operators between the wrapper and its backing
// type and, when the backing type is IConvertible, implements IConvertible by
// delegation. Each IConvertible member is an explicit interface implementation.
func Conversion(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts ConversionOptions) ir.TypeDeclaration {
	t := newTarget(d, c, acc)
	bt := c.DeclaredType()

	ms := []ir.Member{
		ir.ConversionOperator{
			MemberBase: publicStatic(),
			TargetType: t.self,
			Param:      param(bt, "value"),
			Body:       ir.Expr(t.wrap("value")),
		},
		ir.ConversionOperator{
			MemberBase: publicStatic(),
			Implicit:   opts.Implicit,
			TargetType: bt,
			Param:      param(t.self, "value"),
			Body:       ir.Expr(t.on("value")),
		},
	}

	if c.SupportsConvertible() && !opts.SkipConvertible {
		d = d.WithInterface(sys+"IConvertible", nil)
		ms = append(ms, t.convertible("GetTypeCode", sys+"TypeCode", nil, nil))
		for _, e := range convertibleTable {
			ms = append(ms, t.convertible(e.name, e.result,
				[]ir.Parameter{param(formatProvider, "provider")},
				[]string{"provider"}))
		}
		ms = append(ms, t.convertible("ToType", "object",
			[]ir.Parameter{param(sys+"Type", "conversionType"), param(formatProvider, "provider")},
			[]string{"conversionType", "provider"}))
	}
	return d.WithMembers(ms...)
}

func (t target) convertible(name, result string, params []ir.Parameter, args []string) ir.Method {
	call := "((" + sys + "IConvertible)" + t.v + ")." + name + "(" + strings.Join(args, ", ") + ")"
	m := ir.Method{
		MemberBase:        implementing(ir.MemberBase{}),
		Name:              name,
		ReturnType:        result,
		ExplicitInterface: sys + "IConvertible",
		Params:            params,
	}
	switch t.strategy {
	case backing.StrategyValue:
		m.Body = ir.Expr(call)
	case backing.StrategyNullableString, backing.StrategyNullableReference:
		m.Body = ir.Block(
			"if ("+t.v+" is null)",
			"\treturn default!;",
			"return "+call+";",
		)
	}
	return m
}
