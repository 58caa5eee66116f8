package synth

import (
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/directive"
	"github.com/broady/declgen/ir"
)

// FormattableOptions configures Formattable.
type FormattableOptions struct {
	// SkipUtf8 omits IUtf8SpanFormattable even when the backing type has it.
	SkipUtf8 bool `schema:"skip_utf8"`
}

// Formattable implements IFormattable, ISpanFormattable (.NET 6) and
// IUtf8SpanFormattable (.NET 8) by delegating to the backing value. Backing
// types that are not formattable are left alone.
func Formattable(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts FormattableOptions) ir.TypeDeclaration {
	if !c.SupportsFormatting() {
		return d
	}
	t := newTarget(d, c, acc)
	nullable := t.strategy != backing.StrategyValue

	toString := t.v + ".ToString(format, formatProvider)"
	if nullable {
		toString = t.v + "?.ToString(format, formatProvider) ?? string.Empty"
	}
	d = d.WithInterface(sys+"IFormattable", nil).
		WithMember(ir.Method{
			MemberBase: implementing(public()),
			Name:       "ToString",
			ReturnType: "string",
			Params:     []ir.Parameter{param("string?", "format"), param(formatProvider, "formatProvider")},
			Body:       ir.Expr(toString),
		})

	d = d.WithInterface(sys+"ISpanFormattable", directive.Net6OrGreater).
		WithMember(t.tryFormat(sys+"ISpanFormattable", "char", "destination", "charsWritten", directive.Net6OrGreater))

	if c.SupportsUtf8() && !opts.SkipUtf8 {
		d = d.WithInterface(sys+"IUtf8SpanFormattable", directive.Net8OrGreater).
			WithMember(t.tryFormat(sys+"IUtf8SpanFormattable", "byte", "utf8Destination", "bytesWritten", directive.Net8OrGreater))
	}
	return d
}

func (t target) tryFormat(iface, unit, dest, written string, guard directive.Expr) ir.Method {
	args := "(" + dest + ", out " + written + ", format, provider)"
	base := implementing(public())
	base.Guard = guard
	m := ir.Method{
		MemberBase: base,
		Name:       "TryFormat",
		ReturnType: "bool",
		Params: []ir.Parameter{
			param(sys+"Span<"+unit+">", dest),
			outParam("int", written),
			param(sys+"ReadOnlySpan<char>", "format"),
			param(formatProvider, "provider"),
		},
	}
	if t.strategy == backing.StrategyValue {
		m.Body = ir.Expr(t.v + ".TryFormat" + args)
		return m
	}
	m.Body = ir.Block(
		"if ("+t.v+" is null)",
		"{",
		"\t"+written+" = 0;",
		"\treturn true;",
		"}",
		"return (("+iface+")"+t.v+").TryFormat"+args+";",
	)
	return m
}

// ParsableOptions configures Parsable.
type ParsableOptions struct {
	SkipUtf8 bool `schema:"skip_utf8"`
}

// Parsable implements IParsable<T> and ISpanParsable<T> (.NET 7) and
// IUtf8SpanParsable<T> (.NET 8). Parsing goes through the backing type's own
// Parse and TryParse, except for strings, which wrap the input as is.
func Parsable(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts ParsableOptions) ir.TypeDeclaration {
	if !c.SupportsParsing() {
		return d
	}
	t := newTarget(d, c, acc)
	net7 := directive.Net7OrGreater

	d = d.WithInterface(sys+"IParsable<"+t.self+">", net7).
		WithMembers(ir.Guarded(net7,
			t.parse("string", "s"),
			t.tryParse("string?", "s", true),
		)...)
	d = d.WithInterface(sys+"ISpanParsable<"+t.self+">", net7).
		WithMembers(ir.Guarded(net7,
			t.parse(sys+"ReadOnlySpan<char>", "s"),
			t.tryParse(sys+"ReadOnlySpan<char>", "s", false),
		)...)

	if c.SupportsUtf8() && !opts.SkipUtf8 {
		net8 := directive.Net8OrGreater
		d = d.WithInterface(sys+"IUtf8SpanParsable<"+t.self+">", net8).
			WithMembers(ir.Guarded(net8,
				t.parse(sys+"ReadOnlySpan<byte>", "utf8Text"),
				t.tryParse(sys+"ReadOnlySpan<byte>", "utf8Text", false),
			)...)
	}
	return d
}

func (t target) parse(inputType, input string) ir.Member {
	var body string
	if t.caps.IsString {
		arg := input
		if inputType != "string" {
			arg = input + ".ToString()"
		}
		body = t.wrap(arg)
	} else {
		body = t.wrap(t.caps.TypeText + ".Parse(" + input + ", provider)")
	}
	return ir.Method{
		MemberBase: implementing(publicStatic()),
		Name:       "Parse",
		ReturnType: t.self,
		Params:     []ir.Parameter{param(inputType, input), param(formatProvider, "provider")},
		Body:       ir.Expr(body),
	}
}

// tryParse declares TryParse. nullableInput marks a string? input, which gets
// a NotNullWhen(true) annotation and, for string backings, a null check.
func (t target) tryParse(inputType, input string, nullableInput bool) ir.Member {
	in := param(inputType, input)
	if nullableInput {
		in = notNullWhenTrue(inputType, input)
	}

	var body ir.Body
	switch {
	case t.caps.IsString && nullableInput:
		body = ir.Block(
			"if ("+input+" is null)",
			"{",
			"\tresult = default;",
			"\treturn false;",
			"}",
			"result = "+t.wrap(input)+";",
			"return true;",
		)
	case t.caps.IsString:
		body = ir.Block(
			"result = "+t.wrap(input+".ToString()")+";",
			"return true;",
		)
	default:
		body = ir.Block(
			"if ("+t.caps.TypeText+".TryParse("+input+", provider, out var value))",
			"{",
			"\tresult = "+t.wrap("value")+";",
			"\treturn true;",
			"}",
			"result = default;",
			"return false;",
		)
	}
	return ir.Method{
		MemberBase: implementing(publicStatic()),
		Name:       "TryParse",
		ReturnType: "bool",
		Params:     []ir.Parameter{in, param(formatProvider, "provider"), maybeNullOut(t.self, "result")},
		Body:       body,
	}
}
