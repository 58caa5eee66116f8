package synth

import (
	"strconv"
	"strings"

	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/directive"
	"github.com/broady/declgen/ir"
)

// EnumerationOptions configures Enumeration.
type EnumerationOptions struct {
	// Members lists the named instances as "Name=literal". A bare "Name" uses
	// the name itself as the literal, which suits string backings.
	Members []string `schema:"members"`

	Comparison backing.StringComparison `schema:"comparison"`
}

// Enumeration declares one static instance per member, an All list in
// declaration order and TryFromValue. Without members it does nothing.
func Enumeration(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts EnumerationOptions) ir.TypeDeclaration {
	if len(opts.Members) == 0 {
		return d
	}
	t := newTarget(d, c, acc)

	var names []string
	var ms []ir.Member
	for _, entry := range opts.Members {
		name, lit, found := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if !found {
			lit = name
		}
		base := publicStatic()
		base.Modifiers |= ir.ModReadonly
		ms = append(ms, ir.Field{
			MemberBase:  base,
			Name:        name,
			Type:        t.self,
			Initializer: t.wrap(literal(c, strings.TrimSpace(lit))),
		})
		names = append(names, name)
	}

	list := generic + "IReadOnlyList<" + t.self + ">"
	ms = append(ms, ir.Property{
		MemberBase:  publicStatic(),
		Name:        "All",
		Type:        list,
		Get:         true,
		Initializer: "new " + t.self + "[] { " + strings.Join(names, ", ") + " }",
	})

	match := generic + "EqualityComparer<" + c.DeclaredType() + ">.Default.Equals(" + t.on("item") + ", value)"
	if c.IsString && opts.Comparison.UsesComparer() {
		match = opts.Comparison.Comparer() + ".Equals(" + t.on("item") + ", value)"
	}
	ms = append(ms, ir.Method{
		MemberBase: publicStatic(),
		Name:       "TryFromValue",
		ReturnType: "bool",
		Params:     []ir.Parameter{param(c.DeclaredType(), "value"), maybeNullOut(t.self, "result")},
		Body: ir.Block(
			"foreach (var item in All)",
			"{",
			"\tif ("+match+")",
			"\t{",
			"\t\tresult = item;",
			"\t\treturn true;",
			"\t}",
			"}",
			"result = default;",
			"return false;",
		),
	})
	return d.WithMembers(ms...)
}

// literal spells a manifest value as a C# literal of the backing type.
func literal(c backing.Capabilities, raw string) string {
	switch {
	case c.IsString:
		if strings.HasPrefix(raw, `"`) {
			return raw
		}
		return strconv.Quote(raw)
	case c.IsGuidLike:
		return "new " + sys + `Guid("` + strings.Trim(raw, `"`) + `")`
	case c.NumericKind == backing.NumericDecimal && !strings.HasSuffix(strings.ToLower(raw), "m"):
		return raw + "m"
	case c.NumericKind == backing.NumericSingle && !strings.HasSuffix(strings.ToLower(raw), "f"):
		return raw + "f"
	case c.NumericKind == backing.NumericInt64 && !strings.HasSuffix(strings.ToLower(raw), "l"):
		return raw + "L"
	default:
		return raw
	}
}

// DisposalOptions configures Disposal.
type DisposalOptions struct {
	// Async also implements IAsyncDisposable.
	Async bool `schema:"async"`
}

// asyncDisposableGuard is where IAsyncDisposable exists.
var asyncDisposableGuard = directive.Or(directive.NetStandard21OrGreater, directive.NetCoreApp30OrGreater)

// Disposal implements IDisposable, and optionally IAsyncDisposable, by
// forwarding to the backing value when it is disposable. Primitives, strings
// and Guid are never disposable and are left alone.
func Disposal(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts DisposalOptions) ir.TypeDeclaration {
	if !c.IsDisposableCandidate() {
		return d
	}
	t := newTarget(d, c, acc)
	d = d.WithInterface(sys+"IDisposable", nil).
		WithMember(ir.Method{
			MemberBase: implementing(public()),
			Name:       "Dispose",
			ReturnType: "void",
			Body:       ir.Expr("(" + t.v + " as " + sys + "IDisposable)?.Dispose()"),
		})
	if !opts.Async {
		return d
	}
	base := implementing(public())
	base.Guard = asyncDisposableGuard
	return d.WithInterface(sys+"IAsyncDisposable", asyncDisposableGuard).
		WithMember(ir.Method{
			MemberBase: base,
			Name:       "DisposeAsync",
			ReturnType: sys + "Threading.Tasks.ValueTask",
			Body: ir.Block(
				"if ("+t.v+" is "+sys+"IAsyncDisposable asyncDisposable)",
				"\treturn asyncDisposable.DisposeAsync();",
				"Dispose();",
				"return default;",
			),
		})
}

// SingletonOptions configures Singleton.
type SingletonOptions struct {
	// Factory is the expression creating the instance. It defaults to
	// wrapping the backing type's default value.
	Factory string `schema:"factory"`
}

// SingletonInstance is the expression the Singleton getter reads. It names
// Lazy<T>.Value, not the backing accessor.
const SingletonInstance = "_instance.Value"

// Singleton declares a lazily created static Instance. Interfaces cannot hold
// one and are left alone.
func Singleton(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts SingletonOptions) ir.TypeDeclaration {
	if d.Kind == ir.KindInterface {
		return d
	}
	t := newTarget(d, c, acc)
	factory := opts.Factory
	if factory == "" {
		factory = t.wrap("default!")
	}
	lazy := sys + "Lazy<" + t.self + ">"
	return d.WithMembers(
		ir.Field{
			MemberBase:  ir.MemberBase{Access: ir.Private, Modifiers: ir.ModStatic | ir.ModReadonly},
			Name:        "_instance",
			Type:        lazy,
			Initializer: "new " + lazy + "(() => " + factory + ")",
		},
		ir.Property{
			MemberBase: publicStatic(),
			Name:       "Instance",
			Type:       t.self,
			Getter:     ir.Expr(SingletonInstance),
		},
	)
}

// BuilderOptions configures Builder.
type BuilderOptions struct {
	// Name of the nested builder class; "Builder" when empty.
	Name string `schema:"name"`
}

// Builder nests a mutable builder class that collects the backing value and
// builds the wrapper, and adds a static CreateBuilder method.
func Builder(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts BuilderOptions) ir.TypeDeclaration {
	if d.Kind == ir.KindInterface {
		return d
	}
	t := newTarget(d, c, acc)
	name := opts.Name
	if name == "" {
		name = "Builder"
	}
	bt := c.DeclaredType()
	leaf := acc.Leaf()
	if leaf == "" {
		leaf = t.v
	}

	b := ir.Declare(ir.KindClass, name).
		WithAccess(ir.Public).
		WithModifiers(ir.ModSealed).
		WithMembers(
			ir.Field{MemberBase: ir.MemberBase{Access: ir.Private}, Name: "_value", Type: bt, Initializer: "default!"},
			ir.Method{
				MemberBase: public(),
				Name:       "With" + leaf,
				ReturnType: name,
				Params:     []ir.Parameter{param(bt, "value")},
				Body: ir.Block(
					"_value = value;",
					"return this;",
				),
			},
			ir.Method{MemberBase: public(), Name: "Build", ReturnType: t.self, Body: ir.Expr(t.wrap("_value"))},
		)

	return d.WithMember(ir.Method{
		MemberBase: publicStatic(),
		Name:       "CreateBuilder",
		ReturnType: name,
		Body:       ir.Expr("new " + name + "()"),
	}).WithNested(b, nil)
}

// FactoryOptions configures Factory.
type FactoryOptions struct {
	// Validate is a boolean expression over "value" that accepted backing
	// values satisfy.
	Validate string `schema:"validate"`
}

// Factory declares From, which throws on invalid input, and TryFrom, which
// reports it. Null is always invalid when the backing type can be null.
func Factory(d ir.TypeDeclaration, c backing.Capabilities, acc ir.Accessor, opts FactoryOptions) ir.TypeDeclaration {
	t := newTarget(d, c, acc)
	bt := c.DeclaredType()

	var checks []string
	if t.strategy != backing.StrategyValue {
		checks = append(checks, "value is null")
	}
	if opts.Validate != "" {
		checks = append(checks, "!("+opts.Validate+")")
	}

	from := ir.Expr(t.wrap("value"))
	tryFrom := ir.Block(
		"result = "+t.wrap("value")+";",
		"return true;",
	)
	if len(checks) > 0 {
		cond := strings.Join(checks, " || ")
		from = ir.Block(
			"if ("+cond+")",
			`	throw new `+sys+`ArgumentException("Invalid `+d.Name+` value.", nameof(value));`,
			"return "+t.wrap("value")+";",
		)
		tryFrom = ir.Block(
			"if ("+cond+")",
			"{",
			"\tresult = default;",
			"\treturn false;",
			"}",
			"result = "+t.wrap("value")+";",
			"return true;",
		)
	}

	return d.WithMembers(
		ir.Method{
			MemberBase: publicStatic(),
			Name:       "From",
			ReturnType: t.self,
			Params:     []ir.Parameter{param(bt, "value")},
			Body:       from,
		},
		ir.Method{
			MemberBase: publicStatic(),
			Name:       "TryFrom",
			ReturnType: "bool",
			Params:     []ir.Parameter{param(bt, "value"), maybeNullOut(t.self, "result")},
			Body:       tryFrom,
		},
	)
}
