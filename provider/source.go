// Package provider builds manifests from Go code. Named types annotated with
// a //declgen:wrapper directive become manifest entries whose backing type is
// derived from the Go underlying type.
//
//	//declgen:wrapper kind=struct equality comparison
//	type UserID [16]byte
package provider

import (
	"context"
	"go/types"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/iancoleman/strcase"
	"golang.org/x/tools/go/packages"

	"github.com/broady/declgen"
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/internal/directive"
	"github.com/broady/declgen/manifest"
)

// SourceOptions configures source-based manifest extraction.
type SourceOptions struct {
	// Dir is the directory packages are resolved from. Empty means the
	// current directory.
	Dir string

	// Packages are the Go package patterns to analyze.
	Packages []string

	// Package and Version are copied into the manifest. Package defaults to
	// the name of the first loaded package.
	Package string
	Version string

	// Namespace is the default namespace of every type. It defaults to the
	// Go package name in PascalCase.
	Namespace string
}

// Load analyzes the packages named by opts and returns a validated
// manifest with one type per //declgen:wrapper directive, ordered by
// package path and then source position.
func Load(ctx context.Context, opts SourceOptions) (*manifest.Manifest, error) {
	if len(opts.Packages) == 0 {
		return nil, declgen.NewError(declgen.CodeInvalidArgument, "no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, opts.Packages...)
	if err != nil {
		return nil, errors.Wrap(err, "load packages")
	}
	if len(pkgs) == 0 {
		return nil, declgen.Errorf(declgen.CodeNotFound, "no packages found matching %s", strings.Join(opts.Packages, " "))
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, errors.Newf("package %s has errors: %v", pkg.PkgPath, pkg.Errors[0])
		}
	}
	// packages.Load returns packages in dependency order.
	slices.SortFunc(pkgs, func(a, b *packages.Package) int { return strings.Compare(a.PkgPath, b.PkgPath) })

	m := &manifest.Manifest{
		Package:   opts.Package,
		Version:   opts.Version,
		Namespace: opts.Namespace,
	}
	if m.Package == "" {
		m.Package = pkgs[0].Name
	}
	if m.Namespace == "" {
		m.Namespace = strcase.ToCamel(pkgs[0].Name)
	}

	for _, pkg := range pkgs {
		ds, err := directive.ParseFiles(pkg.Fset, pkg.Syntax)
		if err != nil {
			return nil, err
		}
		for _, d := range ds {
			t, err := typeFor(pkg, d)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", d.Pos)
			}
			m.Types = append(m.Types, t)
		}
	}
	if len(m.Types) == 0 {
		return nil, errors.WithHint(
			declgen.Errorf(declgen.CodeNotFound, "no %swrapper directives in %s", directive.Prefix, strings.Join(opts.Packages, " ")),
			"annotate a named type with "+directive.Prefix+"wrapper")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// typeFor converts one directive to a manifest type.
func typeFor(pkg *packages.Package, d directive.Directive) (manifest.Type, error) {
	obj, ok := pkg.Types.Scope().Lookup(d.TypeName).(*types.TypeName)
	if !ok {
		return manifest.Type{}, declgen.Errorf(declgen.CodeNotFound, "type %s not found in %s", d.TypeName, pkg.PkgPath)
	}

	t := manifest.Type{
		Name:      d.Setting("name", strcase.ToCamel(d.TypeName)),
		Kind:      d.Setting("kind", ""),
		Access:    d.Setting("access", ""),
		Namespace: d.Setting("namespace", ""),
		Accessor:  d.Setting("accessor", ""),
		Doc:       d.Doc,
	}
	if mods := d.Setting("modifiers", ""); mods != "" {
		t.Modifiers = strings.Split(mods, ",")
	}

	if name := d.Setting("backing", ""); name != "" {
		t.Backing = namedBacking(name)
	} else {
		b, ok := goBacking(obj.Type().Underlying())
		if !ok {
			return manifest.Type{}, errors.WithHint(
				declgen.Errorf(declgen.CodeInvalidArgument, "type %s: no backing type for Go type %s", d.TypeName, obj.Type().Underlying()),
				"set backing=<qualified name> on the directive")
		}
		t.Backing = b
	}

	for _, s := range d.Capabilities {
		r, err := declgen.ParseCapabilityRequest(s)
		if err != nil {
			return manifest.Type{}, errors.Wrapf(err, "type %s", d.TypeName)
		}
		t.Capabilities = append(t.Capabilities, manifest.Capability{Name: r.Capability, Options: r.Options})
	}
	return t, nil
}

// namedBacking describes an explicitly named backing type. Known names map
// to their special kind; anything else is a reference type, nullable when
// the name ends in '?'.
func namedBacking(name string) manifest.Backing {
	nullable := strings.HasSuffix(name, "?")
	name = strings.TrimSuffix(name, "?")
	if sp := backing.WellKnown(name); sp != backing.SpecialNone {
		return manifest.Backing{Special: sp.String(), Nullable: nullable && sp == backing.SpecialString}
	}
	simple := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		simple = name[i+1:]
	}
	return manifest.Backing{QualifiedName: name, Name: simple, Nullable: nullable}
}

var basicSpecials = map[types.BasicKind]backing.Special{
	types.Bool:    backing.SpecialBoolean,
	types.String:  backing.SpecialString,
	types.Int16:   backing.SpecialInt16,
	types.Int32:   backing.SpecialInt32,
	types.Int64:   backing.SpecialInt64,
	types.Int:     backing.SpecialInt64,
	types.Uint8:   backing.SpecialByte,
	types.Float32: backing.SpecialSingle,
	types.Float64: backing.SpecialDouble,
}

// goBacking maps a Go underlying type to a backing type. A pointer to string
// is a nullable string and [16]byte is a Guid.
func goBacking(t types.Type) (manifest.Backing, bool) {
	nullable := false
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem().Underlying()
		nullable = true
	}
	switch u := t.(type) {
	case *types.Basic:
		sp, ok := basicSpecials[u.Kind()]
		if !ok || (nullable && sp != backing.SpecialString) {
			return manifest.Backing{}, false
		}
		return manifest.Backing{Special: sp.String(), Nullable: nullable}, true
	case *types.Array:
		if elem, ok := u.Elem().Underlying().(*types.Basic); ok && !nullable && u.Len() == 16 && elem.Kind() == types.Uint8 {
			return manifest.Backing{Special: backing.SpecialGuid.String()}, true
		}
	}
	return manifest.Backing{}, false
}
