// Package directive parses declgen directives from Go source files.
//
// Directives are line comments placed in the doc comment of a type
// declaration:
//
//	//declgen:wrapper [key=value ...] [capability ...]
//	//declgen:capability capability
//
// The wrapper directive marks a named type as the source of a generated
// wrapper. Arguments of the form key=value configure the generated type
// (see Keys); every other argument is a capability in shorthand form, such
// as equality or comparison?comparison=OrdinalIgnoreCase.
//
// The capability directive adds one more capability to the wrapper and may
// be repeated. It is only valid next to a wrapper directive.
package directive

import (
	"go/ast"
	"go/token"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Prefix starts every directive comment.
const Prefix = "//declgen:"

// Kind represents the type of directive.
type Kind string

const (
	KindWrapper    Kind = "wrapper"
	KindCapability Kind = "capability"
)

// Keys lists the settings a wrapper directive accepts.
var Keys = []string{"name", "kind", "access", "accessor", "namespace", "modifiers", "backing"}

// Directive is a wrapper directive together with the capability directives
// attached to the same type.
type Directive struct {
	TypeName string            // name of the Go type
	Settings map[string]string // key=value arguments
	// Capabilities are the capability arguments in source order.
	Capabilities []string
	// Doc is the first paragraph of the type's doc comment, directives removed.
	Doc string
	Pos token.Position
}

// Setting returns the value of key, or def when it is unset.
func (d Directive) Setting(key, def string) string {
	if v, ok := d.Settings[key]; ok {
		return v
	}
	return def
}

type pending struct {
	kind Kind
	args []string
	pos  token.Position
}

// ParseFiles extracts directives from files, in file then source order.
//
// It fails when a directive is unknown, when a directive is not attached to
// a type declaration, or when a wrapper directive has malformed arguments.
func ParseFiles(fset *token.FileSet, files []*ast.File) ([]Directive, error) {
	var out []Directive
	for _, f := range files {
		ds, err := parseFile(fset, f)
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}
	return out, nil
}

// parseFile extracts directives from a single file.
func parseFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	// Directive lines keyed by the end of their comment group, so they can be
	// matched to the declaration the group documents.
	groups := make(map[token.Pos][]pending)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if !strings.HasPrefix(c.Text, Prefix) {
				continue
			}
			parts := strings.Fields(strings.TrimPrefix(c.Text, Prefix))
			if len(parts) == 0 {
				continue
			}
			pos := fset.Position(c.Pos())
			switch k := Kind(parts[0]); k {
			case KindWrapper:
				groups[cg.End()] = append(groups[cg.End()], pending{kind: k, args: parts[1:], pos: pos})
			case KindCapability:
				if len(parts) != 2 {
					return nil, errors.Newf("%s: %s%s takes exactly one capability", pos, Prefix, k)
				}
				groups[cg.End()] = append(groups[cg.End()], pending{kind: k, args: parts[1:], pos: pos})
			default:
				return nil, errors.Newf("%s: unknown directive %s%s", pos, Prefix, parts[0])
			}
		}
	}

	var directives []Directive
	match := func(doc *ast.CommentGroup, name string) error {
		if doc == nil {
			return nil
		}
		lines, ok := groups[doc.End()]
		if !ok {
			return nil
		}
		delete(groups, doc.End())
		d, err := build(name, doc, lines)
		if err != nil {
			return err
		}
		directives = append(directives, d)
		return nil
	}

	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && !gd.Lparen.IsValid() {
				doc = gd.Doc
			}
			if err := match(doc, ts.Name.Name); err != nil {
				return nil, err
			}
		}
	}

	if len(groups) > 0 {
		var left []pending
		for _, lines := range groups {
			left = append(left, lines[0])
		}
		slices.SortFunc(left, func(a, b pending) int { return a.pos.Offset - b.pos.Offset })
		p := left[0]
		return nil, errors.Newf("%s: %s%s directive must be followed by a type declaration", p.pos, Prefix, p.kind)
	}

	return directives, nil
}

func build(name string, doc *ast.CommentGroup, lines []pending) (Directive, error) {
	d := Directive{TypeName: name, Doc: firstParagraph(doc.Text())}
	var wrapper *pending
	for i := range lines {
		p := &lines[i]
		if p.kind != KindWrapper {
			continue
		}
		if wrapper != nil {
			return Directive{}, errors.Newf("%s: duplicate %s%s directive on %s (first at %s)", p.pos, Prefix, KindWrapper, name, wrapper.pos)
		}
		wrapper = p
	}
	if wrapper == nil {
		p := lines[0]
		return Directive{}, errors.Newf("%s: %s%s on %s requires a %s%s directive", p.pos, Prefix, p.kind, name, Prefix, KindWrapper)
	}
	d.Pos = wrapper.pos

	for _, arg := range wrapper.args {
		key, value, ok := splitSetting(arg)
		if !ok {
			d.Capabilities = append(d.Capabilities, arg)
			continue
		}
		if !slices.Contains(Keys, key) {
			return Directive{}, errors.WithHintf(
				errors.Newf("%s: unknown setting %q on %s", wrapper.pos, key, name),
				"valid settings are %s", strings.Join(Keys, ", "))
		}
		if value == "" {
			return Directive{}, errors.Newf("%s: empty value for setting %q on %s", wrapper.pos, key, name)
		}
		if d.Settings == nil {
			d.Settings = make(map[string]string)
		}
		d.Settings[key] = value
	}
	for _, p := range lines {
		if p.kind == KindCapability {
			d.Capabilities = append(d.Capabilities, p.args...)
		}
	}
	return d, nil
}

// splitSetting reports whether arg is key=value. Capability shorthands carry
// their options after a '?', so an '=' only marks a setting when it comes
// first.
func splitSetting(arg string) (key, value string, ok bool) {
	eq := strings.IndexByte(arg, '=')
	if eq < 0 {
		return "", "", false
	}
	if q := strings.IndexByte(arg, '?'); q >= 0 && q < eq {
		return "", "", false
	}
	return arg[:eq], arg[eq+1:], true
}

func firstParagraph(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	return strings.Join(strings.Fields(text), " ")
}
