package csharp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/broady/declgen/directive"
	"github.com/broady/declgen/ir"
)

// Emitter handles C# code emission for declaration trees.
type Emitter struct {
	config Config
	indent string
}

// NewEmitter returns an Emitter for cfg. A zero IndentSize means 4.
func NewEmitter(cfg Config) *Emitter {
	indent := "\t"
	if cfg.IndentStyle != "tab" {
		n := cfg.IndentSize
		if n <= 0 {
			n = 4
		}
		indent = strings.Repeat(" ", n)
	}
	return &Emitter{config: cfg, indent: indent}
}

// Config returns the emitter's configuration.
func (e *Emitter) Config() Config { return e.config }

// Render renders a single declaration, without usings or namespace.
func (e *Emitter) Render(d ir.TypeDeclaration) (string, error) {
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("render %s: %w", d.Name, err)
	}
	var buf bytes.Buffer
	e.emitType(&buf, d, 0)
	return e.finish(&buf), nil
}

// RenderFile renders a compilation unit: header, preamble, usings, and the
// declarations grouped by namespace in order of first appearance.
func (e *Emitter) RenderFile(f File) (string, error) {
	for _, d := range f.Types {
		if err := d.Validate(); err != nil {
			return "", fmt.Errorf("render %s: %w", d.Name, err)
		}
	}

	var buf bytes.Buffer
	for _, h := range f.Header {
		buf.WriteString(h)
		buf.WriteByte('\n')
	}
	if e.config.AutoGenerated {
		buf.WriteString("// <auto-generated/>\n")
	}
	if e.config.NullableEnable {
		buf.WriteString("#nullable enable\n")
	}
	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}

	if usings := mergeUsings(e.config.Usings, f.Usings); len(usings) > 0 {
		for _, u := range usings {
			buf.WriteString("using " + u + ";\n")
		}
		buf.WriteByte('\n')
	}

	groups := groupByNamespace(f)
	if len(groups) == 1 && groups[0].namespace != "" && e.config.FileScopedNamespace {
		buf.WriteString("namespace " + groups[0].namespace + ";\n\n")
		e.emitTypes(&buf, groups[0].types, 0)
		return e.finish(&buf), nil
	}

	for i, g := range groups {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if g.namespace == "" {
			e.emitTypes(&buf, g.types, 0)
			continue
		}
		buf.WriteString("namespace " + g.namespace + "\n{\n")
		e.emitTypes(&buf, g.types, 1)
		buf.WriteString("}\n")
	}
	return e.finish(&buf), nil
}

func (e *Emitter) emitTypes(buf *bytes.Buffer, types []ir.TypeDeclaration, depth int) {
	for i, d := range types {
		if i > 0 {
			buf.WriteByte('\n')
		}
		e.emitType(buf, d, depth)
	}
}

// emitType emits a type declaration and everything it contains.
func (e *Emitter) emitType(buf *bytes.Buffer, d ir.TypeDeclaration, depth int) {
	e.emitDoc(buf, depth, d.Doc)
	for _, a := range d.Attributes {
		e.line(buf, depth, "["+a+"]")
	}

	var guarded, plain []ir.InterfaceRef
	for _, i := range d.Interfaces {
		if directive.IsAlways(i.Guard) {
			plain = append(plain, i)
		} else {
			guarded = append(guarded, i)
		}
	}

	// A guarded interface needs an unguarded interface after it to carry the
	// trailing comma, and the base class must come first. Without a plain
	// interface, each guard becomes its own partial part.
	mods := d.Modifiers
	var parts []guardGroup
	if len(guarded) > 0 && len(plain) == 0 {
		mods |= ir.ModPartial
		parts = groupGuards(guarded)
		guarded = nil
	}

	head := typeHeader(d, mods)
	bases := baseList(d.BaseType, plain)
	switch {
	case len(guarded) > 0:
		e.line(buf, depth, head+" :")
		if d.BaseType != "" {
			e.line(buf, depth+1, d.BaseType+",")
		}
		for _, i := range guarded {
			e.directive(buf, directive.Open(i.Guard))
			e.line(buf, depth+1, i.Name+",")
			e.directive(buf, directive.Close())
		}
		for j, i := range plain {
			name := i.Name
			if j < len(plain)-1 {
				name += ","
			}
			e.line(buf, depth+1, name)
		}
	case len(bases) > 0:
		e.line(buf, depth, head+" : "+strings.Join(bases, ", "))
	default:
		e.line(buf, depth, head)
	}

	e.line(buf, depth, "{")
	first := true
	for _, m := range d.Members {
		if !first {
			buf.WriteByte('\n')
		}
		first = false
		e.guarded(buf, m.Base().Guard, func() { e.emitMember(buf, d, m, depth+1) })
	}
	for _, n := range d.Nested {
		if !first {
			buf.WriteByte('\n')
		}
		first = false
		e.guarded(buf, n.Guard, func() { e.emitType(buf, n.Decl, depth+1) })
	}
	e.line(buf, depth, "}")

	for _, p := range parts {
		buf.WriteByte('\n')
		e.directive(buf, directive.Open(p.guard))
		e.line(buf, depth, typeHeader(d, mods)+" : "+strings.Join(p.names, ", "))
		e.line(buf, depth, "{")
		e.line(buf, depth, "}")
		e.directive(buf, directive.Close())
	}
}

// guarded runs emit between #if and #endif when g is a real guard.
func (e *Emitter) guarded(buf *bytes.Buffer, g directive.Expr, emit func()) {
	if directive.IsAlways(g) {
		emit()
		return
	}
	e.directive(buf, directive.Open(g))
	emit()
	e.directive(buf, directive.Close())
}

// emitMember emits one member of d.
func (e *Emitter) emitMember(buf *bytes.Buffer, d ir.TypeDeclaration, m ir.Member, depth int) {
	base := m.Base()
	if _, nested := m.(ir.NestedType); !nested {
		e.emitDoc(buf, depth, base.Doc)
		for _, a := range base.Attributes {
			e.line(buf, depth, "["+a+"]")
		}
	}
	prefix := modifierPrefix(base.Access, base.Modifiers)

	switch x := m.(type) {
	case ir.Field:
		s := prefix
		if x.Const {
			s += "const "
		}
		s += x.Type + " " + EscapeIdentifier(x.Name)
		if x.Initializer != "" {
			s += " = " + x.Initializer
		}
		e.line(buf, depth, s+";")

	case ir.Property:
		e.emitProperty(buf, prefix, x, depth)

	case ir.Method:
		name := EscapeIdentifier(x.Name)
		if x.ExplicitInterface != "" {
			name = x.ExplicitInterface + "." + name
		}
		sig := prefix + x.ReturnType + " " + name + typeParams(x.TypeParameters) + "(" + paramList(x.Params) + ")"
		for _, c := range x.Constraints {
			sig += " where " + c
		}
		e.emitBody(buf, depth, sig, x.Body)

	case ir.Constructor:
		sig := prefix + d.Name + "(" + paramList(x.Params) + ")"
		if x.Initializer != "" {
			sig += " : " + x.Initializer
		}
		e.emitBody(buf, depth, sig, x.Body)

	case ir.Operator:
		op := "operator "
		if x.Checked {
			op += "checked "
		}
		sig := prefix + x.ReturnType + " " + op + string(x.Symbol) + "(" + paramList(x.Params) + ")"
		e.emitBody(buf, depth, sig, x.Body)

	case ir.ConversionOperator:
		kind := "explicit"
		if x.Implicit {
			kind = "implicit"
		}
		sig := prefix + kind + " operator " + x.TargetType + "(" + paramList([]ir.Parameter{x.Param}) + ")"
		e.emitBody(buf, depth, sig, x.Body)

	case ir.Event:
		e.line(buf, depth, prefix+"event "+x.Type+" "+EscapeIdentifier(x.Name)+";")

	case ir.NestedType:
		e.emitType(buf, x.Decl, depth)
	}
}

func (e *Emitter) emitProperty(buf *bytes.Buffer, prefix string, p ir.Property, depth int) {
	name := EscapeIdentifier(p.Name)
	if p.ExplicitInterface != "" {
		name = p.ExplicitInterface + "." + name
	}
	head := prefix + p.Type + " " + name

	setter := ""
	if p.Set || p.Init {
		setter = "set"
		if p.Init {
			setter = "init"
		}
		if kw := p.SetAccess.Keyword(); kw != "" {
			setter = kw + " " + setter
		}
	}

	switch p.Getter.Kind() {
	case ir.BodyExpr:
		if setter == "" {
			e.line(buf, depth, head+" => "+p.Getter.Expression()+";")
			return
		}
	case ir.BodyBlock:
		e.line(buf, depth, head)
		e.line(buf, depth, "{")
		e.emitBody(buf, depth+1, "get", p.Getter)
		if setter != "" {
			e.line(buf, depth+1, setter+";")
		}
		e.line(buf, depth, "}")
		return
	}

	var accessors []string
	switch {
	case p.Getter.Kind() == ir.BodyExpr:
		accessors = append(accessors, "get => "+p.Getter.Expression()+";")
	case p.Get:
		accessors = append(accessors, "get;")
	}
	if setter != "" {
		accessors = append(accessors, setter+";")
	}
	s := head + " { " + strings.Join(accessors, " ") + " }"
	if p.Initializer != "" {
		s += " = " + p.Initializer + ";"
	}
	e.line(buf, depth, s)
}

// emitBody emits sig followed by the body in its declared shape.
func (e *Emitter) emitBody(buf *bytes.Buffer, depth int, sig string, body ir.Body) {
	switch body.Kind() {
	case ir.BodyExpr:
		e.line(buf, depth, sig+" => "+body.Expression()+";")
	case ir.BodyBlock:
		e.line(buf, depth, sig)
		e.line(buf, depth, "{")
		for _, l := range body.Lines() {
			text := strings.TrimLeft(l, "\t")
			if strings.TrimSpace(text) == "" {
				buf.WriteByte('\n')
				continue
			}
			e.line(buf, depth+1+len(l)-len(text), text)
		}
		e.line(buf, depth, "}")
	default:
		e.line(buf, depth, sig+";")
	}
}

// emitDoc emits XML documentation comments.
func (e *Emitter) emitDoc(buf *bytes.Buffer, depth int, doc ir.Documentation) {
	if !e.config.EmitComments || doc.IsZero() {
		return
	}
	if doc.Inherit {
		e.line(buf, depth, "/// <inheritdoc/>")
		return
	}
	e.docElement(buf, depth, "summary", doc.Summary)
	e.docElement(buf, depth, "remarks", doc.Remarks)
}

func (e *Emitter) docElement(buf *bytes.Buffer, depth int, tag, text string) {
	if text == "" {
		return
	}
	e.line(buf, depth, "/// <"+tag+">")
	for _, l := range strings.Split(text, "\n") {
		e.line(buf, depth, strings.TrimRight("/// "+strings.TrimSpace(l), " "))
	}
	e.line(buf, depth, "/// </"+tag+">")
}

func (e *Emitter) line(buf *bytes.Buffer, depth int, s string) {
	for range depth {
		buf.WriteString(e.indent)
	}
	buf.WriteString(s)
	buf.WriteByte('\n')
}

// directive writes a preprocessor line at column 0.
func (e *Emitter) directive(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	buf.WriteByte('\n')
}

// finish applies the line ending and trailing newline settings.
func (e *Emitter) finish(buf *bytes.Buffer) string {
	out := strings.TrimRight(buf.String(), "\n")
	if e.config.TrailingNewline {
		out += "\n"
	}
	if e.config.LineEnding == "crlf" {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out
}

func typeHeader(d ir.TypeDeclaration, mods ir.Modifier) string {
	return modifierPrefix(d.Access, mods) + d.Kind.Keyword() + " " + d.Name + typeParams(d.TypeParameters)
}

func modifierPrefix(access ir.Accessibility, mods ir.Modifier) string {
	var parts []string
	if kw := access.Keyword(); kw != "" {
		parts = append(parts, kw)
	}
	parts = append(parts, mods.Keywords()...)
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

func typeParams(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

func paramList(ps []ir.Parameter) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		var s strings.Builder
		for _, a := range p.Attributes {
			s.WriteString("[" + a + "] ")
		}
		if p.Modifier != "" {
			s.WriteString(p.Modifier + " ")
		}
		s.WriteString(p.Type + " " + EscapeIdentifier(p.Name))
		if p.Default != "" {
			s.WriteString(" = " + p.Default)
		}
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

func baseList(baseType string, ifaces []ir.InterfaceRef) []string {
	var out []string
	if baseType != "" {
		out = append(out, baseType)
	}
	for _, i := range ifaces {
		out = append(out, i.Name)
	}
	return out
}

type guardGroup struct {
	guard directive.Expr
	names []string
}

// groupGuards groups interfaces by rendered guard, in order of first appearance.
func groupGuards(ifaces []ir.InterfaceRef) []guardGroup {
	var groups []guardGroup
	index := map[string]int{}
	for _, i := range ifaces {
		key := directive.Render(i.Guard)
		n, ok := index[key]
		if !ok {
			n = len(groups)
			index[key] = n
			groups = append(groups, guardGroup{guard: i.Guard})
		}
		groups[n].names = append(groups[n].names, i.Name)
	}
	return groups
}

type namespaceGroup struct {
	namespace string
	types     []ir.TypeDeclaration
}

func groupByNamespace(f File) []namespaceGroup {
	var groups []namespaceGroup
	index := map[string]int{}
	for _, d := range f.Types {
		ns := d.Namespace
		if f.Namespace != "" {
			ns = f.Namespace
		}
		n, ok := index[ns]
		if !ok {
			n = len(groups)
			index[ns] = n
			groups = append(groups, namespaceGroup{namespace: ns})
		}
		groups[n].types = append(groups[n].types, d)
	}
	if len(groups) == 0 {
		groups = append(groups, namespaceGroup{namespace: f.Namespace})
	}
	return groups
}

func mergeUsings(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, l := range lists {
		for _, u := range l {
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
