package emit

import (
	"context"
	"io/fs"
	"strconv"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/broady/declgen"
	"github.com/broady/declgen/backing"
	"github.com/broady/declgen/csharp"
	"github.com/broady/declgen/ir"
	"github.com/broady/declgen/manifest"
	"github.com/broady/declgen/scaffold"
	"github.com/broady/declgen/sink"
	"github.com/broady/declgen/synth"
)

// FilePath returns the path of the generated file for the type named name.
func FilePath(name string) string { return name + ".g.cs" }

// ScaffoldPath returns the path of the scaffold for the type named name.
func ScaffoldPath(name string) string { return "scaffolds/" + name + ".cs.scaffold" }

// unit is everything known about one type before synthesis.
type unit struct {
	typ    manifest.Type
	req    declgen.Request
	hasher *scaffold.Hasher
	header scaffold.Header
}

func (g *Generator) plan(m *manifest.Manifest) ([]unit, error) {
	units := make([]unit, 0, len(m.Types))
	paths := make(map[string]string, len(m.Types))
	for _, t := range m.Types {
		if prev, ok := paths[t.Name]; ok {
			return nil, declgen.Errorf(declgen.CodeInvalidManifest, "types %s and %s both write %s", prev, qualified(t, m), FilePath(t.Name)).
				WithDetail("type", t.Name)
		}
		paths[t.Name] = qualified(t, m)

		req, err := t.Request(m.Namespace)
		if err != nil {
			return nil, declgen.AsError(err).WithDetail("type", t.Name)
		}
		h := hashBindings(m, req, g.config)
		units = append(units, unit{
			typ:    t,
			req:    req,
			hasher: h,
			header: scaffold.Header{
				Package:  m.Package,
				Version:  g.headerVersion(m),
				Hash:     h.Sum(),
				Scaffold: t.Name,
			},
		})
	}
	return units, nil
}

func qualified(t manifest.Type, m *manifest.Manifest) string {
	ns := t.Namespace
	if ns == "" {
		ns = m.Namespace
	}
	if ns == "" {
		return t.Name
	}
	return ns + "." + t.Name
}

// hashBindings lists, in a fixed order, every input that shapes the
// generated text of one type. Empty values are left out, and renderer
// settings only count where they differ from csharp.DefaultConfig.
func hashBindings(m *manifest.Manifest, req declgen.Request, cfg csharp.Config) *scaffold.Hasher {
	h := scaffold.NewHasher()
	add := func(key, value string) {
		if value != "" {
			h.Add(key, value)
		}
	}
	add("package", m.Package)
	for _, u := range m.Usings {
		add("using", u)
	}
	add("namespace", req.Decl.Namespace)
	add("type", req.Decl.Name)
	add("kind", req.Decl.Kind.Keyword())
	add("access", req.Decl.Access.Keyword())
	add("modifiers", req.Decl.Modifiers.String())
	add("doc", req.Decl.Doc.Summary)
	add("accessor", req.Accessor.String())
	add("backing", backing.Classify(req.Backing).DeclaredType())
	for _, c := range req.Capabilities {
		add("capability", c.String())
	}
	configBindings(cfg, add)
	return h
}

func configBindings(cfg csharp.Config, add func(key, value string)) {
	def := csharp.DefaultConfig()
	if cfg.IndentStyle != def.IndentStyle || cfg.IndentSize != def.IndentSize {
		add("indent", cfg.IndentStyle+":"+strconv.Itoa(cfg.IndentSize))
	}
	if cfg.LineEnding != def.LineEnding {
		add("line_ending", cfg.LineEnding)
	}
	if cfg.TrailingNewline != def.TrailingNewline {
		add("trailing_newline", strconv.FormatBool(cfg.TrailingNewline))
	}
	if cfg.EmitComments != def.EmitComments {
		add("comments", strconv.FormatBool(cfg.EmitComments))
	}
	if cfg.FileScopedNamespace != def.FileScopedNamespace {
		style := "block"
		if cfg.FileScopedNamespace {
			style = "file"
		}
		add("namespace_style", style)
	}
	if cfg.NullableEnable != def.NullableEnable {
		add("nullable", strconv.FormatBool(cfg.NullableEnable))
	}
	if cfg.AutoGenerated != def.AutoGenerated {
		add("auto_generated", strconv.FormatBool(cfg.AutoGenerated))
	}
	for _, u := range cfg.Usings {
		add("config_using", u)
	}
}

// Planned is what the generator knows about one type before synthesis.
type Planned struct {
	Type     string
	Path     string
	Header   scaffold.Header
	Bindings []scaffold.Binding
}

// Plan returns the header each type of the manifest would be written with,
// along with the inputs its fingerprint is computed from.
func (g *Generator) Plan(ctx context.Context) ([]Planned, error) {
	m, err := g.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	units, err := g.plan(m)
	if err != nil {
		return nil, err
	}
	out := make([]Planned, 0, len(units))
	for _, u := range units {
		out = append(out, Planned{
			Type:     u.typ.Name,
			Path:     FilePath(u.typ.Name),
			Header:   u.header,
			Bindings: u.hasher.Bindings(),
		})
	}
	return out, nil
}

// scaffoldBindings are the values replaced by placeholders in scaffolds.
func scaffoldBindings(req declgen.Request, caps backing.Capabilities) []scaffold.Binding {
	return []scaffold.Binding{
		{Key: "Type", Value: req.Decl.Name},
		{Key: "Namespace", Value: req.Decl.Namespace},
		{Key: "Accessor", Value: req.Accessor.String()},
		{Key: "Backing", Value: caps.Name},
	}
}

// ToSink generates every type of the manifest into s. Types are processed
// in manifest order and the first failure stops the run.
func (g *Generator) ToSink(ctx context.Context, s sink.Sink) (*Result, error) {
	m, err := g.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	units, err := g.plan(m)
	if err != nil {
		return nil, err
	}

	reg := g.runtime()
	em := csharp.NewEmitter(g.config)
	log := g.log()
	res := &Result{}

	for _, u := range units {
		out, err := reg.Apply(ctx, u.req)
		if err != nil {
			return nil, declgen.AsError(err).WithDetail("type", u.typ.Name)
		}

		file := csharp.File{Usings: m.Usings, Types: []ir.TypeDeclaration{out.Decl}}
		body, err := em.RenderFile(file)
		if err != nil {
			return nil, declgen.Errorf(declgen.CodeRenderFailed, "render %s: %v", u.typ.Name, err).WithDetail("type", u.typ.Name)
		}

		files := []File{{
			Path:    FilePath(u.typ.Name),
			Type:    u.typ.Name,
			Header:  u.header,
			Content: []byte(scaffold.Prepend(u.header, body)),
			Applied: out.Applied,
			Skipped: out.Skipped,
		}}
		if g.scaffolds {
			text := scaffold.SubstituteIdentifiers(body, scaffoldBindings(u.req, out.Backing), synth.SingletonInstance)
			files = append(files, File{
				Path:     ScaffoldPath(u.typ.Name),
				Type:     u.typ.Name,
				Header:   u.header,
				Content:  []byte(scaffold.Prepend(u.header, text)),
				Scaffold: true,
				Applied:  out.Applied,
				Skipped:  out.Skipped,
			})
		}

		for _, f := range files {
			if err := s.WriteFile(ctx, f.Path, f.Content); err != nil {
				return nil, errors.Wrapf(err, "write %s", f.Path)
			}
			log.Debug("wrote file",
				zap.String("path", f.Path),
				zap.String("type", f.Type),
				zap.String("hash", f.Header.Hash),
			)
			res.Files = append(res.Files, f)
		}
		if len(out.Skipped) > 0 {
			log.Info("capabilities skipped",
				zap.String("type", u.typ.Name),
				zap.Stringers("skipped", out.Skipped),
			)
		}
	}

	log.Info("generation complete", zap.String("package", m.Package), zap.Int("files", len(res.Files)))
	return res, nil
}

// Check reports, for every generated file the manifest describes, whether
// the copy readable from r is fresh. It writes nothing.
func (g *Generator) Check(ctx context.Context, r sink.Reader) ([]Report, error) {
	m, err := g.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	units, err := g.plan(m)
	if err != nil {
		return nil, err
	}

	var reports []Report
	check := func(path string, u unit) error {
		data, err := r.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "read %s", path)
		}
		rep := Report{Path: path, Type: u.typ.Name, Report: scaffold.CheckStaleness(string(data), u.header)}
		g.log().Debug("checked file",
			zap.String("path", path),
			zap.Stringer("status", rep.Status),
			zap.String("reason", rep.Reason),
		)
		reports = append(reports, rep)
		return nil
	}
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, declgen.AsError(err)
		}
		if err := check(FilePath(u.typ.Name), u); err != nil {
			return nil, err
		}
		if g.scaffolds {
			if err := check(ScaffoldPath(u.typ.Name), u); err != nil {
				return nil, err
			}
		}
	}
	return reports, nil
}

// Stale returns the reports whose status is not fresh.
func Stale(reports []Report) []Report {
	var out []Report
	for _, r := range reports {
		if !r.Status.OK() {
			out = append(out, r)
		}
	}
	return out
}
