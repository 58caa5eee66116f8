// Package emit ties the pieces together: it turns manifest entries into
// synthesis requests, renders the results as C# files with a provenance
// header, and writes them to a sink.
//
//	res, err := emit.FromManifest(m).
//	    WithLogger(logger).
//	    WithScaffolds().
//	    ToDir(ctx, "./Generated")
//
// Each type produces <Name>.g.cs. With scaffolds enabled it also produces
// scaffolds/<Name>.cs.scaffold, a copy of the rendered type in which the
// type name, namespace, accessor and backing name are placeholders.
package emit

import (
	"context"

	"go.uber.org/zap"

	"github.com/broady/declgen"
	"github.com/broady/declgen/csharp"
	"github.com/broady/declgen/manifest"
	"github.com/broady/declgen/middleware"
	"github.com/broady/declgen/provider"
	"github.com/broady/declgen/scaffold"
	"github.com/broady/declgen/sink"
)

// DefaultVersion is written to headers when neither the generator nor the
// manifest names a version.
const DefaultVersion = "0.0.0"

// Generator provides a fluent API for generation.
// Create with FromManifest or FromSource and configure with method chaining.
type Generator struct {
	manifest  *manifest.Manifest
	source    *provider.SourceOptions
	registry  *declgen.Registry
	config    csharp.Config
	logger    *zap.Logger
	version   string
	scaffolds bool
}

// FromManifest creates a Generator for the types of m.
func FromManifest(m *manifest.Manifest) *Generator {
	return &Generator{manifest: m, config: csharp.DefaultConfig()}
}

// FromSource creates a Generator for the //declgen:wrapper types found in Go
// packages. The packages are loaded when generation starts.
func FromSource(opts provider.SourceOptions) *Generator {
	return &Generator{source: &opts, config: csharp.DefaultConfig()}
}

// WithRegistry replaces the default capability registry.
func (g *Generator) WithRegistry(r *declgen.Registry) *Generator {
	g.registry = r
	return g
}

// WithConfig sets the renderer configuration.
func (g *Generator) WithConfig(cfg csharp.Config) *Generator {
	g.config = cfg
	return g
}

// WithLogger logs every capability application to logger.
func (g *Generator) WithLogger(logger *zap.Logger) *Generator {
	g.logger = logger
	return g
}

// WithVersion overrides the version written to headers.
func (g *Generator) WithVersion(v string) *Generator {
	g.version = v
	return g
}

// WithScaffolds enables scaffold output.
func (g *Generator) WithScaffolds() *Generator {
	g.scaffolds = true
	return g
}

// ToDir generates files into dir.
func (g *Generator) ToDir(ctx context.Context, dir string) (*Result, error) {
	return g.ToSink(ctx, sink.NewDir(dir))
}

// Generate returns the generated files without writing them anywhere.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	return g.ToSink(ctx, sink.NewMemory())
}

// CheckDir compares the files in dir with what would be generated.
func (g *Generator) CheckDir(ctx context.Context, dir string) ([]Report, error) {
	return g.Check(ctx, sink.NewDir(dir))
}

// Manifest returns the manifest generation runs on, loading Go packages
// first for a Generator created with FromSource.
func (g *Generator) Manifest(ctx context.Context) (*manifest.Manifest, error) {
	if g.manifest != nil {
		return g.manifest, nil
	}
	if g.source == nil {
		return nil, declgen.NewError(declgen.CodeInvalidArgument, "generator has no manifest or source")
	}
	m, err := provider.Load(ctx, *g.source)
	if err != nil {
		return nil, err
	}
	g.manifest = m
	return m, nil
}

func (g *Generator) headerVersion(m *manifest.Manifest) string {
	switch {
	case g.version != "":
		return g.version
	case m.Version != "":
		return m.Version
	}
	return DefaultVersion
}

func (g *Generator) runtime() *declgen.Registry {
	r := g.registry
	if r == nil {
		r = declgen.DefaultRegistry()
	}
	if g.logger != nil {
		// Registries are shared; logging goes on a copy.
		r = r.Clone().WithInterceptor(middleware.LoggingInterceptor(g.logger))
	}
	return r
}

func (g *Generator) log() *zap.Logger {
	if g.logger == nil {
		return zap.NewNop()
	}
	return g.logger
}

// Result lists the files a generation run wrote, in write order.
type Result struct {
	Files []File
}

// File is one written file.
type File struct {
	Path    string
	Type    string
	Header  scaffold.Header
	Content []byte

	// Scaffold is true for scaffold files.
	Scaffold bool

	// Applied and Skipped are the capabilities that changed the type and the
	// ones that did not. Scaffold files repeat the values of their type.
	Applied []declgen.Capability
	Skipped []declgen.Capability
}

// Find returns the file at path.
func (r *Result) Find(path string) (File, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return File{}, false
}

// Report is the staleness of one generated file.
type Report struct {
	Path string
	Type string
	scaffold.Report
}
