// Package config resolves the settings shared by every declgen command.
//
// Settings come from three layers, lowest first: built-in defaults, an
// optional declgen.yaml (or .toml/.json) file together with DECLGEN_*
// environment variables, and command-line flags.
package config

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/broady/declgen"
	"github.com/broady/declgen/csharp"
	"github.com/broady/declgen/emit"
	"github.com/broady/declgen/manifest"
	"github.com/broady/declgen/provider"
)

// EnvPrefix prefixes the environment variables read for settings.
const EnvPrefix = "DECLGEN"

// Settings is the resolved configuration of one run.
type Settings struct {
	Manifest string   `mapstructure:"manifest"`
	Source   []string `mapstructure:"source"`
	Out      string   `mapstructure:"out"`

	IndentStyle         string `mapstructure:"indent_style" validate:"oneof=space tab"`
	IndentSize          int    `mapstructure:"indent_size" validate:"min=1,max=16"`
	LineEnding          string `mapstructure:"line_ending" validate:"oneof=lf crlf"`
	FileScopedNamespace bool   `mapstructure:"file_scoped_namespace"`
	NullableEnable      bool   `mapstructure:"nullable_enable"`

	Scaffolds bool   `mapstructure:"scaffolds"`
	Package   string `mapstructure:"package"`
	Version   string `mapstructure:"version"`
}

func defaults(v *viper.Viper) {
	d := csharp.DefaultConfig()
	v.SetDefault("manifest", "")
	v.SetDefault("source", []string{})
	v.SetDefault("out", ".")
	v.SetDefault("indent_style", d.IndentStyle)
	v.SetDefault("indent_size", d.IndentSize)
	v.SetDefault("line_ending", d.LineEnding)
	v.SetDefault("file_scoped_namespace", d.FileScopedNamespace)
	v.SetDefault("nullable_enable", d.NullableEnable)
	v.SetDefault("scaffolds", false)
	v.SetDefault("package", "")
	v.SetDefault("version", "")
}

// Load reads settings. With an empty path, declgen.{yaml,toml,json} in the
// current directory is used when present; an explicit path must exist.
// Relative manifest and out paths in a file are resolved against the file's
// directory.
func Load(path string) (*Settings, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("declgen")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if file := v.ConfigFileUsed(); file != "" {
		dir := filepath.Dir(file)
		s.Manifest = relativeTo(dir, s.Manifest)
		s.Out = relativeTo(dir, s.Out)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func relativeTo(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports settings no run could use.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return declgen.FromValidationErrors(declgen.CodeInvalidArgument, ve)
		}
		return err
	}
	if s.Version != "" {
		if _, err := semver.NewVersion(s.Version); err != nil {
			return declgen.Errorf(declgen.CodeInvalidArgument, "version %q is not a semantic version", s.Version).
				WithDetail("version", s.Version)
		}
	}
	return nil
}

// Renderer returns the C# renderer configuration described by s.
func (s *Settings) Renderer() csharp.Config {
	cfg := csharp.DefaultConfig()
	cfg.IndentStyle = s.IndentStyle
	cfg.IndentSize = s.IndentSize
	cfg.LineEnding = s.LineEnding
	cfg.FileScopedNamespace = s.FileScopedNamespace
	cfg.NullableEnable = s.NullableEnable
	return cfg
}

// Env carries what every command needs beyond its flags.
type Env struct {
	Context context.Context
	Logger  *zap.Logger
	Stdout  io.Writer

	// Version is the running binary's version. It is written to headers
	// when neither the settings nor the manifest name one.
	Version string
}

// Default returns an Env writing to the process's stdout.
func Default(logger *zap.Logger, version string) *Env {
	return &Env{Context: context.Background(), Logger: logger, Stdout: os.Stdout, Version: version}
}

// Input holds the flags that select what to generate. Commands embed it.
type Input struct {
	Config    string   `help:"Config file (default: declgen.yaml in the current directory, if present)." short:"c"`
	Manifest  string   `help:"Manifest file describing the types." short:"m"`
	Source    []string `help:"Go package patterns to scan for //declgen:wrapper types." short:"s"`
	Package   string   `help:"Package name written to headers."`
	Version   string   `help:"Version written to headers." name:"header-version"`
	Scaffolds bool     `help:"Also produce scaffolds/<Type>.cs.scaffold files."`
}

// Settings loads the config file and applies the flags over it.
func (in *Input) Settings() (*Settings, error) {
	s, err := Load(in.Config)
	if err != nil {
		return nil, err
	}
	if in.Manifest != "" {
		s.Manifest = in.Manifest
	}
	if len(in.Source) > 0 {
		s.Source = in.Source
	}
	if in.Package != "" {
		s.Package = in.Package
	}
	if in.Version != "" {
		s.Version = in.Version
	}
	if in.Scaffolds {
		s.Scaffolds = true
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Generator builds the generator described by s.
func Generator(s *Settings, env *Env) (*emit.Generator, error) {
	var g *emit.Generator
	version := s.Version
	switch {
	case len(s.Source) > 0:
		if version == "" {
			version = env.Version
		}
		g = emit.FromSource(provider.SourceOptions{
			Packages: s.Source,
			Package:  s.Package,
			Version:  version,
		})
	case s.Manifest != "":
		m, err := manifest.Load(s.Manifest)
		if err != nil {
			return nil, err
		}
		if s.Package != "" {
			m.Package = s.Package
		}
		if version == "" && m.Version == "" {
			version = env.Version
		}
		g = emit.FromManifest(m)
	default:
		return nil, errors.WithHint(
			declgen.NewError(declgen.CodeInvalidArgument, "nothing to generate"),
			"pass --manifest or --source, or set manifest in declgen.yaml")
	}

	g = g.WithConfig(s.Renderer()).WithLogger(env.Logger)
	if version != "" {
		g = g.WithVersion(version)
	}
	if s.Scaffolds {
		g = g.WithScaffolds()
	}
	return g, nil
}
