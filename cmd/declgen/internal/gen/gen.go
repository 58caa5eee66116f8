// Package gen implements the gen and scaffold commands.
package gen

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/broady/declgen/cmd/declgen/internal/config"
	"github.com/broady/declgen/emit"
	"github.com/broady/declgen/sink"
)

type Cmd struct {
	config.Input `embed:""`

	Out     string   `arg:"" optional:"" help:"Output directory (default: out from the config file, else the current directory)."`
	Archive string   `help:"Write a txtar archive to this path instead of a directory (- for stdout)." short:"a"`
	Only    []string `help:"Only write files whose path matches one of these patterns." short:"o"`
}

func (c *Cmd) Run(env *config.Env) error {
	s, err := c.Settings()
	if err != nil {
		return err
	}
	if c.Out != "" {
		s.Out = c.Out
	}
	g, err := config.Generator(s, env)
	if err != nil {
		return err
	}

	var (
		out     sink.Sink
		archive *sink.Archive
	)
	if c.Archive != "" {
		archive = sink.NewArchive("")
		out = archive
	} else {
		out = sink.NewDir(s.Out)
	}
	out = sink.Match(out, c.Only...)

	res, err := g.ToSink(env.Context, out)
	if err != nil {
		return err
	}

	if archive != nil {
		return writeArchive(c.Archive, archive, env)
	}
	for _, f := range res.Files {
		if len(f.Skipped) > 0 && !f.Scaffold {
			fmt.Fprintf(env.Stdout, "%s: skipped %v\n", f.Path, f.Skipped)
		}
	}
	fmt.Fprintf(env.Stdout, "generated %d files in %s\n", len(res.Files), s.Out)
	return nil
}

func writeArchive(path string, a *sink.Archive, env *config.Env) error {
	if path == "-" {
		_, err := a.WriteTo(env.Stdout)
		return errors.Wrap(err, "write archive")
	}
	return errors.Wrapf(os.WriteFile(path, a.Bytes(), 0o644), "write archive %s", path)
}

// ScaffoldCmd prints the scaffold of one type.
type ScaffoldCmd struct {
	config.Input `embed:""`

	Type string `arg:"" help:"Name of the type."`
}

func (c *ScaffoldCmd) Run(env *config.Env) error {
	s, err := c.Settings()
	if err != nil {
		return err
	}
	s.Scaffolds = true
	g, err := config.Generator(s, env)
	if err != nil {
		return err
	}
	res, err := g.ToSink(env.Context, sink.Match(sink.NewMemory(), emit.ScaffoldPath(c.Type)))
	if err != nil {
		return err
	}
	f, ok := res.Find(emit.ScaffoldPath(c.Type))
	if !ok {
		return errors.Newf("no type named %q", c.Type)
	}
	_, err = env.Stdout.Write(f.Content)
	return err
}
