// Package check implements the check and hash commands.
package check

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/broady/declgen/cmd/declgen/internal/config"
	"github.com/broady/declgen/emit"
	"github.com/broady/declgen/scaffold"
)

type Cmd struct {
	config.Input `embed:""`

	Dir     string `arg:"" optional:"" help:"Directory holding the generated files (default: out from the config file)."`
	NoColor bool   `help:"Disable colored output."`
	Quiet   bool   `help:"Only print files that are not fresh." short:"q"`
}

func (c *Cmd) Run(env *config.Env) error {
	s, err := c.Settings()
	if err != nil {
		return err
	}
	if c.Dir != "" {
		s.Out = c.Dir
	}
	g, err := config.Generator(s, env)
	if err != nil {
		return err
	}
	reports, err := g.CheckDir(env.Context, s.Out)
	if err != nil {
		return err
	}

	Print(env.Stdout, reports, Options{NoColor: c.NoColor, Quiet: c.Quiet})
	if stale := emit.Stale(reports); len(stale) > 0 {
		return errors.WithHint(
			errors.Newf("%d of %d generated files need attention", len(stale), len(reports)),
			"run declgen gen to regenerate them")
	}
	return nil
}

// Options controls Print.
type Options struct {
	NoColor bool
	Quiet   bool
}

func statusColor(st scaffold.Status) *color.Color {
	switch st {
	case scaffold.StatusFresh:
		return color.New(color.FgGreen)
	case scaffold.StatusStale, scaffold.StatusGeneratorNewer:
		return color.New(color.FgYellow)
	case scaffold.StatusGeneratorOlder:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

// Print writes one line per report: a marker, the path, the status and,
// for files that are not fresh, the reason.
func Print(w io.Writer, reports []emit.Report, opts Options) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range reports {
		if opts.Quiet && r.Status.OK() {
			continue
		}
		c := statusColor(r.Status)
		if opts.NoColor {
			c.DisableColor()
		}
		mark := "✗"
		if r.Status.OK() {
			mark = "✓"
		}
		line := fmt.Sprintf("%s %s\t%s", mark, r.Path, c.Sprint(r.Status))
		if !r.Status.OK() && r.Reason != "" {
			line += "\t" + r.Reason
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()
}

// HashCmd prints the header each type would be written with.
type HashCmd struct {
	config.Input `embed:""`

	Bindings bool `help:"Also print the inputs each fingerprint is computed from." short:"b"`
}

func (c *HashCmd) Run(env *config.Env) error {
	s, err := c.Settings()
	if err != nil {
		return err
	}
	g, err := config.Generator(s, env)
	if err != nil {
		return err
	}
	plan, err := g.Plan(env.Context)
	if err != nil {
		return err
	}
	for _, p := range plan {
		fmt.Fprintf(env.Stdout, "%s %s\n", p.Header.Hash, p.Path)
		if c.Bindings {
			for _, b := range p.Bindings {
				fmt.Fprintf(env.Stdout, "\t%s: %s\n", b.Key, b.Value)
			}
		}
	}
	return nil
}
