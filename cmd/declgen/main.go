package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/broady/declgen/cmd/declgen/internal/check"
	"github.com/broady/declgen/cmd/declgen/internal/config"
	"github.com/broady/declgen/cmd/declgen/internal/gen"
)

type CLI struct {
	Verbose bool `help:"Log every capability application." short:"v"`

	Version  VersionCmd      `cmd:"" help:"Print version information."`
	Gen      gen.Cmd         `cmd:"" help:"Generate C# files."`
	Check    check.Cmd       `cmd:"" help:"Report generated files that are missing or out of date."`
	Hash     check.HashCmd   `cmd:"" help:"Print the fingerprint of each type."`
	Scaffold gen.ScaffoldCmd `cmd:"" help:"Print the scaffold of one type."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(env *config.Env) error {
	fmt.Fprintln(env.Stdout, Version())
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

type runner interface {
	Run(binds ...any) error
}

// run executes the selected command and flushes the logger. FatalIfErrorf
// exits without running deferred calls.
func run(r runner, logger *zap.Logger, version string) error {
	err := r.Run(config.Default(logger, version))
	_ = logger.Sync()
	return err
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("declgen"),
		kong.Description("Generate C# wrapper declarations with fingerprinted headers."),
		kong.UsageOnError(),
	)

	logger, err := newLogger(cli.Verbose)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(run(ctx, logger, headerVersion()))
}
