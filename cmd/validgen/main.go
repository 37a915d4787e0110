// Package main provides the CLI entrypoint for validgen.
//
// validgen generates, for every struct marked //validgen:validated, an
// unvalidated twin type whose Validate method runs the field validators
// and is the only way to obtain the checked type:
//
//	validgen [opts] [dir|pattern ...]
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli.MainContext(ctx, MainCommand(ctx))
}

// MainCommand builds the validgen command.
func MainCommand(ctx context.Context) *cli.Command {
	cfg := &Config{}

	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommandAt(&cfg.Main, "validgen").
		WithSynopsis("validgen [opts] [dir|pattern ...]").
		WithDescription("validgen generates Unvalidated twin types and Validate methods for structs marked //validgen:validated.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(ctx, cfg, cc, args)
		})
}

// Config holds the command-line options. Empty values defer to the
// configuration file.
type Config struct {
	ConfigFile  string `cli:"name=config desc='configuration file (default .validgen.yaml when present)'"`
	Init        bool   `cli:"name=init desc='write a default configuration file and exit'"`
	Strict      bool   `cli:"name=strict desc='treat unparsable validators as errors'"`
	Check       bool   `cli:"name=check desc='report out-of-date files without writing; exit 1 on drift'"`
	DryRun      bool   `cli:"name=dry-run desc='print generated files instead of writing them'"`
	NoTypes     bool   `cli:"name=no-types desc='parse only; skips type checking and the signature preflight'"`
	NoPreflight bool   `cli:"name=no-preflight desc='skip the signature preflight'"`
	JSON        bool   `cli:"name=json desc='print a JSON report on stdout'"`
	Verbose     bool   `cli:"name=v desc='verbose output'"`
	Debug       bool   `cli:"name=debug desc='dump analysed schemas to stderr'"`
	Suffix      string `cli:"name=suffix desc='generated file suffix (default _validgen.go)'"`
	Prefix      string `cli:"name=prefix desc='raw type name prefix (default Unvalidated)'"`
	Method      string `cli:"name=method desc='conversion method name (default Validate)'"`
	Jobs        int    `cli:"name=jobs desc='packages processed concurrently (default GOMAXPROCS)'"`

	Main *cli.Command
}
