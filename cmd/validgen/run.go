package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/scott-cotton/cli"

	"validgen/internal/config"
	"validgen/internal/diagnostic"
	"validgen/internal/logging"
	"validgen/internal/pipeline"
)

// errExit reports that the failure was already printed.
var errExit = errors.New("exit status 1")

func run(ctx context.Context, cfg *Config, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		cfg.Main.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}

	err = execute(ctx, cfg, args, cc.Out, os.Stderr)
	switch {
	case errors.Is(err, cli.ErrUsage):
		cfg.Main.Usage(cc, err)
		return cli.ExitCodeErr(1)
	case errors.Is(err, errExit):
		return cli.ExitCodeErr(1)
	}

	return err
}

// execute runs one invocation. Generation failures and drift are printed
// and reported as errExit.
func execute(ctx context.Context, cfg *Config, args []string, stdout, stderr io.Writer) error {
	if cfg.Init {
		return writeInitConfig(cfg, stdout)
	}

	if cfg.Check && cfg.DryRun {
		return fmt.Errorf("%w: -check and -dry-run are mutually exclusive", cli.ErrUsage)
	}

	if cfg.JSON && cfg.DryRun {
		return fmt.Errorf("%w: -json cannot be combined with -dry-run", cli.ErrUsage)
	}

	file, err := loadConfig(cfg)
	if err != nil {
		return err
	}

	logger := logging.NewWriter(stderr, cfg.Verbose)

	opts := pipelineOptions(cfg, file, args)
	opts.Stdout = stdout

	logger.Debug("starting", "patterns", opts.Patterns, "mode", opts.Mode)

	res, err := pipeline.New(opts, logger).Run(ctx)

	if cfg.Debug && res != nil {
		dumpSchemas(stderr, res.Schemas)
	}

	rep := &reporter{
		stdout:   stdout,
		stderr:   stderr,
		asJSON:   cfg.JSON,
		verbose:  cfg.Verbose,
		colorize: diagnostic.ShouldColor(stderr),
	}

	if res == nil {
		if err == nil || !cfg.JSON {
			return err
		}

		var d diagnostic.Diagnostics
		d.AddErr(err)

		if werr := rep.writeJSON(diagnostic.Report{Diagnostics: d}); werr != nil {
			return werr
		}

		return errExit
	}

	if rerr := rep.report(res, opts.Mode); rerr != nil {
		return rerr
	}

	switch {
	case errors.Is(err, pipeline.ErrFailed), errors.Is(err, pipeline.ErrDrift):
		return errExit
	case err != nil:
		return err
	}

	return nil
}

// loadConfig reads the configuration file and applies the flags on top.
func loadConfig(cfg *Config) (*config.File, error) {
	var (
		file *config.File
		err  error
	)

	if cfg.ConfigFile != "" {
		file, err = config.LoadFile(cfg.ConfigFile)
	} else {
		file, err = config.LoadOptional(config.FileName)
	}

	if err != nil {
		return nil, err
	}

	if cfg.Strict {
		file.Strict = true
	}

	if cfg.NoPreflight {
		off := false
		file.Preflight = &off
	}

	if cfg.Suffix != "" {
		file.Suffix = cfg.Suffix
	}

	if cfg.Prefix != "" {
		file.RawPrefix = cfg.Prefix
	}

	if cfg.Method != "" {
		file.Method = cfg.Method
	}

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}

	return file, nil
}

func pipelineOptions(cfg *Config, file *config.File, patterns []string) pipeline.Options {
	mode := pipeline.ModeWrite

	switch {
	case cfg.Check:
		mode = pipeline.ModeCheck
	case cfg.DryRun:
		mode = pipeline.ModeDryRun
	}

	return pipeline.Options{
		Patterns:   patterns,
		Mode:       mode,
		NoTypes:    cfg.NoTypes,
		Preflight:  file.PreflightEnabled(),
		BuildFlags: file.BuildFlags(),
		Schema:     file.SchemaOptions(),
		Generator:  file.GeneratorConfig(),
		Jobs:       cfg.Jobs,
	}
}

func writeInitConfig(cfg *Config, stdout io.Writer) error {
	path := cfg.ConfigFile
	if path == "" {
		path = config.FileName
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := config.WriteFile(config.Default(), path); err != nil {
		return err
	}

	_, err := fmt.Fprintf(stdout, "wrote %s\n", path)

	return err
}
