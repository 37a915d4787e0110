package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"validgen/internal/analyze"
	"validgen/internal/diagnostic"
	"validgen/internal/gen"
	"validgen/internal/schema"
)

// Mode selects what happens to the generated files.
type Mode int

const (
	ModeWrite  Mode = iota // write outputs and remove stale ones
	ModeCheck              // compare against the disk, write nothing
	ModeDryRun             // print outputs, write nothing
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeCheck:
		return "check"
	case ModeDryRun:
		return "dry-run"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

var (
	// ErrFailed is returned when analysis or emission reported errors.
	ErrFailed = errors.New("generation failed")
	// ErrDrift is returned in check mode when outputs are out of date.
	ErrDrift = errors.New("generated files are out of date")
)

// Options configures a Runner.
type Options struct {
	// Dir is the directory patterns are resolved in.
	Dir      string
	Patterns []string
	Mode     Mode
	// NoTypes skips type checking, and with it the preflight.
	NoTypes bool
	// Preflight checks validator signatures with go/types before emission.
	Preflight  bool
	BuildFlags []string
	Schema     schema.Options
	Generator  gen.GeneratorConfig
	// Stdout receives dry-run output. Nil means os.Stdout.
	Stdout io.Writer
	// Jobs bounds the number of packages processed at once. Zero means
	// GOMAXPROCS.
	Jobs int
}

// Result is the outcome of a run.
type Result struct {
	Packages int
	// Schemas are the analysed schemas, in package and file order.
	Schemas []*schema.Schema
	Files   []gen.GeneratedFile
	// Written lists outputs whose content changed on disk.
	Written []string
	// Stale lists outputs whose source no longer declares schemas or no
	// longer exists.
	Stale []string
	// Removed lists stale outputs deleted in write mode.
	Removed     []string
	Drifts      []gen.Drift
	Diagnostics diagnostic.Diagnostics
}

// Runner executes runs with fixed options.
type Runner struct {
	opts      Options
	logger    *slog.Logger
	loader    *analyze.Loader
	generator *gen.Generator
}

// New creates a Runner. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"."}
	}

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}

	generator := gen.NewGenerator(opts.Generator)
	opts.Generator = generator.Config()

	loader := analyze.NewLoader(analyze.LoadOptions{
		Dir:        opts.Dir,
		Suffix:     opts.Generator.Suffix,
		NoTypes:    opts.NoTypes,
		BuildFlags: opts.BuildFlags,
	}, logger)

	return &Runner{opts: opts, logger: logger, loader: loader, generator: generator}
}

// Run performs one generation run. The returned Result is non-nil
// whenever packages were loaded, including on ErrFailed and ErrDrift.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	pkgs, err := r.loader.Load(ctx, r.opts.Patterns...)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("loaded packages", "count", len(pkgs), "mode", r.opts.Mode)

	outs := make([]*packageOutput, len(pkgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)

	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out, err := r.processPackage(pkg)
			if err != nil {
				return fmt.Errorf("package %s: %w", pkg.PkgPath, err)
			}

			outs[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Packages: len(pkgs)}
	for _, out := range outs {
		res.Schemas = append(res.Schemas, out.schemas...)
		res.Files = append(res.Files, out.files...)
		res.Stale = append(res.Stale, out.stale...)
		res.Diagnostics.Merge(out.diags)
	}

	if res.Diagnostics.HasErrors() {
		return res, ErrFailed
	}

	return res, r.finish(res)
}

func (r *Runner) finish(res *Result) error {
	switch r.opts.Mode {
	case ModeCheck:
		drifts, err := gen.CheckFiles(res.Files, res.Stale)
		if err != nil {
			return err
		}

		res.Drifts = drifts
		if len(drifts) > 0 {
			return ErrDrift
		}

	case ModeDryRun:
		if err := gen.PrintFiles(r.opts.Stdout, res.Files); err != nil {
			return fmt.Errorf("printing files: %w", err)
		}

	case ModeWrite:
		written, err := gen.WriteFiles(res.Files)
		res.Written = written

		if err != nil {
			return err
		}

		if err := gen.RemoveFiles(res.Stale); err != nil {
			return err
		}

		res.Removed = res.Stale

		for _, p := range written {
			r.logger.Debug("wrote file", "path", p)
		}

		for _, p := range res.Removed {
			res.Diagnostics.AddInfo("REMOVED", "removed stale generated file", p)
		}
	}

	return nil
}

// packageOutput is what one package contributes to a run.
type packageOutput struct {
	schemas []*schema.Schema
	files   []gen.GeneratedFile
	stale   []string
	diags   diagnostic.Diagnostics
}

// processPackage analyses and emits one package. Problems in user code
// become diagnostics; the error return is for I/O failures.
func (r *Runner) processPackage(pkg *analyze.Package) (*packageOutput, error) {
	out := &packageOutput{}
	keep := make(map[string]bool)

	for _, e := range pkg.TypeErrors {
		r.logger.Debug("ignoring type error", "pkg", pkg.PkgPath, "error", e)
	}

	for _, f := range pkg.Files {
		list := r.analyzeFile(pkg, f, &out.diags)
		if len(list) == 0 {
			continue
		}

		out.schemas = append(out.schemas, list...)

		file, err := r.generator.Generate(gen.Unit{
			SourcePath:      f.Path,
			PackageName:     pkg.Name,
			BuildConstraint: f.BuildConstraint,
			Imports:         genImports(f.Imports),
			Schemas:         list,
		})
		if err != nil {
			out.diags.AddErr(err)
			continue
		}

		keep[file.Path] = true
		out.files = append(out.files, *file)

		r.logger.Debug("generated file", "path", file.Path, "schemas", len(list))
	}

	if pkg.Dir == "" {
		return out, nil
	}

	sources := make(map[string]bool, len(pkg.Files))
	for _, f := range pkg.Files {
		sources[f.Path] = true
	}

	stale, err := gen.StaleOutputs(pkg.Dir, r.opts.Generator.Suffix, keep, sources)
	if err != nil {
		return nil, err
	}

	out.stale = stale

	return out, nil
}

// analyzeFile returns the schemas of one file that passed analysis and
// preflight.
func (r *Runner) analyzeFile(pkg *analyze.Package, f *analyze.File, diags *diagnostic.Diagnostics) []*schema.Schema {
	targets, warnings := schema.Discover(pkg.Fset, f.Syntax)
	diags.AddSchemaWarnings(warnings...)

	if len(targets) == 0 {
		return nil
	}

	a := schema.NewAnalyzer(pkg.Fset, r.opts.Schema)

	var list []*schema.Schema

	for _, t := range targets {
		s, err := a.Analyze(t.Decl, t.Spec)
		if err != nil {
			diags.AddErr(err)
			continue
		}

		if r.opts.Preflight {
			errs, warnings := analyze.Preflight(pkg, s)
			diags.AddSchemaWarnings(warnings...)

			if len(errs) > 0 {
				diags.AddSchemaErrors(errs...)
				continue
			}
		}

		list = append(list, s)
	}

	diags.AddSchemaWarnings(a.Warnings()...)

	return list
}

func genImports(in []analyze.Import) []gen.Import {
	out := make([]gen.Import, len(in))
	for i, imp := range in {
		out[i] = gen.Import{Name: imp.Name, Path: imp.Path}
	}

	return out
}

// Statuses describes what happened to every output file.
func (res *Result) Statuses(mode Mode) []diagnostic.FileStatus {
	written := make(map[string]bool, len(res.Written))
	for _, p := range res.Written {
		written[p] = true
	}

	drifted := make(map[string]gen.DriftKind, len(res.Drifts))
	for _, d := range res.Drifts {
		drifted[d.Path] = d.Kind
	}

	var out []diagnostic.FileStatus

	for _, f := range res.Files {
		status := "unchanged"

		switch mode {
		case ModeWrite:
			if written[f.Path] {
				status = "written"
			}
		case ModeCheck:
			if k, ok := drifted[f.Path]; ok {
				status = k.String()
			}
		case ModeDryRun:
			status = "generated"
		}

		out = append(out, diagnostic.FileStatus{Path: f.Path, Status: status})
	}

	for _, p := range res.Stale {
		status := "stale"
		if mode == ModeWrite {
			status = "removed"
		}

		out = append(out, diagnostic.FileStatus{Path: p, Status: status})
	}

	return out
}
