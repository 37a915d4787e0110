package analyze

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/build/constraint"
	"go/parser"
	"go/token"
	"go/types"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/mod/module"
	"golang.org/x/tools/go/packages"

	"validgen/internal/gen"
)

// ListMode finds the files of the requested packages.
const ListMode = packages.NeedName | packages.NeedFiles

// LoadMode specifies what information to load from packages. NeedDeps
// makes go/packages type-check the roots from source, so code referring to
// a hidden generated type reports a TypeError instead of a failed compile.
const LoadMode = ListMode |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps

// ErrNoPackages is returned when the patterns match nothing.
var ErrNoPackages = errors.New("no packages matched")

// LoadOptions configures a Loader.
type LoadOptions struct {
	// Dir is the directory patterns are resolved in. Empty means the
	// current directory.
	Dir string
	// Suffix identifies generated files.
	Suffix string
	// NoTypes skips type checking; files are only parsed.
	NoTypes bool
	// BuildFlags are passed to the build system, e.g. "-tags=integration".
	BuildFlags []string
}

// Loader loads Go packages for generation.
type Loader struct {
	opts   LoadOptions
	logger *slog.Logger
}

// NewLoader creates a new Loader. A nil logger discards output.
func NewLoader(opts LoadOptions, logger *slog.Logger) *Loader {
	if opts.Suffix == "" {
		opts.Suffix = gen.DefaultSuffix
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Loader{opts: opts, logger: logger}
}

// Load loads the packages matching patterns ("./...", "validgen/store").
//
// The first phase lists the packages and their files. The second phase
// parses and type-checks them with every generated file replaced by an
// empty file of the same package.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	listed, err := packages.Load(l.config(ctx, ListMode, nil), patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}

	if err := packageErrors(listed); err != nil {
		return nil, err
	}

	if len(listed) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPackages, strings.Join(patterns, " "))
	}

	generated := make(map[string][]string)
	overlay := make(map[string][]byte)

	for _, p := range listed {
		for _, f := range p.GoFiles {
			if !l.isGenerated(f) {
				continue
			}

			generated[p.ID] = append(generated[p.ID], f)
			overlay[f] = []byte("package " + p.Name + "\n")
		}
	}

	if l.opts.NoTypes {
		return l.parse(listed, generated)
	}

	pkgs, err := packages.Load(l.config(ctx, LoadMode, overlay), patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	out := make([]*Package, 0, len(pkgs))

	for _, p := range pkgs {
		if err := fatalErrors(p); err != nil {
			return nil, err
		}

		pkg := l.fromPackages(p, generated[p.ID])
		for _, e := range pkg.TypeErrors {
			l.logger.Debug("type error", "pkg", p.PkgPath, "error", e)
		}

		out = append(out, pkg)
	}

	return out, nil
}

func (l *Loader) config(ctx context.Context, mode packages.LoadMode, overlay map[string][]byte) *packages.Config {
	return &packages.Config{
		Context:    ctx,
		Mode:       mode,
		Dir:        l.opts.Dir,
		BuildFlags: l.opts.BuildFlags,
		Overlay:    overlay,
	}
}

// isGenerated reports whether path is output of a previous run: it is
// named like an output and starts with the generated header.
func (l *Loader) isGenerated(filename string) bool {
	if _, ok := gen.SourcePath(filename, l.opts.Suffix); !ok {
		return false
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return false
	}

	return gen.IsGenerated(content)
}

func (l *Loader) fromPackages(p *packages.Package, generated []string) *Package {
	pkg := &Package{
		PkgPath:   p.PkgPath,
		Name:      p.Name,
		Dir:       packageDir(p),
		Fset:      p.Fset,
		Generated: generated,
		Types:     p.Types,
		TypesInfo: p.TypesInfo,
	}

	skip := make(map[string]bool, len(generated))
	for _, g := range generated {
		skip[g] = true
	}

	for _, syntax := range p.Syntax {
		filename := p.Fset.Position(syntax.Package).Filename
		if skip[filename] {
			continue
		}

		pkg.Files = append(pkg.Files, &File{
			Path:            filename,
			Syntax:          syntax,
			Imports:         fileImports(syntax, p.TypesInfo),
			BuildConstraint: buildConstraint(syntax),
		})
	}

	for _, e := range p.Errors {
		pkg.TypeErrors = append(pkg.TypeErrors, e)
	}

	return pkg
}

// parse builds packages from syntax alone.
func (l *Loader) parse(listed []*packages.Package, generated map[string][]string) ([]*Package, error) {
	out := make([]*Package, 0, len(listed))

	for _, p := range listed {
		fset := token.NewFileSet()
		pkg := &Package{
			PkgPath:   p.PkgPath,
			Name:      p.Name,
			Dir:       packageDir(p),
			Fset:      fset,
			Generated: generated[p.ID],
		}

		skip := make(map[string]bool)
		for _, g := range generated[p.ID] {
			skip[g] = true
		}

		for _, f := range p.GoFiles {
			if skip[f] {
				continue
			}

			syntax, err := parser.ParseFile(fset, f, nil, parser.ParseComments|parser.SkipObjectResolution)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", f, err)
			}

			pkg.Files = append(pkg.Files, &File{
				Path:            f,
				Syntax:          syntax,
				Imports:         fileImports(syntax, nil),
				BuildConstraint: buildConstraint(syntax),
			})
		}

		l.logger.Debug("parsed package", "pkg", p.PkgPath, "files", len(pkg.Files))

		out = append(out, pkg)
	}

	return out, nil
}

// fileImports returns the imports generated code may refer to. Blank and
// dot imports are dropped. With type information an import whose package
// name differs from the one its path suggests gets an explicit name.
func fileImports(f *ast.File, info *types.Info) []Import {
	var out []Import

	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		imp := Import{Path: p}

		switch {
		case spec.Name != nil && (spec.Name.Name == "_" || spec.Name.Name == "."):
			continue
		case spec.Name != nil:
			imp.Name = spec.Name.Name
		case info != nil:
			if pn := info.PkgNameOf(spec); pn != nil && pn.Imported().Name() != AssumedName(p) {
				imp.Name = pn.Imported().Name()
			}
		}

		out = append(out, imp)
	}

	return out
}

// buildConstraint returns the //go:build line of f. Only comments above
// the package clause count.
func buildConstraint(f *ast.File) string {
	for _, group := range f.Comments {
		if group.Pos() >= f.Package {
			break
		}

		for _, c := range group.List {
			if constraint.IsGoBuild(c.Text) {
				return c.Text
			}
		}
	}

	return ""
}

// AssumedName is the package name an import path suggests: its last
// element without a major version suffix, "go-" prefix or "-go" suffix.
func AssumedName(importPath string) string {
	if prefix, _, ok := module.SplitPathVersion(importPath); ok && prefix != "" {
		importPath = prefix
	}

	name := path.Base(importPath)
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")

	if i := strings.IndexAny(name, ".-"); i >= 0 {
		name = name[:i]
	}

	return name
}

func packageDir(p *packages.Package) string {
	if len(p.GoFiles) > 0 {
		return filepath.Dir(p.GoFiles[0])
	}

	return ""
}

// packageErrors joins the errors reported while listing.
func packageErrors(pkgs []*packages.Package) error {
	var errs []error

	for _, p := range pkgs {
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	return nil
}

// fatalErrors returns list and parse errors; type errors are tolerated.
func fatalErrors(p *packages.Package) error {
	var errs []error

	for _, e := range p.Errors {
		if e.Kind == packages.TypeError {
			continue
		}

		errs = append(errs, e)
	}

	if len(errs) > 0 {
		return fmt.Errorf("package %s: %w", p.PkgPath, errors.Join(errs...))
	}

	return nil
}
