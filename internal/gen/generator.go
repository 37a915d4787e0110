package gen

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	"golang.org/x/tools/imports"

	"validgen/internal/schema"
)

// Header marks every generated file.
const Header = "// Code generated by validgen. DO NOT EDIT."

// Defaults of GeneratorConfig.
const (
	DefaultSuffix       = "_validgen.go"
	DefaultMethodName   = "Validate"
	DefaultReceiverName = "raw"
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// Suffix replaces ".go" in the source file name to name the output.
	Suffix string
	// MethodName is the name of the conversion method on raw types.
	MethodName string
	// ReceiverName is the preferred receiver name; it is renamed when it
	// collides with an identifier the schema uses.
	ReceiverName string
	// GenerateComments adds doc comments to the raw types and methods.
	GenerateComments bool
	// KeepUnformatted writes a .unformatted.go sidecar next to the output
	// when formatting fails.
	KeepUnformatted bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Suffix:           DefaultSuffix,
		MethodName:       DefaultMethodName,
		ReceiverName:     DefaultReceiverName,
		GenerateComments: true,
		KeepUnformatted:  true,
	}
}

// Generator generates Go code from analysed schemas.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
// Empty names fall back to the defaults.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Suffix == "" {
		config.Suffix = DefaultSuffix
	}

	if config.MethodName == "" {
		config.MethodName = DefaultMethodName
	}

	if config.ReceiverName == "" {
		config.ReceiverName = DefaultReceiverName
	}

	return &Generator{config: config}
}

// Config returns the effective configuration.
func (g *Generator) Config() GeneratorConfig {
	return g.config
}

// Import is one import spec copied from the source file.
type Import struct {
	// Name is the explicit import name, or "" for the package's own name.
	Name string
	Path string
}

// Unit is the generation input of one source file.
type Unit struct {
	// SourcePath is the path of the file declaring the schemas.
	SourcePath  string
	PackageName string
	// BuildConstraint is the source file's //go:build line, or "".
	BuildConstraint string
	// Imports are the source file's imports. Unused ones are pruned from
	// the output.
	Imports []Import
	Schemas []*schema.Schema
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Path is where the file belongs, next to its source file.
	Path string
	// Source is the path of the file the schemas came from.
	Source string
	// Content is the formatted Go source code.
	Content []byte
}

// ErrNoSchemas is returned when a unit declares nothing to generate.
var ErrNoSchemas = errors.New("no schemas to generate")

// IsGenerated reports whether content starts with the validgen header.
func IsGenerated(content []byte) bool {
	return bytes.HasPrefix(content, []byte(Header))
}

// Generate emits the file of one unit.
func (g *Generator) Generate(u Unit) (*GeneratedFile, error) {
	if len(u.Schemas) == 0 {
		return nil, fmt.Errorf("%s: %w", u.SourcePath, ErrNoSchemas)
	}

	data := g.buildTemplateData(u)
	out := OutputPath(u.SourcePath, g.config.Suffix)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := imports.Process(out, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		if g.config.KeepUnformatted {
			_ = writeSidecar(out, buf.Bytes())
		}

		return &GeneratedFile{
			Path:    out,
			Source:  u.SourcePath,
			Content: buf.Bytes(),
		}, fmt.Errorf("formatting %s: %w", out, err)
	}

	return &GeneratedFile{
		Path:    out,
		Source:  u.SourcePath,
		Content: formatted,
	}, nil
}

var fileTemplate = template.Must(template.New("validgen").
	Funcs(template.FuncMap{"importLine": importLine}).
	Parse(Header + `

{{if .BuildConstraint}}{{.BuildConstraint}}

{{end}}package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{importLine .}}
{{end}})
{{end}}
{{range .Schemas}}
{{if $.GenerateComments}}// {{.RawName}} is the unvalidated form of {{.Name}}. Use {{.Method}} to check it.
{{end}}type {{.RawName}}{{.TypeParams}} struct {
{{range .Fields}}	{{.RawDecl}}
{{end}}}

{{if $.GenerateComments}}// {{.Method}} runs every field validator and returns the checked {{.Name}}.
// On failure it returns every validation error in field order.
{{end}}func ({{.Receiver}} {{.RawName}}{{.TypeArgs}}) {{.Method}}() ({{.Name}}{{.TypeArgs}}, []{{.ErrorType}}) {
{{- if eq .Validated 0}}
	return {{.CopyLit}}, nil
}
{{else}}
{{- if .NoErr}}
	var {{.NoErr}} {{.ErrorType}}
{{end}}
{{range .Fields}}{{if .Validated}}	{{.Assertion}}
{{end}}{{end}}
{{range .Fields}}	{{.Eval}}
{{end}}
	if {{.Failed}} {
		{{.Errs}} := make([]{{.ErrorType}}, 0, {{.Validated}})
{{range .Fields}}{{if .Validated}}
		if {{.Failed}} {
			{{.Append}}
		}
{{end}}{{end}}
		return {{.Name}}{{.TypeArgs}}{}, {{.Errs}}
	}

	return {{.InitLit}}, nil
}
{{end}}{{end}}`))
