package config

import (
	"strings"

	"validgen/internal/gen"
	"validgen/internal/schema"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".validgen.yaml"

// CurrentVersion is the only supported configuration version.
const CurrentVersion = "1"

// File is the content of a configuration file.
type File struct {
	Version      string   `yaml:"version"`
	RawPrefix    string   `yaml:"raw_prefix,omitempty"`
	Method       string   `yaml:"method,omitempty"`
	Receiver     string   `yaml:"receiver,omitempty"`
	Suffix       string   `yaml:"suffix,omitempty"`
	DefaultError string   `yaml:"default_error,omitempty"`
	Strict       bool     `yaml:"strict,omitempty"`
	Preflight    *bool    `yaml:"preflight,omitempty"`
	Comments     *bool    `yaml:"comments,omitempty"`
	BuildTags    []string `yaml:"build_tags,omitempty"`
}

// Keys lists every key a configuration file may contain.
var Keys = []string{
	"version", "raw_prefix", "method", "receiver", "suffix",
	"default_error", "strict", "preflight", "comments", "build_tags",
}

// Default returns the configuration used when no file exists.
func Default() *File {
	f := &File{}
	applyDefaults(f)

	return f
}

// PreflightEnabled reports whether validators are type-checked before
// emission.
func (f *File) PreflightEnabled() bool {
	return f.Preflight == nil || *f.Preflight
}

// SchemaOptions converts the file to analysis options.
func (f *File) SchemaOptions() schema.Options {
	return schema.Options{
		RawPrefix:        f.RawPrefix,
		DefaultErrorType: f.DefaultError,
		Strict:           f.Strict,
	}
}

// GeneratorConfig converts the file to generator options.
func (f *File) GeneratorConfig() gen.GeneratorConfig {
	cfg := gen.DefaultGeneratorConfig()
	cfg.Suffix = f.Suffix
	cfg.MethodName = f.Method
	cfg.ReceiverName = f.Receiver
	cfg.GenerateComments = f.Comments == nil || *f.Comments

	return cfg
}

// BuildFlags returns the build flags for the package loader.
func (f *File) BuildFlags() []string {
	if len(f.BuildTags) == 0 {
		return nil
	}

	return []string{"-tags=" + strings.Join(f.BuildTags, ",")}
}
