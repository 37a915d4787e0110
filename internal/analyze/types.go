package analyze

import (
	"go/ast"
	"go/token"
	"go/types"
)

// Import is one import spec of a source file. Name is set when the spec
// names the package explicitly or when the package's real name differs
// from the name its path suggests.
type Import struct {
	Name string
	Path string
}

// File is one non-generated Go file of a package.
type File struct {
	Path    string
	Syntax  *ast.File
	Imports []Import
	// BuildConstraint is the file's //go:build line, or "".
	BuildConstraint string
}

// Package is one loaded package.
type Package struct {
	PkgPath string
	Name    string
	Dir     string
	Fset    *token.FileSet
	Files   []*File
	// Generated lists the existing generated files of the package.
	Generated []string
	// Types and TypesInfo are nil when type information was not loaded.
	Types     *types.Package
	TypesInfo *types.Info
	// TypeErrors are the type checker's complaints. They are expected while
	// generated files are hidden and never stop generation.
	TypeErrors []error
}

// HasTypes reports whether type information is available.
func (p *Package) HasTypes() bool {
	return p.Types != nil && p.TypesInfo != nil
}
