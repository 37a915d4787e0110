package schema

import (
	"go/ast"
	"go/token"
	"slices"

	"validgen/internal/match"
)

// Target is one type declaration marked //validgen:validated.
type Target struct {
	Decl *ast.GenDecl
	Spec *ast.TypeSpec
}

// Discover returns the marked type declarations of a file in source order,
// plus warnings for unknown validgen directives anywhere in the file.
func Discover(fset *token.FileSet, file *ast.File) ([]Target, []*Error) {
	var targets []Target

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, s := range gd.Specs {
			ts, ok := s.(*ast.TypeSpec)
			if !ok {
				continue
			}

			if Has(typeDocDirectives(gd, ts), KeyValidated) {
				targets = append(targets, Target{Decl: gd, Spec: ts})
			}
		}
	}

	return targets, unknownDirectives(fset, file)
}

func unknownDirectives(fset *token.FileSet, file *ast.File) []*Error {
	var warnings []*Error

	for _, d := range Directives(file.Comments...) {
		if slices.Contains(KnownKeys, d.Key) {
			continue
		}

		e := NewError(CodeUnknownDirective, fset.Position(d.Pos), "", "",
			"unknown directive %s%s", DirectivePrefix, d.Key)
		if s, ok := match.Suggest(d.Key, KnownKeys); ok {
			e.Message += "; did you mean " + DirectivePrefix + s + "?"
		}

		warnings = append(warnings, e)
	}

	return warnings
}
