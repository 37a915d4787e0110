// Package gen emits the raw types and Validate methods of analysed schemas.
//
// Generation uses text/template for the file skeleton and
// golang.org/x/tools/imports for gofmt formatting and import pruning.
// One GeneratedFile is produced per source file that declares schemas.
//
// For every schema the output holds:
//   - the raw struct, one exported field per checked field, tags copied
//   - a Validate method on the raw struct returning (X, []E)
//
// Validate runs every validator, never short-circuits, and reports the
// failures in field declaration order. A nil slice means success.
package gen
