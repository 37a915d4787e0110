// Package analyze loads the packages validgen generates code for.
//
// It uses golang.org/x/tools/go/packages to obtain syntax and, unless
// disabled, go/types information. Previously generated files are hidden
// from the type checker through the loader overlay so that stale output
// never influences the next run.
//
// Key types:
//   - Loader: two-phase package loading
//   - Package, File: the loaded syntax with optional type information
//   - Preflight: go/types signature checks of validators before emission
package analyze
