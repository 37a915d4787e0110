package config

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validate checks a File after defaults have been applied.
func (f *File) Validate() error {
	var errs []error

	if f.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported version %q (want %q)", f.Version, CurrentVersion))
	}

	if !isIdentPrefix(f.RawPrefix) {
		errs = append(errs, fmt.Errorf("raw_prefix %q must start with a letter and contain only letters, digits and underscores", f.RawPrefix))
	}

	if !token.IsIdentifier(f.Method) || !token.IsExported(f.Method) {
		errs = append(errs, fmt.Errorf("method %q must be an exported identifier", f.Method))
	}

	if !token.IsIdentifier(f.Receiver) || f.Receiver == "_" {
		errs = append(errs, fmt.Errorf("receiver %q must be an identifier", f.Receiver))
	}

	if !strings.HasSuffix(f.Suffix, ".go") || f.Suffix == ".go" || strings.HasSuffix(f.Suffix, "_test.go") ||
		strings.ContainsAny(f.Suffix, `/\`) {
		errs = append(errs, fmt.Errorf("suffix %q must end in .go, add something before it and not be a test file", f.Suffix))
	}

	if _, err := parser.ParseExpr(f.DefaultError); err != nil {
		errs = append(errs, fmt.Errorf("default_error %q is not a type expression: %w", f.DefaultError, err))
	}

	return errors.Join(errs...)
}

func isIdentPrefix(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsLetter(r) {
		return false
	}

	return token.IsIdentifier(s)
}
