package schema

import (
	"go/ast"
	"go/token"
	"strings"
	"unicode"
)

// DirectivePrefix introduces every validgen directive comment.
const DirectivePrefix = "//validgen:"

// Directive keys.
const (
	KeyValidated = "validated"
	KeyError     = "error"
	KeyValidator = "validator"
)

// KnownKeys lists every directive key validgen understands.
var KnownKeys = []string{KeyValidated, KeyError, KeyValidator}

// Directive is one //validgen:<key> <arg> comment.
type Directive struct {
	Key string
	Arg string
	Pos token.Pos
}

// ParseDirective parses a single comment. It reports false for comments
// that are not validgen directives.
func ParseDirective(c *ast.Comment) (Directive, bool) {
	if c == nil || !strings.HasPrefix(c.Text, DirectivePrefix) {
		return Directive{}, false
	}

	body := strings.TrimPrefix(c.Text, DirectivePrefix)
	key, arg := body, ""

	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		key, arg = body[:i], strings.TrimSpace(body[i:])
	}

	return Directive{Key: key, Arg: arg, Pos: c.Slash}, true
}

// Directives returns the directives of the given comment groups in the
// order they appear. Nil groups are skipped.
func Directives(groups ...*ast.CommentGroup) []Directive {
	var out []Directive

	for _, g := range groups {
		if g == nil {
			continue
		}

		for _, c := range g.List {
			if d, ok := ParseDirective(c); ok {
				out = append(out, d)
			}
		}
	}

	return out
}

// Last returns the last directive with the given key. Earlier occurrences
// are ignored, never merged.
func Last(ds []Directive, key string) (Directive, bool) {
	for i := len(ds) - 1; i >= 0; i-- {
		if ds[i].Key == key {
			return ds[i], true
		}
	}

	return Directive{}, false
}

// Has reports whether any directive has the given key.
func Has(ds []Directive, key string) bool {
	_, ok := Last(ds, key)
	return ok
}
