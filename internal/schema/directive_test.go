package schema

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		text string
		key  string
		arg  string
		ok   bool
	}{
		{"//validgen:validated", "validated", "", true},
		{"//validgen:validator isPositive", "validator", "isPositive", true},
		{"//validgen:error\t*ValidationError", "error", "*ValidationError", true},
		{"//validgen:validator   minLen(3)  ", "validator", "minLen(3)", true},
		{"//validgen:validator a, b", "validator", "a, b", true},
		{"// validgen:validated", "", "", false},
		{"// regular comment", "", "", false},
		{"/* validgen:validated */", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d, ok := ParseDirective(&ast.Comment{Slash: 10, Text: tt.text})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, d.Key)
			assert.Equal(t, tt.arg, d.Arg)
		})
	}
}

func TestDirectives_LastWins(t *testing.T) {
	doc := &ast.CommentGroup{List: []*ast.Comment{
		{Slash: 1, Text: "// Amount is checked."},
		{Slash: 2, Text: "//validgen:validator first"},
		{Slash: 3, Text: "//validgen:validator second"},
	}}
	line := &ast.CommentGroup{List: []*ast.Comment{
		{Slash: 4, Text: "//validgen:validator third"},
	}}

	ds := Directives(doc, nil, line)
	assert.Len(t, ds, 3)

	d, ok := Last(ds, KeyValidator)
	assert.True(t, ok)
	assert.Equal(t, "third", d.Arg)

	d, ok = Last(Directives(doc), KeyValidator)
	assert.True(t, ok)
	assert.Equal(t, "second", d.Arg)

	assert.False(t, Has(ds, KeyValidated))
}
