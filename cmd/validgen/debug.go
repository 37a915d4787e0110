package main

import (
	"io"

	"github.com/davecgh/go-spew/spew"

	"validgen/internal/schema"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// dumpSchemas writes the analysed schemas without their syntax trees.
func dumpSchemas(w io.Writer, list []*schema.Schema) {
	for _, s := range list {
		dumpConfig.Fdump(w, stripSyntax(s))
	}
}

func stripSyntax(s *schema.Schema) schema.Schema {
	out := *s
	out.Spec = nil
	out.ErrorTypeExpr = nil
	out.Fields = make([]*schema.Field, len(s.Fields))

	for i, f := range s.Fields {
		fc := *f
		fc.TypeExpr = nil
		fc.Validator.Func = nil
		fc.Validator.Guard = nil
		out.Fields[i] = &fc
	}

	return out
}
