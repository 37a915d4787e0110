package gen

import (
	"go/ast"
	"go/types"
	"strconv"

	"validgen/internal/schema"
)

// namer hands out local identifiers for one generated method. A name is
// never returned twice and never collides with a reserved identifier.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	n := &namer{used: make(map[string]bool)}
	n.reserve(types.Universe.Names()...)

	return n
}

func (n *namer) reserve(names ...string) {
	for _, name := range names {
		n.used[name] = true
	}
}

// reserveIdents reserves every identifier that appears in the given nodes.
func (n *namer) reserveIdents(nodes ...ast.Node) {
	for _, node := range nodes {
		if node == nil {
			continue
		}

		ast.Inspect(node, func(x ast.Node) bool {
			if id, ok := x.(*ast.Ident); ok {
				n.used[id.Name] = true
			}

			return true
		})
	}
}

// name returns base, or base followed by the smallest positive number
// that is still free.
func (n *namer) name(base string) string {
	candidate := base
	for i := 1; n.used[candidate]; i++ {
		candidate = base + strconv.Itoa(i)
	}

	n.used[candidate] = true

	return candidate
}

// schemaNamer reserves every identifier a schema's generated code refers
// to: type names, type parameters, field types, the error type and all
// validator and guard expressions.
func schemaNamer(s *schema.Schema) *namer {
	n := newNamer()
	n.reserve(s.Name, s.RawName)
	n.reserve(s.TypeParamNames()...)

	if s.Spec != nil && s.Spec.TypeParams != nil {
		n.reserveIdents(s.Spec.TypeParams)
	}

	if s.ErrorTypeExpr != nil {
		n.reserveIdents(s.ErrorTypeExpr)
	}

	for _, f := range s.Fields {
		if f.TypeExpr != nil {
			n.reserveIdents(f.TypeExpr)
		}

		if f.Validator.Func != nil {
			n.reserveIdents(f.Validator.Func)
		}

		if f.Validator.Guard != nil {
			n.reserveIdents(f.Validator.Guard)
		}
	}

	return n
}

// locals are the identifiers of one generated Validate method.
type locals struct {
	Receiver string
	NoErr    string
	Errs     string
	Param    string
	Value    []string
	Err      []string
	Check    []string
}

// allocateLocals names the receiver first, then the shared locals, then
// the per-field values, errors and validators in field order.
func allocateLocals(s *schema.Schema, receiver string) locals {
	n := schemaNamer(s)

	l := locals{Receiver: n.name(receiver)}
	if s.ErrorCheck == schema.ErrorCheckZero {
		l.NoErr = n.name("noErr")
	}

	l.Errs = n.name("errs")

	l.Value = make([]string, len(s.Fields))
	for i, f := range s.Fields {
		l.Value[i] = n.name(f.Name)
	}

	l.Err = make([]string, len(s.Fields))
	l.Check = make([]string, len(s.Fields))

	for i, f := range s.Fields {
		if f.IsValidated() {
			l.Err[i] = n.name(f.Name + "Err")
		}
	}

	for i, f := range s.Fields {
		if f.IsValidated() {
			l.Check[i] = n.name(f.Name + "Validator")
		}
	}

	l.Param = n.name("v")

	return l
}
