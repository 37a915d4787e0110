package schema

import (
	"go/ast"
)

// analyzeField builds one Field per declared name of an *ast.Field. All
// names of a field group share its type, tag and validator.
func (a *Analyzer) analyzeField(s *Schema, f *ast.Field) ([]*Field, error) {
	pos := a.fset.Position(f.Pos())
	typ := a.exprString(f.Type)

	if len(f.Names) == 0 {
		return nil, NewError(CodeAnonymousField, pos, s.Name, typ,
			"embedded field %s has no name", typ)
	}

	v, err := a.fieldValidator(s.Name, f)
	if err != nil {
		return nil, err
	}

	var tag string
	if f.Tag != nil {
		tag = f.Tag.Value
	}

	out := make([]*Field, 0, len(f.Names))

	for _, n := range f.Names {
		if n.Name == "_" {
			return nil, NewError(CodeAnonymousField, a.fset.Position(n.Pos()), s.Name, "_",
				"blank field of type %s has no name", typ)
		}

		out = append(out, &Field{
			Name:      n.Name,
			RawName:   ExportName(n.Name),
			Type:      typ,
			TypeExpr:  f.Type,
			Tag:       tag,
			Validator: v,
			ErrorType: s.ErrorType,
			Pos:       a.fset.Position(n.Pos()),
		})
	}

	return out, nil
}

// fieldValidator classifies the last //validgen:validator directive of a
// field. Doc comments come before the trailing line comment.
func (a *Analyzer) fieldValidator(schema string, f *ast.Field) (Validator, error) {
	d, ok := Last(Directives(f.Doc, f.Comment), KeyValidator)
	if !ok {
		return Validator{}, nil
	}

	pos := a.fset.Position(d.Pos)

	fieldName := ""
	if len(f.Names) > 0 {
		fieldName = f.Names[0].Name
	}

	v, ok := Classify(d.Arg)
	if !ok {
		e := NewError(CodeMalformedValidator, pos, schema, fieldName,
			"cannot parse validator %q", d.Arg)
		if a.opts.Strict {
			return Validator{}, e
		}

		e.Message += "; field left unvalidated"
		a.warn(e)

		return Validator{}, nil
	}

	v.Pos = pos

	return v, nil
}
