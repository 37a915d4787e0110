package gen

import (
	"path/filepath"
	"strconv"
	"strings"

	"validgen/internal/schema"
)

// templateData holds all data needed for one generated file.
type templateData struct {
	PackageName      string
	Source           string
	BuildConstraint  string
	Imports          []Import
	Schemas          []schemaData
	GenerateComments bool
}

// schemaData holds the generated code of one schema.
type schemaData struct {
	Name       string
	RawName    string
	TypeParams string
	TypeArgs   string
	Method     string
	Receiver   string
	ErrorType  string
	NoErr      string
	Errs       string
	Fields     []fieldCode
	// Validated counts the validated fields.
	Validated int
	// Failed is the disjunction of every validated field's failure test.
	Failed string
	// CopyLit builds the checked value straight from the raw fields.
	CopyLit string
	// InitLit builds the checked value from the evaluated locals.
	InitLit string
}

// buildTemplateData constructs the template data of one unit.
func (g *Generator) buildTemplateData(u Unit) *templateData {
	data := &templateData{
		PackageName:      u.PackageName,
		Source:           filepath.Base(u.SourcePath),
		BuildConstraint:  u.BuildConstraint,
		Imports:          u.Imports,
		GenerateComments: g.config.GenerateComments,
	}

	for _, s := range u.Schemas {
		data.Schemas = append(data.Schemas, g.buildSchemaData(s))
	}

	return data
}

func (g *Generator) buildSchemaData(s *schema.Schema) schemaData {
	l := allocateLocals(s, g.config.ReceiverName)
	typeArgs := typeArgs(s)

	sd := schemaData{
		Name:       s.Name,
		RawName:    s.RawName,
		TypeParams: typeParams(s),
		TypeArgs:   typeArgs,
		Method:     g.config.MethodName,
		Receiver:   l.Receiver,
		ErrorType:  s.ErrorType,
		NoErr:      l.NoErr,
		Errs:       l.Errs,
	}

	var failed, copies, inits []string

	for i := range s.Fields {
		fc := buildFieldCode(s, l, i)
		sd.Fields = append(sd.Fields, fc)

		copies = append(copies, fc.Copy)
		inits = append(inits, fc.Init)

		if fc.Validated {
			sd.Validated++
			failed = append(failed, fc.Failed)
		}
	}

	sd.Failed = strings.Join(failed, " || ")
	sd.CopyLit = s.Name + typeArgs + "{" + strings.Join(copies, ", ") + "}"
	sd.InitLit = s.Name + typeArgs + "{" + strings.Join(inits, ", ") + "}"

	// The sentinel is only referenced when something is validated.
	if sd.Validated == 0 {
		sd.NoErr = ""
	}

	return sd
}

// typeParams renders the type parameter list with constraints: "[K comparable, V any]".
func typeParams(s *schema.Schema) string {
	if !s.IsGeneric() {
		return ""
	}

	groups := make([]string, 0, len(s.TypeParams))
	for _, tp := range s.TypeParams {
		groups = append(groups, strings.Join(tp.Names, ", ")+" "+tp.Constraint)
	}

	// "[P *C]" would parse as an array length expression.
	if len(groups) == 1 && len(s.TypeParams[0].Names) == 1 &&
		strings.HasPrefix(s.TypeParams[0].Constraint, "*") {
		return "[" + groups[0] + ",]"
	}

	return "[" + strings.Join(groups, ", ") + "]"
}

// typeArgs renders the instantiation with the schema's own parameters: "[K, V]".
func typeArgs(s *schema.Schema) string {
	if !s.IsGeneric() {
		return ""
	}

	return "[" + strings.Join(s.TypeParamNames(), ", ") + "]"
}

// importLine renders one import spec.
func importLine(imp Import) string {
	if imp.Name != "" {
		return imp.Name + " " + strconv.Quote(imp.Path)
	}

	return strconv.Quote(imp.Path)
}
