package schema

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"unicode"
	"unicode/utf8"
)

// Defaults used when Options leave a value empty.
const (
	DefaultRawPrefix = "Unvalidated"
	DefaultErrorType = "error"
)

// Options configures schema analysis.
type Options struct {
	// RawPrefix is prepended to the checked type's name to name the raw type.
	RawPrefix string
	// DefaultErrorType is used when no //validgen:error directive is present.
	DefaultErrorType string
	// Strict turns unparsable validator payloads into errors instead of
	// unvalidated fields.
	Strict bool
}

// DefaultOptions returns the default analysis options.
func DefaultOptions() Options {
	return Options{
		RawPrefix:        DefaultRawPrefix,
		DefaultErrorType: DefaultErrorType,
	}
}

// Analyzer analyses the annotated types of one file. It is not safe for
// concurrent use; create one per file.
type Analyzer struct {
	fset     *token.FileSet
	opts     Options
	warnings []*Error
}

// NewAnalyzer creates an Analyzer. Empty option values fall back to the
// defaults.
func NewAnalyzer(fset *token.FileSet, opts Options) *Analyzer {
	if opts.RawPrefix == "" {
		opts.RawPrefix = DefaultRawPrefix
	}

	if opts.DefaultErrorType == "" {
		opts.DefaultErrorType = DefaultErrorType
	}

	return &Analyzer{fset: fset, opts: opts}
}

// Warnings returns the warnings collected so far.
func (a *Analyzer) Warnings() []*Error {
	return a.warnings
}

func (a *Analyzer) warn(e *Error) {
	a.warnings = append(a.warnings, e)
}

// Analyze builds the Schema of one type declaration. decl may be nil when
// the TypeSpec's own doc comment carries the directives.
func (a *Analyzer) Analyze(decl *ast.GenDecl, spec *ast.TypeSpec) (*Schema, error) {
	name := spec.Name.Name
	pos := a.fset.Position(spec.Pos())

	st, err := a.checkShape(spec)
	if err != nil {
		return nil, err
	}

	errType, errExpr, err := a.resolveErrorType(name, typeDocDirectives(decl, spec))
	if err != nil {
		return nil, err
	}

	s := &Schema{
		Name:          name,
		RawName:       RawName(a.opts.RawPrefix, name),
		Exported:      token.IsExported(name),
		TypeParams:    a.typeParams(spec.TypeParams),
		ErrorType:     errType,
		ErrorTypeExpr: errExpr,
		ErrorCheck:    ErrorCheckFor(errExpr),
		Pos:           pos,
		Spec:          spec,
	}

	seen := make(map[string]*Field)

	for _, astField := range st.Fields.List {
		fields, err := a.analyzeField(s, astField)
		if err != nil {
			return nil, err
		}

		for _, f := range fields {
			if prev, dup := seen[f.RawName]; dup {
				return nil, NewError(CodeDuplicateRawField, f.Pos, name, f.Name,
					"raw field name %s is also used by field %s", f.RawName, prev.Name)
			}

			seen[f.RawName] = f
			s.Fields = append(s.Fields, f)
		}
	}

	return s, nil
}

// checkShape accepts only a defined struct type with at least one named field.
func (a *Analyzer) checkShape(spec *ast.TypeSpec) (*ast.StructType, error) {
	name := spec.Name.Name
	pos := a.fset.Position(spec.Pos())

	if spec.Assign.IsValid() {
		return nil, NewError(CodeAlias, pos, name, "",
			"validgen is not supported on type aliases")
	}

	switch t := spec.Type.(type) {
	case *ast.StructType:
		if t.Fields == nil || len(t.Fields.List) == 0 {
			return nil, NewError(CodeUnitStruct, pos, name, "",
				"validgen is not supported on unit structs")
		}

		for _, f := range t.Fields.List {
			if len(f.Names) > 0 {
				return t, nil
			}
		}

		return nil, NewError(CodePositionalStruct, pos, name, "",
			"validgen is not supported on structs with only embedded fields")

	case *ast.InterfaceType:
		return nil, NewError(CodeUnion, pos, name, "",
			"validgen is not supported on interface (union) types")

	case *ast.Ident, *ast.SelectorExpr, *ast.IndexExpr, *ast.IndexListExpr:
		return nil, NewError(CodeEnum, pos, name, "",
			"validgen is not supported on enum-like named types (%s)", a.exprString(t))

	default:
		return nil, NewError(CodeNotStruct, pos, name, "",
			"validgen requires a struct type, got %s", a.exprString(t))
	}
}

// resolveErrorType applies the last //validgen:error directive, or the
// configured default.
func (a *Analyzer) resolveErrorType(schema string, ds []Directive) (string, ast.Expr, error) {
	d, ok := Last(ds, KeyError)
	if !ok {
		expr, err := parser.ParseExpr(a.opts.DefaultErrorType)
		if err != nil {
			return "", nil, NewError(CodeMalformedErrorType, token.Position{}, schema, "",
				"default error type %q does not parse: %v", a.opts.DefaultErrorType, err)
		}

		return a.opts.DefaultErrorType, expr, nil
	}

	pos := a.fset.Position(d.Pos)
	if d.Arg == "" {
		return "", nil, NewError(CodeMalformedErrorType, pos, schema, "",
			"%s%s requires a type", DirectivePrefix, KeyError)
	}

	expr, err := parser.ParseExpr(d.Arg)
	if err != nil || !isTypeExpr(expr) {
		return "", nil, NewError(CodeMalformedErrorType, pos, schema, "",
			"%q is not a type expression", d.Arg)
	}

	return d.Arg, expr, nil
}

func (a *Analyzer) typeParams(list *ast.FieldList) []TypeParam {
	if list == nil {
		return nil
	}

	var out []TypeParam

	for _, f := range list.List {
		tp := TypeParam{Constraint: a.exprString(f.Type)}
		for _, n := range f.Names {
			tp.Names = append(tp.Names, n.Name)
		}

		out = append(out, tp)
	}

	return out
}

func (a *Analyzer) exprString(expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, a.fset, expr); err != nil {
		return ""
	}

	return buf.String()
}

// typeDocDirectives collects directives from the declaration doc (only
// when it documents this spec alone) and the spec doc.
func typeDocDirectives(decl *ast.GenDecl, spec *ast.TypeSpec) []Directive {
	var groups []*ast.CommentGroup
	if decl != nil && len(decl.Specs) == 1 {
		groups = append(groups, decl.Doc)
	}

	groups = append(groups, spec.Doc)

	return Directives(groups...)
}

// RawName derives the raw type name. The raw type keeps the checked
// type's visibility.
func RawName(prefix, name string) string {
	if token.IsExported(name) {
		return upperFirst(prefix) + name
	}

	return lowerFirst(prefix) + upperFirst(name)
}

// ExportName returns the exported form of a field name.
func ExportName(name string) string {
	out := upperFirst(name)
	if !token.IsExported(out) {
		// Letters without case (e.g. ideographs) cannot be exported.
		return "X" + out
	}

	return out
}

// ErrorCheckFor classifies an error type expression syntactically.
func ErrorCheckFor(expr ast.Expr) ErrorCheck {
	switch e := ast.Unparen(expr).(type) {
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return ErrorCheckNil
	case *ast.ArrayType:
		if e.Len == nil {
			return ErrorCheckNil
		}
	case *ast.Ident:
		if e.Name == "error" || e.Name == "any" {
			return ErrorCheckNil
		}
	}

	return ErrorCheckZero
}

func isTypeExpr(expr ast.Expr) bool {
	switch e := ast.Unparen(expr).(type) {
	case *ast.Ident:
		return e.Name != "_" && e.Name != "nil"
	case *ast.SelectorExpr:
		_, ok := e.X.(*ast.Ident)
		return ok
	case *ast.StarExpr:
		return isTypeExpr(e.X)
	case *ast.IndexExpr:
		return isTypeExpr(e.X)
	case *ast.IndexListExpr:
		return isTypeExpr(e.X)
	case *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType,
		*ast.InterfaceType, *ast.StructType:
		return true
	}

	return false
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}
