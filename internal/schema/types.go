package schema

import (
	"go/ast"
	"go/token"
)

//go:generate go tool stringer -type=ValidatorKind -trimprefix=Validator -output=kind_string.go
//go:generate go tool stringer -type=ErrorCheck -trimprefix=ErrorCheck -output=errorcheck_string.go

// ValidatorKind classifies a field validator.
type ValidatorKind int

const (
	ValidatorNone   ValidatorKind = iota // field is passed through unchecked
	ValidatorNamed                       // reference to a function in scope, or a call producing one
	ValidatorInline                      // function literal
)

// ErrorCheck tells the emitter how to recognise a failed validation.
type ErrorCheck int

const (
	ErrorCheckZero ErrorCheck = iota // compare against the zero value of the error type
	ErrorCheckNil                    // compare against nil
)

// Validator is the function attached to a field. Conceptually it has the
// type func(T) (T, E), with T the field type and E the schema error type.
//
// In guard form Func is a predicate func(T) bool and Guard is the value
// of type E reported when the predicate is false.
type Validator struct {
	Kind     ValidatorKind
	Func     ast.Expr
	FuncSrc  string
	Guard    ast.Expr
	GuardSrc string
	// Source is the directive payload as written.
	Source string
	Pos    token.Position
}

// IsSome reports whether a validator is attached.
func (v Validator) IsSome() bool {
	return v.Kind != ValidatorNone
}

// IsGuard reports whether the validator is a predicate plus error value.
func (v Validator) IsGuard() bool {
	return v.IsSome() && v.Guard != nil
}

// Field is one named member of a Schema.
type Field struct {
	// Name is the field name as declared in the checked struct.
	Name string
	// RawName is the exported name used in the raw struct.
	RawName string
	// Type is the declared type, printed exactly as written.
	Type     string
	TypeExpr ast.Expr
	// Tag is the struct tag literal including its quotes, or "".
	Tag       string
	Validator Validator
	// ErrorType is the owning schema's error type. Set once at
	// construction.
	ErrorType string
	Pos       token.Position
}

// IsValidated reports whether the field has a validator.
func (f *Field) IsValidated() bool {
	return f.Validator.IsSome()
}

// TypeParam is one type parameter group, e.g. "K, V comparable".
type TypeParam struct {
	Names      []string
	Constraint string
}

// Schema is one analysed struct declaration.
type Schema struct {
	Name    string
	RawName string
	// Exported mirrors the visibility of the checked type.
	Exported   bool
	TypeParams []TypeParam
	Fields     []*Field
	// ErrorType is the effective error type expression, printed.
	ErrorType     string
	ErrorTypeExpr ast.Expr
	ErrorCheck    ErrorCheck
	Pos           token.Position
	// Spec is the declaration the schema was built from.
	Spec *ast.TypeSpec
}

// IsGeneric reports whether the schema declares type parameters.
func (s *Schema) IsGeneric() bool {
	return len(s.TypeParams) > 0
}

// HasValidatedFields reports whether at least one field is validated.
func (s *Schema) HasValidatedFields() bool {
	for _, f := range s.Fields {
		if f.IsValidated() {
			return true
		}
	}

	return false
}

// ValidatedFields returns the validated fields in declaration order.
func (s *Schema) ValidatedFields() []*Field {
	var out []*Field

	for _, f := range s.Fields {
		if f.IsValidated() {
			out = append(out, f)
		}
	}

	return out
}

// TypeParamNames returns every type parameter name in declaration order.
func (s *Schema) TypeParamNames() []string {
	var names []string
	for _, tp := range s.TypeParams {
		names = append(names, tp.Names...)
	}

	return names
}
