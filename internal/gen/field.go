package gen

import (
	"fmt"
	"strings"

	"validgen/internal/schema"
)

// fieldCode holds the code fragments emitted for one field.
type fieldCode struct {
	Name      string
	Validated bool
	// RawDecl declares the raw struct member: "Name T `tag`".
	RawDecl string
	// Copy is the keyed element used when no field is validated: "name: raw.Name".
	Copy string
	// Assertion binds the validator to its required signature:
	// "var nameValidator func(T) (T, E) = <validator>".
	Assertion string
	// Eval runs the validator, or passes the raw value through.
	Eval string
	// Failed tests the bound error for failure.
	Failed string
	// Append adds the bound error to the error list.
	Append string
	// Init is the keyed element of the checked struct literal: "name: name".
	Init string
}

// errorCheck renders the failure test of one error value.
func errorCheck(s *schema.Schema, l locals, errVar string) string {
	if s.ErrorCheck == schema.ErrorCheckNil {
		return errVar + " != nil"
	}

	return errVar + " != " + l.NoErr
}

// noError is the value a guard validator returns on success.
func noError(s *schema.Schema, l locals) string {
	if s.ErrorCheck == schema.ErrorCheckNil {
		return "nil"
	}

	return l.NoErr
}

func buildFieldCode(s *schema.Schema, l locals, i int) fieldCode {
	f := s.Fields[i]
	value := l.Value[i]
	rawAccess := l.Receiver + "." + f.RawName

	fc := fieldCode{
		Name:      f.Name,
		Validated: f.IsValidated(),
		RawDecl:   f.RawName + " " + f.Type,
		Copy:      f.Name + ": " + rawAccess,
		Init:      f.Name + ": " + value,
		Eval:      value + " := " + rawAccess,
	}

	if f.Tag != "" {
		fc.RawDecl += " " + f.Tag
	}

	if !fc.Validated {
		return fc
	}

	errVar, check := l.Err[i], l.Check[i]

	fc.Assertion = fmt.Sprintf("var %s %s = %s",
		check, validatorSignature(f.Type, s.ErrorType), validatorExpr(s, l, f))
	fc.Eval = fmt.Sprintf("%s, %s := %s(%s)", value, errVar, check, rawAccess)
	fc.Failed = errorCheck(s, l, errVar)
	fc.Append = fmt.Sprintf("%s = append(%s, %s)", l.Errs, l.Errs, errVar)

	return fc
}

// validatorSignature is the function type every validator of a field must
// be assignable to.
func validatorSignature(fieldType, errorType string) string {
	return fmt.Sprintf("func(%s) (%s, %s)", fieldType, fieldType, errorType)
}

// validatorExpr renders the validator as written, or expands a guard
// into a function literal reporting the guard value when the predicate
// is false.
func validatorExpr(s *schema.Schema, l locals, f *schema.Field) string {
	v := f.Validator
	if !v.IsGuard() {
		return v.FuncSrc
	}

	pred := v.FuncSrc
	if v.Kind == schema.ValidatorInline {
		pred = "(" + pred + ")"
	}

	p := l.Param

	var b strings.Builder

	fmt.Fprintf(&b, "%s {\n", strings.Replace(validatorSignature(f.Type, s.ErrorType), "func(", "func("+p+" ", 1))
	fmt.Fprintf(&b, "if !%s(%s) {\n", pred, p)
	fmt.Fprintf(&b, "return %s, %s\n", p, v.GuardSrc)
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "return %s, %s\n", p, noError(s, l))
	b.WriteString("}")

	return b.String()
}
