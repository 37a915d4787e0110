package schema

import (
	"errors"
	"fmt"
	"go/token"
)

// Code identifies a kind of analysis failure or warning.
type Code string

const (
	CodeAnonymousField     Code = "AnonymousField"
	CodeEnum               Code = "Enum"
	CodeUnion              Code = "Union"
	CodeAlias              Code = "Alias"
	CodeNotStruct          Code = "NotStruct"
	CodeUnitStruct         Code = "UnitStruct"
	CodePositionalStruct   Code = "PositionalStruct"
	CodeDuplicateRawField  Code = "DuplicateRawField"
	CodeMalformedErrorType Code = "MalformedErrorType"
	CodeMalformedValidator Code = "MalformedValidator"
	CodeUnknownDirective   Code = "UnknownDirective"
	CodeSignatureMismatch  Code = "SignatureMismatch"
	CodeUnresolved         Code = "Unresolved"
	CodeAmbiguousFailure   Code = "AmbiguousFailure"
)

// Sentinel errors, one per Code, for use with errors.Is.
var (
	ErrAnonymousField     = errors.New("anonymous field")
	ErrEnum               = errors.New("enum types are not supported")
	ErrUnion              = errors.New("union types are not supported")
	ErrAlias              = errors.New("type aliases are not supported")
	ErrNotStruct          = errors.New("not a struct type")
	ErrUnitStruct         = errors.New("unit structs are not supported")
	ErrPositionalStruct   = errors.New("structs without named fields are not supported")
	ErrDuplicateRawField  = errors.New("duplicate raw field")
	ErrMalformedErrorType = errors.New("malformed error type")
	ErrMalformedValidator = errors.New("malformed validator")
	ErrUnknownDirective   = errors.New("unknown directive")
	ErrSignatureMismatch  = errors.New("validator signature mismatch")
	ErrUnresolved         = errors.New("unresolved expression")
	ErrAmbiguousFailure   = errors.New("failure indistinguishable from success")
)

var sentinels = map[Code]error{
	CodeAnonymousField:     ErrAnonymousField,
	CodeEnum:               ErrEnum,
	CodeUnion:              ErrUnion,
	CodeAlias:              ErrAlias,
	CodeNotStruct:          ErrNotStruct,
	CodeUnitStruct:         ErrUnitStruct,
	CodePositionalStruct:   ErrPositionalStruct,
	CodeDuplicateRawField:  ErrDuplicateRawField,
	CodeMalformedErrorType: ErrMalformedErrorType,
	CodeMalformedValidator: ErrMalformedValidator,
	CodeUnknownDirective:   ErrUnknownDirective,
	CodeSignatureMismatch:  ErrSignatureMismatch,
	CodeUnresolved:         ErrUnresolved,
	CodeAmbiguousFailure:   ErrAmbiguousFailure,
}

// Error is a positioned analysis failure. Warnings use the same type.
type Error struct {
	Code    Code
	Pos     token.Position
	Schema  string
	Field   string
	Message string
}

// NewError creates an Error.
func NewError(code Code, pos token.Position, schema, field, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Pos:     pos,
		Schema:  schema,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Schema + "." + e.Field + ": " + msg
	} else if e.Schema != "" {
		msg = e.Schema + ": " + msg
	}

	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + msg
	}

	return msg
}

// Unwrap returns the sentinel for the error's code.
func (e *Error) Unwrap() error {
	return sentinels[e.Code]
}
