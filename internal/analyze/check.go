package analyze

import (
	"go/constant"
	"go/token"
	"go/types"

	"validgen/internal/schema"
)

// Preflight checks a schema against the package's type information before
// any code is emitted. It refines s.ErrorCheck from the resolved error
// type, and reports a SignatureMismatch error for every validator that is
// definitely not assignable to func(T) (T, E).
//
// An error type that cannot be nil is compared against its zero value, so
// a failure equal to that value would pass as success. Zero-size error
// types and guard constants equal to the zero value are errors; every
// other such error type gets a warning.
//
// Expressions the type checker cannot evaluate only produce warnings; the
// assertion in the emitted code remains the authoritative check. Generic
// schemas and packages loaded without types are skipped.
func Preflight(pkg *Package, s *schema.Schema) (errs, warnings []*schema.Error) {
	if !pkg.HasTypes() || s.IsGeneric() || s.Spec == nil {
		return nil, nil
	}

	c := &preflight{pkg: pkg, s: s, pos: s.Spec.Pos()}

	errType, ok := c.errorType()
	if !ok {
		return c.errs, c.warnings
	}

	if nilable(errType) {
		s.ErrorCheck = schema.ErrorCheckNil
	} else {
		s.ErrorCheck = schema.ErrorCheckZero
		c.zeroValueFailures(errType)
	}

	for _, f := range s.ValidatedFields() {
		c.field(f, errType)
	}

	return c.errs, c.warnings
}

type preflight struct {
	pkg      *Package
	s        *schema.Schema
	pos      token.Pos
	errs     []*schema.Error
	warnings []*schema.Error
}

func (c *preflight) fail(code schema.Code, pos token.Position, field, format string, args ...any) {
	c.errs = append(c.errs, schema.NewError(code, pos, c.s.Name, field, format, args...))
}

func (c *preflight) warn(pos token.Position, field, format string, args ...any) {
	c.warnCode(schema.CodeUnresolved, pos, field, format, args...)
}

func (c *preflight) warnCode(code schema.Code, pos token.Position, field, format string, args ...any) {
	c.warnings = append(c.warnings, schema.NewError(code, pos, c.s.Name, field, format, args...))
}

func (c *preflight) eval(src string) (types.TypeAndValue, error) {
	return types.Eval(c.pkg.Fset, c.pkg.Types, c.pos, src)
}

func (c *preflight) errorType() (types.Type, bool) {
	tv, err := c.eval(c.s.ErrorType)
	if err != nil {
		c.warn(c.s.Pos, "", "cannot resolve error type %s: %v", c.s.ErrorType, err)
		return nil, false
	}

	if !tv.IsType() {
		c.fail(schema.CodeMalformedErrorType, c.s.Pos, "", "%s is not a type", c.s.ErrorType)
		return nil, false
	}

	return tv.Type, true
}

func (c *preflight) fieldType(f *schema.Field) (types.Type, bool) {
	if f.TypeExpr != nil {
		if t := c.pkg.TypesInfo.TypeOf(f.TypeExpr); t != nil {
			return t, true
		}
	}

	tv, err := c.eval(f.Type)
	if err != nil || !tv.IsType() {
		c.warn(f.Pos, f.Name, "cannot resolve field type %s", f.Type)
		return nil, false
	}

	return tv.Type, true
}

func (c *preflight) field(f *schema.Field, errType types.Type) {
	fieldType, ok := c.fieldType(f)
	if !ok {
		return
	}

	v := f.Validator

	fnv, ok := c.value(f, v.FuncSrc)
	if !ok {
		return
	}

	fn := fnv.Type

	if !v.IsGuard() {
		want := signature(tuple(c.pkg.Types, fieldType), tuple(c.pkg.Types, fieldType, errType))
		if !types.AssignableTo(fn, want) {
			c.fail(schema.CodeSignatureMismatch, v.Pos, f.Name,
				"validator %s has type %s, want %s", v.FuncSrc, c.typeString(fn), c.typeString(want))
		}

		return
	}

	pred := signature(tuple(c.pkg.Types, fieldType), tuple(c.pkg.Types, types.Typ[types.Bool]))
	if !types.AssignableTo(fn, pred) {
		c.fail(schema.CodeSignatureMismatch, v.Pos, f.Name,
			"guard predicate %s has type %s, want %s", v.FuncSrc, c.typeString(fn), c.typeString(pred))
	}

	guard, ok := c.value(f, v.GuardSrc)
	if !ok {
		return
	}

	if !assignable(guard.Type, errType) {
		c.fail(schema.CodeSignatureMismatch, v.Pos, f.Name,
			"guard value %s has type %s, want %s", v.GuardSrc, c.typeString(guard.Type), c.typeString(errType))

		return
	}

	if guard.Value != nil && !nilable(errType) && isZeroConstant(guard.Value) {
		c.fail(schema.CodeAmbiguousFailure, v.Pos, f.Name,
			"guard value %s equals the zero value of %s, which means success", v.GuardSrc, c.typeString(errType))
	}
}

// zeroValueFailures reports error types whose zero value may also be
// returned as a failure.
func (c *preflight) zeroValueFailures(errType types.Type) {
	if zeroSized(errType) {
		c.fail(schema.CodeAmbiguousFailure, c.s.Pos, "",
			"error type %s has no value other than its zero value, so no failure can be reported", c.typeString(errType))

		return
	}

	if name, ok := c.zeroConstant(errType); ok {
		c.warnCode(schema.CodeAmbiguousFailure, c.s.Pos, "",
			"constant %s equals the zero value of error type %s; a validator returning it reports success", name, c.typeString(errType))

		return
	}

	c.warnCode(schema.CodeAmbiguousFailure, c.s.Pos, "",
		"error type %s cannot be nil; a validator failing with its zero value reports success", c.typeString(errType))
}

// zeroConstant finds a package-level constant of type t equal to its zero
// value.
func (c *preflight) zeroConstant(t types.Type) (string, bool) {
	scope := c.pkg.Types.Scope()

	for _, name := range scope.Names() {
		k, ok := scope.Lookup(name).(*types.Const)
		if !ok || !types.Identical(k.Type(), t) {
			continue
		}

		if isZeroConstant(k.Val()) {
			return name, true
		}
	}

	return "", false
}

// value evaluates an expression that must denote a value.
func (c *preflight) value(f *schema.Field, src string) (types.TypeAndValue, bool) {
	tv, err := c.eval(src)
	if err != nil {
		c.warn(f.Validator.Pos, f.Name, "cannot resolve %s: %v", src, err)
		return tv, false
	}

	if tv.IsType() || tv.IsVoid() || tv.Type == nil {
		c.fail(schema.CodeSignatureMismatch, f.Validator.Pos, f.Name, "%s is not a value", src)
		return tv, false
	}

	return tv, true
}

func (c *preflight) typeString(t types.Type) string {
	return types.TypeString(t, types.RelativeTo(c.pkg.Types))
}

func tuple(pkg *types.Package, ts ...types.Type) *types.Tuple {
	vars := make([]*types.Var, len(ts))
	for i, t := range ts {
		vars[i] = types.NewParam(token.NoPos, pkg, "", t)
	}

	return types.NewTuple(vars...)
}

func signature(params, results *types.Tuple) *types.Signature {
	return types.NewSignatureType(nil, nil, nil, params, results, false)
}

// assignable also accepts untyped constants of a matching kind and nil
// for nilable types.
func assignable(v, t types.Type) bool {
	b, ok := v.(*types.Basic)
	if !ok || b.Info()&types.IsUntyped == 0 {
		return types.AssignableTo(v, t)
	}

	if b.Kind() == types.UntypedNil {
		return nilable(t)
	}

	if _, ok := t.Underlying().(*types.Interface); ok {
		return types.AssignableTo(types.Default(v), t)
	}

	u, ok := t.Underlying().(*types.Basic)
	if !ok {
		return false
	}

	switch {
	case b.Info()&types.IsBoolean != 0:
		return u.Info()&types.IsBoolean != 0
	case b.Info()&types.IsString != 0:
		return u.Info()&types.IsString != 0
	case b.Info()&types.IsNumeric != 0:
		return u.Info()&types.IsNumeric != 0
	}

	return false
}

var gcSizes = types.SizesFor("gc", "amd64")

func zeroSized(t types.Type) bool {
	return gcSizes.Sizeof(t) == 0
}

func isZeroConstant(v constant.Value) bool {
	switch v.Kind() {
	case constant.Bool:
		return !constant.BoolVal(v)
	case constant.String:
		return constant.StringVal(v) == ""
	case constant.Int, constant.Float, constant.Complex:
		return constant.Sign(v) == 0
	}

	return false
}

// nilable reports whether nil is a valid value of t.
func nilable(t types.Type) bool {
	switch u := t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return true
	case *types.Basic:
		return u.Kind() == types.UnsafePointer
	}

	return false
}
