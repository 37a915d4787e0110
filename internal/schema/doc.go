// Package schema turns annotated struct declarations into analysed schemas.
//
// A schema is a struct type whose doc comment carries the
// //validgen:validated directive. Its fields may carry
// //validgen:validator directives, and the type may override the error
// type used by every validator with //validgen:error.
//
// Key types:
//   - Schema: one analysed struct, with its raw type name and error type
//   - Field: one named field, its declared type and Validator
//   - Validator: Named, Inline or None, optionally with a guard value
//   - Analyzer: analyses the marked types of one file
//
// Analysis never executes anything. Failures are *Error values that abort
// generation for the offending schema.
package schema
