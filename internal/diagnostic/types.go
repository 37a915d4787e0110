package diagnostic

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"validgen/internal/schema"
)

// Diagnostics holds all diagnostic information of a run.
type Diagnostics struct {
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
	Infos    []Diagnostic `json:"infos"`
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity `json:"severity"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `json:"code,omitempty"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// Schema names the type this relates to (if any).
	Schema string `json:"schema,omitempty"`
	// Field names the field this relates to (if any).
	Field string `json:"field,omitempty"`
	// File, Line and Column locate the diagnostic (if known).
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s DiagnosticSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *DiagnosticSeverity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "info":
		*s = DiagnosticInfo
	case "warning":
		*s = DiagnosticWarning
	case "error":
		*s = DiagnosticError
	default:
		return fmt.Errorf("unknown severity %q", b)
	}

	return nil
}

// FromSchemaError converts an analysis error or warning.
func FromSchemaError(severity DiagnosticSeverity, e *schema.Error) Diagnostic {
	d := Diagnostic{
		Severity: severity,
		Code:     string(e.Code),
		Message:  e.Message,
		Schema:   e.Schema,
		Field:    e.Field,
	}
	d.setPos(e.Pos)

	return d
}

func (d *Diagnostic) setPos(pos token.Position) {
	if !pos.IsValid() && pos.Filename == "" {
		return
	}

	d.File, d.Line, d.Column = pos.Filename, pos.Line, pos.Column
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, schemaName, field string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  message,
		Schema:   schemaName,
		Field:    field,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, schemaName, field string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Schema:   schemaName,
		Field:    field,
	})
}

// AddInfo adds an info diagnostic located in a file.
func (d *Diagnostics) AddInfo(code, message, file string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		File:     file,
	})
}

// AddSchemaErrors adds analysis failures as errors.
func (d *Diagnostics) AddSchemaErrors(errs ...*schema.Error) {
	for _, e := range errs {
		d.Errors = append(d.Errors, FromSchemaError(DiagnosticError, e))
	}
}

// AddSchemaWarnings adds analysis failures as warnings.
func (d *Diagnostics) AddSchemaWarnings(errs ...*schema.Error) {
	for _, e := range errs {
		d.Warnings = append(d.Warnings, FromSchemaError(DiagnosticWarning, e))
	}
}

// AddErr adds any error. A *schema.Error keeps its details.
func (d *Diagnostics) AddErr(err error) {
	var se *schema.Error
	if errors.As(err, &se) {
		d.AddSchemaErrors(se)
		return
	}

	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Message:  err.Error(),
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "\n"))
}

// Location returns "file:line:col", "file", or "".
func (d Diagnostic) Location() string {
	switch {
	case d.File == "":
		return ""
	case d.Line == 0:
		return d.File
	case d.Column == 0:
		return fmt.Sprintf("%s:%d", d.File, d.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", d.File, d.Line, d.Column)
	}
}

// Subject returns "Schema.Field", "Schema", or "".
func (d Diagnostic) Subject() string {
	if d.Field != "" {
		return d.Schema + "." + d.Field
	}

	return d.Schema
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if loc := d.Location(); loc != "" {
		prefix = append(prefix, loc+":")
	}

	if s := d.Subject(); s != "" {
		prefix = append(prefix, s+":")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + " " + msg
	}

	return msg
}
