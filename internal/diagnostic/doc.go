// Package diagnostic collects positioned errors, warnings and infos of a
// validgen run and renders them for humans (optionally coloured) or as a
// JSON report.
//
// Analysis failures arrive as *schema.Error values; FromSchemaError keeps
// their code, position, schema and field.
package diagnostic
