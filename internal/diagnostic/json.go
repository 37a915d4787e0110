package diagnostic

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// FileStatus is what a run did, or would do, to one generated file.
type FileStatus struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// Report is the machine-readable result of a run.
type Report struct {
	Diagnostics
	Files []FileStatus `json:"files"`
}

// WriteJSON writes the report as indented JSON. Empty lists are encoded
// as [] rather than null.
func WriteJSON(w io.Writer, r Report) error {
	r.Errors = nonNil(r.Errors)
	r.Warnings = nonNil(r.Warnings)
	r.Infos = nonNil(r.Infos)
	r.Files = nonNil(r.Files)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	return nil
}

// ReadJSON decodes a report written by WriteJSON.
func ReadJSON(r io.Reader) (Report, error) {
	var out Report
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return Report{}, fmt.Errorf("decoding report: %w", err)
	}

	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
