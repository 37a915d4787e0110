package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/build/constraint"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files next to their sources. Files whose
// content is already up to date are left untouched; the written paths are
// returned.
func WriteFiles(files []GeneratedFile) ([]string, error) {
	var written []string

	for _, file := range files {
		current, err := os.ReadFile(file.Path)
		if err == nil && string(current) == string(file.Content) {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(file.Path), dirPerm); err != nil {
			return written, fmt.Errorf("creating output directory: %w", err)
		}

		if err := os.WriteFile(file.Path, file.Content, filePerm); err != nil {
			return written, fmt.Errorf("writing file %s: %w", file.Path, err)
		}

		written = append(written, file.Path)
	}

	return written, nil
}

// RemoveFiles deletes stale generated files. Missing files are ignored.
func RemoveFiles(paths []string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing stale file %s: %w", p, err)
		}
	}

	return nil
}

// writeSidecar saves output that failed to format as
// <name>.unformatted.go next to out, excluded from builds. A build
// constraint copied from the source is dropped; a file may carry only one.
func writeSidecar(out string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(out), dirPerm); err != nil {
		return err
	}

	var b bytes.Buffer

	b.WriteString("//go:build ignore\n\n")

	for _, line := range bytes.SplitAfter(content, []byte("\n")) {
		if constraint.IsGoBuild(string(bytes.TrimRight(line, "\r\n"))) {
			continue
		}

		b.Write(line)
	}

	p := strings.TrimSuffix(out, ".go") + ".unformatted.go"

	return os.WriteFile(p, b.Bytes(), filePerm)
}

// PrintFiles writes every file to w, each preceded by a path banner.
func PrintFiles(w io.Writer, files []GeneratedFile) error {
	for _, file := range files {
		if _, err := fmt.Fprintf(w, "// ---- %s ----\n%s\n", file.Path, file.Content); err != nil {
			return err
		}
	}

	return nil
}

// StaleOutputs lists generated files in dir (by name and header) that are
// not in keep. An output is stale when its source was analysed (listed in
// sources) or no longer exists. A source present on disk but not analysed,
// such as one excluded by build constraints, keeps its output.
func StaleOutputs(dir, suffix string, keep, sources map[string]bool) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var stale []string

	for _, m := range matches {
		source, ok := SourcePath(m, suffix)
		if !ok || keep[m] {
			continue
		}

		content, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", m, err)
		}

		if !IsGenerated(content) {
			continue
		}

		if !sources[source] {
			_, err := os.Stat(source)
			if err == nil {
				continue
			}

			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("checking source of %s: %w", m, err)
			}
		}

		stale = append(stale, m)
	}

	return stale, nil
}
