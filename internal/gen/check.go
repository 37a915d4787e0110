package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DriftKind classifies an out-of-date generated file.
type DriftKind int

const (
	DriftChanged DriftKind = iota // file exists with different content
	DriftMissing                  // file should exist but does not
	DriftStale                    // file exists but nothing generates it any more
)

func (k DriftKind) String() string {
	switch k {
	case DriftChanged:
		return "changed"
	case DriftMissing:
		return "missing"
	case DriftStale:
		return "stale"
	default:
		return fmt.Sprintf("DriftKind(%d)", int(k))
	}
}

// Drift describes one generated file that does not match what is on disk.
type Drift struct {
	Path string
	Kind DriftKind
	// Diff holds the line diff from the file on disk to the expected content.
	Diff []diffmatchpatch.Diff
}

// CheckFiles compares generated files and stale outputs against the disk
// without writing anything.
func CheckFiles(files []GeneratedFile, stale []string) ([]Drift, error) {
	var drifts []Drift

	for _, file := range files {
		current, err := os.ReadFile(file.Path)
		if errors.Is(err, fs.ErrNotExist) {
			drifts = append(drifts, Drift{
				Path: file.Path,
				Kind: DriftMissing,
				Diff: LineDiff("", string(file.Content)),
			})

			continue
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file.Path, err)
		}

		if string(current) != string(file.Content) {
			drifts = append(drifts, Drift{
				Path: file.Path,
				Kind: DriftChanged,
				Diff: LineDiff(string(current), string(file.Content)),
			})
		}
	}

	for _, p := range stale {
		drifts = append(drifts, Drift{Path: p, Kind: DriftStale})
	}

	return drifts, nil
}

// LineDiff computes a line-oriented diff.
func LineDiff(from, to string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(a, b, false)

	return dmp.DiffCharsToLines(diffs, lines)
}

// FormatDiff renders a line diff in unified style, without hunk headers.
// Unchanged lines are elided beyond context lines around each change.
// paint may be nil; it receives each rendered line and its operation.
func FormatDiff(diffs []diffmatchpatch.Diff, context int, paint func(diffmatchpatch.Operation, string) string) string {
	type line struct {
		op   diffmatchpatch.Operation
		text string
	}

	var all []line

	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, l := range strings.Split(text, "\n") {
			all = append(all, line{op: d.Type, text: l})
		}
	}

	keep := make([]bool, len(all))

	for i, l := range all {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}

		for j := max(0, i-context); j <= min(len(all)-1, i+context); j++ {
			keep[j] = true
		}
	}

	var b strings.Builder

	elided := false

	for i, l := range all {
		if !keep[i] {
			if !elided {
				b.WriteString("...\n")
				elided = true
			}

			continue
		}

		elided = false

		prefix := " "

		switch l.op {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffEqual:
		}

		out := prefix + l.text
		if paint != nil {
			out = paint(l.op, out)
		}

		b.WriteString(out)
		b.WriteByte('\n')
	}

	return b.String()
}
