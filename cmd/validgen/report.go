package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"validgen/internal/diagnostic"
	"validgen/internal/gen"
	"validgen/internal/pipeline"
)

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 3

type reporter struct {
	stdout, stderr io.Writer
	asJSON         bool
	verbose        bool
	colorize       bool
}

func (r *reporter) report(res *pipeline.Result, mode pipeline.Mode) error {
	if r.asJSON {
		return r.writeJSON(diagnostic.Report{
			Diagnostics: res.Diagnostics,
			Files:       res.Statuses(mode),
		})
	}

	p := diagnostic.NewPrinter(r.stderr, r.colorize, r.verbose)
	if err := p.Print(res.Diagnostics); err != nil {
		return err
	}

	if err := r.drifts(res.Drifts); err != nil {
		return err
	}

	if r.verbose && mode == pipeline.ModeWrite {
		for _, path := range res.Written {
			if _, err := fmt.Fprintf(r.stderr, "wrote %s\n", path); err != nil {
				return err
			}
		}
	}

	return p.Summary(res.Diagnostics)
}

func (r *reporter) writeJSON(rep diagnostic.Report) error {
	return diagnostic.WriteJSON(r.stdout, rep)
}

// drifts prints each out-of-date file followed by its diff.
func (r *reporter) drifts(drifts []gen.Drift) error {
	header := color.New(color.Bold)
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)

	for _, c := range []*color.Color{header, added, removed} {
		if r.colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	paint := func(op diffmatchpatch.Operation, line string) string {
		switch op {
		case diffmatchpatch.DiffInsert:
			return added.Sprint(line)
		case diffmatchpatch.DiffDelete:
			return removed.Sprint(line)
		case diffmatchpatch.DiffEqual:
		}

		return line
	}

	for _, d := range drifts {
		if _, err := fmt.Fprintln(r.stderr, header.Sprintf("%s: %s", d.Path, d.Kind)); err != nil {
			return err
		}

		if len(d.Diff) == 0 {
			continue
		}

		if _, err := io.WriteString(r.stderr, gen.FormatDiff(d.Diff, diffContext, paint)); err != nil {
			return err
		}
	}

	return nil
}
