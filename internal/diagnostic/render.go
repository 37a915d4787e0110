package diagnostic

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ShouldColor reports whether w is a terminal that should receive colour.
// NO_COLOR in the environment always disables it.
func ShouldColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer renders diagnostics for humans.
type Printer struct {
	w       io.Writer
	verbose bool

	severity map[DiagnosticSeverity]*color.Color
	loc      *color.Color
	code     *color.Color
}

// NewPrinter creates a Printer. Infos are only printed when verbose.
func NewPrinter(w io.Writer, colorize, verbose bool) *Printer {
	p := &Printer{
		w:       w,
		verbose: verbose,
		severity: map[DiagnosticSeverity]*color.Color{
			DiagnosticError:   color.New(color.FgRed, color.Bold),
			DiagnosticWarning: color.New(color.FgYellow, color.Bold),
			DiagnosticInfo:    color.New(color.FgCyan),
		},
		loc:  color.New(color.Bold),
		code: color.New(color.Faint),
	}

	for _, c := range p.all() {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

func (p *Printer) all() []*color.Color {
	out := []*color.Color{p.loc, p.code}
	for _, c := range p.severity {
		out = append(out, c)
	}

	return out
}

// Print writes errors, then warnings, then (verbose only) infos.
func (p *Printer) Print(d Diagnostics) error {
	groups := [][]Diagnostic{d.Errors, d.Warnings}
	if p.verbose {
		groups = append(groups, d.Infos)
	}

	for _, group := range groups {
		for _, diag := range group {
			if err := p.PrintOne(diag); err != nil {
				return err
			}
		}
	}

	return nil
}

// PrintOne writes a single diagnostic line.
func (p *Printer) PrintOne(d Diagnostic) error {
	line := ""
	if loc := d.Location(); loc != "" {
		line = p.loc.Sprint(loc) + ": "
	}

	line += p.severity[d.Severity].Sprint(d.Severity.String())
	if d.Code != "" {
		line += p.code.Sprintf("[%s]", d.Code)
	}

	line += ": "

	if s := d.Subject(); s != "" {
		line += s + ": "
	}

	_, err := fmt.Fprintln(p.w, line+d.Message)

	return err
}

// Summary writes "N errors, M warnings" when there is anything to report.
func (p *Printer) Summary(d Diagnostics) error {
	if len(d.Errors) == 0 && len(d.Warnings) == 0 {
		return nil
	}

	_, err := fmt.Fprintf(p.w, "%s, %s\n",
		p.severity[DiagnosticError].Sprint(plural(len(d.Errors), "error")),
		p.severity[DiagnosticWarning].Sprint(plural(len(d.Warnings), "warning")))

	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}

	return fmt.Sprintf("%d %ss", n, word)
}
