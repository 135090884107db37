// Package report renders conformance results and coercion tables for
// humans (aligned, optionally coloured text) and for machines (JSON and
// msgpack files).
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"coerce/internal/conformance"
)

// Palette holds the colours used by text output. A disabled palette
// prints plain text.
type Palette struct {
	Pass  *color.Color
	Fail  *color.Color
	Skip  *color.Color
	Dim   *color.Color
	Title *color.Color
}

// NewPalette builds a palette; enabled forces colour on or off regardless
// of the terminal.
func NewPalette(enabled bool) Palette {
	p := Palette{
		Pass:  color.New(color.FgGreen, color.Bold),
		Fail:  color.New(color.FgRed, color.Bold),
		Skip:  color.New(color.FgYellow),
		Dim:   color.New(color.Faint),
		Title: color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.Pass, p.Fail, p.Skip, p.Dim, p.Title} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// SummaryOptions controls WriteSummary.
type SummaryOptions struct {
	Palette Palette
	// Verbose lists every case, not only failures.
	Verbose bool
	// Quiet prints only the final totals line.
	Quiet bool
}

// WriteSummary prints one line per file, the failing cases with their
// expected and actual values, and a totals line.
func WriteSummary(w io.Writer, sum *conformance.Summary, opts SummaryOptions) error {
	p := opts.Palette
	if p.Pass == nil {
		p = NewPalette(false)
	}
	ew := &errWriter{w: w}

	if !opts.Quiet {
		for i := range sum.Files {
			writeFile(ew, &sum.Files[i], p, opts.Verbose)
		}
		if len(sum.Files) > 0 {
			ew.printf("\n")
		}
	}

	status := p.Pass.Sprint("ok")
	if !sum.OK() {
		status = p.Fail.Sprint("FAIL")
	}
	ew.printf("%s  %d passed, %d failed, %d skipped", status, sum.Passed, sum.Failed, sum.Skipped)
	if sum.Errored > 0 {
		ew.printf(", %s", p.Fail.Sprintf("%d file(s) unreadable", sum.Errored))
	}
	if sum.Aborted {
		ew.printf(" %s", p.Skip.Sprint("(stopped early)"))
	}
	ew.printf(" %s\n", p.Dim.Sprint(roundDuration(sum.Elapsed)))
	return ew.err
}

func writeFile(ew *errWriter, f *conformance.FileResult, p Palette, verbose bool) {
	passed, failed, skipped := f.Counts()
	switch {
	case f.Err != "":
		ew.printf("%s %s\n", p.Fail.Sprint("ERROR"), f.Path)
		ew.printf("      %s\n", f.Err)
		return
	case f.Cancelled && len(f.Cases) == 0:
		ew.printf("%s  %s\n", p.Skip.Sprint("SKIP"), f.Path)
		return
	case failed > 0:
		ew.printf("%s  %s", p.Fail.Sprint("FAIL"), f.Path)
	default:
		ew.printf("%s  %s", p.Pass.Sprint("PASS"), f.Path)
	}
	ew.printf(" %s\n", p.Dim.Sprintf("(%d passed, %d failed, %d skipped, %s)", passed, failed, skipped, roundDuration(f.Elapsed)))

	for _, c := range f.Cases {
		switch {
		case c.Status == conformance.CaseFail:
			ew.printf("      %s %s: %s\n", p.Fail.Sprint("✗"), c.Name, c.Message)
			ew.printf("          want: %s\n", c.Want)
			ew.printf("          got:  %s\n", c.Got)
		case verbose && c.Status == conformance.CaseSkip:
			ew.printf("      %s %s %s\n", p.Skip.Sprint("-"), c.Name, p.Dim.Sprintf("(%s)", c.Message))
		case verbose:
			ew.printf("      %s %s\n", p.Pass.Sprint("✓"), c.Name)
		}
	}
}

func roundDuration(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		return d.Round(time.Millisecond)
	case d > time.Millisecond:
		return d.Round(10 * time.Microsecond)
	default:
		return d.Round(time.Microsecond)
	}
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
