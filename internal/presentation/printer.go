// Package presentation renders run progress, summaries and target
// listings for the terminal.
package presentation

import (
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"

	"github.com/awkspace/runfile/internal/timeutil"
	"github.com/awkspace/runfile/pkg/domain"
)

// Printer writes per-target status lines and the final run summary.
type Printer struct {
	out     io.Writer
	profile termenv.Profile
}

// NewPrinter creates a printer for the given writer. The color profile is
// detected from the environment; pass termenv.Ascii to disable color.
func NewPrinter(out io.Writer, profile termenv.Profile) *Printer {
	return &Printer{out: out, profile: profile}
}

func (p *Printer) green(s string) string {
	return termenv.String(s).Foreground(p.profile.Color("2")).String()
}

func (p *Printer) red(s string) string {
	return termenv.String(s).Foreground(p.profile.Color("1")).String()
}

func (p *Printer) cyan(s string) string {
	return termenv.String(s).Foreground(p.profile.Color("6")).String()
}

// Executing announces that a target is about to run.
func (p *Printer) Executing(name string) {
	fmt.Fprintf(p.out, "⏳ Executing target %s...\n", name)
}

// Status prints the outcome line for a named target's result.
func (p *Printer) Status(result *domain.TargetResult) {
	if result.Name == "" {
		return
	}
	switch result.Status {
	case domain.StatusSuccess:
		fmt.Fprintf(p.out, "%s Completed %s. (%s)\n\n",
			p.green("✔"), result.Name, timeutil.Humanize(result.Duration()))
	case domain.StatusFailure:
		fmt.Fprintf(p.out, "%s Failed executing %s. (%s)\n\n",
			p.red("✘"), result.Name, timeutil.Humanize(result.Duration()))
	case domain.StatusCached:
		fmt.Fprintf(p.out, "%s Used cache for %s\n\n", p.cyan("●"), result.Name)
	}
}

// Summary prints the overall run trailer followed by one status line per
// result. Results for unnamed setup targets are skipped.
func (p *Printer) Summary(results []*domain.TargetResult, started time.Time) {
	if len(results) == 0 {
		return
	}
	status := p.green("SUCCESS")
	if results[len(results)-1].Status == domain.StatusFailure {
		status = p.red("FAILURE")
	}
	fmt.Fprintf(p.out, "%s in %s\n", status, timeutil.Humanize(time.Since(started)))
	fmt.Fprintln(p.out, "---")
	for _, result := range results {
		p.Status(result)
	}
}
