package style

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"

	"github.com/hostup/hostup/pkg/action"
	"github.com/hostup/hostup/pkg/txn"
)

// Printer renders run output. Quiet suppresses everything except errors.
type Printer struct {
	out   io.Writer
	quiet bool
	color bool
}

// NewPrinter creates a printer for stdout, detecting color support
func NewPrinter(quiet bool) *Printer {
	color := isatty.IsTerminal(os.Stdout.Fd()) &&
		termenv.DefaultOutput().ColorProfile() != termenv.Ascii
	if !color {
		pterm.DisableColor()
	}
	return &Printer{out: os.Stdout, quiet: quiet, color: color}
}

// NewPrinterTo creates a printer for an arbitrary writer (tests)
func NewPrinterTo(out io.Writer, quiet bool) *Printer {
	return &Printer{out: out, quiet: quiet}
}

// Header prints a section banner
func (p *Printer) Header(text string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, TitleStyle.Render(text))
}

// Info prints a plain informational line
func (p *Printer) Info(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Error prints an error line; never suppressed
func (p *Printer) Error(err error) {
	fmt.Fprintf(p.out, "%s %s\n", ErrorStyle.Render("✗"), err.Error())
}

// ActionLine prints one action's outcome
func (p *Printer) ActionLine(r action.Result) {
	if p.quiet {
		return
	}
	switch r.Outcome {
	case action.OutcomeApplied:
		fmt.Fprintf(p.out, "  %s %s\n", SuccessStyle.Render("✓"), r.Action)
	case action.OutcomeAlreadySatisfied:
		fmt.Fprintf(p.out, "  %s %s %s\n", MutedStyle.Render("="), r.Action,
			MutedStyle.Render("(already satisfied)"))
	case action.OutcomeFailed:
		fmt.Fprintf(p.out, "  %s %s: %v\n", ErrorStyle.Render("✗"), r.Action, r.Err)
	default:
		fmt.Fprintf(p.out, "  %s %s %s\n", MutedStyle.Render("-"), r.Action,
			MutedStyle.Render("(skipped)"))
	}
}

// CheckLine prints one check outcome in preview mode
func (p *Printer) CheckLine(c txn.CheckResult) {
	if p.quiet {
		return
	}
	switch {
	case c.Err != nil:
		fmt.Fprintf(p.out, "  %s %s: %v\n", ErrorStyle.Render("✗"), c.Action, c.Err)
	case c.Status == action.StatusSatisfied:
		fmt.Fprintf(p.out, "  %s %s\n", SuccessStyle.Render("✓"), c.Action)
	default:
		fmt.Fprintf(p.out, "  %s %s %s\n", WarningStyle.Render("○"), c.Action,
			MutedStyle.Render("(would apply)"))
	}
}

// RunSummary prints the per-group outcomes of a run
func (p *Printer) RunSummary(result *txn.RunResult) {
	for i := range result.Groups {
		g := &result.Groups[i]
		if p.quiet && g.Err == nil {
			continue
		}
		if g.Err != nil {
			fmt.Fprintf(p.out, "%s %s\n", ErrorStyle.Render("✗"), g.Group)
			p.Error(g.Err)
			if g.RolledBack {
				fmt.Fprintf(p.out, "  %s\n", WarningStyle.Render("committed actions were rolled back"))
			}
			continue
		}
		if !p.quiet {
			fmt.Fprintf(p.out, "%s %s\n", SuccessStyle.Render("✓"), g.Group)
			for _, r := range g.Results {
				p.ActionLine(r)
			}
		}
	}
}
