// Package output renders check results for the terminal and for machines.
package output

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/microcosm-cc/bluemonday"

	"scrape-checker/internal/scraper"
)

// Printer writes status lines to out and errors to errOut.
// Quiet suppresses everything except warnings, errors and result data.
type Printer struct {
	out       io.Writer
	errOut    io.Writer
	quiet     bool
	color     bool
	sanitizer *bluemonday.Policy
}

func NewPrinter(out, errOut io.Writer, quiet, color bool) *Printer {
	return &Printer{
		out:       out,
		errOut:    errOut,
		quiet:     quiet,
		color:     color,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (p *Printer) paint(s string, colors ...text.Color) string {
	if !p.color {
		return s
	}
	return text.Colors(colors).Sprint(s)
}

func (p *Printer) status(s string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, s)
}

func (p *Printer) Success(format string, args ...any) {
	p.status(p.paint("✔ "+fmt.Sprintf(format, args...), text.FgGreen))
}

func (p *Printer) Info(format string, args ...any) {
	p.status(p.paint("ℹ "+fmt.Sprintf(format, args...), text.FgBlue))
}

func (p *Printer) Dim(format string, args ...any) {
	p.status(p.paint(fmt.Sprintf(format, args...), text.Faint))
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.paint("⚠ "+fmt.Sprintf(format, args...), text.FgYellow))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.paint("✖ "+fmt.Sprintf(format, args...), text.FgRed))
}

// Data writes s verbatim to out, regardless of quiet.
func (p *Printer) Data(s string) {
	fmt.Fprint(p.out, s)
	if !strings.HasSuffix(s, "\n") {
		fmt.Fprintln(p.out)
	}
}

// Clean strips markup and collapses whitespace so page text is safe to show
// on a terminal.
func (p *Printer) Clean(s string) string {
	return scraper.CleanWhitespace(html.UnescapeString(p.sanitizer.Sanitize(s)))
}
