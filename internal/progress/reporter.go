// Package progress reports progress of long-running site checks.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while pages are checked.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish(failed int)
}

// NewReporter returns a CIReporter when the CI environment variable is set,
// otherwise a TerminalReporter. Both write to w.
func NewReporter(w io.Writer, description string) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: w, Description: description}
	}
	return &TerminalReporter{Out: w, Description: description}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	Out         io.Writer
	Description string
	bar         *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.Out),
		progressbar.OptionSetDescription(r.Description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish(failed int) {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	if failed > 0 {
		fmt.Fprintf(r.Out, "%s: %d failed\n", r.Description, failed)
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	Out         io.Writer
	Description string
	total       int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.Out, "%s: %d pages\n", r.Description, total)
}

func (r *CIReporter) Update(current int, message string) {
	fmt.Fprintf(r.Out, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish(failed int) {
	if failed > 0 {
		fmt.Fprintf(r.Out, "%s: %d failed\n", r.Description, failed)
		return
	}
	fmt.Fprintf(r.Out, "%s: complete\n", r.Description)
}
