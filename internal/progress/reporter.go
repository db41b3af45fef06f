// Package progress reports long-running history exports on stderr.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while paging through history.
type Reporter interface {
	// Start begins reporting. total <= 0 means the total is unknown.
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter(description string) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Description: description, W: os.Stderr}
	}
	return &TerminalReporter{Description: description}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	Description string
	bar         *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	if total <= 0 {
		total = -1 // spinner
	}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
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

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	Description string
	W           io.Writer
	total       int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	if total > 0 {
		fmt.Fprintf(r.W, "%s: starting, %d expected\n", r.Description, total)
		return
	}
	fmt.Fprintf(r.W, "%s: starting\n", r.Description)
}

func (r *CIReporter) Update(current int, message string) {
	if r.total > 0 {
		fmt.Fprintf(r.W, "[%d/%d] %s\n", current, r.total, message)
		return
	}
	fmt.Fprintf(r.W, "[%d] %s\n", current, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.W, "%s: done\n", r.Description)
}
