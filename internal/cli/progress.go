package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

type stepProgressReporter struct {
	enabled bool
	label   string
	total   int
	start   time.Time
	spinner int
	lastLen int
	last    time.Time
}

func newStepProgressReporter(label string, total int, quiet bool) *stepProgressReporter {
	fd := os.Stderr.Fd()
	enabled := (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && !quiet
	return &stepProgressReporter{
		enabled: enabled,
		label:   label,
		total:   total,
		start:   time.Now(),
	}
}

// Update redraws at most every 50ms.
func (r *stepProgressReporter) Update(step int) {
	if !r.enabled {
		return
	}
	now := time.Now()
	if now.Sub(r.last) < 50*time.Millisecond && step < r.total {
		return
	}
	r.last = now

	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	r.printStatus(fmt.Sprintf("%s %s step %d/%d", frame, r.label, step, r.total))
}

func (r *stepProgressReporter) Done(steps int) {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d steps in %s)", r.label, steps, elapsed))
	fmt.Fprintln(os.Stderr)
}

func (r *stepProgressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(os.Stderr, "\r%s", status)
}
