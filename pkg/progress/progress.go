// Package progress reports completion of multi-page render passes.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

// Callback receives one update per completed step.
type Callback func(op string, current, total int, message string)

// Noop discards updates.
func Noop(op string, current, total int, message string) {}

// Tracker counts completed steps and forwards them to a callback.
type Tracker struct {
	Op      string
	Total   int
	current int
	cb      Callback
}

// NewTracker creates a Tracker over total steps.
func NewTracker(op string, total int, cb Callback) *Tracker {
	if cb == nil {
		cb = Noop
	}
	return &Tracker{Op: op, Total: total, cb: cb}
}

// Step advances by one and reports.
func (t *Tracker) Step(message string) {
	t.current++
	t.cb(t.Op, t.current, t.Total, message)
}

// Done reports completion.
func (t *Tracker) Done(message string) {
	t.current = t.Total
	t.cb(t.Op, t.current, t.Total, message)
}

// Current returns the completed step count.
func (t *Tracker) Current() int { return t.current }

// Terminal renders a single-line bar on stderr. Disabled instances
// swallow every update, so callers never branch on interactivity.
type Terminal struct {
	writer      io.Writer
	op          string
	total       int
	lastLineLen atomic.Int64
	enabled     atomic.Bool
}

// NewTerminal creates a terminal bar for total steps.
func NewTerminal(op string, total int, enabled bool) *Terminal {
	t := &Terminal{writer: os.Stderr, op: op, total: total}
	t.enabled.Store(enabled)
	return t
}

// Callback adapts the terminal to the Tracker callback contract.
func (t *Terminal) Callback() Callback {
	return func(op string, current, total int, message string) {
		if !t.enabled.Load() {
			return
		}
		t.render(current, message)
	}
}

// Finish prints the closing newline after the last update.
func (t *Terminal) Finish() {
	if !t.enabled.Load() {
		return
	}
	fmt.Fprintln(t.writer)
}

func (t *Terminal) render(current int, message string) {
	total := t.total
	if total <= 0 {
		total = 1
	}
	barWidth := 30
	filled := barWidth * current / total
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)

	clear := "\r"
	if lastLen := t.lastLineLen.Load(); lastLen > 0 {
		clear = "\r" + strings.Repeat(" ", int(lastLen)) + "\r"
	}
	line := fmt.Sprintf("%s [%s] %d/%d", t.op, bar, current, total)
	if message != "" {
		line += " " + message
	}
	fmt.Fprint(t.writer, clear+line)
	t.lastLineLen.Store(int64(len(line)))
}
