// Package color provides terminal color output for the CLI.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"fmt"
	"os"
	"sync"
)

var state struct {
	once     sync.Once
	enabled  bool
	disabled bool
}

// Init initializes the color system based on environment and flags.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		if _, exists := os.LookupEnv("NO_COLOR"); exists {
			state.disabled = true
		}
		if os.Getenv("TERM") == "dumb" {
			state.disabled = true
		}
		if noColorFlag {
			state.disabled = true
		}
		state.enabled = !state.disabled
	})
}

// Enabled returns true if color output is enabled.
func Enabled() bool {
	Init(false)
	return state.enabled
}

// Disable turns off color output.
func Disable() {
	state.disabled = true
	state.enabled = false
}

// ANSI codes.
const (
	reset   = "\033[0m"
	red     = "\033[31m"
	green   = "\033[32m"
	yellow  = "\033[33m"
	cyan    = "\033[36m"
	dimCode = "\033[2m"
	bold    = "\033[1m"
)

func wrap(code, s string) string {
	if !Enabled() {
		return s
	}
	return code + s + reset
}

// Error formats an error message in red.
func Error(s string) string { return wrap(red, s) }

// Success formats a success message in green.
func Success(s string) string { return wrap(green, s) }

// Warning formats a warning message in yellow.
func Warning(s string) string { return wrap(yellow, s) }

// Dim formats secondary text.
func Dim(s string) string { return wrap(dimCode, s) }

// Header formats a section header in bold.
func Header(s string) string { return wrap(bold, s) }

// EventName formats an event name in cyan for visibility.
func EventName(s string) string { return wrap(cyan, s) }

// Warningf formats a warning with printf-style arguments.
func Warningf(format string, args ...any) string {
	return Warning(fmt.Sprintf(format, args...))
}
