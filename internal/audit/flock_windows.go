//go:build windows

package audit

import "os"

// The in-process mutex is sufficient on Windows for a single-operator
// tool.
func lockFile(_ *os.File) error   { return nil }
func unlockFile(_ *os.File) error { return nil }
