package cli

import (
	"fmt"
	"os"

	"github.com/cxo-ops/interrupt/pkg/color"
	"github.com/cxo-ops/interrupt/pkg/config"
	"github.com/cxo-ops/interrupt/pkg/logging"
)

// loadConfig reads the configuration, applying the test-mode sandbox
// when flight is false, and installs the configured logger. Exits on
// unreadable config.
func loadConfig(flight bool) *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmtErr("load configuration: %v", err)
		os.Exit(1)
	}
	logging.SetGlobal(logging.New(logging.Level(cfg.Logging.Level), logging.Format(cfg.Logging.Format)))
	if flight {
		return cfg
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmtErr("cannot get current directory: %v", err)
		os.Exit(1)
	}
	return cfg.TestProfile(cwd)
}

// parseFlightFlag maps the --mode flag to the flight switch.
func parseFlightFlag(mode string) bool {
	switch mode {
	case "flight":
		return true
	case "test", "":
		return false
	default:
		fmtErr("unknown output mode %q (want flight or test)", mode)
		os.Exit(1)
		return false
	}
}

func fmtErr(format string, args ...any) {
	prefix := "interrupt: "
	if color.Enabled() {
		prefix = color.Error("interrupt:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
