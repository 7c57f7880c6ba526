// Package cli implements the interrupt command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cxo-ops/interrupt/pkg/color"
	"github.com/cxo-ops/interrupt/pkg/logging"
)

var (
	jsonOutput bool
	noColor    bool
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "interrupt",
		Short: "Science run interruption report pipeline",
		Long: `interrupt maintains the science run interruption catalog: it assembles
an event record from the radiation telemetry archives, merges it into
the durable event store, and regenerates the static report pages
(time, auto, manual, and hardness orderings).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(func() { color.Init(noColor) })
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file path")
	rootCmd.PersistentFlags().String("log-level", "", "override log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func applyLogFlags(cmd *cobra.Command) {
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		logging.Default().SetLevel(logging.Level(lvl))
	}
}
