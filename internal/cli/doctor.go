package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cxo-ops/interrupt/internal/doctor"
	"github.com/cxo-ops/interrupt/pkg/color"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check installation health",
	Long: `Run diagnostics over the installation: directory layout, event store
integrity, archive presence for the current epoch's sources, audit
chain, and stale locks.`,
	Run: func(cmd *cobra.Command, args []string) {
		applyLogFlags(cmd)
		cfg := loadConfig(true)

		result := doctor.New(cfg).Check()
		if jsonOutput {
			outputJSON(result)
		} else {
			printFindings(result)
		}
		if !result.Healthy {
			os.Exit(1)
		}
	},
}

func printFindings(result *doctor.Result) {
	if len(result.Findings) == 0 {
		fmt.Println(color.Success("All checks passed."))
		return
	}
	for _, f := range result.Findings {
		label := f.Severity
		switch f.Severity {
		case doctor.SeverityWarning:
			label = color.Warning(label)
		default:
			label = color.Error(label)
		}
		if f.Path != "" {
			fmt.Printf("[%s] %s: %s (%s)\n", label, f.Category, f.Description, color.Dim(f.Path))
		} else {
			fmt.Printf("[%s] %s: %s\n", label, f.Category, f.Description)
		}
	}
	if result.Healthy {
		fmt.Println(color.Success("Healthy with warnings."))
	} else {
		fmt.Println(color.Error("Problems found."))
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
