package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cxo-ops/interrupt/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(true)
		if jsonOutput {
			outputJSON(cfg)
			return
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			fmtErr("encode configuration: %v", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "interrupt.yaml"
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			fmtErr("%s already exists", path)
			os.Exit(1)
		}
		if err := config.Save(path, config.Default()); err != nil {
			fmtErr("write configuration: %v", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
