package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cxo-ops/interrupt/internal/pipeline"
	"github.com/cxo-ops/interrupt/internal/store"
	"github.com/cxo-ops/interrupt/pkg/logging"
	"github.com/cxo-ops/interrupt/pkg/progress"
)

var rebuildMode string

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Re-render every report page from the event store",
	Long: `Regenerate all four index pages and every event detail page from the
stored catalog, without assembling a new event. Useful after template
changes or a damaged web tree.`,
	Run: func(cmd *cobra.Command, args []string) {
		applyLogFlags(cmd)
		flight := parseFlightFlag(rebuildMode)
		cfg := loadConfig(flight)

		p := pipeline.New(cfg, logging.Default(), flight)
		st, err := store.Open(cfg.Paths.DataDir)
		if err != nil {
			fmtErr("open event store: %v", err)
			os.Exit(1)
		}
		term := progress.NewTerminal("rebuild", st.Len(), !jsonOutput)
		pages, err := p.Rebuild(context.Background(), term.Callback())
		term.Finish()
		if err != nil {
			fmtErr("rebuild: %v", err)
			os.Exit(1)
		}
		if jsonOutput {
			outputJSON(map[string]any{"event_pages": pages})
		} else {
			fmt.Printf("Rebuilt 4 index pages and %d event pages\n", pages)
		}
	},
}

func init() {
	rebuildCmd.Flags().StringVar(&rebuildMode, "mode", "test", "output mode: flight or test")
	rootCmd.AddCommand(rebuildCmd)
}
