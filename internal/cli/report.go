package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cxo-ops/interrupt/internal/builder"
	"github.com/cxo-ops/interrupt/internal/pipeline"
	"github.com/cxo-ops/interrupt/pkg/color"
	"github.com/cxo-ops/interrupt/pkg/logging"
	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/cxo-ops/interrupt/pkg/timeparse"
)

var (
	reportMode  string
	reportStart string
	reportStop  string
	reportRun   string
	reportName  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Publish one interruption report",
	Long: `Assemble the event record for one science run interruption, merge it
into the event store, write the instrument extracts and statistics,
and regenerate all four index pages.

Start and stop times are accepted in day-of-year (yyyy:ddd:hh:mm:ss)
or calendar (yyyy:mm:dd:hh:mm:ss) form, UTC. In test mode every output
lands under ./test/outTest and the published tree is never touched.`,
	Run: func(cmd *cobra.Command, args []string) {
		applyLogFlags(cmd)
		flight := parseFlightFlag(reportMode)
		cfg := loadConfig(flight)

		tstart, err := timeparse.Parse(reportStart)
		if err != nil {
			fmtErr("start time: %v", err)
			os.Exit(1)
		}
		tstop, err := timeparse.Parse(reportStop)
		if err != nil {
			fmtErr("stop time: %v", err)
			os.Exit(1)
		}
		mode, err := model.ParseMode(reportRun)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		p := pipeline.New(cfg, logging.Default(), flight)
		ev, err := p.Run(context.Background(), builder.Input{
			TStart: tstart,
			TStop:  tstop,
			Mode:   mode,
			Name:   reportName,
		})
		if err != nil {
			fmtErr("publish report: %v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(ev)
		} else {
			fmt.Printf("Published %s (%s, %.1f ks lost, %d sources)\n",
				color.EventName(ev.Name), ev.Mode, ev.TLostKS, len(ev.Sources))
		}
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportMode, "mode", "test", "output mode: flight or test")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "interruption start time (required)")
	reportCmd.Flags().StringVar(&reportStop, "stop", "", "interruption stop time (required)")
	reportCmd.Flags().StringVar(&reportRun, "run", "auto", "shutdown mode: auto or manual")
	reportCmd.Flags().StringVar(&reportName, "name", "", "event name override (yyyymmdd)")
	reportCmd.MarkFlagRequired("start")
	reportCmd.MarkFlagRequired("stop")
	rootCmd.AddCommand(reportCmd)
}
