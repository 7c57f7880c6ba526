package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cxo-ops/interrupt/internal/store"
	"github.com/cxo-ops/interrupt/pkg/color"
	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/cxo-ops/interrupt/pkg/timeparse"
)

var (
	listOrder string
	listRun   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the interruption catalog",
	Long: `Print the event store under a chosen order. The orderings are the
same ones the report pages use, so positions here match the rendered
indices.`,
	Run: func(cmd *cobra.Command, args []string) {
		applyLogFlags(cmd)
		cfg := loadConfig(true)

		st, err := store.Open(cfg.Paths.DataDir)
		if err != nil {
			fmtErr("open event store: %v", err)
			os.Exit(1)
		}

		events, err := selectEvents(st, listOrder, listRun)
		if err != nil {
			fmtErr("%v", err)
			os.Exit(1)
		}

		if jsonOutput {
			outputJSON(events)
			return
		}
		if len(events) == 0 {
			fmt.Println("No interruption events recorded.")
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTART\tSTOP\tLOST (KS)\tMODE\tHARDNESS\tSOURCES")
		for _, ev := range events {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\t%.3e\t%d\n",
				color.EventName(ev.Name),
				ev.TStart.Format(timeparse.CalendarLayout),
				ev.TStop.Format(timeparse.CalendarLayout),
				ev.TLostKS, ev.Mode, ev.Hardness, len(ev.Sources))
		}
		w.Flush()
	},
}

// selectEvents resolves the --order and --run flags against the store.
// The two compose: a run-filtered listing keeps the requested order.
func selectEvents(st *store.Store, order, run string) ([]*model.Event, error) {
	var events []*model.Event
	switch order {
	case "hardness":
		events = st.ByHardness()
	case "time", "":
		events = st.ByTime()
	default:
		return nil, fmt.Errorf("unknown order %q (want time or hardness)", order)
	}
	if run == "" {
		return events, nil
	}
	mode, err := model.ParseMode(run)
	if err != nil {
		return nil, err
	}
	var out []*model.Event
	for _, ev := range events {
		if ev.Mode == mode {
			out = append(out, ev)
		}
	}
	return out, nil
}

func init() {
	listCmd.Flags().StringVar(&listOrder, "order", "time", "ordering: time or hardness")
	listCmd.Flags().StringVar(&listRun, "run", "", "filter by shutdown mode: auto or manual")
	rootCmd.AddCommand(listCmd)
}
