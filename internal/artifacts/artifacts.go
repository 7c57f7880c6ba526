// Package artifacts writes the per-event reference files that sit
// behind the web report: instrument data extracts, statistics tables,
// the operator note stub, and the externally rendered plot.
package artifacts

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cxo-ops/interrupt/internal/builder"
	"github.com/cxo-ops/interrupt/pkg/config"
	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/fsutil"
	"github.com/cxo-ops/interrupt/pkg/logging"
	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/cxo-ops/interrupt/pkg/template"
	"github.com/cxo-ops/interrupt/pkg/timeparse"
)

// Web-directory layout, one subdirectory per artifact kind.
const (
	DataDir = "Data_dir"
	StatDir = "Stat_dir"
	NoteDir = "Note_dir"
	PlotDir = "Plot_dir"
)

const headerTimeLayout = "2006:01:02:15:04"

// Writer produces the artifact set for one assembled event.
type Writer struct {
	webDir  string
	plotter config.PlotterConfig
	logger  *logging.Logger
}

// NewWriter returns a Writer rooted at the report web directory.
func NewWriter(cfg *config.Config, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.New(logging.LevelInfo, logging.FormatText)
	}
	return &Writer{webDir: cfg.Paths.WebDir, plotter: cfg.Plotter, logger: logger}
}

// WriteAll emits the data extract and statistics table for every
// fetched source, ensures a note stub exists, and asks the external
// plotter for the event plot. A missing plotter is a warning, not an
// error.
func (w *Writer) WriteAll(res *builder.Result) error {
	for _, tag := range res.Event.Sources {
		series, ok := res.Series[tag]
		if !ok {
			continue
		}
		if err := w.writeExtract(res.Event, series); err != nil {
			return err
		}
		if err := w.writeStats(res.Event, series); err != nil {
			return err
		}
	}
	if err := w.ensureNote(res.Event); err != nil {
		return err
	}
	w.runPlotter(res)
	return nil
}

// ExtractPath returns the data extract location for one source tag.
func (w *Writer) ExtractPath(name string, tag model.SourceTag) string {
	return filepath.Join(w.webDir, DataDir, fmt.Sprintf("%s_%s.txt", name, tag))
}

// StatPath returns the statistics table location for one source tag.
func (w *Writer) StatPath(name string, tag model.SourceTag) string {
	return filepath.Join(w.webDir, StatDir, fmt.Sprintf("%s_%s_stat", name, tag))
}

// NotePath returns the operator note location for an event.
func (w *Writer) NotePath(name string) string {
	return filepath.Join(w.webDir, NoteDir, name+".txt")
}

// PlotPath returns the intro plot location for an event.
func (w *Writer) PlotPath(name string) string {
	return filepath.Join(w.webDir, PlotDir, name+"_intro.png")
}

// writeExtract writes the tab-separated telemetry extract covering the
// padded event window.
func (w *Writer) writeExtract(ev *model.Event, series *model.Series) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Science Run Interruption: %s\n\n", ev.TStart.Format(headerTimeLayout))
	fmt.Fprintf(&b, "Time\t\t%s\n", strings.Join(series.Channels, "\t\t"))
	b.WriteString(strings.Repeat("-", 67) + "\n")
	for _, row := range series.Rows {
		b.WriteString(timeparse.FormatDOY(row.Time))
		for _, v := range row.Values {
			fmt.Fprintf(&b, "\t\t%.3e", v)
		}
		b.WriteString("\n")
	}

	path := w.ExtractPath(ev.Name, series.Tag)
	if err := writeArtifact(path, b.String()); err != nil {
		return errclass.ErrRenderFailure.WithMessagef("data extract %s: %v", path, err)
	}
	return nil
}

// writeStats writes the per-channel summary table: mean with standard
// deviation, extrema with their timestamps, and the reading closest to
// the start of the interruption.
func (w *Writer) writeStats(ev *model.Event, series *model.Series) error {
	var b strings.Builder
	b.WriteString("\t\tAvg\t\t\tMax\t\tTime\t\tMin\t\tTime\t\tValue at Start of Interruption\n")
	b.WriteString(strings.Repeat("-", 95) + "\n")

	atStart, haveStart := series.At(ev.TStart)
	for ci, channel := range series.Channels {
		st := channelStats(series, ci)
		startVal := math.NaN()
		if haveStart {
			startVal = atStart.Values[ci]
		}
		fmt.Fprintf(&b, "%s\t\t%.3e+/-%.3e\t%.3e\t%s\t%.3e\t%s\t%.3e\n",
			channel, st.mean, st.std,
			st.max, timeparse.FormatDOY(st.maxAt),
			st.min, timeparse.FormatDOY(st.minAt),
			startVal)
	}

	path := w.StatPath(ev.Name, series.Tag)
	if err := writeArtifact(path, b.String()); err != nil {
		return errclass.ErrRenderFailure.WithMessagef("stat table %s: %v", path, err)
	}
	return nil
}

// ensureNote creates the operator note stub once; an existing note is
// never overwritten.
func (w *Writer) ensureNote(ev *model.Event) error {
	path := w.NotePath(ev.Name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	content := fmt.Sprintf("Science run interruption %s. Edit this file to add operator notes.\n", ev.Name)
	if err := writeArtifact(path, content); err != nil {
		return errclass.ErrRenderFailure.WithMessagef("note stub %s: %v", path, err)
	}
	return nil
}

// runPlotter shells out to the configured plot generator. Plotting is
// a separate toolchain, so failures are logged and skipped rather than
// failing the report.
func (w *Writer) runPlotter(res *builder.Result) {
	if w.plotter.Command == "" {
		w.logger.Warn("no plotter configured, skipping plot generation",
			map[string]any{"event": res.Event.Name})
		return
	}
	if err := fsutil.EnsureDir(filepath.Join(w.webDir, PlotDir)); err != nil {
		w.logger.ErrorErr("cannot create plot directory", err)
		return
	}

	vars := map[string]string{
		"name":  res.Event.Name,
		"start": res.Window.Start.Format(time.RFC3339),
		"stop":  res.Window.Stop.Format(time.RFC3339),
		"out":   w.PlotPath(res.Event.Name),
	}
	args := template.ExpandAll(w.plotter.Args, vars)
	if len(w.plotter.Args) == 0 {
		args = []string{
			"--name", vars["name"],
			"--start", vars["start"],
			"--stop", vars["stop"],
			"--out", vars["out"],
		}
	}
	cmd := exec.Command(w.plotter.Command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		w.logger.ErrorErr("plotter failed, continuing without plot", err,
			map[string]any{"event": res.Event.Name, "output": strings.TrimSpace(string(out))})
		return
	}
	w.logger.Info("plot generated", map[string]any{"event": res.Event.Name, "path": w.PlotPath(res.Event.Name)})
}

type stats struct {
	mean, std, max, min float64
	maxAt, minAt        time.Time
}

// channelStats summarizes one channel column. The minimum skips
// negative readings, which the archives use as fill values.
func channelStats(series *model.Series, ci int) stats {
	st := stats{max: math.Inf(-1), min: math.Inf(1)}
	var sum, sumSq float64
	n := 0
	for _, row := range series.Rows {
		v := row.Values[ci]
		sum += v
		sumSq += v * v
		n++
		if v > st.max {
			st.max = v
			st.maxAt = row.Time
		}
		if v >= 0 && v < st.min {
			st.min = v
			st.minAt = row.Time
		}
	}
	if n == 0 {
		return stats{mean: math.NaN(), std: math.NaN(), max: math.NaN(), min: math.NaN()}
	}
	st.mean = sum / float64(n)
	variance := sumSq/float64(n) - st.mean*st.mean
	if variance < 0 {
		variance = 0
	}
	st.std = math.Sqrt(variance)
	if math.IsInf(st.min, 1) {
		st.min = math.NaN()
	}
	return st
}

func writeArtifact(path string, content string) error {
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return fsutil.AtomicWrite(path, []byte(content), 0644)
}
