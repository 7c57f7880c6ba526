// Package render produces the static HTML report tree: four ordered
// index pages over the full event catalog plus one detail page per
// event.
package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cxo-ops/interrupt/internal/artifacts"
	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/fsutil"
	"github.com/cxo-ops/interrupt/pkg/logging"
	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/cxo-ops/interrupt/pkg/timeparse"
)

// View identifies one of the four index orderings.
type View string

const (
	ViewTime     View = "time"
	ViewAuto     View = "auto"
	ViewManual   View = "manual"
	ViewHardness View = "hardness"
)

// Views lists every index in navigation order.
var Views = []View{ViewTime, ViewAuto, ViewManual, ViewHardness}

var viewFiles = map[View]string{
	ViewTime:     "time_order.html",
	ViewAuto:     "auto_list.html",
	ViewManual:   "manual_list.html",
	ViewHardness: "hardness_order.html",
}

var viewLabels = map[View]string{
	ViewTime:     "Time Order",
	ViewAuto:     "Auto Shutdowns",
	ViewManual:   "Manual Shutdowns",
	ViewHardness: "Hardness Order",
}

// Catalog is the read side of the event store the renderer consumes.
type Catalog interface {
	ByTime() []*model.Event
	ByMode(mode model.Mode) []*model.Event
	ByHardness() []*model.Event
}

// Renderer writes index and event pages under the report web root.
type Renderer struct {
	webDir string
	logger *logging.Logger
}

// New returns a Renderer rooted at webDir.
func New(webDir string, logger *logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.New(logging.LevelInfo, logging.FormatText)
	}
	return &Renderer{webDir: webDir, logger: logger}
}

// IndexPath returns the on-disk location of one index page.
func (r *Renderer) IndexPath(view View) string {
	return filepath.Join(r.webDir, viewFiles[view])
}

// EventPagePath returns the on-disk location of an event detail page.
func (r *Renderer) EventPagePath(name string) string {
	return filepath.Join(r.webDir, "Html_dir", name+".html")
}

// WriteIndexes renders all four index pages from the catalog. Every
// page lists the same records under its own total order, so the views
// never disagree about membership.
func (r *Renderer) WriteIndexes(catalog Catalog) error {
	for _, view := range Views {
		if err := r.writeIndex(view, eventsFor(catalog, view)); err != nil {
			return err
		}
	}
	return nil
}

func eventsFor(catalog Catalog, view View) []*model.Event {
	switch view {
	case ViewAuto:
		return catalog.ByMode(model.ModeAuto)
	case ViewManual:
		return catalog.ByMode(model.ModeManual)
	case ViewHardness:
		return catalog.ByHardness()
	default:
		return catalog.ByTime()
	}
}

func (r *Renderer) writeIndex(view View, events []*model.Event) error {
	page := indexPage{
		Title: "Science Run Interruptions: " + viewLabels[view],
	}
	for _, v := range Views {
		page.Nav = append(page.Nav, navItem{
			Label:   viewLabels[v],
			File:    viewFiles[v],
			Current: v == view,
		})
	}
	for _, ev := range events {
		// One bad record must not take the whole index down.
		if err := ev.Validate(); err != nil {
			r.logger.ErrorErr("skipping unrenderable record", errclass.ErrRenderFailure.WithMessagef("%s: %v", ev.Name, err),
				map[string]any{"event": ev.Name})
			continue
		}
		page.Panels = append(page.Panels, r.panelFor(ev))
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, page); err != nil {
		return errclass.ErrRenderFailure.WithMessagef("index %s: %v", viewFiles[view], err)
	}
	if err := r.writePage(r.IndexPath(view), buf.Bytes()); err != nil {
		return errclass.ErrRenderFailure.WithMessagef("index %s: %v", viewFiles[view], err)
	}
	return nil
}

// WriteEventPage renders the detail page for one event: metadata, the
// intro plot, the operator note, and one section per fetched source
// with its extract link and statistics table.
func (r *Renderer) WriteEventPage(ev *model.Event) error {
	if err := ev.Validate(); err != nil {
		return errclass.ErrRenderFailure.WithMessagef("event page %s: %v", ev.Name, err)
	}
	page := eventPage{
		Name:   ev.Name,
		Start:  ev.TStart.Format(timeparse.CalendarLayout),
		Stop:   ev.TStop.Format(timeparse.CalendarLayout),
		TLost:  fmt.Sprintf("%.1f", ev.TLostKS),
		Mode:   string(ev.Mode),
		Plot:   fmt.Sprintf("../%s/%s_intro.png", artifacts.PlotDir, ev.Name),
		Note:   fmt.Sprintf("../%s/%s.txt", artifacts.NoteDir, ev.Name),
		NoteIn: r.readOptional(filepath.Join(r.webDir, artifacts.NoteDir, ev.Name+".txt")),

		ACISPlots: acisDayLinks(ev.TStart, ev.TStop),
	}
	for _, tag := range ev.Sources {
		page.Sections = append(page.Sections, sourceSection{
			Label:   sourceLabel(tag),
			Extract: fmt.Sprintf("../%s/%s_%s.txt", artifacts.DataDir, ev.Name, tag),
			Stats:   r.readOptional(filepath.Join(r.webDir, artifacts.StatDir, fmt.Sprintf("%s_%s_stat", ev.Name, tag))),
		})
	}

	var buf bytes.Buffer
	if err := eventTmpl.Execute(&buf, page); err != nil {
		return errclass.ErrRenderFailure.WithMessagef("event page %s: %v", ev.Name, err)
	}
	if err := r.writePage(r.EventPagePath(ev.Name), buf.Bytes()); err != nil {
		return errclass.ErrRenderFailure.WithMessagef("event page %s: %v", ev.Name, err)
	}
	return nil
}

func (r *Renderer) panelFor(ev *model.Event) panel {
	p := panel{
		Name:     ev.Name,
		Start:    ev.TStart.Format(timeparse.CalendarLayout),
		Stop:     ev.TStop.Format(timeparse.CalendarLayout),
		TLost:    fmt.Sprintf("%.1f", ev.TLostKS),
		Mode:     string(ev.Mode),
		Hardness: fmt.Sprintf("%.3e", ev.Hardness),
		Plot:     fmt.Sprintf("%s/%s_intro.png", artifacts.PlotDir, ev.Name),
		Note:     fmt.Sprintf("%s/%s.txt", artifacts.NoteDir, ev.Name),
		Page:     fmt.Sprintf("Html_dir/%s.html", ev.Name),
	}
	for _, tag := range ev.Sources {
		p.Extracts = append(p.Extracts, pageLink{
			Label: sourceLabel(tag),
			Href:  fmt.Sprintf("%s/%s_%s.txt", artifacts.DataDir, ev.Name, tag),
		})
	}
	return p
}

// acisGIFBase is the MIT archive of daily ACIS transmit-rate plots,
// one gif per day-of-year.
const acisGIFBase = "http://acisweb.mit.edu/asc/txgif/gifs/"

// acisDayLinks returns the daily ACIS gif URLs covering the
// interruption, one per day from tstart through the day after tstop.
// The links are embedded as-is; a missing day renders as a broken
// image rather than failing the page.
func acisDayLinks(start, stop time.Time) []string {
	var urls []string
	last := stop.UTC().Add(24 * time.Hour)
	for t := start.UTC(); !t.After(last); t = t.Add(24 * time.Hour) {
		urls = append(urls, fmt.Sprintf("%s%04d-%03d.gif", acisGIFBase, t.Year(), t.YearDay()))
	}
	return urls
}

func (r *Renderer) readOptional(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(raw)
}

func (r *Renderer) writePage(path string, content []byte) error {
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return fsutil.AtomicWrite(path, content, 0644)
}

func sourceLabel(tag model.SourceTag) string {
	switch tag {
	case model.TagACE, model.TagDat:
		return "ACE"
	case model.TagHRC:
		return "HRC"
	case model.TagEph:
		return "Ephin"
	case model.TagGOES:
		return "GOES"
	case model.TagXMM:
		return "XMM"
	}
	return string(tag)
}

type navItem struct {
	Label   string
	File    string
	Current bool
}

type pageLink struct {
	Label string
	Href  string
}

type panel struct {
	Name     string
	Start    string
	Stop     string
	TLost    string
	Mode     string
	Hardness string
	Plot     string
	Note     string
	Page     string
	Extracts []pageLink
}

type indexPage struct {
	Title  string
	Nav    []navItem
	Panels []panel
}

type sourceSection struct {
	Label   string
	Extract string
	Stats   string
}

type eventPage struct {
	Name      string
	Start     string
	Stop      string
	TLost     string
	Mode      string
	Plot      string
	Note      string
	NoteIn    string
	ACISPlots []string
	Sections  []sourceSection
}
