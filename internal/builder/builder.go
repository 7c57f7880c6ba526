// Package builder assembles one canonical event record from operator
// input plus the epoch-appropriate telemetry sources.
package builder

import (
	"errors"
	"strconv"
	"time"

	"github.com/cxo-ops/interrupt/internal/epoch"
	"github.com/cxo-ops/interrupt/internal/sources"
	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/logging"
	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/cxo-ops/interrupt/pkg/timeparse"
)

// Window padding around the interruption: the plot and every extract
// cover the run-up and the decay tail.
const (
	padBefore = 2 * 24 * time.Hour
	padAfter  = 5 * 24 * time.Hour
)

// Input is the operator-supplied description of one interruption.
type Input struct {
	TStart time.Time
	TStop  time.Time
	Mode   model.Mode
	// Name overrides the derived yyyymmdd key; normally empty.
	Name string
}

// Window is the padded fetch interval derived from an Input.
type Window struct {
	Start time.Time
	Stop  time.Time
}

// Result carries the assembled record plus the fetched series needed
// for artifact generation.
type Result struct {
	Event  *model.Event
	Window Window
	// Series holds one entry per tag in Event.Sources.
	Series map[model.SourceTag]*model.Series
}

// Builder queries source adapters and produces event records.
type Builder struct {
	registry sources.Registry
	logger   *logging.Logger
	now      func() time.Time
}

// New creates a Builder over the given adapter registry.
func New(registry sources.Registry, logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.New(logging.LevelInfo, logging.FormatText)
	}
	return &Builder{
		registry: registry,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Build validates the window, selects sources for the event's epoch,
// fetches each over the padded window, and computes the derived
// metrics. GOES is mandatory; optional sources with no coverage are
// dropped from the record silently.
func (b *Builder) Build(in Input) (*Result, error) {
	if in.TStart.IsZero() || in.TStop.IsZero() || !in.TStart.Before(in.TStop) {
		return nil, errclass.ErrInvalidWindow.WithMessagef(
			"tstart %s must precede tstop %s",
			in.TStart.Format(time.RFC3339), in.TStop.Format(time.RFC3339))
	}
	if in.Mode != model.ModeAuto && in.Mode != model.ModeManual {
		return nil, errclass.ErrModeInvalid.WithMessagef("run mode %q", in.Mode)
	}

	name := in.Name
	if name == "" {
		name = timeparse.EventName(in.TStart)
	} else if err := timeparse.ValidateName(name); err != nil {
		return nil, err
	}

	// The source set is a pure function of the name's embedded year,
	// not of runtime availability, so reports stay reproducible.
	year, _ := strconv.Atoi(name[:4])
	policy := epoch.ForYear(year)

	window := Window{
		Start: in.TStart.Add(-padBefore),
		Stop:  in.TStop.Add(padAfter),
	}

	used := make([]model.SourceTag, 0, len(policy.Sources))
	series := make(map[model.SourceTag]*model.Series, len(policy.Sources))
	for _, tag := range policy.Sources {
		src, ok := b.registry[tag]
		if !ok {
			return nil, errclass.ErrDataUnavailable.WithMessagef("no adapter for %s", tag)
		}
		fetched, err := src.Fetch(window.Start, window.Stop)
		if err != nil {
			if errors.Is(err, errclass.ErrDataUnavailable) {
				if epoch.Required(tag) {
					return nil, errclass.ErrMissingRequiredData.WithMessagef(
						"event %s: %v", name, err)
				}
				b.logger.Warn("optional source has no coverage, omitting",
					map[string]any{"event": name, "tag": string(tag)})
				continue
			}
			return nil, err
		}
		used = append(used, tag)
		series[tag] = fetched
	}

	event := &model.Event{
		Name:       name,
		TStart:     in.TStart.UTC(),
		TStop:      in.TStop.UTC(),
		TLostKS:    lostKiloseconds(in.TStart, in.TStop),
		Mode:       in.Mode,
		Sources:    used,
		Hardness:   hardness(policy, series, in.TStart, in.TStop),
		RecordedAt: b.now(),
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	return &Result{Event: event, Window: window, Series: series}, nil
}

// lostKiloseconds computes the interruption duration in kiloseconds,
// floored at zero.
func lostKiloseconds(start, stop time.Time) float64 {
	ks := stop.Sub(start).Seconds() / 1000.0
	if ks < 0 {
		return 0
	}
	return ks
}

// hardness is the ranking key for the hardness-ordered index: the peak
// rate of the epoch's primary radiation channel inside the
// interruption. Preference order when the primary window is empty:
// peak over the padded fetch, then the GOES shield proxy (GOES is
// always fetched). The result is a total, deterministic function of
// the fetched series.
func hardness(policy epoch.Policy, series map[model.SourceTag]*model.Series, tstart, tstop time.Time) float64 {
	if primary, ok := series[policy.Primary]; ok {
		if peak, ok := primary.MaxIn(policy.PrimaryChannel, tstart, tstop); ok {
			return peak
		}
		var zero time.Time
		if peak, ok := primary.MaxIn(policy.PrimaryChannel, zero, tstop.Add(padAfter)); ok {
			return peak
		}
	}
	if goes, ok := series[model.TagGOES]; ok {
		if peak, ok := goes.MaxIn("HRC_Proxy", tstart, tstop); ok {
			return peak
		}
	}
	return 0
}
