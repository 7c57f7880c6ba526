// Package model defines the core record types shared across the
// interruption report pipeline.
package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cxo-ops/interrupt/pkg/errclass"
)

// Mode identifies how the SCS-107 safing sequence was triggered.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

// ParseMode validates an operator-supplied run mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeManual:
		return Mode(s), nil
	}
	return "", errclass.ErrModeInvalid.WithMessagef("run mode must be auto or manual: %q", s)
}

// SourceTag identifies one instrument data product. The tag doubles as
// the filename suffix of the rendered extract (<name>_<tag>.txt).
type SourceTag string

const (
	TagACE  SourceTag = "ace"  // ACE EPAM extract, post-2024 naming
	TagDat  SourceTag = "dat"  // ACE EPAM extract, historical naming
	TagHRC  SourceTag = "hrc"  // native HRC shield event rate
	TagEph  SourceTag = "eph"  // Ephin counts, or the HRC-era proxy after 2014
	TagGOES SourceTag = "goes" // GOES particle flux, always required
	TagXMM  SourceTag = "xmm"  // XMM radiation monitor cross-reference
)

// Event is one radiation-safing interruption of the observing plan.
// Name is the primary key of the store.
type Event struct {
	Name     string      `json:"name"`
	TStart   time.Time   `json:"tstart"`
	TStop    time.Time   `json:"tstop"`
	TLostKS  float64     `json:"tlost_ks"`
	Mode     Mode        `json:"mode"`
	Sources  []SourceTag `json:"sources_used"`
	Hardness float64     `json:"hardness_value"`

	// RecordedAt is when the pipeline first assembled this record.
	RecordedAt time.Time `json:"recorded_at"`
}

// Year returns the event year embedded in Name (yyyymmdd).
func (e *Event) Year() int {
	if len(e.Name) < 4 {
		return 0
	}
	y, err := strconv.Atoi(e.Name[:4])
	if err != nil {
		return 0
	}
	return y
}

// HasSource reports whether tag is part of the event's source set.
func (e *Event) HasSource(tag SourceTag) bool {
	for _, t := range e.Sources {
		if t == tag {
			return true
		}
	}
	return false
}

// Duration returns the raw interruption length.
func (e *Event) Duration() time.Duration {
	return e.TStop.Sub(e.TStart)
}

// Validate checks the structural invariants every stored record must hold.
func (e *Event) Validate() error {
	if len(e.Name) != 8 {
		return errclass.ErrNameInvalid.WithMessagef("event name must be yyyymmdd: %q", e.Name)
	}
	if _, err := strconv.Atoi(e.Name); err != nil {
		return errclass.ErrNameInvalid.WithMessagef("event name must be numeric: %q", e.Name)
	}
	if e.TStart.IsZero() || e.TStop.IsZero() {
		return errclass.ErrInvalidWindow.WithMessagef("event %s has an unset boundary", e.Name)
	}
	if !e.TStart.Before(e.TStop) {
		return errclass.ErrInvalidWindow.WithMessagef("event %s: tstart %s not before tstop %s",
			e.Name, e.TStart.Format(time.RFC3339), e.TStop.Format(time.RFC3339))
	}
	if e.TLostKS < 0 {
		return errclass.ErrInvalidWindow.WithMessagef("event %s: negative tlost %f", e.Name, e.TLostKS)
	}
	if e.Mode != ModeAuto && e.Mode != ModeManual {
		return errclass.ErrModeInvalid.WithMessagef("event %s: mode %q", e.Name, e.Mode)
	}
	if len(e.Sources) == 0 {
		return errclass.ErrNameInvalid.WithMessagef("event %s: empty source set", e.Name)
	}
	return nil
}

// String implements fmt.Stringer for log output.
func (e *Event) String() string {
	return fmt.Sprintf("%s [%s] %.2fks", e.Name, e.Mode, e.TLostKS)
}
