// Package epoch encodes the mission-history source-selection policy.
//
// Instrument availability changed three times across the mission:
// Ephin was retired and replaced by the HRC shield rate in 2014, the
// XMM cross-reference was added in 2017, and both the GOES channel
// semantics and the ACE extract naming changed for 2025. The policy is
// a pure function of the event year, so the rendered link set for an
// event never depends on runtime data availability.
package epoch

import "github.com/cxo-ops/interrupt/pkg/model"

// Policy is the resolved source set for one event year.
type Policy struct {
	// Sources lists every extract the event's report panel exposes,
	// in panel order.
	Sources []model.SourceTag
	// Primary names the radiation channel whose peak defines the
	// hardness ranking for this epoch.
	Primary        model.SourceTag
	PrimaryChannel string
}

// Channel names used by the hardness ranking, matching the archive
// column headings of each era's primary instrument.
const (
	channelShieldRate = "2SHEV2RT"  // native HRC shield event rate
	channelHRCProxy   = "HRC_Proxy" // GOES-derived shield proxy
	channelEphinE1300 = "E1300"     // Ephin 1300 keV electron counts
)

// Year boundaries of the three availability eras.
const (
	yearHRCNative = 2025 // first year of native HRC extracts and "ace" naming
	yearEphinEnd  = 2014 // first year the eph extract carries proxy data
	yearXMMStart  = 2017 // first year the XMM cross-reference exists
)

// ForYear resolves the policy table for an event year.
func ForYear(year int) Policy {
	switch {
	case year >= yearHRCNative:
		return Policy{
			Sources:        []model.SourceTag{model.TagACE, model.TagHRC, model.TagGOES, model.TagXMM},
			Primary:        model.TagHRC,
			PrimaryChannel: channelShieldRate,
		}
	case year >= yearEphinEnd:
		sources := []model.SourceTag{model.TagDat, model.TagEph, model.TagGOES}
		if year >= yearXMMStart {
			sources = append(sources, model.TagXMM)
		}
		return Policy{
			Sources:        sources,
			Primary:        model.TagEph,
			PrimaryChannel: channelHRCProxy,
		}
	default:
		return Policy{
			Sources:        []model.SourceTag{model.TagDat, model.TagEph, model.TagGOES},
			Primary:        model.TagEph,
			PrimaryChannel: channelEphinE1300,
		}
	}
}

// Required reports whether tag is mandatory for every event. Only the
// GOES feed is required; every other instrument is dropped silently
// when it has no coverage.
func Required(tag model.SourceTag) bool {
	return tag == model.TagGOES
}
