package sources

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/cxo-ops/interrupt/pkg/model"
)

// xmmChannels are the XMM radiation monitor bands: three low-energy,
// three high-energy, and the high-energy coincidence counter.
// Reference: https://www.cosmos.esa.int/web/xmm-newton/radmon-details
var xmmChannels = []string{"LE-0", "LE-1", "LE-2", "HES-0", "HES-1", "HES-2", "HES-C"}

// xmmEpoch is the zero point of the archive's timestamp column
// (seconds since 1998-01-01 00:00:00 UTC).
var xmmEpoch = time.Date(1998, time.January, 1, 0, 0, 0, 0, time.UTC)

// XMMSource reads the XMM radiation monitor archive
// (XMM/Data/xmm.archive): epoch-seconds timestamp + band counts.
type XMMSource struct {
	path string
}

// NewXMMSource creates the adapter rooted at the space-weather dir.
func NewXMMSource(spaceWeatherDir string) *XMMSource {
	return &XMMSource{
		path: filepath.Join(spaceWeatherDir, "XMM", "Data", "xmm.archive"),
	}
}

func (s *XMMSource) Tag() model.SourceTag { return model.TagXMM }

// Fetch returns the archive rows inside [start, stop].
func (s *XMMSource) Fetch(start, stop time.Time) (*model.Series, error) {
	return scanArchive(s.path, model.TagXMM, xmmChannels, start, stop, parseXMMRow)
}

func parseXMMRow(fields []string) (model.Row, bool) {
	if len(fields) != 1+len(xmmChannels) {
		return model.Row{}, false
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return model.Row{}, false
	}
	values := make([]float64, len(xmmChannels))
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.Row{}, false
		}
		values[i] = v
	}
	t := xmmEpoch.Add(time.Duration(secs * float64(time.Second)))
	return model.Row{Time: t, Values: values}, true
}
