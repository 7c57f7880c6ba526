package sources

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/cxo-ops/interrupt/pkg/timeparse"
)

// ephinChannels are the electron count bands of the Ephin extract.
// After the 2014 retirement the archive keeps its format but the
// HRC_Proxy column carries the GOES-derived shield proxy; the three
// electron columns freeze at their last calibrated values.
var ephinChannels = []string{"E150", "E300", "E1300", "HRC_Proxy"}

// EphinSource reads the Ephin electron-count archive
// (Ephin/Data/ephin_data.txt). The "eph" extract name is kept across
// both eras for link stability on decades-old report pages.
type EphinSource struct {
	path string
}

// NewEphinSource creates the adapter rooted at the space-weather dir.
func NewEphinSource(spaceWeatherDir string) *EphinSource {
	return &EphinSource{
		path: filepath.Join(spaceWeatherDir, "Ephin", "Data", "ephin_data.txt"),
	}
}

func (s *EphinSource) Tag() model.SourceTag { return model.TagEph }

// Fetch returns the archive rows inside [start, stop].
func (s *EphinSource) Fetch(start, stop time.Time) (*model.Series, error) {
	return scanArchive(s.path, model.TagEph, ephinChannels, start, stop, parseEphinRow)
}

func parseEphinRow(fields []string) (model.Row, bool) {
	if len(fields) != 1+len(ephinChannels) {
		return model.Row{}, false
	}
	t, err := timeparse.Parse(fields[0])
	if err != nil {
		return model.Row{}, false
	}
	values := make([]float64, len(ephinChannels))
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.Row{}, false
		}
		values[i] = v
	}
	return model.Row{Time: t, Values: values}, true
}
