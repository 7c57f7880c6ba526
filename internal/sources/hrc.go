package sources

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/cxo-ops/interrupt/pkg/timeparse"
)

// hrcChannels holds the shield-rate MSID. A single column today;
// listed as a slice so additional HRC MSIDs can join the extract.
var hrcChannels = []string{"2SHEV2RT"}

// HRCSource reads the HRC shield event-rate archive
// (HRC/Data/hrc_shield.txt): day-of-year timestamp + rate. The shield
// only accumulates counts while HRC is in use, so gaps around the
// interruption window are common and surface as ErrDataUnavailable.
type HRCSource struct {
	path string
}

// NewHRCSource creates the adapter rooted at the space-weather dir.
func NewHRCSource(spaceWeatherDir string) *HRCSource {
	return &HRCSource{
		path: filepath.Join(spaceWeatherDir, "HRC", "Data", "hrc_shield.txt"),
	}
}

func (s *HRCSource) Tag() model.SourceTag { return model.TagHRC }

// Fetch returns the archive rows inside [start, stop].
func (s *HRCSource) Fetch(start, stop time.Time) (*model.Series, error) {
	return scanArchive(s.path, model.TagHRC, hrcChannels, start, stop, parseHRCRow)
}

func parseHRCRow(fields []string) (model.Row, bool) {
	if len(fields) != 2 {
		return model.Row{}, false
	}
	t, err := timeparse.Parse(fields[0])
	if err != nil {
		return model.Row{}, false
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return model.Row{}, false
	}
	return model.Row{Time: t, Values: []float64{v}}, true
}
