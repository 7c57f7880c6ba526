package sources

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/cxo-ops/interrupt/pkg/timeparse"
)

// goesChannels are the GOES-R channels of interest: three proton bands
// plus the derived HRC shield-rate proxy.
var goesChannels = []string{"P4", "P5", "P6", "HRC_Proxy"}

// GOESSource reads the GOES particle flux archive
// (GOES/Data/goes_data_r.txt). Rows carry a day-of-year timestamp
// followed by one value per channel.
type GOESSource struct {
	path string
}

// NewGOESSource creates the adapter rooted at the space-weather dir.
func NewGOESSource(spaceWeatherDir string) *GOESSource {
	return &GOESSource{
		path: filepath.Join(spaceWeatherDir, "GOES", "Data", "goes_data_r.txt"),
	}
}

func (s *GOESSource) Tag() model.SourceTag { return model.TagGOES }

// Fetch returns the archive rows inside [start, stop].
func (s *GOESSource) Fetch(start, stop time.Time) (*model.Series, error) {
	return scanArchive(s.path, model.TagGOES, goesChannels, start, stop, parseGOESRow)
}

func parseGOESRow(fields []string) (model.Row, bool) {
	if len(fields) != 1+len(goesChannels) {
		return model.Row{}, false
	}
	t, err := timeparse.Parse(fields[0])
	if err != nil {
		return model.Row{}, false
	}
	values := make([]float64, len(goesChannels))
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.Row{}, false
		}
		values[i] = v
	}
	return model.Row{Time: t, Values: values}, true
}
