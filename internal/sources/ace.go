package sources

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/cxo-ops/interrupt/pkg/model"
)

// aceChannels are the EPAM electron and proton bands kept in the
// extract, in archive column order. Units are KeV band rates.
var aceChannels = []string{
	"e38-53",
	"e175-315",
	"p47-68",
	"p115-195",
	"p310-580",
	"p795-1193",
	"p1060-1900",
}

// ACESource reads the NOAA ACE EPAM archive (ACE/Data/ace_data.txt).
// Archive rows use the NOAA layout: year month day hhmm, then one
// value per band. The same feed backs both the "dat" (historical) and
// "ace" (post-2024) extract names.
type ACESource struct {
	path string
	tag  model.SourceTag
}

// NewACESource creates the adapter for one of the two extract names.
func NewACESource(spaceWeatherDir string, tag model.SourceTag) *ACESource {
	return &ACESource{
		path: filepath.Join(spaceWeatherDir, "ACE", "Data", "ace_data.txt"),
		tag:  tag,
	}
}

func (s *ACESource) Tag() model.SourceTag { return s.tag }

// Fetch returns the archive rows inside [start, stop].
func (s *ACESource) Fetch(start, stop time.Time) (*model.Series, error) {
	return scanArchive(s.path, s.tag, aceChannels, start, stop, parseACERow)
}

func parseACERow(fields []string) (model.Row, bool) {
	if len(fields) != 4+len(aceChannels) {
		return model.Row{}, false
	}
	t, ok := parseNOAATime(fields[0], fields[1], fields[2], fields[3])
	if !ok {
		return model.Row{}, false
	}
	values := make([]float64, len(aceChannels))
	for i, f := range fields[4:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.Row{}, false
		}
		values[i] = v
	}
	return model.Row{Time: t, Values: values}, true
}

// parseNOAATime handles the "year month day hhmm" stamp of NOAA
// real-time archives.
func parseNOAATime(year, month, day, hhmm string) (time.Time, bool) {
	if len(hhmm) != 4 {
		return time.Time{}, false
	}
	y, err1 := strconv.Atoi(year)
	mo, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	hh, err4 := strconv.Atoi(hhmm[:2])
	mm, err5 := strconv.Atoi(hhmm[2:])
	for _, err := range []error{err1, err2, err3, err4, err5} {
		if err != nil {
			return time.Time{}, false
		}
	}
	if mo < 1 || mo > 12 || d < 1 || d > 31 || hh > 23 || mm > 59 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(mo), d, hh, mm, 0, 0, time.UTC), true
}
