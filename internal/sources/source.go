// Package sources provides the telemetry adapters feeding the event
// builder. Each adapter reads one instrument's archive from the
// space-weather directory tree, normalizes timestamps to UTC, and
// returns the samples inside a requested window.
package sources

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/model"
)

// Source fetches a time-ordered measurement series for one instrument.
// Fetch fails with errclass.ErrDataUnavailable when the instrument has
// no coverage in the requested window; callers decide whether that is
// fatal.
type Source interface {
	Tag() model.SourceTag
	Fetch(start, stop time.Time) (*model.Series, error)
}

// Registry maps extract tags to their adapters.
type Registry map[model.SourceTag]Source

// NewFileRegistry builds the archive-backed adapter set rooted at the
// space-weather directory. The "ace" and "dat" tags are the same EPAM
// feed under the two naming conventions, so they share one archive.
func NewFileRegistry(spaceWeatherDir string) Registry {
	return Registry{
		model.TagGOES: NewGOESSource(spaceWeatherDir),
		model.TagACE:  NewACESource(spaceWeatherDir, model.TagACE),
		model.TagDat:  NewACESource(spaceWeatherDir, model.TagDat),
		model.TagHRC:  NewHRCSource(spaceWeatherDir),
		model.TagEph:  NewEphinSource(spaceWeatherDir),
		model.TagXMM:  NewXMMSource(spaceWeatherDir),
	}
}

// ArchivePath returns the archive file backing a source tag under the
// space-weather tree. Diagnostics use this to check archive presence
// without fetching.
func ArchivePath(spaceWeatherDir string, tag model.SourceTag) string {
	switch tag {
	case model.TagACE, model.TagDat:
		return filepath.Join(spaceWeatherDir, "ACE", "Data", "ace_data.txt")
	case model.TagHRC:
		return filepath.Join(spaceWeatherDir, "HRC", "Data", "hrc_shield.txt")
	case model.TagEph:
		return filepath.Join(spaceWeatherDir, "Ephin", "Data", "ephin_data.txt")
	case model.TagXMM:
		return filepath.Join(spaceWeatherDir, "XMM", "Data", "xmm.archive")
	default:
		return filepath.Join(spaceWeatherDir, "GOES", "Data", "goes_data_r.txt")
	}
}

// rowParser converts one non-comment archive line into a sample.
// ok=false skips malformed lines without failing the whole fetch;
// decades-old archives carry the occasional truncated row.
type rowParser func(fields []string) (model.Row, bool)

// scanArchive reads path and returns the parsed rows inside
// [start, stop], time-ordered. A missing archive or an empty window
// selection both surface as ErrDataUnavailable.
func scanArchive(path string, tag model.SourceTag, channels []string, start, stop time.Time, parse rowParser) (*model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errclass.ErrDataUnavailable.WithMessagef("%s archive missing: %s", tag, path)
		}
		return nil, err
	}
	defer f.Close()

	var rows []model.Row
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, ok := parse(strings.Fields(line))
		if !ok {
			continue
		}
		if row.Time.Before(start) || row.Time.After(stop) {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errclass.ErrDataUnavailable.WithMessagef(
			"%s has no coverage in %s..%s", tag,
			start.Format(time.RFC3339), stop.Format(time.RFC3339))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Time.Before(rows[j].Time) })
	return &model.Series{Tag: tag, Channels: channels, Rows: rows}, nil
}
