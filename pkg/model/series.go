package model

import "time"

// Row is one time-stamped sample across every channel of a series.
type Row struct {
	Time   time.Time `json:"time"`
	Values []float64 `json:"values"`
}

// Series is a time-ordered measurement table for one instrument.
// Channels names the value columns; every Row carries len(Channels)
// values. Adapters normalize archive-native epochs to UTC before
// constructing a Series.
type Series struct {
	Tag      SourceTag `json:"tag"`
	Channels []string  `json:"channels"`
	Rows     []Row     `json:"rows"`
}

// ChannelIndex returns the column position of name, or -1.
func (s *Series) ChannelIndex(name string) int {
	for i, c := range s.Channels {
		if c == name {
			return i
		}
	}
	return -1
}

// Empty reports whether the series carries no samples.
func (s *Series) Empty() bool {
	return s == nil || len(s.Rows) == 0
}

// MaxIn returns the peak value of the named channel over [start, stop]
// inclusive. ok is false when the channel is unknown or no sample falls
// inside the window.
func (s *Series) MaxIn(channel string, start, stop time.Time) (float64, bool) {
	idx := s.ChannelIndex(channel)
	if idx < 0 {
		return 0, false
	}
	var peak float64
	found := false
	for _, row := range s.Rows {
		if row.Time.Before(start) || row.Time.After(stop) {
			continue
		}
		if idx >= len(row.Values) {
			continue
		}
		if !found || row.Values[idx] > peak {
			peak = row.Values[idx]
			found = true
		}
	}
	return peak, found
}

// At returns the row closest in time to t, preferring earlier samples
// on ties. ok is false for an empty series.
func (s *Series) At(t time.Time) (Row, bool) {
	if s.Empty() {
		return Row{}, false
	}
	best := s.Rows[0]
	bestGap := absDuration(t.Sub(best.Time))
	for _, row := range s.Rows[1:] {
		if gap := absDuration(t.Sub(row.Time)); gap < bestGap {
			best, bestGap = row, gap
		}
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
