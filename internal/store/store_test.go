package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cxo-ops/interrupt/internal/store"
	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(name string, year int, mode model.Mode, hardness float64) *model.Event {
	start := time.Date(year, 6, 1, 12, 0, 0, 0, time.UTC)
	return &model.Event{
		Name:       name,
		TStart:     start,
		TStop:      start.Add(10 * time.Hour),
		TLostKS:    36.0,
		Mode:       mode,
		Sources:    []model.SourceTag{model.TagDat, model.TagEph, model.TagGOES},
		Hardness:   hardness,
		RecordedAt: time.Now().UTC(),
	}
}

func TestOpen_Empty(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.Empty(t, s.All())
}

func TestUpsert_InsertAndReplace(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)

	s.Upsert(event("20130601", 2013, model.ModeAuto, 1.0))
	s.Upsert(event("20150601", 2015, model.ModeManual, 2.0))
	assert.Equal(t, 2, s.Len())

	// Re-running the same event must replace, not append.
	replacement := event("20130601", 2013, model.ModeAuto, 9.0)
	s.Upsert(replacement)
	assert.Equal(t, 2, s.Len())

	got, ok := s.Get("20130601")
	require.True(t, ok)
	assert.Equal(t, 9.0, got.Hardness)

	// Insertion order preserved across replacement.
	all := s.All()
	assert.Equal(t, "20130601", all[0].Name)
	assert.Equal(t, "20150601", all[1].Name)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := store.Open(dir)
	require.NoError(t, err)

	want := event("20200315", 2020, model.ModeAuto, 4.25)
	want.Sources = []model.SourceTag{model.TagDat, model.TagEph, model.TagGOES, model.TagXMM}
	s.Upsert(want)
	s.Upsert(event("20100101", 2010, model.ModeManual, 0.5))
	require.NoError(t, s.Save())

	back, err := store.Open(dir)
	require.NoError(t, err)
	require.Equal(t, 2, back.Len())

	got, ok := back.Get("20200315")
	require.True(t, ok)
	assert.Equal(t, want.Name, got.Name)
	assert.True(t, want.TStart.Equal(got.TStart))
	assert.True(t, want.TStop.Equal(got.TStop))
	assert.Equal(t, want.TLostKS, got.TLostKS)
	assert.Equal(t, want.Mode, got.Mode)
	assert.Equal(t, want.Sources, got.Sources)
	assert.Equal(t, want.Hardness, got.Hardness)

	// Insertion order survives the round trip.
	all := back.All()
	assert.Equal(t, "20200315", all[0].Name)
	assert.Equal(t, "20100101", all[1].Name)
}

func TestOpen_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.json"), []byte("{broken"), 0644))

	_, err := store.Open(dir)
	assert.True(t, errors.Is(err, errclass.ErrStorePersistence))
}

func TestOpen_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	doc := `{"version":1,"events":[
	  {"name":"20200101","tstart":"2020-01-01T00:00:00Z","tstop":"2020-01-01T10:00:00Z","tlost_ks":36,"mode":"auto","sources_used":["goes"],"hardness_value":1,"recorded_at":"2020-01-05T00:00:00Z"},
	  {"name":"20200101","tstart":"2020-01-01T00:00:00Z","tstop":"2020-01-01T10:00:00Z","tlost_ks":36,"mode":"auto","sources_used":["goes"],"hardness_value":1,"recorded_at":"2020-01-05T00:00:00Z"}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.json"), []byte(doc), 0644))

	_, err := store.Open(dir)
	assert.True(t, errors.Is(err, errclass.ErrStorePersistence))
}

func TestByTime_InsertionOrderIndependent(t *testing.T) {
	a := event("20130601", 2013, model.ModeAuto, 1.0)
	b := event("20150601", 2015, model.ModeManual, 2.0)

	for _, order := range [][]*model.Event{{a, b}, {b, a}} {
		s, err := store.Open(t.TempDir())
		require.NoError(t, err)
		for _, e := range order {
			s.Upsert(e)
		}
		byTime := s.ByTime()
		require.Len(t, byTime, 2)
		assert.Equal(t, "20130601", byTime[0].Name)
		assert.Equal(t, "20150601", byTime[1].Name)
	}
}

func TestByMode_Partition(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	s.Upsert(event("20130601", 2013, model.ModeAuto, 1.0))
	s.Upsert(event("20150601", 2015, model.ModeManual, 2.0))
	s.Upsert(event("20180601", 2018, model.ModeAuto, 3.0))

	auto := s.ByMode(model.ModeAuto)
	manual := s.ByMode(model.ModeManual)
	assert.Len(t, auto, 2)
	assert.Len(t, manual, 1)

	// Union of the partitions equals the time-ordered set, no overlap.
	seen := make(map[string]int)
	for _, e := range auto {
		seen[e.Name]++
	}
	for _, e := range manual {
		seen[e.Name]++
	}
	assert.Len(t, seen, s.Len())
	for name, n := range seen {
		assert.Equal(t, 1, n, "event %s in both partitions", name)
	}
}

func TestByHardness_OrderAndTieBreak(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	s.Upsert(event("20150601", 2015, model.ModeAuto, 2.0))
	s.Upsert(event("20130601", 2013, model.ModeAuto, 5.0))
	// Tie on hardness: earlier tstart wins.
	s.Upsert(event("20180601", 2018, model.ModeAuto, 2.0))

	got := s.ByHardness()
	require.Len(t, got, 3)
	assert.Equal(t, "20130601", got[0].Name)
	assert.Equal(t, "20150601", got[1].Name)
	assert.Equal(t, "20180601", got[2].Name)
}
