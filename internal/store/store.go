// Package store persists the accumulated interruption history. The
// store is the sole source of truth across runs: one JSON document
// keyed by event name, read fully at startup and written back
// atomically after each upsert.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/fsutil"
	"github.com/cxo-ops/interrupt/pkg/model"
)

const (
	storeFile     = "events.json"
	formatVersion = 1
)

// document is the on-disk shape of the store.
type document struct {
	Version int            `json:"version"`
	Events  []*model.Event `json:"events"`
}

// Store is an insertion-ordered mapping of event name to record.
// It supports exactly what the pipeline needs: upsert by name and
// full enumeration under several total orders. There is no delete;
// the history is append-mostly over decades.
type Store struct {
	path   string
	events []*model.Event
	index  map[string]int
}

// Open loads the store from dataDir, creating an empty one when no
// file exists yet.
func Open(dataDir string) (*Store, error) {
	s := &Store{
		path:  filepath.Join(dataDir, storeFile),
		index: make(map[string]int),
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errclass.ErrStorePersistence.WithMessagef("read %s: %v", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errclass.ErrStorePersistence.WithMessagef("parse %s: %v", s.path, err)
	}
	for _, e := range doc.Events {
		if _, dup := s.index[e.Name]; dup {
			return nil, errclass.ErrStorePersistence.WithMessagef("duplicate event %s in %s", e.Name, s.path)
		}
		s.index[e.Name] = len(s.events)
		s.events = append(s.events, e)
	}
	return s, nil
}

// Upsert inserts the record, or replaces the existing record of the
// same name in place. Replacement keeps the original insertion slot so
// re-running a report never reorders history.
func (s *Store) Upsert(e *model.Event) {
	if i, ok := s.index[e.Name]; ok {
		s.events[i] = e
		return
	}
	s.index[e.Name] = len(s.events)
	s.events = append(s.events, e)
}

// Get returns the record for name.
func (s *Store) Get(name string) (*model.Event, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.events[i], true
}

// Len returns the number of stored events.
func (s *Store) Len() int { return len(s.events) }

// All returns every record in insertion order.
func (s *Store) All() []*model.Event {
	out := make([]*model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Save writes the store back to disk atomically.
func (s *Store) Save() error {
	if err := fsutil.EnsureDir(filepath.Dir(s.path)); err != nil {
		return errclass.ErrStorePersistence.WithMessage(err.Error())
	}
	doc := document{Version: formatVersion, Events: s.events}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errclass.ErrStorePersistence.WithMessagef("marshal store: %v", err)
	}
	if err := fsutil.AtomicWrite(s.path, append(data, '\n'), 0644); err != nil {
		return errclass.ErrStorePersistence.WithMessagef("write %s: %v", s.path, err)
	}
	return nil
}

// ByTime returns all events ordered by tstart ascending. The ascending
// convention is load-bearing: consumers bookmark positions in the
// rendered pages, so it must not change between runs.
func (s *Store) ByTime() []*model.Event {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TStart.Before(out[j].TStart)
	})
	return out
}

// ByMode returns the time-ordered subsequence with the given mode.
func (s *Store) ByMode(mode model.Mode) []*model.Event {
	var out []*model.Event
	for _, e := range s.ByTime() {
		if e.Mode == mode {
			out = append(out, e)
		}
	}
	return out
}

// ByHardness returns all events ordered by hardness descending, ties
// broken by tstart ascending for determinism.
func (s *Store) ByHardness() []*model.Event {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Hardness != out[j].Hardness {
			return out[i].Hardness > out[j].Hardness
		}
		return out[i].TStart.Before(out[j].TStart)
	})
	return out
}
