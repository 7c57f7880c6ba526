// Package lock serializes flight-mode runs. Exactly one invocation
// may mutate the published report tree at a time; test-mode runs never
// take the lock.
package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/fsutil"
	"github.com/cxo-ops/interrupt/pkg/uuidutil"
)

const lockFileName = "interrupt.lock"

// Record is the JSON body of the lock file.
type Record struct {
	HolderNonce string    `json:"holder_nonce"`
	PID         int       `json:"pid"`
	Host        string    `json:"host"`
	Purpose     string    `json:"purpose"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the lease has lapsed.
func (r *Record) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Manager acquires and releases the run lock.
type Manager struct {
	dataDir string
	ttl     time.Duration
	mu      sync.Mutex
	now     func() time.Time
}

// NewManager returns a Manager writing its lock file under dataDir.
func NewManager(dataDir string, ttl time.Duration) *Manager {
	return &Manager{
		dataDir: dataDir,
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Path returns the lock file location.
func (m *Manager) Path() string {
	return filepath.Join(m.dataDir, lockFileName)
}

// Acquire takes the run lock. A live lock from another invocation is
// ErrLockConflict; a lapsed lease is broken and re-acquired.
func (m *Manager) Acquire(purpose string) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fsutil.EnsureDir(m.dataDir); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		rec, err := m.tryAcquire(purpose)
		if err == nil {
			return rec, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock: %w", err)
		}

		existing, readErr := m.read()
		if readErr != nil {
			// Unreadable lock file: treat as live, do not steal.
			return nil, errclass.ErrLockConflict.WithMessagef("unreadable lock file %s: %v", m.Path(), readErr)
		}
		if !existing.Expired(m.now()) {
			return nil, errclass.ErrLockConflict.WithMessagef(
				"held by %.8s on %s for %q until %s",
				existing.HolderNonce, existing.Host, existing.Purpose,
				existing.ExpiresAt.Format(time.RFC3339))
		}
		// Lapsed lease: break it and retry once.
		if err := os.Remove(m.Path()); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("break stale lock: %w", err)
		}
	}
	return nil, errclass.ErrLockConflict.WithMessage("could not acquire after breaking stale lock")
}

// Release removes the lock if the nonce matches the current holder.
func (m *Manager) Release(nonce string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read lock: %w", err)
	}
	if rec.HolderNonce != nonce {
		return errclass.ErrLockConflict.WithMessage("lock held by another invocation")
	}
	return os.Remove(m.Path())
}

// Holder returns the current lock record, or nil when unlocked.
func (m *Manager) Holder() (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (m *Manager) tryAcquire(purpose string) (*Record, error) {
	file, err := os.OpenFile(m.Path(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	host, _ := os.Hostname()
	now := m.now()
	rec := &Record{
		HolderNonce: uuidutil.NewV4(),
		PID:         os.Getpid(),
		Host:        host,
		Purpose:     purpose,
		AcquiredAt:  now,
		ExpiresAt:   now.Add(m.ttl),
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		os.Remove(m.Path())
		return nil, fmt.Errorf("write lock record: %w", err)
	}
	if err := file.Sync(); err != nil {
		os.Remove(m.Path())
		return nil, fmt.Errorf("sync lock record: %w", err)
	}
	return rec, nil
}

func (m *Manager) read() (*Record, error) {
	raw, err := os.ReadFile(m.Path())
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("parse lock record: %w", err)
	}
	return &rec, nil
}
