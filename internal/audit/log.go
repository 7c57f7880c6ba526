// Package audit keeps a tamper-evident JSONL log of report runs. Each
// record carries the hash of its predecessor, so any rewrite of
// history breaks the chain.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/jsonutil"
)

// Action names recorded in the log.
const (
	ActionPublished = "report.published"
	ActionRebuilt   = "indices.rebuilt"
	ActionFailed    = "report.failed"
)

// Record is one line of the audit log.
type Record struct {
	Timestamp  time.Time      `json:"timestamp"`
	Action     string         `json:"action"`
	Event      string         `json:"event,omitempty"`
	Mode       string         `json:"mode,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	PrevHash   string         `json:"prev_hash,omitempty"`
	RecordHash string         `json:"record_hash"`
}

// Log appends hash-chained records to a JSONL file.
type Log struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// DefaultPath returns the conventional audit log location under a
// data directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "Audit", "report_audit.jsonl")
}

// NewLog returns a Log backed by the given file path.
func NewLog(path string) *Log {
	return &Log{path: path, now: func() time.Time { return time.Now().UTC() }}
}

// Path returns the backing file location.
func (l *Log) Path() string { return l.path }

// Append writes one record, chaining it to the last record already in
// the file. The write is flock-guarded so concurrent invocations on
// the same host cannot interleave lines.
func (l *Log) Append(action, event, mode string, details map[string]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return fmt.Errorf("lock audit log: %w", err)
	}
	defer unlockFile(file)

	prevHash, err := lastHashLocked(file)
	if err != nil {
		return err
	}

	record := &Record{
		Timestamp: l.now(),
		Action:    action,
		Event:     event,
		Mode:      mode,
		Details:   details,
		PrevHash:  prevHash,
	}
	hash, err := recordHash(record)
	if err != nil {
		return err
	}
	record.RecordHash = hash

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	if _, err := file.Seek(0, 2); err != nil {
		return fmt.Errorf("seek audit log: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return file.Sync()
}

// Verify walks the whole chain and reports the first break. A missing
// file is an empty, valid chain.
func (l *Log) Verify() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	count := 0
	prevHash := ""
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		count++
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			return count, errclass.ErrAuditChainBroken.WithMessagef("line %d: %v", count, err)
		}
		if record.PrevHash != prevHash {
			return count, errclass.ErrAuditChainBroken.WithMessagef("line %d: chain break", count)
		}
		stored := record.RecordHash
		record.RecordHash = ""
		computed, err := recordHash(&record)
		if err != nil {
			return count, err
		}
		if computed != stored {
			return count, errclass.ErrAuditChainBroken.WithMessagef("line %d: record hash mismatch", count)
		}
		prevHash = stored
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("scan audit log: %w", err)
	}
	return count, nil
}

// Records returns every record in file order, without verifying the
// chain.
func (l *Log) Records() ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, scanner.Err()
}

func lastHashLocked(file *os.File) (string, error) {
	if _, err := file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("seek audit log: %w", err)
	}
	last := ""
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue
		}
		last = record.RecordHash
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan audit log: %w", err)
	}
	return last, nil
}

// recordHash hashes the canonical JSON of the record with RecordHash
// cleared.
func recordHash(record *Record) (string, error) {
	clone := *record
	clone.RecordHash = ""
	data, err := jsonutil.CanonicalMarshal(&clone)
	if err != nil {
		return "", fmt.Errorf("canonical marshal: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
