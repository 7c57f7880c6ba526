// Package doctor runs health checks over an installation: directory
// layout, store integrity, archive presence, audit chain, and stale
// locks.
package doctor

import (
	"fmt"
	"os"
	"time"

	"github.com/cxo-ops/interrupt/internal/audit"
	"github.com/cxo-ops/interrupt/internal/epoch"
	"github.com/cxo-ops/interrupt/internal/lock"
	"github.com/cxo-ops/interrupt/internal/sources"
	"github.com/cxo-ops/interrupt/internal/store"
	"github.com/cxo-ops/interrupt/pkg/config"
)

// Severity levels for findings.
const (
	SeverityCritical = "critical"
	SeverityError    = "error"
	SeverityWarning  = "warning"
)

// Finding is one detected issue.
type Finding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
}

// Result aggregates all findings of one check run.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Findings []Finding `json:"findings"`
}

func (r *Result) add(f Finding) {
	r.Findings = append(r.Findings, f)
	if f.Severity != SeverityWarning {
		r.Healthy = false
	}
}

// Doctor checks one configured installation.
type Doctor struct {
	cfg *config.Config
	now func() time.Time
}

// New returns a Doctor for the given configuration.
func New(cfg *config.Config) *Doctor {
	return &Doctor{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// Check runs every diagnostic and returns the aggregate result.
func (d *Doctor) Check() *Result {
	result := &Result{Healthy: true}
	d.checkDirectories(result)
	d.checkStore(result)
	d.checkArchives(result)
	d.checkAuditChain(result)
	d.checkStaleLock(result)
	return result
}

// checkDirectories verifies the output trees are writable and the
// archive tree is readable.
func (d *Doctor) checkDirectories(result *Result) {
	for _, dir := range []struct {
		path string
		name string
	}{
		{d.cfg.Paths.DataDir, "data directory"},
		{d.cfg.Paths.WebDir, "web directory"},
	} {
		info, err := os.Stat(dir.path)
		if err != nil {
			result.add(Finding{
				Category:    "paths",
				Description: fmt.Sprintf("%s missing: %v", dir.name, err),
				Severity:    SeverityError,
				Path:        dir.path,
			})
			continue
		}
		if !info.IsDir() {
			result.add(Finding{
				Category:    "paths",
				Description: fmt.Sprintf("%s is not a directory", dir.name),
				Severity:    SeverityCritical,
				Path:        dir.path,
			})
		}
	}
	if _, err := os.Stat(d.cfg.Paths.SpaceWeatherDir); err != nil {
		result.add(Finding{
			Category:    "paths",
			Description: fmt.Sprintf("space weather archive tree missing: %v", err),
			Severity:    SeverityError,
			Path:        d.cfg.Paths.SpaceWeatherDir,
		})
	}
}

// checkStore parses the event catalog and validates every record.
func (d *Doctor) checkStore(result *Result) {
	st, err := store.Open(d.cfg.Paths.DataDir)
	if err != nil {
		result.add(Finding{
			Category:    "store",
			Description: fmt.Sprintf("event store unreadable: %v", err),
			Severity:    SeverityCritical,
			Path:        d.cfg.Paths.DataDir,
		})
		return
	}
	for _, ev := range st.All() {
		if err := ev.Validate(); err != nil {
			result.add(Finding{
				Category:    "store",
				Description: fmt.Sprintf("record %s fails validation: %v", ev.Name, err),
				Severity:    SeverityError,
			})
		}
	}
}

// checkArchives verifies that every archive the current epoch needs is
// present. A missing optional archive is a warning; a missing GOES
// archive blocks every new report.
func (d *Doctor) checkArchives(result *Result) {
	policy := epoch.ForYear(d.now().Year())
	for _, tag := range policy.Sources {
		path := sources.ArchivePath(d.cfg.Paths.SpaceWeatherDir, tag)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		severity := SeverityWarning
		if epoch.Required(tag) {
			severity = SeverityError
		}
		result.add(Finding{
			Category:    "archives",
			Description: fmt.Sprintf("archive for %s missing", tag),
			Severity:    severity,
			Path:        path,
		})
	}
}

func (d *Doctor) checkAuditChain(result *Result) {
	log := audit.NewLog(auditPath(d.cfg))
	count, err := log.Verify()
	if err != nil {
		result.add(Finding{
			Category:    "audit",
			Description: fmt.Sprintf("audit chain invalid after %d records: %v", count, err),
			Severity:    SeverityCritical,
			Path:        log.Path(),
		})
	}
}

func (d *Doctor) checkStaleLock(result *Result) {
	mgr := lock.NewManager(d.cfg.Paths.DataDir, d.cfg.LockTTL())
	holder, err := mgr.Holder()
	if err != nil {
		result.add(Finding{
			Category:    "lock",
			Description: fmt.Sprintf("lock file unreadable: %v", err),
			Severity:    SeverityError,
			Path:        mgr.Path(),
		})
		return
	}
	if holder != nil && holder.Expired(d.now()) {
		result.add(Finding{
			Category:    "lock",
			Description: fmt.Sprintf("lapsed lock left by pid %d on %s", holder.PID, holder.Host),
			Severity:    SeverityWarning,
			Path:        mgr.Path(),
		})
	}
}

func auditPath(cfg *config.Config) string {
	return audit.DefaultPath(cfg.Paths.DataDir)
}
