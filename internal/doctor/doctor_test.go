package doctor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cxo-ops/interrupt/internal/audit"
	"github.com/cxo-ops/interrupt/internal/epoch"
	"github.com/cxo-ops/interrupt/internal/sources"
	"github.com/cxo-ops/interrupt/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// healthyConfig lays out a complete installation under a temp root.
func healthyConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default().TestProfile(root)
	cfg.Paths.SpaceWeatherDir = filepath.Join(root, "Space_Weather")

	require.NoError(t, os.MkdirAll(cfg.Paths.DataDir, 0755))
	require.NoError(t, os.MkdirAll(cfg.Paths.WebDir, 0755))

	policy := epoch.ForYear(time.Now().UTC().Year())
	for _, tag := range policy.Sources {
		path := sources.ArchivePath(cfg.Paths.SpaceWeatherDir, tag)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("# archive\n"), 0644))
	}
	return cfg
}

func findingCategories(r *Result) []string {
	var cats []string
	for _, f := range r.Findings {
		cats = append(cats, f.Category)
	}
	return cats
}

func TestCheck_HealthyInstallation(t *testing.T) {
	result := New(healthyConfig(t)).Check()
	assert.True(t, result.Healthy, "findings: %+v", result.Findings)
	assert.Empty(t, result.Findings)
}

func TestCheck_MissingDirectories(t *testing.T) {
	cfg := config.Default().TestProfile(filepath.Join(t.TempDir(), "nowhere"))
	cfg.Paths.SpaceWeatherDir = filepath.Join(t.TempDir(), "absent")

	result := New(cfg).Check()
	assert.False(t, result.Healthy)
	assert.Contains(t, findingCategories(result), "paths")
}

func TestCheck_MissingRequiredArchive(t *testing.T) {
	cfg := healthyConfig(t)
	goes := sources.ArchivePath(cfg.Paths.SpaceWeatherDir, "goes")
	require.NoError(t, os.Remove(goes))

	result := New(cfg).Check()
	assert.False(t, result.Healthy)

	var found *Finding
	for i := range result.Findings {
		if result.Findings[i].Category == "archives" {
			found = &result.Findings[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, SeverityError, found.Severity)
}

func TestCheck_MissingOptionalArchiveIsWarning(t *testing.T) {
	cfg := healthyConfig(t)
	policy := epoch.ForYear(time.Now().UTC().Year())
	var optional string
	for _, tag := range policy.Sources {
		if !epoch.Required(tag) {
			optional = sources.ArchivePath(cfg.Paths.SpaceWeatherDir, tag)
			break
		}
	}
	require.NotEmpty(t, optional)
	require.NoError(t, os.Remove(optional))

	result := New(cfg).Check()
	assert.True(t, result.Healthy, "optional archive gaps do not fail the check")
	assert.NotEmpty(t, result.Findings)
	assert.Equal(t, SeverityWarning, result.Findings[0].Severity)
}

func TestCheck_CorruptStore(t *testing.T) {
	cfg := healthyConfig(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Paths.DataDir, "events.json"), []byte("{not json"), 0644))

	result := New(cfg).Check()
	assert.False(t, result.Healthy)
	assert.Contains(t, findingCategories(result), "store")
}

func TestCheck_BrokenAuditChain(t *testing.T) {
	cfg := healthyConfig(t)
	log := audit.NewLog(audit.DefaultPath(cfg.Paths.DataDir))
	require.NoError(t, log.Append(audit.ActionPublished, "20240618", "auto", nil))
	require.NoError(t, log.Append(audit.ActionPublished, "20240101", "manual", nil))

	raw, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	tampered := strings.Replace(string(raw), "20240618", "20240619", 1)
	require.NoError(t, os.WriteFile(log.Path(), []byte(tampered), 0644))

	result := New(cfg).Check()
	assert.False(t, result.Healthy)
	assert.Contains(t, findingCategories(result), "audit")
}
