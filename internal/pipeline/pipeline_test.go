package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cxo-ops/interrupt/internal/audit"
	"github.com/cxo-ops/interrupt/internal/builder"
	"github.com/cxo-ops/interrupt/internal/lock"
	"github.com/cxo-ops/interrupt/internal/pipeline"
	"github.com/cxo-ops/interrupt/internal/store"
	"github.com/cxo-ops/interrupt/pkg/config"
	"github.com/cxo-ops/interrupt/pkg/errclass"
	"github.com/cxo-ops/interrupt/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, root string, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// sandboxConfig builds a full installation with June 2024 telemetry.
func sandboxConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default().TestProfile(root)
	cfg.Paths.SpaceWeatherDir = filepath.Join(root, "Space_Weather")
	sw := cfg.Paths.SpaceWeatherDir

	writeArchive(t, sw, "GOES/Data/goes_data_r.txt", `# Time P4 P5 P6 HRC_Proxy
2024:170:00:00:00 1.2e-01 3.4e-02 5.6e-03 120.0
2024:170:06:00:00 1.5e-01 3.8e-02 6.0e-03 410.0
2024:170:12:00:00 1.1e-01 3.3e-02 5.5e-03 90.0
`)
	writeArchive(t, sw, "ACE/Data/ace_data.txt", `2024 06 18 0000 1.1e+02 2.0e+01 3.2e+03 1.4e+03 2.2e+02 4.1e+01 9.9e+00
2024 06 18 0600 1.2e+02 2.1e+01 3.3e+03 1.5e+03 2.3e+02 4.2e+01 9.8e+00
`)
	writeArchive(t, sw, "Ephin/Data/ephin_data.txt", `2024:170:00:00:00 40.0 12.0 3.5 1500.0
2024:170:06:00:00 55.0 15.0 4.0 2300.0
`)
	return cfg
}

func juneInput() builder.Input {
	tstart := time.Date(2024, 6, 18, 3, 0, 0, 0, time.UTC)
	return builder.Input{TStart: tstart, TStop: tstart.Add(7 * time.Hour), Mode: model.ModeAuto}
}

func TestRun_PublishesReport(t *testing.T) {
	cfg := sandboxConfig(t)
	p := pipeline.New(cfg, nil, false)

	ev, err := p.Run(context.Background(), juneInput())
	require.NoError(t, err)
	assert.Equal(t, "20240618", ev.Name)

	// Catalog persisted.
	st, err := store.Open(cfg.Paths.DataDir)
	require.NoError(t, err)
	stored, ok := st.Get("20240618")
	require.True(t, ok)
	assert.Equal(t, ev.Hardness, stored.Hardness)

	// Full report tree in place.
	for _, rel := range []string{
		"time_order.html",
		"auto_list.html",
		"manual_list.html",
		"hardness_order.html",
		"Html_dir/20240618.html",
		"Data_dir/20240618_goes.txt",
		"Stat_dir/20240618_goes_stat",
		"Note_dir/20240618.txt",
	} {
		_, err := os.Stat(filepath.Join(cfg.Paths.WebDir, rel))
		assert.NoError(t, err, rel)
	}

	// Audit chain records the publication.
	records, err := audit.NewLog(audit.DefaultPath(cfg.Paths.DataDir)).Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionPublished, records[0].Action)
	assert.Equal(t, "20240618", records[0].Event)
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	cfg := sandboxConfig(t)
	p := pipeline.New(cfg, nil, false)

	_, err := p.Run(context.Background(), juneInput())
	require.NoError(t, err)
	_, err = p.Run(context.Background(), juneInput())
	require.NoError(t, err)

	st, err := store.Open(cfg.Paths.DataDir)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Len(), "re-running the same event must not duplicate it")
}

func TestRun_MissingGOESRecordedAsFailure(t *testing.T) {
	cfg := sandboxConfig(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.Paths.SpaceWeatherDir, "GOES", "Data", "goes_data_r.txt")))
	p := pipeline.New(cfg, nil, false)

	_, err := p.Run(context.Background(), juneInput())
	assert.True(t, errors.Is(err, errclass.ErrMissingRequiredData))

	records, auditErr := audit.NewLog(audit.DefaultPath(cfg.Paths.DataDir)).Records()
	require.NoError(t, auditErr)
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionFailed, records[0].Action)
}

func TestRun_FlightModeHonorsLock(t *testing.T) {
	cfg := sandboxConfig(t)
	mgr := lock.NewManager(cfg.Paths.DataDir, time.Hour)
	_, err := mgr.Acquire("another operator")
	require.NoError(t, err)

	p := pipeline.New(cfg, nil, true)
	_, err = p.Run(context.Background(), juneInput())
	assert.True(t, errors.Is(err, errclass.ErrLockConflict))
}

func TestRun_FlightModeReleasesLock(t *testing.T) {
	cfg := sandboxConfig(t)
	p := pipeline.New(cfg, nil, true)

	_, err := p.Run(context.Background(), juneInput())
	require.NoError(t, err)

	holder, err := lock.NewManager(cfg.Paths.DataDir, time.Hour).Holder()
	require.NoError(t, err)
	assert.Nil(t, holder, "lock must be released after the run")
}

func TestRebuild_RegeneratesTree(t *testing.T) {
	cfg := sandboxConfig(t)
	p := pipeline.New(cfg, nil, false)
	_, err := p.Run(context.Background(), juneInput())
	require.NoError(t, err)

	index := filepath.Join(cfg.Paths.WebDir, "hardness_order.html")
	require.NoError(t, os.Remove(index))

	var steps int
	pages, err := p.Rebuild(context.Background(), func(op string, current, total int, message string) {
		steps++
	})
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.Equal(t, 1, steps, "one progress update per event page")
	_, err = os.Stat(index)
	assert.NoError(t, err)
}
