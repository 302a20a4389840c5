package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SourceCSV, cfg.DatasetSource)
	assert.Equal(t, ",|", cfg.TechnologyDelimiters)
	assert.Equal(t, 1000, cfg.SampleSize)
	assert.False(t, cfg.SampleSeeded)
	assert.Equal(t, "zero-fill", cfg.BothSalaryPolicy)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.EventsEnabled)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATASET_SOURCE", "clickhouse")
	t.Setenv("SAMPLE_SEED", "42")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("SAMPLE_SIZE", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SourceClickHouse, cfg.DatasetSource)
	assert.True(t, cfg.SampleSeeded)
	assert.Equal(t, uint64(42), cfg.SampleSeed)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 1000, cfg.SampleSize, "unparseable values fall back to defaults")
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_ADDR=:9999\n"), 0o600))
	// Register a restore, then clear it so the file value applies.
	t.Setenv("HTTP_ADDR", "")
	require.NoError(t, os.Unsetenv("HTTP_ADDR"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("DATASET_SOURCE", "parquet")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("DATASET_SOURCE", "csv")
	t.Setenv("SAMPLE_SEED", "-1")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestDiscoverSnapshots(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"202406_soft_eng_jobs_pol.csv",
		"202309_soft_eng_jobs_pol.csv",
		"notes.txt",
		"latest.csv",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	files, err := DiscoverSnapshots(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), files[0].ReportDate)
	assert.Equal(t, filepath.Join(dir, "202406_soft_eng_jobs_pol.csv"), files[1].Path)

	_, err = DiscoverSnapshots(t.TempDir())
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshots.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
snapshots:
  - date: "2024-06-01"
    path: june.csv
  - date: 2023-09-01
    path: /data/sep.csv
`), 0o600))

	files, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(dir, "june.csv"), files[0].Path, "listed order is kept")
	assert.Equal(t, "/data/sep.csv", files[1].Path)
	assert.Equal(t, time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC), files[1].ReportDate)

	cfg := &Config{DatasetManifest: path, DatasetDir: "/nonexistent"}
	viaConfig, err := cfg.SnapshotFiles()
	require.NoError(t, err)
	assert.Equal(t, files, viaConfig)

	require.NoError(t, os.WriteFile(path, []byte("snapshots:\n  - date: June\n    path: x.csv\n"), 0o600))
	_, err = LoadManifest(path)
	assert.Error(t, err)
}
