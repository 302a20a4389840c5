package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// SnapshotFile is one monthly CSV export and the month it reports.
type SnapshotFile struct {
	ReportDate time.Time
	Path       string
}

type manifest struct {
	Snapshots []struct {
		Date string `yaml:"date"`
		Path string `yaml:"path"`
	} `yaml:"snapshots"`
}

// LoadManifest reads a YAML list of snapshots:
//
//	snapshots:
//	  - date: 2023-09-01
//	    path: 202309_soft_eng_jobs_pol.csv
//
// Relative paths resolve against the manifest's directory. Entries keep
// their listed order.
func LoadManifest(path string) ([]SnapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Snapshots) == 0 {
		return nil, fmt.Errorf("manifest %s lists no snapshots", path)
	}

	base := filepath.Dir(path)
	files := make([]SnapshotFile, 0, len(m.Snapshots))
	for i, s := range m.Snapshots {
		date, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}
		if s.Path == "" {
			return nil, fmt.Errorf("manifest entry %d: empty path", i)
		}
		p := s.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		files = append(files, SnapshotFile{ReportDate: date, Path: p})
	}
	return files, nil
}

var snapshotName = regexp.MustCompile(`^(\d{4})(\d{2})_.*\.csv$`)

// DiscoverSnapshots finds YYYYMM_*.csv files in dir, oldest month first.
func DiscoverSnapshots(dir string) ([]SnapshotFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir: %w", err)
	}

	var files []SnapshotFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := snapshotName.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		date, err := time.Parse("200601", match[1]+match[2])
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", e.Name(), err)
		}
		files = append(files, SnapshotFile{ReportDate: date, Path: filepath.Join(dir, e.Name())})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no YYYYMM_*.csv snapshots in %s", dir)
	}

	sort.SliceStable(files, func(i, j int) bool { return files[i].ReportDate.Before(files[j].ReportDate) })
	return files, nil
}

// SnapshotFiles resolves the configured CSV snapshots: the manifest when one
// is set, otherwise the files discovered in DatasetDir.
func (c *Config) SnapshotFiles() ([]SnapshotFile, error) {
	if c.DatasetManifest != "" {
		return LoadManifest(c.DatasetManifest)
	}
	return DiscoverSnapshots(c.DatasetDir)
}
