// Package store persists the durable JSON artifacts both processes leave
// behind: one record per deployment run, one monitor report per day, and one
// append-only alert log per day. Documents are always written whole and
// renamed into place; nothing is updated incrementally.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const dayFormat = "2006-01-02"

// Store owns the on-disk layout.
type Store struct {
	deploymentsDir string
	monitoringDir  string
}

// New creates a store rooted at the two output directories.
func New(deploymentsDir, monitoringDir string) *Store {
	return &Store{
		deploymentsDir: deploymentsDir,
		monitoringDir:  monitoringDir,
	}
}

// DeploymentPath returns the record path for a run id. Failed runs get the
// -failed suffix so a directory listing tells the story at a glance.
func (s *Store) DeploymentPath(id string, failed bool) string {
	name := id + ".json"
	if failed {
		name = id + "-failed.json"
	}
	return filepath.Join(s.deploymentsDir, name)
}

// SaveDeployment persists one deployment run record.
func (s *Store) SaveDeployment(id string, failed bool, record any) error {
	return writeJSON(s.DeploymentPath(id, failed), record)
}

// SaveDailyReport overwrites the monitor report for the given day with the
// latest snapshot.
func (s *Store) SaveDailyReport(day time.Time, report any) error {
	path := filepath.Join(s.monitoringDir, day.Format(dayFormat)+".json")
	return writeJSON(path, report)
}

// AppendAlert appends one alert to the day's alert log, an append-only JSON
// array rewritten whole on each append.
func (s *Store) AppendAlert(day time.Time, alert any) error {
	path := filepath.Join(s.monitoringDir, "alerts-"+day.Format(dayFormat)+".json")

	var existing []json.RawMessage
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("alert log %s is corrupt: %w", path, err)
		}
	}

	raw, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshaling alert: %w", err)
	}
	existing = append(existing, raw)

	return writeJSON(path, existing)
}

// LatestDeployment returns the newest deployment record as raw JSON along
// with its file name. Run ids are time-prefixed, so lexical order is
// chronological order.
func (s *Store) LatestDeployment() ([]byte, string, error) {
	entries, err := os.ReadDir(s.deploymentsDir)
	if err != nil {
		return nil, "", fmt.Errorf("reading deployments directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, "", os.ErrNotExist
	}
	sort.Strings(names)

	name := names[len(names)-1]
	data, err := os.ReadFile(filepath.Join(s.deploymentsDir, name))
	if err != nil {
		return nil, "", err
	}
	return data, name, nil
}

// DailyReport returns the monitor report for the given day as raw JSON.
func (s *Store) DailyReport(day time.Time) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.monitoringDir, day.Format(dayFormat)+".json"))
}

// AlertLog returns the alert log for the given day as raw JSON.
func (s *Store) AlertLog(day time.Time) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.monitoringDir, "alerts-"+day.Format(dayFormat)+".json"))
}

// writeJSON writes the document to a temp file in the target directory and
// renames it into place, so readers never observe a partial document.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
