// Package store reads and writes the persisted date-keyed series files.
//
// Readers only ever see complete files: writers go through a temp file in the
// same directory followed by a rename.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"MarketDigest/internal/model"
)

// readFile loads path into v. Missing or undecodable files are reported as
// NotFoundError.
func readFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &model.NotFoundError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &model.NotFoundError{Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// writeFile atomically replaces path with the indented JSON encoding of v.
func writeFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

// isMissing reports whether err came from a series file that does not exist yet.
func isMissing(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// decodeSnapshots turns the raw date → object mapping into a Series. JSON
// null values are skipped; objects, arrays and booleans are malformed.
func decodeSnapshots(raw map[string]json.RawMessage) (*model.Series, error) {
	byDate := make(map[string]model.Snapshot, len(raw))
	for date, msg := range raw {
		var entries map[string]json.RawMessage
		trimmed := bytes.TrimSpace(msg)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, &model.MalformedSnapshotError{Date: date, Reason: "snapshot is not an object"}
		}
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, &model.MalformedSnapshotError{Date: date, Reason: err.Error()}
		}
		snap := make(model.Snapshot, len(entries))
		for key, v := range entries {
			if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				continue
			}
			var val model.Value
			if err := json.Unmarshal(v, &val); err != nil {
				return nil, &model.MalformedSnapshotError{Date: date, Instrument: key, Reason: err.Error()}
			}
			snap[key] = val
		}
		byDate[date] = snap
	}
	return model.NewSeries(byDate)
}

// encodeSnapshots is the inverse of decodeSnapshots.
func encodeSnapshots(byDate map[string]model.Snapshot) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(byDate))
	for date, snap := range byDate {
		if snap == nil {
			snap = model.Snapshot{}
		}
		data, err := json.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("encode snapshot %s: %w", date, err)
		}
		out[date] = data
	}
	return out, nil
}

// Trim drops the oldest dates so that at most keep remain. keep <= 0 keeps all.
func Trim(byDate map[string]model.Snapshot, keep int) {
	if keep <= 0 || len(byDate) <= keep {
		return
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates[:len(dates)-keep] {
		delete(byDate, d)
	}
}

func dateRange(byDate map[string]model.Snapshot) (first, last string) {
	for d := range byDate {
		if first == "" || d < first {
			first = d
		}
		if d > last {
			last = d
		}
	}
	return first, last
}
