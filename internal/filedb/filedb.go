// Package filedb persists a collection as a single JSON file mapping
// record id to record. The file is read once at startup and rewritten
// in full on every mutation; in-memory state stays authoritative.
package filedb

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Load reads the whole collection file. A missing file, unreadable file
// or malformed content all degrade to an empty collection; the condition
// is logged and never returned to the caller.
func Load[T any](path string, log *zap.Logger) map[string]T {
	records := map[string]T{}

	data, err := os.ReadFile(path)
	if err != nil {
		if log != nil && !os.IsNotExist(err) {
			log.Warn("collection read failed, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return records
	}

	if err := json.Unmarshal(data, &records); err != nil {
		if log != nil {
			log.Warn("collection parse failed, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return map[string]T{}
	}

	return records
}

// Save overwrites the collection file with the full collection. The new
// content is written to a temp file in the same directory and renamed
// over the target, so readers never observe a torn file.
func Save[T any](path string, records map[string]T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
