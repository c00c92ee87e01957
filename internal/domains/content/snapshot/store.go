// Package snapshot persists the last-known-good copy of all content as a
// JSONL file: one record per line, human-diffable and safe to hand-edit
// between runs. Writes use the temp-file, fsync, rename pattern so
// concurrent readers never observe a partially written collection.
package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"content-backend/internal/domains/content/model"
	"content-backend/pkg/logger"
)

// Store is the durable fallback tier. It is shared across processes via the
// filesystem; a process-local mutex serializes this process's read-modify-
// write operations.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file location, used by the watcher.
func (s *Store) Path() string {
	return s.path
}

// LoadAll reads the persisted collection. A missing file is not an error;
// it yields an empty list so dependent code proceeds gracefully.
func (s *Store) LoadAll() ([]model.ContentRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.ContentRecord{}, nil
		}
		return nil, fmt.Errorf("%w: opening %s: %v", model.ErrSnapshotIO, s.path, err)
	}
	defer f.Close()

	records := []model.ContentRecord{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record model.ContentRecord
		if err := json.Unmarshal(line, &record); err != nil {
			// Hand-edited files can carry a broken line; skip it rather
			// than lose the whole snapshot.
			logger.Warn("snapshot: skipping malformed line", err)
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %v", model.ErrSnapshotIO, s.path, err)
	}

	return records, nil
}

// ReplaceAll atomically overwrites the persisted collection.
func (s *Store) ReplaceAll(records []model.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(records)
}

// Upsert replaces the record matching id in place, or prepends it when new.
// Prepending keeps most-recent-first proximity to the list start, which
// downstream listings already assume.
func (s *Store) Upsert(record model.ContentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.LoadAll()
	if err != nil {
		return err
	}

	replaced := false
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append([]model.ContentRecord{record}, records...)
	}

	return s.write(records)
}

// Remove filters out the record matching id and persists. A missing id is
// signalled as NotFound; callers log it rather than fail.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.LoadAll()
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, record := range records {
		if record.ID == id {
			found = true
			continue
		}
		kept = append(kept, record)
	}

	if !found {
		return fmt.Errorf("%w: id %s not in snapshot", model.ErrNotFound, id)
	}

	return s.write(kept)
}

// write persists records via temp file + fsync + rename. Callers hold mu.
func (s *Store) write(records []model.ContentRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", model.ErrSnapshotIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".content-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", model.ErrSnapshotIO, err)
	}
	tmpName := tmp.Name()

	fail := func(stage string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", model.ErrSnapshotIO, stage, err)
	}

	w := bufio.NewWriter(tmp)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fail("encoding record", err)
		}
		if _, err := w.Write(line); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: closing temp file: %v", model.ErrSnapshotIO, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: renaming temp file: %v", model.ErrSnapshotIO, err)
	}

	return nil
}
