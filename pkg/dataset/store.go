package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrStoreCorrupt reports an unreadable store file. It is fatal for that
// store's operation only; the other store is unaffected.
var ErrStoreCorrupt = errors.New("store file is corrupt")

// Store is a whole-file JSON array of records. Reads load everything into
// memory; writes replace the file atomically via a temp file and rename, so
// a failed run never leaves a half-written store behind. Concurrent writers
// are not supported.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns all records, or nil when the file does not exist yet.
func (s *Store) Load() ([]Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read store %s", s.path)
	}
	var records []Record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, errors.Wrapf(ErrStoreCorrupt, "%s: %v", s.path, err)
	}
	return records, nil
}

// Save replaces the whole file.
func (s *Store) Save(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	b, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return errors.Wrap(err, "marshal records")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create store directory %s", dir)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp store file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "write store %s", s.path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "close store %s", s.path)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "replace store %s", s.path)
	}
	return nil
}
