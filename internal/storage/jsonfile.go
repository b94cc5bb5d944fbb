// Package storage provides the data persistence layer for the soquy ledger.
// Each collection lives in one JSON file holding a flat array of records;
// every write replaces the whole file.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"

	"github.com/phamduc/soquy/internal/common"
)

// Collection file names, without the .json suffix.
const (
	CollectionTransactions  = "transactions"
	CollectionCategories    = "categories"
	CollectionBudgets       = "budgets"
	CollectionRecurring     = "recurring_transactions"
	CollectionNotifications = "notifications"
)

// Store reads and writes whole JSON collections under a single data
// directory. It performs no locking: the ledger assumes exactly one
// writer process at a time.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if
// needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: data directory cannot be empty", common.ErrValidation)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory the store writes under.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Load reads a collection into dst, which must be a pointer to a slice.
// A missing, unreadable, or malformed file degrades to an empty
// collection: read failures are logged, never surfaced.
func (s *Store) Load(collection string, dst any) {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to read data file, treating as empty",
				"collection", collection, "error", err)
		}
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("data file malformed, treating as empty",
			"collection", collection, "error", err)
		resetSlice(dst)
	}
}

// Save replaces a collection on disk. The records are written to a
// temporary file and renamed into place, so a failed write leaves the
// prior contents untouched. Failures are reported as a persistence
// error; callers that already mutated in-memory state must roll it
// back before propagating.
func (s *Store) Save(collection string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", common.ErrPersistence, collection, err)
	}

	target := s.path(collection)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("%w: write %s: %v", common.ErrPersistence, collection, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", common.ErrPersistence, collection, err)
	}

	slog.Debug("saved collection", "collection", collection)
	return nil
}

// resetSlice empties *dst after a partial decode so a malformed file
// never yields half a collection.
func resetSlice(dst any) {
	v := reflect.ValueOf(dst)
	if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Slice {
		v.Elem().Set(reflect.MakeSlice(v.Elem().Type(), 0, 0))
	}
}
