package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/macrolens/intake/internal/domain"
)

// JSONStore keeps the catalog in a single JSON document mapping food names
// to their per-100g records.
type JSONStore struct {
	// mu serializes read-merge-write cycles within the process.
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewJSONStore creates a store backed by the file at path.
func NewJSONStore(path string, logger *slog.Logger) *JSONStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *JSONStore) Path() string {
	return s.path
}

// CreateIfMissing writes an empty catalog when the file does not exist.
func (s *JSONStore) CreateIfMissing() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	s.logger.Info("creating empty catalog", "path", s.path)
	return s.write(map[string]domain.NutrientRecord{})
}

// Load reads the whole catalog. It fails when the file is missing or is
// not an object of numeric records.
func (s *JSONStore) Load(ctx context.Context) (map[string]domain.NutrientRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrStoreNotFound, s.path)
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var foods map[string]domain.NutrientRecord
	if err := json.Unmarshal(data, &foods); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrStoreCorrupt, s.path, err)
	}
	if foods == nil {
		// a literal null document
		return nil, fmt.Errorf("%w: %s: not an object", domain.ErrStoreCorrupt, s.path)
	}
	for name, record := range foods {
		if record == nil {
			return nil, fmt.Errorf("%w: %s: %q has no record", domain.ErrStoreCorrupt, s.path, name)
		}
	}

	return foods, nil
}

// Merge reads the current file, overlays name, and writes the whole
// document back. A missing or unparseable file counts as empty; any other
// read error is returned and the file is left alone.
func (s *JSONStore) Merge(ctx context.Context, name string, record domain.NutrientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrStoreNotFound) && !errors.Is(err, domain.ErrStoreCorrupt) {
			return err
		}
		s.logger.Warn("store unreadable, rewriting with new entry only", "path", s.path, "error", err)
		existing = make(map[string]domain.NutrientRecord)
	}

	existing[name] = record
	return s.write(existing)
}

// write replaces the file atomically: temp file in the same directory, then rename.
func (s *JSONStore) write(foods map[string]domain.NutrientRecord) error {
	data, err := json.MarshalIndent(foods, "", "    ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
