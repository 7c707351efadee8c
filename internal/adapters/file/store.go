// Package file persists cache entries as a single JSON document on the
// local filesystem.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/awkspace/runfile/pkg/domain"
)

// Store implements ports.CacheStore using a JSON file. Writes go through a
// temp file, fsync and rename so a crashed run never leaves a partial
// cache behind.
type Store struct {
	Path string
}

// storeFile is the on-disk shape: target entries keyed by cache key, plus
// the store-wide variable map.
type storeFile struct {
	Targets map[string]*domain.CacheEntry `json:"targets"`
	Vars    map[string]string             `json:"vars,omitempty"`
}

// New creates a Store at the given path. An empty path defaults to
// ".runfile/cache.json" in the working directory.
func New(path string) *Store {
	if path == "" {
		path = filepath.Join(".runfile", "cache.json")
	}
	return &Store{Path: path}
}

// Get retrieves the entry stored under key.
func (s *Store) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	contents, err := s.read()
	if err != nil {
		return nil, err
	}
	entry, ok := contents.Targets[key]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return entry, nil
}

// Put stores the entry under key.
func (s *Store) Put(ctx context.Context, key string, entry *domain.CacheEntry) error {
	contents, err := s.read()
	if err != nil {
		return err
	}
	contents.Targets[key] = entry
	return s.write(contents)
}

// Delete removes the entry stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	contents, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := contents.Targets[key]; !ok {
		return nil
	}
	delete(contents.Targets, key)
	return s.write(contents)
}

// LoadVars returns the store-wide variable map.
func (s *Store) LoadVars(ctx context.Context) (map[string]string, error) {
	contents, err := s.read()
	if err != nil {
		return nil, err
	}
	if contents.Vars == nil {
		return map[string]string{}, nil
	}
	return contents.Vars, nil
}

func (s *Store) read() (*storeFile, error) {
	contents := &storeFile{Targets: make(map[string]*domain.CacheEntry)}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return contents, nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if err := json.Unmarshal(data, contents); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if contents.Targets == nil {
		contents.Targets = make(map[string]*domain.CacheEntry)
	}
	return contents, nil
}

// write persists the store atomically: temp file in the same directory,
// fsync, then rename over the destination.
func (s *Store) write(contents *storeFile) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure cache directory: %w", err)
	}

	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-cache-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}
