package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/LoohanZinho/joraps/errors"
)

// FileStore persists each key as a JSON file under a base directory.
// Writes go through a temp file and rename so a crashed write never
// leaves a half-written value behind.
type FileStore struct {
	fs   afero.Fs
	base string
	mu   sync.RWMutex
}

// NewFileStore creates a FileStore rooted at baseDir on the OS filesystem.
func NewFileStore(baseDir string) (*FileStore, error) {
	return NewFileStoreFS(afero.NewOsFs(), baseDir)
}

// NewFileStoreFS creates a FileStore on the given filesystem. Tests pass
// an in-memory afero filesystem.
func NewFileStoreFS(fs afero.Fs, baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, errors.Storage(fmt.Errorf("kv: base directory is required"))
	}
	if err := fs.MkdirAll(baseDir, 0o750); err != nil {
		return nil, errors.Storage(fmt.Errorf("kv: create base directory: %w", err))
	}
	return &FileStore{fs: fs, base: baseDir}, nil
}

// Get decodes the value for key into out.
func (s *FileStore) Get(_ context.Context, key string, out any) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Storage(fmt.Errorf("kv: read %s: %w", key, err))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errors.Storage(fmt.Errorf("kv: decode %s: %w", key, err))
	}
	return true, nil
}

// Set encodes value and stores it under key.
func (s *FileStore) Set(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Storage(fmt.Errorf("kv: encode %s: %w", key, err))
	}

	tmp := s.path(key) + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return errors.Storage(fmt.Errorf("kv: write %s: %w", key, err))
	}
	if err := s.fs.Rename(tmp, s.path(key)); err != nil {
		return errors.Storage(fmt.Errorf("kv: commit %s: %w", key, err))
	}
	return nil
}

// Delete removes key.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Storage(fmt.Errorf("kv: delete %s: %w", key, err))
	}
	return nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.base, key+".json")
}

var _ Store = (*FileStore)(nil)
