package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^\w\-]`)

// LocalStorage persists snapshot files on disk under a base directory.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./cache"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// Save writes the given bytes under a filesystem-safe name derived from key.
func (s *LocalStorage) Save(key string, data []byte) error {
	path := s.resolve(key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	return nil
}

// Read returns the stored bytes for the key, or os.ErrNotExist.
func (s *LocalStorage) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.resolve(key))
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return data, nil
}

// List returns the keys of every stored snapshot.
func (s *LocalStorage) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		keys = append(keys, name[:len(name)-len(".json")])
	}
	return keys, nil
}

// Delete removes a stored snapshot if present.
func (s *LocalStorage) Delete(key string) error {
	if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	return nil
}

// CleanupOlderThan removes snapshots older than the provided TTL and returns
// deleted keys.
func (s *LocalStorage) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	keys, err := s.List()
	if err != nil {
		return nil, err
	}
	deleted := make([]string, 0)
	for _, key := range keys {
		info, err := os.Stat(s.resolve(key))
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(s.resolve(key)); err != nil && !os.IsNotExist(err) {
			return deleted, fmt.Errorf("cleanup snapshot %s: %w", key, err)
		}
		deleted = append(deleted, key)
	}
	return deleted, nil
}

func (s *LocalStorage) resolve(key string) string {
	safe := unsafeKeyChars.ReplaceAllString(key, "_")
	return filepath.Join(s.baseDir, safe+".json")
}
