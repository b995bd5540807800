package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore implements Store on the local filesystem, one file per key.
// Entry age is the file's modification time. Stale files stay on disk
// until overwritten; staleness only prevents use, not existence.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".html")
}

// Lookup retrieves the body stored at key if it is younger than ttl.
func (s *FileStore) Lookup(key string, ttl time.Duration) ([]byte, error) {
	path := s.path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil, ErrMiss
	}

	// Age >= ttl is stale; a zero TTL makes every entry stale.
	if time.Since(info.ModTime()) >= ttl {
		return nil, ErrMiss
	}

	body, err := os.ReadFile(path)
	if err != nil || len(body) == 0 {
		// An unreadable or empty entry degrades to a miss
		return nil, ErrMiss
	}

	return body, nil
}

// Store persists a body at key. The write goes through a temp file and a
// rename so a concurrent reader never observes a partial body.
func (s *FileStore) Store(key string, body []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry at key
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
