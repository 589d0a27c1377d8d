package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DiskStorage writes uploads to a local directory, served under /uploads.
type DiskStorage struct {
	dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStorage{dir: dir}, nil
}

func (s *DiskStorage) Save(_ context.Context, name string, data []byte, _ string) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *DiskStorage) Remove(_ context.Context, name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

func (s *DiskStorage) URL(name string) string {
	return "/uploads/" + name
}

// Dir exposes the target directory so the router can serve it statically.
func (s *DiskStorage) Dir() string {
	return s.dir
}
