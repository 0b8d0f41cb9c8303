package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalFileStore keeps uploads under a root directory on disk.
type LocalFileStore struct {
	rootDir string
}

func NewLocalFileStore(rootDir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, err
	}
	return &LocalFileStore{rootDir: rootDir}, nil
}

func (s *LocalFileStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.rootDir, path))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *LocalFileStore) Read(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.rootDir, path))
}

func (s *LocalFileStore) Write(ctx context.Context, path string, content io.Reader) error {
	full := filepath.Join(s.rootDir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, content); err != nil {
		return err
	}
	return f.Sync()
}

func (s *LocalFileStore) Delete(ctx context.Context, path string) error {
	return os.Remove(filepath.Join(s.rootDir, path))
}
