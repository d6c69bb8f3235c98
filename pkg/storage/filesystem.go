package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps uploaded payment slips on the local disk under a
// single base directory. Relative paths given to it never escape the
// base directory because they are produced by the service, not the
// client.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates the base directory when missing.
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// SaveStream streams r into the file at relPath, creating parent
// directories as needed, and returns the stored relative path.
func (s *LocalStorage) SaveStream(relPath string, r io.Reader) (string, error) {
	abs := s.abs(relPath)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}

	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	return relPath, nil
}

// Open returns a read-only handle on a stored file.
func (s *LocalStorage) Open(relPath string) (*os.File, error) {
	f, err := os.Open(s.abs(relPath))
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	return f, nil
}

// Delete removes a stored file. A missing file is not an error.
func (s *LocalStorage) Delete(relPath string) error {
	if err := os.Remove(s.abs(relPath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

func (s *LocalStorage) abs(relPath string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(s.baseDir, relPath)
}
