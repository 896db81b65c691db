package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/koptay/client-portal/internal/core/domain"
)

// LocalStore keeps document content on the local filesystem under a single
// directory. Stored names are generated by the document service and never
// contain path separators; Open rejects anything that escapes the directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory when missing and returns the store.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, storedName string, content []byte) error {
	path, err := s.path(storedName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *LocalStore) Open(_ context.Context, storedName string) (io.ReadCloser, error) {
	path, err := s.path(storedName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Remove(_ context.Context, storedName string) error {
	path, err := s.path(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *LocalStore) path(storedName string) (string, error) {
	if storedName == "" || strings.Contains(storedName, "/") || strings.Contains(storedName, "\\") || strings.Contains(storedName, "..") {
		return "", fmt.Errorf("invalid stored name %q", storedName)
	}
	return filepath.Join(s.dir, storedName), nil
}
