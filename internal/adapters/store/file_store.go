package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// FileStore keeps each document in its own file; the document name is the path
type FileStore struct {
	logger *zap.Logger
}

// NewFileStore creates a new file backed store
func NewFileStore(logger *zap.Logger) *FileStore {
	return &FileStore{logger: logger}
}

// Get reads the file at name
func (s *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	body, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return body, nil
}

// Put writes body to name through a temporary file and rename, creating
// parent directories as needed.
func (s *FileStore) Put(ctx context.Context, name string, body []byte) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		s.logger.Warn("Failed to chmod document", zap.String("path", tmpName), zap.Error(err))
	}
	if err := os.Rename(tmpName, name); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	s.logger.Debug("Wrote document", zap.String("path", name), zap.Int("bytes", len(body)))
	return nil
}
