package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FileWriter writes the learning report to a fixed path
type FileWriter struct {
	path   string
	logger *zap.Logger
}

// NewFileWriter creates a report writer for path
func NewFileWriter(path string, logger *zap.Logger) *FileWriter {
	return &FileWriter{path: path, logger: logger}
}

// WriteReport replaces the report file, creating its directory
func (w *FileWriter) WriteReport(ctx context.Context, report string) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(w.path, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	w.logger.Info("Wrote learning report", zap.String("path", w.path))
	return nil
}

// Path returns the report location
func (w *FileWriter) Path() string {
	return w.path
}
