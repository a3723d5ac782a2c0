package votes

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// CSVSource reads votes from a CSV file with a header row containing at
// least the columns "source" and "decision".
type CSVSource struct {
	path     string
	location string
	logger   *zap.Logger
}

// NewCSVSource creates a vote source for the file at path
func NewCSVSource(path string, logger *zap.Logger) *CSVSource {
	return &CSVSource{path: path, location: path, logger: logger}
}

// WithLocation sets the name reported by Location, e.g. a workspace relative path
func (s *CSVSource) WithLocation(location string) *CSVSource {
	if location != "" {
		s.location = location
	}
	return s
}

// Location names the vote log, the file path unless WithLocation was used
func (s *CSVSource) Location() string {
	return s.location
}

// Votes returns every row with a non-empty source and decision. A missing
// file yields no votes.
func (s *CSVSource) Votes(ctx context.Context) ([]core.Vote, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("No vote log found", zap.String("path", s.path))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open vote log: %w", err)
	}
	defer f.Close()

	return ReadVotes(f, s.logger)
}

// ReadVotes parses CSV vote rows from r
func ReadVotes(r io.Reader, logger *zap.Logger) ([]core.Vote, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read vote log header: %w", err)
	}

	sourceIdx, decisionIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case "source":
			sourceIdx = i
		case "decision":
			decisionIdx = i
		}
	}
	if sourceIdx < 0 || decisionIdx < 0 {
		logger.Warn("Vote log lacks source/decision columns", zap.Strings("header", header))
		return nil, nil
	}

	var out []core.Vote
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("failed to read vote log: %w", err)
		}

		source := field(record, sourceIdx)
		decision := field(record, decisionIdx)
		if source == "" || decision == "" {
			continue
		}
		out = append(out, core.Vote{Source: source, Decision: decision})
	}

	logger.Debug("Read votes", zap.Int("count", len(out)))
	return out, nil
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
