package store

import (
	"context"
	"sync"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the DocumentStore interface
type MemoryStore struct {
	docs   map[string][]byte
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		docs:   make(map[string][]byte),
		logger: logger,
	}
}

// Get retrieves a copy of the document stored under name
func (s *MemoryStore) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.docs[name]
	if !ok {
		return nil, core.ErrNotFound
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}

// Put stores a copy of body under name
func (s *MemoryStore) Put(ctx context.Context, name string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(body))
	copy(stored, body)
	s.docs[name] = stored

	s.logger.Debug("Stored document in memory", zap.String("name", name), zap.Int("bytes", len(body)))
	return nil
}
