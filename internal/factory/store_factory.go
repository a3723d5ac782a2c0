package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/workspace-ops/internal/adapters/store"
	"github.com/mikey/workspace-ops/internal/config"
	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates document stores and repositories based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDocumentStore creates a document store based on the configuration
func (f *StoreFactory) CreateDocumentStore() (core.DocumentStore, error) {
	storageCfg := f.cfg.GetStorage()

	switch storageCfg.Type {
	case "file", "":
		return store.NewFileStore(f.logger), nil
	case "memory":
		return store.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storageCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storageCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(storageCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageCfg.Type)
	}
}

// CreateRankingRepository stores the source ranking under ranking.ranking_path
func (f *StoreFactory) CreateRankingRepository(docs core.DocumentStore) core.RankingRepository {
	return store.NewRankingRepository(docs, f.cfg.GetRanking().RankingPath, f.logger)
}

// CreateStateRepository stores the heartbeat state under heartbeat.state_path
func (f *StoreFactory) CreateStateRepository(docs core.DocumentStore) core.StateRepository {
	return store.NewStateRepository(docs, f.cfg.ResolvePath("heartbeat.state_path"), f.logger)
}
