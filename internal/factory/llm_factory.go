package factory

import (
	"fmt"

	"github.com/mikey/workspace-ops/internal/adapters/bedrock"
	"github.com/mikey/workspace-ops/internal/adapters/gemini"
	"github.com/mikey/workspace-ops/internal/adapters/openai"
	"github.com/mikey/workspace-ops/internal/config"
	"github.com/mikey/workspace-ops/internal/core"
	"github.com/mikey/workspace-ops/internal/utils"
	"go.uber.org/zap"
)

// LLMFactory creates injection reviewers
type LLMFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	reviewer      core.InjectionReviewer
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *LLMFactory {
	return &LLMFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateReviewer creates a reviewer for the configured provider. The client
// is built once and reused.
func (f *LLMFactory) CreateReviewer() (core.InjectionReviewer, error) {
	if f.reviewer != nil {
		return f.reviewer, nil
	}

	llmConfig := f.cfg.GetLLM()

	var (
		reviewer core.InjectionReviewer
		err      error
	)
	switch llmConfig.Provider {
	case "bedrock":
		reviewer, err = bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClient()
	case "gemini":
		reviewer, err = gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClient()
	case "openai":
		reviewer, err = openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmConfig.Provider)
	}
	if err != nil {
		return nil, err
	}

	f.logger.Info("Injection reviewer enabled", zap.String("provider", llmConfig.Provider))
	f.reviewer = reviewer
	return reviewer, nil
}

// Close releases the reviewer when its client holds resources
func (f *LLMFactory) Close() error {
	if closer, ok := f.reviewer.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
