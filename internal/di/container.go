package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/workspace-ops/internal/adapters/report"
	"github.com/mikey/workspace-ops/internal/adapters/shell"
	"github.com/mikey/workspace-ops/internal/adapters/votes"
	"github.com/mikey/workspace-ops/internal/config"
	"github.com/mikey/workspace-ops/internal/core"
	"github.com/mikey/workspace-ops/internal/factory"
	"github.com/mikey/workspace-ops/internal/logging"
	"github.com/mikey/workspace-ops/internal/utils"
)

// BuildContainer creates and configures a dependency injection container.
// Constructors run lazily, so a job only builds what it needs.
func BuildContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(LoadConfig); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(cfg *config.Config, flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitLogger(cfg, flags.Verbose)
	}); err != nil {
		return nil, err
	}

	// Register command runner
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (core.CommandRunner, error) {
		timeout, err := cfg.GetCommandTimeout()
		if err != nil {
			return nil, err
		}
		return shell.NewExecRunner(timeout, logger), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCheckFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register storage
	if err := container.Provide(func(f *factory.StoreFactory) (core.DocumentStore, error) {
		return f.CreateDocumentStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StoreFactory, docs core.DocumentStore) core.RankingRepository {
		return f.CreateRankingRepository(docs)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StoreFactory, docs core.DocumentStore) core.StateRepository {
		return f.CreateStateRepository(docs)
	}); err != nil {
		return nil, err
	}

	// Register ranking learner
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.VoteSource {
		return votes.NewCSVSource(cfg.GetRanking().VotesPath, logger).
			WithLocation(cfg.DisplayPath("ranking.votes_path"))
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.ReportWriter {
		return report.NewFileWriter(cfg.GetRanking().ReportPath, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config) core.LearningRules {
		rc := cfg.GetRanking()
		return core.LearningRules{
			Decisions:       core.NewDecisionSets(rc.PositiveDecisions, rc.NegativeDecisions),
			PromoteMinVotes: rc.PromoteMinVotes,
			PromoteRatio:    rc.PromoteRatio,
			DemoteMinVotes:  rc.DemoteMinVotes,
			DemoteRatio:     rc.DemoteRatio,
		}
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewRankingLearner); err != nil {
		return nil, err
	}

	// Register heartbeat sequencer
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CheckFactory) ([]core.CadenceSchedule, error) {
		return f.CreateSchedules()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		states core.StateRepository,
		notifier core.Notifier,
		schedules []core.CadenceSchedule,
		logger *zap.Logger,
	) *core.HeartbeatSequencer {
		return core.NewHeartbeatSequencer(states, notifier, schedules, nil, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
