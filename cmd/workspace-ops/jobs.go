package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/workspace-ops/internal/config"
	"github.com/mikey/workspace-ops/internal/core"
	"github.com/mikey/workspace-ops/internal/di"
	"github.com/mikey/workspace-ops/internal/factory"
	"github.com/mikey/workspace-ops/internal/ports"
)

func runRankLearn(cmd *cobra.Command, args []string) error {
	container, err := di.BuildContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	return container.Invoke(func(
		cfg *config.Config,
		logger *zap.Logger,
		docs core.DocumentStore,
		learner *core.RankingLearner,
	) error {
		defer logger.Sync()
		defer stopStore(docs)

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		if err := runJob(ctx, logger, learner); err != nil {
			return err
		}

		rc := cfg.GetRanking()
		fmt.Fprintf(cmd.OutOrStdout(), "updated ranking: %s\n", rc.RankingPath)
		fmt.Fprintf(cmd.OutOrStdout(), "report: %s\n", rc.ReportPath)
		return nil
	})
}

func runHeartbeat(cmd *cobra.Command, args []string) error {
	container, err := di.BuildContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	return container.Invoke(func(
		logger *zap.Logger,
		docs core.DocumentStore,
		llmFactory *factory.LLMFactory,
		sequencer *core.HeartbeatSequencer,
	) error {
		defer logger.Sync()
		defer stopStore(docs)
		defer func() {
			if err := llmFactory.Close(); err != nil {
				logger.Error("Failed to close LLM client", zap.Error(err))
			}
		}()

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		return runJob(ctx, logger, sequencer)
	})
}

// runJob executes a job and logs how it went
func runJob(ctx context.Context, logger *zap.Logger, job ports.Job) error {
	start := time.Now()
	logger.Debug("Starting job", zap.String("job", job.Name()))

	if err := job.Execute(ctx); err != nil {
		logger.Error("Job failed",
			zap.String("job", job.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return err
	}

	logger.Debug("Job finished",
		zap.String("job", job.Name()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// stopStore closes database backed stores
func stopStore(docs core.DocumentStore) {
	if stopper, ok := docs.(interface{ Stop() }); ok {
		stopper.Stop()
	}
}
