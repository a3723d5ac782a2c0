package factory

import (
	"github.com/mikey/workspace-ops/internal/adapters/gitbackup"
	"github.com/mikey/workspace-ops/internal/allowlist"
	"github.com/mikey/workspace-ops/internal/checks"
	"github.com/mikey/workspace-ops/internal/config"
	"github.com/mikey/workspace-ops/internal/core"
	"github.com/mikey/workspace-ops/internal/utils"
	"go.uber.org/zap"
)

// CheckFactory assembles the heartbeat cadences and their checks
type CheckFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	runner        core.CommandRunner
	textProcessor *utils.TextProcessor
	llmFactory    *LLMFactory
}

// NewCheckFactory creates a new check factory
func NewCheckFactory(
	cfg *config.Config,
	logger *zap.Logger,
	runner core.CommandRunner,
	textProcessor *utils.TextProcessor,
	llmFactory *LLMFactory,
) *CheckFactory {
	return &CheckFactory{
		cfg:           cfg,
		logger:        logger,
		runner:        runner,
		textProcessor: textProcessor,
		llmFactory:    llmFactory,
	}
}

// CreateSchedules returns the daily, weekly and monthly schedules in run order
func (f *CheckFactory) CreateSchedules() ([]core.CadenceSchedule, error) {
	hb, err := f.cfg.GetHeartbeat()
	if err != nil {
		return nil, err
	}

	daily := []core.Check{
		checks.NewSnapshotStaleness(hb.Snapshot.Dir, hb.Snapshot.Pattern, hb.Snapshot.MaxAge, f.logger),
		checks.NewRepoSize(f.runner, hb.RepoSize.Path, hb.RepoSize.MaxMB, f.logger),
		checks.NewRecurringErrors(checks.RecurringErrorsOptions{
			LogDir:         hb.Errors.LogDir,
			LogPattern:     hb.Errors.LogPattern,
			RecentLogs:     hb.Errors.RecentLogs,
			ErrDir:         hb.Errors.ErrDir,
			ErrPattern:     hb.Errors.ErrPattern,
			Keywords:       hb.Errors.Keywords,
			MinOccurrences: hb.Errors.MinOccurrences,
			Top:            hb.Errors.Top,
			Preview:        hb.Errors.Preview,
			MaxLineLength:  hb.Errors.MaxLineLength,
		}, f.textProcessor, f.logger),
	}
	if hb.Backup.Enabled {
		backup := gitbackup.New(f.runner, f.cfg.WorkspaceRoot(), hb.Backup.Excludes, hb.Backup.Push, f.logger)
		daily = append(daily, checks.NewBackup(backup, f.logger))
	} else {
		f.logger.Info("Workspace backup disabled")
	}

	weekly := []core.Check{
		checks.NewGatewaySecurity(
			hb.Gateway.ConfigPath,
			allowlist.NewChecker(hb.Gateway.AllowedBinds, f.logger),
			hb.Gateway.Required,
			f.logger,
		),
	}

	injection, err := f.createInjectionScan(hb.Injection)
	if err != nil {
		return nil, err
	}

	return []core.CadenceSchedule{
		{Cadence: core.CadenceDaily, Interval: hb.Intervals.Daily, Checks: daily},
		{Cadence: core.CadenceWeekly, Interval: hb.Intervals.Weekly, Checks: weekly},
		{Cadence: core.CadenceMonthly, Interval: hb.Intervals.Monthly, Checks: []core.Check{injection}},
	}, nil
}

func (f *CheckFactory) createInjectionScan(injCfg config.InjectionConfig) (*checks.InjectionScan, error) {
	extra, err := checks.CompileRules(injCfg.ExtraRules)
	if err != nil {
		return nil, err
	}
	rules := append(checks.DefaultRules(), extra...)

	var reviewer core.InjectionReviewer
	if injCfg.LLMReview {
		reviewer, err = f.llmFactory.CreateReviewer()
		if err != nil {
			f.logger.Warn("LLM review unavailable, scanning with rules only", zap.Error(err))
			reviewer = nil
		}
	}

	return checks.NewInjectionScan(
		injCfg.Files,
		injCfg.Dirs,
		injCfg.Pattern,
		rules,
		reviewer,
		f.textProcessor,
		f.logger,
	), nil
}
