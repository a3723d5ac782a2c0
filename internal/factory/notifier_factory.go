package factory

import (
	"fmt"
	"os"

	"github.com/mikey/workspace-ops/internal/adapters/notify"
	"github.com/mikey/workspace-ops/internal/config"
	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// NotifierFactory creates alert notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	runner core.CommandRunner
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger, runner core.CommandRunner) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
		runner: runner,
	}
}

// CreateNotifier creates a notifier based on alert.channel. A dry run always
// prints to stdout instead.
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	alertCfg := f.cfg.GetAlert()

	channel := alertCfg.Channel
	if alertCfg.DryRun {
		channel = "log"
	}

	switch channel {
	case "command":
		return notify.NewCommandNotifier(
			f.runner,
			f.cfg.WorkspaceRoot(),
			alertCfg.CommandBinary,
			alertCfg.CommandChannel,
			alertCfg.Target,
			alertCfg.Header,
			f.logger,
		), nil
	case "telegram":
		tgCfg := f.cfg.GetTelegram()
		if tgCfg.Token == "" || tgCfg.ChatID == 0 {
			return nil, fmt.Errorf("telegram.token and telegram.chat_id are required")
		}
		return notify.NewTelegramNotifier(tgCfg.Token, tgCfg.ChatID, alertCfg.Header, f.logger), nil
	case "email":
		emailCfg := f.cfg.GetEmail()
		if len(emailCfg.To) == 0 {
			return nil, fmt.Errorf("email.to must list at least one recipient")
		}
		return notify.NewEmailNotifier(
			emailCfg.SMTPAddress,
			emailCfg.Username,
			emailCfg.Password,
			emailCfg.From,
			emailCfg.To,
			alertCfg.Header,
			f.logger,
		), nil
	case "log":
		return notify.NewLogNotifier(os.Stdout, alertCfg.Header, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported alert channel: %s", channel)
	}
}
