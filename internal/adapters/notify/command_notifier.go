package notify

import (
	"context"
	"fmt"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// CommandNotifier hands the alert to the assistant's messaging CLI:
// `<binary> message send --channel <channel> --target <target> --message <body>`
type CommandNotifier struct {
	runner  core.CommandRunner
	dir     string
	binary  string
	channel string
	target  string
	header  string
	logger  *zap.Logger
}

// NewCommandNotifier creates a notifier shelling out to binary from dir
func NewCommandNotifier(
	runner core.CommandRunner,
	dir string,
	binary string,
	channel string,
	target string,
	header string,
	logger *zap.Logger,
) *CommandNotifier {
	return &CommandNotifier{
		runner:  runner,
		dir:     dir,
		binary:  binary,
		channel: channel,
		target:  target,
		header:  header,
		logger:  logger,
	}
}

// Notify sends one message containing every alert
func (n *CommandNotifier) Notify(ctx context.Context, alerts []string) error {
	if len(alerts) == 0 {
		return nil
	}

	body := core.FormatAlertMessage(n.header, alerts)
	res := n.runner.Run(ctx, n.dir, n.binary,
		"message", "send",
		"--channel", n.channel,
		"--target", n.target,
		"--message", body,
	)
	if !res.Success() {
		return fmt.Errorf("%s message send failed (exit %d): %s", n.binary, res.ExitCode, res.Output())
	}

	n.logger.Info("Alert sent",
		zap.String("channel", n.channel),
		zap.String("target", n.target),
		zap.Int("alerts", len(alerts)))
	return nil
}
