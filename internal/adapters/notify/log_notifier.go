package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// LogNotifier prints the alert message instead of delivering it
type LogNotifier struct {
	out    io.Writer
	header string
	logger *zap.Logger
}

// NewLogNotifier creates a notifier writing to out
func NewLogNotifier(out io.Writer, header string, logger *zap.Logger) *LogNotifier {
	return &LogNotifier{
		out:    out,
		header: header,
		logger: logger,
	}
}

// Notify writes the formatted message and logs each alert
func (n *LogNotifier) Notify(ctx context.Context, alerts []string) error {
	if len(alerts) == 0 {
		return nil
	}
	for _, a := range alerts {
		n.logger.Warn("Heartbeat alert", zap.String("alert", a))
	}
	if n.out == nil {
		return nil
	}
	_, err := fmt.Fprintln(n.out, core.FormatAlertMessage(n.header, alerts))
	return err
}
