package checks

import (
	"context"
	"time"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// Backupper snapshots the workspace
type Backupper interface {
	Run(ctx context.Context, now time.Time) core.Result
}

// Backup runs the workspace backup and records its outcome in the state
type Backup struct {
	backup Backupper
	logger *zap.Logger
}

// NewBackup creates the check
func NewBackup(backup Backupper, logger *zap.Logger) *Backup {
	return &Backup{backup: backup, logger: logger}
}

func (c *Backup) Name() string { return "backup" }

func (c *Backup) Run(ctx context.Context, now time.Time, state *core.HeartbeatState) []string {
	res := c.backup.Run(ctx, now)
	state.RecordBackup(now, res)

	if !res.OK() {
		c.logger.Warn("Workspace backup failed", zap.String("kind", res.Kind.String()), zap.String("detail", res.Detail))
		return []string{"Git backup failed: " + res.Detail}
	}

	c.logger.Info("Workspace backup finished", zap.String("detail", res.Detail))
	return nil
}
