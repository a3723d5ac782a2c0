package gitbackup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// Backup commits and pushes the workspace repository
type Backup struct {
	runner   core.CommandRunner
	dir      string
	excludes []string
	push     bool
	logger   *zap.Logger
}

// New creates a backup for the repository at dir. excludes are pathspecs
// left out of `git add`, typically nested repositories.
func New(runner core.CommandRunner, dir string, excludes []string, push bool, logger *zap.Logger) *Backup {
	return &Backup{
		runner:   runner,
		dir:      dir,
		excludes: excludes,
		push:     push,
		logger:   logger,
	}
}

// Run performs the backup at now. A clean tree is a success without commit.
func (b *Backup) Run(ctx context.Context, now time.Time) core.Result {
	res := b.git(ctx, "status", "--porcelain")
	if !res.Success() {
		return core.Fail(core.KindCommandFailed, "git status failed: "+res.Output())
	}
	if strings.TrimSpace(res.Stdout) == "" {
		b.logger.Debug("Workspace clean, nothing to back up", zap.String("dir", b.dir))
		return core.Ok("no changes")
	}

	if res := b.git(ctx, b.addArgs()...); !res.Success() {
		return core.Fail(core.KindCommandFailed, "git add failed: "+res.Output())
	}

	msg := fmt.Sprintf("Heartbeat backup: %s", now.Format("2006-01-02 15:04"))
	if res := b.git(ctx, "commit", "-m", msg); !res.Success() {
		joined := strings.ToLower(res.Stdout + "\n" + res.Stderr)
		if strings.Contains(joined, "nothing to commit") {
			return core.Ok("no commit needed")
		}
		return core.Fail(core.KindCommandFailed, "git commit failed: "+res.Output())
	}

	if !b.push {
		return core.Ok("committed")
	}
	if res := b.git(ctx, "push"); !res.Success() {
		return core.Fail(core.KindCommandFailed, "git push failed: "+res.Output())
	}

	b.logger.Info("Workspace backed up", zap.String("dir", b.dir), zap.String("message", msg))
	return core.Ok("committed + pushed")
}

func (b *Backup) addArgs() []string {
	args := []string{"add", "-A", "--", "."}
	for _, ex := range b.excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		args = append(args, ":(exclude)"+ex)
	}
	return args
}

func (b *Backup) git(ctx context.Context, args ...string) core.CommandResult {
	return b.runner.Run(ctx, b.dir, "git", args...)
}
