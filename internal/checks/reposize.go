package checks

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// RepoSize alerts when a directory (the workspace .git) grows beyond maxMB
type RepoSize struct {
	runner core.CommandRunner
	path   string
	maxMB  int
	logger *zap.Logger
}

// NewRepoSize creates the check
func NewRepoSize(runner core.CommandRunner, path string, maxMB int, logger *zap.Logger) *RepoSize {
	return &RepoSize{runner: runner, path: path, maxMB: maxMB, logger: logger}
}

func (c *RepoSize) Name() string { return "repo-size" }

func (c *RepoSize) Run(ctx context.Context, now time.Time, state *core.HeartbeatState) []string {
	mb, res := c.SizeMB(ctx)
	if !res.OK() {
		c.logger.Debug("Repository size unknown", zap.String("kind", res.Kind.String()), zap.String("detail", res.Detail))
		return nil
	}
	if mb > c.maxMB {
		return []string{fmt.Sprintf("Git repo size is %dMB (> %dMB). Possible binary/blob accumulation.", mb, c.maxMB)}
	}
	return nil
}

// SizeMB measures the directory with `du -sm`
func (c *RepoSize) SizeMB(ctx context.Context) (int, core.Result) {
	if _, err := os.Stat(c.path); err != nil {
		return 0, core.Fail(core.KindMissingInput, err.Error())
	}

	res := c.runner.Run(ctx, "", "du", "-sm", c.path)
	if !res.Success() || res.Stdout == "" {
		return 0, core.Fail(core.KindCommandFailed, "du failed: "+res.Output())
	}

	fields := strings.Fields(res.Stdout)
	mb, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, core.Fail(core.KindMalformedInput, "unexpected du output: "+res.Stdout)
	}
	return mb, core.Ok(res.Stdout)
}
