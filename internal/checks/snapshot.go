package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// SnapshotStaleness alerts when the newest snapshot in a directory is
// missing or older than maxAge.
type SnapshotStaleness struct {
	dir     string
	pattern string
	maxAge  time.Duration
	logger  *zap.Logger
}

// NewSnapshotStaleness creates the check
func NewSnapshotStaleness(dir, pattern string, maxAge time.Duration, logger *zap.Logger) *SnapshotStaleness {
	return &SnapshotStaleness{dir: dir, pattern: pattern, maxAge: maxAge, logger: logger}
}

func (c *SnapshotStaleness) Name() string { return "snapshot-staleness" }

func (c *SnapshotStaleness) Run(ctx context.Context, now time.Time, state *core.HeartbeatState) []string {
	latest, ok := c.latest()
	if !ok {
		return []string{"Social tracker has no snapshot file yet."}
	}

	age := now.Sub(latest)
	if age <= c.maxAge {
		c.logger.Debug("Snapshot fresh", zap.Duration("age", age))
		return nil
	}

	days := age.Hours() / 24
	limit := strconv.FormatFloat(c.maxAge.Hours()/24, 'f', -1, 64)
	return []string{fmt.Sprintf("Social tracker data is stale (%.1f days old, >%s days).", days, limit)}
}

// latest returns the newest modification time among matching regular files
func (c *SnapshotStaleness) latest() (time.Time, bool) {
	matches, err := filepath.Glob(filepath.Join(c.dir, c.pattern))
	if err != nil {
		c.logger.Warn("Invalid snapshot pattern", zap.String("pattern", c.pattern), zap.Error(err))
		return time.Time{}, false
	}

	var newest time.Time
	found := false
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if !found || info.ModTime().After(newest) {
			newest = info.ModTime()
			found = true
		}
	}
	return newest, found
}
