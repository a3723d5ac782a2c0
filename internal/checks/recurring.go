package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mikey/workspace-ops/internal/core"
	"github.com/mikey/workspace-ops/internal/utils"
	"go.uber.org/zap"
)

var (
	isoStampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T[^\s]+`)
	numberRe   = regexp.MustCompile(`\b\d{2,}\b`)
)

// RecurringErrorsOptions tunes the log scan
type RecurringErrorsOptions struct {
	LogDir         string
	LogPattern     string
	RecentLogs     int
	ErrDir         string
	ErrPattern     string
	Keywords       []string
	MinOccurrences int
	Top            int
	Preview        int
	MaxLineLength  int
}

// ErrorCount is a normalized log line and how often it occurred
type ErrorCount struct {
	Line  string
	Count int
}

// RecurringErrors scans recent logs for error lines that keep coming back
type RecurringErrors struct {
	opts          RecurringErrorsOptions
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewRecurringErrors creates the check
func NewRecurringErrors(opts RecurringErrorsOptions, textProcessor *utils.TextProcessor, logger *zap.Logger) *RecurringErrors {
	keywords := make([]string, 0, len(opts.Keywords))
	for _, k := range opts.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	opts.Keywords = keywords

	return &RecurringErrors{opts: opts, textProcessor: textProcessor, logger: logger}
}

func (c *RecurringErrors) Name() string { return "recurring-errors" }

func (c *RecurringErrors) Run(ctx context.Context, now time.Time, state *core.HeartbeatState) []string {
	top := c.Scan(c.files())
	if len(top) == 0 {
		return nil
	}

	n := c.opts.Preview
	if n <= 0 || n > len(top) {
		n = len(top)
	}
	parts := make([]string, 0, n)
	for _, e := range top[:n] {
		parts = append(parts, fmt.Sprintf("%dx %s", e.Count, e.Line))
	}
	return []string{"Recurring errors detected: " + strings.Join(parts, "; ")}
}

// Scan counts normalized error lines across files and returns the ones seen
// at least MinOccurrences times, most frequent first.
func (c *RecurringErrors) Scan(files []string) []ErrorCount {
	counts := make(map[string]int)
	var order []string

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			c.logger.Debug("Skipping unreadable log", zap.String("path", f), zap.Error(err))
			continue
		}
		text := c.textProcessor.SanitizeUTF8(string(data))
		text = strings.ReplaceAll(text, "\r\n", "\n")
		for _, line := range strings.Split(text, "\n") {
			if !c.matches(line) {
				continue
			}
			key := c.Normalize(line)
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	var out []ErrorCount
	for _, key := range order {
		if counts[key] >= c.opts.MinOccurrences {
			out = append(out, ErrorCount{Line: key, Count: counts[key]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if c.opts.Top > 0 && len(out) > c.opts.Top {
		out = out[:c.opts.Top]
	}
	return out
}

// Normalize strips timestamps and numbers so repeated errors collapse
func (c *RecurringErrors) Normalize(line string) string {
	line = isoStampRe.ReplaceAllString(line, "")
	line = numberRe.ReplaceAllString(line, "<n>")
	line = strings.TrimSpace(line)
	return c.textProcessor.ClipRunes(line, c.opts.MaxLineLength)
}

func (c *RecurringErrors) matches(line string) bool {
	lower := strings.ToLower(line)
	for _, k := range c.opts.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// files returns the most recent gateway logs followed by the err logs
func (c *RecurringErrors) files() []string {
	var files []string

	logs, err := filepath.Glob(filepath.Join(c.opts.LogDir, c.opts.LogPattern))
	if err != nil {
		c.logger.Warn("Invalid log pattern", zap.String("pattern", c.opts.LogPattern), zap.Error(err))
	}
	sort.Strings(logs)
	if n := c.opts.RecentLogs; n > 0 && len(logs) > n {
		logs = logs[len(logs)-n:]
	}
	files = append(files, logs...)

	errs, err := filepath.Glob(filepath.Join(c.opts.ErrDir, c.opts.ErrPattern))
	if err != nil {
		c.logger.Warn("Invalid err log pattern", zap.String("pattern", c.opts.ErrPattern), zap.Error(err))
	}
	sort.Strings(errs)
	files = append(files, errs...)

	return files
}
