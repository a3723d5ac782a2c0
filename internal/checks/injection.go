package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/mikey/workspace-ops/internal/config"
	"github.com/mikey/workspace-ops/internal/core"
	"github.com/mikey/workspace-ops/internal/utils"
	"go.uber.org/zap"
)

// Rule is a single prompt-injection pattern
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// DefaultRules returns the built-in prompt-injection patterns
func DefaultRules() []Rule {
	return []Rule{
		{Label: "ignore-instructions", Pattern: regexp.MustCompile(`(?i)ignore (all|previous|earlier) (instructions|system prompt)`)},
		{Label: "reveal-prompt", Pattern: regexp.MustCompile(`(?i)reveal (the )?(system prompt|developer message)`)},
		{Label: "bypass-safety", Pattern: regexp.MustCompile(`(?i)bypass (safety|policy|guardrails)`)},
		{Label: "exfiltration", Pattern: regexp.MustCompile(`(?i)exfiltrat(e|ion)`)},
		{Label: "disable-safeguards", Pattern: regexp.MustCompile(`(?i)disable (safeguards|safety checks)`)},
		{Label: "role-escalation", Pattern: regexp.MustCompile(`(?i)you are now (unrestricted|root|developer)`)},
	}
}

// CompileRules turns configured patterns into case-insensitive rules
func CompileRules(cfgs []config.RuleConfig) ([]Rule, error) {
	rules := make([]Rule, 0, len(cfgs))
	for i, rc := range cfgs {
		re, err := regexp.Compile("(?i)" + rc.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid injection rule %d (%s): %w", i, rc.Label, err)
		}
		label := rc.Label
		if label == "" {
			label = fmt.Sprintf("custom-%d", i)
		}
		rules = append(rules, Rule{Label: label, Pattern: re})
	}
	return rules, nil
}

// InjectionScan looks for prompt-injection text in the agent's memory notes
type InjectionScan struct {
	files         []string
	dirs          []string
	pattern       string
	rules         []Rule
	reviewer      core.InjectionReviewer
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewInjectionScan creates the check. reviewer may be nil.
func NewInjectionScan(
	files []string,
	dirs []string,
	pattern string,
	rules []Rule,
	reviewer core.InjectionReviewer,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *InjectionScan {
	return &InjectionScan{
		files:         files,
		dirs:          dirs,
		pattern:       pattern,
		rules:         rules,
		reviewer:      reviewer,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

func (c *InjectionScan) Name() string { return "injection-scan" }

func (c *InjectionScan) Run(ctx context.Context, now time.Time, state *core.HeartbeatState) []string {
	var alerts []string

	for _, path := range c.candidates() {
		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Debug("Skipping unreadable note", zap.String("path", path), zap.Error(err))
			continue
		}
		text := c.textProcessor.SanitizeUTF8(string(data))

		if rule, match, ok := c.Match(text); ok {
			c.logger.Debug("Injection rule matched", zap.String("path", path), zap.String("rule", rule.Label))
			alerts = append(alerts, fmt.Sprintf("Suspicious pattern in %s: \"%s\"", path, match))
			continue
		}

		if alert := c.review(ctx, path, text); alert != "" {
			alerts = append(alerts, alert)
		}
	}

	return alerts
}

// Match returns the first rule that matches text
func (c *InjectionScan) Match(text string) (Rule, string, bool) {
	for _, rule := range c.rules {
		if m := rule.Pattern.FindString(text); m != "" {
			return rule, m, true
		}
	}
	return Rule{}, "", false
}

func (c *InjectionScan) review(ctx context.Context, path, text string) string {
	if c.reviewer == nil {
		return ""
	}

	verdict, err := c.reviewer.Review(ctx, path, text)
	if err != nil {
		c.logger.Debug("Injection review failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	if verdict == nil || !verdict.Suspicious {
		return ""
	}

	c.logger.Info("Reviewer flagged note",
		zap.String("path", path),
		zap.String("model", verdict.ModelUsed),
		zap.String("explanation", verdict.Explanation))
	return fmt.Sprintf("Suspicious content in %s (llm): \"%s\"", path, verdict.Excerpt)
}

// candidates lists configured files followed by matching files in each dir
func (c *InjectionScan) candidates() []string {
	var out []string
	seen := make(map[string]bool)

	add := func(p string) {
		if seen[p] {
			return
		}
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	for _, f := range c.files {
		add(f)
	}
	for _, d := range c.dirs {
		matches, err := filepath.Glob(filepath.Join(d, c.pattern))
		if err != nil {
			c.logger.Warn("Invalid note pattern", zap.String("pattern", c.pattern), zap.Error(err))
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return out
}
