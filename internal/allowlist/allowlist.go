package allowlist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker tells whether a gateway bind value keeps the service local
type Checker struct {
	binds  []string
	logger *zap.Logger
}

// NewChecker creates a new bind allowlist checker. Blank entries are dropped,
// the rest are kept verbatim.
func NewChecker(binds []string, logger *zap.Logger) *Checker {
	normalized := make([]string, 0, len(binds))
	for _, b := range binds {
		if strings.TrimSpace(b) != "" {
			normalized = append(normalized, b)
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Debug("Initialized bind allowlist", zap.Strings("binds", normalized))
	}

	return &Checker{
		binds:  normalized,
		logger: logger,
	}
}

// IsAllowed reports whether bind equals one of the allowed values exactly
func (c *Checker) IsAllowed(bind string) bool {
	for _, allowed := range c.binds {
		if allowed == bind {
			if c.logger != nil {
				c.logger.Debug("Bind is allowed", zap.String("bind", bind))
			}
			return true
		}
	}
	return false
}

// Describe renders the allowlist for alert messages, e.g. "loopback/localhost"
func (c *Checker) Describe() string {
	var named []string
	for _, b := range c.binds {
		if !strings.ContainsAny(b, "0123456789:") {
			named = append(named, b)
		}
	}
	if len(named) == 0 {
		named = c.binds
	}
	return strings.Join(named, "/")
}
