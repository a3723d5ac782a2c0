package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance. An empty configFile searches the
// default locations; a missing default file is not an error.
func New(configFile string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/workspace-ops/")
		v.AddConfigPath("$HOME/.workspace-ops")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("WORKSPACE_OPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("workspace.root", ".")

	// Ranking learner defaults
	v.SetDefault("ranking.votes_path", "content-factory/votes.csv")
	v.SetDefault("ranking.ranking_path", "content-factory/sources-ranking.json")
	v.SetDefault("ranking.report_path", "content-factory/runs/ranking-learning-latest.md")
	v.SetDefault("ranking.positive_decisions", []string{"MM", "Vorstoss", "NL", "FR", "Kampagne", "Parken"})
	v.SetDefault("ranking.negative_decisions", []string{"Irrelevant"})
	v.SetDefault("ranking.promote_min_votes", 4)
	v.SetDefault("ranking.promote_ratio", 0.75)
	v.SetDefault("ranking.demote_min_votes", 3)
	v.SetDefault("ranking.demote_ratio", 0.60)

	// Heartbeat defaults
	v.SetDefault("heartbeat.state_path", "memory/heartbeat-state.json")
	v.SetDefault("heartbeat.intervals.daily", "24h")
	v.SetDefault("heartbeat.intervals.weekly", "168h")
	v.SetDefault("heartbeat.intervals.monthly", "720h")

	v.SetDefault("heartbeat.snapshot.dir", "PARA/Resources/Social/weekly")
	v.SetDefault("heartbeat.snapshot.pattern", "*.md")
	v.SetDefault("heartbeat.snapshot.max_age", "72h")

	v.SetDefault("heartbeat.repo_size.path", ".git")
	v.SetDefault("heartbeat.repo_size.max_mb", 500)

	v.SetDefault("heartbeat.errors.log_dir", "/tmp/openclaw")
	v.SetDefault("heartbeat.errors.log_pattern", "openclaw-*.log")
	v.SetDefault("heartbeat.errors.recent_logs", 3)
	v.SetDefault("heartbeat.errors.err_dir", "tmp")
	v.SetDefault("heartbeat.errors.err_pattern", "*.err.log")
	v.SetDefault("heartbeat.errors.keywords", []string{"error", "fatal", "exception", "unauthorized"})
	v.SetDefault("heartbeat.errors.min_occurrences", 3)
	v.SetDefault("heartbeat.errors.top", 6)
	v.SetDefault("heartbeat.errors.preview", 3)
	v.SetDefault("heartbeat.errors.max_line_length", 240)

	v.SetDefault("heartbeat.backup.enabled", true)
	v.SetDefault("heartbeat.backup.excludes", []string{"agents", "projects", "second-brain-next"})
	v.SetDefault("heartbeat.backup.push", true)

	v.SetDefault("heartbeat.gateway.config_path", "openclaw.json")
	v.SetDefault("heartbeat.gateway.allowed_binds", []string{"loopback", "127.0.0.1", "localhost"})
	v.SetDefault("heartbeat.gateway.required", false)

	v.SetDefault("heartbeat.injection.files", []string{"MEMORY.md"})
	v.SetDefault("heartbeat.injection.dirs", []string{"memory"})
	v.SetDefault("heartbeat.injection.pattern", "*.md")
	v.SetDefault("heartbeat.injection.llm_review", false)

	// Subprocess defaults
	v.SetDefault("command.timeout", "120s")

	// Alert defaults
	v.SetDefault("alert.channel", "command")
	v.SetDefault("alert.target", "")
	v.SetDefault("alert.header", "🚨 Health Heartbeat Alert")
	v.SetDefault("alert.command.binary", "openclaw")
	v.SetDefault("alert.command.channel", "telegram")
	v.SetDefault("alert.dry_run", false)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("email.smtp_address", "localhost:25")
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from", "heartbeat@localhost")
	v.SetDefault("email.to", []string{})

	// Storage defaults
	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.sqlite_path", "memory/workspace-ops.db")
	v.SetDefault("storage.mysql_dsn", "user:password@tcp(localhost:3306)/workspace_ops")

	// LLM provider defaults
	v.SetDefault("llm.provider", "openai")

	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-3-haiku-20240307-v1:0")
	v.SetDefault("bedrock.max_tokens", 500)
	v.SetDefault("bedrock.temperature", 0.0)
	v.SetDefault("bedrock.top_p", 0.9)
	v.SetDefault("bedrock.max_body_size", 8192)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 500)
	v.SetDefault("gemini.temperature", 0.0)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.max_body_size", 8192)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.temperature", 0.0)
	v.SetDefault("openai.top_p", 0.9)
	v.SetDefault("openai.max_body_size", 8192)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 gets an int64 value from the configuration
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	d, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// Set overrides a single key, used by command line flags
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// ResolvePath returns the path stored under key, anchored at workspace.root
// when relative. A leading ~ expands to the home directory.
func (c *Config) ResolvePath(key string) string {
	return c.resolve(c.GetString(key))
}

// ResolvePaths is the slice variant of ResolvePath.
func (c *Config) ResolvePaths(key string) []string {
	raw := c.GetStringSlice(key)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, c.resolve(p))
	}
	return out
}

// DisplayPath returns the path stored under key relative to workspace.root,
// slash separated, when it lies inside the workspace. Paths outside it are
// returned resolved.
func (c *Config) DisplayPath(key string) string {
	resolved := c.ResolvePath(key)
	if resolved == "" {
		return ""
	}
	rel, err := filepath.Rel(c.WorkspaceRoot(), resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return resolved
	}
	return filepath.ToSlash(rel)
}

// WorkspaceRoot returns the absolute workspace directory
func (c *Config) WorkspaceRoot() string {
	root := expandHome(c.GetString("workspace.root"))
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

func (c *Config) resolve(p string) string {
	if p == "" {
		return ""
	}
	p = expandHome(p)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.WorkspaceRoot(), p)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
