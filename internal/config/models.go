package config

import (
	"fmt"
	"time"
)

// RankingConfig represents the configuration for the ranking learner
type RankingConfig struct {
	VotesPath         string
	RankingPath       string
	ReportPath        string
	PositiveDecisions []string
	NegativeDecisions []string
	PromoteMinVotes   int
	PromoteRatio      float64
	DemoteMinVotes    int
	DemoteRatio       float64
}

// IntervalsConfig holds the cadence intervals of the heartbeat
type IntervalsConfig struct {
	Daily   time.Duration
	Weekly  time.Duration
	Monthly time.Duration
}

// SnapshotConfig configures the snapshot staleness check
type SnapshotConfig struct {
	Dir     string
	Pattern string
	MaxAge  time.Duration
}

// RepoSizeConfig configures the repository size check
type RepoSizeConfig struct {
	Path  string
	MaxMB int
}

// ErrorsConfig configures the recurring error scan
type ErrorsConfig struct {
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

// BackupConfig configures the workspace git backup
type BackupConfig struct {
	Enabled  bool
	Excludes []string
	Push     bool
}

// GatewayConfig configures the gateway security check
type GatewayConfig struct {
	ConfigPath   string
	AllowedBinds []string
	Required     bool
}

// RuleConfig is a user supplied injection rule
type RuleConfig struct {
	Pattern string `mapstructure:"pattern"`
	Label   string `mapstructure:"label"`
}

// InjectionConfig configures the prompt-injection scan
type InjectionConfig struct {
	Files      []string
	Dirs       []string
	Pattern    string
	ExtraRules []RuleConfig
	LLMReview  bool
}

// HeartbeatConfig represents the configuration for the heartbeat sequencer
type HeartbeatConfig struct {
	StatePath string
	Intervals IntervalsConfig
	Snapshot  SnapshotConfig
	RepoSize  RepoSizeConfig
	Errors    ErrorsConfig
	Backup    BackupConfig
	Gateway   GatewayConfig
	Injection InjectionConfig
}

// AlertConfig represents the alert delivery configuration
type AlertConfig struct {
	Channel        string
	Target         string
	Header         string
	CommandBinary  string
	CommandChannel string
	DryRun         bool
}

// TelegramConfig represents the Telegram bot configuration
type TelegramConfig struct {
	Token  string
	ChatID int64
}

// EmailConfig represents the SMTP configuration
type EmailConfig struct {
	SMTPAddress string
	Username    string
	Password    string
	From        string
	To          []string
}

// StorageConfig represents the document storage configuration
type StorageConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GetRanking returns the ranking learner configuration
func (c *Config) GetRanking() RankingConfig {
	return RankingConfig{
		VotesPath:         c.ResolvePath("ranking.votes_path"),
		RankingPath:       c.ResolvePath("ranking.ranking_path"),
		ReportPath:        c.ResolvePath("ranking.report_path"),
		PositiveDecisions: c.GetStringSlice("ranking.positive_decisions"),
		NegativeDecisions: c.GetStringSlice("ranking.negative_decisions"),
		PromoteMinVotes:   c.GetInt("ranking.promote_min_votes"),
		PromoteRatio:      c.GetFloat64("ranking.promote_ratio"),
		DemoteMinVotes:    c.GetInt("ranking.demote_min_votes"),
		DemoteRatio:       c.GetFloat64("ranking.demote_ratio"),
	}
}

// GetHeartbeat returns the heartbeat configuration
func (c *Config) GetHeartbeat() (HeartbeatConfig, error) {
	var hb HeartbeatConfig
	var err error

	hb.StatePath = c.ResolvePath("heartbeat.state_path")

	if hb.Intervals.Daily, err = c.GetDuration("heartbeat.intervals.daily"); err != nil {
		return hb, err
	}
	if hb.Intervals.Weekly, err = c.GetDuration("heartbeat.intervals.weekly"); err != nil {
		return hb, err
	}
	if hb.Intervals.Monthly, err = c.GetDuration("heartbeat.intervals.monthly"); err != nil {
		return hb, err
	}

	hb.Snapshot = SnapshotConfig{
		Dir:     c.ResolvePath("heartbeat.snapshot.dir"),
		Pattern: c.GetString("heartbeat.snapshot.pattern"),
	}
	if hb.Snapshot.MaxAge, err = c.GetDuration("heartbeat.snapshot.max_age"); err != nil {
		return hb, err
	}

	hb.RepoSize = RepoSizeConfig{
		Path:  c.ResolvePath("heartbeat.repo_size.path"),
		MaxMB: c.GetInt("heartbeat.repo_size.max_mb"),
	}

	hb.Errors = ErrorsConfig{
		LogDir:         c.ResolvePath("heartbeat.errors.log_dir"),
		LogPattern:     c.GetString("heartbeat.errors.log_pattern"),
		RecentLogs:     c.GetInt("heartbeat.errors.recent_logs"),
		ErrDir:         c.ResolvePath("heartbeat.errors.err_dir"),
		ErrPattern:     c.GetString("heartbeat.errors.err_pattern"),
		Keywords:       c.GetStringSlice("heartbeat.errors.keywords"),
		MinOccurrences: c.GetInt("heartbeat.errors.min_occurrences"),
		Top:            c.GetInt("heartbeat.errors.top"),
		Preview:        c.GetInt("heartbeat.errors.preview"),
		MaxLineLength:  c.GetInt("heartbeat.errors.max_line_length"),
	}

	hb.Backup = BackupConfig{
		Enabled:  c.GetBool("heartbeat.backup.enabled"),
		Excludes: c.GetStringSlice("heartbeat.backup.excludes"),
		Push:     c.GetBool("heartbeat.backup.push"),
	}

	hb.Gateway = GatewayConfig{
		ConfigPath:   c.ResolvePath("heartbeat.gateway.config_path"),
		AllowedBinds: c.GetStringSlice("heartbeat.gateway.allowed_binds"),
		Required:     c.GetBool("heartbeat.gateway.required"),
	}

	hb.Injection = InjectionConfig{
		Files:     c.ResolvePaths("heartbeat.injection.files"),
		Dirs:      c.ResolvePaths("heartbeat.injection.dirs"),
		Pattern:   c.GetString("heartbeat.injection.pattern"),
		LLMReview: c.GetBool("heartbeat.injection.llm_review"),
	}
	if err := c.v.UnmarshalKey("heartbeat.injection.extra_rules", &hb.Injection.ExtraRules); err != nil {
		return hb, fmt.Errorf("invalid heartbeat.injection.extra_rules: %w", err)
	}

	return hb, nil
}

// GetCommandTimeout returns the upper bound for a single subprocess call
func (c *Config) GetCommandTimeout() (time.Duration, error) {
	return c.GetDuration("command.timeout")
}

// GetAlert returns the alert delivery configuration
func (c *Config) GetAlert() AlertConfig {
	return AlertConfig{
		Channel:        c.GetString("alert.channel"),
		Target:         c.GetString("alert.target"),
		Header:         c.GetString("alert.header"),
		CommandBinary:  c.GetString("alert.command.binary"),
		CommandChannel: c.GetString("alert.command.channel"),
		DryRun:         c.GetBool("alert.dry_run"),
	}
}

// GetTelegram returns the Telegram configuration
func (c *Config) GetTelegram() TelegramConfig {
	return TelegramConfig{
		Token:  c.GetString("telegram.token"),
		ChatID: c.GetInt64("telegram.chat_id"),
	}
}

// GetEmail returns the SMTP configuration
func (c *Config) GetEmail() EmailConfig {
	return EmailConfig{
		SMTPAddress: c.GetString("email.smtp_address"),
		Username:    c.GetString("email.username"),
		Password:    c.GetString("email.password"),
		From:        c.GetString("email.from"),
		To:          c.GetStringSlice("email.to"),
	}
}

// GetStorage returns the storage configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:       c.GetString("storage.type"),
		SQLitePath: c.ResolvePath("storage.sqlite_path"),
		MySQLDSN:   c.GetString("storage.mysql_dsn"),
	}
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}
