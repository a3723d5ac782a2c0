package di

import (
	"github.com/mikey/workspace-ops/internal/config"
)

// CLIFlags contains the persistent command line flags of workspace-ops
type CLIFlags struct {
	ConfigFile string
	Workspace  string
	Storage    string
	Verbose    bool
	JSONLog    bool
	DryRun     bool
}

// LoadConfig reads the configuration file and lets explicit flags override it
func LoadConfig(flags *CLIFlags) (*config.Config, error) {
	cfg, err := config.New(flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, flags)
	return cfg, nil
}

// applyFlags copies flags that were set onto the configuration
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	if flags.Workspace != "" {
		cfg.Set("workspace.root", flags.Workspace)
	}
	if flags.Storage != "" {
		cfg.Set("storage.type", flags.Storage)
	}
	if flags.JSONLog {
		cfg.Set("logging.format", "json")
	}
	if flags.DryRun {
		cfg.Set("alert.dry_run", true)
	}
}
