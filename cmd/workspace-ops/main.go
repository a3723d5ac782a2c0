package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mikey/workspace-ops/internal/di"
)

var flags = &di.CLIFlags{}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "workspace-ops",
	Short: "Housekeeping jobs for an agent workspace",
	Long: `workspace-ops runs one-shot maintenance jobs against a workspace:

  rank-learn   re-rank content sources from the manual vote log
  heartbeat    run the due health checks, back up and alert`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var rankLearnCmd = &cobra.Command{
	Use:   "rank-learn",
	Short: "Promote or demote sources from recorded votes",
	Args:  cobra.NoArgs,
	RunE:  runRankLearn,
}

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Run the daily, weekly and monthly health checks that are due",
	Args:  cobra.NoArgs,
	RunE:  runHeartbeat,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&flags.Workspace, "workspace", "w", "", "Workspace directory (default: workspace.root)")
	rootCmd.PersistentFlags().StringVar(&flags.Storage, "storage", "", "Storage backend (file, sqlite, mysql, memory)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	heartbeatCmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Print alerts to stdout instead of sending them")

	rootCmd.AddCommand(rankLearnCmd)
	rootCmd.AddCommand(heartbeatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
