// ABOUTME: Root Cobra command for lift CLI.
// ABOUTME: Handles config, logger and tracker lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/tracker"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfg    *config.Config
	logger *log.Logger
	svc    *tracker.Service
)

var rootCmd = &cobra.Command{
	Use:   "lift",
	Short: "Strength training log with personal records and training analytics",
	Long: `Lift is a CLI tool for logging strength training and analysing it.

WHAT IT DOES:

  Logging        workouts, exercises, sets (kg x reps), set types, tags
  Records        estimated 1RM, heaviest weight, most reps, best set volume
  Analytics      plateaus, readiness, weekly volume per muscle, push/pull balance
  Planning       YAML templates with periodized blocks, time-budget trimming

QUICK START:

  $ lift exercise add "Bench Press" --category chest --muscles chest,triceps
  $ lift workout log "Push" -e "bench press:40x10w,100x5x3"
  $ lift records "bench press"
  $ lift analyze readiness

SET NOTATION:

  KGxREPS[xCOUNT][TYPE]   e.g. 100x5, 100x5x3, 40x10w
  TYPE suffix: w warmup, d drop, f failure, t tempo, p pause

TEMPLATES:

  $ lift template import push.yaml
  $ lift template optimize "Push A" --minutes 40
  $ lift analyze block "Push A"

STORAGE:

  Backend is chosen in ~/.config/lift/config.json ("badger", "sqlite" or
  "charm") or with LIFT_BACKEND. Data lives in ~/.local/share/lift unless
  data_dir or LIFT_DATA_DIR says otherwise. The charm backend syncs across
  devices through Charm Cloud.

MCP INTEGRATION:

  Run 'lift mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "lift": { "command": "lift", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger = logging.New(nil, cfg.GetLogLevel())

		// Skip storage init for commands that don't need it
		if skipsStorage(cmd) {
			return nil
		}

		_ = closeService()
		store, err := cfg.OpenStore(logger)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		svc = tracker.NewService(cmd.Context(), store, logger, cfg.Analytics)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeService()
	},
}

func closeService() error {
	if svc == nil {
		return nil
	}
	err := svc.Close()
	svc = nil
	return err
}

func skipsStorage(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "install-skill":
		return true
	case "repair", "reset", "wipe":
		// These open the charm database themselves.
		return cmd.Parent() == syncCmd
	}
	return false
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lift version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("lift", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
