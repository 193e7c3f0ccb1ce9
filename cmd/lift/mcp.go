// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "lift": {
        "command": "lift",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_workout        Log a finished workout and detect new records
  list_workouts      List recent workouts
  get_workout        Get a workout with all sets
  delete_workout     Delete a workout
  get_records        Personal records for an exercise
  detect_plateau     Check an exercise for stagnation
  readiness          Acute:chronic load readiness score
  volume_landmarks   Weekly work-set ranges per muscle
  muscle_balance     Antagonist muscle balance
  block_progress     Adherence to a template's block
  optimize_session   Trim a template to a time budget

AVAILABLE RESOURCES:

  lift://recent      Recent workouts
  lift://readiness   Current readiness
  lift://records     All personal records`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc, version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
