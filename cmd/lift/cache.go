// ABOUTME: CLI commands for the persisted records index.
// ABOUTME: Rebuild from history, clear, or report its size.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the records index",
	Long: `Manage the persisted records index.

Personal records are cached per exercise and kept current as workouts are
logged, edited and deleted. If they ever look wrong, rebuild them from
history.

COMMANDS:

  rebuild   Recompute every exercise's records from history
  clear     Drop the index (records are recomputed on demand)
  status    Show how many exercises are indexed`,
}

var cacheRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the records index from history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.RebuildCache(cmd.Context()); err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}
		color.Green("✓ Rebuilt records for %d exercise(s)", svc.CacheSize())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the records index",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.ClearCache(cmd.Context()); err != nil {
			return fmt.Errorf("clear failed: %w", err)
		}
		color.Green("✓ Records index cleared")
		return nil
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show records index status",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Backend: %s\n", cfg.GetBackend())
		fmt.Printf("Indexed exercises: %d\n", svc.CacheSize())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheRebuildCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	rootCmd.AddCommand(cacheCmd)
}
