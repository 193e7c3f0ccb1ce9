// ABOUTME: CLI command for moving lift data between storage backends.
// ABOUTME: Copies every collection from the current backend into another.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/storage"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateSwitch bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data to another storage backend",
	Long: `Copy all lift data from the current backend to another one.

Backends: badger (default), sqlite, charm.

IMPORTANT:

  - The destination must be empty; existing data is never merged
  - Run with --dry-run first to see what would be migrated
  - Use --switch to make the destination the configured backend

USAGE:

  lift migrate --to sqlite --dry-run   # Preview
  lift migrate --to sqlite --switch    # Copy and switch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		switch dstCfg.GetBackend() {
		case config.BackendBadger, config.BackendSQLite, config.BackendCharm:
		default:
			return fmt.Errorf("unknown backend: %q (use badger, sqlite, or charm)", migrateTo)
		}
		if dstCfg.GetBackend() == cfg.GetBackend() {
			return fmt.Errorf("already using the %s backend", cfg.GetBackend())
		}
		if err := checkDestinationEmpty(&dstCfg); err != nil {
			return err
		}

		src := svc.Repository().Store()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			fmt.Printf("Would migrate from %s to %s:\n", cfg.GetBackend(), dstCfg.GetBackend())
			for _, coll := range storage.Collections {
				recs, err := src.GetAll(ctx, coll)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", coll, err)
				}
				fmt.Printf("  %-10s %d\n", coll, len(recs))
			}
			return nil
		}

		dst, err := dstCfg.OpenStore(logger)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", dstCfg.GetBackend(), err)
		}
		summary, err := storage.MigrateData(ctx, src, dst)
		if cerr := dst.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated from %s to %s", cfg.GetBackend(), dstCfg.GetBackend())
		fmt.Printf("  Exercises: %d\n", summary.Exercises)
		fmt.Printf("  Workouts:  %d\n", summary.Workouts)
		fmt.Printf("  Templates: %d\n", summary.Templates)
		fmt.Printf("  Records:   %d\n", summary.Records)

		if migrateSwitch {
			if err := dstCfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.Green("✓ Now using the %s backend", dstCfg.GetBackend())
		} else {
			fmt.Printf("\nSet \"backend\": %q in %s to use it.\n", dstCfg.GetBackend(), config.GetConfigPath())
		}
		return nil
	},
}

// checkDestinationEmpty refuses to migrate into a local backend that
// already holds data.
func checkDestinationEmpty(c *config.Config) error {
	path := c.StorePath()
	switch c.GetBackend() {
	case config.BackendBadger:
		nonEmpty, err := storage.IsDirNonEmpty(path)
		if err != nil {
			return err
		}
		if nonEmpty {
			return fmt.Errorf("destination %s is not empty", path)
		}
	case config.BackendSQLite:
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("destination %s already exists", path)
		}
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (badger, sqlite, charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateSwitch, "switch", false, "use the destination backend afterwards")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
