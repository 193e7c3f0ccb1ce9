// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, now, repair, reset, and wipe operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/storage"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync lift data across devices",
	Long: `Sync lift data across devices using Charm Cloud.

Sync needs the charm backend: set "backend": "charm" in
~/.config/lift/config.json or export LIFT_BACKEND=charm.

Your data is E2E encrypted with your SSH key before upload.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     lift sync link

  2. On other devices, link with the same Charm account:
     lift sync link

  3. Check sync status:
     lift sync status

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  now         Sync immediately
  repair      Repair database corruption
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

Data syncs automatically after each write.`,
}

// charmStore returns the open store as a CharmStore, or an error explaining
// how to enable the charm backend.
func charmStore() (*storage.CharmStore, error) {
	if svc != nil {
		if cs, ok := svc.Repository().Store().(*storage.CharmStore); ok {
			return cs, nil
		}
	}
	return nil, fmt.Errorf("sync requires the charm backend (current: %s); set LIFT_BACKEND=charm", cfg.GetBackend())
}

// requireCharmBackend guards sync commands that run without an open store.
func requireCharmBackend() error {
	if cfg.GetBackend() != config.BackendCharm {
		return fmt.Errorf("sync requires the charm backend (current: %s); set LIFT_BACKEND=charm", cfg.GetBackend())
	}
	return storage.ConfigureCharmHost(cfg.CharmHost)
}

func runCharmCLI(args ...string) error {
	c := exec.Command("charm", args...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
If you already have an account, you'll be prompted to link via charm.sh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := charmStore()
		if err != nil {
			return err
		}
		if err := runCharmCLI("link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")
		fmt.Println("Your lift data will now sync automatically across devices.")

		if err := cs.Sync(); err != nil {
			color.Yellow("⚠ Initial sync failed: %v", err)
		} else {
			color.Green("✓ Initial sync complete")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local lift data.
You can link again later with 'lift sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := charmStore(); err != nil {
			return err
		}
		if err := runCharmCLI("unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local lift data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := charmStore()
		if err != nil {
			return err
		}

		id, err := cs.ID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'lift sync link' to connect to Charm.")
			return nil
		}

		fmt.Println("Charm ID:", id)
		fmt.Println("Server:", os.Getenv("CHARM_HOST"))
		if cs.IsReadOnly() {
			color.Yellow("⚠ Opened read-only (another lift process holds the lock)")
		}
		fmt.Println()

		data, err := svc.Repository().GetAllData(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read local data: %w", err)
		}
		color.Green("✓ Connected to Charm")
		fmt.Printf("  Exercises: %d\n", len(data.Exercises))
		fmt.Printf("  Workouts:  %d\n", len(data.Workouts))
		fmt.Printf("  Templates: %d\n", len(data.Templates))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := charmStore()
		if err != nil {
			return err
		}
		if err := cs.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		if err := svc.RebuildCache(cmd.Context()); err != nil {
			return fmt.Errorf("failed to refresh records: %w", err)
		}
		color.Green("✓ Synced")
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local data",
	Long: `Permanently delete every cloud backup and the local charm database.

There is no undo. Export first with 'lift export json -o backup.json'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCharmBackend(); err != nil {
			return err
		}
		ok, err := confirm(os.Stdout, os.Stdin,
			"Every cloud backup and all local lift data will be deleted.\nType 'wipe' to confirm: ", "wipe")
		if err != nil || !ok {
			fmt.Println("Canceled.")
			return err
		}

		result, err := kv.Wipe(storage.CharmDBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.Green("✓ Wiped %d cloud backup(s) and %d local file(s)", result.CloudBackupsDeleted, result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair the local charm database after lock errors or corruption.

The WAL is checkpointed, a stale SHM file is removed, integrity is checked
and the database is vacuumed. --force continues past a failed integrity
check.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCharmBackend(); err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		fmt.Println("Repairing lift database...")
		result, err := kv.Repair(storage.CharmDBName, force)

		steps := []struct {
			done  bool
			label string
		}{
			{result.WalCheckpointed, "WAL checkpointed"},
			{result.ShmRemoved, "SHM file removed"},
			{result.IntegrityOK, "integrity check passed"},
			{result.Vacuumed, "database vacuumed"},
		}
		for _, step := range steps {
			if step.done {
				color.Green("  ✓ %s", step.label)
			}
		}
		if !result.IntegrityOK {
			color.Red("  ✗ integrity check failed")
		}

		if err != nil {
			if !force {
				color.Yellow("Retry with --force to attempt recovery anyway.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		color.Green("✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete all local data and restore from Charm Cloud.

Use this when a device has drifted from the cloud copy. Anything not yet
synced from this device is lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCharmBackend(); err != nil {
			return err
		}
		ok, err := confirm(os.Stdout, os.Stdin,
			"Local lift data will be replaced by the cloud copy. Continue? [y/N] ", "y", "yes")
		if err != nil || !ok {
			fmt.Println("Canceled.")
			return err
		}

		if err := kv.Reset(storage.CharmDBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.Green("✓ Restored local data from Charm Cloud")
		fmt.Println("Run 'lift cache rebuild' to refresh personal records.")
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
