// ABOUTME: CLI commands for exporting and importing lift data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/storage"
)

var (
	exportOutput  string
	exportSince   string
	importReplace bool
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export lift data",
	Long: `Export lift data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Workout log as Markdown (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include workouts since this date (YYYY-MM-DD, markdown only)

EXAMPLES:

  lift export json                         # Export all data as JSON
  lift export json -o backup.json          # Save to file
  lift export yaml                         # Export as YAML
  lift export markdown --since 2026-01-01  # Workouts from 2026 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := svc.Repository()
		ctx := cmd.Context()

		var data []byte
		var err error

		switch args[0] {
		case "json":
			data, err = repo.ExportJSON(ctx)
		case "yaml":
			data, err = repo.ExportYAML(ctx)
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var md string
			md, err = repo.ExportMarkdown(ctx, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import lift data from a JSON or YAML backup",
	Long: `Import lift data from a JSON or YAML backup file.

Exercises, workouts and templates are merged by ID: entries with the same
ID are overwritten. With --replace, existing data is removed first.
The records index is rebuilt afterwards.

EXAMPLES:

  lift import backup.json               # Merge from file
  lift import backup.yaml --replace     # Replace everything`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		data, err := storage.ParseExport(raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		if err := svc.Import(cmd.Context(), data, importReplace); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d exercise(s), %d workout(s), %d template(s) from %s",
			len(data.Exercises), len(data.Workouts), len(data.Templates), filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include workouts since date (YYYY-MM-DD)")
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "remove existing data before importing")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
