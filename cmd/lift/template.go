// ABOUTME: CLI commands for workout templates and periodized blocks.
// ABOUTME: Imports YAML plans and trims sessions to a time budget.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/models"
)

var (
	optimizeMinutes float64
	optimizeSave    bool
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl", "t"},
	Short:   "Manage workout templates",
	Long: `Manage workout templates.

Templates are authored as YAML plan files:

  name: Push A
  block:
    name: Hypertrophy 1
    start_date: 2026-09-07
    duration_weeks: 4
    week_plan:
      - target_sessions: 3
      - target_sessions: 3
      - target_sessions: 3
      - target_sessions: 2
        deload: true
  exercises:
    - name: Bench Press
      category: chest
      target_muscles: [chest, triceps]
      priority: 1
      non_negotiable: true
      sets:
        - {kg: 60, reps: 8, set_type: warmup}
        - {kg: 100, reps: 5}

COMMANDS:

  import <file>            Import a YAML plan
  list                     List templates
  show <template>          Show a template
  optimize <template>      Trim a template to a time budget
  delete <template>        Delete a template`,
}

var templateImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a YAML template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		tpl, err := svc.ImportTemplate(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		color.Green("✓ Imported template %s (%s)", tpl.Name, shortID(tpl.ID))
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := svc.Repository().ListTemplates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		if len(templates) == 0 {
			fmt.Println("No templates found.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, t := range templates {
			block := ""
			if t.Block != nil {
				block = fmt.Sprintf("  block: %s, %d weeks", t.Block.Name, t.Block.PlannedWeeks())
			}
			fmt.Printf("%s %s  %d exercises%s\n",
				faint.Sprint(shortID(t.ID)), padRight(truncate(t.Name, 24), 24), len(t.Exercises), block)
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <template>",
	Short: "Show a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tpl, err := svc.Repository().GetTemplate(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		printTemplate(*tpl)
		return nil
	},
}

func printTemplate(t models.Template) {
	faint := color.New(color.Faint)
	color.New(color.Bold).Printf("%s ", t.Name)
	faint.Println(shortID(t.ID))
	if t.Block != nil {
		fmt.Printf("Block: %s, %d weeks", t.Block.Name, t.Block.PlannedWeeks())
		if !t.Block.StartDate.IsZero() {
			fmt.Printf(", from %s", t.Block.StartDate.Format("2006-01-02"))
		}
		fmt.Println()
	}
	for _, e := range t.Exercises {
		marker := ""
		if e.NonNegotiable {
			marker = " *"
		}
		fmt.Printf("  %s p%d%s\n", e.Name, e.EffectivePriority(), marker)
		for _, s := range e.Sets {
			fmt.Printf("    %s\n", formatSet(s))
		}
	}
}

var templateOptimizeCmd = &cobra.Command{
	Use:   "optimize <template>",
	Short: "Trim a template to fit a time budget",
	Long: `Trim a template to fit into a time budget.

Set durations come from your logged history where there is enough of it,
and default to 45 seconds of work plus the configured rest otherwise.
Priority runs from 1 (most important) to 5. Sets are removed from
priority 5 exercises first, warmups before work sets. Non-negotiable
exercises are never trimmed and every exercise keeps at least one work set.

EXAMPLES:

  lift template optimize "Push A" --minutes 40
  lift template optimize "Push A" -m 30 --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if optimizeMinutes <= 0 {
			return fmt.Errorf("--minutes must be positive")
		}
		res, err := svc.OptimizeTemplate(cmd.Context(), args[0], optimizeMinutes)
		if err != nil {
			return err
		}

		fmt.Printf("Estimated: %d min → %d min\n", res.EstimatedMinutesBefore, res.EstimatedMinutesAfter)
		if len(res.Removed) == 0 {
			color.Green("✓ Already fits in %g minutes", optimizeMinutes)
		}
		for _, r := range res.Removed {
			line := fmt.Sprintf("  - %s: %d set(s)", r.Name, r.Sets)
			if r.Dropped {
				line += " (dropped)"
			}
			color.Yellow(line)
		}
		if len(res.PreservedCore) > 0 {
			names := make([]string, len(res.PreservedCore))
			for i, c := range res.PreservedCore {
				names[i] = c.Name
			}
			fmt.Printf("Kept core: %s\n", strings.Join(names, ", "))
		}

		if optimizeSave {
			out := res.OptimizedTemplate
			out.ID = uuid.New().String()
			out.Name = fmt.Sprintf("%s (%gm)", out.Name, optimizeMinutes)
			if err := svc.Repository().SaveTemplate(cmd.Context(), &out); err != nil {
				return fmt.Errorf("failed to save template: %w", err)
			}
			color.Green("✓ Saved as %s (%s)", out.Name, shortID(out.ID))
		}
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <template>",
	Aliases: []string{"rm"},
	Short:   "Delete a template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := svc.Repository()
		tpl, err := repo.GetTemplate(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		if err := repo.DeleteTemplate(cmd.Context(), tpl.ID); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}
		color.Green("✓ Deleted template %s", tpl.Name)
		return nil
	},
}

func init() {
	templateOptimizeCmd.Flags().Float64VarP(&optimizeMinutes, "minutes", "m", 45, "time budget in minutes")
	templateOptimizeCmd.Flags().BoolVar(&optimizeSave, "save", false, "save the trimmed plan as a new template")

	templateCmd.AddCommand(templateImportCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateOptimizeCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}
