// ABOUTME: CLI commands for the exercise catalog.
// ABOUTME: Supports add, list, history and delete subcommands.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/models"
)

var (
	exerciseCategory   string
	exerciseMuscles    []string
	exerciseBodyweight bool
	exerciseHistoryN   int
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise catalog",
	Long: `Manage the exercise catalog.

Muscles listed on an exercise drive weekly volume per muscle and
push/pull balance. Exercises logged by name are added automatically.

COMMANDS:

  add      Add an exercise
  list     List catalog exercises
  history  Show the sessions containing an exercise
  delete   Remove an exercise from the catalog`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise",
	Long: `Add an exercise to the catalog.

Examples:
  lift exercise add "Bench Press" --category chest --muscles chest,triceps
  lift exercise add "Pull Up" --bodyweight --muscles lats,biceps`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if name == "" {
			return fmt.Errorf("exercise name is required")
		}
		if _, err := svc.Repository().GetExercise(cmd.Context(), name); err == nil {
			return fmt.Errorf("exercise already exists: %s", name)
		}

		ex := models.NewExercise(name, exerciseCategory, exerciseMuscles...)
		ex.UsesBodyweight = exerciseBodyweight
		if err := svc.Repository().SaveExercise(cmd.Context(), ex); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		color.Green("✓ Added %s", ex.Name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(shortID(ex.ID)), strings.Join(ex.Muscles, ", "))
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := svc.Repository().ListExercises(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		if len(exercises) == 0 {
			fmt.Println("No exercises found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, ex := range exercises {
			fmt.Printf("%s %s %s %s\n",
				faint.Sprint(shortID(ex.ID)),
				padRight(ex.Name, 24),
				padRight(ex.Category, 10),
				faint.Sprint(strings.Join(ex.Muscles, ",")))
		}
		return nil
	},
}

var exerciseHistoryCmd = &cobra.Command{
	Use:   "history <exercise>",
	Short: "Show exercise history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := svc.Repository().GetExercise(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("exercise not found: %s", args[0])
		}

		history, err := svc.History(cmd.Context(), ex.ID)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Printf("No sessions logged for %s.\n", ex.Name)
			return nil
		}
		if exerciseHistoryN > 0 && len(history) > exerciseHistoryN {
			history = history[:exerciseHistoryN]
		}

		faint := color.New(color.Faint)
		for _, h := range history {
			sets := make([]string, 0, len(h.Sets))
			for _, s := range h.Sets {
				sets = append(sets, formatSet(s))
			}
			fmt.Printf("%s %s e1RM %-5g %s\n",
				faint.Sprint(h.Date.Format("2006-01-02")),
				padRight(truncate(h.WorkoutName, 16), 16),
				h.Max1RM,
				strings.Join(sets, ", "))
		}
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <exercise>",
	Aliases: []string{"rm"},
	Short:   "Delete an exercise from the catalog",
	Long: `Delete an exercise from the catalog.

Logged workouts keep their sets; the exercise just stops appearing in the
catalog and in catalog-driven analytics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := svc.Repository().GetExercise(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("exercise not found: %s", args[0])
		}
		if err := svc.Repository().DeleteExercise(cmd.Context(), ex.ID); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}
		color.Yellow("✗ Deleted %s", ex.Name)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "exercise category (chest, back, legs, ...)")
	exerciseAddCmd.Flags().StringSliceVarP(&exerciseMuscles, "muscles", "m", nil, "muscles worked, comma separated")
	exerciseAddCmd.Flags().BoolVar(&exerciseBodyweight, "bodyweight", false, "exercise uses bodyweight")

	exerciseHistoryCmd.Flags().IntVarP(&exerciseHistoryN, "limit", "n", 10, "max number of sessions")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseHistoryCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
