// ABOUTME: CLI command for viewing personal records.
// ABOUTME: Shows one exercise in detail or a table of every catalog exercise.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/models"
)

var recordsCmd = &cobra.Command{
	Use:     "records [exercise]",
	Aliases: []string{"pr", "prs"},
	Short:   "Show personal records",
	Long: `Show personal records.

With an exercise name, ID or ID prefix, shows its best estimated 1RM
(Epley), heaviest weight, most reps and best single-set volume with the
date each was set. Without arguments, lists every catalog exercise.

Records are served from the records index when it is current, and
recomputed from history otherwise.

EXAMPLES:

  lift records                 # Table of all exercises
  lift records "bench press"   # One exercise in detail`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if len(args) == 1 {
			ex, err := svc.Repository().GetExercise(ctx, args[0])
			if err != nil {
				return fmt.Errorf("exercise not found: %s", args[0])
			}
			r, cached, err := svc.Records(ctx, ex.ID)
			if err != nil {
				return fmt.Errorf("failed to get records: %w", err)
			}
			printRecords(ex.Name, r, cached)
			return nil
		}

		exercises, err := svc.Repository().ListExercises(ctx)
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		faint := color.New(color.Faint)
		shown := 0
		for _, ex := range exercises {
			r, _, err := svc.Records(ctx, ex.ID)
			if err != nil {
				return fmt.Errorf("failed to get records: %w", err)
			}
			if r.IsEmpty() {
				continue
			}
			shown++
			fmt.Printf("%s e1RM %-6g max %-6g reps %-3d vol %-7g %s\n",
				padRight(truncate(ex.Name, 24), 24),
				r.Best1RM, r.MaxWeight, r.MaxReps, r.BestSetVolume,
				faint.Sprint(dateOrDash(r.Best1RMDate)))
		}
		if shown == 0 {
			fmt.Println("No records yet.")
		}
		return nil
	},
}

func printRecords(name string, r models.Records, cached bool) {
	if r.IsEmpty() {
		fmt.Printf("No records yet for %s.\n", name)
		return
	}

	faint := color.New(color.Faint)
	color.New(color.Bold).Println(name)
	fmt.Printf("  Estimated 1RM   %-8g %s\n", r.Best1RM, faint.Sprint(dateOrDash(r.Best1RMDate)))
	fmt.Printf("  Heaviest weight %-8g %s\n", r.MaxWeight, faint.Sprint(dateOrDash(r.MaxWeightDate)))
	fmt.Printf("  Most reps       %-8d %s\n", r.MaxReps, faint.Sprint(dateOrDash(r.MaxRepsDate)))
	fmt.Printf("  Best set volume %-8g %s\n", r.BestSetVolume, faint.Sprint(dateOrDash(r.BestSetVolumeDate)))
	if !cached {
		faint.Println("  (recomputed from history)")
	}
}

func dateOrDash(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}
