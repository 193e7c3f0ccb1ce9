// ABOUTME: CLI commands for logging and managing workouts.
// ABOUTME: Supports log, list, show, edit-set and delete subcommands.
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/analytics"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/tracker"
)

var (
	workoutExercises []string
	workoutTemplate  string
	workoutDate      string
	workoutDuration  int
	workoutTags      []string
	workoutLimit     int

	editKg     float64
	editReps   int
	editType   string
	editDone   bool
	editUndone bool
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Log and manage workouts",
	Long: `Log strength sessions and manage your training history.

Every logged workout is checked for personal records against the sessions
dated before it. Editing a set re-checks that workout from scratch.

COMMANDS:

  log       Log a finished workout
  list      List recent workouts
  show      View a workout with all its sets
  edit-set  Change one set of a logged workout
  delete    Delete a workout`,
}

var workoutLogCmd = &cobra.Command{
	Use:   "log [name]",
	Short: "Log a finished workout",
	Long: `Log a finished workout.

Each --exercise takes "name:sets" where sets use KGxREPS[xCOUNT][TYPE]
notation. Unknown exercise names are added to the catalog.

With --template the template's sets are logged as completed, linked to the
template and its block. Extra --exercise entries are appended.

Examples:
  lift workout log Push -e "bench press:40x10w,100x5x3" -e "dip:x12x3"
  lift workout log --template "Push A" --duration 55 --tag "#sleep-bad"
  lift workout log Legs -e "squat:140x5x5" --date "2026-10-14 18:30"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var w models.Workout
		if workoutTemplate != "" {
			var err error
			w, err = svc.StartFromTemplate(ctx, workoutTemplate)
			if err != nil {
				return fmt.Errorf("template not found: %s", workoutTemplate)
			}
			for i := range w.Exercises {
				for j := range w.Exercises[i].Sets {
					w.Exercises[i].Sets[j].Completed = true
				}
			}
		} else {
			w = *models.NewWorkout("workout")
		}
		if len(args) > 0 {
			w.Name = args[0]
		}

		for _, spec := range workoutExercises {
			name, sets, err := parseExerciseSpec(spec)
			if err != nil {
				return err
			}
			ex, err := svc.EnsureExercise(ctx, name, "")
			if err != nil {
				return err
			}
			w.AddExercise(models.WorkoutExercise{
				ExerciseID:    ex.ID,
				Name:          ex.Name,
				Category:      ex.Category,
				TargetMuscles: ex.Muscles,
				Sets:          sets,
			})
		}
		if len(w.Exercises) == 0 {
			return fmt.Errorf("nothing to log: pass --exercise or --template")
		}

		if workoutDate != "" {
			t, err := parseTime(workoutDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s", workoutDate)
			}
			w.WithDate(t)
		} else if workoutTemplate == "" {
			w.WithDate(svc.Now())
		}
		if workoutDuration > 0 {
			w.WithDuration(workoutDuration)
		}
		w.WithTags(workoutTags...)

		res, err := svc.FinishWorkout(ctx, w)
		if err != nil {
			return fmt.Errorf("failed to log workout: %w", err)
		}

		color.Green("✓ Logged %s", res.Workout.Name)
		fmt.Printf("  ID: %s\n", shortID(res.Workout.ID))
		fmt.Printf("  Work sets: %d\n", res.Workout.TotalWorkSets())
		printFeedback(res)
		return nil
	},
}

func printFeedback(res tracker.FinishResult) {
	if len(res.Feedback) == 0 {
		return
	}
	fmt.Println()
	records := 0
	if res.PRs.HasPR() {
		records = len(res.PRs)
	}
	for i, line := range res.Feedback {
		if i < records {
			color.Yellow("★ %s", line)
			continue
		}
		fmt.Printf("  %s\n", line)
	}
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := svc.Repository().ListWorkouts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}
		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}
		if workoutLimit > 0 && len(workouts) > workoutLimit {
			workouts = workouts[:workoutLimit]
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			duration := ""
			if w.Duration > 0 {
				duration = fmt.Sprintf("%d min", w.Duration)
			}
			marker := ""
			if hasRecord(w) {
				marker = color.YellowString(" ★")
			}
			fmt.Printf("%s %s %s %2d sets %s%s\n",
				faint.Sprint(shortID(w.ID)),
				faint.Sprint(w.When().Format("2006-01-02 15:04")),
				padRight(truncate(w.Name, 20), 20),
				w.TotalWorkSets(),
				duration,
				marker)
		}
		return nil
	},
}

func hasRecord(w models.Workout) bool {
	for _, e := range w.Exercises {
		for _, s := range e.Sets {
			if s.IsBest1RM || s.IsBestSetVolume || s.IsHeaviestWeight {
				return true
			}
		}
	}
	return false
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := svc.Repository().GetWorkout(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}

		fmt.Printf("Workout: %s\n", shortID(w.ID))
		fmt.Printf("Name: %s\n", w.Name)
		fmt.Printf("Date: %s\n", w.When().Format("2006-01-02 15:04"))
		if w.Duration > 0 {
			fmt.Printf("Duration: %d min\n", w.Duration)
		}
		if len(w.Tags) > 0 {
			fmt.Printf("Tags: %s\n", strings.Join(w.Tags, " "))
		}
		if w.BlockRef != nil {
			fmt.Printf("Block: %s\n", w.BlockRef.Name)
		}

		faint := color.New(color.Faint)
		for i, e := range w.Exercises {
			fmt.Printf("\n%d. %s\n", i+1, e.Name)
			for j, s := range e.Sets {
				status := "✓"
				if !s.Completed {
					status = faint.Sprint("·")
				}
				fmt.Printf("   %d %s %s%s\n", j+1, status, padRight(formatSet(s), 16), recordBadges(s))
			}
		}
		return nil
	},
}

func recordBadges(s models.Set) string {
	var badges []string
	if s.IsBest1RM {
		badges = append(badges, "1RM")
	}
	if s.IsBestSetVolume {
		badges = append(badges, "volume")
	}
	if s.IsHeaviestWeight {
		badges = append(badges, "weight")
	}
	if len(badges) == 0 {
		return ""
	}
	return color.YellowString("★ %s", strings.Join(badges, " "))
}

var workoutEditSetCmd = &cobra.Command{
	Use:   "edit-set <workout-id> <exercise#> <set#>",
	Short: "Change one set of a logged workout",
	Long: `Change the weight, reps, type or completion of one set.

Exercise and set numbers are the 1-based positions shown by 'lift workout show'.
Personal records for the workout are re-checked from scratch, so an edit can
remove a record as well as grant one.

Examples:
  lift workout edit-set abc123 1 2 --kg 102.5
  lift workout edit-set abc123 2 1 --type warmup
  lift workout edit-set abc123 1 3 --undone`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var exIdx, setIdx int
		if _, err := fmt.Sscanf(args[1], "%d", &exIdx); err != nil {
			return fmt.Errorf("invalid exercise number: %s", args[1])
		}
		if _, err := fmt.Sscanf(args[2], "%d", &setIdx); err != nil {
			return fmt.Errorf("invalid set number: %s", args[2])
		}

		var edit tracker.SetEdit
		flags := cmd.Flags()
		if flags.Changed("kg") {
			edit.Kg = &editKg
		}
		if flags.Changed("reps") {
			edit.Reps = &editReps
		}
		if flags.Changed("type") {
			t := models.SetType(strings.ToLower(editType))
			edit.SetType = &t
		}
		switch {
		case editDone && editUndone:
			return fmt.Errorf("--done and --undone are mutually exclusive")
		case editDone:
			done := true
			edit.Completed = &done
		case editUndone:
			done := false
			edit.Completed = &done
		}
		if edit == (tracker.SetEdit{}) {
			return fmt.Errorf("nothing to change: pass --kg, --reps, --type, --done or --undone")
		}

		w, report, err := svc.EditSet(cmd.Context(), args[0], exIdx-1, setIdx-1, edit)
		if err != nil {
			return fmt.Errorf("failed to edit set: %w", err)
		}

		s := w.Exercises[exIdx-1].Sets[setIdx-1]
		color.Green("✓ Updated %s set %d", w.Exercises[exIdx-1].Name, setIdx)
		fmt.Printf("  %s %s\n", formatSet(s), recordBadges(s))
		printRecordSummary(report)
		return nil
	},
}

func printRecordSummary(report analytics.PRReport) {
	if !report.HasPR() {
		return
	}
	ids := make([]string, 0, len(report))
	for id := range report {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		ex := report[id]
		types := make([]string, 0, len(ex.RecordTypes))
		for _, t := range ex.RecordTypes {
			types = append(types, string(t))
		}
		color.Yellow("★ %s: %s", ex.ExerciseName, strings.Join(types, ", "))
	}
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout",
	Long: `Delete a workout by its ID or ID prefix.

Records of the exercises it contained are recomputed from what remains.

CAUTION:

  This permanently deletes the workout. There is no undo.
  If the prefix matches multiple workouts, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := svc.DeleteWorkout(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		color.Yellow("✗ Deleted %s", w.Name)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(w.ID)),
			w.When().Format("2006-01-02 15:04"))
		return nil
	},
}

func init() {
	workoutLogCmd.Flags().StringArrayVarP(&workoutExercises, "exercise", "e", nil, `exercise and sets, e.g. "squat:140x5x3" (repeatable)`)
	workoutLogCmd.Flags().StringVarP(&workoutTemplate, "template", "t", "", "log a template's planned sets")
	workoutLogCmd.Flags().StringVar(&workoutDate, "date", "", "workout date (YYYY-MM-DD HH:MM)")
	workoutLogCmd.Flags().IntVarP(&workoutDuration, "duration", "d", 0, "duration in minutes")
	workoutLogCmd.Flags().StringSliceVar(&workoutTags, "tag", nil, "tags such as #stress, #sleep-bad, #sick")

	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")

	workoutEditSetCmd.Flags().Float64Var(&editKg, "kg", 0, "new weight")
	workoutEditSetCmd.Flags().IntVar(&editReps, "reps", 0, "new reps")
	workoutEditSetCmd.Flags().StringVar(&editType, "type", "", "new set type (warmup, work, drop, failure, tempo, pause)")
	workoutEditSetCmd.Flags().BoolVar(&editDone, "done", false, "mark the set completed")
	workoutEditSetCmd.Flags().BoolVar(&editUndone, "undone", false, "mark the set not completed")

	workoutCmd.AddCommand(workoutLogCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutEditSetCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
