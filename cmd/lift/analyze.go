// ABOUTME: CLI commands for training analytics.
// ABOUTME: Plateau, readiness, volume landmarks, muscle balance and block progress.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/lift/internal/analytics"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:     "analyze",
	Aliases: []string{"an"},
	Short:   "Training analytics",
	Long: `Analyse your training history.

COMMANDS:

  plateau <exercise>   Has an exercise stopped progressing?
  readiness            Acute:chronic load ratio and readiness score
  volume               Weekly work-set ranges per muscle
  balance              Push/pull, chest/back, quads/hamstrings balance
  block <template>     Adherence to a template's periodized block

Use --json for machine-readable output.`,
}

// printJSON writes v as indented JSON when --json is set.
func printJSON(v any) (bool, error) {
	if !analyzeJSON {
		return false, nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

var analyzePlateauCmd = &cobra.Command{
	Use:   "plateau <exercise>",
	Short: "Detect a plateau for an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := svc.Repository().GetExercise(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("exercise not found: %s", args[0])
		}
		p, err := svc.Plateau(cmd.Context(), ex.ID)
		if err != nil {
			return err
		}
		if done, err := printJSON(p); done {
			return err
		}

		if p.IsPlateau {
			color.Yellow("⚠ %s has plateaued (%s, %s confidence)", ex.Name, p.StagnationType, p.Confidence)
		} else {
			color.Green("✓ %s is progressing", ex.Name)
		}
		fmt.Printf("  Sessions checked: %d\n", p.ExposuresChecked)
		fmt.Printf("  Since last e1RM high: %d\n", p.E1RMSessionsSince)
		fmt.Printf("  Since last volume high: %d\n", p.VolumeSessionsSince)
		return nil
	},
}

var analyzeReadinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Show training readiness",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := svc.Readiness(cmd.Context())
		if err != nil {
			return err
		}
		if done, err := printJSON(r); done {
			return err
		}

		c := color.New(color.FgGreen)
		switch r.Status {
		case analytics.ReadinessFatigue:
			c = color.New(color.FgRed)
		case analytics.ReadinessLow:
			c = color.New(color.FgYellow)
		}
		c.Printf("Readiness %d (%s)\n", r.ReadinessScore, r.Status)
		fmt.Printf("  Acute load (7d):    %.0f\n", r.AcuteLoad)
		fmt.Printf("  Chronic load (28d): %.0f per week\n", r.ChronicLoad)
		fmt.Printf("  Ratio:              %.2f\n", r.Ratio)
		if r.FlaggedCount > 0 {
			fmt.Printf("  Flagged sessions:   %d\n", r.FlaggedCount)
		}
		fmt.Printf("  %s\n", r.Suggestion)
		return nil
	},
}

var analyzeVolumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Show weekly volume landmarks per muscle",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := svc.VolumeLandmarks(cmd.Context())
		if err != nil {
			return err
		}
		if done, err := printJSON(v); done {
			return err
		}
		if len(v.ByMuscle) == 0 {
			fmt.Println("No muscle volume yet. Add muscles to exercises with 'lift exercise add --muscles'.")
			return nil
		}

		muscles := make([]string, 0, len(v.ByMuscle))
		for m := range v.ByMuscle {
			muscles = append(muscles, m)
		}
		sort.Strings(muscles)

		faint := color.New(color.Faint)
		fmt.Printf("%s %5s %6s %5s %6s  %s\n", padRight("MUSCLE", 14), "LOW", "TARGET", "HIGH", "RECENT", "TREND")
		for _, m := range muscles {
			l := v.ByMuscle[m]
			fmt.Printf("%s %5d %6d %5d %6d  %s %s\n",
				padRight(m, 14), l.Low, l.Target, l.High, l.Recent, l.Trend,
				faint.Sprintf("(%s, %d wk)", l.Confidence, l.ActiveWeeks))
		}
		return nil
	},
}

var analyzeBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show antagonist muscle balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := svc.MuscleBalance(cmd.Context())
		if err != nil {
			return err
		}
		if done, err := printJSON(b); done {
			return err
		}

		printScope("This week", b.Week)
		label := "Current block"
		if b.BlockMode == analytics.BlockModeRolling {
			label = "Last 6 weeks"
		}
		fmt.Println()
		printScope(label, b.Block)
		return nil
	},
}

func printScope(label string, s analytics.ScopeBalance) {
	color.New(color.Bold).Printf("%s: score %d (%d workouts)\n", label, s.Score, s.Workouts)
	for _, p := range []analytics.PairBalance{s.PushPull, s.ChestBack, s.QuadHam} {
		c := color.New(color.FgGreen)
		switch p.Status {
		case analytics.BalanceSlight:
			c = color.New(color.FgYellow)
		case analytics.BalanceImbalanced:
			c = color.New(color.FgRed)
		}
		fmt.Printf("  %s %5.1f : %-5.1f %s\n",
			padRight(p.SideA+"/"+p.SideB, 18), p.SideAValue, p.SideBValue, c.Sprint(p.Status))
	}
}

var analyzeBlockCmd = &cobra.Command{
	Use:   "block <template>",
	Short: "Show block adherence for a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := svc.BlockProgress(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if done, err := printJSON(p); done {
			return err
		}

		if p.PlannedWeeks == 0 && p.ExpectedSessions == 0 && !p.IsInBlock {
			fmt.Println("Template has no active block.")
			return nil
		}
		c := color.New(color.FgGreen)
		switch p.Status {
		case analytics.BlockBehind:
			c = color.New(color.FgYellow)
		case analytics.BlockAhead:
			c = color.New(color.FgCyan)
		}
		c.Printf("Week %d of %d: %s\n", p.CurrentWeek, p.PlannedWeeks, p.Status)
		fmt.Printf("  Sessions: %d of %d expected (%.0f%%)\n", p.CompletedSessions, p.ExpectedSessions, p.Adherence*100)
		fmt.Printf("  Weeks trained: %d\n", p.WeeksCompleted)
		if p.DeloadCompliance != nil {
			fmt.Printf("  Deload compliance: %.0f%%\n", *p.DeloadCompliance*100)
		}
		return nil
	},
}

func init() {
	analyzeCmd.PersistentFlags().BoolVar(&analyzeJSON, "json", false, "output JSON")

	analyzeCmd.AddCommand(analyzePlateauCmd)
	analyzeCmd.AddCommand(analyzeReadinessCmd)
	analyzeCmd.AddCommand(analyzeVolumeCmd)
	analyzeCmd.AddCommand(analyzeBalanceCmd)
	analyzeCmd.AddCommand(analyzeBlockCmd)
	rootCmd.AddCommand(analyzeCmd)
}
