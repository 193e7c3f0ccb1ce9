// ABOUTME: Short human-readable feedback lines for a finished session.
// ABOUTME: Built from the PR report, readiness, plateaus and template diff.
package analytics

import (
	"fmt"
	"sort"
	"strings"
)

// FeedbackInput gathers the signals Feedback summarizes. Any field may be
// empty.
type FeedbackInput struct {
	PRs       PRReport
	Readiness *Readiness
	Plateaus  []PlateauResult
	Diff      *TemplateDiff
	// Names resolves exercise ids for plateau lines.
	Names map[string]string
}

var recordLabels = map[RecordType]string{
	RecordBest1RM:        "estimated 1RM",
	RecordBestSetVolume:  "best set volume",
	RecordHeaviestWeight: "heaviest weight",
}

// Feedback renders the input as a list of sentences in a stable order.
func Feedback(in FeedbackInput) []string {
	var lines []string

	ids := make([]string, 0, len(in.PRs))
	for id := range in.PRs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return in.PRs[ids[i]].ExerciseName < in.PRs[ids[j]].ExerciseName
	})
	for _, id := range ids {
		ex := in.PRs[id]
		labels := make([]string, 0, len(ex.RecordTypes))
		for _, t := range ex.RecordTypes {
			labels = append(labels, recordLabels[t])
		}
		lines = append(lines, fmt.Sprintf("New record on %s: %s.", ex.ExerciseName, strings.Join(labels, ", ")))
	}

	for _, p := range in.Plateaus {
		if !p.IsPlateau {
			continue
		}
		name := in.Names[p.ExerciseID]
		if name == "" {
			name = p.ExerciseID
		}
		lines = append(lines, fmt.Sprintf("%s has not improved in %d sessions (%s confidence). Consider changing rep range or variation.",
			name, p.LastImprovementSessionsAgo, p.Confidence))
	}

	if d := in.Diff; d != nil {
		if len(d.Skipped) > 0 {
			lines = append(lines, fmt.Sprintf("Skipped from plan: %s.", strings.Join(d.Skipped, ", ")))
		}
		if len(d.Added) > 0 {
			lines = append(lines, fmt.Sprintf("Added beyond plan: %s.", strings.Join(d.Added, ", ")))
		}
		for _, c := range d.Changed {
			lines = append(lines, fmt.Sprintf("%s: %d of %d planned work sets.", c.Name, c.CompletedSets, c.PlannedSets))
		}
	}

	if r := in.Readiness; r != nil {
		lines = append(lines, fmt.Sprintf("Readiness %d (%s). %s", r.ReadinessScore, r.Status, r.Suggestion))
	}
	return lines
}
