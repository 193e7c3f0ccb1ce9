// ABOUTME: Tests for the post-session feedback lines.
// ABOUTME: Verifies ordering and content of each kind of line.
package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/lift/internal/models"
)

func TestFeedback(t *testing.T) {
	prior := []models.Workout{session("p", daysAgo(7), models.WorkoutExercise{ExerciseID: "sq", Name: "Squat", Sets: []models.Set{work(100, 5)}})}
	w := session("w", daysAgo(0), models.WorkoutExercise{ExerciseID: "sq", Name: "Squat", Sets: []models.Set{work(105, 1)}})

	in := FeedbackInput{
		PRs:       DetectPRsInWorkout(w, prior, nil),
		Readiness: &Readiness{ReadinessScore: 88, Status: ReadinessOptimal, Suggestion: "Train as planned."},
		Plateaus: []PlateauResult{
			{ExerciseID: "dl", IsPlateau: true, LastImprovementSessionsAgo: 4, Confidence: ConfidenceMedium},
			{ExerciseID: "ohp", IsPlateau: false},
		},
		Diff:  &TemplateDiff{Skipped: []string{"Row"}, Changed: []ExerciseDiff{{Name: "Bench", PlannedSets: 3, CompletedSets: 2}}},
		Names: map[string]string{"dl": "Deadlift"},
	}

	want := []string{
		"New record on Squat: heaviest weight.",
		"Deadlift has not improved in 4 sessions (medium confidence). Consider changing rep range or variation.",
		"Skipped from plan: Row.",
		"Bench: 2 of 3 planned work sets.",
		"Readiness 88 (optimal). Train as planned.",
	}
	if diff := cmp.Diff(want, Feedback(in)); diff != "" {
		t.Errorf("Feedback mismatch (-want +got):\n%s", diff)
	}
}

func TestFeedbackEmpty(t *testing.T) {
	if got := Feedback(FeedbackInput{}); len(got) != 0 {
		t.Errorf("Feedback(empty) = %v, want none", got)
	}
}
