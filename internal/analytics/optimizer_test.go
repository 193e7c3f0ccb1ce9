// ABOUTME: Tests for the session time optimizer.
// ABOUTME: Default timing is 150s per set plus 90s rest, warmups weighted 0.65 with half rest.
package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/harperreed/lift/internal/models"
)

func plannedSet(t models.SetType) models.Set {
	return models.Set{Kg: 60, Reps: 8, SetType: t}
}

func optimizerTemplate() models.Template {
	w, s := plannedSet(models.SetWarmup), plannedSet(models.SetWork)
	return models.Template{
		ID:   "tpl",
		Name: "Push",
		Exercises: []models.WorkoutExercise{
			{ExerciseID: "bench", Name: "Bench", Priority: 1, NonNegotiable: true, Sets: []models.Set{w, s, s, s}},
			{ExerciseID: "row", Name: "Row", Priority: 2, Sets: []models.Set{s, s, s}},
			{ExerciseID: "fly", Name: "Fly", Priority: 5, Sets: []models.Set{w, s, s, s}},
		},
	}
}

func TestOptimizeSession(t *testing.T) {
	tests := []struct {
		name     string
		limit    float64
		after    int
		removed  []RemovedSets
		setsLeft []int
	}{
		{
			name:     "fits already",
			limit:    45,
			after:    40,
			setsLeft: []int{4, 3, 4},
		},
		{
			name:     "no limit",
			limit:    0,
			after:    40,
			setsLeft: []int{4, 3, 4},
		},
		{
			name:     "trims lowest priority first",
			limit:    30,
			after:    30,
			removed:  []RemovedSets{{ExerciseID: "fly", Name: "Fly", Sets: 3}},
			setsLeft: []int{4, 3, 1},
		},
		{
			name:  "stops at minimum work sets",
			limit: 20,
			after: 22,
			removed: []RemovedSets{
				{ExerciseID: "row", Name: "Row", Sets: 2},
				{ExerciseID: "fly", Name: "Fly", Sets: 3},
			},
			setsLeft: []int{4, 1, 1},
		},
		{
			name:  "overshoot below limit",
			limit: 25,
			after: 22,
			removed: []RemovedSets{
				{ExerciseID: "row", Name: "Row", Sets: 2},
				{ExerciseID: "fly", Name: "Fly", Sets: 3},
			},
			setsLeft: []int{4, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := OptimizeSession(optimizerTemplate(), tt.limit, nil, OptimizeOptions{})
			if res.EstimatedMinutesBefore != 40 {
				t.Errorf("EstimatedMinutesBefore = %d, want 40", res.EstimatedMinutesBefore)
			}
			if res.EstimatedMinutesAfter != tt.after {
				t.Errorf("EstimatedMinutesAfter = %d, want %d", res.EstimatedMinutesAfter, tt.after)
			}
			if diff := cmp.Diff(tt.removed, res.Removed); diff != "" {
				t.Errorf("Removed mismatch (-want +got):\n%s", diff)
			}
			var left []int
			for _, e := range res.OptimizedTemplate.Exercises {
				left = append(left, len(e.Sets))
			}
			if diff := cmp.Diff(tt.setsLeft, left); diff != "" {
				t.Errorf("sets left mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOptimizeSessionKeepsWorkSetOrder(t *testing.T) {
	res := OptimizeSession(optimizerTemplate(), 30, nil, OptimizeOptions{})
	fly := res.OptimizedTemplate.Exercises[2]
	if models.ResolveSetType(fly.Sets[0]) != models.SetWork {
		t.Errorf("expected the fly warmup to be removed first, got %+v", fly.Sets)
	}
}

func TestOptimizeSessionPreservedCore(t *testing.T) {
	res := OptimizeSession(optimizerTemplate(), 0, nil, OptimizeOptions{})
	want := []CoreExercise{
		{ExerciseID: "bench", Name: "Bench", Priority: 1, NonNegotiable: true},
		{ExerciseID: "row", Name: "Row", Priority: 2},
	}
	if diff := cmp.Diff(want, res.PreservedCore); diff != "" {
		t.Errorf("PreservedCore mismatch (-want +got):\n%s", diff)
	}

	res = OptimizeSession(optimizerTemplate(), 0, nil, OptimizeOptions{KeepTopPriorityCount: 1})
	if len(res.PreservedCore) != 1 || res.PreservedCore[0].ExerciseID != "bench" {
		t.Errorf("PreservedCore = %+v, want bench only", res.PreservedCore)
	}
}

func TestOptimizeSessionDropsWarmupOnlyExercise(t *testing.T) {
	w, s := plannedSet(models.SetWarmup), plannedSet(models.SetWork)
	tpl := models.Template{Exercises: []models.WorkoutExercise{
		{ExerciseID: "mob", Name: "Mobility", Priority: 5, Sets: []models.Set{w, w}},
		{ExerciseID: "row", Name: "Row", Priority: 2, Sets: []models.Set{s, s, s}},
	}}

	res := OptimizeSession(tpl, 12, nil, OptimizeOptions{})
	if res.EstimatedMinutesBefore != 16 || res.EstimatedMinutesAfter != 12 {
		t.Errorf("minutes = %d -> %d, want 16 -> 12", res.EstimatedMinutesBefore, res.EstimatedMinutesAfter)
	}
	want := []RemovedSets{{ExerciseID: "mob", Name: "Mobility", Sets: 2, Dropped: true}}
	if diff := cmp.Diff(want, res.Removed); diff != "" {
		t.Errorf("Removed mismatch (-want +got):\n%s", diff)
	}
	if len(res.OptimizedTemplate.Exercises) != 1 || res.OptimizedTemplate.Exercises[0].ExerciseID != "row" {
		t.Errorf("exercises = %+v, want row only", res.OptimizedTemplate.Exercises)
	}
}

func TestOptimizeSessionUsesHistoryTiming(t *testing.T) {
	tpl := models.Template{Exercises: []models.WorkoutExercise{
		{ExerciseID: "row", Name: "Row", Sets: []models.Set{plannedSet(models.SetWork), plannedSet(models.SetWork), plannedSet(models.SetWork)}},
	}}
	past := session("p", daysAgo(3), ex("row", work(60, 8), work(60, 8), work(60, 8)))
	past.Duration = 9

	res := OptimizeSession(tpl, 0, []models.Workout{past}, OptimizeOptions{})
	if res.EstimatedMinutesBefore != 13 {
		t.Errorf("EstimatedMinutesBefore = %d, want 13", res.EstimatedMinutesBefore)
	}
}

func TestOptimizeSessionDoesNotMutateTemplate(t *testing.T) {
	tpl := optimizerTemplate()
	tpl.Exercises[2].Sets[1].Completed = true

	res := OptimizeSession(tpl, 20, nil, OptimizeOptions{})
	if len(tpl.Exercises[2].Sets) != 4 || !tpl.Exercises[2].Sets[1].Completed {
		t.Error("input template was modified")
	}
	for _, e := range res.OptimizedTemplate.Exercises {
		for _, s := range e.Sets {
			if s.Completed {
				t.Error("optimized template sets must be reset to not completed")
			}
		}
	}
}
