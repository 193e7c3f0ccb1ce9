// ABOUTME: Tests for Workout and WorkoutExercise models.
// ABOUTME: Validates constructors, builder methods, and lenient decoding.
package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewWorkout(t *testing.T) {
	w := NewWorkout("push day")

	if w.ID == "" {
		t.Error("expected UUID to be set")
	}
	if w.Name != "push day" {
		t.Errorf("Name = %s, want push day", w.Name)
	}
	if w.Date.IsZero() || w.StartTime.IsZero() {
		t.Error("expected Date and StartTime to be set")
	}
}

func TestWorkoutBuilders(t *testing.T) {
	day := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	w := NewWorkout("legs").WithDuration(45).WithDate(day).WithTags("#stress").WithTemplate("tpl-1")

	if w.Duration != 45 {
		t.Errorf("Duration = %d, want 45", w.Duration)
	}
	if !w.When().Equal(day) {
		t.Errorf("When() = %v, want %v", w.When(), day)
	}
	if !w.HasTag("STRESS") {
		t.Error("expected HasTag to ignore case and leading #")
	}
	if w.TemplateID != "tpl-1" {
		t.Errorf("TemplateID = %s, want tpl-1", w.TemplateID)
	}
}

func TestExerciseIDsAndWorkSets(t *testing.T) {
	w := NewWorkout("mixed")
	w.AddExercise(WorkoutExercise{ExerciseID: "a", Sets: []Set{
		{Kg: 60, Reps: 5, Completed: true, SetType: SetWarmup},
		{Kg: 100, Reps: 5, Completed: true},
		{Kg: 100, Reps: 5, Completed: false},
	}})
	w.AddExercise(WorkoutExercise{ExerciseID: "b", Sets: []Set{{Kg: 20, Reps: 10, Completed: true}}})
	w.AddExercise(WorkoutExercise{ExerciseID: "a", Sets: []Set{{Kg: 80, Reps: 8, Completed: true}}})
	w.AddExercise(WorkoutExercise{Name: "Plank", Sets: []Set{{Reps: 1, Completed: true}}})

	ids := w.ExerciseIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("ExerciseIDs() = %v, want [a b]", ids)
	}
	if got := w.TotalWorkSets(); got != 4 {
		t.Errorf("TotalWorkSets() = %d, want 4", got)
	}
	if got := w.Exercises[3].Key(); got != "plank" {
		t.Errorf("Key() = %q, want plank", got)
	}
}

func TestEffectivePriority(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 3}, {-2, 3}, {1, 1}, {5, 5}, {9, 5},
	}
	for _, tt := range tests {
		if got := (WorkoutExercise{Priority: tt.in}).EffectivePriority(); got != tt.want {
			t.Errorf("EffectivePriority(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	w := NewWorkout("clone")
	w.AddExercise(WorkoutExercise{ExerciseID: "a", Sets: []Set{{Kg: 100, Reps: 5}}})
	w.BlockRef = &BlockRef{BlockID: "b1"}

	c := w.Clone()
	c.Exercises[0].Sets[0].Kg = 1
	c.BlockRef.BlockID = "changed"

	if w.Exercises[0].Sets[0].Kg != 100 {
		t.Error("clone shares set storage with original")
	}
	if w.BlockRef.BlockID != "b1" {
		t.Error("clone shares block ref with original")
	}
}

func TestWorkoutUnmarshalCoercesDuration(t *testing.T) {
	raw := `{"id":"w1","date":"2026-03-02T00:00:00Z","duration":"abc","exercises":[{"exerciseId":"a","name":"Squat","sets":[{"kg":"100","reps":"x","completed":true}]}]}`

	var w Workout
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if w.Duration != 0 {
		t.Errorf("Duration = %d, want 0", w.Duration)
	}
	s := w.Exercises[0].Sets[0]
	if s.Kg != 100 || s.Reps != 0 || !s.Completed {
		t.Errorf("set = %+v, want kg=100 reps=0 completed", s)
	}
}

func TestWorkoutUnmarshalAcceptsDateOnly(t *testing.T) {
	raw := `{"id":"w1","date":"2026-10-14","startTime":"","exercises":[]}`

	var w Workout
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local)
	if !w.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", w.Date, want)
	}
	if !w.StartTime.IsZero() {
		t.Errorf("StartTime = %v, want zero", w.StartTime)
	}

	if err := json.Unmarshal([]byte(`{"id":"w2","date":"yesterday"}`), &w); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}

func TestWorkoutJSONRoundTripKeepsTimestamps(t *testing.T) {
	at := time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC)
	w := NewWorkout("push").WithDate(at)

	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got Workout
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !got.Date.Equal(at) || !got.StartTime.Equal(at) {
		t.Errorf("got date=%v start=%v, want %v", got.Date, got.StartTime, at)
	}
}
