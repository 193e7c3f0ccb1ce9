// ABOUTME: Workout and WorkoutExercise models for strength sessions.
// ABOUTME: Workouts are append-only history consumed by the analytics engine.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPriority is used for exercises that carry no explicit priority.
const DefaultPriority = 3

// WorkoutExercise is one exercise performed (or planned) within a session.
type WorkoutExercise struct {
	// ExerciseID is empty for free-text exercises that are not in the catalog.
	ExerciseID    string   `json:"exerciseId,omitempty" yaml:"exercise_id,omitempty"`
	Name          string   `json:"name" yaml:"name"`
	Category      string   `json:"category,omitempty" yaml:"category,omitempty"`
	Sets          []Set    `json:"sets" yaml:"sets"`
	SupersetID    string   `json:"supersetId,omitempty" yaml:"superset_id,omitempty"`
	Priority      int      `json:"priority,omitempty" yaml:"priority,omitempty"`
	NonNegotiable bool     `json:"nonNegotiable,omitempty" yaml:"non_negotiable,omitempty"`
	TargetMuscles []string `json:"targetMuscles,omitempty" yaml:"target_muscles,omitempty"`
}

// EffectivePriority returns the priority clamped to 1..5, defaulting to 3.
func (e WorkoutExercise) EffectivePriority() int {
	switch {
	case e.Priority <= 0:
		return DefaultPriority
	case e.Priority > 5:
		return 5
	default:
		return e.Priority
	}
}

// WorkSetCount returns the number of completed non-warmup sets.
func (e WorkoutExercise) WorkSetCount() int {
	n := 0
	for _, s := range e.Sets {
		if IsWorkSet(s) {
			n++
		}
	}
	return n
}

// Key identifies the exercise for per-exercise aggregation: the catalog id
// when present, otherwise the lower-cased name.
func (e WorkoutExercise) Key() string {
	if e.ExerciseID != "" {
		return e.ExerciseID
	}
	return strings.ToLower(strings.TrimSpace(e.Name))
}

// BlockRef ties a workout to a periodized block.
type BlockRef struct {
	BlockID string `json:"blockId" yaml:"block_id"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Workout represents a strength training session.
type Workout struct {
	ID         string            `json:"id" yaml:"id"`
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Date       time.Time         `json:"date" yaml:"date"`
	StartTime  time.Time         `json:"startTime" yaml:"start_time"`
	Duration   int               `json:"duration" yaml:"duration"` // minutes
	Exercises  []WorkoutExercise `json:"exercises" yaml:"exercises"`
	Tags       []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	TemplateID string            `json:"templateId,omitempty" yaml:"template_id,omitempty"`
	BlockRef   *BlockRef         `json:"blockRef,omitempty" yaml:"block_ref,omitempty"`
}

// NewWorkout creates a new Workout with generated UUID and current timestamp.
func NewWorkout(name string) *Workout {
	now := time.Now()
	return &Workout{
		ID:        uuid.New().String(),
		Name:      name,
		Date:      now,
		StartTime: now,
	}
}

// WithDuration sets the duration in minutes.
func (w *Workout) WithDuration(minutes int) *Workout {
	w.Duration = minutes
	return w
}

// WithDate sets the session date and start time.
func (w *Workout) WithDate(t time.Time) *Workout {
	w.Date = t
	w.StartTime = t
	return w
}

// WithTags sets the session tags.
func (w *Workout) WithTags(tags ...string) *Workout {
	w.Tags = tags
	return w
}

// WithTemplate links the workout to a template.
func (w *Workout) WithTemplate(templateID string) *Workout {
	w.TemplateID = templateID
	return w
}

// AddExercise appends an exercise to the workout.
func (w *Workout) AddExercise(e WorkoutExercise) *Workout {
	w.Exercises = append(w.Exercises, e)
	return w
}

// When returns the best available timestamp for ordering sessions.
func (w Workout) When() time.Time {
	if !w.Date.IsZero() {
		return w.Date
	}
	return w.StartTime
}

// ExerciseIDs returns the distinct catalog ids referenced by the workout.
func (w Workout) ExerciseIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, e := range w.Exercises {
		if e.ExerciseID == "" || seen[e.ExerciseID] {
			continue
		}
		seen[e.ExerciseID] = true
		ids = append(ids, e.ExerciseID)
	}
	return ids
}

// TotalWorkSets returns the number of work sets across all exercises.
func (w Workout) TotalWorkSets() int {
	n := 0
	for _, e := range w.Exercises {
		n += e.WorkSetCount()
	}
	return n
}

// HasTag reports whether the workout carries tag, ignoring case and a leading '#'.
func (w Workout) HasTag(tag string) bool {
	want := normalizeTag(tag)
	for _, t := range w.Tags {
		if normalizeTag(t) == want {
			return true
		}
	}
	return false
}

func normalizeTag(t string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(t)), "#")
}

// Clone returns a deep copy of the workout.
func (w Workout) Clone() Workout {
	out := w
	out.Exercises = CloneExercises(w.Exercises)
	if w.Tags != nil {
		out.Tags = append([]string(nil), w.Tags...)
	}
	if w.BlockRef != nil {
		ref := *w.BlockRef
		out.BlockRef = &ref
	}
	return out
}

// CloneExercises deep-copies a slice of exercises and their sets.
func CloneExercises(in []WorkoutExercise) []WorkoutExercise {
	if in == nil {
		return nil
	}
	out := make([]WorkoutExercise, len(in))
	for i, e := range in {
		out[i] = e
		out[i].Sets = append([]Set(nil), e.Sets...)
		if e.TargetMuscles != nil {
			out[i].TargetMuscles = append([]string(nil), e.TargetMuscles...)
		}
	}
	return out
}

// UnmarshalJSON decodes a workout, treating a non-numeric duration as 0 and
// accepting plain YYYY-MM-DD dates (read as local midnight).
func (w *Workout) UnmarshalJSON(data []byte) error {
	type alias Workout
	aux := struct {
		*alias
		Date      json.RawMessage `json:"date"`
		StartTime json.RawMessage `json:"startTime"`
		Duration  any             `json:"duration"`
	}{alias: (*alias)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if w.Date, err = decodeTime(aux.Date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if w.StartTime, err = decodeTime(aux.StartTime); err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	w.Duration = int(CoerceNumber(aux.Duration))
	return nil
}

func decodeTime(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, time.Local)
}
