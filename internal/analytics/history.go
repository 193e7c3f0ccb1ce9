// ABOUTME: Exercise history projection and e1RM estimation.
// ABOUTME: GetExerciseRecords is the slow path the records index caches.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/harperreed/lift/internal/models"
)

// RecordsFunc computes the records for an exercise over a workout history.
// GetExerciseRecords and records.Index.Lookup both satisfy it.
type RecordsFunc func(exerciseID string, workouts []models.Workout) models.Records

// Calculate1RM estimates a one-rep max with the Epley formula. Every e1RM in
// the engine goes through this function.
func Calculate1RM(kg float64, reps int) float64 {
	if kg == 0 || reps == 0 {
		return 0
	}
	if reps == 1 {
		return kg
	}
	return math.Round(kg * (1 + float64(reps)/30))
}

// HistoryEntry is one session's worth of completed sets for an exercise.
type HistoryEntry struct {
	WorkoutID   string       `json:"workoutId"`
	Date        time.Time    `json:"date"`
	WorkoutName string       `json:"workoutName"`
	Sets        []models.Set `json:"sets"`
	Max1RM      float64      `json:"max1RM"`
}

// GetExerciseHistory returns the sessions containing exerciseID, newest first.
// Max1RM considers every completed set, warmups included; sessions without a
// completed set for the exercise are dropped.
func GetExerciseHistory(exerciseID string, workouts []models.Workout) []HistoryEntry {
	if exerciseID == "" {
		return nil
	}

	var history []HistoryEntry
	for _, w := range workouts {
		var sets []models.Set
		for _, e := range w.Exercises {
			if e.ExerciseID != exerciseID {
				continue
			}
			for _, s := range e.Sets {
				if s.Completed {
					sets = append(sets, s)
				}
			}
		}
		if len(sets) == 0 {
			continue
		}

		var best float64
		for _, s := range sets {
			best = math.Max(best, Calculate1RM(s.Kg, s.Reps))
		}
		history = append(history, HistoryEntry{
			WorkoutID:   w.ID,
			Date:        w.When(),
			WorkoutName: w.Name,
			Sets:        sets,
			Max1RM:      best,
		})
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history
}

// GetExerciseRecords scans the exercise history once and returns running
// maxima, each dated at its first occurrence.
func GetExerciseRecords(exerciseID string, workouts []models.Workout) models.Records {
	rec := models.Records{ExerciseID: exerciseID}
	history := GetExerciseHistory(exerciseID, workouts)

	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		if h.Max1RM > rec.Best1RM {
			rec.Best1RM = h.Max1RM
			rec.Best1RMDate = h.Date
		}
		for _, s := range h.Sets {
			if s.Kg > rec.MaxWeight {
				rec.MaxWeight = s.Kg
				rec.MaxWeightDate = h.Date
			}
			if s.Reps > rec.MaxReps {
				rec.MaxReps = s.Reps
				rec.MaxRepsDate = h.Date
			}
			if v := s.Volume(); v > rec.BestSetVolume {
				rec.BestSetVolume = v
				rec.BestSetVolumeDate = h.Date
			}
		}
	}
	return rec
}

// PriorTo returns the workouts dated at or before w, excluding w itself.
func PriorTo(w models.Workout, workouts []models.Workout) []models.Workout {
	at := w.When()
	var prior []models.Workout
	for _, other := range workouts {
		if other.ID == w.ID {
			continue
		}
		if !other.When().After(at) {
			prior = append(prior, other)
		}
	}
	return prior
}
