package analytics

import (
	"time"

	"github.com/harperreed/lift/internal/models"
)

// monday is the start of the week containing now.
var (
	monday = time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
)

func work(kg float64, reps int) models.Set {
	return models.Set{Kg: kg, Reps: reps, Completed: true, SetType: models.SetWork}
}

func warm(kg float64, reps int) models.Set {
	return models.Set{Kg: kg, Reps: reps, Completed: true, SetType: models.SetWarmup}
}

func ex(id string, sets ...models.Set) models.WorkoutExercise {
	return models.WorkoutExercise{ExerciseID: id, Name: id, Sets: sets}
}

func session(id string, at time.Time, exercises ...models.WorkoutExercise) models.Workout {
	return models.Workout{ID: id, Name: "session " + id, Date: at, StartTime: at, Exercises: exercises}
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}
