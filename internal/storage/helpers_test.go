// ABOUTME: Shared fixtures for storage tests.
// ABOUTME: Opens each backend that can run without network access.
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/lift/internal/models"
)

func openBadgerForTest(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadgerInMemory(nil)
	if err != nil {
		t.Fatalf("OpenBadgerInMemory failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func openSQLiteForTest(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "lift.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// backends returns a fresh store per local backend, keyed by name.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"badger": openBadgerForTest(t),
		"sqlite": openSQLiteForTest(t),
	}
}

func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(openBadgerForTest(t))
}

func sampleWorkout(name string, at time.Time) *models.Workout {
	w := models.NewWorkout(name).WithDate(at).WithDuration(50).WithTags("#stress")
	w.AddExercise(models.WorkoutExercise{
		ExerciseID: "squat",
		Name:       "Squat",
		Sets: []models.Set{
			{Kg: 60, Reps: 5, Completed: true, SetType: models.SetWarmup},
			{Kg: 100, Reps: 5, Completed: true, SetType: models.SetWork, IsBest1RM: true},
		},
	})
	return w
}
