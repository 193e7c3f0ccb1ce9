// ABOUTME: Tests for the records index cache.
// ABOUTME: Uses in-memory Badger and a failing store to cover persistence errors.
package records

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/harperreed/lift/internal/analytics"
	"github.com/harperreed/lift/internal/logging"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
)

var day0 = time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

func work(kg float64, reps int) models.Set {
	return models.Set{Kg: kg, Reps: reps, Completed: true, SetType: models.SetWork}
}

func session(id string, offset int, exerciseID string, sets ...models.Set) models.Workout {
	at := day0.AddDate(0, 0, offset)
	return models.Workout{ID: id, Date: at, StartTime: at, Exercises: []models.WorkoutExercise{
		{ExerciseID: exerciseID, Name: exerciseID, Sets: sets},
	}}
}

func history() []models.Workout {
	return []models.Workout{
		session("s1", 0, "squat", work(100, 5)),
		session("s2", 3, "squat", work(110, 5)),
		session("s3", 3, "bench", work(80, 8)),
	}
}

func openStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := storage.OpenBadgerInMemory(nil)
	if err != nil {
		t.Fatalf("OpenBadgerInMemory failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// failingStore accepts reads but fails every write after the first failAfter.
type failingStore struct {
	storage.Store
	writes    atomic.Int32
	failAfter int32
	failReads bool
}

var errDisk = errors.New("disk full")

func (f *failingStore) Set(ctx context.Context, coll string, rec storage.Record) error {
	if f.writes.Add(1) > f.failAfter {
		return errDisk
	}
	return f.Store.Set(ctx, coll, rec)
}

func (f *failingStore) GetAll(ctx context.Context, coll string) ([]storage.Record, error) {
	if f.failReads {
		return nil, errDisk
	}
	return f.Store.GetAll(ctx, coll)
}

func TestUpdateOneMatchesRecompute(t *testing.T) {
	ctx := context.Background()
	x := New(openStore(t), logging.Discard())
	h := history()

	if _, ok := x.Get("squat"); ok {
		t.Fatal("expected a miss before any update")
	}
	if err := x.UpdateOne(ctx, "squat", h); err != nil {
		t.Fatalf("UpdateOne failed: %v", err)
	}

	got, ok := x.Get("squat")
	if !ok {
		t.Fatal("expected a hit after UpdateOne")
	}
	want := analytics.GetExerciseRecords("squat", h)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cache mismatch (-want +got):\n%s", diff)
	}
	if got.Best1RM != 128 || got.MaxWeight != 110 || got.MaxReps != 5 || got.BestSetVolume != 550 {
		t.Errorf("records = %+v", got)
	}
}

func TestUpdateManyPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	h := history()

	x := New(store, logging.Discard())
	if err := x.UpdateMany(ctx, []string{"squat", "bench", "squat", ""}, h); err != nil {
		t.Fatalf("UpdateMany failed: %v", err)
	}
	if x.Len() != 2 {
		t.Errorf("Len = %d, want 2", x.Len())
	}

	reloaded := New(store, logging.Discard())
	reloaded.Load(ctx)
	for _, id := range []string{"squat", "bench"} {
		got, ok := reloaded.Get(id)
		if !ok {
			t.Fatalf("%s missing after reload", id)
		}
		if diff := cmp.Diff(analytics.GetExerciseRecords(id, h), got); diff != "" {
			t.Errorf("%s mismatch after reload (-want +got):\n%s", id, diff)
		}
	}
}

func TestLookupFallsBackOnMiss(t *testing.T) {
	x := New(openStore(t), logging.Discard())
	h := history()

	got := x.Lookup("bench", h)
	if got.Best1RM != analytics.Calculate1RM(80, 8) {
		t.Errorf("fallback Best1RM = %v", got.Best1RM)
	}

	x.put("bench", models.Records{ExerciseID: "bench", Best1RM: 999})
	if got := x.Lookup("bench", h); got.Best1RM != 999 {
		t.Errorf("expected cached value, got %v", got.Best1RM)
	}
}

func TestPersistFailureKeepsMemoryCorrect(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Store: openStore(t), failAfter: 0}
	x := New(fs, logging.Discard())

	err := x.UpdateMany(ctx, []string{"squat", "bench"}, history())
	if !errors.Is(err, errDisk) {
		t.Fatalf("UpdateMany err = %v, want errDisk", err)
	}
	got, ok := x.Get("squat")
	if !ok || got.MaxWeight != 110 {
		t.Errorf("in-memory entry = %+v, %v; want updated despite write failure", got, ok)
	}
}

func TestLoadFailureStartsCold(t *testing.T) {
	fs := &failingStore{Store: openStore(t), failReads: true}
	x := New(fs, logging.Discard())
	x.put("stale", models.Records{ExerciseID: "stale"})

	x.Load(context.Background())
	if _, ok := x.Get("stale"); !ok {
		t.Error("failed load should leave the index untouched")
	}

	cold := New(fs, logging.Discard())
	cold.Load(context.Background())
	if cold.Len() != 0 {
		t.Errorf("Len = %d, want 0", cold.Len())
	}
}

func TestRebuildAll(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	x := New(store, logging.Discard())

	_ = x.UpdateOne(ctx, "deleted-exercise", []models.Workout{session("old", -10, "deleted-exercise", work(50, 5))})

	catalog := []*models.Exercise{{ID: "squat", Name: "Squat"}, {ID: "deadlift", Name: "Deadlift"}}
	if err := x.RebuildAll(ctx, history(), catalog); err != nil {
		t.Fatalf("RebuildAll failed: %v", err)
	}

	if _, ok := x.Get("deleted-exercise"); ok {
		t.Error("rebuild should drop entries not in the catalog or history")
	}
	for _, id := range []string{"squat", "deadlift", "bench"} {
		if _, ok := x.Get(id); !ok {
			t.Errorf("%s missing after rebuild", id)
		}
	}

	recs, err := store.GetAll(ctx, storage.CollectionRecords)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(recs) != 3 {
		t.Errorf("persisted %d entries, want 3", len(recs))
	}
}

func TestRebuildAllPartialFailure(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Store: openStore(t), failAfter: 1}
	x := New(fs, logging.Discard())

	catalog := []*models.Exercise{{ID: "squat"}, {ID: "bench"}}
	if err := x.RebuildAll(ctx, history(), catalog); !errors.Is(err, errDisk) {
		t.Fatalf("RebuildAll err = %v, want errDisk", err)
	}

	recs, _ := fs.Store.GetAll(ctx, storage.CollectionRecords)
	if len(recs) != 1 || recs[0].ID != "squat" {
		t.Errorf("persisted = %v, want only squat", recs)
	}
	if x.Len() != 2 {
		t.Errorf("Len = %d, want 2", x.Len())
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	x := New(store, logging.Discard())
	_ = x.UpdateMany(ctx, []string{"squat", "bench"}, history())

	if err := x.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if x.Len() != 0 {
		t.Errorf("Len = %d, want 0", x.Len())
	}
	reloaded := New(store, logging.Discard())
	reloaded.Load(ctx)
	if reloaded.Len() != 0 {
		t.Errorf("persisted entries survived Clear: %d", reloaded.Len())
	}
}
