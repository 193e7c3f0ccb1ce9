// ABOUTME: Records index: an owned cache of per-exercise records mirrored to storage.
// ABOUTME: The map is updated first; persistence may fail independently and is logged.
package records

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/lift/internal/analytics"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/storage"
)

// persistLimit bounds concurrent writes in UpdateMany.
const persistLimit = 8

// Index caches models.Records by exercise id. A hit always equals the value
// recomputed from the history passed to the last successful update; a miss
// means the caller must recompute.
type Index struct {
	store  storage.Store
	logger *log.Logger

	mu      sync.RWMutex
	entries map[string]models.Records
}

// New creates an empty index persisting to store.
func New(store storage.Store, logger *log.Logger) *Index {
	if logger == nil {
		logger = log.Default()
	}
	return &Index{
		store:   store,
		logger:  logger,
		entries: make(map[string]models.Records),
	}
}

// Load reads every persisted entry into memory. On failure the index stays
// cold and the error is logged.
func (x *Index) Load(ctx context.Context) {
	recs, err := x.store.GetAll(ctx, storage.CollectionRecords)
	if err != nil {
		x.logger.Warn("records index: load failed, starting cold", "err", err)
		return
	}

	entries := make(map[string]models.Records, len(recs))
	for _, rec := range recs {
		r, err := storage.Decode[models.Records](rec)
		if err != nil {
			x.logger.Warn("records index: skipping unreadable entry", "exercise", rec.ID, "err", err)
			continue
		}
		if r.ExerciseID == "" {
			r.ExerciseID = rec.ID
		}
		entries[rec.ID] = *r
	}

	x.mu.Lock()
	x.entries = entries
	x.mu.Unlock()
	x.logger.Debug("records index: loaded", "entries", len(entries))
}

// Get returns the cached records for exerciseID.
func (x *Index) Get(exerciseID string) (models.Records, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	r, ok := x.entries[exerciseID]
	return r, ok
}

// Len returns the number of cached entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Lookup is an analytics.RecordsFunc that answers from the cache and falls
// back to direct computation over workouts on a miss. Use it only when
// workouts is the same history the cache was last updated from.
func (x *Index) Lookup(exerciseID string, workouts []models.Workout) models.Records {
	if r, ok := x.Get(exerciseID); ok {
		return r
	}
	return analytics.GetExerciseRecords(exerciseID, workouts)
}

// UpdateOne recomputes exerciseID from history and replaces both the cached
// and the persisted entry.
func (x *Index) UpdateOne(ctx context.Context, exerciseID string, history []models.Workout) error {
	r := analytics.GetExerciseRecords(exerciseID, history)
	x.put(exerciseID, r)
	return x.persist(ctx, r)
}

// UpdateMany is UpdateOne for each id, persisting in parallel. Every map
// entry is updated before any write starts.
func (x *Index) UpdateMany(ctx context.Context, exerciseIDs []string, history []models.Workout) error {
	computed := make([]models.Records, 0, len(exerciseIDs))
	seen := make(map[string]bool, len(exerciseIDs))
	for _, id := range exerciseIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		r := analytics.GetExerciseRecords(id, history)
		x.put(id, r)
		computed = append(computed, r)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(persistLimit)
	for _, r := range computed {
		g.Go(func() error {
			return x.persist(gctx, r)
		})
	}
	return g.Wait()
}

// RebuildAll clears the persisted cache and recomputes every catalog
// exercise plus any exercise id found in history. Each entry is committed
// on its own, so an interrupted rebuild leaves a partial but correct cache.
func (x *Index) RebuildAll(ctx context.Context, history []models.Workout, catalog []*models.Exercise) error {
	if err := x.Clear(ctx); err != nil {
		return err
	}

	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, e := range catalog {
		if e != nil {
			add(e.ID)
		}
	}
	for _, w := range history {
		for _, id := range w.ExerciseIDs() {
			add(id)
		}
	}

	var firstErr error
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := analytics.GetExerciseRecords(id, history)
		x.put(id, r)
		if err := x.persist(ctx, r); err != nil && firstErr == nil {
			firstErr = err
		}
		x.logger.Debug("records index: rebuilt", "exercise", id, "progress", fmt.Sprintf("%d/%d", i+1, len(ids)))
	}
	return firstErr
}

// Clear drops every cached and persisted entry without recomputing.
func (x *Index) Clear(ctx context.Context) error {
	x.mu.Lock()
	x.entries = make(map[string]models.Records)
	x.mu.Unlock()

	if err := x.store.Clear(ctx, storage.CollectionRecords); err != nil {
		x.logger.Warn("records index: clear failed", "err", err)
		return fmt.Errorf("clear records index: %w", err)
	}
	return nil
}

func (x *Index) put(id string, r models.Records) {
	if r.ExerciseID == "" {
		r.ExerciseID = id
	}
	x.mu.Lock()
	x.entries[id] = r
	x.mu.Unlock()
}

func (x *Index) persist(ctx context.Context, r models.Records) error {
	rec, err := storage.NewRecord(r.ExerciseID, r)
	if err == nil {
		err = x.store.Set(ctx, storage.CollectionRecords, rec)
	}
	if err != nil {
		x.logger.Warn("records index: persist failed", "exercise", r.ExerciseID, "err", err)
		return fmt.Errorf("persist records %s: %w", r.ExerciseID, err)
	}
	return nil
}
