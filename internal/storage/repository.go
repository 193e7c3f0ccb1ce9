// ABOUTME: Typed repository over the Store port for exercises, workouts and templates.
// ABOUTME: Supports lookup by full id, id prefix, or (for catalog entries) name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/harperreed/lift/internal/models"
)

// Repository reads and writes domain models through a Store.
type Repository struct {
	store  Store
	logger *log.Logger
}

// NewRepository wraps s.
func NewRepository(s Store) *Repository {
	return &Repository{store: s, logger: log.Default()}
}

// WithLogger sets the logger used to report records that fail to decode.
func (r *Repository) WithLogger(l *log.Logger) *Repository {
	if l != nil {
		r.logger = l
	}
	return r
}

// Store returns the underlying store.
func (r *Repository) Store() Store {
	return r.store
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	return r.store.Close()
}

// decodeAll decodes recs, skipping and logging any record that cannot be
// decoded so one bad entry does not hide the rest of the collection.
func decodeAll[T any](logger *log.Logger, collection string, recs []Record) []*T {
	out := make([]*T, 0, len(recs))
	for _, rec := range recs {
		v, err := Decode[T](rec)
		if err != nil {
			logger.Warn("skipping undecodable record", "collection", collection, "id", rec.ID, "err", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// ListWorkouts returns every workout, most recent first.
func (r *Repository) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	recs, err := r.store.GetAll(ctx, CollectionWorkouts)
	if err != nil {
		return nil, err
	}
	ptrs := decodeAll[models.Workout](r.logger, CollectionWorkouts, recs)
	out := make([]models.Workout, len(ptrs))
	for i, w := range ptrs {
		out[i] = *w
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].When().After(out[j].When())
	})
	return out, nil
}

// GetWorkout retrieves a workout by id or id prefix.
func (r *Repository) GetWorkout(ctx context.Context, idOrPrefix string) (models.Workout, error) {
	rec, err := ResolvePrefix(ctx, r.store, CollectionWorkouts, idOrPrefix)
	if err != nil {
		return models.Workout{}, err
	}
	w, err := Decode[models.Workout](rec)
	if err != nil {
		return models.Workout{}, err
	}
	return *w, nil
}

// SaveWorkout upserts a workout.
func (r *Repository) SaveWorkout(ctx context.Context, w models.Workout) error {
	if w.ID == "" {
		return errors.New("save workout: missing id")
	}
	rec, err := NewRecord(w.ID, w)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, CollectionWorkouts, rec)
}

// DeleteWorkout removes a workout by exact id.
func (r *Repository) DeleteWorkout(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CollectionWorkouts, id)
}

// ListExercises returns the catalog sorted by name.
func (r *Repository) ListExercises(ctx context.Context) ([]*models.Exercise, error) {
	recs, err := r.store.GetAll(ctx, CollectionExercises)
	if err != nil {
		return nil, err
	}
	out := decodeAll[models.Exercise](r.logger, CollectionExercises, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// GetExercise finds a catalog entry by id, id prefix, or case-insensitive name.
func (r *Repository) GetExercise(ctx context.Context, idOrName string) (*models.Exercise, error) {
	rec, err := ResolvePrefix(ctx, r.store, CollectionExercises, idOrName)
	if err == nil {
		return Decode[models.Exercise](rec)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	all, lerr := r.ListExercises(ctx)
	if lerr != nil {
		return nil, lerr
	}
	for _, e := range all {
		if strings.EqualFold(e.Name, strings.TrimSpace(idOrName)) {
			return e, nil
		}
	}
	return nil, err
}

// SaveExercise upserts a catalog entry.
func (r *Repository) SaveExercise(ctx context.Context, e *models.Exercise) error {
	if e == nil || e.ID == "" {
		return errors.New("save exercise: missing id")
	}
	rec, err := NewRecord(e.ID, e)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, CollectionExercises, rec)
}

// DeleteExercise removes a catalog entry by exact id.
func (r *Repository) DeleteExercise(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CollectionExercises, id)
}

// ListTemplates returns every template sorted by name.
func (r *Repository) ListTemplates(ctx context.Context) ([]*models.Template, error) {
	recs, err := r.store.GetAll(ctx, CollectionTemplates)
	if err != nil {
		return nil, err
	}
	out := decodeAll[models.Template](r.logger, CollectionTemplates, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// GetTemplate finds a template by id, id prefix, or case-insensitive name.
func (r *Repository) GetTemplate(ctx context.Context, idOrName string) (*models.Template, error) {
	rec, err := ResolvePrefix(ctx, r.store, CollectionTemplates, idOrName)
	if err == nil {
		return Decode[models.Template](rec)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	all, lerr := r.ListTemplates(ctx)
	if lerr != nil {
		return nil, lerr
	}
	for _, t := range all {
		if strings.EqualFold(t.Name, strings.TrimSpace(idOrName)) {
			return t, nil
		}
	}
	return nil, err
}

// SaveTemplate upserts a template.
func (r *Repository) SaveTemplate(ctx context.Context, t *models.Template) error {
	if t == nil || t.ID == "" {
		return errors.New("save template: missing id")
	}
	rec, err := NewRecord(t.ID, t)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, CollectionTemplates, rec)
}

// DeleteTemplate removes a template by exact id.
func (r *Repository) DeleteTemplate(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, CollectionTemplates, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
