// ABOUTME: Tracker service: the single entry point for workout history mutations.
// ABOUTME: Pairs every save/edit/delete/import with the matching records index update.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harperreed/lift/internal/analytics"
	"github.com/harperreed/lift/internal/config"
	"github.com/harperreed/lift/internal/models"
	"github.com/harperreed/lift/internal/records"
	"github.com/harperreed/lift/internal/storage"
)

// Service handles workout logging and analytics over a Store.
type Service struct {
	repo   *storage.Repository
	index  *records.Index
	logger *log.Logger
	opts   config.Analytics

	// Now is the clock used for dating workouts and anchoring analytics windows.
	Now func() time.Time
}

// NewService creates a service over store and warms the records index from it.
func NewService(ctx context.Context, store storage.Store, logger *log.Logger, opts config.Analytics) *Service {
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{
		repo:   storage.NewRepository(store).WithLogger(logger),
		index:  records.New(store, logger),
		logger: logger,
		opts:   opts,
		Now:    time.Now,
	}
	s.index.Load(ctx)
	return s
}

// Repository exposes typed storage for read-only listing.
func (s *Service) Repository() *storage.Repository {
	return s.repo
}

// Close closes the underlying store.
func (s *Service) Close() error {
	return s.repo.Close()
}

// FinishResult is returned by FinishWorkout.
type FinishResult struct {
	Workout  models.Workout     `json:"workout"`
	PRs      analytics.PRReport `json:"prs"`
	Feedback []string           `json:"feedback"`
}

// FinishWorkout normalizes w, flags its personal records against the prior
// history, stores it, and refreshes the records of every exercise it touches.
func (s *Service) FinishWorkout(ctx context.Context, w models.Workout) (FinishResult, error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	if w.Date.IsZero() {
		w.Date = s.Now()
	}
	if w.StartTime.IsZero() {
		w.StartTime = w.Date
	}
	normalizeWorkout(&w)

	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return FinishResult{}, fmt.Errorf("load history: %w", err)
	}

	// The cache reflects the whole stored history, so it only answers for a
	// new workout that is not older than anything already logged.
	var lookup analytics.RecordsFunc
	if appendsToHistory(w, history) {
		lookup = s.index.Lookup
	}
	w, report := analytics.RecheckPRs(w, analytics.PriorTo(w, history), lookup)

	if err := s.repo.SaveWorkout(ctx, w); err != nil {
		return FinishResult{}, fmt.Errorf("save workout: %w", err)
	}

	history = replaceWorkout(history, w)
	if err := s.index.UpdateMany(ctx, w.ExerciseIDs(), history); err != nil {
		s.logger.Warn("records index out of date, run `lift cache rebuild`", "workout", w.ID, "err", err)
	}

	return FinishResult{
		Workout:  w,
		PRs:      report,
		Feedback: s.feedback(ctx, w, report, history),
	}, nil
}

// SetEdit lists the fields of a set to change. Nil fields are left alone.
type SetEdit struct {
	Kg        *float64
	Reps      *int
	Completed *bool
	SetType   *models.SetType
}

// EditSet changes one set of a stored workout and re-runs record detection
// for the whole workout from scratch.
func (s *Service) EditSet(ctx context.Context, workoutID string, exerciseIdx, setIdx int, edit SetEdit) (models.Workout, analytics.PRReport, error) {
	w, err := s.repo.GetWorkout(ctx, workoutID)
	if err != nil {
		return models.Workout{}, nil, fmt.Errorf("get workout: %w", err)
	}
	if exerciseIdx < 0 || exerciseIdx >= len(w.Exercises) {
		return models.Workout{}, nil, fmt.Errorf("exercise %d out of range (workout has %d)", exerciseIdx+1, len(w.Exercises))
	}
	sets := w.Exercises[exerciseIdx].Sets
	if setIdx < 0 || setIdx >= len(sets) {
		return models.Workout{}, nil, fmt.Errorf("set %d out of range (exercise has %d)", setIdx+1, len(sets))
	}

	set := sets[setIdx]
	if edit.Kg != nil {
		set.Kg = *edit.Kg
	}
	if edit.Reps != nil {
		set.Reps = *edit.Reps
	}
	if edit.Completed != nil {
		set.Completed = *edit.Completed
	}
	if edit.SetType != nil {
		if !edit.SetType.IsValid() {
			return models.Workout{}, nil, fmt.Errorf("invalid set type %q", *edit.SetType)
		}
		set.SetType = *edit.SetType
		set.Warmup = *edit.SetType == models.SetWarmup
	}
	sets[setIdx] = models.NormalizeSetForStorage(set, models.SetWork)

	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return models.Workout{}, nil, fmt.Errorf("load history: %w", err)
	}
	w, report := analytics.RecheckPRs(w, analytics.PriorTo(w, history), nil)

	if err := s.repo.SaveWorkout(ctx, w); err != nil {
		return models.Workout{}, nil, fmt.Errorf("save workout: %w", err)
	}

	if id := w.Exercises[exerciseIdx].ExerciseID; id != "" {
		if err := s.index.UpdateOne(ctx, id, replaceWorkout(history, w)); err != nil {
			s.logger.Warn("records index out of date, run `lift cache rebuild`", "exercise", id, "err", err)
		}
	}
	return w, report, nil
}

// DeleteWorkout removes a workout by id or prefix and refreshes the records
// of the exercises it contained.
func (s *Service) DeleteWorkout(ctx context.Context, idOrPrefix string) (models.Workout, error) {
	w, err := s.repo.GetWorkout(ctx, idOrPrefix)
	if err != nil {
		return models.Workout{}, fmt.Errorf("get workout: %w", err)
	}
	if err := s.repo.DeleteWorkout(ctx, w.ID); err != nil {
		return models.Workout{}, fmt.Errorf("delete workout: %w", err)
	}

	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return w, fmt.Errorf("load history: %w", err)
	}
	if err := s.index.UpdateMany(ctx, w.ExerciseIDs(), history); err != nil {
		s.logger.Warn("records index out of date, run `lift cache rebuild`", "workout", w.ID, "err", err)
	}
	return w, nil
}

// Import writes an export bundle and rebuilds the records index from the
// resulting history. With replace, existing data is cleared first.
func (s *Service) Import(ctx context.Context, data *storage.ExportData, replace bool) error {
	if err := s.index.Clear(ctx); err != nil {
		return err
	}
	if replace {
		for _, coll := range []string{storage.CollectionExercises, storage.CollectionWorkouts, storage.CollectionTemplates} {
			if err := s.repo.Store().Clear(ctx, coll); err != nil {
				return fmt.Errorf("clear %s: %w", coll, err)
			}
		}
	}
	for i := range data.Workouts {
		normalizeWorkout(&data.Workouts[i])
	}
	if err := s.repo.ImportData(ctx, data); err != nil {
		return err
	}
	return s.RebuildCache(ctx)
}

// RebuildCache recomputes the records of every catalog exercise and every
// exercise found in history.
func (s *Service) RebuildCache(ctx context.Context) error {
	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	catalog, err := s.repo.ListExercises(ctx)
	if err != nil {
		return fmt.Errorf("load exercises: %w", err)
	}
	if err := s.index.RebuildAll(ctx, history, catalog); err != nil {
		return fmt.Errorf("rebuild records index: %w", err)
	}
	return nil
}

// ClearCache drops the records index. Lookups recompute until the next rebuild.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.index.Clear(ctx)
}

// CacheSize returns the number of cached exercises.
func (s *Service) CacheSize() int {
	return s.index.Len()
}

// Records returns the records of exerciseID and whether they came from the cache.
func (s *Service) Records(ctx context.Context, exerciseID string) (models.Records, bool, error) {
	if r, ok := s.index.Get(exerciseID); ok {
		return r, true, nil
	}
	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return models.Records{}, false, fmt.Errorf("load history: %w", err)
	}
	return analytics.GetExerciseRecords(exerciseID, history), false, nil
}

// History returns the sessions containing exerciseID, newest first.
func (s *Service) History(ctx context.Context, exerciseID string) ([]analytics.HistoryEntry, error) {
	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return analytics.GetExerciseHistory(exerciseID, history), nil
}

// Plateau runs plateau detection for one exercise.
func (s *Service) Plateau(ctx context.Context, exerciseID string) (analytics.PlateauResult, error) {
	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return analytics.PlateauResult{}, fmt.Errorf("load history: %w", err)
	}
	return analytics.DetectPlateau(exerciseID, history, s.opts.PlateauOptions()), nil
}

// Readiness computes the acute:chronic readiness summary as of Now.
func (s *Service) Readiness(ctx context.Context) (analytics.Readiness, error) {
	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return analytics.Readiness{}, fmt.Errorf("load history: %w", err)
	}
	return analytics.CalculateReadiness(history, analytics.ReadinessOptions{Now: s.Now()}), nil
}

// VolumeLandmarks computes weekly work-set bands per muscle.
func (s *Service) VolumeLandmarks(ctx context.Context) (analytics.VolumeLandmarks, error) {
	history, catalog, err := s.historyAndCatalog(ctx)
	if err != nil {
		return analytics.VolumeLandmarks{}, err
	}
	return analytics.ComputeVolumeLandmarks(history, s.opts.VolumeOptions(catalog, s.Now())), nil
}

// MuscleBalance scores antagonist balance for the week and current block.
func (s *Service) MuscleBalance(ctx context.Context) (analytics.MuscleBalance, error) {
	history, catalog, err := s.historyAndCatalog(ctx)
	if err != nil {
		return analytics.MuscleBalance{}, err
	}
	return analytics.CalculateMuscleBalance(history, catalog, s.opts.BalanceOptions(s.Now())), nil
}

// BlockProgress measures adherence to the block of a template.
func (s *Service) BlockProgress(ctx context.Context, templateRef string) (analytics.BlockProgress, error) {
	tpl, err := s.repo.GetTemplate(ctx, templateRef)
	if err != nil {
		return analytics.BlockProgress{}, fmt.Errorf("get template: %w", err)
	}
	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return analytics.BlockProgress{}, fmt.Errorf("load history: %w", err)
	}
	return analytics.CalculateBlockProgress(*tpl, history, s.opts.BlockOptions(s.Now())), nil
}

// OptimizeTemplate trims a stored template to fit minutes, using logged
// history for per-exercise set timing.
func (s *Service) OptimizeTemplate(ctx context.Context, templateRef string, minutes float64) (analytics.OptimizeResult, error) {
	tpl, err := s.repo.GetTemplate(ctx, templateRef)
	if err != nil {
		return analytics.OptimizeResult{}, fmt.Errorf("get template: %w", err)
	}
	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return analytics.OptimizeResult{}, fmt.Errorf("load history: %w", err)
	}
	return analytics.OptimizeSession(*tpl, minutes, history, s.opts.OptimizeOptions()), nil
}

// ImportTemplate parses a YAML plan file, links its exercises to the
// catalog by name, and stores it.
func (s *Service) ImportTemplate(ctx context.Context, data []byte) (*models.Template, error) {
	tpl, err := models.ParseTemplateYAML(data)
	if err != nil {
		return nil, err
	}
	for i, e := range tpl.Exercises {
		if e.ExerciseID != "" || strings.TrimSpace(e.Name) == "" {
			continue
		}
		ex, err := s.EnsureExercise(ctx, e.Name, e.Category, e.TargetMuscles...)
		if err != nil {
			return nil, err
		}
		tpl.Exercises[i].ExerciseID = ex.ID
	}
	if err := s.repo.SaveTemplate(ctx, tpl); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	return tpl, nil
}

// StartFromTemplate builds an unsaved workout from a template with every
// set marked incomplete, linked to the template and its block.
func (s *Service) StartFromTemplate(ctx context.Context, templateRef string) (models.Workout, error) {
	tpl, err := s.repo.GetTemplate(ctx, templateRef)
	if err != nil {
		return models.Workout{}, fmt.Errorf("get template: %w", err)
	}
	w := models.NewWorkout(tpl.Name).WithDate(s.Now()).WithTemplate(tpl.ID)
	for _, e := range models.CloneExercises(tpl.Exercises) {
		for i := range e.Sets {
			e.Sets[i].Completed = false
		}
		w.AddExercise(e)
	}
	if tpl.Block != nil {
		w.BlockRef = &models.BlockRef{BlockID: tpl.Block.ID, Name: tpl.Block.Name}
	}
	return *w, nil
}

// EnsureExercise returns the catalog exercise called name, creating it when
// missing.
func (s *Service) EnsureExercise(ctx context.Context, name, category string, muscles ...string) (*models.Exercise, error) {
	ex, err := s.repo.GetExercise(ctx, name)
	if err == nil {
		return ex, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	ex = models.NewExercise(name, category, muscles...)
	if err := s.repo.SaveExercise(ctx, ex); err != nil {
		return nil, fmt.Errorf("save exercise: %w", err)
	}
	return ex, nil
}

func (s *Service) historyAndCatalog(ctx context.Context) ([]models.Workout, map[string]models.Exercise, error) {
	history, err := s.repo.ListWorkouts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load history: %w", err)
	}
	catalog, err := s.repo.ListExercises(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load exercises: %w", err)
	}
	return history, models.ExerciseMap(catalog), nil
}

// feedback summarizes a finished workout. Failures to load the template only
// drop the diff lines.
func (s *Service) feedback(ctx context.Context, w models.Workout, report analytics.PRReport, history []models.Workout) []string {
	in := analytics.FeedbackInput{PRs: report, Names: make(map[string]string)}

	readiness := analytics.CalculateReadiness(history, analytics.ReadinessOptions{Now: s.Now()})
	in.Readiness = &readiness

	for _, e := range w.Exercises {
		if e.ExerciseID == "" {
			continue
		}
		if _, seen := in.Names[e.ExerciseID]; seen {
			continue
		}
		in.Names[e.ExerciseID] = e.Name
		in.Plateaus = append(in.Plateaus, analytics.DetectPlateau(e.ExerciseID, history, s.opts.PlateauOptions()))
	}

	if w.TemplateID != "" {
		tpl, err := s.repo.GetTemplate(ctx, w.TemplateID)
		if err != nil {
			s.logger.Debug("feedback: template unavailable", "template", w.TemplateID, "err", err)
		} else {
			diff := analytics.DiffWorkout(*tpl, w)
			in.Diff = &diff
		}
	}
	return analytics.Feedback(in)
}

func normalizeWorkout(w *models.Workout) {
	for i := range w.Exercises {
		for j, set := range w.Exercises[i].Sets {
			w.Exercises[i].Sets[j] = models.NormalizeSetForStorage(set, models.SetWork)
		}
	}
}

// appendsToHistory reports whether w is new and dated at or after every
// stored workout.
func appendsToHistory(w models.Workout, history []models.Workout) bool {
	at := w.When()
	for _, h := range history {
		if h.ID == w.ID || h.When().After(at) {
			return false
		}
	}
	return true
}

// replaceWorkout returns history with w substituted for the entry sharing its
// id, or appended when there is none.
func replaceWorkout(history []models.Workout, w models.Workout) []models.Workout {
	out := make([]models.Workout, 0, len(history)+1)
	found := false
	for _, h := range history {
		if h.ID == w.ID {
			out = append(out, w)
			found = true
			continue
		}
		out = append(out, h)
	}
	if !found {
		out = append(out, w)
	}
	return out
}
