// ABOUTME: Muscle resolution for workout exercises.
// ABOUTME: Catalog muscles win, then declared targets, then a category fallback.
package analytics

import (
	"strings"

	"github.com/harperreed/lift/internal/models"
)

// categoryMuscles maps exercise categories to the muscles they load when
// neither the catalog nor the workout names any.
var categoryMuscles = map[string][]string{
	"chest":      {"chest"},
	"back":       {"back"},
	"shoulders":  {"shoulders"},
	"arms":       {"biceps", "triceps"},
	"biceps":     {"biceps"},
	"triceps":    {"triceps"},
	"legs":       {"quads", "hamstrings", "glutes"},
	"quads":      {"quads"},
	"hamstrings": {"hamstrings"},
	"glutes":     {"glutes"},
	"core":       {"core"},
	"abs":        {"core"},
	"calves":     {"calves"},
	"push":       {"chest", "shoulders", "triceps"},
	"pull":       {"back", "biceps"},
}

// ResolveMuscles returns the lower-cased muscles an exercise entry trains.
func ResolveMuscles(e models.WorkoutExercise, catalog map[string]models.Exercise) []string {
	if ex, ok := catalog[e.ExerciseID]; ok && len(ex.Muscles) > 0 {
		return normalizeMuscles(ex.Muscles)
	}
	if len(e.TargetMuscles) > 0 {
		return normalizeMuscles(e.TargetMuscles)
	}
	category := e.Category
	if ex, ok := catalog[e.ExerciseID]; ok && category == "" {
		category = ex.Category
	}
	return categoryMuscles[strings.ToLower(strings.TrimSpace(category))]
}

func normalizeMuscles(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, m := range in {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
