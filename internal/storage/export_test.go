// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/lift/internal/models"
)

func seedRepo(t *testing.T, repo *Repository) (*models.Workout, *models.Exercise, *models.Template) {
	t.Helper()
	ctx := context.Background()

	w := sampleWorkout("legs", time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))
	e := models.NewExercise("Squat", "legs", "quads")
	tpl := models.NewTemplate("Lower")
	tpl.Exercises = []models.WorkoutExercise{{ExerciseID: e.ID, Name: "Squat", Sets: []models.Set{{Kg: 100, Reps: 5}}}}

	if err := repo.SaveWorkout(ctx, *w); err != nil {
		t.Fatalf("SaveWorkout failed: %v", err)
	}
	if err := repo.SaveExercise(ctx, e); err != nil {
		t.Fatalf("SaveExercise failed: %v", err)
	}
	if err := repo.SaveTemplate(ctx, tpl); err != nil {
		t.Fatalf("SaveTemplate failed: %v", err)
	}
	return w, e, tpl
}

func TestExportJSON(t *testing.T) {
	repo := setupTestRepo(t)
	seedRepo(t, repo)

	data, err := repo.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if export.Version != ExportVersion || export.Tool != "lift" {
		t.Errorf("header = %s/%s", export.Version, export.Tool)
	}
	if len(export.Workouts) != 1 || len(export.Exercises) != 1 || len(export.Templates) != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1", len(export.Workouts), len(export.Exercises), len(export.Templates))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := setupTestRepo(t)
	w, e, tpl := seedRepo(t, src)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var data []byte
			var err error
			if format == "json" {
				data, err = src.ExportJSON(ctx)
			} else {
				data, err = src.ExportYAML(ctx)
			}
			if err != nil {
				t.Fatalf("export failed: %v", err)
			}

			parsed, err := ParseExport(data)
			if err != nil {
				t.Fatalf("ParseExport failed: %v", err)
			}

			dst := setupTestRepo(t)
			if err := dst.ImportData(ctx, parsed); err != nil {
				t.Fatalf("ImportData failed: %v", err)
			}

			got, err := dst.GetWorkout(ctx, w.ID)
			if err != nil {
				t.Fatalf("GetWorkout failed: %v", err)
			}
			if !got.When().Equal(w.When()) || len(got.Exercises[0].Sets) != 2 || got.Exercises[0].Sets[1].Kg != 100 {
				t.Errorf("workout did not round trip: %+v", got)
			}
			if _, err := dst.GetExercise(ctx, e.ID); err != nil {
				t.Errorf("exercise missing after import: %v", err)
			}
			if _, err := dst.GetTemplate(ctx, tpl.ID); err != nil {
				t.Errorf("template missing after import: %v", err)
			}
		})
	}
}

func TestExportMarkdown(t *testing.T) {
	repo := setupTestRepo(t)
	seedRepo(t, repo)

	md, err := repo.ExportMarkdown(context.Background(), nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	for _, want := range []string{"# Training Log", "## 2026-03-02 18:00 - legs", "| Squat | 2 | work | 100.0 kg | 5 | x |", "Duration: 50 min"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	md, _ = repo.ExportMarkdown(context.Background(), &since)
	if strings.Contains(md, "legs") {
		t.Error("expected workouts before since to be filtered")
	}
}

func TestParseExportRejectsGarbage(t *testing.T) {
	if _, err := ParseExport([]byte("{not json")); err == nil {
		t.Error("expected JSON error")
	}
	if _, err := ParseExport([]byte("version: [unterminated")); err == nil {
		t.Error("expected YAML error")
	}
}
