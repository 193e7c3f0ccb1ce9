// ABOUTME: Export and import of the training log.
// ABOUTME: Supports JSON, YAML, and a Markdown session log.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is written into every export bundle.
const ExportVersion = "1.0"

// ExportData is the full export bundle.
type ExportData struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Tool       string             `json:"tool" yaml:"tool"`
	Exercises  []*models.Exercise `json:"exercises" yaml:"exercises"`
	Workouts   []models.Workout   `json:"workouts" yaml:"workouts"`
	Templates  []*models.Template `json:"templates" yaml:"templates"`
}

// GetAllData retrieves all data for export.
func (r *Repository) GetAllData(ctx context.Context) (*ExportData, error) {
	exercises, err := r.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	workouts, err := r.ListWorkouts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	templates, err := r.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "lift",
		Exercises:  exercises,
		Workouts:   workouts,
		Templates:  templates,
	}, nil
}

// ImportData upserts every entity in data. Existing records with other ids
// are left alone.
func (r *Repository) ImportData(ctx context.Context, data *ExportData) error {
	var recs []Record
	for _, e := range data.Exercises {
		if e == nil || e.ID == "" {
			continue
		}
		rec, err := NewRecord(e.ID, e)
		if err != nil {
			return fmt.Errorf("import exercise: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := r.store.SetMany(ctx, CollectionExercises, recs); err != nil {
		return fmt.Errorf("import exercises: %w", err)
	}

	recs = recs[:0]
	for _, w := range data.Workouts {
		if w.ID == "" {
			continue
		}
		rec, err := NewRecord(w.ID, w)
		if err != nil {
			return fmt.Errorf("import workout: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := r.store.SetMany(ctx, CollectionWorkouts, recs); err != nil {
		return fmt.Errorf("import workouts: %w", err)
	}

	recs = recs[:0]
	for _, t := range data.Templates {
		if t == nil || t.ID == "" {
			continue
		}
		rec, err := NewRecord(t.ID, t)
		if err != nil {
			return fmt.Errorf("import template: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := r.store.SetMany(ctx, CollectionTemplates, recs); err != nil {
		return fmt.Errorf("import templates: %w", err)
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (r *Repository) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := r.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (r *Repository) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := r.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders the session log, optionally limited to sessions at
// or after since.
func (r *Repository) ExportMarkdown(ctx context.Context, since *time.Time) (string, error) {
	workouts, err := r.ListWorkouts(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Training Log - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, w := range workouts {
		if since != nil && w.When().Before(*since) {
			continue
		}
		name := w.Name
		if name == "" {
			name = "Workout"
		}
		sb.WriteString(fmt.Sprintf("## %s - %s\n\n", w.When().Format("2006-01-02 15:04"), name))
		if w.Duration > 0 {
			sb.WriteString(fmt.Sprintf("Duration: %d min\n\n", w.Duration))
		}
		if len(w.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("Tags: %s\n\n", strings.Join(w.Tags, " ")))
		}
		sb.WriteString("| Exercise | Set | Type | Weight | Reps | Done |\n")
		sb.WriteString("|----------|-----|------|--------|------|------|\n")
		for _, e := range w.Exercises {
			for i, s := range e.Sets {
				done := ""
				if s.Completed {
					done = "x"
				}
				sb.WriteString(fmt.Sprintf("| %s | %d | %s | %.1f kg | %d | %s |\n",
					e.Name, i+1, models.ResolveSetType(s), s.Kg, s.Reps, done))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// ParseExport decodes a JSON or YAML export bundle.
func ParseExport(data []byte) (*ExportData, error) {
	var out ExportData
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
		return &out, nil
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}
	return &out, nil
}
