// ABOUTME: Workout templates and periodized training blocks.
// ABOUTME: Templates can be authored as YAML plan files and imported.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Template is a planned session, optionally part of a periodized block.
type Template struct {
	ID        string            `json:"id" yaml:"id,omitempty"`
	Name      string            `json:"name" yaml:"name"`
	Exercises []WorkoutExercise `json:"exercises" yaml:"exercises"`
	Block     *Block            `json:"block,omitempty" yaml:"block,omitempty"`
}

// Block is a multi-week periodized plan attached to a template.
type Block struct {
	ID            string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string      `json:"name,omitempty" yaml:"name,omitempty"`
	StartDate     time.Time   `json:"startDate,omitzero" yaml:"start_date,omitempty"`
	CurrentWeek   int         `json:"currentWeek,omitempty" yaml:"current_week,omitempty"`
	DurationWeeks int         `json:"durationWeeks,omitempty" yaml:"duration_weeks,omitempty"`
	WeekPlan      []BlockWeek `json:"weekPlan,omitempty" yaml:"week_plan,omitempty"`
}

// BlockWeek is the plan for one week of a block. Week is 1-based; zero means
// the entry's position in the plan.
type BlockWeek struct {
	Week           int    `json:"week,omitempty" yaml:"week,omitempty"`
	TargetSessions int    `json:"targetSessions,omitempty" yaml:"target_sessions,omitempty"`
	Deload         bool   `json:"deload,omitempty" yaml:"deload,omitempty"`
	Label          string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Sessions returns the planned session count, defaulting to 1.
func (w BlockWeek) Sessions() int {
	if w.TargetSessions <= 0 {
		return 1
	}
	return w.TargetSessions
}

// WeekIndex returns the 1-based week number of the i-th plan entry.
func (b Block) WeekIndex(i int) int {
	if b.WeekPlan[i].Week > 0 {
		return b.WeekPlan[i].Week
	}
	return i + 1
}

// PlannedWeeks returns the block duration, falling back to the plan length.
func (b Block) PlannedWeeks() int {
	if b.DurationWeeks > 0 {
		return b.DurationWeeks
	}
	return len(b.WeekPlan)
}

// NewTemplate creates an empty template with a generated id.
func NewTemplate(name string) *Template {
	return &Template{ID: uuid.New().String(), Name: name}
}

// ParseTemplateYAML decodes a template plan file and fills in ids and
// normalized set types.
func ParseTemplateYAML(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if strings.TrimSpace(t.Name) == "" {
		return nil, fmt.Errorf("parse template: name is required")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Block != nil && t.Block.ID == "" {
		t.Block.ID = uuid.New().String()
	}
	for i := range t.Exercises {
		for j, s := range t.Exercises[i].Sets {
			t.Exercises[i].Sets[j] = NormalizeSetForStorage(s, SetWork)
		}
	}
	return &t, nil
}
