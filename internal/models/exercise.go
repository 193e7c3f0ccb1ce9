// ABOUTME: Exercise catalog entries owned outside the analytics engine.
// ABOUTME: Muscles drive volume attribution and balance classification.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Exercise is a catalog entry.
type Exercise struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Category       string   `json:"category,omitempty" yaml:"category,omitempty"`
	Muscles        []string `json:"muscles,omitempty" yaml:"muscles,omitempty"`
	UsesBodyweight bool     `json:"usesBodyweight,omitempty" yaml:"uses_bodyweight,omitempty"`
	DefaultSets    int      `json:"defaultSets,omitempty" yaml:"default_sets,omitempty"`
	IsFavorite     bool     `json:"isFavorite,omitempty" yaml:"is_favorite,omitempty"`
}

// NewExercise creates a catalog entry with a generated id.
func NewExercise(name, category string, muscles ...string) *Exercise {
	return &Exercise{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    strings.ToLower(category),
		Muscles:     muscles,
		DefaultSets: 3,
	}
}

// ExerciseMap indexes a catalog by id.
func ExerciseMap(catalog []*Exercise) map[string]Exercise {
	m := make(map[string]Exercise, len(catalog))
	for _, e := range catalog {
		if e != nil {
			m[e.ID] = *e
		}
	}
	return m
}
