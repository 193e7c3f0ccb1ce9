// ABOUTME: Compares a logged workout against the template it was started from.
// ABOUTME: Reports added and skipped exercises and planned vs completed work sets.
package analytics

import (
	"github.com/harperreed/lift/internal/models"
)

// ExerciseDiff compares planned and completed work sets for one exercise.
type ExerciseDiff struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	PlannedSets   int    `json:"plannedSets"`
	CompletedSets int    `json:"completedSets"`
}

// TemplateDiff is the result of DiffWorkout.
type TemplateDiff struct {
	Added   []string       `json:"added,omitempty"`
	Skipped []string       `json:"skipped,omitempty"`
	Changed []ExerciseDiff `json:"changed,omitempty"`
}

// IsEmpty reports whether the workout followed the template exactly.
func (d TemplateDiff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Skipped) == 0 && len(d.Changed) == 0
}

// DiffWorkout compares w with tpl by exercise key. Planned sets count every
// non-warmup set in the template; completed sets count work sets in w.
func DiffWorkout(tpl models.Template, w models.Workout) TemplateDiff {
	type tally struct {
		name               string
		planned, completed int
		inPlan, inWorkout  bool
	}
	var order []string
	tallies := make(map[string]*tally)
	get := func(key, name string) *tally {
		t, ok := tallies[key]
		if !ok {
			t = &tally{name: name}
			tallies[key] = t
			order = append(order, key)
		}
		return t
	}

	for _, e := range tpl.Exercises {
		t := get(e.Key(), e.Name)
		t.inPlan = true
		for _, s := range e.Sets {
			if models.ResolveSetType(s) != models.SetWarmup {
				t.planned++
			}
		}
	}
	for _, e := range w.Exercises {
		t := get(e.Key(), e.Name)
		t.inWorkout = true
		t.completed += e.WorkSetCount()
	}

	var d TemplateDiff
	for _, key := range order {
		t := tallies[key]
		switch {
		case !t.inPlan:
			d.Added = append(d.Added, t.name)
		case !t.inWorkout || t.completed == 0:
			d.Skipped = append(d.Skipped, t.name)
		case t.planned != t.completed:
			d.Changed = append(d.Changed, ExerciseDiff{
				Key:           key,
				Name:          t.name,
				PlannedSets:   t.planned,
				CompletedSets: t.completed,
			})
		}
	}
	return d
}
