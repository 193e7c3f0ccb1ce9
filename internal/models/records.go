// ABOUTME: Records is the derived best-performance snapshot for one exercise.
// ABOUTME: Instances are cached by the records index and recomputable from history.
package models

import "time"

// Records holds the best historical metrics for an exercise.
type Records struct {
	ExerciseID        string    `json:"id"`
	Best1RM           float64   `json:"best1RM"`
	Best1RMDate       time.Time `json:"best1RMDate,omitzero"`
	MaxWeight         float64   `json:"maxWeight"`
	MaxWeightDate     time.Time `json:"maxWeightDate,omitzero"`
	MaxReps           int       `json:"maxReps"`
	MaxRepsDate       time.Time `json:"maxRepsDate,omitzero"`
	BestSetVolume     float64   `json:"bestSetVolume"`
	BestSetVolumeDate time.Time `json:"bestSetVolumeDate,omitzero"`
}

// IsEmpty reports whether no record has ever been set.
func (r Records) IsEmpty() bool {
	return r.Best1RM == 0 && r.MaxWeight == 0 && r.MaxReps == 0
}
