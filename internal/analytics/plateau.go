// ABOUTME: Plateau detection over per-session e1RM and best-set volume.
// ABOUTME: Both metrics must stagnate before an exercise is called a plateau.
package analytics

import (
	"math"

	"github.com/harperreed/lift/internal/models"
)

// StagnationType names the metric that stalled.
type StagnationType string

const (
	StagnationBoth   StagnationType = "both"
	StagnationE1RM   StagnationType = "e1rm"
	StagnationVolume StagnationType = "volume"
)

// Confidence grades how much data backs a result.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// PlateauOptions configures DetectPlateau.
type PlateauOptions struct {
	// MinStagnationExposures is the number of sessions without a new high
	// before a metric counts as stagnant. Defaults to 3.
	MinStagnationExposures int
}

// PlateauResult describes the stagnation state of an exercise.
type PlateauResult struct {
	ExerciseID                 string         `json:"exerciseId"`
	IsPlateau                  bool           `json:"isPlateau"`
	ExposuresChecked           int            `json:"exposuresChecked"`
	LastImprovementSessionsAgo int            `json:"lastImprovementSessionsAgo"`
	E1RMSessionsSince          int            `json:"e1rmSessionsSince"`
	VolumeSessionsSince        int            `json:"volumeSessionsSince"`
	StagnationType             StagnationType `json:"stagnationType"`
	Confidence                 Confidence     `json:"confidence"`
}

// DetectPlateau analyses the work-set history of exerciseID.
func DetectPlateau(exerciseID string, workouts []models.Workout, opts PlateauOptions) PlateauResult {
	minExposures := opts.MinStagnationExposures
	if minExposures <= 0 {
		minExposures = 3
	}

	e1rm, volume := plateauSeries(GetExerciseHistory(exerciseID, workouts))

	e1rmSince := sessionsSinceLastImprovement(e1rm)
	volumeSince := sessionsSinceLastImprovement(volume)
	e1rmStagnant := e1rmSince >= minExposures
	volumeStagnant := volumeSince >= minExposures

	res := PlateauResult{
		ExerciseID:                 exerciseID,
		IsPlateau:                  e1rmStagnant && volumeStagnant,
		ExposuresChecked:           len(e1rm),
		LastImprovementSessionsAgo: min(e1rmSince, volumeSince),
		E1RMSessionsSince:          e1rmSince,
		VolumeSessionsSince:        volumeSince,
	}

	switch {
	case e1rmStagnant && volumeStagnant:
		res.StagnationType = StagnationBoth
	case e1rmStagnant:
		res.StagnationType = StagnationE1RM
	case volumeStagnant:
		res.StagnationType = StagnationVolume
	case volumeSince > e1rmSince:
		res.StagnationType = StagnationVolume
	default:
		res.StagnationType = StagnationE1RM
	}

	res.Confidence = plateauConfidence(res.ExposuresChecked, res.LastImprovementSessionsAgo, res.IsPlateau)
	return res
}

// plateauSeries builds oldest-to-newest per-session best e1RM and best single
// set volume over work sets. Sessions without a work set are skipped.
func plateauSeries(history []HistoryEntry) (e1rm, volume []float64) {
	for i := len(history) - 1; i >= 0; i-- {
		var best1RM, bestVolume float64
		found := false
		for _, s := range history[i].Sets {
			if !models.IsWorkSet(s) {
				continue
			}
			found = true
			best1RM = math.Max(best1RM, Calculate1RM(s.Kg, s.Reps))
			bestVolume = math.Max(bestVolume, s.Volume())
		}
		if found {
			e1rm = append(e1rm, best1RM)
			volume = append(volume, bestVolume)
		}
	}
	return e1rm, volume
}

// sessionsSinceLastImprovement counts sessions after the last one that set a
// new running high. The first session is a baseline, so a series that never
// improves returns its length.
func sessionsSinceLastImprovement(series []float64) int {
	if len(series) == 0 {
		return 0
	}
	best := series[0]
	last := -1
	for i := 1; i < len(series); i++ {
		if series[i] > best {
			best = series[i]
			last = i
		}
	}
	if last < 0 {
		return len(series)
	}
	return len(series) - 1 - last
}

func plateauConfidence(exposures, stale int, isPlateau bool) Confidence {
	if exposures < 3 {
		return ConfidenceLow
	}
	if isPlateau {
		switch {
		case exposures >= 8 && stale >= 5:
			return ConfidenceHigh
		case exposures >= 5 && stale >= 3:
			return ConfidenceMedium
		default:
			return ConfidenceLow
		}
	}
	if exposures >= 6 {
		return ConfidenceMedium
	}
	return ConfidenceLow
}
