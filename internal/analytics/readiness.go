// ABOUTME: Readiness score from the acute:chronic training-load ratio.
// ABOUTME: Sessions tagged for poor sleep, stress or sickness reduce the score.
package analytics

import (
	"math"
	"time"

	"github.com/harperreed/lift/internal/models"
)

// ReadinessStatus classifies the load ratio.
type ReadinessStatus string

const (
	ReadinessLow     ReadinessStatus = "low"
	ReadinessOptimal ReadinessStatus = "optimal"
	ReadinessFatigue ReadinessStatus = "fatigue"
)

// FatigueTags mark sessions performed under poor recovery.
var FatigueTags = []string{"#sleep-bad", "#stress", "#sick"}

// ReadinessOptions configures CalculateReadiness.
type ReadinessOptions struct {
	// Now anchors the acute and chronic windows. Zero means time.Now().
	Now time.Time
}

// Readiness is the fatigue-monitoring summary.
type Readiness struct {
	AcuteLoad      float64         `json:"acuteLoad"`
	ChronicLoad    float64         `json:"chronicLoad"`
	Ratio          float64         `json:"ratio"`
	Status         ReadinessStatus `json:"status"`
	Suggestion     string          `json:"suggestion"`
	ReadinessScore int             `json:"readinessScore"`
	FlaggedCount   int             `json:"flaggedSessions"`
	PenaltyRate    float64         `json:"penaltyRate"`
}

// SessionLoad is the sum of kg*reps over the work sets of w.
func SessionLoad(w models.Workout) float64 {
	var load float64
	for _, e := range w.Exercises {
		for _, s := range e.Sets {
			if models.IsWorkSet(s) {
				load += s.Volume()
			}
		}
	}
	return load
}

// CalculateReadiness compares the last 7 days of load with the weekly average
// of the last 28 days.
func CalculateReadiness(workouts []models.Workout, opts ReadinessOptions) Readiness {
	now := orNow(opts.Now)

	var acute, chronicTotal float64
	flagged := 0
	for _, w := range workouts {
		at := w.When()
		load := SessionLoad(w)
		if inWindow(at, now, 28*day) {
			chronicTotal += load
		}
		if inWindow(at, now, 7*day) {
			acute += load
			if hasFatigueTag(w) {
				flagged++
			}
		}
	}

	chronic := chronicTotal / 4
	ratio := 0.0
	if chronic > 0 {
		ratio = acute / chronic
	}

	penalty := 0.0
	switch {
	case flagged >= 2:
		penalty = 0.10
	case flagged == 1:
		penalty = 0.05
	}

	status := readinessStatus(ratio)
	return Readiness{
		AcuteLoad:      math.Round(acute),
		ChronicLoad:    math.Round(chronic),
		Ratio:          round2(ratio),
		Status:         status,
		Suggestion:     readinessSuggestion(status, penalty > 0),
		ReadinessScore: int(math.Round(readinessBaseScore(ratio) * (1 - penalty))),
		FlaggedCount:   flagged,
		PenaltyRate:    penalty,
	}
}

func hasFatigueTag(w models.Workout) bool {
	for _, tag := range FatigueTags {
		if w.HasTag(tag) {
			return true
		}
	}
	return false
}

// readinessBaseScore peaks at 100 for a ratio of 1 and falls off on both sides.
func readinessBaseScore(ratio float64) float64 {
	switch {
	case ratio <= 0:
		return 45
	case ratio < 0.8:
		return 40 + (ratio/0.8)*35
	case ratio <= 1.2:
		return math.Max(70, 100-math.Abs(1-ratio)*120)
	default:
		return math.Max(35, 78-(ratio-1.2)*60)
	}
}

func readinessStatus(ratio float64) ReadinessStatus {
	switch {
	case ratio <= 0 || ratio < 0.8:
		return ReadinessLow
	case ratio >= 1.3:
		return ReadinessFatigue
	default:
		return ReadinessOptimal
	}
}

func readinessSuggestion(status ReadinessStatus, penalized bool) string {
	switch status {
	case ReadinessLow:
		return "Training load is below your usual level. A normal or slightly harder session is fine."
	case ReadinessFatigue:
		return "Acute load is well above your chronic average. Consider a lighter session or extra rest."
	default:
		if penalized {
			return "Load is in the sweet spot, but recent sessions were flagged for poor recovery. Keep intensity moderate."
		}
		return "Load is in the sweet spot. Train as planned."
	}
}
