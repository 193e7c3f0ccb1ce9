// ABOUTME: Per-muscle weekly work-set landmarks with trend and confidence.
// ABOUTME: Targets come from the average of weeks that trained the muscle.
package analytics

import (
	"math"
	"time"

	"github.com/harperreed/lift/internal/models"
)

// Trend describes the direction of recent weekly volume.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// VolumeOptions configures ComputeVolumeLandmarks.
type VolumeOptions struct {
	WeeksWindow      int // default 12
	MinWeeksWithData int // default 4
	ExerciseMap      map[string]models.Exercise
	Now              time.Time
}

// MuscleLandmark is the weekly work-set band for one muscle.
type MuscleLandmark struct {
	Low         int        `json:"low"`
	Target      int        `json:"target"`
	High        int        `json:"high"`
	Recent      int        `json:"recent"`
	Trend       Trend      `json:"trend"`
	Confidence  Confidence `json:"confidence"`
	ActiveWeeks int        `json:"activeWeeks"`
}

// VolumeLandmarks is the result of ComputeVolumeLandmarks.
type VolumeLandmarks struct {
	ByMuscle    map[string]MuscleLandmark `json:"byMuscle"`
	GeneratedAt time.Time                 `json:"generatedAt"`
}

// ComputeVolumeLandmarks attributes weekly work sets to muscles over the
// trailing window and derives a low/target/high band for each.
func ComputeVolumeLandmarks(workouts []models.Workout, opts VolumeOptions) VolumeLandmarks {
	if opts.WeeksWindow <= 0 {
		opts.WeeksWindow = 12
	}
	if opts.MinWeeksWithData <= 0 {
		opts.MinWeeksWithData = 4
	}
	now := orNow(opts.Now)
	span := time.Duration(opts.WeeksWindow*7) * day

	// Monday-aligned week keys from the window start through the current week.
	var weeks []string
	weekPos := make(map[string]int)
	for ws := weekStart(now.Add(-span)); !ws.After(now); ws = ws.AddDate(0, 0, 7) {
		key := ws.Format("2006-01-02")
		weekPos[key] = len(weeks)
		weeks = append(weeks, key)
	}

	counts := make(map[string][]float64)
	for _, w := range workouts {
		at := w.When()
		if !inWindow(at, now, span) {
			continue
		}
		pos, ok := weekPos[WeekKey(at.In(now.Location()))]
		if !ok {
			continue
		}
		for _, e := range w.Exercises {
			n := e.WorkSetCount()
			if n == 0 {
				continue
			}
			for _, m := range ResolveMuscles(e, opts.ExerciseMap) {
				series, ok := counts[m]
				if !ok {
					series = make([]float64, len(weeks))
					counts[m] = series
				}
				series[pos] += float64(n)
			}
		}
	}

	out := VolumeLandmarks{
		ByMuscle:    make(map[string]MuscleLandmark, len(counts)),
		GeneratedAt: now,
	}
	for muscle, series := range counts {
		out.ByMuscle[muscle] = landmarkFor(series, opts.MinWeeksWithData)
	}
	return out
}

func landmarkFor(series []float64, minWeeks int) MuscleLandmark {
	var total float64
	active := 0
	for _, v := range series {
		if v > 0 {
			total += v
			active++
		}
	}

	target := 0
	if active > 0 {
		target = int(math.Round(total / float64(active)))
	}

	recent := windowAverage(series, len(series)-4, len(series))
	previous := windowAverage(series, len(series)-8, len(series)-4)

	lm := MuscleLandmark{
		Low:         int(math.Round(float64(target) * 0.8)),
		Target:      target,
		High:        max(target, int(math.Round(float64(target)*1.2))),
		Recent:      int(math.Round(recent)),
		Trend:       TrendFlat,
		Confidence:  ConfidenceLow,
		ActiveWeeks: active,
	}

	switch {
	case previous == 0 && recent > 0:
		lm.Trend = TrendUp
	case recent > previous*1.08:
		lm.Trend = TrendUp
	case recent < previous*0.92:
		lm.Trend = TrendDown
	}

	switch {
	case active >= 8:
		lm.Confidence = ConfidenceHigh
	case active >= minWeeks:
		lm.Confidence = ConfidenceMedium
	}
	return lm
}

// windowAverage averages series[from:to] with zeros included, clamping the
// bounds to the series.
func windowAverage(series []float64, from, to int) float64 {
	from = max(from, 0)
	to = min(to, len(series))
	if to <= from {
		return 0
	}
	var sum float64
	for _, v := range series[from:to] {
		sum += v
	}
	return sum / float64(to-from)
}
