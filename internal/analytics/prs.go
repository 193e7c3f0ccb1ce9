// ABOUTME: Personal-record detection for a completed workout.
// ABOUTME: Compares each work set against the records of the prior history.
package analytics

import (
	"github.com/harperreed/lift/internal/models"
)

// RecordType names one of the independent personal-record kinds.
type RecordType string

const (
	RecordBest1RM        RecordType = "best1RM"
	RecordBestSetVolume  RecordType = "bestSetVolume"
	RecordHeaviestWeight RecordType = "heaviestWeight"
)

var recordOrder = []RecordType{RecordBest1RM, RecordBestSetVolume, RecordHeaviestWeight}

// SetRef addresses a set within a workout by exercise position and set position.
type SetRef struct {
	Exercise int `json:"exercise"`
	Set      int `json:"set"`
}

// ExercisePRs collects the records hit by one exercise in a workout.
type ExercisePRs struct {
	ExerciseID    string                  `json:"exerciseId"`
	ExerciseName  string                  `json:"exerciseName"`
	RecordTypes   []RecordType            `json:"recordTypes"`
	RecordsPerSet map[SetRef][]RecordType `json:"-"`
	types         map[RecordType]struct{}
}

// Has reports whether the exercise hit the given record type.
func (e *ExercisePRs) Has(t RecordType) bool {
	_, ok := e.types[t]
	return ok
}

// PRReport maps exercise id to the records hit in a workout. A workout has a
// PR iff the report is non-empty.
type PRReport map[string]*ExercisePRs

// HasPR reports whether any record was hit.
func (r PRReport) HasPR() bool {
	return len(r) > 0
}

// DetectPRsInWorkout flags work sets in w that beat the records computed from
// prior, which must not contain w. Exercises with no prior records are a
// baseline and never produce a record. getRecords defaults to
// GetExerciseRecords.
func DetectPRsInWorkout(w models.Workout, prior []models.Workout, getRecords RecordsFunc) PRReport {
	if getRecords == nil {
		getRecords = GetExerciseRecords
	}

	report := make(PRReport)
	priorByID := make(map[string]models.Records)

	for ei, e := range w.Exercises {
		if e.ExerciseID == "" {
			continue
		}
		rec, ok := priorByID[e.ExerciseID]
		if !ok {
			rec = getRecords(e.ExerciseID, prior)
			priorByID[e.ExerciseID] = rec
		}
		if rec.IsEmpty() {
			continue
		}

		for si, s := range e.Sets {
			if !models.IsWorkSet(s) || s.Kg <= 0 || s.Reps <= 0 {
				continue
			}

			var hits []RecordType
			if Calculate1RM(s.Kg, s.Reps) > rec.Best1RM {
				hits = append(hits, RecordBest1RM)
			}
			if s.Volume() > rec.BestSetVolume {
				hits = append(hits, RecordBestSetVolume)
			}
			if s.Kg > rec.MaxWeight {
				hits = append(hits, RecordHeaviestWeight)
			}
			if len(hits) == 0 {
				continue
			}

			ex := report[e.ExerciseID]
			if ex == nil {
				ex = &ExercisePRs{
					ExerciseID:    e.ExerciseID,
					ExerciseName:  e.Name,
					RecordsPerSet: make(map[SetRef][]RecordType),
					types:         make(map[RecordType]struct{}),
				}
				report[e.ExerciseID] = ex
			}
			ex.RecordsPerSet[SetRef{Exercise: ei, Set: si}] = hits
			for _, h := range hits {
				ex.types[h] = struct{}{}
			}
		}
	}

	for _, ex := range report {
		ex.RecordTypes = ex.RecordTypes[:0]
		for _, t := range recordOrder {
			if ex.Has(t) {
				ex.RecordTypes = append(ex.RecordTypes, t)
			}
		}
	}
	return report
}

// ApplyPRFlags returns a copy of w whose set flags match report exactly: every
// flag is cleared first, so re-running detection after an edit can revoke a
// record as well as grant one.
func ApplyPRFlags(w models.Workout, report PRReport) models.Workout {
	out := w.Clone()
	for ei := range out.Exercises {
		for si := range out.Exercises[ei].Sets {
			out.Exercises[ei].Sets[si] = out.Exercises[ei].Sets[si].ClearRecordFlags()
		}
	}

	for _, ex := range report {
		for ref, hits := range ex.RecordsPerSet {
			if ref.Exercise >= len(out.Exercises) || ref.Set >= len(out.Exercises[ref.Exercise].Sets) {
				continue
			}
			s := &out.Exercises[ref.Exercise].Sets[ref.Set]
			for _, h := range hits {
				switch h {
				case RecordBest1RM:
					s.IsBest1RM = true
				case RecordBestSetVolume:
					s.IsBestSetVolume = true
				case RecordHeaviestWeight:
					s.IsHeaviestWeight = true
				}
			}
		}
	}
	return out
}

// RecheckPRs runs detection and applies the resulting flags in one step.
func RecheckPRs(w models.Workout, prior []models.Workout, getRecords RecordsFunc) (models.Workout, PRReport) {
	report := DetectPRsInWorkout(w, prior, getRecords)
	return ApplyPRFlags(w, report), report
}
