// ABOUTME: Session time optimizer that trims a planned template to a time budget.
// ABOUTME: Greedily removes low-priority sets, keeping non-negotiables and minimum work sets.
package analytics

import (
	"math"
	"sort"

	"github.com/harperreed/lift/internal/models"
)

// Defaults for OptimizeOptions.
const (
	DefaultSecPerSet            = 150.0
	DefaultRestSec              = 90.0
	DefaultMinWorkSets          = 1
	DefaultKeepTopPriorityCount = 2
)

// OptimizeOptions configures OptimizeSession. Non-positive values take the
// package defaults.
type OptimizeOptions struct {
	DefaultSecPerSet       float64
	RestSec                float64
	MinWorkSetsPerExercise int
	KeepTopPriorityCount   int
}

func (o OptimizeOptions) withDefaults() OptimizeOptions {
	if o.DefaultSecPerSet <= 0 {
		o.DefaultSecPerSet = DefaultSecPerSet
	}
	if o.RestSec <= 0 {
		o.RestSec = DefaultRestSec
	}
	if o.MinWorkSetsPerExercise <= 0 {
		o.MinWorkSetsPerExercise = DefaultMinWorkSets
	}
	if o.KeepTopPriorityCount <= 0 {
		o.KeepTopPriorityCount = DefaultKeepTopPriorityCount
	}
	return o
}

// RemovedSets reports how many sets were trimmed from one exercise.
type RemovedSets struct {
	ExerciseID string `json:"exerciseId,omitempty"`
	Name       string `json:"name"`
	Sets       int    `json:"sets"`
	// Dropped is true when the exercise lost every set and was removed.
	Dropped bool `json:"dropped,omitempty"`
}

// CoreExercise is an exercise protected as part of the session core.
type CoreExercise struct {
	ExerciseID    string `json:"exerciseId,omitempty"`
	Name          string `json:"name"`
	Priority      int    `json:"priority"`
	NonNegotiable bool   `json:"nonNegotiable,omitempty"`
}

// OptimizeResult is the outcome of OptimizeSession.
type OptimizeResult struct {
	OptimizedTemplate      models.Template `json:"optimizedTemplate"`
	EstimatedMinutesBefore int             `json:"estimatedMinutesBefore"`
	EstimatedMinutesAfter  int             `json:"estimatedMinutesAfter"`
	Removed                []RemovedSets   `json:"removed"`
	PreservedCore          []CoreExercise  `json:"preservedCore"`
}

// OptimizeSession trims tpl so its estimated duration fits timeLimitMinutes.
// Sets on non-negotiable exercises are never removed and every exercise keeps
// at least MinWorkSetsPerExercise work sets. A non-positive limit disables
// trimming.
func OptimizeSession(tpl models.Template, timeLimitMinutes float64, history []models.Workout, opts OptimizeOptions) OptimizeResult {
	opts = opts.withDefaults()

	out := tpl
	out.Exercises = models.CloneExercises(tpl.Exercises)
	for i := range out.Exercises {
		for j := range out.Exercises[i].Sets {
			s := out.Exercises[i].Sets[j].ClearRecordFlags()
			s.Completed = false
			out.Exercises[i].Sets[j] = s
		}
	}

	baseSec := historicalSecPerSet(history)
	setSec := make([][]float64, len(out.Exercises))
	var total float64
	for i, e := range out.Exercises {
		base, ok := baseSec[e.Key()]
		if !ok {
			base = opts.DefaultSecPerSet
		}
		setSec[i] = make([]float64, len(e.Sets))
		for j, s := range e.Sets {
			setSec[i][j] = estimateSetSeconds(s, base, opts.RestSec)
			total += setSec[i][j]
		}
	}

	res := OptimizeResult{
		EstimatedMinutesBefore: minutesOf(total),
		PreservedCore:          preservedCore(out.Exercises, opts.KeepTopPriorityCount),
	}

	if timeLimitMinutes <= 0 || float64(minutesOf(total)) <= timeLimitMinutes {
		res.OptimizedTemplate = out
		res.EstimatedMinutesAfter = minutesOf(total)
		return res
	}

	type candidate struct {
		ex, set  int
		priority int
		warmup   bool
	}
	var cands []candidate
	workLeft := make([]int, len(out.Exercises))
	for i, e := range out.Exercises {
		for j, s := range e.Sets {
			warm := models.ResolveSetType(s) == models.SetWarmup
			if !warm {
				workLeft[i]++
			}
			if e.NonNegotiable {
				continue
			}
			cands = append(cands, candidate{ex: i, set: j, priority: e.EffectivePriority(), warmup: warm})
		}
	}
	sort.SliceStable(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if ca.priority != cb.priority {
			return ca.priority > cb.priority
		}
		if ca.warmup != cb.warmup {
			return ca.warmup
		}
		if ca.set != cb.set {
			return ca.set > cb.set
		}
		return ca.ex > cb.ex
	})

	removed := make([][]bool, len(out.Exercises))
	for i, e := range out.Exercises {
		removed[i] = make([]bool, len(e.Sets))
	}
	for _, c := range cands {
		if float64(minutesOf(total)) <= timeLimitMinutes {
			break
		}
		if !c.warmup {
			if workLeft[c.ex] <= opts.MinWorkSetsPerExercise {
				continue
			}
			workLeft[c.ex]--
		}
		removed[c.ex][c.set] = true
		total -= setSec[c.ex][c.set]
	}

	var kept []models.WorkoutExercise
	for i, e := range out.Exercises {
		var sets []models.Set
		n := 0
		for j, s := range e.Sets {
			if removed[i][j] {
				n++
				continue
			}
			sets = append(sets, s)
		}
		if n > 0 {
			res.Removed = append(res.Removed, RemovedSets{
				ExerciseID: e.ExerciseID,
				Name:       e.Name,
				Sets:       n,
				Dropped:    len(sets) == 0,
			})
		}
		if len(sets) == 0 && len(e.Sets) > 0 {
			continue
		}
		e.Sets = sets
		kept = append(kept, e)
	}
	out.Exercises = kept

	res.OptimizedTemplate = out
	res.EstimatedMinutesAfter = max(minutesOf(total), 0)
	return res
}

// historicalSecPerSet derives a weighted average of seconds per work set for
// each exercise key from sessions with a recorded duration.
func historicalSecPerSet(history []models.Workout) map[string]float64 {
	sums := make(map[string]float64)
	weights := make(map[string]float64)
	for _, w := range history {
		if w.Duration <= 0 {
			continue
		}
		totalSets := w.TotalWorkSets()
		if totalSets == 0 {
			continue
		}
		secPerSet := float64(w.Duration*60) / float64(totalSets)
		for _, e := range w.Exercises {
			n := float64(e.WorkSetCount())
			if n == 0 {
				continue
			}
			sums[e.Key()] += secPerSet * n
			weights[e.Key()] += n
		}
	}

	out := make(map[string]float64, len(sums))
	for k, sum := range sums {
		out[k] = sum / weights[k]
	}
	return out
}

var setTypeWeight = map[models.SetType]float64{
	models.SetWarmup:  0.65,
	models.SetDrop:    1.2,
	models.SetFailure: 1.2,
	models.SetTempo:   1.35,
	models.SetPause:   1.35,
}

func estimateSetSeconds(s models.Set, baseSec, restSec float64) float64 {
	typ := models.ResolveSetType(s)
	weight, ok := setTypeWeight[typ]
	if !ok {
		weight = 1
	}
	rest := restSec
	if typ == models.SetWarmup {
		rest /= 2
	}
	return baseSec*weight + rest
}

func minutesOf(sec float64) int {
	return int(math.Floor(sec / 60))
}

// preservedCore lists the top-priority exercises plus every non-negotiable
// one, in template order.
func preservedCore(exercises []models.WorkoutExercise, keepTop int) []CoreExercise {
	order := make([]int, len(exercises))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return exercises[order[a]].EffectivePriority() < exercises[order[b]].EffectivePriority()
	})

	keep := make(map[int]bool)
	for _, i := range order[:min(keepTop, len(order))] {
		keep[i] = true
	}
	for i, e := range exercises {
		if e.NonNegotiable {
			keep[i] = true
		}
	}

	var core []CoreExercise
	for i, e := range exercises {
		if !keep[i] {
			continue
		}
		core = append(core, CoreExercise{
			ExerciseID:    e.ExerciseID,
			Name:          e.Name,
			Priority:      e.EffectivePriority(),
			NonNegotiable: e.NonNegotiable,
		})
	}
	return core
}
