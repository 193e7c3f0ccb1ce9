// ABOUTME: Antagonist muscle balance scoring (push/pull, chest/back, quads/hamstrings).
// ABOUTME: Classification is a static keyword rule table over muscles, name and category.
package analytics

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/harperreed/lift/internal/models"
)

// BalanceStatus grades how far apart the two sides of a pair are.
type BalanceStatus string

const (
	BalanceBalanced   BalanceStatus = "balanced"
	BalanceSlight     BalanceStatus = "slight"
	BalanceImbalanced BalanceStatus = "imbalanced"
)

// BlockMode says how the block scope was chosen.
type BlockMode string

const (
	BlockModeRef     BlockMode = "blockRef"
	BlockModeRolling BlockMode = "rolling"
)

type pairKind int

const (
	pairPushPull pairKind = iota
	pairChestBack
	pairQuadHam
	pairCount
)

var pairSides = [pairCount][2]string{
	pairPushPull:  {"push", "pull"},
	pairChestBack: {"chest", "back"},
	pairQuadHam:   {"quads", "hamstrings"},
}

// balanceRule assigns a side of a pair when any keyword matches and no
// exclusion does. Keywords are whole words or word sequences; a trailing
// "s" or "es" on the text word is ignored.
type balanceRule struct {
	pair     pairKind
	side     int
	keywords []string
	exclude  []string
}

// Hip hinges (deadlift, rdl, romanian) cue both quads and hamstrings.
var balanceRules = []balanceRule{
	{pairPushPull, 0, []string{"chest", "pec", "pectoral", "tricep", "front delt", "shoulder", "bench", "press", "push", "dip", "fly", "flies"}, []string{"leg press"}},
	{pairPushPull, 1, []string{"back", "lat", "latissimus", "row", "pull", "pulldown", "chin", "bicep", "rear delt", "rhomboid", "trap", "trapezius"}, []string{"squat", "extension"}},
	{pairChestBack, 0, []string{"chest", "pec", "pectoral", "bench", "fly", "flies", "push up", "pushup", "dip"}, nil},
	{pairChestBack, 1, []string{"back", "lat", "latissimus", "pulldown", "row", "pull up", "pullup", "chin", "rhomboid", "trap", "trapezius"}, []string{"squat", "extension"}},
	{pairQuadHam, 0, []string{"quad", "quadricep", "squat", "leg press", "lunge", "leg extension", "step up", "hack", "deadlift", "rdl", "romanian"}, nil},
	{pairQuadHam, 1, []string{"hamstring", "rdl", "romanian", "leg curl", "good morning", "nordic", "stiff leg", "deadlift"}, nil},
}

// BalanceOptions configures CalculateMuscleBalance.
type BalanceOptions struct {
	WeekDays          int // default 7
	FallbackBlockDays int // default 42
	Now               time.Time
}

// PairBalance is the finalized comparison of two antagonist sides.
type PairBalance struct {
	SideA      string  `json:"sideA"`
	SideB      string  `json:"sideB"`
	SideAValue float64 `json:"sideAValue"`
	SideBValue float64 `json:"sideBValue"`
	// Ratio is SideAValue/SideBValue, or 0 when side B is empty.
	Ratio  float64       `json:"ratio"`
	Status BalanceStatus `json:"status"`
}

// ScopeBalance summarizes one time scope.
type ScopeBalance struct {
	PushPull  PairBalance `json:"pushPull"`
	ChestBack PairBalance `json:"chestBack"`
	QuadHam   PairBalance `json:"quadHam"`
	Score     int         `json:"score"`
	Workouts  int         `json:"workouts"`
}

// MuscleBalance is the result of CalculateMuscleBalance.
type MuscleBalance struct {
	Week      ScopeBalance `json:"week"`
	Block     ScopeBalance `json:"block"`
	BlockMode BlockMode    `json:"blockMode"`
	BlockID   string       `json:"blockId,omitempty"`
}

// CalculateMuscleBalance scores antagonist balance for the trailing week and
// for the current block (the most recent blockRef, else a rolling window).
func CalculateMuscleBalance(workouts []models.Workout, exercises map[string]models.Exercise, opts BalanceOptions) MuscleBalance {
	if opts.WeekDays <= 0 {
		opts.WeekDays = 7
	}
	if opts.FallbackBlockDays <= 0 {
		opts.FallbackBlockDays = 42
	}
	now := orNow(opts.Now)

	var week []models.Workout
	for _, w := range workouts {
		if inWindow(w.When(), now, time.Duration(opts.WeekDays)*day) {
			week = append(week, w)
		}
	}

	res := MuscleBalance{Week: scopeBalance(week, exercises)}

	var latest *models.Workout
	for i := range workouts {
		w := &workouts[i]
		if w.BlockRef == nil || w.BlockRef.BlockID == "" {
			continue
		}
		if latest == nil || w.When().After(latest.When()) {
			latest = w
		}
	}

	var block []models.Workout
	if latest != nil {
		res.BlockMode = BlockModeRef
		res.BlockID = latest.BlockRef.BlockID
		for _, w := range workouts {
			if w.BlockRef != nil && w.BlockRef.BlockID == res.BlockID {
				block = append(block, w)
			}
		}
	} else {
		res.BlockMode = BlockModeRolling
		for _, w := range workouts {
			if inWindow(w.When(), now, time.Duration(opts.FallbackBlockDays)*day) {
				block = append(block, w)
			}
		}
	}
	res.Block = scopeBalance(block, exercises)
	return res
}

func scopeBalance(workouts []models.Workout, exercises map[string]models.Exercise) ScopeBalance {
	var totals [pairCount][2]float64
	for _, w := range workouts {
		for _, e := range w.Exercises {
			n := float64(e.WorkSetCount())
			if n == 0 {
				continue
			}
			shares := classifyBalance(balanceText(e, exercises))
			for p := range shares {
				totals[p][0] += shares[p][0] * n
				totals[p][1] += shares[p][1] * n
			}
		}
	}

	var pairs [pairCount]PairBalance
	var scoreSum float64
	for p := pairKind(0); p < pairCount; p++ {
		pairs[p] = finalizePair(pairSides[p], totals[p][0], totals[p][1])
		scoreSum += pairScore(totals[p][0], totals[p][1])
	}

	return ScopeBalance{
		PushPull:  pairs[pairPushPull],
		ChestBack: pairs[pairChestBack],
		QuadHam:   pairs[pairQuadHam],
		Score:     int(math.Round(scoreSum / float64(pairCount) * 100)),
		Workouts:  len(workouts),
	}
}

// balanceText is the text the rule table matches against:
// known muscles when there are any, otherwise the name and category.
func balanceText(e models.WorkoutExercise, exercises map[string]models.Exercise) string {
	parts := []string{}
	if ex, ok := exercises[e.ExerciseID]; ok {
		parts = append(parts, ex.Muscles...)
		if len(ex.Muscles) == 0 {
			parts = append(parts, ex.Name, ex.Category)
		}
	} else if len(e.TargetMuscles) > 0 {
		parts = append(parts, e.TargetMuscles...)
	}
	if len(parts) == 0 {
		parts = append(parts, e.Name, e.Category)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// classifyBalance returns, per pair, the share of a set credited to each
// side. An exercise that cues both sides of a pair splits 0.5/0.5.
func classifyBalance(text string) [pairCount][2]float64 {
	words := splitWords(text)
	var hit [pairCount][2]bool
	for _, r := range balanceRules {
		if matchesAny(words, r.keywords) && !matchesAny(words, r.exclude) {
			hit[r.pair][r.side] = true
		}
	}

	var shares [pairCount][2]float64
	for p := range hit {
		switch {
		case hit[p][0] && hit[p][1]:
			shares[p] = [2]float64{0.5, 0.5}
		case hit[p][0]:
			shares[p] = [2]float64{1, 0}
		case hit[p][1]:
			shares[p] = [2]float64{0, 1}
		}
	}
	return shares
}

func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// matchesAny reports whether any phrase appears in words as a run of whole
// words.
func matchesAny(words []string, phrases []string) bool {
	for _, p := range phrases {
		if hasPhrase(words, splitWords(p)) {
			return true
		}
	}
	return false
}

func hasPhrase(words, phrase []string) bool {
	if len(phrase) == 0 {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		ok := true
		for j, p := range phrase {
			if !sameWord(words[i+j], p) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func sameWord(word, keyword string) bool {
	return word == keyword || word == keyword+"s" || word == keyword+"es"
}

func finalizePair(sides [2]string, a, b float64) PairBalance {
	pb := PairBalance{
		SideA:      sides[0],
		SideB:      sides[1],
		SideAValue: round2(a),
		SideBValue: round2(b),
		Status:     BalanceBalanced,
	}
	if b > 0 {
		pb.Ratio = round2(a / b)
	}
	if a+b > 0 {
		diffShare := math.Abs(a-b) / (a + b)
		switch {
		case diffShare > 0.3:
			pb.Status = BalanceImbalanced
		case diffShare > 0.15:
			pb.Status = BalanceSlight
		}
	}
	return pb
}

func pairScore(a, b float64) float64 {
	switch {
	case a == 0 && b == 0:
		return 1
	case a == 0 || b == 0:
		return 0.2
	default:
		return math.Min(a, b) / math.Max(a, b)
	}
}
