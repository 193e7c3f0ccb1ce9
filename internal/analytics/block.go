// ABOUTME: Adherence of logged sessions to a template's periodized block.
// ABOUTME: Includes deload compliance for weeks planned as deloads.
package analytics

import (
	"strings"
	"time"

	"github.com/harperreed/lift/internal/models"
)

// BlockStatus grades adherence to the block plan.
type BlockStatus string

const (
	BlockAhead   BlockStatus = "ahead"
	BlockOnTrack BlockStatus = "on-track"
	BlockBehind  BlockStatus = "behind"
)

// BlockOptions configures CalculateBlockProgress.
type BlockOptions struct {
	// RelaxTemplateMatch also counts workouts whose blockRef id or name
	// matches the block, not only those logged from the template.
	RelaxTemplateMatch bool
	Now                time.Time
}

// BlockProgress is the result of CalculateBlockProgress.
type BlockProgress struct {
	IsInBlock         bool        `json:"isInBlock"`
	CurrentWeek       int         `json:"currentWeek"`
	WeeksCompleted    int         `json:"weeksCompleted"`
	PlannedWeeks      int         `json:"plannedWeeks"`
	CompletedSessions int         `json:"completedSessions"`
	ExpectedSessions  int         `json:"expectedSessions"`
	Adherence         float64     `json:"adherence"`
	DeloadCompliance  *float64    `json:"deloadCompliance"`
	Status            BlockStatus `json:"status"`
}

// CalculateBlockProgress measures how closely the sessions logged against
// tpl follow its block's weekly plan.
func CalculateBlockProgress(tpl models.Template, workouts []models.Workout, opts BlockOptions) BlockProgress {
	if tpl.Block == nil {
		return BlockProgress{Status: BlockOnTrack}
	}
	block := *tpl.Block
	now := orNow(opts.Now)

	var start time.Time
	if !block.StartDate.IsZero() {
		start = startOfDay(block.StartDate)
	}

	elapsed := block.CurrentWeek
	if !start.IsZero() {
		elapsed = 0
		if d := daysBetween(start, now); d >= 0 {
			elapsed = d/7 + 1
		}
	}
	elapsed = max(elapsed, 0)

	planned := block.PlannedWeeks()
	scope := elapsed
	if planned > 0 {
		scope = min(elapsed, planned)
	}

	var matched []models.Workout
	for _, w := range workouts {
		if matchesBlock(tpl, w, opts.RelaxTemplateMatch) {
			matched = append(matched, w)
		}
	}

	weeks := make(map[string]bool)
	completed := 0
	for _, w := range matched {
		if !start.IsZero() && w.When().Before(start) {
			continue
		}
		completed++
		weeks[WeekKey(w.When().In(now.Location()))] = true
	}

	expected := scope
	if len(block.WeekPlan) > 0 {
		expected = 0
		for i, wk := range block.WeekPlan {
			if block.WeekIndex(i) <= scope {
				expected += wk.Sessions()
			}
		}
	}

	res := BlockProgress{
		IsInBlock:         elapsed >= 1 && (planned == 0 || elapsed <= planned),
		CurrentWeek:       elapsed,
		WeeksCompleted:    len(weeks),
		PlannedWeeks:      planned,
		CompletedSessions: completed,
		ExpectedSessions:  expected,
		Status:            BlockOnTrack,
	}
	if expected > 0 {
		res.Adherence = round2(float64(completed) / float64(expected))
		switch {
		case res.Adherence > 1.05:
			res.Status = BlockAhead
		case res.Adherence < 0.8:
			res.Status = BlockBehind
		}
	}
	res.DeloadCompliance = deloadCompliance(block, start, matched)
	return res
}

func matchesBlock(tpl models.Template, w models.Workout, relaxed bool) bool {
	if tpl.ID != "" && w.TemplateID == tpl.ID {
		return true
	}
	if !relaxed || w.BlockRef == nil {
		return false
	}
	ref := w.BlockRef
	if ref.BlockID != "" && ref.BlockID == tpl.Block.ID {
		return true
	}
	name := strings.TrimSpace(ref.Name)
	return name != "" && (strings.EqualFold(name, tpl.Block.Name) || strings.EqualFold(name, tpl.Name))
}

// deloadCompliance is the fraction of deload weeks whose session count stayed
// at or under target. It is nil without a start date or deload weeks.
func deloadCompliance(block models.Block, start time.Time, matched []models.Workout) *float64 {
	if start.IsZero() {
		return nil
	}

	deloads, compliant := 0, 0
	for i, wk := range block.WeekPlan {
		if !wk.Deload {
			continue
		}
		deloads++
		from := start.AddDate(0, 0, (block.WeekIndex(i)-1)*7)
		to := from.AddDate(0, 0, 7)
		n := 0
		for _, w := range matched {
			at := w.When()
			if !at.Before(from) && at.Before(to) {
				n++
			}
		}
		if n <= wk.Sessions() {
			compliant++
		}
	}
	if deloads == 0 {
		return nil
	}
	frac := float64(compliant) / float64(deloads)
	return &frac
}
