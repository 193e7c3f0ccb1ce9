// ABOUTME: Calendar and rounding helpers shared by the analytics engines.
// ABOUTME: Week keys are Monday-aligned dates.
package analytics

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from from's date to to's date, each read in
// its own location, so DST shifts do not shorten a day.
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / day)
}

// weekStart returns the Monday that begins t's ISO week.
func weekStart(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeekKey formats the Monday of t's week as YYYY-MM-DD.
func WeekKey(t time.Time) string {
	return weekStart(t).Format("2006-01-02")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

// inWindow reports whether t falls in (now-span, now].
func inWindow(t, now time.Time, span time.Duration) bool {
	return !t.After(now) && t.After(now.Add(-span))
}
