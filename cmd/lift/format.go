// ABOUTME: Shared parsing and formatting helpers for CLI commands.
// ABOUTME: Time parsing, set notation, padding and short ids.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/models"
)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

var setTypeSuffixes = map[byte]models.SetType{
	'w': models.SetWarmup,
	'd': models.SetDrop,
	'f': models.SetFailure,
	't': models.SetTempo,
	'p': models.SetPause,
}

// parseSets parses comma-separated set notation: KGxREPS[xCOUNT][TYPE].
// Bodyweight sets may omit the weight ("x12" or "0x12").
func parseSets(spec string) ([]models.Set, error) {
	var sets []models.Set
	for _, part := range strings.Split(spec, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}

		typ := models.SetWork
		if t, ok := setTypeSuffixes[part[len(part)-1]]; ok {
			typ = t
			part = part[:len(part)-1]
		}

		fields := strings.Split(part, "x")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("invalid set %q (use KGxREPS or KGxREPSxCOUNT)", part)
		}

		kg := 0.0
		if fields[0] != "" {
			v, err := strconv.ParseFloat(fields[0], 64)
			if err != nil || v < 0 {
				return nil, fmt.Errorf("invalid weight in set %q", part)
			}
			kg = v
		}
		reps, err := strconv.Atoi(fields[1])
		if err != nil || reps < 0 {
			return nil, fmt.Errorf("invalid reps in set %q", part)
		}
		count := 1
		if len(fields) == 3 {
			count, err = strconv.Atoi(fields[2])
			if err != nil || count < 1 {
				return nil, fmt.Errorf("invalid set count in %q", part)
			}
		}

		for range count {
			sets = append(sets, models.Set{Kg: kg, Reps: reps, Completed: true, SetType: typ})
		}
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("no sets in %q", spec)
	}
	return sets, nil
}

// parseExerciseSpec splits "name:sets" into the exercise name and its sets.
func parseExerciseSpec(spec string) (string, []models.Set, error) {
	i := strings.LastIndex(spec, ":")
	if i <= 0 {
		return "", nil, fmt.Errorf("invalid exercise %q (use \"name:KGxREPS,...\")", spec)
	}
	name := strings.TrimSpace(spec[:i])
	sets, err := parseSets(spec[i+1:])
	if err != nil {
		return "", nil, err
	}
	return name, sets, nil
}

func formatSet(s models.Set) string {
	out := fmt.Sprintf("%gx%d", s.Kg, s.Reps)
	if t := models.ResolveSetType(s); t != models.SetWork {
		out += " " + string(t)
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// confirm prints prompt and reports whether the answer read from in matches
// one of accept, ignoring case.
func confirm(out io.Writer, in io.Reader, prompt string, accept ...string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	for _, a := range accept {
		if answer == a {
			return true, nil
		}
	}
	return false, nil
}
