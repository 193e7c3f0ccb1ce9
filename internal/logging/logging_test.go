// ABOUTME: Tests for logger construction and the Badger adapter.
// ABOUTME: Checks level parsing and that output honors the level.
package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{" INFO ", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.WarnLevel},
		{"verbose", log.WarnLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown", "exercise", "squat")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line written at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "exercise=squat") {
		t.Errorf("warn line missing or malformed: %q", out)
	}
}

func TestBadgerAdapter(t *testing.T) {
	var buf bytes.Buffer
	b := Badger(New(&buf, "info"))

	b.Infof("compaction %d\n", 1)
	b.Warningf("disk %s\n", "slow")

	out := buf.String()
	if strings.Contains(out, "compaction") {
		t.Error("badger info should be demoted to debug")
	}
	if !strings.Contains(out, "disk slow") || !strings.Contains(out, "badger") {
		t.Errorf("badger warning missing: %q", out)
	}
}
