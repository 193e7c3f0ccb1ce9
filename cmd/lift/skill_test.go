// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, file content, and permissions.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSkillEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	contentStr := string(content)
	expected := []string{
		"name: lift",
		"description:",
		"## When to use lift",
		"## Set types",
	}
	for _, tool := range mcpToolNames {
		expected = append(expected, "mcp__lift__"+tool)
	}
	for _, marker := range expected {
		if !strings.Contains(contentStr, marker) {
			t.Errorf("Expected SKILL.md to contain %q", marker)
		}
	}
}

func TestInstallSkillWritesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	skillSkipConfirm = true
	defer func() { skillSkipConfirm = false }()

	if err := installSkill(&bytes.Buffer{}, strings.NewReader("")); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	path, _ := skillPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
	dirInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("Skill directory not created: %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0750 {
		t.Errorf("directory permissions = %o, want 0750", perm)
	}
}

func TestInstallSkillOverwrites(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path, _ := skillPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("stale content"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := installSkill(&bytes.Buffer{}, strings.NewReader("yes\n")); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "stale content") {
		t.Error("Expected skill file to be overwritten")
	}
	if !strings.Contains(string(data), "name: lift") {
		t.Error("Expected new skill content")
	}
}

func TestInstallSkillDeclined(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	if err := installSkill(&out, strings.NewReader("n\n")); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}
	if !strings.Contains(out.String(), "canceled") {
		t.Errorf("expected cancel message, got %q", out.String())
	}
	path, _ := skillPath()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("declined install should not write the skill")
	}
}

func TestSkillSkipConfirmFlag(t *testing.T) {
	flag := installSkillCmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("install-skill should have --yes flag")
	}
	if flag.Shorthand != "y" {
		t.Errorf("--yes shorthand = %q, want y", flag.Shorthand)
	}
}
