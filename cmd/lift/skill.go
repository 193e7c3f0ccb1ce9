// ABOUTME: Install Claude Code skill for lift
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the lift skill for Claude Code.

The skill is written to ~/.claude/skills/lift/SKILL.md and teaches Claude
Code when to log workouts and which analytics to reach for.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return installSkill(cmd.OutOrStdout(), os.Stdin)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

func skillPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "skills", "lift", "SKILL.md"), nil
}

func installSkill(out io.Writer, in io.Reader) error {
	path, err := skillPath()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Installing the lift skill to %s\n", path)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintln(out, "An existing skill file will be replaced.")
	}

	if !skillSkipConfirm {
		ok, err := confirm(out, in, "Continue? [y/N] ", "y", "yes")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Installation canceled.")
			return nil
		}
	}

	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	color.New(color.FgGreen).Fprintln(out, "✓ lift skill installed")
	fmt.Fprintln(out, `Try asking Claude: "log bench 100x5x3" or "am I ready to train hard today?"`)
	return nil
}
