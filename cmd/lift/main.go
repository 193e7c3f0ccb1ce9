// ABOUTME: Entry point for lift CLI.
// ABOUTME: Invokes the root Cobra command.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// PersistentPostRunE does not run when a command fails.
		_ = closeService()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
