// ABOUTME: UI command launching the interactive note browser.
// ABOUTME: Search, delete and compose notes with dictation in the terminal.

package main

import (
	"github.com/harper/quicknote/internal/tui"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Browse and write notes interactively",
	Long: `Open the interactive note browser.

Keys: n new note, / search, d delete, q quit.
In the new-note dialog: ctrl+r starts or stops dictation, ctrl+s saves, esc discards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), store, newProvider(), cfg.Locale, log)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
