// ABOUTME: List command for displaying notes.
// ABOUTME: Shows notes newest first, optionally filtered by a search query.

package main

import (
	"fmt"

	"github.com/harper/quicknote/internal/ui"
	"github.com/spf13/cobra"
)

const defaultListLimit = 20

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes",
	Long:    `List notes newest first. --search keeps only notes containing the query, ignoring case.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		searchFlag, _ := cmd.Flags().GetString("search")
		limitFlag, _ := cmd.Flags().GetInt("limit")

		found := store.Search(searchFlag)
		if len(found) == 0 {
			fmt.Println(ui.FormatEmpty(searchFlag))
			return nil
		}

		shown := found
		if limitFlag > 0 && len(found) > limitFlag {
			shown = found[:limitFlag]
		}
		for _, note := range shown {
			fmt.Print(ui.FormatNoteListItem(note))
		}
		if remaining := len(found) - len(shown); remaining > 0 {
			fmt.Print(ui.FormatMoreHint(remaining))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "search query")
	listCmd.Flags().IntP("limit", "n", defaultListLimit, "number of results (0 for all)")
	rootCmd.AddCommand(listCmd)
}
