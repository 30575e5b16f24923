// ABOUTME: Entry point for the interactive note browser.
// ABOUTME: Runs the Bubble Tea program in the alternate screen.

package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/quicknote/internal/dictation"
	"github.com/harper/quicknote/internal/notes"
	"github.com/rs/zerolog"
)

// Run shows the browser until the user quits or ctx is done. Any draft still
// open on exit is dismissed so dictation never outlives the program.
func Run(ctx context.Context, store *notes.Store, provider dictation.Provider, locale string, log zerolog.Logger) error {
	m := newModel(ctx, store, provider, locale, log)

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if fm, ok := final.(model); ok {
		fm.closeDialog()
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
