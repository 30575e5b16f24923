// ABOUTME: Dictate command for speaking a note in the terminal.
// ABOUTME: Streams the live transcript and saves it when Enter is pressed.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/harper/quicknote/internal/config"
	"github.com/harper/quicknote/internal/dictation"
	"github.com/harper/quicknote/internal/draft"
	"github.com/harper/quicknote/internal/notes"
	"github.com/harper/quicknote/internal/ui"
	"github.com/spf13/cobra"
)

var dictateCmd = &cobra.Command{
	Use:   "dictate",
	Short: "Dictate a new note",
	Long: `Listen through the configured speech-to-text program and save what was said
as a new note. Press Enter to finish, Ctrl+C to discard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ended := make(chan struct{}, 1)
		d := draft.New(store, newProvider(),
			draft.WithLocale(cfg.Locale),
			draft.WithLogger(log),
			draft.WithOnChange(func(snap dictation.Snapshot) {
				fmt.Fprintf(os.Stderr, "\r\033[K%s", ui.Summary(lastLine(snap.Transcript), 100))
				if snap.Status.Terminal() {
					select {
					case ended <- struct{}{}:
					default:
					}
				}
			}),
		)

		if err := d.StartDictation(ctx); err != nil {
			if errors.Is(err, dictation.ErrUnsupported) {
				return fmt.Errorf("speech transcription is not available; set dictation_command in %s", config.ConfigPath())
			}
			return fmt.Errorf("failed to start dictation: %w", err)
		}
		fmt.Fprintln(os.Stderr, ui.Warning("Listening. Press Enter to save, Ctrl+C to discard."))

		enter := make(chan struct{})
		go func() {
			_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
			close(enter)
		}()

		select {
		case <-enter:
		case <-ended:
		case <-ctx.Done():
		}
		fmt.Fprintln(os.Stderr)

		if ctx.Err() != nil {
			d.Dismiss()
			fmt.Println("Cancelled.")
			return nil
		}
		if err := d.Err(); err != nil {
			fmt.Fprintln(os.Stderr, ui.Warning(err.Error()))
		}

		note, err := d.Save()
		if errors.Is(err, notes.ErrEmptyContent) {
			fmt.Println("Nothing was transcribed.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Created note %s", note.ShortID())))
		return nil
	},
}

func lastLine(s string) string {
	return s[strings.LastIndex(s, "\n")+1:]
}

func init() {
	rootCmd.AddCommand(dictateCmd)
}
