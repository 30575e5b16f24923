// ABOUTME: Root command wiring configuration, logging and the note store.
// ABOUTME: Every subcommand shares the store opened here.

package main

import (
	"fmt"
	"os"

	"github.com/harper/quicknote/internal/config"
	"github.com/harper/quicknote/internal/dictation"
	"github.com/harper/quicknote/internal/logger"
	"github.com/harper/quicknote/internal/notes"
	"github.com/harper/quicknote/internal/storage"
	"github.com/harper/quicknote/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// skipStore marks commands that run without opening the note store.
const skipStore = "skip-store"

var (
	cfg   *config.Config
	log   = zerolog.Nop()
	store *notes.Store
)

var rootCmd = &cobra.Command{
	Use:   "quicknote",
	Short: "Quick notes from the terminal, typed or dictated",
	Long: `quicknote keeps short notes, newest first, in a local store.

Notes can be typed, piped from a file, written in $EDITOR or dictated
through a speech-to-text program.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err = logger.New(cfg.LogLevel)
		if err != nil {
			return err
		}

		if cmd.Annotations[skipStore] == "true" {
			return nil
		}
		return openStore(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store == nil {
			return nil
		}
		err := store.Close()
		store = nil
		return err
	},
}

func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("locale") {
		cfg.Locale, _ = flags.GetString("locale")
	}
}

func openStore(cmd *cobra.Command) error {
	dataDir := cfg.ResolvedDataDir()
	adapter, err := storage.Open(cfg.Backend, dataDir)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Backend, err)
	}
	log.Debug().Str("backend", cfg.Backend).Str("dir", dataDir).Msg("opened storage")

	opts := []notes.Option{notes.WithLogger(log)}
	// The terminal UI owns the screen and reports problems itself.
	if cmd.Name() != "ui" {
		opts = append(opts, notes.WithNotifier(func(err error) {
			fmt.Fprintln(os.Stderr, ui.Warning(err.Error()))
		}))
	}
	store = notes.Open(adapter, opts...)
	return nil
}

func newProvider() dictation.Provider {
	return dictation.NewCommandProvider(cfg.DictationCommand, log)
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	rootCmd.PersistentFlags().String("backend", "", "storage backend (file|badger|sqlite|memory)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory holding saved notes")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("locale", "", "dictation language, e.g. pt-BR")
}
