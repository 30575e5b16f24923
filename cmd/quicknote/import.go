// ABOUTME: Import command for restoring notes from backup.
// ABOUTME: Reads a saved-notes JSON array, a markdown file, or a directory of markdown files.

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/quicknote/internal/models"
	"github.com/harper/quicknote/internal/notes"
	"github.com/harper/quicknote/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import notes",
	Long: `Import notes from a JSON file or from markdown files.

Notes keep their IDs and creation times. Notes whose ID already exists
are skipped, so importing the same backup twice is harmless.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}

		var incoming []*models.Note
		switch {
		case info.IsDir():
			incoming, err = readMarkdownDir(path)
		case strings.HasSuffix(path, ".json"):
			incoming, err = readJSON(path)
		default:
			var note *models.Note
			note, err = readMarkdownFile(path)
			incoming = []*models.Note{note}
		}
		if err != nil {
			return err
		}

		added := store.Import(incoming)
		fmt.Println(ui.Success(fmt.Sprintf("Imported %d notes", added)))
		if skipped := len(incoming) - added; skipped > 0 {
			fmt.Printf("Skipped %d notes that were empty or already present.\n", skipped)
		}
		return nil
	},
}

func readJSON(path string) ([]*models.Note, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return nil, err
	}
	return notes.Decode(data)
}

func readMarkdownDir(dir string) ([]*models.Note, error) {
	var out []*models.Note

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		note, err := readMarkdownFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("failed to import %s: %v", path, err)))
			return nil
		}
		out = append(out, note)
		return nil
	})
	return out, err
}

func readMarkdownFile(path string) (*models.Note, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return nil, err
	}

	var modTime time.Time
	if info, err := os.Stat(path); err == nil {
		modTime = info.ModTime()
	}
	return parseMarkdown(string(data), modTime)
}

// parseMarkdown reads an optional frontmatter header. Without one the note
// gets a fresh ID and the fallback creation time.
func parseMarkdown(content string, fallback time.Time) (*models.Note, error) {
	var fm frontmatter

	if strings.HasPrefix(content, "---\n") {
		parts := strings.SplitN(content, "---\n", 3)
		if len(parts) >= 3 {
			if err := yaml.Unmarshal([]byte(parts[1]), &fm); err == nil {
				content = parts[2]
			}
		}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("note content cannot be empty")
	}

	note := models.NewNote(content)
	if id, err := uuid.Parse(fm.ID); err == nil {
		note.ID = id
	}
	switch {
	case !fm.Created.IsZero():
		note.CreatedAt = fm.Created
	case !fallback.IsZero():
		note.CreatedAt = fallback
	}
	return note, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
