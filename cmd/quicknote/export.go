// ABOUTME: Export command for backing up notes.
// ABOUTME: Writes the saved-notes JSON array or one markdown file per note.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/quicknote/internal/models"
	"github.com/harper/quicknote/internal/notes"
	"github.com/harper/quicknote/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// frontmatter is the YAML header of an exported markdown note.
type frontmatter struct {
	ID      string    `yaml:"id"`
	Created time.Time `yaml:"created"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes",
	Long: `Export notes as JSON or markdown.

The JSON format is the same array quicknote saves, so it can be imported
again or copied between backends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		notePrefix, _ := cmd.Flags().GetString("note")

		selected := store.Notes()
		if notePrefix != "" {
			note, err := store.FindByPrefix(notePrefix)
			if err != nil {
				return fmt.Errorf("failed to get note: %w", err)
			}
			selected = []*models.Note{note}
		}

		switch format {
		case "json":
			return exportJSON(selected, outputPath)
		case "md":
			return exportMarkdown(selected, outputPath)
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	},
}

func exportJSON(list []*models.Note, outputPath string) error {
	raw, err := notes.Encode(list)
	if err != nil {
		return err
	}
	var data bytes.Buffer
	if err := json.Indent(&data, raw, "", "  "); err != nil {
		return err
	}
	data.WriteByte('\n')

	if outputPath == "" || outputPath == "-" {
		fmt.Print(data.String())
		return nil
	}

	if err := os.WriteFile(outputPath, data.Bytes(), 0600); err != nil {
		return err
	}
	fmt.Println(ui.Success(fmt.Sprintf("Exported %d notes to %s", len(list), outputPath)))
	return nil
}

func exportMarkdown(list []*models.Note, outputDir string) error {
	if outputDir == "" {
		outputDir = "export"
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return err
	}

	for _, n := range list {
		data, err := markdownFor(n)
		if err != nil {
			return err
		}
		filePath := filepath.Join(outputDir, markdownFilename(n))
		if err := os.WriteFile(filePath, data, 0600); err != nil {
			return err
		}
	}

	fmt.Println(ui.Success(fmt.Sprintf("Exported %d notes to %s", len(list), outputDir)))
	return nil
}

func markdownFor(n *models.Note) ([]byte, error) {
	header, err := yaml.Marshal(frontmatter{ID: n.ID.String(), Created: n.CreatedAt.UTC()})
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(header)
	sb.WriteString("---\n\n")
	sb.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func markdownFilename(n *models.Note) string {
	return n.CreatedAt.UTC().Format("2006-01-02-150405") + "-" + n.ShortID() + ".md"
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format (json|md)")
	exportCmd.Flags().StringP("output", "o", "", "output path (file for json, directory for md)")
	exportCmd.Flags().String("note", "", "single note ID to export")
	rootCmd.AddCommand(exportCmd)
}
