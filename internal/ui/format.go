// ABOUTME: Terminal formatting for quicknote output.
// ABOUTME: Uses glamour for note bodies, fatih/color for styling and humanize for relative times.

package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/harper/quicknote/internal/models"
)

const summaryWidth = 60

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
)

// TimeAgo renders t relative to now, e.g. "3 minutes ago".
func TimeAgo(t time.Time) string {
	return humanize.Time(t)
}

// Summary returns the first non-blank line of content, cut to width runes.
func Summary(content string, width int) string {
	line := ""
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) != "" {
			line = strings.TrimSpace(l)
			break
		}
	}
	if width > 1 && utf8.RuneCountInString(line) > width {
		runes := []rune(line)
		line = string(runes[:width-1]) + "…"
	}
	return line
}

func FormatNoteListItem(note *models.Note) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("  %s  %s\n", faint(note.ShortID()), bold(Summary(note.Content, summaryWidth))))
	sb.WriteString(fmt.Sprintf("          %s\n", faint(TimeAgo(note.CreatedAt))))

	return sb.String()
}

func FormatNoteContent(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to raw content if renderer fails
		return content, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(content)
	if err != nil {
		return content, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

func FormatNoteHeader(note *models.Note) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), cyan(note.ID.String())))
	sb.WriteString(fmt.Sprintf("%s %s %s\n",
		faint("Created:"),
		faint(note.CreatedAt.Local().Format("2006-01-02 15:04")),
		faint("("+TimeAgo(note.CreatedAt)+")")))

	sb.WriteString(Separator())
	return sb.String()
}

// FormatMoreHint tells the user how many notes a limited listing left out.
func FormatMoreHint(count int) string {
	return faint(fmt.Sprintf("\n%d more %s not shown (use --limit 0 for all)\n", count, plural(count, "note", "notes")))
}

func FormatEmpty(query string) string {
	if query != "" {
		return faint(fmt.Sprintf("No notes match %q.", query))
	}
	return faint("No notes yet. Add one with 'quicknote add'.")
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Warning(msg string) string {
	return color.New(color.FgYellow).Sprint("! ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
