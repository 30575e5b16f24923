// ABOUTME: Delete confirmation overlay for the note browser.
// ABOUTME: Shows the note summary with yes and no hints.

package tui

type confirmModel struct {
	message string
}

func (m confirmModel) View() string {
	content := "Delete \"" + m.message + "\"?\n\n"
	content += helpStyle.Render("y yes    n no")
	return overlayBoxStyle.Render(content)
}
