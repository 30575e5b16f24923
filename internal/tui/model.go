// ABOUTME: Interactive note browser model: search box, note cards and dialogs.
// ABOUTME: Filters the list live, deletes with confirmation and opens the new-note dialog.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/quicknote/internal/dictation"
	"github.com/harper/quicknote/internal/draft"
	"github.com/harper/quicknote/internal/models"
	"github.com/harper/quicknote/internal/notes"
	"github.com/harper/quicknote/internal/ui"
	"github.com/rs/zerolog"
)

const (
	cardSummaryWidth = 72
	defaultWidth     = 80
)

type model struct {
	ctx      context.Context
	store    *notes.Store
	provider dictation.Provider
	locale   string
	log      zerolog.Logger

	search textinput.Model
	items  []*models.Note
	idx    int
	status string
	err    string
	width  int

	showConfirm   bool
	confirm       confirmModel
	pendingDelete *models.Note

	showDialog bool
	dialog     dialogModel
	gen        int
	feed       *dictationFeed
}

func newModel(ctx context.Context, store *notes.Store, provider dictation.Provider, locale string, log zerolog.Logger) model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search notes"

	m := model{
		ctx:      ctx,
		store:    store,
		provider: provider,
		locale:   locale,
		log:      log,
		search:   search,
		width:    defaultWidth,
		feed:     newDictationFeed(),
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return m.feed.wait()
}

// refresh re-runs the search so the list mirrors the store.
func (m *model) refresh() {
	m.items = m.store.Search(m.search.Value())
	if m.idx >= len(m.items) {
		m.idx = len(m.items) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m model) current() (*models.Note, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return nil, false
	}
	return m.items[m.idx], true
}

// setStatus shows msg, or the pending persistence problem if there is one.
func (m *model) setStatus(msg string) tea.Cmd {
	m.status = msg
	m.err = ""
	if err := m.store.Err(); err != nil {
		m.err = "Not saved to disk yet: " + err.Error()
	}
	return cmdClearStatus()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.showDialog {
			m.dialog.editor.SetWidth(max(msg.Width-12, 20))
		}
		return m, nil
	case dictationMsg:
		if m.showDialog && msg.gen == m.dialog.gen {
			m.dialog.apply(msg.snap)
		}
		return m, m.feed.wait()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, keys.forceQ) {
			m.closeDialog()
			return m, tea.Quit
		}
		if m.showConfirm {
			return m.updateConfirm(msg)
		}
		if m.showDialog {
			return m.updateDialog(msg)
		}
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.search):
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, keys.esc):
		m.search.SetValue("")
		m.refresh()
	case key.Matches(msg, keys.newNote):
		m.openDialog()
	case key.Matches(msg, keys.delete):
		if note, ok := m.current(); ok {
			m.pendingDelete = note
			m.confirm = confirmModel{message: ui.Summary(note.Content, 40)}
			m.showConfirm = true
		}
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.idx = 0
	m.refresh()
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.showConfirm = false
		note := m.pendingDelete
		m.pendingDelete = nil
		if note == nil {
			return m, nil
		}
		m.store.Delete(note.ID)
		m.refresh()
		cmd := m.setStatus("Note deleted")
		return m, cmd
	case key.Matches(msg, keys.no), key.Matches(msg, keys.esc):
		m.showConfirm = false
		m.pendingDelete = nil
	}
	return m, nil
}

func (m *model) openDialog() {
	m.gen++
	gen := m.gen
	feed := m.feed
	d := draft.New(m.store, m.provider,
		draft.WithLocale(m.locale),
		draft.WithLogger(m.log),
		draft.WithOnChange(func(snap dictation.Snapshot) {
			feed.push(gen, snap)
		}),
	)
	m.dialog = newDialogModel(gen, d, max(m.width-12, 20))
	m.showDialog = true
}

// closeDialog dismisses the draft, stopping any dictation in progress.
func (m *model) closeDialog() {
	if m.showDialog && m.dialog.draft != nil {
		m.dialog.draft.Dismiss()
	}
	m.showDialog = false
}

func (m model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.closeDialog()
		return m, nil
	case key.Matches(msg, keys.save) && !m.dialog.onboarding:
		done, err := m.dialog.save()
		if err != nil {
			m.dialog.notice = err.Error()
			return m, nil
		}
		if !done {
			return m, nil
		}
		m.showDialog = false
		m.search.SetValue("")
		m.idx = 0
		m.refresh()
		cmd := m.setStatus("Note saved")
		return m, cmd
	}

	var cmd tea.Cmd
	m.dialog, cmd = m.dialog.update(m.ctx, msg)
	return m, cmd
}

func (m model) View() string {
	if m.showDialog {
		return appStyle.Render(m.dialog.View())
	}
	if m.showConfirm {
		return appStyle.Render(m.confirm.View())
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("quicknote") + "\n\n")
	sb.WriteString(m.search.View() + "\n\n")

	if len(m.items) == 0 {
		sb.WriteString(ui.FormatEmpty(m.search.Value()) + "\n")
	}
	width := min(max(m.width-8, 20), cardSummaryWidth+4)
	for i, n := range m.items {
		style := cardStyle
		if i == m.idx {
			style = selectedStyle
		}
		body := fmt.Sprintf("%s\n%s", ui.Summary(n.Content, width-4), helpStyle.Render(ui.TimeAgo(n.CreatedAt)))
		sb.WriteString(style.Width(width).Render(body) + "\n")
	}

	if m.status != "" {
		sb.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	if m.err != "" {
		sb.WriteString("\n" + errorStyle.Render(m.err) + "\n")
	}

	help := "n new  / search  d delete  q quit"
	if m.search.Focused() {
		help = "enter done  esc done"
	}
	sb.WriteString("\n" + helpStyle.Render(help))
	return appStyle.Render(sb.String())
}
