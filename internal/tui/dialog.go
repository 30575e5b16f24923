// ABOUTME: New-note dialog combining a text area with dictation.
// ABOUTME: Starts on a short prompt, then edits the draft until it is saved or dismissed.

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/quicknote/internal/dictation"
	"github.com/harper/quicknote/internal/draft"
	"github.com/harper/quicknote/internal/notes"
)

const unsupportedNotice = "Speech transcription is not available. Set dictation_command in the config to enable it."

type dialogModel struct {
	gen        int
	draft      *draft.Draft
	editor     textarea.Model
	onboarding bool
	status     dictation.Status
	notice     string
}

func newDialogModel(gen int, d *draft.Draft, width int) dialogModel {
	ta := textarea.New()
	ta.Placeholder = "Write your note..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(8)
	if width > 0 {
		ta.SetWidth(width)
	}
	return dialogModel{
		gen:        gen,
		draft:      d,
		editor:     ta,
		onboarding: true,
		status:     dictation.StatusIdle,
	}
}

func (m dialogModel) recording() bool {
	return m.status == dictation.StatusRecording
}

// apply shows a dictation snapshot in the editor.
func (m *dialogModel) apply(snap dictation.Snapshot) {
	m.status = snap.Status
	m.editor.SetValue(snap.Transcript)
	if !m.recording() && !m.onboarding {
		m.editor.Focus()
	}
	switch snap.Status {
	case dictation.StatusUnsupported:
		m.notice = unsupportedNotice
	case dictation.StatusError:
		if snap.Err != nil {
			m.notice = "Dictation stopped: " + snap.Err.Error()
		}
	}
}

func (m *dialogModel) toggleDictation(ctx context.Context) {
	if m.recording() {
		if err := m.draft.StopDictation(); err != nil {
			m.notice = err.Error()
		}
		m.status = m.draft.Status()
		m.editor.Focus()
		return
	}

	_ = m.draft.SetContent(m.editor.Value())
	err := m.draft.StartDictation(ctx)
	m.status = m.draft.Status()
	m.onboarding = false
	switch {
	case errors.Is(err, dictation.ErrUnsupported):
		m.notice = unsupportedNotice
		m.editor.Focus()
	case err != nil:
		m.notice = "Could not start dictation: " + err.Error()
		m.editor.Focus()
	default:
		m.notice = ""
		m.editor.Blur()
	}
}

// save stores the draft. It reports whether the dialog should close.
func (m *dialogModel) save() (bool, error) {
	if !m.recording() {
		_ = m.draft.SetContent(m.editor.Value())
	}
	_, err := m.draft.Save()
	if errors.Is(err, notes.ErrEmptyContent) {
		m.notice = "Write or dictate something first."
		m.status = m.draft.Status()
		m.editor.SetValue(m.draft.Content())
		m.editor.Focus()
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m dialogModel) update(ctx context.Context, msg tea.KeyMsg) (dialogModel, tea.Cmd) {
	if m.onboarding {
		switch {
		case key.Matches(msg, keys.record), key.Matches(msg, keys.dictate):
			m.toggleDictation(ctx)
		case key.Matches(msg, keys.typeText):
			m.onboarding = false
			cmd := m.editor.Focus()
			return m, cmd
		}
		return m, nil
	}

	if key.Matches(msg, keys.dictate) {
		m.toggleDictation(ctx)
		return m, nil
	}
	if m.recording() {
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m dialogModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("New note") + "\n\n")

	if m.onboarding {
		sb.WriteString("Start by dictating a note, or just type it.\n\n")
		sb.WriteString(helpStyle.Render("r record    t write text    esc cancel"))
		return overlayBoxStyle.Render(sb.String())
	}

	switch m.status {
	case dictation.StatusRecording:
		sb.WriteString(recordingStyle.Render("● Recording") + helpStyle.Render(" (ctrl+r to stop)") + "\n\n")
	case dictation.StatusStopped:
		sb.WriteString(helpStyle.Render("Dictation stopped. You can edit the text.") + "\n\n")
	}
	sb.WriteString(m.editor.View() + "\n")
	if m.notice != "" {
		sb.WriteString("\n" + errorStyle.Render(m.notice) + "\n")
	}
	sb.WriteString("\n" + helpStyle.Render(fmt.Sprintf("%s    ctrl+s save    esc discard", dictateLabel(m.status))))
	return overlayBoxStyle.Render(sb.String())
}

func dictateLabel(s dictation.Status) string {
	if s == dictation.StatusRecording {
		return "ctrl+r stop"
	}
	return "ctrl+r dictate"
}
