// ABOUTME: Bubble Tea messages and the dictation update feed.
// ABOUTME: Carries transcription snapshots from provider goroutines into the update loop.

package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/quicknote/internal/dictation"
)

const statusTimeout = 3 * time.Second

// dictationMsg is the newest snapshot of the draft with the given generation.
type dictationMsg struct {
	gen  int
	snap dictation.Snapshot
}

type clearStatusMsg struct{}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// dictationFeed keeps only the latest snapshot. Pushing never blocks, so it is
// safe from provider goroutines and from inside Update.
type dictationFeed struct {
	mu     sync.Mutex
	latest dictationMsg
	ready  chan struct{}
}

func newDictationFeed() *dictationFeed {
	return &dictationFeed{ready: make(chan struct{}, 1)}
}

func (f *dictationFeed) push(gen int, snap dictation.Snapshot) {
	f.mu.Lock()
	f.latest = dictationMsg{gen: gen, snap: snap}
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

func (f *dictationFeed) wait() tea.Cmd {
	return func() tea.Msg {
		<-f.ready
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.latest
	}
}
