// ABOUTME: Key bindings for the interactive note browser.
// ABOUTME: List, search, confirmation and new-note dialog keys.

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	esc      key.Binding
	quit     key.Binding
	forceQ   key.Binding
	search   key.Binding
	newNote  key.Binding
	delete   key.Binding
	yes      key.Binding
	no       key.Binding
	record   key.Binding
	typeText key.Binding
	dictate  key.Binding
	save     key.Binding
}

var keys = keyMap{
	up:       key.NewBinding(key.WithKeys("up", "k")),
	down:     key.NewBinding(key.WithKeys("down", "j")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	quit:     key.NewBinding(key.WithKeys("q")),
	forceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
	search:   key.NewBinding(key.WithKeys("/")),
	newNote:  key.NewBinding(key.WithKeys("n")),
	delete:   key.NewBinding(key.WithKeys("d", "x")),
	yes:      key.NewBinding(key.WithKeys("y")),
	no:       key.NewBinding(key.WithKeys("n")),
	record:   key.NewBinding(key.WithKeys("r")),
	typeText: key.NewBinding(key.WithKeys("t", "enter")),
	dictate:  key.NewBinding(key.WithKeys("ctrl+r")),
	save:     key.NewBinding(key.WithKeys("ctrl+s")),
}
