// ABOUTME: Tests for Note model constructor and helpers.
// ABOUTME: Validates UUID generation and timestamp handling.

package models

import (
	"strings"
	"testing"
)

func TestNewNote(t *testing.T) {
	content := "This is test content"

	note := NewNote(content)

	if note.ID.String() == "" {
		t.Error("expected UUID to be generated")
	}
	if note.Content != content {
		t.Errorf("expected content %q, got %q", content, note.Content)
	}
	if note.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestNewNoteUniqueIDs(t *testing.T) {
	a := NewNote("a")
	b := NewNote("b")

	if a.ID == b.ID {
		t.Error("expected distinct IDs for separate notes")
	}
}

func TestShortID(t *testing.T) {
	note := NewNote("content")

	short := note.ShortID()
	if len(short) != 6 {
		t.Fatalf("expected 6 characters, got %d", len(short))
	}
	if !strings.HasPrefix(note.ID.String(), short) {
		t.Errorf("expected %q to prefix %q", short, note.ID.String())
	}
}
