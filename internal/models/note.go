// ABOUTME: Note model representing a short text note.
// ABOUTME: Captures identity and creation time when a note is constructed.

package models

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID
	Content   string
	CreatedAt time.Time
}

func NewNote(content string) *Note {
	return &Note{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// ShortID returns the 6-character prefix shown to users.
func (n *Note) ShortID() string {
	return n.ID.String()[:6]
}
