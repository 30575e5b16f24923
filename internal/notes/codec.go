// ABOUTME: Serialization schema for the persisted note collection.
// ABOUTME: Encodes notes as an ordered JSON array of {id, content, createdAt} records.

package notes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/quicknote/internal/models"
)

// record is one persisted note. Date is the field name older snapshots used
// for the creation time; it is read but never written.
type record struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	Date      *time.Time `json:"date,omitempty"`
}

// Encode serializes notes in the order given.
func Encode(notes []*models.Note) ([]byte, error) {
	records := make([]record, len(notes))
	for i, n := range notes {
		records[i] = record{
			ID:        n.ID.String(),
			Content:   n.Content,
			CreatedAt: n.CreatedAt.UTC(),
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal notes: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot produced by Encode. Any record that does not fit the
// schema makes the whole payload invalid; the error wraps ErrCorrupt. Repeated
// ids keep their first occurrence.
func Decode(data []byte) ([]*models.Note, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	notes := make([]*models.Note, 0, len(records))
	seen := make(map[uuid.UUID]struct{}, len(records))
	for i, r := range records {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: parse note ID: %v", ErrCorrupt, i, err)
		}
		createdAt := r.CreatedAt
		if createdAt.IsZero() && r.Date != nil {
			createdAt = *r.Date
		}
		if createdAt.IsZero() {
			return nil, fmt.Errorf("%w: record %d: missing creation time", ErrCorrupt, i)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		notes = append(notes, &models.Note{
			ID:        id,
			Content:   r.Content,
			CreatedAt: createdAt,
		})
	}
	return notes, nil
}
