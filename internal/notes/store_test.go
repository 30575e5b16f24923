// ABOUTME: Tests for the note store.
// ABOUTME: Covers ordering, rejection, deletion, search, rehydration and write failures.

package notes

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/quicknote/internal/models"
	"github.com/harper/quicknote/internal/storage"
)

// flakyAdapter wraps a Memory adapter and fails loads or saves on demand.
type flakyAdapter struct {
	*storage.Memory
	loadErr error
	saveErr error
	saves   int
}

func (f *flakyAdapter) Load() ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.Memory.Load()
}

func (f *flakyAdapter) Save(data []byte) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Memory.Save(data)
}

func newFlaky() *flakyAdapter {
	return &flakyAdapter{Memory: storage.NewMemory(nil)}
}

func TestOpenEmptyWhenNothingSaved(t *testing.T) {
	s := Open(storage.NewMemory(nil))

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d notes", s.Len())
	}
	if s.Pending() {
		t.Error("expected store not to be pending")
	}
}

func TestCreatePrependsNewestFirst(t *testing.T) {
	s := Open(storage.NewMemory(nil))

	first, err := s.Create("first")
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	second, err := s.Create("second")
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	notes := s.Notes()
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[0].ID != second.ID || notes[1].ID != first.ID {
		t.Errorf("expected second note before first, got %q then %q", notes[0].Content, notes[1].Content)
	}
}

func TestCreateStampsClockTime(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Open(storage.NewMemory(nil), WithClock(func() time.Time { return at }))

	note, err := s.Create("hello")
	if err != nil {
		t.Fatalf("failed to create note: %v", err)
	}
	if !note.CreatedAt.Equal(at) {
		t.Errorf("expected CreatedAt %v, got %v", at, note.CreatedAt)
	}
}

func TestCreateRejectsBlankContent(t *testing.T) {
	a := newFlaky()
	s := Open(a)

	for _, content := range []string{"", "   ", "\n\t "} {
		note, err := s.Create(content)
		if !errors.Is(err, ErrEmptyContent) {
			t.Errorf("Create(%q): expected ErrEmptyContent, got %v", content, err)
		}
		if note != nil {
			t.Errorf("Create(%q): expected no note", content)
		}
	}
	if s.Len() != 0 {
		t.Errorf("expected collection unchanged, got %d notes", s.Len())
	}
	if a.saves != 0 {
		t.Errorf("expected no writes, got %d", a.saves)
	}
}

func TestCreateKeepsContentVerbatim(t *testing.T) {
	s := Open(storage.NewMemory(nil))

	note, _ := s.Create("  padded  ")
	if note.Content != "  padded  " {
		t.Errorf("expected content kept as typed, got %q", note.Content)
	}
}

func TestCreateRegeneratesCollidingID(t *testing.T) {
	fixed := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	other := uuid.MustParse("22222222-2222-4222-8222-222222222222")
	ids := []uuid.UUID{fixed, fixed, other}
	s := Open(storage.NewMemory(nil), WithIDGenerator(func() uuid.UUID {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	a, _ := s.Create("a")
	b, _ := s.Create("b")

	if a.ID != fixed {
		t.Errorf("expected first id %v, got %v", fixed, a.ID)
	}
	if b.ID != other {
		t.Errorf("expected colliding id to be regenerated as %v, got %v", other, b.ID)
	}
}

func TestDeleteRemovesOnce(t *testing.T) {
	a := newFlaky()
	s := Open(a)
	keep, _ := s.Create("keep")
	gone, _ := s.Create("gone")
	savesBefore := a.saves

	if !s.Delete(gone.ID) {
		t.Fatal("expected first delete to remove the note")
	}
	if s.Delete(gone.ID) {
		t.Error("expected second delete to report not removed")
	}

	notes := s.Notes()
	if len(notes) != 1 || notes[0].ID != keep.ID {
		t.Errorf("expected only the kept note to remain, got %v", notes)
	}
	if a.saves != savesBefore+1 {
		t.Errorf("expected exactly one write for the removal, got %d", a.saves-savesBefore)
	}
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	s := Open(storage.NewMemory(nil))
	s.Create("a")
	before := s.Notes()

	if s.Delete(uuid.New()) {
		t.Error("expected delete of unknown id to report false")
	}

	after := s.Notes()
	if len(after) != len(before) || after[0] != before[0] {
		t.Error("expected collection unchanged")
	}
}

func TestSearch(t *testing.T) {
	s := Open(storage.NewMemory(nil))
	s.Create("Buy MILK")
	s.Create("call mom")
	s.Create("milkshake recipe")

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"milkshake recipe", "call mom", "Buy MILK"}},
		{"milk", []string{"milkshake recipe", "Buy MILK"}},
		{"MILK", []string{"milkshake recipe", "Buy MILK"}},
		{"mom", []string{"call mom"}},
		{"pizza", nil},
		{" ", []string{"milkshake recipe", "call mom", "Buy MILK"}},
	}

	for _, tt := range tests {
		got := s.Search(tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("Search(%q): expected %d notes, got %d", tt.query, len(tt.want), len(got))
			continue
		}
		for i := range got {
			if got[i].Content != tt.want[i] {
				t.Errorf("Search(%q)[%d]: expected %q, got %q", tt.query, i, tt.want[i], got[i].Content)
			}
		}
	}
}

func TestSearchEmptyReturnsSameNotes(t *testing.T) {
	s := Open(storage.NewMemory(nil))
	s.Create("a")
	s.Create("b")

	all := s.Search("")
	notes := s.Notes()
	for i := range notes {
		if all[i] != notes[i] {
			t.Errorf("expected the same note values at %d", i)
		}
	}
}

func TestSnapshotIsolatedFromMutation(t *testing.T) {
	s := Open(storage.NewMemory(nil))
	s.Create("a")
	snapshot := s.Notes()

	s.Create("b")

	if len(snapshot) != 1 {
		t.Errorf("expected earlier snapshot to keep 1 note, got %d", len(snapshot))
	}
}

func TestRehydrateFromAdapter(t *testing.T) {
	mem := storage.NewMemory(nil)
	s := Open(mem)
	s.Create("older")
	s.Create("newer")

	reopened := Open(mem)

	notes := reopened.Notes()
	original := s.Notes()
	if len(notes) != len(original) {
		t.Fatalf("expected %d notes, got %d", len(original), len(notes))
	}
	for i := range notes {
		if notes[i].ID != original[i].ID || notes[i].Content != original[i].Content {
			t.Errorf("note %d differs after reload", i)
		}
		if !notes[i].CreatedAt.Equal(original[i].CreatedAt) {
			t.Errorf("note %d timestamp differs after reload", i)
		}
	}
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	for _, payload := range []string{"not json", `{"id":"x"}`, `[{"id":"nope","content":"x","createdAt":"2024-01-01T00:00:00Z"}]`, ""} {
		s := Open(storage.NewMemory([]byte(payload)))
		if s.Len() != 0 {
			t.Errorf("payload %q: expected empty store, got %d notes", payload, s.Len())
		}
		if _, err := s.Create("still usable"); err != nil {
			t.Errorf("payload %q: expected store to stay usable, got %v", payload, err)
		}
	}
}

func TestUnreadableAdapterStartsEmptyAndPending(t *testing.T) {
	a := newFlaky()
	a.loadErr = errors.New("disk on fire")
	var notified []error

	s := Open(a, WithNotifier(func(err error) { notified = append(notified, err) }))

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d notes", s.Len())
	}
	if !s.Pending() {
		t.Error("expected store to be pending after a failed read")
	}
	if len(notified) != 1 || !errors.Is(notified[0], ErrPersistence) {
		t.Errorf("expected one persistence notice, got %v", notified)
	}
}

func TestSaveFailureKeepsNoteInMemory(t *testing.T) {
	a := newFlaky()
	a.saveErr = errors.New("quota exceeded")
	var notified []error
	s := Open(a, WithNotifier(func(err error) { notified = append(notified, err) }))

	note, err := s.Create("survives")
	if err != nil {
		t.Fatalf("expected create to succeed despite write failure, got %v", err)
	}
	if s.Len() != 1 || s.Notes()[0].ID != note.ID {
		t.Error("expected note to stay in memory")
	}
	if !s.Pending() {
		t.Error("expected store to be pending")
	}
	if !errors.Is(s.Err(), ErrPersistence) {
		t.Errorf("expected ErrPersistence, got %v", s.Err())
	}
	if len(notified) != 1 {
		t.Errorf("expected one notice, got %d", len(notified))
	}
}

func TestNextMutationResyncs(t *testing.T) {
	a := newFlaky()
	a.saveErr = errors.New("quota exceeded")
	s := Open(a)
	s.Create("first")

	a.saveErr = nil
	s.Create("second")

	if s.Pending() {
		t.Error("expected pending to clear after a successful write")
	}
	reloaded := Open(a.Memory)
	if reloaded.Len() != 2 {
		t.Errorf("expected both notes persisted after resync, got %d", reloaded.Len())
	}
}

func TestFlushRetries(t *testing.T) {
	a := newFlaky()
	a.saveErr = errors.New("quota exceeded")
	s := Open(a)
	s.Create("first")

	if err := s.Flush(); !errors.Is(err, ErrPersistence) {
		t.Errorf("expected flush to fail while adapter fails, got %v", err)
	}

	a.saveErr = nil
	if err := s.Flush(); err != nil {
		t.Fatalf("expected flush to succeed, got %v", err)
	}
	if Open(a.Memory).Len() != 1 {
		t.Error("expected flushed note to be persisted")
	}
}

func TestFindByPrefix(t *testing.T) {
	fixed := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	s := Open(storage.NewMemory(nil), WithIDGenerator(func() uuid.UUID { return fixed }))
	note, _ := s.Create("content")

	got, err := s.FindByPrefix(note.ID.String()[:8])
	if err != nil {
		t.Fatalf("failed to find by prefix: %v", err)
	}
	if got.ID != note.ID {
		t.Errorf("expected ID %v, got %v", note.ID, got.ID)
	}

	got, err = s.FindByPrefix(note.ID.String())
	if err != nil || got.ID != note.ID {
		t.Errorf("expected full id lookup to succeed, got %v", err)
	}

	if _, err := s.FindByPrefix("abc"); !errors.Is(err, ErrPrefixTooShort) {
		t.Errorf("expected ErrPrefixTooShort, got %v", err)
	}
	if _, err := s.FindByPrefix("ffffffff"); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestFindByPrefixAmbiguous(t *testing.T) {
	ids := []uuid.UUID{
		uuid.MustParse("abcdef01-0000-4000-8000-000000000001"),
		uuid.MustParse("abcdef01-0000-4000-8000-000000000002"),
	}
	s := Open(storage.NewMemory(nil), WithIDGenerator(func() uuid.UUID {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	s.Create("a")
	s.Create("b")

	if _, err := s.FindByPrefix("abcdef"); !errors.Is(err, ErrAmbiguousPrefix) {
		t.Errorf("expected ErrAmbiguousPrefix, got %v", err)
	}
}

func TestImportKeepsOrderAndSkipsDuplicates(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := base
	s := Open(storage.NewMemory(nil), WithClock(func() time.Time {
		tick = tick.Add(time.Hour)
		return tick
	}))
	oldest, _ := s.Create("one o'clock")
	newest, _ := s.Create("two o'clock")

	middle := &models.Note{ID: uuid.New(), Content: "half past one", CreatedAt: base.Add(90 * time.Minute)}
	ancient := &models.Note{ID: uuid.New(), Content: "midnight", CreatedAt: base}
	blank := &models.Note{ID: uuid.New(), Content: "  ", CreatedAt: base}
	dup := &models.Note{ID: oldest.ID, Content: "dup", CreatedAt: base}

	added := s.Import([]*models.Note{middle, ancient, blank, dup})
	if added != 2 {
		t.Fatalf("expected 2 imported, got %d", added)
	}

	want := []uuid.UUID{newest.ID, middle.ID, oldest.ID, ancient.ID}
	notes := s.Notes()
	if len(notes) != len(want) {
		t.Fatalf("expected %d notes, got %d", len(want), len(notes))
	}
	for i, id := range want {
		if notes[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, notes[i].Content)
		}
	}
}
