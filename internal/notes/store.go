// ABOUTME: Note store owning the ordered in-memory note collection.
// ABOUTME: Writes the full collection through the persistence adapter after every mutation.

package notes

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harper/quicknote/internal/models"
	"github.com/harper/quicknote/internal/storage"
	"github.com/rs/zerolog"
)

const minPrefixLen = 6

var (
	ErrEmptyContent    = errors.New("note content cannot be empty")
	ErrPersistence     = errors.New("persistence unavailable")
	ErrCorrupt         = errors.New("corrupt persisted notes")
	ErrPrefixTooShort  = errors.New("prefix must be at least 6 characters")
	ErrAmbiguousPrefix = errors.New("prefix matches multiple notes")
	ErrNoteNotFound    = errors.New("note not found")
)

// Store holds notes newest first. The order is fixed when a note is inserted
// and never recomputed on read.
type Store struct {
	mu      sync.RWMutex
	adapter storage.Adapter
	notes   []*models.Note
	ids     map[uuid.UUID]struct{}

	pending bool
	lastErr error

	log    zerolog.Logger
	notify func(error)
	now    func() time.Time
	newID  func() uuid.UUID
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithNotifier registers fn to receive non-fatal persistence problems. fn runs
// while the store is locked and must not call back into it.
func WithNotifier(fn func(error)) Option {
	return func(s *Store) {
		s.notify = fn
	}
}

// WithClock overrides the time source used to stamp new notes.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides the id source used for new notes.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// Open builds a store from the adapter's last snapshot. It never fails: an
// absent, unreadable or corrupt snapshot yields an empty collection.
func Open(adapter storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		ids:     make(map[uuid.UUID]struct{}),
		log:     zerolog.Nop(),
		now:     time.Now,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := s.adapter.Load()
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.pending = true
		s.lastErr = fmt.Errorf("%w: %v", ErrPersistence, err)
		s.log.Warn().Err(err).Msg("could not read saved notes, starting empty")
		s.report(s.lastErr)
		return
	}

	notes, err := Decode(data)
	if err != nil {
		s.log.Warn().Err(err).Int("bytes", len(data)).Msg("discarding unreadable saved notes")
		return
	}
	s.notes = notes
	for _, n := range notes {
		s.ids[n.ID] = struct{}{}
	}
	s.log.Debug().Int("notes", len(notes)).Msg("loaded notes")
}

// Create adds a note with the given content at the front of the collection.
// Blank content is rejected with ErrEmptyContent. A failed write is reported
// through the logger and notifier but the note stays in memory.
func (s *Store) Create(content string) (*models.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note := &models.Note{
		ID:        s.uniqueID(),
		Content:   content,
		CreatedAt: s.now(),
	}
	s.notes = append([]*models.Note{note}, s.notes...)
	s.ids[note.ID] = struct{}{}
	s.persistLocked()
	return note, nil
}

func (s *Store) uniqueID() uuid.UUID {
	for {
		id := s.newID()
		if _, taken := s.ids[id]; !taken {
			return id
		}
		s.log.Debug().Str("id", id.String()).Msg("regenerating colliding note id")
	}
}

// Delete removes the note with id. It reports false, without writing, when no
// such note exists.
func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.notes, func(n *models.Note) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	delete(s.ids, id)
	s.persistLocked()
	return true
}

// Import merges notes that keep their own ids and timestamps. Blank notes and
// ids already present are skipped. Each note goes in front of the first older
// note so the collection stays newest first. It returns how many were added.
func (s *Store) Import(incoming []*models.Note) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := slices.Clone(s.notes)
	added := 0
	for _, n := range incoming {
		if n == nil || strings.TrimSpace(n.Content) == "" {
			continue
		}
		if _, dup := s.ids[n.ID]; dup {
			continue
		}
		note := &models.Note{ID: n.ID, Content: n.Content, CreatedAt: n.CreatedAt}
		at := slices.IndexFunc(merged, func(existing *models.Note) bool {
			return existing.CreatedAt.Before(note.CreatedAt)
		})
		if at < 0 {
			at = len(merged)
		}
		merged = slices.Insert(merged, at, note)
		s.ids[note.ID] = struct{}{}
		added++
	}
	if added == 0 {
		return 0
	}
	s.notes = merged
	s.persistLocked()
	return added
}

// Search returns the notes whose content contains query, ignoring case, in
// collection order. An empty query returns every note.
func (s *Store) Search(query string) []*models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == "" {
		return slices.Clone(s.notes)
	}
	return filter(s.notes, query)
}

func filter(notes []*models.Note, query string) []*models.Note {
	needle := strings.ToLower(query)
	var matches []*models.Note
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Content), needle) {
			matches = append(matches, n)
		}
	}
	return matches
}

// Notes returns a snapshot of the collection, newest first.
func (s *Store) Notes() []*models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

func (s *Store) Get(id uuid.UUID) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.notes {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, ErrNoteNotFound
}

// FindByPrefix resolves a full id or an id prefix of at least 6 characters.
func (s *Store) FindByPrefix(prefix string) (*models.Note, error) {
	if id, err := uuid.Parse(prefix); err == nil {
		return s.Get(id)
	}
	if len(prefix) < minPrefixLen {
		return nil, ErrPrefixTooShort
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix = strings.ToLower(prefix)
	var matches []*models.Note
	for _, n := range s.notes {
		if strings.HasPrefix(n.ID.String(), prefix) {
			matches = append(matches, n)
		}
	}
	if len(matches) == 0 {
		return nil, ErrNoteNotFound
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("%w: %d matches", ErrAmbiguousPrefix, len(matches))
	}
	return matches[0], nil
}

// Flush writes the current collection again. Use it to retry after a failed
// write without mutating the store.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked()
	return s.lastErr
}

// Pending reports whether the last write failed, leaving the saved snapshot
// behind the in-memory collection.
func (s *Store) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Err returns the last persistence failure, or nil after a successful write.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) Close() error {
	return s.adapter.Close()
}

func (s *Store) persistLocked() {
	data, err := Encode(s.notes)
	if err == nil {
		err = s.adapter.Save(data)
	}
	if err != nil {
		s.pending = true
		s.lastErr = fmt.Errorf("%w: %v", ErrPersistence, err)
		s.log.Warn().Err(err).Int("notes", len(s.notes)).Msg("failed to save notes, keeping them in memory")
		s.report(s.lastErr)
		return
	}
	if s.pending {
		s.log.Info().Int("notes", len(s.notes)).Msg("saved notes after earlier failure")
	}
	s.pending = false
	s.lastErr = nil
}

func (s *Store) report(err error) {
	if s.notify != nil {
		s.notify(err)
	}
}
