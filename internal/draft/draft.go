// ABOUTME: Draft note being composed by typing and dictation.
// ABOUTME: Owns the current dictation session and hands finished text to the note store.

package draft

import (
	"context"
	"sync"

	"github.com/harper/quicknote/internal/dictation"
	"github.com/harper/quicknote/internal/models"
	"github.com/harper/quicknote/internal/notes"
	"github.com/rs/zerolog"
)

// Draft is one note-authoring interaction. Text typed before dictation seeds
// each new session, so speaking again after a stop starts from a clean
// transcript while an unsupported capability leaves typed text alone.
type Draft struct {
	mu       sync.Mutex
	store    *notes.Store
	provider dictation.Provider
	opts     dictation.Options

	content string
	session *dictation.Session
	cancel  context.CancelFunc

	log      zerolog.Logger
	onChange func(dictation.Snapshot)
}

type Option func(*Draft)

func WithLogger(l zerolog.Logger) Option {
	return func(d *Draft) {
		d.log = l
	}
}

// WithLocale sets the language dictation listens for.
func WithLocale(locale string) Option {
	return func(d *Draft) {
		d.opts.Locale = locale
	}
}

// WithOnChange forwards every session change. fn may run on a provider
// goroutine and must not block.
func WithOnChange(fn func(dictation.Snapshot)) Option {
	return func(d *Draft) {
		d.onChange = fn
	}
}

func New(store *notes.Store, provider dictation.Provider, opts ...Option) *Draft {
	d := &Draft{
		store:    store,
		provider: provider,
		opts:     dictation.DefaultOptions("pt-BR"),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// StartDictation starts capturing speech into the draft. ctx bounds the
// capture; Dismiss and Save end it as well.
func (d *Draft) StartDictation(ctx context.Context) error {
	d.mu.Lock()
	if d.session != nil && d.session.Status() == dictation.StatusRecording {
		d.mu.Unlock()
		return nil
	}
	if d.session != nil {
		d.content = d.session.Transcript()
	}
	d.releaseLocked()

	options := []dictation.SessionOption{
		dictation.WithLogger(d.log),
		dictation.WithTranscript(d.content),
	}
	if d.onChange != nil {
		options = append(options, dictation.WithOnChange(d.onChange))
	}
	session := dictation.NewSession(d.provider, d.opts, options...)
	ctx, cancel := context.WithCancel(ctx)
	d.session = session
	d.cancel = cancel
	d.mu.Unlock()

	return session.Start(ctx)
}

func (d *Draft) StopDictation() error {
	d.mu.Lock()
	session := d.session
	d.mu.Unlock()
	if session == nil {
		return nil
	}
	return session.Stop()
}

// SetContent replaces the draft text. It fails with dictation.ErrRecording
// while dictation is running.
func (d *Draft) SetContent(text string) error {
	d.mu.Lock()
	session := d.session
	if session == nil {
		d.content = text
	}
	d.mu.Unlock()

	if session != nil {
		return session.SetTranscript(text)
	}
	return nil
}

func (d *Draft) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session != nil {
		return d.session.Transcript()
	}
	return d.content
}

func (d *Draft) Status() dictation.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return dictation.StatusIdle
	}
	return d.session.Status()
}

// Err returns the last dictation failure, if any.
func (d *Draft) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session == nil {
		return nil
	}
	return d.session.Err()
}

// Save stops dictation and stores the draft text as a new note, then resets
// the draft. Blank text returns notes.ErrEmptyContent and keeps the draft.
func (d *Draft) Save() (*models.Note, error) {
	if err := d.StopDictation(); err != nil {
		d.log.Warn().Err(err).Msg("failed to stop dictation before saving")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	text := d.content
	if d.session != nil {
		text = d.session.Transcript()
	}
	note, err := d.store.Create(text)
	if err != nil {
		return nil, err
	}
	d.releaseLocked()
	d.content = ""
	return note, nil
}

// Dismiss abandons the draft, force-stopping dictation and clearing the text.
func (d *Draft) Dismiss() {
	d.mu.Lock()
	session := d.session
	d.releaseLocked()
	d.content = ""
	d.mu.Unlock()

	if session != nil {
		if err := session.Stop(); err != nil {
			d.log.Warn().Err(err).Msg("failed to stop dictation on dismiss")
		}
	}
}

func (d *Draft) releaseLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.session = nil
}
