// ABOUTME: Dictation session state machine driving one live transcription attempt.
// ABOUTME: Applies transcript updates and errors only while recording.

package dictation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type Status int

const (
	StatusIdle Status = iota
	StatusRecording
	StatusStopped
	StatusUnsupported
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRecording:
		return "recording"
	case StatusStopped:
		return "stopped"
	case StatusUnsupported:
		return "unsupported"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether a session in this status can never record again.
func (s Status) Terminal() bool {
	return s == StatusStopped || s == StatusUnsupported || s == StatusError
}

var (
	ErrUnsupported  = errors.New("speech transcription is not supported here")
	ErrSessionEnded = errors.New("dictation session already ended")
	ErrRecording    = errors.New("cannot edit transcript while recording")
)

// Snapshot is a consistent view of a session.
type Snapshot struct {
	Status     Status
	Transcript string
	Err        error
}

// Session owns at most one capability handle. It moves idle -> recording ->
// stopped, or idle -> unsupported, or recording -> error, and never back.
type Session struct {
	mu         sync.Mutex
	provider   Provider
	opts       Options
	status     Status
	transcript string
	err        error
	handle     Handle
	unwatch    func() bool

	log      zerolog.Logger
	onChange func(Snapshot)
}

type SessionOption func(*Session)

func WithLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.log = l
	}
}

// WithOnChange registers fn to receive a snapshot after every applied change.
// fn runs outside the session lock, on whichever goroutine caused the change.
func WithOnChange(fn func(Snapshot)) SessionOption {
	return func(s *Session) {
		s.onChange = fn
	}
}

// WithTranscript seeds the session with text typed before dictation started.
// The seed stays until the first result arrives, so a silent recording keeps it.
func WithTranscript(text string) SessionOption {
	return func(s *Session) {
		s.transcript = text
	}
}

func NewSession(p Provider, opts Options, options ...SessionOption) *Session {
	s := &Session{
		provider: p,
		opts:     opts,
		status:   StatusIdle,
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Start begins capturing. A missing capability moves the session to
// unsupported and returns ErrUnsupported. Calling Start while recording does
// nothing; calling it after the session ended returns ErrSessionEnded.
//
// ctx bounds the authoring interaction: once it is done the session is
// stopped and the capability released.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.status == StatusRecording:
		s.mu.Unlock()
		return nil
	case s.status != StatusIdle:
		s.mu.Unlock()
		return ErrSessionEnded
	}

	if s.provider == nil || !s.provider.Probe() {
		s.status = StatusUnsupported
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.log.Info().Msg("speech transcription unavailable")
		s.changed(snap)
		return ErrUnsupported
	}

	s.status = StatusRecording
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.changed(snap)

	handle, err := s.provider.Acquire(ctx, s.opts, &listener{s: s})

	s.mu.Lock()
	if err != nil {
		var notify bool
		if s.status == StatusRecording {
			s.status = StatusError
			s.err = err
			notify = true
		}
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.log.Warn().Err(err).Msg("failed to acquire transcription")
		if notify {
			s.changed(snap)
		}
		return fmt.Errorf("acquire transcription: %w", err)
	}

	if s.status != StatusRecording {
		// Stopped or failed while acquiring.
		s.mu.Unlock()
		s.releaseHandle(handle)
		return nil
	}

	s.handle = handle
	s.unwatch = context.AfterFunc(ctx, func() {
		s.log.Debug().Msg("authoring context done, stopping dictation")
		_ = s.Stop()
	})
	s.mu.Unlock()
	s.log.Debug().Str("locale", s.opts.Locale).Msg("dictation started")
	return nil
}

// Stop ends a recording session and releases the capability without waiting
// for pending results. It does nothing unless the session is recording.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.status != StatusRecording {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusStopped
	handle := s.detachLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.changed(snap)
	if handle == nil {
		return nil
	}
	if err := handle.Stop(); err != nil {
		return fmt.Errorf("release transcription: %w", err)
	}
	return nil
}

// SetTranscript replaces the transcript with manually entered text. It is
// rejected while recording and never changes the status.
func (s *Session) SetTranscript(text string) error {
	s.mu.Lock()
	if s.status == StatusRecording {
		s.mu.Unlock()
		return ErrRecording
	}
	s.transcript = text
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.changed(snap)
	return nil
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// Err returns the delivery or acquisition error; nil unless StatusError.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) applyResults(results []Result) {
	s.mu.Lock()
	if status := s.status; status != StatusRecording {
		s.mu.Unlock()
		s.log.Debug().Stringer("status", status).Msg("ignoring late transcription result")
		return
	}
	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(r.Best())
	}
	s.transcript = sb.String()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.changed(snap)
}

func (s *Session) applyError(err error) {
	s.mu.Lock()
	if s.status != StatusRecording {
		s.mu.Unlock()
		s.log.Debug().Err(err).Msg("ignoring late transcription error")
		return
	}
	s.status = StatusError
	s.err = err
	handle := s.detachLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Warn().Err(err).Msg("dictation failed")
	s.changed(snap)
	s.releaseHandle(handle)
}

func (s *Session) detachLocked() Handle {
	handle := s.handle
	s.handle = nil
	if s.unwatch != nil {
		s.unwatch()
		s.unwatch = nil
	}
	return handle
}

func (s *Session) releaseHandle(h Handle) {
	if h == nil {
		return
	}
	if err := h.Stop(); err != nil {
		s.log.Warn().Err(err).Msg("failed to release transcription")
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{Status: s.status, Transcript: s.transcript, Err: s.err}
}

func (s *Session) changed(snap Snapshot) {
	if s.onChange != nil {
		s.onChange(snap)
	}
}

type listener struct {
	s *Session
}

func (l *listener) OnResult(results []Result) {
	l.s.applyResults(results)
}

func (l *listener) OnError(err error) {
	if err == nil {
		return
	}
	l.s.applyError(err)
}
