// ABOUTME: Transcription capability boundary used by dictation sessions.
// ABOUTME: Defines providers, handles, listeners, results and delivery errors.

package dictation

import (
	"context"
	"fmt"
)

// Options configures a capture. Sessions always ask for continuous listening,
// interim results and a single alternative.
type Options struct {
	Locale          string
	Continuous      bool
	InterimResults  bool
	MaxAlternatives int
}

func DefaultOptions(locale string) Options {
	return Options{
		Locale:          locale,
		Continuous:      true,
		InterimResults:  true,
		MaxAlternatives: 1,
	}
}

// Result is one recognized segment. Alternatives are ordered best first.
type Result struct {
	Alternatives []string
	Final        bool
}

// Best returns the top alternative, or "" when there is none.
func (r Result) Best() string {
	if len(r.Alternatives) == 0 {
		return ""
	}
	return r.Alternatives[0]
}

// Listener receives events from an acquired capture. OnResult always carries
// every result delivered so far in the capture, not just the newest one.
type Listener interface {
	OnResult(results []Result)
	OnError(err error)
}

// Provider is the host's speech transcription capability. Probe reports
// whether it is available; absence is normal and not an error.
type Provider interface {
	Probe() bool
	Acquire(ctx context.Context, opts Options, l Listener) (Handle, error)
}

// Handle is an active capture. Stop releases it and must be safe to call
// more than once.
type Handle interface {
	Stop() error
}

// TranscriptionError describes a failure reported while capturing.
type TranscriptionError struct {
	Code    string
	Message string
}

func (e *TranscriptionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("transcription failed: %s", e.Code)
	}
	return fmt.Sprintf("transcription failed: %s: %s", e.Code, e.Message)
}
