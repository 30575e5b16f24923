// ABOUTME: Transcription provider backed by an external speech-to-text program.
// ABOUTME: Reads one JSON result or error object per line from the program's stdout.

package dictation

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Environment variables handed to the transcription program.
const (
	EnvLocale          = "QUICKNOTE_LOCALE"
	EnvContinuous      = "QUICKNOTE_CONTINUOUS"
	EnvInterimResults  = "QUICKNOTE_INTERIM_RESULTS"
	EnvMaxAlternatives = "QUICKNOTE_MAX_ALTERNATIVES"
)

const (
	// maxLineSize bounds one line of program output.
	maxLineSize = 1 << 20
	// maxIndexGap bounds how far past the last known slot a result index may point.
	maxIndexGap = 64
)

// line is one object printed by the transcription program. Index addresses a
// result slot; a later line with the same index replaces the earlier one.
type line struct {
	Index        int      `json:"index"`
	Alternatives []string `json:"alternatives"`
	Final        bool     `json:"final"`
	Error        string   `json:"error,omitempty"`
	Message      string   `json:"message,omitempty"`
}

// CommandProvider runs a speech-to-text program for each capture.
type CommandProvider struct {
	Path string
	Args []string
	Env  []string

	log zerolog.Logger
}

// NewCommandProvider splits command on whitespace into program and arguments.
// An empty command yields a provider that is never available.
func NewCommandProvider(command string, log zerolog.Logger) *CommandProvider {
	p := &CommandProvider{log: log}
	fields := strings.Fields(command)
	if len(fields) > 0 {
		p.Path = fields[0]
		p.Args = fields[1:]
	}
	return p
}

func (p *CommandProvider) Probe() bool {
	if p.Path == "" {
		return false
	}
	_, err := exec.LookPath(p.Path)
	return err == nil
}

func (p *CommandProvider) Acquire(ctx context.Context, opts Options, l Listener) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(p.Path, p.Args...) //nolint:gosec // Configured transcription program is expected behavior
	cmd.Env = append(os.Environ(), p.Env...)
	cmd.Env = append(cmd.Env,
		EnvLocale+"="+opts.Locale,
		EnvContinuous+"="+strconv.FormatBool(opts.Continuous),
		EnvInterimResults+"="+strconv.FormatBool(opts.InterimResults),
		EnvMaxAlternatives+"="+strconv.Itoa(opts.MaxAlternatives),
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	h := &commandHandle{cmd: cmd, done: make(chan struct{})}
	cmd.Stderr = &h.stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", p.Path, err)
	}
	p.log.Debug().Str("program", p.Path).Int("pid", cmd.Process.Pid).Msg("transcription program started")

	go h.pump(stdout, opts, l, p.log)
	return h, nil
}

type commandHandle struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer
	done   chan struct{}

	mu      sync.Mutex
	stopped bool
}

// Stop kills the program without waiting for it to flush.
func (h *commandHandle) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return nil
	}
	h.stopped = true

	err := h.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (h *commandHandle) isStopped() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stopped
}

func (h *commandHandle) pump(stdout io.Reader, opts Options, l Listener, log zerolog.Logger) {
	defer close(h.done)

	var results []Result
	failed := false
	fail := func(code, msg string) {
		if !failed && !h.isStopped() {
			l.OnError(&TranscriptionError{Code: code, Message: msg})
		}
		failed = true
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var ln line
		if err := json.Unmarshal(raw, &ln); err != nil {
			fail("bad-output", err.Error())
			continue
		}
		if ln.Error != "" {
			fail(ln.Error, ln.Message)
			continue
		}
		if failed || ln.Index < 0 {
			continue
		}
		if ln.Index > len(results)+maxIndexGap {
			fail("bad-output", fmt.Sprintf("result index %d out of range", ln.Index))
			continue
		}
		if !ln.Final && !opts.InterimResults {
			continue
		}

		alts := ln.Alternatives
		if opts.MaxAlternatives > 0 && len(alts) > opts.MaxAlternatives {
			alts = alts[:opts.MaxAlternatives]
		}
		for len(results) <= ln.Index {
			results = append(results, Result{})
		}
		results[ln.Index] = Result{Alternatives: alts, Final: ln.Final}
		l.OnResult(cloneResults(results))
	}

	if err := scanner.Err(); err != nil {
		fail("bad-output", err.Error())
	}

	// Drain anything left so the program is not blocked on a full pipe.
	_, _ = io.Copy(io.Discard, stdout)
	err := h.cmd.Wait()
	if h.isStopped() || failed {
		return
	}
	if err != nil {
		msg := strings.TrimSpace(h.stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		log.Debug().Err(err).Msg("transcription program exited")
		l.OnError(&TranscriptionError{Code: "program-exit", Message: msg})
	}
}

func cloneResults(results []Result) []Result {
	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{Alternatives: slices.Clone(r.Alternatives), Final: r.Final}
	}
	return out
}
