// ABOUTME: Tests for logger construction
// ABOUTME: Checks level filtering and rejection of unknown levels

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	log.Info().Msg("quiet")
	log.Warn().Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("expected warn message, got %q", out)
	}
}

func TestNewWithWriterEmptyLevelDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	log.Info().Msg("quiet")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestNewWithWriterRejectsUnknownLevel(t *testing.T) {
	if _, err := NewWithWriter(&bytes.Buffer{}, "shouty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNonTerminalOutputHasNoColor(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	if isTerminal(f) {
		t.Error("expected a regular file not to be a terminal")
	}
	if isTerminal(&bytes.Buffer{}) {
		t.Error("expected a buffer not to be a terminal")
	}

	log, err := NewWithWriter(f, "warn")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	log.Warn().Msg("plain")

	data, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("expected no color codes, got %q", data)
	}
	if !strings.Contains(string(data), "plain") {
		t.Errorf("expected message, got %q", data)
	}
}
