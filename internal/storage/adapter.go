// ABOUTME: Persistence adapter contract for the serialized note collection.
// ABOUTME: Provides the backend factory, XDG data paths, and an in-memory adapter.

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Key is the fixed namespace key the collection is stored under.
const Key = "notes"

const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var (
	ErrNotFound       = errors.New("no saved collection")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Adapter is schema-agnostic byte storage for a single collection snapshot.
// Load returns ErrNotFound when nothing has been saved yet. Save replaces the
// previous snapshot atomically.
type Adapter interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Close() error
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendFile, BackendBadger, BackendSQLite, BackendMemory}
}

// Open returns the adapter for backend rooted at dataDir.
func Open(backend, dataDir string) (Adapter, error) {
	switch backend {
	case BackendFile, "":
		return NewFile(filepath.Join(dataDir, Key+".json")), nil
	case BackendBadger:
		return OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "quicknote.db"))
	case BackendMemory:
		return NewMemory(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "quicknote")
}

// Memory keeps the snapshot in process memory.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns a Memory adapter preloaded with data. A nil data means
// nothing has been saved.
func NewMemory(data []byte) *Memory {
	return &Memory{data: slices.Clone(data)}
}

func (m *Memory) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return slices.Clone(m.data), nil
}

func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = slices.Clone(data)
	if m.data == nil {
		m.data = []byte{}
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
