// Package store is the persistence gateway for the blackjack engine. The
// engine only ever calls Load and Save; how the state reaches disk is this
// package's business.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dissidentcode/blackjack/internal/fileutil"
)

// StartingBalance is the bankroll a fresh (or bankrupt) player starts with.
const StartingBalance = 500

// Stats are the lifetime counters persisted across sessions. They only ever
// move up, at round resolution.
type Stats struct {
	HandsPlayed int `json:"handsPlayed"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Pushes      int `json:"pushes"`
	Blackjacks  int `json:"blackjacks"`
	BiggestWin  int `json:"biggestWin"`
}

// State is everything that survives a session: bankroll, the last bet placed
// (for rebet), and the lifetime stats.
type State struct {
	Balance int   `json:"balance"`
	LastBet int   `json:"lastBet"`
	Stats   Stats `json:"stats"`
}

// DefaultState returns the state a brand new player starts from.
func DefaultState() State {
	return State{Balance: StartingBalance}
}

// Store loads and saves engine state. Load never fails the game: absent or
// corrupt data degrades to defaults.
type Store interface {
	Load() (State, error)
	Save(State) error
}

// MemoryStore keeps state in memory. Used by tests and the simulator.
type MemoryStore struct {
	state State
	saves int
}

// NewMemoryStore creates a memory store seeded with the default state.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: DefaultState()}
}

// Load returns the current in-memory state.
func (m *MemoryStore) Load() (State, error) {
	return m.state, nil
}

// Save replaces the in-memory state.
func (m *MemoryStore) Save(s State) error {
	m.state = s
	m.saves++
	return nil
}

// Saves returns how many times Save has been called, for test assertions.
func (m *MemoryStore) Saves() int {
	return m.saves
}

// FileStore persists state as a single JSON document, written atomically so a
// crash mid-save never leaves a truncated file behind.
type FileStore struct {
	path string
}

// NewFileStore creates a file store at path, creating parent directories as
// needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the state file. A missing file, unparseable JSON, or a
// non-positive balance all fall back to defaults rather than failing; the
// returned error is informational only and the State is always usable.
func (f *FileStore) Load() (State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultState(), nil
		}
		return DefaultState(), fmt.Errorf("failed to read state file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultState(), fmt.Errorf("failed to parse state file: %w", err)
	}
	if s.Balance <= 0 {
		s.Balance = StartingBalance
	}
	if s.LastBet < 0 {
		s.LastBet = 0
	}
	return s, nil
}

// Save writes the state file atomically.
func (f *FileStore) Save(s State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	return fileutil.WriteFileAtomic(f.path, data, 0o644)
}
