package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// FileName is the history file inside the data directory.
const FileName = "history.json"

// Store reads and rewrites history.json. Every mutation rewrites the file
// wholesale.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the location of history.json.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Load returns the stored history. A missing or unreadable document yields
// an empty history.
func (s *Store) Load() (*History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Add records a translation and persists the result.
func (s *Store) Add(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.load()
	if err != nil {
		return err
	}
	h.Add(e)
	return s.save(h)
}

// Clear replaces the history with an empty one.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(&History{Entries: []Entry{}})
}

func (s *Store) load() (*History, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return &History{Entries: []Entry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		log.Warn().Err(err).Str("path", s.Path()).Msg("history file unreadable, starting empty")
		return &History{Entries: []Entry{}}, nil
	}
	if h.Entries == nil {
		h.Entries = []Entry{}
	}
	return &h, nil
}

func (s *Store) save(h *History) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := os.WriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
