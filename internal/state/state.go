// Package state persists UI preferences between runs. It never stores
// note data.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State holds persistent user preferences.
type State struct {
	Notes NotesState `json:"notes,omitempty"`
}

// NotesState holds notes view preferences.
type NotesState struct {
	Markdown *bool `json:"markdown,omitempty"` // nil = follow config
	PerPage  int   `json:"perPage,omitempty"`  // 0 = follow config
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "notehub"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	mu.Lock()
	path = filepath.Join(dir, "state.json")
	mu.Unlock()
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = &State{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, current)
}

// Save writes state to disk. It is a no-op before Init.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil || path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetMarkdown returns the saved markdown toggle, or def when unset.
func GetMarkdown(def bool) bool {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil || current.Notes.Markdown == nil {
		return def
	}
	return *current.Notes.Markdown
}

// SetMarkdown saves the markdown toggle.
func SetMarkdown(on bool) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	current.Notes.Markdown = &on
	mu.Unlock()
	return Save()
}

// GetPerPage returns the saved page size, or def when unset.
func GetPerPage(def int) int {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil || current.Notes.PerPage <= 0 {
		return def
	}
	return current.Notes.PerPage
}

// SetPerPage saves the page size.
func SetPerPage(n int) error {
	mu.Lock()
	if current == nil {
		current = &State{}
	}
	current.Notes.PerPage = n
	mu.Unlock()
	return Save()
}
