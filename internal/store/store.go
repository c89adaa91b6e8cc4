// Package store persists saved label layouts as JSON files, one per label
// size, under the user configuration directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"labelpress/internal/model"
)

const fileVersion = 1

// fileFormat is the on-disk envelope around a saved layout.
type fileFormat struct {
	Version  int           `json:"version"`
	Modified time.Time     `json:"modified"`
	Layout   *model.Layout `json:"layout"`
}

// Store reads and writes saved layouts in a single directory.
type Store struct {
	dir string
}

// Open returns a store rooted at the user config directory
// (~/.config/labelpress on Linux), creating it if needed.
func Open() (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	dir := filepath.Join(configDir, "labelpress")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// OpenAt returns a store rooted at an explicit directory. Used by tests and
// by the proof-sheet CLI.
func OpenAt(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(sizeID string) string {
	return filepath.Join(s.dir, "layout-"+sizeID+".json")
}

// Load returns the saved layout for the given label size, or nil when none
// has been saved yet.
func (s *Store) Load(sizeID string) (*model.Layout, error) {
	data, err := os.ReadFile(s.path(sizeID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", sizeID, err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", sizeID, err)
	}
	if f.Layout == nil {
		return nil, fmt.Errorf("layout %s: missing layout body", sizeID)
	}
	return f.Layout, nil
}

// Save writes the layout for its label size. The write goes through a
// temporary file and rename, so a failed save never leaves a corrupt file
// behind and never touches the in-memory layout.
func (s *Store) Save(l *model.Layout) error {
	f := fileFormat{
		Version:  fileVersion,
		Modified: time.Now(),
		Layout:   l,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout %s: %w", l.SizeID, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	tmp := s.path(l.SizeID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write layout %s: %w", l.SizeID, err)
	}
	if err := os.Rename(tmp, s.path(l.SizeID)); err != nil {
		return fmt.Errorf("write layout %s: %w", l.SizeID, err)
	}
	return nil
}

// Exists reports whether a layout has been saved for the given size.
func (s *Store) Exists(sizeID string) bool {
	_, err := os.Stat(s.path(sizeID))
	return err == nil
}
