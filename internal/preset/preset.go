// Package preset persists named cleaning configurations as JSON files so
// recurring jobs can be replayed without retyping filter lists. One file per
// preset under a configurable directory.
package preset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tsclean/internal/cleanse"
)

// Version is written into every preset file for forward compatibility.
const Version = "1.2.0"

// Preset is a saved set of cleaning options.
type Preset struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Version     string          `json:"version"`
	Settings    cleanse.Options `json:"settings"`
}

// Store reads and writes presets in a single directory.
type Store struct {
	dir string
}

// NewStore creates the preset directory if needed and returns a store.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".tsclean", "presets")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating preset directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// safeName strips everything but letters, digits, spaces, dashes and
// underscores so preset names are usable as file names.
func safeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func (s *Store) path(name string) (string, error) {
	safe := safeName(name)
	if safe == "" {
		return "", fmt.Errorf("preset name %q contains no usable characters", name)
	}
	return filepath.Join(s.dir, safe+".json"), nil
}

// Save writes a preset, overwriting any existing preset of the same name.
func (s *Store) Save(name, description string, settings cleanse.Options) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	p := Preset{
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		Version:     Version,
		Settings:    settings,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding preset %q: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset %q: %w", name, err)
	}
	return nil
}

// Load reads a preset by name, or by path if the argument points at an
// existing file.
func (s *Store) Load(nameOrPath string) (*Preset, error) {
	path := nameOrPath
	if _, err := os.Stat(path); err != nil {
		p, perr := s.path(nameOrPath)
		if perr != nil {
			return nil, perr
		}
		path = p
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset %q: %w", nameOrPath, err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding preset %q: %w", nameOrPath, err)
	}
	return &p, nil
}

// List returns all presets sorted by name. Unreadable files are skipped.
func (s *Store) List() ([]Preset, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	var presets []Preset
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		p, err := s.Load(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		presets = append(presets, *p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

// Delete removes a preset by name.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting preset %q: %w", name, err)
	}
	return nil
}
