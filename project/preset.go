package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset is one lane's settings stored by name.
type Preset struct {
	Name string    `yaml:"name"`
	Lane LanePatch `yaml:"lane"`
}

// PresetsDir returns the presets directory path
func (s *Store) PresetsDir() string {
	return filepath.Join(s.Dir, "presets")
}

func (s *Store) presetPath(name string) string {
	return filepath.Join(s.PresetsDir(), sanitizeFilename(name)+".yaml")
}

// SavePreset writes a lane preset, replacing one of the same name
func (s *Store) SavePreset(name string, lane LanePatch) error {
	if name == "" {
		return fmt.Errorf("preset needs a name")
	}
	if err := os.MkdirAll(s.PresetsDir(), 0755); err != nil {
		return fmt.Errorf("create presets dir: %w", err)
	}
	data, err := yaml.Marshal(Preset{Name: name, Lane: lane})
	if err != nil {
		return err
	}
	return os.WriteFile(s.presetPath(name), data, 0644)
}

// LoadPreset reads a lane preset by name
func (s *Store) LoadPreset(name string) (LanePatch, error) {
	data, err := os.ReadFile(s.presetPath(name))
	if err != nil {
		return LanePatch{}, fmt.Errorf("read preset: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return LanePatch{}, fmt.Errorf("decode preset %s: %w", name, err)
	}
	return p.Lane, nil
}

// ListPresets returns preset names, sorted
func (s *Store) ListPresets() ([]string, error) {
	entries, err := os.ReadDir(s.PresetsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list presets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}
