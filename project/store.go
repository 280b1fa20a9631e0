package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lcxl-sequence/debug"

	"github.com/pkg/errors"
)

const timestampLayout = "2006-01-02_15-04-05"

// SaveInfo represents a saved project file (for listing)
type SaveInfo struct {
	Filename  string
	Name      string // parsed from filename (empty if unnamed)
	Timestamp time.Time
}

// Store keeps projects under Dir/projects and presets under Dir/presets.
type Store struct {
	Dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

// ProjectsDir returns the projects directory path
func (s *Store) ProjectsDir() string {
	return filepath.Join(s.Dir, "projects")
}

// ProjectDir returns the path to a specific project
func (s *Store) ProjectDir(projectName string) string {
	return filepath.Join(s.ProjectsDir(), sanitizeFilename(projectName))
}

// ListProjects returns all project folder names
func (s *Store) ListProjects() ([]string, error) {
	entries, err := os.ReadDir(s.ProjectsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var projects []string
	for _, entry := range entries {
		if entry.IsDir() {
			projects = append(projects, entry.Name())
		}
	}

	sort.Strings(projects)
	return projects, nil
}

// ListSaves returns timestamped saves for a project, newest first
func (s *Store) ListSaves(projectName string) ([]SaveInfo, error) {
	entries, err := os.ReadDir(s.ProjectDir(projectName))
	if err != nil {
		if os.IsNotExist(err) {
			return []SaveInfo{}, nil
		}
		return nil, fmt.Errorf("list saves: %w", err)
	}

	var saves []SaveInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, ok := parseSaveName(entry.Name())
		if !ok {
			continue
		}
		saves = append(saves, info)
	}

	// Sort by timestamp, newest first
	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Timestamp.After(saves[j].Timestamp)
	})

	return saves, nil
}

// parseSaveName reads 2006-01-02_15-04-05.json or 2006-01-02_15-04-05_name.json
func parseSaveName(name string) (SaveInfo, bool) {
	if !strings.HasSuffix(name, ".json") {
		return SaveInfo{}, false
	}
	baseName := strings.TrimSuffix(name, ".json")
	if len(baseName) < len(timestampLayout) {
		return SaveInfo{}, false
	}

	ts, err := time.Parse(timestampLayout, baseName[:len(timestampLayout)])
	if err != nil {
		return SaveInfo{}, false
	}

	saveName := ""
	if rest := baseName[len(timestampLayout):]; len(rest) > 1 && rest[0] == '_' {
		saveName = rest[1:]
	}
	return SaveInfo{Filename: name, Name: saveName, Timestamp: ts}, true
}

// SaveProject writes p as a new timestamped save and returns its filename
func (s *Store) SaveProject(projectName, label string, p Patch) (string, error) {
	if projectName == "" {
		projectName = "untitled"
	}

	dir := s.ProjectDir(projectName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create project dir: %w", err)
	}

	p.Version = Version
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}

	filename := s.now().Format(timestampLayout)
	if label != "" {
		filename += "_" + sanitizeFilename(label)
	}
	filename += ".json"

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("write save: %w", err)
	}
	debug.Log("project", "saved %s/%s", projectName, filename)
	return filename, nil
}

// LoadProject loads a specific save (or most recent if filename empty)
func (s *Store) LoadProject(projectName, filename string) (Patch, error) {
	if filename == "" {
		saves, err := s.ListSaves(projectName)
		if err != nil {
			return Patch{}, err
		}
		if len(saves) == 0 {
			return Patch{}, fmt.Errorf("no saves found in project %s", projectName)
		}
		filename = saves[0].Filename // saves are sorted newest first
	}

	path := filepath.Join(s.ProjectDir(projectName), filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return Patch{}, fmt.Errorf("read save: %w", err)
	}

	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		err = errors.WithStack(err)
		debug.Warn("project", "decode %s: %+v", path, err)
		return Patch{}, fmt.Errorf("decode %s: %w", filename, err)
	}
	if p.Version > Version {
		return Patch{}, fmt.Errorf("save %s has version %d, newest known is %d", filename, p.Version, Version)
	}
	return p, nil
}

// DeleteSave deletes a specific save file
func (s *Store) DeleteSave(projectName, filename string) error {
	return os.Remove(filepath.Join(s.ProjectDir(projectName), filename))
}

// RenameSave renames a save file (changes the name part, keeps timestamp)
func (s *Store) RenameSave(projectName, oldFilename, newName string) (string, error) {
	info, ok := parseSaveName(oldFilename)
	if !ok {
		return "", fmt.Errorf("invalid save filename %q", oldFilename)
	}

	newFilename := info.Timestamp.Format(timestampLayout)
	if newName != "" {
		newFilename += "_" + sanitizeFilename(newName)
	}
	newFilename += ".json"

	dir := s.ProjectDir(projectName)
	if err := os.Rename(filepath.Join(dir, oldFilename), filepath.Join(dir, newFilename)); err != nil {
		return "", err
	}
	return newFilename, nil
}

// DeleteProject deletes entire project folder
func (s *Store) DeleteProject(name string) error {
	return os.RemoveAll(s.ProjectDir(name))
}

// sanitizeFilename removes/replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	return strings.NewReplacer(
		" ", "-", "/", "-", "\\", "-", ":", "-",
		"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	).Replace(name)
}
