package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Unpatched marks a gate note that is not mapped.
const Unpatched = -1

// ControllerConfig selects the control surface
type ControllerConfig struct {
	PortMatch   string `json:"portMatch"` // case-insensitive substring of the port name
	AutoConnect bool   `json:"autoConnect"`
	Channel     int    `json:"channel"`  // 1-16
	Template    int    `json:"template"` // 0-15, factory template 1 is 8
}

// ClockConfig maps gate input notes to clock and reset jacks
type ClockConfig struct {
	PortMatch   string  `json:"portMatch,omitempty"`
	ClockA      int     `json:"clockA"`
	ClockB      int     `json:"clockB"`
	Reset       int     `json:"reset"`
	LaneA       [8]int  `json:"laneA"`
	LaneB       [8]int  `json:"laneB"`
	InternalBPM float64 `json:"internalBpm"` // 0 = off
}

// Expander reports whether any per-lane clock note is mapped
func (c ClockConfig) Expander() bool {
	for i := range c.LaneA {
		if c.LaneA[i] != Unpatched || c.LaneB[i] != Unpatched {
			return true
		}
	}
	return false
}

// EngineConfig tunes the processing loop
type EngineConfig struct {
	TickRate   int      `json:"tickRate"`   // ticks per second
	OutputLane int      `json:"outputLane"` // 0 = follow view
	Seed       int64    `json:"seed,omitempty"`
	Satellites []string `json:"satellites"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	LastProject string `json:"lastProject,omitempty"`
	Palette     string `json:"palette,omitempty"` // path to a .gpl file
}

// Config is the main configuration structure
type Config struct {
	Controller ControllerConfig `json:"controller"`
	Clock      ClockConfig      `json:"clock"`
	Engine     EngineConfig     `json:"engine"`
	UI         UIConfig         `json:"ui,omitempty"`
	Debug      bool             `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{
		Controller: ControllerConfig{
			PortMatch:   "launch control xl",
			AutoConnect: true,
			Channel:     9,
			Template:    8,
		},
		Clock: ClockConfig{
			ClockA:      Unpatched,
			ClockB:      Unpatched,
			Reset:       Unpatched,
			InternalBPM: 120,
		},
		Engine: EngineConfig{
			TickRate:   1000,
			Satellites: []string{"gate", "seq", "steps", "info"},
		},
	}
	for i := range cfg.Clock.LaneA {
		cfg.Clock.LaneA[i] = Unpatched
		cfg.Clock.LaneB[i] = Unpatched
	}
	return cfg
}

// Validate clamps out-of-range fields back to usable values
func (c *Config) Validate() {
	if c.Controller.Channel < 1 || c.Controller.Channel > 16 {
		c.Controller.Channel = 9
	}
	if c.Controller.Template < 0 || c.Controller.Template > 15 {
		c.Controller.Template = 8
	}
	if c.Engine.TickRate < 100 {
		c.Engine.TickRate = 100
	}
	if c.Engine.TickRate > 48000 {
		c.Engine.TickRate = 48000
	}
	if c.Engine.OutputLane < 0 || c.Engine.OutputLane > 8 {
		c.Engine.OutputLane = 0
	}
	if c.Clock.InternalBPM < 0 {
		c.Clock.InternalBPM = 0
	}
	note := func(n *int) {
		if *n < Unpatched || *n > 127 {
			*n = Unpatched
		}
	}
	note(&c.Clock.ClockA)
	note(&c.Clock.ClockB)
	note(&c.Clock.Reset)
	for i := range c.Clock.LaneA {
		note(&c.Clock.LaneA[i])
		note(&c.Clock.LaneB[i])
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lcxl-sequence"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Fields missing from the file keep
// their defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Validate()

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path
func (c *Config) SaveTo(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// MIDIChannel is the controller channel as a 0-based wire value
func (c *Config) MIDIChannel() uint8 {
	return uint8(c.Controller.Channel - 1)
}
