// Package config loads the static deployment configuration the warehouse core
// is rebuilt from on every process start. There is no persisted state beyond
// this file; restarting the process resets every room to empty.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"godowncore/pkg/domain"
)

// Config is the top-level configuration document.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`
	Rooms   []RoomConfig  `yaml:"rooms"`
}

// LoggingConfig selects the host log level and encoder.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// RoomConfig declares one storage room grid.
type RoomConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Code string `yaml:"code"`
	Rows int    `yaml:"rows"`
	Cols int    `yaml:"cols"`
}

// Default returns the built-in deployment: the three godowns of the transport
// depot, matching the static layout the application ships with.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		History: HistoryConfig{Limit: 10},
		Rooms: []RoomConfig{
			{ID: "godown-a", Name: "Godown A", Code: "GA", Rows: 10, Cols: 10},
			{ID: "godown-b", Name: "Godown B", Code: "GB", Rows: 8, Cols: 12},
			{ID: "godown-c", Name: "Godown C", Code: "GC", Rows: 6, Cols: 8},
		},
	}
}

// Load reads and validates a configuration file. Fields left empty fall back
// to the Default values for logging and history; rooms must be declared in
// full.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	defaults := Default()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Logging.Format
	}
	if cfg.History.Limit == 0 {
		cfg.History.Limit = defaults.History.Limit
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for the errors the registry would reject
// later, so a bad file fails fast with a config-shaped message.
func (c Config) Validate() error {
	if len(c.Rooms) == 0 {
		return fmt.Errorf("config: at least one room is required")
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("config: history limit must not be negative")
	}
	ids := make(map[string]bool, len(c.Rooms))
	codes := make(map[string]bool, len(c.Rooms))
	for _, room := range c.Rooms {
		if room.ID == "" || room.Code == "" {
			return fmt.Errorf("config: room %q/%q: id and code are required", room.ID, room.Code)
		}
		if room.Rows <= 0 || room.Cols <= 0 {
			return fmt.Errorf("config: room %q: invalid dimensions %dx%d", room.ID, room.Rows, room.Cols)
		}
		if ids[room.ID] {
			return fmt.Errorf("config: room %q: duplicate id", room.ID)
		}
		if codes[room.Code] {
			return fmt.Errorf("config: room %q: duplicate code %q", room.ID, room.Code)
		}
		ids[room.ID] = true
		codes[room.Code] = true
	}
	return nil
}

// DomainRooms converts the room declarations to domain entities.
func (c Config) DomainRooms() []domain.Room {
	rooms := make([]domain.Room, 0, len(c.Rooms))
	for _, room := range c.Rooms {
		name := room.Name
		if name == "" {
			name = room.ID
		}
		rooms = append(rooms, domain.Room{
			ID:   room.ID,
			Name: name,
			Code: room.Code,
			Rows: room.Rows,
			Cols: room.Cols,
		})
	}
	return rooms
}
