package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"InnKeeper/internal/inn"
	"InnKeeper/internal/mission"
	"InnKeeper/internal/save"
)

const (
	minTickInterval     = 50 * time.Millisecond
	minAutosaveInterval = time.Second
)

// Config is the resolved server configuration.
type Config struct {
	Addr             string
	TickInterval     time.Duration
	CatalogPath      string
	SaveDir          string
	SaveSlot         string
	SaveFormat       save.Format
	AutosaveInterval time.Duration // zero disables autosave
	Seed             int64         // zero seeds from the clock
	Inn              inn.State
}

// DefaultConfig is a one-minute-per-hour inn with a fresh roster.
func DefaultConfig() Config {
	return Config{
		Addr:             ":8080",
		TickInterval:     time.Minute,
		SaveDir:          ".saves",
		SaveSlot:         "autosave",
		SaveFormat:       save.FormatYAML,
		AutosaveInterval: 5 * time.Minute,
		Inn:              inn.DefaultState(),
	}
}

type innConfig struct {
	Level      *int           `yaml:"level"`
	Silver     *int           `yaml:"silver"`
	Reputation *int           `yaml:"reputation"`
	Player     map[string]int `yaml:"player"`
	Staff      []inn.Employee `yaml:"staff"`
}

type fileConfig struct {
	Addr             *string        `yaml:"addr"`
	TickInterval     *time.Duration `yaml:"tickInterval"`
	CatalogPath      *string        `yaml:"catalog"`
	SaveDir          *string        `yaml:"saveDir"`
	SaveSlot         *string        `yaml:"saveSlot"`
	SaveFormat       *string        `yaml:"saveFormat"`
	AutosaveInterval *time.Duration `yaml:"autosaveInterval"`
	Seed             *int64         `yaml:"seed"`
	Inn              *innConfig     `yaml:"inn"`
}

// Overrides are optional command-line settings applied over the file.
type Overrides struct {
	Addr             *string
	TickInterval     *time.Duration
	CatalogPath      *string
	SaveDir          *string
	SaveSlot         *string
	SaveFormat       *string
	AutosaveInterval *time.Duration
	Seed             *int64
}

func (o Overrides) apply(base Config) (Config, error) {
	return mergeConfig(base, &fileConfig{
		Addr:             o.Addr,
		TickInterval:     o.TickInterval,
		CatalogPath:      o.CatalogPath,
		SaveDir:          o.SaveDir,
		SaveSlot:         o.SaveSlot,
		SaveFormat:       o.SaveFormat,
		AutosaveInterval: o.AutosaveInterval,
		Seed:             o.Seed,
	})
}

func mergeConfig(base Config, cfg *fileConfig) (Config, error) {
	if cfg == nil {
		return base, nil
	}
	if cfg.Addr != nil {
		base.Addr = *cfg.Addr
	}
	if cfg.TickInterval != nil {
		base.TickInterval = *cfg.TickInterval
	}
	if cfg.CatalogPath != nil {
		base.CatalogPath = *cfg.CatalogPath
	}
	if cfg.SaveDir != nil {
		base.SaveDir = *cfg.SaveDir
	}
	if cfg.SaveSlot != nil {
		base.SaveSlot = *cfg.SaveSlot
	}
	if cfg.SaveFormat != nil {
		format, err := save.ParseFormat(*cfg.SaveFormat)
		if err != nil {
			return base, err
		}
		base.SaveFormat = format
	}
	if cfg.AutosaveInterval != nil {
		base.AutosaveInterval = *cfg.AutosaveInterval
	}
	if cfg.Seed != nil {
		base.Seed = *cfg.Seed
	}
	if c := cfg.Inn; c != nil {
		if c.Level != nil {
			base.Inn.Level = *c.Level
		}
		if c.Silver != nil {
			base.Inn.Silver = *c.Silver
		}
		if c.Reputation != nil {
			base.Inn.Reputation = *c.Reputation
		}
		if len(c.Player) > 0 {
			base.Inn.Player = make(map[mission.Attribute]int, len(c.Player))
			for k, v := range c.Player {
				base.Inn.Player[mission.Attribute(k)] = v
			}
		}
		if c.Staff != nil {
			base.Inn.Staff = c.Staff
		}
	}
	return base, nil
}

// sanitize clamps intervals and fills empty required fields.
func sanitize(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.TickInterval < minTickInterval {
		cfg.TickInterval = minTickInterval
	}
	if cfg.AutosaveInterval < 0 {
		cfg.AutosaveInterval = 0
	}
	if cfg.AutosaveInterval > 0 && cfg.AutosaveInterval < minAutosaveInterval {
		cfg.AutosaveInterval = minAutosaveInterval
	}
	if cfg.SaveFormat == "" {
		cfg.SaveFormat = def.SaveFormat
	}
	if cfg.SaveSlot == "" {
		cfg.SaveSlot = def.SaveSlot
	}
	return cfg
}

// LoadConfig reads the YAML file at path over the defaults, then applies
// overrides. A missing file is not an error.
func LoadConfig(path string, overrides Overrides) (Config, error) {
	cfg, err := loadConfigFile(path, DefaultConfig())
	if err != nil {
		return sanitize(cfg), err
	}
	cfg, err = overrides.apply(cfg)
	return sanitize(cfg), err
}

func loadConfigFile(path string, base Config) (Config, error) {
	if path == "" {
		return base, nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return base, fmt.Errorf("read config %q: %w", cleanPath, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config %q: %w", cleanPath, err)
	}
	merged, err := mergeConfig(base, &cfg)
	if err != nil {
		return base, fmt.Errorf("config %q: %w", cleanPath, err)
	}
	return merged, nil
}
