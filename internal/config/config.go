package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in a project directory.
const FileName = "floorplanner.yaml"

// Config holds all floorplanner configuration.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	Building BuildingConfig `yaml:"building"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`

	// baseDir anchors relative data paths; it is the config file's directory.
	baseDir string
}

// DataConfig names the input files.
type DataConfig struct {
	Groups    string `yaml:"groups"`
	Matrix    string `yaml:"matrix"`
	Employees string `yaml:"employees"`
}

// BuildingConfig describes the floors groups are placed on.
type BuildingConfig struct {
	Floors     int      `yaml:"floors"`
	FloorNames []string `yaml:"floor_names"`
	Capacity   int      `yaml:"capacity"`
}

// ScoringConfig tunes derived collaboration data.
type ScoringConfig struct {
	TopLimit int `yaml:"top_limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidLogLevels lists the accepted log.level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Load reads floorplanner.yaml from projectDir, falling back to defaults
// when the file does not exist.
func Load(projectDir string) (*Config, error) {
	return LoadFromPath(filepath.Join(projectDir, FileName))
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	baseDir := filepath.Dir(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.baseDir = baseDir
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	merged.baseDir = baseDir

	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Path resolves a data path relative to the config file's directory.
// Absolute paths and empty strings are returned unchanged.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// SetBaseDir overrides the directory relative data paths resolve against.
func (c *Config) SetBaseDir(dir string) {
	c.baseDir = dir
}

// SlogLevel maps log.level to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// IsValidLogLevel reports whether level is one of ValidLogLevels.
func IsValidLogLevel(level string) bool {
	for _, l := range ValidLogLevels {
		if strings.EqualFold(level, l) {
			return true
		}
	}
	return false
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if cfg.Building.Floors <= 0 {
		return fmt.Errorf("%w: building.floors must be positive, got %d",
			ErrInvalidConfig, cfg.Building.Floors)
	}
	if len(cfg.Building.FloorNames) > cfg.Building.Floors {
		return fmt.Errorf("%w: %d floor_names for %d floors",
			ErrInvalidConfig, len(cfg.Building.FloorNames), cfg.Building.Floors)
	}
	if cfg.Building.Capacity <= 0 {
		return fmt.Errorf("%w: building.capacity must be positive, got %d",
			ErrInvalidConfig, cfg.Building.Capacity)
	}
	if cfg.Scoring.TopLimit <= 0 {
		return fmt.Errorf("%w: scoring.top_limit must be positive, got %d",
			ErrInvalidConfig, cfg.Scoring.TopLimit)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port must be in 1-65535, got %d",
			ErrInvalidConfig, cfg.Server.Port)
	}
	if !IsValidLogLevel(cfg.Log.Level) {
		return fmt.Errorf("%w: log.level must be one of %v, got %q",
			ErrInvalidConfig, ValidLogLevels, cfg.Log.Level)
	}
	return nil
}
