package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides the config file path.
const EnvConfigPath = "TRAILSENSE_CONFIG"

// DefaultPath is the config file used when nothing else is given.
const DefaultPath = "configs/trailsense.yaml"

// Config holds the application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Tracking TrackingConfig `yaml:"tracking"`
	Replay   ReplayConfig   `yaml:"replay"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
	Events LogSettings `yaml:"events"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// TrackingConfig holds the off-path thresholds.
type TrackingConfig struct {
	// OffPathThreshold is how far from the trail an observer must be before a
	// correction is reported.
	OffPathThreshold Distance `yaml:"off_path_threshold" validate:"gte=0"`
	// ProximityThreshold is the displacement needed to move the travel anchor.
	ProximityThreshold Distance `yaml:"proximity_threshold" validate:"gte=0"`
}

// ReplayConfig holds settings for replaying recorded tracks.
type ReplayConfig struct {
	// Interval is the pause between samples. Zero replays as fast as possible.
	Interval Duration `yaml:"interval" validate:"gte=0"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Events: LogSettings{
				Path:  "./logs/events.log",
				Level: "INFO",
			},
		},
		Tracking: TrackingConfig{
			OffPathThreshold:   Distance(5),
			ProximityThreshold: Distance(10),
		},
		Replay: ReplayConfig{
			Interval: Duration(0),
		},
	}
}

var validate = validator.New()

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, values from it are merged over the defaults and the file is left untouched.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}
	return cfg, nil
}

// ResolvePath returns the config path from the environment, or fallback.
func ResolvePath(fallback string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return fallback
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# TrailSense Configuration
# ------------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), ft (feet), nm (nautical miles)

`)
	data = append(header, data...)

	reLevel := regexp.MustCompile(`(?m)^(\s+)level:`)
	data = reLevel.ReplaceAll(data, []byte("${1}# Options: DEBUG, INFO, WARN, ERROR\n${1}level:"))

	reProx := regexp.MustCompile(`(?m)^(\s+)proximity_threshold:`)
	data = reProx.ReplaceAll(data, []byte("${1}# Minimum movement before the direction-of-travel anchor moves\n${1}proximity_threshold:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}

// IntervalDuration returns the replay interval as a time.Duration.
func (r ReplayConfig) IntervalDuration() time.Duration {
	return time.Duration(r.Interval)
}
