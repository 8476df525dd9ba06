// Package config loads rundash settings from a YAML file and RUNDASH_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olivier-w/rundash/internal/telemetry"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config contains all rundash settings.
type Config struct {
	// Field configures the simulated drive.
	Field FieldConfig `json:"field" yaml:"field"`

	// Telemetry configures the backend polling panel.
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`

	// Server configures `rundash serve`.
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains settings for the log file.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// FieldConfig configures the field, the LED bar and the frame rate.
type FieldConfig struct {
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Segments int     `json:"segments" yaml:"segments"`

	// FPS is the number of frames per second requested from the terminal
	// program. The simulation does not depend on the exact rate.
	FPS int `json:"fps" yaml:"fps"`
}

// TelemetryConfig configures the telemetry client and poller.
type TelemetryConfig struct {
	// URL is the backend base URL, e.g. http://localhost:8080. Empty disables
	// the telemetry panel.
	URL string `json:"url" yaml:"url"`

	ReadingInterval time.Duration `json:"reading_interval" yaml:"reading_interval"`
	HistoryInterval time.Duration `json:"history_interval" yaml:"history_interval"`
	Timeout         time.Duration `json:"timeout" yaml:"timeout"`
}

// ServerConfig configures the telemetry backend.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`

	// SampleInterval is how often a history record is taken.
	SampleInterval time.Duration `json:"sample_interval" yaml:"sample_interval"`

	// HistorySize is the number of records kept before the oldest is dropped.
	HistorySize int `json:"history_size" yaml:"history_size"`

	// Autostart starts the simulated drive as soon as the server is up.
	Autostart bool `json:"autostart" yaml:"autostart"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	// Level is one of "debug", "info" (default), "warn" or "error".
	Level string `json:"level" yaml:"level"`

	// File is the log file used by the terminal dashboard. Empty means
	// ~/.rundash/rundash.log.
	File string `json:"file" yaml:"file"`
}

// Default returns a Config with the standard dashboard settings.
func Default() *Config {
	return &Config{
		Field: FieldConfig{
			Width:    800,
			Height:   400,
			Segments: 10,
			FPS:      60,
		},
		Telemetry: TelemetryConfig{
			ReadingInterval: 3 * time.Second,
			HistoryInterval: 10 * time.Second,
			Timeout:         2 * time.Second,
		},
		Server: ServerConfig{
			Addr:           "localhost:8080",
			SampleInterval: time.Second,
			HistorySize:    100,
			Autostart:      true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.rundash/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".rundash", "config.yaml"), nil
}

// Load loads configuration from path, or from DefaultPath when path is empty.
// A missing default file is not an error; a missing explicit file is.
// Order: defaults -> config file -> environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil || explicit {
			fileCfg, err := LoadFromFile(path)
			if err != nil {
				return nil, fmt.Errorf("loading config file: %w", err)
			}
			cfg = fileCfg
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file. Fields missing
// from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.Telemetry.URL = expandEnvVars(cfg.Telemetry.URL)

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Field.Width <= 100 || c.Field.Height <= 100 {
		return fmt.Errorf("%w: field must be larger than 100x100, got %gx%g", ErrInvalid, c.Field.Width, c.Field.Height)
	}
	if c.Field.Segments <= 0 {
		return fmt.Errorf("%w: segments must be positive, got %d", ErrInvalid, c.Field.Segments)
	}
	if c.Field.FPS <= 0 || c.Field.FPS > 240 {
		return fmt.Errorf("%w: fps must be between 1 and 240, got %d", ErrInvalid, c.Field.FPS)
	}
	if c.Telemetry.URL != "" {
		if _, err := telemetry.NormalizeURL(c.Telemetry.URL); err != nil {
			return fmt.Errorf("%w: telemetry url: %v", ErrInvalid, err)
		}
	}
	if c.Telemetry.ReadingInterval <= 0 || c.Telemetry.HistoryInterval <= 0 {
		return fmt.Errorf("%w: poll intervals must be positive", ErrInvalid)
	}
	if c.Telemetry.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be non-negative, got %v", ErrInvalid, c.Telemetry.Timeout)
	}
	if c.Server.SampleInterval <= 0 {
		return fmt.Errorf("%w: sample_interval must be positive, got %v", ErrInvalid, c.Server.SampleInterval)
	}
	if c.Server.HistorySize <= 0 {
		return fmt.Errorf("%w: history_size must be positive, got %d", ErrInvalid, c.Server.HistorySize)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("%w: log level %q (valid: debug, info, warn, error)", ErrInvalid, c.Logging.Level)
	}

	return nil
}

// FrameInterval returns the time between frames for the configured FPS.
func (c *Config) FrameInterval() time.Duration {
	if c.Field.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Field.FPS)
}

// LogFile returns the configured log file, defaulting to
// ~/.rundash/rundash.log.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "rundash.log")
	}
	return filepath.Join(home, ".rundash", "rundash.log")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RUNDASH_TELEMETRY_URL"); v != "" {
		cfg.Telemetry.URL = v
	}
	if v := os.Getenv("RUNDASH_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RUNDASH_FPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Field.FPS = n
		}
	}
	if v := os.Getenv("RUNDASH_SEGMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Field.Segments = n
		}
	}
	if v := os.Getenv("RUNDASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("RUNDASH_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
