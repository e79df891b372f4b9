// Package config holds the workspace-core settings and their YAML
// persistence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Playback speed bounds in milliseconds per step. Values outside the
// range clamp rather than error.
const (
	MinPlaybackSpeedMS     = 200
	MaxPlaybackSpeedMS     = 2000
	DefaultPlaybackSpeedMS = 1000
)

type Config struct {
	// DBPath is the SQLite file backing the local progress store.
	DBPath string `yaml:"db_path"`
	// ServiceBaseURL is the backend serving the visualizer and progress
	// APIs.
	ServiceBaseURL string `yaml:"service_base_url"`
	// RequestTimeoutSeconds bounds ordinary service calls.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
	// AITimeoutSeconds bounds AI-backed calls, which run longer.
	AITimeoutSeconds int `yaml:"ai_timeout_seconds"`
	// PlaybackSpeedMS is the initial autoplay interval.
	PlaybackSpeedMS int `yaml:"playback_speed_ms"`
	// SessionAveragePolicy selects how still-active sessions enter the
	// average-duration metric: "count-as-zero" (default) or
	// "exclude-active".
	SessionAveragePolicy string `yaml:"session_average_policy"`
}

func DefaultConfig() Config {
	return Config{
		DBPath:                defaultDBPath(),
		ServiceBaseURL:        "https://justcoding.onrender.com",
		RequestTimeoutSeconds: 45,
		AITimeoutSeconds:      60,
		PlaybackSpeedMS:       DefaultPlaybackSpeedMS,
		SessionAveragePolicy:  "count-as-zero",
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "justcode.db"
	}
	return filepath.Join(home, ".local", "state", "justcode", "progress.db")
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSeconds) * time.Second
}

// PlaybackSpeed returns the configured autoplay interval clamped to the
// supported range.
func (c Config) PlaybackSpeed() time.Duration {
	ms := c.PlaybackSpeedMS
	if ms < MinPlaybackSpeedMS {
		ms = MinPlaybackSpeedMS
	}
	if ms > MaxPlaybackSpeedMS {
		ms = MaxPlaybackSpeedMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Load reads the config at path. A missing file yields DefaultConfig;
// fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories as
// needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
