package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the application configuration
type Config struct {
	Display  DisplayConfig  `json:"display"`
	Fusion   FusionConfig   `json:"fusion"`
	Playback PlaybackConfig `json:"playback"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit    string `json:"distance_unit"`    // "mi" or "km"
	TemperatureUnit string `json:"temperature_unit"` // "f" or "c"
}

// FusionConfig holds the stream fusion tuning knobs. The defaults are
// right for Suunto exports; other watches may need different overlay
// tolerances.
type FusionConfig struct {
	MetricWindowSec   int     `json:"metric_window_sec"`
	HRToleranceSec    int     `json:"hr_tolerance_sec"`
	MovingThreshold   float64 `json:"moving_threshold"` // m/s
	SmoothWindow      int     `json:"smooth_window"`
	MetricIntervalSec int     `json:"metric_interval_sec"`
	HRIntervalSec     int     `json:"hr_interval_sec"`
	TrackCap          int     `json:"track_cap"`
}

// PlaybackConfig holds playback timing preferences
type PlaybackConfig struct {
	ResampleIntervalMs int `json:"resample_interval_ms"`
	BaseTickMs         int `json:"base_tick_ms"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			DistanceUnit:    "mi",
			TemperatureUnit: "f",
		},
		Fusion: FusionConfig{
			MetricWindowSec:   5,
			HRToleranceSec:    60,
			MovingThreshold:   0.3,
			SmoothWindow:      5,
			MetricIntervalSec: 10,
			HRIntervalSec:     30,
			TrackCap:          4000,
		},
		Playback: PlaybackConfig{
			ResampleIntervalMs: 5000,
			BaseTickMs:         5000,
		},
	}
}

// Load reads the configuration from ~/.trailplay/config.json, falling
// back to defaults when the file doesn't exist.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if cfg.Display.TemperatureUnit == "" {
		cfg.Display.TemperatureUnit = defaults.Display.TemperatureUnit
	}
	if cfg.Fusion.MetricWindowSec == 0 {
		cfg.Fusion.MetricWindowSec = defaults.Fusion.MetricWindowSec
	}
	if cfg.Fusion.HRToleranceSec == 0 {
		cfg.Fusion.HRToleranceSec = defaults.Fusion.HRToleranceSec
	}
	if cfg.Fusion.MovingThreshold == 0 {
		cfg.Fusion.MovingThreshold = defaults.Fusion.MovingThreshold
	}
	if cfg.Fusion.SmoothWindow == 0 {
		cfg.Fusion.SmoothWindow = defaults.Fusion.SmoothWindow
	}
	if cfg.Fusion.MetricIntervalSec == 0 {
		cfg.Fusion.MetricIntervalSec = defaults.Fusion.MetricIntervalSec
	}
	if cfg.Fusion.HRIntervalSec == 0 {
		cfg.Fusion.HRIntervalSec = defaults.Fusion.HRIntervalSec
	}
	if cfg.Fusion.TrackCap == 0 {
		cfg.Fusion.TrackCap = defaults.Fusion.TrackCap
	}
	if cfg.Playback.ResampleIntervalMs == 0 {
		cfg.Playback.ResampleIntervalMs = defaults.Playback.ResampleIntervalMs
	}
	if cfg.Playback.BaseTickMs == 0 {
		cfg.Playback.BaseTickMs = defaults.Playback.BaseTickMs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Display.DistanceUnit != "mi" && c.Display.DistanceUnit != "km" {
		return fmt.Errorf("invalid distance_unit %q: must be \"mi\" or \"km\"", c.Display.DistanceUnit)
	}
	if c.Display.TemperatureUnit != "f" && c.Display.TemperatureUnit != "c" {
		return fmt.Errorf("invalid temperature_unit %q: must be \"f\" or \"c\"", c.Display.TemperatureUnit)
	}
	if c.Fusion.MetricWindowSec < 0 {
		return fmt.Errorf("invalid metric_window_sec %d: must be >= 0", c.Fusion.MetricWindowSec)
	}
	if c.Fusion.HRToleranceSec < 0 {
		return fmt.Errorf("invalid hr_tolerance_sec %d: must be >= 0", c.Fusion.HRToleranceSec)
	}
	if c.Fusion.MovingThreshold < 0 {
		return fmt.Errorf("invalid moving_threshold %v: must be >= 0", c.Fusion.MovingThreshold)
	}
	if c.Playback.ResampleIntervalMs <= 0 {
		return fmt.Errorf("invalid resample_interval_ms %d: must be > 0", c.Playback.ResampleIntervalMs)
	}
	if c.Playback.BaseTickMs <= 0 {
		return fmt.Errorf("invalid base_tick_ms %d: must be > 0", c.Playback.BaseTickMs)
	}
	return nil
}

// Save writes the configuration to ~/.trailplay/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// MetricWindow returns the fusion overlay window as a duration.
func (c *Config) MetricWindow() time.Duration {
	return time.Duration(c.Fusion.MetricWindowSec) * time.Second
}

// HRTolerance returns the heart-rate match tolerance as a duration.
func (c *Config) HRTolerance() time.Duration {
	return time.Duration(c.Fusion.HRToleranceSec) * time.Second
}

// MetricInterval returns the decoder's multi-metric overlay spacing.
func (c *Config) MetricInterval() time.Duration {
	return time.Duration(c.Fusion.MetricIntervalSec) * time.Second
}

// HRInterval returns the decoder's heart-rate overlay spacing.
func (c *Config) HRInterval() time.Duration {
	return time.Duration(c.Fusion.HRIntervalSec) * time.Second
}

// ResampleInterval returns the playback grid spacing as a duration.
func (c *Config) ResampleInterval() time.Duration {
	return time.Duration(c.Playback.ResampleIntervalMs) * time.Millisecond
}

// BaseTick returns the wall-clock duration of one point at 1x speed.
func (c *Config) BaseTick() time.Duration {
	return time.Duration(c.Playback.BaseTickMs) * time.Millisecond
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".trailplay", "config.json"), nil
}
