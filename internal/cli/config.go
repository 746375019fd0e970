package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds settings loaded from an optional TOML config file.
// Flags always override config values; the config file overrides built-in
// defaults. Zero values mean "not set".
type Config struct {
	Infill InfillConfig `toml:"infill"`
	Gcode  GcodeConfig  `toml:"gcode"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// InfillConfig mirrors the generation parameters, in micrometers.
type InfillConfig struct {
	LineWidth              int64 `toml:"line_width"`
	SupportingRadius       int64 `toml:"supporting_radius"`
	PruneLength            int64 `toml:"prune_length"`
	StraighteningMagnitude int64 `toml:"straightening_magnitude"`
}

// GcodeConfig mirrors the G-code output parameters, in millimeters.
type GcodeConfig struct {
	LayerHeight      float64 `toml:"layer_height"`
	ExtrusionWidth   float64 `toml:"extrusion_width"`
	FilamentDiameter float64 `toml:"filament_diameter"`
	PrintSpeed       float64 `toml:"print_speed"`
	TravelSpeed      float64 `toml:"travel_speed"`
}

// CacheConfig selects the cache backend. When RedisAddr is set the Redis
// backend is used, otherwise a file cache in Dir (or the XDG default).
type CacheConfig struct {
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServeConfig holds HTTP server settings.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// loadConfig reads and parses a TOML config file. When path is empty it
// looks for the default config location and returns an empty config if
// none exists. An explicit path that cannot be read is an error.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// defaultConfigPath returns the XDG config location (~/.config/lightning/config.toml).
func defaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// applyConfig copies non-zero config values into unset option fields.
func applyConfig(opts *optionsFromFlags, cfg *Config) {
	if cfg == nil {
		return
	}
	if opts.lineWidth == 0 {
		opts.lineWidth = cfg.Infill.LineWidth
	}
	if opts.supportingRadius == 0 {
		opts.supportingRadius = cfg.Infill.SupportingRadius
	}
	if opts.pruneLength == 0 {
		opts.pruneLength = cfg.Infill.PruneLength
	}
	if opts.straightening == 0 {
		opts.straightening = cfg.Infill.StraighteningMagnitude
	}
	if opts.layerHeight == 0 {
		opts.layerHeight = cfg.Gcode.LayerHeight
	}
	if opts.extrusionWidth == 0 {
		opts.extrusionWidth = cfg.Gcode.ExtrusionWidth
	}
	if opts.filamentDiameter == 0 {
		opts.filamentDiameter = cfg.Gcode.FilamentDiameter
	}
	if opts.printSpeed == 0 {
		opts.printSpeed = cfg.Gcode.PrintSpeed
	}
	if opts.travelSpeed == 0 {
		opts.travelSpeed = cfg.Gcode.TravelSpeed
	}
}
