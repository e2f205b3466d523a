package config

import (
	"fmt"
	"os"
	"path/filepath"

	"floatview/pkg/types"

	"github.com/adrg/xdg"
	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It covers the shared state directory both processes coordinate through,
// the viewer's polling and caching parameters, and window defaults.
type Config struct {
	Paths struct {
		StateDir string `yaml:"state_dir"` // Directory holding image_paths.json and settings.json
	} `yaml:"paths"`
	Viewer struct {
		PollIntervalMs int      `yaml:"poll_interval_ms"` // Change-detection tick interval
		CacheSize      int      `yaml:"cache_size"`       // Max entries per image cache tier
		WindowWidth    int      `yaml:"window_width"`     // Default window width
		WindowHeight   int      `yaml:"window_height"`    // Default window height
		WindowX        int      `yaml:"window_x"`         // Default window x position
		WindowY        int      `yaml:"window_y"`         // Default window y position
		ImagePatterns  []string `yaml:"image_patterns"`   // Glob patterns for accepted image files
	} `yaml:"viewer"`
	Settings struct {
		Debug bool `yaml:"debug"` // Enable debug logging
	} `yaml:"settings"`

	imageGlobs []glob.Glob
}

// LoadConfig loads configuration from the default location
// (<xdg config home>/floatview/config.yaml).
func LoadConfig() (*Config, error) {
	return LoadConfigFile(filepath.Join(xdg.ConfigHome, "floatview", "config.yaml"))
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if tempCfg.Paths.StateDir != "" {
		cfg.Paths.StateDir = tempCfg.Paths.StateDir
	}
	if tempCfg.Viewer.PollIntervalMs > 0 {
		cfg.Viewer.PollIntervalMs = tempCfg.Viewer.PollIntervalMs
	}
	if tempCfg.Viewer.CacheSize > 0 {
		cfg.Viewer.CacheSize = tempCfg.Viewer.CacheSize
	}
	if tempCfg.Viewer.WindowWidth > 0 {
		cfg.Viewer.WindowWidth = tempCfg.Viewer.WindowWidth
	}
	if tempCfg.Viewer.WindowHeight > 0 {
		cfg.Viewer.WindowHeight = tempCfg.Viewer.WindowHeight
	}
	if tempCfg.Viewer.WindowX != 0 {
		cfg.Viewer.WindowX = tempCfg.Viewer.WindowX
	}
	if tempCfg.Viewer.WindowY != 0 {
		cfg.Viewer.WindowY = tempCfg.Viewer.WindowY
	}
	if len(tempCfg.Viewer.ImagePatterns) > 0 {
		cfg.Viewer.ImagePatterns = tempCfg.Viewer.ImagePatterns
	}
	cfg.Settings.Debug = tempCfg.Settings.Debug

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Paths.StateDir = filepath.Join(xdg.StateHome, "floatview")

	cfg.Viewer.PollIntervalMs = 200
	cfg.Viewer.CacheSize = 50
	cfg.Viewer.WindowWidth = 600
	cfg.Viewer.WindowHeight = 600
	cfg.Viewer.WindowX = 100
	cfg.Viewer.WindowY = 100
	cfg.Viewer.ImagePatterns = []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp"}

	cfg.Settings.Debug = false

	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	cfg := defaultConfig()
	// Defaults always validate; compile the glob set eagerly.
	_ = cfg.Validate()
	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid and compiles the image
// pattern globs. Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if c.Paths.StateDir == "" {
		return fmt.Errorf("state directory is required")
	}

	if c.Viewer.PollIntervalMs < 10 {
		return fmt.Errorf("poll interval must be >= 10 ms")
	}

	if c.Viewer.CacheSize < 1 {
		return fmt.Errorf("cache size must be >= 1")
	}

	if c.Viewer.WindowWidth < 100 || c.Viewer.WindowHeight < 100 {
		return fmt.Errorf("window size must be at least 100x100")
	}

	if len(c.Viewer.ImagePatterns) == 0 {
		return fmt.Errorf("at least one image pattern is required")
	}

	c.imageGlobs = c.imageGlobs[:0]
	for i, pattern := range c.Viewer.ImagePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fmt.Errorf("image pattern %d (%q): %w", i, pattern, err)
		}
		c.imageGlobs = append(c.imageGlobs, g)
	}

	return nil
}

// MatchesImage reports whether the base name of path matches any configured
// image pattern.
func (c *Config) MatchesImage(path string) bool {
	name := filepath.Base(path)
	for _, g := range c.imageGlobs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// DefaultGeometry returns the configured default window placement.
func (c *Config) DefaultGeometry() types.Geometry {
	return types.Geometry{
		X:      c.Viewer.WindowX,
		Y:      c.Viewer.WindowY,
		Width:  c.Viewer.WindowWidth,
		Height: c.Viewer.WindowHeight,
	}
}

// NewTestConfig creates a configuration instance for testing purposes.
// The state directory is placed under dir and the poll interval shortened.
func NewTestConfig(dir string) *Config {
	cfg := defaultConfig()
	cfg.Paths.StateDir = dir
	cfg.Viewer.PollIntervalMs = 20
	cfg.Viewer.CacheSize = 5
	_ = cfg.Validate()
	return cfg
}
