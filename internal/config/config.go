// Package config loads and validates YAML configuration files for mmd2png.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mmd2png/internal/fileutil"
	"github.com/alnah/go-mmd2png/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory under the user config dir searched for configs.
const AppDirName = "go-mmd2png"

// Limits enforced by Validate.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxThemeLength    = 100
	MaxDurationLength = 20 // "1m30s", "600ms"
	MaxViewportSide   = 16384
	MaxScale          = 8
	MaxPadding        = 1000
	MaxWorkers        = 8
)

// Config holds all configuration for diagram rendering.
type Config struct {
	Mermaid  MermaidConfig  `yaml:"mermaid"`
	Render   RenderConfig   `yaml:"render"`
	Viewport ViewportConfig `yaml:"viewport"`
	Fallback FallbackConfig `yaml:"fallback"`
	Theme    ThemeConfig    `yaml:"theme"`
	Assets   AssetsConfig   `yaml:"assets"`
	Output   OutputConfig   `yaml:"output"`
	Workers  int            `yaml:"workers"` // 0 = auto
}

// MermaidConfig locates the Mermaid.js library.
type MermaidConfig struct {
	LibraryPath string `yaml:"libraryPath"` // Empty = built-in default
}

// RenderConfig defines timing and capture options.
type RenderConfig struct {
	Timeout string  `yaml:"timeout"` // Go duration, e.g. "15s"
	Settle  string  `yaml:"settle"`  // Go duration, e.g. "600ms"
	Scale   float64 `yaml:"scale"`   // Device scale factor (0 = default)
	Padding float64 `yaml:"padding"` // CSS px around the graphic (0 = default)
	Strict  bool    `yaml:"strict"`  // Fail instead of falling back when no graphic is found
}

// ViewportConfig defines the browser viewport in CSS pixels.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FallbackConfig defines the region captured when no graphic is found.
type FallbackConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// IsZero reports whether no fallback region was configured.
func (f FallbackConfig) IsZero() bool {
	return f == FallbackConfig{}
}

// ThemeConfig selects the diagram theme.
type ThemeConfig struct {
	Name string `yaml:"name"` // Theme name or path to a theme file (empty = corporate)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the input
	KeepHTML   bool   `yaml:"keepHTML"`   // Keep the generated document as <output>.html
}

// TimeoutDuration parses Render.Timeout. Returns 0 when unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return parseDuration("render.timeout", c.Render.Timeout)
}

// SettleDuration parses Render.Settle. Returns 0 when unset.
func (c *Config) SettleDuration() (time.Duration, error) {
	return parseDuration("render.settle", c.Render.Settle)
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("mermaid.libraryPath", c.Mermaid.LibraryPath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("theme.name", c.Theme.Name, MaxPathLength); err != nil {
		return err
	}
	if !fileutil.IsFilePath(c.Theme.Name) {
		if err := validateFieldLength("theme.name", c.Theme.Name, MaxThemeLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	// Validate render fields
	if err := validateFieldLength("render.timeout", c.Render.Timeout, MaxDurationLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.settle", c.Render.Settle, MaxDurationLength); err != nil {
		return err
	}
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return err
	}
	if timeout < 0 {
		return fmt.Errorf("%w: render.timeout must be positive, got %s", ErrInvalidValue, c.Render.Timeout)
	}
	settle, err := c.SettleDuration()
	if err != nil {
		return err
	}
	if settle < 0 {
		return fmt.Errorf("%w: render.settle cannot be negative, got %s", ErrInvalidValue, c.Render.Settle)
	}
	if c.Render.Scale < 0 || c.Render.Scale > MaxScale {
		return fmt.Errorf("%w: render.scale must be between 0 and %d, got %.2f", ErrInvalidValue, MaxScale, c.Render.Scale)
	}
	if c.Render.Padding < 0 || c.Render.Padding > MaxPadding {
		return fmt.Errorf("%w: render.padding must be between 0 and %d, got %.2f", ErrInvalidValue, MaxPadding, c.Render.Padding)
	}

	// Validate viewport fields
	if c.Viewport.Width < 0 || c.Viewport.Width > MaxViewportSide {
		return fmt.Errorf("%w: viewport.width must be between 0 and %d, got %d", ErrInvalidValue, MaxViewportSide, c.Viewport.Width)
	}
	if c.Viewport.Height < 0 || c.Viewport.Height > MaxViewportSide {
		return fmt.Errorf("%w: viewport.height must be between 0 and %d, got %d", ErrInvalidValue, MaxViewportSide, c.Viewport.Height)
	}

	// Validate fallback fields
	if !c.Fallback.IsZero() {
		if c.Fallback.X < 0 || c.Fallback.Y < 0 {
			return fmt.Errorf("%w: fallback origin cannot be negative", ErrInvalidValue)
		}
		if c.Fallback.Width <= 0 || c.Fallback.Height <= 0 {
			return fmt.Errorf("%w: fallback.width and fallback.height must be positive", ErrInvalidValue)
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	return nil
}

// parseDuration parses an optional Go duration string.
func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration where every value defers to the
// renderer's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Mermaid:  MermaidConfig{LibraryPath: ""},
		Render:   RenderConfig{Strict: false},
		Viewport: ViewportConfig{},
		Fallback: FallbackConfig{},
		Theme:    ThemeConfig{Name: ""},
		Assets:   AssetsConfig{BasePath: ""},
		Output:   OutputConfig{DefaultDir: "", KeepHTML: false},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries the current directory, then ~/.config/go-mmd2png/, .yaml before .yml.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
