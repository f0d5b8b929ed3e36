package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdbundle/internal/fileutil"
	"github.com/alnah/go-mdbundle/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// Field length limits. Config files may come from shared or untrusted
// locations, so lengths are capped before values travel further.
const (
	MaxPathLength       = 4096 // input/output/preset directories
	MaxOutputNameLength = 255  // one filename component
	MaxPresetNameLength = 100  // preset name, validated again by the loader
	MaxCodeStyleLength  = 50   // chroma style name
	MaxWorkers          = 64   // sanity cap; the pool clamps further
)

// Document heading modes.
const (
	HeadingsAuto = "auto" // separators only for multi-document bundles
	HeadingsOn   = "on"
	HeadingsOff  = "off"
)

// Config holds all configuration for the bundle CLI. Zero values mean
// "not set": unset numeric fields keep the preset or library default, so
// a config file only states what it changes.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Preset   PresetConfig   `yaml:"preset"`
	Page     PageConfig     `yaml:"page"`
	Text     TextConfig     `yaml:"text"`
	Image    ImageConfig    `yaml:"image"`
	Document DocumentConfig `yaml:"document"`
	Workers  int            `yaml:"workers"` // 0 = size from GOMAXPROCS
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"default_dir"` // used when no input argument is given
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir  string `yaml:"dir"`  // empty = next to the input
	Name string `yaml:"name"` // empty = markdown_export.pdf
}

// PresetConfig selects a named settings preset.
type PresetConfig struct {
	Name     string `yaml:"name"`      // empty = library defaults
	BasePath string `yaml:"base_path"` // custom preset directory, empty = embedded only
}

// PageConfig overrides page geometry in millimeters.
type PageConfig struct {
	WidthMM  float64 `yaml:"width_mm"`
	HeightMM float64 `yaml:"height_mm"`
	MarginMM float64 `yaml:"margin_mm"`
}

// TextConfig overrides typography.
type TextConfig struct {
	BodySizePt     float64   `yaml:"body_size_pt"`
	CodeSizePt     float64   `yaml:"code_size_pt"`
	HeadingSizesPt []float64 `yaml:"heading_sizes_pt"` // exactly 6 when set
	LineSpacing    float64   `yaml:"line_spacing"`
	CodeStyle      string    `yaml:"code_style"` // chroma style name
}

// ImageConfig overrides image scaling.
type ImageConfig struct {
	MaxWidthFraction float64 `yaml:"max_width_fraction"`
	MaxHeightMM      float64 `yaml:"max_height_mm"`
	DPI              float64 `yaml:"dpi"`
}

// DocumentConfig controls per-document separator headings.
type DocumentConfig struct {
	Headings string `yaml:"headings"` // "auto", "on", "off"; empty = auto
}

// Validate checks structural soundness: field lengths, enum values, and
// sign constraints. Range validation of the merged settings is the
// library's job at conversion time. Called automatically by LoadConfig,
// but available for consumers who construct Config manually.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"input.default_dir", c.Input.DefaultDir, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"output.name", c.Output.Name, MaxOutputNameLength},
		{"preset.name", c.Preset.Name, MaxPresetNameLength},
		{"preset.base_path", c.Preset.BasePath, MaxPathLength},
		{"text.code_style", c.Text.CodeStyle, MaxCodeStyleLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Output.Name != "" && strings.ContainsAny(c.Output.Name, "/\\") {
		return fmt.Errorf("%w: output.name must be a bare filename, got %q",
			ErrInvalidField, c.Output.Name)
	}

	numbers := []struct {
		field string
		value float64
	}{
		{"page.width_mm", c.Page.WidthMM},
		{"page.height_mm", c.Page.HeightMM},
		{"page.margin_mm", c.Page.MarginMM},
		{"text.body_size_pt", c.Text.BodySizePt},
		{"text.code_size_pt", c.Text.CodeSizePt},
		{"text.line_spacing", c.Text.LineSpacing},
		{"image.max_width_fraction", c.Image.MaxWidthFraction},
		{"image.max_height_mm", c.Image.MaxHeightMM},
		{"image.dpi", c.Image.DPI},
	}
	for _, n := range numbers {
		if n.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g",
				ErrInvalidField, n.field, n.value)
		}
	}

	if n := len(c.Text.HeadingSizesPt); n != 0 && n != 6 {
		return fmt.Errorf("%w: text.heading_sizes_pt needs 6 entries, got %d",
			ErrInvalidField, n)
	}
	for i, size := range c.Text.HeadingSizesPt {
		if size < 0 {
			return fmt.Errorf("%w: text.heading_sizes_pt[%d] must not be negative",
				ErrInvalidField, i)
		}
	}

	switch c.Document.Headings {
	case "", HeadingsAuto, HeadingsOn, HeadingsOff:
	default:
		return fmt.Errorf("%w: document.headings must be auto, on, or off, got %q",
			ErrInvalidField, c.Document.Headings)
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d",
			ErrInvalidField, MaxWorkers, c.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: no overrides, library
// defaults everywhere.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{Headings: HeadingsAuto},
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

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mdbundle/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	// Try current directory first (both extensions)
	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (both extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mdbundle", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
