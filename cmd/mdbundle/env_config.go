package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mdbundle/internal/config"
)

// envConfig holds configuration read from MDBUNDLE_* environment
// variables. Provides CI/CD-friendly overrides without a YAML file.
type envConfig struct {
	ConfigPath string // MDBUNDLE_CONFIG: config file name or path
	Preset     string // MDBUNDLE_PRESET: preset name
	PresetDir  string // MDBUNDLE_PRESET_DIR: custom preset directory
	InputDir   string // MDBUNDLE_INPUT_DIR: default input when no argument
	OutputDir  string // MDBUNDLE_OUTPUT_DIR: output directory
	OutputName string // MDBUNDLE_OUTPUT_NAME: output file name
	CodeStyle  string // MDBUNDLE_CODE_STYLE: chroma style for code blocks
	Headings   string // MDBUNDLE_HEADINGS: auto, on, off
	Workers    int    // MDBUNDLE_WORKERS: parallel workers
}

// knownEnvVars lists valid MDBUNDLE_* environment variables. Used to
// detect typos and warn about unknown variables.
var knownEnvVars = map[string]bool{
	"MDBUNDLE_CONFIG":      true,
	"MDBUNDLE_PRESET":      true,
	"MDBUNDLE_PRESET_DIR":  true,
	"MDBUNDLE_INPUT_DIR":   true,
	"MDBUNDLE_OUTPUT_DIR":  true,
	"MDBUNDLE_OUTPUT_NAME": true,
	"MDBUNDLE_CODE_STYLE":  true,
	"MDBUNDLE_HEADINGS":    true,
	"MDBUNDLE_WORKERS":     true,
}

// loadEnvConfig reads all recognized MDBUNDLE_* values.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MDBUNDLE_CONFIG"),
		Preset:     getenv("MDBUNDLE_PRESET"),
		PresetDir:  getenv("MDBUNDLE_PRESET_DIR"),
		InputDir:   getenv("MDBUNDLE_INPUT_DIR"),
		OutputDir:  getenv("MDBUNDLE_OUTPUT_DIR"),
		OutputName: getenv("MDBUNDLE_OUTPUT_NAME"),
		CodeStyle:  getenv("MDBUNDLE_CODE_STYLE"),
		Headings:   getenv("MDBUNDLE_HEADINGS"),
	}

	if workers := getenv("MDBUNDLE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDBUNDLE_* variables.
// Helps catch typos like MDBUNDLE_PRESETS instead of MDBUNDLE_PRESET.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDBUNDLE_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment values to config. A value is only
// set when the env var is set AND the config field is empty/zero, so the
// precedence is: CLI flags > env vars > config file > defaults (flags are
// merged later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Preset != "" && cfg.Preset.Name == "" {
		cfg.Preset.Name = env.Preset
	}
	if env.PresetDir != "" && cfg.Preset.BasePath == "" {
		cfg.Preset.BasePath = env.PresetDir
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.Dir == "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.OutputName != "" && cfg.Output.Name == "" {
		cfg.Output.Name = env.OutputName
	}
	if env.CodeStyle != "" && cfg.Text.CodeStyle == "" {
		cfg.Text.CodeStyle = env.CodeStyle
	}
	if env.Headings != "" && (cfg.Document.Headings == "" || cfg.Document.Headings == config.HeadingsAuto) {
		cfg.Document.Headings = env.Headings
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
