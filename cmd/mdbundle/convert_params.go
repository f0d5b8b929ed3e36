package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mdbundle "github.com/alnah/go-mdbundle"
	"github.com/alnah/go-mdbundle/internal/config"
	"github.com/alnah/go-mdbundle/internal/pathsafe"
)

// Sentinel errors for parameter resolution.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrReadOrderFile      = errors.New("failed to read order file")
	ErrOrderFileBatch     = errors.New("order file requires a single input")
)

// resolveConfig loads the base config and layers environment overrides on
// top. Precedence from weakest to strongest: defaults, config file,
// MDBUNDLE_* environment, CLI flags (merged by mergeFlags afterwards).
func resolveConfig(flags *convertFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)

	configPath := flags.common.config
	if configPath == "" {
		configPath = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeFlags merges CLI flags into config. Flags win over everything.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.output.dir != "" {
		cfg.Output.Dir = flags.output.dir
	}
	if flags.output.name != "" {
		cfg.Output.Name = flags.output.name
	}

	if flags.preset.name != "" {
		cfg.Preset.Name = flags.preset.name
	}
	if flags.preset.dir != "" {
		cfg.Preset.BasePath = flags.preset.dir
	}

	if flags.page.widthMM > 0 {
		cfg.Page.WidthMM = flags.page.widthMM
	}
	if flags.page.heightMM > 0 {
		cfg.Page.HeightMM = flags.page.heightMM
	}
	if flags.page.marginMM > 0 {
		cfg.Page.MarginMM = flags.page.marginMM
	}

	if flags.text.bodySizePt > 0 {
		cfg.Text.BodySizePt = flags.text.bodySizePt
	}
	if flags.text.codeSizePt > 0 {
		cfg.Text.CodeSizePt = flags.text.codeSizePt
	}
	if flags.text.lineSpacing > 0 {
		cfg.Text.LineSpacing = flags.text.lineSpacing
	}
	if flags.text.codeStyle != "" {
		cfg.Text.CodeStyle = flags.text.codeStyle
	}

	if flags.image.maxWidthFraction > 0 {
		cfg.Image.MaxWidthFraction = flags.image.maxWidthFraction
	}
	if flags.image.maxHeightMM > 0 {
		cfg.Image.MaxHeightMM = flags.image.maxHeightMM
	}
	if flags.image.dpi > 0 {
		cfg.Image.DPI = flags.image.dpi
	}

	if flags.document.headings != "" {
		cfg.Document.Headings = flags.document.headings
	}

	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
}

// buildServiceOptions turns the merged config into service options:
// preset settings first, explicit overrides layered on top.
func buildServiceOptions(cfg *config.Config) ([]mdbundle.Option, error) {
	loader, err := mdbundle.NewPresetLoader(cfg.Preset.BasePath)
	if err != nil {
		return nil, fmt.Errorf("preparing preset loader: %w", err)
	}

	presetName := cfg.Preset.Name
	if presetName == "" {
		presetName = mdbundle.DefaultPreset
	}
	preset, err := loader.LoadPreset(presetName)
	if err != nil {
		return nil, fmt.Errorf("loading preset %q: %w", presetName, err)
	}

	page, text, image := preset.Page, preset.Text, preset.Image
	overlayConfig(cfg, &page, &text, &image)

	opts := []mdbundle.Option{
		mdbundle.WithPageSettings(page),
		mdbundle.WithTextSettings(text),
		mdbundle.WithImageSettings(image),
	}

	if cfg.Output.Name != "" {
		opts = append(opts, mdbundle.WithOutputName(cfg.Output.Name))
	}
	if cfg.Text.CodeStyle != "" {
		opts = append(opts, mdbundle.WithCodeStyle(cfg.Text.CodeStyle))
	}

	switch cfg.Document.Headings {
	case config.HeadingsOn:
		opts = append(opts, mdbundle.WithDocumentHeadings(true))
	case config.HeadingsOff:
		opts = append(opts, mdbundle.WithDocumentHeadings(false))
	}

	return opts, nil
}

// overlayConfig applies explicit numeric overrides from the config onto
// the preset-derived settings. Zero config fields keep the preset value.
func overlayConfig(cfg *config.Config, page *mdbundle.PageSettings, text *mdbundle.TextSettings, image *mdbundle.ImageSettings) {
	if cfg.Page.WidthMM > 0 {
		page.WidthMM = cfg.Page.WidthMM
	}
	if cfg.Page.HeightMM > 0 {
		page.HeightMM = cfg.Page.HeightMM
	}
	if cfg.Page.MarginMM > 0 {
		page.MarginMM = cfg.Page.MarginMM
	}

	if cfg.Text.BodySizePt > 0 {
		text.BodySizePt = cfg.Text.BodySizePt
	}
	if cfg.Text.CodeSizePt > 0 {
		text.CodeSizePt = cfg.Text.CodeSizePt
	}
	if len(cfg.Text.HeadingSizesPt) == 6 {
		copy(text.HeadingSizesPt[:], cfg.Text.HeadingSizesPt)
	}
	if cfg.Text.LineSpacing > 0 {
		text.LineSpacing = cfg.Text.LineSpacing
	}

	if cfg.Image.MaxWidthFraction > 0 {
		image.MaxWidthFraction = cfg.Image.MaxWidthFraction
	}
	if cfg.Image.MaxHeightMM > 0 {
		image.MaxHeightMM = cfg.Image.MaxHeightMM
	}
	if cfg.Image.DPI > 0 {
		image.DPI = cfg.Image.DPI
	}
}

// resolveInputs determines the input paths from args or config.
func resolveInputs(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}, nil
	}
	return nil, ErrNoInput
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdbundle.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdbundle.MaxPoolSize)
	}
	return nil
}

// readOrderFile reads a manual document order: one path per line,
// relative to the job root unless absolute. Blank lines and #-comments
// are skipped. Every path is canonicalized against the root so it can be
// compared with the discovered document set.
func readOrderFile(path, root string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadOrderFile, err)
	}
	defer f.Close()

	var order []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var canonical string
		if filepath.IsAbs(line) {
			canonical, err = pathsafe.Contain(root, line)
		} else {
			canonical, err = pathsafe.Resolve(root, root, line)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrReadOrderFile, line, err)
		}
		order = append(order, canonical)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadOrderFile, err)
	}

	return order, nil
}
