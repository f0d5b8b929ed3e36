package main

import (
	"archive/zip"
	"errors"
	"os"

	mdbundle "github.com/alnah/go-mdbundle"
	"github.com/alnah/go-mdbundle/internal/assets"
	"github.com/alnah/go-mdbundle/internal/config"
	"github.com/alnah/go-mdbundle/internal/hints"
)

// Exit codes for the mdbundle CLI. Unix conventions: 0=success,
// 1=general, 2=usage, plus custom codes below 126.
const (
	ExitSuccess = 0 // successful conversion
	ExitGeneral = 1 // general/unexpected error
	ExitUsage   = 2 // invalid flags, config, or validation
	ExitIO      = 3 // file not found, permission denied, write failure
	ExitRender  = 4 // layout or PDF encoding failure
)

// exitCodeFor returns the exit code for an error. Relies on errors.Is,
// so every error path must wrap sentinels with fmt.Errorf("%w", ...).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Render errors (exit 4)
	if errors.Is(err, mdbundle.ErrLayoutFailed) ||
		errors.Is(err, mdbundle.ErrEncodingConsistency) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdbundle.ErrInputNotFound) ||
		errors.Is(err, mdbundle.ErrWriteOutput) ||
		errors.Is(err, ErrReadOrderFile) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, mdbundle.ErrUnsupportedInput) ||
		errors.Is(err, mdbundle.ErrNoDocuments) ||
		errors.Is(err, mdbundle.ErrOrderMismatch) ||
		errors.Is(err, mdbundle.ErrInvalidPageSize) ||
		errors.Is(err, mdbundle.ErrInvalidMargin) ||
		errors.Is(err, mdbundle.ErrInvalidFontSize) ||
		errors.Is(err, mdbundle.ErrInvalidLineSpacing) ||
		errors.Is(err, mdbundle.ErrInvalidImageScale) ||
		errors.Is(err, mdbundle.ErrPresetNotFound) ||
		errors.Is(err, mdbundle.ErrInvalidPreset) ||
		errors.Is(err, mdbundle.ErrInvalidPresetPath) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrOrderFileBatch) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}

// describeError renders an error for the terminal, appending an
// actionable hint when one exists for the failure class.
func describeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	switch {
	case errors.Is(err, mdbundle.ErrInputNotFound):
		msg += hints.ForInputNotFound()
	case errors.Is(err, mdbundle.ErrUnsupportedInput):
		msg += hints.ForUnsupportedInput()
	case errors.Is(err, mdbundle.ErrNoDocuments):
		msg += hints.ForNoDocuments()
	case errors.Is(err, mdbundle.ErrOrderMismatch):
		msg += hints.ForOrderMismatch()
	case errors.Is(err, mdbundle.ErrPresetNotFound):
		msg += hints.ForPresetNotFound(assets.Names())
	case errors.Is(err, mdbundle.ErrWriteOutput):
		msg += hints.ForOutputDirectory()
	case errors.Is(err, zip.ErrFormat):
		msg += hints.ForArchiveExtract()
	case errors.Is(err, config.ErrConfigNotFound):
		msg += hints.ForConfigNotFound(configSearchPaths())
	}
	return msg
}

// configSearchPaths lists where a named config is looked up, for the
// config-not-found hint.
func configSearchPaths() []string {
	paths := []string{"./mdbundle.yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, dir+"/go-mdbundle/mdbundle.yaml")
	}
	return paths
}
