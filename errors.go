package mdbundle

import "errors"

// Sentinel errors for library operations.
var (
	ErrNilContext          = errors.New("context cannot be nil")
	ErrNilJob              = errors.New("job cannot be nil")
	ErrInputNotFound       = errors.New("input path not found")
	ErrUnsupportedInput    = errors.New("unsupported input type")
	ErrNoDocuments         = errors.New("no markdown documents found")
	ErrOrderMismatch       = errors.New("document order does not match discovered set")
	ErrLayoutFailed        = errors.New("page layout failed")
	ErrEncodingConsistency = errors.New("pdf cross-reference consistency check failed")
	ErrWriteOutput         = errors.New("failed to write output file")

	// Page settings validation errors.
	ErrInvalidPageSize = errors.New("invalid page dimensions")
	ErrInvalidMargin   = errors.New("invalid margin")

	// Text settings validation errors.
	ErrInvalidFontSize    = errors.New("invalid font size")
	ErrInvalidLineSpacing = errors.New("invalid line spacing")

	// Image settings validation errors.
	ErrInvalidImageScale = errors.New("invalid image scaling")

	// Preset loading errors.
	ErrPresetNotFound    = errors.New("preset not found")
	ErrInvalidPreset     = errors.New("preset file is not usable")
	ErrInvalidPresetPath = errors.New("invalid preset path")
)
