// Package assets provides named settings presets for PDF export.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in presets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── PresetResolver    - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in presets (default, letter, compact)
// embedded at compile time.
//
// FilesystemLoader allows users to provide custom presets from a directory,
// with path traversal protection and symlink resolution.
//
// PresetResolver is the primary loader used by the public API. It tries the
// custom FilesystemLoader first, falling back to EmbeddedLoader if the preset
// is not found in the custom location. This enables overriding specific
// presets while keeping the built-in ones.
//
// # Directory Structure
//
// Presets live in a presets/ directory under the base path:
//
//	{basePath}/
//	└── presets/
//	    └── {name}.yaml          # settings preset (e.g., manuscript.yaml)
//
// # Security
//
// Preset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
