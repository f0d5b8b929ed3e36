// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForInputNotFound returns hints for missing input paths.
func ForInputNotFound() string {
	return format("pass a .md file, a directory, or a .zip archive; check the path for typos")
}

// ForUnsupportedInput returns hints for inputs of the wrong type.
func ForUnsupportedInput() string {
	return format("supported inputs: .md, .markdown, .zip, or a directory")
}

// ForNoDocuments returns hints when an input holds no Markdown at all.
func ForNoDocuments() string {
	return format("the input contains no .md or .markdown files")
}

// ForOrderMismatch returns hints for rejected manual orderings.
func ForOrderMismatch() string {
	return format("the order file must list every discovered document exactly once; run with --list to see the discovered set")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mdbundle/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-mdbundle) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdbundle") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForPresetNotFound returns hints for preset not found errors.
func ForPresetNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForOutputDirectory returns hints for output write errors.
func ForOutputDirectory() string {
	return format("check the output directory exists and is writable")
}

// ForArchiveExtract returns hints for archive extraction errors.
func ForArchiveExtract() string {
	return format("the zip may be corrupt or contain entries escaping its root")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
