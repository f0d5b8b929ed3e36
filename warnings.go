package mdbundle

import (
	"fmt"

	"github.com/alnah/go-mdbundle/internal/docgraph"
)

// Warning codes attached to references dropped during resolution.
const (
	// WarnPathEscape marks a reference that resolved outside the
	// workspace root.
	WarnPathEscape = "path-escape"
	// WarnMissingDocument marks a link whose Markdown target does not
	// exist.
	WarnMissingDocument = "missing-document"
	// WarnImageDecode marks an image that exists but could not be
	// decoded.
	WarnImageDecode = "image-decode"
)

// Warning records a reference or asset that was dropped without failing
// the job. The conversion still succeeds; callers decide whether to
// surface warnings to users.
type Warning struct {
	Code   string
	Path   string
	Detail string
}

// String formats the warning for log output.
func (w Warning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("%s: %s", w.Code, w.Path)
	}
	return fmt.Sprintf("%s: %s (%s)", w.Code, w.Path, w.Detail)
}

// convertWarnings maps internal resolution warnings to public ones.
func convertWarnings(ws []docgraph.Warning) []Warning {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Warning, len(ws))
	for i, w := range ws {
		out[i] = Warning{Code: w.Code, Path: w.Path, Detail: w.Detail}
	}
	return out
}
