// Package dateutil formats document metadata timestamps and resolves the
// reproducible-build timestamp override.
package dateutil

import (
	"os"
	"strconv"
	"time"
)

// pdfDateLayout is the body of a PDF date string; the D: prefix and the
// UTC marker wrap around it.
const pdfDateLayout = "20060102150405"

// FormatPDF renders a timestamp as a PDF date string, D:YYYYMMDDHHMMSSZ,
// always in UTC.
func FormatPDF(t time.Time) string {
	return "D:" + t.UTC().Format(pdfDateLayout) + "Z"
}

// SourceDateEpoch reads the SOURCE_DATE_EPOCH convention used by
// reproducible builds: a Unix timestamp in seconds. It reports false when
// the variable is unset, malformed, or negative.
func SourceDateEpoch() (time.Time, bool) {
	raw := os.Getenv("SOURCE_DATE_EPOCH")
	if raw == "" {
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || sec < 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, 0).UTC(), true
}
