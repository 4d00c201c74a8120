// Package sanitize derives filesystem-safe folder names from measurement
// metadata.
//
// Measurement names come from user input on the instrument and may contain
// characters that are invalid or ambiguous in file paths. FolderName keeps
// only alphanumerics, space, underscore and hyphen.
package sanitize

import (
	"strings"
	"time"
	"unicode"
)

// unnamedFallback is used when sanitization leaves nothing.
const unnamedFallback = "unnamed"

// unknownDateFallback is used when a measurement timestamp cannot be parsed.
const unknownDateFallback = "unknown_date"

// folderTimeLayout is the timestamp prefix of measurement folder names.
const folderTimeLayout = "2006-01-02_15-04-05"

// FolderName sanitizes a measurement name for filesystem use: only
// alphanumerics, space, underscore and hyphen are retained, surrounding
// whitespace is trimmed, and an empty result maps to "unnamed".
// The function is total and idempotent.
func FolderName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	safe := strings.TrimSpace(b.String())
	if safe == "" {
		return unnamedFallback
	}
	return safe
}

// Timestamp formats an ISO-8601 measurement timestamp (trailing Z = UTC) as
// the folder name prefix, e.g. "2024-01-15T10:30:00Z" -> "2024-01-15_10-30-00".
// Any parse failure maps to "unknown_date"; a missing timestamp is a data
// quality issue on the server, not a reason to fail the download.
func Timestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return unknownDateFallback
	}
	return t.Format(folderTimeLayout)
}
