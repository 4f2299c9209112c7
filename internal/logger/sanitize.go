package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength caps URL paths in log fields.
	MaxPathLength = 500
	// MaxErrorMessageLength caps error messages in log fields.
	MaxErrorMessageLength = 1000
	// MaxGeneralStringLength caps other request-derived strings.
	MaxGeneralStringLength = 2000
)

// SanitizePath prepares a URL path for logging: strips control characters,
// repairs invalid UTF-8 and truncates at MaxPathLength.
func SanitizePath(path string) string {
	if path == "" {
		return ""
	}

	path = filterRunes(path)
	if len(path) > MaxPathLength {
		path = path[:MaxPathLength] + "..."
	}
	return path
}

// SanitizeString prepares a request-derived string for logging. A maxLength
// of zero or below falls back to MaxGeneralStringLength.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = MaxGeneralStringLength
	}
	s = filterRunes(s)
	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}

// SanitizeError prepares an error message for logging.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeString(err.Error(), MaxErrorMessageLength)
}

// filterRunes repairs invalid UTF-8 and drops control characters, keeping
// printable runes plus space, tab, newline and carriage return.
func filterRunes(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
