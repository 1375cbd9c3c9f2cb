package fsutils

import (
	"os"
	"regexp"
	"strings"
)

// CreateDir creates a directory (and any parents) if it doesn't exist.
func CreateDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a path exists and is a regular file (not a directory).
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// nonAlphanumericRegex matches any character that is NOT a lowercase letter,
// number, underscore or period.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9_.]+`)
var collapseUnderscoreRegex = regexp.MustCompile(`_+`)

// SanitizeFilename converts a string into a safe format suitable for use in
// filenames. It converts to lowercase, replaces spaces and disallowed
// characters with underscores, and collapses consecutive underscores.
func SanitizeFilename(name string) string {
	lower := strings.ToLower(name)
	trimmed := strings.TrimSpace(lower)
	noSpaces := strings.ReplaceAll(trimmed, " ", "_")
	sanitized := nonAlphanumericRegex.ReplaceAllString(noSpaces, "_")
	collapsed := collapseUnderscoreRegex.ReplaceAllString(sanitized, "_")

	if collapsed == "" && name != "" {
		return "_"
	}
	return collapsed
}
