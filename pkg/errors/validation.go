package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Render formats accepted by the pipeline.
var validFormats = map[string]bool{
	"svg":   true,
	"dot":   true,
	"json":  true,
	"gcode": true,
}

// ValidateFormat validates a render format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !validFormats[format] {
		return New(ErrCodeInvalidFormat, "unsupported format: %q (want svg, dot, json, or gcode)", format)
	}
	return nil
}

// stackIDRegex matches identifiers accepted for uploaded stacks. IDs end
// up in cache keys and URLs, so the character set is deliberately small.
var stackIDRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateStackID validates an identifier for an uploaded slice stack.
func ValidateStackID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "stack id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "stack id too long (max 128 characters)")
	}
	if !stackIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid stack id: %q", id)
	}
	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Must not be absolute path
	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
