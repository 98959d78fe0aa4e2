package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateOutputName validates an output or parameter name from user input.
// It rejects names that could be used for path traversal or injection when
// the name is later embedded in file names or URLs.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"/",    // Names are not paths
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "name contains invalid characters: %q", pattern)
		}
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

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateDimensions validates a requested coordinate dimensionality.
func ValidateDimensions(dims int) error {
	if dims < 2 || dims > 4 {
		return New(ErrCodeDimensionMismatch, "dimensions must be 2, 3, or 4 (got %d)", dims)
	}
	return nil
}

// parameterNameRegex matches the parameter names patch files accept: a word
// character followed by word characters, dots, dashes, or spaces.
var parameterNameRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9._ -]*$`)

// ValidateParameterName validates a named-parameter label from a patch.
func ValidateParameterName(name string) error {
	if err := ValidateOutputName(name); err != nil {
		return err
	}

	if !parameterNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPatch, "invalid parameter name: %q", name)
	}

	return nil
}

// renderFormats are the output formats the renderer understands.
var renderFormats = map[string]struct{}{
	"dot": {},
	"svg": {},
	"png": {},
}

// ValidateRenderFormat validates a requested render output format.
func ValidateRenderFormat(format string) error {
	if _, ok := renderFormats[strings.ToLower(format)]; !ok {
		return New(ErrCodeInvalidFormat, "unsupported render format: %q", format)
	}
	return nil
}
