package errors

import (
	"strings"
	"unicode"
)

// ValidateLabelText validates a user-supplied panel label before it is passed
// to the external image tool's -draw directive.
//
// The validation rules are intentionally conservative:
//   - No empty labels
//   - No control characters
//   - No single quotes (they delimit the text literal in the draw directive)
//   - Maximum length of 128 characters
func ValidateLabelText(label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabels, "label cannot be empty")
	}

	if len(label) > 128 {
		return New(ErrCodeInvalidLabels, "label too long (max 128 characters)")
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabels, "label contains control characters")
		}
	}

	if strings.ContainsRune(label, '\'') {
		return New(ErrCodeInvalidLabels, "label cannot contain single quotes")
	}

	return nil
}

// ValidateFontName validates a font name passed to the external image tool.
// Font names are identifiers like "Times-New-Roman" or "Helvetica", not file
// paths; anything resembling a path or shell metacharacter is rejected.
func ValidateFontName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "font name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "font name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "font name contains control characters")
		}
	}

	if strings.ContainsAny(name, "/\\;|&$`\"'") {
		return New(ErrCodeInvalidInput, "font name contains invalid characters")
	}

	return nil
}

// ValidateColor validates a text color value. Colors are passed through to
// the image tool, which accepts named colors ("black"), hex values
// ("#1f77b4"), and rgb()/rgba() functions.
func ValidateColor(c string) error {
	if c == "" {
		return New(ErrCodeInvalidInput, "color cannot be empty")
	}

	if len(c) > 64 {
		return New(ErrCodeInvalidInput, "color too long (max 64 characters)")
	}

	for _, r := range c {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "color contains invalid characters")
		}
	}

	if strings.ContainsAny(c, ";|&$`\"'") {
		return New(ErrCodeInvalidInput, "color contains invalid characters")
	}

	return nil
}
