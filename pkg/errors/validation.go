package errors

import (
	"strings"
	"unicode"
)

// ValidateItemID validates a topic/item identifier.
// IDs end up in HTML attributes, cache keys and SQL rows, so the rules are
// conservative:
//   - No empty IDs
//   - Maximum length of 128 characters
//   - No control characters or whitespace
//   - No quotes or angle brackets
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItem, "item id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidItem, "item id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidItem, "item id contains whitespace or control characters: %q", id)
		}
	}

	if strings.ContainsAny(id, `"'<>`) {
		return New(ErrCodeInvalidItem, "item id contains invalid characters: %q", id)
	}

	return nil
}

// ValidateThumbnail checks thumbnail dimensions. Zero means "unknown" and is
// accepted; negative values are not.
func ValidateThumbnail(width, height float64) error {
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidItem, "thumbnail dimensions must be non-negative, got %vx%v", width, height)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) or is site-relative.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if strings.HasPrefix(rawURL, "/") && !strings.HasPrefix(rawURL, "//") {
		return nil
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
