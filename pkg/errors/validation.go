package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

const maxPathLength = 500

// ValidatePath checks a client-supplied path that will be joined onto a
// scan root. It must be non-empty, at most 500 bytes, free of control
// characters and backslashes, and local: not absolute and never escaping
// the root through "..".
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.IndexFunc(path, unicode.IsControl) >= 0:
		return New(ErrCodeInvalidPath, "path contains control characters")
	case strings.ContainsRune(path, '\\'):
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	case !filepath.IsLocal(path):
		return New(ErrCodeInvalidPath, "path %q must stay inside the scan root", path)
	}
	return nil
}
