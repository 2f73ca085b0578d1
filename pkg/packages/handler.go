package packages

import (
	"path/filepath"

	"github.com/matzehuels/pkgscan/pkg/errors"
)

// Handler recognizes one kind of package manifest.
type Handler interface {
	// Type returns the package type identifier (e.g., "phpcomposer").
	Type() string
	// Supports reports whether the handler understands files with this name.
	Supports(filename string) bool
	// Recognize returns the package declared by the file at path, or nil
	// when the file is not a usable manifest of this type.
	Recognize(path string) (*Package, error)
}

// BytesRecognizer is implemented by handlers that can recognize manifest
// content that was already read, such as content fetched for hashing or
// received over HTTP.
type BytesRecognizer interface {
	RecognizeBytes(path string, data []byte) (*Package, error)
}

// Detect finds a handler that supports the given file path.
// Only the leaf name of path is considered.
func Detect(path string, handlers ...Handler) (Handler, error) {
	name := filepath.Base(path)
	for _, h := range handlers {
		if h.Supports(name) {
			return h, nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported manifest: %s", name)
}
