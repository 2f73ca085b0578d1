package composer

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscan/pkg/errors"
	"github.com/matzehuels/pkgscan/pkg/ordered"
	"github.com/matzehuels/pkgscan/pkg/packages"
)

const (
	// ManifestName is the file name of a Composer manifest.
	ManifestName = "composer.json"

	// PackageType identifies packages recognized by this handler.
	PackageType = "phpcomposer"

	primaryLanguage = "PHP"
)

// Handler recognizes composer.json manifests.
// A Handler holds no per-call state and is safe for concurrent use.
type Handler struct {
	Logger *log.Logger
}

// New creates a Handler that logs mapping details to logger at debug level.
// A nil logger discards all output.
func New(logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{Logger: logger}
}

func (h *Handler) Type() string              { return PackageType }
func (h *Handler) Supports(name string) bool { return strings.EqualFold(name, ManifestName) }

// Recognize returns the package declared by the composer.json at path.
//
// It returns (nil, nil) when path is not an existing regular file named
// composer.json, or when the manifest has no usable name and description.
// Decoding failures and a malformed "authors" value are returned as errors.
func (h *Handler) Recognize(path string) (*packages.Package, error) {
	if !IsManifest(path) {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.ErrCodeInternal
		if os.IsNotExist(err) {
			code = errors.ErrCodeFileNotFound
		}
		return nil, errors.Wrap(code, err, "read %s", path)
	}
	return h.RecognizeBytes(path, data)
}

// RecognizeBytes is like [Handler.Recognize] for manifest content that was
// already read. path is used only for provenance and is not checked.
func (h *Handler) RecognizeBytes(path string, data []byte) (*packages.Package, error) {
	m, err := ordered.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", path)
	}
	return h.build(path, m)
}

// Parse recognizes the composer.json at path with a handler that does not log.
func Parse(path string) (*packages.Package, error) {
	return New(nil).Recognize(path)
}

// IsManifest reports whether path is an existing regular file named
// composer.json, ignoring case. Symlinks are followed.
func IsManifest(path string) bool {
	if !strings.EqualFold(filepath.Base(path), ManifestName) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (h *Handler) build(path string, m *ordered.Map) (*packages.Package, error) {
	if !hasText(m, "name") || !hasText(m, "description") {
		h.Logger.Debug("skipping manifest without name or description", "path", path)
		return nil, nil
	}

	pkg := &packages.Package{
		Type:              PackageType,
		PrimaryLanguage:   primaryLanguage,
		Location:          filepath.Dir(path),
		MetafileLocations: []string{path},
		VCSTool:           packages.VCSGit,
	}

	for _, f := range plainFields {
		v, ok := lookup(m, f.key)
		if !ok {
			continue
		}
		h.Logger.Debug("mapping field", "field", f.key, "path", path)
		f.set(pkg, v)
	}

	for _, f := range fieldMappers {
		v, ok := lookup(m, f.key)
		if !ok {
			continue
		}
		h.Logger.Debug("mapping field", "field", f.key, "path", path)
		if err := f.apply(v, pkg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s", path)
		}
	}
	return pkg, nil
}

// hasText reports whether key holds a string that is not blank.
func hasText(m *ordered.Map, key string) bool {
	s, ok := m.String(key)
	return ok && strings.TrimSpace(s) != ""
}

var (
	_ packages.Handler         = (*Handler)(nil)
	_ packages.BytesRecognizer = (*Handler)(nil)
)
