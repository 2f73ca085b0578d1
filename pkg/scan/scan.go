package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pkgscan/pkg/cache"
	"github.com/matzehuels/pkgscan/pkg/errors"
	"github.com/matzehuels/pkgscan/pkg/observability"
	"github.com/matzehuels/pkgscan/pkg/packages"
)

// DefaultSkipDirs are directory names never descended into.
var DefaultSkipDirs = []string{"vendor", "node_modules", ".git"}

// DefaultTTL is how long recognition results stay cached.
const DefaultTTL = 24 * time.Hour

// noPackage is cached for manifests that recognized to nothing.
var noPackage = []byte("null")

// Scanner walks directory trees and recognizes the manifests it finds.
//
// A Scanner holds no per-scan state; one value may run several scans
// concurrently.
type Scanner struct {
	Handlers       []packages.Handler
	Cache          cache.Cache
	Keyer          cache.Keyer
	Logger         *log.Logger
	SkipDirs       []string
	Workers        int
	TTL            time.Duration
	FollowSymlinks bool

	// Progress, when set, is called after each candidate manifest has been
	// processed. Calls are serialized.
	Progress func(done, total int)
}

// New creates a scanner with default settings.
// A nil cache disables caching and a nil logger uses log.Default().
func New(c cache.Cache, logger *log.Logger, handlers ...packages.Handler) *Scanner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{
		Handlers: handlers,
		Cache:    c,
		Keyer:    cache.NewDefaultKeyer(),
		Logger:   logger,
		SkipDirs: DefaultSkipDirs,
		Workers:  runtime.NumCPU(),
		TTL:      DefaultTTL,
	}
}

type candidate struct {
	path    string
	handler packages.Handler
}

// Scan walks root and recognizes every supported manifest below it.
//
// The returned report lists packages sorted by manifest path. Failures on
// individual files are collected in Report.Errors; an error is returned
// only when root cannot be walked or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, root string) (*Report, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scan root %s", root)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "scan root %s", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "scan root %s is not a directory", root)
	}

	report := &Report{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now().UTC(),
		Packages:  []*packages.Package{},
	}
	observability.Scan().OnScanStart(ctx, root)
	s.logger().Debug("scan started", "id", report.ID, "root", root)

	err = s.run(ctx, root, report)
	report.Duration = time.Since(report.StartedAt)
	observability.Scan().OnScanComplete(ctx, root, len(report.Packages), len(report.Errors), report.Duration, err)
	if err != nil {
		return nil, err
	}

	report.sort()
	s.logger().Info("scan complete",
		"root", root,
		"packages", len(report.Packages),
		"errors", len(report.Errors),
		"cache_hits", report.Stats.CacheHits,
		"duration", report.Duration.Round(time.Millisecond))
	return report, nil
}

func (s *Scanner) run(ctx context.Context, root string, report *Report) error {
	candidates, err := s.discover(ctx, root)
	if err != nil {
		return err
	}
	report.Stats.Candidates = len(candidates)

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Workers, 1))

	for _, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pkg, hit, err := s.recognizeFile(gctx, c.handler, c.path)

			mu.Lock()
			defer mu.Unlock()
			if hit {
				report.Stats.CacheHits++
			}
			switch {
			case err != nil:
				s.logger().Warn("cannot recognize manifest", "path", c.path, "err", err)
				report.Errors = append(report.Errors, newFileError(c.path, err))
			case pkg == nil:
				report.Stats.Skipped++
			default:
				report.Packages = append(report.Packages, pkg)
			}
			done++
			if s.Progress != nil {
				s.Progress(done, len(candidates))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// discover walks root and returns the files some handler supports.
func (s *Scanner) discover(ctx context.Context, root string) ([]candidate, error) {
	var found []candidate
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.logger().Debug("skipping unreadable path", "path", path, "err", err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(s.SkipDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		h := s.handlerFor(d.Name())
		if h == nil {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if !s.FollowSymlinks {
				return nil
			}
			if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}
		found = append(found, candidate{path: path, handler: h})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "walk %s", root)
	}
	return found, nil
}

func (s *Scanner) handlerFor(name string) packages.Handler {
	for _, h := range s.Handlers {
		if h.Supports(name) {
			return h
		}
	}
	return nil
}

// Recognize recognizes the single manifest at path with the first handler
// that supports its file name, going through the cache.
func (s *Scanner) Recognize(ctx context.Context, path string) (*packages.Package, error) {
	h, err := packages.Detect(path, s.Handlers...)
	if err != nil {
		return nil, err
	}
	pkg, _, err := s.recognizeFile(ctx, h, path)
	return pkg, err
}

// RecognizeBytes recognizes manifest content that did not come from disk,
// such as an HTTP request body. name selects the handler and becomes the
// package's manifest path.
func (s *Scanner) RecognizeBytes(ctx context.Context, name string, data []byte) (*packages.Package, error) {
	h, err := packages.Detect(name, s.Handlers...)
	if err != nil {
		return nil, err
	}
	br, ok := h.(packages.BytesRecognizer)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s handler cannot recognize in-memory content", h.Type())
	}
	pkg, _, err := s.cached(ctx, h.Type(), name, data, func() (*packages.Package, error) {
		return br.RecognizeBytes(name, data)
	})
	return pkg, err
}

func (s *Scanner) recognizeFile(ctx context.Context, h packages.Handler, path string) (*packages.Package, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.ErrCodeInternal
		if os.IsNotExist(err) {
			code = errors.ErrCodeFileNotFound
		}
		return nil, false, errors.Wrap(code, err, "read %s", path)
	}
	return s.cached(ctx, h.Type(), path, data, func() (*packages.Package, error) {
		if br, ok := h.(packages.BytesRecognizer); ok {
			return br.RecognizeBytes(path, data)
		}
		return h.Recognize(path)
	})
}

// cached returns the result for data from the cache, or computes it with
// recognize and stores it. Failures are not cached.
func (s *Scanner) cached(ctx context.Context, handlerType, path string, data []byte, recognize func() (*packages.Package, error)) (*packages.Package, bool, error) {
	key := s.keyer().ResultKey(handlerType, cache.Hash(data))

	if raw, hit, err := s.resultCache().Get(ctx, key); err == nil && hit {
		if pkg, ok := decodeResult(raw); ok {
			observability.Cache().OnCacheHit(ctx, "result")
			observability.Scan().OnRecognize(ctx, handlerType, path, pkg != nil, 0, nil)
			return relocate(pkg, path), true, nil
		}
	} else if err != nil {
		s.logger().Debug("cache read failed", "key", key, "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, "result")

	start := time.Now()
	pkg, err := recognize()
	observability.Scan().OnRecognize(ctx, handlerType, path, pkg != nil, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	raw := noPackage
	if pkg != nil {
		if raw, err = json.Marshal(pkg); err != nil {
			return pkg, false, nil
		}
	}
	if err := s.resultCache().Set(ctx, key, raw, s.TTL); err != nil {
		s.logger().Debug("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "result", len(raw))
	}
	return pkg, false, nil
}

func (s *Scanner) logger() *log.Logger {
	if s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}

func (s *Scanner) resultCache() cache.Cache {
	if s.Cache == nil {
		return cache.NewNullCache()
	}
	return s.Cache
}

func (s *Scanner) keyer() cache.Keyer {
	if s.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return s.Keyer
}

func decodeResult(raw []byte) (*packages.Package, bool) {
	if bytes.Equal(raw, noPackage) {
		return nil, true
	}
	var pkg packages.Package
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, false
	}
	return &pkg, true
}

// relocate points a cached package at the manifest it was found at this
// time, since identical content may live in several places.
func relocate(pkg *packages.Package, path string) *packages.Package {
	if pkg == nil {
		return nil
	}
	pkg.Location = filepath.Dir(path)
	pkg.MetafileLocations = []string{path}
	return pkg
}
