// Package cli implements the pkgscan command-line interface.
//
// Commands:
//   - scan: find and recognize every manifest under a directory
//   - inspect: recognize a single manifest
//   - graph: draw the declared dependencies as DOT or SVG
//   - serve: run the HTTP API
//   - cache: manage the result cache
//
// All commands accept --config to point at a pkgscan.toml and --verbose
// (-v) for debug logging. The logger travels through context.Context.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscan/pkg/cache"
	"github.com/matzehuels/pkgscan/pkg/config"
	"github.com/matzehuels/pkgscan/pkg/packages"
	"github.com/matzehuels/pkgscan/pkg/packages/composer"
	"github.com/matzehuels/pkgscan/pkg/scan"
	"github.com/matzehuels/pkgscan/pkg/store"
)

const appName = "pkgscan"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger     *log.Logger
	ConfigPath string
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads --config, or pkgscan.toml in the working directory when
// the flag is unset.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.ConfigPath
	if path == "" {
		path = config.FileName
	}
	return config.Load(path)
}

// handlers returns every manifest handler the CLI knows.
func handlers(logger *log.Logger) []packages.Handler {
	return []packages.Handler{composer.New(logger)}
}

// openCache opens the backend selected by cfg, or a NullCache when
// noCache is set.
func openCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.Cache.RedisAddr})
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// newScanner builds a scanner from cfg. A cache that cannot be opened is
// logged and replaced by a NullCache. The caller must Close the scanner's
// cache.
func newScanner(ctx context.Context, cfg *config.Config, noCache bool) *scan.Scanner {
	logger := loggerFromContext(ctx)
	c, err := openCache(ctx, cfg, noCache)
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "err", err)
		c = cache.NewNullCache()
	}

	s := scan.New(c, logger, handlers(logger)...)
	s.SkipDirs = cfg.Scan.SkipDirs
	s.Workers = cfg.Scan.Workers
	s.FollowSymlinks = cfg.Scan.FollowSymlinks
	s.TTL = cfg.Cache.TTL
	if cfg.Cache.Namespace != "" {
		s.Keyer = cache.NewScopedKeyer(s.Keyer, cfg.Cache.Namespace+":")
	}
	return s
}

// openStore connects to the report store, or returns nil when none is
// configured.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Store.MongoURI == "" {
		return nil, nil
	}
	st, err := store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.Database)
	if err != nil {
		return nil, err
	}
	return st, nil
}
