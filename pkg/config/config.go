// Package config loads pkgscan settings from a TOML file.
//
// A missing file is not an error: [Load] falls back to [Default]. Keys the
// schema does not know are rejected so typos surface early.
//
//	[scan]
//	skip_dirs = ["vendor", "node_modules", ".git"]
//	workers = 8
//
//	[cache]
//	backend = "redis"
//	redis_addr = "cache.internal:6379"
//	ttl = "12h"
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pkgscan/pkg/errors"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "pkgscan.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Scan   ScanConfig   `toml:"scan"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// ScanConfig controls directory walking.
type ScanConfig struct {
	SkipDirs       []string `toml:"skip_dirs"`
	Workers        int      `toml:"workers"`
	FollowSymlinks bool     `toml:"follow_symlinks"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"` // Empty means the XDG cache directory
	TTL       time.Duration `toml:"ttl"`
	RedisAddr string        `toml:"redis_addr"`
	Namespace string        `toml:"namespace"` // Key prefix for caches shared between projects
}

// StoreConfig configures the optional MongoDB report sink.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
	Root string `toml:"root"` // Directory that /v1/scan paths are resolved against
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			SkipDirs: []string{"vendor", "node_modules", ".git"},
			Workers:  runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       24 * time.Hour,
			RedisAddr: "localhost:6379",
		},
		Store: StoreConfig{
			Database: "pkgscan",
		},
		Server: ServerConfig{
			Addr: ":8080",
			Root: ".",
		},
	}
}

// Load reads path on top of [Default]. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and backend names.
func (c *Config) Validate() error {
	if c.Scan.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of file, redis, none; got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Store.MongoURI != "" && c.Store.Database == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.database is required when store.mongo_uri is set")
	}
	return nil
}

// CacheDir returns Cache.Dir, or $XDG_CACHE_HOME/pkgscan (~/.cache/pkgscan)
// when it is unset.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "pkgscan"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "pkgscan"), nil
}
