package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgscan/pkg/observability"
)

// debugHooks logs scan and cache events. It is registered for --verbose.
type debugHooks struct {
	observability.NoopScanHooks
	logger *log.Logger
}

func (h debugHooks) OnRecognize(_ context.Context, handlerType, path string, found bool, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("recognize failed", "handler", handlerType, "path", path, "err", err)
		return
	}
	h.logger.Debug("recognized", "handler", handlerType, "path", path, "package", found, "took", d.Round(time.Microsecond))
}

func (h debugHooks) OnScanComplete(_ context.Context, root string, pkgs, failures int, d time.Duration, err error) {
	h.logger.Debug("scan complete", "root", root, "packages", pkgs, "failures", failures, "took", d.Round(time.Millisecond), "err", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string)  { h.logger.Debug("cache hit", "type", keyType) }
func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) { h.logger.Debug("cache miss", "type", keyType) }
func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func registerDebugHooks(logger *log.Logger) {
	h := debugHooks{logger: logger}
	observability.SetScanHooks(h)
	observability.SetCacheHooks(h)
}
