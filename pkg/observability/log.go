package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnBuildStart(_ context.Context, file string) {
	h.logger.Debug("build started", "file", file)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, file string, nodes, warnings int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "file", file, "duration", d, "err", err)
		return
	}
	h.logger.Debug("build finished", "file", file, "nodes", nodes, "warnings", warnings, "duration", d)
}

func (h *LogHooks) OnResolveComplete(_ context.Context, file string, resolved bool, d time.Duration) {
	h.logger.Debug("labels placed", "file", file, "resolved", resolved, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, kind, format string) {
	h.logger.Debug("render started", "kind", kind, "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, kind, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "kind", kind, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "kind", kind, "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h *LogHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cached", "kind", kind, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
