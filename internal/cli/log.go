package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tileboard/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Replayed 12 steps (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability
// =============================================================================

// logHooks reports canvas, cache and HTTP events to the logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetCanvasHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnTileAdded(_ context.Context, id, image string) {
	h.logger.Debug("tile added", "id", id, "image", image)
}

func (h *logHooks) OnTileAddFailed(_ context.Context, err error) {
	h.logger.Debug("tile add failed", "err", err)
}

func (h *logHooks) OnTileRemoved(_ context.Context, id string) {
	h.logger.Debug("tile removed", "id", id)
}

func (h *logHooks) OnGestureStart(_ context.Context, kind, id string) {
	h.logger.Debug("gesture start", "kind", kind, "id", id)
}

func (h *logHooks) OnGestureEnd(_ context.Context, kind, id string, d time.Duration, cancelled bool) {
	h.logger.Debug("gesture end", "kind", kind, "id", id, "took", d.Round(time.Millisecond), "cancelled", cancelled)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
