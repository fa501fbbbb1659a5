package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cytopush/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps writing to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Filtered 3 nodes (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// quieted returns a copy of l that only reports errors.
func quieted(l *log.Logger) *log.Logger {
	q := l.With()
	q.SetLevel(log.ErrorLevel)
	return q
}

// =============================================================================
// Verbose Hooks
// =============================================================================

// logHooks traces push steps and HTTP traffic at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PushHooks = (*logHooks)(nil)
	_ observability.HTTPHooks = (*logHooks)(nil)
)

func (h *logHooks) OnFilter(_ context.Context, runID, target string, nodes, edges int) {
	h.logger.Debug("filter", "run", short(runID), "target", target, "nodes", nodes, "edges", edges)
}

func (h *logHooks) OnStepStart(_ context.Context, runID, step string) {
	h.logger.Debug("step start", "run", short(runID), "step", step)
}

func (h *logHooks) OnStepComplete(_ context.Context, runID, step string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("step failed", "run", short(runID), "step", step, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("step done", "run", short(runID), "step", step, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

// short trims a run id for log lines.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
