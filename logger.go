package gfaestus

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/chfi/gfaestus/binning"
	"github.com/chfi/gfaestus/edges"
	"github.com/chfi/gfaestus/gpu"
	"github.com/chfi/gfaestus/render"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for gfaestus and all its sub-packages
// (gpu, binning, edges, render). By default, gfaestus produces no log
// output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by gfaestus:
//   - [slog.LevelDebug]: internal diagnostics (kernel dispatch, buffer sizes)
//   - [slog.LevelInfo]: important lifecycle events (GPU device acquired)
//   - [slog.LevelWarn]: non-fatal issues (CPU fallback, resource release errors)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	gfaestus.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	gfaestus.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	gpu.SetLogger(l)
	binning.SetLogger(l)
	edges.SetLogger(l)
	render.SetLogger(l)

	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger installed through SetLogger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
