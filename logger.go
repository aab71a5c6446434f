package gfx

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// attached holds the devices of live renderers so SetLogger can reach them.
var (
	attachedMu sync.Mutex
	attached   = map[loggerSetter]int{}
)

// SetLogger configures the logger for gfx and every backend device
// attached to a live Renderer. By default gfx produces no log output.
//
// Pass nil to disable logging again.
//
// Log levels used by gfx:
//   - [slog.LevelDebug]: skipped draws, buffer growth, misuse diagnostics
//   - [slog.LevelInfo]: backend setup
//   - [slog.LevelWarn]: backend failures in the per-frame path
//
// Example:
//
//	gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	attachedMu.Lock()
	devs := make([]loggerSetter, 0, len(attached))
	for d := range attached {
		devs = append(devs, d)
	}
	attachedMu.Unlock()
	for _, d := range devs {
		d.SetLogger(l)
	}
}

// Logger returns the current logger used by gfx.
// Sub-packages (text, backend/...) call this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by devices that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// attachDevice registers a device with the logger fan-out and hands it the
// current logger. Devices without a SetLogger method are ignored.
func attachDevice(dev any) {
	ls, ok := dev.(loggerSetter)
	if !ok {
		return
	}
	attachedMu.Lock()
	attached[ls]++
	attachedMu.Unlock()
	ls.SetLogger(Logger())
}

func detachDevice(dev any) {
	ls, ok := dev.(loggerSetter)
	if !ok {
		return
	}
	attachedMu.Lock()
	defer attachedMu.Unlock()
	if attached[ls] <= 1 {
		delete(attached, ls)
		return
	}
	attached[ls]--
}
