// Package ffi exposes the bridge through opaque numeric handles so that it
// can be driven from C. Every entry point tolerates null and stale handles:
// the failure is logged and a zero value returned.
package ffi

import (
	"log/slog"

	"github.com/1broseidon/winbridge/internal/app"
	"github.com/1broseidon/winbridge/internal/boxes"
	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/signal"
)

// Handle is an opaque reference returned to foreign callers.
type Handle = boxes.Handle

// ResizeFunc is a foreign resize listener.
type ResizeFunc func(thunk uintptr, width, height uint32)

// CreatedFunc receives the boxed window handle of a new window on the loop
// thread.
type CreatedFunc func(thunk uintptr, window Handle)

// Bridge owns the arenas behind every foreign handle.
type Bridge struct {
	factory platform.Factory
	logger  *slog.Logger

	builders   *boxes.Arena[*app.Builder]
	apps       *boxes.Arena[*app.Application]
	handles    *boxes.Arena[*app.Handle]
	semaphores *boxes.Arena[signal.SemaphoreSignaller]
	attributes *boxes.Arena[platform.WindowAttributes]
	windows    *boxes.Arena[*app.Window]
	events     *boxes.Arena[event.WindowEvent]
}

// New returns a bridge whose applications build their native loop with
// factory.
func New(factory platform.Factory, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		factory:    factory,
		logger:     logger,
		builders:   boxes.NewArena[*app.Builder]("builder", logger),
		apps:       boxes.NewArena[*app.Application]("application", logger),
		handles:    boxes.NewArena[*app.Handle]("application_handle", logger),
		semaphores: boxes.NewArena[signal.SemaphoreSignaller]("semaphore_signaller", logger),
		attributes: boxes.NewArena[platform.WindowAttributes]("window_attributes", logger),
		windows:    boxes.NewArena[*app.Window]("window_handle", logger),
		events:     boxes.NewArena[event.WindowEvent]("window_event", logger),
	}
}

// Live reports how many values are boxed per arena.
func (b *Bridge) Live() map[string]int {
	return map[string]int{
		"builder":             b.builders.Len(),
		"application":         b.apps.Len(),
		"application_handle":  b.handles.Len(),
		"semaphore_signaller": b.semaphores.Len(),
		"window_attributes":   b.attributes.Len(),
		"window_handle":       b.windows.Len(),
		"window_event":        b.events.Len(),
	}
}

// BuilderNew boxes a new application builder.
func (b *Bridge) BuilderNew() Handle {
	return b.builders.Box(app.NewBuilder(b.factory).WithLogger(b.logger))
}

func (b *Bridge) BuilderAddWakeUpSignaller(h Handle, fn signal.WakeUpFunc, thunk uintptr) bool {
	builder, err := b.builders.Borrow(h)
	if err != nil {
		return false
	}
	builder.AddWakeUpSignaller(signal.NewWakeUpSignaller(fn, thunk))
	return true
}

// BuilderSetSemaphoreSignaller moves the signaller into the builder; the
// signaller handle is consumed.
func (b *Bridge) BuilderSetSemaphoreSignaller(h, semaphore Handle) bool {
	builder, err := b.builders.Borrow(h)
	if err != nil {
		return false
	}
	sem, err := b.semaphores.Take(semaphore)
	if err != nil {
		return false
	}
	builder.SetSemaphoreSignaller(sem)
	return true
}

// BuilderBuild consumes the builder and boxes the built application. It
// returns the null handle when the native loop cannot be built.
func (b *Bridge) BuilderBuild(h Handle) Handle {
	builder, err := b.builders.Take(h)
	if err != nil {
		return 0
	}
	a, err := builder.Build()
	if err != nil {
		b.logger.Error("build application failed", "error", err)
		return 0
	}
	return b.apps.Box(a)
}

func (b *Bridge) BuilderRelease(h Handle) {
	_ = b.builders.Release(h)
}

func (b *Bridge) SemaphoreSignallerNew(fn signal.SemaphoreFunc, index int, thunk uintptr) Handle {
	return b.semaphores.Box(signal.NewSemaphoreSignaller(fn, index, thunk))
}

func (b *Bridge) SemaphoreSignallerRelease(h Handle) {
	_ = b.semaphores.Release(h)
}

// ApplicationHandle boxes a new reference to the application's handle.
func (b *Bridge) ApplicationHandle(h Handle) Handle {
	a, err := b.apps.Borrow(h)
	if err != nil {
		return 0
	}
	return b.handles.Box(a.Handle())
}

// ApplicationRun consumes the application and pumps its loop on the calling
// thread until it exits.
func (b *Bridge) ApplicationRun(h Handle) bool {
	a, err := b.apps.Take(h)
	if err != nil {
		return false
	}
	if err := a.Run(); err != nil {
		b.logger.Error("application run failed", "error", err)
		return false
	}
	return true
}

func (b *Bridge) ApplicationRelease(h Handle) {
	_ = b.apps.Release(h)
}
