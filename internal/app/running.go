package app

import (
	"log/slog"

	"github.com/1broseidon/winbridge/internal/event"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/signal"
)

// running is the loop-bound half of an Application. Every method runs on
// the loop thread.
type running struct {
	handle    *Handle
	wakeUps   []signal.Notifier
	semaphore signal.Notifier
	logger    *slog.Logger
}

var _ platform.Handler = (*running)(nil)

func (r *running) CanCreateSurfaces(loop platform.ActiveLoop) {
	r.handle.loopThread.Store(int64(currentThreadID()))
	r.logger.Debug("surfaces available", "thread", r.handle.LoopThread())
	// Actions sent before Run are pending here.
	r.drain(loop)
}

// ProxyWakeUp drains every queued action, then fires each wake-up
// signaller once.
func (r *running) ProxyWakeUp(loop platform.ActiveLoop) {
	r.drain(loop)
	for _, n := range r.wakeUps {
		n.Signal()
	}
}

func (r *running) drain(loop platform.ActiveLoop) {
	for {
		a, ok := r.handle.actions.tryRecv()
		if !ok {
			return
		}
		r.handle.counters.actionsHandled.Add(1)
		r.handleAction(loop, a)
	}
}

func (r *running) handleAction(loop platform.ActiveLoop, a Action) {
	switch a := a.(type) {
	case FunctionCall:
		if a.Fn != nil {
			a.Fn()
		}

	case CreateWindow:
		w := r.createWindow(loop, a.Attributes)
		if w != nil && a.OnCreated != nil {
			a.OnCreated(w)
		}

	case RequestSurfaceSize:
		r.requestSurfaceSize(a)

	case Exit:
		r.logger.Info("exit requested")
		r.handle.actions.close()
		loop.Exit()

	default:
		r.logger.Warn("unknown action dropped", "type", actionName(a))
	}
}

func (r *running) createWindow(loop platform.ActiveLoop, attrs platform.WindowAttributes) (w *Window) {
	defer func() {
		if err := recover(); err != nil {
			r.handle.counters.panicsRecovered.Add(1)
			r.handle.counters.createFailures.Add(1)
			r.logger.Error("create window panic recovered", "error", err)
			w = nil
		}
	}()

	native, err := loop.CreateWindow(attrs)
	if err != nil {
		r.handle.counters.createFailures.Add(1)
		r.logger.Warn("create window failed", "title", attrs.Title, "error", err)
		return nil
	}

	w = newWindow(r.handle, native)
	r.handle.register(w)
	r.handle.counters.windowsCreated.Add(1)
	r.logger.Debug("window created", "id", w.id, "title", attrs.Title, "size", w.SurfaceSize())
	return w
}

func (r *running) requestSurfaceSize(a RequestSurfaceSize) {
	w, ok := r.handle.Window(a.WindowID)
	if !ok {
		r.handle.counters.resizesDropped.Add(1)
		r.logger.Debug("resize for unknown window ignored", "id", a.WindowID)
		return
	}

	var err error
	if !w.withNative(func(n platform.Window) { err = n.RequestSurfaceSize(a.Size) }) {
		r.handle.counters.resizesDropped.Add(1)
		r.logger.Debug("resize for closed window ignored", "id", a.WindowID)
		return
	}
	if err != nil {
		r.handle.counters.resizesDropped.Add(1)
		r.logger.Warn("resize request failed", "id", a.WindowID, "width", a.Size.Width, "height", a.Size.Height, "error", err)
	}
}

// WindowEvent updates the window's cached state, converts the raw event
// and publishes the result. Panics are recovered here so they never reach
// the native pump.
func (r *running) WindowEvent(loop platform.ActiveLoop, id platform.WindowID, raw platform.WindowEvent) {
	defer func() {
		if err := recover(); err != nil {
			r.handle.counters.panicsRecovered.Add(1)
			r.logger.Error("window event panic recovered", "id", id, "error", err)
		}
	}()

	w, ok := r.handle.Window(id)
	if !ok {
		return
	}

	switch ev := raw.(type) {
	case platform.SurfaceResized:
		if !w.resized(ev.Size) {
			return
		}
	case platform.Moved:
		w.moved(ev.Position)
	case platform.RedrawRequested:
		w.redrawRequested()
	case platform.Destroyed:
		w.detach()
		r.logger.Debug("window destroyed", "id", id)
	}

	events := event.Convert(raw, w)

	if ev, ok := raw.(platform.ScaleFactorChanged); ok {
		r.keepLogicalSize(id, ev, events)
		w.setScaleFactor(ev.ScaleFactor)
	}

	if len(events) == 0 {
		return
	}
	r.handle.events.Push(id, events...)
	if r.semaphore != nil {
		r.semaphore.Signal()
	}
}

// keepLogicalSize asks the platform for the physical size that keeps the
// window's logical size under the new scale.
func (r *running) keepLogicalSize(id platform.WindowID, ev platform.ScaleFactorChanged, events []event.Event) {
	if ev.Writer == nil || len(events) == 0 {
		return
	}
	changed, ok := events[0].(event.ScaleFactorChanged)
	if !ok {
		return
	}
	size := platform.PhysicalSize{Width: changed.Width, Height: changed.Height}
	if err := ev.Writer.RequestSurfaceSize(size); err != nil {
		r.handle.counters.resizesDropped.Add(1)
		r.logger.Warn("scale factor resize failed", "id", id, "scale", ev.ScaleFactor,
			"width", size.Width, "height", size.Height, "error", err)
	}
}
