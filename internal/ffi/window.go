package ffi

import (
	"github.com/1broseidon/winbridge/internal/app"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/signal"
)

// loopWindow borrows a window for an operation that must run on the loop
// thread. Off-thread calls are logged and then carried out.
func (b *Bridge) loopWindow(h Handle, op string) (*app.Window, bool) {
	w, err := b.windows.Borrow(h)
	if err != nil {
		return nil, false
	}
	if !w.Handle().OnLoopThread() {
		b.logger.Warn("loop-thread-only window operation called from another thread",
			"op", op, "window", uint64(w.ID()), "loop_thread", w.Handle().LoopThread())
	}
	return w, true
}

func (b *Bridge) WindowID(h Handle) uint64 {
	w, err := b.windows.Borrow(h)
	if err != nil {
		return 0
	}
	return uint64(w.ID())
}

func (b *Bridge) WindowScaleFactor(h Handle) float64 {
	w, err := b.windows.Borrow(h)
	if err != nil {
		return 0
	}
	return w.ScaleFactor()
}

func (b *Bridge) WindowSurfaceSize(h Handle) platform.PhysicalSize {
	w, err := b.windows.Borrow(h)
	if err != nil {
		return platform.PhysicalSize{}
	}
	return w.SurfaceSize()
}

func (b *Bridge) WindowPosition(h Handle) platform.PhysicalPosition {
	w, err := b.windows.Borrow(h)
	if err != nil {
		return platform.PhysicalPosition{}
	}
	return w.OuterPosition()
}

func (b *Bridge) WindowSetOuterPosition(h Handle, x, y int32) {
	if w, ok := b.loopWindow(h, "set_outer_position"); ok {
		w.SetOuterPosition(platform.PhysicalPosition{X: x, Y: y})
	}
}

func (b *Bridge) WindowSetCursorIcon(h Handle, code uint32) {
	if w, ok := b.loopWindow(h, "set_cursor_icon"); ok {
		w.SetCursor(platform.CursorIconFromCode(code))
	}
}

// WindowRequestSurfaceSize may be called from any thread.
func (b *Bridge) WindowRequestSurfaceSize(h Handle, width, height uint32) bool {
	w, err := b.windows.Borrow(h)
	if err != nil {
		return false
	}
	return w.RequestSurfaceSize(platform.PhysicalSize{Width: width, Height: height}) == nil
}

func (b *Bridge) WindowRequestRedraw(h Handle) {
	if w, ok := b.loopWindow(h, "request_redraw"); ok {
		w.RequestRedraw()
	}
}

func (b *Bridge) WindowAddRedrawListener(h Handle, fn signal.WakeUpFunc, thunk uintptr) bool {
	w, err := b.windows.Borrow(h)
	if err != nil || fn == nil {
		return false
	}
	w.AddRedrawListener(signal.NewWakeUpSignaller(fn, thunk))
	return true
}

func (b *Bridge) WindowAddResizeListener(h Handle, fn ResizeFunc, thunk uintptr) bool {
	w, err := b.windows.Borrow(h)
	if err != nil || fn == nil {
		return false
	}
	w.AddResizeListener(app.ResizeFunc(func(size platform.PhysicalSize) {
		fn(thunk, size.Width, size.Height)
	}))
	return true
}

func (b *Bridge) WindowFocus(h Handle) bool {
	w, ok := b.loopWindow(h, "focus")
	if !ok {
		return false
	}
	if err := w.Focus(); err != nil {
		b.logger.Warn("focus failed", "window", uint64(w.ID()), "error", err)
		return false
	}
	return true
}

// WindowCurrentMonitor reports false when the window is closed or has no
// monitor.
func (b *Bridge) WindowCurrentMonitor(h Handle) (platform.Monitor, bool) {
	w, ok := b.loopWindow(h, "current_monitor")
	if !ok {
		return platform.Monitor{}, false
	}
	mon, err := w.CurrentMonitor()
	if err != nil {
		b.logger.Warn("current monitor unavailable", "window", uint64(w.ID()), "error", err)
		return platform.Monitor{}, false
	}
	return mon, true
}

func (b *Bridge) WindowRawHandle(h Handle) (platform.RawWindowHandle, bool) {
	w, ok := b.loopWindow(h, "raw_window_handle")
	if !ok {
		return platform.RawWindowHandle{}, false
	}
	raw, err := w.RawWindowHandle()
	if err != nil {
		b.logger.Warn("raw window handle unavailable", "window", uint64(w.ID()), "error", err)
		return platform.RawWindowHandle{}, false
	}
	return raw, true
}

func (b *Bridge) WindowRawDisplayHandle(h Handle) (platform.RawDisplayHandle, bool) {
	w, ok := b.loopWindow(h, "raw_display_handle")
	if !ok {
		return platform.RawDisplayHandle{}, false
	}
	raw, err := w.RawDisplayHandle()
	if err != nil {
		b.logger.Warn("raw display handle unavailable", "window", uint64(w.ID()), "error", err)
		return platform.RawDisplayHandle{}, false
	}
	return raw, true
}

// WindowClose closes the window; the handle stays valid for queries.
func (b *Bridge) WindowClose(h Handle) {
	if w, ok := b.loopWindow(h, "close"); ok {
		w.Close()
	}
}

func (b *Bridge) WindowRelease(h Handle) {
	_ = b.windows.Release(h)
}
