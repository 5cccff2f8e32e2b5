package headless

import (
	"github.com/1broseidon/winbridge/internal/platform"
)

// Window is a headless platform.Window.
type Window struct {
	loop *Loop

	id        platform.WindowID
	attrs     platform.WindowAttributes
	size      platform.PhysicalSize
	position  platform.PhysicalPosition
	scale     float64
	cursor    platform.CursorIcon
	focused   bool
	redraws   int
	destroyed bool
}

var _ platform.Window = (*Window)(nil)

func (w *Window) ID() platform.WindowID { return w.id }

func (w *Window) ScaleFactor() float64 {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.scale
}

func (w *Window) SurfaceSize() platform.PhysicalSize {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.size
}

func (w *Window) OuterPosition() (platform.PhysicalPosition, error) {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.position, nil
}

// SetOuterPosition moves the window and reports a Moved event.
func (w *Window) SetOuterPosition(pos platform.PhysicalPosition) {
	w.loop.mu.Lock()
	w.position = pos
	dead := w.destroyed
	w.loop.mu.Unlock()
	if !dead {
		w.loop.Inject(w.id, platform.Moved{Position: pos})
	}
}

// RequestSurfaceSize applies the size and reports a SurfaceResized event,
// as a compositor acknowledging the request would.
func (w *Window) RequestSurfaceSize(size platform.PhysicalSize) error {
	w.loop.mu.Lock()
	if w.destroyed {
		w.loop.mu.Unlock()
		return platform.ErrNotSupported
	}
	w.size = size
	w.loop.mu.Unlock()
	w.loop.Inject(w.id, platform.SurfaceResized{Size: size})
	return nil
}

func (w *Window) RequestRedraw() {
	w.loop.mu.Lock()
	w.redraws++
	w.loop.mu.Unlock()
}

func (w *Window) SetCursor(icon platform.CursorIcon) {
	w.loop.mu.Lock()
	w.cursor = icon
	w.loop.mu.Unlock()
}

func (w *Window) Focus() {
	w.loop.mu.Lock()
	w.focused = true
	w.loop.mu.Unlock()
}

func (w *Window) CurrentMonitor() (platform.Monitor, bool) {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return platform.Monitor{
		Name:        "headless-0",
		Size:        platform.PhysicalSize{Width: 1920, Height: 1080},
		ScaleFactor: w.scale,
		Primary:     true,
	}, true
}

func (w *Window) RawWindowHandle() (platform.RawWindowHandle, error) {
	return platform.RawWindowHandle{Kind: platform.HandleHeadless, Window: uintptr(w.id)}, nil
}

func (w *Window) RawDisplayHandle() (platform.RawDisplayHandle, error) {
	return platform.RawDisplayHandle{Kind: platform.HandleHeadless, Name: "headless"}, nil
}

// Destroy removes the window once its Destroyed event is dispatched.
func (w *Window) Destroy() {
	w.loop.mu.Lock()
	if w.destroyed {
		w.loop.mu.Unlock()
		return
	}
	w.destroyed = true
	w.loop.mu.Unlock()
	w.loop.Inject(w.id, platform.Destroyed{})
}

// SetScaleFactor changes the window's scale and delivers a
// ScaleFactorChanged event whose writer resizes the window.
func (w *Window) SetScaleFactor(scale float64) {
	w.loop.mu.Lock()
	w.scale = scale
	w.loop.mu.Unlock()
	w.loop.Inject(w.id, platform.ScaleFactorChanged{ScaleFactor: scale, Writer: sizeWriter{w: w}})
}

type sizeWriter struct{ w *Window }

func (s sizeWriter) RequestSurfaceSize(size platform.PhysicalSize) error {
	return s.w.RequestSurfaceSize(size)
}

// Attributes returns the attributes the window was created with.
func (w *Window) Attributes() platform.WindowAttributes {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.attrs
}

// Cursor returns the last cursor set.
func (w *Window) Cursor() platform.CursorIcon {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.cursor
}

// Redraws returns how many redraws were requested.
func (w *Window) Redraws() int {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.redraws
}

// Focused reports whether Focus was called.
func (w *Window) Focused() bool {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.focused
}

// Destroyed reports whether Destroy was called.
func (w *Window) Destroyed() bool {
	w.loop.mu.Lock()
	defer w.loop.mu.Unlock()
	return w.destroyed
}
