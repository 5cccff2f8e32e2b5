package app

import (
	"sync"

	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/signal"
)

// ResizeListener is told about every non-zero surface size change.
type ResizeListener interface {
	Resized(size platform.PhysicalSize)
}

// ResizeFunc adapts a function to ResizeListener.
type ResizeFunc func(size platform.PhysicalSize)

func (f ResizeFunc) Resized(size platform.PhysicalSize) { f(size) }

type windowData struct {
	scaleFactor     float64
	position        platform.PhysicalPosition
	size            platform.PhysicalSize
	redrawListeners []signal.Notifier
	resizeListeners []ResizeListener
}

// Window is a shared reference to a window's cached state and, until
// Close, its native window. A *Window may be used from any goroutine.
// After Close geometry getters keep returning the last cached values and
// mutating calls do nothing.
type Window struct {
	id     platform.WindowID
	handle *Handle

	mu   sync.Mutex
	data windowData

	nativeMu sync.Mutex
	native   platform.Window
}

func newWindow(h *Handle, native platform.Window) *Window {
	w := &Window{
		id:     native.ID(),
		handle: h,
		native: native,
	}
	w.data.scaleFactor = native.ScaleFactor()
	w.data.size = native.SurfaceSize()
	if pos, err := native.OuterPosition(); err == nil {
		w.data.position = pos
	}
	return w
}

// ID returns the native window id. It stays valid after Close.
func (w *Window) ID() platform.WindowID {
	return w.id
}

// Handle returns the owning application handle.
func (w *Window) Handle() *Handle {
	return w.handle
}

func (w *Window) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.scaleFactor
}

func (w *Window) SurfaceSize() platform.PhysicalSize {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.size
}

func (w *Window) OuterPosition() platform.PhysicalPosition {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.position
}

func (w *Window) IsClosed() bool {
	w.nativeMu.Lock()
	defer w.nativeMu.Unlock()
	return w.native == nil
}

// withNative runs fn with the native window if the window is open.
func (w *Window) withNative(fn func(platform.Window)) bool {
	w.nativeMu.Lock()
	defer w.nativeMu.Unlock()
	if w.native == nil {
		return false
	}
	fn(w.native)
	return true
}

// SetOuterPosition moves the window. The cached position follows once the
// platform reports the move.
func (w *Window) SetOuterPosition(pos platform.PhysicalPosition) {
	w.withNative(func(n platform.Window) { n.SetOuterPosition(pos) })
}

// RequestSurfaceSize queues a resize on the loop thread.
func (w *Window) RequestSurfaceSize(size platform.PhysicalSize) error {
	return w.handle.RequestSurfaceSize(w.id, size)
}

func (w *Window) RequestRedraw() {
	w.withNative(func(n platform.Window) { n.RequestRedraw() })
}

func (w *Window) SetCursor(icon platform.CursorIcon) {
	w.withNative(func(n platform.Window) { n.SetCursor(icon) })
}

func (w *Window) Focus() error {
	if !w.withNative(func(n platform.Window) { n.Focus() }) {
		return ErrWindowClosed
	}
	return nil
}

func (w *Window) CurrentMonitor() (platform.Monitor, error) {
	var (
		mon platform.Monitor
		ok  bool
	)
	if !w.withNative(func(n platform.Window) { mon, ok = n.CurrentMonitor() }) {
		return platform.Monitor{}, ErrWindowClosed
	}
	if !ok {
		return platform.Monitor{}, ErrNoMonitor
	}
	return mon, nil
}

func (w *Window) RawWindowHandle() (platform.RawWindowHandle, error) {
	var (
		raw platform.RawWindowHandle
		err error
	)
	if !w.withNative(func(n platform.Window) { raw, err = n.RawWindowHandle() }) {
		return platform.RawWindowHandle{}, ErrWindowClosed
	}
	return raw, err
}

func (w *Window) RawDisplayHandle() (platform.RawDisplayHandle, error) {
	var (
		raw platform.RawDisplayHandle
		err error
	)
	if !w.withNative(func(n platform.Window) { raw, err = n.RawDisplayHandle() }) {
		return platform.RawDisplayHandle{}, ErrWindowClosed
	}
	return raw, err
}

// AddRedrawListener appends a listener fired on every redraw request.
// Listeners live as long as the window.
func (w *Window) AddRedrawListener(n signal.Notifier) {
	if n == nil {
		return
	}
	w.mu.Lock()
	w.data.redrawListeners = append(w.data.redrawListeners, n)
	w.mu.Unlock()
}

// AddResizeListener appends a listener fired on every non-zero resize.
func (w *Window) AddResizeListener(l ResizeListener) {
	if l == nil {
		return
	}
	w.mu.Lock()
	w.data.resizeListeners = append(w.data.resizeListeners, l)
	w.mu.Unlock()
}

// Close destroys the native window. Only the first call has an effect.
func (w *Window) Close() {
	w.nativeMu.Lock()
	native := w.native
	w.native = nil
	w.nativeMu.Unlock()

	if native != nil {
		native.Destroy()
	}
}

// detach drops the native window without destroying it, after the platform
// already has.
func (w *Window) detach() {
	w.nativeMu.Lock()
	w.native = nil
	w.nativeMu.Unlock()
}

// resized caches a new surface size and fires resize listeners. 0x0 is
// ignored and reported as false.
func (w *Window) resized(size platform.PhysicalSize) bool {
	if size.IsZero() {
		return false
	}
	w.mu.Lock()
	w.data.size = size
	listeners := append([]ResizeListener(nil), w.data.resizeListeners...)
	w.mu.Unlock()

	for _, l := range listeners {
		l.Resized(size)
	}
	return true
}

func (w *Window) moved(pos platform.PhysicalPosition) {
	w.mu.Lock()
	w.data.position = pos
	w.mu.Unlock()
}

func (w *Window) redrawRequested() {
	w.mu.Lock()
	listeners := append([]signal.Notifier(nil), w.data.redrawListeners...)
	w.mu.Unlock()

	for _, l := range listeners {
		l.Signal()
	}
}

func (w *Window) setScaleFactor(scale float64) {
	w.mu.Lock()
	w.data.scaleFactor = scale
	w.mu.Unlock()
}
