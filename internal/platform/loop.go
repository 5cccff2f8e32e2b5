// Package platform defines the boundary between the bridge and a native
// windowing system. Backends (X11, headless) implement these interfaces;
// everything above them is platform neutral.
package platform

import "errors"

// ErrNotSupported is returned by backends for operations they cannot
// perform.
var ErrNotSupported = errors.New("operation not supported by backend")

// ErrUnknownBackend is returned when a backend name matches no native
// layer.
var ErrUnknownBackend = errors.New("unknown backend")

// EventLoop is a native event loop. It must be run on the goroutine (and
// locked OS thread) that constructed it.
type EventLoop interface {
	// CreateProxy returns a wake-up handle usable from any goroutine.
	CreateProxy() Proxy
	// Run blocks dispatching native events to h until ActiveLoop.Exit is
	// called or the platform shuts down.
	Run(h Handler) error
}

// Proxy wakes a running loop. WakeUp may be called from any goroutine and
// coalesces: several calls before the loop notices produce at least one
// ProxyWakeUp callback.
type Proxy interface {
	WakeUp()
}

// ActiveLoop is the loop as seen from inside a callback.
type ActiveLoop interface {
	CreateWindow(attrs WindowAttributes) (Window, error)
	Exit()
}

// Handler receives native callbacks on the loop thread.
type Handler interface {
	// CanCreateSurfaces is delivered once the platform allows windows.
	CanCreateSurfaces(loop ActiveLoop)
	ProxyWakeUp(loop ActiveLoop)
	WindowEvent(loop ActiveLoop, id WindowID, ev WindowEvent)
}

// Window is a native window. All methods must be called on the loop
// thread.
type Window interface {
	ID() WindowID
	ScaleFactor() float64
	SurfaceSize() PhysicalSize
	OuterPosition() (PhysicalPosition, error)
	SetOuterPosition(pos PhysicalPosition)
	RequestSurfaceSize(size PhysicalSize) error
	RequestRedraw()
	SetCursor(icon CursorIcon)
	Focus()
	CurrentMonitor() (Monitor, bool)
	RawWindowHandle() (RawWindowHandle, error)
	RawDisplayHandle() (RawDisplayHandle, error)
	Destroy()
}

// Monitor describes a display output.
type Monitor struct {
	Name        string
	Position    PhysicalPosition
	Size        PhysicalSize
	ScaleFactor float64
	Primary     bool
}

// HandleKind identifies the windowing system a raw handle belongs to.
type HandleKind uint8

const (
	HandleUnknown HandleKind = iota
	HandleXcb
	HandleXlib
	HandleWayland
	HandleAppKit
	HandleWin32
	HandleHeadless
)

func (k HandleKind) String() string {
	switch k {
	case HandleXcb:
		return "xcb"
	case HandleXlib:
		return "xlib"
	case HandleWayland:
		return "wayland"
	case HandleAppKit:
		return "appkit"
	case HandleWin32:
		return "win32"
	case HandleHeadless:
		return "headless"
	default:
		return "unknown"
	}
}

// RawWindowHandle is an opaque native window reference for graphics
// integration.
type RawWindowHandle struct {
	Kind   HandleKind
	Window uintptr
	Visual uint32
}

// RawDisplayHandle is an opaque native display connection reference.
type RawDisplayHandle struct {
	Kind    HandleKind
	Display uintptr
	Screen  int
	Name    string
}

// Factory builds a native event loop. It is called on the goroutine that
// will later call Run.
type Factory func() (EventLoop, error)
