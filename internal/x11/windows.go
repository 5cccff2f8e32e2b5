package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winbridge/internal/platform"
)

const (
	defaultWidth  = 800
	defaultHeight = 600

	windowEventMask = xproto.EventMaskKeyPress |
		xproto.EventMaskKeyRelease |
		xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskEnterWindow |
		xproto.EventMaskLeaveWindow |
		xproto.EventMaskPointerMotion |
		xproto.EventMaskExposure |
		xproto.EventMaskStructureNotify |
		xproto.EventMaskFocusChange
)

// Window is a top-level X11 window. All methods run on the loop thread.
type Window struct {
	l     *Loop
	win   *xwindow.Window
	attrs platform.WindowAttributes

	size          platform.PhysicalSize
	position      platform.PhysicalPosition
	scale         float64
	redrawPending bool
	destroyed     bool
}

var _ platform.Window = (*Window)(nil)

func (l *Loop) createWindow(attrs platform.WindowAttributes) (*Window, error) {
	xu := l.conn.XUtil

	var x, y int
	scale := l.monitorScale(0, 0, 1, 1)
	if mon, ok := PrimaryMonitor(l.monitors); ok {
		x, y = mon.X, mon.Y
		scale = l.monitorScale(mon.X, mon.Y, mon.Width, mon.Height)
	}

	size := platform.PhysicalSize{Width: defaultWidth, Height: defaultHeight}
	if attrs.SurfaceSize != nil {
		size = attrs.SurfaceSize.ToPhysical(scale)
	}
	// X rejects zero-sized windows.
	size.Width = max(size.Width, 1)
	size.Height = max(size.Height, 1)

	win, err := xwindow.Generate(xu)
	if err != nil {
		return nil, fmt.Errorf("allocate window id: %w", err)
	}
	err = win.CreateChecked(l.conn.Root, x, y, int(size.Width), int(size.Height),
		xproto.CwBackPixel|xproto.CwEventMask,
		xu.Screen().BlackPixel, windowEventMask)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &Window{
		l:        l,
		win:      win,
		attrs:    attrs,
		size:     size,
		position: platform.PhysicalPosition{X: int32(x), Y: int32(y)},
		scale:    scale,
	}
	l.setProperties(w)
	if attrs.Transparent {
		l.logger.Debug("transparent windows need an ARGB visual; using the default visual", "window", win.Id)
	}

	l.windows[win.Id] = w
	l.listen(w)

	if attrs.Visible {
		win.Map()
	}
	l.logger.Debug("window created", "window", win.Id, "size", size, "scale", scale)
	return w, nil
}

func (l *Loop) setProperties(w *Window) {
	xu := l.conn.XUtil
	id := w.win.Id
	attrs := w.attrs

	warn := func(prop string, err error) {
		if err != nil {
			l.logger.Debug("window property not set", "window", id, "property", prop, "error", err)
		}
	}

	warn("_NET_WM_NAME", ewmh.WmNameSet(xu, id, attrs.Title))
	warn("WM_NAME", icccm.WmNameSet(xu, id, attrs.Title))
	warn("WM_CLASS", icccm.WmClassSet(xu, id, &icccm.WmClass{Instance: "winbridge", Class: "Winbridge"}))
	warn("WM_PROTOCOLS", icccm.WmProtocolsSet(xu, id, []string{"WM_DELETE_WINDOW"}))
	warn("_NET_WM_PID", ewmh.WmPidSet(xu, id, uint(os.Getpid())))

	if !attrs.Decorations {
		warn("_MOTIF_WM_HINTS", motif.WmHintsSet(xu, id, &motif.Hints{
			Flags:      motif.HintDecorations,
			Decoration: motif.DecorationNone,
		}))
	}
	if !attrs.Resizable {
		warn("WM_NORMAL_HINTS", icccm.WmNormalHintsSet(xu, id, &icccm.NormalHints{
			Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
			MinWidth:  uint(w.size.Width),
			MinHeight: uint(w.size.Height),
			MaxWidth:  uint(w.size.Width),
			MaxHeight: uint(w.size.Height),
		}))
	}

	var states []string
	if attrs.Maximized {
		states = append(states, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ")
	}
	if attrs.Level == platform.WindowLevelAlwaysOnTop {
		states = append(states, "_NET_WM_STATE_ABOVE")
	}
	if len(states) > 0 {
		warn("_NET_WM_STATE", ewmh.WmStateSet(xu, id, states))
	}
}

func (w *Window) ID() platform.WindowID {
	return platform.WindowID(w.win.Id)
}

func (w *Window) ScaleFactor() float64 {
	return w.scale
}

func (w *Window) SurfaceSize() platform.PhysicalSize {
	return w.size
}

// OuterPosition returns the root-relative position of the frame, including
// decorations reported through _NET_FRAME_EXTENTS.
func (w *Window) OuterPosition() (platform.PhysicalPosition, error) {
	if w.destroyed {
		return platform.PhysicalPosition{}, platform.ErrNotSupported
	}
	pos, err := w.rootPosition()
	if err != nil {
		return platform.PhysicalPosition{}, err
	}
	if extents, err := ewmh.FrameExtentsGet(w.l.conn.XUtil, w.win.Id); err == nil {
		pos.X -= int32(extents.Left)
		pos.Y -= int32(extents.Top)
	}
	return pos, nil
}

func (w *Window) rootPosition() (platform.PhysicalPosition, error) {
	translate, err := xproto.TranslateCoordinates(w.l.conn.XUtil.Conn(), w.win.Id, w.l.conn.Root, 0, 0).Reply()
	if err != nil {
		return platform.PhysicalPosition{}, fmt.Errorf("translate coordinates: %w", err)
	}
	return platform.PhysicalPosition{X: int32(translate.DstX), Y: int32(translate.DstY)}, nil
}

func (w *Window) SetOuterPosition(pos platform.PhysicalPosition) {
	if w.destroyed {
		return
	}
	w.win.Move(int(pos.X), int(pos.Y))
}

// RequestSurfaceSize asks the window manager for a new inner size. The
// result, if any, arrives as a ConfigureNotify.
func (w *Window) RequestSurfaceSize(size platform.PhysicalSize) error {
	if w.destroyed {
		return platform.ErrNotSupported
	}
	if size.IsZero() {
		return fmt.Errorf("request surface size: zero size")
	}
	w.unmaximize()
	w.win.Resize(int(size.Width), int(size.Height))
	return nil
}

// unmaximize drops maximized states, which most window managers otherwise
// use to refuse a resize.
func (w *Window) unmaximize() {
	xu := w.l.conn.XUtil
	states, err := ewmh.WmStateGet(xu, w.win.Id)
	if err != nil {
		return
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			ewmh.WmStateReq(xu, w.win.Id, 0, state)
		}
	}
}

// RequestRedraw sends the window a synthetic Expose. Requests coalesce
// until it is delivered.
func (w *Window) RequestRedraw() {
	if w.destroyed || w.redrawPending {
		return
	}
	w.redrawPending = true
	ev := xproto.ExposeEvent{
		Window: w.win.Id,
		Width:  uint16(w.size.Width),
		Height: uint16(w.size.Height),
	}
	xproto.SendEvent(w.l.conn.XUtil.Conn(), false, w.win.Id, xproto.EventMaskExposure, string(ev.Bytes()))
}

func (w *Window) SetCursor(icon platform.CursorIcon) {
	if w.destroyed {
		return
	}
	c, err := w.l.cursor(icon)
	if err != nil {
		w.l.logger.Debug("cursor unavailable", "icon", icon, "error", err)
		return
	}
	xproto.ChangeWindowAttributes(w.l.conn.XUtil.Conn(), w.win.Id, xproto.CwCursor, []uint32{uint32(c)})
}

// Focus activates and raises the window with _NET_ACTIVE_WINDOW.
func (w *Window) Focus() {
	if w.destroyed {
		return
	}
	xu := w.l.conn.XUtil
	atom, err := w.l.conn.Atom("_NET_ACTIVE_WINDOW")
	if err != nil {
		w.l.logger.Debug("focus request failed", "window", w.win.Id, "error", err)
		return
	}

	const sourceIndication = 1 // application
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: w.win.Id,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}
	err = xproto.SendEventChecked(
		xu.Conn(),
		false,
		w.l.conn.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
	if err != nil {
		w.l.logger.Debug("focus request failed", "window", w.win.Id, "error", err)
	}
}

func (w *Window) CurrentMonitor() (platform.Monitor, bool) {
	mon, ok := MonitorForRect(w.l.monitors, int(w.position.X), int(w.position.Y), int(w.size.Width), int(w.size.Height))
	if !ok {
		return platform.Monitor{}, false
	}
	return mon.Platform(w.l.opts.ScaleFactor), true
}

// RawWindowHandle returns the XCB window id and the root visual.
func (w *Window) RawWindowHandle() (platform.RawWindowHandle, error) {
	if w.destroyed {
		return platform.RawWindowHandle{}, platform.ErrNotSupported
	}
	return platform.RawWindowHandle{
		Kind:   platform.HandleXcb,
		Window: uintptr(w.win.Id),
		Visual: uint32(w.l.conn.XUtil.Screen().RootVisual),
	}, nil
}

// RawDisplayHandle names the display and screen. The connection is a pure
// Go one, so there is no native connection pointer to share; consumers
// open their own connection to Name.
func (w *Window) RawDisplayHandle() (platform.RawDisplayHandle, error) {
	return platform.RawDisplayHandle{
		Kind:   platform.HandleXcb,
		Screen: w.l.conn.XUtil.Conn().DefaultScreen,
		Name:   w.l.conn.Display,
	}, nil
}

// Destroy destroys the X window. Destroyed is reported when the server
// confirms with DestroyNotify.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}
	w.destroyed = true
	xproto.DestroyWindow(w.l.conn.XUtil.Conn(), w.win.Id)
}

type sizeWriter struct{ w *Window }

func (s sizeWriter) RequestSurfaceSize(size platform.PhysicalSize) error {
	return s.w.RequestSurfaceSize(size)
}
