package x11

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/winbridge/internal/platform"
)

// ErrLoopRunning is returned by Run when the loop is already running or has
// already run. A Loop runs once.
var ErrLoopRunning = errors.New("x11: event loop already started")

const wakeAtomName = "_WINBRIDGE_WAKE_UP"

// Options configures a Loop.
type Options struct {
	// Display overrides $DISPLAY.
	Display string
	// ScaleFactor, when positive, replaces the monitor-derived scale.
	ScaleFactor float64
	Logger      *slog.Logger
}

// Loop is an X11 platform.EventLoop built on xgbutil's event pump. Wake-ups
// from other goroutines arrive as ClientMessages on a hidden proxy window.
type Loop struct {
	conn   *Connection
	opts   Options
	logger *slog.Logger

	proxyWin       xproto.Window
	wakeAtom       xproto.Atom
	wmProtocols    xproto.Atom
	wmDeleteWindow xproto.Atom

	// sendMu orders proxy sends against Close.
	sendMu      sync.Mutex
	closed      bool
	wakePending atomic.Bool
	started     atomic.Bool

	handler  platform.Handler
	windows  map[xproto.Window]*Window
	monitors []Monitor
	cursors  map[platform.CursorIcon]xproto.Cursor
	mods     platform.Modifiers
	pressed  map[xproto.Keycode]bool
}

var _ platform.EventLoop = (*Loop)(nil)

// New connects to the X server and prepares the proxy window.
func New(opts Options) (*Loop, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := NewConnection(opts.Display)
	if err != nil {
		return nil, err
	}

	l := &Loop{
		conn:    conn,
		opts:    opts,
		logger:  logger.With("component", "x11"),
		windows: make(map[xproto.Window]*Window),
		cursors: make(map[platform.CursorIcon]xproto.Cursor),
		pressed: make(map[xproto.Keycode]bool),
	}

	for name, dst := range map[string]*xproto.Atom{
		wakeAtomName:       &l.wakeAtom,
		"WM_PROTOCOLS":     &l.wmProtocols,
		"WM_DELETE_WINDOW": &l.wmDeleteWindow,
	} {
		atom, err := conn.Atom(name)
		if err != nil {
			conn.Close()
			return nil, err
		}
		*dst = atom
	}

	proxy, err := xwindow.Generate(conn.XUtil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("allocate proxy window: %w", err)
	}
	if err := proxy.CreateChecked(conn.Root, -1, -1, 1, 1, 0); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create proxy window: %w", err)
	}
	l.proxyWin = proxy.Id

	if monitors, err := conn.GetMonitors(); err != nil {
		l.logger.Warn("monitor query failed", "error", err)
	} else {
		l.monitors = monitors
	}

	l.logger.Info("connected to X server", "display", conn.Display, "monitors", len(l.monitors))
	return l, nil
}

// CreateProxy implements platform.EventLoop.
func (l *Loop) CreateProxy() platform.Proxy {
	return proxy{l: l}
}

type proxy struct{ l *Loop }

// WakeUp sends at most one ClientMessage until the loop consumes it.
func (p proxy) WakeUp() {
	l := p.l
	if !l.wakePending.CompareAndSwap(false, true) {
		return
	}

	l.sendMu.Lock()
	defer l.sendMu.Unlock()
	if l.closed {
		return
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: l.proxyWin,
		Type:   l.wakeAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{0, 0, 0, 0, 0}),
	}
	// An empty event mask delivers to the window's creator, which is us.
	xproto.SendEvent(l.conn.XUtil.Conn(), false, l.proxyWin, 0, string(ev.Bytes()))
}

// Run implements platform.EventLoop. It must be called on the thread that
// owns the loop and blocks until Exit.
func (l *Loop) Run(h platform.Handler) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.close()

	l.handler = h
	xevent.ClientMessageFun(l.onProxyMessage).Connect(l.conn.XUtil, l.proxyWin)

	h.CanCreateSurfaces(active{l})
	if !xevent.Quitting(l.conn.XUtil) {
		l.conn.EventLoop()
	}
	l.logger.Info("event loop stopped", "windows", len(l.windows))
	return nil
}

func (l *Loop) close() {
	l.sendMu.Lock()
	defer l.sendMu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for id := range l.windows {
		xproto.DestroyWindow(l.conn.XUtil.Conn(), id)
	}
	xproto.DestroyWindow(l.conn.XUtil.Conn(), l.proxyWin)
	l.conn.Close()
}

func (l *Loop) onProxyMessage(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
	if ev.Type != l.wakeAtom {
		return
	}
	// Cleared before dispatch so a wake-up sent during the drain is not lost.
	l.wakePending.Store(false)
	l.handler.ProxyWakeUp(active{l})
}

func (l *Loop) dispatch(w *Window, ev platform.WindowEvent) {
	l.handler.WindowEvent(active{l}, w.ID(), ev)
}

// monitorScale returns the scale of the monitor under the rectangle.
func (l *Loop) monitorScale(x, y, width, height int) float64 {
	if l.opts.ScaleFactor > 0 {
		return l.opts.ScaleFactor
	}
	if mon, ok := MonitorForRect(l.monitors, x, y, width, height); ok {
		return mon.ScaleFactor()
	}
	if mon, ok := PrimaryMonitor(l.monitors); ok {
		return mon.ScaleFactor()
	}
	return 1
}

// cursor returns the X cursor for icon, creating it on first use.
func (l *Loop) cursor(icon platform.CursorIcon) (xproto.Cursor, error) {
	if c, ok := l.cursors[icon]; ok {
		return c, nil
	}
	c, err := createCursor(l.conn.XUtil, icon)
	if err != nil {
		return 0, err
	}
	l.cursors[icon] = c
	return c, nil
}

type active struct{ l *Loop }

func (a active) CreateWindow(attrs platform.WindowAttributes) (platform.Window, error) {
	return a.l.createWindow(attrs)
}

func (a active) Exit() {
	a.l.conn.Quit()
}
