package x11

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil   *xgbutil.XUtil
	Root    xproto.Window
	Display string
}

// NewConnection establishes a connection to the X11 server named by display,
// or $DISPLAY when display is empty.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to X server %q: %w", display, err)
	}

	// Required before any keysym lookup.
	keybind.Initialize(xu)

	return &Connection{
		XUtil:   xu,
		Root:    xu.RootWin(),
		Display: display,
	}, nil
}

// Atom interns name.
func (c *Connection) Atom(name string) (xproto.Atom, error) {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		return 0, fmt.Errorf("intern %s: %w", name, err)
	}
	return atom, nil
}

// EventLoop runs the X11 event loop until Quit.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit makes EventLoop return after the event being dispatched.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
