package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/winbridge/internal/platform"
)

// Master device ids as assigned by the X Input extension.
const (
	corePointerID  platform.DeviceID = 2
	coreKeyboardID platform.DeviceID = 3
)

// listen connects the per-window event callbacks.
func (l *Loop) listen(w *Window) {
	xu := l.conn.XUtil
	id := w.win.Id

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		l.onConfigure(w, ev.Width, ev.Height)
	}).Connect(xu, id)

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count != 0 {
			return
		}
		w.redrawPending = false
		l.dispatch(w, platform.RedrawRequested{})
	}).Connect(xu, id)

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Type != l.wmProtocols || ev.Format != 32 || len(ev.Data.Data32) == 0 {
			return
		}
		if xproto.Atom(ev.Data.Data32[0]) == l.wmDeleteWindow {
			l.dispatch(w, platform.CloseRequested{})
		}
	}).Connect(xu, id)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		if ev.Window != id {
			return
		}
		w.destroyed = true
		delete(l.windows, id)
		xevent.Detach(xu, id)
		l.dispatch(w, platform.Destroyed{})
	}).Connect(xu, id)

	xevent.FocusInFun(func(_ *xgbutil.XUtil, ev xevent.FocusInEvent) {
		if ev.Detail == xproto.NotifyDetailPointer {
			return
		}
		l.dispatch(w, platform.Focused{Focused: true})
	}).Connect(xu, id)

	xevent.FocusOutFun(func(_ *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		if ev.Detail == xproto.NotifyDetailPointer {
			return
		}
		l.pressed = make(map[xproto.Keycode]bool)
		if l.mods != (platform.Modifiers{}) {
			l.mods = platform.Modifiers{}
			l.dispatch(w, platform.ModifiersChanged{Modifiers: l.mods})
		}
		l.dispatch(w, platform.Focused{Focused: false})
	}).Connect(xu, id)

	xevent.KeyPressFun(func(_ *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		l.onKey(w, ev.Detail, ev.State, platform.Pressed)
	}).Connect(xu, id)

	xevent.KeyReleaseFun(func(_ *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		l.onKey(w, ev.Detail, ev.State, platform.Released)
	}).Connect(xu, id)

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		pos := platform.PointerPosition{X: float64(ev.EventX), Y: float64(ev.EventY)}
		if delta, ok := wheelDelta(ev.Detail); ok {
			l.dispatch(w, platform.MouseWheel{DeviceID: corePointerID, Delta: delta, Phase: platform.PhaseMoved})
			return
		}
		l.onButton(w, ev.Detail, pos, platform.Pressed)
	}).Connect(xu, id)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if _, ok := wheelDelta(ev.Detail); ok {
			return
		}
		pos := platform.PointerPosition{X: float64(ev.EventX), Y: float64(ev.EventY)}
		l.onButton(w, ev.Detail, pos, platform.Released)
	}).Connect(xu, id)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		l.dispatch(w, platform.PointerMoved{
			DeviceID: corePointerID,
			Position: platform.PointerPosition{X: float64(ev.EventX), Y: float64(ev.EventY)},
			Primary:  true,
		})
	}).Connect(xu, id)

	xevent.EnterNotifyFun(func(_ *xgbutil.XUtil, _ xevent.EnterNotifyEvent) {
		l.dispatch(w, platform.PointerEntered{DeviceID: corePointerID})
	}).Connect(xu, id)

	xevent.LeaveNotifyFun(func(_ *xgbutil.XUtil, _ xevent.LeaveNotifyEvent) {
		l.dispatch(w, platform.PointerLeft{DeviceID: corePointerID})
	}).Connect(xu, id)
}

// onConfigure reports size, position and monitor scale changes in that
// order.
func (l *Loop) onConfigure(w *Window, width, height uint16) {
	if w.destroyed {
		return
	}

	size := platform.PhysicalSize{Width: uint32(width), Height: uint32(height)}
	if size != w.size {
		w.size = size
		l.dispatch(w, platform.SurfaceResized{Size: size})
	}

	// Reparenting window managers report parent-relative coordinates.
	if pos, err := w.rootPosition(); err == nil && pos != w.position {
		w.position = pos
		l.dispatch(w, platform.Moved{Position: pos})
	}

	scale := l.monitorScale(int(w.position.X), int(w.position.Y), int(w.size.Width), int(w.size.Height))
	if scale != w.scale {
		w.scale = scale
		l.dispatch(w, platform.ScaleFactorChanged{ScaleFactor: scale, Writer: sizeWriter{w: w}})
	}
}

func (l *Loop) onKey(w *Window, keycode xproto.Keycode, modState uint16, state platform.ElementState) {
	xu := l.conn.XUtil
	base := keybind.KeysymGet(xu, keycode, 0)
	sym := chooseKeysym(base, keybind.KeysymGet(xu, keycode, 1), modState)

	repeat := false
	if state == platform.Pressed {
		repeat = l.pressed[keycode]
		l.pressed[keycode] = true
	} else {
		delete(l.pressed, keycode)
	}

	before := l.mods
	l.mods.State = modifiersFromState(modState)
	applyModifierKey(&l.mods, base, state)
	if l.mods != before {
		l.dispatch(w, platform.ModifiersChanged{Modifiers: l.mods})
	}

	ev := platform.KeyEvent{
		ScanCode:            scanCode(keycode),
		LogicalKey:          keyForKeysym(sym),
		KeyWithoutModifiers: keyForKeysym(base),
		Location:            keyLocation(base),
		State:               state,
		Repeat:              repeat,
	}
	if state == platform.Pressed {
		ev.Text = keysymText(sym)
		ev.TextWithAllModifiers = ev.Text
		if modifiersFromState(modState).Control() {
			ev.TextWithAllModifiers = controlText(ev.Text)
		}
	}
	l.dispatch(w, platform.KeyboardInput{DeviceID: coreKeyboardID, Event: ev})
}

func (l *Loop) onButton(w *Window, detail xproto.Button, pos platform.PointerPosition, state platform.ElementState) {
	l.dispatch(w, platform.PointerButton{
		DeviceID: corePointerID,
		State:    state,
		Position: pos,
		Primary:  true,
		Button:   buttonSource(detail),
	})
}

// chooseKeysym picks the keysym column for a state mask: NumLock selects
// keypad digits, Shift selects the second column and CapsLock inverts
// Shift for letters.
func chooseKeysym(base, shifted xproto.Keysym, state uint16) xproto.Keysym {
	shift := state&xproto.ModMaskShift != 0
	if isKeypad(shifted) && state&xproto.ModMask2 != 0 {
		if shift {
			return base
		}
		return shifted
	}
	if state&xproto.ModMaskLock != 0 && base >= 'a' && base <= 'z' {
		shift = !shift
	}
	if shift && shifted != 0 {
		return shifted
	}
	return base
}
