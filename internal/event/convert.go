package event

import (
	"github.com/1broseidon/winbridge/internal/platform"
)

// Surface is the window state the converter reads.
type Surface interface {
	// ScaleFactor returns the scale in effect before the event.
	ScaleFactor() float64
	SurfaceSize() platform.PhysicalSize
}

// Convert maps one raw platform event to zero or more normalized events.
// Every raw variant has a mapping; those without a normalized form yield
// nil.
//
// ScaleFactorChanged is the one variant with a side effect: the surface is
// resized through the event's writer so that its logical size is kept.
func Convert(raw platform.WindowEvent, surface Surface) []Event {
	switch ev := raw.(type) {
	case platform.SurfaceResized:
		if ev.Size.IsZero() {
			return nil
		}
		return []Event{Resized{Width: ev.Size.Width, Height: ev.Size.Height}}

	case platform.Moved:
		return []Event{Moved{X: ev.Position.X, Y: ev.Position.Y}}

	case platform.CloseRequested:
		return []Event{CloseRequested{}}

	case platform.Focused:
		return []Event{Focused{Focused: ev.Focused}}

	case platform.KeyboardInput:
		out := []Event{keyboardInput(ev)}
		if ev.Event.State == platform.Pressed && ev.Event.TextWithAllModifiers != "" {
			out = append(out, ReceivedText{Text: ev.Event.TextWithAllModifiers})
		}
		return out

	case platform.Ime:
		if ev.Kind == platform.ImeCommit {
			return []Event{ReceivedText{Text: ev.Text}}
		}
		return nil

	case platform.ModifiersChanged:
		return []Event{modifiersChanged(ev.Modifiers)}

	case platform.PointerMoved:
		return []Event{CursorMoved{
			DeviceID: int64(ev.DeviceID),
			X:        ev.Position.X,
			Y:        ev.Position.Y,
		}}

	case platform.MouseWheel:
		return []Event{MouseWheel{
			DeviceID: int64(ev.DeviceID),
			Delta:    scrollDelta(ev.Delta),
			Phase:    touchPhase(ev.Phase),
		}}

	case platform.PointerButton:
		button, code := mouseButton(ev.Button)
		return []Event{MouseInput{
			DeviceID: int64(ev.DeviceID),
			State:    elementState(ev.State),
			Button:   button,
			Code:     code,
		}}

	case platform.ScaleFactorChanged:
		return []Event{scaleFactorChanged(ev, surface)}

	default:
		// Pointer enter/leave, device changes, redraws, destruction and
		// file drag-and-drop have no normalized form.
		return nil
	}
}

func scaleFactorChanged(ev platform.ScaleFactorChanged, surface Surface) Event {
	out := ScaleFactorChanged{ScaleFactor: ev.ScaleFactor}
	if surface == nil {
		return out
	}
	size := surface.SurfaceSize().
		ToLogical(surface.ScaleFactor()).
		ToPhysical(ev.ScaleFactor)
	out.Width = size.Width
	out.Height = size.Height
	return out
}

// scrollDelta inverts the horizontal axis.
func scrollDelta(d platform.ScrollDelta) ScrollDelta {
	kind := ScrollLine
	if d.Kind == platform.ScrollPixels {
		kind = ScrollPixel
	}
	return ScrollDelta{Kind: kind, X: -d.X, Y: d.Y}
}

func touchPhase(p platform.TouchPhase) TouchPhase {
	switch p {
	case platform.PhaseStarted:
		return PhaseStarted
	case platform.PhaseMoved:
		return PhaseMoved
	case platform.PhaseEnded:
		return PhaseEnded
	case platform.PhaseCancelled:
		return PhaseCancelled
	default:
		return PhaseUnknown
	}
}

func mouseButton(src platform.ButtonSource) (MouseButton, uint16) {
	switch src.Kind {
	case platform.SourceTouch:
		return MouseLeft, 0
	case platform.SourceUnknown:
		return MouseOther, src.Code
	}
	switch src.Button {
	case platform.MouseLeft:
		return MouseLeft, 0
	case platform.MouseRight:
		return MouseRight, 1
	case platform.MouseMiddle:
		return MouseMiddle, 2
	case platform.MouseBack:
		return MouseBack, 3
	case platform.MouseForward:
		return MouseForward, 4
	default:
		return MouseOther, src.Code
	}
}
