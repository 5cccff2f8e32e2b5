// Package event defines the normalized window event vocabulary, the
// converter from raw platform events, and the outbound event queue.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/winbridge/internal/platform"
)

// Type tags a normalized event. Numeric values are stable across releases;
// unused values are reserved for event kinds that are no longer produced.
type Type uint32

const (
	TypeUnknown                Type = 0
	TypeResized                Type = 1
	TypeMoved                  Type = 2
	TypeCloseRequested         Type = 3
	TypeDestroyed              Type = 4
	TypeDroppedFile            Type = 5
	TypeHoveredFile            Type = 6
	TypeHoveredFileCancelled   Type = 7
	TypeReceivedCharacter      Type = 8
	TypeFocused                Type = 9
	TypeKeyboardInputLegacy    Type = 10
	TypeCursorMoved            Type = 11
	TypeCursorEntered          Type = 12
	TypeCursorLeft             Type = 13
	TypeMouseWheel             Type = 14
	TypeMouseInput             Type = 15
	TypeTouchpadPressure       Type = 16
	TypeAxisMotion             Type = 17
	TypeTouch                  Type = 18
	TypeScaleFactorChanged     Type = 19
	TypeNewEvents              Type = 20
	TypeMainEventsCleared      Type = 21
	TypeLoopDestroyed          Type = 22
	TypeSuspended              Type = 23
	TypeResumed                Type = 24
	TypeRedrawRequested        Type = 25
	TypeRedrawEventsCleared    Type = 26
	TypeModifiersChangedLegacy Type = 27
	TypeUserEvent              Type = 28
	TypeModifiersChanged       Type = 29
	TypeKeyboardInput          Type = 30
	TypeReceivedText           Type = 31
)

var typeNames = map[Type]string{
	TypeUnknown:                "Unknown",
	TypeResized:                "Resized",
	TypeMoved:                  "Moved",
	TypeCloseRequested:         "CloseRequested",
	TypeDestroyed:              "Destroyed",
	TypeDroppedFile:            "DroppedFile",
	TypeHoveredFile:            "HoveredFile",
	TypeHoveredFileCancelled:   "HoveredFileCancelled",
	TypeReceivedCharacter:      "ReceivedCharacter",
	TypeFocused:                "Focused",
	TypeKeyboardInputLegacy:    "KeyboardInputLegacy",
	TypeCursorMoved:            "CursorMoved",
	TypeCursorEntered:          "CursorEntered",
	TypeCursorLeft:             "CursorLeft",
	TypeMouseWheel:             "MouseWheel",
	TypeMouseInput:             "MouseInput",
	TypeTouchpadPressure:       "TouchpadPressure",
	TypeAxisMotion:             "AxisMotion",
	TypeTouch:                  "Touch",
	TypeScaleFactorChanged:     "ScaleFactorChanged",
	TypeNewEvents:              "NewEvents",
	TypeMainEventsCleared:      "MainEventsCleared",
	TypeLoopDestroyed:          "LoopDestroyed",
	TypeSuspended:              "Suspended",
	TypeResumed:                "Resumed",
	TypeRedrawRequested:        "RedrawRequested",
	TypeRedrawEventsCleared:    "RedrawEventsCleared",
	TypeModifiersChangedLegacy: "ModifiersChangedLegacy",
	TypeUserEvent:              "UserEvent",
	TypeModifiersChanged:       "ModifiersChanged",
	TypeKeyboardInput:          "KeyboardInput",
	TypeReceivedText:           "ReceivedText",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint32(t))
}

// ParseType looks up a type by its name.
func ParseType(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return TypeUnknown, false
}

// Event is a normalized event payload. Implementations are plain values.
type Event interface {
	Type() Type
}

// ElementState is a press state. Zero is Unknown.
type ElementState uint8

const (
	StateUnknown ElementState = iota
	StatePressed
	StateReleased
)

func (s ElementState) String() string {
	switch s {
	case StatePressed:
		return "pressed"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

func (s ElementState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// TouchPhase is the phase of a scroll gesture. Zero is Unknown.
type TouchPhase uint8

const (
	PhaseUnknown TouchPhase = iota
	PhaseStarted
	PhaseMoved
	PhaseEnded
	PhaseCancelled
)

func (p TouchPhase) String() string {
	switch p {
	case PhaseStarted:
		return "started"
	case PhaseMoved:
		return "moved"
	case PhaseEnded:
		return "ended"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (p TouchPhase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Resized reports a new surface size in physical pixels.
type Resized struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Moved reports a new outer position in physical pixels.
type Moved struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

type CloseRequested struct{}

type Focused struct {
	Focused bool `json:"focused"`
}

// ReceivedText carries text produced by a key press or an IME commit.
type ReceivedText struct {
	Text string `json:"text"`
}

// CursorMoved reports a pointer position relative to the surface.
type CursorMoved struct {
	DeviceID int64   `json:"device_id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// ScrollKind tags ScrollDelta.
type ScrollKind uint8

const (
	ScrollLine ScrollKind = iota
	ScrollPixel
)

func (k ScrollKind) MarshalText() ([]byte, error) {
	if k == ScrollPixel {
		return []byte("pixel"), nil
	}
	return []byte("line"), nil
}

// ScrollDelta keeps the line and pixel forms apart.
type ScrollDelta struct {
	Kind ScrollKind `json:"kind"`
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
}

type MouseWheel struct {
	DeviceID int64       `json:"device_id"`
	Delta    ScrollDelta `json:"delta"`
	Phase    TouchPhase  `json:"phase"`
}

// MouseButton identifies a button; MouseOther carries its raw code.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseBack
	MouseForward
	MouseOther
)

var mouseButtonNames = [...]string{"left", "right", "middle", "back", "forward", "other"}

func (b MouseButton) MarshalText() ([]byte, error) {
	if int(b) < len(mouseButtonNames) {
		return []byte(mouseButtonNames[b]), nil
	}
	return []byte("other"), nil
}

type MouseInput struct {
	DeviceID int64        `json:"device_id"`
	State    ElementState `json:"state"`
	Button   MouseButton  `json:"button"`
	// Code is 0-4 for the named buttons and the raw number otherwise.
	Code uint16 `json:"code"`
}

// ScaleFactorChanged reports the new scale and the surface size that was
// requested for it.
type ScaleFactorChanged struct {
	ScaleFactor float64 `json:"scale_factor"`
	Width       uint32  `json:"width"`
	Height      uint32  `json:"height"`
}

func (Resized) Type() Type            { return TypeResized }
func (Moved) Type() Type              { return TypeMoved }
func (CloseRequested) Type() Type     { return TypeCloseRequested }
func (Focused) Type() Type            { return TypeFocused }
func (KeyboardInput) Type() Type      { return TypeKeyboardInput }
func (ReceivedText) Type() Type       { return TypeReceivedText }
func (ModifiersChanged) Type() Type   { return TypeModifiersChanged }
func (CursorMoved) Type() Type        { return TypeCursorMoved }
func (MouseWheel) Type() Type         { return TypeMouseWheel }
func (MouseInput) Type() Type         { return TypeMouseInput }
func (ScaleFactorChanged) Type() Type { return TypeScaleFactorChanged }

// WindowEvent is a normalized event tagged with the window it belongs to.
type WindowEvent struct {
	WindowID platform.WindowID
	Event    Event
}

// Record is the JSON form of a WindowEvent, as read back by IPC clients.
type Record struct {
	WindowID uint64          `json:"window_id"`
	Type     string          `json:"type"`
	Tag      uint32          `json:"tag"`
	Payload  json.RawMessage `json:"payload"`
}

// MarshalJSON encodes the event as {window_id, type, tag, payload}.
func (e WindowEvent) MarshalJSON() ([]byte, error) {
	w := Record{WindowID: uint64(e.WindowID), Type: TypeUnknown.String(), Payload: json.RawMessage("{}")}
	if e.Event != nil {
		payload, err := json.Marshal(e.Event)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", e.Event.Type(), err)
		}
		w.Type = e.Event.Type().String()
		w.Tag = uint32(e.Event.Type())
		w.Payload = payload
	}
	return json.Marshal(w)
}
