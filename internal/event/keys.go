package event

import (
	"github.com/1broseidon/winbridge/internal/platform"
)

// KeyType says which field of KeyboardInput identifies the key.
type KeyType uint8

const (
	KeyTypeUnknown KeyType = iota
	KeyTypeNamed
	KeyTypeCharacter
)

func (k KeyType) MarshalText() ([]byte, error) {
	switch k {
	case KeyTypeNamed:
		return []byte("named"), nil
	case KeyTypeCharacter:
		return []byte("character"), nil
	default:
		return []byte("unknown"), nil
	}
}

// KeyLocation mirrors platform.KeyLocation with stable values.
type KeyLocation uint8

const (
	LocationStandard KeyLocation = iota
	LocationLeft
	LocationRight
	LocationNumpad
)

func (l KeyLocation) MarshalText() ([]byte, error) {
	switch l {
	case LocationLeft:
		return []byte("left"), nil
	case LocationRight:
		return []byte("right"), nil
	case LocationNumpad:
		return []byte("numpad"), nil
	default:
		return []byte("standard"), nil
	}
}

// VirtualKeyCode is the stable numbering for named keys.
type VirtualKeyCode uint16

const (
	VKUnknown VirtualKeyCode = iota
	VKEscape
	VKF1
	VKF2
	VKF3
	VKF4
	VKF5
	VKF6
	VKF7
	VKF8
	VKF9
	VKF10
	VKF11
	VKF12
	VKF13
	VKF14
	VKF15
	VKF16
	VKF17
	VKF18
	VKF19
	VKF20
	VKF21
	VKF22
	VKF23
	VKF24
	VKPrintScreen
	VKScrollLock
	VKPause
	VKInsert
	VKHome
	VKDelete
	VKEnd
	VKPageDown
	VKPageUp
	VKArrowLeft
	VKArrowUp
	VKArrowRight
	VKArrowDown
	VKBackspace
	VKEnter
	VKSpace
	VKTab
	VKNumLock
	VKCapsLock
	VKClear
	VKShift
	VKControl
	VKAlt
	VKAltGraph
	VKSuper
	VKMeta
	VKFn
	VKContextMenu
	VKCopy
	VKCut
	VKPaste
	VKUndo
	VKRedo
	vkCount
)

var vkNames = [...]string{
	"Unknown", "Escape",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"F13", "F14", "F15", "F16", "F17", "F18", "F19", "F20", "F21", "F22", "F23", "F24",
	"PrintScreen", "ScrollLock", "Pause", "Insert", "Home", "Delete", "End",
	"PageDown", "PageUp", "ArrowLeft", "ArrowUp", "ArrowRight", "ArrowDown",
	"Backspace", "Enter", "Space", "Tab", "NumLock", "CapsLock", "Clear",
	"Shift", "Control", "Alt", "AltGraph", "Super", "Meta", "Fn", "ContextMenu",
	"Copy", "Cut", "Paste", "Undo", "Redo",
}

func (k VirtualKeyCode) String() string {
	if k >= vkCount {
		return vkNames[VKUnknown]
	}
	return vkNames[k]
}

func (k VirtualKeyCode) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

var namedToVK = map[platform.NamedKey]VirtualKeyCode{
	platform.NamedEscape:      VKEscape,
	platform.NamedPrintScreen: VKPrintScreen,
	platform.NamedScrollLock:  VKScrollLock,
	platform.NamedPause:       VKPause,
	platform.NamedInsert:      VKInsert,
	platform.NamedHome:        VKHome,
	platform.NamedDelete:      VKDelete,
	platform.NamedEnd:         VKEnd,
	platform.NamedPageDown:    VKPageDown,
	platform.NamedPageUp:      VKPageUp,
	platform.NamedArrowLeft:   VKArrowLeft,
	platform.NamedArrowUp:     VKArrowUp,
	platform.NamedArrowRight:  VKArrowRight,
	platform.NamedArrowDown:   VKArrowDown,
	platform.NamedBackspace:   VKBackspace,
	platform.NamedEnter:       VKEnter,
	platform.NamedSpace:       VKSpace,
	platform.NamedTab:         VKTab,
	platform.NamedNumLock:     VKNumLock,
	platform.NamedCapsLock:    VKCapsLock,
	platform.NamedClear:       VKClear,
	platform.NamedShift:       VKShift,
	platform.NamedControl:     VKControl,
	platform.NamedAlt:         VKAlt,
	platform.NamedAltGraph:    VKAltGraph,
	platform.NamedSuper:       VKSuper,
	platform.NamedMeta:        VKMeta,
	platform.NamedFn:          VKFn,
	platform.NamedContextMenu: VKContextMenu,
	platform.NamedCopy:        VKCopy,
	platform.NamedCut:         VKCut,
	platform.NamedPaste:       VKPaste,
	platform.NamedUndo:        VKUndo,
	platform.NamedRedo:        VKRedo,
}

func init() {
	for i := 0; i < 24; i++ {
		namedToVK[platform.NamedF1+platform.NamedKey(i)] = VKF1 + VirtualKeyCode(i)
	}
}

// VirtualKeyFor maps a platform named key to its virtual key code.
func VirtualKeyFor(named platform.NamedKey) VirtualKeyCode {
	if vk, ok := namedToVK[named]; ok {
		return vk
	}
	return VKUnknown
}

// KeyboardInput is a single key transition.
type KeyboardInput struct {
	DeviceID    int64          `json:"device_id"`
	ScanCode    uint32         `json:"scan_code"`
	State       ElementState   `json:"state"`
	KeyType     KeyType        `json:"key_type"`
	Location    KeyLocation    `json:"location"`
	VirtualKey  VirtualKeyCode `json:"virtual_key"`
	Character   string         `json:"character,omitempty"`
	Repeat      bool           `json:"repeat"`
	IsSynthetic bool           `json:"is_synthetic"`
}

// ModifierKeyState says whether one side of a modifier is known held.
type ModifierKeyState uint8

const (
	ModifierUnknown ModifierKeyState = iota
	ModifierPressed
)

func (s ModifierKeyState) MarshalText() ([]byte, error) {
	if s == ModifierPressed {
		return []byte("pressed"), nil
	}
	return []byte("unknown"), nil
}

// ModifiersChanged reports the modifier state after a change. NumLock is
// never reported by the platform layer and is always false.
type ModifiersChanged struct {
	Shift   bool `json:"shift"`
	Ctrl    bool `json:"ctrl"`
	Alt     bool `json:"alt"`
	Logo    bool `json:"logo"`
	NumLock bool `json:"num_lock"`

	LShift ModifierKeyState `json:"lshift"`
	RShift ModifierKeyState `json:"rshift"`
	LCtrl  ModifierKeyState `json:"lctrl"`
	RCtrl  ModifierKeyState `json:"rctrl"`
	LAlt   ModifierKeyState `json:"lalt"`
	RAlt   ModifierKeyState `json:"ralt"`
	LLogo  ModifierKeyState `json:"llogo"`
	RLogo  ModifierKeyState `json:"rlogo"`
}

func keyboardInput(raw platform.KeyboardInput) KeyboardInput {
	ev := raw.Event
	out := KeyboardInput{
		DeviceID:    int64(raw.DeviceID),
		ScanCode:    ev.ScanCode,
		State:       elementState(ev.State),
		Location:    keyLocation(ev.Location),
		Repeat:      ev.Repeat,
		IsSynthetic: raw.IsSynthetic,
	}

	// Numpad keys report the layout- and modifier-applied key.
	key := ev.KeyWithoutModifiers
	if ev.Location == platform.LocationNumpad {
		key = ev.LogicalKey
	}

	switch key.Kind {
	case platform.KeyNamed:
		out.KeyType = KeyTypeNamed
		out.VirtualKey = VirtualKeyFor(key.Named)
	case platform.KeyCharacter:
		out.KeyType = KeyTypeCharacter
		out.Character = key.Text
	default:
		out.KeyType = KeyTypeUnknown
	}
	return out
}

func modifiersChanged(m platform.Modifiers) ModifiersChanged {
	side := func(s platform.ModifiersKeyState) ModifierKeyState {
		if s == platform.ModifierPressed {
			return ModifierPressed
		}
		return ModifierUnknown
	}
	return ModifiersChanged{
		Shift:  m.State.Shift(),
		Ctrl:   m.State.Control(),
		Alt:    m.State.Alt(),
		Logo:   m.State.Super(),
		LShift: side(m.LShift),
		RShift: side(m.RShift),
		LCtrl:  side(m.LControl),
		RCtrl:  side(m.RControl),
		LAlt:   side(m.LAlt),
		RAlt:   side(m.RAlt),
		LLogo:  side(m.LSuper),
		RLogo:  side(m.RSuper),
	}
}

func elementState(s platform.ElementState) ElementState {
	if s == platform.Pressed {
		return StatePressed
	}
	return StateReleased
}

func keyLocation(l platform.KeyLocation) KeyLocation {
	switch l {
	case platform.LocationLeft:
		return LocationLeft
	case platform.LocationRight:
		return LocationRight
	case platform.LocationNumpad:
		return LocationNumpad
	default:
		return LocationStandard
	}
}
