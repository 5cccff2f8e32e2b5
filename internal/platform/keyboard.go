package platform

// ElementState is the press state of a key or button.
type ElementState uint8

const (
	Released ElementState = iota
	Pressed
)

func (s ElementState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// KeyLocation distinguishes keys that appear more than once on a keyboard.
type KeyLocation uint8

const (
	LocationStandard KeyLocation = iota
	LocationLeft
	LocationRight
	LocationNumpad
)

// KeyKind tags the Key union.
type KeyKind uint8

const (
	KeyUnidentified KeyKind = iota
	KeyNamed
	KeyCharacter
	KeyDead
)

// NamedKey enumerates non-character logical keys.
type NamedKey uint16

const (
	NamedUnknown NamedKey = iota
	NamedAlt
	NamedAltGraph
	NamedCapsLock
	NamedControl
	NamedFn
	NamedNumLock
	NamedScrollLock
	NamedShift
	NamedSuper
	NamedMeta
	NamedEnter
	NamedTab
	NamedSpace
	NamedArrowDown
	NamedArrowLeft
	NamedArrowRight
	NamedArrowUp
	NamedEnd
	NamedHome
	NamedPageDown
	NamedPageUp
	NamedBackspace
	NamedClear
	NamedCopy
	NamedCut
	NamedDelete
	NamedInsert
	NamedPaste
	NamedRedo
	NamedUndo
	NamedContextMenu
	NamedEscape
	NamedPause
	NamedPrintScreen
	NamedF1
	NamedF2
	NamedF3
	NamedF4
	NamedF5
	NamedF6
	NamedF7
	NamedF8
	NamedF9
	NamedF10
	NamedF11
	NamedF12
	NamedF13
	NamedF14
	NamedF15
	NamedF16
	NamedF17
	NamedF18
	NamedF19
	NamedF20
	NamedF21
	NamedF22
	NamedF23
	NamedF24
)

// Key is a logical key: a named key, the characters it produces, a dead
// key, or nothing identifiable.
type Key struct {
	Kind  KeyKind
	Named NamedKey
	// Text holds the characters for KeyCharacter and the combining
	// character (if known) for KeyDead.
	Text string
}

func NamedKeyOf(named NamedKey) Key {
	return Key{Kind: KeyNamed, Named: named}
}

func CharacterKey(text string) Key {
	return Key{Kind: KeyCharacter, Text: text}
}

// KeyEvent is a single key transition as reported by the platform.
type KeyEvent struct {
	// ScanCode is the platform's physical key code.
	ScanCode uint32
	// LogicalKey honours the active layout and modifiers.
	LogicalKey Key
	// KeyWithoutModifiers honours the layout but ignores modifiers.
	KeyWithoutModifiers Key
	// Text is the text produced by this press, if any.
	Text string
	// TextWithAllModifiers includes the effect of control-like modifiers.
	// Empty means no text.
	TextWithAllModifiers string
	Location             KeyLocation
	State                ElementState
	Repeat               bool
}

// ModifiersState is a bit set of active modifiers.
type ModifiersState uint32

const (
	ModShift ModifiersState = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

func (m ModifiersState) Shift() bool   { return m&ModShift != 0 }
func (m ModifiersState) Control() bool { return m&ModControl != 0 }
func (m ModifiersState) Alt() bool     { return m&ModAlt != 0 }
func (m ModifiersState) Super() bool   { return m&ModSuper != 0 }

// ModifiersKeyState records whether one side of a modifier is known to be
// held.
type ModifiersKeyState uint8

const (
	ModifierUnknown ModifiersKeyState = iota
	ModifierPressed
)

// Modifiers pairs the aggregate state with per-side key states where the
// platform reports them.
type Modifiers struct {
	State    ModifiersState
	LShift   ModifiersKeyState
	RShift   ModifiersKeyState
	LControl ModifiersKeyState
	RControl ModifiersKeyState
	LAlt     ModifiersKeyState
	RAlt     ModifiersKeyState
	LSuper   ModifiersKeyState
	RSuper   ModifiersKeyState
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseBack
	MouseForward
	MouseOther
)

// ButtonSourceKind tags ButtonSource.
type ButtonSourceKind uint8

const (
	SourceMouse ButtonSourceKind = iota
	SourceTouch
	SourceUnknown
)

// ButtonSource describes what produced a pointer button event.
type ButtonSource struct {
	Kind   ButtonSourceKind
	Button MouseButton
	// Code is the raw button number for MouseOther and SourceUnknown.
	Code     uint16
	FingerID uint64
}

// ScrollKind tags ScrollDelta.
type ScrollKind uint8

const (
	ScrollLines ScrollKind = iota
	ScrollPixels
)

// ScrollDelta is a wheel or touchpad scroll amount. Positive Y scrolls
// content down.
type ScrollDelta struct {
	Kind ScrollKind
	X    float64
	Y    float64
}

// TouchPhase is the phase of a scroll gesture.
type TouchPhase uint8

const (
	PhaseStarted TouchPhase = iota
	PhaseMoved
	PhaseEnded
	PhaseCancelled
)
