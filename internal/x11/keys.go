package x11

import (
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winbridge/internal/platform"
)

// Keysym values from X11/keysymdef.h and XF86keysym.h.
const (
	xkBackSpace   = 0xff08
	xkTab         = 0xff09
	xkClear       = 0xff0b
	xkReturn      = 0xff0d
	xkPause       = 0xff13
	xkScrollLock  = 0xff14
	xkEscape      = 0xff1b
	xkHome        = 0xff50
	xkLeft        = 0xff51
	xkUp          = 0xff52
	xkRight       = 0xff53
	xkDown        = 0xff54
	xkPrior       = 0xff55
	xkNext        = 0xff56
	xkEnd         = 0xff57
	xkPrint       = 0xff61
	xkInsert      = 0xff63
	xkUndo        = 0xff65
	xkRedo        = 0xff66
	xkMenu        = 0xff67
	xkNumLock     = 0xff7f
	xkKPEnter     = 0xff8d
	xkKPHome      = 0xff95
	xkKPLeft      = 0xff96
	xkKPUp        = 0xff97
	xkKPRight     = 0xff98
	xkKPDown      = 0xff99
	xkKPPrior     = 0xff9a
	xkKPNext      = 0xff9b
	xkKPEnd       = 0xff9c
	xkKPInsert    = 0xff9e
	xkKPDelete    = 0xff9f
	xkKPMultiply  = 0xffaa
	xkKPAdd       = 0xffab
	xkKPSubtract  = 0xffad
	xkKPDecimal   = 0xffae
	xkKPDivide    = 0xffaf
	xkKP0         = 0xffb0
	xkKP9         = 0xffb9
	xkKPEqual     = 0xffbd
	xkF1          = 0xffbe
	xkF24         = 0xffd5
	xkShiftL      = 0xffe1
	xkShiftR      = 0xffe2
	xkControlL    = 0xffe3
	xkControlR    = 0xffe4
	xkCapsLock    = 0xffe5
	xkMetaL       = 0xffe7
	xkMetaR       = 0xffe8
	xkAltL        = 0xffe9
	xkAltR        = 0xffea
	xkSuperL      = 0xffeb
	xkSuperR      = 0xffec
	xkDelete      = 0xffff
	xkLevel3Shift = 0xfe03
	xkDeadFirst   = 0xfe50
	xkDeadLast    = 0xfe8f
	xkSpace       = 0x0020
	xf86Copy      = 0x1008ff57
	xf86Cut       = 0x1008ff58
	xf86Paste     = 0x1008ff6d

	unicodeKeysym = 0x01000000
)

var namedKeysyms = map[xproto.Keysym]platform.NamedKey{
	xkBackSpace:   platform.NamedBackspace,
	xkTab:         platform.NamedTab,
	xkClear:       platform.NamedClear,
	xkReturn:      platform.NamedEnter,
	xkKPEnter:     platform.NamedEnter,
	xkPause:       platform.NamedPause,
	xkScrollLock:  platform.NamedScrollLock,
	xkEscape:      platform.NamedEscape,
	xkHome:        platform.NamedHome,
	xkKPHome:      platform.NamedHome,
	xkLeft:        platform.NamedArrowLeft,
	xkKPLeft:      platform.NamedArrowLeft,
	xkUp:          platform.NamedArrowUp,
	xkKPUp:        platform.NamedArrowUp,
	xkRight:       platform.NamedArrowRight,
	xkKPRight:     platform.NamedArrowRight,
	xkDown:        platform.NamedArrowDown,
	xkKPDown:      platform.NamedArrowDown,
	xkPrior:       platform.NamedPageUp,
	xkKPPrior:     platform.NamedPageUp,
	xkNext:        platform.NamedPageDown,
	xkKPNext:      platform.NamedPageDown,
	xkEnd:         platform.NamedEnd,
	xkKPEnd:       platform.NamedEnd,
	xkPrint:       platform.NamedPrintScreen,
	xkInsert:      platform.NamedInsert,
	xkKPInsert:    platform.NamedInsert,
	xkDelete:      platform.NamedDelete,
	xkKPDelete:    platform.NamedDelete,
	xkUndo:        platform.NamedUndo,
	xkRedo:        platform.NamedRedo,
	xkMenu:        platform.NamedContextMenu,
	xkNumLock:     platform.NamedNumLock,
	xkCapsLock:    platform.NamedCapsLock,
	xkShiftL:      platform.NamedShift,
	xkShiftR:      platform.NamedShift,
	xkControlL:    platform.NamedControl,
	xkControlR:    platform.NamedControl,
	xkAltL:        platform.NamedAlt,
	xkAltR:        platform.NamedAlt,
	xkMetaL:       platform.NamedMeta,
	xkMetaR:       platform.NamedMeta,
	xkSuperL:      platform.NamedSuper,
	xkSuperR:      platform.NamedSuper,
	xkLevel3Shift: platform.NamedAltGraph,
	xkSpace:       platform.NamedSpace,
	xf86Copy:      platform.NamedCopy,
	xf86Cut:       platform.NamedCut,
	xf86Paste:     platform.NamedPaste,
}

// keyForKeysym maps a keysym to a logical key.
func keyForKeysym(sym xproto.Keysym) platform.Key {
	if sym >= xkF1 && sym <= xkF24 {
		return platform.NamedKeyOf(platform.NamedF1 + platform.NamedKey(sym-xkF1))
	}
	if named, ok := namedKeysyms[sym]; ok {
		return platform.NamedKeyOf(named)
	}
	if sym >= xkDeadFirst && sym <= xkDeadLast {
		return platform.Key{Kind: platform.KeyDead}
	}
	if text := keysymText(sym); text != "" {
		return platform.CharacterKey(text)
	}
	return platform.Key{Kind: platform.KeyUnidentified}
}

// keysymText returns the text a keysym produces, if any.
func keysymText(sym xproto.Keysym) string {
	switch {
	case sym >= 0x20 && sym <= 0x7e, sym >= 0xa0 && sym <= 0xff:
		return string(rune(sym))
	case sym&0xff000000 == unicodeKeysym:
		r := rune(sym & 0x00ffffff)
		if !utf8.ValidRune(r) {
			return ""
		}
		return string(r)
	case sym >= xkKP0 && sym <= xkKP9:
		return string(rune('0' + (sym - xkKP0)))
	}

	switch sym {
	case xkReturn, xkKPEnter:
		return "\r"
	case xkTab:
		return "\t"
	case xkBackSpace:
		return "\b"
	case xkEscape:
		return "\x1b"
	case xkDelete:
		return "\x7f"
	case xkKPMultiply:
		return "*"
	case xkKPAdd:
		return "+"
	case xkKPSubtract:
		return "-"
	case xkKPDecimal:
		return "."
	case xkKPDivide:
		return "/"
	case xkKPEqual:
		return "="
	}
	return ""
}

// keyLocation reports which copy of a duplicated key a keysym names.
func keyLocation(sym xproto.Keysym) platform.KeyLocation {
	switch sym {
	case xkShiftL, xkControlL, xkAltL, xkMetaL, xkSuperL:
		return platform.LocationLeft
	case xkShiftR, xkControlR, xkAltR, xkMetaR, xkSuperR:
		return platform.LocationRight
	}
	if sym >= 0xff80 && sym <= xkKPEqual {
		return platform.LocationNumpad
	}
	return platform.LocationStandard
}

func isKeypad(sym xproto.Keysym) bool {
	return sym >= 0xff80 && sym <= xkKPEqual
}

// controlText applies Control to single-character text the way a terminal
// would: letters and @[\]^_ become C0 control codes.
func controlText(text string) string {
	if len(text) != 1 {
		return text
	}
	c := text[0]
	switch {
	case c >= 'a' && c <= 'z':
		return string(rune(c - 'a' + 1))
	case c >= '@' && c <= '_':
		return string(rune(c - '@'))
	}
	return text
}

// modifiersFromState translates a core key/button state mask. Mod1 is Alt
// and Mod4 is Super under every common keymap.
func modifiersFromState(state uint16) platform.ModifiersState {
	var mods platform.ModifiersState
	if state&xproto.ModMaskShift != 0 {
		mods |= platform.ModShift
	}
	if state&xproto.ModMaskControl != 0 {
		mods |= platform.ModControl
	}
	if state&xproto.ModMask1 != 0 {
		mods |= platform.ModAlt
	}
	if state&xproto.ModMask4 != 0 {
		mods |= platform.ModSuper
	}
	return mods
}

// applyModifierKey updates m for a press or release of sym. It reports
// whether sym is a modifier key.
func applyModifierKey(m *platform.Modifiers, sym xproto.Keysym, state platform.ElementState) bool {
	var (
		bit  platform.ModifiersState
		side *platform.ModifiersKeyState
	)
	switch sym {
	case xkShiftL:
		bit, side = platform.ModShift, &m.LShift
	case xkShiftR:
		bit, side = platform.ModShift, &m.RShift
	case xkControlL:
		bit, side = platform.ModControl, &m.LControl
	case xkControlR:
		bit, side = platform.ModControl, &m.RControl
	case xkAltL, xkMetaL:
		bit, side = platform.ModAlt, &m.LAlt
	case xkAltR, xkMetaR:
		bit, side = platform.ModAlt, &m.RAlt
	case xkSuperL:
		bit, side = platform.ModSuper, &m.LSuper
	case xkSuperR:
		bit, side = platform.ModSuper, &m.RSuper
	default:
		return false
	}

	if state == platform.Pressed {
		*side = platform.ModifierPressed
		m.State |= bit
		return true
	}
	*side = platform.ModifierUnknown
	if !bothSidesReleased(m, bit) {
		return true
	}
	m.State &^= bit
	return true
}

func bothSidesReleased(m *platform.Modifiers, bit platform.ModifiersState) bool {
	switch bit {
	case platform.ModShift:
		return m.LShift != platform.ModifierPressed && m.RShift != platform.ModifierPressed
	case platform.ModControl:
		return m.LControl != platform.ModifierPressed && m.RControl != platform.ModifierPressed
	case platform.ModAlt:
		return m.LAlt != platform.ModifierPressed && m.RAlt != platform.ModifierPressed
	default:
		return m.LSuper != platform.ModifierPressed && m.RSuper != platform.ModifierPressed
	}
}

// Core protocol pointer buttons.
const (
	buttonLeft       = 1
	buttonMiddle     = 2
	buttonRight      = 3
	buttonWheelUp    = 4
	buttonWheelDown  = 5
	buttonWheelLeft  = 6
	buttonWheelRight = 7
	buttonBack       = 8
	buttonForward    = 9
)

// wheelDelta returns the line delta for a wheel button.
func wheelDelta(detail xproto.Button) (platform.ScrollDelta, bool) {
	delta := platform.ScrollDelta{Kind: platform.ScrollLines}
	switch detail {
	case buttonWheelUp:
		delta.Y = 1
	case buttonWheelDown:
		delta.Y = -1
	case buttonWheelLeft:
		delta.X = 1
	case buttonWheelRight:
		delta.X = -1
	default:
		return platform.ScrollDelta{}, false
	}
	return delta, true
}

func buttonSource(detail xproto.Button) platform.ButtonSource {
	src := platform.ButtonSource{Kind: platform.SourceMouse, Code: uint16(detail)}
	switch detail {
	case buttonLeft:
		src.Button = platform.MouseLeft
	case buttonMiddle:
		src.Button = platform.MouseMiddle
	case buttonRight:
		src.Button = platform.MouseRight
	case buttonBack:
		src.Button = platform.MouseBack
	case buttonForward:
		src.Button = platform.MouseForward
	default:
		src.Button = platform.MouseOther
	}
	return src
}

// scanCode converts an X keycode to the evdev code the kernel reported.
func scanCode(keycode xproto.Keycode) uint32 {
	if keycode < 8 {
		return 0
	}
	return uint32(keycode) - 8
}
