package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/winbridge/internal/platform"
)

func TestKeyForKeysym(t *testing.T) {
	tests := []struct {
		name string
		sym  xproto.Keysym
		want platform.Key
	}{
		{"latin letter", 'a', platform.CharacterKey("a")},
		{"latin-1", 0xe9, platform.CharacterKey("é")},
		{"unicode keysym", 0x01000416, platform.CharacterKey("Ж")},
		{"escape", xkEscape, platform.NamedKeyOf(platform.NamedEscape)},
		{"keypad enter", xkKPEnter, platform.NamedKeyOf(platform.NamedEnter)},
		{"space", xkSpace, platform.NamedKeyOf(platform.NamedSpace)},
		{"f1", xkF1, platform.NamedKeyOf(platform.NamedF1)},
		{"f24", xkF24, platform.NamedKeyOf(platform.NamedF24)},
		{"right super", xkSuperR, platform.NamedKeyOf(platform.NamedSuper)},
		{"xf86 paste", xf86Paste, platform.NamedKeyOf(platform.NamedPaste)},
		{"dead acute", 0xfe51, platform.Key{Kind: platform.KeyDead}},
		{"keypad digit", xkKP0 + 7, platform.CharacterKey("7")},
		{"no symbol", 0, platform.Key{Kind: platform.KeyUnidentified}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyForKeysym(tt.sym); got != tt.want {
				t.Fatalf("keyForKeysym(%#x) = %+v, want %+v", tt.sym, got, tt.want)
			}
		})
	}
}

func TestKeysymText(t *testing.T) {
	tests := []struct {
		sym  xproto.Keysym
		want string
	}{
		{'A', "A"},
		{xkReturn, "\r"},
		{xkTab, "\t"},
		{xkEscape, "\x1b"},
		{xkKPAdd, "+"},
		{xkShiftL, ""},
		{xkF1, ""},
		{0x0100d800, ""},
	}
	for _, tt := range tests {
		if got := keysymText(tt.sym); got != tt.want {
			t.Errorf("keysymText(%#x) = %q, want %q", tt.sym, got, tt.want)
		}
	}
}

func TestKeyLocation(t *testing.T) {
	tests := []struct {
		sym  xproto.Keysym
		want platform.KeyLocation
	}{
		{xkShiftL, platform.LocationLeft},
		{xkControlR, platform.LocationRight},
		{xkKP0, platform.LocationNumpad},
		{xkKPEnter, platform.LocationNumpad},
		{'q', platform.LocationStandard},
		{xkReturn, platform.LocationStandard},
	}
	for _, tt := range tests {
		if got := keyLocation(tt.sym); got != tt.want {
			t.Errorf("keyLocation(%#x) = %v, want %v", tt.sym, got, tt.want)
		}
	}
}

func TestChooseKeysym(t *testing.T) {
	const (
		shift   = xproto.ModMaskShift
		caps    = xproto.ModMaskLock
		numLock = xproto.ModMask2
	)
	tests := []struct {
		name    string
		base    xproto.Keysym
		shifted xproto.Keysym
		state   uint16
		want    xproto.Keysym
	}{
		{"plain", 'a', 'A', 0, 'a'},
		{"shift", 'a', 'A', shift, 'A'},
		{"caps lock", 'a', 'A', caps, 'A'},
		{"caps lock and shift", 'a', 'A', caps | shift, 'a'},
		{"caps lock ignores digits", '1', '!', caps, '1'},
		{"shift without second column", xkEscape, 0, shift, xkEscape},
		{"numlock keypad", xkKPEnd, xkKP0 + 1, numLock, xkKP0 + 1},
		{"numlock keypad with shift", xkKPEnd, xkKP0 + 1, numLock | shift, xkKPEnd},
		{"keypad without numlock", xkKPEnd, xkKP0 + 1, 0, xkKPEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chooseKeysym(tt.base, tt.shifted, tt.state); got != tt.want {
				t.Fatalf("chooseKeysym() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestControlText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a", "\x01"},
		{"z", "\x1a"},
		{"[", "\x1b"},
		{"@", "\x00"},
		{"1", "1"},
		{"ab", "ab"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := controlText(tt.in); got != tt.want {
			t.Errorf("controlText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestModifiersFromState(t *testing.T) {
	got := modifiersFromState(xproto.ModMaskShift | xproto.ModMask4 | xproto.ModMask2)
	if !got.Shift() || !got.Super() || got.Control() || got.Alt() {
		t.Fatalf("modifiersFromState() = %b", got)
	}
}

func TestApplyModifierKey(t *testing.T) {
	var m platform.Modifiers

	if applyModifierKey(&m, 'a', platform.Pressed) {
		t.Fatal("letter reported as modifier")
	}

	applyModifierKey(&m, xkShiftL, platform.Pressed)
	applyModifierKey(&m, xkShiftR, platform.Pressed)
	if !m.State.Shift() || m.LShift != platform.ModifierPressed || m.RShift != platform.ModifierPressed {
		t.Fatalf("after both shifts pressed: %+v", m)
	}

	applyModifierKey(&m, xkShiftL, platform.Released)
	if !m.State.Shift() {
		t.Fatal("shift cleared while right shift still held")
	}
	applyModifierKey(&m, xkShiftR, platform.Released)
	if m.State.Shift() || m.RShift != platform.ModifierUnknown {
		t.Fatalf("after both shifts released: %+v", m)
	}

	applyModifierKey(&m, xkMetaL, platform.Pressed)
	if !m.State.Alt() || m.LAlt != platform.ModifierPressed {
		t.Fatalf("meta should count as alt: %+v", m)
	}
}

func TestWheelDelta(t *testing.T) {
	tests := []struct {
		button xproto.Button
		x, y   float64
		ok     bool
	}{
		{buttonWheelUp, 0, 1, true},
		{buttonWheelDown, 0, -1, true},
		{buttonWheelLeft, 1, 0, true},
		{buttonWheelRight, -1, 0, true},
		{buttonLeft, 0, 0, false},
	}
	for _, tt := range tests {
		delta, ok := wheelDelta(tt.button)
		if ok != tt.ok || delta.X != tt.x || delta.Y != tt.y {
			t.Errorf("wheelDelta(%d) = %+v, %v", tt.button, delta, ok)
		}
		if ok && delta.Kind != platform.ScrollLines {
			t.Errorf("wheelDelta(%d) kind = %v, want lines", tt.button, delta.Kind)
		}
	}
}

func TestButtonSource(t *testing.T) {
	tests := []struct {
		button xproto.Button
		want   platform.MouseButton
	}{
		{buttonLeft, platform.MouseLeft},
		{buttonMiddle, platform.MouseMiddle},
		{buttonRight, platform.MouseRight},
		{buttonBack, platform.MouseBack},
		{buttonForward, platform.MouseForward},
		{12, platform.MouseOther},
	}
	for _, tt := range tests {
		src := buttonSource(tt.button)
		if src.Kind != platform.SourceMouse || src.Button != tt.want || src.Code != uint16(tt.button) {
			t.Errorf("buttonSource(%d) = %+v", tt.button, src)
		}
	}
}

func TestScanCode(t *testing.T) {
	if got := scanCode(9); got != 1 {
		t.Fatalf("scanCode(9) = %d, want 1 (evdev KEY_ESC)", got)
	}
	if got := scanCode(3); got != 0 {
		t.Fatalf("scanCode(3) = %d, want 0", got)
	}
}

func TestCursorGlyph(t *testing.T) {
	if got := cursorGlyph(platform.CursorText); got != glyphXTerm {
		t.Fatalf("text cursor glyph = %d, want %d", got, glyphXTerm)
	}
	if got := cursorGlyph(platform.CursorIcon(9999)); got != glyphLeftPtr {
		t.Fatalf("unknown cursor glyph = %d, want %d", got, glyphLeftPtr)
	}
	for icon := platform.CursorDefault; icon <= platform.CursorZoomOut; icon++ {
		if _, ok := cursorGlyphs[icon]; !ok {
			t.Errorf("no glyph for %s", icon)
		}
	}
}
