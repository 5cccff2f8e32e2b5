package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xcursor"

	"github.com/1broseidon/winbridge/internal/platform"
)

// Glyph indices in the core "cursor" font (X11/cursorfont.h).
const (
	glyphXCursor           = 0
	glyphBottomLeftCorner  = 12
	glyphBottomRightCorner = 14
	glyphBottomSide        = 16
	glyphCrosshair         = 34
	glyphFleur             = 52
	glyphHand1             = 58
	glyphHand2             = 60
	glyphLeftPtr           = 68
	glyphLeftSide          = 70
	glyphPlus              = 90
	glyphQuestionArrow     = 92
	glyphRightSide         = 96
	glyphSBHDoubleArrow    = 108
	glyphSBVDoubleArrow    = 116
	glyphSizing            = 120
	glyphTopLeftCorner     = 134
	glyphTopRightCorner    = 136
	glyphTopSide           = 138
	glyphWatch             = 150
	glyphXTerm             = 152
)

var cursorGlyphs = map[platform.CursorIcon]uint16{
	platform.CursorDefault:      glyphLeftPtr,
	platform.CursorContextMenu:  glyphLeftPtr,
	platform.CursorHelp:         glyphQuestionArrow,
	platform.CursorPointer:      glyphHand2,
	platform.CursorProgress:     glyphWatch,
	platform.CursorWait:         glyphWatch,
	platform.CursorCell:         glyphPlus,
	platform.CursorCrosshair:    glyphCrosshair,
	platform.CursorText:         glyphXTerm,
	platform.CursorVerticalText: glyphXTerm,
	platform.CursorAlias:        glyphLeftPtr,
	platform.CursorCopy:         glyphLeftPtr,
	platform.CursorMove:         glyphFleur,
	platform.CursorNoDrop:       glyphXCursor,
	platform.CursorNotAllowed:   glyphXCursor,
	platform.CursorGrab:         glyphHand1,
	platform.CursorGrabbing:     glyphFleur,
	platform.CursorEResize:      glyphRightSide,
	platform.CursorNResize:      glyphTopSide,
	platform.CursorNeResize:     glyphTopRightCorner,
	platform.CursorNwResize:     glyphTopLeftCorner,
	platform.CursorSResize:      glyphBottomSide,
	platform.CursorSeResize:     glyphBottomRightCorner,
	platform.CursorSwResize:     glyphBottomLeftCorner,
	platform.CursorWResize:      glyphLeftSide,
	platform.CursorEwResize:     glyphSBHDoubleArrow,
	platform.CursorNsResize:     glyphSBVDoubleArrow,
	platform.CursorNeswResize:   glyphSizing,
	platform.CursorNwseResize:   glyphSizing,
	platform.CursorColResize:    glyphSBHDoubleArrow,
	platform.CursorRowResize:    glyphSBVDoubleArrow,
	platform.CursorAllScroll:    glyphFleur,
	platform.CursorZoomIn:       glyphPlus,
	platform.CursorZoomOut:      glyphPlus,
}

// cursorGlyph returns the core font glyph closest to icon.
func cursorGlyph(icon platform.CursorIcon) uint16 {
	if glyph, ok := cursorGlyphs[icon]; ok {
		return glyph
	}
	return glyphLeftPtr
}

func createCursor(xu *xgbutil.XUtil, icon platform.CursorIcon) (xproto.Cursor, error) {
	return xcursor.CreateCursor(xu, cursorGlyph(icon))
}
