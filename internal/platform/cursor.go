package platform

// CursorIcon names a system cursor shape.
type CursorIcon uint32

const (
	CursorDefault CursorIcon = iota
	CursorContextMenu
	CursorHelp
	CursorPointer
	CursorProgress
	CursorWait
	CursorCell
	CursorCrosshair
	CursorText
	CursorVerticalText
	CursorAlias
	CursorCopy
	CursorMove
	CursorNoDrop
	CursorNotAllowed
	CursorGrab
	CursorGrabbing
	CursorEResize
	CursorNResize
	CursorNeResize
	CursorNwResize
	CursorSResize
	CursorSeResize
	CursorSwResize
	CursorWResize
	CursorEwResize
	CursorNsResize
	CursorNeswResize
	CursorNwseResize
	CursorColResize
	CursorRowResize
	CursorAllScroll
	CursorZoomIn
	CursorZoomOut
	cursorCount
)

var cursorNames = [...]string{
	"default", "context-menu", "help", "pointer", "progress", "wait", "cell",
	"crosshair", "text", "vertical-text", "alias", "copy", "move", "no-drop",
	"not-allowed", "grab", "grabbing", "e-resize", "n-resize", "ne-resize",
	"nw-resize", "s-resize", "se-resize", "sw-resize", "w-resize", "ew-resize",
	"ns-resize", "nesw-resize", "nwse-resize", "col-resize", "row-resize",
	"all-scroll", "zoom-in", "zoom-out",
}

// CursorIconFromCode maps a foreign numeric value to an icon; unknown
// values fall back to CursorDefault.
func CursorIconFromCode(code uint32) CursorIcon {
	if code >= uint32(cursorCount) {
		return CursorDefault
	}
	return CursorIcon(code)
}

// String returns the CSS cursor name.
func (c CursorIcon) String() string {
	if c >= cursorCount {
		return cursorNames[CursorDefault]
	}
	return cursorNames[c]
}
