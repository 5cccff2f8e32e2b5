package platform

// WindowLevel controls stacking relative to other windows.
type WindowLevel int

const (
	WindowLevelNormal WindowLevel = iota
	WindowLevelAlwaysOnTop
)

// WindowAttributes describes a window to be created. It is a value type;
// the With* helpers return modified copies.
type WindowAttributes struct {
	Title       string
	Decorations bool
	Transparent bool
	Resizable   bool
	Maximized   bool
	Visible     bool
	Level       WindowLevel
	// SurfaceSize is the requested inner size in logical units. Nil lets
	// the platform choose.
	SurfaceSize *LogicalSize
	// FullSize extends content under a transparent title bar where the
	// platform supports it and is ignored elsewhere.
	FullSize bool
}

// DefaultWindowAttributes returns a decorated, resizable, visible window
// titled "winbridge".
func DefaultWindowAttributes() WindowAttributes {
	return WindowAttributes{
		Title:       "winbridge",
		Decorations: true,
		Resizable:   true,
		Visible:     true,
		Level:       WindowLevelNormal,
	}
}

func (a WindowAttributes) WithTitle(title string) WindowAttributes {
	a.Title = title
	return a
}

func (a WindowAttributes) WithDecorations(decorations bool) WindowAttributes {
	a.Decorations = decorations
	return a
}

func (a WindowAttributes) WithTransparent(transparent bool) WindowAttributes {
	a.Transparent = transparent
	return a
}

func (a WindowAttributes) WithResizable(resizable bool) WindowAttributes {
	a.Resizable = resizable
	return a
}

func (a WindowAttributes) WithSurfaceSize(size LogicalSize) WindowAttributes {
	a.SurfaceSize = &size
	return a
}

func (a WindowAttributes) WithMaximized(maximized bool) WindowAttributes {
	a.Maximized = maximized
	return a
}

func (a WindowAttributes) WithVisible(visible bool) WindowAttributes {
	a.Visible = visible
	return a
}

// WithAlwaysOnTop switches between the AlwaysOnTop and Normal levels.
func (a WindowAttributes) WithAlwaysOnTop(onTop bool) WindowAttributes {
	if onTop {
		a.Level = WindowLevelAlwaysOnTop
	} else {
		a.Level = WindowLevelNormal
	}
	return a
}

func (a WindowAttributes) WithFullSize(fullSize bool) WindowAttributes {
	a.FullSize = fullSize
	return a
}
