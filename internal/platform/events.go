package platform

// DeviceID identifies an input device. Zero means unknown.
type DeviceID int64

// WindowEvent is a raw event delivered by the native loop for one window.
type WindowEvent interface {
	windowEvent()
}

// SurfaceSizeWriter lets a scale-factor handler pick the new surface size.
type SurfaceSizeWriter interface {
	RequestSurfaceSize(size PhysicalSize) error
}

type (
	SurfaceResized struct{ Size PhysicalSize }
	Moved          struct{ Position PhysicalPosition }
	CloseRequested struct{}
	Destroyed      struct{}
	RedrawRequested struct{}
	Focused        struct{ Focused bool }

	KeyboardInput struct {
		DeviceID    DeviceID
		Event       KeyEvent
		IsSynthetic bool
	}

	ModifiersChanged struct{ Modifiers Modifiers }

	Ime struct {
		Kind ImeKind
		Text string
	}

	PointerMoved struct {
		DeviceID DeviceID
		Position PointerPosition
		Primary  bool
	}
	PointerEntered struct{ DeviceID DeviceID }
	PointerLeft    struct{ DeviceID DeviceID }

	MouseWheel struct {
		DeviceID DeviceID
		Delta    ScrollDelta
		Phase    TouchPhase
	}

	PointerButton struct {
		DeviceID DeviceID
		State    ElementState
		Position PointerPosition
		Primary  bool
		Button   ButtonSource
	}

	ScaleFactorChanged struct {
		ScaleFactor float64
		Writer      SurfaceSizeWriter
	}

	DroppedFile          struct{ Path string }
	HoveredFile          struct{ Path string }
	HoveredFileCancelled struct{}
)

// ImeKind tags Ime events.
type ImeKind uint8

const (
	ImeEnabled ImeKind = iota
	ImePreedit
	ImeCommit
	ImeDisabled
)

func (SurfaceResized) windowEvent()       {}
func (Moved) windowEvent()                {}
func (CloseRequested) windowEvent()       {}
func (Destroyed) windowEvent()            {}
func (RedrawRequested) windowEvent()      {}
func (Focused) windowEvent()              {}
func (KeyboardInput) windowEvent()        {}
func (ModifiersChanged) windowEvent()     {}
func (Ime) windowEvent()                  {}
func (PointerMoved) windowEvent()         {}
func (PointerEntered) windowEvent()       {}
func (PointerLeft) windowEvent()          {}
func (MouseWheel) windowEvent()           {}
func (PointerButton) windowEvent()        {}
func (ScaleFactorChanged) windowEvent()   {}
func (DroppedFile) windowEvent()          {}
func (HoveredFile) windowEvent()          {}
func (HoveredFileCancelled) windowEvent() {}
