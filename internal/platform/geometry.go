package platform

import "math"

// WindowID is the native loop's own surface identity.
type WindowID uint64

// PhysicalSize is a size in device pixels.
type PhysicalSize struct {
	Width  uint32
	Height uint32
}

// IsZero reports whether both dimensions are zero. Some platforms report
// 0x0 while a window is minimized.
func (s PhysicalSize) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// ToLogical divides by the scale factor.
func (s PhysicalSize) ToLogical(scaleFactor float64) LogicalSize {
	scaleFactor = validScale(scaleFactor)
	return LogicalSize{
		Width:  float64(s.Width) / scaleFactor,
		Height: float64(s.Height) / scaleFactor,
	}
}

// LogicalSize is a size in scale-independent units.
type LogicalSize struct {
	Width  float64
	Height float64
}

// ToPhysical multiplies by the scale factor and rounds to whole pixels.
func (s LogicalSize) ToPhysical(scaleFactor float64) PhysicalSize {
	scaleFactor = validScale(scaleFactor)
	return PhysicalSize{
		Width:  roundPixel(s.Width * scaleFactor),
		Height: roundPixel(s.Height * scaleFactor),
	}
}

// PhysicalPosition is an integer position in device pixels, used for
// window placement.
type PhysicalPosition struct {
	X int32
	Y int32
}

// PointerPosition is a sub-pixel pointer position relative to a surface.
type PointerPosition struct {
	X float64
	Y float64
}

func validScale(scaleFactor float64) float64 {
	if scaleFactor <= 0 || math.IsNaN(scaleFactor) || math.IsInf(scaleFactor, 0) {
		return 1
	}
	return scaleFactor
}

func roundPixel(v float64) uint32 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(math.Round(v))
}
