package x11

import (
	"fmt"
	"math"

	"github.com/BurntSushi/xgb/randr"

	"github.com/1broseidon/winbridge/internal/platform"
)

// Monitor represents a physical display
type Monitor struct {
	ID       int
	Name     string
	X        int
	Y        int
	Width    int
	Height   int
	MmWidth  int
	MmHeight int
	Primary  bool
}

// ScaleFactor derives a scale from the monitor's physical width, in
// quarter steps relative to 96 DPI. Unknown physical sizes give 1.
func (m Monitor) ScaleFactor() float64 {
	return scaleForDPI(m.Width, m.MmWidth)
}

// Platform converts m, using override as the scale factor when positive.
func (m Monitor) Platform(override float64) platform.Monitor {
	scale := m.ScaleFactor()
	if override > 0 {
		scale = override
	}
	return platform.Monitor{
		Name:        m.Name,
		Position:    platform.PhysicalPosition{X: int32(m.X), Y: int32(m.Y)},
		Size:        platform.PhysicalSize{Width: uint32(m.Width), Height: uint32(m.Height)},
		ScaleFactor: scale,
		Primary:     m.Primary,
	}
}

func scaleForDPI(widthPx, widthMm int) float64 {
	if widthPx <= 0 || widthMm <= 0 {
		return 1
	}
	dpi := float64(widthPx) * 25.4 / float64(widthMm)
	scale := math.Round(dpi/96*4) / 4
	// Implausible physical sizes come from projectors and broken EDIDs.
	if scale < 1 || scale > 8 {
		return 1
	}
	return scale
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = reply.Output
	}

	var monitors []Monitor

	// Query each CRTC for active monitors
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		mon := Monitor{
			ID:      i,
			Name:    fmt.Sprintf("Monitor%d", i),
			X:       int(crtcInfo.X),
			Y:       int(crtcInfo.Y),
			Width:   int(crtcInfo.Width),
			Height:  int(crtcInfo.Height),
			Primary: crtcInfo.Outputs[0] == primary,
		}
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			mon.Name = string(outputInfo.Name)
			mon.MmWidth = int(outputInfo.MmWidth)
			mon.MmHeight = int(outputInfo.MmHeight)
		}

		monitors = append(monitors, mon)
	}

	if len(monitors) > 0 && primary == 0 {
		monitors[0].Primary = true
	}
	return monitors, nil
}

// PrimaryMonitor returns the primary monitor, or the first one.
func PrimaryMonitor(monitors []Monitor) (Monitor, bool) {
	for _, m := range monitors {
		if m.Primary {
			return m, true
		}
	}
	if len(monitors) == 0 {
		return Monitor{}, false
	}
	return monitors[0], true
}

// MonitorForRect returns the monitor sharing the largest area with the
// rectangle. A rectangle outside every monitor falls back to the monitor
// containing its center, then to none.
func MonitorForRect(monitors []Monitor, x, y, width, height int) (Monitor, bool) {
	best := -1
	bestArea := 0
	for i, mon := range monitors {
		isect := intersectionSize(mon.X, mon.Y, mon.X+mon.Width, mon.Y+mon.Height, x, y, x+width, y+height)
		if area := isect.w * isect.h; area > bestArea {
			best, bestArea = i, area
		}
	}
	if best >= 0 {
		return monitors[best], true
	}

	cx, cy := x+width/2, y+height/2
	for _, mon := range monitors {
		if cx >= mon.X && cx < mon.X+mon.Width && cy >= mon.Y && cy < mon.Y+mon.Height {
			return mon, true
		}
	}
	return Monitor{}, false
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}
