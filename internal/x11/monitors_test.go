package x11

import "testing"

func TestScaleForDPI(t *testing.T) {
	tests := []struct {
		name     string
		px, mm   int
		expected float64
	}{
		{"96 dpi", 1920, 508, 1},
		{"192 dpi", 3840, 508, 2},
		{"144 dpi", 2880, 508, 1.5},
		{"unknown physical size", 1920, 0, 1},
		{"low dpi clamps to one", 1024, 600, 1},
		{"implausible", 3840, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scaleForDPI(tt.px, tt.mm); got != tt.expected {
				t.Fatalf("scaleForDPI(%d, %d) = %v, want %v", tt.px, tt.mm, got, tt.expected)
			}
		})
	}
}

func TestMonitorForRect(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Name: "left", X: 0, Y: 0, Width: 1920, Height: 1080},
		{ID: 1, Name: "right", X: 1920, Y: 0, Width: 2560, Height: 1440, Primary: true},
	}

	tests := []struct {
		name       string
		x, y, w, h int
		want       string
		ok         bool
	}{
		{"inside left", 100, 100, 400, 300, "left", true},
		{"mostly right", 1800, 100, 800, 600, "right", true},
		{"mostly left", 1500, 100, 800, 600, "left", true},
		{"outside", -5000, -5000, 10, 10, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon, ok := MonitorForRect(monitors, tt.x, tt.y, tt.w, tt.h)
			if ok != tt.ok || mon.Name != tt.want {
				t.Fatalf("MonitorForRect() = %q, %v; want %q, %v", mon.Name, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPrimaryMonitor(t *testing.T) {
	if _, ok := PrimaryMonitor(nil); ok {
		t.Fatal("PrimaryMonitor(nil) reported a monitor")
	}
	monitors := []Monitor{{Name: "a"}, {Name: "b", Primary: true}}
	if mon, _ := PrimaryMonitor(monitors); mon.Name != "b" {
		t.Fatalf("PrimaryMonitor() = %q, want b", mon.Name)
	}
	if mon, _ := PrimaryMonitor(monitors[:1]); mon.Name != "a" {
		t.Fatalf("PrimaryMonitor() fallback = %q, want a", mon.Name)
	}
}

func TestMonitorPlatform(t *testing.T) {
	m := Monitor{Name: "DP-1", X: 10, Y: 20, Width: 3840, Height: 2160, MmWidth: 508, Primary: true}

	p := m.Platform(0)
	if p.ScaleFactor != 2 || p.Size.Width != 3840 || p.Position.Y != 20 || !p.Primary {
		t.Fatalf("Platform(0) = %+v", p)
	}
	if got := m.Platform(1.25).ScaleFactor; got != 1.25 {
		t.Fatalf("override scale = %v, want 1.25", got)
	}
}
