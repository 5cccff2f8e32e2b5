package platform

import "testing"

func TestLogicalToPhysicalRounds(t *testing.T) {
	tests := []struct {
		name  string
		in    LogicalSize
		scale float64
		want  PhysicalSize
	}{
		{name: "identity", in: LogicalSize{800, 600}, scale: 1, want: PhysicalSize{800, 600}},
		{name: "double", in: LogicalSize{400, 300}, scale: 2, want: PhysicalSize{800, 600}},
		{name: "fractional", in: LogicalSize{101, 33}, scale: 1.5, want: PhysicalSize{152, 50}},
		{name: "invalid scale treated as one", in: LogicalSize{10, 20}, scale: 0, want: PhysicalSize{10, 20}},
		{name: "negative clamps", in: LogicalSize{-5, 7}, scale: 1, want: PhysicalSize{0, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.ToPhysical(tt.scale); got != tt.want {
				t.Fatalf("ToPhysical(%v) = %+v, want %+v", tt.scale, got, tt.want)
			}
		})
	}
}

func TestScaleRoundTrip(t *testing.T) {
	size := PhysicalSize{Width: 1600, Height: 1200}
	got := size.ToLogical(2).ToPhysical(1)
	if got != (PhysicalSize{800, 600}) {
		t.Fatalf("round trip = %+v, want 800x600", got)
	}
	if !(PhysicalSize{}).IsZero() {
		t.Fatal("zero size not reported as zero")
	}
}

func TestWindowAttributesBuilders(t *testing.T) {
	base := DefaultWindowAttributes()
	got := base.WithTitle("demo").
		WithDecorations(false).
		WithAlwaysOnTop(true).
		WithSurfaceSize(LogicalSize{Width: 640, Height: 480})

	if base.Title != "winbridge" || base.SurfaceSize != nil {
		t.Fatalf("builder mutated receiver: %+v", base)
	}
	if got.Title != "demo" || got.Decorations || got.Level != WindowLevelAlwaysOnTop {
		t.Fatalf("unexpected attributes: %+v", got)
	}
	if got.SurfaceSize == nil || *got.SurfaceSize != (LogicalSize{640, 480}) {
		t.Fatalf("surface size = %v", got.SurfaceSize)
	}
	if got.WithAlwaysOnTop(false).Level != WindowLevelNormal {
		t.Fatal("WithAlwaysOnTop(false) did not restore normal level")
	}
}

func TestCursorIconFromCode(t *testing.T) {
	if CursorIconFromCode(uint32(CursorText)) != CursorText {
		t.Fatal("known code not preserved")
	}
	if CursorIconFromCode(9999) != CursorDefault {
		t.Fatal("unknown code did not fall back to default")
	}
	if CursorNwseResize.String() != "nwse-resize" {
		t.Fatalf("String() = %q", CursorNwseResize.String())
	}
}
