package backend

import (
	"errors"
	"testing"

	"github.com/1broseidon/winbridge/internal/config"
	"github.com/1broseidon/winbridge/internal/platform"
	"github.com/1broseidon/winbridge/internal/platform/headless"
)

func TestResolveNames(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		display string
		opts    Options
		want    string
	}{
		{"headless", "headless", "", Options{}, Headless},
		{"case insensitive", " Headless ", "", Options{}, Headless},
		{"x11", "x11", "", Options{}, X11},
		{"auto without display", "auto", "", Options{}, Headless},
		{"empty without display", "", "", Options{}, Headless},
		{"auto with env display", "auto", ":0", Options{}, X11},
		{"auto with configured display", "auto", "", Options{Display: ":1"}, X11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISPLAY", tt.display)
			factory, got, err := Resolve(tt.input, tt.opts)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.input, err)
			}
			if factory == nil {
				t.Fatal("Resolve() returned nil factory")
			}
			if got != tt.want {
				t.Fatalf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	_, _, err := Resolve("wayland", Options{})
	if !errors.Is(err, platform.ErrUnknownBackend) {
		t.Fatalf("Resolve(wayland) error = %v, want ErrUnknownBackend", err)
	}
}

func TestHeadlessFactoryScale(t *testing.T) {
	factory, _, err := Resolve(Headless, Options{ScaleFactor: 2})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	loop, err := factory()
	if err != nil {
		t.Fatalf("factory() error: %v", err)
	}
	if _, ok := loop.(*headless.Loop); !ok {
		t.Fatalf("factory() = %T, want *headless.Loop", loop)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display = ":3"
	cfg.XAuthority = "/tmp/xauth"
	cfg.ScaleFactor = 1.5

	opts := OptionsFromConfig(cfg, nil)
	if opts.Display != ":3" || opts.XAuthority != "/tmp/xauth" || opts.ScaleFactor != 1.5 {
		t.Fatalf("OptionsFromConfig() = %+v", opts)
	}
}
